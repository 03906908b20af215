// Package commands defines the arplacectl CLI.
//
// Commands
//
//   - init      Write a scenario and scene metadata template
//   - check     Validate a scenario and print what it resolves to
//   - simulate  Run a scenario against the simulated platform
//
// The root command configures logging and loads the scenario named by
// --config before any subcommand runs.
package commands
