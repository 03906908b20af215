package main

import (
	"fmt"
	"os"

	"github.com/danmuck/arplace/cmd/arplacectl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "arplacectl: %v\n", err)
		os.Exit(1)
	}
}
