package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "scenario":
		return scenarioTemplate, nil
	case "meta":
		return metaTemplate, nil
	default:
		return "", fmt.Errorf("unknown template kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("file already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const scenarioTemplate = `[session]
required = ["hit-test"]
optional = ["local-floor", "bounded-floor"]
reference_spaces = ["local-floor", "local", "viewer"]
placement_lift = 0.0

[asset]
meta = "scene.meta.json"

[admin]
# addr = "127.0.0.1:9300"
# cors_origins = ["http://localhost:3000"]

[platform]
supported = true
deny_session = false
features = ["hit-test", "local-floor"]
spaces = ["local-floor", "local", "viewer"]
hit_test = true
latency = "5ms"
frame_interval = "16ms"

# scan
[[frames]]
repeat = 5

# surface found, place
[[frames]]
hit = [0.0, 0.0, -1.5]
repeat = 5
tap = true

# move
[[frames]]
hit = [0.6, 0.0, -2.0]
yaw = 0.8
repeat = 5
tap = true

# tracking lost
[[frames]]
tracked = false
repeat = 3
tap = true
`

const metaTemplate = `{
  "Objects": [
    {
      "Name": "chair",
      "InitialScale": [0.5, 0.5, 0.5]
    }
  ]
}
`
