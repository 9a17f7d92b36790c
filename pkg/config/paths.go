// pkg/config/paths.go

package config

import (
	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/shared"
	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/xdg"
)

// ConfigFileName is looked up under $XDG_CONFIG_HOME/fslogger/.
const ConfigFileName = "config.yaml"

// DefaultConfigPath is where Load looks when no file is given.
func DefaultConfigPath() string {
	return xdg.XDGConfigPath(shared.AppID, ConfigFileName)
}
