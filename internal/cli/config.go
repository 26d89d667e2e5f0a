package cli

import (
	"os"
	"path/filepath"

	"github.com/xxxsen/retrolist/internal/config"
)

const (
	defaultConfigName = "config.json"
	systemConfigPath  = "/etc/retrolist/config.json"
)

// LoadConfig resolves the configuration file: the explicit path, then
// ./config.json, then the system path.
func LoadConfig(explicit string) (*config.Config, error) {
	searchPaths := make([]string, 0, 3)
	if explicit != "" {
		searchPaths = append(searchPaths, explicit)
	}
	if wd, err := os.Getwd(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(wd, defaultConfigName))
	}
	searchPaths = append(searchPaths, systemConfigPath)
	return config.LoadFirst(searchPaths...)
}
