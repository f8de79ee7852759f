package constant

import (
	"os"
	"path/filepath"

	"github.com/apiprobe-dev/apiprobe/pkg/fs"
)

const (
	// EnvAPIKey holds the provider API key
	EnvAPIKey = "OPENAI_API_KEY"

	// EnvAPIBase overrides the default API base URL
	EnvAPIBase = "OPENAI_API_BASE"

	// EnvConfigDir overrides the default configuration directory
	EnvConfigDir = "APIPROBE_CONFIG_DIR"
)

const (
	// DefaultAPIBase is the reference endpoint used when no base URL is configured
	DefaultAPIBase = "https://api.openai.com/v1"

	// DefaultRequestTimeout is the timeout for probe HTTP requests in seconds
	DefaultRequestTimeout = 30

	// DiagnoseTimeout is the per-tier timeout for endpoint diagnosis in seconds
	DiagnoseTimeout = 10

	// ModelFetchTimeout is the timeout for fetching models from the provider API in seconds
	ModelFetchTimeout = 30

	// ProbeMaxTokens caps completion length for capability probes
	ProbeMaxTokens = 10
)

const ConfigDirName = ".apiprobe"

// ProfilesFileBase is the provider profiles file name without extension;
// .yaml, .yml, and .json are probed in that order
const ProfilesFileBase = "profiles"

// GetConfigDir returns the config directory path (default: ~/.apiprobe)
func GetConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		if expanded, err := fs.ExpandConfigDir(dir); err == nil {
			return expanded
		}
	}
	homeDir, err := fs.GetUserPath()
	if err != nil {
		// Fallback to current directory if home directory is not accessible
		return ConfigDirName
	}
	return filepath.Join(homeDir, ConfigDirName)
}
