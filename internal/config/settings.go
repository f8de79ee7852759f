package config

import (
	"fmt"
	"os"
	"time"

	"github.com/apiprobe-dev/apiprobe/internal/constant"
)

// Settings holds the resolved configuration for a probe run.
// Precedence: explicit flags, then the selected profile, then environment
// variables, then built-in defaults.
type Settings struct {
	APIKey  string
	APIBase string
	Timeout time.Duration

	// ProfileName selects a named entry from the profiles file.
	ProfileName string

	// ConfigDir holds the profiles file and the log directory.
	ConfigDir string

	LogFile string
	Verbose bool

	version string
	store   *ProfileStore
}

// NewSettings seeds settings from the environment and defaults.
func NewSettings() *Settings {
	s := &Settings{
		APIKey:    os.Getenv(constant.EnvAPIKey),
		APIBase:   os.Getenv(constant.EnvAPIBase),
		Timeout:   constant.DefaultRequestTimeout * time.Second,
		ConfigDir: constant.GetConfigDir(),
	}
	if s.APIBase == "" {
		s.APIBase = constant.DefaultAPIBase
	}
	return s
}

// ApplyProfile overlays the selected profile onto any value not pinned by an
// explicit flag. Missing profile names are an error; an empty ProfileName is
// a no-op.
func (s *Settings) ApplyProfile(keyFromFlag, baseFromFlag bool) error {
	if s.ProfileName == "" {
		return nil
	}

	store, err := s.Profiles()
	if err != nil {
		return err
	}

	profile, err := store.Get(s.ProfileName)
	if err != nil {
		return err
	}

	if !keyFromFlag && profile.APIKey != "" {
		s.APIKey = profile.APIKey
	}
	if !baseFromFlag && profile.APIBase != "" {
		s.APIBase = profile.APIBase
	}
	return nil
}

// Validate checks that the settings can support API requests.
func (s *Settings) Validate() error {
	if s.APIKey == "" {
		return fmt.Errorf("API key is required: set %s or pass --api-key", constant.EnvAPIKey)
	}
	if s.APIBase == "" {
		return fmt.Errorf("API base URL is required: set %s or pass --api-base", constant.EnvAPIBase)
	}
	return nil
}

// Profiles returns the profile store, loading the profiles file on first use.
func (s *Settings) Profiles() (*ProfileStore, error) {
	if s.store == nil {
		store, err := NewProfileStore(s.ConfigDir)
		if err != nil {
			return nil, err
		}
		s.store = store
	}
	return s.store, nil
}

func (s *Settings) SetVersion(version string) {
	s.version = version
}

func (s *Settings) GetVersion() string {
	return s.version
}
