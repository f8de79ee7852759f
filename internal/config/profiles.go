package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/apiprobe-dev/apiprobe/internal/constant"
)

// Profile is a named endpoint credential pair from the profiles file.
type Profile struct {
	Name    string `json:"name" yaml:"name"`
	APIBase string `json:"api_base" yaml:"api_base"`
	APIKey  string `json:"api_key" yaml:"api_key"`
}

type profilesFile struct {
	Profiles []Profile `json:"profiles" yaml:"profiles"`
}

// ProfileStore loads and serves named profiles. The backing file may be
// YAML or JSON; a missing file yields an empty store.
type ProfileStore struct {
	path string

	mu       sync.RWMutex
	profiles map[string]Profile
}

// NewProfileStore loads profiles from dir. It looks for profiles.yaml,
// profiles.yml, then profiles.json, and falls back to an empty store bound
// to the yaml path when none exists.
func NewProfileStore(dir string) (*ProfileStore, error) {
	store := &ProfileStore{
		path:     findProfilesFile(dir),
		profiles: make(map[string]Profile),
	}
	if err := store.Reload(); err != nil {
		return nil, err
	}
	return store, nil
}

// Path returns the profiles file location the store is bound to.
func (ps *ProfileStore) Path() string {
	return ps.path
}

// Reload re-reads the profiles file, replacing the in-memory set.
func (ps *ProfileStore) Reload() error {
	data, err := os.ReadFile(ps.path)
	if err != nil {
		if os.IsNotExist(err) {
			ps.mu.Lock()
			ps.profiles = make(map[string]Profile)
			ps.mu.Unlock()
			return nil
		}
		return fmt.Errorf("failed to read profiles file: %w", err)
	}

	parsed, err := parseProfiles(ps.path, data)
	if err != nil {
		return err
	}

	profiles := make(map[string]Profile, len(parsed.Profiles))
	for _, p := range parsed.Profiles {
		if p.Name == "" {
			return fmt.Errorf("profile with empty name in %s", ps.path)
		}
		if _, exists := profiles[p.Name]; exists {
			return fmt.Errorf("duplicate profile %q in %s", p.Name, ps.path)
		}
		profiles[p.Name] = p
	}

	ps.mu.Lock()
	ps.profiles = profiles
	ps.mu.Unlock()
	return nil
}

// Get returns the named profile.
func (ps *ProfileStore) Get(name string) (Profile, error) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	profile, ok := ps.profiles[name]
	if !ok {
		names := ps.namesLocked()
		if len(names) == 0 {
			return Profile{}, fmt.Errorf("profile %q not found: no profiles defined in %s", name, ps.path)
		}
		return Profile{}, fmt.Errorf("profile %q not found, available: %s", name, strings.Join(names, ", "))
	}
	return profile, nil
}

// List returns all profiles sorted by name.
func (ps *ProfileStore) List() []Profile {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	profiles := make([]Profile, 0, len(ps.profiles))
	for _, name := range ps.namesLocked() {
		profiles = append(profiles, ps.profiles[name])
	}
	return profiles
}

// Len returns the number of loaded profiles.
func (ps *ProfileStore) Len() int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return len(ps.profiles)
}

func (ps *ProfileStore) namesLocked() []string {
	names := make([]string, 0, len(ps.profiles))
	for name := range ps.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// parseProfiles decodes by extension: .yaml/.yml as YAML, .json as JSON,
// anything else tries YAML then JSON.
func parseProfiles(path string, data []byte) (*profilesFile, error) {
	var parsed profilesFile

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("failed to parse YAML profiles: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("failed to parse JSON profiles: %w", err)
		}
	default:
		if yamlErr := yaml.Unmarshal(data, &parsed); yamlErr != nil {
			if jsonErr := json.Unmarshal(data, &parsed); jsonErr != nil {
				return nil, fmt.Errorf("failed to parse profiles as YAML (%v) or JSON (%v)", yamlErr, jsonErr)
			}
		}
	}

	return &parsed, nil
}

func findProfilesFile(dir string) string {
	for _, base := range []string{
		constant.ProfilesFileBase + ".yaml",
		constant.ProfilesFileBase + ".yml",
		constant.ProfilesFileBase + ".json",
	} {
		candidate := filepath.Join(dir, base)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return filepath.Join(dir, constant.ProfilesFileBase+".yaml")
}
