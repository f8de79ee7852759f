package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/apiprobe-dev/apiprobe/internal/constant"
)

func writeProfiles(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write profiles file: %v", err)
	}
	return path
}

// TestProfileStore_LoadYAML tests loading a YAML profiles file
func TestProfileStore_LoadYAML(t *testing.T) {
	dir := t.TempDir()
	writeProfiles(t, dir, "profiles.yaml", `
profiles:
  - name: work
    api_base: https://work.example.com/v1
    api_key: sk-work
  - name: local
    api_base: http://localhost:11434/v1
`)

	store, err := NewProfileStore(dir)
	if err != nil {
		t.Fatalf("Failed to create profile store: %v", err)
	}

	if store.Len() != 2 {
		t.Fatalf("Expected 2 profiles, got %d", store.Len())
	}

	profile, err := store.Get("work")
	if err != nil {
		t.Fatalf("Failed to get profile: %v", err)
	}
	if profile.APIBase != "https://work.example.com/v1" {
		t.Errorf("Unexpected APIBase: %s", profile.APIBase)
	}
	if profile.APIKey != "sk-work" {
		t.Errorf("Unexpected APIKey: %s", profile.APIKey)
	}

	// local has no api_key on purpose
	profile, err = store.Get("local")
	if err != nil {
		t.Fatalf("Failed to get profile: %v", err)
	}
	if profile.APIKey != "" {
		t.Errorf("Expected empty APIKey, got %s", profile.APIKey)
	}
}

// TestProfileStore_LoadJSON tests loading a JSON profiles file
func TestProfileStore_LoadJSON(t *testing.T) {
	dir := t.TempDir()
	writeProfiles(t, dir, "profiles.json", `{
  "profiles": [
    {"name": "openai", "api_base": "https://api.openai.com/v1", "api_key": "sk-test"}
  ]
}`)

	store, err := NewProfileStore(dir)
	if err != nil {
		t.Fatalf("Failed to create profile store: %v", err)
	}

	profile, err := store.Get("openai")
	if err != nil {
		t.Fatalf("Failed to get profile: %v", err)
	}
	if profile.APIKey != "sk-test" {
		t.Errorf("Unexpected APIKey: %s", profile.APIKey)
	}
}

// TestProfileStore_MissingFile tests that a missing profiles file yields an empty store
func TestProfileStore_MissingFile(t *testing.T) {
	store, err := NewProfileStore(t.TempDir())
	if err != nil {
		t.Fatalf("Expected no error for missing file, got %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("Expected empty store, got %d profiles", store.Len())
	}

	_, err = store.Get("anything")
	if err == nil {
		t.Fatal("Expected error for unknown profile")
	}
	if !strings.Contains(err.Error(), "no profiles defined") {
		t.Errorf("Unexpected error message: %v", err)
	}
}

// TestProfileStore_UnknownProfileListsAvailable tests the not-found error message
func TestProfileStore_UnknownProfileListsAvailable(t *testing.T) {
	dir := t.TempDir()
	writeProfiles(t, dir, "profiles.yaml", `
profiles:
  - name: beta
  - name: alpha
`)

	store, err := NewProfileStore(dir)
	if err != nil {
		t.Fatalf("Failed to create profile store: %v", err)
	}

	_, err = store.Get("gamma")
	if err == nil {
		t.Fatal("Expected error for unknown profile")
	}
	if !strings.Contains(err.Error(), "alpha, beta") {
		t.Errorf("Expected sorted available names in error, got: %v", err)
	}
}

// TestProfileStore_DuplicateName tests that duplicate profile names are rejected
func TestProfileStore_DuplicateName(t *testing.T) {
	dir := t.TempDir()
	writeProfiles(t, dir, "profiles.yaml", `
profiles:
  - name: same
    api_key: one
  - name: same
    api_key: two
`)

	if _, err := NewProfileStore(dir); err == nil {
		t.Fatal("Expected error for duplicate profile names")
	}
}

// TestProfileStore_EmptyName tests that profiles without a name are rejected
func TestProfileStore_EmptyName(t *testing.T) {
	dir := t.TempDir()
	writeProfiles(t, dir, "profiles.yaml", `
profiles:
  - api_key: sk-anonymous
`)

	if _, err := NewProfileStore(dir); err == nil {
		t.Fatal("Expected error for profile with empty name")
	}
}

// TestProfileStore_Reload tests picking up file changes via Reload
func TestProfileStore_Reload(t *testing.T) {
	dir := t.TempDir()
	path := writeProfiles(t, dir, "profiles.yaml", `
profiles:
  - name: first
`)

	store, err := NewProfileStore(dir)
	if err != nil {
		t.Fatalf("Failed to create profile store: %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("Expected 1 profile, got %d", store.Len())
	}

	if err := os.WriteFile(path, []byte("profiles:\n  - name: first\n  - name: second\n"), 0644); err != nil {
		t.Fatalf("Failed to rewrite profiles file: %v", err)
	}
	if err := store.Reload(); err != nil {
		t.Fatalf("Failed to reload: %v", err)
	}
	if store.Len() != 2 {
		t.Errorf("Expected 2 profiles after reload, got %d", store.Len())
	}
}

// TestProfileStore_PrefersYAMLOverJSON tests file discovery order
func TestProfileStore_PrefersYAMLOverJSON(t *testing.T) {
	dir := t.TempDir()
	writeProfiles(t, dir, "profiles.yaml", "profiles:\n  - name: from-yaml\n")
	writeProfiles(t, dir, "profiles.json", `{"profiles": [{"name": "from-json"}]}`)

	store, err := NewProfileStore(dir)
	if err != nil {
		t.Fatalf("Failed to create profile store: %v", err)
	}
	if _, err := store.Get("from-yaml"); err != nil {
		t.Errorf("Expected YAML file to win: %v", err)
	}
}

// TestNewSettings_EnvironmentSeeding tests environment variable defaults
func TestNewSettings_EnvironmentSeeding(t *testing.T) {
	t.Setenv(constant.EnvAPIKey, "sk-from-env")
	t.Setenv(constant.EnvAPIBase, "https://env.example.com/v1")

	s := NewSettings()
	if s.APIKey != "sk-from-env" {
		t.Errorf("Expected APIKey from environment, got %s", s.APIKey)
	}
	if s.APIBase != "https://env.example.com/v1" {
		t.Errorf("Expected APIBase from environment, got %s", s.APIBase)
	}
	if s.Timeout != constant.DefaultRequestTimeout*time.Second {
		t.Errorf("Unexpected default timeout: %v", s.Timeout)
	}
}

// TestNewSettings_DefaultAPIBase tests the fallback base URL
func TestNewSettings_DefaultAPIBase(t *testing.T) {
	t.Setenv(constant.EnvAPIBase, "")

	s := NewSettings()
	if s.APIBase != constant.DefaultAPIBase {
		t.Errorf("Expected default API base, got %s", s.APIBase)
	}
}

// TestSettings_ApplyProfile tests profile overlay and flag pinning
func TestSettings_ApplyProfile(t *testing.T) {
	dir := t.TempDir()
	writeProfiles(t, dir, "profiles.yaml", `
profiles:
  - name: work
    api_base: https://work.example.com/v1
    api_key: sk-work
  - name: keyless
    api_base: https://keyless.example.com/v1
`)

	s := &Settings{
		APIKey:      "sk-initial",
		APIBase:     "https://initial.example.com/v1",
		ConfigDir:   dir,
		ProfileName: "work",
	}
	if err := s.ApplyProfile(false, false); err != nil {
		t.Fatalf("Failed to apply profile: %v", err)
	}
	if s.APIKey != "sk-work" {
		t.Errorf("Expected profile APIKey, got %s", s.APIKey)
	}
	if s.APIBase != "https://work.example.com/v1" {
		t.Errorf("Expected profile APIBase, got %s", s.APIBase)
	}

	// A key passed via flag wins over the profile
	s = &Settings{
		APIKey:      "sk-flag",
		APIBase:     "https://initial.example.com/v1",
		ConfigDir:   dir,
		ProfileName: "work",
	}
	if err := s.ApplyProfile(true, false); err != nil {
		t.Fatalf("Failed to apply profile: %v", err)
	}
	if s.APIKey != "sk-flag" {
		t.Errorf("Expected flag APIKey to be kept, got %s", s.APIKey)
	}
	if s.APIBase != "https://work.example.com/v1" {
		t.Errorf("Expected profile APIBase, got %s", s.APIBase)
	}

	// Empty profile fields keep the current values
	s = &Settings{
		APIKey:      "sk-initial",
		APIBase:     "https://initial.example.com/v1",
		ConfigDir:   dir,
		ProfileName: "keyless",
	}
	if err := s.ApplyProfile(false, false); err != nil {
		t.Fatalf("Failed to apply profile: %v", err)
	}
	if s.APIKey != "sk-initial" {
		t.Errorf("Expected initial APIKey to be kept, got %s", s.APIKey)
	}
	if s.APIBase != "https://keyless.example.com/v1" {
		t.Errorf("Expected profile APIBase, got %s", s.APIBase)
	}
}

// TestSettings_ApplyProfile_Unknown tests the error for missing profiles
func TestSettings_ApplyProfile_Unknown(t *testing.T) {
	s := &Settings{ConfigDir: t.TempDir(), ProfileName: "nope"}
	if err := s.ApplyProfile(false, false); err == nil {
		t.Fatal("Expected error for unknown profile")
	}
}

// TestSettings_ApplyProfile_NoProfileName tests the empty name no-op
func TestSettings_ApplyProfile_NoProfileName(t *testing.T) {
	s := &Settings{APIKey: "sk-initial", ConfigDir: t.TempDir()}
	if err := s.ApplyProfile(false, false); err != nil {
		t.Fatalf("Expected no-op, got %v", err)
	}
	if s.APIKey != "sk-initial" {
		t.Errorf("Expected settings unchanged, got %s", s.APIKey)
	}
}

// TestSettings_Validate tests required field validation
func TestSettings_Validate(t *testing.T) {
	s := &Settings{APIBase: "https://api.openai.com/v1"}
	err := s.Validate()
	if err == nil {
		t.Fatal("Expected error for missing API key")
	}
	if !strings.Contains(err.Error(), constant.EnvAPIKey) {
		t.Errorf("Expected error to name %s, got: %v", constant.EnvAPIKey, err)
	}

	s.APIKey = "sk-test"
	if err := s.Validate(); err != nil {
		t.Errorf("Expected valid settings, got %v", err)
	}
}
