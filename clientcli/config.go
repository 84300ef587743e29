package clientcli

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultEndpoint is the default server endpoint URL.
const DefaultEndpoint = "http://localhost:8083"

// Environment variables consulted by Resolve.
const (
	EnvConfig   = "STASH_CONFIG"
	EnvProfile  = "STASH_PROFILE"
	EnvEndpoint = "STASH_ENDPOINT"
	EnvToken    = "STASH_TOKEN"
)

// Profile is a saved server. Directory and Safe are the upload defaults
// used when the upload command does not set them itself.
type Profile struct {
	Name      string `yaml:"-"`
	Endpoint  string `yaml:"endpoint"`
	Token     string `yaml:"token,omitempty"`
	Directory string `yaml:"directory,omitempty"`
	Safe      bool   `yaml:"safe,omitempty"`
}

// Config returns the connection settings and upload defaults of p.
func (p Profile) Config() *Config {
	return &Config{
		Endpoint:  p.Endpoint,
		Token:     p.Token,
		Directory: p.Directory,
		Safe:      p.Safe,
	}
}

// ProfileFile is the on-disk profile store, keyed by profile name.
//
//	default: prod
//	profiles:
//	  prod:
//	    endpoint: https://cdn.example.com
//	    token: s3cret
//	    directory: docs
//	    safe: true
type ProfileFile struct {
	Default  string             `yaml:"default,omitempty"`
	Profiles map[string]Profile `yaml:"profiles"`
}

// Names returns the profile names in sorted order.
func (f *ProfileFile) Names() []string {
	return slices.Sorted(maps.Keys(f.Profiles))
}

// List returns every profile, sorted by name.
func (f *ProfileFile) List() []Profile {
	names := f.Names()
	out := make([]Profile, len(names))
	for i, name := range names {
		out[i] = f.Profiles[name]
		out[i].Name = name
	}
	return out
}

// DefaultName returns the default profile, or the first name when the
// recorded default is unset or stale. It is empty only when there are no profiles.
func (f *ProfileFile) DefaultName() string {
	if _, ok := f.Profiles[f.Default]; ok {
		return f.Default
	}
	if names := f.Names(); len(names) > 0 {
		return names[0]
	}
	return ""
}

// Lookup returns the named profile, or the default one when name is empty.
func (f *ProfileFile) Lookup(name string) (Profile, error) {
	if len(f.Profiles) == 0 {
		return Profile{}, ErrNoProfiles
	}
	if name == "" {
		name = f.DefaultName()
	}
	p, ok := f.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	p.Name = name
	return p, nil
}

// Put stores p under p.Name, replacing any profile of that name, and reports
// whether one was replaced. The first profile stored becomes the default.
func (f *ProfileFile) Put(p Profile) (bool, error) {
	if p.Name == "" {
		return false, ErrProfileNameRequired
	}
	if err := ValidateDirectory(p.Directory); err != nil {
		return false, err
	}
	if f.Profiles == nil {
		f.Profiles = make(map[string]Profile)
	}
	name := p.Name
	p.Name = "" // the map key holds it
	_, replaced := f.Profiles[name]
	f.Profiles[name] = p
	if f.Default == "" {
		f.Default = name
	}
	return replaced, nil
}

// ValidateDirectory checks that dir can be sent as an upload directory: empty
// for the storage root, otherwise a single path segment.
func ValidateDirectory(dir string) error {
	if dir == "" {
		return nil
	}
	if dir == "." || dir == ".." || strings.ContainsAny(dir, "/\\") {
		return fmt.Errorf("%w: %q", ErrInvalidDirectory, dir)
	}
	return nil
}

// Remove deletes the named profile. Removing the default clears it.
func (f *ProfileFile) Remove(name string) error {
	if _, ok := f.Profiles[name]; !ok {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	delete(f.Profiles, name)
	if f.Default == name {
		f.Default = ""
	}
	return nil
}

// Use makes the named profile the default.
func (f *ProfileFile) Use(name string) error {
	if _, ok := f.Profiles[name]; !ok {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	f.Default = name
	return nil
}

// Save writes the file to path with mode 0600. The new contents are written
// to a sibling temp file and renamed into place, so a reader never sees a
// partial file.
func (f *ProfileFile) Save(path string) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal profiles: %w", err)
	}

	dir := filepath.Dir(filepath.Clean(path))
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write profiles: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod profiles: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close profiles: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace config file: %w", err)
	}
	return nil
}

// LoadProfileFile reads the profile file at path. A missing file yields an
// error matching fs.ErrNotExist.
func LoadProfileFile(path string) (*ProfileFile, error) {
	data, err := os.ReadFile(filepath.Clean(path)) //#nosec G304 -- path is user-provided config file
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var f ProfileFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return &f, nil
}

// DefaultConfigPath returns the default config file path (~/.stash/config.yaml).
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".stash", "config.yaml")
}

// Config holds resolved client configuration for a single server.
// Directory and Safe carry the selected profile's upload defaults; the
// Client itself ignores them.
type Config struct {
	Endpoint  string
	Token     string
	Directory string
	Safe      bool
}

// WithDefaults returns a copy of the config with default values applied.
// If Endpoint is empty, it defaults to DefaultEndpoint.
func (c *Config) WithDefaults() *Config {
	cfg := *c
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	return &cfg
}

// ValidateWithAuth checks that an upload token is set.
func (c *Config) ValidateWithAuth() error {
	if c.Token == "" {
		return ErrTokenRequired
	}
	return nil
}

// Sources are the inputs Resolve combines.
type Sources struct {
	ConfigPath string // --config; falls back to STASH_CONFIG, then DefaultConfigPath
	Profile    string // --profile; falls back to STASH_PROFILE, then the file's default
	Endpoint   string // --endpoint
	Token      string // --token
}

// Resolve builds the client config. The selected profile is applied first,
// then STASH_ENDPOINT and STASH_TOKEN, then the endpoint and token in src.
// Empty values never override. getenv is usually os.Getenv.
//
// A missing profile file is only an error when the file or a profile was
// asked for explicitly.
func Resolve(src Sources, getenv func(string) string) (*Config, error) {
	path, explicitPath := src.ConfigPath, src.ConfigPath != ""
	if path == "" {
		path = getenv(EnvConfig)
		explicitPath = path != ""
	}
	if path == "" {
		path = DefaultConfigPath()
	}

	name := src.Profile
	if name == "" {
		name = getenv(EnvProfile)
	}

	cfg := &Config{}
	if path != "" {
		p, err := selectProfile(path, name, explicitPath)
		if err != nil {
			return nil, err
		}
		if p != nil {
			cfg = p.Config()
		}
	}

	overlay(cfg, getenv(EnvEndpoint), getenv(EnvToken))
	overlay(cfg, src.Endpoint, src.Token)
	return cfg, nil
}

// selectProfile returns the profile Resolve starts from, or nil when there is none to use.
func selectProfile(path, name string, explicitPath bool) (*Profile, error) {
	file, err := LoadProfileFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicitPath && name == "":
		return nil, nil
	case errors.Is(err, fs.ErrNotExist) && !explicitPath:
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	case err != nil:
		return nil, err
	}

	p, err := file.Lookup(name)
	switch {
	case err == nil:
		return &p, nil
	case errors.Is(err, ErrNoProfiles) && name == "":
		return nil, nil
	default:
		return nil, err
	}
}

func overlay(cfg *Config, endpoint, token string) {
	if endpoint != "" {
		cfg.Endpoint = endpoint
	}
	if token != "" {
		cfg.Token = token
	}
}
