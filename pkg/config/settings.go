package config

import (
	"strings"
	"sync"
	"time"

	"github.com/arthur-debert/dustup/pkg/errors"
)

const (
	// DefaultCommand is the executable used when advanced.commandPath is empty
	DefaultCommand = "dustc"

	// DefaultCommandTimeout caps a command run when no timeout is configured
	DefaultCommandTimeout = 5000 * time.Millisecond
)

// Settings is the merged configuration snapshot
type Settings struct {
	Advanced Advanced `koanf:"advanced"`
	Library  Library  `koanf:"library"`
	Build    Build    `koanf:"build"`
	Watch    Watch    `koanf:"watch"`
	Logging  Logging  `koanf:"logging"`
}

// Advanced selects and tunes the compile strategy
type Advanced struct {
	UseCommand     bool          `koanf:"useCommand"`
	CommandPath    string        `koanf:"commandPath"`
	CommandTimeout time.Duration `koanf:"commandTimeout"`
}

// Executable returns the configured command path or DefaultCommand
func (a Advanced) Executable() string {
	if strings.TrimSpace(a.CommandPath) == "" {
		return DefaultCommand
	}
	return a.CommandPath
}

// Timeout returns the command timeout, falling back to DefaultCommandTimeout
func (a Advanced) Timeout() time.Duration {
	if a.CommandTimeout <= 0 {
		return DefaultCommandTimeout
	}
	return a.CommandTimeout
}

// Library configures the in-process compiler
type Library struct {
	ScriptPath string `koanf:"scriptPath"`
}

// Build configures file discovery and output mapping
type Build struct {
	Extensions      []string `koanf:"extensions"`
	OutputExtension string   `koanf:"outputExtension"`
	OutDir          string   `koanf:"outDir"`
	Jobs            int      `koanf:"jobs"`
}

// Watch configures watch mode
type Watch struct {
	Debounce time.Duration `koanf:"debounce"`
}

// Logging configures log verbosity
type Logging struct {
	Verbosity int `koanf:"verbosity"`
}

// Validate checks values that would make the tool misbehave
func (s Settings) Validate() error {
	if s.Advanced.CommandTimeout <= 0 {
		return errors.Newf(errors.ErrConfigValid, "advanced.commandTimeout must be positive, got %s", s.Advanced.CommandTimeout)
	}
	if s.Build.Jobs < 1 {
		return errors.Newf(errors.ErrConfigValid, "build.jobs must be at least 1, got %d", s.Build.Jobs)
	}
	if len(s.Build.Extensions) == 0 {
		return errors.New(errors.ErrConfigValid, "build.extensions must not be empty")
	}
	for _, ext := range s.Build.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return errors.Newf(errors.ErrConfigValid, "build.extensions entry %q must start with a dot", ext)
		}
	}
	if !strings.HasPrefix(s.Build.OutputExtension, ".") {
		return errors.Newf(errors.ErrConfigValid, "build.outputExtension %q must start with a dot", s.Build.OutputExtension)
	}
	if s.Watch.Debounce < 0 {
		return errors.Newf(errors.ErrConfigValid, "watch.debounce must not be negative, got %s", s.Watch.Debounce)
	}
	return nil
}

// Provider gives components read access to the current settings.
// Settings is called on every use so a provider may change its answer.
type Provider interface {
	Settings() Settings
}

// Static is a Provider that always returns the same snapshot
type Static Settings

// Settings implements Provider
func (s Static) Settings() Settings {
	return Settings(s)
}

// Live is a Provider whose snapshot can be reloaded while in use
type Live struct {
	mu       sync.RWMutex
	settings Settings
	load     func() (Settings, error)
}

// NewLive loads the initial snapshot with load and keeps load for Reload
func NewLive(load func() (Settings, error)) (*Live, error) {
	settings, err := load()
	if err != nil {
		return nil, err
	}
	return &Live{settings: settings, load: load}, nil
}

// Settings implements Provider
func (l *Live) Settings() Settings {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.settings
}

// Reload replaces the snapshot. On error the previous snapshot is kept.
func (l *Live) Reload() error {
	settings, err := l.load()
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.settings = settings
	l.mu.Unlock()
	return nil
}
