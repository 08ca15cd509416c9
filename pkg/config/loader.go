package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/dustup/pkg/errors"
)

// EnvPrefix is the prefix of environment variables read into the config
const EnvPrefix = "DUSTUP_"

// ProjectConfigFiles are tried in order in the project directory; the first
// one that exists is loaded.
var ProjectConfigFiles = []string{".dustup.toml", "dustup.toml", "dustup.yaml", "dustup.yml"}

// Options controls which layers Load reads
type Options struct {
	// ProjectDir is searched for a project config file. Empty means ".".
	ProjectDir string

	// UserConfigFile overrides the default user config location
	UserConfigFile string

	// SkipUserConfig disables the user config layer
	SkipUserConfig bool

	// SkipEnv disables the DUSTUP_* environment layer
	SkipEnv bool

	// Overrides are dotted keys applied last, typically from CLI flags
	Overrides map[string]interface{}
}

// Load merges all configuration layers and returns a validated snapshot.
// Layers, later wins: embedded defaults, user config, project config,
// DUSTUP_* environment, overrides.
func Load(opts Options) (Settings, error) {
	k := koanf.New(".")

	// 1. Load system defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return Settings{}, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}
	canonical := canonicalKeys(k.Keys())

	// 2. Load user config if it exists
	if !opts.SkipUserConfig {
		userPath := opts.UserConfigFile
		if userPath == "" {
			userPath = UserConfigPath()
		}
		if err := loadFileIfExists(k, userPath); err != nil {
			return Settings{}, err
		}
	}

	// 3. Load project config if it exists
	if projectPath := ProjectConfigPath(opts.ProjectDir); projectPath != "" {
		if err := loadFileIfExists(k, projectPath); err != nil {
			return Settings{}, err
		}
	}

	// 4. Load env vars
	if !opts.SkipEnv {
		err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
			key := strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
			return canonical[key]
		}), nil)
		if err != nil {
			return Settings{}, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
		}
	}

	// 5. Apply overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return Settings{}, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	settings, err := unmarshal(k)
	if err != nil {
		return Settings{}, err
	}
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

// Default returns the embedded defaults alone
func Default() Settings {
	settings, err := Load(Options{ProjectDir: os.DevNull, SkipUserConfig: true, SkipEnv: true})
	if err != nil {
		// The embedded defaults are part of the binary; failing here is a build bug.
		panic(err)
	}
	return settings
}

// UserConfigPath returns the per-user config file location.
// It respects XDG_CONFIG_HOME if set.
func UserConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = xdg.ConfigHome
	}
	return filepath.Join(configHome, "dustup", "config.toml")
}

// ProjectConfigPath returns the project config file found in dir, or ""
func ProjectConfigPath(dir string) string {
	if dir == "" {
		dir = "."
	}
	for _, name := range ProjectConfigFiles {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, errors.ErrConfigLoad, "failed to stat config %s", path)
	}

	var parser koanf.Parser = toml.Parser()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path).
			WithDetail("path", path)
	}
	return nil
}

// canonicalKeys maps lower-cased keys to the spelling used in the defaults,
// so DUSTUP_ADVANCED_USECOMMAND lands on advanced.useCommand.
func canonicalKeys(keys []string) map[string]string {
	out := make(map[string]string, len(keys))
	for _, key := range keys {
		out[strings.ToLower(key)] = key
	}
	return out
}

func unmarshal(k *koanf.Koanf) (Settings, error) {
	var settings Settings
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &settings,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &settings, unmarshalConf); err != nil {
		return Settings{}, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}
	return settings, nil
}
