package config

import (
	"bytes"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/dustup/pkg/errors"
)

// Render serializes settings as "toml" or "yaml" using the same keys the
// config files use.
func Render(s Settings, format string) (string, error) {
	data := toMap(s)

	switch strings.ToLower(format) {
	case "", "toml":
		var buf bytes.Buffer
		enc := toml.NewEncoder(&buf)
		if err := enc.Encode(data); err != nil {
			return "", errors.Wrap(err, errors.ErrInternal, "failed to encode toml")
		}
		return buf.String(), nil
	case "yaml", "yml":
		out, err := yaml.Marshal(data)
		if err != nil {
			return "", errors.Wrap(err, errors.ErrInternal, "failed to encode yaml")
		}
		return string(out), nil
	default:
		return "", errors.Newf(errors.ErrInvalidInput, "unknown config format: %s", format)
	}
}

func toMap(s Settings) map[string]interface{} {
	extensions := make([]string, len(s.Build.Extensions))
	copy(extensions, s.Build.Extensions)

	return map[string]interface{}{
		"advanced": map[string]interface{}{
			"useCommand":     s.Advanced.UseCommand,
			"commandPath":    s.Advanced.CommandPath,
			"commandTimeout": s.Advanced.CommandTimeout.String(),
		},
		"library": map[string]interface{}{
			"scriptPath": s.Library.ScriptPath,
		},
		"build": map[string]interface{}{
			"extensions":      extensions,
			"outputExtension": s.Build.OutputExtension,
			"outDir":          s.Build.OutDir,
			"jobs":            s.Build.Jobs,
		},
		"watch": map[string]interface{}{
			"debounce": s.Watch.Debounce.String(),
		},
		"logging": map[string]interface{}{
			"verbosity": s.Logging.Verbosity,
		},
	}
}
