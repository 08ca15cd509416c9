package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	s := Default()
	s.Advanced.CommandPath = "/opt/dustc"

	t.Run("toml", func(t *testing.T) {
		out, err := Render(s, "toml")
		require.NoError(t, err)
		assert.Contains(t, out, "[advanced]")
		assert.Regexp(t, `commandPath = ['"]/opt/dustc['"]`, out)
		assert.Regexp(t, `commandTimeout = ['"]5s['"]`, out)
	})

	t.Run("yaml", func(t *testing.T) {
		out, err := Render(s, "yaml")
		require.NoError(t, err)
		assert.Contains(t, out, "advanced:")
		assert.Contains(t, out, "commandPath: /opt/dustc")
		assert.Contains(t, out, "- .dust")
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := Render(s, "ini")
		assert.Error(t, err)
	})
}

func TestGenerateConfigContent(t *testing.T) {
	content := GenerateConfigContent()

	assert.Contains(t, content, "[advanced]")
	assert.Contains(t, content, "# useCommand = false")
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "[") {
			continue
		}
		t.Errorf("uncommented value line: %q", line)
	}
}
