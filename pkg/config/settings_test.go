package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *Settings)
		wantErr bool
	}{
		{"defaults are valid", func(s *Settings) {}, false},
		{"zero timeout", func(s *Settings) { s.Advanced.CommandTimeout = 0 }, true},
		{"zero jobs", func(s *Settings) { s.Build.Jobs = 0 }, true},
		{"no extensions", func(s *Settings) { s.Build.Extensions = nil }, true},
		{"extension without dot", func(s *Settings) { s.Build.Extensions = []string{"dust"} }, true},
		{"output extension without dot", func(s *Settings) { s.Build.OutputExtension = "js" }, true},
		{"negative debounce", func(s *Settings) { s.Watch.Debounce = -time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(&s)

			err := s.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExecutable(t *testing.T) {
	assert.Equal(t, "dustc", Advanced{}.Executable())
	assert.Equal(t, "dustc", Advanced{CommandPath: "  "}.Executable())
	assert.Equal(t, "/opt/My Tools/dustc", Advanced{CommandPath: "/opt/My Tools/dustc"}.Executable())
}

func TestStaticProvider(t *testing.T) {
	s := Default()
	s.Advanced.UseCommand = true

	var p Provider = Static(s)
	assert.True(t, p.Settings().Advanced.UseCommand)
}

func TestLiveProvider(t *testing.T) {
	calls := 0
	failNext := false
	live, err := NewLive(func() (Settings, error) {
		if failNext {
			return Settings{}, errors.New("broken config")
		}
		calls++
		s := Default()
		s.Advanced.UseCommand = calls > 1
		return s, nil
	})
	require.NoError(t, err)
	assert.False(t, live.Settings().Advanced.UseCommand)

	require.NoError(t, live.Reload())
	assert.True(t, live.Settings().Advanced.UseCommand)

	failNext = true
	assert.Error(t, live.Reload())
	assert.True(t, live.Settings().Advanced.UseCommand, "failed reload keeps previous snapshot")
}

func TestTimeout(t *testing.T) {
	assert.Equal(t, 5000*time.Millisecond, Advanced{}.Timeout())
	assert.Equal(t, 5000*time.Millisecond, Advanced{CommandTimeout: -1}.Timeout())
	assert.Equal(t, 2*time.Second, Advanced{CommandTimeout: 2 * time.Second}.Timeout())
}
