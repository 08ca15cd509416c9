//go:build !windows

package compiler

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dustup/pkg/config"
	"github.com/arthur-debert/dustup/pkg/events"
	"github.com/arthur-debert/dustup/pkg/report"
	"github.com/arthur-debert/dustup/pkg/types"
)

// fakeDustc behaves like dustc for the arguments dustup passes:
// -n=<name> <source> <output>
const fakeDustc = `#!/bin/sh
name="${1#-n=}"
printf 'name=%s\nsource=%s\ncwd=%s\n' "$name" "$2" "$(pwd)" > "$3"
`

func setupCommandTest(t *testing.T, script string, timeout time.Duration) (types.CompileRequest, *TemplateCompiler, *report.Collector) {
	t.Helper()

	root := t.TempDir()
	toolDir := filepath.Join(root, "dust tools")
	srcDir := filepath.Join(root, "views")
	require.NoError(t, os.MkdirAll(toolDir, 0755))
	require.NoError(t, os.MkdirAll(srcDir, 0755))

	exe := filepath.Join(toolDir, "dustc")
	require.NoError(t, os.WriteFile(exe, []byte(script), 0755))

	req := types.CompileRequest{
		Source: filepath.Join(srcDir, "foo.dust"),
		Output: filepath.Join(srcDir, "foo.js"),
	}
	require.NoError(t, os.WriteFile(req.Source, []byte("Hello {name}!"), 0644))

	settings := config.Default()
	settings.Advanced.UseCommand = true
	settings.Advanced.CommandPath = exe
	settings.Advanced.CommandTimeout = timeout

	collector := report.NewCollector()
	c := New(Options{
		Settings: config.Static(settings),
		Reporter: collector,
		Logger:   &nopLogger,
	})
	return req, c, collector
}

func TestCommandStrategyRunsExecutable(t *testing.T) {
	req, c, collector := setupCommandTest(t, fakeDustc, 5*time.Second)

	rec := events.NewRecorder()
	c.Compile(context.Background(), req, rec)

	assert.Equal(t, doneAlways, rec.Events())
	assert.Empty(t, collector.Entries())

	out, err := os.ReadFile(req.Output)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "name=foo", lines[0])
	assert.Equal(t, "source="+req.Source, lines[1])

	wantDir, err := filepath.EvalSymlinks(filepath.Dir(req.Source))
	require.NoError(t, err)
	gotDir, err := filepath.EvalSymlinks(strings.TrimPrefix(lines[2], "cwd="))
	require.NoError(t, err)
	assert.Equal(t, wantDir, gotDir)
}

func TestCommandStrategyReportsStderr(t *testing.T) {
	script := "#!/bin/sh\necho 'Error: Expected end tag for foo' >&2\nexit 1\n"
	req, c, collector := setupCommandTest(t, script, 5*time.Second)

	rec := events.NewRecorder()
	c.Compile(context.Background(), req, rec)

	assert.Equal(t, failAlways, rec.Events())
	assert.Equal(t, []report.Reported{{
		Message: "Error: Expected end tag for foo\n",
		File:    req.Source,
	}}, collector.Entries())
}

func TestCommandStrategyMissingExecutable(t *testing.T) {
	req, _, _ := setupCommandTest(t, fakeDustc, 5*time.Second)

	settings := config.Default()
	settings.Advanced.UseCommand = true
	settings.Advanced.CommandPath = filepath.Join(t.TempDir(), "no-such-dustc")
	collector := report.NewCollector()
	c := New(Options{Settings: config.Static(settings), Reporter: collector, Logger: &nopLogger})

	rec := events.NewRecorder()
	c.Compile(context.Background(), req, rec)

	assert.Equal(t, failAlways, rec.Events())
	require.Len(t, collector.Entries(), 1)
	assert.Contains(t, collector.Entries()[0].Message, "no-such-dustc")
}

func TestCommandStrategyTimeoutKillsProcess(t *testing.T) {
	script := "#!/bin/sh\necho 'compiling...' >&2\nsleep 30\n"
	req, c, collector := setupCommandTest(t, script, 300*time.Millisecond)

	rec := events.NewRecorder()
	start := time.Now()
	c.Compile(context.Background(), req, rec)
	elapsed := time.Since(start)

	assert.Equal(t, failAlways, rec.Events())
	assert.Less(t, elapsed, 5*time.Second)
	assert.Equal(t, []report.Reported{{Message: "compiling...\n", File: req.Source}}, collector.Entries())

	_, err := os.Stat(req.Output)
	assert.True(t, os.IsNotExist(err))
}
