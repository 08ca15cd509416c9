package dustup

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dustup/pkg/errors"
)

// fakeCompilerScript stands in for dust-full.js
const fakeCompilerScript = `
var dust = {
  compile: function (source, name) {
    if (source.indexOf("{#") >= 0 && source.indexOf("{/") < 0) {
      throw new Error("Expected end tag for " + name);
    }
    return "dust.register(" + JSON.stringify(name) + "," + JSON.stringify(source) + ");";
  }
};
`

type cmdResult struct {
	stdout string
	stderr string
	err    error
}

func execute(t *testing.T, args ...string) cmdResult {
	t.Helper()

	t.Setenv("XDG_STATE_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("NO_COLOR", "1")

	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.Execute()
	return cmdResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// setupProject creates a project with a compiler script and two templates
func setupProject(t *testing.T) (dir, script string) {
	t.Helper()
	dir = t.TempDir()
	script = filepath.Join(dir, "vendor", "dust-full.js")
	writeFile(t, script, fakeCompilerScript)
	writeFile(t, filepath.Join(dir, "views", "home.dust"), "Hello {name}!")
	writeFile(t, filepath.Join(dir, "views", "partials", "nav.dust"), "<nav/>")
	writeFile(t, filepath.Join(dir, "node_modules", "pkg", "skip.dust"), "ignored")
	return dir, script
}

func TestVersionCmd(t *testing.T) {
	res := execute(t, "version")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "dustup version dev")
	assert.Contains(t, res.stdout, "commit: unknown")
}

func TestRootWithoutCommand(t *testing.T) {
	res := execute(t)
	require.Error(t, res.err)
	assert.True(t, errors.IsErrorCode(res.err, errors.ErrInvalidInput))
	assert.Contains(t, res.stdout, "compile")
}

func TestCompileCmd_Library(t *testing.T) {
	dir, script := setupProject(t)

	res := execute(t, "compile", filepath.Join(dir, "views"), "-C", dir, "--script", script, "--format", "text")
	require.NoError(t, res.err, res.stderr)

	assert.Equal(t, `dust.register("home","Hello {name}!");`, readFile(t, filepath.Join(dir, "views", "home.js")))
	assert.Equal(t, `dust.register("nav","<nav/>");`, readFile(t, filepath.Join(dir, "views", "partials", "nav.js")))
	assert.NoFileExists(t, filepath.Join(dir, "node_modules", "pkg", "skip.js"))

	assert.Contains(t, res.stdout, "2 compiled, 0 failed, 2 total")
}

func TestCompileCmd_LibraryFailure(t *testing.T) {
	dir, script := setupProject(t)
	writeFile(t, filepath.Join(dir, "views", "broken.dust"), "{#items}")
	report := filepath.Join(dir, "report.xml")

	res := execute(t, "compile", filepath.Join(dir, "views"), "-C", dir,
		"--script", script, "--format", "json", "--junit", report)
	require.Error(t, res.err)
	assert.True(t, errors.IsErrorCode(res.err, errors.ErrCompile))
	assert.Contains(t, res.err.Error(), "1 of 3 templates failed to compile")

	assert.NoFileExists(t, filepath.Join(dir, "views", "broken.js"))
	assert.FileExists(t, filepath.Join(dir, "views", "home.js"))

	var decoded struct {
		Results []struct {
			Target struct {
				Source string `json:"source"`
			} `json:"target"`
			Status  string   `json:"status"`
			Message string   `json:"message"`
			Events  []string `json:"events"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &decoded))
	require.Len(t, decoded.Results, 3)

	broken := decoded.Results[0]
	assert.Equal(t, filepath.Join(dir, "views", "broken.dust"), broken.Target.Source)
	assert.Equal(t, "failed", broken.Status)
	assert.Equal(t, "Expected end tag for broken", broken.Message)
	assert.Equal(t, []string{"fail", "always"}, broken.Events)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromFile(report))
	suite := doc.FindElement("/testsuites/testsuite")
	require.NotNil(t, suite)
	assert.Equal(t, "3", suite.SelectAttrValue("tests", ""))
	assert.Equal(t, "1", suite.SelectAttrValue("failures", ""))
}

func TestCompileCmd_NoScriptConfigured(t *testing.T) {
	dir, _ := setupProject(t)

	res := execute(t, "compile", filepath.Join(dir, "views", "home.dust"), "-C", dir, "--format", "json")
	require.Error(t, res.err)
	assert.Contains(t, res.stdout, "no dust compiler script configured")
	assert.NoFileExists(t, filepath.Join(dir, "views", "home.js"))
}

func TestCompileCmd_OutDirAndProjectConfig(t *testing.T) {
	dir, script := setupProject(t)
	writeFile(t, filepath.Join(dir, ".dustup.toml"), "[build]\noutputExtension = \".tpl.js\"\n")
	outDir := filepath.Join(dir, "public", "js")

	res := execute(t, "compile", filepath.Join(dir, "views"), "-C", dir,
		"--script", script, "--out-dir", outDir, "--format", "text")
	require.NoError(t, res.err, res.stderr)

	assert.FileExists(t, filepath.Join(outDir, "home.tpl.js"))
	assert.FileExists(t, filepath.Join(outDir, "nav.tpl.js"))
	assert.NoFileExists(t, filepath.Join(dir, "views", "home.js"))
}

func TestCompileCmd_EnvOverride(t *testing.T) {
	dir, script := setupProject(t)
	t.Setenv("DUSTUP_LIBRARY_SCRIPTPATH", script)

	res := execute(t, "compile", filepath.Join(dir, "views", "home.dust"), "-C", dir, "--format", "text")
	require.NoError(t, res.err, res.stderr)
	assert.FileExists(t, filepath.Join(dir, "views", "home.js"))
}

func TestCompileCmd_NoTemplates(t *testing.T) {
	dir := t.TempDir()

	res := execute(t, "compile", dir, "-C", dir)
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, MsgNoTemplates)
}

func TestCompileCmd_MissingPath(t *testing.T) {
	dir := t.TempDir()

	res := execute(t, "compile", filepath.Join(dir, "nope"), "-C", dir)
	require.Error(t, res.err)
	assert.True(t, errors.IsErrorCode(res.err, errors.ErrNotFound))
}

func TestCompileCmd_InvalidFormat(t *testing.T) {
	dir, script := setupProject(t)

	res := execute(t, "compile", dir, "-C", dir, "--script", script, "--format", "xml")
	require.Error(t, res.err)
	assert.True(t, errors.IsErrorCode(res.err, errors.ErrInvalidInput))
}

func TestConfigCmd(t *testing.T) {
	dir := t.TempDir()

	t.Run("flags override defaults", func(t *testing.T) {
		res := execute(t, "config", "-C", dir, "--use-command", "--timeout", "2s", "--jobs", "8")
		require.NoError(t, res.err)
		assert.Contains(t, res.stdout, "[advanced]")
		assert.Contains(t, res.stdout, "useCommand = true")
		assert.Regexp(t, `commandTimeout = ['"]2s['"]`, res.stdout)
		assert.Contains(t, res.stdout, "jobs = 8")
	})

	t.Run("yaml", func(t *testing.T) {
		res := execute(t, "config", "-C", dir, "-o", "yaml")
		require.NoError(t, res.err)
		assert.Contains(t, res.stdout, "useCommand: false")
	})

	t.Run("unknown output", func(t *testing.T) {
		res := execute(t, "config", "-C", dir, "-o", "ini")
		require.Error(t, res.err)
	})

	t.Run("defaults", func(t *testing.T) {
		res := execute(t, "config", "--defaults")
		require.NoError(t, res.err)
		assert.Contains(t, res.stdout, "commandTimeout")
	})

	t.Run("invalid project config", func(t *testing.T) {
		bad := t.TempDir()
		writeFile(t, filepath.Join(bad, ".dustup.toml"), "[build]\njobs = 0\n")
		res := execute(t, "config", "-C", bad)
		require.Error(t, res.err)
		assert.True(t, errors.IsErrorCode(res.err, errors.ErrConfigValid))
	})
}

func TestConfigCmd_Init(t *testing.T) {
	dir := t.TempDir()

	res := execute(t, "config", "--init", "-C", dir)
	require.NoError(t, res.err)

	path := filepath.Join(dir, ".dustup.toml")
	assert.Contains(t, res.stdout, path)
	assert.Contains(t, readFile(t, path), "# useCommand = false")

	res = execute(t, "config", "--init", "-C", dir)
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "already exists")
}

func TestHelpTopics(t *testing.T) {
	res := execute(t, "help", "topics")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "configuration")
	assert.Contains(t, res.stdout, "command-mode")

	res = execute(t, "help", "command-mode")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "commandTimeout")
}

func TestCompletionCmd(t *testing.T) {
	res := execute(t, "completion", "bash")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "dustup")

	res = execute(t, "completion", "tcsh")
	require.Error(t, res.err)
}
