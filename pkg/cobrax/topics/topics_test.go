package topics

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"configuration.md":      {Data: []byte("# Configuration\n\nLayers of settings")},
		"command-mode.txt":      {Data: []byte("Command mode runs dustc")},
		"option-use-command.md": {Data: []byte("Use the external compiler")},
		"nested/watching.md":    {Data: []byte("Watch mode")},
		"ignored.json":          {Data: []byte("{}")},
	}
}

func TestLoad(t *testing.T) {
	tm := New(testFS(), Options{})
	require.NoError(t, tm.Load())

	assert.Equal(t, []string{"command-mode", "configuration", "option-use-command", "watching"}, tm.ListTopics())

	topic, ok := tm.GetTopic("configuration")
	require.True(t, ok)
	assert.Equal(t, ".md", topic.Format())
	assert.Contains(t, topic.Content, "Layers of settings")
}

func TestLoadCustomExtensions(t *testing.T) {
	tm := New(testFS(), Options{Extensions: []string{".txt"}})
	require.NoError(t, tm.Load())
	assert.Equal(t, []string{"command-mode"}, tm.ListTopics())
}

func TestLoadNilFS(t *testing.T) {
	tm := New(nil, Options{})
	require.NoError(t, tm.Load())
	assert.Empty(t, tm.ListTopics())
}

func TestGetTopicFlagStyle(t *testing.T) {
	tm := New(testFS(), Options{})
	require.NoError(t, tm.Load())

	for _, name := range []string{"--use-command", "-use-command", "use-command"} {
		topic, ok := tm.GetTopic(name)
		require.True(t, ok, name)
		assert.Equal(t, "option-use-command", topic.Name)
	}

	_, ok := tm.GetTopic("missing")
	assert.False(t, ok)
}

func TestWriteList(t *testing.T) {
	tm := New(testFS(), Options{})
	require.NoError(t, tm.Load())

	var buf bytes.Buffer
	tm.WriteList(&buf, "dustup")
	out := buf.String()

	assert.Contains(t, out, "General topics:")
	assert.Contains(t, out, "  configuration\n")
	assert.Contains(t, out, "Option topics:")
	assert.Contains(t, out, "  --use-command\n")
	assert.Contains(t, out, "Use 'dustup help <topic>'")

	buf.Reset()
	New(nil, Options{}).WriteList(&buf, "dustup")
	assert.Equal(t, "No help topics available.\n", buf.String())
}

type upperRenderer struct{}

func (upperRenderer) Render(content, format string) string {
	return strings.ToUpper(content)
}

func TestInitialize(t *testing.T) {
	root := &cobra.Command{Use: "dustup"}
	root.AddCommand(&cobra.Command{Use: "compile", Short: "Compile templates", Run: func(*cobra.Command, []string) {}})

	_, err := Initialize(root, testFS(), Options{Renderer: upperRenderer{}})
	require.NoError(t, err)

	run := func(args ...string) string {
		var buf bytes.Buffer
		root.SetOut(&buf)
		root.SetErr(&buf)
		root.SetArgs(args)
		require.NoError(t, root.Execute())
		return buf.String()
	}

	assert.Contains(t, run("help", "configuration"), "LAYERS OF SETTINGS")
	assert.Contains(t, run("help", "topics"), "command-mode")
	assert.Contains(t, run("help", "compile"), "Compile templates")
}

func TestPlainRenderer(t *testing.T) {
	r := &PlainRenderer{}
	assert.Equal(t, "# Title", r.Render("# Title", ".md"))
}

func TestGlamourRendererSkipsNonMarkdown(t *testing.T) {
	r := NewGlamourRenderer()
	assert.Equal(t, "plain text", r.Render("plain text", ".txt"))
}

func TestGlamourRendererMarkdown(t *testing.T) {
	r := &GlamourRenderer{Style: "notty", Width: 60}
	out := r.Render("# Title\n\nSome **bold** text", ".md")
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "bold")
}

func TestRendererFor(t *testing.T) {
	assert.IsType(t, &GlamourRenderer{}, RendererFor(true))
	assert.IsType(t, &PlainRenderer{}, RendererFor(false))
}
