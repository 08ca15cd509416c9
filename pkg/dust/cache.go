package dust

import (
	"sync"

	"github.com/arthur-debert/dustup/pkg/types"
)

// ScriptCache is a Library backed by whichever script resolve names. The
// script is loaded on first use and reloaded when the name changes, which
// lets a long running watch follow edits to library.scriptPath.
type ScriptCache struct {
	fsys    types.FS
	resolve func() string

	mu   sync.Mutex
	path string
	lib  *ScriptLibrary
}

// NewScriptCache creates a ScriptCache
func NewScriptCache(fsys types.FS, resolve func() string) *ScriptCache {
	return &ScriptCache{fsys: fsys, resolve: resolve}
}

// Compile implements Library. Load failures are returned as compile errors
// so they reach the error reporter like any other failure.
func (c *ScriptCache) Compile(source, name string) (string, error) {
	lib, err := c.get()
	if err != nil {
		return "", err
	}
	return lib.Compile(source, name)
}

func (c *ScriptCache) get() (*ScriptLibrary, error) {
	path := c.resolve()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.lib != nil && c.path == path {
		return c.lib, nil
	}

	lib, err := NewScriptLibrary(c.fsys, path)
	if err != nil {
		return nil, err
	}
	c.path, c.lib = path, lib
	return lib, nil
}
