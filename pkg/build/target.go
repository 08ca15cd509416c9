package build

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/dustup/pkg/dust"
	"github.com/arthur-debert/dustup/pkg/errors"
	"github.com/arthur-debert/dustup/pkg/types"
)

// Target is one source file and the output it compiles to
type Target struct {
	Source string `json:"source"`
	Output string `json:"output"`
}

// Request converts the target to a compile request
func (t Target) Request() types.CompileRequest {
	return types.CompileRequest{Source: t.Source, Output: t.Output}
}

// MapOutput returns the output path for source: <dir>/<name><ext>, where dir
// is outDir when set and the source's directory otherwise.
func MapOutput(source, outDir, ext string) string {
	dir := outDir
	if dir == "" {
		dir = filepath.Dir(source)
	}
	return filepath.Join(dir, dust.TemplateName(source)+ext)
}

// skippedDirs are never descended into
var skippedDirs = map[string]bool{
	"node_modules": true,
}

// Discover returns the template files under roots, sorted. Roots that are
// files are taken as they are; directories are walked for files whose
// extension is in exts, skipping hidden directories and node_modules.
func Discover(fsys types.FS, roots []string, exts []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, root := range roots {
		info, err := fsys.Stat(root)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrNotFound, "cannot access %s", root)
		}
		if !info.IsDir() {
			add(root)
			continue
		}
		if err := walk(fsys, root, exts, add); err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}

func walk(fsys types.FS, dir string, exts []string, add func(string)) error {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileRead, "cannot read directory %s", dir)
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			if skipDir(entry) {
				continue
			}
			if err := walk(fsys, path, exts, add); err != nil {
				return err
			}
			continue
		}
		if HasExtension(path, exts) {
			add(path)
		}
	}
	return nil
}

func skipDir(entry fs.DirEntry) bool {
	name := entry.Name()
	return skippedDirs[name] || (strings.HasPrefix(name, ".") && name != "." && name != "..")
}

// HasExtension reports whether path ends in one of exts
func HasExtension(path string, exts []string) bool {
	ext := filepath.Ext(path)
	for _, want := range exts {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}

// Targets maps every source to a Target
func Targets(sources []string, outDir, ext string) []Target {
	targets := make([]Target, 0, len(sources))
	for _, src := range sources {
		targets = append(targets, Target{Source: src, Output: MapOutput(src, outDir, ext)})
	}
	return targets
}
