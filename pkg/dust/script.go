package dust

import (
	"github.com/dop251/goja"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/dustup/pkg/errors"
	"github.com/arthur-debert/dustup/pkg/logging"
	"github.com/arthur-debert/dustup/pkg/types"
)

// ErrLibraryUnavailable is returned when no compiler script is configured
var ErrLibraryUnavailable = errors.New(errors.ErrLibraryLoad,
	"no dust compiler script configured; set library.scriptPath or enable advanced.useCommand")

// ScriptLibrary runs dust.compile from dust-full.js (or dust-compiler.js) in
// an embedded JavaScript runtime. The script is parsed once; every Compile
// gets a fresh runtime so concurrent calls share nothing mutable.
type ScriptLibrary struct {
	path    string
	program *goja.Program
	logger  zerolog.Logger
}

// NewScriptLibrary reads and precompiles the compiler script at path
func NewScriptLibrary(fsys types.FS, path string) (*ScriptLibrary, error) {
	if path == "" {
		return nil, ErrLibraryUnavailable
	}

	src, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrLibraryLoad, "failed to read compiler script %s", path)
	}

	program, err := goja.Compile(path, string(src), false)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrLibraryLoad, "failed to parse compiler script %s", path)
	}

	lib := &ScriptLibrary{
		path:    path,
		program: program,
		logger:  logging.GetLogger("dust.script"),
	}

	// Fail early if the script does not expose dust.compile
	vm := goja.New()
	if _, err := lib.compileFunc(vm); err != nil {
		return nil, err
	}

	lib.logger.Debug().Str("script", path).Msg("Loaded dust compiler")
	return lib, nil
}

// Path returns the script the library was loaded from
func (l *ScriptLibrary) Path() string {
	return l.path
}

// Compile implements Library
func (l *ScriptLibrary) Compile(source, name string) (string, error) {
	vm := goja.New()
	compile, err := l.compileFunc(vm)
	if err != nil {
		return "", err
	}

	dust := vm.Get("dust")
	result, err := compile(dust, vm.ToValue(source), vm.ToValue(name))
	if err != nil {
		return "", &CompileError{Message: exceptionMessage(vm, err)}
	}

	return result.String(), nil
}

func (l *ScriptLibrary) compileFunc(vm *goja.Runtime) (goja.Callable, error) {
	if _, err := vm.RunProgram(l.program); err != nil {
		return nil, errors.Wrapf(err, errors.ErrLibraryLoad, "failed to evaluate compiler script %s", l.path)
	}

	dust := vm.Get("dust")
	if dust == nil || goja.IsUndefined(dust) || goja.IsNull(dust) {
		return nil, errors.Newf(errors.ErrLibraryLoad, "compiler script %s does not define dust", l.path)
	}

	compile, ok := goja.AssertFunction(dust.ToObject(vm).Get("compile"))
	if !ok {
		return nil, errors.Newf(errors.ErrLibraryLoad, "compiler script %s does not define dust.compile", l.path)
	}
	return compile, nil
}

// exceptionMessage returns the message of a thrown JS error, the way
// e.message reads inside JavaScript.
func exceptionMessage(vm *goja.Runtime, err error) string {
	ex, ok := err.(*goja.Exception)
	if !ok {
		return err.Error()
	}

	thrown := ex.Value()
	if thrown == nil || goja.IsUndefined(thrown) || goja.IsNull(thrown) {
		return ex.Error()
	}
	if obj, isObj := thrown.(*goja.Object); isObj {
		if msg := obj.Get("message"); msg != nil && !goja.IsUndefined(msg) {
			return msg.String()
		}
	}
	return thrown.String()
}
