package types

// Event is a lifecycle signal emitted during a compile call
type Event string

const (
	// EventDone signals the output was produced
	EventDone Event = "done"

	// EventFail signals the compile failed; the error has been reported
	EventFail Event = "fail"

	// EventAlways is emitted last, after EventDone or EventFail
	EventAlways Event = "always"
)

// IsTerminal reports whether the event is an outcome (done or fail)
func (e Event) IsTerminal() bool {
	return e == EventDone || e == EventFail
}

// CompileRequest describes a single file to compile
type CompileRequest struct {
	// Source is the path of the .dust template
	Source string

	// Output is the path the compiled template is written to
	Output string

	// Settings holds optional per-file settings supplied by the host
	Settings map[string]interface{}
}
