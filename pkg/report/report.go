// Package report provides ErrorReporter implementations used by the host to
// surface compile failures.
package report

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/dustup/pkg/types"
)

// Reported is one failure passed to a reporter
type Reported struct {
	Message string `json:"message"`
	File    string `json:"file"`
}

// LogReporter writes every reported failure to a zerolog logger
type LogReporter struct {
	Logger zerolog.Logger
}

// ReportError implements types.ErrorReporter
func (r LogReporter) ReportError(message, filePath string) {
	r.Logger.Error().
		Str("file", filePath).
		Str("message", message).
		Msg("Compile failed")
}

// Collector keeps reported failures in memory. It is safe for concurrent use.
type Collector struct {
	mu      sync.Mutex
	entries []Reported
}

// NewCollector creates an empty Collector
func NewCollector() *Collector {
	return &Collector{}
}

// ReportError implements types.ErrorReporter
func (c *Collector) ReportError(message, filePath string) {
	c.mu.Lock()
	c.entries = append(c.entries, Reported{Message: message, File: filePath})
	c.mu.Unlock()
}

// Entries returns a copy of everything reported so far
func (c *Collector) Entries() []Reported {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Reported, len(c.entries))
	copy(out, c.entries)
	return out
}

// Func adapts a function to types.ErrorReporter
type Func func(message, filePath string)

// ReportError implements types.ErrorReporter
func (f Func) ReportError(message, filePath string) {
	f(message, filePath)
}

type multi []types.ErrorReporter

func (m multi) ReportError(message, filePath string) {
	for _, r := range m {
		r.ReportError(message, filePath)
	}
}

// Multi returns a reporter that forwards to each reporter in order.
// Nil reporters are skipped.
func Multi(reporters ...types.ErrorReporter) types.ErrorReporter {
	out := make(multi, 0, len(reporters))
	for _, r := range reporters {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}
