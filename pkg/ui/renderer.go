// Package ui renders build results for people (text, terminal) and
// machines (JSON, JUnit XML).
package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"

	"github.com/arthur-debert/dustup/pkg/build"
)

// Renderer writes build results as they arrive and a summary at the end
type Renderer interface {
	RenderResult(w io.Writer, result build.Result) error
	RenderSummary(w io.Writer, results []build.Result) error
}

// NewRenderer returns the renderer for a concrete format. FormatAuto must be
// resolved first.
func NewRenderer(f Format, baseDir string) Renderer {
	switch f {
	case FormatTerminal:
		return &TerminalRenderer{baseDir: baseDir}
	case FormatJSON:
		return &JSONRenderer{}
	default:
		return &TextRenderer{baseDir: baseDir}
	}
}

// TextRenderer prints one plain line per target
type TextRenderer struct {
	baseDir string
}

// RenderResult implements Renderer
func (r *TextRenderer) RenderResult(w io.Writer, res build.Result) error {
	var err error
	if res.Status == build.StatusSuccess {
		_, err = fmt.Fprintf(w, "ok    %s -> %s (%s)\n",
			relPath(r.baseDir, res.Target.Source), relPath(r.baseDir, res.Target.Output), roundDuration(res.Duration))
	} else {
		_, err = fmt.Fprintf(w, "FAIL  %s\n%s", relPath(r.baseDir, res.Target.Source), indent(res.Message))
	}
	return err
}

// RenderSummary implements Renderer
func (r *TextRenderer) RenderSummary(w io.Writer, results []build.Result) error {
	s := build.Summarize(results)
	_, err := fmt.Fprintf(w, "\n%d compiled, %d failed, %d total\n", s.Succeeded, s.Failed, s.Total)
	return err
}

var (
	pathStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#7A7A7A", Dark: "#8A8A8A"})
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#EF5350"})
)

// StatusStyle returns the badge style for a status
func StatusStyle(status build.Status) *pterm.Style {
	switch status {
	case build.StatusSuccess:
		return pterm.NewStyle(pterm.BgGreen, pterm.FgBlack)
	case build.StatusFailed:
		return pterm.NewStyle(pterm.BgRed, pterm.FgWhite, pterm.Bold)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// TerminalRenderer prints colored status badges
type TerminalRenderer struct {
	baseDir string
}

// RenderResult implements Renderer
func (r *TerminalRenderer) RenderResult(w io.Writer, res build.Result) error {
	badge := " OK "
	if res.Status != build.StatusSuccess {
		badge = "FAIL"
	}

	line := fmt.Sprintf("%s %s %s %s",
		StatusStyle(res.Status).Sprint(" "+badge+" "),
		pathStyle.Render(relPath(r.baseDir, res.Target.Source)),
		mutedStyle.Render("->"),
		relPath(r.baseDir, res.Target.Output),
	)
	if res.Status == build.StatusSuccess {
		line += " " + mutedStyle.Render(roundDuration(res.Duration).String())
	}
	line += "\n"
	if res.Status != build.StatusSuccess && res.Message != "" {
		line += errorStyle.Render(indent(res.Message))
	}

	_, err := io.WriteString(w, line)
	return err
}

// RenderSummary implements Renderer
func (r *TerminalRenderer) RenderSummary(w io.Writer, results []build.Result) error {
	s := build.Summarize(results)
	summary := fmt.Sprintf("%d compiled", s.Succeeded)
	if s.Failed > 0 {
		summary += ", " + errorStyle.Render(fmt.Sprintf("%d failed", s.Failed))
	}
	_, err := fmt.Fprintf(w, "\n%s %s\n", summary, mutedStyle.Render(fmt.Sprintf("(%d total)", s.Total)))
	return err
}

// JSONRenderer prints a single JSON document with every result once the
// build is over
type JSONRenderer struct{}

type jsonReport struct {
	Results []build.Result `json:"results"`
	Summary build.Summary  `json:"summary"`
}

// RenderResult implements Renderer; results are only written in the summary
func (r *JSONRenderer) RenderResult(io.Writer, build.Result) error {
	return nil
}

// RenderSummary implements Renderer
func (r *JSONRenderer) RenderSummary(w io.Writer, results []build.Result) error {
	if results == nil {
		results = []build.Result{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonReport{Results: results, Summary: build.Summarize(results)})
}

func relPath(base, path string) string {
	if base == "" {
		return path
	}
	rel, err := filepath.Rel(base, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

func roundDuration(d time.Duration) time.Duration {
	if d < time.Millisecond {
		return d.Round(time.Microsecond)
	}
	return d.Round(time.Millisecond)
}

func indent(message string) string {
	message = strings.TrimRight(message, "\n")
	if message == "" {
		return ""
	}
	lines := strings.Split(message, "\n")
	for i, l := range lines {
		lines[i] = "      " + l
	}
	return strings.Join(lines, "\n") + "\n"
}
