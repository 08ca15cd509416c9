package build

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/arthur-debert/dustup/pkg/events"
	"github.com/arthur-debert/dustup/pkg/logging"
	"github.com/arthur-debert/dustup/pkg/report"
	"github.com/arthur-debert/dustup/pkg/types"
)

// Status is the outcome of one target
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Result is what happened to one target
type Result struct {
	Target   Target        `json:"target"`
	Status   Status        `json:"status"`
	Message  string        `json:"message,omitempty"`
	Events   []types.Event `json:"events"`
	Duration time.Duration `json:"duration"`
}

// Summary counts results by status
type Summary struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// Summarize counts results by status
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.Status == StatusSuccess {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
	return s
}

// TaskFactory builds a compile task that reports failures to reporter.
// The runner asks for one task per target so failures can be attributed.
type TaskFactory func(reporter types.ErrorReporter) types.CompileTask

// Options configures a Runner
type Options struct {
	// NewTask builds the compile task for each target
	NewTask TaskFactory

	// FS is used to create output directories
	FS types.FS

	// Jobs bounds concurrent compiles; values below 1 mean 1
	Jobs int

	// Reporter additionally receives every failure, e.g. for logging
	Reporter types.ErrorReporter

	// OnResult is called as each target finishes, from the worker goroutine
	OnResult func(Result)

	// Logger defaults to the "build" component logger when nil
	Logger *zerolog.Logger
}

// Runner compiles targets with bounded concurrency
type Runner struct {
	newTask  TaskFactory
	fs       types.FS
	jobs     int
	reporter types.ErrorReporter
	onResult func(Result)
	logger   zerolog.Logger
}

// NewRunner creates a Runner
func NewRunner(opts Options) *Runner {
	logger := logging.Resolve(opts.Logger, "build")
	jobs := opts.Jobs
	if jobs < 1 {
		jobs = 1
	}
	return &Runner{
		newTask:  opts.NewTask,
		fs:       opts.FS,
		jobs:     jobs,
		reporter: opts.Reporter,
		onResult: opts.OnResult,
		logger:   logger,
	}
}

// Run compiles every target and returns results in target order. Failures
// of individual targets are results, not errors; Run only stops early when
// ctx is cancelled, in which case unstarted targets are left out.
func (r *Runner) Run(ctx context.Context, targets []Target) ([]Result, error) {
	done := logging.LogOperationStart(r.logger, "build")
	defer done()

	results := make([]Result, len(targets))
	started := make([]bool, len(targets))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.jobs)

	for i, target := range targets {
		if gctx.Err() != nil {
			break
		}
		i, target := i, target
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			res := r.RunOne(gctx, target)

			mu.Lock()
			results[i] = res
			started[i] = true
			mu.Unlock()

			if r.onResult != nil {
				r.onResult(res)
			}
			return nil
		})
	}
	_ = g.Wait()

	out := make([]Result, 0, len(targets))
	for i, res := range results {
		if started[i] {
			out = append(out, res)
		}
	}

	if err := ctx.Err(); err != nil {
		return out, err
	}
	return out, nil
}

// RunOne compiles a single target
func (r *Runner) RunOne(ctx context.Context, target Target) Result {
	start := time.Now()
	collector := report.NewCollector()
	recorder := events.NewRecorder()

	if r.fs != nil {
		if err := r.fs.MkdirAll(filepath.Dir(target.Output), 0755); err != nil {
			r.logger.Warn().Err(err).Str("output", target.Output).Msg("Failed to create output directory")
		}
	}

	task := r.newTask(report.Multi(collector, r.reporter))
	task.Compile(ctx, target.Request(), recorder)

	res := Result{
		Target:   target,
		Events:   recorder.Events(),
		Duration: time.Since(start),
	}
	if recorder.Outcome() == types.EventDone {
		res.Status = StatusSuccess
	} else {
		res.Status = StatusFailed
		if entries := collector.Entries(); len(entries) > 0 {
			res.Message = entries[0].Message
		}
	}

	if !events.ValidSequence(res.Events) {
		r.logger.Warn().
			Str("source", target.Source).
			Interface("events", res.Events).
			Msg("Compile task emitted an unexpected event sequence")
	}

	r.logger.Info().
		Str("source", target.Source).
		Str("status", string(res.Status)).
		Dur("duration", res.Duration).
		Msg("Target compiled")
	return res
}
