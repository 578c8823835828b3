package runner

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/tokenedit/pkg/edit"
	"github.com/yaklabco/tokenedit/pkg/engine"
	"github.com/yaklabco/tokenedit/pkg/pattern"
)

// Runner replays scripts against a pattern set. Every script gets its own
// engine, so scripts can be replayed concurrently.
type Runner struct {
	// Patterns is the pattern set every engine is built with.
	Patterns *pattern.Set
}

// New creates a Runner for the given pattern set.
func New(patterns *pattern.Set) *Runner {
	return &Runner{Patterns: patterns}
}

// Run discovers scripts under opts.Paths and replays them concurrently.
// Outcomes are returned in discovery order whatever order workers finish in.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Scripts: make([]ScriptOutcome, 0, len(files))}
	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	workCh := make(chan string)
	outCh := make(chan ScriptOutcome)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, workCh, outCh, logger)
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	outcomes := make(map[string]ScriptOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}

	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	return result, nil
}

func (r *Runner) worker(ctx context.Context, workCh <-chan string, outCh chan<- ScriptOutcome, logger *log.Logger) {
	for path := range workCh {
		select {
		case <-ctx.Done():
			return
		default:
		}

		outcome := ScriptOutcome{Path: path}

		script, err := LoadScript(ctx, path)
		if err == nil {
			outcome.Replay, err = r.Replay(ctx, script, logger.With("script", script.Name))
		}
		outcome.Error = err

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}

// Replay runs one script on a fresh engine. A nil logger discards engine
// output.
func (r *Runner) Replay(ctx context.Context, script *Script, logger *log.Logger) (*Replay, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	replay := &Replay{Name: script.Name}
	current := -1

	notifier := pattern.NotifierFunc(func(info pattern.DeletedToken) {
		replay.Events = append(replay.Events, Event{
			Step:        current,
			Key:         info.Key,
			ID:          info.ID,
			RemovedText: info.RemovedText,
			Start:       info.Start,
			End:         info.End,
		})
	})

	opts := []engine.Option{
		engine.WithText(script.Text),
		engine.WithIDTokens(script.idTokens()...),
		engine.WithDeleteNotifier(notifier),
		engine.WithLogger(logger),
	}
	if script.Caret != nil {
		opts = append(opts, engine.WithSelection(edit.Collapsed(*script.Caret)))
	}
	eng := engine.New(r.Patterns, opts...)

	for i, step := range script.Steps {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("replay %s: %w", script.Name, err)
		}

		current = i
		res, err := r.apply(eng, step, &replay.Stats)
		if err != nil {
			return nil, &StepError{Index: i, Op: step.Op, Err: err}
		}

		replay.Steps = append(replay.Steps, StepResult{
			Index:     i,
			Op:        step.Op,
			Kind:      res.Change.Kind.String(),
			Rewritten: res.Rewritten,
			Text:      res.State.Text,
			Selection: res.State.Selection,
		})
		replay.Stats.Steps++
	}

	replay.Final = eng.State()
	replay.IDTokens = eng.IDTokens()
	replay.Stats.Events = len(replay.Events)

	return replay, nil
}

// apply performs one step and returns the last engine result.
func (r *Runner) apply(eng *engine.Engine, step Step, stats *Stats) (engine.Result, error) {
	if step.Op == OpInsertToken {
		var opts []engine.InsertOption
		if step.ID != "" {
			opts = append(opts, engine.WithTokenID(step.ID))
		}
		if step.Label != "" {
			opts = append(opts, engine.WithTokenLabel(step.Label))
		}

		st, err := eng.InsertToken(step.Key, step.Text, opts...)
		if err != nil {
			return engine.Result{}, err
		}
		stats.Insertions++
		return engine.Result{State: st, Change: edit.Change{Kind: edit.Insertion}}, nil
	}

	var last engine.Result
	for range repeat(step) {
		res, err := eng.Submit(propose(eng.State(), step))
		if err != nil {
			return res, err
		}

		stats.Submits++
		if res.Rewritten {
			stats.Rewrites++
		}
		switch res.Change.Kind {
		case edit.Insertion:
			stats.Insertions++
		case edit.Deletion:
			stats.Deletions++
		}
		last = res
	}
	return last, nil
}
