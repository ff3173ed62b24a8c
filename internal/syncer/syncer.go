// Package syncer computes and applies variable differences between shell
// dialects. Synchronization is additive: a key present only in the target
// is left alone, never deleted.
package syncer

import (
	"io"
	"log/slog"
	"slices"

	"github.com/TuMee-Dev/setvar/internal/env"
	"github.com/TuMee-Dev/setvar/internal/match"
	"github.com/TuMee-Dev/setvar/internal/shell"
)

// Status classifies one key in a source/target comparison.
type Status string

const (
	// StatusSame means the key exists in both dialects with the same value.
	StatusSame Status = "same"

	// StatusDifferent means the key exists in both dialects with different
	// values.
	StatusDifferent Status = "different"

	// StatusMissing means the key exists in the source but not the target.
	StatusMissing Status = "missing"
)

// Change is the comparison result for one key.
type Change struct {
	Key         string
	Status      Status
	SourceValue string

	// TargetValue is the target's current value; meaningful only for
	// StatusDifferent.
	TargetValue string
}

// Plan is the full comparison of one source dialect against one target.
// Err is set when the target's variable set could not be loaded; such a
// plan carries no changes and cannot be applied.
type Plan struct {
	Source  shell.Dialect
	Target  shell.Dialect
	Changes []Change
	Err     error
}

// Pending returns the changes that applying the plan would write.
func (p Plan) Pending() []Change {
	var pending []Change
	for _, c := range p.Changes {
		if c.Status != StatusSame {
			pending = append(pending, c)
		}
	}
	return pending
}

// InSync reports whether the plan has nothing to write.
func (p Plan) InSync() bool {
	return len(p.Pending()) == 0
}

// Syncer diffs and reconciles variable sets across dialects through a
// shared store.
type Syncer struct {
	store *env.Store
	log   *slog.Logger
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithLogger sets the logger used for per-change reporting.
func WithLogger(log *slog.Logger) Option {
	return func(s *Syncer) { s.log = log }
}

// New creates a Syncer over store.
func New(store *env.Store, opts ...Option) *Syncer {
	s := &Syncer{store: store, log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Diff compares the source dialect against each target, restricted to keys
// accepted by m. Keys are compared by effective value, so where a variable
// lives inside a dialect's files does not matter. Changes are sorted by key
// for stable output.
//
// A target whose set cannot be loaded yields a Plan with Err set; the
// remaining targets are still diffed. Only a source load failure aborts.
func (s *Syncer) Diff(source shell.Dialect, targets []shell.Dialect, m match.Matcher) ([]Plan, error) {
	srcSet, _, _, err := s.store.Load(source)
	if err != nil {
		return nil, err
	}

	keys := srcSet.Keys()
	slices.Sort(keys)

	plans := make([]Plan, 0, len(targets))
	for _, target := range targets {
		tgtSet, _, _, err := s.store.Load(target)
		if err != nil {
			s.log.Warn("target load failed", "target", string(target), "error", err)
			plans = append(plans, Plan{Source: source, Target: target, Err: err})
			continue
		}

		plan := Plan{Source: source, Target: target}
		for _, key := range keys {
			if !m.Matches(key) {
				continue
			}
			src := srcSet[key]
			change := Change{Key: key, SourceValue: src.Value}
			if tgt, ok := tgtSet[key]; !ok {
				change.Status = StatusMissing
			} else if tgt.Value != src.Value {
				change.Status = StatusDifferent
				change.TargetValue = tgt.Value
			} else {
				change.Status = StatusSame
			}
			plan.Changes = append(plan.Changes, change)
		}
		plans = append(plans, plan)
	}

	return plans, nil
}

// Apply writes the plan's pending changes into the target dialect. A failed
// change does not stop the rest; all outcomes are returned. In dry-run mode
// the store reports every write without performing it.
func (s *Syncer) Apply(plan Plan) ([]env.Result, error) {
	if plan.Err != nil {
		return nil, plan.Err
	}
	var results []env.Result
	for _, c := range plan.Pending() {
		rs, err := s.store.Set([]shell.Dialect{plan.Target}, c.Key, c.SourceValue)
		if err != nil {
			return results, err
		}
		for _, r := range rs {
			if r.Err != nil {
				s.log.Warn("sync write failed", "key", c.Key, "path", r.Path, "error", r.Err)
			} else {
				s.log.Debug("synced", "key", c.Key, "path", r.Path, "action", string(r.Action))
			}
		}
		results = append(results, rs...)
	}
	return results, nil
}
