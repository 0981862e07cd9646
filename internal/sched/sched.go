// Package sched runs one simulation tick: the ordered main systems, then the
// cleanup systems in passes until every deferred output has been resolved.
package sched

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"emoji-sim/internal/ecs"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "emoji-sim/internal/sched"

var (
	ErrPassLimitRequired  = errors.New("sched: max passes must be positive")
	ErrPassLimit          = errors.New("sched: cleanup pass limit exceeded")
	ErrUnresolved         = errors.New("sched: deferred output has no runnable cleanup system")
	ErrUndeclaredDeferred = errors.New("sched: deferred output outside declared set")
)

// Options configures a Scheduler.
type Options struct {
	// Main systems run once per tick, in list order.
	Main []ecs.System
	// Cleanup systems run in passes while deferred output is pending.
	Cleanup []ecs.System
	// MaxPasses bounds the cleanup loop. Required.
	MaxPasses int
	// Registry, when set, is used to name component types in errors and logs.
	Registry *ecs.Registry
	Logger   *slog.Logger
	Tracer   trace.Tracer
}

// Scheduler is the per-tick driver. It holds no component state; the caller
// passes the standing components into every Tick.
type Scheduler struct {
	main      []ecs.System
	cleanup   []ecs.System
	maxPasses int
	registry  *ecs.Registry
	logger    *slog.Logger
	tracer    trace.Tracer
}

// Result summarises one tick.
type Result struct {
	// Passes is the number of cleanup passes run.
	Passes int
	// Deferred is the number of deferred rows produced during the tick.
	Deferred int
}

// New validates every descriptor and builds a Scheduler. Nothing runs if any
// descriptor is invalid.
func New(opts Options) (*Scheduler, error) {
	if opts.MaxPasses <= 0 {
		return nil, ErrPassLimitRequired
	}
	for _, list := range [][]ecs.System{opts.Main, opts.Cleanup} {
		if err := Validate(list); err != nil {
			return nil, err
		}
	}
	s := &Scheduler{
		main:      opts.Main,
		cleanup:   opts.Cleanup,
		maxPasses: opts.MaxPasses,
		registry:  opts.Registry,
		logger:    opts.Logger,
		tracer:    opts.Tracer,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	return s, nil
}

// Validate checks the descriptor of every system in list.
func Validate(list []ecs.System) error {
	for _, sys := range list {
		if err := sys.Descriptor().Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Tick runs the main systems against standing, then resolves their deferred
// output. Mutations already applied when an error is returned are kept.
func (s *Scheduler) Tick(ctx context.Context, standing ecs.Components, dt float64) (Result, error) {
	ctx, span := s.tracer.Start(ctx, "sched.tick", trace.WithAttributes(attribute.Float64("dt", dt)))
	defer span.End()

	var res Result
	pending := make(ecs.Components)
	for _, sys := range s.main {
		d := sys.Descriptor()
		r, w := ecs.Views(standing, d)
		out, err := sys.Run(r, w, dt)
		if err != nil {
			return res, s.fail(span, fmt.Errorf("run %s: %w", d.Name, err))
		}
		out = withRows(out)
		if d.Deferred.IsEmpty() || len(out) == 0 {
			continue
		}
		if err := s.checkDeferred(d, out); err != nil {
			return res, s.fail(span, err)
		}
		res.Deferred += out.Rows()
		if err := ecs.Merge(pending, out); err != nil {
			return res, s.fail(span, fmt.Errorf("run %s: %w", d.Name, err))
		}
	}

	passes, produced, err := s.resolve(ctx, standing, pending, dt)
	res.Passes = passes
	res.Deferred += produced
	span.SetAttributes(attribute.Int("passes", res.Passes), attribute.Int("deferred", res.Deferred))
	if err != nil {
		return res, s.fail(span, err)
	}
	return res, nil
}

// resolve runs cleanup passes until pending is drained. A cleanup system runs
// in a pass when every kind it requires is pending or standing and at least
// one of them is pending; systems over standing kinds alone never run here.
// Each pass consumes the pending types required by the systems that ran;
// anything they emit, plus pending types nobody consumed, becomes the next
// pass's input.
func (s *Scheduler) resolve(ctx context.Context, standing, pending ecs.Components, dt float64) (int, int, error) {
	produced := 0
	pass := 0
	for ; len(pending) > 0; pass++ {
		if pass >= s.maxPasses {
			return pass, produced, fmt.Errorf("%w: %d passes, still pending %s",
				ErrPassLimit, pass, s.names(pending.Kinds()))
		}
		_, span := s.tracer.Start(ctx, "sched.cleanup_pass", trace.WithAttributes(
			attribute.Int("pass", pass),
			attribute.Int("pending_rows", pending.Rows()),
		))

		pendingKinds := pending.Kinds()
		available := pendingKinds.Union(standing.Kinds())
		out := make(ecs.Components)
		var consumed ecs.Mask
		ran := 0
		for _, sys := range s.cleanup {
			d := sys.Descriptor()
			req := d.Required()
			if !available.Contains(req) || !req.Intersects(pendingKinds) {
				continue
			}
			input := make(ecs.Components, req.Len())
			for _, k := range req.Types() {
				if tbl, ok := pending[k]; ok {
					input[k] = tbl
				} else {
					input[k] = standing[k]
				}
			}
			r, w := ecs.Views(input, d)
			emitted, err := sys.Run(r, w, dt)
			if err != nil {
				span.End()
				return pass + 1, produced, fmt.Errorf("cleanup %s: %w", d.Name, err)
			}
			ran++
			consumed = consumed.Union(req.Intersect(pendingKinds))
			emitted = withRows(emitted)
			if len(emitted) == 0 {
				continue
			}
			if err := s.checkDeferred(d, emitted); err != nil {
				span.End()
				return pass + 1, produced, err
			}
			produced += emitted.Rows()
			if err := ecs.Merge(out, emitted); err != nil {
				span.End()
				return pass + 1, produced, fmt.Errorf("cleanup %s: %w", d.Name, err)
			}
		}
		span.SetAttributes(attribute.Int("systems_run", ran))
		span.End()

		if ran == 0 {
			return pass + 1, produced, fmt.Errorf("%w: %s", ErrUnresolved, s.names(pendingKinds))
		}
		next := ecs.Extract(pending, pendingKinds.Minus(consumed))
		if err := ecs.Merge(next, out); err != nil {
			return pass + 1, produced, err
		}
		s.logger.Debug("cleanup pass", "pass", pass, "systems", ran,
			"consumed", s.names(consumed), "next", s.names(next.Kinds()))
		pending = next
	}
	return pass, produced, nil
}

// withRows drops zero-row tables from out, so an empty table never makes
// its kind pending. It returns nil when nothing is left.
func withRows(out ecs.Components) ecs.Components {
	for k, tbl := range out {
		if tbl == nil || tbl.Len() == 0 {
			delete(out, k)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (s *Scheduler) checkDeferred(d ecs.Descriptor, out ecs.Components) error {
	if extra := out.Kinds().Minus(d.Deferred); !extra.IsEmpty() {
		return fmt.Errorf("%w: system %q emitted %s", ErrUndeclaredDeferred, d.Name, s.names(extra))
	}
	return nil
}

func (s *Scheduler) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func (s *Scheduler) names(m ecs.Mask) string {
	if s.registry == nil {
		return m.String()
	}
	return "{" + strings.Join(s.registry.Names(m), ",") + "}"
}
