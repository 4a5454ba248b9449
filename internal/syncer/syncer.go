// Package syncer drives the import of upstream orders: poll, dedup against
// the store, transform, create. Every cycle is an independent, idempotent
// attempt. The store is the single authority on which ids already exist;
// overlapping or repeated cycles can at worst waste a network call, never
// duplicate an order.
package syncer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"doucetentation/internal/gloria"
	"doucetentation/internal/models"
	"doucetentation/internal/monitoring"
	"doucetentation/internal/store"
	"doucetentation/internal/transform"
)

const (
	defaultInterval     = time.Minute
	defaultInitialDelay = 5 * time.Second
)

// Poller produces raw upstream orders; it is fail-soft and returns an
// empty list on any upstream problem.
type Poller interface {
	Poll(ctx context.Context) []gloria.RawOrder
}

// Options configures an Engine.
type Options struct {
	Poller      Poller
	Store       store.OrderStore
	Transformer *transform.Transformer
	// Source tags imported orders with their upstream channel. Defaults
	// to the cake storefront.
	Source       models.OrderSource
	Monitor      *monitoring.SyncMonitor
	Logger       *zap.Logger
	Interval     time.Duration
	InitialDelay time.Duration
}

// Engine runs sync cycles, scheduled or staff-triggered.
type Engine struct {
	poller       Poller
	store        store.OrderStore
	transformer  *transform.Transformer
	source       models.OrderSource
	monitor      *monitoring.SyncMonitor
	log          *zap.Logger
	interval     time.Duration
	initialDelay time.Duration
}

// New builds an engine. Poller and Store are required; everything else has
// a default.
func New(opts Options) *Engine {
	if opts.Source == "" {
		opts.Source = models.SourceGloriaCake
	}
	if opts.Transformer == nil {
		opts.Transformer = transform.New(nil, nil)
	}
	if opts.Monitor == nil {
		opts.Monitor = monitoring.NewSyncMonitor()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Interval <= 0 {
		opts.Interval = defaultInterval
	}
	if opts.InitialDelay <= 0 {
		opts.InitialDelay = defaultInitialDelay
	}
	return &Engine{
		poller:       opts.Poller,
		store:        opts.Store,
		transformer:  opts.Transformer,
		source:       opts.Source,
		monitor:      opts.Monitor,
		log:          opts.Logger,
		interval:     opts.Interval,
		initialDelay: opts.InitialDelay,
	}
}

// AdmitNew filters candidates down to those whose string-normalized id is
// not in existing, preserving candidate order. Ids repeated inside the
// batch are admitted once. The existing set must be read from the store
// immediately before the call: staff actions can change it between polls.
func AdmitNew(existing map[string]struct{}, candidates []gloria.RawOrder) []gloria.RawOrder {
	seen := make(map[string]struct{}, len(existing)+len(candidates))
	for id := range existing {
		seen[id] = struct{}{}
	}

	admitted := make([]gloria.RawOrder, 0, len(candidates))
	for _, candidate := range candidates {
		id := strings.TrimSpace(string(candidate.ID))
		if id != "" {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
		}
		admitted = append(admitted, candidate)
	}
	return admitted
}

// SyncNow runs one complete cycle (poll, dedup, transform, create) and
// returns how many net-new orders were stored. An order the store refuses
// is logged, counted as a write failure and excluded from the result; the
// cycle continues with the remaining candidates. Orders already present
// are never touched: staff edits on previously imported orders survive
// every later poll.
func (e *Engine) SyncNow(ctx context.Context) (int, error) {
	raws := e.poller.Poll(ctx)
	if len(raws) == 0 {
		e.monitor.RecordCycle(0, 0)
		return 0, nil
	}

	current, err := e.store.GetAll()
	if err != nil {
		e.log.Error("reading order store for dedup", zap.Error(err))
		e.monitor.RecordCycle(len(raws), 0)
		return 0, fmt.Errorf("reading order store: %w", err)
	}
	existing := make(map[string]struct{}, len(current))
	for _, o := range current {
		existing[strings.TrimSpace(o.ID)] = struct{}{}
	}

	imported := 0
	for _, raw := range AdmitNew(existing, raws) {
		order := e.transformer.Transform(raw, e.source)
		if _, err := e.store.Create(order); err != nil {
			e.log.Error("storing imported order",
				zap.String("order_id", order.ID), zap.Error(err))
			e.monitor.RecordStoreFailure()
			continue
		}
		imported++
		e.log.Info("imported upstream order",
			zap.String("order_id", order.ID),
			zap.String("client", order.Client),
			zap.String("date", order.Date))
	}

	e.monitor.RecordCycle(len(raws), imported)
	return imported, nil
}

// Run polls on a fixed interval, with one extra short-delayed cycle right
// after startup, until the context is cancelled. Cycle failures are logged
// and the schedule proceeds unaffected at the next tick.
func (e *Engine) Run(ctx context.Context) {
	initial := time.NewTimer(e.initialDelay)
	defer initial.Stop()
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	e.log.Info("sync scheduler started",
		zap.Duration("interval", e.interval),
		zap.Duration("initial_delay", e.initialDelay))

	for {
		select {
		case <-ctx.Done():
			e.log.Info("sync scheduler stopped")
			return
		case <-initial.C:
			e.runCycle(ctx)
		case <-ticker.C:
			e.runCycle(ctx)
		}
	}
}

func (e *Engine) runCycle(ctx context.Context) {
	if n, err := e.SyncNow(ctx); err != nil {
		e.log.Warn("sync cycle degraded", zap.Error(err))
	} else if n > 0 {
		e.log.Info("sync cycle complete", zap.Int("new_orders", n))
	}
}
