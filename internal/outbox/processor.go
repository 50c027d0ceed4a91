// Package outbox retries saga steps that failed after an earlier step of the
// same request had already committed.
package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	v1 "github.com/aevon-lab/monster-arena/internal/api/v1"
	"github.com/aevon-lab/monster-arena/internal/core/storage"
	"github.com/aevon-lab/monster-arena/internal/metrics"
	"github.com/google/uuid"
)

const (
	DefaultBatchSize   = 100
	DefaultMaxAttempts = 10

	// maxConsecutiveBatches stops a drain that keeps finding work.
	maxConsecutiveBatches = 100
)

// Handler performs one pending operation. Returning nil completes the
// record; any error counts a failed attempt.
type Handler func(ctx context.Context, op *v1.PendingOperation) error

// Options tunes a Processor. Zero values select the defaults.
type Options struct {
	BatchSize   int
	MaxAttempts int
}

func (o Options) normalized() Options {
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	return o
}

// Report summarizes one drain.
type Report struct {
	Processed int
	Succeeded int
	Failed    int
}

// Processor owns the pending operations of one service.
type Processor struct {
	service  string
	store    storage.OutboxStore
	opts     Options
	handlers map[string]Handler
	now      func() time.Time

	// drainMu serializes drains so the worker and a manual replay never
	// retry the same record concurrently.
	drainMu sync.Mutex
}

func NewProcessor(service string, store storage.OutboxStore, opts Options) *Processor {
	return &Processor{
		service:  service,
		store:    store,
		opts:     opts.normalized(),
		handlers: make(map[string]Handler),
		now:      time.Now,
	}
}

// Handle registers the handler for kind. Call before the first drain.
func (p *Processor) Handle(kind string, h Handler) {
	p.handlers[kind] = h
}

// Enqueue records a failed step for later retry and returns the record id.
// cause is kept as the record's last error.
func (p *Processor) Enqueue(ctx context.Context, kind, principal string, payload interface{}, cause error) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s payload: %w", kind, err)
	}

	op := &v1.PendingOperation{
		ID:        uuid.NewString(),
		Service:   p.service,
		Kind:      kind,
		Principal: principal,
		Payload:   raw,
		CreatedAt: p.now().UTC(),
	}
	if cause != nil {
		op.LastError = cause.Error()
	}

	if err := p.store.Enqueue(ctx, op); err != nil {
		return "", fmt.Errorf("failed to enqueue %s: %w", kind, err)
	}

	slog.Info("[Outbox] Operation enqueued",
		"service", p.service,
		"kind", kind,
		"operation_id", op.ID,
		"principal", principal,
	)
	metrics.OutboxPending.WithLabelValues(p.service).Inc()
	return op.ID, nil
}

// Drain retries every record that was pending when the drain started, in
// batches, and returns what happened. Records failing during the drain are
// left for the next one.
func (p *Processor) Drain(ctx context.Context) (Report, error) {
	p.drainMu.Lock()
	defer p.drainMu.Unlock()

	var report Report
	startedAt := p.now().UTC()
	seen := make(map[string]struct{})

	for batch := 0; batch < maxConsecutiveBatches; batch++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		ops, err := p.store.PendingOperations(ctx, p.service, p.opts.MaxAttempts, startedAt, p.opts.BatchSize)
		if err != nil {
			return report, fmt.Errorf("failed to load pending operations: %w", err)
		}

		fresh := 0
		for _, op := range ops {
			if _, ok := seen[op.ID]; ok {
				continue
			}
			seen[op.ID] = struct{}{}
			fresh++

			report.Processed++
			if p.process(ctx, op) {
				report.Succeeded++
			} else {
				report.Failed++
			}
		}

		if fresh == 0 || len(ops) < p.opts.BatchSize {
			break
		}
	}

	p.refreshPending(ctx)

	if report.Processed > 0 {
		slog.Info("[Outbox] Drain complete",
			"service", p.service,
			"processed", report.Processed,
			"succeeded", report.Succeeded,
			"failed", report.Failed,
		)
	}
	return report, nil
}

func (p *Processor) process(ctx context.Context, op *v1.PendingOperation) bool {
	handler, ok := p.handlers[op.Kind]

	var err error
	if !ok {
		err = fmt.Errorf("no handler for kind %q", op.Kind)
	} else {
		err = handler(ctx, op)
	}

	if err == nil {
		if cerr := p.store.CompleteOperation(ctx, op.ID); cerr != nil {
			slog.Error("[Outbox] Failed to complete operation", "operation_id", op.ID, "error", cerr)
		}
		metrics.OutboxProcessedTotal.WithLabelValues(p.service, op.Kind, "succeeded").Inc()
		slog.Info("[Outbox] Operation succeeded", "service", p.service, "kind", op.Kind, "operation_id", op.ID)
		return true
	}

	metrics.OutboxProcessedTotal.WithLabelValues(p.service, op.Kind, "failed").Inc()
	if ferr := p.store.FailOperation(ctx, op.ID, err.Error()); ferr != nil {
		slog.Error("[Outbox] Failed to record attempt", "operation_id", op.ID, "error", ferr)
	}

	attempts := op.Attempts + 1
	if attempts >= p.opts.MaxAttempts {
		slog.Error("[Outbox] Operation exhausted its attempts",
			"service", p.service,
			"kind", op.Kind,
			"operation_id", op.ID,
			"attempts", attempts,
			"error", err,
		)
	} else {
		slog.Warn("[Outbox] Operation failed, will retry",
			"service", p.service,
			"kind", op.Kind,
			"operation_id", op.ID,
			"attempts", attempts,
			"error", err,
		)
	}
	return false
}

func (p *Processor) refreshPending(ctx context.Context) {
	n, err := p.store.CountOperations(ctx, p.service, p.opts.MaxAttempts)
	if err != nil {
		slog.Warn("[Outbox] Failed to count pending operations", "service", p.service, "error", err)
		return
	}
	metrics.OutboxPending.WithLabelValues(p.service).Set(float64(n))
}

// Decode unmarshals the record payload into dst.
func Decode(op *v1.PendingOperation, dst interface{}) error {
	if err := json.Unmarshal(op.Payload, dst); err != nil {
		return fmt.Errorf("invalid %s payload: %w", op.Kind, err)
	}
	return nil
}
