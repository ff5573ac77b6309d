package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"
)

// Source produces the payload of one report type.
type Source struct {
	Type    string
	Collect func(ctx context.Context) (any, error)
}

type Writer interface {
	Create(ctx context.Context, rep *Report) error
}

// Worker appends one report per source every Interval. A failed round is
// retried with exponential backoff, capped at Interval.
type Worker struct {
	ID       string
	Interval time.Duration
	Sources  []Source
	Store    Writer
	Logger   *slog.Logger
	Clock    func() time.Time
}

func (w *Worker) now() time.Time {
	if w.Clock != nil {
		return w.Clock().UTC()
	}
	return time.Now().UTC()
}

func (w *Worker) Run(ctx context.Context) error {
	if w.Interval <= 0 {
		return nil
	}
	log := w.logger()

	timer := time.NewTimer(w.Interval)
	defer timer.Stop()

	attempts := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
			next := w.Interval
			if err := w.RunOnce(ctx); err != nil {
				attempts++
				next = w.backoff(attempts)
				log.Error("report round failed", slog.Int("attempt", attempts), slog.Duration("retry_in", next), slog.Any("error", err))
			} else {
				attempts = 0
			}
			timer.Reset(next)
		}
	}
}

// RunOnce collects every source and writes the resulting reports. It stops
// at the first failure; reports already written stay.
func (w *Worker) RunOnce(ctx context.Context) error {
	at := w.now()
	for _, src := range w.Sources {
		payload, err := src.Collect(ctx)
		if err != nil {
			return fmt.Errorf("collect %s: %w", src.Type, err)
		}
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode %s: %w", src.Type, err)
		}
		rep := &Report{ReportType: src.Type, Data: data, GeneratedDate: at}
		if err := w.Store.Create(ctx, rep); err != nil {
			return fmt.Errorf("store %s: %w", src.Type, err)
		}
		w.logger().Debug("report written", slog.String("type", src.Type), slog.Uint64("id", rep.ID))
	}
	return nil
}

func (w *Worker) backoff(attempts int) time.Duration {
	sec := math.Min(math.Pow(2, float64(attempts)), 600)
	d := time.Duration(sec) * time.Second
	if d > w.Interval {
		return w.Interval
	}
	return d
}

func (w *Worker) logger() *slog.Logger {
	l := w.Logger
	if l == nil {
		l = slog.Default()
	}
	return l.With(slog.String("worker", w.ID))
}
