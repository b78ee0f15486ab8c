package fetcher

import (
	"context"
	"errors"
	"time"

	"github.com/Mega-Barrel/youtube-profile-stats/model"
	"github.com/Mega-Barrel/youtube-profile-stats/storage"
	"golang.org/x/exp/slog"
)

// ErrExhausted is returned when every retry attempt for a channel
// failed and nothing was persisted.
var ErrExhausted = errors.New("retry budget exhausted")

type Persister interface {
	Persist(ctx context.Context, record *model.ChannelRecord) (storage.Outcome, error)
}

type HandleSource interface {
	DistinctUsernames(ctx context.Context) ([]model.Handle, error)
}

// Watcher runs the fetch-normalize-persist cycle for channel handles,
// one channel at a time.
type Watcher struct {
	fetcher   ChannelFetcher
	normalize *Normalizer
	persister Persister
	handles   HandleSource
	loop      Loop
	now       func() time.Time
	logger    *slog.Logger
}

func NewWatcher(fetcher ChannelFetcher, persister Persister, handles HandleSource, logger *slog.Logger) *Watcher {
	return &Watcher{
		fetcher:   fetcher,
		normalize: NewNormalizer(logger),
		persister: persister,
		handles:   handles,
		loop:      DefaultLoop(),
		now:       time.Now,
		logger:    logger,
	}
}

// Watch runs one retry cycle for one handle. On success the normalized
// record is persisted exactly once. ErrExhausted means all attempts
// failed; a persistence error means the fetch succeeded but the record
// could not be stored.
func (w *Watcher) Watch(ctx context.Context, handle model.Handle) error {
	var record *model.ChannelRecord

	phase := w.loop.Run(ctx, func(ctx context.Context) bool {
		result, err := w.fetcher.Fetch(ctx, handle)
		if err != nil {
			w.logger.Error("fetch attempt failed", err, slog.String("handle", string(handle)))
			return false
		}
		if result.Status != 200 {
			w.logger.Info("fetch attempt returned non-ok status", slog.String("handle", string(handle)), slog.Int("status", result.Status))
			return false
		}

		record = w.normalize.Normalize(result.Body, result.Status, result.Handle, w.now())
		return true
	})

	if phase == PhaseExhausted {
		w.logger.Error("giving up on channel", ErrExhausted, slog.String("handle", string(handle)), slog.Int("attempts", w.loop.Attempts))
		return ErrExhausted
	}

	if _, err := w.persister.Persist(ctx, record); err != nil {
		return err
	}

	return nil
}

// WatchAll runs one cycle for every handle the history knows about,
// sequentially. A channel that fails permanently does not abort the
// batch; the number of failed channels is returned.
func (w *Watcher) WatchAll(ctx context.Context) (int, error) {
	handles, err := w.handles.DistinctUsernames(ctx)
	if err != nil {
		return 0, err
	}
	w.logger.Info("watching known channels", slog.Int("count", len(handles)))

	failed := 0
	for _, handle := range handles {
		if ctx.Err() != nil {
			return failed, ctx.Err()
		}
		if err := w.Watch(ctx, handle); err != nil {
			failed++
		}
	}

	return failed, nil
}

// Run watches all known channels on a fixed interval until the context
// is canceled.
func (w *Watcher) Run(ctx context.Context, interval time.Duration) {
	w.logger.Info("started watcher", slog.String("interval", interval.String()))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := w.WatchAll(ctx); err != nil {
			w.logger.Error("watch cycle aborted", err)
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			w.logger.Info("watcher stopped")
			return
		}
	}
}
