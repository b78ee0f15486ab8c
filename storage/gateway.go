package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/Mega-Barrel/youtube-profile-stats/model"
	"golang.org/x/exp/slog"
)

// Gateway persists a normalized record: first make sure the owning
// channel is tracked, then append the record to the history. The append
// is unconditional, it does not depend on the tracking step having
// worked, so a failure there is logged but does not block the record.
type Gateway struct {
	tracked TrackedChannelRepository
	records ChannelRecordRepository
	logger  *slog.Logger
}

func NewGateway(tracked TrackedChannelRepository, records ChannelRecordRepository, logger *slog.Logger) *Gateway {
	return &Gateway{
		tracked: tracked,
		records: records,
		logger:  logger,
	}
}

func (g *Gateway) Persist(ctx context.Context, record *model.ChannelRecord) (Outcome, error) {
	outcome := OutcomeDuplicate
	if record.HasChannelIdentity() {
		var err error
		outcome, err = g.tracked.EnsureTracked(ctx, *record.ChannelID, strings.TrimSpace(*record.ChannelName))
		if err != nil {
			g.logger.Error("could not ensure channel is tracked", err, slog.String("channel", *record.ChannelName))
		} else {
			g.logger.Info("ensured channel is tracked", slog.String("channel", *record.ChannelName), slog.String("outcome", outcome.String()))
		}
	}

	if err := g.records.Insert(ctx, record); err != nil {
		g.logger.Error("could not append channel record", err, slog.String("id", record.ID.String()))
		return outcome, fmt.Errorf("append channel record: %w", err)
	}
	g.logger.Info("appended channel record", slog.String("id", record.ID.String()), slog.String("handle", string(record.Username)))

	return outcome, nil
}
