package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Mega-Barrel/youtube-profile-stats/model"
	"github.com/lib/pq"
)

// uniqueViolation is the Postgres error code for a violated unique
// constraint. It is the authoritative duplicate signal, the SELECT
// before the INSERT is only an optimization.
const uniqueViolation = pq.ErrorCode("23505")

type PostgresTrackedChannelRepository struct {
	postgres *Postgres
}

func NewPostgresTrackedChannelRepository(postgres *Postgres) *PostgresTrackedChannelRepository {
	return &PostgresTrackedChannelRepository{postgres: postgres}
}

func (r *PostgresTrackedChannelRepository) EnsureTracked(ctx context.Context, channelID, channelName string) (Outcome, error) {
	var one int
	err := r.postgres.db.QueryRowContext(ctx, `
SELECT 1 FROM tracked_channel
WHERE channel_id = $1 AND channel_name = $2
`, channelID, channelName).Scan(&one)
	switch {
	case err == nil:
		return OutcomeDuplicate, nil
	case !errors.Is(err, sql.ErrNoRows):
		return OutcomeDuplicate, err
	}

	_, err = r.postgres.db.ExecContext(ctx, `
INSERT INTO tracked_channel
(channel_id, channel_name, added_at)
VALUES ($1, $2, $3)
`, channelID, channelName, time.Now().UTC())
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			// lost the race to another writer, the channel is tracked
			return OutcomeDuplicate, nil
		}
		return OutcomeDuplicate, err
	}

	return OutcomeInserted, nil
}

func (r *PostgresTrackedChannelRepository) FindAll(ctx context.Context) ([]*model.TrackedChannel, error) {
	rows, err := r.postgres.db.QueryContext(ctx, `
SELECT channel_id, channel_name, added_at
FROM tracked_channel
ORDER BY added_at
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	channels := []*model.TrackedChannel{}
	for rows.Next() {
		channel := &model.TrackedChannel{}
		if err := rows.Scan(&channel.ChannelID, &channel.ChannelName, &channel.AddedAt); err != nil {
			return nil, err
		}
		channels = append(channels, channel)
	}

	return channels, rows.Err()
}
