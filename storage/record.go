package storage

import (
	"context"

	"github.com/Mega-Barrel/youtube-profile-stats/model"
)

type PostgresChannelRecordRepository struct {
	postgres *Postgres
}

func NewPostgresChannelRecordRepository(postgres *Postgres) *PostgresChannelRecordRepository {
	return &PostgresChannelRecordRepository{postgres: postgres}
}

// Insert appends one record to the history. The history is append-only,
// there is no update or delete path.
func (r *PostgresChannelRecordRepository) Insert(ctx context.Context, record *model.ChannelRecord) error {
	_, err := r.postgres.db.ExecContext(ctx, `
INSERT INTO channel_stats
(id, created_at, username, is_username_found, response, response_status_code, is_success,
channel_type, channel_id, channel_name, channel_description, channel_created_at,
channel_logo, channel_country, channel_view_count, channel_subscriber_count,
is_hidden_subscriber, channel_video_count, privacy_channel_type, is_channel_linked,
long_upload_allowed, is_kid_safe)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
`,
		record.ID, record.CreatedAt, string(record.Username), record.IsUsernameFound,
		record.Response, record.ResponseStatusCode, record.IsSuccess,
		record.ChannelType, record.ChannelID, record.ChannelName, record.ChannelDescription,
		record.ChannelCreatedAt, record.ChannelLogo, record.ChannelCountry,
		record.ChannelViewCount, record.ChannelSubscriberCount, record.IsHiddenSubscriber,
		record.ChannelVideoCount, record.PrivacyChannelType, record.IsChannelLinked,
		record.LongUploadAllowed, record.IsKidSafe)

	return err
}

func (r *PostgresChannelRecordRepository) FindByChannelName(ctx context.Context, channelName string) ([]*model.ChannelRecord, error) {
	rows, err := r.postgres.db.QueryContext(ctx, `
SELECT id, created_at, username, is_username_found, response, response_status_code, is_success,
channel_type, channel_id, channel_name, channel_description, channel_created_at,
channel_logo, channel_country, channel_view_count, channel_subscriber_count,
is_hidden_subscriber, channel_video_count, privacy_channel_type, is_channel_linked,
long_upload_allowed, is_kid_safe
FROM channel_stats
WHERE channel_name = $1
ORDER BY created_at DESC
`, channelName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*model.ChannelRecord{}
	for rows.Next() {
		record := &model.ChannelRecord{}
		var username string
		if err := rows.Scan(&record.ID, &record.CreatedAt, &username, &record.IsUsernameFound,
			&record.Response, &record.ResponseStatusCode, &record.IsSuccess,
			&record.ChannelType, &record.ChannelID, &record.ChannelName, &record.ChannelDescription,
			&record.ChannelCreatedAt, &record.ChannelLogo, &record.ChannelCountry,
			&record.ChannelViewCount, &record.ChannelSubscriberCount, &record.IsHiddenSubscriber,
			&record.ChannelVideoCount, &record.PrivacyChannelType, &record.IsChannelLinked,
			&record.LongUploadAllowed, &record.IsKidSafe); err != nil {
			return nil, err
		}
		record.Username = model.Handle(username)
		records = append(records, record)
	}

	return records, rows.Err()
}

// DistinctUsernames lists every handle the history has a record for.
// The batch watcher feeds on this, the tracked_channel table is only a
// convenience index.
func (r *PostgresChannelRecordRepository) DistinctUsernames(ctx context.Context) ([]model.Handle, error) {
	rows, err := r.postgres.db.QueryContext(ctx, `
SELECT DISTINCT username FROM channel_stats ORDER BY username
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	handles := []model.Handle{}
	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			return nil, err
		}
		handles = append(handles, model.Handle(username))
	}

	return handles, rows.Err()
}
