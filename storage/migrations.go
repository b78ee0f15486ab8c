package storage

var pgMigration = []string{
	`CREATE TABLE tracked_channel (
id SERIAL PRIMARY KEY,
channel_id VARCHAR(255) NOT NULL,
channel_name VARCHAR(255) NOT NULL UNIQUE,
added_at TIMESTAMPTZ NOT NULL
)`,
	`CREATE TABLE channel_stats (
id uuid PRIMARY KEY,
created_at TIMESTAMPTZ NOT NULL,
username VARCHAR(255) NOT NULL,
is_username_found BOOLEAN NOT NULL,
response TEXT NOT NULL,
response_status_code INTEGER NOT NULL,
is_success BOOLEAN NOT NULL,
channel_type VARCHAR(255),
channel_id VARCHAR(255),
channel_name VARCHAR(255),
channel_description TEXT,
channel_created_at VARCHAR(255),
channel_logo VARCHAR(1024),
channel_country VARCHAR(255),
channel_view_count BIGINT,
channel_subscriber_count BIGINT,
is_hidden_subscriber BOOLEAN,
channel_video_count BIGINT,
privacy_channel_type VARCHAR(255),
is_channel_linked BOOLEAN,
long_upload_allowed VARCHAR(255),
is_kid_safe BOOLEAN
)`,
	`CREATE INDEX channel_stats_channel_name ON channel_stats (channel_name)`,
	`CREATE INDEX channel_stats_username ON channel_stats (username)`,
}
