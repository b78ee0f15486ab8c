package storage

import (
	"context"

	"github.com/Mega-Barrel/youtube-profile-stats/model"
)

// Outcome reports what ensuring a tracked channel did. Duplicate is a
// success: the desired post-condition, "this channel is tracked",
// already held.
type Outcome int

const (
	OutcomeInserted Outcome = iota
	OutcomeDuplicate
)

func (o Outcome) String() string {
	if o == OutcomeInserted {
		return "inserted"
	}

	return "duplicate"
}

type TrackedChannelRepository interface {
	EnsureTracked(ctx context.Context, channelID, channelName string) (Outcome, error)
	FindAll(ctx context.Context) ([]*model.TrackedChannel, error)
}

type ChannelRecordRepository interface {
	Insert(ctx context.Context, record *model.ChannelRecord) error
	FindByChannelName(ctx context.Context, channelName string) ([]*model.ChannelRecord, error)
	DistinctUsernames(ctx context.Context) ([]model.Handle, error)
}
