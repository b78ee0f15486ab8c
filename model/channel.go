package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TimestampLayout is the wire format for record timestamps: ISO-8601 in
// UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Handle is a YouTube channel handle in canonical form: trimmed and
// without the leading "@". The "@" is added back at the API boundary.
type Handle string

func NewHandle(raw string) Handle {
	return Handle(strings.TrimPrefix(strings.TrimSpace(raw), "@"))
}

// ForAPI returns the handle as the channels endpoint expects it.
func (h Handle) ForAPI() string {
	return "@" + string(h)
}

func (h Handle) IsEmpty() bool {
	return h == ""
}

// ChannelRecord is one snapshot of a channel lookup. It is created once
// per fetch attempt that reaches normalization and never mutated. The
// channel attributes are nil whenever the response did not carry them;
// the raw response and status are always kept, they are the audit trail.
type ChannelRecord struct {
	ID                 uuid.UUID
	CreatedAt          time.Time
	Username           Handle
	IsUsernameFound    bool
	Response           string
	ResponseStatusCode int
	IsSuccess          bool

	ChannelType            *string
	ChannelID              *string
	ChannelName            *string
	ChannelDescription     *string
	ChannelCreatedAt       *string
	ChannelLogo            *string
	ChannelCountry         *string
	ChannelViewCount       *int64
	ChannelSubscriberCount *int64
	IsHiddenSubscriber     *bool
	ChannelVideoCount      *int64
	PrivacyChannelType     *string
	IsChannelLinked        *bool
	LongUploadAllowed      *string
	IsKidSafe              *bool
}

// HasChannelIdentity reports whether the record carries enough identity
// to register a tracked channel.
func (r *ChannelRecord) HasChannelIdentity() bool {
	return r.ChannelID != nil && r.ChannelName != nil
}

// TrackedChannel is one entry per unique channel the watcher has seen a
// successful lookup for. At most one entry exists per channel name.
type TrackedChannel struct {
	ChannelID   string
	ChannelName string
	AddedAt     time.Time
}
