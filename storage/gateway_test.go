package storage

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/Mega-Barrel/youtube-profile-stats/model"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

type memTrackedRepo struct {
	channels map[string]*model.TrackedChannel
	err      error
	calls    int
}

func newMemTrackedRepo() *memTrackedRepo {
	return &memTrackedRepo{channels: map[string]*model.TrackedChannel{}}
}

func (m *memTrackedRepo) EnsureTracked(ctx context.Context, channelID, channelName string) (Outcome, error) {
	m.calls++
	if m.err != nil {
		return OutcomeDuplicate, m.err
	}
	if _, ok := m.channels[channelName]; ok {
		return OutcomeDuplicate, nil
	}
	m.channels[channelName] = &model.TrackedChannel{
		ChannelID:   channelID,
		ChannelName: channelName,
		AddedAt:     time.Now(),
	}
	return OutcomeInserted, nil
}

func (m *memTrackedRepo) FindAll(ctx context.Context) ([]*model.TrackedChannel, error) {
	all := []*model.TrackedChannel{}
	for _, c := range m.channels {
		all = append(all, c)
	}
	return all, nil
}

type memRecordRepo struct {
	records []*model.ChannelRecord
	err     error
}

func (m *memRecordRepo) Insert(ctx context.Context, record *model.ChannelRecord) error {
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, record)
	return nil
}

func (m *memRecordRepo) FindByChannelName(ctx context.Context, channelName string) ([]*model.ChannelRecord, error) {
	found := []*model.ChannelRecord{}
	for _, r := range m.records {
		if r.ChannelName != nil && *r.ChannelName == channelName {
			found = append(found, r)
		}
	}
	return found, nil
}

func (m *memRecordRepo) DistinctUsernames(ctx context.Context) ([]model.Handle, error) {
	seen := map[model.Handle]bool{}
	handles := []model.Handle{}
	for _, r := range m.records {
		if !seen[r.Username] {
			seen[r.Username] = true
			handles = append(handles, r.Username)
		}
	}
	return handles, nil
}

func testRecord(channelID, channelName string) *model.ChannelRecord {
	rec := &model.ChannelRecord{
		ID:                 uuid.New(),
		CreatedAt:          time.Now().UTC(),
		Username:           model.Handle("someone"),
		IsUsernameFound:    true,
		Response:           `{"items":[{}]}`,
		ResponseStatusCode: 200,
		IsSuccess:          true,
	}
	if channelID != "" {
		rec.ChannelID = &channelID
	}
	if channelName != "" {
		rec.ChannelName = &channelName
	}
	return rec
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard))
}

func TestGatewayPersist(t *testing.T) {
	tracked := newMemTrackedRepo()
	records := &memRecordRepo{}
	gateway := NewGateway(tracked, records, testLogger())

	outcome, err := gateway.Persist(context.Background(), testRecord("UC123", "Test Channel"))
	if err != nil {
		t.Fatalf("Persist() = %v, want nil", err)
	}
	if outcome != OutcomeInserted {
		t.Errorf("outcome = %v, want OutcomeInserted", outcome)
	}
	if len(tracked.channels) != 1 {
		t.Errorf("tracked %d channels, want 1", len(tracked.channels))
	}
	if len(records.records) != 1 {
		t.Errorf("appended %d records, want 1", len(records.records))
	}
}

func TestGatewayPersistIdempotentTracking(t *testing.T) {
	tracked := newMemTrackedRepo()
	records := &memRecordRepo{}
	gateway := NewGateway(tracked, records, testLogger())

	first, err := gateway.Persist(context.Background(), testRecord("UC123", "Test Channel"))
	if err != nil {
		t.Fatalf("first Persist() = %v, want nil", err)
	}
	second, err := gateway.Persist(context.Background(), testRecord("UC123", "Test Channel"))
	if err != nil {
		t.Fatalf("second Persist() = %v, want nil", err)
	}

	if first != OutcomeInserted {
		t.Errorf("first outcome = %v, want OutcomeInserted", first)
	}
	if second != OutcomeDuplicate {
		t.Errorf("second outcome = %v, want OutcomeDuplicate", second)
	}
	if len(tracked.channels) != 1 {
		t.Errorf("tracked %d channels, want exactly 1", len(tracked.channels))
	}
	if len(records.records) != 2 {
		t.Errorf("appended %d records, want 2, the history is append-only", len(records.records))
	}
}

func TestGatewayPersistTrimsChannelName(t *testing.T) {
	tracked := newMemTrackedRepo()
	gateway := NewGateway(tracked, &memRecordRepo{}, testLogger())

	if _, err := gateway.Persist(context.Background(), testRecord("UC123", "  Test Channel  ")); err != nil {
		t.Fatalf("Persist() = %v, want nil", err)
	}
	if _, ok := tracked.channels["Test Channel"]; !ok {
		t.Errorf("tracked channels = %v, want trimmed name", tracked.channels)
	}
}

func TestGatewayPersistWithoutIdentity(t *testing.T) {
	for _, tc := range []struct {
		name   string
		record *model.ChannelRecord
	}{
		{"no identity at all", testRecord("", "")},
		{"id only", testRecord("UC123", "")},
		{"name only", testRecord("", "Test Channel")},
	} {
		t.Run(tc.name, func(t *testing.T) {
			tracked := newMemTrackedRepo()
			records := &memRecordRepo{}
			gateway := NewGateway(tracked, records, testLogger())

			if _, err := gateway.Persist(context.Background(), tc.record); err != nil {
				t.Fatalf("Persist() = %v, want nil", err)
			}
			if tracked.calls != 0 {
				t.Error("expected the tracking step to be skipped")
			}
			if len(records.records) != 1 {
				t.Errorf("appended %d records, want 1", len(records.records))
			}
		})
	}
}

func TestGatewayPersistTrackingFailureDoesNotBlockAppend(t *testing.T) {
	tracked := newMemTrackedRepo()
	tracked.err = errors.New("index unavailable")
	records := &memRecordRepo{}
	gateway := NewGateway(tracked, records, testLogger())

	if _, err := gateway.Persist(context.Background(), testRecord("UC123", "Test Channel")); err != nil {
		t.Fatalf("Persist() = %v, want nil", err)
	}
	if len(records.records) != 1 {
		t.Errorf("appended %d records, want 1", len(records.records))
	}
}

func TestGatewayPersistAppendFailure(t *testing.T) {
	insertErr := errors.New("store unreachable")
	gateway := NewGateway(newMemTrackedRepo(), &memRecordRepo{err: insertErr}, testLogger())

	if _, err := gateway.Persist(context.Background(), testRecord("UC123", "Test Channel")); !errors.Is(err, insertErr) {
		t.Errorf("Persist() = %v, want %v", err, insertErr)
	}
}
