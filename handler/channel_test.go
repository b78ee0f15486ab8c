package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Mega-Barrel/youtube-profile-stats/model"
	"github.com/Mega-Barrel/youtube-profile-stats/storage"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

type stubTrackedRepo struct {
	channels []*model.TrackedChannel
}

func (s *stubTrackedRepo) EnsureTracked(ctx context.Context, channelID, channelName string) (storage.Outcome, error) {
	return storage.OutcomeDuplicate, nil
}

func (s *stubTrackedRepo) FindAll(ctx context.Context) ([]*model.TrackedChannel, error) {
	return s.channels, nil
}

type stubRecordRepo struct {
	records map[string][]*model.ChannelRecord
}

func (s *stubRecordRepo) Insert(ctx context.Context, record *model.ChannelRecord) error {
	return nil
}

func (s *stubRecordRepo) FindByChannelName(ctx context.Context, channelName string) ([]*model.ChannelRecord, error) {
	return s.records[channelName], nil
}

func (s *stubRecordRepo) DistinctUsernames(ctx context.Context) ([]model.Handle, error) {
	return nil, nil
}

func testServer(tracked *stubTrackedRepo, records *stubRecordRepo) *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard))
	return NewServer(NewChannelAPI(tracked, records, logger), logger)
}

func TestChannelList(t *testing.T) {
	tracked := &stubTrackedRepo{channels: []*model.TrackedChannel{
		{
			ChannelID:   "UC123",
			ChannelName: "Test Channel",
			AddedAt:     time.Date(2024, 3, 12, 0, 22, 11, 0, time.UTC),
		},
	}}
	server := testServer(tracked, &stubRecordRepo{})

	req := httptest.NewRequest(http.MethodGet, "/channel", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not valid json: %v", err)
	}
	if len(resp) != 1 {
		t.Fatalf("got %d channels, want 1", len(resp))
	}
	if resp[0]["channel_id"] != "UC123" {
		t.Errorf("channel_id = %v, want UC123", resp[0]["channel_id"])
	}
	if resp[0]["added_at"] != "2024-03-12T00:22:11.000Z" {
		t.Errorf("added_at = %v, want 2024-03-12T00:22:11.000Z", resp[0]["added_at"])
	}
}

func TestChannelHistory(t *testing.T) {
	name := "Test Channel"
	count := int64(100)
	records := &stubRecordRepo{records: map[string][]*model.ChannelRecord{
		name: {
			{
				ID:                 uuid.New(),
				CreatedAt:          time.Now().UTC(),
				Username:           model.Handle("testchannel"),
				IsUsernameFound:    true,
				Response:           "{}",
				ResponseStatusCode: 200,
				IsSuccess:          true,
				ChannelName:        &name,
				ChannelViewCount:   &count,
			},
		},
	}}
	server := testServer(&stubTrackedRepo{}, records)

	req := httptest.NewRequest(http.MethodGet, "/channel/Test%20Channel", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not valid json: %v", err)
	}
	if len(resp) != 1 {
		t.Fatalf("got %d records, want 1", len(resp))
	}
	if resp[0]["channel_name"] != name {
		t.Errorf("channel_name = %v, want %q", resp[0]["channel_name"], name)
	}
	if resp[0]["channel_view_count"] != float64(100) {
		t.Errorf("channel_view_count = %v, want 100", resp[0]["channel_view_count"])
	}
	if resp[0]["channel_country"] != nil {
		t.Errorf("channel_country = %v, want null", resp[0]["channel_country"])
	}
}

func TestChannelHistoryEmpty(t *testing.T) {
	server := testServer(&stubTrackedRepo{}, &stubRecordRepo{})

	req := httptest.NewRequest(http.MethodGet, "/channel/Unknown", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "[]" {
		t.Errorf("body = %q, want empty list", rec.Body.String())
	}
}

func TestUnknownAPI(t *testing.T) {
	server := testServer(&stubTrackedRepo{}, &stubRecordRepo{})

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
