package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Mega-Barrel/youtube-profile-stats/model"
	"github.com/Mega-Barrel/youtube-profile-stats/storage"
	"golang.org/x/exp/slog"
)

// ChannelAPI exposes the stored channel data read-only: the tracked
// channel index and the per-channel snapshot history.
type ChannelAPI struct {
	trackedRepo storage.TrackedChannelRepository
	recordRepo  storage.ChannelRecordRepository
	logger      *slog.Logger
}

func NewChannelAPI(trackedRepo storage.TrackedChannelRepository, recordRepo storage.ChannelRecordRepository, logger *slog.Logger) *ChannelAPI {
	return &ChannelAPI{
		trackedRepo: trackedRepo,
		recordRepo:  recordRepo,
		logger:      logger,
	}
}

func (c *ChannelAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	channelName, _ := ShiftPath(r.URL.Path)

	switch {
	case r.Method == http.MethodGet && channelName == "":
		c.List(w, r)
	case r.Method == http.MethodGet:
		c.History(w, r, channelName)
	default:
		Error(w, http.StatusNotFound, "not found", fmt.Errorf("method %s with subpath %q was not registered in the channel api", r.Method, channelName))
	}
}

func (c *ChannelAPI) List(w http.ResponseWriter, r *http.Request) {
	channels, err := c.trackedRepo.FindAll(r.Context())
	if err != nil {
		c.returnErr(r.Context(), w, http.StatusInternalServerError, "could not list tracked channels", err)
		return
	}

	type respChannel struct {
		ChannelID   string `json:"channel_id"`
		ChannelName string `json:"channel_name"`
		AddedAt     string `json:"added_at"`
	}
	resp := []respChannel{}
	for _, channel := range channels {
		resp = append(resp, respChannel{
			ChannelID:   channel.ChannelID,
			ChannelName: channel.ChannelName,
			AddedAt:     channel.AddedAt.UTC().Format(model.TimestampLayout),
		})
	}

	jsonBody, err := json.Marshal(resp)
	if err != nil {
		c.returnErr(r.Context(), w, http.StatusInternalServerError, "could not marshal response", err)
		return
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, string(jsonBody))
}

func (c *ChannelAPI) History(w http.ResponseWriter, r *http.Request, channelName string) {
	name, err := url.PathUnescape(channelName)
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid channel name", err)
		return
	}

	records, err := c.recordRepo.FindByChannelName(r.Context(), name)
	if err != nil {
		c.returnErr(r.Context(), w, http.StatusInternalServerError, "could not fetch channel history", err)
		return
	}

	type respRecord struct {
		ID                     string  `json:"id"`
		CreatedAt              string  `json:"created_at"`
		Username               string  `json:"username"`
		IsUsernameFound        bool    `json:"is_username_found"`
		ResponseStatusCode     int     `json:"response_status_code"`
		IsSuccess              bool    `json:"is_success"`
		ChannelType            *string `json:"channel_type"`
		ChannelID              *string `json:"channel_id"`
		ChannelName            *string `json:"channel_name"`
		ChannelDescription     *string `json:"channel_description"`
		ChannelCreatedAt       *string `json:"channel_created_at"`
		ChannelLogo            *string `json:"channel_logo"`
		ChannelCountry         *string `json:"channel_country"`
		ChannelViewCount       *int64  `json:"channel_view_count"`
		ChannelSubscriberCount *int64  `json:"channel_subscriber_count"`
		IsHiddenSubscriber     *bool   `json:"is_hidden_subscriber"`
		ChannelVideoCount      *int64  `json:"channel_video_count"`
		PrivacyChannelType     *string `json:"privacy_channel_type"`
		IsChannelLinked        *bool   `json:"is_channel_linked"`
		LongUploadAllowed      *string `json:"long_upload_allowed"`
		IsKidSafe              *bool   `json:"is_kid_safe"`
	}
	resp := []respRecord{}
	for _, rec := range records {
		resp = append(resp, respRecord{
			ID:                     rec.ID.String(),
			CreatedAt:              rec.CreatedAt.UTC().Format(model.TimestampLayout),
			Username:               string(rec.Username),
			IsUsernameFound:        rec.IsUsernameFound,
			ResponseStatusCode:     rec.ResponseStatusCode,
			IsSuccess:              rec.IsSuccess,
			ChannelType:            rec.ChannelType,
			ChannelID:              rec.ChannelID,
			ChannelName:            rec.ChannelName,
			ChannelDescription:     rec.ChannelDescription,
			ChannelCreatedAt:       rec.ChannelCreatedAt,
			ChannelLogo:            rec.ChannelLogo,
			ChannelCountry:         rec.ChannelCountry,
			ChannelViewCount:       rec.ChannelViewCount,
			ChannelSubscriberCount: rec.ChannelSubscriberCount,
			IsHiddenSubscriber:     rec.IsHiddenSubscriber,
			ChannelVideoCount:      rec.ChannelVideoCount,
			PrivacyChannelType:     rec.PrivacyChannelType,
			IsChannelLinked:        rec.IsChannelLinked,
			LongUploadAllowed:      rec.LongUploadAllowed,
			IsKidSafe:              rec.IsKidSafe,
		})
	}

	jsonBody, err := json.Marshal(resp)
	if err != nil {
		c.returnErr(r.Context(), w, http.StatusInternalServerError, "could not marshal response", err)
		return
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, string(jsonBody))
}

func (c *ChannelAPI) returnErr(_ context.Context, w http.ResponseWriter, status int, message string, err error, details ...any) {
	c.logger.Error(message, err, slog.String("details", fmt.Sprintf("%+v", details)))
	Error(w, status, message, err, details...)
}
