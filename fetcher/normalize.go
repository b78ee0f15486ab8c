package fetcher

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Mega-Barrel/youtube-profile-stats/model"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

// channelsResponse mirrors the parts of the channels endpoint payload
// the record cares about. Every leaf that may be missing is a pointer,
// a nil stays nil all the way into the stored record.
type channelsResponse struct {
	Items []channelItem `json:"items"`
}

type channelItem struct {
	Kind    string `json:"kind"`
	ID      string `json:"id"`
	Snippet *struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		PublishedAt *string `json:"publishedAt"`
		Country     *string `json:"country"`
		Thumbnails  *struct {
			High *struct {
				URL *string `json:"url"`
			} `json:"high"`
		} `json:"thumbnails"`
	} `json:"snippet"`
	Statistics *struct {
		ViewCount             *string `json:"viewCount"`
		SubscriberCount       *string `json:"subscriberCount"`
		HiddenSubscriberCount *bool   `json:"hiddenSubscriberCount"`
		VideoCount            *string `json:"videoCount"`
	} `json:"statistics"`
	Status *struct {
		PrivacyStatus     *string `json:"privacyStatus"`
		IsLinked          *bool   `json:"isLinked"`
		LongUploadsStatus *string `json:"longUploadsStatus"`
		MadeForKids       *bool   `json:"madeForKids"`
	} `json:"status"`
}

// Normalizer turns a raw channels response into a ChannelRecord. It
// never fails: an unparseable body, a missing items list or a non-200
// status all yield a record with nil channel attributes and the raw
// body kept verbatim for audit.
type Normalizer struct {
	logger *slog.Logger
}

func NewNormalizer(logger *slog.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

func (n *Normalizer) Normalize(body string, status int, handle model.Handle, now time.Time) *model.ChannelRecord {
	rec := &model.ChannelRecord{
		ID:                 uuid.New(),
		CreatedAt:          now.UTC(),
		Username:           handle,
		Response:           body,
		ResponseStatusCode: status,
		IsSuccess:          status == http.StatusOK,
	}

	if status != http.StatusOK {
		return rec
	}

	var resp channelsResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		n.logger.Info("response body is not valid json, keeping raw only", slog.String("handle", string(handle)))
		return rec
	}
	if len(resp.Items) == 0 {
		return rec
	}

	// The API is assumed to match at most one channel per handle, so
	// the first item wins.
	item := resp.Items[0]
	rec.IsUsernameFound = true
	rec.ChannelType = optional(item.Kind)
	rec.ChannelID = optional(item.ID)

	if s := item.Snippet; s != nil {
		rec.ChannelName = s.Title
		rec.ChannelDescription = collapseBreaks(s.Description)
		rec.ChannelCreatedAt = s.PublishedAt
		rec.ChannelCountry = s.Country
		if s.Thumbnails != nil && s.Thumbnails.High != nil {
			rec.ChannelLogo = s.Thumbnails.High.URL
		}
	}
	if s := item.Statistics; s != nil {
		rec.ChannelViewCount = n.parseCount(s.ViewCount, "viewCount", handle)
		rec.ChannelSubscriberCount = n.parseCount(s.SubscriberCount, "subscriberCount", handle)
		rec.IsHiddenSubscriber = s.HiddenSubscriberCount
		rec.ChannelVideoCount = n.parseCount(s.VideoCount, "videoCount", handle)
	}
	if s := item.Status; s != nil {
		rec.PrivacyChannelType = s.PrivacyStatus
		rec.IsChannelLinked = s.IsLinked
		rec.LongUploadAllowed = s.LongUploadsStatus
		rec.IsKidSafe = s.MadeForKids
	}

	return rec
}

// parseCount converts the API's string counters to int64. A value that
// does not parse is logged and stored as null instead of failing the
// whole record.
func (n *Normalizer) parseCount(value *string, field string, handle model.Handle) *int64 {
	if value == nil {
		return nil
	}
	count, err := strconv.ParseInt(*value, 10, 64)
	if err != nil {
		n.logger.Error("non-numeric counter in response", err, slog.String("handle", string(handle)), slog.String("field", field))
		return nil
	}

	return &count
}

// collapseBreaks replaces every double line-break in a description with
// a single space. No other text transformation is applied.
func collapseBreaks(desc *string) *string {
	if desc == nil {
		return nil
	}
	collapsed := strings.ReplaceAll(*desc, "\n\n", " ")

	return &collapsed
}

func optional(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}
