package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/Mega-Barrel/youtube-profile-stats/model"
	"golang.org/x/exp/slog"
)

const (
	channelsEndpoint = "https://www.googleapis.com/youtube/v3/channels"
	channelParts     = "contentDetails,contentOwnerDetails,id,localizations,snippet,status,topicDetails,statistics"
	fetchTimeout     = 30 * time.Second
)

// FailureReason classifies a transport-level fetch failure.
type FailureReason string

const (
	ReasonNetworkError FailureReason = "network error"
	ReasonTimeout      FailureReason = "timeout"
)

// TransportError is returned when the channels call never produced an
// HTTP response. A non-2xx response is not a TransportError, the status
// is carried through in the FetchResult so the body can be persisted.
type TransportError struct {
	Reason FailureReason
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Reason, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// FetchResult is one response from the channels endpoint, raw.
type FetchResult struct {
	Body   string
	Status int
	Handle model.Handle
}

type ChannelFetcher interface {
	Fetch(ctx context.Context, handle model.Handle) (*FetchResult, error)
}

// Youtube fetches channel metadata from the YouTube Data API v3
// channels endpoint.
type Youtube struct {
	endpoint string
	apiKey   string
	client   *http.Client
	logger   *slog.Logger
}

func NewYoutube(apiKey string, logger *slog.Logger) *Youtube {
	return &Youtube{
		endpoint: channelsEndpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: fetchTimeout},
		logger:   logger,
	}
}

func (y *Youtube) Fetch(ctx context.Context, handle model.Handle) (*FetchResult, error) {
	if handle.IsEmpty() {
		return nil, fmt.Errorf("empty channel handle")
	}

	params := url.Values{}
	params.Set("key", y.apiKey)
	params.Set("forHandle", handle.ForAPI())
	params.Set("part", channelParts)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, y.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	y.logger.Info("calling channels api", slog.String("handle", string(handle)))
	resp, err := y.client.Do(req)
	if err != nil {
		return nil, classifyTransportErr(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportErr(err)
	}
	y.logger.Info("channels api responded", slog.String("handle", string(handle)), slog.Int("status", resp.StatusCode))

	return &FetchResult{
		Body:   string(body),
		Status: resp.StatusCode,
		Handle: handle,
	}, nil
}

func classifyTransportErr(err error) *TransportError {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return &TransportError{Reason: ReasonTimeout, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &TransportError{Reason: ReasonTimeout, Err: err}
	}

	return &TransportError{Reason: ReasonNetworkError, Err: err}
}
