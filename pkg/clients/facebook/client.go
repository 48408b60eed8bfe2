package facebook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/mbintumar0519/xenonbpd/pkg/metrics"
)

// Client defines the interface for sending server events to the Meta
// Conversions API. When no access token or pixel id is configured the
// client reports Enabled() == false and callers skip tracking entirely.
type Client interface {
	Enabled() bool
	SendEvent(ctx context.Context, event ServerEvent) error
}

type clientImpl struct {
	accessToken   string
	pixelID       string
	testEventCode string
	baseURL       string
	httpClient    *http.Client
	logger        *zap.Logger
}

// NewClient creates a new Conversions API client
func NewClient(logger *zap.Logger, accessToken, pixelID, testEventCode string, opts ...func(*clientImpl)) Client {
	c := &clientImpl{
		accessToken:   accessToken,
		pixelID:       pixelID,
		testEventCode: testEventCode,
		baseURL:       "https://graph.facebook.com/v18.0",
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		logger:        logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithBaseURL overrides the Graph API host, used by tests
func WithBaseURL(baseURL string) func(*clientImpl) {
	return func(c *clientImpl) {
		c.baseURL = baseURL
	}
}

func (c *clientImpl) Enabled() bool {
	return c.accessToken != "" && c.pixelID != ""
}

type eventRequest struct {
	Data          []ServerEvent `json:"data"`
	TestEventCode string        `json:"test_event_code,omitempty"`
	AccessToken   string        `json:"access_token"`
}

// SendEvent posts a single server event. One POST per invocation, no retry;
// callers treat failures as non-blocking.
func (c *clientImpl) SendEvent(ctx context.Context, event ServerEvent) error {
	if !c.Enabled() {
		return fmt.Errorf("facebook tracking not configured")
	}

	payload, err := json.Marshal(eventRequest{
		Data:          []ServerEvent{event},
		TestEventCode: c.testEventCode,
		AccessToken:   c.accessToken,
	})
	if err != nil {
		return fmt.Errorf("error creating payload: %w", err)
	}

	requestURL := fmt.Sprintf("%s/%s/events", c.baseURL, c.pixelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Add("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	metrics.ObserveProvider("facebook", err)
	if err != nil {
		return fmt.Errorf("error sending event: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("conversions API returned %d: %s", resp.StatusCode, string(body))
	}

	c.logger.Info("tracked server event",
		zap.String("event_name", event.EventName),
		zap.String("event_id", event.EventID))
	metrics.TrackingEventsTotal.WithLabelValues(event.EventName).Inc()
	return nil
}
