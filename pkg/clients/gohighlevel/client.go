package gohighlevel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/mbintumar0519/xenonbpd/pkg/metrics"
)

var (
	// ErrNotConfigured means no API key is present; callers decide whether
	// that is fatal (production) or a soft accept (development).
	ErrNotConfigured = errors.New("gohighlevel API key not configured")

	// ErrContactIDMissing means the create call returned 2xx but neither
	// known response shape carried a contact id.
	ErrContactIDMissing = errors.New("gohighlevel returned success but contact id was not found")
)

// ContactPayload is the v1 create-contact request body
type ContactPayload struct {
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	City        string   `json:"city,omitempty"`
	State       string   `json:"state,omitempty"`
	PostalCode  string   `json:"postalCode,omitempty"`
	Country     string   `json:"country,omitempty"`
	Source      string   `json:"source,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	CompanyName string   `json:"companyName,omitempty"`
}

// Client defines the interface for interacting with the GoHighLevel API
type Client interface {
	Configured() bool
	CreateContact(ctx context.Context, contact ContactPayload) (string, error)
	AddNote(ctx context.Context, contactID, body string) error
	GenerateBookingLink(ctx context.Context, firstName, lastName, email, phone string) (link, method string, err error)
}

type clientImpl struct {
	apiKey     string
	calendarID string
	v1BaseURL  string
	v2BaseURL  string
	widgetBase string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new GoHighLevel client
func NewClient(logger *zap.Logger, apiKey, calendarID string, opts ...func(*clientImpl)) Client {
	c := &clientImpl{
		apiKey:     apiKey,
		calendarID: calendarID,
		v1BaseURL:  "https://rest.gohighlevel.com/v1",
		v2BaseURL:  "https://services.leadconnectorhq.com",
		widgetBase: "https://api.leadconnectorhq.com/widget/booking",
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithBaseURLs overrides the API hosts, used by tests
func WithBaseURLs(v1, v2, widget string) func(*clientImpl) {
	return func(c *clientImpl) {
		if v1 != "" {
			c.v1BaseURL = v1
		}
		if v2 != "" {
			c.v2BaseURL = v2
		}
		if widget != "" {
			c.widgetBase = widget
		}
	}
}

func (c *clientImpl) Configured() bool {
	return c.apiKey != ""
}

func (c *clientImpl) CreateContact(ctx context.Context, contact ContactPayload) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	payload, err := json.Marshal(contact)
	if err != nil {
		return "", fmt.Errorf("error creating payload: %w", err)
	}

	body, err := c.postV1(ctx, c.v1BaseURL+"/contacts/", payload)
	metrics.ObserveProvider("gohighlevel", err)
	if err != nil {
		return "", fmt.Errorf("error creating contact: %w", err)
	}

	contactID := extractContactID(body)
	if contactID == "" {
		return "", ErrContactIDMissing
	}

	c.logger.Info("created CRM contact",
		zap.String("contact_id", contactID),
		zap.Strings("tags", contact.Tags))
	return contactID, nil
}

func (c *clientImpl) AddNote(ctx context.Context, contactID, noteBody string) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	payload, err := json.Marshal(map[string]string{"body": noteBody})
	if err != nil {
		return fmt.Errorf("error creating payload: %w", err)
	}

	noteURL := fmt.Sprintf("%s/contacts/%s/notes/", c.v1BaseURL, contactID)
	_, err = c.postV1(ctx, noteURL, payload)
	metrics.ObserveProvider("gohighlevel", err)
	if err != nil {
		return fmt.Errorf("error adding note: %w", err)
	}
	return nil
}

// postV1 issues an authenticated JSON POST and returns the response body.
// Any non-2xx status is an error carrying a bounded body excerpt.
func (c *clientImpl) postV1(ctx context.Context, requestURL string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Add("Authorization", "Bearer "+c.apiKey)
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("gohighlevel API returned %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// extractContactID handles both response shapes the v1 API is known to
// return: {"contact":{"id":...}} and a bare {"id":...}.
func extractContactID(body []byte) string {
	var wrapped struct {
		Contact struct {
			ID string `json:"id"`
		} `json:"contact"`
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return ""
	}
	if wrapped.Contact.ID != "" {
		return wrapped.Contact.ID
	}
	return wrapped.ID
}

// MaskKey shortens a secret for log output
func MaskKey(key string) string {
	if key == "" {
		return "MISSING"
	}
	if len(key) <= 10 {
		return string(key[0]) + "***" + string(key[len(key)-1])
	}
	return key[:6] + "..." + key[len(key)-4:]
}
