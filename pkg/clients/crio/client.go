package crio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mbintumar0519/xenonbpd/pkg/metrics"
	"github.com/mbintumar0519/xenonbpd/pkg/models"
)

// Client defines the interface for the CRIO research-platform web form
type Client interface {
	SubmitLead(ctx context.Context, contact models.Contact) error
}

type clientImpl struct {
	formID     string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new CRIO client
func NewClient(logger *zap.Logger, formID string, opts ...func(*clientImpl)) Client {
	c := &clientImpl{
		formID:     formID,
		baseURL:    "https://app.clinicalresearch.io",
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithBaseURL overrides the API host, used by tests
func WithBaseURL(baseURL string) func(*clientImpl) {
	return func(c *clientImpl) {
		c.baseURL = baseURL
	}
}

// SubmitLead posts the contact to the CRIO web-form endpoint as a classic
// form submission.
func (c *clientImpl) SubmitLead(ctx context.Context, contact models.Contact) error {
	form := url.Values{}
	form.Set("id", c.formID)
	form.Set("first_name", contact.FirstName)
	form.Set("last_name", contact.LastName)
	form.Set("email", contact.Email)
	form.Set("mobile_phone", contact.Phone)

	endpoint := strings.TrimRight(c.baseURL, "/") + "/web-form-save"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	metrics.ObserveProvider("crio", err)
	if err != nil {
		return fmt.Errorf("error submitting to CRIO: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("CRIO submission failed %d: %s", resp.StatusCode, string(body))
	}

	c.logger.Info("lead submitted to CRIO")
	return nil
}
