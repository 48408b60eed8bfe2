package sheets

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

// ErrNotConfigured means no webhook URL is set; callers log and move on.
var ErrNotConfigured = errors.New("google sheets webhook URL not configured")

// Lead is the flattened record appended to the spreadsheet
type Lead struct {
	Name   string
	Phone  string
	Email  string
	Status string
}

// Client defines the interface for the Google Sheets webhook
type Client interface {
	AppendLead(ctx context.Context, lead Lead) error
}

type clientImpl struct {
	webhookURL string
	sheetName  string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new Google Sheets webhook client
func NewClient(logger *zap.Logger, webhookURL, sheetName string) Client {
	return &clientImpl{
		webhookURL: webhookURL,
		sheetName:  sheetName,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// AppendLead posts one flattened row to the webhook. The payload keys match
// the receiving Apps Script, including the MM/DD/YY short date.
func (c *clientImpl) AppendLead(ctx context.Context, lead Lead) error {
	if c.webhookURL == "" {
		return ErrNotConfigured
	}

	status := lead.Status
	if status == "" {
		status = "New Lead"
	}

	record := map[string]string{
		"Name":           lead.Name,
		"Number":         lead.Phone,
		"Email":          lead.Email,
		"Date Initiated": time.Now().Format("01/02/06"),
		"Status":         status,
	}
	if c.sheetName != "" {
		record["SheetName"] = c.sheetName
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("error creating payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Add("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	metrics.ObserveProvider("sheets", err)
	if err != nil {
		return fmt.Errorf("error sending lead to sheets: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}

	// Apps Script deployments answer with either {success:true} or {ok:true}
	var result struct {
		Success bool   `json:"success"`
		OK      bool   `json:"ok"`
		Message string `json:"message"`
		Sheet   string `json:"sheet"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("invalid JSON response from sheets webhook: %s", truncate(body, 100))
	}
	if !result.Success && !result.OK {
		return fmt.Errorf("sheets webhook rejected lead: %s", result.Message)
	}

	c.logger.Info("lead appended to sheet", zap.String("sheet", result.Sheet))
	return nil
}

func truncate(body []byte, n int) string {
	if len(body) <= n {
		return string(body)
	}
	return string(body[:n])
}
