package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mbintumar0519/xenonbpd/pkg/clients/facebook"
	"github.com/mbintumar0519/xenonbpd/pkg/config"
	"github.com/mbintumar0519/xenonbpd/pkg/models"
	"github.com/mbintumar0519/xenonbpd/pkg/utils"
)

type fakeFacebook struct {
	enabled bool
	sendErr error
	events  []facebook.ServerEvent
}

func (f *fakeFacebook) Enabled() bool { return f.enabled }

func (f *fakeFacebook) SendEvent(ctx context.Context, event facebook.ServerEvent) error {
	f.events = append(f.events, event)
	return f.sendErr
}

func TestTrackLead(t *testing.T) {
	fb := &fakeFacebook{enabled: true}
	cfg := &config.Config{SiteURL: "https://example.com"}
	service := NewTrackingService(fb, cfg, zap.NewNop())

	event := models.LeadEventRequest{
		EventID:   "evt-1",
		FBP:       "fb.1.123.456",
		UserAgent: "Mozilla/5.0",
		TrackingUserData: models.TrackingUserData{
			Email: "john@example.com",
			Phone: "+14045551234",
		},
	}
	require.NoError(t, service.TrackLead(context.Background(), event, "203.0.113.5"))

	require.Len(t, fb.events, 1)
	sent := fb.events[0]
	assert.Equal(t, "Lead", sent.EventName)
	assert.Equal(t, "evt-1", sent.EventID)
	// URL falls back to the configured site
	assert.Equal(t, "https://example.com", sent.EventSourceURL)
	assert.Equal(t, []string{utils.HashIdentifier("john@example.com")}, sent.UserData.Email)
	assert.Equal(t, "203.0.113.5", sent.UserData.ClientIPAddress)
	assert.Equal(t, "Mozilla/5.0", sent.UserData.ClientUserAgent)
	assert.Equal(t, "fb.1.123.456", sent.UserData.FBP)
	assert.Nil(t, sent.CustomData)
}

func TestTrackPageView(t *testing.T) {
	fb := &fakeFacebook{enabled: true}
	service := NewTrackingService(fb, &config.Config{}, zap.NewNop())

	event := models.LeadEventRequest{EventID: "evt-2", URL: "https://example.com/study"}
	require.NoError(t, service.TrackPageView(context.Background(), event, "203.0.113.5"))

	require.Len(t, fb.events, 1)
	assert.Equal(t, "PageView", fb.events[0].EventName)
	assert.Equal(t, "https://example.com/study", fb.events[0].EventSourceURL)
}

func TestTrackConversion(t *testing.T) {
	fb := &fakeFacebook{enabled: true}
	service := NewTrackingService(fb, &config.Config{}, zap.NewNop())

	event := models.ConversionEventRequest{
		EventName: "CompleteRegistration",
		EventID:   "evt-3",
		URL:       "https://example.com/thanks",
		EventData: &models.ConversionEventData{
			Value:       1,
			Currency:    "USD",
			ContentName: "booking",
		},
		UserData: &models.TrackingUserData{Email: "john@example.com"},
	}
	require.NoError(t, service.TrackConversion(context.Background(), event, "203.0.113.5"))

	require.Len(t, fb.events, 1)
	sent := fb.events[0]
	assert.Equal(t, "CompleteRegistration", sent.EventName)
	assert.Equal(t, "evt-3", sent.EventID)
	require.NotNil(t, sent.CustomData)
	assert.Equal(t, float64(1), sent.CustomData.Value)
	assert.Equal(t, "USD", sent.CustomData.Currency)
	assert.NotEmpty(t, sent.UserData.Email)
}

func TestTrackingDisabled(t *testing.T) {
	fb := &fakeFacebook{enabled: false}
	service := NewTrackingService(fb, &config.Config{}, zap.NewNop())

	err := service.TrackLead(context.Background(), models.LeadEventRequest{}, "203.0.113.5")
	assert.ErrorIs(t, err, ErrTrackingDisabled)
	assert.Empty(t, fb.events)
}

func TestTrackingSendFailure(t *testing.T) {
	fb := &fakeFacebook{enabled: true, sendErr: errors.New("graph API down")}
	service := NewTrackingService(fb, &config.Config{}, zap.NewNop())

	err := service.TrackPageView(context.Background(), models.LeadEventRequest{}, "203.0.113.5")
	assert.ErrorContains(t, err, "graph API down")
}

func TestNewEventID(t *testing.T) {
	service := NewTrackingService(&fakeFacebook{}, &config.Config{}, zap.NewNop())
	first := service.NewEventID()
	second := service.NewEventID()
	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}
