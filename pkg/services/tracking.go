package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mbintumar0519/xenonbpd/pkg/clients/facebook"
	"github.com/mbintumar0519/xenonbpd/pkg/config"
	"github.com/mbintumar0519/xenonbpd/pkg/models"
)

// ErrTrackingDisabled means no access token or pixel id is configured.
// Routes translate it into a soft success so pages never break over
// missing tracking credentials.
var ErrTrackingDisabled = errors.New("facebook tracking not configured")

// TrackingService defines the interface for server-side conversion events
type TrackingService interface {
	TrackLead(ctx context.Context, event models.LeadEventRequest, clientIP string) error
	TrackPageView(ctx context.Context, event models.LeadEventRequest, clientIP string) error
	TrackConversion(ctx context.Context, event models.ConversionEventRequest, clientIP string) error
	NewEventID() string
}

type trackingServiceImpl struct {
	fbClient facebook.Client
	config   *config.Config
	logger   *zap.Logger
}

// NewTrackingService creates a new tracking service
func NewTrackingService(fbClient facebook.Client, cfg *config.Config, logger *zap.Logger) TrackingService {
	return &trackingServiceImpl{
		fbClient: fbClient,
		config:   cfg,
		logger:   logger,
	}
}

// NewEventID generates a deduplication key. The same value must reach both
// the browser pixel and the server event for one user action.
func (s *trackingServiceImpl) NewEventID() string {
	return uuid.NewString()
}

// TrackLead sends a Lead event with the full hashed user-data bundle
func (s *trackingServiceImpl) TrackLead(ctx context.Context, event models.LeadEventRequest, clientIP string) error {
	return s.send(ctx, "Lead", event, clientIP, nil)
}

// TrackPageView sends a PageView event
func (s *trackingServiceImpl) TrackPageView(ctx context.Context, event models.LeadEventRequest, clientIP string) error {
	return s.send(ctx, "PageView", event, clientIP, nil)
}

// TrackConversion sends a custom-named event with optional custom data
func (s *trackingServiceImpl) TrackConversion(ctx context.Context, event models.ConversionEventRequest, clientIP string) error {
	userData := models.TrackingUserData{}
	if event.UserData != nil {
		userData = *event.UserData
	}
	leadEvent := models.LeadEventRequest{
		EventID:          event.EventID,
		FBP:              event.FBP,
		FBC:              event.FBC,
		URL:              event.URL,
		UserAgent:        event.UserAgent,
		TrackingUserData: userData,
	}

	var customData *facebook.CustomData
	if event.EventData != nil {
		customData = &facebook.CustomData{
			Value:           event.EventData.Value,
			Currency:        event.EventData.Currency,
			ContentName:     event.EventData.ContentName,
			ContentCategory: event.EventData.ContentCategory,
		}
	}
	return s.send(ctx, event.EventName, leadEvent, clientIP, customData)
}

func (s *trackingServiceImpl) send(ctx context.Context, eventName string, event models.LeadEventRequest, clientIP string, customData *facebook.CustomData) error {
	if !s.fbClient.Enabled() {
		return ErrTrackingDisabled
	}

	sourceURL := event.URL
	if sourceURL == "" {
		sourceURL = s.config.SiteURL
	}

	serverEvent := facebook.NewServerEvent(eventName, event.EventID, sourceURL)
	serverEvent.UserData = facebook.BuildUserData(event.TrackingUserData, clientIP, event.UserAgent, event.FBP, event.FBC)
	serverEvent.CustomData = customData

	if err := s.fbClient.SendEvent(ctx, serverEvent); err != nil {
		s.logger.Warn("conversions API event failed",
			zap.String("event_name", eventName),
			zap.Error(err))
		return err
	}
	return nil
}
