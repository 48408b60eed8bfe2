package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mbintumar0519/xenonbpd/pkg/clients/geoip"
	"github.com/mbintumar0519/xenonbpd/pkg/clients/gohighlevel"
	"github.com/mbintumar0519/xenonbpd/pkg/config"
	"github.com/mbintumar0519/xenonbpd/pkg/models"
	"github.com/mbintumar0519/xenonbpd/pkg/ratelimit"
	"github.com/mbintumar0519/xenonbpd/pkg/services"
)

// fallbackIP stands in when no client address header is present, so local
// testing still exercises the full geolocation path.
const fallbackIP = "8.8.8.8"

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	submissionService services.LeadSubmissionService
	trackingService   services.TrackingService
	geoChain          *geoip.Chain
	crmClient         gohighlevel.Client
	limiter           *ratelimit.Limiter
	config            *config.Config
	logger            *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	submissionService services.LeadSubmissionService,
	trackingService services.TrackingService,
	geoChain *geoip.Chain,
	crmClient gohighlevel.Client,
	limiter *ratelimit.Limiter,
	cfg *config.Config,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		submissionService: submissionService,
		trackingService:   trackingService,
		geoChain:          geoChain,
		crmClient:         crmClient,
		limiter:           limiter,
		config:            cfg,
		logger:            logger,
	}
}

// HealthCheck handler for monitoring
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// SubmitLead processes qualified leads from the pre-screening form
func (h *Handlers) SubmitLead(c *gin.Context) {
	var submission models.LeadSubmission
	if err := c.ShouldBindJSON(&submission); err != nil {
		h.logger.Warn("invalid lead submission", zap.Error(err))
		c.JSON(http.StatusBadRequest, models.SubmitLeadResponse{
			Success: false,
			Message: "Invalid request body",
		})
		return
	}

	response, err := h.submissionService.Submit(c.Request.Context(), submission, ClientIP(c))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrNotQualified) {
			status = http.StatusBadRequest
		}
		c.JSON(status, models.SubmitLeadResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// TrackLead handles POST /api/tracking/lead
func (h *Handlers) TrackLead(c *gin.Context) {
	h.trackEvent(c, h.trackingService.TrackLead, "Lead")
}

// TrackPageView handles POST /api/tracking/pageview
func (h *Handlers) TrackPageView(c *gin.Context) {
	h.trackEvent(c, h.trackingService.TrackPageView, "PageView")
}

func (h *Handlers) trackEvent(c *gin.Context, track func(ctx context.Context, event models.LeadEventRequest, clientIP string) error, name string) {
	var event models.LeadEventRequest
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, models.TrackingResponse{
			Success: false,
			Message: "Invalid request body",
		})
		return
	}
	if event.UserAgent == "" {
		event.UserAgent = c.Request.UserAgent()
	}
	if event.EventID == "" {
		event.EventID = h.trackingService.NewEventID()
	}

	err := track(c.Request.Context(), event, ClientIP(c))
	if errors.Is(err, services.ErrTrackingDisabled) {
		c.JSON(http.StatusOK, models.TrackingResponse{
			Success: true,
			Message: "Facebook tracking not configured",
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.TrackingResponse{
			Success: false,
			Message: "Failed to track " + name,
		})
		return
	}

	c.JSON(http.StatusOK, models.TrackingResponse{
		Success: true,
		Message: name + " tracked successfully",
	})
}

// TrackConversion handles POST /api/tracking/conversion for custom events
func (h *Handlers) TrackConversion(c *gin.Context) {
	var event models.ConversionEventRequest
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, models.TrackingResponse{
			Success: false,
			Message: "Invalid request body",
		})
		return
	}
	if event.UserAgent == "" {
		event.UserAgent = c.Request.UserAgent()
	}
	if event.EventID == "" {
		event.EventID = h.trackingService.NewEventID()
	}

	err := h.trackingService.TrackConversion(c.Request.Context(), event, ClientIP(c))
	if errors.Is(err, services.ErrTrackingDisabled) {
		c.JSON(http.StatusOK, models.TrackingResponse{
			Success: true,
			Message: "Facebook tracking not configured",
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.TrackingResponse{
			Success: false,
			Message: "Failed to track " + event.EventName,
		})
		return
	}

	c.JSON(http.StatusOK, models.TrackingResponse{
		Success: true,
		Message: event.EventName + " tracked successfully",
	})
}

// Geolocate resolves the caller's IP address
func (h *Handlers) Geolocate(c *gin.Context) {
	ip := ClientIP(c)

	if geoip.IsPrivateIP(ip) {
		c.JSON(http.StatusOK, models.GeolocateResponse{
			Success: false,
			Message: "Cannot geolocate private IP",
			Country: "US",
		})
		return
	}

	location, resolved := h.geoChain.Resolve(c.Request.Context(), ip)
	response := models.GeolocateResponse{
		Success: resolved,
		City:    location.City,
		State:   location.State,
		ZipCode: location.PostalCode,
		Country: location.Country,
		IP:      ip,
	}
	if !resolved {
		response.Message = "Location data unavailable"
	}
	c.JSON(http.StatusOK, response)
}

// GeolocateProbe checks each configured provider against a test IP,
// used to diagnose which services are currently working
func (h *Handlers) GeolocateProbe(c *gin.Context) {
	var body struct {
		IP string `json:"ip"`
	}
	_ = c.ShouldBindJSON(&body)
	testIP := body.IP
	if testIP == "" {
		testIP = fallbackIP
	}

	providerResults := gin.H{}
	working := make([]string, 0)
	for _, resolver := range h.geoChain.Resolvers() {
		location, err := resolver.Resolve(c.Request.Context(), testIP)
		if err != nil || location == nil {
			providerResults[resolver.Name()] = nil
			continue
		}
		providerResults[resolver.Name()] = location
		working = append(working, resolver.Name())
	}

	c.JSON(http.StatusOK, gin.H{
		"test_ip":          testIP,
		"services":         providerResults,
		"working_services": working,
	})
}

// GenerateBookingLink handles POST /api/booking-link
func (h *Handlers) GenerateBookingLink(c *gin.Context) {
	var request models.BookingLinkRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, models.BookingLinkResponse{
			Success: false,
			Message: "Invalid request body",
		})
		return
	}

	link, method, err := h.crmClient.GenerateBookingLink(
		c.Request.Context(), request.FirstName, request.LastName, request.Email, request.Phone)
	if err != nil {
		h.logger.Error("booking link generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.BookingLinkResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.BookingLinkResponse{
		Success:     true,
		BookingLink: link,
		Method:      method,
	})
}

// ReceiveLead handles the authenticated raw-lead intake on POST /api/leads
func (h *Handlers) ReceiveLead(c *gin.Context) {
	ip := RateLimitKey(c)
	if !h.limiter.Allow(ip) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
		return
	}

	if !h.authorized(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if !strings.Contains(c.ContentType(), "application/json") {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "Invalid content type"})
		return
	}

	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil || body == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"received": body,
		"message":  "Lead accepted",
	})
}

// authorized checks the bearer token against LEADS_API_TOKEN. An absent
// token configuration rejects everything rather than opening the endpoint.
func (h *Handlers) authorized(c *gin.Context) bool {
	if h.config.LeadsAPIToken == "" {
		return false
	}
	auth := c.GetHeader("Authorization")
	if !strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return false
	}
	provided := strings.TrimSpace(auth[len("bearer "):])
	return provided != "" && provided == h.config.LeadsAPIToken
}

// ClientIP extracts the caller address, preferring the platform headers the
// site historically ran behind (Netlify, Cloudflare) over x-forwarded-for.
func ClientIP(c *gin.Context) string {
	for _, header := range []string{"x-nf-client-connection-ip", "cf-connecting-ip", "x-real-ip"} {
		if value := strings.TrimSpace(c.GetHeader(header)); value != "" {
			return value
		}
	}
	if forwarded := c.GetHeader("x-forwarded-for"); forwarded != "" {
		if first := strings.TrimSpace(strings.Split(forwarded, ",")[0]); first != "" {
			return first
		}
	}
	return fallbackIP
}

// RateLimitKey is like ClientIP but never substitutes the fallback address,
// so unidentified callers share one bucket instead of the test IP's.
func RateLimitKey(c *gin.Context) string {
	if ip := ClientIP(c); ip != fallbackIP {
		return ip
	}
	return "unknown"
}
