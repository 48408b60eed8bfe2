package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/mbintumar0519/xenonbpd/pkg/clients/crio"
	"github.com/mbintumar0519/xenonbpd/pkg/clients/geoip"
	"github.com/mbintumar0519/xenonbpd/pkg/clients/gohighlevel"
	"github.com/mbintumar0519/xenonbpd/pkg/clients/sheets"
	"github.com/mbintumar0519/xenonbpd/pkg/config"
	"github.com/mbintumar0519/xenonbpd/pkg/metrics"
	"github.com/mbintumar0519/xenonbpd/pkg/models"
	"github.com/mbintumar0519/xenonbpd/pkg/tasks"
	"github.com/mbintumar0519/xenonbpd/pkg/utils"
)

var (
	// ErrNotQualified rejects submissions whose upstream screening did not
	// mark the lead as qualified. The server trusts the flag and does not
	// re-run the questionnaire.
	ErrNotQualified = errors.New("only qualified leads can be submitted")

	// ErrCRMNotConfigured surfaces a missing CRM key in production
	ErrCRMNotConfigured = errors.New("server configuration error: GOHIGHLEVEL_API_KEY missing")
)

// Tags applied to every accepted lead
var leadTags = []string{"website-lead", "XENON BPD", "qualified"}

const sheetStatus = "Qualified - XENON BPD Study"

// answerLabels maps questionnaire keys to the human label used in CRM notes
var answerLabels = map[string]string{
	"diagnosed_bipolar":          "Diagnosed with bipolar I or II",
	"current_depressive_episode": "Currently going through a depressive episode",
	"can_travel":                 "Can travel to study location for visits",
}

// LeadSubmissionService defines the interface for the lead intake pipeline
type LeadSubmissionService interface {
	Submit(ctx context.Context, submission models.LeadSubmission, clientIP string) (*models.SubmitLeadResponse, error)
}

type leadSubmissionServiceImpl struct {
	crmClient    gohighlevel.Client
	geoChain     *geoip.Chain
	sheetsClient sheets.Client
	crioClient   crio.Client
	dispatcher   *tasks.Dispatcher
	config       *config.Config
	logger       *zap.Logger
}

// NewLeadSubmissionService creates a new submission service
func NewLeadSubmissionService(
	crmClient gohighlevel.Client,
	geoChain *geoip.Chain,
	sheetsClient sheets.Client,
	crioClient crio.Client,
	dispatcher *tasks.Dispatcher,
	cfg *config.Config,
	logger *zap.Logger,
) LeadSubmissionService {
	return &leadSubmissionServiceImpl{
		crmClient:    crmClient,
		geoChain:     geoChain,
		sheetsClient: sheetsClient,
		crioClient:   crioClient,
		dispatcher:   dispatcher,
		config:       cfg,
		logger:       logger,
	}
}

// Submit handles the entire intake workflow: validate the qualification
// flag, resolve the caller's location, fan out the side-channel
// notifications, then create the CRM contact and attach its notes. Only the
// contact creation can fail the pipeline, and only in production.
func (s *leadSubmissionServiceImpl) Submit(ctx context.Context, submission models.LeadSubmission, clientIP string) (*models.SubmitLeadResponse, error) {
	if submission.QualificationStatus != "qualified" {
		metrics.LeadsSubmittedTotal.WithLabelValues("rejected").Inc()
		return nil, ErrNotQualified
	}

	// Best effort: defaults are substituted when no provider answers
	location, _ := s.geoChain.Resolve(ctx, clientIP)

	firstName, lastName := utils.SplitName(submission.Name)
	contact := models.Contact{
		FirstName: firstName,
		LastName:  lastName,
		Email:     utils.NormalizeEmail(submission.Email),
		Phone:     utils.NormalizePhone(submission.Phone),
	}
	displayName := utils.CapitalizeFullName(submission.Name)

	s.logger.Info("processing lead submission",
		zap.String("source", submission.Source),
		zap.String("city", location.City))

	// Side-channel notifications are detached; their failures are only
	// ever observed by the logging sink
	rawPhone := strings.TrimSpace(submission.Phone)
	s.dispatcher.Go("sheets-append", func(ctx context.Context) error {
		return s.sheetsClient.AppendLead(ctx, sheets.Lead{
			Name:   displayName,
			Phone:  rawPhone,
			Email:  contact.Email,
			Status: sheetStatus,
		})
	})
	s.dispatcher.Go("crio-submit", func(ctx context.Context) error {
		return s.crioClient.SubmitLead(ctx, contact)
	})

	if !s.config.CRMConfigured() {
		if s.config.Production() {
			metrics.LeadsSubmittedTotal.WithLabelValues("error").Inc()
			return nil, ErrCRMNotConfigured
		}
		s.logger.Warn("GOHIGHLEVEL_API_KEY not set, accepting lead without CRM")
		metrics.LeadsSubmittedTotal.WithLabelValues("soft_accept").Inc()
		return &models.SubmitLeadResponse{
			Success:      true,
			Message:      "Lead received (development mode; no CRM integration configured)",
			TagsApplied:  leadTags,
			LocationData: location,
		}, nil
	}

	contactID, err := s.crmClient.CreateContact(ctx, gohighlevel.ContactPayload{
		FirstName:   contact.FirstName,
		LastName:    contact.LastName,
		Email:       contact.Email,
		Phone:       contact.Phone,
		City:        location.City,
		State:       location.State,
		PostalCode:  location.PostalCode,
		Country:     location.Country,
		Source:      leadSource(submission.Source),
		Tags:        leadTags,
		CompanyName: "Bipolar - Website Lead",
	})
	if err != nil {
		s.logger.Warn("CRM integration failed", zap.Error(err))
		if s.config.Production() {
			metrics.LeadsSubmittedTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("CRM integration failed: %w", err)
		}
		metrics.LeadsSubmittedTotal.WithLabelValues("soft_accept").Inc()
		return &models.SubmitLeadResponse{
			Success:      true,
			Message:      "Lead received (development mode; CRM integration failed)",
			TagsApplied:  leadTags,
			LocationData: location,
		}, nil
	}

	// Notes are best effort: the contact already exists, so a note failure
	// must not fail the submission
	if err := s.crmClient.AddNote(ctx, contactID, qualificationNote()); err != nil {
		s.logger.Warn("qualification note failed", zap.Error(err))
	}
	if err := s.crmClient.AddNote(ctx, contactID, assessmentNote(displayName, submission, location)); err != nil {
		s.logger.Warn("full assessment note failed", zap.Error(err))
	}

	metrics.LeadsSubmittedTotal.WithLabelValues("created").Inc()
	return &models.SubmitLeadResponse{
		Success:      true,
		Message:      "Qualified lead created successfully",
		ContactID:    contactID,
		TagsApplied:  leadTags,
		LocationData: location,
	}, nil
}

func leadSource(source string) string {
	if source == "pre-screening-form" {
		return "Pre-Screening Form - Website"
	}
	return "Website Eligibility Form"
}

func qualificationNote() string {
	return `=== QUALIFICATION STATUS ===
Status: QUALIFIED
- Bipolar I or II diagnosis
- Current depressive episode
- Can travel to Stone Mountain study location
`
}

func assessmentNote(displayName string, submission models.LeadSubmission, location *models.GeoLocation) string {
	if displayName == "" {
		displayName = "N/A"
	}
	age := submission.Age
	if age == "" {
		age = "Not provided"
	}

	locationParts := make([]string, 0, 4)
	for _, part := range []string{location.City, location.State, location.PostalCode, location.Country} {
		if part != "" {
			locationParts = append(locationParts, part)
		}
	}
	locationLine := strings.Join(locationParts, ", ")
	if locationLine == "" {
		locationLine = "N/A"
	}

	answerLines := renderAnswers(submission.Answers)
	if answerLines == "" {
		answerLines = "- None"
	}

	return fmt.Sprintf(`=== BIPOLAR STUDY FULL ASSESSMENT ===
=== PATIENT INFO ===
Name: %s
Age: %s
Location: %s

=== ALL QUESTION RESPONSES ===
%s
`, displayName, age, locationLine, answerLines)
}

// renderAnswers emits one labeled line per questionnaire answer, sorted by
// key so notes are stable across submissions.
func renderAnswers(answers map[string]string) string {
	keys := make([]string, 0, len(answers))
	for key := range answers {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		label, ok := answerLabels[key]
		if !ok {
			label = humanizeKey(key)
		}
		value := answers[key]
		if value == "" {
			value = "Not answered"
		}
		lines = append(lines, fmt.Sprintf("- %s: %s", label, value))
	}
	return strings.Join(lines, "\n")
}

func humanizeKey(key string) string {
	return utils.CapitalizeFullName(strings.ReplaceAll(key, "_", " "))
}
