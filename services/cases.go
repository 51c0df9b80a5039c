package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/linesmerrill/crime-report-api/databases"
	"github.com/linesmerrill/crime-report-api/models"
	templates "github.com/linesmerrill/crime-report-api/templates/html"
)

// CaseService takes crime reports in and tracks them through investigation
type CaseService struct {
	Cases    databases.CaseDatabase
	Updates  databases.CaseUpdateDatabase
	Officers databases.OfficerDatabase
	Notifier *Notifier
	Tx       databases.Transactor
}

// NewCaseService creates a new case service
func NewCaseService(cases databases.CaseDatabase, updates databases.CaseUpdateDatabase, officers databases.OfficerDatabase, notifier *Notifier, tx databases.Transactor) *CaseService {
	return &CaseService{Cases: cases, Updates: updates, Officers: officers, Notifier: notifier, Tx: tx}
}

// newOBNumber returns an occurrence book number such as OB-20240131-9F86D081
func newOBNumber() string {
	return fmt.Sprintf("OB-%s-%s", now().Format("20060102"), strings.ToUpper(uuid.New().String()[:8]))
}

// CreateReport stores a submitted report as a pending case. Anonymous reports keep no
// reporter identity, signed in reporters are recorded as the submitter.
func (s *CaseService) CreateReport(ctx context.Context, sub models.ReportSubmission) (*models.ReportResponse, error) {
	if err := Validate(sub); err != nil {
		return nil, err
	}

	ts := now()
	c := models.Case{
		OBNumber:     newOBNumber(),
		Description:  sub.Description,
		IncidentType: sub.IncidentType,
		IncidentDate: sub.IncidentDate,
		City:         sub.City,
		PostalCode:   sub.PostalCode,
		Location:     sub.Location,
		IsAnonymous:  sub.IsAnonymous,
		Status:       models.CasePending,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	if !sub.IsAnonymous {
		c.FirstName = sub.FirstName
		c.LastName = sub.LastName
		c.Email = sub.Email
		c.Phone = sub.Phone
		if p := CurrentIdentity(ctx); p != nil {
			submitter := p.ID
			c.SubmittedBy = &submitter
		}
	}

	id, err := s.Cases.InsertOne(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("insert case: %w", err)
	}
	zap.S().Infow("report submitted", "caseId", id.Hex(), "obNumber", c.OBNumber)
	return &models.ReportResponse{ReportID: id.Hex(), OBNumber: c.OBNumber}, nil
}

// GetCase returns a case. Citizens may only read the cases they submitted.
func (s *CaseService) GetCase(ctx context.Context, caseID string) (*models.Case, error) {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	return s.viewableCase(ctx, p, caseID)
}

// ListCases returns a page of cases. Citizens get their own cases, staff may filter by
// status, officer and station.
func (s *CaseService) ListCases(ctx context.Context, filter models.CaseFilter) ([]models.Case, error) {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}

	query := bson.M{}
	if filter.Status != "" {
		if !filter.Status.Valid() {
			return nil, models.ErrInvalidStatus
		}
		query["status"] = filter.Status
	}
	if p.Role.IsStaff() {
		if filter.OfficerID != "" {
			id, err := parseID(filter.OfficerID, models.ErrOfficerNotFound)
			if err != nil {
				return nil, err
			}
			query["assigned_officer_id"] = id
		}
		if filter.StationID != "" {
			id, err := parseID(filter.StationID, models.ErrStationNotFound)
			if err != nil {
				return nil, err
			}
			query["station_id"] = id
		}
	} else {
		query["submitted_by"] = p.ID
	}

	cases, err := s.Cases.Find(ctx, query, databases.Paginate(filter.Limit, filter.Page))
	if err != nil {
		return nil, fmt.Errorf("find cases: %w", err)
	}
	return cases, nil
}

// AssignCase hands a case to an officer and moves it to that officer's station
func (s *CaseService) AssignCase(ctx context.Context, caseID, officerID string) error {
	p, err := requireRole(ctx, adminRoles...)
	if err != nil {
		return err
	}
	c, err := s.findCase(ctx, caseID)
	if err != nil {
		return err
	}
	oid, err := parseID(officerID, models.ErrOfficerNotFound)
	if err != nil {
		return err
	}
	officer, err := s.Officers.FindOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return lookupErr(err, models.ErrOfficerNotFound, "officer")
	}

	return s.Notifier.InTransaction(ctx, s.Tx, func(ctx context.Context) error {
		ts := now()
		set := bson.M{"assigned_officer_id": officer.ID, "station_id": officer.StationID, "updated_at": ts}
		if _, err := s.Cases.UpdateOne(ctx, bson.M{"_id": c.ID}, bson.M{"$set": set}); err != nil {
			return fmt.Errorf("assign case: %w", err)
		}
		if err := appendUpdate(ctx, s.Updates, models.CaseUpdate{
			CaseID:     c.ID,
			Text:       fmt.Sprintf("Case assigned to officer %s", officer.BadgeNumber),
			Type:       models.UpdateAssignmentChange,
			Visibility: models.VisibilityInternal,
			Author:     p.ID.Hex(),
		}); err != nil {
			return err
		}
		return s.Notifier.Notify(ctx, models.Notification{
			UserID:  officer.UserID,
			Title:   "New case assigned",
			Content: fmt.Sprintf("You have been assigned case %s", c.OBNumber),
			Type:    models.NotificationAssignment,
			CaseID:  &c.ID,
		})
	})
}

// UpdateCaseStatus moves a case to status and tells the reporter
func (s *CaseService) UpdateCaseStatus(ctx context.Context, caseID string, req models.UpdateCaseStatusRequest) error {
	p, err := requireRole(ctx, staffRoles...)
	if err != nil {
		return err
	}
	c, err := s.findCase(ctx, caseID)
	if err != nil {
		return err
	}
	if !req.Status.Valid() {
		return models.ErrInvalidStatus
	}

	text := fmt.Sprintf("Case status changed to %s", req.Status)
	if req.Note != "" {
		text += ": " + req.Note
	}
	subject := fmt.Sprintf("Update on case %s", c.OBNumber)
	err = s.Notifier.InTransaction(ctx, s.Tx, func(ctx context.Context) error {
		if _, err := s.Cases.UpdateOne(ctx, bson.M{"_id": c.ID}, bson.M{"$set": bson.M{"status": req.Status, "updated_at": now()}}); err != nil {
			return fmt.Errorf("update case status: %w", err)
		}
		if err := appendUpdate(ctx, s.Updates, models.CaseUpdate{
			CaseID:     c.ID,
			Text:       text,
			Type:       models.UpdateStatusChange,
			Visibility: models.VisibilityPublic,
			Author:     p.ID.Hex(),
		}); err != nil {
			return err
		}
		if c.SubmittedBy == nil {
			return nil
		}
		return s.Notifier.Notify(ctx, models.Notification{
			UserID:  *c.SubmittedBy,
			Title:   subject,
			Content: text,
			Type:    models.NotificationCaseUpdate,
			CaseID:  &c.ID,
		})
	})
	if err != nil {
		return err
	}

	// anonymous reports carry no email, Email skips them
	s.Notifier.Email(ctx, c.Email, strings.TrimSpace(c.FirstName+" "+c.LastName), subject,
		templates.RenderGenericEmail(subject, text))
	return nil
}

// AddCaseNote appends a note to the case timeline. Staff write notes of either visibility,
// citizens post public messages on their own cases.
func (s *CaseService) AddCaseNote(ctx context.Context, caseID string, req models.AddCaseUpdateRequest) (string, error) {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(req.Text) == "" {
		return "", models.NewError(models.CodeInvalidInput, "text is required")
	}
	if req.Visibility == "" {
		req.Visibility = models.VisibilityPublic
	}
	if !req.Visibility.Valid() {
		return "", models.NewError(models.CodeInvalidInput, "visibility must be public or internal")
	}
	c, err := s.viewableCase(ctx, p, caseID)
	if err != nil {
		return "", err
	}

	update := models.CaseUpdate{
		CaseID:     c.ID,
		Text:       req.Text,
		Type:       models.UpdateNote,
		Visibility: req.Visibility,
		Author:     p.ID.Hex(),
	}
	if !p.Role.IsStaff() {
		if req.Visibility != models.VisibilityPublic {
			return "", models.ErrUnauthorized
		}
		update.Type = models.UpdateMessage
	}

	var id primitive.ObjectID
	err = s.Notifier.InTransaction(ctx, s.Tx, func(ctx context.Context) error {
		var err error
		update.CreatedAt = now()
		id, err = s.Updates.InsertOne(ctx, update)
		if err != nil {
			return fmt.Errorf("insert case update: %w", err)
		}
		if _, err := s.Cases.UpdateOne(ctx, bson.M{"_id": c.ID}, bson.M{"$set": bson.M{"updated_at": now()}}); err != nil {
			return fmt.Errorf("touch case: %w", err)
		}
		if !p.Role.IsStaff() || update.Visibility != models.VisibilityPublic || c.SubmittedBy == nil {
			return nil
		}
		return s.Notifier.Notify(ctx, models.Notification{
			UserID:  *c.SubmittedBy,
			Title:   fmt.Sprintf("New message on case %s", c.OBNumber),
			Content: req.Text,
			Type:    models.NotificationCaseUpdate,
			CaseID:  &c.ID,
		})
	})
	if err != nil {
		return "", err
	}
	return id.Hex(), nil
}

// GetCaseUpdates returns the timeline of a case, oldest first. Citizens only see public entries.
func (s *CaseService) GetCaseUpdates(ctx context.Context, caseID string) ([]models.CaseUpdate, error) {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	c, err := s.viewableCase(ctx, p, caseID)
	if err != nil {
		return nil, err
	}
	query := bson.M{"case_id": c.ID}
	if !p.Role.IsStaff() {
		query["visibility"] = models.VisibilityPublic
	}
	updates, err := s.Updates.Find(ctx, query, databases.Chronological())
	if err != nil {
		return nil, fmt.Errorf("find case updates: %w", err)
	}
	return updates, nil
}

func (s *CaseService) findCase(ctx context.Context, caseID string) (*models.Case, error) {
	return findCase(ctx, s.Cases, caseID)
}

func (s *CaseService) viewableCase(ctx context.Context, p *models.Principal, caseID string) (*models.Case, error) {
	c, err := s.findCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if !canViewCase(p, c) {
		return nil, models.ErrUnauthorized
	}
	return c, nil
}

// findCase is shared by every service that hangs records off a case
func findCase(ctx context.Context, cases databases.CaseDatabase, caseID string) (*models.Case, error) {
	id, err := parseID(caseID, models.ErrCaseNotFound)
	if err != nil {
		return nil, err
	}
	c, err := cases.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, lookupErr(err, models.ErrCaseNotFound, "case")
	}
	return c, nil
}

// canViewCase is true for staff and for the citizen that submitted c
func canViewCase(p *models.Principal, c *models.Case) bool {
	if p.Role.IsStaff() {
		return true
	}
	return c.SubmittedBy != nil && *c.SubmittedBy == p.ID
}

func appendUpdate(ctx context.Context, updates databases.CaseUpdateDatabase, u models.CaseUpdate) error {
	u.CreatedAt = now()
	if _, err := updates.InsertOne(ctx, u); err != nil {
		return fmt.Errorf("insert case update: %w", err)
	}
	return nil
}
