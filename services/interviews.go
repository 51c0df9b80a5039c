package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/linesmerrill/crime-report-api/databases"
	"github.com/linesmerrill/crime-report-api/models"
	templates "github.com/linesmerrill/crime-report-api/templates/html"
)

// interviewTimeLayout renders interview times in case updates and emails
const interviewTimeLayout = "Monday, January 2, 2006 at 3:04 PM"

// ReminderWindow is how far ahead SendReminders looks for interviews
const ReminderWindow = time.Hour

var interviewStatusMessages = map[models.InterviewStatus]string{
	models.InterviewScheduled: "Interview has been rescheduled",
	models.InterviewCompleted: "Interview has been completed",
	models.InterviewCancelled: "Interview has been cancelled",
	models.InterviewNoShow:    "Interview marked as no-show",
}

// InterviewService books interviews between officers and citizens
type InterviewService struct {
	Cases      databases.CaseDatabase
	Updates    databases.CaseUpdateDatabase
	Officers   databases.OfficerDatabase
	Users      databases.UserDatabase
	Interviews databases.InterviewDatabase
	Notifier   *Notifier
	Tx         databases.Transactor
}

// ScheduleInterview books an interview on a case. Overlapping bookings for the same officer
// are allowed. The citizen, when named, gets one notification and an email.
func (s *InterviewService) ScheduleInterview(ctx context.Context, req models.ScheduleInterviewRequest) (string, error) {
	p, err := requireRole(ctx, staffRoles...)
	if err != nil {
		return "", err
	}
	if err := Validate(req); err != nil {
		return "", err
	}
	c, err := findCase(ctx, s.Cases, req.CaseID)
	if err != nil {
		return "", err
	}
	oid, err := parseID(req.OfficerID, models.ErrOfficerNotFound)
	if err != nil {
		return "", err
	}
	officer, err := s.Officers.FindOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return "", lookupErr(err, models.ErrOfficerNotFound, "officer")
	}

	var citizen *models.User
	if req.CitizenID != "" {
		cid, err := parseID(req.CitizenID, models.ErrUserNotFound)
		if err != nil {
			return "", err
		}
		citizen, err = s.Users.FindOne(ctx, bson.M{"_id": cid})
		if err != nil {
			return "", lookupErr(err, models.ErrUserNotFound, "citizen")
		}
	}

	ts := now()
	interview := models.Interview{
		CaseID:        c.ID,
		OfficerID:     officer.ID,
		ScheduledTime: req.ScheduledTime.UTC(),
		Duration:      req.Duration,
		Platform:      req.Platform,
		MeetingLink:   req.MeetingLink,
		MeetingID:     req.MeetingID,
		Status:        models.InterviewScheduled,
		Notes:         req.Notes,
		CreatedAt:     ts,
		UpdatedAt:     ts,
	}
	if citizen != nil {
		interview.CitizenID = &citizen.ID
	}
	when := interview.ScheduledTime.Format(interviewTimeLayout)

	var id primitive.ObjectID
	err = s.Notifier.InTransaction(ctx, s.Tx, func(ctx context.Context) error {
		var err error
		id, err = s.Interviews.InsertOne(ctx, interview)
		if err != nil {
			return fmt.Errorf("insert interview: %w", err)
		}
		if err := appendUpdate(ctx, s.Updates, models.CaseUpdate{
			CaseID:     c.ID,
			Text:       fmt.Sprintf("Interview scheduled for %s via %s", when, req.Platform),
			Type:       models.UpdateNote,
			Visibility: models.VisibilityPublic,
			Author:     p.ID.Hex(),
		}); err != nil {
			return err
		}
		if citizen == nil {
			return nil
		}
		return s.Notifier.Notify(ctx, models.Notification{
			UserID:  citizen.ID,
			Title:   "Interview scheduled",
			Content: fmt.Sprintf("An interview for case %s is scheduled for %s via %s", c.OBNumber, when, req.Platform),
			Type:    models.NotificationInterview,
			CaseID:  &c.ID,
		})
	})
	if err != nil {
		return "", err
	}

	if citizen != nil {
		s.Notifier.Email(ctx, citizen.Email, citizen.FullName, "Interview scheduled for case "+c.OBNumber,
			templates.RenderInterviewInvitationEmail(interviewEmail(interview, citizen, c.OBNumber)))
	}
	zap.S().Infow("interview scheduled", "interviewId", id.Hex(), "caseId", c.ID.Hex(), "officerId", officer.ID.Hex())
	return id.Hex(), nil
}

// GetOfficerInterviews lists an officer's interviews by start time, optionally narrowed to
// one status
func (s *InterviewService) GetOfficerInterviews(ctx context.Context, officerID string, status models.InterviewStatus) ([]models.InterviewView, error) {
	if _, err := requireRole(ctx, staffRoles...); err != nil {
		return nil, err
	}
	oid, err := parseID(officerID, models.ErrOfficerNotFound)
	if err != nil {
		return nil, err
	}
	if _, err := s.Officers.FindOne(ctx, bson.M{"_id": oid}); err != nil {
		return nil, lookupErr(err, models.ErrOfficerNotFound, "officer")
	}

	query := bson.M{"officer_id": oid}
	if status != "" {
		if !status.Valid() {
			return nil, models.ErrInvalidStatus
		}
		query["status"] = status
	}
	interviews, err := s.Interviews.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "scheduled_time", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find interviews: %w", err)
	}

	views := make([]models.InterviewView, 0, len(interviews))
	for _, in := range interviews {
		view := models.InterviewView{Interview: in}

		c, err := s.Cases.FindOne(ctx, bson.M{"_id": in.CaseID})
		switch {
		case err == nil:
			summary := c.Summary()
			view.Case = &summary
		case !isNoDocuments(err):
			return nil, fmt.Errorf("find interview case: %w", err)
		}

		if in.CitizenID != nil {
			u, err := s.Users.FindOne(ctx, bson.M{"_id": *in.CitizenID})
			switch {
			case err == nil:
				view.Citizen = &models.CitizenContact{ID: u.ID, FullName: u.FullName, Email: u.Email, Phone: u.Phone}
			case !isNoDocuments(err):
				return nil, fmt.Errorf("find interview citizen: %w", err)
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// UpdateInterviewStatus patches the status and whichever optional fields are supplied. Any
// status may follow any other.
func (s *InterviewService) UpdateInterviewStatus(ctx context.Context, interviewID string, req models.UpdateInterviewStatusRequest) error {
	if _, err := requireRole(ctx, staffRoles...); err != nil {
		return err
	}
	id, err := parseID(interviewID, models.ErrInterviewNotFound)
	if err != nil {
		return err
	}
	interview, err := s.Interviews.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		return lookupErr(err, models.ErrInterviewNotFound, "interview")
	}
	if !req.Status.Valid() {
		return models.ErrInvalidStatus
	}

	set := bson.M{"status": req.Status, "updated_at": now()}
	if req.RecordingPath != nil {
		set["recording_path"] = *req.RecordingPath
	}
	if req.TranscriptPath != nil {
		set["transcript_path"] = *req.TranscriptPath
	}
	if req.Notes != nil {
		set["notes"] = *req.Notes
	}

	return s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.Interviews.UpdateOne(ctx, bson.M{"_id": interview.ID}, bson.M{"$set": set}); err != nil {
			return fmt.Errorf("update interview: %w", err)
		}
		return appendUpdate(ctx, s.Updates, models.CaseUpdate{
			CaseID:     interview.CaseID,
			Text:       interviewStatusMessages[req.Status],
			Type:       models.UpdateNote,
			Visibility: models.VisibilityPublic,
			Author:     models.AuthorSystem,
		})
	})
}

// SendReminders notifies the officer and citizen of every scheduled interview starting
// between at and at+ReminderWindow that has not been reminded yet. It returns how many
// interviews were reminded. A failing interview is logged and skipped.
func (s *InterviewService) SendReminders(ctx context.Context, at time.Time) (int, error) {
	interviews, err := s.Interviews.Find(ctx, bson.M{
		"status":         models.InterviewScheduled,
		"reminder_sent":  false,
		"scheduled_time": bson.M{"$gte": at, "$lte": at.Add(ReminderWindow)},
	})
	if err != nil {
		return 0, fmt.Errorf("find upcoming interviews: %w", err)
	}

	sent := 0
	for _, in := range interviews {
		if err := s.remind(ctx, in); err != nil {
			zap.S().Errorw("failed to send interview reminder", "interviewId", in.ID.Hex(), "error", err)
			continue
		}
		sent++
	}
	return sent, nil
}

func (s *InterviewService) remind(ctx context.Context, in models.Interview) error {
	obNumber := ""
	if c, err := s.Cases.FindOne(ctx, bson.M{"_id": in.CaseID}); err == nil {
		obNumber = c.OBNumber
	}
	content := fmt.Sprintf("Interview for case %s starts at %s via %s", obNumber, in.ScheduledTime.Format(interviewTimeLayout), in.Platform)

	var citizen *models.User
	err := s.Notifier.InTransaction(ctx, s.Tx, func(ctx context.Context) error {
		officer, err := s.Officers.FindOne(ctx, bson.M{"_id": in.OfficerID})
		switch {
		case err == nil:
			if err := s.Notifier.Notify(ctx, reminder(officer.UserID, in.CaseID, content)); err != nil {
				return err
			}
		case !isNoDocuments(err):
			return fmt.Errorf("find officer: %w", err)
		}

		if in.CitizenID != nil {
			u, err := s.Users.FindOne(ctx, bson.M{"_id": *in.CitizenID})
			switch {
			case err == nil:
				citizen = u
				if err := s.Notifier.Notify(ctx, reminder(u.ID, in.CaseID, content)); err != nil {
					return err
				}
			case !isNoDocuments(err):
				return fmt.Errorf("find citizen: %w", err)
			}
		}

		_, err = s.Interviews.UpdateOne(ctx, bson.M{"_id": in.ID}, bson.M{"$set": bson.M{"reminder_sent": true, "updated_at": now()}})
		if err != nil {
			return fmt.Errorf("mark reminder sent: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if citizen != nil {
		s.Notifier.Email(ctx, citizen.Email, citizen.FullName, "Interview reminder",
			templates.RenderInterviewReminderEmail(interviewEmail(in, citizen, obNumber)))
	}
	return nil
}

func reminder(userID, caseID primitive.ObjectID, content string) models.Notification {
	return models.Notification{
		UserID:  userID,
		Title:   "Interview reminder",
		Content: content,
		Type:    models.NotificationReminder,
		CaseID:  &caseID,
	}
}

func interviewEmail(in models.Interview, citizen *models.User, obNumber string) templates.InterviewEmail {
	return templates.InterviewEmail{
		CitizenName: citizen.FullName,
		OBNumber:    obNumber,
		When:        in.ScheduledTime.Format(interviewTimeLayout) + " UTC",
		Duration:    in.Duration,
		Platform:    in.Platform,
		MeetingLink: in.MeetingLink,
		MeetingID:   in.MeetingID,
	}
}
