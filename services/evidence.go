package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/linesmerrill/crime-report-api/databases"
	"github.com/linesmerrill/crime-report-api/models"
)

// BlobStorage holds the uploaded evidence files
type BlobStorage interface {
	GenerateUploadURL(ctx context.Context) (*models.UploadTicket, error)
	// GetURL returns an empty string when the storage has no file for ref
	GetURL(ctx context.Context, ref string) (string, error)
	Delete(ctx context.Context, ref string) error
}

// Fallbacks used when the people behind a piece of evidence can no longer be resolved
const (
	unknownSubmitterName = "Unknown"
	unknownSubmitterRole = "unknown"
	anonymousVerifier    = "an officer"
)

// EvidenceService records evidence files against cases
type EvidenceService struct {
	Cases    databases.CaseDatabase
	Updates  databases.CaseUpdateDatabase
	Evidence databases.EvidenceDatabase
	Officers databases.OfficerDatabase
	Users    databases.UserDatabase
	Storage  BlobStorage
	Notifier *Notifier
	Tx       databases.Transactor
}

// GenerateUploadURL returns a signed ticket for uploading one file straight to storage
func (s *EvidenceService) GenerateUploadURL(ctx context.Context) (*models.UploadTicket, error) {
	if _, err := requirePrincipal(ctx); err != nil {
		return nil, err
	}
	ticket, err := s.Storage.GenerateUploadURL(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate upload url: %w", err)
	}
	return ticket, nil
}

// AddEvidence attaches an uploaded file to a case, logs it on the case timeline and tells
// the assigned officer. Nothing is written when the case does not exist.
func (s *EvidenceService) AddEvidence(ctx context.Context, caseID string, req models.AddEvidenceRequest) (string, error) {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return "", err
	}
	c, err := findCase(ctx, s.Cases, caseID)
	if err != nil {
		return "", err
	}
	if !canViewCase(p, c) {
		return "", models.ErrUnauthorized
	}
	if err := Validate(req); err != nil {
		return "", err
	}

	var evidenceID primitive.ObjectID
	err = s.Notifier.InTransaction(ctx, s.Tx, func(ctx context.Context) error {
		var err error
		evidenceID, err = s.Evidence.InsertOne(ctx, models.Evidence{
			CaseID:      c.ID,
			Title:       req.Title,
			Description: req.Description,
			Type:        req.Type,
			StorageRef:  req.StorageRef,
			FileName:    req.FileName,
			FileType:    req.FileType,
			FileSize:    req.FileSize,
			SubmittedBy: p.ID,
			IsVerified:  false,
			CreatedAt:   now(),
		})
		if err != nil {
			return fmt.Errorf("insert evidence: %w", err)
		}
		if err := appendUpdate(ctx, s.Updates, models.CaseUpdate{
			CaseID:     c.ID,
			Text:       fmt.Sprintf("New evidence added: %s", req.Title),
			Type:       models.UpdateEvidenceAdded,
			Visibility: models.VisibilityPublic,
			Author:     p.ID.Hex(),
		}); err != nil {
			return err
		}
		if _, err := s.Cases.UpdateOne(ctx, bson.M{"_id": c.ID}, bson.M{"$set": bson.M{"updated_at": now()}}); err != nil {
			return fmt.Errorf("touch case: %w", err)
		}
		if c.AssignedOfficerID == nil {
			return nil
		}
		officer, err := s.Officers.FindOne(ctx, bson.M{"_id": *c.AssignedOfficerID})
		if err != nil {
			if isNoDocuments(err) {
				zap.S().Warnw("assigned officer missing, evidence notification skipped", "caseId", c.ID.Hex())
				return nil
			}
			return fmt.Errorf("find assigned officer: %w", err)
		}
		return s.Notifier.Notify(ctx, models.Notification{
			UserID:  officer.UserID,
			Title:   "New evidence",
			Content: fmt.Sprintf("New evidence \"%s\" was added to case %s", req.Title, c.OBNumber),
			Type:    models.NotificationEvidence,
			CaseID:  &c.ID,
		})
	})
	if err != nil {
		return "", err
	}
	return evidenceID.Hex(), nil
}

// GetCaseEvidence lists the evidence of a case with submitter, verifier and a download url
// for each file
func (s *EvidenceService) GetCaseEvidence(ctx context.Context, caseID string) ([]models.EvidenceView, error) {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	c, err := findCase(ctx, s.Cases, caseID)
	if err != nil {
		return nil, err
	}
	if !canViewCase(p, c) {
		return nil, models.ErrUnauthorized
	}

	items, err := s.Evidence.Find(ctx, bson.M{"case_id": c.ID})
	if err != nil {
		return nil, fmt.Errorf("find evidence: %w", err)
	}

	// one lookup per item, fine at the volume a single case collects
	views := make([]models.EvidenceView, 0, len(items))
	for _, e := range items {
		view := models.EvidenceView{
			Evidence:  e,
			Submitter: models.Submitter{Name: unknownSubmitterName, Role: unknownSubmitterRole},
		}

		user, err := s.Users.FindOne(ctx, bson.M{"_id": e.SubmittedBy})
		switch {
		case err == nil:
			view.Submitter = models.Submitter{Name: user.FullName, Role: string(user.Role)}
		case !isNoDocuments(err):
			return nil, fmt.Errorf("find submitter: %w", err)
		}

		if e.IsVerified && e.VerifiedBy != nil {
			verifier, err := s.verifier(ctx, *e.VerifiedBy)
			if err != nil {
				return nil, err
			}
			view.Verifier = verifier
		}

		url, err := s.Storage.GetURL(ctx, e.StorageRef)
		if err != nil {
			zap.S().Warnw("failed to resolve evidence url", "evidenceId", e.ID.Hex(), "error", err)
		} else if url != "" {
			view.URL = &url
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *EvidenceService) verifier(ctx context.Context, officerID primitive.ObjectID) (*models.Verifier, error) {
	officer, err := s.Officers.FindOne(ctx, bson.M{"_id": officerID})
	if err != nil {
		if isNoDocuments(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find verifier: %w", err)
	}
	v := &models.Verifier{Name: anonymousVerifier, BadgeNumber: officer.BadgeNumber}
	user, err := s.Users.FindOne(ctx, bson.M{"_id": officer.UserID})
	switch {
	case err == nil:
		v.Name = user.FullName
	case !isNoDocuments(err):
		return nil, fmt.Errorf("find verifier user: %w", err)
	}
	return v, nil
}

// VerifyEvidence marks evidence verified by an officer. officerID defaults to the caller's
// own officer record and line officers may only verify as themselves. Verifying again
// overwrites the verifier and timestamp.
func (s *EvidenceService) VerifyEvidence(ctx context.Context, evidenceID, officerID string) error {
	p, err := requireRole(ctx, staffRoles...)
	if err != nil {
		return err
	}
	eid, err := parseID(evidenceID, models.ErrEvidenceNotFound)
	if err != nil {
		return err
	}
	evidence, err := s.Evidence.FindOne(ctx, bson.M{"_id": eid})
	if err != nil {
		return lookupErr(err, models.ErrEvidenceNotFound, "evidence")
	}

	officer, err := s.verifyingOfficer(ctx, p, officerID)
	if err != nil {
		return err
	}

	name := anonymousVerifier
	author := models.AuthorSystem
	if !officer.UserID.IsZero() {
		author = officer.UserID.Hex()
		user, err := s.Users.FindOne(ctx, bson.M{"_id": officer.UserID})
		switch {
		case err == nil:
			name = user.FullName
		case !isNoDocuments(err):
			return fmt.Errorf("find officer user: %w", err)
		}
	}

	return s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		set := bson.M{"is_verified": true, "verified_by": officer.ID, "verified_at": now()}
		if _, err := s.Evidence.UpdateOne(ctx, bson.M{"_id": evidence.ID}, bson.M{"$set": set}); err != nil {
			return fmt.Errorf("verify evidence: %w", err)
		}
		return appendUpdate(ctx, s.Updates, models.CaseUpdate{
			CaseID:     evidence.CaseID,
			Text:       fmt.Sprintf("Evidence verified by %s", name),
			Type:       models.UpdateNote,
			Visibility: models.VisibilityInternal,
			Author:     author,
		})
	})
}

func (s *EvidenceService) verifyingOfficer(ctx context.Context, p *models.Principal, officerID string) (*models.Officer, error) {
	if officerID == "" {
		if p.Officer == nil {
			return nil, models.ErrOfficerNotFound
		}
		return p.Officer, nil
	}
	id, err := parseID(officerID, models.ErrOfficerNotFound)
	if err != nil {
		return nil, err
	}
	if p.Role == models.RoleOfficer && (p.Officer == nil || p.Officer.ID != id) {
		return nil, models.ErrUnauthorized
	}
	officer, err := s.Officers.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, lookupErr(err, models.ErrOfficerNotFound, "officer")
	}
	return officer, nil
}

// DeleteEvidence removes the stored file and then the evidence record. Citizens may only
// delete what they submitted. A failure between the two deletes leaves a record whose file
// is gone.
func (s *EvidenceService) DeleteEvidence(ctx context.Context, evidenceID string) error {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return err
	}
	eid, err := parseID(evidenceID, models.ErrEvidenceNotFound)
	if err != nil {
		return err
	}
	evidence, err := s.Evidence.FindOne(ctx, bson.M{"_id": eid})
	if err != nil {
		return lookupErr(err, models.ErrEvidenceNotFound, "evidence")
	}
	if !p.Role.IsStaff() && evidence.SubmittedBy != p.ID {
		return models.ErrUnauthorized
	}

	if err := s.Storage.Delete(ctx, evidence.StorageRef); err != nil {
		return fmt.Errorf("delete evidence file: %w", err)
	}

	return s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.Evidence.DeleteOne(ctx, bson.M{"_id": evidence.ID}); err != nil {
			return fmt.Errorf("delete evidence: %w", err)
		}
		return appendUpdate(ctx, s.Updates, models.CaseUpdate{
			CaseID:     evidence.CaseID,
			Text:       fmt.Sprintf("Evidence \"%s\" deleted by %s", evidence.Title, p.FullName),
			Type:       models.UpdateNote,
			Visibility: models.VisibilityInternal,
			Author:     p.ID.Hex(),
		})
	})
}
