package service

import (
	"context"
	"fmt"
	"time"

	"feedmill/internal/apierror"
	"feedmill/internal/dto"
	"feedmill/internal/model"
	"feedmill/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AcceptanceService interface {
	Create(ctx context.Context, req dto.CreateAcceptanceRequest, actorRole string) (*dto.AcceptanceResponse, error)
	ListLatest(ctx context.Context, limit int) (*dto.AcceptanceListResponse, error)
}

type acceptanceService struct {
	acceptances repository.AcceptanceRepository
	materials   repository.MaterialRepository
	analyses    repository.AnalysisRepository
	audits      repository.AuditLogRepository
	stock       StockService
}

func NewAcceptanceService(
	acceptances repository.AcceptanceRepository,
	materials repository.MaterialRepository,
	analyses repository.AnalysisRepository,
	audits repository.AuditLogRepository,
	stock StockService,
) AcceptanceService {
	return &acceptanceService{
		acceptances: acceptances,
		materials:   materials,
		analyses:    analyses,
		audits:      audits,
		stock:       stock,
	}
}

// parseTimestamp accepts RFC 3339 or a bare local timestamp; a missing zone
// is treated as UTC.
func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apierror.NewValidationf("accepted_at is not a valid timestamp")
}

// ── Create ───────────────────────────────────────────────────────────────────
// One ACID unit: duplicate check, acceptance row, IN movement, optional
// intake analysis, audit entry. Any failure rolls the whole unit back.

func (s *acceptanceService) Create(ctx context.Context, req dto.CreateAcceptanceRequest, actorRole string) (*dto.AcceptanceResponse, error) {
	if err := authorize(actorRole, OpCreateAcceptance); err != nil {
		return nil, err
	}
	role := NormalizeRole(actorRole)

	acceptedAt, err := parseTimestamp(req.AcceptedAt)
	if err != nil {
		return nil, err
	}
	if !req.Quantity.IsPositive() {
		return nil, apierror.NewValidationf("quantity must be greater than 0")
	}
	materialID, err := uuid.Parse(req.MaterialID)
	if err != nil {
		return nil, apierror.NewValidationf("material_id is not a valid id")
	}
	material, err := s.materials.FindByID(ctx, materialID)
	if err != nil {
		return nil, apierror.NewValidationf("material not found")
	}
	if !material.Active {
		return nil, apierror.NewValidationf("material %s is inactive", material.Code)
	}

	acceptance := model.Acceptance{
		AcceptedAt: acceptedAt,
		Plate:      req.Plate,
		MaterialID: materialID,
		Quantity:   req.Quantity,
		Company:    req.Company,
		Note:       req.Note,
	}

	txErr := runTx(ctx, s.acceptances.DB(), func(tx *gorm.DB) error {
		exists, err := s.acceptances.ExistsDuplicateTx(tx, acceptedAt, req.Plate, materialID, req.Quantity)
		if err != nil {
			return err
		}
		if exists {
			return apierror.NewValidationf("duplicate acceptance detected")
		}

		if err := s.acceptances.CreateTx(tx, &acceptance); err != nil {
			return err
		}

		acceptanceRef := acceptance.ID
		movement := &model.StockMovement{
			MaterialID:    materialID,
			Type:          model.MovementIn,
			Reason:        model.ReasonMaterialAcceptance,
			Quantity:      req.Quantity,
			MovementAt:    acceptedAt,
			ReferenceType: "acceptance",
			ReferenceID:   &acceptanceRef,
			Note:          req.Note,
		}
		if err := s.stock.AddMovementTx(tx, movement); err != nil {
			return err
		}

		if req.Analysis != nil && hasAnyInternalData(*req.Analysis) {
			row := buildInternalAnalysis(&acceptance, *req.Analysis, role)
			if err := s.analyses.CreateTx(tx, row); err != nil {
				return err
			}
		}

		return s.audits.CreateTx(tx, &model.AuditLog{
			EntityName: "acceptance",
			EntityID:   acceptance.ID.String(),
			Action:     "INSERT",
			Actor:      role,
			Payload: fmt.Sprintf("accepted_at=%s plate=%s material_id=%s quantity=%s",
				acceptedAt.Format(time.RFC3339), req.Plate, materialID, req.Quantity.StringFixed(3)),
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := acceptanceToResponse(&acceptance)
	resp.MaterialName = material.Name
	return &resp, nil
}

func (s *acceptanceService) ListLatest(ctx context.Context, limit int) (*dto.AcceptanceListResponse, error) {
	acceptances, err := s.acceptances.ListLatest(ctx, limit)
	if err != nil {
		return nil, err
	}
	data := make([]dto.AcceptanceResponse, 0, len(acceptances))
	for _, a := range acceptances {
		data = append(data, acceptanceToResponse(&a))
	}
	return &dto.AcceptanceListResponse{Data: data}, nil
}

func acceptanceToResponse(a *model.Acceptance) dto.AcceptanceResponse {
	resp := dto.AcceptanceResponse{
		ID:         a.ID.String(),
		AcceptedAt: a.AcceptedAt.UTC().Format(time.RFC3339),
		Plate:      a.Plate,
		MaterialID: a.MaterialID.String(),
		Quantity:   a.Quantity,
		Company:    a.Company,
		Note:       a.Note,
		CreatedAt:  a.CreatedAt.UTC().Format(time.RFC3339),
	}
	if a.Material != nil {
		resp.MaterialName = a.Material.Name
	}
	return resp
}
