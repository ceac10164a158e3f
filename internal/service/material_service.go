package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"feedmill/internal/apierror"
	"feedmill/internal/dto"
	"feedmill/internal/model"
	"feedmill/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaterialService manages the raw material master data.
type MaterialService interface {
	Create(ctx context.Context, req dto.CreateMaterialRequest, actorRole string) (*dto.MaterialResponse, error)
	List(ctx context.Context) (*dto.MaterialListResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID, actorRole string) error
	Delete(ctx context.Context, id uuid.UUID, actorRole string) error
}

type materialService struct {
	materials repository.MaterialRepository
}

func NewMaterialService(materials repository.MaterialRepository) MaterialService {
	return &materialService{materials: materials}
}

func (s *materialService) Create(ctx context.Context, req dto.CreateMaterialRequest, actorRole string) (*dto.MaterialResponse, error) {
	if err := authorize(actorRole, OpManageMaterials); err != nil {
		return nil, err
	}
	unit := strings.TrimSpace(req.Unit)
	if unit == "" {
		unit = "kg"
	}
	m := &model.Material{
		Code:          strings.ToUpper(strings.TrimSpace(req.Code)),
		Name:          strings.TrimSpace(req.Name),
		Unit:          unit,
		MinStockLevel: req.MinStockLevel,
		Active:        true,
	}
	if err := s.materials.Create(ctx, m); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.NewValidationf("material code %q already exists", m.Code)
		}
		return nil, err
	}
	resp := materialToResponse(m)
	return &resp, nil
}

func (s *materialService) List(ctx context.Context) (*dto.MaterialListResponse, error) {
	materials, err := s.materials.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := &dto.MaterialListResponse{Data: make([]dto.MaterialResponse, 0, len(materials))}
	for _, m := range materials {
		resp.Data = append(resp.Data, materialToResponse(&m))
	}
	return resp, nil
}

func (s *materialService) Deactivate(ctx context.Context, id uuid.UUID, actorRole string) error {
	if err := authorize(actorRole, OpManageMaterials); err != nil {
		return err
	}
	if err := s.materials.Deactivate(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &apierror.NotFoundError{Entity: "material"}
		}
		return err
	}
	return nil
}

// Delete hard-deletes a material, but only while it has no ledger history.
// Once movements exist the only way out is Deactivate.
func (s *materialService) Delete(ctx context.Context, id uuid.UUID, actorRole string) error {
	if err := authorize(actorRole, OpManageMaterials); err != nil {
		return err
	}
	hasMovements, err := s.materials.HasMovements(ctx, id)
	if err != nil {
		return err
	}
	if hasMovements {
		return apierror.NewValidationf("material has stock movements and cannot be deleted, deactivate it instead")
	}
	if err := s.materials.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &apierror.NotFoundError{Entity: "material"}
		}
		return err
	}
	return nil
}

func materialToResponse(m *model.Material) dto.MaterialResponse {
	return dto.MaterialResponse{
		ID:            m.ID.String(),
		Code:          m.Code,
		Name:          m.Name,
		Unit:          m.Unit,
		MinStockLevel: m.MinStockLevel,
		Active:        m.Active,
		CreatedAt:     m.CreatedAt.UTC().Format(time.RFC3339),
	}
}
