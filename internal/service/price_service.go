package service

import (
	"context"
	"errors"
	"time"

	"feedmill/internal/apierror"
	"feedmill/internal/dto"
	"feedmill/internal/model"
	"feedmill/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PriceService manages monthly accounting prices for materials.
type PriceService interface {
	Create(ctx context.Context, req dto.CreatePriceRequest, actorRole string) (*dto.PriceResponse, error)
	List(ctx context.Context, month string) (*dto.PriceListResponse, error)
}

type priceService struct {
	prices    repository.MonthlyPriceRepository
	materials repository.MaterialRepository
}

func NewPriceService(prices repository.MonthlyPriceRepository, materials repository.MaterialRepository) PriceService {
	return &priceService{prices: prices, materials: materials}
}

func (s *priceService) Create(ctx context.Context, req dto.CreatePriceRequest, actorRole string) (*dto.PriceResponse, error) {
	if err := authorize(actorRole, OpManagePrices); err != nil {
		return nil, err
	}
	materialID, err := uuid.Parse(req.MaterialID)
	if err != nil {
		return nil, apierror.NewValidationf("invalid material id")
	}
	month, err := time.ParseInLocation("2006-01", req.Month, time.UTC)
	if err != nil {
		return nil, apierror.NewValidationf("month must be in YYYY-MM format")
	}
	if _, err := s.materials.FindByID(ctx, materialID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apierror.NotFoundError{Entity: "material"}
		}
		return nil, err
	}
	price := &model.MonthlyPrice{
		MaterialID: materialID,
		PriceMonth: month,
		UnitPrice:  req.UnitPrice,
	}
	if err := s.prices.Create(ctx, price); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.NewValidationf("price for that material and month already exists")
		}
		return nil, err
	}
	resp := priceToResponse(price)
	return &resp, nil
}

func (s *priceService) List(ctx context.Context, month string) (*dto.PriceListResponse, error) {
	var filter *time.Time
	if month != "" {
		parsed, err := time.ParseInLocation("2006-01", month, time.UTC)
		if err != nil {
			return nil, apierror.NewValidationf("month must be in YYYY-MM format")
		}
		filter = &parsed
	}
	prices, err := s.prices.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.PriceListResponse{Data: make([]dto.PriceResponse, 0, len(prices))}
	for _, p := range prices {
		resp.Data = append(resp.Data, priceToResponse(&p))
	}
	return resp, nil
}

func priceToResponse(p *model.MonthlyPrice) dto.PriceResponse {
	materialName := ""
	if p.Material != nil {
		materialName = p.Material.Name
	}
	return dto.PriceResponse{
		ID:           p.ID.String(),
		MaterialID:   p.MaterialID.String(),
		MaterialName: materialName,
		Month:        p.PriceMonth.Format("2006-01"),
		UnitPrice:    p.UnitPrice,
		CreatedAt:    p.CreatedAt.UTC().Format(time.RFC3339),
	}
}
