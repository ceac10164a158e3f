package service

import (
	"context"
	"time"

	"feedmill/internal/apierror"
	"feedmill/internal/dto"
	"feedmill/internal/model"
	"feedmill/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AnalysisService interface {
	CreateInternal(ctx context.Context, req dto.CreateInternalAnalysisRequest, actorRole string) (*dto.AnalysisResponse, error)
	CreateExternal(ctx context.Context, req dto.CreateExternalAnalysisRequest, actorRole string) (*dto.AnalysisResponse, error)
	List(ctx context.Context, filter dto.AnalysisFilter) (*dto.AnalysisListResponse, error)
}

type analysisService struct {
	analyses    repository.AnalysisRepository
	acceptances repository.AcceptanceRepository
}

func NewAnalysisService(
	analyses repository.AnalysisRepository,
	acceptances repository.AcceptanceRepository,
) AnalysisService {
	return &analysisService{analyses: analyses, acceptances: acceptances}
}

// hasAnyInternalData reports whether at least one intake field was filled in.
// Empty inline analysis blocks on an acceptance are silently skipped.
func hasAnyInternalData(f dto.InternalAnalysisFields) bool {
	strSet := func(s *string) bool { return s != nil && *s != "" }
	decSet := func(d *decimal.Decimal) bool { return d != nil }
	return strSet(f.ForeignMatter) || strSet(f.DustLevel) || strSet(f.Remarks) || strSet(f.CheckedBy) ||
		decSet(f.Moisture) || decSet(f.Hectoliter) || decSet(f.AflatoxinPPB) || decSet(f.Zearalenone)
}

// buildInternalAnalysis snapshots date/material/plate/company from the parent
// acceptance. The copy is deliberate: the analysis reflects the delivery as
// it was recorded, not a live join.
func buildInternalAnalysis(acceptance *model.Acceptance, f dto.InternalAnalysisFields, role string) *model.AnalysisResult {
	acceptanceRef := acceptance.ID
	return &model.AnalysisResult{
		AcceptanceID:  &acceptanceRef,
		Date:          acceptance.AcceptedAt.UTC().Truncate(24 * time.Hour),
		MaterialID:    acceptance.MaterialID,
		Plate:         &acceptance.Plate,
		Company:       acceptance.Company,
		Type:          model.AnalysisInternal,
		EnteredBy:     role,
		ForeignMatter: f.ForeignMatter,
		DustLevel:     f.DustLevel,
		Remarks:       f.Remarks,
		CheckedBy:     f.CheckedBy,
		Moisture:      f.Moisture,
		Hectoliter:    f.Hectoliter,
		AflatoxinPPB:  f.AflatoxinPPB,
		Zearalenone:   f.Zearalenone,
	}
}

func (s *analysisService) CreateInternal(ctx context.Context, req dto.CreateInternalAnalysisRequest, actorRole string) (*dto.AnalysisResponse, error) {
	if err := authorize(actorRole, OpCreateInternalAnalysis); err != nil {
		return nil, err
	}
	acceptance, err := s.findAcceptance(ctx, req.AcceptanceID)
	if err != nil {
		return nil, err
	}

	row := buildInternalAnalysis(acceptance, req.InternalAnalysisFields, NormalizeRole(actorRole))
	if err := s.analyses.Create(ctx, row); err != nil {
		return nil, err
	}
	resp := analysisToResponse(row)
	return &resp, nil
}

func (s *analysisService) CreateExternal(ctx context.Context, req dto.CreateExternalAnalysisRequest, actorRole string) (*dto.AnalysisResponse, error) {
	if err := authorize(actorRole, OpCreateExternalAnalysis); err != nil {
		return nil, err
	}
	acceptance, err := s.findAcceptance(ctx, req.AcceptanceID)
	if err != nil {
		return nil, err
	}

	row := buildInternalAnalysis(acceptance, req.InternalAnalysisFields, NormalizeRole(actorRole))
	row.Type = model.AnalysisExternal
	row.DryMatterPct = req.DryMatterPct
	row.CrudeProteinPct = req.CrudeProteinPct
	row.StarchPct = req.StarchPct
	row.NDFPct = req.NDFPct
	row.ADFPct = req.ADFPct
	row.AshPct = req.AshPct
	row.FatPct = req.FatPct
	row.OtherMycotoxins = req.OtherMycotoxins
	row.LabName = req.LabName
	row.ReportNo = req.ReportNo
	row.SampleNo = req.SampleNo

	if err := s.analyses.Create(ctx, row); err != nil {
		return nil, err
	}
	resp := analysisToResponse(row)
	return &resp, nil
}

func (s *analysisService) findAcceptance(ctx context.Context, id string) (*model.Acceptance, error) {
	acceptanceID, err := uuid.Parse(id)
	if err != nil {
		return nil, apierror.NewValidationf("acceptance_id is not a valid id")
	}
	acceptance, err := s.acceptances.FindByID(ctx, acceptanceID)
	if err != nil {
		return nil, apierror.NewValidationf("acceptance not found")
	}
	return acceptance, nil
}

func (s *analysisService) List(ctx context.Context, filter dto.AnalysisFilter) (*dto.AnalysisListResponse, error) {
	query := repository.AnalysisQuery{
		Type:          filter.Type,
		ForeignMatter: filter.ForeignMatter,
	}
	if filter.DateFrom != "" {
		t, err := time.Parse("2006-01-02", filter.DateFrom)
		if err != nil {
			return nil, apierror.NewValidationf("date_from must be YYYY-MM-DD")
		}
		query.DateFrom = &t
	}
	if filter.DateTo != "" {
		t, err := time.Parse("2006-01-02", filter.DateTo)
		if err != nil {
			return nil, apierror.NewValidationf("date_to must be YYYY-MM-DD")
		}
		query.DateTo = &t
	}
	if filter.MaterialID != "" {
		id, err := uuid.Parse(filter.MaterialID)
		if err != nil {
			return nil, apierror.NewValidationf("material_id is not a valid id")
		}
		query.MaterialID = &id
	}
	if filter.AflatoxinMin != "" {
		min, err := decimal.NewFromString(filter.AflatoxinMin)
		if err != nil {
			return nil, apierror.NewValidationf("aflatoxin_min must be numeric")
		}
		query.AflatoxinMin = &min
	}

	results, err := s.analyses.ListFiltered(ctx, query)
	if err != nil {
		return nil, err
	}
	data := make([]dto.AnalysisResponse, 0, len(results))
	for _, r := range results {
		data = append(data, analysisToResponse(&r))
	}
	return &dto.AnalysisListResponse{Data: data}, nil
}

func analysisToResponse(a *model.AnalysisResult) dto.AnalysisResponse {
	var acceptanceID *string
	if a.AcceptanceID != nil {
		id := a.AcceptanceID.String()
		acceptanceID = &id
	}
	materialName := ""
	if a.Material != nil {
		materialName = a.Material.Name
	}
	return dto.AnalysisResponse{
		ID:            a.ID.String(),
		AcceptanceID:  acceptanceID,
		Date:          a.Date.Format("2006-01-02"),
		MaterialID:    a.MaterialID.String(),
		MaterialName:  materialName,
		Plate:         a.Plate,
		Company:       a.Company,
		Type:          a.Type,
		EnteredBy:     a.EnteredBy,
		EnteredAt:     a.EnteredAt.UTC().Format(time.RFC3339),
		ForeignMatter: a.ForeignMatter,
		DustLevel:     a.DustLevel,
		Remarks:       a.Remarks,
		CheckedBy:     a.CheckedBy,
		Moisture:      a.Moisture,
		Hectoliter:    a.Hectoliter,
		AflatoxinPPB:  a.AflatoxinPPB,
		Zearalenone:   a.Zearalenone,

		DryMatterPct:    a.DryMatterPct,
		CrudeProteinPct: a.CrudeProteinPct,
		StarchPct:       a.StarchPct,
		NDFPct:          a.NDFPct,
		ADFPct:          a.ADFPct,
		AshPct:          a.AshPct,
		FatPct:          a.FatPct,
		OtherMycotoxins: a.OtherMycotoxins,
		LabName:         a.LabName,
		ReportNo:        a.ReportNo,
		SampleNo:        a.SampleNo,
	}
}
