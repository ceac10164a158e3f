package service

import (
	"context"
	"testing"
	"time"

	"feedmill/internal/apierror"
	"feedmill/internal/dto"
	"feedmill/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAcceptance(repo *stubAcceptanceRepo, materialID uuid.UUID) *model.Acceptance {
	company := "Harvest Trading"
	a := &model.Acceptance{
		ID:         uuid.New(),
		AcceptedAt: time.Date(2026, 8, 15, 9, 30, 0, 0, time.UTC),
		Plate:      "06 ABC 123",
		MaterialID: materialID,
		Quantity:   decimal.RequireFromString("25000.000"),
		Company:    &company,
		CreatedAt:  time.Now().UTC(),
	}
	repo.acceptances[a.ID] = a
	return a
}

func TestCreateInternalAnalysisSnapshotsAcceptance(t *testing.T) {
	acceptances := newStubAcceptanceRepo()
	analyses := newStubAnalysisRepo()
	materials := newStubMaterialRepo()
	svc := NewAnalysisService(analyses, acceptances)
	m := seedMaterial(materials, "CORN", "Corn")
	acceptance := seedAcceptance(acceptances, m.ID)

	foreign := model.ForeignMatterPresent
	dust := model.DustLevelHigh
	resp, err := svc.CreateInternal(context.Background(), dto.CreateInternalAnalysisRequest{
		AcceptanceID: acceptance.ID.String(),
		InternalAnalysisFields: dto.InternalAnalysisFields{
			ForeignMatter: &foreign,
			DustLevel:     &dust,
		},
	}, RoleAcceptance)

	require.NoError(t, err)
	assert.Equal(t, model.AnalysisInternal, resp.Type)
	assert.Equal(t, "2026-08-15", resp.Date)
	assert.Equal(t, m.ID.String(), resp.MaterialID)
	require.NotNil(t, resp.Plate)
	assert.Equal(t, "06 ABC 123", *resp.Plate)
	require.NotNil(t, resp.Company)
	assert.Equal(t, "Harvest Trading", *resp.Company)
	assert.Equal(t, RoleAcceptance, resp.EnteredBy)
}

func TestCreateExternalAnalysisCarriesLabFields(t *testing.T) {
	acceptances := newStubAcceptanceRepo()
	analyses := newStubAnalysisRepo()
	materials := newStubMaterialRepo()
	svc := NewAnalysisService(analyses, acceptances)
	m := seedMaterial(materials, "CORN", "Corn")
	acceptance := seedAcceptance(acceptances, m.ID)

	protein := decimal.RequireFromString("8.2")
	lab := "AgriLab GmbH"
	resp, err := svc.CreateExternal(context.Background(), dto.CreateExternalAnalysisRequest{
		AcceptanceID:    acceptance.ID.String(),
		CrudeProteinPct: &protein,
		LabName:         &lab,
	}, RoleAdmin)

	require.NoError(t, err)
	assert.Equal(t, model.AnalysisExternal, resp.Type)
	require.NotNil(t, resp.CrudeProteinPct)
	assert.Equal(t, "8.2", resp.CrudeProteinPct.String())
	require.NotNil(t, resp.LabName)
	assert.Equal(t, "AgriLab GmbH", *resp.LabName)
}

func TestCreateExternalAnalysisRequiresAdmin(t *testing.T) {
	acceptances := newStubAcceptanceRepo()
	svc := NewAnalysisService(newStubAnalysisRepo(), acceptances)

	_, err := svc.CreateExternal(context.Background(), dto.CreateExternalAnalysisRequest{
		AcceptanceID: uuid.NewString(),
	}, RoleAcceptance)
	require.Error(t, err)
	assert.IsType(t, &apierror.AuthorizationError{}, err)
}

func TestCreateAnalysisUnknownAcceptance(t *testing.T) {
	svc := NewAnalysisService(newStubAnalysisRepo(), newStubAcceptanceRepo())

	_, err := svc.CreateInternal(context.Background(), dto.CreateInternalAnalysisRequest{
		AcceptanceID: uuid.NewString(),
	}, RoleAdmin)
	require.Error(t, err)
	assert.IsType(t, &apierror.ValidationError{}, err)
}

func TestListAnalysesFilters(t *testing.T) {
	acceptances := newStubAcceptanceRepo()
	analyses := newStubAnalysisRepo()
	materials := newStubMaterialRepo()
	svc := NewAnalysisService(analyses, acceptances)
	corn := seedMaterial(materials, "CORN", "Corn")
	barley := seedMaterial(materials, "BARLEY", "Barley")

	high := decimal.RequireFromString("25.0")
	low := decimal.RequireFromString("2.0")
	analyses.add(&model.AnalysisResult{
		Date: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), MaterialID: corn.ID,
		Type: model.AnalysisInternal, EnteredBy: RoleAcceptance, AflatoxinPPB: &high,
	})
	analyses.add(&model.AnalysisResult{
		Date: time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC), MaterialID: barley.ID,
		Type: model.AnalysisExternal, EnteredBy: RoleAdmin, AflatoxinPPB: &low,
	})

	resp, err := svc.List(context.Background(), dto.AnalysisFilter{AflatoxinMin: "10"})
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, corn.ID.String(), resp.Data[0].MaterialID)

	resp, err = svc.List(context.Background(), dto.AnalysisFilter{Type: model.AnalysisExternal})
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, barley.ID.String(), resp.Data[0].MaterialID)
}
