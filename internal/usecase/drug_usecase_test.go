package usecase

import (
	"context"
	"encoding/json"
	"testing"

	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fakeDrugRepo) IncrementStock(ctx context.Context, id int, quantity int) (int64, error) {
	d, ok := f.drugs[id]
	if !ok {
		return 0, nil
	}
	d.Stock += quantity
	return 1, nil
}

func (f *fakeDrugRepo) UpdateDetails(ctx context.Context, drug *entity.Drug, withStock bool) (int64, error) {
	d, ok := f.drugs[drug.ID]
	if !ok {
		return 0, nil
	}
	d.Name = drug.Name
	d.Description = drug.Description
	d.Unit = drug.Unit
	d.Price = drug.Price
	if withStock {
		d.Stock = drug.Stock
	}
	return 1, nil
}

// dispensingDrugRepo takes stock out between the usecase's read and its write
type dispensingDrugRepo struct {
	*fakeDrugRepo
	dispense int
}

func (f *dispensingDrugRepo) UpdateDetails(ctx context.Context, drug *entity.Drug, withStock bool) (int64, error) {
	if _, err := f.DecrementStock(ctx, drug.ID, f.dispense); err != nil {
		return 0, err
	}
	return f.fakeDrugRepo.UpdateDetails(ctx, drug, withStock)
}

func newDrugFixture() *fakeDrugRepo {
	return &fakeDrugRepo{drugs: map[int]*entity.Drug{
		3: {ID: 3, Name: "Amoxicillin", Unit: "capsule", Stock: 10, Price: decimal.NewFromInt(2500)},
	}}
}

func TestDrugUsecase_UpdateDrug_KeepsConcurrentDispense(t *testing.T) {
	drugs := newDrugFixture()
	uc := NewDrugUsecase(newTestLogger(), &fakeTransactor{}, &dispensingDrugRepo{fakeDrugRepo: drugs, dispense: 4}, &fakeAudit{})
	ctx := ctxAs(uuid.New(), entity.RoleIDPharmacist)

	resp, err := uc.UpdateDrug(ctx, 3, &dto.DrugRequest{Name: "Amoxicillin 500mg", Unit: "capsule", Price: json.Number("2750")})
	require.NoError(t, err)

	assert.Equal(t, 6, drugs.drugs[3].Stock)
	assert.Equal(t, 6, resp.Stock)
	assert.Equal(t, "Amoxicillin 500mg", resp.Name)
	assert.True(t, decimal.NewFromInt(2750).Equal(drugs.drugs[3].Price))
}

func TestDrugUsecase_UpdateDrug_SetsStockWhenGiven(t *testing.T) {
	drugs := newDrugFixture()
	uc := NewDrugUsecase(newTestLogger(), &fakeTransactor{}, drugs, &fakeAudit{})
	ctx := ctxAs(uuid.New(), entity.RoleIDPharmacist)
	stock := 25

	resp, err := uc.UpdateDrug(ctx, 3, &dto.DrugRequest{Name: "Amoxicillin", Unit: "capsule", Price: json.Number("2500"), Stock: &stock})
	require.NoError(t, err)
	assert.Equal(t, 25, resp.Stock)

	_, err = uc.UpdateDrug(ctx, 99, &dto.DrugRequest{Name: "Ghost", Unit: "tablet", Price: json.Number("1")})
	assert.ErrorIs(t, err, ErrDrugNotFound)
}

func TestDrugUsecase_RestockDrug(t *testing.T) {
	drugs := newDrugFixture()
	audit := &fakeAudit{}
	uc := NewDrugUsecase(newTestLogger(), &fakeTransactor{}, drugs, audit)
	ctx := ctxAs(uuid.New(), entity.RoleIDPharmacist)

	resp, err := uc.RestockDrug(ctx, 3, &dto.RestockRequest{Quantity: 20})
	require.NoError(t, err)
	assert.Equal(t, 30, resp.Stock)
	assert.Equal(t, []string{entity.AuditActionDrugRestock}, audit.actions)

	_, err = uc.RestockDrug(ctx, 99, &dto.RestockRequest{Quantity: 1})
	assert.ErrorIs(t, err, ErrDrugNotFound)
}
