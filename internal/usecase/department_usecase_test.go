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

type editableDepartmentRepo struct {
	*fakeDepartmentRepo
}

func (f *editableDepartmentRepo) Update(ctx context.Context, department *entity.Department) error {
	cp := *department
	f.departments[department.ID] = &cp
	return nil
}

func TestDepartmentUsecase_UpdateDepartment_ShiftsLoadedSlots(t *testing.T) {
	departments := &fakeDepartmentRepo{departments: map[int]*entity.Department{
		1: {ID: 1, Name: "General", ConsultationFee: decimal.NewFromInt(50000), DailyQuota: 10},
	}}
	slots, _, _ := newSlotService(t, newFakeBookingRepo(departments))
	uc := NewDepartmentUsecase(newTestLogger(), &fakeTransactor{}, &editableDepartmentRepo{departments}, &fakeAudit{}, slots)
	ctx := ctxAs(uuid.New(), entity.RoleIDAdmin)

	queue, err := slots.Reserve(ctx, 1, day(1))
	require.NoError(t, err)
	assert.Equal(t, 1, queue)

	_, err = uc.UpdateDepartment(ctx, 1, &dto.DepartmentRequest{Name: "General", ConsultationFee: json.Number("50000"), DailyQuota: 15})
	require.NoError(t, err)

	remaining, err := slots.Remaining(ctx, 1, day(1))
	require.NoError(t, err)
	assert.Equal(t, 14, remaining)

	// Shrinking below what is already booked reports no slots left
	_, err = uc.UpdateDepartment(ctx, 1, &dto.DepartmentRequest{Name: "General", ConsultationFee: json.Number("50000"), DailyQuota: 1})
	require.NoError(t, err)

	remaining, err = slots.Remaining(ctx, 1, day(1))
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	// Raising it again only frees what the one reservation leaves over
	_, err = uc.UpdateDepartment(ctx, 1, &dto.DepartmentRequest{Name: "General", ConsultationFee: json.Number("50000"), DailyQuota: 3})
	require.NoError(t, err)

	remaining, err = slots.Remaining(ctx, 1, day(1))
	require.NoError(t, err)
	assert.Equal(t, 2, remaining)
}

func TestDepartmentUsecase_GetAvailability(t *testing.T) {
	departments := &fakeDepartmentRepo{departments: map[int]*entity.Department{
		1: {ID: 1, Name: "General", DailyQuota: 5},
	}}
	slots, _, _ := newSlotService(t, newFakeBookingRepo(departments))
	uc := NewDepartmentUsecase(newTestLogger(), &fakeTransactor{}, departments, &fakeAudit{}, slots)
	ctx := context.Background()

	resp, err := uc.GetAvailability(ctx, 1, day(2).Format(entity.DateLayout))
	require.NoError(t, err)
	assert.Equal(t, 5, resp.DailyQuota)
	assert.Equal(t, 5, resp.Remaining)

	_, err = uc.GetAvailability(ctx, 1, day(-1).Format(entity.DateLayout))
	assert.ErrorIs(t, err, ErrAvailabilityDatePast)

	_, err = uc.GetAvailability(ctx, 1, "02/01/2026")
	assert.ErrorIs(t, err, ErrInvalidDateFormat)

	_, err = uc.GetAvailability(ctx, 9, "")
	assert.ErrorIs(t, err, ErrDepartmentNotFound)
}
