package usecase

import (
	"context"
	"testing"
	"time"

	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/domain/entity"
	"hospital-management/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotificationRepo struct {
	repository.NotificationRepository
	unread    int64
	items     []entity.Notification
	markedID  int64
	markRows  int64
	unreadArg bool
}

func (f *fakeNotificationRepo) CountUnread(ctx context.Context, userID uuid.UUID, roleID int) (int64, error) {
	return f.unread, nil
}

func (f *fakeNotificationRepo) FindForRecipient(ctx context.Context, userID uuid.UUID, roleID int, unreadOnly bool, limit, offset int) ([]entity.Notification, int64, error) {
	f.unreadArg = unreadOnly
	return f.items, int64(len(f.items)), nil
}

func (f *fakeNotificationRepo) MarkRead(ctx context.Context, id int64, userID uuid.UUID, roleID int) (int64, error) {
	f.markedID = id
	return f.markRows, nil
}

func (f *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID, roleID int) (int64, error) {
	return f.unread, nil
}

type countingDeleteRequestRepo struct {
	repository.DeleteRequestRepository
	pending int64
}

func (f *countingDeleteRequestRepo) CountPending(ctx context.Context) (int64, error) {
	return f.pending, nil
}

type countingConsultationRepo struct {
	repository.ConsultationRepository
	since time.Time
}

func (f *countingConsultationRepo) CountByDoctorSince(ctx context.Context, doctorID uuid.UUID, since time.Time) (int64, error) {
	f.since = since
	return 3, nil
}

type countingInvestigationRepo struct {
	repository.InvestigationRepository
}

func (f *countingInvestigationRepo) Count(ctx context.Context, filter *entity.InvestigationFilter) (int64, error) {
	if filter.PendingResult && filter.Status == entity.PaymentStatusHasPaid {
		return 2, nil
	}
	return 0, nil
}

type dashboardFixture struct {
	usecase  DashboardUsecase
	patients *fakePatientRepo
	bookings *fakeBookingRepo
	consults *countingConsultationRepo
	doctorID uuid.UUID
}

func newDashboardFixture(t *testing.T) *dashboardFixture {
	t.Helper()
	department := 1
	doctorID := uuid.New()

	departments := &fakeDepartmentRepo{departments: map[int]*entity.Department{1: {ID: 1, DailyQuota: 10}}}
	users := &fakeUserRepo{users: map[uuid.UUID]*entity.User{
		doctorID: {ID: doctorID, RoleID: entity.RoleIDDoctor, DepartmentID: &department},
	}}
	patients := &fakePatientRepo{patients: map[uuid.UUID]*entity.Patient{uuid.New(): {}, uuid.New(): {}}}
	bookings := newFakeBookingRepo(departments)
	consults := &countingConsultationRepo{}
	_, _, client := newSlotService(t, bookings)

	uc := NewDashboardUsecase(newTestLogger(), client, users, patients, bookings, newFakePaymentRepo(),
		consults, nil, &countingInvestigationRepo{}, nil,
		&countingDeleteRequestRepo{pending: 4}, &fakeNotificationRepo{unread: 6})

	return &dashboardFixture{usecase: uc, patients: patients, bookings: bookings, consults: consults, doctorID: doctorID}
}

func TestGetDashboard_Admin(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := ctxAs(uuid.New(), entity.RoleIDAdmin)

	resp, err := f.usecase.GetDashboard(ctx)
	require.NoError(t, err)

	assert.Equal(t, entity.RoleAdmin, resp.Role)
	assert.Equal(t, day(0).Format(entity.DateLayout), resp.Date)
	assert.Equal(t, int64(2), resp.Counters["patients"])
	assert.Equal(t, int64(4), resp.Counters["pending_delete_requests"])
	assert.Equal(t, int64(6), resp.Counters["unread_notifications"])
	assert.Contains(t, resp.Counters, "bookings_today")
	assert.NotContains(t, resp.Counters, "low_stock_drugs")
}

func TestGetDashboard_ServedFromCache(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := ctxAs(uuid.New(), entity.RoleIDReceptionist)

	first, err := f.usecase.GetDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), first.Counters["patients"])

	f.patients.patients[uuid.New()] = &entity.Patient{}

	second, err := f.usecase.GetDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.Counters, second.Counters)
}

func TestGetDashboard_Doctor(t *testing.T) {
	f := newDashboardFixture(t)
	paid := &entity.Booking{
		ID:              uuid.New(),
		DepartmentID:    1,
		AppointmentDate: day(0),
		Status:          entity.PaymentStatusHasPaid,
		Visited:         entity.VisitStatusNotVisited,
	}
	require.NoError(t, f.bookings.Create(context.Background(), paid))

	resp, err := f.usecase.GetDashboard(ctxAs(f.doctorID, entity.RoleIDDoctor))
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.Counters["queue_today"])
	assert.Equal(t, int64(3), resp.Counters["consultations_today"])
	assert.Equal(t, int64(2), resp.Counters["pending_results"])
	assert.True(t, f.consults.since.Equal(day(0)))
}

func TestNotificationUsecase(t *testing.T) {
	repo := &fakeNotificationRepo{
		unread:   1,
		items:    []entity.Notification{{ID: 1, Title: "Consultation fee due"}},
		markRows: 1,
	}
	uc := NewNotificationUsecase(newTestLogger(), repo)
	ctx := ctxAs(uuid.New(), entity.RoleIDAccountant)

	list, err := uc.GetNotifications(ctx, true, dto.PageQuery{})
	require.NoError(t, err)
	assert.True(t, repo.unreadArg)
	assert.Equal(t, int64(1), list.Total)
	assert.Equal(t, int64(1), list.Unread)
	assert.Equal(t, "Consultation fee due", list.Notifications[0].Title)

	require.NoError(t, uc.MarkRead(ctx, 1))
	assert.Equal(t, int64(1), repo.markedID)

	repo.markRows = 0
	assert.ErrorIs(t, uc.MarkRead(ctx, 2), ErrNotificationNotFound)

	n, err := uc.MarkAllRead(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = uc.GetNotifications(context.Background(), false, dto.PageQuery{})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
