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

type fakeDeleteRequestRepo struct {
	repository.DeleteRequestRepository
	requests map[int64]*entity.DeleteRequest
	nextID   int64
}

func (f *fakeDeleteRequestRepo) Create(ctx context.Context, r *entity.DeleteRequest) error {
	f.nextID++
	r.ID = f.nextID
	cp := *r
	f.requests[r.ID] = &cp
	return nil
}

func (f *fakeDeleteRequestRepo) FindByID(ctx context.Context, id int64) (*entity.DeleteRequest, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f *fakeDeleteRequestRepo) Review(ctx context.Context, id int64, status entity.DeleteRequestStatus, by uuid.UUID, at time.Time) (int64, error) {
	r, ok := f.requests[id]
	if !ok || !r.IsPending() {
		return 0, nil
	}
	r.Status = status
	r.ReviewedBy = &by
	r.ReviewedAt = &at
	return 1, nil
}

// stubDeleter stands in for the usecases that own each target table
type stubDeleter struct {
	PatientUsecase
	BookingUsecase
	DrugUsecase
	LabTestUsecase
	DepartmentUsecase
	err     error
	deleted []string
}

func (s *stubDeleter) DeletePatient(ctx context.Context, id uuid.UUID) error {
	return s.record("patient:" + id.String())
}

func (s *stubDeleter) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	return s.record("booking:" + id.String())
}

func (s *stubDeleter) DeleteDrug(ctx context.Context, id int) error { return s.record("drug") }

func (s *stubDeleter) DeleteLabTest(ctx context.Context, id int) error { return s.record("lab_test") }

func (s *stubDeleter) DeleteDepartment(ctx context.Context, id int) error {
	return s.record("department")
}

func (s *stubDeleter) record(target string) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, target)
	return nil
}

type deleteRequestFixture struct {
	usecase  DeleteRequestUsecase
	repo     *fakeDeleteRequestRepo
	deleter  *stubDeleter
	notifier *fakeNotifier
	staffID  uuid.UUID
	adminID  uuid.UUID
}

func newDeleteRequestFixture() *deleteRequestFixture {
	f := &deleteRequestFixture{
		repo:     &fakeDeleteRequestRepo{requests: map[int64]*entity.DeleteRequest{}},
		deleter:  &stubDeleter{},
		notifier: &fakeNotifier{},
		staffID:  uuid.New(),
		adminID:  uuid.New(),
	}
	d := f.deleter
	f.usecase = NewDeleteRequestUsecase(newTestLogger(), &fakeTransactor{}, f.repo, &fakeAudit{}, f.notifier, d, d, d, d, d)
	return f
}

func (f *deleteRequestFixture) staff() context.Context {
	return ctxAs(f.staffID, entity.RoleIDReceptionist)
}
func (f *deleteRequestFixture) admin() context.Context { return ctxAs(f.adminID, entity.RoleIDAdmin) }

func (f *deleteRequestFixture) create(t *testing.T, entityType, entityID string) *dto.DeleteRequestResponse {
	t.Helper()
	resp, err := f.usecase.CreateRequest(f.staff(), &dto.CreateDeleteRequestRequest{
		EntityType: entityType,
		EntityID:   entityID,
		Reason:     "registered twice",
	})
	require.NoError(t, err)
	return resp
}

func TestCreateDeleteRequest_NotifiesAdmins(t *testing.T) {
	f := newDeleteRequestFixture()

	resp := f.create(t, entity.DeleteTargetPatient, uuid.NewString())
	assert.Equal(t, string(entity.DeleteRequestPending), resp.Status)
	assert.Equal(t, f.staffID, resp.RequestedBy)
	assert.Equal(t, 1, f.notifier.toRole(entity.RoleIDAdmin))
}

func TestCreateDeleteRequest_ValidatesEntityID(t *testing.T) {
	f := newDeleteRequestFixture()

	tests := []struct {
		entityType string
		entityID   string
		want       error
	}{
		{entity.DeleteTargetPatient, "42", ErrInvalidEntityID},
		{entity.DeleteTargetBooking, "not-a-uuid", ErrInvalidEntityID},
		{entity.DeleteTargetDrug, uuid.NewString(), ErrInvalidEntityID},
		{entity.DeleteTargetDepartment, "0", ErrInvalidEntityID},
		{"invoice", "1", ErrInvalidEntityType},
	}
	for _, tt := range tests {
		_, err := f.usecase.CreateRequest(f.staff(), &dto.CreateDeleteRequestRequest{
			EntityType: tt.entityType,
			EntityID:   tt.entityID,
			Reason:     "mistake",
		})
		assert.ErrorIs(t, err, tt.want, "%s %s", tt.entityType, tt.entityID)
	}
}

func TestApproveDeleteRequest_DeletesTarget(t *testing.T) {
	f := newDeleteRequestFixture()
	patientID := uuid.NewString()
	req := f.create(t, entity.DeleteTargetPatient, patientID)

	resp, err := f.usecase.ApproveRequest(f.admin(), req.ID)
	require.NoError(t, err)

	assert.Equal(t, string(entity.DeleteRequestApproved), resp.Status)
	require.NotNil(t, resp.ReviewedBy)
	assert.Equal(t, f.adminID, *resp.ReviewedBy)
	assert.Equal(t, []string{"patient:" + patientID}, f.deleter.deleted)

	var toRequester int
	for _, n := range f.notifier.sent {
		if n.userID == f.staffID {
			toRequester++
		}
	}
	assert.Equal(t, 1, toRequester)

	_, err = f.usecase.ApproveRequest(f.admin(), req.ID)
	assert.ErrorIs(t, err, ErrDeleteRequestNotPending)
}

func TestApproveDeleteRequest_TargetAlreadyGone(t *testing.T) {
	f := newDeleteRequestFixture()
	req := f.create(t, entity.DeleteTargetDrug, "5")
	f.deleter.err = ErrDrugNotFound

	resp, err := f.usecase.ApproveRequest(f.admin(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.DeleteRequestApproved), resp.Status)
}

func TestApproveDeleteRequest_TargetInUse(t *testing.T) {
	f := newDeleteRequestFixture()
	req := f.create(t, entity.DeleteTargetDepartment, "2")
	f.deleter.err = ErrDepartmentInUse

	_, err := f.usecase.ApproveRequest(f.admin(), req.ID)
	assert.ErrorIs(t, err, ErrDepartmentInUse)
}

func TestRejectDeleteRequest(t *testing.T) {
	f := newDeleteRequestFixture()
	req := f.create(t, entity.DeleteTargetBooking, uuid.NewString())

	resp, err := f.usecase.RejectRequest(f.admin(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.DeleteRequestRejected), resp.Status)
	assert.Empty(t, f.deleter.deleted)

	_, err = f.usecase.RejectRequest(f.admin(), 999)
	assert.ErrorIs(t, err, ErrDeleteRequestNotFound)
}

func TestGetDeleteRequests_InvalidStatus(t *testing.T) {
	f := newDeleteRequestFixture()

	_, err := f.usecase.GetRequests(f.admin(), "done", dto.PageQuery{})
	assert.ErrorIs(t, err, ErrInvalidStatusFilter)
}
