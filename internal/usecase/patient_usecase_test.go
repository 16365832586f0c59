package usecase

import (
	"context"
	"testing"

	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// registeringPatientRepo fails the first inserts with a card number collision
type registeringPatientRepo struct {
	fakePatientRepo
	collisions int
	cards      []string
}

func (f *registeringPatientRepo) Create(ctx context.Context, p *entity.Patient) error {
	f.cards = append(f.cards, p.CardNumber)
	if f.collisions > 0 {
		f.collisions--
		return pgError(pgUniqueViolation, "uq_patients_card_number")
	}
	p.ID = uuid.New()
	cp := *p
	f.patients[p.ID] = &cp
	return nil
}

func newPatientUsecase(repo *registeringPatientRepo) PatientUsecase {
	return NewPatientUsecase(newTestLogger(), &fakeTransactor{}, repo, nil, nil, nil, &fakeAudit{})
}

func patientRequest() *dto.PatientRequest {
	return &dto.PatientRequest{
		FullName:    "Jane Doe",
		Gender:      entity.GenderFemale,
		DateOfBirth: "1990-04-12",
	}
}

func TestRegisterPatient_RetriesCardNumberCollision(t *testing.T) {
	repo := &registeringPatientRepo{fakePatientRepo: fakePatientRepo{patients: map[uuid.UUID]*entity.Patient{}}, collisions: 2}
	uc := newPatientUsecase(repo)

	resp, err := uc.RegisterPatient(ctxAs(uuid.New(), entity.RoleIDReceptionist), patientRequest())
	require.NoError(t, err)

	assert.Len(t, repo.cards, 3)
	assert.Regexp(t, `^PT-\d{8}-[0-9A-F]{6}$`, resp.CardNumber)
	assert.Equal(t, "1990-04-12", resp.DateOfBirth)
}

func TestRegisterPatient_GivesUpAfterRepeatedCollisions(t *testing.T) {
	repo := &registeringPatientRepo{fakePatientRepo: fakePatientRepo{patients: map[uuid.UUID]*entity.Patient{}}, collisions: 10}
	uc := newPatientUsecase(repo)

	_, err := uc.RegisterPatient(ctxAs(uuid.New(), entity.RoleIDReceptionist), patientRequest())
	assert.ErrorIs(t, err, ErrCardNumberConflict)
	assert.Len(t, repo.cards, cardNumberAttempts)
}

func TestRegisterPatient_DateOfBirth(t *testing.T) {
	repo := &registeringPatientRepo{fakePatientRepo: fakePatientRepo{patients: map[uuid.UUID]*entity.Patient{}}}
	uc := newPatientUsecase(repo)
	ctx := ctxAs(uuid.New(), entity.RoleIDReceptionist)

	req := patientRequest()
	req.DateOfBirth = day(3).Format(entity.DateLayout)
	_, err := uc.RegisterPatient(ctx, req)
	assert.ErrorIs(t, err, ErrDateOfBirthFuture)

	req.DateOfBirth = "12-04-1990"
	_, err = uc.RegisterPatient(ctx, req)
	assert.ErrorIs(t, err, ErrInvalidDateFormat)
}

func TestDeletePatient_InUse(t *testing.T) {
	id := uuid.New()
	repo := &registeringPatientRepo{fakePatientRepo: fakePatientRepo{
		patients:  map[uuid.UUID]*entity.Patient{id: {ID: id}},
		deleteErr: pgError(pgForeignKeyViolation, "bookings_patient_id_fkey"),
	}}
	uc := newPatientUsecase(repo)

	err := uc.DeletePatient(ctxAs(uuid.New(), entity.RoleIDAdmin), id)
	assert.ErrorIs(t, err, ErrPatientInUse)

	err = uc.DeletePatient(ctxAs(uuid.New(), entity.RoleIDAdmin), uuid.New())
	assert.ErrorIs(t, err, ErrPatientNotFound)
}
