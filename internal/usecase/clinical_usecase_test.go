package usecase

import (
	"context"
	"testing"
	"time"

	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/domain/entity"
	"hospital-management/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConsultationRepo struct {
	repository.ConsultationRepository
	consultations map[uuid.UUID]*entity.Consultation
}

func (f *fakeConsultationRepo) Create(ctx context.Context, c *entity.Consultation) error {
	cp := *c
	f.consultations[c.ID] = &cp
	return nil
}

func (f *fakeConsultationRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Consultation, error) {
	c, ok := f.consultations[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

type fakeDrugRepo struct {
	repository.DrugRepository
	drugs map[int]*entity.Drug
}

func (f *fakeDrugRepo) FindByID(ctx context.Context, id int) (*entity.Drug, error) {
	d, ok := f.drugs[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (f *fakeDrugRepo) DecrementStock(ctx context.Context, id int, quantity int) (int64, error) {
	d, ok := f.drugs[id]
	if !ok || d.Stock < quantity {
		return 0, nil
	}
	d.Stock -= quantity
	return 1, nil
}

type fakePrescriptionRepo struct {
	repository.PrescriptionRepository
	prescriptions map[uuid.UUID]*entity.Prescription
}

func (f *fakePrescriptionRepo) Create(ctx context.Context, p *entity.Prescription) error {
	cp := *p
	f.prescriptions[p.ID] = &cp
	return nil
}

func (f *fakePrescriptionRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Prescription, error) {
	p, ok := f.prescriptions[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakePrescriptionRepo) MarkPaid(ctx context.Context, paymentID uuid.UUID) (int64, error) {
	for _, p := range f.prescriptions {
		if p.PaymentID != nil && *p.PaymentID == paymentID && !p.IsPaid() {
			p.Status = entity.PaymentStatusHasPaid
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakePrescriptionRepo) MarkDispensed(ctx context.Context, id uuid.UUID, by uuid.UUID, at time.Time) (int64, error) {
	p, ok := f.prescriptions[id]
	if !ok || !p.IsPaid() || p.IsDispensed() {
		return 0, nil
	}
	p.DispensedAt = &at
	p.DispensedBy = &by
	return 1, nil
}

type fakeLabTestRepo struct {
	repository.LabTestRepository
	labTests map[int]*entity.LabTest
}

func (f *fakeLabTestRepo) FindByID(ctx context.Context, id int) (*entity.LabTest, error) {
	l, ok := f.labTests[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

type fakeInvestigationRepo struct {
	repository.InvestigationRepository
	investigations map[uuid.UUID]*entity.Investigation
}

func (f *fakeInvestigationRepo) Create(ctx context.Context, i *entity.Investigation) error {
	cp := *i
	f.investigations[i.ID] = &cp
	return nil
}

func (f *fakeInvestigationRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Investigation, error) {
	i, ok := f.investigations[id]
	if !ok {
		return nil, nil
	}
	cp := *i
	return &cp, nil
}

func (f *fakeInvestigationRepo) MarkPaid(ctx context.Context, paymentID uuid.UUID) (int64, error) {
	for _, i := range f.investigations {
		if i.PaymentID != nil && *i.PaymentID == paymentID && !i.IsPaid() {
			i.Status = entity.PaymentStatusHasPaid
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeInvestigationRepo) RecordResult(ctx context.Context, id uuid.UUID, result string, by uuid.UUID, at time.Time) (int64, error) {
	i, ok := f.investigations[id]
	if !ok || !i.IsPaid() || i.HasResult() {
		return 0, nil
	}
	i.Result = result
	i.ResultAt = &at
	i.ResultBy = &by
	return 1, nil
}

// clinic wires every clinical workflow usecase over one set of in-memory repos
type clinic struct {
	doctorID       uuid.UUID
	accountantID   uuid.UUID
	pharmacistID   uuid.UUID
	patientID      uuid.UUID
	bookings       *fakeBookingRepo
	payments       *fakePaymentRepo
	consultations  *fakeConsultationRepo
	prescriptions  *fakePrescriptionRepo
	investigations *fakeInvestigationRepo
	drugs          *fakeDrugRepo
	audit          *fakeAudit
	notifier       *fakeNotifier
	consultation   ConsultationUsecase
	payment        PaymentUsecase
	prescription   PrescriptionUsecase
	investigation  InvestigationUsecase
}

func newClinic(t *testing.T) *clinic {
	t.Helper()
	department := 1
	c := &clinic{
		doctorID:     uuid.New(),
		accountantID: uuid.New(),
		pharmacistID: uuid.New(),
		patientID:    uuid.New(),
		audit:        &fakeAudit{},
		notifier:     &fakeNotifier{},
	}

	departments := &fakeDepartmentRepo{departments: map[int]*entity.Department{
		1: {ID: 1, Name: "General", DailyQuota: 10},
	}}
	users := &fakeUserRepo{users: map[uuid.UUID]*entity.User{
		c.doctorID: {ID: c.doctorID, RoleID: entity.RoleIDDoctor, DepartmentID: &department},
	}}
	c.bookings = newFakeBookingRepo(departments)
	c.payments = newFakePaymentRepo()
	c.consultations = &fakeConsultationRepo{consultations: map[uuid.UUID]*entity.Consultation{}}
	c.prescriptions = &fakePrescriptionRepo{prescriptions: map[uuid.UUID]*entity.Prescription{}}
	c.investigations = &fakeInvestigationRepo{investigations: map[uuid.UUID]*entity.Investigation{}}
	c.drugs = &fakeDrugRepo{drugs: map[int]*entity.Drug{
		7: {ID: 7, Name: "Amoxicillin", Unit: "capsule", Price: decimal.RequireFromString("2.50"), Stock: 12},
	}}
	labTests := &fakeLabTestRepo{labTests: map[int]*entity.LabTest{
		3: {ID: 3, Name: "Full blood count", Price: decimal.RequireFromString("40.00")},
	}}

	tx := &fakeTransactor{}
	log := newTestLogger()
	c.consultation = NewConsultationUsecase(log, tx, c.consultations, c.bookings, users, c.audit)
	c.payment = NewPaymentUsecase(log, tx, c.payments, c.bookings, c.prescriptions, c.investigations, c.audit, c.notifier)
	c.prescription = NewPrescriptionUsecase(log, tx, c.prescriptions, c.consultations, c.drugs, c.payments, c.audit, c.notifier)
	c.investigation = NewInvestigationUsecase(log, tx, c.investigations, c.consultations, labTests, c.payments, c.audit, c.notifier)
	return c
}

func (c *clinic) doctor() context.Context     { return ctxAs(c.doctorID, entity.RoleIDDoctor) }
func (c *clinic) accountant() context.Context { return ctxAs(c.accountantID, entity.RoleIDAccountant) }
func (c *clinic) pharmacist() context.Context { return ctxAs(c.pharmacistID, entity.RoleIDPharmacist) }

// book stores a booking with its consultation payment, as CreateBooking would
func (c *clinic) book(t *testing.T, departmentID int) *entity.Booking {
	t.Helper()
	paymentID := uuid.New()
	booking := &entity.Booking{
		ID:              uuid.New(),
		PatientID:       c.patientID,
		DepartmentID:    departmentID,
		AppointmentDate: day(0),
		QueueNumber:     1,
		Status:          entity.PaymentStatusNotPaid,
		Visited:         entity.VisitStatusNotVisited,
		PaymentID:       &paymentID,
	}
	require.NoError(t, c.bookings.Create(context.Background(), booking))
	require.NoError(t, c.payments.Create(context.Background(), &entity.Payment{
		ID:          paymentID,
		PatientID:   c.patientID,
		Purpose:     entity.PaymentPurposeConsultation,
		ReferenceID: booking.ID,
		Amount:      decimal.RequireFromString("100"),
		Status:      entity.PaymentStatusNotPaid,
	}))
	return booking
}

func (c *clinic) consult(t *testing.T) *dto.ConsultationResponse {
	t.Helper()
	booking := c.book(t, 1)
	_, err := c.payment.ConfirmPayment(c.accountant(), *booking.PaymentID)
	require.NoError(t, err)
	consultation, err := c.consultation.CreateConsultation(c.doctor(), &dto.CreateConsultationRequest{
		BookingID: booking.ID.String(),
		Complaint: "headache",
	})
	require.NoError(t, err)
	return consultation
}

func TestConfirmPayment_MarksBookingPaid(t *testing.T) {
	c := newClinic(t)
	booking := c.book(t, 1)

	resp, err := c.payment.ConfirmPayment(c.accountant(), *booking.PaymentID)
	require.NoError(t, err)

	assert.Equal(t, string(entity.PaymentStatusHasPaid), resp.Status)
	assert.Regexp(t, `^RC-\d{8}-[0-9A-F]{6}$`, resp.ReceiptNumber)
	require.NotNil(t, resp.ReceivedBy)
	assert.Equal(t, c.accountantID, *resp.ReceivedBy)
	assert.Equal(t, entity.PaymentStatusHasPaid, c.bookings.bookings[booking.ID].Status)
	assert.Contains(t, c.audit.actions, entity.AuditActionPaymentConfirm)

	_, err = c.payment.ConfirmPayment(c.accountant(), *booking.PaymentID)
	assert.ErrorIs(t, err, ErrPaymentAlreadyPaid)
}

func TestConfirmPayment_NotFound(t *testing.T) {
	c := newClinic(t)

	_, err := c.payment.ConfirmPayment(c.accountant(), uuid.New())
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestConfirmPayment_MissingReferenceRollsBack(t *testing.T) {
	c := newClinic(t)
	booking := c.book(t, 1)
	delete(c.bookings.bookings, booking.ID)

	_, err := c.payment.ConfirmPayment(c.accountant(), *booking.PaymentID)
	assert.ErrorIs(t, err, ErrPaymentReferenceNotFound)
}

func TestGetSummary(t *testing.T) {
	c := newClinic(t)

	resp, err := c.payment.GetSummary(c.accountant(), "2026-01-01", "2026-01-31")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-01", resp.From)
	assert.Equal(t, "2026-01-31", resp.To)
	assert.Equal(t, "2026-02-01", c.payments.summaryTo.Format(entity.DateLayout), "upper bound is exclusive")

	_, err = c.payment.GetSummary(c.accountant(), "2026-02-01", "2026-01-01")
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = c.payment.GetSummary(c.accountant(), "yesterday", "")
	assert.ErrorIs(t, err, ErrInvalidDateFormat)
}

func TestGetPayments_InvalidFilters(t *testing.T) {
	c := newClinic(t)

	_, err := c.payment.GetPayments(c.accountant(), &entity.PaymentFilter{Purpose: "parking"}, dto.PageQuery{})
	assert.ErrorIs(t, err, ErrInvalidPurposeFilter)

	_, err = c.payment.GetPayments(c.accountant(), &entity.PaymentFilter{Status: "Paid"}, dto.PageQuery{})
	assert.ErrorIs(t, err, ErrInvalidStatusFilter)
}

func TestCreateConsultation_RequiresPayment(t *testing.T) {
	c := newClinic(t)
	booking := c.book(t, 1)

	_, err := c.consultation.CreateConsultation(c.doctor(), &dto.CreateConsultationRequest{
		BookingID: booking.ID.String(),
		Complaint: "cough",
	})
	assert.ErrorIs(t, err, ErrPaymentRequired)
	assert.Empty(t, c.consultations.consultations)
}

func TestCreateConsultation_MarksVisitedOnce(t *testing.T) {
	c := newClinic(t)
	booking := c.book(t, 1)
	_, err := c.payment.ConfirmPayment(c.accountant(), *booking.PaymentID)
	require.NoError(t, err)

	req := &dto.CreateConsultationRequest{BookingID: booking.ID.String(), Complaint: "cough"}
	resp, err := c.consultation.CreateConsultation(c.doctor(), req)
	require.NoError(t, err)
	assert.Equal(t, c.doctorID, resp.DoctorID)
	assert.Equal(t, c.patientID, resp.PatientID)
	assert.Equal(t, entity.VisitStatusVisited, c.bookings.bookings[booking.ID].Visited)

	_, err = c.consultation.CreateConsultation(c.doctor(), req)
	assert.ErrorIs(t, err, ErrBookingAlreadySeen)
}

func TestCreateConsultation_OtherDepartment(t *testing.T) {
	c := newClinic(t)
	c.bookings.departments.departments[2] = &entity.Department{ID: 2, Name: "Dental", DailyQuota: 5}
	booking := c.book(t, 2)
	_, err := c.payment.ConfirmPayment(c.accountant(), *booking.PaymentID)
	require.NoError(t, err)

	_, err = c.consultation.CreateConsultation(c.doctor(), &dto.CreateConsultationRequest{
		BookingID: booking.ID.String(),
		Complaint: "toothache",
	})
	assert.ErrorIs(t, err, ErrWrongDepartment)

	_, err = c.consultation.CreateConsultation(ctxAs(uuid.New(), entity.RoleIDAdmin), &dto.CreateConsultationRequest{
		BookingID: booking.ID.String(),
		Complaint: "toothache",
	})
	assert.NoError(t, err, "admins are not bound to a department")
}

func TestPrescriptionWorkflow(t *testing.T) {
	c := newClinic(t)
	consultation := c.consult(t)

	prescription, err := c.prescription.CreatePrescription(c.doctor(), consultation.ID, &dto.CreatePrescriptionRequest{
		DrugID:   7,
		Quantity: 4,
		Dosage:   "1 capsule three times daily",
	})
	require.NoError(t, err)
	assert.True(t, prescription.Amount.Equal(decimal.RequireFromString("10.00")))
	assert.Equal(t, "Amoxicillin", prescription.DrugName)
	require.NotNil(t, prescription.PaymentID)

	payment := c.payments.payments[*prescription.PaymentID]
	assert.Equal(t, entity.PaymentPurposePrescription, payment.Purpose)
	assert.Equal(t, prescription.ID, payment.ReferenceID)

	_, err = c.prescription.DispensePrescription(c.pharmacist(), prescription.ID)
	assert.ErrorIs(t, err, ErrPaymentRequired)

	_, err = c.payment.ConfirmPayment(c.accountant(), *prescription.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, 1, c.notifier.toRole(entity.RoleIDPharmacist))

	dispensed, err := c.prescription.DispensePrescription(c.pharmacist(), prescription.ID)
	require.NoError(t, err)
	assert.True(t, dispensed.Dispensed)
	assert.Equal(t, 8, c.drugs.drugs[7].Stock)
	assert.Equal(t, 2, c.notifier.toRole(entity.RoleIDPharmacist), "stock fell to the low stock threshold or below")

	_, err = c.prescription.DispensePrescription(c.pharmacist(), prescription.ID)
	assert.ErrorIs(t, err, ErrAlreadyDispensed)
}

func TestDispensePrescription_InsufficientStock(t *testing.T) {
	c := newClinic(t)
	consultation := c.consult(t)

	prescription, err := c.prescription.CreatePrescription(c.doctor(), consultation.ID, &dto.CreatePrescriptionRequest{
		DrugID:   7,
		Quantity: 50,
		Dosage:   "as needed",
	})
	require.NoError(t, err)
	c.prescriptions.prescriptions[prescription.ID].Status = entity.PaymentStatusHasPaid

	_, err = c.prescription.DispensePrescription(c.pharmacist(), prescription.ID)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 12, c.drugs.drugs[7].Stock)
}

func TestCreatePrescription_OnlyConsultingDoctor(t *testing.T) {
	c := newClinic(t)
	consultation := c.consult(t)

	_, err := c.prescription.CreatePrescription(ctxAs(uuid.New(), entity.RoleIDDoctor), consultation.ID, &dto.CreatePrescriptionRequest{
		DrugID:   7,
		Quantity: 1,
		Dosage:   "once",
	})
	assert.ErrorIs(t, err, ErrNotConsultingDoctor)

	_, err = c.prescription.CreatePrescription(c.doctor(), consultation.ID, &dto.CreatePrescriptionRequest{
		DrugID:   99,
		Quantity: 1,
		Dosage:   "once",
	})
	assert.ErrorIs(t, err, ErrDrugNotFound)

	_, err = c.prescription.CreatePrescription(c.doctor(), uuid.New(), &dto.CreatePrescriptionRequest{
		DrugID:   7,
		Quantity: 1,
		Dosage:   "once",
	})
	assert.ErrorIs(t, err, ErrConsultationNotFound)
}

func TestInvestigationWorkflow(t *testing.T) {
	c := newClinic(t)
	consultation := c.consult(t)

	investigation, err := c.investigation.CreateInvestigation(c.doctor(), consultation.ID, &dto.CreateInvestigationRequest{LabTestID: 3})
	require.NoError(t, err)
	assert.True(t, investigation.Amount.Equal(decimal.RequireFromString("40")))
	assert.Equal(t, "Full blood count", investigation.LabTestName)

	_, err = c.investigation.RecordResult(c.doctor(), investigation.ID, &dto.RecordResultRequest{Result: "normal"})
	assert.ErrorIs(t, err, ErrPaymentRequired)

	_, err = c.payment.ConfirmPayment(c.accountant(), *investigation.PaymentID)
	require.NoError(t, err)

	_, err = c.investigation.RecordResult(c.doctor(), investigation.ID, &dto.RecordResultRequest{Result: "   "})
	assert.ErrorIs(t, err, ErrEmptyResult)

	resp, err := c.investigation.RecordResult(c.doctor(), investigation.ID, &dto.RecordResultRequest{Result: "Hb 13.5 g/dL"})
	require.NoError(t, err)
	assert.Equal(t, "Hb 13.5 g/dL", resp.Result)
	require.NotNil(t, resp.ResultAt)

	_, err = c.investigation.RecordResult(c.doctor(), investigation.ID, &dto.RecordResultRequest{Result: "again"})
	assert.ErrorIs(t, err, ErrResultAlreadyRecorded)
}

func TestCreateInvestigation_UnknownLabTest(t *testing.T) {
	c := newClinic(t)
	consultation := c.consult(t)

	_, err := c.investigation.CreateInvestigation(c.doctor(), consultation.ID, &dto.CreateInvestigationRequest{LabTestID: 42})
	assert.ErrorIs(t, err, ErrLabTestNotFound)
}

func TestDispensePrescription_LowStockAlertAtThreshold(t *testing.T) {
	c := newClinic(t)
	consultation := c.consult(t)

	// 12 on hand, dispensing 2 leaves exactly the threshold
	prescription, err := c.prescription.CreatePrescription(c.doctor(), consultation.ID, &dto.CreatePrescriptionRequest{
		DrugID:   7,
		Quantity: 12 - LowStockThreshold,
		Dosage:   "once",
	})
	require.NoError(t, err)
	c.prescriptions.prescriptions[prescription.ID].Status = entity.PaymentStatusHasPaid

	_, err = c.prescription.DispensePrescription(c.pharmacist(), prescription.ID)
	require.NoError(t, err)
	assert.Equal(t, LowStockThreshold, c.drugs.drugs[7].Stock)
	assert.Equal(t, 1, c.notifier.toRole(entity.RoleIDPharmacist))
}
