package usecase

import (
	"context"
	"errors"
	"time"

	"hospital-management/internal/converter"
	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/domain/entity"
	"hospital-management/internal/domain/repository"
	"hospital-management/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrPatientNotFound    = errors.New("patient not found")
	ErrPatientInUse       = errors.New("patient has bookings or payments")
	ErrDateOfBirthFuture  = errors.New("date of birth cannot be in the future")
	ErrCardNumberConflict = errors.New("could not allocate a unique card number")
)

// cardNumberAttempts bounds retries when a generated card number collides
const cardNumberAttempts = 3

type PatientUsecase interface {
	RegisterPatient(ctx context.Context, req *dto.PatientRequest) (*dto.PatientResponse, error)
	SearchPatients(ctx context.Context, search string, page dto.PageQuery) (*dto.PatientListResponse, error)
	GetPatient(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error)
	UpdatePatient(ctx context.Context, id uuid.UUID, req *dto.PatientRequest) (*dto.PatientResponse, error)
	DeletePatient(ctx context.Context, id uuid.UUID) error
	GetPatientBookings(ctx context.Context, id uuid.UUID, page dto.PageQuery) (*dto.BookingListResponse, error)
	GetPatientConsultations(ctx context.Context, id uuid.UUID) (*dto.ConsultationListResponse, error)
	GetPatientPayments(ctx context.Context, id uuid.UUID, page dto.PageQuery) (*dto.PaymentListResponse, error)
}

type patientUsecase struct {
	log              *logrus.Logger
	transactor       repository.Transactor
	patientRepo      repository.PatientRepository
	bookingRepo      repository.BookingRepository
	consultationRepo repository.ConsultationRepository
	paymentRepo      repository.PaymentRepository
	auditService     service.AuditService
}

func NewPatientUsecase(
	log *logrus.Logger,
	transactor repository.Transactor,
	patientRepo repository.PatientRepository,
	bookingRepo repository.BookingRepository,
	consultationRepo repository.ConsultationRepository,
	paymentRepo repository.PaymentRepository,
	auditService service.AuditService,
) PatientUsecase {
	return &patientUsecase{
		log:              log,
		transactor:       transactor,
		patientRepo:      patientRepo,
		bookingRepo:      bookingRepo,
		consultationRepo: consultationRepo,
		paymentRepo:      paymentRepo,
		auditService:     auditService,
	}
}

func (u *patientUsecase) RegisterPatient(ctx context.Context, req *dto.PatientRequest) (*dto.PatientResponse, error) {
	user, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	dob, err := parseDateOfBirth(req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	patient := &entity.Patient{
		FullName:     req.FullName,
		Gender:       req.Gender,
		DateOfBirth:  dob,
		PhoneNumber:  req.PhoneNumber,
		Address:      req.Address,
		NextOfKin:    req.NextOfKin,
		RegisteredBy: user.UserID,
	}

	for attempt := 0; attempt < cardNumberAttempts; attempt++ {
		patient.ID = uuid.Nil
		patient.CardNumber = generateCode("PT", time.Now())

		err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
			if err := u.patientRepo.Create(ctx, patient); err != nil {
				return err
			}
			return u.auditService.LogCreate(ctx, user.UserID, entity.AuditActionPatientRegister, "patient",
				patient.ID.String(), map[string]interface{}{"card_number": patient.CardNumber, "full_name": patient.FullName})
		})
		if err == nil {
			return converter.PatientToResponse(patient), nil
		}
		if !isDuplicateKeyError(err, "card_number") {
			u.log.Warnf("Failed to register patient: %+v", err)
			return nil, err
		}
	}

	u.log.Warnf("Failed to allocate card number after %d attempts", cardNumberAttempts)
	return nil, ErrCardNumberConflict
}

func (u *patientUsecase) SearchPatients(ctx context.Context, search string, page dto.PageQuery) (*dto.PatientListResponse, error) {
	page = page.Normalize()
	patients, total, err := u.patientRepo.Search(ctx, search, page.Limit, page.Offset())
	if err != nil {
		u.log.Warnf("Failed to search patients: %+v", err)
		return nil, err
	}

	return &dto.PatientListResponse{
		Patients: converter.PatientsToResponses(patients),
		Total:    total,
	}, nil
}

func (u *patientUsecase) GetPatient(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error) {
	patient, err := u.findPatient(ctx, id)
	if err != nil {
		return nil, err
	}
	return converter.PatientToResponse(patient), nil
}

func (u *patientUsecase) UpdatePatient(ctx context.Context, id uuid.UUID, req *dto.PatientRequest) (*dto.PatientResponse, error) {
	user, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	dob, err := parseDateOfBirth(req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	patient, err := u.findPatient(ctx, id)
	if err != nil {
		return nil, err
	}

	old := converter.PatientToResponse(patient)
	patient.FullName = req.FullName
	patient.Gender = req.Gender
	patient.DateOfBirth = dob
	patient.PhoneNumber = req.PhoneNumber
	patient.Address = req.Address
	patient.NextOfKin = req.NextOfKin

	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.patientRepo.Update(ctx, patient); err != nil {
			return err
		}
		return u.auditService.LogUpdate(ctx, user.UserID, entity.AuditActionPatientUpdate, "patient",
			id.String(), old, converter.PatientToResponse(patient))
	})
	if err != nil {
		u.log.Warnf("Failed to update patient %s: %+v", id, err)
		return nil, err
	}

	return converter.PatientToResponse(patient), nil
}

// DeletePatient removes a patient with no clinical or billing history.
func (u *patientUsecase) DeletePatient(ctx context.Context, id uuid.UUID) error {
	user, err := actorFromContext(ctx)
	if err != nil {
		return err
	}

	patient, err := u.findPatient(ctx, id)
	if err != nil {
		return err
	}

	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := u.patientRepo.Delete(ctx, id); err != nil {
			return err
		}
		return u.auditService.LogDelete(ctx, user.UserID, entity.AuditActionPatientDelete, "patient",
			id.String(), converter.PatientToResponse(patient))
	})
	if err != nil {
		if isForeignKeyError(err, "") {
			return ErrPatientInUse
		}
		u.log.Warnf("Failed to delete patient %s: %+v", id, err)
		return err
	}
	return nil
}

func (u *patientUsecase) GetPatientBookings(ctx context.Context, id uuid.UUID, page dto.PageQuery) (*dto.BookingListResponse, error) {
	if _, err := u.findPatient(ctx, id); err != nil {
		return nil, err
	}

	page = page.Normalize()
	bookings, total, err := u.bookingRepo.FindAll(ctx, &entity.BookingFilter{PatientID: &id}, page.Limit, page.Offset())
	if err != nil {
		u.log.Warnf("Failed to find bookings of patient %s: %+v", id, err)
		return nil, err
	}

	return &dto.BookingListResponse{
		Bookings: converter.BookingsToResponses(bookings),
		Total:    total,
	}, nil
}

func (u *patientUsecase) GetPatientConsultations(ctx context.Context, id uuid.UUID) (*dto.ConsultationListResponse, error) {
	if _, err := u.findPatient(ctx, id); err != nil {
		return nil, err
	}

	consultations, err := u.consultationRepo.FindByPatientID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find consultations of patient %s: %+v", id, err)
		return nil, err
	}

	return &dto.ConsultationListResponse{
		Consultations: converter.ConsultationsToResponses(consultations),
		Total:         len(consultations),
	}, nil
}

func (u *patientUsecase) GetPatientPayments(ctx context.Context, id uuid.UUID, page dto.PageQuery) (*dto.PaymentListResponse, error) {
	if _, err := u.findPatient(ctx, id); err != nil {
		return nil, err
	}

	page = page.Normalize()
	payments, total, err := u.paymentRepo.FindAll(ctx, &entity.PaymentFilter{PatientID: &id}, page.Limit, page.Offset())
	if err != nil {
		u.log.Warnf("Failed to find payments of patient %s: %+v", id, err)
		return nil, err
	}

	return &dto.PaymentListResponse{
		Payments: converter.PaymentsToResponses(payments),
		Total:    total,
	}, nil
}

func (u *patientUsecase) findPatient(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
	patient, err := u.patientRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", id, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}
	return patient, nil
}

func parseDateOfBirth(s string) (time.Time, error) {
	dob, err := parseDate(s)
	if err != nil {
		return time.Time{}, err
	}
	if dob.After(service.Today()) {
		return time.Time{}, ErrDateOfBirthFuture
	}
	return dob, nil
}
