package usecase

import (
	"context"
	"errors"

	"hospital-management/internal/converter"
	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/domain/entity"
	"hospital-management/internal/domain/repository"
	"hospital-management/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrConsultationNotFound = errors.New("consultation not found")
	ErrBookingAlreadySeen   = errors.New("booking has already been consulted")
	ErrWrongDepartment      = errors.New("booking belongs to another department")
)

type ConsultationUsecase interface {
	CreateConsultation(ctx context.Context, req *dto.CreateConsultationRequest) (*dto.ConsultationResponse, error)
	GetConsultation(ctx context.Context, id uuid.UUID) (*dto.ConsultationResponse, error)
}

type consultationUsecase struct {
	log              *logrus.Logger
	transactor       repository.Transactor
	consultationRepo repository.ConsultationRepository
	bookingRepo      repository.BookingRepository
	userRepo         repository.UserRepository
	auditService     service.AuditService
}

func NewConsultationUsecase(
	log *logrus.Logger,
	transactor repository.Transactor,
	consultationRepo repository.ConsultationRepository,
	bookingRepo repository.BookingRepository,
	userRepo repository.UserRepository,
	auditService service.AuditService,
) ConsultationUsecase {
	return &consultationUsecase{
		log:              log,
		transactor:       transactor,
		consultationRepo: consultationRepo,
		bookingRepo:      bookingRepo,
		userRepo:         userRepo,
		auditService:     auditService,
	}
}

// CreateConsultation records a doctor's visit for a paid booking and marks the
// booking as visited.
func (u *consultationUsecase) CreateConsultation(ctx context.Context, req *dto.CreateConsultationRequest) (*dto.ConsultationResponse, error) {
	user, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, ErrBookingNotFound
	}

	booking, err := u.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		u.log.Warnf("Failed to find booking %s: %+v", bookingID, err)
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	if !booking.IsPaid() {
		return nil, ErrPaymentRequired
	}
	if booking.HasVisited() {
		return nil, ErrBookingAlreadySeen
	}

	if user.Is(entity.RoleIDDoctor) {
		doctor, err := u.userRepo.FindByID(ctx, user.UserID)
		if err != nil {
			u.log.Warnf("Failed to find doctor %s: %+v", user.UserID, err)
			return nil, err
		}
		if doctor == nil || doctor.DepartmentID == nil || *doctor.DepartmentID != booking.DepartmentID {
			return nil, ErrWrongDepartment
		}
	}

	consultation := &entity.Consultation{
		ID:        uuid.New(),
		BookingID: bookingID,
		PatientID: booking.PatientID,
		DoctorID:  user.UserID,
		Complaint: req.Complaint,
		Diagnosis: req.Diagnosis,
		Notes:     req.Notes,
	}

	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		affected, err := u.bookingRepo.MarkVisited(ctx, bookingID, user.UserID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrBookingAlreadySeen
		}
		if err := u.consultationRepo.Create(ctx, consultation); err != nil {
			return err
		}
		return u.auditService.LogCreate(ctx, user.UserID, entity.AuditActionConsultationCreate, "consultation", consultation.ID.String(),
			map[string]interface{}{
				"booking_id": bookingID.String(),
				"patient_id": booking.PatientID.String(),
			})
	})
	if err != nil {
		if errors.Is(err, ErrBookingAlreadySeen) || isDuplicateKeyError(err, "booking_id") {
			return nil, ErrBookingAlreadySeen
		}
		u.log.Warnf("Failed to create consultation: %+v", err)
		return nil, err
	}

	consultation.Patient = booking.Patient
	return converter.ConsultationToResponse(consultation), nil
}

func (u *consultationUsecase) GetConsultation(ctx context.Context, id uuid.UUID) (*dto.ConsultationResponse, error) {
	consultation, err := u.consultationRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find consultation %s: %+v", id, err)
		return nil, err
	}
	if consultation == nil {
		return nil, ErrConsultationNotFound
	}
	return converter.ConsultationToResponse(consultation), nil
}
