package usecase

import (
	"context"
	"errors"
	"fmt"
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
	ErrBookingNotFound       = errors.New("booking not found")
	ErrBookingDatePast       = errors.New("cannot book a past date")
	ErrAlreadyBooked         = errors.New("patient already has a booking in this department on this date")
	ErrBookingNotCancellable = errors.New("booking has been paid for or visited")
	ErrBookingInUse          = errors.New("booking has a consultation")
	ErrInvalidStatusFilter   = errors.New("invalid status filter")
	ErrNoDepartmentAssigned  = errors.New("doctor is not assigned to a department")
)

// compensateTimeout bounds Redis compensation after the request context may be gone
const compensateTimeout = 5 * time.Second

type BookingUsecase interface {
	CreateBooking(ctx context.Context, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)
	GetBookings(ctx context.Context, filter *entity.BookingFilter, page dto.PageQuery) (*dto.BookingListResponse, error)
	GetBooking(ctx context.Context, id uuid.UUID) (*dto.BookingResponse, error)
	CancelBooking(ctx context.Context, id uuid.UUID) error
	DeleteBooking(ctx context.Context, id uuid.UUID) error
	GetDoctorQueue(ctx context.Context, date string, departmentID int) (*dto.BookingListResponse, error)
}

type bookingUsecase struct {
	log                 *logrus.Logger
	transactor          repository.Transactor
	bookingRepo         repository.BookingRepository
	patientRepo         repository.PatientRepository
	departmentRepo      repository.DepartmentRepository
	paymentRepo         repository.PaymentRepository
	userRepo            repository.UserRepository
	slotService         *service.SlotService
	auditService        service.AuditService
	notificationService service.NotificationService
}

func NewBookingUsecase(
	log *logrus.Logger,
	transactor repository.Transactor,
	bookingRepo repository.BookingRepository,
	patientRepo repository.PatientRepository,
	departmentRepo repository.DepartmentRepository,
	paymentRepo repository.PaymentRepository,
	userRepo repository.UserRepository,
	slotService *service.SlotService,
	auditService service.AuditService,
	notificationService service.NotificationService,
) BookingUsecase {
	return &bookingUsecase{
		log:                 log,
		transactor:          transactor,
		bookingRepo:         bookingRepo,
		patientRepo:         patientRepo,
		departmentRepo:      departmentRepo,
		paymentRepo:         paymentRepo,
		userRepo:            userRepo,
		slotService:         slotService,
		auditService:        auditService,
		notificationService: notificationService,
	}
}

// CreateBooking books a patient into a department's day.
//
// Flow:
// 1. Validate patient, department and date
// 2. Reject a second booking of the same patient, department and day
// 3. Reserve a slot and queue number in Redis
// 4. Insert the consultation payment and the booking in one transaction
// 5. If the transaction fails, give the slot back
func (u *bookingUsecase) CreateBooking(ctx context.Context, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	user, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, ErrPatientNotFound
	}

	date, err := parseDate(req.AppointmentDate)
	if err != nil {
		return nil, err
	}
	if date.Before(service.Today()) {
		return nil, ErrBookingDatePast
	}

	patient, err := u.patientRepo.FindByID(ctx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", patientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	department, err := u.departmentRepo.FindByID(ctx, req.DepartmentID)
	if err != nil {
		u.log.Warnf("Failed to find department %d: %+v", req.DepartmentID, err)
		return nil, err
	}
	if department == nil {
		return nil, ErrDepartmentNotFound
	}

	existing, err := u.bookingRepo.FindByPatientDepartmentDate(ctx, patientID, department.ID, date)
	if err != nil {
		u.log.Warnf("Failed to check existing booking: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyBooked
	}

	queueNumber, err := u.slotService.Reserve(ctx, department.ID, date)
	if err != nil {
		if errors.Is(err, service.ErrQuotaFull) {
			return nil, service.ErrQuotaFull
		}
		if errors.Is(err, service.ErrDepartmentNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, err
	}

	booking := &entity.Booking{
		ID:              uuid.New(),
		PatientID:       patientID,
		DepartmentID:    department.ID,
		AppointmentDate: date,
		QueueNumber:     queueNumber,
		BookingCode:     generateCode("BK", date),
		Status:          entity.PaymentStatusNotPaid,
		Visited:         entity.VisitStatusNotVisited,
		BookedBy:        user.UserID,
	}
	payment := &entity.Payment{
		ID:          uuid.New(),
		PatientID:   patientID,
		Purpose:     entity.PaymentPurposeConsultation,
		ReferenceID: booking.ID,
		Amount:      department.ConsultationFee,
		Status:      entity.PaymentStatusNotPaid,
	}
	booking.PaymentID = &payment.ID

	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.paymentRepo.Create(ctx, payment); err != nil {
			return err
		}
		if err := u.bookingRepo.Create(ctx, booking); err != nil {
			return err
		}
		if err := u.notificationService.NotifyRole(ctx, entity.RoleIDAccountant, "Consultation fee due",
			fmt.Sprintf("%s (%s) owes %s for %s on %s", patient.FullName, patient.CardNumber,
				payment.Amount.StringFixed(2), department.Name, date.Format(entity.DateLayout))); err != nil {
			return err
		}
		return u.auditService.LogCreate(ctx, user.UserID, entity.AuditActionBookingCreate, "booking", booking.ID.String(),
			map[string]interface{}{
				"booking_code":     booking.BookingCode,
				"patient_id":       patientID.String(),
				"department_id":    department.ID,
				"appointment_date": date.Format(entity.DateLayout),
				"queue_number":     queueNumber,
			})
	})
	if err != nil {
		u.log.Errorf("Failed to insert booking, compensating slot: %+v", err)

		restoreCtx, cancel := context.WithTimeout(context.Background(), compensateTimeout)
		defer cancel()
		if restoreErr := u.slotService.Restore(restoreCtx, department.ID, date); restoreErr != nil {
			u.log.Errorf("Failed to restore slot after DB failure for department %d: %+v", department.ID, restoreErr)
		}

		if isDuplicateKeyError(err, "patient_department_date") {
			return nil, ErrAlreadyBooked
		}
		return nil, err
	}

	booking.Patient = *patient
	booking.Department = *department
	return converter.BookingToResponse(booking), nil
}

func (u *bookingUsecase) GetBookings(ctx context.Context, filter *entity.BookingFilter, page dto.PageQuery) (*dto.BookingListResponse, error) {
	if err := validateBookingFilter(filter); err != nil {
		return nil, err
	}

	page = page.Normalize()
	bookings, total, err := u.bookingRepo.FindAll(ctx, filter, page.Limit, page.Offset())
	if err != nil {
		u.log.Warnf("Failed to find bookings: %+v", err)
		return nil, err
	}

	return &dto.BookingListResponse{
		Bookings: converter.BookingsToResponses(bookings),
		Total:    total,
	}, nil
}

func (u *bookingUsecase) GetBooking(ctx context.Context, id uuid.UUID) (*dto.BookingResponse, error) {
	booking, err := u.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	return converter.BookingToResponse(booking), nil
}

// CancelBooking withdraws an unpaid, unvisited booking together with its bill.
// The slot goes back to the day's quota; the queue number is not reused.
func (u *bookingUsecase) CancelBooking(ctx context.Context, id uuid.UUID) error {
	user, err := actorFromContext(ctx)
	if err != nil {
		return err
	}

	booking, err := u.findBooking(ctx, id)
	if err != nil {
		return err
	}
	if !booking.Cancellable() {
		return ErrBookingNotCancellable
	}

	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		affected, err := u.bookingRepo.DeleteCancellable(ctx, id)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrBookingNotCancellable
		}
		if booking.PaymentID != nil {
			affected, err := u.paymentRepo.DeleteUnpaid(ctx, *booking.PaymentID)
			if err != nil {
				return err
			}
			if affected == 0 {
				return ErrBookingNotCancellable
			}
		}
		return u.auditService.LogDelete(ctx, user.UserID, entity.AuditActionBookingCancel, "booking", id.String(),
			converter.BookingToResponse(booking))
	})
	if err != nil {
		if errors.Is(err, ErrBookingNotCancellable) {
			return err
		}
		u.log.Warnf("Failed to cancel booking %s: %+v", id, err)
		return err
	}

	u.restoreSlot(ctx, booking)

	u.log.Infof("Booking cancelled: id=%s, department=%d", id, booking.DepartmentID)
	return nil
}

// DeleteBooking removes a booking on admin approval whatever its status. A paid
// bill is kept for the accounts; an unpaid one goes with the booking.
func (u *bookingUsecase) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	user, err := actorFromContext(ctx)
	if err != nil {
		return err
	}

	booking, err := u.findBooking(ctx, id)
	if err != nil {
		return err
	}

	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := u.bookingRepo.Delete(ctx, id); err != nil {
			return err
		}
		if booking.PaymentID != nil {
			if _, err := u.paymentRepo.DeleteUnpaid(ctx, *booking.PaymentID); err != nil {
				return err
			}
		}
		return u.auditService.LogDelete(ctx, user.UserID, entity.AuditActionBookingDelete, "booking", id.String(),
			converter.BookingToResponse(booking))
	})
	if err != nil {
		if isForeignKeyError(err, "") {
			return ErrBookingInUse
		}
		u.log.Warnf("Failed to delete booking %s: %+v", id, err)
		return err
	}

	if !booking.AppointmentDate.Before(service.Today()) {
		u.restoreSlot(ctx, booking)
	}
	return nil
}

// GetDoctorQueue lists the paid, not yet seen bookings of a day in queue order.
// Doctors see their own department; admins pick one or see all.
func (u *bookingUsecase) GetDoctorQueue(ctx context.Context, date string, departmentID int) (*dto.BookingListResponse, error) {
	user, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	day := service.Today()
	if date != "" {
		if day, err = parseDate(date); err != nil {
			return nil, err
		}
	}

	if user.Is(entity.RoleIDDoctor) {
		doctor, err := u.userRepo.FindByID(ctx, user.UserID)
		if err != nil {
			u.log.Warnf("Failed to find doctor %s: %+v", user.UserID, err)
			return nil, err
		}
		if doctor == nil || doctor.DepartmentID == nil {
			return nil, ErrNoDepartmentAssigned
		}
		departmentID = *doctor.DepartmentID
	}

	filter := &entity.BookingFilter{
		Date:         day.Format(entity.DateLayout),
		DepartmentID: departmentID,
		Status:       entity.PaymentStatusHasPaid,
		Visited:      entity.VisitStatusNotVisited,
	}

	bookings, total, err := u.bookingRepo.FindAll(ctx, filter, 0, 0)
	if err != nil {
		u.log.Warnf("Failed to find queue: %+v", err)
		return nil, err
	}

	return &dto.BookingListResponse{
		Bookings: converter.BookingsToResponses(bookings),
		Total:    total,
	}, nil
}

func (u *bookingUsecase) findBooking(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	booking, err := u.bookingRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find booking %s: %+v", id, err)
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	return booking, nil
}

func (u *bookingUsecase) restoreSlot(ctx context.Context, booking *entity.Booking) {
	restoreCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensateTimeout)
	defer cancel()
	if err := u.slotService.Restore(restoreCtx, booking.DepartmentID, booking.AppointmentDate); err != nil {
		// Counters are rebuilt from the database on next startup
		u.log.Warnf("Failed to restore slot for department %d (non-fatal): %+v", booking.DepartmentID, err)
	}
}

func validateBookingFilter(filter *entity.BookingFilter) error {
	if filter == nil {
		return nil
	}
	if filter.Date != "" {
		if _, err := parseDate(filter.Date); err != nil {
			return err
		}
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return ErrInvalidStatusFilter
	}
	if filter.Visited != "" && !filter.Visited.IsValid() {
		return ErrInvalidStatusFilter
	}
	return nil
}
