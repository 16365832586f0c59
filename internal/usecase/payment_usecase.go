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
	ErrPaymentNotFound          = errors.New("payment not found")
	ErrPaymentAlreadyPaid       = errors.New("payment has already been confirmed")
	ErrPaymentReferenceNotFound = errors.New("record settled by this payment no longer exists")
	ErrInvalidPurposeFilter     = errors.New("invalid purpose filter")
	ErrInvalidDateRange         = errors.New("from must not be after to")
)

type PaymentUsecase interface {
	GetPayments(ctx context.Context, filter *entity.PaymentFilter, page dto.PageQuery) (*dto.PaymentListResponse, error)
	GetPayment(ctx context.Context, id uuid.UUID) (*dto.PaymentResponse, error)
	ConfirmPayment(ctx context.Context, id uuid.UUID) (*dto.PaymentResponse, error)
	GetSummary(ctx context.Context, from, to string) (*dto.PaymentSummaryResponse, error)
}

type paymentUsecase struct {
	log                 *logrus.Logger
	transactor          repository.Transactor
	paymentRepo         repository.PaymentRepository
	bookingRepo         repository.BookingRepository
	prescriptionRepo    repository.PrescriptionRepository
	investigationRepo   repository.InvestigationRepository
	auditService        service.AuditService
	notificationService service.NotificationService
}

func NewPaymentUsecase(
	log *logrus.Logger,
	transactor repository.Transactor,
	paymentRepo repository.PaymentRepository,
	bookingRepo repository.BookingRepository,
	prescriptionRepo repository.PrescriptionRepository,
	investigationRepo repository.InvestigationRepository,
	auditService service.AuditService,
	notificationService service.NotificationService,
) PaymentUsecase {
	return &paymentUsecase{
		log:                 log,
		transactor:          transactor,
		paymentRepo:         paymentRepo,
		bookingRepo:         bookingRepo,
		prescriptionRepo:    prescriptionRepo,
		investigationRepo:   investigationRepo,
		auditService:        auditService,
		notificationService: notificationService,
	}
}

func (u *paymentUsecase) GetPayments(ctx context.Context, filter *entity.PaymentFilter, page dto.PageQuery) (*dto.PaymentListResponse, error) {
	if filter != nil {
		if filter.Status != "" && !filter.Status.IsValid() {
			return nil, ErrInvalidStatusFilter
		}
		if filter.Purpose != "" && !filter.Purpose.IsValid() {
			return nil, ErrInvalidPurposeFilter
		}
		if filter.Date != "" {
			if _, err := parseDate(filter.Date); err != nil {
				return nil, err
			}
		}
	}

	page = page.Normalize()
	payments, total, err := u.paymentRepo.FindAll(ctx, filter, page.Limit, page.Offset())
	if err != nil {
		u.log.Warnf("Failed to find payments: %+v", err)
		return nil, err
	}

	return &dto.PaymentListResponse{
		Payments: converter.PaymentsToResponses(payments),
		Total:    total,
	}, nil
}

func (u *paymentUsecase) GetPayment(ctx context.Context, id uuid.UUID) (*dto.PaymentResponse, error) {
	payment, err := u.findPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	return converter.PaymentToResponse(payment), nil
}

// ConfirmPayment records the money as received and flips the settled booking,
// prescription or investigation to Has Paid in the same transaction.
func (u *paymentUsecase) ConfirmPayment(ctx context.Context, id uuid.UUID) (*dto.PaymentResponse, error) {
	user, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	payment, err := u.findPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment.IsPaid() {
		return nil, ErrPaymentAlreadyPaid
	}

	now := time.Now()
	receipt := generateCode("RC", now)

	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		affected, err := u.paymentRepo.MarkPaid(ctx, id, user.UserID, receipt, now)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrPaymentAlreadyPaid
		}

		if err := u.settleReference(ctx, payment); err != nil {
			return err
		}

		return u.auditService.LogAction(ctx, user.UserID, entity.AuditActionPaymentConfirm, entity.JSON{
			"payment_id":     id.String(),
			"purpose":        string(payment.Purpose),
			"reference_id":   payment.ReferenceID.String(),
			"amount":         payment.Amount.StringFixed(2),
			"receipt_number": receipt,
		})
	})
	if err != nil {
		if errors.Is(err, ErrPaymentAlreadyPaid) || errors.Is(err, ErrPaymentReferenceNotFound) {
			return nil, err
		}
		u.log.Warnf("Failed to confirm payment %s: %+v", id, err)
		return nil, err
	}

	payment.Status = entity.PaymentStatusHasPaid
	payment.ReceiptNumber = &receipt
	payment.ReceivedBy = &user.UserID
	payment.PaidAt = &now

	u.log.WithFields(logrus.Fields{
		"payment_id": id,
		"purpose":    payment.Purpose,
		"receipt":    receipt,
	}).Info("Payment confirmed")

	return converter.PaymentToResponse(payment), nil
}

func (u *paymentUsecase) settleReference(ctx context.Context, payment *entity.Payment) error {
	var (
		affected int64
		err      error
	)

	switch payment.Purpose {
	case entity.PaymentPurposeConsultation:
		affected, err = u.bookingRepo.MarkPaid(ctx, payment.ID)
	case entity.PaymentPurposePrescription:
		affected, err = u.prescriptionRepo.MarkPaid(ctx, payment.ID)
		if err == nil && affected > 0 {
			err = u.notificationService.NotifyRole(ctx, entity.RoleIDPharmacist, "Prescription ready to dispense",
				fmt.Sprintf("Prescription %s has been paid for", payment.ReferenceID))
		}
	case entity.PaymentPurposeInvestigation:
		affected, err = u.investigationRepo.MarkPaid(ctx, payment.ID)
		if err == nil && affected > 0 {
			err = u.notificationService.NotifyRole(ctx, entity.RoleIDDoctor, "Investigation paid",
				fmt.Sprintf("Investigation %s has been paid for and awaits a result", payment.ReferenceID))
		}
	default:
		return fmt.Errorf("unknown payment purpose %q", payment.Purpose)
	}
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPaymentReferenceNotFound
	}
	return nil
}

// GetSummary totals payments raised between from and to inclusive. Both default to today.
func (u *paymentUsecase) GetSummary(ctx context.Context, from, to string) (*dto.PaymentSummaryResponse, error) {
	today := service.Today()

	start, end := today, today
	var err error
	if from != "" {
		if start, err = parseDate(from); err != nil {
			return nil, err
		}
	}
	if to != "" {
		if end, err = parseDate(to); err != nil {
			return nil, err
		}
	}
	if start.After(end) {
		return nil, ErrInvalidDateRange
	}

	summary, err := u.paymentRepo.Summarize(ctx, start, end.AddDate(0, 0, 1))
	if err != nil {
		u.log.Warnf("Failed to summarize payments: %+v", err)
		return nil, err
	}

	return converter.PaymentSummaryToResponse(summary, start.Format(entity.DateLayout), end.Format(entity.DateLayout)), nil
}

func (u *paymentUsecase) findPayment(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	payment, err := u.paymentRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find payment %s: %+v", id, err)
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	return payment, nil
}
