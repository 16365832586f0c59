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
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	ErrPrescriptionNotFound = errors.New("prescription not found")
	ErrAlreadyDispensed     = errors.New("prescription has already been dispensed")
	ErrInsufficientStock    = errors.New("insufficient drug stock")
	ErrNotConsultingDoctor  = errors.New("only the consulting doctor may add orders to this consultation")
)

type PrescriptionUsecase interface {
	CreatePrescription(ctx context.Context, consultationID uuid.UUID, req *dto.CreatePrescriptionRequest) (*dto.PrescriptionResponse, error)
	GetPrescriptions(ctx context.Context, filter *entity.PrescriptionFilter, page dto.PageQuery) (*dto.PrescriptionListResponse, error)
	GetPrescription(ctx context.Context, id uuid.UUID) (*dto.PrescriptionResponse, error)
	DispensePrescription(ctx context.Context, id uuid.UUID) (*dto.PrescriptionResponse, error)
}

type prescriptionUsecase struct {
	log                 *logrus.Logger
	transactor          repository.Transactor
	prescriptionRepo    repository.PrescriptionRepository
	consultationRepo    repository.ConsultationRepository
	drugRepo            repository.DrugRepository
	paymentRepo         repository.PaymentRepository
	auditService        service.AuditService
	notificationService service.NotificationService
}

func NewPrescriptionUsecase(
	log *logrus.Logger,
	transactor repository.Transactor,
	prescriptionRepo repository.PrescriptionRepository,
	consultationRepo repository.ConsultationRepository,
	drugRepo repository.DrugRepository,
	paymentRepo repository.PaymentRepository,
	auditService service.AuditService,
	notificationService service.NotificationService,
) PrescriptionUsecase {
	return &prescriptionUsecase{
		log:                 log,
		transactor:          transactor,
		prescriptionRepo:    prescriptionRepo,
		consultationRepo:    consultationRepo,
		drugRepo:            drugRepo,
		paymentRepo:         paymentRepo,
		auditService:        auditService,
		notificationService: notificationService,
	}
}

// CreatePrescription orders a drug for the patient of a consultation and raises
// the matching unpaid bill.
func (u *prescriptionUsecase) CreatePrescription(ctx context.Context, consultationID uuid.UUID, req *dto.CreatePrescriptionRequest) (*dto.PrescriptionResponse, error) {
	user, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	consultation, err := findConsultationFor(ctx, u.log, u.consultationRepo, consultationID, user)
	if err != nil {
		return nil, err
	}

	drug, err := u.drugRepo.FindByID(ctx, req.DrugID)
	if err != nil {
		u.log.Warnf("Failed to find drug %d: %+v", req.DrugID, err)
		return nil, err
	}
	if drug == nil {
		return nil, ErrDrugNotFound
	}

	prescription := &entity.Prescription{
		ID:             uuid.New(),
		ConsultationID: consultation.ID,
		PatientID:      consultation.PatientID,
		DoctorID:       user.UserID,
		DrugID:         drug.ID,
		Quantity:       req.Quantity,
		Dosage:         req.Dosage,
		Instructions:   req.Instructions,
		Amount:         drug.Price.Mul(decimal.NewFromInt(int64(req.Quantity))).Round(2),
		Status:         entity.PaymentStatusNotPaid,
	}
	payment := &entity.Payment{
		ID:          uuid.New(),
		PatientID:   consultation.PatientID,
		Purpose:     entity.PaymentPurposePrescription,
		ReferenceID: prescription.ID,
		Amount:      prescription.Amount,
		Status:      entity.PaymentStatusNotPaid,
	}
	prescription.PaymentID = &payment.ID

	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.paymentRepo.Create(ctx, payment); err != nil {
			return err
		}
		if err := u.prescriptionRepo.Create(ctx, prescription); err != nil {
			return err
		}
		if err := u.notificationService.NotifyRole(ctx, entity.RoleIDAccountant, "Prescription payment due",
			fmt.Sprintf("%d x %s prescribed, %s due", prescription.Quantity, drug.Name, prescription.Amount.StringFixed(2))); err != nil {
			return err
		}
		return u.auditService.LogCreate(ctx, user.UserID, entity.AuditActionPrescriptionCreate, "prescription", prescription.ID.String(),
			map[string]interface{}{
				"consultation_id": consultation.ID.String(),
				"drug_id":         drug.ID,
				"quantity":        prescription.Quantity,
				"amount":          prescription.Amount.StringFixed(2),
			})
	})
	if err != nil {
		u.log.Warnf("Failed to create prescription: %+v", err)
		return nil, err
	}

	prescription.Drug = *drug
	return converter.PrescriptionToResponse(prescription), nil
}

func (u *prescriptionUsecase) GetPrescriptions(ctx context.Context, filter *entity.PrescriptionFilter, page dto.PageQuery) (*dto.PrescriptionListResponse, error) {
	if filter != nil && filter.Status != "" && !filter.Status.IsValid() {
		return nil, ErrInvalidStatusFilter
	}

	page = page.Normalize()
	prescriptions, total, err := u.prescriptionRepo.FindAll(ctx, filter, page.Limit, page.Offset())
	if err != nil {
		u.log.Warnf("Failed to find prescriptions: %+v", err)
		return nil, err
	}

	return &dto.PrescriptionListResponse{
		Prescriptions: converter.PrescriptionsToResponses(prescriptions),
		Total:         total,
	}, nil
}

func (u *prescriptionUsecase) GetPrescription(ctx context.Context, id uuid.UUID) (*dto.PrescriptionResponse, error) {
	prescription, err := u.findPrescription(ctx, id)
	if err != nil {
		return nil, err
	}
	return converter.PrescriptionToResponse(prescription), nil
}

// DispensePrescription hands out a paid prescription and takes the quantity out
// of stock. Pharmacists are told when the drug runs low.
func (u *prescriptionUsecase) DispensePrescription(ctx context.Context, id uuid.UUID) (*dto.PrescriptionResponse, error) {
	user, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	prescription, err := u.findPrescription(ctx, id)
	if err != nil {
		return nil, err
	}
	if !prescription.IsPaid() {
		return nil, ErrPaymentRequired
	}
	if prescription.IsDispensed() {
		return nil, ErrAlreadyDispensed
	}

	now := time.Now()
	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		affected, err := u.prescriptionRepo.MarkDispensed(ctx, id, user.UserID, now)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrAlreadyDispensed
		}

		affected, err = u.drugRepo.DecrementStock(ctx, prescription.DrugID, prescription.Quantity)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrInsufficientStock
		}

		drug, err := u.drugRepo.FindByID(ctx, prescription.DrugID)
		if err != nil {
			return err
		}
		if drug != nil && drug.Stock <= LowStockThreshold {
			if err := u.notificationService.NotifyRole(ctx, entity.RoleIDPharmacist, "Low stock",
				fmt.Sprintf("%s is down to %d %s", drug.Name, drug.Stock, drug.Unit)); err != nil {
				return err
			}
		}

		return u.auditService.LogAction(ctx, user.UserID, entity.AuditActionPrescriptionDispense, entity.JSON{
			"prescription_id": id.String(),
			"drug_id":         prescription.DrugID,
			"quantity":        prescription.Quantity,
		})
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyDispensed) || errors.Is(err, ErrInsufficientStock) {
			return nil, err
		}
		u.log.Warnf("Failed to dispense prescription %s: %+v", id, err)
		return nil, err
	}

	prescription.DispensedAt = &now
	prescription.DispensedBy = &user.UserID
	return converter.PrescriptionToResponse(prescription), nil
}

func (u *prescriptionUsecase) findPrescription(ctx context.Context, id uuid.UUID) (*entity.Prescription, error) {
	prescription, err := u.prescriptionRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find prescription %s: %+v", id, err)
		return nil, err
	}
	if prescription == nil {
		return nil, ErrPrescriptionNotFound
	}
	return prescription, nil
}

// findConsultationFor loads a consultation the actor may add orders to
func findConsultationFor(ctx context.Context, log *logrus.Logger, repo repository.ConsultationRepository, id uuid.UUID, user actor) (*entity.Consultation, error) {
	consultation, err := repo.FindByID(ctx, id)
	if err != nil {
		log.Warnf("Failed to find consultation %s: %+v", id, err)
		return nil, err
	}
	if consultation == nil {
		return nil, ErrConsultationNotFound
	}
	if user.Is(entity.RoleIDDoctor) && consultation.DoctorID != user.UserID {
		return nil, ErrNotConsultingDoctor
	}
	return consultation, nil
}
