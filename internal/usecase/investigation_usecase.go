package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
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
	ErrInvestigationNotFound = errors.New("investigation not found")
	ErrResultAlreadyRecorded = errors.New("investigation result has already been recorded")
	ErrEmptyResult           = errors.New("result must not be empty")
)

type InvestigationUsecase interface {
	CreateInvestigation(ctx context.Context, consultationID uuid.UUID, req *dto.CreateInvestigationRequest) (*dto.InvestigationResponse, error)
	GetInvestigations(ctx context.Context, filter *entity.InvestigationFilter, page dto.PageQuery) (*dto.InvestigationListResponse, error)
	GetInvestigation(ctx context.Context, id uuid.UUID) (*dto.InvestigationResponse, error)
	RecordResult(ctx context.Context, id uuid.UUID, req *dto.RecordResultRequest) (*dto.InvestigationResponse, error)
}

type investigationUsecase struct {
	log                 *logrus.Logger
	transactor          repository.Transactor
	investigationRepo   repository.InvestigationRepository
	consultationRepo    repository.ConsultationRepository
	labTestRepo         repository.LabTestRepository
	paymentRepo         repository.PaymentRepository
	auditService        service.AuditService
	notificationService service.NotificationService
}

func NewInvestigationUsecase(
	log *logrus.Logger,
	transactor repository.Transactor,
	investigationRepo repository.InvestigationRepository,
	consultationRepo repository.ConsultationRepository,
	labTestRepo repository.LabTestRepository,
	paymentRepo repository.PaymentRepository,
	auditService service.AuditService,
	notificationService service.NotificationService,
) InvestigationUsecase {
	return &investigationUsecase{
		log:                 log,
		transactor:          transactor,
		investigationRepo:   investigationRepo,
		consultationRepo:    consultationRepo,
		labTestRepo:         labTestRepo,
		paymentRepo:         paymentRepo,
		auditService:        auditService,
		notificationService: notificationService,
	}
}

func (u *investigationUsecase) CreateInvestigation(ctx context.Context, consultationID uuid.UUID, req *dto.CreateInvestigationRequest) (*dto.InvestigationResponse, error) {
	user, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	consultation, err := findConsultationFor(ctx, u.log, u.consultationRepo, consultationID, user)
	if err != nil {
		return nil, err
	}

	labTest, err := u.labTestRepo.FindByID(ctx, req.LabTestID)
	if err != nil {
		u.log.Warnf("Failed to find lab test %d: %+v", req.LabTestID, err)
		return nil, err
	}
	if labTest == nil {
		return nil, ErrLabTestNotFound
	}

	investigation := &entity.Investigation{
		ID:             uuid.New(),
		ConsultationID: consultation.ID,
		PatientID:      consultation.PatientID,
		DoctorID:       user.UserID,
		LabTestID:      labTest.ID,
		Amount:         labTest.Price,
		Status:         entity.PaymentStatusNotPaid,
	}
	payment := &entity.Payment{
		ID:          uuid.New(),
		PatientID:   consultation.PatientID,
		Purpose:     entity.PaymentPurposeInvestigation,
		ReferenceID: investigation.ID,
		Amount:      investigation.Amount,
		Status:      entity.PaymentStatusNotPaid,
	}
	investigation.PaymentID = &payment.ID

	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.paymentRepo.Create(ctx, payment); err != nil {
			return err
		}
		if err := u.investigationRepo.Create(ctx, investigation); err != nil {
			return err
		}
		if err := u.notificationService.NotifyRole(ctx, entity.RoleIDAccountant, "Investigation payment due",
			fmt.Sprintf("%s ordered, %s due", labTest.Name, investigation.Amount.StringFixed(2))); err != nil {
			return err
		}
		return u.auditService.LogCreate(ctx, user.UserID, entity.AuditActionInvestigationCreate, "investigation", investigation.ID.String(),
			map[string]interface{}{
				"consultation_id": consultation.ID.String(),
				"lab_test_id":     labTest.ID,
				"amount":          investigation.Amount.StringFixed(2),
			})
	})
	if err != nil {
		u.log.Warnf("Failed to create investigation: %+v", err)
		return nil, err
	}

	investigation.LabTest = *labTest
	return converter.InvestigationToResponse(investigation), nil
}

func (u *investigationUsecase) GetInvestigations(ctx context.Context, filter *entity.InvestigationFilter, page dto.PageQuery) (*dto.InvestigationListResponse, error) {
	if filter != nil && filter.Status != "" && !filter.Status.IsValid() {
		return nil, ErrInvalidStatusFilter
	}

	page = page.Normalize()
	investigations, total, err := u.investigationRepo.FindAll(ctx, filter, page.Limit, page.Offset())
	if err != nil {
		u.log.Warnf("Failed to find investigations: %+v", err)
		return nil, err
	}

	return &dto.InvestigationListResponse{
		Investigations: converter.InvestigationsToResponses(investigations),
		Total:          total,
	}, nil
}

func (u *investigationUsecase) GetInvestigation(ctx context.Context, id uuid.UUID) (*dto.InvestigationResponse, error) {
	investigation, err := u.findInvestigation(ctx, id)
	if err != nil {
		return nil, err
	}
	return converter.InvestigationToResponse(investigation), nil
}

// RecordResult stores the laboratory result of a paid investigation, once.
func (u *investigationUsecase) RecordResult(ctx context.Context, id uuid.UUID, req *dto.RecordResultRequest) (*dto.InvestigationResponse, error) {
	user, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	result := strings.TrimSpace(req.Result)
	if result == "" {
		return nil, ErrEmptyResult
	}

	investigation, err := u.findInvestigation(ctx, id)
	if err != nil {
		return nil, err
	}
	if !investigation.IsPaid() {
		return nil, ErrPaymentRequired
	}
	if investigation.HasResult() {
		return nil, ErrResultAlreadyRecorded
	}

	now := time.Now()
	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		affected, err := u.investigationRepo.RecordResult(ctx, id, result, user.UserID, now)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrResultAlreadyRecorded
		}
		if investigation.DoctorID != user.UserID {
			if err := u.notificationService.NotifyUser(ctx, investigation.DoctorID, "Investigation result ready",
				fmt.Sprintf("Result recorded for investigation %s", id)); err != nil {
				return err
			}
		}
		return u.auditService.LogAction(ctx, user.UserID, entity.AuditActionInvestigationResult, entity.JSON{
			"investigation_id": id.String(),
			"lab_test_id":      investigation.LabTestID,
		})
	})
	if err != nil {
		if errors.Is(err, ErrResultAlreadyRecorded) {
			return nil, err
		}
		u.log.Warnf("Failed to record result of investigation %s: %+v", id, err)
		return nil, err
	}

	investigation.Result = result
	investigation.ResultAt = &now
	investigation.ResultBy = &user.UserID
	return converter.InvestigationToResponse(investigation), nil
}

func (u *investigationUsecase) findInvestigation(ctx context.Context, id uuid.UUID) (*entity.Investigation, error) {
	investigation, err := u.investigationRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find investigation %s: %+v", id, err)
		return nil, err
	}
	if investigation == nil {
		return nil, ErrInvestigationNotFound
	}
	return investigation, nil
}
