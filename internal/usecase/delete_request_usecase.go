package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
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
	ErrDeleteRequestNotFound   = errors.New("delete request not found")
	ErrDeleteRequestNotPending = errors.New("delete request has already been reviewed")
	ErrInvalidEntityID         = errors.New("invalid entity id for entity type")
	ErrInvalidEntityType       = errors.New("invalid entity type")
)

type DeleteRequestUsecase interface {
	CreateRequest(ctx context.Context, req *dto.CreateDeleteRequestRequest) (*dto.DeleteRequestResponse, error)
	GetMyRequests(ctx context.Context) (*dto.DeleteRequestListResponse, error)
	GetRequests(ctx context.Context, status string, page dto.PageQuery) (*dto.DeleteRequestListResponse, error)
	ApproveRequest(ctx context.Context, id int64) (*dto.DeleteRequestResponse, error)
	RejectRequest(ctx context.Context, id int64) (*dto.DeleteRequestResponse, error)
}

type deleteRequestUsecase struct {
	log                 *logrus.Logger
	transactor          repository.Transactor
	deleteRequestRepo   repository.DeleteRequestRepository
	auditService        service.AuditService
	notificationService service.NotificationService
	patientUsecase      PatientUsecase
	bookingUsecase      BookingUsecase
	drugUsecase         DrugUsecase
	labTestUsecase      LabTestUsecase
	departmentUsecase   DepartmentUsecase
}

func NewDeleteRequestUsecase(
	log *logrus.Logger,
	transactor repository.Transactor,
	deleteRequestRepo repository.DeleteRequestRepository,
	auditService service.AuditService,
	notificationService service.NotificationService,
	patientUsecase PatientUsecase,
	bookingUsecase BookingUsecase,
	drugUsecase DrugUsecase,
	labTestUsecase LabTestUsecase,
	departmentUsecase DepartmentUsecase,
) DeleteRequestUsecase {
	return &deleteRequestUsecase{
		log:                 log,
		transactor:          transactor,
		deleteRequestRepo:   deleteRequestRepo,
		auditService:        auditService,
		notificationService: notificationService,
		patientUsecase:      patientUsecase,
		bookingUsecase:      bookingUsecase,
		drugUsecase:         drugUsecase,
		labTestUsecase:      labTestUsecase,
		departmentUsecase:   departmentUsecase,
	}
}

func (u *deleteRequestUsecase) CreateRequest(ctx context.Context, req *dto.CreateDeleteRequestRequest) (*dto.DeleteRequestResponse, error) {
	user, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := validateEntityID(req.EntityType, req.EntityID); err != nil {
		return nil, err
	}

	request := &entity.DeleteRequest{
		RequestedBy: user.UserID,
		EntityType:  req.EntityType,
		EntityID:    req.EntityID,
		Reason:      req.Reason,
		Status:      entity.DeleteRequestPending,
	}

	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.deleteRequestRepo.Create(ctx, request); err != nil {
			return err
		}
		if err := u.notificationService.NotifyRole(ctx, entity.RoleIDAdmin, "Delete request",
			fmt.Sprintf("Deletion of %s %s requested: %s", request.EntityType, request.EntityID, request.Reason)); err != nil {
			return err
		}
		return u.auditService.LogCreate(ctx, user.UserID, entity.AuditActionDeleteRequestCreate, "delete_request",
			strconv.FormatInt(request.ID, 10), map[string]interface{}{
				"entity_type": request.EntityType,
				"entity_id":   request.EntityID,
			})
	})
	if err != nil {
		u.log.Warnf("Failed to create delete request: %+v", err)
		return nil, err
	}

	return converter.DeleteRequestToResponse(request), nil
}

func (u *deleteRequestUsecase) GetMyRequests(ctx context.Context) (*dto.DeleteRequestListResponse, error) {
	user, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	requests, err := u.deleteRequestRepo.FindByRequester(ctx, user.UserID)
	if err != nil {
		u.log.Warnf("Failed to find delete requests of %s: %+v", user.UserID, err)
		return nil, err
	}

	return &dto.DeleteRequestListResponse{
		Requests: converter.DeleteRequestsToResponses(requests),
		Total:    int64(len(requests)),
	}, nil
}

func (u *deleteRequestUsecase) GetRequests(ctx context.Context, status string, page dto.PageQuery) (*dto.DeleteRequestListResponse, error) {
	filter := entity.DeleteRequestStatus(status)
	switch filter {
	case "", entity.DeleteRequestPending, entity.DeleteRequestApproved, entity.DeleteRequestRejected:
	default:
		return nil, ErrInvalidStatusFilter
	}

	page = page.Normalize()
	requests, total, err := u.deleteRequestRepo.FindAll(ctx, filter, page.Limit, page.Offset())
	if err != nil {
		u.log.Warnf("Failed to find delete requests: %+v", err)
		return nil, err
	}

	return &dto.DeleteRequestListResponse{
		Requests: converter.DeleteRequestsToResponses(requests),
		Total:    total,
	}, nil
}

// ApproveRequest closes the request and deletes its target in one transaction.
// A target that is already gone still counts as approved; a target that is in
// use leaves the request pending.
func (u *deleteRequestUsecase) ApproveRequest(ctx context.Context, id int64) (*dto.DeleteRequestResponse, error) {
	return u.review(ctx, id, entity.DeleteRequestApproved)
}

func (u *deleteRequestUsecase) RejectRequest(ctx context.Context, id int64) (*dto.DeleteRequestResponse, error) {
	return u.review(ctx, id, entity.DeleteRequestRejected)
}

func (u *deleteRequestUsecase) review(ctx context.Context, id int64, status entity.DeleteRequestStatus) (*dto.DeleteRequestResponse, error) {
	admin, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	request, err := u.deleteRequestRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find delete request %d: %+v", id, err)
		return nil, err
	}
	if request == nil {
		return nil, ErrDeleteRequestNotFound
	}
	if !request.IsPending() {
		return nil, ErrDeleteRequestNotPending
	}

	now := time.Now()
	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		affected, err := u.deleteRequestRepo.Review(ctx, id, status, admin.UserID, now)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrDeleteRequestNotPending
		}

		if status == entity.DeleteRequestApproved {
			if err := u.deleteTarget(ctx, request); err != nil {
				return err
			}
		}

		if err := u.notificationService.NotifyUser(ctx, request.RequestedBy, "Delete request "+string(status),
			fmt.Sprintf("Your request to delete %s %s was %s", request.EntityType, request.EntityID, status)); err != nil {
			return err
		}
		return u.auditService.LogAction(ctx, admin.UserID, entity.AuditActionDeleteRequestReview, entity.JSON{
			"request_id":  id,
			"status":      string(status),
			"entity_type": request.EntityType,
			"entity_id":   request.EntityID,
		})
	})
	if err != nil {
		if !errors.Is(err, ErrDeleteRequestNotPending) {
			u.log.Warnf("Failed to review delete request %d: %+v", id, err)
		}
		return nil, err
	}

	request.Status = status
	request.ReviewedBy = &admin.UserID
	request.ReviewedAt = &now
	return converter.DeleteRequestToResponse(request), nil
}

// deleteTarget removes the record named by request through its owning usecase
func (u *deleteRequestUsecase) deleteTarget(ctx context.Context, request *entity.DeleteRequest) error {
	var err error
	switch request.EntityType {
	case entity.DeleteTargetPatient:
		err = u.patientUsecase.DeletePatient(ctx, uuid.MustParse(request.EntityID))
	case entity.DeleteTargetBooking:
		err = u.bookingUsecase.DeleteBooking(ctx, uuid.MustParse(request.EntityID))
	case entity.DeleteTargetDrug:
		err = u.drugUsecase.DeleteDrug(ctx, mustAtoi(request.EntityID))
	case entity.DeleteTargetLabTest:
		err = u.labTestUsecase.DeleteLabTest(ctx, mustAtoi(request.EntityID))
	case entity.DeleteTargetDepartment:
		err = u.departmentUsecase.DeleteDepartment(ctx, mustAtoi(request.EntityID))
	default:
		return ErrInvalidEntityType
	}

	switch {
	case errors.Is(err, ErrPatientNotFound),
		errors.Is(err, ErrBookingNotFound),
		errors.Is(err, ErrDrugNotFound),
		errors.Is(err, ErrLabTestNotFound),
		errors.Is(err, ErrDepartmentNotFound):
		u.log.Infof("Delete request %d target %s %s already gone", request.ID, request.EntityType, request.EntityID)
		return nil
	}
	return err
}

// validateEntityID checks the id has the key type of the targeted table
func validateEntityID(entityType, entityID string) error {
	switch entityType {
	case entity.DeleteTargetPatient, entity.DeleteTargetBooking:
		if _, err := uuid.Parse(entityID); err != nil {
			return ErrInvalidEntityID
		}
	case entity.DeleteTargetDrug, entity.DeleteTargetLabTest, entity.DeleteTargetDepartment:
		if n, err := strconv.Atoi(entityID); err != nil || n <= 0 {
			return ErrInvalidEntityID
		}
	default:
		return ErrInvalidEntityType
	}
	return nil
}

// mustAtoi is only used on ids already checked by validateEntityID
func mustAtoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
