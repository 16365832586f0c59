package usecase

import (
	"context"
	"errors"
	"strconv"

	"hospital-management/internal/converter"
	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/domain/entity"
	"hospital-management/internal/domain/repository"
	"hospital-management/internal/service"

	"github.com/sirupsen/logrus"
)

var (
	ErrDepartmentNotFound   = errors.New("department not found")
	ErrDepartmentNameExists = errors.New("department name already exists")
	ErrDepartmentInUse      = errors.New("department is referenced by bookings or staff")
	ErrAvailabilityDatePast = errors.New("cannot check availability of a past date")
)

type DepartmentUsecase interface {
	CreateDepartment(ctx context.Context, req *dto.DepartmentRequest) (*dto.DepartmentResponse, error)
	GetAllDepartments(ctx context.Context) (*dto.DepartmentListResponse, error)
	GetDepartment(ctx context.Context, id int) (*dto.DepartmentResponse, error)
	UpdateDepartment(ctx context.Context, id int, req *dto.DepartmentRequest) (*dto.DepartmentResponse, error)
	DeleteDepartment(ctx context.Context, id int) error
	GetAvailability(ctx context.Context, id int, date string) (*dto.SlotAvailabilityResponse, error)
}

type departmentUsecase struct {
	log            *logrus.Logger
	transactor     repository.Transactor
	departmentRepo repository.DepartmentRepository
	auditService   service.AuditService
	slotService    *service.SlotService
}

func NewDepartmentUsecase(
	log *logrus.Logger,
	transactor repository.Transactor,
	departmentRepo repository.DepartmentRepository,
	auditService service.AuditService,
	slotService *service.SlotService,
) DepartmentUsecase {
	return &departmentUsecase{
		log:            log,
		transactor:     transactor,
		departmentRepo: departmentRepo,
		auditService:   auditService,
		slotService:    slotService,
	}
}

func (u *departmentUsecase) CreateDepartment(ctx context.Context, req *dto.DepartmentRequest) (*dto.DepartmentResponse, error) {
	admin, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	fee, err := parseAmount(req.ConsultationFee.String())
	if err != nil {
		return nil, err
	}

	department := &entity.Department{
		Name:            req.Name,
		Description:     req.Description,
		ConsultationFee: fee,
		DailyQuota:      req.DailyQuota,
	}

	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.departmentRepo.Create(ctx, department); err != nil {
			return err
		}
		return u.auditService.LogCreate(ctx, admin.UserID, entity.AuditActionDepartmentCreate, "department",
			strconv.Itoa(department.ID), converter.DepartmentToResponse(department))
	})
	if err != nil {
		if isDuplicateKeyError(err, "name") {
			return nil, ErrDepartmentNameExists
		}
		u.log.Warnf("Failed to create department: %+v", err)
		return nil, err
	}

	return converter.DepartmentToResponse(department), nil
}

func (u *departmentUsecase) GetAllDepartments(ctx context.Context) (*dto.DepartmentListResponse, error) {
	departments, err := u.departmentRepo.FindAll(ctx)
	if err != nil {
		u.log.Warnf("Failed to find departments: %+v", err)
		return nil, err
	}

	return &dto.DepartmentListResponse{
		Departments: converter.DepartmentsToResponses(departments),
		Total:       len(departments),
	}, nil
}

func (u *departmentUsecase) GetDepartment(ctx context.Context, id int) (*dto.DepartmentResponse, error) {
	department, err := u.departmentRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find department %d: %+v", id, err)
		return nil, err
	}
	if department == nil {
		return nil, ErrDepartmentNotFound
	}
	return converter.DepartmentToResponse(department), nil
}

// UpdateDepartment replaces the department; a quota change is pushed to the
// slot counters of every upcoming day.
func (u *departmentUsecase) UpdateDepartment(ctx context.Context, id int, req *dto.DepartmentRequest) (*dto.DepartmentResponse, error) {
	admin, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	fee, err := parseAmount(req.ConsultationFee.String())
	if err != nil {
		return nil, err
	}

	department, err := u.departmentRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find department %d: %+v", id, err)
		return nil, err
	}
	if department == nil {
		return nil, ErrDepartmentNotFound
	}

	old := converter.DepartmentToResponse(department)
	quotaDelta := req.DailyQuota - department.DailyQuota

	department.Name = req.Name
	department.Description = req.Description
	department.ConsultationFee = fee
	department.DailyQuota = req.DailyQuota

	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.departmentRepo.Update(ctx, department); err != nil {
			return err
		}
		return u.auditService.LogUpdate(ctx, admin.UserID, entity.AuditActionDepartmentUpdate, "department",
			strconv.Itoa(id), old, converter.DepartmentToResponse(department))
	})
	if err != nil {
		if isDuplicateKeyError(err, "name") {
			return nil, ErrDepartmentNameExists
		}
		u.log.Warnf("Failed to update department %d: %+v", id, err)
		return nil, err
	}

	if quotaDelta != 0 {
		if err := u.slotService.ApplyQuotaDelta(ctx, id, quotaDelta); err != nil {
			// Counters are rebuilt from the database on next startup
			u.log.Warnf("Failed to apply quota delta for department %d (non-fatal): %+v", id, err)
		}
	}

	return converter.DepartmentToResponse(department), nil
}

func (u *departmentUsecase) DeleteDepartment(ctx context.Context, id int) error {
	admin, err := actorFromContext(ctx)
	if err != nil {
		return err
	}

	if err := u.deleteDepartment(ctx, admin, id); err != nil {
		return err
	}

	if err := u.slotService.DeleteDepartmentKeys(ctx, id); err != nil {
		u.log.Warnf("Failed to delete slot counters for department %d (non-fatal): %+v", id, err)
	}
	return nil
}

func (u *departmentUsecase) deleteDepartment(ctx context.Context, admin actor, id int) error {
	department, err := u.departmentRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find department %d: %+v", id, err)
		return err
	}
	if department == nil {
		return ErrDepartmentNotFound
	}

	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := u.departmentRepo.Delete(ctx, id); err != nil {
			return err
		}
		return u.auditService.LogDelete(ctx, admin.UserID, entity.AuditActionDepartmentDelete, "department",
			strconv.Itoa(id), converter.DepartmentToResponse(department))
	})
	if err != nil {
		if isForeignKeyError(err, "") {
			return ErrDepartmentInUse
		}
		u.log.Warnf("Failed to delete department %d: %+v", id, err)
		return err
	}
	return nil
}

func (u *departmentUsecase) GetAvailability(ctx context.Context, id int, date string) (*dto.SlotAvailabilityResponse, error) {
	day := service.Today()
	if date != "" {
		parsed, err := parseDate(date)
		if err != nil {
			return nil, err
		}
		day = parsed
	}
	if day.Before(service.Today()) {
		return nil, ErrAvailabilityDatePast
	}

	department, err := u.departmentRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find department %d: %+v", id, err)
		return nil, err
	}
	if department == nil {
		return nil, ErrDepartmentNotFound
	}

	remaining, err := u.slotService.Remaining(ctx, id, day)
	if err != nil {
		if errors.Is(err, service.ErrDepartmentNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, err
	}

	return &dto.SlotAvailabilityResponse{
		DepartmentID: id,
		Date:         day.Format(entity.DateLayout),
		DailyQuota:   department.DailyQuota,
		Remaining:    remaining,
	}, nil
}
