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
	ErrLabTestNotFound   = errors.New("lab test not found")
	ErrLabTestNameExists = errors.New("lab test name already exists")
	ErrLabTestInUse      = errors.New("lab test is referenced by investigations")
)

type LabTestUsecase interface {
	CreateLabTest(ctx context.Context, req *dto.LabTestRequest) (*dto.LabTestResponse, error)
	GetAllLabTests(ctx context.Context) (*dto.LabTestListResponse, error)
	GetLabTest(ctx context.Context, id int) (*dto.LabTestResponse, error)
	UpdateLabTest(ctx context.Context, id int, req *dto.LabTestRequest) (*dto.LabTestResponse, error)
	DeleteLabTest(ctx context.Context, id int) error
}

type labTestUsecase struct {
	log          *logrus.Logger
	transactor   repository.Transactor
	labTestRepo  repository.LabTestRepository
	auditService service.AuditService
}

func NewLabTestUsecase(
	log *logrus.Logger,
	transactor repository.Transactor,
	labTestRepo repository.LabTestRepository,
	auditService service.AuditService,
) LabTestUsecase {
	return &labTestUsecase{
		log:          log,
		transactor:   transactor,
		labTestRepo:  labTestRepo,
		auditService: auditService,
	}
}

func (u *labTestUsecase) CreateLabTest(ctx context.Context, req *dto.LabTestRequest) (*dto.LabTestResponse, error) {
	admin, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	price, err := parseAmount(req.Price.String())
	if err != nil {
		return nil, err
	}

	labTest := &entity.LabTest{
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
	}

	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.labTestRepo.Create(ctx, labTest); err != nil {
			return err
		}
		return u.auditService.LogCreate(ctx, admin.UserID, entity.AuditActionLabTestCreate, "lab_test",
			strconv.Itoa(labTest.ID), converter.LabTestToResponse(labTest))
	})
	if err != nil {
		if isDuplicateKeyError(err, "name") {
			return nil, ErrLabTestNameExists
		}
		u.log.Warnf("Failed to create lab test: %+v", err)
		return nil, err
	}

	return converter.LabTestToResponse(labTest), nil
}

func (u *labTestUsecase) GetAllLabTests(ctx context.Context) (*dto.LabTestListResponse, error) {
	labTests, err := u.labTestRepo.FindAll(ctx)
	if err != nil {
		u.log.Warnf("Failed to find lab tests: %+v", err)
		return nil, err
	}

	return &dto.LabTestListResponse{
		LabTests: converter.LabTestsToResponses(labTests),
		Total:    len(labTests),
	}, nil
}

func (u *labTestUsecase) GetLabTest(ctx context.Context, id int) (*dto.LabTestResponse, error) {
	labTest, err := u.labTestRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find lab test %d: %+v", id, err)
		return nil, err
	}
	if labTest == nil {
		return nil, ErrLabTestNotFound
	}
	return converter.LabTestToResponse(labTest), nil
}

func (u *labTestUsecase) UpdateLabTest(ctx context.Context, id int, req *dto.LabTestRequest) (*dto.LabTestResponse, error) {
	admin, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	price, err := parseAmount(req.Price.String())
	if err != nil {
		return nil, err
	}

	labTest, err := u.labTestRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find lab test %d: %+v", id, err)
		return nil, err
	}
	if labTest == nil {
		return nil, ErrLabTestNotFound
	}

	old := converter.LabTestToResponse(labTest)
	labTest.Name = req.Name
	labTest.Description = req.Description
	labTest.Price = price

	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.labTestRepo.Update(ctx, labTest); err != nil {
			return err
		}
		return u.auditService.LogUpdate(ctx, admin.UserID, entity.AuditActionLabTestUpdate, "lab_test",
			strconv.Itoa(id), old, converter.LabTestToResponse(labTest))
	})
	if err != nil {
		if isDuplicateKeyError(err, "name") {
			return nil, ErrLabTestNameExists
		}
		u.log.Warnf("Failed to update lab test %d: %+v", id, err)
		return nil, err
	}

	return converter.LabTestToResponse(labTest), nil
}

func (u *labTestUsecase) DeleteLabTest(ctx context.Context, id int) error {
	admin, err := actorFromContext(ctx)
	if err != nil {
		return err
	}

	labTest, err := u.labTestRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find lab test %d: %+v", id, err)
		return err
	}
	if labTest == nil {
		return ErrLabTestNotFound
	}

	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := u.labTestRepo.Delete(ctx, id); err != nil {
			return err
		}
		return u.auditService.LogDelete(ctx, admin.UserID, entity.AuditActionLabTestDelete, "lab_test",
			strconv.Itoa(id), converter.LabTestToResponse(labTest))
	})
	if err != nil {
		if isForeignKeyError(err, "") {
			return ErrLabTestInUse
		}
		u.log.Warnf("Failed to delete lab test %d: %+v", id, err)
		return err
	}
	return nil
}
