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
	ErrDrugNotFound   = errors.New("drug not found")
	ErrDrugNameExists = errors.New("drug name already exists")
	ErrDrugInUse      = errors.New("drug is referenced by prescriptions")
)

// LowStockThreshold is the stock level at or below which a drug counts as running out
const LowStockThreshold = 10

type DrugUsecase interface {
	CreateDrug(ctx context.Context, req *dto.DrugRequest) (*dto.DrugResponse, error)
	GetAllDrugs(ctx context.Context, search string, page dto.PageQuery) (*dto.DrugListResponse, error)
	GetDrug(ctx context.Context, id int) (*dto.DrugResponse, error)
	UpdateDrug(ctx context.Context, id int, req *dto.DrugRequest) (*dto.DrugResponse, error)
	RestockDrug(ctx context.Context, id int, req *dto.RestockRequest) (*dto.DrugResponse, error)
	DeleteDrug(ctx context.Context, id int) error
}

type drugUsecase struct {
	log          *logrus.Logger
	transactor   repository.Transactor
	drugRepo     repository.DrugRepository
	auditService service.AuditService
}

func NewDrugUsecase(
	log *logrus.Logger,
	transactor repository.Transactor,
	drugRepo repository.DrugRepository,
	auditService service.AuditService,
) DrugUsecase {
	return &drugUsecase{
		log:          log,
		transactor:   transactor,
		drugRepo:     drugRepo,
		auditService: auditService,
	}
}

func (u *drugUsecase) CreateDrug(ctx context.Context, req *dto.DrugRequest) (*dto.DrugResponse, error) {
	user, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	price, err := parseAmount(req.Price.String())
	if err != nil {
		return nil, err
	}

	drug := &entity.Drug{
		Name:        req.Name,
		Description: req.Description,
		Unit:        req.Unit,
		Price:       price,
	}
	if req.Stock != nil {
		drug.Stock = *req.Stock
	}

	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.drugRepo.Create(ctx, drug); err != nil {
			return err
		}
		return u.auditService.LogCreate(ctx, user.UserID, entity.AuditActionDrugCreate, "drug",
			strconv.Itoa(drug.ID), converter.DrugToResponse(drug))
	})
	if err != nil {
		if isDuplicateKeyError(err, "name") {
			return nil, ErrDrugNameExists
		}
		u.log.Warnf("Failed to create drug: %+v", err)
		return nil, err
	}

	return converter.DrugToResponse(drug), nil
}

func (u *drugUsecase) GetAllDrugs(ctx context.Context, search string, page dto.PageQuery) (*dto.DrugListResponse, error) {
	page = page.Normalize()
	drugs, total, err := u.drugRepo.FindAll(ctx, search, page.Limit, page.Offset())
	if err != nil {
		u.log.Warnf("Failed to find drugs: %+v", err)
		return nil, err
	}

	return &dto.DrugListResponse{
		Drugs: converter.DrugsToResponses(drugs),
		Total: total,
	}, nil
}

func (u *drugUsecase) GetDrug(ctx context.Context, id int) (*dto.DrugResponse, error) {
	drug, err := u.drugRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find drug %d: %+v", id, err)
		return nil, err
	}
	if drug == nil {
		return nil, ErrDrugNotFound
	}
	return converter.DrugToResponse(drug), nil
}

// UpdateDrug edits the catalogue entry. Stock is only changed when given;
// deliveries should go through RestockDrug.
func (u *drugUsecase) UpdateDrug(ctx context.Context, id int, req *dto.DrugRequest) (*dto.DrugResponse, error) {
	user, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	price, err := parseAmount(req.Price.String())
	if err != nil {
		return nil, err
	}

	drug, err := u.drugRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find drug %d: %+v", id, err)
		return nil, err
	}
	if drug == nil {
		return nil, ErrDrugNotFound
	}

	old := converter.DrugToResponse(drug)
	drug.Name = req.Name
	drug.Description = req.Description
	drug.Unit = req.Unit
	drug.Price = price
	if req.Stock != nil {
		drug.Stock = *req.Stock
	}

	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		affected, err := u.drugRepo.UpdateDetails(ctx, drug, req.Stock != nil)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrDrugNotFound
		}

		// Stock may have moved since the read above
		drug, err = u.drugRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if drug == nil {
			return ErrDrugNotFound
		}
		return u.auditService.LogUpdate(ctx, user.UserID, entity.AuditActionDrugUpdate, "drug",
			strconv.Itoa(id), old, converter.DrugToResponse(drug))
	})
	if err != nil {
		if errors.Is(err, ErrDrugNotFound) {
			return nil, err
		}
		if isDuplicateKeyError(err, "name") {
			return nil, ErrDrugNameExists
		}
		u.log.Warnf("Failed to update drug %d: %+v", id, err)
		return nil, err
	}

	return converter.DrugToResponse(drug), nil
}

func (u *drugUsecase) RestockDrug(ctx context.Context, id int, req *dto.RestockRequest) (*dto.DrugResponse, error) {
	user, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var drug *entity.Drug
	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		affected, err := u.drugRepo.IncrementStock(ctx, id, req.Quantity)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrDrugNotFound
		}

		drug, err = u.drugRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		return u.auditService.LogAction(ctx, user.UserID, entity.AuditActionDrugRestock, entity.JSON{
			"entity":    "drug",
			"entity_id": strconv.Itoa(id),
			"quantity":  req.Quantity,
			"stock":     drug.Stock,
		})
	})
	if err != nil {
		if errors.Is(err, ErrDrugNotFound) {
			return nil, err
		}
		u.log.Warnf("Failed to restock drug %d: %+v", id, err)
		return nil, err
	}

	return converter.DrugToResponse(drug), nil
}

func (u *drugUsecase) DeleteDrug(ctx context.Context, id int) error {
	user, err := actorFromContext(ctx)
	if err != nil {
		return err
	}

	drug, err := u.drugRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find drug %d: %+v", id, err)
		return err
	}
	if drug == nil {
		return ErrDrugNotFound
	}

	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := u.drugRepo.Delete(ctx, id); err != nil {
			return err
		}
		return u.auditService.LogDelete(ctx, user.UserID, entity.AuditActionDrugDelete, "drug",
			strconv.Itoa(id), converter.DrugToResponse(drug))
	})
	if err != nil {
		if isForeignKeyError(err, "") {
			return ErrDrugInUse
		}
		u.log.Warnf("Failed to delete drug %d: %+v", id, err)
		return err
	}
	return nil
}
