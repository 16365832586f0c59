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
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailAlreadyExists       = errors.New("email already exists")
	ErrRoleNotFound             = errors.New("role not found")
	ErrDoctorDepartmentRequired = errors.New("doctors must belong to a department")
	ErrCannotDeactivateSelf     = errors.New("cannot deactivate your own account")
)

type UserUsecase interface {
	CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	GetAllUsers(ctx context.Context, roleID int, page dto.PageQuery) (*dto.UserListResponse, error)
	GetUser(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error)
	UpdateUser(ctx context.Context, id uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	DeactivateUser(ctx context.Context, id uuid.UUID) error
	GetRoles(ctx context.Context) ([]dto.RoleResponse, error)
}

type userUsecase struct {
	log            *logrus.Logger
	transactor     repository.Transactor
	userRepo       repository.UserRepository
	roleRepo       repository.RoleRepository
	departmentRepo repository.DepartmentRepository
	auditService   service.AuditService
	authUsecase    AuthUsecase
}

func NewUserUsecase(
	log *logrus.Logger,
	transactor repository.Transactor,
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	departmentRepo repository.DepartmentRepository,
	auditService service.AuditService,
	authUsecase AuthUsecase,
) UserUsecase {
	return &userUsecase{
		log:            log,
		transactor:     transactor,
		userRepo:       userRepo,
		roleRepo:       roleRepo,
		departmentRepo: departmentRepo,
		auditService:   auditService,
		authUsecase:    authUsecase,
	}
}

func (u *userUsecase) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	admin, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if !entity.IsValidRoleID(req.RoleID) {
		return nil, ErrRoleNotFound
	}
	if err := u.checkDepartment(ctx, req.RoleID, req.DepartmentID); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	active := true
	user := &entity.User{
		Email:        req.Email,
		Password:     string(hashedPassword),
		FullName:     req.FullName,
		RoleID:       req.RoleID,
		DepartmentID: req.DepartmentID,
		PhoneNumber:  req.PhoneNumber,
		IsActive:     &active,
	}

	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.userRepo.Create(ctx, user); err != nil {
			return err
		}
		return u.auditService.LogCreate(ctx, admin.UserID, entity.AuditActionUserCreate, "user", user.ID.String(),
			map[string]interface{}{"email": user.Email, "role_id": user.RoleID})
	})
	if err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		if isForeignKeyError(err, "role") {
			return nil, ErrRoleNotFound
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	return converter.UserToResponse(user), nil
}

func (u *userUsecase) GetAllUsers(ctx context.Context, roleID int, page dto.PageQuery) (*dto.UserListResponse, error) {
	page = page.Normalize()
	users, total, err := u.userRepo.FindAll(ctx, roleID, page.Limit, page.Offset())
	if err != nil {
		u.log.Warnf("Failed to find users: %+v", err)
		return nil, err
	}

	return &dto.UserListResponse{
		Users: converter.UsersToResponses(users),
		Total: total,
	}, nil
}

func (u *userUsecase) GetUser(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find user %s: %+v", id, err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}

func (u *userUsecase) UpdateUser(ctx context.Context, id uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	admin, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	user, err := u.userRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find user %s: %+v", id, err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	old := converter.UserToResponse(user)
	revoke := false

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = *req.PhoneNumber
	}
	if req.RoleID != nil && *req.RoleID != user.RoleID {
		if !entity.IsValidRoleID(*req.RoleID) {
			return nil, ErrRoleNotFound
		}
		if user.RoleID == entity.RoleIDDoctor && req.DepartmentID == nil {
			user.DepartmentID = nil
		}
		user.RoleID = *req.RoleID
		revoke = true
	}
	if req.DepartmentID != nil {
		user.DepartmentID = req.DepartmentID
	}
	if req.IsActive != nil {
		if !*req.IsActive && id == admin.UserID {
			return nil, ErrCannotDeactivateSelf
		}
		if !*req.IsActive && user.Active() {
			revoke = true
		}
		user.IsActive = req.IsActive
	}

	if err := u.checkDepartment(ctx, user.RoleID, user.DepartmentID); err != nil {
		return nil, err
	}

	// Relations are stale after the edits above
	user.Role = entity.Role{}
	user.Department = nil

	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.userRepo.Update(ctx, user); err != nil {
			return err
		}
		return u.auditService.LogUpdate(ctx, admin.UserID, entity.AuditActionUserUpdate, "user", id.String(), old, converter.UserToResponse(user))
	})
	if err != nil {
		u.log.Warnf("Failed to update user %s: %+v", id, err)
		return nil, err
	}

	// Tokens carry the role, so a role change or deactivation signs the user out
	if revoke {
		if err := u.authUsecase.RevokeAllUserTokens(ctx, id); err != nil {
			u.log.Warnf("Failed to revoke tokens of user %s: %+v", id, err)
		}
	}

	return converter.UserToResponse(user), nil
}

// DeactivateUser disables sign-in; staff rows are kept for the records they own.
func (u *userUsecase) DeactivateUser(ctx context.Context, id uuid.UUID) error {
	admin, err := actorFromContext(ctx)
	if err != nil {
		return err
	}
	if id == admin.UserID {
		return ErrCannotDeactivateSelf
	}

	user, err := u.userRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find user %s: %+v", id, err)
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	inactive := false
	user.IsActive = &inactive
	user.Role = entity.Role{}
	user.Department = nil

	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.userRepo.Update(ctx, user); err != nil {
			return err
		}
		return u.auditService.LogUpdate(ctx, admin.UserID, entity.AuditActionUserDeactivate, "user", id.String(),
			map[string]interface{}{"is_active": true}, map[string]interface{}{"is_active": false})
	})
	if err != nil {
		u.log.Warnf("Failed to deactivate user %s: %+v", id, err)
		return err
	}

	if err := u.authUsecase.RevokeAllUserTokens(ctx, id); err != nil {
		u.log.Warnf("Failed to revoke tokens of user %s: %+v", id, err)
	}

	return nil
}

func (u *userUsecase) GetRoles(ctx context.Context) ([]dto.RoleResponse, error) {
	roles, err := u.roleRepo.FindAll(ctx)
	if err != nil {
		u.log.Warnf("Failed to find roles: %+v", err)
		return nil, err
	}
	return converter.RolesToResponses(roles), nil
}

func (u *userUsecase) checkDepartment(ctx context.Context, roleID int, departmentID *int) error {
	if departmentID == nil {
		if roleID == entity.RoleIDDoctor {
			return ErrDoctorDepartmentRequired
		}
		return nil
	}

	department, err := u.departmentRepo.FindByID(ctx, *departmentID)
	if err != nil {
		u.log.Warnf("Failed to find department %d: %+v", *departmentID, err)
		return err
	}
	if department == nil {
		return ErrDepartmentNotFound
	}
	return nil
}
