package repository

import (
	"context"

	"hospital-management/internal/domain/entity"
	domainRepo "hospital-management/internal/domain/repository"

	"gorm.io/gorm"
)

type auditLogRepository struct {
	table *Table[entity.AuditLog]
}

func NewAuditLogRepository(db *gorm.DB) domainRepo.AuditLogRepository {
	return &auditLogRepository{table: NewTable[entity.AuditLog](db, "id")}
}

func (r *auditLogRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	return r.table.Insert(ctx, log)
}

func (r *auditLogRepository) FindAll(ctx context.Context, action string, limit, offset int) ([]entity.AuditLog, int64, error) {
	q := Query{
		Preload: []string{"User.Role"},
		Order:   "created_at DESC",
		Limit:   limit,
		Offset:  offset,
	}
	if action != "" {
		q.Equals = map[string]interface{}{"action": action}
	}
	return r.table.Find(ctx, q)
}

func (r *auditLogRepository) FindByID(ctx context.Context, id int64) (*entity.AuditLog, error) {
	return r.table.FindByID(ctx, id, "User.Role")
}
