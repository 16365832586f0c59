package repository

import (
	"context"
	"time"

	"hospital-management/internal/domain/entity"
	domainRepo "hospital-management/internal/domain/repository"

	"gorm.io/gorm"
)

type drugRepository struct {
	table *Table[entity.Drug]
}

func NewDrugRepository(db *gorm.DB) domainRepo.DrugRepository {
	return &drugRepository{table: NewTable[entity.Drug](db, "id")}
}

func (r *drugRepository) Create(ctx context.Context, drug *entity.Drug) error {
	return r.table.Insert(ctx, drug)
}

func (r *drugRepository) FindByID(ctx context.Context, id int) (*entity.Drug, error) {
	return r.table.FindByID(ctx, id)
}

func (r *drugRepository) FindAll(ctx context.Context, search string, limit, offset int) ([]entity.Drug, int64, error) {
	q := Query{Order: "name ASC", Limit: limit, Offset: offset}
	if search != "" {
		q = q.Where("name ILIKE ?", containsPattern(search))
	}
	return r.table.Find(ctx, q)
}

func (r *drugRepository) UpdateDetails(ctx context.Context, drug *entity.Drug, withStock bool) (int64, error) {
	fields := map[string]interface{}{
		"name":        drug.Name,
		"description": drug.Description,
		"unit":        drug.Unit,
		"price":       drug.Price,
		"updated_at":  time.Now(),
	}
	if withStock {
		fields["stock"] = drug.Stock
	}
	return r.table.UpdateFields(ctx, drug.ID, fields)
}

func (r *drugRepository) Delete(ctx context.Context, id int) (int64, error) {
	return r.table.Delete(ctx, id)
}

func (r *drugRepository) DecrementStock(ctx context.Context, id int, quantity int) (int64, error) {
	q := Query{Equals: map[string]interface{}{"id": id}}
	return r.table.UpdateWhere(ctx, q.Where("stock >= ?", quantity), map[string]interface{}{
		"stock":      gorm.Expr("stock - ?", quantity),
		"updated_at": time.Now(),
	})
}

func (r *drugRepository) IncrementStock(ctx context.Context, id int, quantity int) (int64, error) {
	return r.table.UpdateFields(ctx, id, map[string]interface{}{
		"stock":      gorm.Expr("stock + ?", quantity),
		"updated_at": time.Now(),
	})
}

func (r *drugRepository) CountLowStock(ctx context.Context, threshold int) (int64, error) {
	return r.table.Count(ctx, Query{}.Where("stock <= ?", threshold))
}
