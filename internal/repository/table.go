package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hospital-management/internal/infrastructure/database"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Clause is a raw SQL predicate with its bind arguments
type Clause struct {
	SQL  string
	Args []interface{}
}

// Query describes a table lookup: equality filters, raw predicates, preloads,
// ordering and paging. The zero value selects every row.
type Query struct {
	Equals  map[string]interface{}
	Clauses []Clause
	Preload []string
	Order   string
	Limit   int
	Offset  int
}

// Where returns a copy of q with an extra raw predicate.
func (q Query) Where(sql string, args ...interface{}) Query {
	clauses := make([]Clause, len(q.Clauses), len(q.Clauses)+1)
	copy(clauses, q.Clauses)
	q.Clauses = append(clauses, Clause{SQL: sql, Args: args})
	return q
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching term anywhere, with the
// wildcards in term taken literally.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

func prefixPattern(term string) string {
	return likeEscaper.Replace(term) + "%"
}

// Table is the generic accessor every entity repository is built on. It is
// parameterised by the entity type (whose TableName selects the table) and the
// primary-key column.
type Table[T any] struct {
	db         *gorm.DB
	primaryKey string
}

func NewTable[T any](db *gorm.DB, primaryKey string) *Table[T] {
	return &Table[T]{db: db, primaryKey: primaryKey}
}

func (t *Table[T]) conn(ctx context.Context) *gorm.DB {
	return database.Conn(ctx, t.db)
}

func (t *Table[T]) pkClause() string {
	return fmt.Sprintf("%s = ?", t.primaryKey)
}

func (t *Table[T]) scoped(ctx context.Context, q Query) *gorm.DB {
	tx := t.conn(ctx).Model(new(T))
	if len(q.Equals) > 0 {
		tx = tx.Where(q.Equals)
	}
	for _, c := range q.Clauses {
		tx = tx.Where(c.SQL, c.Args...)
	}
	return tx
}

// FindByID returns the row with the given primary key, or nil if there is none.
func (t *Table[T]) FindByID(ctx context.Context, id interface{}, preload ...string) (*T, error) {
	var record T
	tx := t.conn(ctx)
	for _, p := range preload {
		tx = tx.Preload(p)
	}
	err := tx.Where(t.pkClause(), id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// FindOne returns the first row matching q, or nil if there is none.
func (t *Table[T]) FindOne(ctx context.Context, q Query) (*T, error) {
	var record T
	tx := t.scoped(ctx, q)
	for _, p := range q.Preload {
		tx = tx.Preload(p)
	}
	if q.Order != "" {
		tx = tx.Order(q.Order)
	}
	err := tx.First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// Find returns the page of rows matching q together with the total match count.
// When q.Limit is zero every matching row is returned and total is len(rows).
func (t *Table[T]) Find(ctx context.Context, q Query) ([]T, int64, error) {
	var total int64
	if q.Limit > 0 {
		if err := t.scoped(ctx, q).Count(&total).Error; err != nil {
			return nil, 0, err
		}
	}

	records := []T{}
	tx := t.scoped(ctx, q)
	for _, p := range q.Preload {
		tx = tx.Preload(p)
	}
	if q.Order != "" {
		tx = tx.Order(q.Order)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit).Offset(q.Offset)
	}
	if err := tx.Find(&records).Error; err != nil {
		return nil, 0, err
	}

	if q.Limit == 0 {
		total = int64(len(records))
	}
	return records, total, nil
}

func (t *Table[T]) Count(ctx context.Context, q Query) (int64, error) {
	var total int64
	err := t.scoped(ctx, q).Count(&total).Error
	return total, err
}

func (t *Table[T]) Insert(ctx context.Context, record *T) error {
	return t.conn(ctx).Create(record).Error
}

// Update saves every column of record. Associations are not touched.
func (t *Table[T]) Update(ctx context.Context, record *T) error {
	return t.conn(ctx).Omit(clause.Associations).Save(record).Error
}

// UpdateFields sets the given columns on the row with the given primary key.
func (t *Table[T]) UpdateFields(ctx context.Context, id interface{}, fields map[string]interface{}) (int64, error) {
	result := t.conn(ctx).Model(new(T)).Where(t.pkClause(), id).Updates(fields)
	return result.RowsAffected, result.Error
}

// UpdateWhere sets the given columns on every row matching q and reports how
// many rows changed. Status transitions use it so that a transition that has
// already happened affects zero rows.
func (t *Table[T]) UpdateWhere(ctx context.Context, q Query, fields map[string]interface{}) (int64, error) {
	result := t.scoped(ctx, q).Updates(fields)
	return result.RowsAffected, result.Error
}

func (t *Table[T]) Delete(ctx context.Context, id interface{}) (int64, error) {
	result := t.conn(ctx).Where(t.pkClause(), id).Delete(new(T))
	return result.RowsAffected, result.Error
}

// DeleteWhere removes every row matching q.
func (t *Table[T]) DeleteWhere(ctx context.Context, q Query) (int64, error) {
	tx := t.conn(ctx)
	if len(q.Equals) > 0 {
		tx = tx.Where(q.Equals)
	}
	for _, c := range q.Clauses {
		tx = tx.Where(c.SQL, c.Args...)
	}
	result := tx.Delete(new(T))
	return result.RowsAffected, result.Error
}

// Raw exposes the underlying connection for aggregate queries that do not fit Query.
func (t *Table[T]) Raw(ctx context.Context) *gorm.DB {
	return t.conn(ctx)
}
