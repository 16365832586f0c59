package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"hospital-management/internal/domain/entity"
	"hospital-management/internal/infrastructure/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Discard,
	})
	require.NoError(t, err)
	return db, mock
}

func drugRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "unit", "price", "stock"})
}

func TestTable_FindByID(t *testing.T) {
	db, mock := newMockDB(t)
	table := NewTable[entity.Drug](db, "id")
	ctx := context.Background()

	mock.ExpectQuery(`SELECT \* FROM "drugs" WHERE id = \$1`).
		WillReturnRows(drugRows())

	drug, err := table.FindByID(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, drug)

	mock.ExpectQuery(`SELECT \* FROM "drugs" WHERE id = \$1`).
		WillReturnRows(drugRows().AddRow(7, "Paracetamol", "tablet", "1500.00", 40))

	drug, err = table.FindByID(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, drug)
	assert.Equal(t, "Paracetamol", drug.Name)
	assert.Equal(t, 40, drug.Stock)
	assert.True(t, decimal.NewFromInt(1500).Equal(drug.Price))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTable_Find_PagedCountsTotal(t *testing.T) {
	db, mock := newMockDB(t)
	table := NewTable[entity.Drug](db, "id")

	mock.ExpectQuery(`SELECT count\(\*\) FROM "drugs"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(45))
	mock.ExpectQuery(`SELECT \* FROM "drugs" ORDER BY name ASC LIMIT`).
		WillReturnRows(drugRows().
			AddRow(1, "Amoxicillin", "capsule", "2500.00", 12).
			AddRow(2, "Ibuprofen", "tablet", "1800.00", 3))

	drugs, total, err := table.Find(context.Background(), Query{Order: "name ASC", Limit: 2, Offset: 20})
	require.NoError(t, err)
	assert.Len(t, drugs, 2)
	assert.Equal(t, int64(45), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTable_Find_UnpagedSkipsCount(t *testing.T) {
	db, mock := newMockDB(t)
	table := NewTable[entity.Drug](db, "id")

	mock.ExpectQuery(`SELECT \* FROM "drugs"`).
		WillReturnRows(drugRows().
			AddRow(1, "Amoxicillin", "capsule", "2500.00", 12).
			AddRow(2, "Ibuprofen", "tablet", "1800.00", 3).
			AddRow(3, "Metformin", "tablet", "900.00", 60))

	drugs, total, err := table.Find(context.Background(), Query{})
	require.NoError(t, err)
	assert.Len(t, drugs, 3)
	assert.Equal(t, int64(3), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepository_MarkPaid_AlreadyPaidAffectsNothing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPaymentRepository(db)

	mock.ExpectExec(`UPDATE "payments" SET .* WHERE .*"status" = `).
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.MarkPaid(context.Background(), uuid.New(), uuid.New(), "RCP-20260101-ABCDEF", time.Now())
	require.NoError(t, err)
	assert.Zero(t, affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepository_DeleteUnpaid(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPaymentRepository(db)

	mock.ExpectExec(`DELETE FROM "payments" WHERE .*"status" = `).
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.DeleteUnpaid(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDrugRepository_DecrementStock_GuardsOnHand(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDrugRepository(db)

	mock.ExpectExec(`UPDATE "drugs" SET "stock"=stock - \$1,"updated_at"=\$2 WHERE "id" = \$3 AND stock >= \$4`).
		WithArgs(5, sqlmock.AnyArg(), 3, 5).
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.DecrementStock(context.Background(), 3, 5)
	require.NoError(t, err)
	assert.Zero(t, affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDrugRepository_UpdateDetails_LeavesStockAlone(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDrugRepository(db)
	drug := &entity.Drug{ID: 3, Name: "Amoxicillin", Unit: "capsule", Price: decimal.NewFromInt(2500), Stock: 10}

	mock.ExpectExec(`UPDATE "drugs" SET "description"=\$1,"name"=\$2,"price"=\$3,"unit"=\$4,"updated_at"=\$5 WHERE id = \$6`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.UpdateDetails(context.Background(), drug, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	mock.ExpectExec(`UPDATE "drugs" SET "description"=\$1,"name"=\$2,"price"=\$3,"stock"=\$4,"unit"=\$5,"updated_at"=\$6 WHERE id = \$7`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	_, err = repo.UpdateDetails(context.Background(), drug, true)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDrugRepository_FindAll_EscapesWildcards(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDrugRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "drugs" WHERE name ILIKE \$1`).
		WithArgs(`%50\%\_off%`).
		WillReturnRows(drugRows())

	drugs, total, err := repo.FindAll(context.Background(), "50%_off", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, drugs)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_SlotUsageFor(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)
	date := time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)

	// A day without bookings still reports the quota through the LEFT JOIN
	mock.ExpectQuery(`LEFT JOIN bookings ON bookings.department_id = departments.id AND bookings.appointment_date = \$1`).
		WithArgs("2026-11-02", 4).
		WillReturnRows(sqlmock.NewRows([]string{"department_id", "daily_quota", "booked", "max_queue_number"}).
			AddRow(4, 20, 0, 0))

	usage, err := repo.SlotUsageFor(context.Background(), 4, date)
	require.NoError(t, err)
	require.NotNil(t, usage)
	assert.Equal(t, 20, usage.DailyQuota)
	assert.Zero(t, usage.Booked)
	assert.Equal(t, date, usage.AppointmentDate)

	mock.ExpectQuery(`LEFT JOIN bookings`).
		WillReturnRows(sqlmock.NewRows([]string{"department_id", "daily_quota", "booked", "max_queue_number"}))

	usage, err = repo.SlotUsageFor(context.Background(), 99, date)
	require.NoError(t, err)
	assert.Nil(t, usage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTable_JoinsContextTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDrugRepository(db)
	transactor := database.NewTransactor(db)
	failure := errors.New("audit write failed")

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "drugs" SET "stock"=stock \+ \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	err := transactor.WithinTransaction(context.Background(), func(ctx context.Context) error {
		if _, err := repo.IncrementStock(ctx, 3, 20); err != nil {
			return err
		}
		return failure
	})
	assert.ErrorIs(t, err, failure)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientRepository_Search_EscapesWildcards(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPatientRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "patients" WHERE .*full_name ILIKE \$1 OR phone_number ILIKE \$2 OR card_number ILIKE \$3`).
		WithArgs(`%PT\_2026%`, `%PT\_2026%`, `PT\_2026%`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "card_number", "full_name"}))

	patients, total, err := repo.Search(context.Background(), "PT_2026", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, patients)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
