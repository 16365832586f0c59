package repository

import (
	"context"
	"time"

	"hospital-management/internal/domain/entity"
	domainRepo "hospital-management/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type bookingRepository struct {
	table *Table[entity.Booking]
}

func NewBookingRepository(db *gorm.DB) domainRepo.BookingRepository {
	return &bookingRepository{table: NewTable[entity.Booking](db, "id")}
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	return r.table.Insert(ctx, booking)
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	return r.table.FindByID(ctx, id, "Patient", "Department", "Doctor")
}

func (r *bookingRepository) filterQuery(filter *entity.BookingFilter) Query {
	q := Query{}
	if filter == nil {
		return q
	}
	equals := map[string]interface{}{}
	if filter.Date != "" {
		equals["appointment_date"] = filter.Date
	}
	if filter.DepartmentID > 0 {
		equals["department_id"] = filter.DepartmentID
	}
	if filter.PatientID != nil {
		equals["patient_id"] = *filter.PatientID
	}
	if filter.Status != "" {
		equals["status"] = filter.Status
	}
	if filter.Visited != "" {
		equals["visited"] = filter.Visited
	}
	if len(equals) > 0 {
		q.Equals = equals
	}
	return q
}

func (r *bookingRepository) FindAll(ctx context.Context, filter *entity.BookingFilter, limit, offset int) ([]entity.Booking, int64, error) {
	q := r.filterQuery(filter)
	q.Preload = []string{"Patient", "Department"}
	q.Order = "appointment_date DESC, queue_number ASC"
	q.Limit = limit
	q.Offset = offset
	return r.table.Find(ctx, q)
}

func (r *bookingRepository) FindByPatientDepartmentDate(ctx context.Context, patientID uuid.UUID, departmentID int, date time.Time) (*entity.Booking, error) {
	return r.table.FindOne(ctx, Query{Equals: map[string]interface{}{
		"patient_id":       patientID,
		"department_id":    departmentID,
		"appointment_date": date.Format(entity.DateLayout),
	}})
}

func (r *bookingRepository) MarkPaid(ctx context.Context, paymentID uuid.UUID) (int64, error) {
	return r.table.UpdateWhere(ctx,
		Query{Equals: map[string]interface{}{"payment_id": paymentID, "status": entity.PaymentStatusNotPaid}},
		map[string]interface{}{"status": entity.PaymentStatusHasPaid, "updated_at": time.Now()},
	)
}

func (r *bookingRepository) MarkVisited(ctx context.Context, id uuid.UUID, doctorID uuid.UUID) (int64, error) {
	return r.table.UpdateWhere(ctx,
		Query{Equals: map[string]interface{}{
			"id":      id,
			"status":  entity.PaymentStatusHasPaid,
			"visited": entity.VisitStatusNotVisited,
		}},
		map[string]interface{}{
			"visited":    entity.VisitStatusVisited,
			"doctor_id":  doctorID,
			"updated_at": time.Now(),
		},
	)
}

func (r *bookingRepository) DeleteCancellable(ctx context.Context, id uuid.UUID) (int64, error) {
	return r.table.DeleteWhere(ctx, Query{Equals: map[string]interface{}{
		"id":      id,
		"status":  entity.PaymentStatusNotPaid,
		"visited": entity.VisitStatusNotVisited,
	}})
}

func (r *bookingRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	return r.table.Delete(ctx, id)
}

func (r *bookingRepository) Count(ctx context.Context, filter *entity.BookingFilter) (int64, error) {
	return r.table.Count(ctx, r.filterQuery(filter))
}

const slotUsageSelect = `
	bookings.department_id,
	bookings.appointment_date,
	departments.daily_quota,
	COUNT(bookings.id) as booked,
	COALESCE(MAX(bookings.queue_number), 0) as max_queue_number
`

// SlotUsageFrom aggregates bookings per department and day from the given date on.
func (r *bookingRepository) SlotUsageFrom(ctx context.Context, from time.Time, limit, offset int) ([]domainRepo.SlotUsage, error) {
	var results []domainRepo.SlotUsage
	err := r.table.Raw(ctx).Model(&entity.Booking{}).
		Select(slotUsageSelect).
		Joins("JOIN departments ON departments.id = bookings.department_id").
		Where("bookings.appointment_date >= ?", from.Format(entity.DateLayout)).
		Group("bookings.department_id, bookings.appointment_date, departments.daily_quota").
		Order("bookings.department_id, bookings.appointment_date").
		Limit(limit).
		Offset(offset).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// SlotUsageFor aggregates bookings of a single department and day. A day without
// bookings yields zero usage with the department's quota.
func (r *bookingRepository) SlotUsageFor(ctx context.Context, departmentID int, date time.Time) (*domainRepo.SlotUsage, error) {
	var result domainRepo.SlotUsage
	err := r.table.Raw(ctx).Model(&entity.Department{}).
		Select(`
			departments.id as department_id,
			departments.daily_quota,
			COUNT(bookings.id) as booked,
			COALESCE(MAX(bookings.queue_number), 0) as max_queue_number
		`).
		Joins("LEFT JOIN bookings ON bookings.department_id = departments.id AND bookings.appointment_date = ?", date.Format(entity.DateLayout)).
		Where("departments.id = ?", departmentID).
		Group("departments.id, departments.daily_quota").
		Scan(&result).Error
	if err != nil {
		return nil, err
	}
	if result.DepartmentID == 0 {
		return nil, nil
	}
	result.AppointmentDate = date
	return &result, nil
}
