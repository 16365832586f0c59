package repository

import (
	"context"
	"time"

	"hospital-management/internal/domain/entity"

	"github.com/google/uuid"
)

// SlotUsage is the number of bookings held in a department on one day
type SlotUsage struct {
	DepartmentID    int
	AppointmentDate time.Time
	DailyQuota      int
	Booked          int
	MaxQueueNumber  int
}

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindAll(ctx context.Context, filter *entity.BookingFilter, limit, offset int) ([]entity.Booking, int64, error)
	FindByPatientDepartmentDate(ctx context.Context, patientID uuid.UUID, departmentID int, date time.Time) (*entity.Booking, error)
	// MarkPaid flips the booking settled by paymentID to Has Paid; returns rows affected.
	MarkPaid(ctx context.Context, paymentID uuid.UUID) (int64, error)
	// MarkVisited moves a paid, unvisited booking to Has Visited; returns rows affected.
	MarkVisited(ctx context.Context, id uuid.UUID, doctorID uuid.UUID) (int64, error)
	// DeleteCancellable removes a booking only while it is unpaid and unvisited.
	DeleteCancellable(ctx context.Context, id uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	Count(ctx context.Context, filter *entity.BookingFilter) (int64, error)
	SlotUsageFrom(ctx context.Context, from time.Time, limit, offset int) ([]SlotUsage, error)
	SlotUsageFor(ctx context.Context, departmentID int, date time.Time) (*SlotUsage, error)
}
