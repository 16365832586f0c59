package usecase

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"hospital-management/internal/delivery/http/middleware"
	"hospital-management/internal/domain/entity"
	"hospital-management/internal/domain/repository"
	"hospital-management/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var errDB = errors.New("db down")

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// ctxAs returns a context carrying the identity AuthMiddleware would set
func ctxAs(userID uuid.UUID, roleID int) context.Context {
	return middleware.WithActor(context.Background(), middleware.Actor{UserID: userID, RoleID: roleID})
}

func pgError(code, constraint string) error {
	return &pgconn.PgError{Code: code, ConstraintName: constraint}
}

func day(offset int) time.Time {
	return service.Today().AddDate(0, 0, offset)
}

// fakeTransactor runs fn directly; rollback is observed through the fakes' journals
type fakeTransactor struct {
	calls int
}

func (f *fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeAudit struct {
	mu      sync.Mutex
	actions []string
}

func (f *fakeAudit) record(action string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, action)
	return nil
}

func (f *fakeAudit) LogCreate(ctx context.Context, userID uuid.UUID, action, entityName, entityID string, newValue interface{}) error {
	return f.record(action)
}

func (f *fakeAudit) LogUpdate(ctx context.Context, userID uuid.UUID, action, entityName, entityID string, oldValue, newValue interface{}) error {
	return f.record(action)
}

func (f *fakeAudit) LogDelete(ctx context.Context, userID uuid.UUID, action, entityName, entityID string, oldValue interface{}) error {
	return f.record(action)
}

func (f *fakeAudit) LogAction(ctx context.Context, userID uuid.UUID, action string, metadata entity.JSON) error {
	return f.record(action)
}

type sentNotification struct {
	roleID int
	userID uuid.UUID
	title  string
}

type fakeNotifier struct {
	sent []sentNotification
}

func (f *fakeNotifier) NotifyRole(ctx context.Context, roleID int, title, message string) error {
	f.sent = append(f.sent, sentNotification{roleID: roleID, title: title})
	return nil
}

func (f *fakeNotifier) NotifyUser(ctx context.Context, userID uuid.UUID, title, message string) error {
	f.sent = append(f.sent, sentNotification{userID: userID, title: title})
	return nil
}

func (f *fakeNotifier) toRole(roleID int) int {
	n := 0
	for _, s := range f.sent {
		if s.roleID == roleID {
			n++
		}
	}
	return n
}

type fakePatientRepo struct {
	repository.PatientRepository
	patients  map[uuid.UUID]*entity.Patient
	deleteErr error
}

func (f *fakePatientRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
	p, ok := f.patients[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakePatientRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	if _, ok := f.patients[id]; !ok {
		return 0, nil
	}
	delete(f.patients, id)
	return 1, nil
}

func (f *fakePatientRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.patients)), nil
}

type fakeDepartmentRepo struct {
	repository.DepartmentRepository
	departments map[int]*entity.Department
}

func (f *fakeDepartmentRepo) FindByID(ctx context.Context, id int) (*entity.Department, error) {
	d, ok := f.departments[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

// fakeBookingRepo keeps bookings in memory and answers slot usage from them
type fakeBookingRepo struct {
	repository.BookingRepository
	mu          sync.Mutex
	bookings    map[uuid.UUID]*entity.Booking
	departments *fakeDepartmentRepo
	createErr   error
	deleteErr   error
	countFilter []*entity.BookingFilter
}

func newFakeBookingRepo(departments *fakeDepartmentRepo) *fakeBookingRepo {
	return &fakeBookingRepo{bookings: map[uuid.UUID]*entity.Booking{}, departments: departments}
}

func (f *fakeBookingRepo) Create(ctx context.Context, booking *entity.Booking) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *booking
	f.bookings[booking.ID] = &cp
	return nil
}

func (f *fakeBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookingRepo) FindByPatientDepartmentDate(ctx context.Context, patientID uuid.UUID, departmentID int, date time.Time) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.PatientID == patientID && b.DepartmentID == departmentID && b.AppointmentDate.Equal(date) {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingRepo) FindAll(ctx context.Context, filter *entity.BookingFilter, limit, offset int) ([]entity.Booking, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Booking
	for _, b := range f.bookings {
		if filter != nil {
			if filter.DepartmentID > 0 && b.DepartmentID != filter.DepartmentID {
				continue
			}
			if filter.Status != "" && b.Status != filter.Status {
				continue
			}
			if filter.Visited != "" && b.Visited != filter.Visited {
				continue
			}
			if filter.Date != "" && b.AppointmentDate.Format(entity.DateLayout) != filter.Date {
				continue
			}
		}
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

func (f *fakeBookingRepo) MarkPaid(ctx context.Context, paymentID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.PaymentID != nil && *b.PaymentID == paymentID && b.Status == entity.PaymentStatusNotPaid {
			b.Status = entity.PaymentStatusHasPaid
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeBookingRepo) MarkVisited(ctx context.Context, id uuid.UUID, doctorID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok || !b.IsPaid() || b.HasVisited() {
		return 0, nil
	}
	b.Visited = entity.VisitStatusVisited
	b.DoctorID = &doctorID
	return 1, nil
}

func (f *fakeBookingRepo) DeleteCancellable(ctx context.Context, id uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok || !b.Cancellable() {
		return 0, nil
	}
	delete(f.bookings, id)
	return 1, nil
}

func (f *fakeBookingRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.bookings[id]; !ok {
		return 0, nil
	}
	delete(f.bookings, id)
	return 1, nil
}

func (f *fakeBookingRepo) Count(ctx context.Context, filter *entity.BookingFilter) (int64, error) {
	f.mu.Lock()
	f.countFilter = append(f.countFilter, filter)
	f.mu.Unlock()
	_, total, err := f.FindAll(ctx, filter, 0, 0)
	return total, err
}

func (f *fakeBookingRepo) SlotUsageFor(ctx context.Context, departmentID int, date time.Time) (*repository.SlotUsage, error) {
	department, _ := f.departments.FindByID(ctx, departmentID)
	if department == nil {
		return nil, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	usage := &repository.SlotUsage{DepartmentID: departmentID, AppointmentDate: date, DailyQuota: department.DailyQuota}
	for _, b := range f.bookings {
		if b.DepartmentID == departmentID && b.AppointmentDate.Equal(date) {
			usage.Booked++
			if b.QueueNumber > usage.MaxQueueNumber {
				usage.MaxQueueNumber = b.QueueNumber
			}
		}
	}
	return usage, nil
}

type fakePaymentRepo struct {
	repository.PaymentRepository
	payments  map[uuid.UUID]*entity.Payment
	createErr error
	summaryTo time.Time
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: map[uuid.UUID]*entity.Payment{}}
}

func (f *fakePaymentRepo) Create(ctx context.Context, payment *entity.Payment) error {
	if f.createErr != nil {
		return f.createErr
	}
	cp := *payment
	f.payments[payment.ID] = &cp
	return nil
}

func (f *fakePaymentRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	p, ok := f.payments[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakePaymentRepo) MarkPaid(ctx context.Context, id uuid.UUID, receivedBy uuid.UUID, receiptNumber string, paidAt time.Time) (int64, error) {
	p, ok := f.payments[id]
	if !ok || p.IsPaid() {
		return 0, nil
	}
	p.Status = entity.PaymentStatusHasPaid
	p.ReceiptNumber = &receiptNumber
	p.ReceivedBy = &receivedBy
	p.PaidAt = &paidAt
	return 1, nil
}

func (f *fakePaymentRepo) DeleteUnpaid(ctx context.Context, id uuid.UUID) (int64, error) {
	p, ok := f.payments[id]
	if !ok || p.IsPaid() {
		return 0, nil
	}
	delete(f.payments, id)
	return 1, nil
}

func (f *fakePaymentRepo) Summarize(ctx context.Context, from, to time.Time) (*entity.PaymentSummary, error) {
	f.summaryTo = to
	return &entity.PaymentSummary{ByPurposePaid: map[entity.PaymentPurpose]decimal.Decimal{}}, nil
}

func (f *fakePaymentRepo) Count(ctx context.Context, filter *entity.PaymentFilter) (int64, error) {
	var n int64
	for _, p := range f.payments {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		n++
	}
	return n, nil
}

type fakeUserRepo struct {
	repository.UserRepository
	users map[uuid.UUID]*entity.User
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) CountActive(ctx context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

func newSlotService(t *testing.T, bookingRepo repository.BookingRepository) (*service.SlotService, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	slots := service.NewSlotService(bookingRepo, client, newTestLogger())
	t.Cleanup(func() {
		slots.Stop()
		client.Close()
	})
	return slots, mr, client
}
