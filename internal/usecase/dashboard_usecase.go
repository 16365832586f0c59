package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/domain/entity"
	"hospital-management/internal/domain/repository"
	"hospital-management/internal/service"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const dashboardCacheTTL = 30 * time.Second

type DashboardUsecase interface {
	GetDashboard(ctx context.Context) (*dto.DashboardResponse, error)
}

type dashboardUsecase struct {
	log               *logrus.Logger
	redisClient       *redis.Client
	userRepo          repository.UserRepository
	patientRepo       repository.PatientRepository
	bookingRepo       repository.BookingRepository
	paymentRepo       repository.PaymentRepository
	consultationRepo  repository.ConsultationRepository
	prescriptionRepo  repository.PrescriptionRepository
	investigationRepo repository.InvestigationRepository
	drugRepo          repository.DrugRepository
	deleteRequestRepo repository.DeleteRequestRepository
	notificationRepo  repository.NotificationRepository
}

func NewDashboardUsecase(
	log *logrus.Logger,
	redisClient *redis.Client,
	userRepo repository.UserRepository,
	patientRepo repository.PatientRepository,
	bookingRepo repository.BookingRepository,
	paymentRepo repository.PaymentRepository,
	consultationRepo repository.ConsultationRepository,
	prescriptionRepo repository.PrescriptionRepository,
	investigationRepo repository.InvestigationRepository,
	drugRepo repository.DrugRepository,
	deleteRequestRepo repository.DeleteRequestRepository,
	notificationRepo repository.NotificationRepository,
) DashboardUsecase {
	return &dashboardUsecase{
		log:               log,
		redisClient:       redisClient,
		userRepo:          userRepo,
		patientRepo:       patientRepo,
		bookingRepo:       bookingRepo,
		paymentRepo:       paymentRepo,
		consultationRepo:  consultationRepo,
		prescriptionRepo:  prescriptionRepo,
		investigationRepo: investigationRepo,
		drugRepo:          drugRepo,
		deleteRequestRepo: deleteRequestRepo,
		notificationRepo:  notificationRepo,
	}
}

type counterFunc func(ctx context.Context) (int64, error)

// GetDashboard returns the landing page counters of the caller's role. Results
// are cached per user for a short while.
func (u *dashboardUsecase) GetDashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	user, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("dashboard:%d:%s", user.RoleID, user.UserID)
	if cached, err := u.redisClient.Get(ctx, cacheKey).Bytes(); err == nil {
		var response dto.DashboardResponse
		if err := json.Unmarshal(cached, &response); err == nil {
			return &response, nil
		}
	} else if err != redis.Nil {
		u.log.Warnf("Failed to read dashboard cache (non-fatal): %+v", err)
	}

	today := service.Today()
	counters, err := u.runCounters(ctx, u.countersFor(user, today))
	if err != nil {
		u.log.Warnf("Failed to compute dashboard for role %d: %+v", user.RoleID, err)
		return nil, err
	}

	response := &dto.DashboardResponse{
		Role:     entity.RoleName(user.RoleID),
		Date:     today.Format(entity.DateLayout),
		Counters: counters,
	}

	if data, err := json.Marshal(response); err == nil {
		if err := u.redisClient.Set(ctx, cacheKey, data, dashboardCacheTTL).Err(); err != nil {
			u.log.Warnf("Failed to write dashboard cache (non-fatal): %+v", err)
		}
	}

	return response, nil
}

func (u *dashboardUsecase) runCounters(ctx context.Context, counters map[string]counterFunc) (map[string]int64, error) {
	var mu sync.Mutex
	result := make(map[string]int64, len(counters))

	g, gctx := errgroup.WithContext(ctx)
	for name, fn := range counters {
		g.Go(func() error {
			n, err := fn(gctx)
			if err != nil {
				return fmt.Errorf("counter %s: %w", name, err)
			}
			mu.Lock()
			result[name] = n
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

func (u *dashboardUsecase) countersFor(user actor, today time.Time) map[string]counterFunc {
	day := today.Format(entity.DateLayout)
	notDispensed := false

	counters := map[string]counterFunc{
		"unread_notifications": func(ctx context.Context) (int64, error) {
			return u.notificationRepo.CountUnread(ctx, user.UserID, user.RoleID)
		},
	}

	switch user.RoleID {
	case entity.RoleIDAdmin:
		counters["active_users"] = u.userRepo.CountActive
		counters["patients"] = u.patientRepo.Count
		counters["pending_delete_requests"] = u.deleteRequestRepo.CountPending
		counters["bookings_today"] = u.countBookings(&entity.BookingFilter{Date: day})
		counters["unpaid_payments"] = u.countPayments(&entity.PaymentFilter{Status: entity.PaymentStatusNotPaid})

	case entity.RoleIDReceptionist:
		counters["patients"] = u.patientRepo.Count
		counters["bookings_today"] = u.countBookings(&entity.BookingFilter{Date: day})
		counters["unpaid_bookings_today"] = u.countBookings(&entity.BookingFilter{Date: day, Status: entity.PaymentStatusNotPaid})

	case entity.RoleIDDoctor:
		counters["queue_today"] = func(ctx context.Context) (int64, error) {
			departmentID, err := u.doctorDepartment(ctx, user.UserID)
			if err != nil || departmentID == 0 {
				return 0, err
			}
			return u.bookingRepo.Count(ctx, &entity.BookingFilter{
				Date:         day,
				DepartmentID: departmentID,
				Status:       entity.PaymentStatusHasPaid,
				Visited:      entity.VisitStatusNotVisited,
			})
		}
		counters["consultations_today"] = func(ctx context.Context) (int64, error) {
			return u.consultationRepo.CountByDoctorSince(ctx, user.UserID, today)
		}
		counters["pending_results"] = func(ctx context.Context) (int64, error) {
			return u.investigationRepo.Count(ctx, &entity.InvestigationFilter{Status: entity.PaymentStatusHasPaid, PendingResult: true})
		}

	case entity.RoleIDPharmacist:
		counters["prescriptions_to_dispense"] = func(ctx context.Context) (int64, error) {
			return u.prescriptionRepo.Count(ctx, &entity.PrescriptionFilter{Status: entity.PaymentStatusHasPaid, Dispensed: &notDispensed})
		}
		counters["low_stock_drugs"] = func(ctx context.Context) (int64, error) {
			return u.drugRepo.CountLowStock(ctx, LowStockThreshold)
		}

	case entity.RoleIDAccountant:
		counters["unpaid_payments"] = u.countPayments(&entity.PaymentFilter{Status: entity.PaymentStatusNotPaid})
		counters["payments_raised_today"] = u.countPayments(&entity.PaymentFilter{Date: day})
	}

	return counters
}

func (u *dashboardUsecase) countBookings(filter *entity.BookingFilter) counterFunc {
	return func(ctx context.Context) (int64, error) {
		return u.bookingRepo.Count(ctx, filter)
	}
}

func (u *dashboardUsecase) countPayments(filter *entity.PaymentFilter) counterFunc {
	return func(ctx context.Context) (int64, error) {
		return u.paymentRepo.Count(ctx, filter)
	}
}

// doctorDepartment returns 0 for a doctor without a department
func (u *dashboardUsecase) doctorDepartment(ctx context.Context, doctorID uuid.UUID) (int, error) {
	doctor, err := u.userRepo.FindByID(ctx, doctorID)
	if err != nil {
		return 0, err
	}
	if doctor == nil || doctor.DepartmentID == nil {
		return 0, nil
	}
	return *doctor.DepartmentID, nil
}
