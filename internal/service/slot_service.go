package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"hospital-management/internal/domain/entity"
	"hospital-management/internal/domain/repository"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrQuotaFull is returned when a department has no slot left on a day
var ErrQuotaFull = errors.New("department daily quota is full")

var ErrDepartmentNotFound = errors.New("department not found")

// reserveSlotScript takes one slot and hands out the next queue number in a
// single step. It returns -1 when the day is full and -2 when the day has not
// been loaded into Redis yet. The slot counter holds quota minus booked and
// goes negative when a quota is cut below what is already booked.
var reserveSlotScript = redis.NewScript(`
	if redis.call('EXISTS', KEYS[1]) == 0 then
		return -2
	end
	local remaining = redis.call('DECR', KEYS[1])
	if remaining < 0 then
		redis.call('INCR', KEYS[1])
		return -1
	end
	return redis.call('INCR', KEYS[2])
`)

// restoreSlotScript gives a slot back only while the day is loaded; a missing
// key is rebuilt from the database on the next reservation anyway.
var restoreSlotScript = redis.NewScript(`
	if redis.call('EXISTS', KEYS[1]) == 0 then
		return 0
	end
	return redis.call('INCR', KEYS[1])
`)

// adjustSlotScript applies a quota change to a loaded day only; an unloaded
// day picks up the new quota when it is first read from the database.
var adjustSlotScript = redis.NewScript(`
	if redis.call('EXISTS', KEYS[1]) == 0 then
		return 0
	end
	redis.call('INCRBY', KEYS[1], ARGV[1])
	redis.call('EXPIRE', KEYS[1], ARGV[2])
	return 1
`)

const (
	RedisSlotKeyPrefix  = "department:slots:"
	RedisQueueKeyPrefix = "department:queue:"

	syncBatchSize = 500

	mutexCleanupInterval = 10 * time.Minute
	mutexStaleThreshold  = 10 * time.Minute
)

// SlotService keeps the remaining daily booking slots and the last queue number
// of every department day in Redis. The database stays the source of truth:
// counters are rebuilt from bookings on startup and whenever a day is first used.
type SlotService struct {
	bookingRepo repository.BookingRepository
	redisClient *redis.Client
	log         *logrus.Logger

	// Per department day mutex, keyed by "department:date"
	slotMu sync.Map

	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

type mutexWithTimestamp struct {
	mu       sync.Mutex
	lastUsed atomic.Int64
}

// NewSlotService starts the background mutex cleanup; call Stop on shutdown.
func NewSlotService(bookingRepo repository.BookingRepository, redisClient *redis.Client, log *logrus.Logger) *SlotService {
	svc := &SlotService{
		bookingRepo: bookingRepo,
		redisClient: redisClient,
		log:         log,
		stopChan:    make(chan struct{}),
	}

	svc.wg.Add(1)
	go svc.cleanupMutexMapLoop()

	return svc
}

// Stop is safe to call more than once.
func (s *SlotService) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopChan)
		s.wg.Wait()
		s.log.Info("SlotService stopped")
	}
}

// SyncOnStartup rebuilds the counters of today and every later day that has
// bookings. Batches are written with one pipeline each.
func (s *SlotService) SyncOnStartup(ctx context.Context) error {
	s.log.Info("Starting slot re-sync from database...")
	startTime := time.Now()

	if err := s.redisClient.Ping(ctx).Err(); err != nil {
		s.log.Warnf("Redis is not available, skipping sync: %+v", err)
		return fmt.Errorf("redis ping failed: %w", err)
	}

	offset := 0
	totalSynced := 0

	for {
		usages, err := s.bookingRepo.SlotUsageFrom(ctx, Today(), syncBatchSize, offset)
		if err != nil {
			s.log.Errorf("Failed to query slot usage at offset %d: %+v", offset, err)
			return fmt.Errorf("query slot usage at offset %d: %w", offset, err)
		}

		if len(usages) == 0 {
			break
		}

		pipe := s.redisClient.TxPipeline()
		for _, usage := range usages {
			ttl := calculateTTL(usage.AppointmentDate)
			pipe.Set(ctx, slotKey(usage.DepartmentID, usage.AppointmentDate), slotBalance(usage), ttl)
			pipe.Set(ctx, queueKey(usage.DepartmentID, usage.AppointmentDate), usage.MaxQueueNumber, ttl)
		}
		if _, err := pipe.Exec(ctx); err != nil {
			s.log.Errorf("Failed to execute pipeline for batch at offset %d: %+v", offset, err)
			return fmt.Errorf("pipeline exec at offset %d: %w", offset, err)
		}

		totalSynced += len(usages)

		if len(usages) < syncBatchSize {
			break
		}
		offset += syncBatchSize

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	s.log.Infof("Slot re-sync completed: %d department days synced in %v", totalSynced, time.Since(startTime))
	return nil
}

// Reserve takes one slot of the department's quota on date and returns the
// queue number assigned to the booking.
func (s *SlotService) Reserve(ctx context.Context, departmentID int, date time.Time) (int, error) {
	keys := []string{slotKey(departmentID, date), queueKey(departmentID, date)}

	result, err := reserveSlotScript.Run(ctx, s.redisClient, keys).Int()
	if err != nil {
		s.log.Warnf("Failed to reserve slot for department %d on %s: %+v", departmentID, date.Format(entity.DateLayout), err)
		return 0, fmt.Errorf("reserve slot for department %d: %w", departmentID, err)
	}

	if result == -2 {
		if err := s.loadDay(ctx, departmentID, date); err != nil {
			return 0, err
		}
		result, err = reserveSlotScript.Run(ctx, s.redisClient, keys).Int()
		if err != nil {
			s.log.Warnf("Failed to reserve slot for department %d on %s: %+v", departmentID, date.Format(entity.DateLayout), err)
			return 0, fmt.Errorf("reserve slot for department %d: %w", departmentID, err)
		}
	}

	if result < 0 {
		return 0, ErrQuotaFull
	}

	return result, nil
}

// Restore gives back the slot of a cancelled booking. Queue numbers are never reused.
func (s *SlotService) Restore(ctx context.Context, departmentID int, date time.Time) error {
	if err := restoreSlotScript.Run(ctx, s.redisClient, []string{slotKey(departmentID, date)}).Err(); err != nil {
		s.log.Warnf("Failed to restore slot for department %d on %s: %+v", departmentID, date.Format(entity.DateLayout), err)
		return fmt.Errorf("restore slot for department %d: %w", departmentID, err)
	}
	return nil
}

// Remaining reports how many slots are left for the department on date.
func (s *SlotService) Remaining(ctx context.Context, departmentID int, date time.Time) (int, error) {
	n, err := s.redisClient.Get(ctx, slotKey(departmentID, date)).Int()
	if err == nil {
		return max(n, 0), nil
	}
	if !errors.Is(err, redis.Nil) {
		s.log.Warnf("Failed to read slots for department %d: %+v", departmentID, err)
		return 0, err
	}

	usage, err := s.bookingRepo.SlotUsageFor(ctx, departmentID, date)
	if err != nil {
		s.log.Warnf("Failed to query slot usage for department %d: %+v", departmentID, err)
		return 0, err
	}
	if usage == nil {
		return 0, ErrDepartmentNotFound
	}
	return max(slotBalance(*usage), 0), nil
}

// ApplyQuotaDelta shifts every loaded day of the department from today on by
// delta after an admin changes the daily quota. A cut below the booked count
// leaves a deficit that a later raise pays back first.
func (s *SlotService) ApplyQuotaDelta(ctx context.Context, departmentID int, delta int) error {
	if delta == 0 {
		return nil
	}

	keys, err := s.departmentKeys(ctx, RedisSlotKeyPrefix, departmentID)
	if err != nil {
		return err
	}

	today := Today()
	for _, key := range keys {
		date, ok := dateFromKey(key)
		if !ok || date.Before(today) {
			continue
		}

		if err := s.applyDelta(ctx, departmentID, date, key, delta); err != nil {
			return err
		}
	}

	return nil
}

func (s *SlotService) applyDelta(ctx context.Context, departmentID int, date time.Time, key string, delta int) error {
	mt := s.dayMutex(departmentID, date)
	mt.mu.Lock()
	defer mt.mu.Unlock()

	ttl := int64(calculateTTL(date) / time.Second)
	if err := adjustSlotScript.Run(ctx, s.redisClient, []string{key}, delta, ttl).Err(); err != nil {
		s.log.Warnf("Failed to update slots delta for %s: %+v", key, err)
		return fmt.Errorf("update slots delta for %s: %w", key, err)
	}

	return nil
}

// DeleteDepartmentKeys drops every counter of a deleted department.
func (s *SlotService) DeleteDepartmentKeys(ctx context.Context, departmentID int) error {
	var keys []string
	for _, prefix := range []string{RedisSlotKeyPrefix, RedisQueueKeyPrefix} {
		found, err := s.departmentKeys(ctx, prefix, departmentID)
		if err != nil {
			return err
		}
		keys = append(keys, found...)
	}

	if len(keys) == 0 {
		return nil
	}

	if err := s.redisClient.Del(ctx, keys...).Err(); err != nil {
		s.log.Warnf("Failed to delete Redis keys for department %d: %+v", departmentID, err)
		return fmt.Errorf("delete redis keys for department %d: %w", departmentID, err)
	}

	prefix := fmt.Sprintf("%d:", departmentID)
	s.slotMu.Range(func(key, _ any) bool {
		if k, ok := key.(string); ok && strings.HasPrefix(k, prefix) {
			s.slotMu.Delete(k)
		}
		return true
	})

	return nil
}

// loadDay seeds the counters of one department day from the database unless
// another request already did.
func (s *SlotService) loadDay(ctx context.Context, departmentID int, date time.Time) error {
	mt := s.dayMutex(departmentID, date)
	mt.mu.Lock()
	defer mt.mu.Unlock()

	usage, err := s.bookingRepo.SlotUsageFor(ctx, departmentID, date)
	if err != nil {
		s.log.Warnf("Failed to query slot usage for department %d: %+v", departmentID, err)
		return fmt.Errorf("query slot usage for department %d: %w", departmentID, err)
	}
	if usage == nil {
		return ErrDepartmentNotFound
	}

	ttl := calculateTTL(date)
	pipe := s.redisClient.TxPipeline()
	pipe.SetNX(ctx, slotKey(departmentID, date), slotBalance(*usage), ttl)
	pipe.SetNX(ctx, queueKey(departmentID, date), usage.MaxQueueNumber, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warnf("Failed to load slots for department %d: %+v", departmentID, err)
		return fmt.Errorf("load slots for department %d: %w", departmentID, err)
	}

	return nil
}

func (s *SlotService) departmentKeys(ctx context.Context, prefix string, departmentID int) ([]string, error) {
	pattern := fmt.Sprintf("%s%d:*", prefix, departmentID)

	var keys []string
	iter := s.redisClient.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		s.log.Warnf("Failed to scan keys %s: %+v", pattern, err)
		return nil, fmt.Errorf("scan keys %s: %w", pattern, err)
	}
	return keys, nil
}

func (s *SlotService) dayMutex(departmentID int, date time.Time) *mutexWithTimestamp {
	key := fmt.Sprintf("%d:%s", departmentID, date.Format(entity.DateLayout))
	mt, _ := s.slotMu.LoadOrStore(key, &mutexWithTimestamp{})
	result := mt.(*mutexWithTimestamp)
	result.lastUsed.Store(time.Now().Unix())
	return result
}

func (s *SlotService) cleanupMutexMapLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(mutexCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanupStaleMutexes()
		}
	}
}

func (s *SlotService) cleanupStaleMutexes() {
	cutoffTime := time.Now().Add(-mutexStaleThreshold).Unix()
	var cleaned int

	s.slotMu.Range(func(key, value any) bool {
		mt, ok := value.(*mutexWithTimestamp)
		if !ok {
			return true
		}

		// lastUsed is checked under the lock so a concurrent user is never evicted
		if mt.mu.TryLock() {
			if mt.lastUsed.Load() < cutoffTime {
				s.slotMu.Delete(key)
				cleaned++
			}
			mt.mu.Unlock()
		}
		return true
	})

	if cleaned > 0 {
		s.log.Debugf("Cleaned up %d stale mutexes", cleaned)
	}
}

// Today is the current calendar day in UTC, the zone dates are parsed in.
func Today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}

func slotKey(departmentID int, date time.Time) string {
	return fmt.Sprintf("%s%d:%s", RedisSlotKeyPrefix, departmentID, date.Format(entity.DateLayout))
}

func queueKey(departmentID int, date time.Time) string {
	return fmt.Sprintf("%s%d:%s", RedisQueueKeyPrefix, departmentID, date.Format(entity.DateLayout))
}

func dateFromKey(key string) (time.Time, bool) {
	i := strings.LastIndex(key, ":")
	if i < 0 {
		return time.Time{}, false
	}
	date, err := time.Parse(entity.DateLayout, key[i+1:])
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

// slotBalance is negative when more is booked than the quota allows
func slotBalance(usage repository.SlotUsage) int {
	return usage.DailyQuota - usage.Booked
}

// calculateTTL keeps a day's counters until the end of the following day.
func calculateTTL(date time.Time) time.Duration {
	ttl := time.Until(date.AddDate(0, 0, 2))
	if ttl <= 0 {
		return time.Minute
	}
	return ttl
}
