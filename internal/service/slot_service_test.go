package service

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"hospital-management/internal/domain/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBookingRepo serves slot usage only; other calls panic on the nil embedded interface.
type fakeBookingRepo struct {
	repository.BookingRepository
	mu       sync.Mutex
	usage    map[int]repository.SlotUsage
	upcoming []repository.SlotUsage
	calls    int
}

func (f *fakeBookingRepo) SlotUsageFor(ctx context.Context, departmentID int, date time.Time) (*repository.SlotUsage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	u, ok := f.usage[departmentID]
	if !ok {
		return nil, nil
	}
	u.AppointmentDate = date
	return &u, nil
}

func (f *fakeBookingRepo) SlotUsageFrom(ctx context.Context, from time.Time, limit, offset int) ([]repository.SlotUsage, error) {
	if offset >= len(f.upcoming) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.upcoming) {
		end = len(f.upcoming)
	}
	return f.upcoming[offset:end], nil
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestSlotService(t *testing.T, repo *fakeBookingRepo) (*SlotService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	svc := NewSlotService(repo, client, newTestLogger())
	t.Cleanup(svc.Stop)
	return svc, mr
}

func TestReserve_LoadsDayAndAssignsQueueNumbers(t *testing.T) {
	repo := &fakeBookingRepo{usage: map[int]repository.SlotUsage{
		1: {DepartmentID: 1, DailyQuota: 3, Booked: 1, MaxQueueNumber: 1},
	}}
	svc, _ := newTestSlotService(t, repo)
	ctx := context.Background()
	date := Today().AddDate(0, 0, 1)

	first, err := svc.Reserve(ctx, 1, date)
	require.NoError(t, err)
	assert.Equal(t, 2, first)

	second, err := svc.Reserve(ctx, 1, date)
	require.NoError(t, err)
	assert.Equal(t, 3, second)

	_, err = svc.Reserve(ctx, 1, date)
	assert.ErrorIs(t, err, ErrQuotaFull)

	// The day is loaded from the database once
	assert.Equal(t, 1, repo.calls)
}

func TestReserve_UnknownDepartment(t *testing.T) {
	svc, _ := newTestSlotService(t, &fakeBookingRepo{usage: map[int]repository.SlotUsage{}})

	_, err := svc.Reserve(context.Background(), 42, Today())
	assert.ErrorIs(t, err, ErrDepartmentNotFound)
}

func TestReserve_ConcurrentRequestsNeverOverbook(t *testing.T) {
	repo := &fakeBookingRepo{usage: map[int]repository.SlotUsage{
		7: {DepartmentID: 7, DailyQuota: 5},
	}}
	svc, _ := newTestSlotService(t, repo)
	date := Today()

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		queues []int
		full   int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q, err := svc.Reserve(context.Background(), 7, date)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				full++
				return
			}
			queues = append(queues, q)
		}()
	}
	wg.Wait()

	assert.Len(t, queues, 5)
	assert.Equal(t, 15, full)
	assert.ElementsMatch(t, []int{1, 2, 3, 4, 5}, queues)
}

func TestRestore_ReturnsSlotButKeepsQueue(t *testing.T) {
	repo := &fakeBookingRepo{usage: map[int]repository.SlotUsage{
		1: {DepartmentID: 1, DailyQuota: 1},
	}}
	svc, _ := newTestSlotService(t, repo)
	ctx := context.Background()
	date := Today()

	q, err := svc.Reserve(ctx, 1, date)
	require.NoError(t, err)
	assert.Equal(t, 1, q)

	require.NoError(t, svc.Restore(ctx, 1, date))

	q, err = svc.Reserve(ctx, 1, date)
	require.NoError(t, err)
	assert.Equal(t, 2, q)
}

func TestRestore_UnloadedDayIsNoop(t *testing.T) {
	svc, mr := newTestSlotService(t, &fakeBookingRepo{})

	require.NoError(t, svc.Restore(context.Background(), 1, Today()))
	assert.False(t, mr.Exists(slotKey(1, Today())))
}

func TestRemaining(t *testing.T) {
	repo := &fakeBookingRepo{usage: map[int]repository.SlotUsage{
		1: {DepartmentID: 1, DailyQuota: 10, Booked: 4},
	}}
	svc, _ := newTestSlotService(t, repo)
	ctx := context.Background()
	date := Today()

	n, err := svc.Remaining(ctx, 1, date)
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	_, err = svc.Reserve(ctx, 1, date)
	require.NoError(t, err)

	n, err = svc.Remaining(ctx, 1, date)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestApplyQuotaDelta(t *testing.T) {
	repo := &fakeBookingRepo{usage: map[int]repository.SlotUsage{
		1: {DepartmentID: 1, DailyQuota: 2},
	}}
	svc, mr := newTestSlotService(t, repo)
	ctx := context.Background()
	date := Today().AddDate(0, 0, 3)
	past := Today().AddDate(0, 0, -3)

	_, err := svc.Reserve(ctx, 1, date)
	require.NoError(t, err)
	require.NoError(t, mr.Set(slotKey(1, past), "0"))

	require.NoError(t, svc.ApplyQuotaDelta(ctx, 1, 3))
	got, err := mr.Get(slotKey(1, date))
	require.NoError(t, err)
	assert.Equal(t, "4", got)

	pastVal, err := mr.Get(slotKey(1, past))
	require.NoError(t, err)
	assert.Equal(t, "0", pastVal)

	require.NoError(t, svc.ApplyQuotaDelta(ctx, 1, -10))
	got, err = mr.Get(slotKey(1, date))
	require.NoError(t, err)
	assert.Equal(t, "-6", got)

	n, err := svc.Remaining(ctx, 1, date)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = svc.Reserve(ctx, 1, date)
	assert.ErrorIs(t, err, ErrQuotaFull)
}

func TestApplyQuotaDelta_ShrinkThenGrowKeepsBookedCount(t *testing.T) {
	repo := &fakeBookingRepo{usage: map[int]repository.SlotUsage{
		1: {DepartmentID: 1, DailyQuota: 10, Booked: 8, MaxQueueNumber: 8},
	}}
	svc, _ := newTestSlotService(t, repo)
	ctx := context.Background()
	date := Today().AddDate(0, 0, 1)

	n, err := svc.Remaining(ctx, 1, date)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Load the day so the deltas land on a live counter
	queue, err := svc.Reserve(ctx, 1, date)
	require.NoError(t, err)
	assert.Equal(t, 9, queue)

	require.NoError(t, svc.ApplyQuotaDelta(ctx, 1, -5))
	require.NoError(t, svc.ApplyQuotaDelta(ctx, 1, 5))

	n, err = svc.Remaining(ctx, 1, date)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	held := 9
	for {
		if _, err := svc.Reserve(ctx, 1, date); err != nil {
			require.ErrorIs(t, err, ErrQuotaFull)
			break
		}
		held++
		require.LessOrEqual(t, held, 10)
	}
	assert.Equal(t, 10, held)
}

func TestApplyQuotaDelta_SkipsUnloadedDay(t *testing.T) {
	repo := &fakeBookingRepo{usage: map[int]repository.SlotUsage{
		1: {DepartmentID: 1, DailyQuota: 3},
	}}
	svc, mr := newTestSlotService(t, repo)
	ctx := context.Background()

	require.NoError(t, svc.ApplyQuotaDelta(ctx, 1, 4))
	assert.False(t, mr.Exists(slotKey(1, Today())))
}

func TestSyncOnStartup(t *testing.T) {
	tomorrow := Today().AddDate(0, 0, 1)
	repo := &fakeBookingRepo{upcoming: []repository.SlotUsage{
		{DepartmentID: 1, AppointmentDate: tomorrow, DailyQuota: 10, Booked: 3, MaxQueueNumber: 5},
		{DepartmentID: 2, AppointmentDate: tomorrow, DailyQuota: 2, Booked: 4, MaxQueueNumber: 4},
	}}
	svc, mr := newTestSlotService(t, repo)

	require.NoError(t, svc.SyncOnStartup(context.Background()))

	slots, _ := mr.Get(slotKey(1, tomorrow))
	queue, _ := mr.Get(queueKey(1, tomorrow))
	assert.Equal(t, "7", slots)
	assert.Equal(t, "5", queue)

	overbooked, _ := mr.Get(slotKey(2, tomorrow))
	assert.Equal(t, "-2", overbooked)
	assert.True(t, mr.TTL(slotKey(1, tomorrow)) > 0)
}

func TestDeleteDepartmentKeys(t *testing.T) {
	repo := &fakeBookingRepo{usage: map[int]repository.SlotUsage{
		1:  {DepartmentID: 1, DailyQuota: 2},
		11: {DepartmentID: 11, DailyQuota: 2},
	}}
	svc, mr := newTestSlotService(t, repo)
	ctx := context.Background()

	_, err := svc.Reserve(ctx, 1, Today())
	require.NoError(t, err)
	_, err = svc.Reserve(ctx, 11, Today())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteDepartmentKeys(ctx, 1))
	assert.False(t, mr.Exists(slotKey(1, Today())))
	assert.False(t, mr.Exists(queueKey(1, Today())))
	assert.True(t, mr.Exists(slotKey(11, Today())))
}

func TestStopIsIdempotent(t *testing.T) {
	svc, _ := newTestSlotService(t, &fakeBookingRepo{})
	svc.Stop()
	svc.Stop()
}
