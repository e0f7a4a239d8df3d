package service

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/Mdmuzammil18/BayerHealthCare/internal/dto"
	"github.com/Mdmuzammil18/BayerHealthCare/internal/model"
	"github.com/Mdmuzammil18/BayerHealthCare/internal/repository"
	pkgerrors "github.com/Mdmuzammil18/BayerHealthCare/pkg/errors"
)

func setupTestShiftService() (ShiftService, *memStore) {
	store := newMemStore()
	return NewShiftService(testRosterConfig(), newMockRepository(store), zap.NewNop()), store
}

func ptrTo[T any](v T) *T { return &v }

func TestCreateShift_Success(t *testing.T) {
	svc, _ := setupTestShiftService()

	resp, err := svc.Create(context.Background(), adminID, &dto.CreateShiftRequest{
		Date: "2025-03-10", Type: "NIGHT", StartTime: "22:00", EndTime: "06:00", Capacity: 3,
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if resp.ID == "" || resp.Date != "2025-03-10" || resp.AvailableSlots != 3 || resp.IsFull {
		t.Errorf("班次响应不正确: %+v", resp)
	}
	if resp.Version != 1 {
		t.Errorf("期望初始版本 1，实际: %d", resp.Version)
	}
}

func TestCreateShift_Invalid(t *testing.T) {
	svc, _ := setupTestShiftService()
	ctx := context.Background()

	_, err := svc.Create(ctx, adminID, &dto.CreateShiftRequest{Date: "2025-03-10", Type: "MORNING", StartTime: "8am", EndTime: "16:00", Capacity: 1})
	if !errors.Is(err, ErrInvalidShiftTime) {
		t.Errorf("期望 ErrInvalidShiftTime，实际: %v", err)
	}

	_, err = svc.Create(ctx, adminID, &dto.CreateShiftRequest{Date: "10/03/2025", Type: "MORNING", StartTime: "08:00", EndTime: "16:00", Capacity: 1})
	if !errors.Is(err, ErrInvalidDate) {
		t.Errorf("期望 ErrInvalidDate，实际: %v", err)
	}

	_, err = svc.Create(ctx, staffIdentity("nurse-1"), &dto.CreateShiftRequest{Date: "2025-03-10", Type: "MORNING", StartTime: "08:00", EndTime: "16:00", Capacity: 1})
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("期望 ErrForbidden，实际: %v", err)
	}
}

func TestGetShift_WithAssignments(t *testing.T) {
	svc, store := setupTestShiftService()
	seedShift(store, "shift-a", testDay, "08:00", "16:00", 2)
	seedStaff(store, "nurse-1", "张护士")
	seedStaff(store, "nurse-2", "李护士")
	seedAssignment(store, "shift-a", "nurse-1")
	seedAssignment(store, "shift-a", "nurse-2")

	resp, err := svc.GetByID(context.Background(), "shift-a")
	if err != nil {
		t.Fatalf("GetByID 应成功: %v", err)
	}
	if resp.AssignedCount != 2 || resp.AvailableSlots != 0 || !resp.IsFull {
		t.Errorf("容量统计不正确: %+v", resp)
	}

	if _, err := svc.GetByID(context.Background(), "missing"); !errors.Is(err, ErrShiftNotFound) {
		t.Errorf("期望 ErrShiftNotFound，实际: %v", err)
	}
}

func TestListShifts_Filters(t *testing.T) {
	svc, store := setupTestShiftService()
	seedShift(store, "d1", testDay, "08:00", "16:00", 2)
	seedShift(store, "d2", testDay.AddDate(0, 0, 1), "08:00", "16:00", 2)
	seedShift(store, "d3", testDay.AddDate(0, 0, 2), "08:00", "16:00", 2)

	list, err := svc.List(context.Background(), &dto.ShiftListRequest{Date: "2025-03-11"})
	if err != nil || len(list) != 1 || list[0].ID != "d2" {
		t.Errorf("按日期过滤结果不正确: %+v, %v", list, err)
	}

	list, err = svc.List(context.Background(), &dto.ShiftListRequest{StartDate: "2025-03-11", EndDate: "2025-03-12"})
	if err != nil || len(list) != 2 {
		t.Errorf("按日期范围过滤结果不正确: %+v, %v", list, err)
	}

	_, err = svc.List(context.Background(), &dto.ShiftListRequest{StartDate: "2025-03-12", EndDate: "2025-03-11"})
	if !errors.Is(err, ErrInvalidDateRange) {
		t.Errorf("期望 ErrInvalidDateRange，实际: %v", err)
	}
}

func TestUpdateShift_OptimisticLock(t *testing.T) {
	svc, store := setupTestShiftService()
	seedShift(store, "shift-a", testDay, "08:00", "16:00", 2)

	resp, err := svc.Update(context.Background(), adminID, "shift-a", &dto.UpdateShiftRequest{Capacity: ptrTo(4), Version: 1})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if resp.Capacity != 4 || resp.Version != 2 {
		t.Errorf("期望容量 4 版本 2，实际: %d / %d", resp.Capacity, resp.Version)
	}

	_, err = svc.Update(context.Background(), adminID, "shift-a", &dto.UpdateShiftRequest{Capacity: ptrTo(5), Version: 1})
	if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Errorf("期望 ErrOptimisticLock，实际: %v", err)
	}
}

func TestUpdateShift_CapacityBelowAssigned(t *testing.T) {
	svc, store := setupTestShiftService()
	seedShift(store, "shift-a", testDay, "08:00", "16:00", 3)
	seedStaff(store, "nurse-1", "张护士")
	seedStaff(store, "nurse-2", "李护士")
	seedAssignment(store, "shift-a", "nurse-1")
	seedAssignment(store, "shift-a", "nurse-2")

	_, err := svc.Update(context.Background(), adminID, "shift-a", &dto.UpdateShiftRequest{Capacity: ptrTo(1), Version: 1})
	if !errors.Is(err, ErrCapacityBelowCount) {
		t.Errorf("期望 ErrCapacityBelowCount，实际: %v", err)
	}
}

func TestUpdateShift_TimeChangeCreatesConflict(t *testing.T) {
	svc, store := setupTestShiftService()
	seedShift(store, "day", testDay, "08:00", "12:00", 3)
	seedShift(store, "afternoon", testDay, "13:00", "18:00", 3)
	seedStaff(store, "nurse-1", "张护士")
	seedAssignment(store, "day", "nurse-1")
	seedAssignment(store, "afternoon", "nurse-1")

	_, err := svc.Update(context.Background(), adminID, "day", &dto.UpdateShiftRequest{EndTime: ptrTo("14:00"), Version: 1})
	if !errors.Is(err, ErrSchedulingConflict) {
		t.Fatalf("期望 ErrSchedulingConflict，实际: %v", err)
	}
	if store.shifts["day"].EndTime != "12:00" {
		t.Errorf("冲突时不应写入新时间")
	}
}

// lockLog 记录行锁获取顺序
type lockLog struct {
	mu    sync.Mutex
	locks []string
}

func (l *lockLog) add(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.locks = append(l.locks, key)
}

type lockRecordingShiftRepo struct {
	repository.ShiftRepository
	log *lockLog
}

func (r *lockRecordingShiftRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Shift, error) {
	r.log.add("shift:" + id)
	return r.ShiftRepository.GetByIDForUpdate(ctx, id)
}

type lockRecordingUserRepo struct {
	repository.UserRepository
	log *lockLog
}

func (r *lockRecordingUserRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.User, error) {
	r.log.add("user:" + id)
	return r.UserRepository.GetByIDForUpdate(ctx, id)
}

func TestUpdateShift_TimeChangeLocksAssignees(t *testing.T) {
	store := newMemStore()
	seedShift(store, "day", testDay, "08:00", "12:00", 3)
	seedStaff(store, "nurse-2", "李护士")
	seedStaff(store, "nurse-1", "张护士")
	seedAssignment(store, "day", "nurse-2")
	seedAssignment(store, "day", "nurse-1")

	log := &lockLog{}
	repo := newMockRepository(store)
	repo.Shift = &lockRecordingShiftRepo{ShiftRepository: repo.Shift, log: log}
	repo.User = &lockRecordingUserRepo{UserRepository: repo.User, log: log}
	svc := NewShiftService(testRosterConfig(), repo, zap.NewNop())

	if _, err := svc.Update(context.Background(), adminID, "day", &dto.UpdateShiftRequest{Capacity: ptrTo(4), Version: 1}); err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if want := []string{"shift:day"}; !reflect.DeepEqual(log.locks, want) {
		t.Errorf("未改时间时只应锁定班次，期望 %v，实际: %v", want, log.locks)
	}

	log.locks = nil
	if _, err := svc.Update(context.Background(), adminID, "day", &dto.UpdateShiftRequest{EndTime: ptrTo("14:00"), Version: 2}); err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	want := []string{"shift:day", "user:nurse-1", "user:nurse-2"}
	if !reflect.DeepEqual(log.locks, want) {
		t.Errorf("期望加锁顺序 %v，实际: %v", want, log.locks)
	}
}

func TestDeleteShift_Cascades(t *testing.T) {
	svc, store := setupTestShiftService()
	seedShift(store, "shift-a", testDay, "08:00", "16:00", 3)
	seedStaff(store, "nurse-1", "张护士")
	seedAssignment(store, "shift-a", "nurse-1")

	if err := svc.Delete(context.Background(), adminID, "shift-a"); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if len(store.shifts) != 0 || len(store.assignments) != 0 || len(store.attendances) != 0 {
		t.Errorf("班次及其排班、出勤应全部删除")
	}

	if err := svc.Delete(context.Background(), adminID, "shift-a"); !errors.Is(err, ErrShiftNotFound) {
		t.Errorf("期望 ErrShiftNotFound，实际: %v", err)
	}
}
