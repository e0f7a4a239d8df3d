package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/Mdmuzammil18/BayerHealthCare/internal/model"
	"github.com/Mdmuzammil18/BayerHealthCare/internal/repository"
	pkgerrors "github.com/Mdmuzammil18/BayerHealthCare/pkg/errors"
)

// ── 内存存储 ──
//
// 四个 mock Repository 共享同一份数据，模拟唯一约束与预加载；不支持事务回滚，
// Repository.Transaction 在 db 为空时以互斥锁串行执行。

type memStore struct {
	mu          sync.Mutex
	seq         int
	users       map[string]*model.User
	shifts      map[string]*model.Shift
	assignments map[string]*model.ShiftAssignment // key: shiftID|userID
	attendances map[string]*model.Attendance      // key: shiftID|userID

	// failWith 非空时所有读写返回该错误，用于模拟持久化层故障
	failWith error
}

func newMemStore() *memStore {
	return &memStore{
		users:       make(map[string]*model.User),
		shifts:      make(map[string]*model.Shift),
		assignments: make(map[string]*model.ShiftAssignment),
		attendances: make(map[string]*model.Attendance),
	}
}

func pairKey(shiftID, userID string) string { return shiftID + "|" + userID }

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%03d", prefix, s.seq)
}

// tick 单调递增的时间戳，保证创建顺序可比较
func (s *memStore) tick() time.Time {
	s.seq++
	return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(s.seq) * time.Second)
}

func newMockRepository(store *memStore) *repository.Repository {
	return &repository.Repository{
		User:       &mockUserRepo{s: store},
		Shift:      &mockShiftRepo{s: store},
		Assignment: &mockAssignmentRepo{s: store},
		Attendance: &mockAttendanceRepo{s: store},
	}
}

func sameDate(a, b time.Time) bool {
	return a.Format(dateLayout) == b.Format(dateLayout)
}

// ── Mock UserRepository ──

type mockUserRepo struct{ s *memStore }

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failWith != nil {
		return m.s.failWith
	}
	for _, u := range m.s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.UserID == "" {
		user.UserID = m.s.nextID("user")
	}
	user.CreatedAt = m.s.tick()
	cp := *user
	m.s.users[user.UserID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failWith != nil {
		return nil, m.s.failWith
	}
	if u, ok := m.s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.User, error) {
	return m.GetByID(ctx, id)
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failWith != nil {
		return nil, m.s.failWith
	}
	for _, u := range m.s.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failWith != nil {
		return m.s.failWith
	}
	for _, u := range m.s.users {
		if u.UserID != user.UserID && strings.EqualFold(u.Email, user.Email) {
			return gorm.ErrDuplicatedKey
		}
	}
	cp := *user
	m.s.users[user.UserID] = &cp
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.s.users, id)
	// 外键级联
	for k, a := range m.s.assignments {
		if a.UserID == id {
			delete(m.s.assignments, k)
			delete(m.s.attendances, k)
		}
	}
	return nil
}

func (m *mockUserRepo) List(_ context.Context, filter repository.UserFilter, offset, limit int) ([]model.User, int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var all []model.User
	for _, u := range m.s.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.Department != "" && (u.Department == nil || *u.Department != filter.Department) {
			continue
		}
		if filter.StaffRole != "" && (u.StaffRole == nil || *u.StaffRole != filter.StaffRole) {
			continue
		}
		if filter.Keyword != "" && !strings.Contains(u.Name, filter.Keyword) && !strings.Contains(u.Email, filter.Keyword) {
			continue
		}
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	total := int64(len(all))
	if offset >= len(all) {
		return []model.User{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// ── Mock ShiftRepository ──

type mockShiftRepo struct{ s *memStore }

func (m *mockShiftRepo) Create(_ context.Context, shift *model.Shift) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failWith != nil {
		return m.s.failWith
	}
	if shift.ShiftID == "" {
		shift.ShiftID = m.s.nextID("shift")
	}
	if shift.Version == 0 {
		shift.Version = 1
	}
	cp := *shift
	cp.Assignments = nil
	m.s.shifts[shift.ShiftID] = &cp
	return nil
}

func (m *mockShiftRepo) GetByID(_ context.Context, id string) (*model.Shift, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failWith != nil {
		return nil, m.s.failWith
	}
	if sh, ok := m.s.shifts[id]; ok {
		cp := *sh
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShiftRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Shift, error) {
	return m.GetByID(ctx, id)
}

func (m *mockShiftRepo) Update(_ context.Context, shift *model.Shift) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	cur, ok := m.s.shifts[shift.ShiftID]
	if !ok || cur.Version != shift.Version {
		return pkgerrors.ErrOptimisticLock
	}
	shift.Version++
	cp := *shift
	cp.Assignments = nil
	m.s.shifts[shift.ShiftID] = &cp
	return nil
}

func (m *mockShiftRepo) Delete(_ context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.shifts[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.s.shifts, id)
	return nil
}

func (m *mockShiftRepo) List(_ context.Context, filter repository.ShiftFilter) ([]model.Shift, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failWith != nil {
		return nil, m.s.failWith
	}
	var result []model.Shift
	for _, sh := range m.s.shifts {
		d := sh.Date.Format(dateLayout)
		if filter.Date != nil && d != filter.Date.Format(dateLayout) {
			continue
		}
		if filter.From != nil && d < filter.From.Format(dateLayout) {
			continue
		}
		if filter.To != nil && d > filter.To.Format(dateLayout) {
			continue
		}
		if filter.Type != "" && sh.Type != filter.Type {
			continue
		}
		cp := *sh
		cp.Assignments = m.s.assignmentsOfShift(sh.ShiftID)
		result = append(result, cp)
	}
	sort.Slice(result, func(i, j int) bool {
		di, dj := result[i].Date.Format(dateLayout), result[j].Date.Format(dateLayout)
		if di != dj {
			return di < dj
		}
		if result[i].StartTime != result[j].StartTime {
			return result[i].StartTime < result[j].StartTime
		}
		return result[i].ShiftID < result[j].ShiftID
	})
	return result, nil
}

func (m *mockShiftRepo) ListByDateWithAssignments(ctx context.Context, date time.Time) ([]model.Shift, error) {
	return m.List(ctx, repository.ShiftFilter{Date: &date})
}

// assignmentsOfShift 调用方需持有锁
func (s *memStore) assignmentsOfShift(shiftID string) []model.ShiftAssignment {
	var list []model.ShiftAssignment
	for _, a := range s.assignments {
		if a.ShiftID != shiftID {
			continue
		}
		cp := *a
		if u, ok := s.users[a.UserID]; ok {
			uc := *u
			cp.User = &uc
		}
		list = append(list, cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct{ s *memStore }

func (m *mockAssignmentRepo) Create(_ context.Context, a *model.ShiftAssignment) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failWith != nil {
		return m.s.failWith
	}
	key := pairKey(a.ShiftID, a.UserID)
	if _, ok := m.s.assignments[key]; ok {
		return gorm.ErrDuplicatedKey
	}
	a.AssignmentID = m.s.nextID("asg")
	a.CreatedAt = m.s.tick()
	cp := *a
	cp.Shift, cp.User = nil, nil
	m.s.assignments[key] = &cp
	return nil
}

func (m *mockAssignmentRepo) Get(_ context.Context, shiftID, userID string) (*model.ShiftAssignment, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failWith != nil {
		return nil, m.s.failWith
	}
	if a, ok := m.s.assignments[pairKey(shiftID, userID)]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) Delete(_ context.Context, shiftID, userID string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failWith != nil {
		return m.s.failWith
	}
	key := pairKey(shiftID, userID)
	if _, ok := m.s.assignments[key]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.s.assignments, key)
	return nil
}

func (m *mockAssignmentRepo) DeleteByShift(_ context.Context, shiftID string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for k, a := range m.s.assignments {
		if a.ShiftID == shiftID {
			delete(m.s.assignments, k)
		}
	}
	return nil
}

func (m *mockAssignmentRepo) CountByShift(_ context.Context, shiftID string) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failWith != nil {
		return 0, m.s.failWith
	}
	var n int64
	for _, a := range m.s.assignments {
		if a.ShiftID == shiftID {
			n++
		}
	}
	return n, nil
}

func (m *mockAssignmentRepo) ListByShift(_ context.Context, shiftID string) ([]model.ShiftAssignment, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return m.s.assignmentsOfShift(shiftID), nil
}

func (m *mockAssignmentRepo) ListByUserOnDate(ctx context.Context, userID string, date time.Time) ([]model.ShiftAssignment, error) {
	return m.ListByUserInRange(ctx, userID, date, date)
}

func (m *mockAssignmentRepo) ListByUserInRange(_ context.Context, userID string, from, to time.Time) ([]model.ShiftAssignment, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failWith != nil {
		return nil, m.s.failWith
	}
	lo, hi := from.Format(dateLayout), to.Format(dateLayout)
	var list []model.ShiftAssignment
	for _, a := range m.s.assignments {
		if a.UserID != userID {
			continue
		}
		sh, ok := m.s.shifts[a.ShiftID]
		if !ok {
			continue
		}
		d := sh.Date.Format(dateLayout)
		if d < lo || d > hi {
			continue
		}
		cp := *a
		sc := *sh
		sc.Assignments = nil
		cp.Shift = &sc
		list = append(list, cp)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Shift.StartTime != list[j].Shift.StartTime {
			return list[i].Shift.StartTime < list[j].Shift.StartTime
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list, nil
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct{ s *memStore }

func (m *mockAttendanceRepo) Create(_ context.Context, a *model.Attendance) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failWith != nil {
		return m.s.failWith
	}
	key := pairKey(a.ShiftID, a.UserID)
	if _, ok := m.s.attendances[key]; ok {
		return gorm.ErrDuplicatedKey
	}
	if _, ok := m.s.assignments[key]; !ok {
		return gorm.ErrForeignKeyViolated
	}
	a.AttendanceID = m.s.nextID("att")
	cp := *a
	cp.Shift, cp.User = nil, nil
	m.s.attendances[key] = &cp
	return nil
}

// findAttendance 调用方需持有锁
func (s *memStore) findAttendance(id string) (*model.Attendance, bool) {
	for _, a := range s.attendances {
		if a.AttendanceID == id {
			return a, true
		}
	}
	return nil, false
}

func (m *mockAttendanceRepo) GetByID(_ context.Context, id string) (*model.Attendance, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failWith != nil {
		return nil, m.s.failWith
	}
	a, ok := m.s.findAttendance(id)
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	if sh, ok := m.s.shifts[a.ShiftID]; ok {
		sc := *sh
		sc.Assignments = nil
		cp.Shift = &sc
	}
	return &cp, nil
}

func (m *mockAttendanceRepo) GetByIDForUpdate(_ context.Context, id string) (*model.Attendance, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failWith != nil {
		return nil, m.s.failWith
	}
	a, ok := m.s.findAttendance(id)
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	cp.CheckIn = copyTime(a.CheckIn)
	cp.CheckOut = copyTime(a.CheckOut)
	return &cp, nil
}

func (m *mockAttendanceRepo) GetByShiftAndUser(_ context.Context, shiftID, userID string) (*model.Attendance, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failWith != nil {
		return nil, m.s.failWith
	}
	if a, ok := m.s.attendances[pairKey(shiftID, userID)]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) SetCheckIn(_ context.Context, shiftID, userID string, at time.Time, status model.AttendanceStatus) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failWith != nil {
		return false, m.s.failWith
	}
	a, ok := m.s.attendances[pairKey(shiftID, userID)]
	if !ok || a.CheckIn != nil {
		return false, nil
	}
	t := at
	a.CheckIn = &t
	a.Status = status
	return true, nil
}

func (m *mockAttendanceRepo) SetCheckOut(_ context.Context, id string, expectedCheckIn, at time.Time, status model.AttendanceStatus) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failWith != nil {
		return false, m.s.failWith
	}
	a, ok := m.s.findAttendance(id)
	if !ok || a.CheckOut != nil || a.CheckIn == nil || !a.CheckIn.Equal(expectedCheckIn) {
		return false, nil
	}
	t := at
	a.CheckOut = &t
	a.Status = status
	return true, nil
}

func (m *mockAttendanceRepo) Update(_ context.Context, att *model.Attendance, prevCheckIn, prevCheckOut *time.Time) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failWith != nil {
		return false, m.s.failWith
	}
	a, ok := m.s.findAttendance(att.AttendanceID)
	if !ok || !sameInstant(a.CheckIn, prevCheckIn) || !sameInstant(a.CheckOut, prevCheckOut) {
		return false, nil
	}
	a.Status = att.Status
	a.CheckIn = copyTime(att.CheckIn)
	a.CheckOut = copyTime(att.CheckOut)
	a.Remarks = att.Remarks
	a.UpdatedBy = att.UpdatedBy
	return true, nil
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}

func (m *mockAttendanceRepo) DeleteByShiftAndUser(_ context.Context, shiftID, userID string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	delete(m.s.attendances, pairKey(shiftID, userID))
	return nil
}

func (m *mockAttendanceRepo) DeleteByShift(_ context.Context, shiftID string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for k, a := range m.s.attendances {
		if a.ShiftID == shiftID {
			delete(m.s.attendances, k)
		}
	}
	return nil
}

func (m *mockAttendanceRepo) List(_ context.Context, filter repository.AttendanceFilter) ([]model.Attendance, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failWith != nil {
		return nil, m.s.failWith
	}
	var list []model.Attendance
	for _, a := range m.s.attendances {
		if filter.UserID != "" && a.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		sh, ok := m.s.shifts[a.ShiftID]
		if !ok {
			continue
		}
		d := sh.Date.Format(dateLayout)
		if filter.From != nil && d < filter.From.Format(dateLayout) {
			continue
		}
		if filter.To != nil && d > filter.To.Format(dateLayout) {
			continue
		}
		cp := *a
		sc := *sh
		sc.Assignments = nil
		cp.Shift = &sc
		if u, ok := m.s.users[a.UserID]; ok {
			uc := *u
			cp.User = &uc
		}
		list = append(list, cp)
	}
	sort.Slice(list, func(i, j int) bool {
		di, dj := list[i].Shift.Date.Format(dateLayout), list[j].Shift.Date.Format(dateLayout)
		if di != dj {
			return di > dj
		}
		return list[i].Shift.StartTime > list[j].Shift.StartTime
	})
	return list, nil
}

func (m *mockAttendanceRepo) ListByShiftIDs(_ context.Context, shiftIDs []string) ([]model.Attendance, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	want := make(map[string]bool, len(shiftIDs))
	for _, id := range shiftIDs {
		want[id] = true
	}
	var list []model.Attendance
	for _, a := range m.s.attendances {
		if want[a.ShiftID] {
			list = append(list, *a)
		}
	}
	return list, nil
}
