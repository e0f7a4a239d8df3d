package service

import (
	"time"

	"github.com/Mdmuzammil18/BayerHealthCare/config"
	"github.com/Mdmuzammil18/BayerHealthCare/internal/model"
)

var (
	adminID = Identity{UserID: "admin-001", Role: model.RoleAdmin}
	testDay = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
)

func testRosterConfig() *config.RosterConfig {
	return &config.RosterConfig{Timezone: "UTC", ConflictDays: 7, ConflictMaxDays: 31}
}

func staffIdentity(userID string) Identity {
	return Identity{UserID: userID, Role: model.RoleStaff}
}

// clockAt 返回 testDay 当天 hh:mm:ss 的 UTC 时间
func clockAt(hh, mm, ss int) time.Time {
	return testDay.Add(time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute + time.Duration(ss)*time.Second)
}

func seedStaff(s *memStore, id, name string) *model.User {
	dept := model.DeptICU
	role := model.StaffRoleNurse
	u := &model.User{
		UserID:     id,
		Name:       name,
		Email:      id + "@hospital.test",
		Role:       model.RoleStaff,
		StaffRole:  &role,
		Department: &dept,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u.CreatedAt = s.tick()
	s.users[id] = u
	return u
}

func seedAdmin(s *memStore, id string) *model.User {
	u := &model.User{UserID: id, Name: "管理员", Email: id + "@hospital.test", Role: model.RoleAdmin}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[id] = u
	return u
}

func seedShift(s *memStore, id string, date time.Time, start, end string, capacity int) *model.Shift {
	sh := &model.Shift{
		ShiftID:   id,
		Date:      date,
		Type:      model.ShiftTypeMorning,
		StartTime: start,
		EndTime:   end,
		Capacity:  capacity,
	}
	sh.Version = 1
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shifts[id] = sh
	return sh
}

// seedAssignment 直接写入排班及其 ABSENT 出勤记录
func seedAssignment(s *memStore, shiftID, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey(shiftID, userID)
	s.assignments[key] = &model.ShiftAssignment{
		AssignmentID: s.nextID("asg"),
		ShiftID:      shiftID,
		UserID:       userID,
		CreatedAt:    s.tick(),
	}
	s.attendances[key] = &model.Attendance{
		AttendanceID: s.nextID("att"),
		ShiftID:      shiftID,
		UserID:       userID,
		Status:       model.AttendanceAbsent,
	}
}
