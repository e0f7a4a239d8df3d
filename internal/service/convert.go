package service

import (
	"fmt"
	"time"

	"github.com/Mdmuzammil18/BayerHealthCare/internal/dto"
	"github.com/Mdmuzammil18/BayerHealthCare/internal/model"
)

const dateLayout = "2006-01-02"

// parseDate 解析 YYYY-MM-DD，结果统一为 UTC 零点（DATE 列只保留年月日）
func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate.Withf("%q", s)
	}
	return d, nil
}

// parseOptionalDate 空字符串返回 nil
func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := parseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// calendarDate 取 t 在 loc 时区下的日历日，返回该日 UTC 零点
func calendarDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

// describeShift 用于错误信息与日志
func describeShift(shift *model.Shift) string {
	return fmt.Sprintf("%s %s-%s", formatDate(shift.Date), shift.StartTime, shift.EndTime)
}

func toShiftBrief(shift *model.Shift) dto.ShiftBrief {
	return dto.ShiftBrief{
		ID:        shift.ShiftID,
		Date:      formatDate(shift.Date),
		Type:      shift.Type,
		StartTime: shift.StartTime,
		EndTime:   shift.EndTime,
	}
}

func toUserBrief(u *model.User) *dto.UserBrief {
	if u == nil {
		return nil
	}
	return &dto.UserBrief{
		ID:         u.UserID,
		Name:       u.Name,
		Email:      u.Email,
		StaffRole:  u.StaffRole,
		Department: u.Department,
	}
}

func toUserResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:              u.UserID,
		Name:            u.Name,
		Email:           u.Email,
		Role:            u.Role,
		StaffRole:       u.StaffRole,
		Department:      u.Department,
		ShiftPreference: u.ShiftPreference,
		ContactNumber:   u.ContactNumber,
		CreatedAt:       u.CreatedAt.Format(time.RFC3339),
	}
}

func toAssignmentResponse(a *model.ShiftAssignment) dto.AssignmentResponse {
	return dto.AssignmentResponse{
		ID:         a.AssignmentID,
		ShiftID:    a.ShiftID,
		User:       toUserBrief(a.User),
		AssignedAt: a.CreatedAt.Format(time.RFC3339),
	}
}

func toShiftResponse(shift *model.Shift) dto.ShiftResponse {
	assigned := len(shift.Assignments)
	available := shift.Capacity - assigned
	if available < 0 {
		available = 0
	}
	resp := dto.ShiftResponse{
		ID:             shift.ShiftID,
		Date:           formatDate(shift.Date),
		Type:           shift.Type,
		StartTime:      shift.StartTime,
		EndTime:        shift.EndTime,
		Capacity:       shift.Capacity,
		AssignedCount:  assigned,
		AvailableSlots: available,
		IsFull:         assigned >= shift.Capacity,
		Version:        shift.Version,
		Assignments:    make([]dto.AssignmentResponse, 0, assigned),
	}
	for i := range shift.Assignments {
		resp.Assignments = append(resp.Assignments, toAssignmentResponse(&shift.Assignments[i]))
	}
	return resp
}

func toAttendanceResponse(a *model.Attendance) dto.AttendanceResponse {
	resp := dto.AttendanceResponse{
		ID:       a.AttendanceID,
		ShiftID:  a.ShiftID,
		UserID:   a.UserID,
		Status:   string(a.Status),
		CheckIn:  formatTimePtr(a.CheckIn),
		CheckOut: formatTimePtr(a.CheckOut),
		Remarks:  a.Remarks,
		User:     toUserBrief(a.User),
	}
	if a.Shift != nil {
		brief := toShiftBrief(a.Shift)
		resp.Shift = &brief
	}
	return resp
}
