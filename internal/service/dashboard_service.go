package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Mdmuzammil18/BayerHealthCare/config"
	"github.com/Mdmuzammil18/BayerHealthCare/internal/dto"
	"github.com/Mdmuzammil18/BayerHealthCare/internal/model"
	"github.com/Mdmuzammil18/BayerHealthCare/internal/repository"
)

// DashboardService 当日仪表盘接口
type DashboardService interface {
	// Today 管理员返回当日全部班次与统计，医护人员返回本人当日班次与出勤
	Today(ctx context.Context, id Identity) (*dto.DashboardResponse, error)
}

type dashboardService struct {
	loc    *time.Location
	now    func() time.Time
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDashboardService 创建 DashboardService 实例
func NewDashboardService(cfg *config.RosterConfig, repo *repository.Repository, logger *zap.Logger) DashboardService {
	return &dashboardService{loc: cfg.Location(), now: time.Now, repo: repo, logger: logger}
}

func (s *dashboardService) Today(ctx context.Context, id Identity) (*dto.DashboardResponse, error) {
	today := calendarDate(s.now(), s.loc)

	shifts, err := s.repo.Shift.List(ctx, repository.ShiftFilter{Date: &today})
	if err != nil {
		return nil, unavailable(s.logger, "查询当日班次失败", err)
	}

	if !id.IsAdmin() {
		shifts = filterShiftsForUser(shifts, id.UserID)
	}

	shiftIDs := make([]string, 0, len(shifts))
	shiftByID := make(map[string]*model.Shift, len(shifts))
	for i := range shifts {
		shiftIDs = append(shiftIDs, shifts[i].ShiftID)
		shiftByID[shifts[i].ShiftID] = &shifts[i]
	}
	attendance, err := s.repo.Attendance.ListByShiftIDs(ctx, shiftIDs)
	if err != nil {
		return nil, unavailable(s.logger, "查询当日出勤失败", err)
	}

	resp := &dto.DashboardResponse{
		Date:   formatDate(today),
		Shifts: make([]dto.ShiftResponse, 0, len(shifts)),
	}
	for i := range shifts {
		resp.Shifts = append(resp.Shifts, toShiftResponse(&shifts[i]))
	}

	if id.IsAdmin() {
		resp.Stats = buildStats(shifts, attendance)
		return resp, nil
	}

	resp.Attendance = make([]dto.AttendanceResponse, 0)
	for i := range attendance {
		a := &attendance[i]
		if a.UserID != id.UserID {
			continue
		}
		a.Shift = shiftByID[a.ShiftID]
		resp.Attendance = append(resp.Attendance, toAttendanceResponse(a))
	}
	return resp, nil
}

func filterShiftsForUser(shifts []model.Shift, userID string) []model.Shift {
	mine := make([]model.Shift, 0)
	for _, shift := range shifts {
		for _, a := range shift.Assignments {
			if a.UserID == userID {
				mine = append(mine, shift)
				break
			}
		}
	}
	return mine
}

func buildStats(shifts []model.Shift, attendance []model.Attendance) *dto.DashboardStats {
	stats := &dto.DashboardStats{TotalShifts: len(shifts)}
	for _, shift := range shifts {
		assigned := len(shift.Assignments)
		stats.TotalAssignments += assigned
		stats.TotalCapacity += shift.Capacity
		if free := shift.Capacity - assigned; free > 0 {
			stats.AvailableSlots += free
		}
	}
	for _, a := range attendance {
		switch a.Status {
		case model.AttendancePresent:
			stats.Attendance.Present++
		case model.AttendanceLate:
			stats.Attendance.Late++
		case model.AttendanceAbsent:
			stats.Attendance.Absent++
		case model.AttendanceEarlyExit:
			stats.Attendance.EarlyExit++
		}
	}
	return stats
}
