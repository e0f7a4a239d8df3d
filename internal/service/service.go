package service

import (
	"go.uber.org/zap"

	"github.com/Mdmuzammil18/BayerHealthCare/config"
	"github.com/Mdmuzammil18/BayerHealthCare/internal/repository"
	"github.com/Mdmuzammil18/BayerHealthCare/pkg/jwt"
	"github.com/Mdmuzammil18/BayerHealthCare/pkg/metrics"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth       AuthService
	Staff      StaffService
	Shift      ShiftService
	Assignment AssignmentService
	Conflict   ConflictService
	Attendance AttendanceService
	Dashboard  DashboardService
	Export     ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	rec metrics.Recorder,
	logger *zap.Logger,
) *Service {
	roster := &cfg.Roster
	return &Service{
		Auth:       NewAuthService(repo, jwtMgr, blacklist, logger),
		Staff:      NewStaffService(repo, logger),
		Shift:      NewShiftService(roster, repo, logger),
		Assignment: NewAssignmentService(roster, repo, rec, logger),
		Conflict:   NewConflictService(roster, repo, rec, logger),
		Attendance: NewAttendanceService(roster, repo, rec, logger),
		Dashboard:  NewDashboardService(roster, repo, logger),
		Export:     NewExportService(roster, repo, logger),
	}
}
