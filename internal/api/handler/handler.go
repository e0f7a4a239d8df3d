package handler

import "github.com/Mdmuzammil18/BayerHealthCare/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	Staff      *StaffHandler
	Shift      *ShiftHandler
	Conflict   *ConflictHandler
	Attendance *AttendanceHandler
	Dashboard  *DashboardHandler
	Export     *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		Staff:      NewStaffHandler(svc.Staff),
		Shift:      NewShiftHandler(svc.Shift, svc.Assignment),
		Conflict:   NewConflictHandler(svc.Conflict),
		Attendance: NewAttendanceHandler(svc.Attendance),
		Dashboard:  NewDashboardHandler(svc.Dashboard),
		Export:     NewExportHandler(svc.Export),
	}
}
