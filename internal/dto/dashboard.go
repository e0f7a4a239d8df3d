package dto

// ── 仪表盘 DTO ──

// AttendanceCounts 按状态统计的出勤数
type AttendanceCounts struct {
	Present   int `json:"present"`
	Late      int `json:"late"`
	Absent    int `json:"absent"`
	EarlyExit int `json:"early_exit"`
}

// DashboardStats 管理员视角的当日统计
type DashboardStats struct {
	TotalShifts      int              `json:"total_shifts"`
	TotalAssignments int              `json:"total_assignments"`
	TotalCapacity    int              `json:"total_capacity"`
	AvailableSlots   int              `json:"available_slots"`
	Attendance       AttendanceCounts `json:"attendance"`
}

// DashboardResponse 当日仪表盘
// 管理员返回全部班次与统计；医护人员只返回本人的班次与出勤
type DashboardResponse struct {
	Date       string               `json:"date"`
	Shifts     []ShiftResponse      `json:"shifts"`
	Stats      *DashboardStats      `json:"stats,omitempty"`
	Attendance []AttendanceResponse `json:"attendance,omitempty"`
}
