package dto

import "time"

// ── 出勤模块 DTO ──

// CheckInRequest 签到 / 签退请求
// UserID 仅管理员代签时使用，医护人员始终以自身身份签到
type CheckInRequest struct {
	ShiftID string  `json:"shift_id" binding:"required,uuid"`
	UserID  *string `json:"user_id"  binding:"omitempty,uuid"`
}

// UpdateAttendanceRequest 管理员修正出勤记录
// 显式提供 Status 时原样写入；否则只要提供或清除了任一时间即按新时间重新计算状态
// JSON null 与缺省无法区分，清除已记录的时间需使用 ClearCheckIn / ClearCheckOut
type UpdateAttendanceRequest struct {
	Status        *string    `json:"status"          binding:"omitempty,oneof=PRESENT LATE ABSENT EARLY_EXIT"`
	CheckIn       *time.Time `json:"check_in"`
	CheckOut      *time.Time `json:"check_out"`
	ClearCheckIn  bool       `json:"clear_check_in"  binding:"excluded_with=CheckIn"`
	ClearCheckOut bool       `json:"clear_check_out" binding:"excluded_with=CheckOut"`
	Remarks       *string    `json:"remarks"         binding:"omitempty,max=500"`
}

// AttendanceListRequest 个人出勤历史查询参数
type AttendanceListRequest struct {
	StartDate string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date"   binding:"omitempty,datetime=2006-01-02"`
	Status    string `form:"status"     binding:"omitempty,oneof=PRESENT LATE ABSENT EARLY_EXIT"`
}

// AttendanceResponse 出勤记录响应
type AttendanceResponse struct {
	ID       string      `json:"id"`
	ShiftID  string      `json:"shift_id"`
	UserID   string      `json:"user_id"`
	Status   string      `json:"status"`
	CheckIn  *string     `json:"check_in,omitempty"`
	CheckOut *string     `json:"check_out,omitempty"`
	Remarks  *string     `json:"remarks,omitempty"`
	Shift    *ShiftBrief `json:"shift,omitempty"`
	User     *UserBrief  `json:"user,omitempty"`
}
