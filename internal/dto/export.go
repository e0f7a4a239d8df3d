package dto

// ── 导出模块 DTO ──

// ExportAttendanceRequest 出勤导出参数（按班次日期，闭区间）
type ExportAttendanceRequest struct {
	StartDate string `form:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `form:"end_date"   binding:"required,datetime=2006-01-02"`
	Status    string `form:"status"     binding:"omitempty,oneof=PRESENT LATE ABSENT EARLY_EXIT"`
}

// ExportCalendarRequest 个人班次日历导出参数，StartDate 缺省为今天，Days 缺省 30
type ExportCalendarRequest struct {
	StartDate string  `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	Days      int     `form:"days"       binding:"omitempty,min=1,max=92"`
	UserID    *string `form:"user_id"    binding:"omitempty,uuid"`
}
