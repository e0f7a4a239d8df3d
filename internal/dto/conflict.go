package dto

// ── 冲突检测 DTO ──

// ConflictListRequest 冲突查询参数，Date 缺省为今天，Days 缺省取配置值
type ConflictListRequest struct {
	Date string `form:"date" binding:"omitempty,datetime=2006-01-02"`
	Days int    `form:"days" binding:"omitempty,min=1"`
}

// ConflictResponse 同一人员在同一天被排入两个时间重叠的班次
type ConflictResponse struct {
	UserID   string     `json:"user_id"`
	UserName string     `json:"user_name"`
	Date     string     `json:"date"`
	Shift1   ShiftBrief `json:"shift1"`
	Shift2   ShiftBrief `json:"shift2"`
}
