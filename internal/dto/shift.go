package dto

// ── 班次模块 DTO ──

// CreateShiftRequest 创建班次请求
type CreateShiftRequest struct {
	Date      string `json:"date"       binding:"required,datetime=2006-01-02"`
	Type      string `json:"type"       binding:"required,oneof=MORNING AFTERNOON NIGHT"`
	StartTime string `json:"start_time" binding:"required,clock"` // "08:00"
	EndTime   string `json:"end_time"   binding:"required,clock"` // "16:00"，早于 start_time 表示次日结束
	Capacity  int    `json:"capacity"   binding:"required,min=1,max=1000"`
}

// UpdateShiftRequest 更新班次请求，Version 用于乐观锁
type UpdateShiftRequest struct {
	Date      *string `json:"date"       binding:"omitempty,datetime=2006-01-02"`
	Type      *string `json:"type"       binding:"omitempty,oneof=MORNING AFTERNOON NIGHT"`
	StartTime *string `json:"start_time" binding:"omitempty,clock"`
	EndTime   *string `json:"end_time"   binding:"omitempty,clock"`
	Capacity  *int    `json:"capacity"   binding:"omitempty,min=1,max=1000"`
	Version   int     `json:"version"    binding:"required,min=1"`
}

// ShiftListRequest 班次列表查询参数
type ShiftListRequest struct {
	Date      string `form:"date"       binding:"omitempty,datetime=2006-01-02"`
	StartDate string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date"   binding:"omitempty,datetime=2006-01-02"`
	Type      string `form:"type"       binding:"omitempty,oneof=MORNING AFTERNOON NIGHT"`
}

// AssignRequest 排班 / 撤销排班请求
type AssignRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

// ShiftResponse 班次信息响应
type ShiftResponse struct {
	ID             string               `json:"id"`
	Date           string               `json:"date"`
	Type           string               `json:"type"`
	StartTime      string               `json:"start_time"`
	EndTime        string               `json:"end_time"`
	Capacity       int                  `json:"capacity"`
	AssignedCount  int                  `json:"assigned_count"`
	AvailableSlots int                  `json:"available_slots"`
	IsFull         bool                 `json:"is_full"`
	Version        int                  `json:"version"`
	Assignments    []AssignmentResponse `json:"assignments"`
}

// ShiftBrief 班次简要信息（嵌入其他响应）
type ShiftBrief struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Type      string `json:"type"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// AssignmentResponse 排班信息响应
type AssignmentResponse struct {
	ID         string     `json:"id"`
	ShiftID    string     `json:"shift_id"`
	User       *UserBrief `json:"user,omitempty"`
	AssignedAt string     `json:"assigned_at"`
}
