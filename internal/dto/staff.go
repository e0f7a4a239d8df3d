package dto

// ── 人员模块 DTO ──

// CreateStaffRequest 新增医护人员请求
type CreateStaffRequest struct {
	Name            string  `json:"name"             binding:"required,min=2,max=100"`
	Email           string  `json:"email"            binding:"required,email"`
	Password        string  `json:"password"         binding:"required,min=6,max=72"`
	StaffRole       string  `json:"staff_role"       binding:"required,oneof=NURSE DOCTOR TECHNICIAN"`
	Department      string  `json:"department"       binding:"required,oneof=EMERGENCY ICU GENERAL_WARD SURGERY PEDIATRICS CARDIOLOGY RADIOLOGY LABORATORY"`
	ShiftPreference *string `json:"shift_preference" binding:"omitempty,oneof=MORNING AFTERNOON NIGHT"`
	ContactNumber   *string `json:"contact_number"   binding:"omitempty,max=30"`
}

// UpdateStaffRequest 更新医护人员请求，未提供的字段保持不变
type UpdateStaffRequest struct {
	Name            *string `json:"name"             binding:"omitempty,min=2,max=100"`
	Email           *string `json:"email"            binding:"omitempty,email"`
	Password        *string `json:"password"         binding:"omitempty,min=6,max=72"`
	StaffRole       *string `json:"staff_role"       binding:"omitempty,oneof=NURSE DOCTOR TECHNICIAN"`
	Department      *string `json:"department"       binding:"omitempty,oneof=EMERGENCY ICU GENERAL_WARD SURGERY PEDIATRICS CARDIOLOGY RADIOLOGY LABORATORY"`
	ShiftPreference *string `json:"shift_preference" binding:"omitempty,oneof=MORNING AFTERNOON NIGHT"`
	ContactNumber   *string `json:"contact_number"   binding:"omitempty,max=30"`
}

// StaffListRequest 人员列表查询参数
type StaffListRequest struct {
	Page       int    `form:"page"        binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size"   binding:"omitempty,min=1,max=100"`
	Department string `form:"department"  binding:"omitempty,oneof=EMERGENCY ICU GENERAL_WARD SURGERY PEDIATRICS CARDIOLOGY RADIOLOGY LABORATORY"`
	StaffRole  string `form:"staff_role"  binding:"omitempty,oneof=NURSE DOCTOR TECHNICIAN"`
	Keyword    string `form:"keyword"     binding:"omitempty,max=50"`
}

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Role            string  `json:"role"`
	StaffRole       *string `json:"staff_role,omitempty"`
	Department      *string `json:"department,omitempty"`
	ShiftPreference *string `json:"shift_preference,omitempty"`
	ContactNumber   *string `json:"contact_number,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

// UserBrief 人员简要信息（嵌入其他响应）
type UserBrief struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	StaffRole  *string `json:"staff_role,omitempty"`
	Department *string `json:"department,omitempty"`
}
