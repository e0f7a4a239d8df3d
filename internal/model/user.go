package model

// 系统角色
const (
	RoleAdmin = "ADMIN"
	RoleStaff = "STAFF"
)

// 医护岗位
const (
	StaffRoleNurse      = "NURSE"
	StaffRoleDoctor     = "DOCTOR"
	StaffRoleTechnician = "TECHNICIAN"
)

// 科室
const (
	DeptEmergency   = "EMERGENCY"
	DeptICU         = "ICU"
	DeptGeneralWard = "GENERAL_WARD"
	DeptSurgery     = "SURGERY"
	DeptPediatrics  = "PEDIATRICS"
	DeptCardiology  = "CARDIOLOGY"
	DeptRadiology   = "RADIOLOGY"
	DeptLaboratory  = "LABORATORY"
)

// User 用户表，对应 users（管理员与医护人员共用）
type User struct {
	UserID          string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name            string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Email           string  `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash    string  `gorm:"type:varchar(255);not null"                     json:"-"`
	Role            string  `gorm:"type:varchar(10);not null;default:'STAFF'"      json:"role"`
	StaffRole       *string `gorm:"type:varchar(20)"                               json:"staff_role,omitempty"`
	Department      *string `gorm:"type:varchar(20)"                               json:"department,omitempty"`
	ShiftPreference *string `gorm:"type:varchar(10)"                               json:"shift_preference,omitempty"`
	ContactNumber   *string `gorm:"type:varchar(30)"                               json:"contact_number,omitempty"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// IsStaff 是否为可排班的医护人员
func (u *User) IsStaff() bool { return u.Role == RoleStaff }
