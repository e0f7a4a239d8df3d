package model

import "time"

// AttendanceStatus 出勤状态
type AttendanceStatus string

const (
	AttendancePresent   AttendanceStatus = "PRESENT"
	AttendanceLate      AttendanceStatus = "LATE"
	AttendanceAbsent    AttendanceStatus = "ABSENT"
	AttendanceEarlyExit AttendanceStatus = "EARLY_EXIT"
)

// Valid 是否为已定义的状态
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceLate, AttendanceAbsent, AttendanceEarlyExit:
		return true
	}
	return false
}

// Attendance 出勤记录表，对应 attendances，(shift_id, user_id) 唯一
// 随排班创建（ABSENT），随撤销排班删除
type Attendance struct {
	AttendanceID string           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"attendance_id"`
	ShiftID      string           `gorm:"type:uuid;not null"                             json:"shift_id"`
	UserID       string           `gorm:"type:uuid;not null"                             json:"user_id"`
	Status       AttendanceStatus `gorm:"type:varchar(12);not null;default:'ABSENT'"     json:"status"`
	CheckIn      *time.Time       `json:"check_in,omitempty"`
	CheckOut     *time.Time       `json:"check_out,omitempty"`
	Remarks      *string          `gorm:"type:text"                                      json:"remarks,omitempty"`
	CreatedAt    time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt    time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
	UpdatedBy    *string          `gorm:"type:uuid"                                      json:"updated_by,omitempty"`

	// 关联
	Shift *Shift `gorm:"foreignKey:ShiftID;references:ShiftID" json:"shift,omitempty"`
	User  *User  `gorm:"foreignKey:UserID;references:UserID"   json:"user,omitempty"`
}

func (Attendance) TableName() string { return "attendances" }
