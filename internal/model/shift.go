package model

import "time"

// 班次类型，仅作描述，不参与时间计算
const (
	ShiftTypeMorning   = "MORNING"
	ShiftTypeAfternoon = "AFTERNOON"
	ShiftTypeNight     = "NIGHT"
)

// Shift 班次表，对应 shifts
// StartTime/EndTime 为 "HH:MM"，以 Date 为锚点；EndTime 早于 StartTime 表示跨午夜
type Shift struct {
	ShiftID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"shift_id"`
	Date      time.Time `gorm:"type:date;not null"                             json:"date"`
	Type      string    `gorm:"type:varchar(10);not null"                      json:"type"`
	StartTime string    `gorm:"type:char(5);not null"                          json:"start_time"`
	EndTime   string    `gorm:"type:char(5);not null"                          json:"end_time"`
	Capacity  int       `gorm:"not null"                                       json:"capacity"`
	VersionedModel

	// 关联
	Assignments []ShiftAssignment `gorm:"foreignKey:ShiftID" json:"assignments,omitempty"`
}

func (Shift) TableName() string { return "shifts" }

// ShiftAssignment 排班表，对应 shift_assignments，(shift_id, user_id) 唯一
type ShiftAssignment struct {
	AssignmentID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"assignment_id"`
	ShiftID      string    `gorm:"type:uuid;not null"                             json:"shift_id"`
	UserID       string    `gorm:"type:uuid;not null"                             json:"user_id"`
	AssignedBy   *string   `gorm:"type:uuid"                                      json:"assigned_by,omitempty"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	// 关联
	Shift *Shift `gorm:"foreignKey:ShiftID;references:ShiftID" json:"shift,omitempty"`
	User  *User  `gorm:"foreignKey:UserID;references:UserID"   json:"user,omitempty"`
}

func (ShiftAssignment) TableName() string { return "shift_assignments" }
