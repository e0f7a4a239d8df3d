package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Mdmuzammil18/BayerHealthCare/internal/model"
)

// AttendanceFilter 出勤记录筛选条件（按班次日期）
type AttendanceFilter struct {
	UserID string
	From   *time.Time
	To     *time.Time
	Status model.AttendanceStatus
}

// AttendanceRepository 出勤记录数据访问接口
type AttendanceRepository interface {
	// Create 违反 (shift_id, user_id) 唯一约束时返回 gorm.ErrDuplicatedKey
	Create(ctx context.Context, a *model.Attendance) error
	GetByID(ctx context.Context, id string) (*model.Attendance, error)
	// GetByIDForUpdate 事务内使用：SELECT ... FOR UPDATE 锁定出勤行，不预加载关联
	GetByIDForUpdate(ctx context.Context, id string) (*model.Attendance, error)
	GetByShiftAndUser(ctx context.Context, shiftID, userID string) (*model.Attendance, error)
	// SetCheckIn 仅当 check_in 为空时写入，返回是否写入成功
	SetCheckIn(ctx context.Context, shiftID, userID string, at time.Time, status model.AttendanceStatus) (bool, error)
	// SetCheckOut 仅当 check_out 为空且 check_in 仍为 expectedCheckIn 时写入，返回是否写入成功
	SetCheckOut(ctx context.Context, id string, expectedCheckIn, at time.Time, status model.AttendanceStatus) (bool, error)
	// Update 管理员修正：写回 status/check_in/check_out/remarks，
	// 仅当 check_in/check_out 仍为读取时的 prevCheckIn/prevCheckOut 时写入，返回是否写入成功
	Update(ctx context.Context, a *model.Attendance, prevCheckIn, prevCheckOut *time.Time) (bool, error)
	DeleteByShiftAndUser(ctx context.Context, shiftID, userID string) error
	DeleteByShift(ctx context.Context, shiftID string) error
	// List 预加载班次与人员，按班次日期倒序
	List(ctx context.Context, filter AttendanceFilter) ([]model.Attendance, error)
	ListByShiftIDs(ctx context.Context, shiftIDs []string) ([]model.Attendance, error)
}

type attendanceRepo struct {
	db *gorm.DB
}

// NewAttendanceRepo 创建 AttendanceRepository 实例
func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) Create(ctx context.Context, a *model.Attendance) error {
	return r.db.WithContext(ctx).Omit("Shift", "User").Create(a).Error
}

func (r *attendanceRepo) GetByID(ctx context.Context, id string) (*model.Attendance, error) {
	var a model.Attendance
	err := r.db.WithContext(ctx).
		Preload("Shift").
		Where("attendance_id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *attendanceRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Attendance, error) {
	var a model.Attendance
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("attendance_id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *attendanceRepo) GetByShiftAndUser(ctx context.Context, shiftID, userID string) (*model.Attendance, error) {
	var a model.Attendance
	err := r.db.WithContext(ctx).
		Where("shift_id = ? AND user_id = ?", shiftID, userID).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *attendanceRepo) SetCheckIn(ctx context.Context, shiftID, userID string, at time.Time, status model.AttendanceStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Attendance{}).
		Where("shift_id = ? AND user_id = ? AND check_in IS NULL", shiftID, userID).
		Updates(map[string]interface{}{
			"check_in":   at,
			"status":     status,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *attendanceRepo) SetCheckOut(ctx context.Context, id string, expectedCheckIn, at time.Time, status model.AttendanceStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Attendance{}).
		Where("attendance_id = ? AND check_out IS NULL AND check_in = ?", id, expectedCheckIn).
		Updates(map[string]interface{}{
			"check_out":  at,
			"status":     status,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *attendanceRepo) Update(ctx context.Context, a *model.Attendance, prevCheckIn, prevCheckOut *time.Time) (bool, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Attendance{}).
		Where("attendance_id = ?", a.AttendanceID)
	q = whereTimestamp(q, "check_in", prevCheckIn)
	q = whereTimestamp(q, "check_out", prevCheckOut)

	result := q.Updates(map[string]interface{}{
		"status":     a.Status,
		"check_in":   a.CheckIn,
		"check_out":  a.CheckOut,
		"remarks":    a.Remarks,
		"updated_by": a.UpdatedBy,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// whereTimestamp 可空时间列的等值条件
func whereTimestamp(q *gorm.DB, column string, v *time.Time) *gorm.DB {
	if v == nil {
		return q.Where(column + " IS NULL")
	}
	return q.Where(column+" = ?", *v)
}

func (r *attendanceRepo) DeleteByShiftAndUser(ctx context.Context, shiftID, userID string) error {
	return r.db.WithContext(ctx).
		Where("shift_id = ? AND user_id = ?", shiftID, userID).
		Delete(&model.Attendance{}).Error
}

func (r *attendanceRepo) DeleteByShift(ctx context.Context, shiftID string) error {
	return r.db.WithContext(ctx).
		Where("shift_id = ?", shiftID).
		Delete(&model.Attendance{}).Error
}

func (r *attendanceRepo) List(ctx context.Context, filter AttendanceFilter) ([]model.Attendance, error) {
	var list []model.Attendance

	db := r.db.WithContext(ctx).
		Joins("Shift").
		Preload("User")
	if filter.UserID != "" {
		db = db.Where("attendances.user_id = ?", filter.UserID)
	}
	if filter.From != nil {
		db = db.Where(`"Shift".date >= ?`, filter.From.Format(dateLayout))
	}
	if filter.To != nil {
		db = db.Where(`"Shift".date <= ?`, filter.To.Format(dateLayout))
	}
	if filter.Status != "" {
		db = db.Where("attendances.status = ?", filter.Status)
	}

	err := db.Order(`"Shift".date DESC, "Shift".start_time DESC`).Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *attendanceRepo) ListByShiftIDs(ctx context.Context, shiftIDs []string) ([]model.Attendance, error) {
	var list []model.Attendance
	if len(shiftIDs) == 0 {
		return list, nil
	}
	err := r.db.WithContext(ctx).
		Where("shift_id IN ?", shiftIDs).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
