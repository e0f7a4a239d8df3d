package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Mdmuzammil18/BayerHealthCare/internal/model"
)

// AssignmentRepository 排班数据访问接口
type AssignmentRepository interface {
	// Create 违反 (shift_id, user_id) 唯一约束时返回 gorm.ErrDuplicatedKey
	Create(ctx context.Context, a *model.ShiftAssignment) error
	Get(ctx context.Context, shiftID, userID string) (*model.ShiftAssignment, error)
	// Delete 不存在时返回 gorm.ErrRecordNotFound
	Delete(ctx context.Context, shiftID, userID string) error
	DeleteByShift(ctx context.Context, shiftID string) error
	CountByShift(ctx context.Context, shiftID string) (int64, error)
	// ListByShift 按排班创建顺序返回，预加载人员
	ListByShift(ctx context.Context, shiftID string) ([]model.ShiftAssignment, error)
	// ListByUserOnDate 某人某日的全部排班，预加载班次
	ListByUserOnDate(ctx context.Context, userID string, date time.Time) ([]model.ShiftAssignment, error)
	// ListByUserInRange 某人在 [from, to] 日期内的排班，预加载班次
	ListByUserInRange(ctx context.Context, userID string, from, to time.Time) ([]model.ShiftAssignment, error)
}

type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepo 创建 AssignmentRepository 实例
func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) Create(ctx context.Context, a *model.ShiftAssignment) error {
	return r.db.WithContext(ctx).Omit("Shift", "User").Create(a).Error
}

func (r *assignmentRepo) Get(ctx context.Context, shiftID, userID string) (*model.ShiftAssignment, error) {
	var a model.ShiftAssignment
	err := r.db.WithContext(ctx).
		Where("shift_id = ? AND user_id = ?", shiftID, userID).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assignmentRepo) Delete(ctx context.Context, shiftID, userID string) error {
	result := r.db.WithContext(ctx).
		Where("shift_id = ? AND user_id = ?", shiftID, userID).
		Delete(&model.ShiftAssignment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *assignmentRepo) DeleteByShift(ctx context.Context, shiftID string) error {
	return r.db.WithContext(ctx).
		Where("shift_id = ?", shiftID).
		Delete(&model.ShiftAssignment{}).Error
}

func (r *assignmentRepo) CountByShift(ctx context.Context, shiftID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.ShiftAssignment{}).
		Where("shift_id = ?", shiftID).
		Count(&n).Error
	return n, err
}

func (r *assignmentRepo) ListByShift(ctx context.Context, shiftID string) ([]model.ShiftAssignment, error) {
	var list []model.ShiftAssignment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("shift_id = ?", shiftID).
		Order("created_at ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *assignmentRepo) ListByUserOnDate(ctx context.Context, userID string, date time.Time) ([]model.ShiftAssignment, error) {
	return r.ListByUserInRange(ctx, userID, date, date)
}

func (r *assignmentRepo) ListByUserInRange(ctx context.Context, userID string, from, to time.Time) ([]model.ShiftAssignment, error) {
	var list []model.ShiftAssignment
	err := r.db.WithContext(ctx).
		Joins("Shift").
		Where("shift_assignments.user_id = ?", userID).
		Where(`"Shift".date BETWEEN ? AND ?`, from.Format(dateLayout), to.Format(dateLayout)).
		Order(`"Shift".date ASC, "Shift".start_time ASC`).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
