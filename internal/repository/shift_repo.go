package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Mdmuzammil18/BayerHealthCare/internal/model"
	pkgerrors "github.com/Mdmuzammil18/BayerHealthCare/pkg/errors"
)

// dateLayout DATE 列统一按 YYYY-MM-DD 比较
const dateLayout = "2006-01-02"

// ShiftFilter 班次列表筛选条件，零值字段不参与过滤
type ShiftFilter struct {
	Date *time.Time
	From *time.Time // 含
	To   *time.Time // 含
	Type string
}

// ShiftRepository 班次数据访问接口
type ShiftRepository interface {
	Create(ctx context.Context, shift *model.Shift) error
	GetByID(ctx context.Context, id string) (*model.Shift, error)
	// GetByIDForUpdate 行级锁读取，必须在事务中调用
	GetByIDForUpdate(ctx context.Context, id string) (*model.Shift, error)
	// Update 乐观锁更新，版本不匹配返回 ErrOptimisticLock
	Update(ctx context.Context, shift *model.Shift) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ShiftFilter) ([]model.Shift, error)
	// ListByDateWithAssignments 某日全部班次，预加载排班及人员
	ListByDateWithAssignments(ctx context.Context, date time.Time) ([]model.Shift, error)
}

type shiftRepo struct {
	db *gorm.DB
}

// NewShiftRepo 创建 ShiftRepository 实例
func NewShiftRepo(db *gorm.DB) ShiftRepository {
	return &shiftRepo{db: db}
}

func (r *shiftRepo) Create(ctx context.Context, shift *model.Shift) error {
	return r.db.WithContext(ctx).Create(shift).Error
}

func (r *shiftRepo) GetByID(ctx context.Context, id string) (*model.Shift, error) {
	var shift model.Shift
	err := r.db.WithContext(ctx).
		Where("shift_id = ?", id).
		First(&shift).Error
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *shiftRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Shift, error) {
	var shift model.Shift
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("shift_id = ?", id).
		First(&shift).Error
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *shiftRepo) Update(ctx context.Context, shift *model.Shift) error {
	oldVersion := shift.Version
	result := r.db.WithContext(ctx).
		Model(&model.Shift{}).
		Where("shift_id = ? AND version = ?", shift.ShiftID, oldVersion).
		Updates(map[string]interface{}{
			"date":       shift.Date.Format(dateLayout),
			"type":       shift.Type,
			"start_time": shift.StartTime,
			"end_time":   shift.EndTime,
			"capacity":   shift.Capacity,
			"updated_by": shift.UpdatedBy,
			"updated_at": time.Now(),
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	shift.Version = oldVersion + 1
	return nil
}

// Delete 硬删除班次，排班与出勤记录由外键级联删除
func (r *shiftRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("shift_id = ?", id).
		Delete(&model.Shift{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *shiftRepo) List(ctx context.Context, filter ShiftFilter) ([]model.Shift, error) {
	var shifts []model.Shift

	db := r.db.WithContext(ctx).Model(&model.Shift{})
	if filter.Date != nil {
		db = db.Where("date = ?", filter.Date.Format(dateLayout))
	}
	if filter.From != nil {
		db = db.Where("date >= ?", filter.From.Format(dateLayout))
	}
	if filter.To != nil {
		db = db.Where("date <= ?", filter.To.Format(dateLayout))
	}
	if filter.Type != "" {
		db = db.Where("type = ?", filter.Type)
	}

	err := db.Preload("Assignments", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("created_at ASC")
	}).Preload("Assignments.User").
		Order("date ASC, start_time ASC").
		Find(&shifts).Error
	if err != nil {
		return nil, err
	}
	return shifts, nil
}

func (r *shiftRepo) ListByDateWithAssignments(ctx context.Context, date time.Time) ([]model.Shift, error) {
	d := date
	return r.List(ctx, ShiftFilter{Date: &d})
}
