package repository

import (
	"context"
	"sync"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User       UserRepository
	Shift      ShiftRepository
	Assignment AssignmentRepository
	Attendance AttendanceRepository

	db *gorm.DB
	// db 为空（内存实现）时用于串行化 Transaction
	txMu sync.Mutex
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:       NewUserRepo(db),
		Shift:      NewShiftRepo(db),
		Assignment: NewAssignmentRepo(db),
		Attendance: NewAttendanceRepo(db),
		db:         db,
	}
}

// WithTx 返回绑定到事务连接的 Repository 副本
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// Transaction 在单个数据库事务中执行 fn，fn 返回错误时整体回滚
// 未绑定数据库（内存实现）时以互斥锁串行执行，fn 收到的仍是 r 本身
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		r.txMu.Lock()
		defer r.txMu.Unlock()
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}

// Ping 检查数据库连通性，供健康检查使用
func (r *Repository) Ping(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
