package errors

import (
	"errors"
	"fmt"
)

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = Define(KindConflict, 40901, "数据已被其他操作修改，请刷新后重试")

// Kind 错误分类，决定对外的 HTTP 状态码
type Kind int

const (
	KindInternal     Kind = iota // 未分类错误
	KindNotFound                 // 引用的实体不存在
	KindConflict                 // 违反容量、唯一性或时间冲突约束
	KindInvalidState             // 状态机不允许的操作（重复签到、未签到即签退等）
	KindForbidden                // 调用身份无权执行该操作
	KindUnavailable              // 持久化层暂不可用或超时
	KindInvalidArgument          // 入参在业务层面不合法（日期范围、容量下调等）
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindConflict:
		return "Conflict"
	case KindInvalidState:
		return "InvalidState"
	case KindForbidden:
		return "Forbidden"
	case KindUnavailable:
		return "Unavailable"
	case KindInvalidArgument:
		return "InvalidArgument"
	default:
		return "Internal"
	}
}

// Definition 业务错误定义：分类 + 5 位业务码 + 面向用户的消息
// Definition 可直接作为哨兵错误使用，errors.Is 按指针比较
type Definition struct {
	Kind    Kind
	Code    int
	Message string
}

// Define 创建一个业务错误定义
func Define(kind Kind, code int, message string) *Definition {
	return &Definition{Kind: kind, Code: code, Message: message}
}

func (d *Definition) Error() string {
	return d.Message
}

// Withf 在保留哨兵身份的前提下附加上下文信息
func (d *Definition) Withf(format string, args ...any) error {
	return &detailed{def: d, detail: fmt.Sprintf(format, args...)}
}

type detailed struct {
	def    *Definition
	detail string
}

func (e *detailed) Error() string { return e.def.Message + ": " + e.detail }
func (e *detailed) Unwrap() error { return e.def }

// ErrUnavailable 持久化层不可用的通用定义
var ErrUnavailable = Define(KindUnavailable, 50300, "服务暂不可用，请稍后重试")

// Unavailable 将底层持久化错误包装为 Unavailable 分类，保留原始错误链
func Unavailable(err error) error {
	if err == nil {
		return nil
	}
	return &unavailable{cause: err}
}

type unavailable struct {
	cause error
}

func (e *unavailable) Error() string { return ErrUnavailable.Message + ": " + e.cause.Error() }

func (e *unavailable) Unwrap() []error { return []error{ErrUnavailable, e.cause} }

// Lookup 沿错误链查找业务错误定义
func Lookup(err error) (*Definition, bool) {
	var def *Definition
	if errors.As(err, &def) {
		return def, true
	}
	return nil, false
}

// KindOf 返回错误所属分类，未登记的错误视为 KindInternal
func KindOf(err error) Kind {
	if def, ok := Lookup(err); ok {
		return def.Kind
	}
	return KindInternal
}
