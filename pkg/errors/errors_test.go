package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errTestNotFound = Define(KindNotFound, 40401, "班次不存在")

func TestDefinition_Is(t *testing.T) {
	wrapped := fmt.Errorf("assign: %w", errTestNotFound)
	assert.ErrorIs(t, wrapped, errTestNotFound)
	assert.Equal(t, KindNotFound, KindOf(wrapped))
}

func TestDefinition_Withf(t *testing.T) {
	err := errTestNotFound.Withf("shift_id=%s", "abc")
	assert.ErrorIs(t, err, errTestNotFound)
	assert.Equal(t, "班次不存在: shift_id=abc", err.Error())

	def, ok := Lookup(err)
	assert.True(t, ok)
	assert.Equal(t, 40401, def.Code)
}

func TestUnavailable(t *testing.T) {
	assert.Nil(t, Unavailable(nil))

	err := Unavailable(context.DeadlineExceeded)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, KindUnavailable, KindOf(err))
}

func TestKindOf_Unknown(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, "Internal", KindOf(nil).String())
}

func TestOptimisticLockIsConflict(t *testing.T) {
	assert.Equal(t, KindConflict, KindOf(ErrOptimisticLock))
}
