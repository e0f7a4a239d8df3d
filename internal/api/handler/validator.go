package handler

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/Mdmuzammil18/BayerHealthCare/pkg/timewindow"
)

// RegisterValidators 向 gin 默认校验器注册自定义标签
//
//	clock: "HH:MM" 24 小时制时刻
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("gin 校验引擎不是 validator/v10")
	}
	return v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return timewindow.ValidClock(fl.Field().String())
	})
}
