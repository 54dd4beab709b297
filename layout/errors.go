package layout

import (
	"errors"
	"fmt"
)

// ErrConfig 匹配所有配置错误，可用 errors.Is 判断。
var ErrConfig = errors.New("配置错误")

// ConfigError 描述一个无效的版面配置，在产生任何输出之前返回。
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("配置错误: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

func configErrorf(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
