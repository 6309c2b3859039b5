package sharding

import "errors"

var (
	ErrConfigSyntaxInvalid = errors.New("配置文件语法错误")
	ErrConfigInvalid       = errors.New("配置非法")
)
