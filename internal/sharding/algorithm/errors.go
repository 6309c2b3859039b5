package algorithm

import "errors"

var (
	ErrInvalidProps         = errors.New("算法属性非法")
	ErrShardingValueInvalid = errors.New("分片键的值非法")
	ErrClockBackwards       = errors.New("时钟回拨超过容忍范围")
	ErrAuditFailed          = errors.New("审计不通过")
)
