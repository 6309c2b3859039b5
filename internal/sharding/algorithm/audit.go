package algorithm

import (
	"context"
	"fmt"
	"strings"
)

const TypeDMLShardingConditions = "DML_SHARDING_CONDITIONS"

var _ AuditAlgorithm = DMLShardingConditions{}

// DMLShardingConditions 禁止涉及分片表却没有分片条件的语句
type DMLShardingConditions struct{}

func NewDMLShardingConditions() DMLShardingConditions {
	return DMLShardingConditions{}
}

func (DMLShardingConditions) Type() string {
	return TypeDMLShardingConditions
}

func (DMLShardingConditions) Check(_ context.Context, auditCtx AuditContext) error {
	if len(auditCtx.ShardingTables) > 0 && !auditCtx.HasShardingConditions {
		return fmt.Errorf("%w: 分片表 %s 的语句缺少分片条件", ErrAuditFailed, strings.Join(auditCtx.ShardingTables, ","))
	}
	return nil
}
