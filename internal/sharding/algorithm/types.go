package algorithm

import (
	"context"

	"github.com/meoying/shardingrule/internal/sharding/datanode"
)

//go:generate mockgen -source=./types.go -destination=./mocks/algorithm.mock.go -package=algorithmmocks -typed=false

// ShardingValue 分片键的取值，多个值表示 IN 查询
type ShardingValue struct {
	LogicTable string
	Column     string
	Values     []any
	// DataNodeInfo 目标名的命名信息，用于通过下标还原目标名，可以为 nil
	DataNodeInfo *datanode.Info
}

// ShardingAlgorithm 分片算法
type ShardingAlgorithm interface {
	Type() string
	// DoSharding 从 availableTargets 中选出 value 命中的目标，结果保持 availableTargets 中的写法
	DoSharding(ctx context.Context, availableTargets []string, value ShardingValue) ([]string, error)
}

// AutoShardingAlgorithm 可以用于自动分片表的分片算法
type AutoShardingAlgorithm interface {
	ShardingAlgorithm
	// AutoTablesAmount 自动创建的真实表数量
	AutoTablesAmount() int
}

// KeyGenerateAlgorithm 主键生成算法
type KeyGenerateAlgorithm interface {
	Type() string
	GenerateKey(ctx context.Context) (any, error)
}

// AuditContext 审计时需要的语句信息
type AuditContext struct {
	// ShardingTables 语句中涉及的分片表
	ShardingTables []string
	// HasShardingConditions 语句是否带有分片条件
	HasShardingConditions bool
}

// AuditAlgorithm 审计算法，校验不通过时返回 error
type AuditAlgorithm interface {
	Type() string
	Check(ctx context.Context, auditCtx AuditContext) error
}
