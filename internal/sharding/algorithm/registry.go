package algorithm

import (
	"strings"
	"sync"

	"github.com/meoying/shardingrule/internal/errs"
	"github.com/pkg/errors"
)

type (
	ShardingFactory    func(props map[string]string) (ShardingAlgorithm, error)
	KeyGenerateFactory func(props map[string]string) (KeyGenerateAlgorithm, error)
	AuditFactory       func(props map[string]string) (AuditAlgorithm, error)
)

var (
	mu                   sync.RWMutex
	shardingFactories    = map[string]ShardingFactory{}
	keyGenerateFactories = map[string]KeyGenerateFactory{}
	auditFactories       = map[string]AuditFactory{}
)

func init() {
	RegisterSharding(TypeMod, func(props map[string]string) (ShardingAlgorithm, error) {
		return NewMod(props)
	})
	RegisterSharding(TypeHashMod, func(props map[string]string) (ShardingAlgorithm, error) {
		return NewHashMod(props)
	})
	RegisterSharding(TypeInline, func(props map[string]string) (ShardingAlgorithm, error) {
		return NewInline(props)
	})
	RegisterKeyGenerate(TypeSnowflake, func(props map[string]string) (KeyGenerateAlgorithm, error) {
		return NewSnowflake(props)
	})
	RegisterKeyGenerate(TypeUUID, func(props map[string]string) (KeyGenerateAlgorithm, error) {
		return NewUUID(props)
	})
	RegisterAudit(TypeDMLShardingConditions, func(props map[string]string) (AuditAlgorithm, error) {
		return NewDMLShardingConditions(), nil
	})
}

// RegisterSharding 注册分片算法，类型名不区分大小写，重复注册会覆盖
func RegisterSharding(typ string, f ShardingFactory) {
	mu.Lock()
	defer mu.Unlock()
	shardingFactories[strings.ToUpper(typ)] = f
}

func RegisterKeyGenerate(typ string, f KeyGenerateFactory) {
	mu.Lock()
	defer mu.Unlock()
	keyGenerateFactories[strings.ToUpper(typ)] = f
}

func RegisterAudit(typ string, f AuditFactory) {
	mu.Lock()
	defer mu.Unlock()
	auditFactories[strings.ToUpper(typ)] = f
}

// NewShardingAlgorithm 根据类型名创建分片算法
func NewShardingAlgorithm(typ string, props map[string]string) (ShardingAlgorithm, error) {
	mu.RLock()
	f, ok := shardingFactories[strings.ToUpper(typ)]
	mu.RUnlock()
	if !ok {
		return nil, errors.Wrapf(errs.ErrAlgorithmNotFound, "不支持的分片算法类型 %s", typ)
	}
	alg, err := f(props)
	if err != nil {
		return nil, errors.Wrapf(err, "创建分片算法 %s 失败", typ)
	}
	return alg, nil
}

func NewKeyGenerateAlgorithm(typ string, props map[string]string) (KeyGenerateAlgorithm, error) {
	mu.RLock()
	f, ok := keyGenerateFactories[strings.ToUpper(typ)]
	mu.RUnlock()
	if !ok {
		return nil, errors.Wrapf(errs.ErrAlgorithmNotFound, "不支持的主键生成算法类型 %s", typ)
	}
	alg, err := f(props)
	if err != nil {
		return nil, errors.Wrapf(err, "创建主键生成算法 %s 失败", typ)
	}
	return alg, nil
}

func NewAuditAlgorithm(typ string, props map[string]string) (AuditAlgorithm, error) {
	mu.RLock()
	f, ok := auditFactories[strings.ToUpper(typ)]
	mu.RUnlock()
	if !ok {
		return nil, errors.Wrapf(errs.ErrAlgorithmNotFound, "不支持的审计算法类型 %s", typ)
	}
	alg, err := f(props)
	if err != nil {
		return nil, errors.Wrapf(err, "创建审计算法 %s 失败", typ)
	}
	return alg, nil
}
