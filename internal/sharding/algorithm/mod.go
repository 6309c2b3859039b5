package algorithm

import (
	"context"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

const (
	TypeMod     = "MOD"
	TypeHashMod = "HASH_MOD"
)

type modProps struct {
	ShardingCount int `prop:"sharding-count"`
}

func newModProps(props map[string]string) (modProps, error) {
	var p modProps
	if err := decodeProps(props, &p); err != nil {
		return p, err
	}
	if p.ShardingCount <= 0 {
		return p, fmt.Errorf("%w: sharding-count 必须大于 0", ErrInvalidProps)
	}
	return p, nil
}

var _ AutoShardingAlgorithm = &Mod{}

// Mod 取模分片，分片键必须是整数
type Mod struct {
	shardingCount int64
}

func NewMod(props map[string]string) (*Mod, error) {
	p, err := newModProps(props)
	if err != nil {
		return nil, err
	}
	return &Mod{shardingCount: int64(p.ShardingCount)}, nil
}

func (m *Mod) Type() string {
	return TypeMod
}

func (m *Mod) AutoTablesAmount() int {
	return int(m.shardingCount)
}

func (m *Mod) DoSharding(_ context.Context, availableTargets []string, value ShardingValue) ([]string, error) {
	return shard(availableTargets, value, func(v any) (string, bool, error) {
		n, err := toInt64(v)
		if err != nil {
			return "", false, err
		}
		target, ok := matchIndex(availableTargets, (n%m.shardingCount+m.shardingCount)%m.shardingCount, value.DataNodeInfo)
		return target, ok, nil
	})
}

var _ AutoShardingAlgorithm = &HashMod{}

// HashMod 哈希取模分片，分片键可以是任意类型
type HashMod struct {
	shardingCount uint64
}

func NewHashMod(props map[string]string) (*HashMod, error) {
	p, err := newModProps(props)
	if err != nil {
		return nil, err
	}
	return &HashMod{shardingCount: uint64(p.ShardingCount)}, nil
}

func (h *HashMod) Type() string {
	return TypeHashMod
}

func (h *HashMod) AutoTablesAmount() int {
	return int(h.shardingCount)
}

func (h *HashMod) DoSharding(_ context.Context, availableTargets []string, value ShardingValue) ([]string, error) {
	return shard(availableTargets, value, func(v any) (string, bool, error) {
		idx := xxhash.Sum64String(fmt.Sprint(v)) % h.shardingCount
		target, ok := matchIndex(availableTargets, int64(idx), value.DataNodeInfo)
		return target, ok, nil
	})
}
