package algorithm

import (
	"context"
	"fmt"
	"strings"

	"github.com/meoying/shardingrule/internal/inline"
)

const TypeInline = "INLINE"

var _ ShardingAlgorithm = &Inline{}

// Inline 行表达式分片，例如 t_order_${order_id % 2}
// 不能用于自动分片表
type Inline struct {
	expression string
}

func NewInline(props map[string]string) (*Inline, error) {
	var p struct {
		Expression string `prop:"algorithm-expression"`
	}
	if err := decodeProps(props, &p); err != nil {
		return nil, err
	}
	p.Expression = strings.TrimSpace(p.Expression)
	if p.Expression == "" {
		return nil, fmt.Errorf("%w: 缺少 algorithm-expression", ErrInvalidProps)
	}
	return &Inline{expression: p.Expression}, nil
}

func (i *Inline) Type() string {
	return TypeInline
}

func (i *Inline) DoSharding(_ context.Context, availableTargets []string, value ShardingValue) ([]string, error) {
	return shard(availableTargets, value, func(v any) (string, bool, error) {
		name, err := inline.Evaluate(i.expression, map[string]any{value.Column: v})
		if err != nil {
			return "", false, err
		}
		target, ok := matchName(availableTargets, name)
		return target, ok, nil
	})
}
