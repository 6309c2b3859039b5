package algorithm

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ecodeclub/ekit/slice"
	"github.com/meoying/shardingrule/internal/sharding/datanode"
)

var trailingDigits = regexp.MustCompile(`\d+$`)

// shard 逐个计算分片键的值命中的目标，没有值时命中全部目标
// locate 返回 false 表示该值不落在 availableTargets 中
func shard(availableTargets []string, value ShardingValue, locate func(v any) (string, bool, error)) ([]string, error) {
	if len(value.Values) == 0 {
		res := make([]string, len(availableTargets))
		copy(res, availableTargets)
		return res, nil
	}
	hits := make(map[string]struct{}, len(value.Values))
	for _, v := range value.Values {
		target, ok, err := locate(v)
		if err != nil {
			return nil, err
		}
		if ok {
			hits[target] = struct{}{}
		}
	}
	return slice.FilterMap(availableTargets, func(idx int, src string) (string, bool) {
		_, ok := hits[src]
		return src, ok
	}), nil
}

// matchIndex 在 availableTargets 中找到后缀下标为 index 的目标
// 优先使用 info 还原完整的目标名，否则比较目标名末尾的数字
func matchIndex(availableTargets []string, index int64, info *datanode.Info) (string, bool) {
	if info != nil {
		if target, ok := matchName(availableTargets, info.Name(int(index))); ok {
			return target, true
		}
	}
	for _, each := range availableTargets {
		suffix := trailingDigits.FindString(each)
		if suffix == "" {
			continue
		}
		if n, err := strconv.ParseInt(suffix, 10, 64); err == nil && n == index {
			return each, true
		}
	}
	return "", false
}

func matchName(availableTargets []string, name string) (string, bool) {
	for _, each := range availableTargets {
		if strings.EqualFold(each, name) {
			return each, true
		}
	}
	return "", false
}

func toInt64(v any) (int64, error) {
	switch val := v.(type) {
	case int:
		return int64(val), nil
	case int8:
		return int64(val), nil
	case int16:
		return int64(val), nil
	case int32:
		return int64(val), nil
	case int64:
		return val, nil
	case uint:
		return int64(val), nil
	case uint8:
		return int64(val), nil
	case uint16:
		return int64(val), nil
	case uint32:
		return int64(val), nil
	case uint64:
		return int64(val), nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrShardingValueInvalid, val)
		}
		return n, nil
	case []byte:
		return toInt64(string(val))
	default:
		return 0, fmt.Errorf("%w: %#v", ErrShardingValueInvalid, v)
	}
}
