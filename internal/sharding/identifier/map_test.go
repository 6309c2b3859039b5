package identifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMap(t *testing.T) {
	m := NewMap[int](2)
	assert.True(t, m.PutIfAbsent("T_Order", 1))
	assert.True(t, m.PutIfAbsent("t_user", 2))
	// 第一次写入生效
	assert.False(t, m.PutIfAbsent("t_order", 3))

	v, ok := m.Get("T_ORDER")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	_, ok = m.Get("t_item")
	assert.False(t, ok)

	assert.True(t, m.Contains("T_USER"))
	assert.Equal(t, []string{"T_Order", "t_user"}, m.Keys())
	assert.Equal(t, []int{1, 2}, m.Values())
	assert.Equal(t, 2, m.Len())
}

func TestSet(t *testing.T) {
	s := NewSet("t_config", "T_CONFIG", "t_dict")
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"t_config", "t_dict"}, s.Values())
	assert.True(t, s.Contains("T_Dict"))
	assert.True(t, s.ContainsAll([]string{"t_config", "T_DICT"}))
	assert.True(t, s.ContainsAll(nil))
	assert.False(t, s.ContainsAll([]string{"t_config", "t_order"}))
	assert.False(t, s.Add("t_dict"))
}
