// Package identifier 提供忽略大小写、保持插入顺序的标识符集合
// 大小写折叠统一使用 strings.ToLower，不依赖区域设置
package identifier

import "strings"

func fold(name string) string {
	return strings.ToLower(name)
}

// Map 以标识符为键的有序 map，键比较忽略大小写，保留第一次写入时的原始写法
type Map[V any] struct {
	names  []string
	values map[string]V
}

func NewMap[V any](size int) *Map[V] {
	return &Map[V]{
		names:  make([]string, 0, size),
		values: make(map[string]V, size),
	}
}

// PutIfAbsent 写入键值，键已存在时不覆盖并返回 false
func (m *Map[V]) PutIfAbsent(name string, value V) bool {
	key := fold(name)
	if _, ok := m.values[key]; ok {
		return false
	}
	m.names = append(m.names, name)
	m.values[key] = value
	return true
}

func (m *Map[V]) Get(name string) (V, bool) {
	v, ok := m.values[fold(name)]
	return v, ok
}

func (m *Map[V]) Contains(name string) bool {
	_, ok := m.values[fold(name)]
	return ok
}

// Keys 按插入顺序返回原始写法的键
func (m *Map[V]) Keys() []string {
	res := make([]string, len(m.names))
	copy(res, m.names)
	return res
}

// Values 按插入顺序返回值
func (m *Map[V]) Values() []V {
	res := make([]V, 0, len(m.names))
	for _, name := range m.names {
		res = append(res, m.values[fold(name)])
	}
	return res
}

func (m *Map[V]) Len() int {
	return len(m.names)
}

// Set 忽略大小写的有序集合
type Set struct {
	m *Map[struct{}]
}

func NewSet(names ...string) *Set {
	s := &Set{m: NewMap[struct{}](len(names))}
	for _, name := range names {
		s.Add(name)
	}
	return s
}

func (s *Set) Add(name string) bool {
	return s.m.PutIfAbsent(name, struct{}{})
}

func (s *Set) Contains(name string) bool {
	return s.m.Contains(name)
}

// ContainsAll names 为空时返回 true
func (s *Set) ContainsAll(names []string) bool {
	for _, name := range names {
		if !s.Contains(name) {
			return false
		}
	}
	return true
}

func (s *Set) Values() []string {
	return s.m.Keys()
}

func (s *Set) Len() int {
	return s.m.Len()
}
