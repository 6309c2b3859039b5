package algorithm

import (
	"context"
	"testing"

	"github.com/meoying/shardingrule/internal/errs"
	"github.com/meoying/shardingrule/internal/sharding/datanode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMod_DoSharding(t *testing.T) {
	mod, err := NewMod(map[string]string{"sharding-count": "4"})
	require.NoError(t, err)
	assert.Equal(t, 4, mod.AutoTablesAmount())
	assert.Equal(t, TypeMod, mod.Type())

	targets := []string{"t_order_0", "t_order_1", "t_order_2", "t_order_3"}
	testCases := []struct {
		name    string
		value   ShardingValue
		want    []string
		wantErr error
	}{
		{
			name:  "等值",
			value: ShardingValue{LogicTable: "t_order", Column: "order_id", Values: []any{int64(7)}},
			want:  []string{"t_order_3"},
		},
		{
			name:  "IN_保持目标顺序并去重",
			value: ShardingValue{Column: "order_id", Values: []any{6, "1", uint8(5)}},
			want:  []string{"t_order_1", "t_order_2"},
		},
		{
			name:  "负数",
			value: ShardingValue{Column: "order_id", Values: []any{-1}},
			want:  []string{"t_order_3"},
		},
		{
			name:  "无分片值_全路由",
			value: ShardingValue{Column: "order_id"},
			want:  targets,
		},
		{
			name: "使用命名信息",
			value: ShardingValue{Column: "order_id", Values: []any{2},
				DataNodeInfo: datanode.NewInfo(targets)},
			want: []string{"t_order_2"},
		},
		{
			name:    "值类型非法",
			value:   ShardingValue{Column: "order_id", Values: []any{1.5}},
			wantErr: ErrShardingValueInvalid,
		},
		{
			name:    "字符串不是数字",
			value:   ShardingValue{Column: "order_id", Values: []any{"abc"}},
			wantErr: ErrShardingValueInvalid,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := mod.DoSharding(context.Background(), targets, tc.value)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMod_TargetNotFound(t *testing.T) {
	mod, err := NewMod(map[string]string{"sharding-count": "4"})
	require.NoError(t, err)
	got, err := mod.DoSharding(context.Background(), []string{"t_order_0", "t_order_1"},
		ShardingValue{Column: "order_id", Values: []any{3}})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNewMod_InvalidProps(t *testing.T) {
	testCases := []struct {
		name  string
		props map[string]string
	}{
		{name: "缺少 sharding-count", props: nil},
		{name: "sharding-count 为 0", props: map[string]string{"sharding-count": "0"}},
		{name: "sharding-count 不是数字", props: map[string]string{"sharding-count": "x"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewMod(tc.props)
			assert.ErrorIs(t, err, ErrInvalidProps)
			_, err = NewHashMod(tc.props)
			assert.ErrorIs(t, err, ErrInvalidProps)
		})
	}
}

func TestHashMod_DoSharding(t *testing.T) {
	h, err := NewHashMod(map[string]string{"sharding-count": "3"})
	require.NoError(t, err)
	targets := []string{"ds_0", "ds_1", "ds_2"}
	first, err := h.DoSharding(context.Background(), targets, ShardingValue{Column: "name", Values: []any{"tom"}})
	require.NoError(t, err)
	require.Len(t, first, 1)
	second, err := h.DoSharding(context.Background(), targets, ShardingValue{Column: "name", Values: []any{"tom"}})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestInline_DoSharding(t *testing.T) {
	alg, err := NewInline(map[string]string{"algorithm-expression": "ds_${user_id % 2}"})
	require.NoError(t, err)
	assert.Equal(t, TypeInline, alg.Type())

	targets := []string{"DS_0", "DS_1"}
	got, err := alg.DoSharding(context.Background(), targets, ShardingValue{Column: "user_id", Values: []any{3}})
	require.NoError(t, err)
	assert.Equal(t, []string{"DS_1"}, got)

	got, err = alg.DoSharding(context.Background(), []string{"ds_0"}, ShardingValue{Column: "user_id", Values: []any{3}})
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = alg.DoSharding(context.Background(), targets, ShardingValue{Column: "order_id", Values: []any{3}})
	assert.ErrorIs(t, err, errs.ErrInvalidInlineExpression)

	_, err = NewInline(nil)
	assert.ErrorIs(t, err, ErrInvalidProps)
}

func TestRegistry(t *testing.T) {
	alg, err := NewShardingAlgorithm("mod", map[string]string{"sharding-count": "2"})
	require.NoError(t, err)
	_, ok := alg.(AutoShardingAlgorithm)
	assert.True(t, ok)

	alg, err = NewShardingAlgorithm(TypeInline, map[string]string{"algorithm-expression": "t_${id % 2}"})
	require.NoError(t, err)
	_, ok = alg.(AutoShardingAlgorithm)
	assert.False(t, ok)

	_, err = NewShardingAlgorithm("RANGE", nil)
	assert.ErrorIs(t, err, errs.ErrAlgorithmNotFound)
	_, err = NewShardingAlgorithm(TypeMod, nil)
	assert.ErrorIs(t, err, ErrInvalidProps)

	keyGen, err := NewKeyGenerateAlgorithm("uuid", nil)
	require.NoError(t, err)
	assert.Equal(t, TypeUUID, keyGen.Type())
	_, err = NewKeyGenerateAlgorithm("SEQUENCE", nil)
	assert.ErrorIs(t, err, errs.ErrAlgorithmNotFound)

	auditor, err := NewAuditAlgorithm(TypeDMLShardingConditions, nil)
	require.NoError(t, err)
	assert.Equal(t, TypeDMLShardingConditions, auditor.Type())
	_, err = NewAuditAlgorithm("UNKNOWN", nil)
	assert.ErrorIs(t, err, errs.ErrAlgorithmNotFound)
}

func TestUUID_GenerateKey(t *testing.T) {
	for _, version := range []string{"v4", "V7"} {
		u, err := NewUUID(map[string]string{"version": version})
		require.NoError(t, err)
		key, err := u.GenerateKey(context.Background())
		require.NoError(t, err)
		assert.Len(t, key, 32)
		assert.NotContains(t, key, "-")
	}
	_, err := NewUUID(map[string]string{"version": "v1"})
	assert.ErrorIs(t, err, ErrInvalidProps)
}

func TestDMLShardingConditions_Check(t *testing.T) {
	auditor := NewDMLShardingConditions()
	assert.NoError(t, auditor.Check(context.Background(), AuditContext{}))
	assert.NoError(t, auditor.Check(context.Background(), AuditContext{
		ShardingTables: []string{"t_order"}, HasShardingConditions: true,
	}))
	assert.ErrorIs(t, auditor.Check(context.Background(), AuditContext{
		ShardingTables: []string{"t_order"},
	}), ErrAuditFailed)
}
