package inline

import (
	"testing"

	"github.com/meoying/shardingrule/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	testCases := []struct {
		name       string
		expression string
		want       []string
		wantErr    error
	}{
		{
			name:       "无占位符",
			expression: "ds_0.t_order",
			want:       []string{"ds_0.t_order"},
		},
		{
			name:       "范围",
			expression: "t_order_${0..2}",
			want:       []string{"t_order_0", "t_order_1", "t_order_2"},
		},
		{
			name:       "笛卡尔积_左侧变化最慢",
			expression: "ds_${0..1}.table_${0..2}",
			want: []string{
				"ds_0.table_0", "ds_0.table_1", "ds_0.table_2",
				"ds_1.table_0", "ds_1.table_1", "ds_1.table_2",
			},
		},
		{
			name:       "列表",
			expression: "ds_${['a','b']}.t_user",
			want:       []string{"ds_a.t_user", "ds_b.t_user"},
		},
		{
			name:       "箭头占位符",
			expression: "ds_$->{0..1}.t",
			want:       []string{"ds_0.t", "ds_1.t"},
		},
		{
			name:       "逗号分隔",
			expression: "ds_0.t_${0..1}, ds_1.t_${['x','y']}",
			want:       []string{"ds_0.t_0", "ds_0.t_1", "ds_1.t_x", "ds_1.t_y"},
		},
		{
			name:       "递减范围",
			expression: "ds_${1..0}.t",
			want:       []string{"ds_1.t", "ds_0.t"},
		},
		{
			name:       "递减范围_笛卡尔积",
			expression: "ds_${0..1}.t_${2..1}",
			want:       []string{"ds_0.t_2", "ds_0.t_1", "ds_1.t_2", "ds_1.t_1"},
		},
		{
			name:       "空表达式",
			expression: "",
		},
		{
			name:       "占位符没有产生值",
			expression: "ds_0.t_${[]}",
			wantErr:    errs.ErrInvalidInlineExpression,
		},
		{
			name:       "只有逗号",
			expression: " , ",
			wantErr:    errs.ErrInvalidInlineExpression,
		},
		{
			name:       "缺少右括号",
			expression: "t_${0..1",
			wantErr:    errs.ErrInvalidInlineExpression,
		},
		{
			name:       "占位符为空",
			expression: "t_${ }",
			wantErr:    errs.ErrInvalidInlineExpression,
		},
		{
			name:       "表达式语法错误",
			expression: "t_${0..}",
			wantErr:    errs.ErrInvalidInlineExpression,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Expand(tc.expression)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExpand_Deterministic(t *testing.T) {
	first, err := Expand("ds_${0..3}.t_${0..7}")
	require.NoError(t, err)
	second, err := Expand("ds_${0..3}.t_${0..7}")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, first, 32)
}

func TestSplit(t *testing.T) {
	assert.Equal(t, []string{"a", "b_${['x','y']}", "c"}, Split("a, b_${['x','y']} ,c"))
	assert.Nil(t, Split(""))
}

func TestEvaluate(t *testing.T) {
	testCases := []struct {
		name       string
		expression string
		env        map[string]any
		want       string
		wantErr    error
	}{
		{
			name:       "取模",
			expression: "t_order_${order_id % 2}",
			env:        map[string]any{"order_id": 7},
			want:       "t_order_1",
		},
		{
			name:       "箭头占位符",
			expression: "ds_$->{user_id % 4}",
			env:        map[string]any{"user_id": 10},
			want:       "ds_2",
		},
		{
			name:       "变量不存在",
			expression: "t_${order_id % 2}",
			env:        map[string]any{"user_id": 1},
			wantErr:    errs.ErrInvalidInlineExpression,
		},
		{
			name:       "结果不唯一",
			expression: "t_${0..1}",
			env:        map[string]any{},
			wantErr:    errs.ErrInvalidInlineExpression,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Evaluate(tc.expression, tc.env)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestHasPlaceholder(t *testing.T) {
	assert.True(t, HasPlaceholder("t_${0..1}"))
	assert.True(t, HasPlaceholder("t_$->{0..1}"))
	assert.False(t, HasPlaceholder("t_order"))
}
