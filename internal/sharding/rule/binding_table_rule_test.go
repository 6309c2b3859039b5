package rule

import (
	"testing"

	"github.com/meoying/shardingrule/config/sharding"
	"github.com/meoying/shardingrule/internal/errs"
	"github.com/meoying/shardingrule/internal/sharding/identifier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTableRule(t *testing.T, logicTable, actualDataNodes string) *TableRule {
	tr, err := newTableRule(sharding.TableRuleConfig{
		LogicTable:      logicTable,
		ActualDataNodes: actualDataNodes,
	}, identifier.NewSet("ds_0", "ds_1"), "")
	require.NoError(t, err)
	return tr
}

func newTestBindingTableRule(t *testing.T) *BindingTableRule {
	b, err := NewBindingTableRule(
		newTestTableRule(t, "LOGIC_TABLE", "ds_${0..1}.table_${0..2}"),
		newTestTableRule(t, "SUB_LOGIC_TABLE", "ds_${0..1}.sub_table_${0..2}"),
	)
	require.NoError(t, err)
	return b
}

func TestNewBindingTableRule(t *testing.T) {
	testCases := []struct {
		name    string
		rules   func(t *testing.T) []*TableRule
		wantErr error
	}{
		{
			name: "数据节点数量不同",
			rules: func(t *testing.T) []*TableRule {
				return []*TableRule{
					newTestTableRule(t, "t_order", "ds_${0..1}.t_order_${0..1}"),
					newTestTableRule(t, "t_order_item", "ds_${0..1}.t_order_item_${0..2}"),
				}
			},
			wantErr: errs.ErrBindingTableMismatch,
		},
		{
			name: "数据源分布不同",
			rules: func(t *testing.T) []*TableRule {
				return []*TableRule{
					newTestTableRule(t, "t_order", "ds_0.t_order_${0..1}, ds_1.t_order_${0..1}"),
					newTestTableRule(t, "t_order_item", "ds_0.t_order_item_${0..2}, ds_1.t_order_item_0"),
				}
			},
			wantErr: errs.ErrBindingTableMismatch,
		},
		{
			name:    "空",
			rules:   func(t *testing.T) []*TableRule { return nil },
			wantErr: errs.ErrBindingTableNotFound,
		},
		{
			name: "重复的逻辑表",
			rules: func(t *testing.T) []*TableRule {
				tr := newTestTableRule(t, "t_order", "ds_0.t_order")
				return []*TableRule{tr, tr}
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := NewBindingTableRule(tc.rules(t)...)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []string{"t_order"}, b.LogicTables())
		})
	}
}

func TestBindingTableRule_BindingActualTable(t *testing.T) {
	b := newTestBindingTableRule(t)
	testCases := []struct {
		name             string
		dataSource       string
		logicTable       string
		otherLogicTable  string
		otherActualTable string
		want             string
		wantErr          error
	}{
		{
			name:             "同一个下标",
			dataSource:       "ds_0",
			logicTable:       "SUB_LOGIC_TABLE",
			otherLogicTable:  "LOGIC_TABLE",
			otherActualTable: "table_0",
			want:             "sub_table_0",
		},
		{
			name:             "忽略大小写",
			dataSource:       "DS_1",
			logicTable:       "logic_table",
			otherLogicTable:  "sub_logic_table",
			otherActualTable: "SUB_TABLE_2",
			want:             "table_2",
		},
		{
			name:             "真实表不存在",
			dataSource:       "ds_0",
			logicTable:       "SUB_LOGIC_TABLE",
			otherLogicTable:  "LOGIC_TABLE",
			otherActualTable: "table_9",
			wantErr:          errs.ErrActualTableNotFound,
		},
		{
			name:             "逻辑表不属于绑定规则",
			dataSource:       "ds_0",
			logicTable:       "t_unknown",
			otherLogicTable:  "LOGIC_TABLE",
			otherActualTable: "table_0",
			wantErr:          errs.ErrBindingTableNotFound,
		},
		{
			name:             "另一个逻辑表不属于绑定规则",
			dataSource:       "ds_0",
			logicTable:       "LOGIC_TABLE",
			otherLogicTable:  "t_unknown",
			otherActualTable: "table_0",
			wantErr:          errs.ErrBindingTableNotFound,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := b.BindingActualTable(tc.dataSource, tc.logicTable, tc.otherLogicTable, tc.otherActualTable)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestBindingTableRule_Positional(t *testing.T) {
	b := newTestBindingTableRule(t)
	rules := b.TableRules()
	logicTable, subLogicTable := rules[0], rules[1]
	for i, node := range logicTable.ActualDataNodes() {
		got, err := b.BindingActualTable(node.DataSource, subLogicTable.LogicTable(), logicTable.LogicTable(), node.Table)
		require.NoError(t, err)
		assert.Equal(t, i, subLogicTable.FindActualTableIndex(node.DataSource, got))
	}
}

func TestBindingTableRule_LogicAndActualTables(t *testing.T) {
	b := newTestBindingTableRule(t)
	got, err := b.LogicAndActualTables("ds_1", "LOGIC_TABLE", "table_1",
		[]string{"LOGIC_TABLE", "sub_logic_table", "t_user"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"sub_logic_table": "sub_table_1"}, got)

	_, err = b.LogicAndActualTables("ds_1", "LOGIC_TABLE", "table_9", []string{"SUB_LOGIC_TABLE"})
	assert.ErrorIs(t, err, errs.ErrActualTableNotFound)

	assert.True(t, b.HasLogicTable("Sub_Logic_Table"))
	assert.False(t, b.HasLogicTable("t_user"))
	assert.Equal(t, []string{"LOGIC_TABLE", "SUB_LOGIC_TABLE"}, b.LogicTables())
}

func TestShardingRule_FindBindingTableRule(t *testing.T) {
	r := newTestRule(t)
	b, ok := r.FindBindingTableRule("sub_logic_table")
	require.True(t, ok)
	got, err := b.BindingActualTable("ds_0", "SUB_LOGIC_TABLE", "LOGIC_TABLE", "table_0")
	require.NoError(t, err)
	assert.Equal(t, "sub_table_0", got)

	_, ok = r.FindBindingTableRule("t_user")
	assert.False(t, ok)
}
