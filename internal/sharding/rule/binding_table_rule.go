package rule

import (
	"fmt"
	"strings"

	"github.com/meoying/shardingrule/internal/errs"
	"github.com/meoying/shardingrule/internal/sharding/identifier"
	"go.uber.org/multierr"
)

// BindingTableRule 绑定表规则
// 绑定表之间通过数据节点的下标一一对应，所以要求所有成员的数据节点数量相同，
// 并且同一下标上的数据节点位于同一个数据源
type BindingTableRule struct {
	tableRules *identifier.Map[*TableRule]
}

// NewBindingTableRule 以第一张表为基准校验所有成员的数据节点分布，重复的逻辑表只保留一次
func NewBindingTableRule(tableRules ...*TableRule) (*BindingTableRule, error) {
	m := identifier.NewMap[*TableRule](len(tableRules))
	for _, tr := range tableRules {
		m.PutIfAbsent(tr.LogicTable(), tr)
	}
	members := m.Values()
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: 绑定表为空", errs.ErrBindingTableNotFound)
	}
	var err error
	for _, tr := range members[1:] {
		err = multierr.Append(err, checkAligned(members[0], tr))
	}
	if err != nil {
		return nil, err
	}
	return &BindingTableRule{tableRules: m}, nil
}

func checkAligned(base, other *TableRule) error {
	if len(base.actualDataNodes) != len(other.actualDataNodes) {
		return fmt.Errorf("%w: %s 有 %d 个数据节点, %s 有 %d 个数据节点", errs.ErrBindingTableMismatch,
			base.logicTable, len(base.actualDataNodes), other.logicTable, len(other.actualDataNodes))
	}
	for i, node := range base.actualDataNodes {
		if !strings.EqualFold(node.DataSource, other.actualDataNodes[i].DataSource) {
			return fmt.Errorf("%w: 下标 %d 上 %s 位于 %s, %s 位于 %s", errs.ErrBindingTableMismatch, i,
				base.logicTable, node.DataSource, other.logicTable, other.actualDataNodes[i].DataSource)
		}
	}
	return nil
}

func (b *BindingTableRule) HasLogicTable(logicTable string) bool {
	return b.tableRules.Contains(logicTable)
}

// LogicTables 按声明顺序返回全部逻辑表
func (b *BindingTableRule) LogicTables() []string {
	return b.tableRules.Keys()
}

func (b *BindingTableRule) TableRules() []*TableRule {
	return b.tableRules.Values()
}

// BindingActualTable 已知 otherLogicTable 在 dataSource 上的真实表 otherActualTable，
// 推导出 logicTable 在同一位置上的真实表
func (b *BindingTableRule) BindingActualTable(dataSource, logicTable, otherLogicTable, otherActualTable string) (string, error) {
	other, ok := b.tableRules.Get(otherLogicTable)
	if !ok {
		return "", fmt.Errorf("%w: %s", errs.ErrBindingTableNotFound, otherLogicTable)
	}
	idx := other.FindActualTableIndex(dataSource, otherActualTable)
	if idx < 0 {
		return "", fmt.Errorf("%w: %s.%s", errs.ErrActualTableNotFound, dataSource, otherActualTable)
	}
	tr, ok := b.tableRules.Get(logicTable)
	if !ok {
		return "", fmt.Errorf("%w: %s", errs.ErrBindingTableNotFound, logicTable)
	}
	return tr.actualDataNodes[idx].Table, nil
}

// LogicAndActualTables 推导 candidates 中除 logicTable 之外、属于该绑定规则的逻辑表对应的真实表
// 返回 逻辑表 => 真实表
func (b *BindingTableRule) LogicAndActualTables(dataSource, logicTable, actualTable string, candidates []string) (map[string]string, error) {
	res := make(map[string]string, len(candidates))
	for _, candidate := range candidates {
		if strings.EqualFold(candidate, logicTable) || !b.HasLogicTable(candidate) {
			continue
		}
		table, err := b.BindingActualTable(dataSource, candidate, logicTable, actualTable)
		if err != nil {
			return nil, err
		}
		res[candidate] = table
	}
	return res, nil
}
