package rule

import (
	"fmt"
	"strings"

	"github.com/ecodeclub/ekit/slice"
	"github.com/meoying/shardingrule/config/sharding"
	"github.com/meoying/shardingrule/internal/errs"
	"github.com/meoying/shardingrule/internal/inline"
	"github.com/meoying/shardingrule/internal/sharding/algorithm"
	"github.com/meoying/shardingrule/internal/sharding/datanode"
	"github.com/meoying/shardingrule/internal/sharding/identifier"
)

// TableRule 单个逻辑表的分片规则，构造完成后只读
type TableRule struct {
	logicTable string

	actualDataNodes  []datanode.DataNode
	dataNodeIndexMap map[datanode.Key]int
	actualTables     *identifier.Set
	// 数据源 => 该数据源上的真实表，都按照 actualDataNodes 中的顺序
	dataSourceToTables *identifier.Map[*identifier.Set]

	databaseStrategy sharding.Strategy
	tableStrategy    sharding.Strategy
	auditStrategy    *sharding.AuditStrategy

	generateKeyColumn string
	keyGeneratorName  string

	dataSourceDataNode *datanode.Info
	tableDataNode      *datanode.Info
}

// newTableRule 根据显式配置的真实数据节点构造规则
// 没有配置真实数据节点时，在每个数据源上生成一张与逻辑表同名的表
func newTableRule(cfg sharding.TableRuleConfig, dataSourceNames *identifier.Set, defaultGenerateKeyColumn string) (*TableRule, error) {
	rawNodes, err := inline.Expand(cfg.ActualDataNodes)
	if err != nil {
		return nil, fmt.Errorf("逻辑表 %s: %w", cfg.LogicTable, err)
	}
	if len(rawNodes) == 0 && sharding.IsSharding(cfg.TableStrategy) {
		return nil, fmt.Errorf("%w: %s", errs.ErrMissingActualDataNodes, cfg.LogicTable)
	}
	tr := &TableRule{
		logicTable:        cfg.LogicTable,
		databaseStrategy:  cfg.DatabaseStrategy,
		tableStrategy:     cfg.TableStrategy,
		auditStrategy:     cfg.AuditStrategy,
		generateKeyColumn: defaultGenerateKeyColumn,
	}
	if kgs := cfg.KeyGenerateStrategy; kgs != nil {
		if kgs.Column != "" {
			tr.generateKeyColumn = kgs.Column
		}
		tr.keyGeneratorName = kgs.KeyGeneratorName
	}

	var nodes []datanode.DataNode
	if len(rawNodes) == 0 {
		nodes = slice.Map(dataSourceNames.Values(), func(idx int, ds string) datanode.DataNode {
			return datanode.New(ds, cfg.LogicTable)
		})
	} else {
		nodes = make([]datanode.DataNode, 0, len(rawNodes))
		for _, raw := range rawNodes {
			node, err := datanode.Parse(raw)
			if err != nil {
				return nil, fmt.Errorf("逻辑表 %s: %w", cfg.LogicTable, err)
			}
			if !dataSourceNames.Contains(node.DataSource) {
				return nil, fmt.Errorf("逻辑表 %s: %w", cfg.LogicTable,
					errs.NewErrInvalidDataNode(fmt.Sprintf("%s 引用了不存在的数据源", raw)))
			}
			nodes = append(nodes, node)
		}
	}
	tr.initDataNodes(nodes, cfg.ActualTablePrefix)
	return tr, nil
}

// newAutoTableRule 自动分片表，真实表由分片算法给出的数量按顺序轮流分配到各个数据源上
// 表名为 {前缀}{逻辑表}_{下标}
func newAutoTableRule(cfg sharding.AutoTableRuleConfig, dataSourceNames *identifier.Set,
	alg algorithm.ShardingAlgorithm, defaultGenerateKeyColumn string) (*TableRule, error) {
	autoAlg, ok := alg.(algorithm.AutoShardingAlgorithm)
	if !ok {
		return nil, fmt.Errorf("%w: 逻辑表 %s 使用的算法 %s", errs.ErrAutoTableAlgorithmUnsupported, cfg.LogicTable, alg.Type())
	}
	dataSources, err := autoTableDataSources(cfg, dataSourceNames)
	if err != nil {
		return nil, err
	}
	tr := &TableRule{
		logicTable:        cfg.LogicTable,
		databaseStrategy:  sharding.NoneStrategy{},
		tableStrategy:     cfg.ShardingStrategy,
		auditStrategy:     cfg.AuditStrategy,
		generateKeyColumn: defaultGenerateKeyColumn,
	}
	if kgs := cfg.KeyGenerateStrategy; kgs != nil {
		if kgs.Column != "" {
			tr.generateKeyColumn = kgs.Column
		}
		tr.keyGeneratorName = kgs.KeyGeneratorName
	}
	amount := autoAlg.AutoTablesAmount()
	nodes := make([]datanode.DataNode, 0, amount)
	for i := 0; i < amount; i++ {
		nodes = append(nodes, datanode.New(dataSources[i%len(dataSources)], fmt.Sprintf("%s_%d", cfg.LogicTable, i)))
	}
	tr.initDataNodes(nodes, cfg.ActualTablePrefix)
	return tr, nil
}

func autoTableDataSources(cfg sharding.AutoTableRuleConfig, dataSourceNames *identifier.Set) ([]string, error) {
	dataSources, err := inline.Expand(cfg.ActualDataSources)
	if err != nil {
		return nil, fmt.Errorf("自动分片表 %s: %w", cfg.LogicTable, err)
	}
	if len(dataSources) == 0 {
		return dataSourceNames.Values(), nil
	}
	for _, ds := range dataSources {
		if !dataSourceNames.Contains(ds) {
			return nil, fmt.Errorf("自动分片表 %s: %w", cfg.LogicTable,
				errs.NewErrInvalidDataNode(fmt.Sprintf("%s 是不存在的数据源", ds)))
		}
	}
	return dataSources, nil
}

// newBroadcastTableRule 广播表在每个数据源上都有一张同名表
func newBroadcastTableRule(logicTable string, dataSourceNames *identifier.Set) *TableRule {
	tr := &TableRule{
		logicTable:       logicTable,
		databaseStrategy: sharding.NoneStrategy{},
		tableStrategy:    sharding.NoneStrategy{},
	}
	tr.initDataNodes(slice.Map(dataSourceNames.Values(), func(idx int, ds string) datanode.DataNode {
		return datanode.New(ds, logicTable)
	}), "")
	return tr
}

// initDataNodes 按顺序给数据节点编号，重复的节点只保留第一次出现的位置
func (t *TableRule) initDataNodes(nodes []datanode.DataNode, tablePrefix string) {
	t.actualDataNodes = make([]datanode.DataNode, 0, len(nodes))
	t.dataNodeIndexMap = make(map[datanode.Key]int, len(nodes))
	t.actualTables = identifier.NewSet()
	t.dataSourceToTables = identifier.NewMap[*identifier.Set](len(nodes))
	for _, node := range nodes {
		node.Table = tablePrefix + node.Table
		key := node.Key()
		if _, ok := t.dataNodeIndexMap[key]; ok {
			continue
		}
		t.dataNodeIndexMap[key] = len(t.actualDataNodes)
		t.actualDataNodes = append(t.actualDataNodes, node)
		t.actualTables.Add(node.Table)
		tables, ok := t.dataSourceToTables.Get(node.DataSource)
		if !ok {
			tables = identifier.NewSet()
			t.dataSourceToTables.PutIfAbsent(node.DataSource, tables)
		}
		tables.Add(node.Table)
	}
	t.dataSourceDataNode = datanode.NewInfo(slice.Map(t.actualDataNodes, func(idx int, src datanode.DataNode) string {
		return src.DataSource
	}))
	t.tableDataNode = datanode.NewInfo(slice.Map(t.actualDataNodes, func(idx int, src datanode.DataNode) string {
		return src.Table
	}))
}

func (t *TableRule) LogicTable() string {
	return t.logicTable
}

// ActualDataNodes 按照配置展开的顺序返回全部真实数据节点
func (t *TableRule) ActualDataNodes() []datanode.DataNode {
	res := make([]datanode.DataNode, len(t.actualDataNodes))
	copy(res, t.actualDataNodes)
	return res
}

// ActualTableIndexMap 数据节点 => 该节点在 ActualDataNodes 中的下标
func (t *TableRule) ActualTableIndexMap() map[datanode.DataNode]int {
	res := make(map[datanode.DataNode]int, len(t.actualDataNodes))
	for i, node := range t.actualDataNodes {
		res[node] = i
	}
	return res
}

// FindActualTableIndex 找不到时返回 -1
func (t *TableRule) FindActualTableIndex(dataSource, actualTable string) int {
	idx, ok := t.dataNodeIndexMap[datanode.New(dataSource, actualTable).Key()]
	if !ok {
		return -1
	}
	return idx
}

func (t *TableRule) IsExisted(actualTable string) bool {
	return t.actualTables.Contains(actualTable)
}

// DatabaseStrategy 返回的是副本，修改它不会影响规则
func (t *TableRule) DatabaseStrategy() sharding.Strategy {
	return cloneStrategy(t.databaseStrategy)
}

func (t *TableRule) TableStrategy() sharding.Strategy {
	return cloneStrategy(t.tableStrategy)
}

func (t *TableRule) AuditStrategy() *sharding.AuditStrategy {
	return cloneAuditStrategy(t.auditStrategy)
}

// GenerateKeyColumn 返回自增主键列，没有配置时返回 false
func (t *TableRule) GenerateKeyColumn() (string, bool) {
	return t.generateKeyColumn, t.generateKeyColumn != ""
}

func (t *TableRule) KeyGeneratorName() string {
	return t.keyGeneratorName
}

// ShardingColumns 表级分库分表策略中显式声明的分片列，已去重
func (t *TableRule) ShardingColumns() []string {
	columns := identifier.NewSet()
	for _, s := range []sharding.Strategy{t.databaseStrategy, t.tableStrategy} {
		switch v := s.(type) {
		case sharding.StandardStrategy:
			if v.ShardingColumn != "" {
				columns.Add(v.ShardingColumn)
			}
		case sharding.ComplexStrategy:
			for _, c := range v.ShardingColumns {
				columns.Add(c)
			}
		}
	}
	return columns.Values()
}

// DataNodeGroups 按数据源分组的数据节点，组内保持原有顺序
func (t *TableRule) DataNodeGroups() map[string][]datanode.DataNode {
	res := make(map[string][]datanode.DataNode, t.dataSourceToTables.Len())
	for _, node := range t.actualDataNodes {
		res[node.DataSource] = append(res[node.DataSource], node)
	}
	return res
}

// ActualDataSourceNames 按第一次出现的顺序返回数据源
func (t *TableRule) ActualDataSourceNames() []string {
	return t.dataSourceToTables.Keys()
}

// ActualTableNames 返回数据源上的真实表，数据源不属于该逻辑表时返回空切片
func (t *TableRule) ActualTableNames(dataSource string) []string {
	tables, ok := t.dataSourceToTables.Get(dataSource)
	if !ok {
		return []string{}
	}
	return tables.Values()
}

// DataSourceDataNode 数据源的命名信息，没有数据节点时为 nil
func (t *TableRule) DataSourceDataNode() *datanode.Info {
	return t.dataSourceDataNode
}

// TableDataNode 真实表的命名信息，没有数据节点时为 nil
func (t *TableRule) TableDataNode() *datanode.Info {
	return t.tableDataNode
}

func (t *TableRule) String() string {
	return fmt.Sprintf("%s => [%s]", t.logicTable, strings.Join(slice.Map(t.actualDataNodes,
		func(idx int, src datanode.DataNode) string {
			return src.String()
		}), ", "))
}
