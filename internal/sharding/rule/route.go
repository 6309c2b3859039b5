package rule

import (
	"context"
	"strings"

	"github.com/meoying/shardingrule/config/sharding"
	"github.com/meoying/shardingrule/internal/sharding/algorithm"
	"github.com/meoying/shardingrule/internal/sharding/datanode"
	"github.com/meoying/shardingrule/internal/sharding/identifier"
)

// Route 根据分片列的取值计算命中的数据节点，结果保持 ActualDataNodes 中的顺序
// conditions 的键是列名，忽略大小写；没有给出取值的分片列不参与过滤
func (r *ShardingRule) Route(ctx context.Context, logicTable string, conditions map[string][]any) ([]datanode.DataNode, error) {
	tr, err := r.TableRule(logicTable)
	if err != nil {
		return nil, err
	}
	if r.IsBroadcastTable(logicTable) {
		return tr.ActualDataNodes(), nil
	}
	dataSources, err := r.doSharding(ctx, tr, r.DatabaseStrategy(tr), tr.ActualDataSourceNames(), tr.DataSourceDataNode(), conditions)
	if err != nil {
		return nil, err
	}
	hits := identifier.NewMap[*identifier.Set](len(dataSources))
	for _, ds := range dataSources {
		tables, err := r.doSharding(ctx, tr, r.TableStrategy(tr), tr.ActualTableNames(ds), tr.TableDataNode(), conditions)
		if err != nil {
			return nil, err
		}
		hits.PutIfAbsent(ds, identifier.NewSet(tables...))
	}
	res := make([]datanode.DataNode, 0, len(tr.actualDataNodes))
	for _, node := range tr.actualDataNodes {
		if tables, ok := hits.Get(node.DataSource); ok && tables.Contains(node.Table) {
			res = append(res, node)
		}
	}
	return res, nil
}

func (r *ShardingRule) doSharding(ctx context.Context, tr *TableRule, s sharding.Strategy,
	targets []string, info *datanode.Info, conditions map[string][]any) ([]string, error) {
	if !sharding.IsSharding(s) {
		return targets, nil
	}
	alg := r.shardingAlgorithms[s.ShardingAlgorithmName()]
	columns := r.strategyColumns(s)
	if len(columns) == 0 {
		return alg.DoSharding(ctx, targets, algorithm.ShardingValue{
			LogicTable:   tr.LogicTable(),
			DataNodeInfo: info,
		})
	}
	res := targets
	for _, column := range columns {
		values, ok := conditionValues(conditions, column)
		if !ok {
			continue
		}
		hit, err := alg.DoSharding(ctx, res, algorithm.ShardingValue{
			LogicTable:   tr.LogicTable(),
			Column:       column,
			Values:       values,
			DataNodeInfo: info,
		})
		if err != nil {
			return nil, err
		}
		res = hit
	}
	return res, nil
}

func conditionValues(conditions map[string][]any, column string) ([]any, bool) {
	if values, ok := conditions[column]; ok {
		return values, true
	}
	for k, values := range conditions {
		if strings.EqualFold(k, column) {
			return values, true
		}
	}
	return nil, false
}
