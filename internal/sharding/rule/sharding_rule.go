package rule

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/meoying/shardingrule/config/sharding"
	"github.com/meoying/shardingrule/internal/errs"
	"github.com/meoying/shardingrule/internal/inline"
	"github.com/meoying/shardingrule/internal/sharding/algorithm"
	"github.com/meoying/shardingrule/internal/sharding/datanode"
	"github.com/meoying/shardingrule/internal/sharding/identifier"
	"go.uber.org/multierr"
)

// defaultKeyGenerator 没有配置默认主键生成策略时，所有规则共用同一个雪花算法实例
var defaultKeyGenerator = sync.OnceValue(func() algorithm.KeyGenerateAlgorithm {
	s, _ := algorithm.NewSnowflake(nil)
	return s
})

type Options struct {
	l *slog.Logger
}

type Option func(*Options)

func WithLogger(l *slog.Logger) Option {
	return func(opts *Options) {
		opts.l = l
	}
}

// Algorithms 已经创建好的算法实例，键是配置中的算法名
type Algorithms struct {
	Sharding      map[string]algorithm.ShardingAlgorithm
	KeyGenerators map[string]algorithm.KeyGenerateAlgorithm
	Auditors      map[string]algorithm.AuditAlgorithm
}

// NewAlgorithms 按照配置中的类型和属性创建算法
func NewAlgorithms(cfg *sharding.RuleConfig) (Algorithms, error) {
	algs := Algorithms{
		Sharding:      make(map[string]algorithm.ShardingAlgorithm, len(cfg.ShardingAlgorithms)),
		KeyGenerators: make(map[string]algorithm.KeyGenerateAlgorithm, len(cfg.KeyGenerators)),
		Auditors:      make(map[string]algorithm.AuditAlgorithm, len(cfg.Auditors)),
	}
	var err error
	for name, c := range cfg.ShardingAlgorithms {
		alg, er := algorithm.NewShardingAlgorithm(c.Type, c.Props)
		if er != nil {
			err = multierr.Append(err, fmt.Errorf("分片算法 %s: %w", name, er))
			continue
		}
		algs.Sharding[name] = alg
	}
	for name, c := range cfg.KeyGenerators {
		alg, er := algorithm.NewKeyGenerateAlgorithm(c.Type, c.Props)
		if er != nil {
			err = multierr.Append(err, fmt.Errorf("主键生成算法 %s: %w", name, er))
			continue
		}
		algs.KeyGenerators[name] = alg
	}
	for name, c := range cfg.Auditors {
		alg, er := algorithm.NewAuditAlgorithm(c.Type, c.Props)
		if er != nil {
			err = multierr.Append(err, fmt.Errorf("审计算法 %s: %w", name, er))
			continue
		}
		algs.Auditors[name] = alg
	}
	return algs, err
}

// ShardingRule 分片规则，构造完成后只读，可以被任意多个 goroutine 并发读取
// 配置变化时应该构造新的 ShardingRule 整体替换
type ShardingRule struct {
	dataSourceNames *identifier.Set

	shardingAlgorithms map[string]algorithm.ShardingAlgorithm
	keyGenerators      map[string]algorithm.KeyGenerateAlgorithm
	auditors           map[string]algorithm.AuditAlgorithm

	tableRules        *identifier.Map[*TableRule]
	bindingTableRules []*BindingTableRule
	broadcastTables   *identifier.Set

	defaultDatabaseStrategy     sharding.Strategy
	defaultTableStrategy        sharding.Strategy
	defaultAuditStrategy        *sharding.AuditStrategy
	defaultKeyGenerateAlgorithm algorithm.KeyGenerateAlgorithm
	defaultShardingColumn       string
}

// New 根据声明式配置创建分片规则，dataSources 是当前已知的全部数据源
func New(cfg *sharding.RuleConfig, dataSources []string, opts ...Option) (*ShardingRule, error) {
	algs, err := NewAlgorithms(cfg)
	if err != nil {
		return nil, err
	}
	return NewWithAlgorithms(cfg, dataSources, algs, opts...)
}

// NewWithAlgorithms 使用已经创建好的算法实例创建分片规则，cfg 中的算法配置会被忽略
func NewWithAlgorithms(cfg *sharding.RuleConfig, dataSources []string, algs Algorithms, opts ...Option) (*ShardingRule, error) {
	options := &Options{
		l: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if len(dataSources) == 0 {
		return nil, errs.ErrEmptyDataSources
	}
	dataSourceNames, err := resolveDataSourceNames(cfg, dataSources)
	if err != nil {
		return nil, err
	}
	r := &ShardingRule{
		dataSourceNames:         dataSourceNames,
		shardingAlgorithms:      cloneMap(algs.Sharding),
		keyGenerators:           cloneMap(algs.KeyGenerators),
		auditors:                cloneMap(algs.Auditors),
		tableRules:              identifier.NewMap[*TableRule](len(cfg.Tables) + len(cfg.AutoTables)),
		broadcastTables:         identifier.NewSet(cfg.BroadcastTables...),
		defaultDatabaseStrategy: defaultStrategy(cfg.DefaultDatabaseStrategy),
		defaultTableStrategy:    defaultStrategy(cfg.DefaultTableStrategy),
		defaultAuditStrategy:    cloneAuditStrategy(cfg.DefaultAuditStrategy),
		defaultShardingColumn:   cfg.DefaultShardingColumn,
	}
	if err = r.initDefaultKeyGenerator(cfg.DefaultKeyGenerateStrategy); err != nil {
		return nil, err
	}
	defaultGenerateKeyColumn := ""
	if cfg.DefaultKeyGenerateStrategy != nil {
		defaultGenerateKeyColumn = cfg.DefaultKeyGenerateStrategy.Column
	}
	if err = r.checkStrategies(r.defaultDatabaseStrategy, r.defaultTableStrategy, "", r.defaultAuditStrategy); err != nil {
		return nil, fmt.Errorf("默认策略: %w", err)
	}

	for _, c := range cfg.Tables {
		c.DatabaseStrategy = cloneStrategy(c.DatabaseStrategy)
		c.TableStrategy = cloneStrategy(c.TableStrategy)
		c.AuditStrategy = cloneAuditStrategy(c.AuditStrategy)
		if err = r.checkStrategies(c.DatabaseStrategy, c.TableStrategy, keyGeneratorName(c.KeyGenerateStrategy), c.AuditStrategy); err != nil {
			return nil, fmt.Errorf("逻辑表 %s: %w", c.LogicTable, err)
		}
		tr, err := newTableRule(c, dataSourceNames, defaultGenerateKeyColumn)
		if err != nil {
			return nil, err
		}
		r.putTableRule(tr, options.l)
	}
	for _, c := range cfg.AutoTables {
		c.ShardingStrategy = cloneStrategy(c.ShardingStrategy)
		c.AuditStrategy = cloneAuditStrategy(c.AuditStrategy)
		if err = r.checkStrategies(nil, c.ShardingStrategy, keyGeneratorName(c.KeyGenerateStrategy), c.AuditStrategy); err != nil {
			return nil, fmt.Errorf("自动分片表 %s: %w", c.LogicTable, err)
		}
		if !sharding.IsSharding(c.ShardingStrategy) {
			return nil, fmt.Errorf("%w: 自动分片表 %s 没有配置分片策略", errs.ErrAutoTableAlgorithmUnsupported, c.LogicTable)
		}
		tr, err := newAutoTableRule(c, dataSourceNames, r.shardingAlgorithms[c.ShardingStrategy.ShardingAlgorithmName()], defaultGenerateKeyColumn)
		if err != nil {
			return nil, err
		}
		r.putTableRule(tr, options.l)
	}

	if err = r.initBindingTableRules(cfg.BindingTables); err != nil {
		return nil, err
	}
	options.l.Info("分片规则创建完成",
		slog.Int("tables", r.tableRules.Len()),
		slog.Int("bindingTables", len(r.bindingTableRules)),
		slog.Any("broadcastTables", r.broadcastTables.Values()),
		slog.Any("dataSources", r.dataSourceNames.Values()))
	return r, nil
}

// resolveDataSourceNames 所有逻辑表都配置了真实数据节点时，只使用其中引用到的数据源，
// 否则使用全部已知数据源
func resolveDataSourceNames(cfg *sharding.RuleConfig, dataSources []string) (*identifier.Set, error) {
	all := identifier.NewSet(dataSources...)
	if len(cfg.Tables) == 0 && len(cfg.AutoTables) == 0 {
		return all, nil
	}
	for _, t := range cfg.Tables {
		if strings.TrimSpace(t.ActualDataNodes) == "" {
			return all, nil
		}
	}
	for _, t := range cfg.AutoTables {
		if strings.TrimSpace(t.ActualDataSources) == "" {
			return all, nil
		}
	}

	res := identifier.NewSet()
	add := func(logicTable, ds string) error {
		if !all.Contains(ds) {
			return fmt.Errorf("逻辑表 %s: %w", logicTable,
				errs.NewErrInvalidDataNode(fmt.Sprintf("数据源 %s 不存在", ds)))
		}
		res.Add(ds)
		return nil
	}
	for _, t := range cfg.Tables {
		nodes, err := inline.Expand(t.ActualDataNodes)
		if err != nil {
			return nil, fmt.Errorf("逻辑表 %s: %w", t.LogicTable, err)
		}
		for _, raw := range nodes {
			node, err := datanode.Parse(raw)
			if err != nil {
				return nil, fmt.Errorf("逻辑表 %s: %w", t.LogicTable, err)
			}
			if err = add(t.LogicTable, node.DataSource); err != nil {
				return nil, err
			}
		}
	}
	for _, t := range cfg.AutoTables {
		dataSources, err := inline.Expand(t.ActualDataSources)
		if err != nil {
			return nil, fmt.Errorf("自动分片表 %s: %w", t.LogicTable, err)
		}
		for _, ds := range dataSources {
			if err = add(t.LogicTable, ds); err != nil {
				return nil, err
			}
		}
	}
	return res, nil
}

func (r *ShardingRule) initDefaultKeyGenerator(strategy *sharding.KeyGenerateStrategy) error {
	if strategy == nil || strategy.KeyGeneratorName == "" {
		r.defaultKeyGenerateAlgorithm = defaultKeyGenerator()
		return nil
	}
	kg, ok := r.keyGenerators[strategy.KeyGeneratorName]
	if !ok {
		return fmt.Errorf("默认主键生成策略: %w", errs.NewErrAlgorithmNotFound(strategy.KeyGeneratorName))
	}
	r.defaultKeyGenerateAlgorithm = kg
	return nil
}

// checkStrategies 检查策略引用的算法都已经创建
func (r *ShardingRule) checkStrategies(databaseStrategy, tableStrategy sharding.Strategy,
	keyGeneratorName string, auditStrategy *sharding.AuditStrategy) error {
	for _, s := range []sharding.Strategy{databaseStrategy, tableStrategy} {
		if !sharding.IsSharding(s) {
			continue
		}
		if _, ok := r.shardingAlgorithms[s.ShardingAlgorithmName()]; !ok {
			return errs.NewErrAlgorithmNotFound(s.ShardingAlgorithmName())
		}
	}
	if keyGeneratorName != "" {
		if _, ok := r.keyGenerators[keyGeneratorName]; !ok {
			return errs.NewErrAlgorithmNotFound(keyGeneratorName)
		}
	}
	if auditStrategy != nil {
		for _, name := range auditStrategy.AuditorNames {
			if _, ok := r.auditors[name]; !ok {
				return errs.NewErrAlgorithmNotFound(name)
			}
		}
	}
	return nil
}

// putTableRule 同名逻辑表以第一次出现的配置为准
func (r *ShardingRule) putTableRule(tr *TableRule, l *slog.Logger) {
	if !r.tableRules.PutIfAbsent(tr.LogicTable(), tr) {
		l.Warn("逻辑表重复配置，忽略后面的配置", slog.String("logicTable", tr.LogicTable()))
		return
	}
	l.Debug("创建逻辑表规则", slog.String("logicTable", tr.LogicTable()),
		slog.Int("dataNodes", len(tr.actualDataNodes)))
}

// initBindingTableRules 收集所有绑定组的错误一起返回
func (r *ShardingRule) initBindingTableRules(cfgs []sharding.BindingTableConfig) error {
	var err error
	for _, c := range cfgs {
		logicTables := c.LogicTables()
		members := make([]*TableRule, 0, len(logicTables))
		var notFound bool
		for _, name := range logicTables {
			tr, ok := r.tableRules.Get(name)
			if !ok {
				err = multierr.Append(err, fmt.Errorf("%w: %s", errs.ErrBindingTableNotFound, name))
				notFound = true
				continue
			}
			members = append(members, tr)
		}
		if notFound {
			continue
		}
		b, er := NewBindingTableRule(members...)
		if er != nil {
			err = multierr.Append(err, er)
			continue
		}
		r.bindingTableRules = append(r.bindingTableRules, b)
	}
	return err
}

// FindTableRule 只查找分片表
func (r *ShardingRule) FindTableRule(logicTable string) (*TableRule, bool) {
	return r.tableRules.Get(logicTable)
}

// TableRule 查找分片表，找不到时如果是广播表就临时创建一个广播表规则
func (r *ShardingRule) TableRule(logicTable string) (*TableRule, error) {
	if tr, ok := r.tableRules.Get(logicTable); ok {
		return tr, nil
	}
	if r.broadcastTables.Contains(logicTable) {
		return newBroadcastTableRule(logicTable, r.dataSourceNames), nil
	}
	return nil, errs.NewErrTableRuleNotFound(logicTable)
}

// FindTableRuleByActualTable 返回第一个包含该真实表的规则
func (r *ShardingRule) FindTableRuleByActualTable(actualTable string) (*TableRule, bool) {
	for _, tr := range r.tableRules.Values() {
		if tr.IsExisted(actualTable) {
			return tr, true
		}
	}
	return nil, false
}

func (r *ShardingRule) LogicTableByActualTable(actualTable string) (string, bool) {
	tr, ok := r.FindTableRuleByActualTable(actualTable)
	if !ok {
		return "", false
	}
	return tr.LogicTable(), true
}

func (r *ShardingRule) FindBindingTableRule(logicTable string) (*BindingTableRule, bool) {
	for _, b := range r.bindingTableRules {
		if b.HasLogicTable(logicTable) {
			return b, true
		}
	}
	return nil, false
}

// DatabaseStrategy 表级策略优先，没有配置时使用默认策略
// 返回的策略是副本
func (r *ShardingRule) DatabaseStrategy(tr *TableRule) sharding.Strategy {
	if tr.databaseStrategy != nil {
		return cloneStrategy(tr.databaseStrategy)
	}
	return cloneStrategy(r.defaultDatabaseStrategy)
}

func (r *ShardingRule) TableStrategy(tr *TableRule) sharding.Strategy {
	if tr.tableStrategy != nil {
		return cloneStrategy(tr.tableStrategy)
	}
	return cloneStrategy(r.defaultTableStrategy)
}

func (r *ShardingRule) AuditStrategy(tr *TableRule) *sharding.AuditStrategy {
	if tr.auditStrategy != nil {
		return cloneAuditStrategy(tr.auditStrategy)
	}
	return cloneAuditStrategy(r.defaultAuditStrategy)
}

// IsShardingTable 同时声明为广播表的逻辑表按广播表处理
func (r *ShardingRule) IsShardingTable(logicTable string) bool {
	return r.tableRules.Contains(logicTable) && !r.broadcastTables.Contains(logicTable)
}

func (r *ShardingRule) IsBroadcastTable(logicTable string) bool {
	return r.broadcastTables.Contains(logicTable)
}

func (r *ShardingRule) IsAllShardingTables(logicTables []string) bool {
	if len(logicTables) == 0 {
		return false
	}
	for _, name := range logicTables {
		if !r.IsShardingTable(name) {
			return false
		}
	}
	return true
}

func (r *ShardingRule) IsAllBroadcastTables(logicTables []string) bool {
	return len(logicTables) > 0 && r.broadcastTables.ContainsAll(logicTables)
}

// IsAllBindingTables 存在某个绑定规则包含全部 logicTables
func (r *ShardingRule) IsAllBindingTables(logicTables []string) bool {
	if len(logicTables) == 0 {
		return false
	}
	for _, b := range r.bindingTableRules {
		if identifier.NewSet(b.LogicTables()...).ContainsAll(logicTables) {
			return true
		}
	}
	return false
}

// IsAllTablesInSameDataSource 所有分片表的数据节点都落在同一个数据源上，忽略不是分片表的名字
func (r *ShardingRule) IsAllTablesInSameDataSource(logicTables []string) bool {
	dataSources := identifier.NewSet()
	for _, name := range logicTables {
		tr, ok := r.tableRules.Get(name)
		if !ok {
			continue
		}
		for _, ds := range tr.ActualDataSourceNames() {
			dataSources.Add(ds)
		}
	}
	return dataSources.Len() == 1
}

// TableRuleExists 至少有一个逻辑表是分片表或者广播表
func (r *ShardingRule) TableRuleExists(logicTables []string) bool {
	for _, name := range logicTables {
		if r.tableRules.Contains(name) || r.broadcastTables.Contains(name) {
			return true
		}
	}
	return false
}

// ShardingLogicTableNames 过滤出分片表，保持原有顺序
func (r *ShardingRule) ShardingLogicTableNames(logicTables []string) []string {
	res := make([]string, 0, len(logicTables))
	for _, name := range logicTables {
		if r.IsShardingTable(name) {
			res = append(res, name)
		}
	}
	return res
}

func (r *ShardingRule) IsShardingColumn(column, logicTable string) bool {
	_, ok := r.FindShardingColumn(column, logicTable)
	return ok
}

// FindShardingColumn 返回配置中的分片列写法
// 标准策略没有指定分片列时使用默认分片列
func (r *ShardingRule) FindShardingColumn(column, logicTable string) (string, bool) {
	tr, ok := r.tableRules.Get(logicTable)
	if !ok {
		return "", false
	}
	for _, s := range []sharding.Strategy{r.DatabaseStrategy(tr), r.TableStrategy(tr)} {
		for _, each := range r.strategyColumns(s) {
			if strings.EqualFold(each, column) {
				return each, true
			}
		}
	}
	return "", false
}

func (r *ShardingRule) strategyColumns(s sharding.Strategy) []string {
	switch v := s.(type) {
	case sharding.StandardStrategy:
		if v.ShardingColumn != "" {
			return []string{v.ShardingColumn}
		}
		if r.defaultShardingColumn != "" {
			return []string{r.defaultShardingColumn}
		}
	case sharding.ComplexStrategy:
		return v.ShardingColumns
	}
	return nil
}

func (r *ShardingRule) IsGenerateKeyColumn(column, logicTable string) bool {
	name, ok := r.FindGenerateKeyColumnName(logicTable)
	return ok && strings.EqualFold(name, column)
}

func (r *ShardingRule) FindGenerateKeyColumnName(logicTable string) (string, bool) {
	tr, ok := r.tableRules.Get(logicTable)
	if !ok {
		return "", false
	}
	return tr.GenerateKeyColumn()
}

// GenerateKey 使用逻辑表配置的主键生成算法，没有配置时使用默认算法
func (r *ShardingRule) GenerateKey(ctx context.Context, logicTable string) (any, error) {
	tr, ok := r.tableRules.Get(logicTable)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errs.ErrKeyGenerateStrategyNotFound, logicTable)
	}
	kg := r.defaultKeyGenerateAlgorithm
	if name := tr.KeyGeneratorName(); name != "" {
		kg = r.keyGenerators[name]
	}
	return kg.GenerateKey(ctx)
}

// Audit 依次执行语句涉及的分片表配置的审计算法
// 每个审计算法只执行一次，disableHint 为 true 时跳过允许被 hint 关闭的审计策略
func (r *ShardingRule) Audit(ctx context.Context, logicTables []string, hasShardingConditions, disableHint bool) error {
	shardingTables := r.ShardingLogicTableNames(logicTables)
	auditCtx := algorithm.AuditContext{
		ShardingTables:        shardingTables,
		HasShardingConditions: hasShardingConditions,
	}
	checked := make(map[string]struct{})
	for _, name := range shardingTables {
		tr, _ := r.tableRules.Get(name)
		strategy := r.AuditStrategy(tr)
		if strategy == nil || (disableHint && strategy.AllowHintDisable) {
			continue
		}
		for _, auditorName := range strategy.AuditorNames {
			if _, ok := checked[auditorName]; ok {
				continue
			}
			checked[auditorName] = struct{}{}
			if err := r.auditors[auditorName].Check(ctx, auditCtx); err != nil {
				return err
			}
		}
	}
	return nil
}

// DataNode 返回逻辑表的第一个数据节点，用于不需要分片的语句
func (r *ShardingRule) DataNode(logicTable string) (datanode.DataNode, error) {
	tr, err := r.TableRule(logicTable)
	if err != nil {
		return datanode.DataNode{}, err
	}
	if len(tr.actualDataNodes) == 0 {
		return datanode.DataNode{}, fmt.Errorf("%w: %s", errs.ErrMissingActualDataNodes, logicTable)
	}
	return tr.actualDataNodes[0], nil
}

// AllDataNodes 按逻辑表的顺序返回全部分片表的数据节点
func (r *ShardingRule) AllDataNodes() []datanode.DataNode {
	var res []datanode.DataNode
	for _, tr := range r.tableRules.Values() {
		res = append(res, tr.actualDataNodes...)
	}
	return res
}

// AllActualTables 全部分片表的真实表，已去重
func (r *ShardingRule) AllActualTables() []string {
	tables := identifier.NewSet()
	for _, node := range r.AllDataNodes() {
		tables.Add(node.Table)
	}
	return tables.Values()
}

// AllTables 分片表与广播表的逻辑表名
func (r *ShardingRule) AllTables() []string {
	tables := identifier.NewSet(r.tableRules.Keys()...)
	for _, name := range r.broadcastTables.Values() {
		tables.Add(name)
	}
	return tables.Values()
}

func (r *ShardingRule) DataSourceNames() []string {
	return r.dataSourceNames.Values()
}

func (r *ShardingRule) ShardingAlgorithm(name string) (algorithm.ShardingAlgorithm, bool) {
	alg, ok := r.shardingAlgorithms[name]
	return alg, ok
}

func (r *ShardingRule) KeyGenerator(name string) (algorithm.KeyGenerateAlgorithm, bool) {
	kg, ok := r.keyGenerators[name]
	return kg, ok
}

func (r *ShardingRule) DefaultKeyGenerateAlgorithm() algorithm.KeyGenerateAlgorithm {
	return r.defaultKeyGenerateAlgorithm
}

func (r *ShardingRule) BroadcastTables() []string {
	return r.broadcastTables.Values()
}

func (r *ShardingRule) TableRules() []*TableRule {
	return r.tableRules.Values()
}

func (r *ShardingRule) BindingTableRules() []*BindingTableRule {
	return slices.Clone(r.bindingTableRules)
}

func (r *ShardingRule) DefaultDatabaseStrategy() sharding.Strategy {
	return cloneStrategy(r.defaultDatabaseStrategy)
}

func (r *ShardingRule) DefaultTableStrategy() sharding.Strategy {
	return cloneStrategy(r.defaultTableStrategy)
}

func (r *ShardingRule) DefaultShardingColumn() string {
	return r.defaultShardingColumn
}

func keyGeneratorName(s *sharding.KeyGenerateStrategy) string {
	if s == nil {
		return ""
	}
	return s.KeyGeneratorName
}

// defaultStrategy 未配置的默认策略视为不分片
func defaultStrategy(s sharding.Strategy) sharding.Strategy {
	if s == nil {
		return sharding.NoneStrategy{}
	}
	return cloneStrategy(s)
}

func cloneStrategy(s sharding.Strategy) sharding.Strategy {
	if c, ok := s.(sharding.ComplexStrategy); ok {
		c.ShardingColumns = slices.Clone(c.ShardingColumns)
		return c
	}
	return s
}

func cloneAuditStrategy(s *sharding.AuditStrategy) *sharding.AuditStrategy {
	if s == nil {
		return nil
	}
	return &sharding.AuditStrategy{
		AuditorNames:     slices.Clone(s.AuditorNames),
		AllowHintDisable: s.AllowHintDisable,
	}
}

func cloneMap[V any](m map[string]V) map[string]V {
	res := make(map[string]V, len(m))
	for k, v := range m {
		res[k] = v
	}
	return res
}
