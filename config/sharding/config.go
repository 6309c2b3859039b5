package sharding

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

// RuleConfig 分片规则配置
type RuleConfig struct {
	DataSources     []DataSourceConfig
	Tables          []TableRuleConfig
	AutoTables      []AutoTableRuleConfig
	BindingTables   []BindingTableConfig
	BroadcastTables []string

	// 为 nil 时等价于 NoneStrategy
	DefaultDatabaseStrategy    Strategy
	DefaultTableStrategy       Strategy
	DefaultKeyGenerateStrategy *KeyGenerateStrategy
	DefaultAuditStrategy       *AuditStrategy
	DefaultShardingColumn      string

	ShardingAlgorithms map[string]AlgorithmConfig
	KeyGenerators      map[string]AlgorithmConfig
	Auditors           map[string]AlgorithmConfig
}

func (c *RuleConfig) UnmarshalYAML(value *yaml.Node) error {
	type rawRuleConfig struct {
		DataSources                []DataSourceConfig         `yaml:"dataSources"`
		Tables                     []TableRuleConfig          `yaml:"tables"`
		AutoTables                 []AutoTableRuleConfig      `yaml:"autoTables"`
		BindingTables              []BindingTableConfig       `yaml:"bindingTables"`
		BroadcastTables            []string                   `yaml:"broadcastTables"`
		DefaultDatabaseStrategy    *rawStrategy               `yaml:"defaultDatabaseStrategy"`
		DefaultTableStrategy       *rawStrategy               `yaml:"defaultTableStrategy"`
		DefaultKeyGenerateStrategy *KeyGenerateStrategy       `yaml:"defaultKeyGenerateStrategy"`
		DefaultAuditStrategy       *AuditStrategy             `yaml:"defaultAuditStrategy"`
		DefaultShardingColumn      string                     `yaml:"defaultShardingColumn"`
		ShardingAlgorithms         map[string]AlgorithmConfig `yaml:"shardingAlgorithms"`
		KeyGenerators              map[string]AlgorithmConfig `yaml:"keyGenerators"`
		Auditors                   map[string]AlgorithmConfig `yaml:"auditors"`
	}
	var raw rawRuleConfig
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("%w: %w", ErrConfigSyntaxInvalid, err)
	}
	dbStrategy, err := raw.DefaultDatabaseStrategy.strategy()
	if err != nil {
		return fmt.Errorf("%w: defaultDatabaseStrategy", err)
	}
	tblStrategy, err := raw.DefaultTableStrategy.strategy()
	if err != nil {
		return fmt.Errorf("%w: defaultTableStrategy", err)
	}
	*c = RuleConfig{
		DataSources:                raw.DataSources,
		Tables:                     raw.Tables,
		AutoTables:                 raw.AutoTables,
		BindingTables:              raw.BindingTables,
		BroadcastTables:            raw.BroadcastTables,
		DefaultDatabaseStrategy:    dbStrategy,
		DefaultTableStrategy:       tblStrategy,
		DefaultKeyGenerateStrategy: raw.DefaultKeyGenerateStrategy,
		DefaultAuditStrategy:       raw.DefaultAuditStrategy,
		DefaultShardingColumn:      raw.DefaultShardingColumn,
		ShardingAlgorithms:         raw.ShardingAlgorithms,
		KeyGenerators:              raw.KeyGenerators,
		Auditors:                   raw.Auditors,
	}
	return nil
}

// DataSourceNames 按配置顺序返回数据源名字
func (c *RuleConfig) DataSourceNames() []string {
	names := make([]string, 0, len(c.DataSources))
	for _, ds := range c.DataSources {
		names = append(names, ds.Name)
	}
	return names
}

// Validate 校验配置的结构，一次性返回所有问题
// 算法名字的引用在构建分片规则时校验，因为算法也可以直接以对象的形式传入
func (c *RuleConfig) Validate() error {
	var err *multierror.Error
	for i, ds := range c.DataSources {
		if e := ds.validate(); e != nil {
			err = multierror.Append(err, fmt.Errorf("dataSources[%d]: %w", i, e))
		}
	}
	for i, tbl := range c.Tables {
		if strings.TrimSpace(tbl.LogicTable) == "" {
			err = multierror.Append(err, fmt.Errorf("%w: tables[%d] 缺少 logicTable", ErrConfigInvalid, i))
		}
		if IsSharding(tbl.TableStrategy) && strings.TrimSpace(tbl.ActualDataNodes) == "" {
			err = multierror.Append(err, fmt.Errorf("%w: tables[%d] 配置了 tableStrategy 但缺少 actualDataNodes", ErrConfigInvalid, i))
		}
	}
	for i, tbl := range c.AutoTables {
		if strings.TrimSpace(tbl.LogicTable) == "" {
			err = multierror.Append(err, fmt.Errorf("%w: autoTables[%d] 缺少 logicTable", ErrConfigInvalid, i))
		}
		if tbl.ShardingStrategy == nil {
			err = multierror.Append(err, fmt.Errorf("%w: autoTables[%d] 缺少 shardingStrategy", ErrConfigInvalid, i))
		}
	}
	for i, b := range c.BindingTables {
		if len(b.LogicTables()) == 0 {
			err = multierror.Append(err, fmt.Errorf("%w: bindingTables[%d] 为空", ErrConfigInvalid, i))
		}
	}
	for name, alg := range c.allAlgorithms() {
		if strings.TrimSpace(alg.Type) == "" {
			err = multierror.Append(err, fmt.Errorf("%w: 算法 %s 缺少 type", ErrConfigInvalid, name))
		}
	}
	return err.ErrorOrNil()
}

func (c *RuleConfig) allAlgorithms() map[string]AlgorithmConfig {
	res := make(map[string]AlgorithmConfig, len(c.ShardingAlgorithms)+len(c.KeyGenerators)+len(c.Auditors))
	for _, m := range []map[string]AlgorithmConfig{c.ShardingAlgorithms, c.KeyGenerators, c.Auditors} {
		for name, alg := range m {
			res[name] = alg
		}
	}
	return res
}

// DataSourceConfig 数据源配置，DSN 采用 go-sql-driver/mysql 的格式
type DataSourceConfig struct {
	Name   string   `yaml:"name"`
	Master string   `yaml:"master"`
	Slaves []string `yaml:"slaves,omitempty"`
}

func (d DataSourceConfig) validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: 缺少 name", ErrConfigInvalid)
	}
	for _, dsn := range append([]string{d.Master}, d.Slaves...) {
		if dsn == "" {
			continue
		}
		if _, err := mysql.ParseDSN(dsn); err != nil {
			return fmt.Errorf("%w: %s 的 dsn 非法: %w", ErrConfigInvalid, d.Name, err)
		}
	}
	return nil
}

// TableRuleConfig 分片表配置
type TableRuleConfig struct {
	LogicTable string
	// ActualDataNodes 行表达式，例如 ds_${0..1}.t_order_${0..2}
	ActualDataNodes   string
	ActualTablePrefix string

	// 为 nil 时使用规则的默认策略
	DatabaseStrategy    Strategy
	TableStrategy       Strategy
	KeyGenerateStrategy *KeyGenerateStrategy
	AuditStrategy       *AuditStrategy
}

func (t *TableRuleConfig) UnmarshalYAML(value *yaml.Node) error {
	type rawTableRuleConfig struct {
		LogicTable          string               `yaml:"logicTable"`
		ActualDataNodes     string               `yaml:"actualDataNodes"`
		ActualTablePrefix   string               `yaml:"actualTablePrefix"`
		DatabaseStrategy    *rawStrategy         `yaml:"databaseStrategy"`
		TableStrategy       *rawStrategy         `yaml:"tableStrategy"`
		KeyGenerateStrategy *KeyGenerateStrategy `yaml:"keyGenerateStrategy"`
		AuditStrategy       *AuditStrategy       `yaml:"auditStrategy"`
	}
	var raw rawTableRuleConfig
	if err := value.Decode(&raw); err != nil {
		return err
	}
	dbStrategy, err := raw.DatabaseStrategy.strategy()
	if err != nil {
		return fmt.Errorf("%w: tables.%s.databaseStrategy", err, raw.LogicTable)
	}
	tblStrategy, err := raw.TableStrategy.strategy()
	if err != nil {
		return fmt.Errorf("%w: tables.%s.tableStrategy", err, raw.LogicTable)
	}
	*t = TableRuleConfig{
		LogicTable:          raw.LogicTable,
		ActualDataNodes:     raw.ActualDataNodes,
		ActualTablePrefix:   raw.ActualTablePrefix,
		DatabaseStrategy:    dbStrategy,
		TableStrategy:       tblStrategy,
		KeyGenerateStrategy: raw.KeyGenerateStrategy,
		AuditStrategy:       raw.AuditStrategy,
	}
	return nil
}

// AutoTableRuleConfig 自动分片表配置，真实表的数量由分片算法决定
type AutoTableRuleConfig struct {
	LogicTable string
	// ActualDataSources 行表达式，例如 ds_${0..1}，为空时使用全部数据源
	ActualDataSources   string
	ActualTablePrefix   string
	ShardingStrategy    Strategy
	KeyGenerateStrategy *KeyGenerateStrategy
	AuditStrategy       *AuditStrategy
}

func (t *AutoTableRuleConfig) UnmarshalYAML(value *yaml.Node) error {
	type rawAutoTableRuleConfig struct {
		LogicTable          string               `yaml:"logicTable"`
		ActualDataSources   string               `yaml:"actualDataSources"`
		ActualTablePrefix   string               `yaml:"actualTablePrefix"`
		ShardingStrategy    *rawStrategy         `yaml:"shardingStrategy"`
		KeyGenerateStrategy *KeyGenerateStrategy `yaml:"keyGenerateStrategy"`
		AuditStrategy       *AuditStrategy       `yaml:"auditStrategy"`
	}
	var raw rawAutoTableRuleConfig
	if err := value.Decode(&raw); err != nil {
		return err
	}
	s, err := raw.ShardingStrategy.strategy()
	if err != nil {
		return fmt.Errorf("%w: autoTables.%s.shardingStrategy", err, raw.LogicTable)
	}
	*t = AutoTableRuleConfig{
		LogicTable:          raw.LogicTable,
		ActualDataSources:   raw.ActualDataSources,
		ActualTablePrefix:   raw.ActualTablePrefix,
		ShardingStrategy:    s,
		KeyGenerateStrategy: raw.KeyGenerateStrategy,
		AuditStrategy:       raw.AuditStrategy,
	}
	return nil
}

// BindingTableConfig 绑定表组
// YAML 中可以直接写成 "t_order,t_order_item"，也可以写成 {name: foo, references: "t_order,t_order_item"}
type BindingTableConfig struct {
	Name       string `yaml:"name"`
	References string `yaml:"references"`
}

func (b *BindingTableConfig) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		return value.Decode(&b.References)
	}
	type rawBindingTableConfig BindingTableConfig
	var raw rawBindingTableConfig
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*b = BindingTableConfig(raw)
	return nil
}

// LogicTables 按逗号切分出逻辑表名
func (b BindingTableConfig) LogicTables() []string {
	var res []string
	for _, each := range strings.Split(b.References, ",") {
		if name := strings.TrimSpace(each); name != "" {
			res = append(res, name)
		}
	}
	return res
}

// Load 从 YAML 中加载分片规则配置
func Load(data []byte) (*RuleConfig, error) {
	var cfg RuleConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFile 根据路径加载分片规则配置文件
func LoadFile(path string) (*RuleConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}
	return Load(data)
}
