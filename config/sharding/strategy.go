package sharding

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Strategy 分片策略，只能是 NoneStrategy、StandardStrategy、ComplexStrategy、HintStrategy 之一
type Strategy interface {
	// ShardingAlgorithmName 返回策略使用的分片算法名字，NoneStrategy 返回空串
	ShardingAlgorithmName() string
	isStrategy()
}

// NoneStrategy 不分片
type NoneStrategy struct{}

func (NoneStrategy) ShardingAlgorithmName() string { return "" }
func (NoneStrategy) isStrategy()                   {}

// StandardStrategy 单分片键策略，ShardingColumn 为空时使用规则的默认分片键
type StandardStrategy struct {
	ShardingColumn string `yaml:"shardingColumn"`
	AlgorithmName  string `yaml:"shardingAlgorithmName"`
}

func (s StandardStrategy) ShardingAlgorithmName() string { return s.AlgorithmName }
func (StandardStrategy) isStrategy()                     {}

// ComplexStrategy 多分片键策略
type ComplexStrategy struct {
	ShardingColumns []string `yaml:"shardingColumns"`
	AlgorithmName   string   `yaml:"shardingAlgorithmName"`
}

func (s ComplexStrategy) ShardingAlgorithmName() string { return s.AlgorithmName }
func (ComplexStrategy) isStrategy()                     {}

// HintStrategy 强制路由策略
type HintStrategy struct {
	AlgorithmName string `yaml:"shardingAlgorithmName"`
}

func (s HintStrategy) ShardingAlgorithmName() string { return s.AlgorithmName }
func (HintStrategy) isStrategy()                     {}

// IsSharding 判断策略是否真正分片，nil 与 NoneStrategy 都不分片
func IsSharding(s Strategy) bool {
	if s == nil {
		return false
	}
	_, none := s.(NoneStrategy)
	return !none
}

// rawStrategy YAML 中策略的写法，至多出现一个 key
type rawStrategy struct {
	None     *NoneStrategy     `yaml:"none,omitempty"`
	Standard *StandardStrategy `yaml:"standard,omitempty"`
	Complex  *ComplexStrategy  `yaml:"complex,omitempty"`
	Hint     *HintStrategy     `yaml:"hint,omitempty"`
}

// UnmarshalYAML 值为空的 key 也算配置了对应的策略，例如 none:
func (r *rawStrategy) UnmarshalYAML(value *yaml.Node) error {
	type plain rawStrategy
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	if value.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(value.Content); i += 2 {
			if value.Content[i+1].ShortTag() != "!!null" {
				continue
			}
			switch value.Content[i].Value {
			case "none":
				p.None = &NoneStrategy{}
			case "standard":
				p.Standard = &StandardStrategy{}
			case "complex":
				p.Complex = &ComplexStrategy{}
			case "hint":
				p.Hint = &HintStrategy{}
			}
		}
	}
	*r = rawStrategy(p)
	return nil
}

func (r *rawStrategy) strategy() (Strategy, error) {
	if r == nil {
		return nil, nil
	}
	var (
		res   Strategy
		count int
	)
	if r.None != nil {
		res, count = NoneStrategy{}, count+1
	}
	if r.Standard != nil {
		res, count = *r.Standard, count+1
	}
	if r.Complex != nil {
		res, count = *r.Complex, count+1
	}
	if r.Hint != nil {
		res, count = *r.Hint, count+1
	}
	if count > 1 {
		return nil, fmt.Errorf("%w: 分片策略只能配置 none、standard、complex、hint 中的一种", ErrConfigSyntaxInvalid)
	}
	return res, nil
}

// KeyGenerateStrategy 主键生成策略
type KeyGenerateStrategy struct {
	Column           string `yaml:"column"`
	KeyGeneratorName string `yaml:"keyGeneratorName"`
}

// AuditStrategy 审计策略
type AuditStrategy struct {
	AuditorNames     []string `yaml:"auditorNames"`
	AllowHintDisable bool     `yaml:"allowHintDisable"`
}
