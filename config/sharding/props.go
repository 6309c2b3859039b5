package sharding

import (
	"fmt"

	"github.com/magiconair/properties"
	"gopkg.in/yaml.v3"
)

// Props 算法属性
// YAML 中既可以写成 map，也可以写成 properties 文本，例如
//
//	props: |
//	  sharding-count=4
type Props map[string]string

func (p *Props) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var text string
		if err := value.Decode(&text); err != nil {
			return err
		}
		pp, err := properties.LoadString(text)
		if err != nil {
			return fmt.Errorf("%w: props: %w", ErrConfigSyntaxInvalid, err)
		}
		*p = pp.Map()
		return nil
	}
	var raw map[string]any
	if err := value.Decode(&raw); err != nil {
		return err
	}
	res := make(Props, len(raw))
	for k, v := range raw {
		res[k] = fmt.Sprint(v)
	}
	*p = res
	return nil
}

// AlgorithmConfig 算法配置，Type 决定算法实现
type AlgorithmConfig struct {
	Type  string `yaml:"type"`
	Props Props  `yaml:"props"`
}
