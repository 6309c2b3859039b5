package algorithm

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// decodeProps 把字符串属性解码到带有 prop 标签的结构体里，数值会自动转换
func decodeProps(props map[string]string, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		TagName:          "prop",
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err = decoder.Decode(props); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProps, err)
	}
	return nil
}
