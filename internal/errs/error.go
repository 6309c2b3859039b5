package errs

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyDataSources              = errors.New("数据源为空")
	ErrTableRuleNotFound             = errors.New("找不到逻辑表对应的分片规则")
	ErrInvalidDataNode               = errors.New("非法的数据节点")
	ErrMissingActualDataNodes        = errors.New("配置了分表策略的逻辑表缺少真实数据节点")
	ErrAutoTableAlgorithmUnsupported = errors.New("自动分片表的分片算法不支持自动分片")
	ErrBindingTableNotFound          = errors.New("找不到绑定表")
	ErrActualTableNotFound           = errors.New("找不到真实表")
	ErrBindingTableMismatch          = errors.New("绑定表的数据节点分布不一致")
	ErrKeyGenerateStrategyNotFound   = errors.New("找不到主键生成策略")
	ErrAlgorithmNotFound             = errors.New("找不到算法")
	ErrInvalidInlineExpression       = errors.New("非法的行表达式")
)

func NewErrTableRuleNotFound(logicTable string) error {
	return fmt.Errorf("%w: %s", ErrTableRuleNotFound, logicTable)
}

func NewErrInvalidDataNode(dataNode string) error {
	return fmt.Errorf("%w: %s", ErrInvalidDataNode, dataNode)
}

func NewErrAlgorithmNotFound(name string) error {
	return fmt.Errorf("%w: %s", ErrAlgorithmNotFound, name)
}
