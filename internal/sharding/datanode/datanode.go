package datanode

import (
	"fmt"
	"strings"

	"github.com/meoying/shardingrule/internal/errs"
)

const delimiter = "."

// DataNode 真实数据节点，即一个 (数据源, 真实表) 对
type DataNode struct {
	DataSource string
	Table      string
}

func New(dataSource, table string) DataNode {
	return DataNode{DataSource: dataSource, Table: table}
}

// Parse 解析 ds.table 格式的数据节点
func Parse(text string) (DataNode, error) {
	segments := strings.Split(strings.TrimSpace(text), delimiter)
	if len(segments) != 2 {
		return DataNode{}, errs.NewErrInvalidDataNode(text)
	}
	ds, tbl := strings.TrimSpace(segments[0]), strings.TrimSpace(segments[1])
	if ds == "" || tbl == "" {
		return DataNode{}, errs.NewErrInvalidDataNode(text)
	}
	return New(ds, tbl), nil
}

func (d DataNode) String() string {
	return fmt.Sprintf("%s%s%s", d.DataSource, delimiter, d.Table)
}

// Key 返回忽略大小写的比较键
func (d DataNode) Key() Key {
	return Key{dataSource: strings.ToLower(d.DataSource), table: strings.ToLower(d.Table)}
}

func (d DataNode) Equals(other DataNode) bool {
	return d.Key() == other.Key()
}

// Key 忽略大小写的数据节点，用作 map 的键
type Key struct {
	dataSource string
	table      string
}
