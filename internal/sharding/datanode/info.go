package datanode

import (
	"regexp"
	"strconv"
	"strings"
)

const defaultPaddingChar = '0'

// 形如 0、01、2024_01、2024-01 的数字后缀
var suffixPattern = regexp.MustCompile(`\d+([-_]\d+)*$`)

// Info 数据节点命名信息，可以通过下标还原出节点名
type Info struct {
	Prefix          string
	SuffixMinLength int
	PaddingChar     byte
}

// NewInfo 从一组名字里推导公共前缀与后缀最小长度，names 为空时返回 nil
// 前缀取自第一个名字
func NewInfo(names []string) *Info {
	if len(names) == 0 {
		return nil
	}
	prefix := suffixPattern.ReplaceAllString(names[0], "")
	minLength := -1
	for _, name := range names {
		l := len(name) - len(prefix)
		if minLength < 0 || l < minLength {
			minLength = l
		}
	}
	return &Info{
		Prefix:          prefix,
		SuffixMinLength: minLength,
		PaddingChar:     defaultPaddingChar,
	}
}

// Name 按下标拼接节点名
func (i Info) Name(index int) string {
	suffix := strconv.Itoa(index)
	if pad := i.SuffixMinLength - len(suffix); pad > 0 {
		suffix = strings.Repeat(string(i.PaddingChar), pad) + suffix
	}
	return i.Prefix + suffix
}
