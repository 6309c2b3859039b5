// Package inline 展开行表达式，例如 ds_${0..1}.t_order_${['a','b']}
// 占位符同时支持 ${...} 与 $->{...} 两种写法，占位符内部是 expr 表达式
package inline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/meoying/shardingrule/internal/errs"
)

type segment struct {
	text string
	// expr 为 true 时 text 是占位符内的表达式
	expr bool
}

// Split 按最外层的逗号切分行表达式，占位符内部的逗号不参与切分
func Split(expression string) []string {
	var (
		results []string
		depth   int
		start   int
	)
	for i := 0; i < len(expression); i++ {
		switch expression[i] {
		case '{':
			depth++
		case '}':
			depth--
		case ',':
			if depth == 0 {
				results = append(results, strings.TrimSpace(expression[start:i]))
				start = i + 1
			}
		}
	}
	if last := strings.TrimSpace(expression[start:]); last != "" || len(results) > 0 {
		results = append(results, last)
	}
	return results
}

// Expand 展开行表达式
// 多个占位符按笛卡尔积展开，越靠左的占位符变化越慢；逗号分隔的多个子表达式按顺序拼接
func Expand(expression string) ([]string, error) {
	var results []string
	for _, each := range Split(expression) {
		if each == "" {
			continue
		}
		values, err := expandOne(each)
		if err != nil {
			return nil, err
		}
		results = append(results, values...)
	}
	if len(results) == 0 && strings.TrimSpace(expression) != "" {
		return nil, fmt.Errorf("%w: %s 展开结果为空", errs.ErrInvalidInlineExpression, expression)
	}
	return results, nil
}

func expandOne(text string) ([]string, error) {
	segments, err := parse(text)
	if err != nil {
		return nil, err
	}
	results := []string{""}
	for _, seg := range segments {
		if !seg.expr {
			for i := range results {
				results[i] += seg.text
			}
			continue
		}
		values, err := evaluateValues(seg.text)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", errs.ErrInvalidInlineExpression, text, err)
		}
		if len(values) == 0 {
			return nil, fmt.Errorf("%w: %s 中的 ${%s} 没有产生任何值", errs.ErrInvalidInlineExpression, text, seg.text)
		}
		next := make([]string, 0, len(results)*len(values))
		for _, prefix := range results {
			for _, v := range values {
				next = append(next, prefix+v)
			}
		}
		results = next
	}
	return results, nil
}

// Evaluate 使用 env 中的变量求值行表达式，每个占位符必须只产生一个值
func Evaluate(expression string, env map[string]any) (string, error) {
	segments, err := parse(expression)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, seg := range segments {
		if !seg.expr {
			sb.WriteString(seg.text)
			continue
		}
		program, err := expr.Compile(seg.text, expr.Env(env))
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", errs.ErrInvalidInlineExpression, expression, err)
		}
		out, err := expr.Run(program, env)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", errs.ErrInvalidInlineExpression, expression, err)
		}
		values := toStrings(out)
		if len(values) != 1 {
			return "", fmt.Errorf("%w: %s 求值结果不唯一", errs.ErrInvalidInlineExpression, expression)
		}
		sb.WriteString(values[0])
	}
	return sb.String(), nil
}

// HasPlaceholder 判断文本中是否包含占位符
func HasPlaceholder(text string) bool {
	return strings.Contains(text, "${") || strings.Contains(text, "$->{")
}

// 形如 3..0 的递减区间，expr 的 .. 只支持递增
var descendingRange = regexp.MustCompile(`^\s*(-?\d+)\s*\.\.\s*(-?\d+)\s*$`)

func evaluateValues(code string) ([]string, error) {
	if m := descendingRange.FindStringSubmatch(code); m != nil {
		from, _ := strconv.Atoi(m[1])
		to, _ := strconv.Atoi(m[2])
		if from > to {
			res := make([]string, 0, from-to+1)
			for i := from; i >= to; i-- {
				res = append(res, strconv.Itoa(i))
			}
			return res, nil
		}
	}
	program, err := expr.Compile(code)
	if err != nil {
		return nil, err
	}
	out, err := expr.Run(program, map[string]any{})
	if err != nil {
		return nil, err
	}
	return toStrings(out), nil
}

func toStrings(out any) []string {
	switch v := out.(type) {
	case []int:
		res := make([]string, len(v))
		for i, n := range v {
			res[i] = strconv.Itoa(n)
		}
		return res
	case []string:
		return v
	case []any:
		res := make([]string, len(v))
		for i, e := range v {
			res[i] = fmt.Sprint(e)
		}
		return res
	case nil:
		return nil
	default:
		return []string{fmt.Sprint(v)}
	}
}

func parse(text string) ([]segment, error) {
	var (
		segments []segment
		literal  strings.Builder
	)
	for i := 0; i < len(text); {
		width := openWidth(text, i)
		if width == 0 {
			literal.WriteByte(text[i])
			i++
			continue
		}
		end, err := closingBrace(text, i+width)
		if err != nil {
			return nil, err
		}
		code := strings.TrimSpace(text[i+width : end])
		if code == "" {
			return nil, fmt.Errorf("%w: 占位符为空: %s", errs.ErrInvalidInlineExpression, text)
		}
		if literal.Len() > 0 {
			segments = append(segments, segment{text: literal.String()})
			literal.Reset()
		}
		segments = append(segments, segment{text: code, expr: true})
		i = end + 1
	}
	if literal.Len() > 0 {
		segments = append(segments, segment{text: literal.String()})
	}
	return segments, nil
}

func openWidth(text string, i int) int {
	switch {
	case strings.HasPrefix(text[i:], "$->{"):
		return 4
	case strings.HasPrefix(text[i:], "${"):
		return 2
	default:
		return 0
	}
}

func closingBrace(text string, from int) (int, error) {
	depth := 1
	var quote byte
	for j := from; j < len(text); j++ {
		c := text[j]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return j, nil
			}
		}
	}
	return -1, fmt.Errorf("%w: 缺少 '}': %s", errs.ErrInvalidInlineExpression, text)
}
