// Package binding 把 JSON 数据插入内联节点中的 ${path} 占位符。
package binding

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/ByLCY/inkline/inline"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值。
// 若 data 为空或路径不存在，则保留原占位符。
func Interpolate(text string, data any) string {
	if data == nil || !strings.Contains(text, "${") {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		path := strings.TrimSpace(match[2 : len(match)-1])
		if path == "" {
			return match
		}
		if val, ok := Lookup(data, path); ok {
			return format(val)
		}
		return match
	})
}

// Apply 返回插值后的节点树副本。Text、Code、链接目标与图片地址会被插值；
// 公式源码与 HTML 保持原样。
func Apply(nodes []inline.Node, data any) []inline.Node {
	if data == nil {
		return nodes
	}
	out := make([]inline.Node, len(nodes))
	for i, n := range nodes {
		out[i] = applyNode(n, data)
	}
	return out
}

func applyNode(n inline.Node, data any) inline.Node {
	switch v := n.(type) {
	case inline.Text:
		return inline.Text{Value: Interpolate(v.Value, data)}
	case inline.Code:
		return inline.Code{Value: Interpolate(v.Value, data)}
	case inline.Emphasis:
		return inline.Emphasis{Children: Apply(v.Children, data)}
	case inline.Strong:
		return inline.Strong{Children: Apply(v.Children, data)}
	case inline.Strikethrough:
		return inline.Strikethrough{Children: Apply(v.Children, data)}
	case inline.Link:
		return inline.Link{Destination: Interpolate(v.Destination, data), Children: Apply(v.Children, data)}
	case inline.Image:
		return inline.Image{Source: Interpolate(v.Source, data), Children: Apply(v.Children, data)}
	default:
		return n
	}
}

// Load 读取 JSON 数据文件。
func Load(path string) (any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("解析数据文件 %s 失败: %w", path, err)
	}
	return data, nil
}

// Lookup 按 a.b[0].c 形式的路径取值。
func Lookup(data any, path string) (any, bool) {
	current := data
	for _, segment := range strings.Split(path, ".") {
		name, indexes, ok := parseSegment(strings.TrimSpace(segment))
		if !ok {
			return nil, false
		}
		if name != "" {
			m, isMap := current.(map[string]any)
			if !isMap {
				return nil, false
			}
			if current, ok = m[name]; !ok {
				return nil, false
			}
		}
		for _, idx := range indexes {
			arr, isArr := current.([]any)
			if !isArr || idx < 0 || idx >= len(arr) {
				return nil, false
			}
			current = arr[idx]
		}
	}
	return current, true
}

// parseSegment 拆分 name[1][2]；下标不是整数或括号不闭合时返回 false。
func parseSegment(segment string) (string, []int, bool) {
	i := strings.IndexByte(segment, '[')
	if i == -1 {
		return segment, nil, segment != ""
	}
	name, rest := segment[:i], segment[i:]
	var indexes []int
	for rest != "" {
		end := strings.IndexByte(rest, ']')
		if rest[0] != '[' || end == -1 {
			return "", nil, false
		}
		idx, err := strconv.Atoi(rest[1:end])
		if err != nil {
			return "", nil, false
		}
		indexes = append(indexes, idx)
		rest = rest[end+1:]
	}
	return name, indexes, true
}

// format 让 JSON 数字按最短形式输出（3 而不是 3.000000）。
func format(v any) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}
