package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// 布局统一使用毫米；字体字号以 pt 给出，在边界处换算。

// Unit is the unit an author wrote a length in.
type Unit int

const (
	UnitNone Unit = iota
	UnitMM
	UnitCM
	UnitIN
	UnitPT
)

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

var unitSuffixes = []struct {
	suffix string
	unit   Unit
}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}}

func (u Unit) String() string {
	for _, s := range unitSuffixes {
		if s.unit == u {
			return s.suffix
		}
	}
	return ""
}

// Length keeps a value together with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// mm returns the length of one unit in millimetres. Unit-less values count as millimetres.
func (u Unit) mm() float64 {
	switch u {
	case UnitCM:
		return 10
	case UnitIN:
		return 25.4
	case UnitPT:
		return PtToMm
	default:
		return 1
	}
}

// ToMM converts the length to millimetres.
func (l Length) ToMM() float64 { return l.Value * l.Unit.mm() }

// ToPT converts the length to points.
func (l Length) ToPT() float64 {
	if l.Unit == UnitPT {
		return l.Value
	}
	return l.ToMM() * MmToPt
}

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'g', -1, 64) + l.Unit.String()
}

// ParseLength 解析形如 "120mm"、"4in"、"12pt" 的长度，省略单位时按 mm 处理。
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("长度为空")
	}
	unit := UnitNone
	num := v
	for _, s := range unitSuffixes {
		if strings.HasSuffix(v, s.suffix) {
			unit = s.unit
			num = strings.TrimSpace(strings.TrimSuffix(v, s.suffix))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("无法解析长度 %q: %w", value, err)
	}
	if unit == UnitNone {
		unit = UnitMM
	}
	return Length{Value: f, Unit: unit}, nil
}

// LineHeightKind distinguishes factor-based and absolute line heights.
type LineHeightKind int

const (
	LineHeightFactor LineHeightKind = iota
	LineHeightAbsolute
)

// LineHeightSpec is either a factor of the font size (1.2x) or an absolute length (18pt).
type LineHeightSpec struct {
	Kind   LineHeightKind `json:"kind"`
	Factor float64        `json:"factor,omitempty"`
	Len    Length         `json:"len,omitempty"`
}

// DefaultLineHeight 为 1.2 倍字号。
var DefaultLineHeight = LineHeightSpec{Kind: LineHeightFactor, Factor: 1.2}

// ResolveMM returns the line height in millimetres for a font of fontSizePt points.
func (s LineHeightSpec) ResolveMM(fontSizePt float64) float64 {
	switch s.Kind {
	case LineHeightAbsolute:
		return s.Len.ToMM()
	default:
		factor := s.Factor
		if factor <= 0 {
			factor = DefaultLineHeight.Factor
		}
		return fontSizePt * PtToMm * factor
	}
}

// ParseLineHeight 解析 "1.2x" 或带单位的绝对行高。
func ParseLineHeight(value string) (LineHeightSpec, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if strings.HasSuffix(v, "x") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(v, "x"), 64)
		if err != nil || f <= 0 {
			return LineHeightSpec{}, fmt.Errorf("无法解析行高倍数 %q", value)
		}
		return LineHeightSpec{Kind: LineHeightFactor, Factor: f}, nil
	}
	l, err := ParseLength(v)
	if err != nil {
		return LineHeightSpec{}, err
	}
	return LineHeightSpec{Kind: LineHeightAbsolute, Len: l}, nil
}
