package entity

import (
	"fmt"
	"strings"
)

// ColumnKind is the scalar type inferred for a whole column.
type ColumnKind int

const (
	ColumnKindText ColumnKind = iota
	ColumnKindNumeric
)

func (k ColumnKind) String() string {
	switch k {
	case ColumnKindNumeric:
		return "numeric"
	default:
		return "text"
	}
}

// MarshalText lets the kind appear by name in JSON.
func (k ColumnKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ChartKind is one of the supported chart layouts.
type ChartKind string

const (
	ChartKindLine    ChartKind = "line"
	ChartKindBar     ChartKind = "bar"
	ChartKindScatter ChartKind = "scatter"
)

// DefaultChartKind is used when a request names no chart kind.
const DefaultChartKind = ChartKindLine

// ChartKinds lists the supported kinds in the order the UI offers them.
func ChartKinds() []ChartKind {
	return []ChartKind{ChartKindLine, ChartKindBar, ChartKindScatter}
}

// ErrUnsupportedChartKind is returned by ParseChartKind for unknown names.
type ErrUnsupportedChartKind struct {
	Kind string
}

func (e *ErrUnsupportedChartKind) Error() string {
	return fmt.Sprintf("unsupported chart type %q (use line, bar or scatter)", e.Kind)
}

// ParseChartKind matches value case-insensitively against the supported kinds.
func ParseChartKind(value string) (ChartKind, error) {
	switch ChartKind(strings.ToLower(strings.TrimSpace(value))) {
	case ChartKindLine:
		return ChartKindLine, nil
	case ChartKindBar:
		return ChartKindBar, nil
	case ChartKindScatter:
		return ChartKindScatter, nil
	default:
		return "", &ErrUnsupportedChartKind{Kind: value}
	}
}

// Namespace tells where a stored dataset lives.
type Namespace string

const (
	NamespaceUploaded Namespace = "uploaded"
	NamespaceSample   Namespace = "sample"
)
