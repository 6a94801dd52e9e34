package entity

// Selection is the dataset a request points at. At most one field is
// expected to be set; Filename wins when both are.
type Selection struct {
	Filename string
	Sample   string
}

// DatasetRef identifies a stored file.
type DatasetRef struct {
	Namespace Namespace
	Name      string
}

// Ref resolves the selection to a dataset reference. ok is false when no
// dataset is selected.
func (s Selection) Ref() (DatasetRef, bool) {
	switch {
	case s.Filename != "":
		return DatasetRef{Namespace: NamespaceUploaded, Name: s.Filename}, true
	case s.Sample != "":
		return DatasetRef{Namespace: NamespaceSample, Name: s.Sample}, true
	default:
		return DatasetRef{}, false
	}
}

// Ambiguous reports whether both namespaces were named.
func (s Selection) Ambiguous() bool {
	return s.Filename != "" && s.Sample != ""
}

// ChartRequest asks for a chart of Y against X. Kind is kept as the raw
// request value so an unsupported kind can be reported, not guessed.
type ChartRequest struct {
	X    string
	Y    string
	Kind string
}

// Complete reports whether both axes are chosen.
func (r ChartRequest) Complete() bool {
	return r.X != "" && r.Y != ""
}

// Chart is a rendered chart.
type Chart struct {
	Title string
	Kind  ChartKind
	X     string
	Y     string
	SVG   []byte
}

// NumericSummary describes the distribution of one numeric column.
type NumericSummary struct {
	Column string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Median float64
	Max    float64
}
