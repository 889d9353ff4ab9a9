package models

import "fmt"

// WarningKind classifies a non-fatal problem found during a run.
type WarningKind string

const (
	WarnEmptyResult     WarningKind = "empty_result"
	WarnDateReformat    WarningKind = "date_reformat"
	WarnFieldGap        WarningKind = "field_extraction_gap"
	WarnMarkerDiscarded WarningKind = "marker_discarded"
)

// Warning is a recoverable problem. Row is the 1-based transaction index,
// or 0 when the warning concerns the whole batch.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Row     int         `json:"row,omitempty"`
	Field   string      `json:"field,omitempty"`
	Message string      `json:"message"`
}

func (w Warning) String() string {
	if w.Row > 0 && w.Field != "" {
		return fmt.Sprintf("%s: row %d %s: %s", w.Kind, w.Row, w.Field, w.Message)
	}
	if w.Row > 0 {
		return fmt.Sprintf("%s: row %d: %s", w.Kind, w.Row, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}
