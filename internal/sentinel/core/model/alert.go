package model

// AlertEvent is raised when a report is classified as a threat. It has no
// persisted identity and is dispatched at most once.
type AlertEvent struct {
	CallSign   string  `json:"callSign"`
	ReportText string  `json:"reportText"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
}
