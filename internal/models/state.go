// internal/models/state.go
package models

// FlowState is the session's position in the scan/recommend flow.
type FlowState string

const (
	StateIdle         FlowState = "IDLE"
	StateFileSelected FlowState = "FILE_SELECTED"
	StateScanning     FlowState = "SCANNING"
	StateMetricsReady FlowState = "METRICS_READY"
	StateRecommending FlowState = "RECOMMENDING"
	StateResultsReady FlowState = "RESULTS_READY"
	StateError        FlowState = "ERROR"
)

// Busy reports whether a network operation is in flight in this state.
func (s FlowState) Busy() bool {
	return s == StateScanning || s == StateRecommending
}

// Stable reports whether the session can rest in this state.
func (s FlowState) Stable() bool {
	switch s {
	case StateIdle, StateFileSelected, StateMetricsReady, StateResultsReady:
		return true
	}
	return false
}

// UIStatus is what the page shows next to the controls.
type UIStatus struct {
	Busy  bool   `json:"busy"`
	Error string `json:"error,omitempty"`
}
