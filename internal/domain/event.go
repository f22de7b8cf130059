package domain

const (
	EventOptimizationCompleted = "optimization_completed"
	EventOptimizationFailed    = "optimization_failed"
)

type EventMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type OptimizationCompletedData struct {
	LedgerID    string `json:"ledgerId"`
	Date        string `json:"date"`
	Changed     int    `json:"changed"`
	Variables   int    `json:"variables"`
	Constraints int    `json:"constraints"`
	Duration    string `json:"duration"`
}

type OptimizationFailedData struct {
	LedgerID string `json:"ledgerId"`
	Date     string `json:"date"`
	Error    string `json:"error"`
}
