package domain

import "time"

// Row types mirror the six relational entity sets as the extractor reads
// them. Timestamps and prices stay in source text form here; the loader
// normalizes and coerces them before anything reaches the graph store.

type CategoryRow struct {
	ID   int64
	Name string
}

type ProductRow struct {
	ID         int64
	Name       string
	Price      string // numeric column, coerced to float64 at load time
	CategoryID int64
}

type CustomerRow struct {
	ID       int64
	Name     string
	JoinDate string
}

type OrderRow struct {
	ID         int64
	CustomerID int64
	Timestamp  string
}

type OrderItemRow struct {
	OrderID   int64
	ProductID int64
	Quantity  int64
}

type EventRow struct {
	CustomerID int64
	ProductID  int64
	EventType  string
	Timestamp  string
}

// EntityReport holds per-entity load counts for one run
type EntityReport struct {
	Entity    string `json:"entity"`
	Extracted int    `json:"extracted"`
	Loaded    int    `json:"loaded"`
	Failed    int    `json:"failed"`
}

// RunReport summarizes a full pipeline run
type RunReport struct {
	RunID         string         `json:"run_id"`
	StartedAt     time.Time      `json:"started_at"`
	Duration      time.Duration  `json:"duration"`
	SchemaApplied int            `json:"schema_applied"`
	SchemaFailed  int            `json:"schema_failed"`
	Entities      []EntityReport `json:"entities"`
}

// TotalFailed sums row failures across all entity sets
func (r *RunReport) TotalFailed() int {
	total := 0
	for _, e := range r.Entities {
		total += e.Failed
	}
	return total
}
