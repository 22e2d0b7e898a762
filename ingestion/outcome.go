package ingestion

import (
	"fmt"
	"sync/atomic"
)

// Outcome is the aggregate result of one batch.
// Every record is counted in exactly one of Upserted, Skipped, Failed or
// Unprocessed; Degraded and Downgraded qualify records already counted in
// Upserted.
type Outcome struct {
	// Upserted counts persisted documents, in either write mode.
	Upserted int `json:"upserted"`
	// Skipped counts insert-mode writes that found the id already present.
	Skipped int `json:"skipped"`
	// Failed counts records that could not be persisted.
	Failed int `json:"failed"`

	// Degraded counts documents persisted without a vector.
	Degraded int `json:"degraded"`
	// Downgraded counts documents persisted after a durability downgrade.
	Downgraded int `json:"downgraded"`
	// Unprocessed counts records never started because the run was canceled.
	Unprocessed int `json:"unprocessed"`

	// Warnings holds batch-level warnings, such as a provisioning failure
	// tolerated under PolicyFailOpen.
	Warnings []string `json:"warnings,omitempty"`
}

// Total returns the number of records accounted for.
func (o Outcome) Total() int {
	return o.Upserted + o.Skipped + o.Failed + o.Unprocessed
}

func (o Outcome) String() string {
	return fmt.Sprintf("upserted=%d skipped=%d failed=%d degraded=%d downgraded=%d unprocessed=%d",
		o.Upserted, o.Skipped, o.Failed, o.Degraded, o.Downgraded, o.Unprocessed)
}

// counters are updated concurrently by workers and read once after the join.
type counters struct {
	upserted    atomic.Int64
	skipped     atomic.Int64
	failed      atomic.Int64
	degraded    atomic.Int64
	downgraded  atomic.Int64
	unprocessed atomic.Int64
}

func (c *counters) outcome() Outcome {
	return Outcome{
		Upserted:    int(c.upserted.Load()),
		Skipped:     int(c.skipped.Load()),
		Failed:      int(c.failed.Load()),
		Degraded:    int(c.degraded.Load()),
		Downgraded:  int(c.downgraded.Load()),
		Unprocessed: int(c.unprocessed.Load()),
	}
}
