// Package stats derives the dashboard counters from the full budget
// collection. The figures are recomputed from a fresh snapshot on every
// request rather than patched incrementally, so status changes made out of
// band can never leave them stale.
package stats

import "github.com/pbaptista/orcamentos/internal/models"

// Dashboard holds the derived counters shown on the home screen.
type Dashboard struct {
	ApprovedValue float64 `json:"approved_value"`
	ApprovedCount int     `json:"approved_count"`
	PendingValue  float64 `json:"pending_value"`
	PendingCount  int     `json:"pending_count"`
	RejectedCount int     `json:"rejected_count"`
	TotalCount    int     `json:"total_count"`
}

// Compute buckets the collection by status in a single pass. Pending and
// approved budgets accumulate value and count; rejected ones only count.
// A blank status counts as pending, matching rows persisted before the
// status column existed.
func Compute(budgets []models.Budget) Dashboard {
	d := Dashboard{TotalCount: len(budgets)}
	for i := range budgets {
		switch budgets[i].Status {
		case models.StatusApproved:
			d.ApprovedCount++
			d.ApprovedValue += budgets[i].GrandTotal
		case models.StatusRejected:
			d.RejectedCount++
		default:
			d.PendingCount++
			d.PendingValue += budgets[i].GrandTotal
		}
	}
	return d
}
