package stats

import (
	"testing"

	"github.com/pbaptista/orcamentos/internal/models"
)

func TestComputeBucketsByStatus(t *testing.T) {
	budgets := []models.Budget{
		{GrandTotal: 100, Status: models.StatusPending},
		{GrandTotal: 50, Status: models.StatusApproved},
		{GrandTotal: 30, Status: models.StatusRejected},
	}
	d := Compute(budgets)
	if d.PendingValue != 100 || d.PendingCount != 1 {
		t.Errorf("pending = %v/%d", d.PendingValue, d.PendingCount)
	}
	if d.ApprovedValue != 50 || d.ApprovedCount != 1 {
		t.Errorf("approved = %v/%d", d.ApprovedValue, d.ApprovedCount)
	}
	if d.RejectedCount != 1 {
		t.Errorf("rejected = %d", d.RejectedCount)
	}
	if d.TotalCount != 3 {
		t.Errorf("total = %d", d.TotalCount)
	}
}

func TestComputeRejectedValueNotAccumulated(t *testing.T) {
	d := Compute([]models.Budget{{GrandTotal: 999, Status: models.StatusRejected}})
	if d.ApprovedValue != 0 || d.PendingValue != 0 {
		t.Fatalf("rejected budget leaked value: %+v", d)
	}
	if d.TotalCount != 1 || d.RejectedCount != 1 {
		t.Fatalf("counts wrong: %+v", d)
	}
}

func TestComputeBlankStatusCountsAsPending(t *testing.T) {
	d := Compute([]models.Budget{{GrandTotal: 10}})
	if d.PendingCount != 1 || d.PendingValue != 10 {
		t.Fatalf("blank status: %+v", d)
	}
}

func TestComputeEmpty(t *testing.T) {
	if d := Compute(nil); d != (Dashboard{}) {
		t.Fatalf("empty input: %+v", d)
	}
}

func TestComputeIsPure(t *testing.T) {
	in := []models.Budget{{GrandTotal: 1, Status: models.StatusPending}}
	a := Compute(in)
	b := Compute(in)
	if a != b {
		t.Fatalf("repeated calls differ: %+v vs %+v", a, b)
	}
}
