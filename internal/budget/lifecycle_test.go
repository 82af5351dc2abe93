package budget

import (
	"context"
	"errors"
	"testing"

	"github.com/pbaptista/orcamentos/internal/editor"
	"github.com/pbaptista/orcamentos/internal/models"
	"github.com/pbaptista/orcamentos/internal/validation"
)

// fakeStore records calls so tests can assert that validation failures
// never reach the boundary.
type fakeStore struct {
	budgets  map[uint]*models.Budget
	nextID   uint
	saves    int
	statuses []string
	saveErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{budgets: map[uint]*models.Budget{}, nextID: 1}
}

func (f *fakeStore) Save(_ context.Context, b *models.Budget) error {
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	if b.ID == 0 {
		b.ID = f.nextID
		f.nextID++
		b.Status = models.StatusPending
	} else {
		existing, ok := f.budgets[b.ID]
		if !ok {
			return ErrNotFound
		}
		b.Status = existing.Status
	}
	cp := *b
	f.budgets[b.ID] = &cp
	return nil
}

func (f *fakeStore) Get(_ context.Context, id uint) (*models.Budget, error) {
	b, ok := f.budgets[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeStore) List(context.Context) ([]models.BudgetSummary, error) { return nil, nil }

func (f *fakeStore) SetStatus(_ context.Context, id uint, status string) error {
	f.statuses = append(f.statuses, status)
	b, ok := f.budgets[id]
	if !ok {
		return ErrNotFound
	}
	b.Status = status
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id uint) error {
	delete(f.budgets, id)
	return nil
}

func (f *fakeStore) All(context.Context) ([]models.Budget, error) {
	out := make([]models.Budget, 0, len(f.budgets))
	for _, b := range f.budgets {
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeStore) GetSettings(context.Context) (*models.Settings, error) {
	return &models.Settings{}, nil
}
func (f *fakeStore) SaveSettings(context.Context, *models.Settings) error { return nil }

func compose(t *testing.T, lc *Lifecycle) {
	t.Helper()
	if err := lc.Session().AddOrUpdate("Instalação elétrica", "", 2, 150); err != nil {
		t.Fatalf("add item: %v", err)
	}
}

func TestSubmitComposesAndResets(t *testing.T) {
	st := newFakeStore()
	lc := NewLifecycle(st, editor.NewSession())
	lc.StartNew()
	compose(t, lc)

	b, err := lc.Submit(context.Background(), Client{Name: "Ana", Phone: "11987654321"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if b.ID == 0 {
		t.Fatalf("expected persisted id")
	}
	if b.GrandTotal != 300 {
		t.Fatalf("grand total = %v, want 300", b.GrandTotal)
	}
	if b.Status != models.StatusPending {
		t.Fatalf("status = %q, want PENDING", b.Status)
	}
	if b.CreatedDate == "" {
		t.Fatalf("missing created date")
	}
	if lc.Session().Len() != 0 || lc.Session().BoundID() != 0 {
		t.Fatalf("session not reset after successful submit")
	}
}

func TestSubmitValidationBlocksBeforeStore(t *testing.T) {
	cases := []struct {
		name   string
		client Client
		items  bool
		field  string
	}{
		{"missing client", Client{Phone: "11987654321"}, true, "client"},
		{"empty item list", Client{Name: "Ana", Phone: "11987654321"}, false, "items"},
		{"invalid phone", Client{Name: "Ana", Phone: "119"}, true, "phone"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			st := newFakeStore()
			lc := NewLifecycle(st, editor.NewSession())
			if c.items {
				compose(t, lc)
			}
			_, err := lc.Submit(context.Background(), c.client)
			var ve *validation.Error
			if !errors.As(err, &ve) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if _, ok := ve.Violations[c.field]; !ok {
				t.Fatalf("expected violation on %q, got %v", c.field, ve.Violations)
			}
			if st.saves != 0 {
				t.Fatalf("store contacted despite validation failure")
			}
			if c.items && lc.Session().Len() != 1 {
				t.Fatalf("session lost items on failed submit")
			}
		})
	}
}

func TestSubmitStoreFailureKeepsSession(t *testing.T) {
	st := newFakeStore()
	st.saveErr = errors.New("disk full")
	lc := NewLifecycle(st, editor.NewSession())
	compose(t, lc)

	_, err := lc.Submit(context.Background(), Client{Name: "Ana", Phone: "11987654321"})
	var se *StoreError
	if !errors.As(err, &se) {
		t.Fatalf("expected StoreError, got %v", err)
	}
	if se.Message != "disk full" {
		t.Fatalf("message = %q, want store message verbatim", se.Message)
	}
	if lc.Session().Len() != 1 {
		t.Fatalf("session must survive a failed save for retry")
	}
}

func TestStartEditLoadsAndResubmitUpdates(t *testing.T) {
	st := newFakeStore()
	lc := NewLifecycle(st, editor.NewSession())
	compose(t, lc)
	saved, err := lc.Submit(context.Background(), Client{Name: "Ana", Phone: "11987654321"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	_ = st.SetStatus(context.Background(), saved.ID, models.StatusApproved)

	loaded, err := lc.StartEdit(context.Background(), saved.ID)
	if err != nil {
		t.Fatalf("start edit: %v", err)
	}
	if loaded.ClientName != "Ana" || lc.Session().BoundID() != saved.ID || lc.Session().Len() != 1 {
		t.Fatalf("session not populated: bound=%d len=%d", lc.Session().BoundID(), lc.Session().Len())
	}

	if err := lc.Session().AddOrUpdate("Material", "", 1, 50); err != nil {
		t.Fatalf("add: %v", err)
	}
	updated, err := lc.Submit(context.Background(), Client{Name: "Ana Maria", Phone: "11987654321"})
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if updated.ID != saved.ID {
		t.Fatalf("update created a new record: %d != %d", updated.ID, saved.ID)
	}
	if updated.GrandTotal != 350 {
		t.Fatalf("grand total = %v, want 350", updated.GrandTotal)
	}
	// the engine never invents a status: the stored one is kept on update
	if updated.Status != models.StatusApproved {
		t.Fatalf("status = %q, want stored APPROVED", updated.Status)
	}
}

func TestStartEditNotFound(t *testing.T) {
	lc := NewLifecycle(newFakeStore(), editor.NewSession())
	if _, err := lc.StartEdit(context.Background(), 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetStatusIdempotentAndUnrestricted(t *testing.T) {
	st := newFakeStore()
	lc := NewLifecycle(st, editor.NewSession())
	compose(t, lc)
	b, err := lc.Submit(context.Background(), Client{Name: "Ana", Phone: "11987654321"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	ctx := context.Background()
	// approve twice: the second call is an accepted no-op, never an error
	if err := lc.SetStatus(ctx, b.ID, models.StatusApproved); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := lc.SetStatus(ctx, b.ID, models.StatusApproved); err != nil {
		t.Fatalf("re-approve: %v", err)
	}
	// any transition is legal, including un-rejecting
	if err := lc.SetStatus(ctx, b.ID, models.StatusRejected); err != nil {
		t.Fatalf("reject after approve: %v", err)
	}
	if err := lc.SetStatus(ctx, b.ID, models.StatusPending); err != nil {
		t.Fatalf("back to pending: %v", err)
	}
	if len(st.statuses) != 4 {
		t.Fatalf("expected 4 forwarded status calls, got %d", len(st.statuses))
	}
}

func TestSetStatusUnknownRejectedLocally(t *testing.T) {
	st := newFakeStore()
	lc := NewLifecycle(st, editor.NewSession())
	err := lc.SetStatus(context.Background(), 1, "SHIPPED")
	var ve *validation.Error
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(st.statuses) != 0 {
		t.Fatalf("unknown status reached the store")
	}
}

func TestStatsRecomputedFromSnapshot(t *testing.T) {
	st := newFakeStore()
	lc := NewLifecycle(st, editor.NewSession())
	ctx := context.Background()
	for i, total := range []float64{100, 50, 30} {
		compose(t, lc)
		b, err := lc.Submit(ctx, Client{Name: "C", Phone: "11987654321"})
		if err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
		st.budgets[b.ID].GrandTotal = total
	}
	_ = st.SetStatus(ctx, 2, models.StatusApproved)
	_ = st.SetStatus(ctx, 3, models.StatusRejected)

	d, err := lc.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if d.PendingValue != 100 || d.PendingCount != 1 || d.ApprovedValue != 50 || d.ApprovedCount != 1 || d.RejectedCount != 1 || d.TotalCount != 3 {
		t.Fatalf("unexpected dashboard: %+v", d)
	}
}
