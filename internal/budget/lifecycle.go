// Package budget drives the lifecycle of the budget being composed: it
// validates the editor session, hands composed budgets to the record store,
// and forwards status changes and deletions. The store is an asynchronous
// request/response boundary; nothing here retries or caches across calls.
package budget

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/pbaptista/orcamentos/internal/editor"
	"github.com/pbaptista/orcamentos/internal/models"
	"github.com/pbaptista/orcamentos/internal/normalize"
	"github.com/pbaptista/orcamentos/internal/stats"
	"github.com/pbaptista/orcamentos/internal/validation"
)

// ErrNotFound reports that the record store has no budget with the given id.
var ErrNotFound = errors.New("budget not found")

// StoreError carries a failure reported by the record store or the
// transport to it. The message is surfaced to the user verbatim and the
// operation is never retried automatically; the user re-invokes the action.
type StoreError struct {
	Op      string
	Message string
	Err     error
}

func (e *StoreError) Error() string { return e.Op + ": " + e.Message }
func (e *StoreError) Unwrap() error { return e.Err }

// Store is the record-store boundary. The store owns serialization of
// writes; callers re-fetch collections after every mutation instead of
// patching local state.
type Store interface {
	Save(ctx context.Context, b *models.Budget) error
	Get(ctx context.Context, id uint) (*models.Budget, error)
	List(ctx context.Context) ([]models.BudgetSummary, error)
	SetStatus(ctx context.Context, id uint, status string) error
	Delete(ctx context.Context, id uint) error
	All(ctx context.Context) ([]models.Budget, error)
	GetSettings(ctx context.Context) (*models.Settings, error)
	SaveSettings(ctx context.Context, s *models.Settings) error
}

// Client holds the client-facing fields entered on the composition screen.
type Client struct {
	Name    string
	Phone   string
	Email   string
	Address string
}

// Lifecycle owns the current budget being composed or edited.
type Lifecycle struct {
	store   Store
	session *editor.Session
	now     func() time.Time
}

func NewLifecycle(store Store, session *editor.Session) *Lifecycle {
	return &Lifecycle{store: store, session: session, now: time.Now}
}

// Session exposes the session this lifecycle drives.
func (l *Lifecycle) Session() *editor.Session { return l.session }

// StartNew resets the session to an empty, unbound, adding state.
func (l *Lifecycle) StartNew() { l.session.Reset() }

// StartEdit loads a persisted budget into the session. ErrNotFound passes
// through untouched so callers can distinguish an absent record from a
// failing store.
func (l *Lifecycle) StartEdit(ctx context.Context, id uint) (*models.Budget, error) {
	b, err := l.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, wrapStore("load budget", err)
	}
	l.session.Load(b)
	return b, nil
}

// Submit validates the composed budget and sends it to the record store.
// Validation failures block before any store call. A store failure leaves
// the session untouched so the user can retry without re-entering data;
// success resets it for the next composition.
func (l *Lifecycle) Submit(ctx context.Context, c Client) (*models.Budget, error) {
	v := validation.Violations{}
	validation.Required("client", c.Name, v)
	if l.session.Len() == 0 {
		v["items"] = "required"
	}
	if !normalize.ValidPhone(c.Phone) {
		v["phone"] = "invalid_phone"
	}
	if !v.Empty() {
		return nil, validation.NewError(v)
	}
	b := &models.Budget{
		ID:          l.session.BoundID(),
		ClientName:  strings.TrimSpace(c.Name),
		Phone:       c.Phone,
		Email:       c.Email,
		Address:     c.Address,
		Items:       l.session.Items(),
		GrandTotal:  l.session.Total(),
		CreatedDate: l.now().Format("02/01/2006"),
	}
	if err := l.store.Save(ctx, b); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, wrapStore("save budget", err)
	}
	l.session.Reset()
	return b, nil
}

// SetStatus forwards a status change. Any known status may be set from any
// other, re-setting the current status included: the transition graph is
// fully connected so business corrections (un-rejecting, reverting an
// approval) stay possible.
func (l *Lifecycle) SetStatus(ctx context.Context, id uint, status string) error {
	if !models.ValidStatus(status) {
		return validation.NewError(validation.Violations{"status": "unknown_status"})
	}
	if err := l.store.SetStatus(ctx, id, status); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return wrapStore("set status", err)
	}
	return nil
}

// Delete forwards a deletion. Nothing is patched locally; callers re-fetch
// history and stats afterwards.
func (l *Lifecycle) Delete(ctx context.Context, id uint) error {
	if err := l.store.Delete(ctx, id); err != nil {
		return wrapStore("delete budget", err)
	}
	return nil
}

// Stats recomputes the dashboard from the full persisted collection.
func (l *Lifecycle) Stats(ctx context.Context) (stats.Dashboard, error) {
	all, err := l.store.All(ctx)
	if err != nil {
		return stats.Dashboard{}, wrapStore("load stats", err)
	}
	return stats.Compute(all), nil
}

func wrapStore(op string, err error) error {
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Message: err.Error(), Err: err}
}
