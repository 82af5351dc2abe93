package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/pbaptista/orcamentos/internal/budget"
	"github.com/pbaptista/orcamentos/internal/editor"
	"github.com/pbaptista/orcamentos/internal/httpx"
	"github.com/pbaptista/orcamentos/internal/models"
	"github.com/pbaptista/orcamentos/internal/stats"
	"github.com/pbaptista/orcamentos/internal/validation"
)

// BudgetHandler exposes the record store plus the composition engine over
// HTTP. Saves run through a fresh editor session and lifecycle per request,
// so the invariants guarding interactive composition also guard direct API
// writes.
type BudgetHandler struct {
	Store budget.Store
}

func NewBudgetHandler(st budget.Store) *BudgetHandler { return &BudgetHandler{Store: st} }

// List: GET /budgets – history summaries, newest first.
func (h *BudgetHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Store.List(r.Context())
	if err != nil {
		// a failed read degrades to an empty history instead of trapping the
		// user on a broken screen
		log.Printf("list budgets: %v", err)
		httpx.JSON(w, http.StatusOK, map[string]any{"items": []models.BudgetSummary{}, "total": 0})
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

type saveItemReq struct {
	Description string  `json:"desc"`
	Note        string  `json:"obs"`
	Quantity    float64 `json:"qty"`
	UnitPrice   float64 `json:"price"`
}

type saveReq struct {
	ID      uint          `json:"id"`
	Client  string        `json:"client"`
	Phone   string        `json:"phone"`
	Email   string        `json:"email"`
	Address string        `json:"address"`
	Items   []saveItemReq `json:"items"`
}

// Save: POST /budgets – create (no id) or update (id set).
func (h *BudgetHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req saveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", "", nil)
		return
	}
	sess := editor.NewSession()
	if req.ID != 0 {
		sess.Bind(req.ID)
	}
	for _, it := range req.Items {
		if err := sess.AddOrUpdate(it.Description, it.Note, it.Quantity, it.UnitPrice); err != nil {
			respondErr(w, err)
			return
		}
	}
	lc := budget.NewLifecycle(h.Store, sess)
	b, err := lc.Submit(r.Context(), budget.Client{Name: req.Client, Phone: req.Phone, Email: req.Email, Address: req.Address})
	if err != nil {
		respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"id": b.ID, "status": b.Status, "total": b.GrandTotal})
}

// Get: GET /budgets/get?id=... – full record for the edit screen.
func (h *BudgetHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	b, err := h.Store.Get(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}

// SetStatus: POST /budgets/status?id=...&status=APPROVED
func (h *BudgetHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	status := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("status")))
	lc := budget.NewLifecycle(h.Store, editor.NewSession())
	if err := lc.SetStatus(r.Context(), id, status); err != nil {
		respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Delete: POST /budgets/delete?id=... – the interactive confirmation lives
// in the client; by the time the request arrives it is unconditional.
func (h *BudgetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	lc := budget.NewLifecycle(h.Store, editor.NewSession())
	if err := lc.Delete(r.Context(), id); err != nil {
		respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Stats: GET /stats – dashboard counters recomputed from the full collection.
func (h *BudgetHandler) Stats(w http.ResponseWriter, r *http.Request) {
	all, err := h.Store.All(r.Context())
	if err != nil {
		// degrade to a zeroed dashboard; navigation must not block on a read
		log.Printf("load stats: %v", err)
		httpx.JSON(w, http.StatusOK, stats.Dashboard{})
		return
	}
	httpx.JSON(w, http.StatusOK, stats.Compute(all))
}

func parseID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	idStr := r.URL.Query().Get("id")
	if idStr == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", "", nil)
		return 0, false
	}
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", "", nil)
		return 0, false
	}
	return uint(id), true
}

// respondErr maps the engine's error taxonomy onto HTTP envelopes.
func respondErr(w http.ResponseWriter, err error) {
	var ve *validation.Error
	if errors.As(err, &ve) {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", "", ve.Violations)
		return
	}
	if errors.Is(err, budget.ErrNotFound) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", "", nil)
		return
	}
	var se *budget.StoreError
	if errors.As(err, &se) {
		httpx.JSONError(w, http.StatusInternalServerError, "backend_error", se.Message, nil)
		return
	}
	httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "", nil)
}
