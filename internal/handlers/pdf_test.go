package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPDFRender(t *testing.T) {
	st := setupBudgetTestStore(t)
	bh := NewBudgetHandler(st)
	ph := NewPDFHandler(st)

	w := httptest.NewRecorder()
	body := `{"client":"José & Filhos","phone":"11987654321","items":[{"desc":"Instalação elétrica","obs":"Material incluso","qty":3,"price":120.40}]}`
	bh.Save(w, httptest.NewRequest(http.MethodPost, "/budgets", strings.NewReader(body)))
	if w.Code != http.StatusCreated {
		t.Fatalf("save expected 201 got %d", w.Code)
	}
	var created struct {
		ID uint `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	pw := httptest.NewRecorder()
	ph.Render(pw, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/budgets/pdf?id=%d", created.ID), nil))
	if pw.Code != http.StatusOK {
		t.Fatalf("render expected 200 got %d body=%s", pw.Code, pw.Body.String())
	}
	if ct := pw.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("expected application/pdf got %s", ct)
	}
	if cd := pw.Header().Get("Content-Disposition"); !strings.Contains(cd, fmt.Sprintf("orcamento-%d.pdf", created.ID)) {
		t.Fatalf("unexpected disposition %s", cd)
	}
	if !bytes.HasPrefix(pw.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("body is not a pdf")
	}
}

func TestPDFRenderUnknownID(t *testing.T) {
	st := setupBudgetTestStore(t)
	ph := NewPDFHandler(st)
	w := httptest.NewRecorder()
	ph.Render(w, httptest.NewRequest(http.MethodGet, "/budgets/pdf?id=42", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		`Acme <Ltda>`:     "Acme _Ltda_",
		`a/b\c:d`:         "a_b_c_d",
		"  ":              "cliente",
		"Construtora Sul": "Construtora Sul",
	}
	for in, want := range cases {
		if got := sanitizeFilename(in); got != want {
			t.Fatalf("sanitize(%q)=%q want %q", in, got, want)
		}
	}
}
