package handlers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pbaptista/orcamentos/internal/budget"
	"github.com/pbaptista/orcamentos/internal/httpx"
	"github.com/pbaptista/orcamentos/internal/models"
	"github.com/pbaptista/orcamentos/internal/pdf"
)

var unsafeFilename = regexp.MustCompile(`[<>:"/\\|?*]`)

// PDFHandler renders a stored quote as a downloadable document.
type PDFHandler struct {
	Store budget.Store
}

func NewPDFHandler(st budget.Store) *PDFHandler { return &PDFHandler{Store: st} }

// Render: GET /budgets/pdf?id=...
func (h *PDFHandler) Render(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	b, err := h.Store.Get(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	s, err := h.Store.GetSettings(r.Context())
	if err != nil {
		log.Printf("load settings for pdf: %v", err)
		s = &models.Settings{}
	}
	doc, err := pdf.Budget(b, s)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "pdf_generation_failed", err.Error(), nil)
		return
	}

	if s.PDFAutoSave && s.PDFSavePath != "" {
		if err := savePDF(s, b, doc); err != nil {
			// archiving is best effort, the download still goes out
			log.Printf("auto save pdf: %v", err)
		}
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=orcamento-%d.pdf", b.ID))
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}

func savePDF(s *models.Settings, b *models.Budget, doc []byte) error {
	dir := s.PDFSavePath
	if s.PDFCreateSubfolder {
		dir = filepath.Join(dir, sanitizeFilename(b.ClientName))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	name := fmt.Sprintf("orcamento-%d.pdf", b.ID)
	return os.WriteFile(filepath.Join(dir, name), doc, 0o644)
}

func sanitizeFilename(s string) string {
	s = strings.TrimSpace(unsafeFilename.ReplaceAllString(s, "_"))
	if s == "" {
		return "cliente"
	}
	return s
}
