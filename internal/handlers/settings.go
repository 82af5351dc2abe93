package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/pbaptista/orcamentos/internal/budget"
	"github.com/pbaptista/orcamentos/internal/httpx"
	"github.com/pbaptista/orcamentos/internal/models"
	"github.com/pbaptista/orcamentos/internal/normalize"
)

const maxLogoSize = 5 << 20

// SettingsHandler manages the single company profile row that feeds the PDF
// header and payment footer.
type SettingsHandler struct {
	Store     budget.Store
	AssetsDir string
}

func NewSettingsHandler(st budget.Store, assetsDir string) *SettingsHandler {
	return &SettingsHandler{Store: st, AssetsDir: assetsDir}
}

// Get: GET /settings – always answers, defaults on a failed read.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.Store.GetSettings(r.Context())
	if err != nil {
		log.Printf("load settings: %v", err)
		httpx.JSON(w, http.StatusOK, &models.Settings{})
		return
	}
	httpx.JSON(w, http.StatusOK, s)
}

// Save: POST /settings – phone and CNPJ are re-masked server side so the
// stored row never depends on what the client formatted.
func (h *SettingsHandler) Save(w http.ResponseWriter, r *http.Request) {
	var s models.Settings
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", "", nil)
		return
	}
	s.Phone = normalize.MaskPhone(s.Phone)
	s.CNPJ = normalize.MaskCNPJ(s.CNPJ)
	if err := h.Store.SaveSettings(r.Context(), &s); err != nil {
		respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, &s)
}

// UploadLogo: POST /settings/logo – multipart upload, png or jpeg only.
func (h *SettingsHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxLogoSize); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_upload", "", nil)
		return
	}
	file, header, err := r.FormFile("logo")
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "missing_file", "", nil)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".png" && ext != ".jpg" && ext != ".jpeg" {
		httpx.JSONError(w, http.StatusBadRequest, "unsupported_format", "", nil)
		return
	}

	if err := os.MkdirAll(h.AssetsDir, 0o755); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "backend_error", err.Error(), nil)
		return
	}
	dest := filepath.Join(h.AssetsDir, "logo"+ext)
	out, err := os.Create(dest)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "backend_error", err.Error(), nil)
		return
	}
	defer out.Close()
	if _, err := io.Copy(out, file); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "backend_error", err.Error(), nil)
		return
	}

	s, err := h.Store.GetSettings(r.Context())
	if err != nil {
		s = &models.Settings{}
	}
	s.LogoPath = dest
	if err := h.Store.SaveSettings(r.Context(), s); err != nil {
		respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"logo_path": dest})
}
