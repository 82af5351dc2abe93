package server

import (
	"log"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/pbaptista/orcamentos/internal/config"
	"github.com/pbaptista/orcamentos/internal/handlers"
	"github.com/pbaptista/orcamentos/internal/httpx"
	"github.com/pbaptista/orcamentos/internal/store"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB, cfg config.Config) http.Handler {
	mux := http.NewServeMux()
	st := store.NewGorm(db)

	// --- Health endpoints ---
	//revive:disable:unused-parameter simple handlers intentionally ignore *http.Request
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		// lightweight DB check, no detail in the body
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Budget endpoints. List/Create via /budgets, the rest via query-param ids.
	bh := handlers.NewBudgetHandler(st)
	mux.HandleFunc("/budgets", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			bh.List(w, r)
		case http.MethodPost:
			bh.Save(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "", nil)
		}
	})
	mux.HandleFunc("/budgets/get", onlyMethod(http.MethodGet, bh.Get))
	mux.HandleFunc("/budgets/status", onlyMethod(http.MethodPost, bh.SetStatus))
	mux.HandleFunc("/budgets/delete", onlyMethod(http.MethodPost, bh.Delete))
	mux.HandleFunc("/stats", onlyMethod(http.MethodGet, bh.Stats))

	pdfh := handlers.NewPDFHandler(st)
	mux.HandleFunc("/budgets/pdf", onlyMethod(http.MethodGet, pdfh.Render))

	// Company profile
	sh := handlers.NewSettingsHandler(st, cfg.AssetsDir)
	mux.HandleFunc("/settings", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			sh.Get(w, r)
		case http.MethodPost:
			sh.Save(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "", nil)
		}
	})
	mux.HandleFunc("/settings/logo", onlyMethod(http.MethodPost, sh.UploadLogo))

	// Uploaded logos are served back for the settings screen preview.
	mux.Handle("/assets/", http.StripPrefix("/assets/", http.FileServer(http.Dir(cfg.AssetsDir))))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if _, werr := w.Write([]byte("Gerador de Orçamentos API")); werr != nil {
			_ = werr
		}
	})
	//revive:enable:unused-parameter

	return withRecover(withLogging(mux))
}

func onlyMethod(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.Header().Set("Allow", method)
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "", nil)
			return
		}
		h(w, r)
	}
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start).Round(time.Millisecond))
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic serving %s: %v", r.URL.Path, rec)
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
