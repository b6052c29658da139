package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/smoothbar/studio-backend/pkg/logging"
)

// PageNames lists the static pages the site serves, each as /<name> backed
// by <pagesDir>/<name>.html. "index" doubles as the root route.
var PageNames = []string{
	"index",
	"book_now",
	"pricing",
	"training",
	"first_visit",
	"skin_care",
	"contact",
}

// PagesHandler serves the pre-built HTML pages of the studio site.
type PagesHandler struct {
	pagesDir string
	logger   *logging.Logger
}

func NewPagesHandler(pagesDir string, logger *logging.Logger) *PagesHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &PagesHandler{pagesDir: pagesDir, logger: logger.Component("pages")}
}

// Page returns a handler serving one named page.
func (h *PagesHandler) Page(name string) http.HandlerFunc {
	path := filepath.Join(h.pagesDir, name+".html")
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := os.Stat(path); err != nil {
			h.logger.Error("page file missing", "page", name, "path", path)
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, path)
	}
}

// HealthHandler answers load balancer health checks.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler { return &HealthHandler{} }

// Check handles GET /health.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
