package controllers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/kardzapp/kardz-backend/api/responses"
	"github.com/kardzapp/kardz-backend/pkg/config"
	pkgerrors "github.com/kardzapp/kardz-backend/pkg/errors"
	"github.com/kardzapp/kardz-backend/pkg/logger"
)

// AdminBackup streams the database file for download. Only meaningful on the
// sqlite driver; postgres deployments take backups out of band.
func AdminBackup(cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !cfg.DB.IsSQLite() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeBusinessRule, "backup is only supported on the sqlite driver"))
			return
		}

		path := cfg.DB.SQLitePath
		info, err := os.Stat(path)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database file unavailable"))
			return
		}

		filename := fmt.Sprintf("kardz-backup-%s-%s",
			time.Now().UTC().Format("20060102-150405"), filepath.Base(path))

		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.Header().Set("Content-Length", fmt.Sprintf("%d", info.Size()))

		http.ServeFile(w, r, path)
	}
}
