package controllers

import (
	"net/http"

	"github.com/angelmondragon/stockpos/api/responses"
	"github.com/angelmondragon/stockpos/pkg/config"
	"github.com/angelmondragon/stockpos/pkg/db"
	pkgerrors "github.com/angelmondragon/stockpos/pkg/errors"
	"github.com/angelmondragon/stockpos/pkg/logger"
)

const envHeader = "X-Stockpos-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready once the store answers a ping.
func HealthReady(cfg *config.Config, logg *logger.Logger, store db.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeStore, "store unavailable"))
			return
		}
		if err := store.Ping(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeStore, err, "store ping failed"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
