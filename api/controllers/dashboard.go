package controllers

import (
	"net/http"

	"github.com/angelmondragon/stockpos/api/responses"
	"github.com/angelmondragon/stockpos/internal/reports"
	pkgerrors "github.com/angelmondragon/stockpos/pkg/errors"
	"github.com/angelmondragon/stockpos/pkg/logger"
)

func Dashboard(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reports service unavailable"))
			return
		}
		dash, err := svc.Dashboard(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dash)
	}
}
