package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/stockpos/api/responses"
	"github.com/angelmondragon/stockpos/api/validators"
	"github.com/angelmondragon/stockpos/internal/inventory"
	"github.com/angelmondragon/stockpos/internal/stockhistory"
	"github.com/angelmondragon/stockpos/pkg/enums"
	pkgerrors "github.com/angelmondragon/stockpos/pkg/errors"
	"github.com/angelmondragon/stockpos/pkg/logger"
)

// StockReceive applies inbound quantities to many items at once.
func StockReceive(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			inventoryUnavailable(w, r, logg)
			return
		}
		var body inventory.ReceiveStockInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		adjustments, err := svc.ReceiveStock(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, adjustments)
	}
}

func StockHistoryCreate(svc stockhistory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stock history service unavailable"))
			return
		}
		var body stockhistory.RecordInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		entry, err := svc.Record(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, entry)
	}
}

// StockHistoryList filters by item_name, type, from and to. A date-only to
// covers the whole day.
func StockHistoryList(svc stockhistory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stock history service unavailable"))
			return
		}
		q := r.URL.Query()
		filters := stockhistory.Filters{
			ItemName: validators.SanitizeString(q.Get("item_name"), maxSearchLen),
		}
		if raw := strings.TrimSpace(q.Get("type")); raw != "" {
			t := enums.MovementType(raw)
			filters.Type = &t
		}

		from, _, err := validators.ParseQueryTime(r, "from")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		to, dateOnly, err := validators.ParseQueryTime(r, "to")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.From = from
		filters.To = to
		filters.ToWholeDay = dateOnly

		entries, err := svc.List(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nonNil(entries))
	}
}
