package controllers

import (
	"net/http"

	"github.com/angelmondragon/stockpos/api/responses"
	"github.com/angelmondragon/stockpos/api/validators"
	"github.com/angelmondragon/stockpos/internal/inventory"
	pkgerrors "github.com/angelmondragon/stockpos/pkg/errors"
	"github.com/angelmondragon/stockpos/pkg/logger"
)

const maxSearchLen = 200

type setStockRequest struct {
	Quantity *int `json:"quantity" validate:"required,gte=0"`
}

type adjustStockRequest struct {
	Delta     int    `json:"delta" validate:"ne=0"`
	Type      string `json:"type"`
	Reference string `json:"reference"`
}

func inventoryUnavailable(w http.ResponseWriter, r *http.Request, logg *logger.Logger) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
}

// ItemList lists every item by name, or searches when q is present.
func ItemList(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			inventoryUnavailable(w, r, logg)
			return
		}
		term := validators.SanitizeString(r.URL.Query().Get("q"), maxSearchLen)

		var (
			items []inventory.ItemDTO
			err   error
		)
		if term == "" {
			items, err = svc.ListItems(r.Context())
		} else {
			items, err = svc.SearchItems(r.Context(), term)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nonNil(items))
	}
}

func ItemLowStock(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			inventoryUnavailable(w, r, logg)
			return
		}
		threshold, err := validators.ParseOptionalQueryInt(r, "threshold", 0, 1_000_000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items, err := svc.LowStockItems(r.Context(), threshold)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nonNil(items))
	}
}

// ItemByBarcode writes {"data":null} when no item carries the barcode.
func ItemByBarcode(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			inventoryUnavailable(w, r, logg)
			return
		}
		item, err := svc.GetItemByBarcode(r.Context(), urlParam(r, "barcode"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeOptional(w, item)
	}
}

// ItemGet writes {"data":null} when the id is unknown.
func ItemGet(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			inventoryUnavailable(w, r, logg)
			return
		}
		id, err := validators.ParseUUIDParam(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.GetItem(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeOptional(w, item)
	}
}

func ItemCreate(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			inventoryUnavailable(w, r, logg)
			return
		}
		var body inventory.ItemInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.AddItem(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

func ItemUpdate(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			inventoryUnavailable(w, r, logg)
			return
		}
		id, err := validators.ParseUUIDParam(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body inventory.ItemInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, updated, err := svc.UpdateItem(r.Context(), id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"updated": updated, "item": item})
	}
}

func ItemDelete(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			inventoryUnavailable(w, r, logg)
			return
		}
		id, err := validators.ParseUUIDParam(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		deleted, err := svc.DeleteItem(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"deleted": deleted})
	}
}

// ItemSetStock overwrites the stored quantity without writing history.
func ItemSetStock(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			inventoryUnavailable(w, r, logg)
			return
		}
		id, err := validators.ParseUUIDParam(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body setStockRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.SetStock(r.Context(), id, *body.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"updated": rows > 0, "rows": rows})
	}
}

func ItemAdjustStock(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			inventoryUnavailable(w, r, logg)
			return
		}
		id, err := validators.ParseUUIDParam(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body adjustStockRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		adj, err := svc.AdjustStock(r.Context(), inventory.AdjustStockInput{
			ItemID:    id,
			Delta:     body.Delta,
			Type:      body.Type,
			Reference: body.Reference,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, adj)
	}
}
