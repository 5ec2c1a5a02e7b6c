package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/stockpos/api/responses"
)

func urlParam(r *http.Request, key string) string {
	return strings.TrimSpace(chi.URLParam(r, key))
}

// writeOptional renders a typed nil pointer as {"data":null}.
func writeOptional[T any](w http.ResponseWriter, v *T) {
	if v == nil {
		responses.WriteSuccess(w, nil)
		return
	}
	responses.WriteSuccess(w, v)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
