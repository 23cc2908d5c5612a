package controllers

import (
	"net/http"

	"github.com/stocktrackhq/stocktrack-backend/api/responses"
	"github.com/stocktrackhq/stocktrack-backend/api/validators"
	"github.com/stocktrackhq/stocktrack-backend/internal/inventory"
	"github.com/stocktrackhq/stocktrack-backend/pkg/logger"
)

func PurchaseItem(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := itemIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload inventory.StockMovementInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.PurchaseItem(r.Context(), id, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func RestockItem(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := itemIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload inventory.StockMovementInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.RestockItem(r.Context(), id, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}
