package controllers

import (
	"net/http"
	"strconv"

	"github.com/stocktrackhq/stocktrack-backend/api/responses"
	"github.com/stocktrackhq/stocktrack-backend/internal/history"
	pkgerrors "github.com/stocktrackhq/stocktrack-backend/pkg/errors"
	"github.com/stocktrackhq/stocktrack-backend/pkg/logger"
)

func ItemHistory(svc history.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := itemIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		days := 0
		if raw := r.URL.Query().Get("days"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "days must be a positive integer"))
				return
			}
			days = parsed
		}

		result, err := svc.ItemHistory(r.Context(), id, days)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func ItemMetrics(svc history.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metrics, err := svc.AllItemMetrics(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, metrics)
	}
}

func InventoryTrend(svc history.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		points, err := svc.InventoryTrend(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, points)
	}
}
