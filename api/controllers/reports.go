package controllers

import (
	"net/http"
	"strconv"

	"github.com/stocktrackhq/stocktrack-backend/api/responses"
	"github.com/stocktrackhq/stocktrack-backend/internal/reports"
	pkgerrors "github.com/stocktrackhq/stocktrack-backend/pkg/errors"
	"github.com/stocktrackhq/stocktrack-backend/pkg/logger"
)

func LowStockItems(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := svc.LowStock(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

func RecentLedger(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "limit must be a positive integer"))
				return
			}
			limit = parsed
		}

		rows, err := svc.RecentLedger(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func DashboardSummary(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := svc.DashboardSummary(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
