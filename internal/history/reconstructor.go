package history

import (
	"math"
	"strconv"
	"time"

	"github.com/stocktrackhq/stocktrack-backend/pkg/db/models"
)

// DayStock is the reconstructed quantity for one calendar day.
type DayStock struct {
	Date     time.Time `json:"-"`
	Quantity int       `json:"stock"`
}

// Summary aggregates a reconstructed series.
type Summary struct {
	Min           int    `json:"minStock"`
	Max           int    `json:"maxStock"`
	First         int    `json:"firstStock"`
	Current       int    `json:"currentStock"`
	ChangeAmount  int    `json:"changeAmount"`
	ChangePercent string `json:"changePercent"`
}

// Reconstruct derives the quantity on each of the trailing `days` calendar
// days, newest day being `today`, from the current quantity and the item's
// full ledger. No snapshots are stored anywhere; the past is recomputed by
// removing the effect of every entry that had not yet happened on a given
// day. Entries dated outside the window still shift in-window days that
// precede them. Days before the item existed are projected with the same
// formula rather than floored at creation.
func Reconstruct(current int, entries []models.LedgerEntry, today time.Time, days int) []DayStock {
	if days <= 0 {
		return nil
	}

	todayDate := truncateToDay(today)
	series := make([]DayStock, days)
	for i := 0; i < days; i++ {
		series[i] = DayStock{
			Date:     todayDate.AddDate(0, 0, -(days - 1 - i)),
			Quantity: current,
		}
	}

	for _, entry := range entries {
		entryDate := truncateToDay(entry.OccurredAt)
		for i := range series {
			if series[i].Date.Before(entryDate) {
				series[i].Quantity -= entry.Delta
			}
		}
	}
	return series
}

// Summarize computes window metrics for a non-empty reconstructed series.
// The percentage is computed against the oldest day's value and is not
// defined when that base is zero or negative.
func Summarize(series []DayStock, current int) Summary {
	summary := Summary{Current: current, ChangePercent: "N/A"}
	if len(series) == 0 {
		return summary
	}

	summary.Min = series[0].Quantity
	summary.Max = series[0].Quantity
	for _, day := range series[1:] {
		if day.Quantity < summary.Min {
			summary.Min = day.Quantity
		}
		if day.Quantity > summary.Max {
			summary.Max = day.Quantity
		}
	}

	summary.First = series[0].Quantity
	summary.ChangeAmount = current - summary.First
	if summary.First > 0 {
		pct := float64(summary.ChangeAmount) / float64(summary.First) * 100
		pct = math.Round(pct*10) / 10
		summary.ChangePercent = strconv.FormatFloat(pct, 'f', 1, 64) + "%"
	}
	return summary
}

func truncateToDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
