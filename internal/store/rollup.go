package store

import (
	"time"

	"github.com/truexpanse/mat-data-service/internal/models"
)

// RevenueRollup is the six-figure revenue aggregate shown on the day view.
// All figures are integer cents; ACV is MCV annualized.
type RevenueRollup struct {
	Today int64 `json:"today"`
	Week  int64 `json:"week"`
	Month int64 `json:"month"`
	YTD   int64 `json:"ytd"`
	MCV   int64 `json:"mcv"`
	ACV   int64 `json:"acv"`
}

// ComputeRevenueRollup aggregates the transaction collection as of asOf.
// Week is the 7-day window starting at the configured week-start day
// containing asOf, inclusive. Pure: same inputs, same output, no state
// touched. Transactions with malformed dates are skipped.
func ComputeRevenueRollup(txs []models.Transaction, asOf time.Time, weekStart time.Weekday) RevenueRollup {
	asOf = truncateDay(asOf)
	delta := (int(asOf.Weekday()) - int(weekStart) + 7) % 7
	weekFrom := asOf.AddDate(0, 0, -delta)
	weekTo := weekFrom.AddDate(0, 0, 6)

	var r RevenueRollup
	for _, tx := range txs {
		d, err := time.ParseInLocation("2006-01-02", tx.Date, time.UTC)
		if err != nil {
			continue
		}
		if d.Year() == asOf.Year() {
			r.YTD += tx.AmountCents
			if d.Month() == asOf.Month() {
				r.Month += tx.AmountCents
				if tx.IsRecurring {
					r.MCV += tx.AmountCents
				}
			}
		}
		if d.Equal(asOf) {
			r.Today += tx.AmountCents
		}
		if !d.Before(weekFrom) && !d.After(weekTo) {
			r.Week += tx.AmountCents
		}
	}
	r.ACV = r.MCV * 12
	return r
}

// ComputeEODSubmissionIndex groups the dateKeys of submitted day records by
// user. Derived on demand for the team views; a full recompute accompanies
// every data load, so nothing is maintained incrementally.
func ComputeEODSubmissionIndex(rows []Row) map[string]map[string]bool {
	index := make(map[string]map[string]bool)
	for _, row := range rows {
		if !row.Record.EODSubmitted {
			continue
		}
		days, ok := index[row.UserID]
		if !ok {
			days = make(map[string]bool)
			index[row.UserID] = days
		}
		days[row.DateKey] = true
	}
	return index
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
