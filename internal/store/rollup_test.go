package store_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/truexpanse/mat-data-service/internal/daydata"
	"github.com/truexpanse/mat-data-service/internal/models"
	"github.com/truexpanse/mat-data-service/internal/store"
)

func TestComputeRevenueRollup(t *testing.T) {
	txs := []models.Transaction{
		{Date: "2024-03-01", AmountCents: 100, IsRecurring: true},
		{Date: "2024-03-15", AmountCents: 50, IsRecurring: false},
		{Date: "2023-12-31", AmountCents: 9999},
	}
	asOf := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	got := store.ComputeRevenueRollup(txs, asOf, time.Sunday)
	want := store.RevenueRollup{
		Today: 50,
		Week:  50, // 2024-03-10 .. 2024-03-16; the 1st falls outside
		Month: 150,
		YTD:   150,
		MCV:   100,
		ACV:   1200,
	}
	if got != want {
		t.Errorf("Rollup wrong:\n got %+v\nwant %+v", got, want)
	}
}

func TestComputeRevenueRollupWeekWindow(t *testing.T) {
	// 2024-03-15 is a Friday; the Sunday-start week is 03-10 .. 03-16
	txs := []models.Transaction{
		{Date: "2024-03-10", AmountCents: 1}, // Sunday, in
		{Date: "2024-03-16", AmountCents: 2}, // Saturday, in
		{Date: "2024-03-09", AmountCents: 4}, // Saturday before, out
		{Date: "2024-03-17", AmountCents: 8}, // Sunday after, out
	}
	asOf := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	if got := store.ComputeRevenueRollup(txs, asOf, time.Sunday); got.Week != 3 {
		t.Errorf("Expected week=3, got %d", got.Week)
	}

	// A Monday-start week shifts the window to 03-11 .. 03-17
	if got := store.ComputeRevenueRollup(txs, asOf, time.Monday); got.Week != 10 {
		t.Errorf("Expected Monday-start week=10, got %d", got.Week)
	}
}

func TestComputeRevenueRollupSkipsMalformedDates(t *testing.T) {
	txs := []models.Transaction{
		{Date: "2024-03-15", AmountCents: 50},
		{Date: "garbage", AmountCents: 1000000},
	}
	asOf := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	got := store.ComputeRevenueRollup(txs, asOf, time.Sunday)
	if got.Today != 50 || got.YTD != 50 {
		t.Errorf("Malformed-date transaction not skipped: %+v", got)
	}
}

func TestComputeRevenueRollupIsPure(t *testing.T) {
	txs := []models.Transaction{
		{Date: "2024-03-01", AmountCents: 100, IsRecurring: true},
		{Date: "2024-03-15", AmountCents: 50},
	}
	asOf := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	first := store.ComputeRevenueRollup(txs, asOf, time.Sunday)
	second := store.ComputeRevenueRollup(txs, asOf, time.Sunday)
	if first != second {
		t.Error("Identical inputs produced different rollups")
	}
}

func TestComputeEODSubmissionIndex(t *testing.T) {
	submitted := daydata.New()
	submitted.EODSubmitted = true

	rows := []store.Row{
		{UserID: "user1", DateKey: "2024-01-01", Record: submitted},
		{UserID: "user1", DateKey: "2024-01-02", Record: daydata.New()},
		{UserID: "user2", DateKey: "2024-01-01", Record: submitted},
	}

	got := store.ComputeEODSubmissionIndex(rows)
	want := map[string]map[string]bool{
		"user1": {"2024-01-01": true},
		"user2": {"2024-01-01": true},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Index wrong:\n got %v\nwant %v", got, want)
	}
}
