// Package rollup contains the aggregation core: period resolution, the
// single-pass metrics engine, and goal progress attachment. Everything here
// is pure; callers supply a snapshot of entries and configuration and get a
// result back, so concurrent invocations are safe by construction.
package rollup

import (
	"time"

	"github.com/dashledger/internal/domain/entry"
	"github.com/dashledger/internal/domain/goal"
	"github.com/shopspring/decimal"
)

// Result is the aggregate financial summary derived from a set of entries.
// Monetary fields hold exact decimals; rounding to two places happens at the
// presentation boundary, not here.
type Result struct {
	Revenue            decimal.Decimal
	Expenses           decimal.Decimal
	Profit             decimal.Decimal
	Miles              float64
	Hours              float64
	DollarsPerMile     decimal.Decimal
	DollarsPerHour     decimal.Decimal
	OrderCount         int
	AverageOrderValue  decimal.Decimal
	PerHourFirstToLast decimal.Decimal
	ByKind             map[entry.Kind]decimal.Decimal
	ByPlatform         map[entry.Platform]decimal.Decimal
	Goal               *goal.Goal
	GoalProgress       *float64
}

// Compute derives the rollup over a snapshot of entries in a single pass.
// costPerMile is carried as a reporting input and is not subtracted from
// profit; profit is the raw net of all signed amounts.
//
// Every division guards its zero case and resolves to zero rather than
// erroring: a rollup over any input is total.
func Compute(entries []*entry.Entry, costPerMile decimal.Decimal) *Result {
	totalAmount := decimal.Zero
	revenue := decimal.Zero
	expenses := decimal.Zero
	miles := 0.0
	totalMinutes := 0

	byKind := make(map[entry.Kind]decimal.Decimal, len(entry.Kinds()))
	for _, k := range entry.Kinds() {
		byKind[k] = decimal.Zero
	}
	byPlatform := make(map[entry.Platform]decimal.Decimal, len(entry.Platforms()))
	for _, p := range entry.Platforms() {
		byPlatform[p] = decimal.Zero
	}

	orderCount := 0
	orderTotal := decimal.Zero
	var firstOrder, lastOrder time.Time

	for _, e := range entries {
		totalAmount = totalAmount.Add(e.Amount)

		if e.Amount.IsPositive() {
			revenue = revenue.Add(e.Amount)
		} else {
			expenses = expenses.Add(e.Amount.Abs())
		}

		miles += e.DistanceMiles
		totalMinutes += e.DurationMinutes

		byKind[e.Kind] = byKind[e.Kind].Add(e.Amount)
		byPlatform[e.Platform] = byPlatform[e.Platform].Add(e.Amount)

		if e.Kind == entry.KindOrder {
			orderCount++
			orderTotal = orderTotal.Add(e.Amount)
			if firstOrder.IsZero() || e.Timestamp.Before(firstOrder) {
				firstOrder = e.Timestamp
			}
			if lastOrder.IsZero() || e.Timestamp.After(lastOrder) {
				lastOrder = e.Timestamp
			}
		}
	}

	hours := 0.0
	if totalMinutes > 0 {
		hours = float64(totalMinutes) / 60.0
	}

	profit := totalAmount

	dollarsPerMile := decimal.Zero
	if miles > 0 {
		dollarsPerMile = profit.Div(decimal.NewFromFloat(miles))
	}
	dollarsPerHour := decimal.Zero
	if hours > 0 {
		dollarsPerHour = profit.Div(decimal.NewFromFloat(hours))
	}

	averageOrderValue := decimal.Zero
	perHourFirstToLast := decimal.Zero
	if orderCount > 0 {
		averageOrderValue = orderTotal.Div(decimal.NewFromInt(int64(orderCount)))

		spanHours := lastOrder.Sub(firstOrder).Seconds() / 3600.0
		if spanHours > 0 {
			perHourFirstToLast = profit.Div(decimal.NewFromFloat(spanHours))
		}
	}

	return &Result{
		Revenue:            revenue,
		Expenses:           expenses,
		Profit:             profit,
		Miles:              miles,
		Hours:              hours,
		DollarsPerMile:     dollarsPerMile,
		DollarsPerHour:     dollarsPerHour,
		OrderCount:         orderCount,
		AverageOrderValue:  averageOrderValue,
		PerHourFirstToLast: perHourFirstToLast,
		ByKind:             byKind,
		ByPlatform:         byPlatform,
	}
}
