// Package reconcile holds the pure cash-drawer arithmetic: partitioning
// sales by payment method, summing manual movements, deriving the expected
// drawer amount, and classifying the deviation against a physical count.
// Everything here is side-effect free so the lifecycle manager and the
// auditor share one authoritative rule set.
package reconcile

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/IngCristianAraya/bodegapp-sub000/internal/model"
)

// Discrepancy classification values.
const (
	Balanced = "balanced"
	Shortage = "shortage"
	Surplus  = "surplus"
)

// Tolerance absorbs rounding noise when comparing monetary figures.
// It is a fixed system-wide constant, applied identically in the live
// summary, the close confirmation, and the audit pass.
var Tolerance = decimal.NewFromFloat(0.1)

// Summary is the derived view over a register's window. It is recomputed
// from raw rows on every use — never treated as a stored fact until the
// register closes, and even the closed snapshot remains subject to the
// auditor's correction path.
type Summary struct {
	OpeningAmount     decimal.Decimal
	TotalSalesCash    decimal.Decimal
	TotalSalesDigital decimal.Decimal
	TotalIngresos     decimal.Decimal
	TotalEgresos      decimal.Decimal
	ExpectedAmount    decimal.Decimal
}

// Summarize derives the full summary from the opening float plus the raw
// sale and movement rows of the window. Digital sales are informational
// only — they never enter the drawer expectation.
func Summarize(openingAmount decimal.Decimal, sales []model.Sale, movements []model.CashMovement) Summary {
	cash, digital := PartitionSales(sales)
	ingresos, egresos := SumMovements(movements)
	return Summary{
		OpeningAmount:     openingAmount,
		TotalSalesCash:    cash,
		TotalSalesDigital: digital,
		TotalIngresos:     ingresos,
		TotalEgresos:      egresos,
		ExpectedAmount:    openingAmount.Add(cash).Add(ingresos).Sub(egresos),
	}
}

// PartitionSales buckets sale totals into cash vs digital. The digital
// bucket is a catch-all: anything that is not literally "cash" counts as
// digital, unknown future methods included.
func PartitionSales(sales []model.Sale) (cash, digital decimal.Decimal) {
	for _, s := range sales {
		if s.PaymentMethod == model.PaymentCash {
			cash = cash.Add(s.Total)
		} else {
			digital = digital.Add(s.Total)
		}
	}
	return cash, digital
}

// SumMovements totals manual movements by type.
func SumMovements(movements []model.CashMovement) (ingresos, egresos decimal.Decimal) {
	for _, m := range movements {
		switch m.Type {
		case model.MovementIngreso:
			ingresos = ingresos.Add(m.Amount)
		case model.MovementEgreso:
			egresos = egresos.Add(m.Amount)
		}
	}
	return ingresos, egresos
}

// Discrepancy is the signed difference between what was physically counted
// and what the ledger expects: positive = surplus, negative = shortage.
func (s Summary) Discrepancy(physicalCount decimal.Decimal) decimal.Decimal {
	return physicalCount.Sub(s.ExpectedAmount)
}

// Classify maps a signed discrepancy to balanced/shortage/surplus.
// |d| < Tolerance is balanced; the comparison is strict, so exactly 0.1
// already counts as a deviation.
func Classify(discrepancy decimal.Decimal) string {
	if discrepancy.Abs().LessThan(Tolerance) {
		return Balanced
	}
	if discrepancy.IsNegative() {
		return Shortage
	}
	return Surplus
}

// WithinTolerance reports whether two figures agree under Tolerance.
// Used by the close re-check and by the auditor's drift detection.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(Tolerance)
}

// InWindow is the single boundary rule for attributing a timestamp to a
// register's window: inclusive on both ends, full-timestamp comparison in
// UTC. Repositories must express the same predicate in SQL
// (created_at >= from AND created_at <= to) — never calendar-date math,
// which mis-attributes sales near midnight.
func InWindow(t, from, to time.Time) bool {
	t = t.UTC()
	return !t.Before(from.UTC()) && !t.After(to.UTC())
}
