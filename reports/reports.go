/*
Package reports computes read-only aggregate projections over the ledger.

PURPOSE:
  The dashboard consumes aggregates: outstanding receivables/payables,
  monthly sales and purchases, top selling products, revenue share per
  product. The ledger core exposes parties with correct balances and
  logs; this package folds over them. Nothing here recomputes
  per-transaction logic or writes anything.

SEE ALSO:
  - ledger/balance.go: The per-party balance these folds build on
  - api: Serves these projections under /api/reports
*/
package reports

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/smartstock/ledger-engine/ledger"
)

// PartySource is the slice of the Registry the reports need.
type PartySource interface {
	ListParties(ctx context.Context, kind *ledger.PartyKind) ([]*ledger.Party, error)
}

type Service struct {
	source PartySource
}

func NewService(source PartySource) *Service {
	return &Service{source: source}
}

// =============================================================================
// SUMMARY - Outstanding totals per side of the book
// =============================================================================

type Summary struct {
	// Signed sum of client balances (receivable side).
	ClientBalance ledger.Money
	// Signed sum of supplier balances (payable side).
	SupplierBalance ledger.Money
	Clients         int
	Suppliers       int
}

func (s *Service) Summary(ctx context.Context) (Summary, error) {
	parties, err := s.source.ListParties(ctx, nil)
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{ClientBalance: ledger.Zero(), SupplierBalance: ledger.Zero()}
	for _, p := range parties {
		switch p.Kind {
		case ledger.KindClient:
			sum.Clients++
			sum.ClientBalance = sum.ClientBalance.Add(p.Balance)
		case ledger.KindSupplier:
			sum.Suppliers++
			sum.SupplierBalance = sum.SupplierBalance.Add(p.Balance)
		}
	}
	return sum, nil
}

// =============================================================================
// MONTHLY TOTALS - Sales and purchases per month of a year
// =============================================================================

type MonthlyTotal struct {
	Month     time.Month
	Sales     ledger.Money
	Purchases ledger.Money
}

// MonthlyTotals returns twelve entries, January through December, for
// the given year. Months without activity carry zero amounts.
func (s *Service) MonthlyTotals(ctx context.Context, year int) ([]MonthlyTotal, error) {
	parties, err := s.source.ListParties(ctx, nil)
	if err != nil {
		return nil, err
	}

	totals := make([]MonthlyTotal, 12)
	for i := range totals {
		totals[i] = MonthlyTotal{
			Month:     time.Month(i + 1),
			Sales:     ledger.Zero(),
			Purchases: ledger.Zero(),
		}
	}

	for _, p := range parties {
		for _, tx := range p.Transactions {
			if tx.Date.Year() != year {
				continue
			}
			m := &totals[int(tx.Date.Month())-1]
			switch tx.Kind {
			case ledger.TxSale:
				m.Sales = m.Sales.Add(tx.Amount)
			case ledger.TxPurchase:
				m.Purchases = m.Purchases.Add(tx.Amount)
			}
		}
	}
	return totals, nil
}

// =============================================================================
// PRODUCT AGGREGATES - Folded from transaction line items
// =============================================================================

type ProductTotal struct {
	ProductName string
	Quantity    int64
	Revenue     ledger.Money
	// Share of total sale revenue, 0-100. Zero when there is no revenue.
	RevenueShare decimal.Decimal
}

// TopProducts returns products ranked by sale revenue, highest first,
// limited to at most limit entries (limit <= 0 means all).
func (s *Service) TopProducts(ctx context.Context, limit int) ([]ProductTotal, error) {
	parties, err := s.source.ListParties(ctx, nil)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*ProductTotal)
	total := ledger.Zero()
	for _, p := range parties {
		for _, tx := range p.Transactions {
			if tx.Kind != ledger.TxSale {
				continue
			}
			for _, li := range tx.Details {
				pt, ok := byName[li.ProductName]
				if !ok {
					pt = &ProductTotal{ProductName: li.ProductName, Revenue: ledger.Zero()}
					byName[li.ProductName] = pt
				}
				pt.Quantity += li.Quantity
				pt.Revenue = pt.Revenue.Add(li.TotalAmount)
				total = total.Add(li.TotalAmount)
			}
		}
	}

	result := make([]ProductTotal, 0, len(byName))
	for _, pt := range byName {
		if !total.IsZero() {
			pt.RevenueShare = pt.Revenue.Decimal().
				Div(total.Decimal()).
				Mul(decimal.NewFromInt(100)).
				Round(2)
		}
		result = append(result, *pt)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Revenue.Equal(result[j].Revenue) {
			return result[i].ProductName < result[j].ProductName
		}
		return result[i].Revenue.GreaterThan(result[j].Revenue)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
