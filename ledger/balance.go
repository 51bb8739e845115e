/*
balance.go - Balance derivation from party logs

PURPOSE:
  Computes the signed running balance answering "who owes whom, and how
  much?" for a single party.

THE FORMULA:
  balance = Σ transaction amounts − Σ payment amounts

  One signed total, identical for clients and suppliers. Every sale or
  purchase increases the outstanding amount owed to the party; every
  payment decreases it. The sign convention is carried by the balance
  alone:

    balance > 0  →  the business owes the party   (OwedToParty)
    balance < 0  →  the party owes the business   (OwedByParty)
    balance = 0  →  settled, rendered as neutral  (Settled)

  There are no kind-specific formulas at any call site: the same field
  is rendered uniformly across client and supplier tables.

EDGE CASES:
  - No transactions and no payments → balance = 0, Settled (never "owed")
  - The balance dies with its party; it is never persisted on its own

SEE ALSO:
  - registry.go: Recomputes balance after every mutation
  - reports: Folds party balances into receivable/payable totals
*/
package ledger

// =============================================================================
// BALANCE CALCULATION
// =============================================================================

// BalanceOf derives the signed balance from a party's logs.
// Pure function: same logs, same balance, regardless of call order of
// the mutations that produced them (sums commute).
func BalanceOf(p *Party) Money {
	balance := Zero()
	for _, tx := range p.Transactions {
		balance = balance.Add(tx.Amount)
	}
	for _, pay := range p.Payments {
		balance = balance.Sub(pay.Amount)
	}
	return balance
}

// =============================================================================
// SETTLEMENT - Sign classification for display
// =============================================================================

type Settlement string

const (
	// OwedToParty: positive balance, the business owes the party.
	OwedToParty Settlement = "owed_to_party"
	// OwedByParty: negative balance, the party owes the business.
	OwedByParty Settlement = "owed_by_party"
	// Settled: zero balance, rendered as neutral.
	Settled Settlement = "settled"
)

// SettlementOf classifies a balance for display.
func SettlementOf(balance Money) Settlement {
	switch {
	case balance.IsPositive():
		return OwedToParty
	case balance.IsNegative():
		return OwedByParty
	default:
		return Settled
	}
}

// Outstanding returns the unsigned magnitude of what is outstanding.
func Outstanding(balance Money) Money {
	return balance.Abs()
}
