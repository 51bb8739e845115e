/*
Package ledger provides the client/supplier running-balance engine.

PURPOSE:
  This package contains the core domain model for a small trading
  business: parties (clients and suppliers), their per-party logs of
  transactions, payments and notes, and the balance derived from those
  logs. The Registry in registry.go is the only writer; everything else
  is data and pure calculation.

KEY CONCEPTS IN THIS FILE (types.go):
  - Party: a client or supplier with its logs and derived balance
  - Transaction: a sale (client) or purchase (supplier) event
  - Payment: a settlement reducing the outstanding balance
  - Note: a non-financial annotation, editable and deletable by id

DESIGN PRINCIPLES:
  1. Derived balance: balance is always recomputable from the logs,
     never stored as an independently writable field
  2. Append-only logs: transactions and payments are never edited or
     deleted once recorded; only notes support targeted edit/delete
  3. Kind discipline: a party's kind is fixed at creation and implies
     the only valid transaction kind (client=sale, supplier=purchase)
  4. Precision: amounts use Money (decimal), never float64

SEE ALSO:
  - registry.go: Command surface and invariant enforcement
  - balance.go: Balance derivation
  - store.go: Persistence contract
*/
package ledger

import "time"

// =============================================================================
// IDENTIFIERS
// =============================================================================

type PartyID string
type TransactionID string
type PaymentID string
type NoteID string

// =============================================================================
// PARTY KIND - Fixed at creation
// =============================================================================

type PartyKind string

const (
	KindClient   PartyKind = "client"
	KindSupplier PartyKind = "supplier"
)

func (k PartyKind) Valid() bool {
	return k == KindClient || k == KindSupplier
}

// TransactionKind returns the only transaction kind a party of this
// kind may record: clients sell to us, suppliers purchase for us.
func (k PartyKind) TransactionKind() TransactionKind {
	if k == KindSupplier {
		return TxPurchase
	}
	return TxSale
}

// =============================================================================
// TRANSACTION - Sale or purchase event
// =============================================================================

type TransactionKind string

const (
	TxSale     TransactionKind = "sale"
	TxPurchase TransactionKind = "purchase"
)

// Transaction is an immutable ledger entry. Amount is always positive;
// the signed meaning is carried by the derived balance, not the record.
type Transaction struct {
	ID      TransactionID
	Kind    TransactionKind
	Amount  Money
	Date    time.Time
	Details []LineItem
}

// LineItem is one product line of a transaction.
// TotalAmount is always Quantity × Price; the Registry enforces it on write.
type LineItem struct {
	ProductName string
	Quantity    int64
	Price       Money
	TotalAmount Money
}

// =============================================================================
// PAYMENT - Settlement reducing outstanding balance
// =============================================================================

type Payment struct {
	ID     PaymentID
	Amount Money
	Date   time.Time
}

// =============================================================================
// NOTE - Non-financial annotation
// =============================================================================

type Note struct {
	ID   NoteID
	Text string
	Date time.Time
}

// =============================================================================
// PARTY - Client or supplier with logs and derived balance
// =============================================================================

// Party is the aggregate the Registry operates on.
//
// Transactions and Payments are ordered by append time and append-only.
// Notes are ordered by append time but individually editable/deletable.
// Balance is derived (see balance.go) and attached for callers; it is
// recomputed on every read and never persisted on its own.
type Party struct {
	ID      PartyID
	Name    string
	Kind    PartyKind
	Phone   string
	Address string

	Transactions []Transaction
	Payments     []Payment
	Notes        []Note

	Balance   Money
	CreatedAt time.Time
}

// Clone returns a deep copy so callers can't splice the logs of a
// stored party behind the Registry's back.
func (p *Party) Clone() *Party {
	cp := *p
	cp.Transactions = make([]Transaction, len(p.Transactions))
	for i, tx := range p.Transactions {
		cp.Transactions[i] = tx
		cp.Transactions[i].Details = append([]LineItem(nil), tx.Details...)
	}
	cp.Payments = append([]Payment(nil), p.Payments...)
	cp.Notes = append([]Note(nil), p.Notes...)
	return &cp
}

// PartyPatch is a partial update for Register-ed parties.
// Nil fields are left unchanged. Kind is accepted only when it matches
// the party's existing kind; kind never changes after creation.
type PartyPatch struct {
	Name    *string
	Phone   *string
	Address *string
	Kind    *PartyKind
}

// IsEmpty reports whether the patch changes nothing.
func (p PartyPatch) IsEmpty() bool {
	return p.Name == nil && p.Phone == nil && p.Address == nil && p.Kind == nil
}
