/*
registry.go - Party registry: the single writer of the ledger

PURPOSE:
  Owns the collection of parties and dispatches every mutation to the
  store, enforcing all invariants on every write path. External callers
  (HTTP handlers, tests) only issue commands; they never splice the
  logs directly.

COMMAND SURFACE:
  Register        create a party, optionally with a first transaction
  Update          partial update of name/phone/address (kind is fixed)
  Delete          remove a party and cascade its logs
  RecordTransaction  append a sale/purchase (kind forced to party kind)
  RecordPayment   append a payment (amount must be > 0)
  AddNote / EditNote / DeleteNote
  ListParties / GetParty (reads)

INVARIANTS ENFORCED HERE:
  - Validation happens before any store write: a rejected command has
    no side effects, ever.
  - A transaction's kind is implied by the owning party's kind; caller
    input that disagrees is overridden, not errored (client→sale,
    supplier→purchase).
  - Line item totals are always quantity × price.
  - Writes to one party are serialized: at most one in-flight mutation
    per party, so balance recomputation never races.
  - Append timestamps are monotonically non-decreasing within a party.

AUTHORITATIVE RESULTS:
  Every successful mutation returns the full post-mutation party,
  reloaded from the store with the balance recomputed. Callers are
  expected to replace their view with it rather than patching local
  state optimistically.
*/
package ledger

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// REGISTRY
// =============================================================================

type Registry struct {
	store Store
	now   func() time.Time

	mu         sync.Mutex
	partyLocks map[PartyID]*sync.Mutex
	lastStamp  map[PartyID]time.Time
}

func NewRegistry(store Store) *Registry {
	return &Registry{
		store:      store,
		now:        time.Now,
		partyLocks: make(map[PartyID]*sync.Mutex),
		lastStamp:  make(map[PartyID]time.Time),
	}
}

// WithClock overrides the time source. For tests.
func (r *Registry) WithClock(now func() time.Time) *Registry {
	r.now = now
	return r
}

// lockParty returns the mutex serializing writes to one party.
func (r *Registry) lockParty(id PartyID) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.partyLocks[id]
	if !ok {
		l = &sync.Mutex{}
		r.partyLocks[id] = l
	}
	return l
}

// stamp returns an append timestamp that never moves backwards within
// a party, even if the wall clock does.
func (r *Registry) stamp(id PartyID) time.Time {
	now := r.now().UTC()
	r.mu.Lock()
	defer r.mu.Unlock()
	if last, ok := r.lastStamp[id]; ok && now.Before(last) {
		now = last
	}
	r.lastStamp[id] = now
	return now
}

func (r *Registry) forget(id PartyID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.partyLocks, id)
	delete(r.lastStamp, id)
}

// =============================================================================
// INPUTS
// =============================================================================

type RegisterInput struct {
	Name    string
	Kind    PartyKind
	Phone   string
	Address string

	// InitialTransaction, if set, is recorded atomically with the party.
	// Its kind is forced to match the party's kind.
	InitialTransaction *TransactionInput
}

type TransactionInput struct {
	// Kind is advisory only: the party's kind wins.
	Kind    TransactionKind
	Amount  Money
	Date    time.Time // zero means "now"
	Details []LineItemInput
}

type LineItemInput struct {
	ProductName string
	Quantity    int64
	Price       Money
}

// =============================================================================
// REGISTER / UPDATE / DELETE
// =============================================================================

func (r *Registry) Register(ctx context.Context, in RegisterInput) (*Party, error) {
	if err := validateAttributes(in.Name, in.Phone, in.Address); err != nil {
		return nil, err
	}
	if !in.Kind.Valid() {
		return nil, invalidf("kind", "must be %q or %q", KindClient, KindSupplier)
	}

	p := &Party{
		ID:        PartyID(uuid.NewString()),
		Name:      strings.TrimSpace(in.Name),
		Kind:      in.Kind,
		Phone:     strings.TrimSpace(in.Phone),
		Address:   strings.TrimSpace(in.Address),
		CreatedAt: r.now().UTC(),
	}

	if in.InitialTransaction != nil {
		tx, err := r.buildTransaction(p.ID, p.Kind, *in.InitialTransaction)
		if err != nil {
			return nil, err
		}
		p.Transactions = []Transaction{tx}
	}

	if err := r.store.CreateParty(ctx, p); err != nil {
		return nil, err
	}
	return r.reload(ctx, p.ID)
}

func (r *Registry) Update(ctx context.Context, id PartyID, patch PartyPatch) (*Party, error) {
	l := r.lockParty(id)
	l.Lock()
	defer l.Unlock()

	current, err := r.store.GetParty(ctx, id)
	if err != nil {
		return nil, err
	}

	// Empty patch is the identity: nothing changes, including balance.
	if patch.IsEmpty() {
		return r.withBalance(current), nil
	}

	if patch.Kind != nil && *patch.Kind != current.Kind {
		return nil, invalidf("kind", "kind is fixed at creation and cannot change")
	}

	name, phone, address := current.Name, current.Phone, current.Address
	if patch.Name != nil {
		name = strings.TrimSpace(*patch.Name)
	}
	if patch.Phone != nil {
		phone = strings.TrimSpace(*patch.Phone)
	}
	if patch.Address != nil {
		address = strings.TrimSpace(*patch.Address)
	}
	if err := validateAttributes(name, phone, address); err != nil {
		return nil, err
	}

	if err := r.store.UpdatePartyFields(ctx, id, name, phone, address); err != nil {
		return nil, err
	}
	return r.reload(ctx, id)
}

func (r *Registry) Delete(ctx context.Context, id PartyID) error {
	l := r.lockParty(id)
	l.Lock()
	defer l.Unlock()

	if err := r.store.DeleteParty(ctx, id); err != nil {
		return err
	}
	r.forget(id)
	return nil
}

// =============================================================================
// TRANSACTIONS AND PAYMENTS
// =============================================================================

func (r *Registry) RecordTransaction(ctx context.Context, id PartyID, in TransactionInput) (*Party, error) {
	l := r.lockParty(id)
	l.Lock()
	defer l.Unlock()

	p, err := r.store.GetParty(ctx, id)
	if err != nil {
		return nil, err
	}

	tx, err := r.buildTransaction(id, p.Kind, in)
	if err != nil {
		return nil, err
	}
	if err := r.store.AppendTransaction(ctx, id, tx); err != nil {
		return nil, err
	}
	return r.reload(ctx, id)
}

func (r *Registry) RecordPayment(ctx context.Context, id PartyID, amount Money) (*Party, error) {
	if !amount.IsPositive() {
		return nil, invalidf("amount", "payment must be positive, got %s", amount)
	}

	l := r.lockParty(id)
	l.Lock()
	defer l.Unlock()

	if _, err := r.store.GetParty(ctx, id); err != nil {
		return nil, err
	}

	pay := Payment{
		ID:     PaymentID(uuid.NewString()),
		Amount: amount,
		Date:   r.stamp(id),
	}
	if err := r.store.AppendPayment(ctx, id, pay); err != nil {
		return nil, err
	}
	return r.reload(ctx, id)
}

// =============================================================================
// NOTES
// =============================================================================

func (r *Registry) AddNote(ctx context.Context, id PartyID, text string) (*Party, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, invalidf("text", "note text must not be empty")
	}

	l := r.lockParty(id)
	l.Lock()
	defer l.Unlock()

	if _, err := r.store.GetParty(ctx, id); err != nil {
		return nil, err
	}

	n := Note{
		ID:   NoteID(uuid.NewString()),
		Text: text,
		Date: r.stamp(id),
	}
	if err := r.store.AppendNote(ctx, id, n); err != nil {
		return nil, err
	}
	return r.reload(ctx, id)
}

func (r *Registry) EditNote(ctx context.Context, id PartyID, noteID NoteID, text string) (*Party, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, invalidf("text", "note text must not be empty")
	}

	l := r.lockParty(id)
	l.Lock()
	defer l.Unlock()

	if err := r.store.UpdateNote(ctx, id, noteID, text); err != nil {
		return nil, err
	}
	return r.reload(ctx, id)
}

func (r *Registry) DeleteNote(ctx context.Context, id PartyID, noteID NoteID) (*Party, error) {
	l := r.lockParty(id)
	l.Lock()
	defer l.Unlock()

	if err := r.store.DeleteNote(ctx, id, noteID); err != nil {
		return nil, err
	}
	return r.reload(ctx, id)
}

// =============================================================================
// READS
// =============================================================================

func (r *Registry) GetParty(ctx context.Context, id PartyID) (*Party, error) {
	p, err := r.store.GetParty(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.withBalance(p), nil
}

func (r *Registry) ListParties(ctx context.Context, kind *PartyKind) ([]*Party, error) {
	if kind != nil && !kind.Valid() {
		return nil, invalidf("kind", "must be %q or %q", KindClient, KindSupplier)
	}
	parties, err := r.store.ListParties(ctx, kind)
	if err != nil {
		return nil, err
	}
	for i, p := range parties {
		parties[i] = r.withBalance(p)
	}
	return parties, nil
}

// =============================================================================
// INTERNAL
// =============================================================================

func (r *Registry) withBalance(p *Party) *Party {
	p.Balance = BalanceOf(p)
	return p
}

func (r *Registry) reload(ctx context.Context, id PartyID) (*Party, error) {
	p, err := r.store.GetParty(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.withBalance(p), nil
}

// buildTransaction validates a transaction input and materializes the
// record. The party kind dictates the transaction kind regardless of
// what the caller asked for.
func (r *Registry) buildTransaction(id PartyID, kind PartyKind, in TransactionInput) (Transaction, error) {
	details := make([]LineItem, 0, len(in.Details))
	detailsTotal := Zero()
	for i, li := range in.Details {
		if strings.TrimSpace(li.ProductName) == "" {
			return Transaction{}, invalidf("details", "line %d: product name must not be empty", i)
		}
		if li.Quantity <= 0 {
			return Transaction{}, invalidf("details", "line %d: quantity must be positive", i)
		}
		if li.Price.IsNegative() {
			return Transaction{}, invalidf("details", "line %d: price must not be negative", i)
		}
		total := li.Price.Mul(NewMoneyFromInt(li.Quantity).Decimal())
		details = append(details, LineItem{
			ProductName: strings.TrimSpace(li.ProductName),
			Quantity:    li.Quantity,
			Price:       li.Price,
			TotalAmount: total,
		})
		detailsTotal = detailsTotal.Add(total)
	}

	amount := in.Amount
	if amount.IsZero() && len(details) > 0 {
		amount = detailsTotal
	}
	if !amount.IsPositive() {
		return Transaction{}, invalidf("amount", "transaction amount must be positive, got %s", amount)
	}

	date := in.Date
	if date.IsZero() {
		date = r.stamp(id)
	} else {
		date = date.UTC()
	}

	return Transaction{
		ID:      TransactionID(uuid.NewString()),
		Kind:    kind.TransactionKind(),
		Amount:  amount,
		Date:    date,
		Details: details,
	}, nil
}

func validateAttributes(name, phone, address string) error {
	if strings.TrimSpace(name) == "" {
		return invalidf("name", "must not be empty")
	}
	if strings.TrimSpace(phone) == "" {
		return invalidf("phone", "must not be empty")
	}
	if strings.TrimSpace(address) == "" {
		return invalidf("address", "must not be empty")
	}
	return nil
}
