package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartstock/ledger-engine/ledger"
	"github.com/smartstock/ledger-engine/ledger/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestRegistry() *ledger.Registry {
	return ledger.NewRegistry(store.NewMemory())
}

func registerClient(t *testing.T, r *ledger.Registry, name string) *ledger.Party {
	t.Helper()
	p, err := r.Register(context.Background(), ledger.RegisterInput{
		Name:    name,
		Kind:    ledger.KindClient,
		Phone:   "0100000000",
		Address: "Cairo",
	})
	require.NoError(t, err)
	return p
}

// =============================================================================
// REGISTRATION
// =============================================================================

func TestRegister_RequiresAttributes(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()

	cases := []struct {
		name  string
		input ledger.RegisterInput
	}{
		{"empty name", ledger.RegisterInput{Kind: ledger.KindClient, Phone: "1", Address: "a"}},
		{"empty phone", ledger.RegisterInput{Name: "n", Kind: ledger.KindClient, Address: "a"}},
		{"empty address", ledger.RegisterInput{Name: "n", Kind: ledger.KindClient, Phone: "1"}},
		{"invalid kind", ledger.RegisterInput{Name: "n", Kind: "vendor", Phone: "1", Address: "a"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := r.Register(ctx, tc.input)
			assert.True(t, ledger.IsValidation(err), "expected validation error, got %v", err)
		})
	}

	// Nothing should have been written.
	parties, err := r.ListParties(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, parties)
}

func TestRegister_InitialTransaction_KindForcedToPartyKind(t *testing.T) {
	// GIVEN: a supplier registered with an initial transaction the
	//        caller mislabeled as a sale
	// WHEN: the party is created
	// THEN: the transaction is recorded as a purchase; the caller's
	//       kind is overridden, not errored

	r := newTestRegistry()
	ctx := context.Background()

	p, err := r.Register(ctx, ledger.RegisterInput{
		Name:    "Acme",
		Kind:    ledger.KindSupplier,
		Phone:   "0111111111",
		Address: "Alexandria",
		InitialTransaction: &ledger.TransactionInput{
			Kind:   ledger.TxSale, // wrong on purpose
			Amount: ledger.NewMoney(1000),
		},
	})
	require.NoError(t, err)

	require.Len(t, p.Transactions, 1)
	assert.Equal(t, ledger.TxPurchase, p.Transactions[0].Kind)
	assert.True(t, p.Balance.Equal(ledger.NewMoney(1000)))

	// Settling the outstanding payable brings the balance to zero.
	p, err = r.RecordPayment(ctx, p.ID, ledger.NewMoney(1000))
	require.NoError(t, err)
	assert.True(t, p.Balance.IsZero())
	assert.Equal(t, ledger.Settled, ledger.SettlementOf(p.Balance))
}

// =============================================================================
// PAYMENTS
// =============================================================================

func TestRecordPayment_RunningBalance(t *testing.T) {
	// The canonical client scenario: sale of 500, then two payments.

	r := newTestRegistry()
	ctx := context.Background()

	p, err := r.Register(ctx, ledger.RegisterInput{
		Name:    "Ahmed",
		Kind:    ledger.KindClient,
		Phone:   "0122222222",
		Address: "Giza",
		InitialTransaction: &ledger.TransactionInput{
			Amount: ledger.NewMoney(500),
		},
	})
	require.NoError(t, err)
	assert.True(t, p.Balance.Equal(ledger.NewMoney(500)))
	assert.Equal(t, ledger.OwedToParty, ledger.SettlementOf(p.Balance))

	p, err = r.RecordPayment(ctx, p.ID, ledger.NewMoney(200))
	require.NoError(t, err)
	assert.True(t, p.Balance.Equal(ledger.NewMoney(300)))

	p, err = r.RecordPayment(ctx, p.ID, ledger.NewMoney(300))
	require.NoError(t, err)
	assert.True(t, p.Balance.IsZero())
	assert.Len(t, p.Payments, 2)
}

func TestRecordPayment_NonPositive_RejectedWithoutSideEffects(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()
	p := registerClient(t, r, "Ahmed")

	for _, amount := range []float64{0, -50} {
		_, err := r.RecordPayment(ctx, p.ID, ledger.NewMoney(amount))
		assert.True(t, ledger.IsValidation(err), "amount %v should be rejected", amount)
	}

	// Balance and payment log untouched.
	got, err := r.GetParty(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Payments)
	assert.True(t, got.Balance.IsZero())
}

func TestRecordPayment_UnknownParty(t *testing.T) {
	r := newTestRegistry()

	_, err := r.RecordPayment(context.Background(), "missing", ledger.NewMoney(10))
	assert.True(t, ledger.IsNotFound(err))
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func TestRecordTransaction_LineItemTotals(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()
	p := registerClient(t, r, "Ahmed")

	p, err := r.RecordTransaction(ctx, p.ID, ledger.TransactionInput{
		Details: []ledger.LineItemInput{
			{ProductName: "Rice 5kg", Quantity: 3, Price: ledger.NewMoney(120)},
			{ProductName: "Oil 1L", Quantity: 2, Price: ledger.NewMoney(75.5)},
		},
	})
	require.NoError(t, err)

	require.Len(t, p.Transactions, 1)
	txn := p.Transactions[0]
	assert.Equal(t, ledger.TxSale, txn.Kind)

	require.Len(t, txn.Details, 2)
	assert.True(t, txn.Details[0].TotalAmount.Equal(ledger.NewMoney(360)))
	assert.True(t, txn.Details[1].TotalAmount.Equal(ledger.NewMoney(151)))

	// Amount omitted: derived from the line item totals.
	assert.True(t, txn.Amount.Equal(ledger.NewMoney(511)))
	assert.True(t, p.Balance.Equal(ledger.NewMoney(511)))
}

func TestRecordTransaction_RejectsBadLineItems(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()
	p := registerClient(t, r, "Ahmed")

	_, err := r.RecordTransaction(ctx, p.ID, ledger.TransactionInput{
		Details: []ledger.LineItemInput{{ProductName: "Rice", Quantity: 0, Price: ledger.NewMoney(10)}},
	})
	assert.True(t, ledger.IsValidation(err))

	_, err = r.RecordTransaction(ctx, p.ID, ledger.TransactionInput{
		Amount: ledger.NewMoney(-5),
	})
	assert.True(t, ledger.IsValidation(err))

	got, err := r.GetParty(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Transactions)
}

// =============================================================================
// NOTES
// =============================================================================

func TestNotes_RoundTrip(t *testing.T) {
	// addNote then getParty must show exactly one note with the text;
	// editNote changes only that note, leaving others and the balance
	// untouched.

	r := newTestRegistry()
	ctx := context.Background()
	p := registerClient(t, r, "Ahmed")

	p, err := r.AddNote(ctx, p.ID, "x")
	require.NoError(t, err)
	require.Len(t, p.Notes, 1)
	assert.Equal(t, "x", p.Notes[0].Text)

	p, err = r.AddNote(ctx, p.ID, "second")
	require.NoError(t, err)
	require.Len(t, p.Notes, 2)

	first := p.Notes[0].ID
	balanceBefore := p.Balance

	p, err = r.EditNote(ctx, p.ID, first, "edited")
	require.NoError(t, err)
	require.Len(t, p.Notes, 2)
	assert.Equal(t, "edited", p.Notes[0].Text)
	assert.Equal(t, "second", p.Notes[1].Text)
	assert.True(t, p.Balance.Equal(balanceBefore))
}

func TestNotes_DeleteThenEdit_NotFound(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()
	p := registerClient(t, r, "Ahmed")

	p, err := r.AddNote(ctx, p.ID, "temp")
	require.NoError(t, err)
	noteID := p.Notes[0].ID

	p, err = r.DeleteNote(ctx, p.ID, noteID)
	require.NoError(t, err)
	assert.Empty(t, p.Notes)

	_, err = r.EditNote(ctx, p.ID, noteID, "again")
	assert.True(t, ledger.IsNotFound(err))
}

func TestNotes_EmptyText_Rejected(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()
	p := registerClient(t, r, "Ahmed")

	_, err := r.AddNote(ctx, p.ID, "   ")
	assert.True(t, ledger.IsValidation(err))

	got, err := r.GetParty(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Notes)
}

// =============================================================================
// UPDATE
// =============================================================================

func TestUpdate_PartialPatch(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()
	p := registerClient(t, r, "Ahmed")

	newPhone := "0155555555"
	updated, err := r.Update(ctx, p.ID, ledger.PartyPatch{Phone: &newPhone})
	require.NoError(t, err)

	assert.Equal(t, "Ahmed", updated.Name)
	assert.Equal(t, newPhone, updated.Phone)
	assert.Equal(t, p.Address, updated.Address)
}

func TestUpdate_EmptyPatch_IsIdentity(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()

	p, err := r.Register(ctx, ledger.RegisterInput{
		Name: "Ahmed", Kind: ledger.KindClient, Phone: "1", Address: "a",
		InitialTransaction: &ledger.TransactionInput{Amount: ledger.NewMoney(500)},
	})
	require.NoError(t, err)

	updated, err := r.Update(ctx, p.ID, ledger.PartyPatch{})
	require.NoError(t, err)

	assert.Equal(t, p.Name, updated.Name)
	assert.Equal(t, p.Phone, updated.Phone)
	assert.Equal(t, p.Address, updated.Address)
	assert.True(t, updated.Balance.Equal(p.Balance))
	assert.Len(t, updated.Transactions, len(p.Transactions))
}

func TestUpdate_KindChange_Rejected(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()
	p := registerClient(t, r, "Ahmed")

	supplier := ledger.KindSupplier
	_, err := r.Update(ctx, p.ID, ledger.PartyPatch{Kind: &supplier})
	assert.True(t, ledger.IsValidation(err))

	// Re-asserting the current kind is an accepted no-op.
	client := ledger.KindClient
	updated, err := r.Update(ctx, p.ID, ledger.PartyPatch{Kind: &client})
	require.NoError(t, err)
	assert.Equal(t, ledger.KindClient, updated.Kind)
}

func TestUpdate_UnknownParty(t *testing.T) {
	r := newTestRegistry()
	name := "x"

	_, err := r.Update(context.Background(), "missing", ledger.PartyPatch{Name: &name})
	assert.True(t, ledger.IsNotFound(err))
}

// =============================================================================
// DELETE AND LIST
// =============================================================================

func TestDelete_CascadesAndDisappears(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()
	p := registerClient(t, r, "Ahmed")

	_, err := r.RecordPayment(ctx, p.ID, ledger.NewMoney(10))
	require.NoError(t, err)
	_, err = r.AddNote(ctx, p.ID, "keep an eye on this one")
	require.NoError(t, err)

	require.NoError(t, r.Delete(ctx, p.ID))

	parties, err := r.ListParties(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, parties)

	_, err = r.GetParty(ctx, p.ID)
	assert.True(t, ledger.IsNotFound(err))

	assert.True(t, ledger.IsNotFound(r.Delete(ctx, p.ID)))
}

func TestListParties_KindFilter(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()

	registerClient(t, r, "Ahmed")
	_, err := r.Register(ctx, ledger.RegisterInput{
		Name: "Acme", Kind: ledger.KindSupplier, Phone: "2", Address: "b",
	})
	require.NoError(t, err)

	clients := ledger.KindClient
	got, err := r.ListParties(ctx, &clients)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Ahmed", got[0].Name)

	all, err := r.ListParties(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

// =============================================================================
// TIMESTAMPS
// =============================================================================

func TestAppendTimestamps_MonotonicWithinParty(t *testing.T) {
	// GIVEN: a wall clock that jumps backwards between appends
	// WHEN: payments are recorded
	// THEN: append timestamps never decrease

	ticks := []time.Time{
		time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC),
		time.Date(2025, time.March, 10, 11, 0, 0, 0, time.UTC), // backwards
		time.Date(2025, time.March, 10, 13, 0, 0, 0, time.UTC),
	}
	i := 0
	clock := func() time.Time {
		now := ticks[i%len(ticks)]
		i++
		return now
	}

	r := ledger.NewRegistry(store.NewMemory()).WithClock(clock)
	ctx := context.Background()

	p, err := r.Register(ctx, ledger.RegisterInput{
		Name: "Ahmed", Kind: ledger.KindClient, Phone: "1", Address: "a",
	})
	require.NoError(t, err)

	for n := 0; n < 3; n++ {
		p, err = r.RecordPayment(ctx, p.ID, ledger.NewMoney(1))
		require.NoError(t, err)
	}

	require.Len(t, p.Payments, 3)
	for n := 1; n < len(p.Payments); n++ {
		assert.False(t, p.Payments[n].Date.Before(p.Payments[n-1].Date),
			"payment %d timestamp went backwards", n)
	}
}
