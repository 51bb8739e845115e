package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/smartstock/ledger-engine/ledger"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func tx(amount float64, kind ledger.TransactionKind) ledger.Transaction {
	return ledger.Transaction{
		ID:     "tx",
		Kind:   kind,
		Amount: ledger.NewMoney(amount),
		Date:   time.Now(),
	}
}

func pay(amount float64) ledger.Payment {
	return ledger.Payment{ID: "pay", Amount: ledger.NewMoney(amount), Date: time.Now()}
}

// =============================================================================
// BALANCE DERIVATION
// =============================================================================

func TestBalanceOf_EmptyLogs_IsZero(t *testing.T) {
	// GIVEN: a party with no transactions and no payments
	// WHEN: the balance is derived
	// THEN: it is zero and classified as settled, never as "owed"

	p := &ledger.Party{ID: "p1", Kind: ledger.KindClient}

	balance := ledger.BalanceOf(p)
	assert.True(t, balance.IsZero())
	assert.Equal(t, ledger.Settled, ledger.SettlementOf(balance))
}

func TestBalanceOf_TransactionsMinusPayments(t *testing.T) {
	p := &ledger.Party{
		ID:   "p1",
		Kind: ledger.KindClient,
		Transactions: []ledger.Transaction{
			tx(500, ledger.TxSale),
			tx(250, ledger.TxSale),
		},
		Payments: []ledger.Payment{pay(200), pay(100)},
	}

	balance := ledger.BalanceOf(p)
	assert.True(t, balance.Equal(ledger.NewMoney(450)), "750 - 300 = 450, got %s", balance)
	assert.Equal(t, ledger.OwedToParty, ledger.SettlementOf(balance))
}

func TestBalanceOf_UniformAcrossKinds(t *testing.T) {
	// The same signed formula applies to both sides of the book: a
	// supplier's purchases raise the outstanding amount exactly as a
	// client's sales do, and payments always reduce it.

	client := &ledger.Party{
		ID: "c", Kind: ledger.KindClient,
		Transactions: []ledger.Transaction{tx(1000, ledger.TxSale)},
		Payments:     []ledger.Payment{pay(400)},
	}
	supplier := &ledger.Party{
		ID: "s", Kind: ledger.KindSupplier,
		Transactions: []ledger.Transaction{tx(1000, ledger.TxPurchase)},
		Payments:     []ledger.Payment{pay(400)},
	}

	assert.True(t, ledger.BalanceOf(client).Equal(ledger.BalanceOf(supplier)))
}

func TestBalanceOf_OverpaymentFlipsSign(t *testing.T) {
	p := &ledger.Party{
		ID: "p1", Kind: ledger.KindClient,
		Transactions: []ledger.Transaction{tx(100, ledger.TxSale)},
		Payments:     []ledger.Payment{pay(150)},
	}

	balance := ledger.BalanceOf(p)
	assert.True(t, balance.Equal(ledger.NewMoney(-50)))
	assert.Equal(t, ledger.OwedByParty, ledger.SettlementOf(balance))
	assert.True(t, ledger.Outstanding(balance).Equal(ledger.NewMoney(50)))
}

func TestBalanceOf_OrderIndependent(t *testing.T) {
	// Sums commute: the derived balance depends only on log contents,
	// not on the order mutations arrived in.

	forward := &ledger.Party{
		ID: "p1", Kind: ledger.KindClient,
		Transactions: []ledger.Transaction{tx(500, ledger.TxSale), tx(300, ledger.TxSale)},
		Payments:     []ledger.Payment{pay(100), pay(250)},
	}
	reversed := &ledger.Party{
		ID: "p1", Kind: ledger.KindClient,
		Transactions: []ledger.Transaction{tx(300, ledger.TxSale), tx(500, ledger.TxSale)},
		Payments:     []ledger.Payment{pay(250), pay(100)},
	}

	assert.True(t, ledger.BalanceOf(forward).Equal(ledger.BalanceOf(reversed)))
}

func TestPartyKind_TransactionKind(t *testing.T) {
	assert.Equal(t, ledger.TxSale, ledger.KindClient.TransactionKind())
	assert.Equal(t, ledger.TxPurchase, ledger.KindSupplier.TransactionKind())
}
