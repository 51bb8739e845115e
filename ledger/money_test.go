package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartstock/ledger-engine/ledger"
)

func TestMoney_DecimalPrecision(t *testing.T) {
	// GIVEN: amounts that don't sum cleanly in binary floating point
	// WHEN: summed with Money
	// THEN: the result is exact

	sum := ledger.NewMoney(0.1).Add(ledger.NewMoney(0.2))
	assert.True(t, sum.Equal(ledger.NewMoney(0.3)), "0.1 + 0.2 should be exactly 0.3, got %s", sum)

	// A long run of additions stays exact too.
	total := ledger.Zero()
	for i := 0; i < 1000; i++ {
		total = total.Add(ledger.NewMoney(0.01))
	}
	assert.Equal(t, "10", total.String())
}

func TestParseMoney(t *testing.T) {
	m, err := ledger.ParseMoney("149.50")
	require.NoError(t, err)
	assert.Equal(t, "149.5", m.String())

	_, err = ledger.ParseMoney("not-a-number")
	assert.Error(t, err)
}

func TestParsePositiveMoney_RejectsZeroAndNegative(t *testing.T) {
	_, err := ledger.ParsePositiveMoney("0")
	assert.Error(t, err)

	_, err = ledger.ParsePositiveMoney("-5")
	assert.Error(t, err)

	m, err := ledger.ParsePositiveMoney("5")
	require.NoError(t, err)
	assert.True(t, m.IsPositive())
}

func TestMoney_Arithmetic(t *testing.T) {
	a := ledger.NewMoney(500)
	b := ledger.NewMoney(200)

	assert.True(t, a.Sub(b).Equal(ledger.NewMoney(300)))
	assert.True(t, b.Sub(a).Equal(ledger.NewMoney(-300)))
	assert.True(t, b.Sub(a).Neg().Equal(ledger.NewMoney(300)))
	assert.True(t, b.Sub(a).Abs().Equal(ledger.NewMoney(300)))
	assert.True(t, a.GreaterThan(b))
	assert.True(t, b.LessThan(a))
	assert.True(t, ledger.Zero().IsZero())
}
