package model_test

import (
	"testing"

	"bengkel/internal/domains/wallet/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func reconciled(t *testing.T, w model.Wallet) {
	t.Helper()

	assert.True(t, w.Balance.Equal(w.TotalEarnings.Sub(w.TotalWithdrawn)), "balance %s != earnings %s - withdrawn %s", w.Balance, w.TotalEarnings, w.TotalWithdrawn)
}

func TestWallet_Sequence(t *testing.T) {
	w := model.Wallet{}

	w = w.Credit(dec(90000))
	reconciled(t, w)

	w, ok := w.Debit(dec(40000))
	assert.True(t, ok)
	reconciled(t, w)

	w = w.Credit(dec(10000))
	reconciled(t, w)

	assert.True(t, w.Balance.Equal(dec(60000)))
	assert.True(t, w.TotalEarnings.Equal(dec(100000)))
	assert.True(t, w.TotalWithdrawn.Equal(dec(40000)))
}

func TestWallet_DebitInsufficient(t *testing.T) {
	w := model.Wallet{Balance: dec(50000), TotalEarnings: dec(50000)}

	after, ok := w.Debit(dec(70000))

	assert.False(t, ok)
	assert.Equal(t, w, after)
}

func TestWallet_DebitExactBalance(t *testing.T) {
	w := model.Wallet{Balance: dec(50000), TotalEarnings: dec(50000)}

	after, ok := w.Debit(dec(50000))

	assert.True(t, ok)
	assert.True(t, after.Balance.IsZero())
	reconciled(t, after)
}
