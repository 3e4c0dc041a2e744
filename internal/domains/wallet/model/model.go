package model

import (
	"time"

	"bengkel/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "mechanic_wallets"
	EntityName = "wallet"

	FieldID             = "id"
	FieldMechanicID     = "mechanic_id"
	FieldBalance        = "balance"
	FieldTotalEarnings  = "total_earnings"
	FieldTotalWithdrawn = "total_withdrawn"
)

const (
	EntryTableName  = "mechanic_wallet_transactions"
	EntryEntityName = "wallet transaction"

	EntryFieldID        = "id"
	EntryFieldWalletID  = "wallet_id"
	EntryFieldCreatedAt = "created_at"
)

const (
	EntryTypeCredit = "credit"
	EntryTypeDebit  = "debit"
)

// Wallet keeps Balance equal to TotalEarnings minus TotalWithdrawn.
type Wallet struct {
	ID             string          `db:"id"`
	MechanicID     string          `db:"mechanic_id"`
	Balance        decimal.Decimal `db:"balance"`
	TotalEarnings  decimal.Decimal `db:"total_earnings"`
	TotalWithdrawn decimal.Decimal `db:"total_withdrawn"`
	model.Metadata
}

// Credit returns the wallet after receiving amount.
func (w Wallet) Credit(amount decimal.Decimal) Wallet {
	w.Balance = w.Balance.Add(amount)
	w.TotalEarnings = w.TotalEarnings.Add(amount)

	return w
}

// Debit returns the wallet after paying out amount. ok is false, and w is returned unchanged,
// when amount exceeds the balance.
func (w Wallet) Debit(amount decimal.Decimal) (Wallet, bool) {
	if amount.GreaterThan(w.Balance) {
		return w, false
	}

	w.Balance = w.Balance.Sub(amount)
	w.TotalWithdrawn = w.TotalWithdrawn.Add(amount)

	return w, true
}

// Entry is an append-only ledger row.
type Entry struct {
	ID            string          `db:"id"`
	WalletID      string          `db:"wallet_id"`
	Type          string          `db:"type"`
	Amount        decimal.Decimal `db:"amount"`
	BalanceAfter  decimal.Decimal `db:"balance_after"`
	Description   *string         `db:"description"`
	ReferenceType *string         `db:"reference_type"`
	ReferenceID   *string         `db:"reference_id"`
	CreatedAt     time.Time       `db:"created_at"`
}
