package model

import (
	"slices"
	"time"

	"bengkel/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "withdrawals"
	EntityName = "withdrawal"

	FieldID              = "id"
	FieldWalletID        = "wallet_id"
	FieldStatus          = "status"
	FieldRejectionReason = "rejection_reason"
	FieldProcessedAt     = "processed_at"
	FieldProcessedBy     = "processed_by"
)

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusRejected   = "rejected"
)

var transitions = map[string][]string{
	StatusPending:    {StatusProcessing, StatusCompleted, StatusRejected},
	StatusProcessing: {StatusCompleted},
}

type Withdrawal struct {
	ID                string          `db:"id"`
	WalletID          string          `db:"wallet_id"`
	Amount            decimal.Decimal `db:"amount"`
	BankName          string          `db:"bank_name"`
	BankAccountNumber string          `db:"bank_account_number"`
	BankAccountName   string          `db:"bank_account_name"`
	Status            string          `db:"status"`
	RejectionReason   *string         `db:"rejection_reason"`
	ProcessedAt       *time.Time      `db:"processed_at"`
	ProcessedBy       *string         `db:"processed_by"`
	model.Metadata
}

// CanMoveTo reports whether the withdrawal may be processed into next.
func (w Withdrawal) CanMoveTo(next string) bool {
	return slices.Contains(transitions[w.Status], next)
}
