package dto

import (
	"time"

	"bengkel/internal/domains/wallet/model"
	"bengkel/shared"
	gDto "bengkel/shared/dto"
	"bengkel/shared/timezone"

	"github.com/shopspring/decimal"
)

type WalletResponse struct {
	ID             string          `json:"id"`
	MechanicID     string          `json:"mechanic_id"`
	Balance        decimal.Decimal `json:"balance"`
	TotalEarnings  decimal.Decimal `json:"total_earnings"`
	TotalWithdrawn decimal.Decimal `json:"total_withdrawn"`
	gDto.Metadata
}

func (r *WalletResponse) FromModel(model model.Wallet) {
	r.ID = model.ID
	r.MechanicID = model.MechanicID
	r.Balance = model.Balance
	r.TotalEarnings = model.TotalEarnings
	r.TotalWithdrawn = model.TotalWithdrawn
	r.Metadata.FromModel(model.Metadata)
}

type EntryResponse struct {
	ID            string          `json:"id"`
	WalletID      string          `json:"wallet_id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	Description   *string         `json:"description"`
	ReferenceType *string         `json:"reference_type"`
	ReferenceID   *string         `json:"reference_id"`
	CreatedAt     string          `json:"created_at"`
}

func (r *EntryResponse) FromModel(model model.Entry) {
	r.ID = model.ID
	r.WalletID = model.WalletID
	r.Type = model.Type
	r.Amount = model.Amount
	r.BalanceAfter = model.BalanceAfter
	r.Description = model.Description
	r.ReferenceType = model.ReferenceType
	r.ReferenceID = model.ReferenceID
	r.CreatedAt = timezone.Format(model.CreatedAt, time.RFC3339)
}

type GetEntriesResponse struct {
	Transactions []EntryResponse `json:"transactions"`
	TotalPage    int             `json:"total_page"`
	TotalData    int             `json:"total_data"`
}

func (r *GetEntriesResponse) FromModels(models []model.Entry, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Transactions = make([]EntryResponse, len(models))
	for i, mod := range models {
		r.Transactions[i].FromModel(mod)
	}
}

// Posting describes one balance mutation requested of the ledger.
type Posting struct {
	WalletID      string
	Amount        decimal.Decimal
	Description   string
	ReferenceType string
	ReferenceID   string
}
