package dto

import (
	"time"

	"bengkel/internal/domains/withdrawal/model"
	"bengkel/shared"
	gDto "bengkel/shared/dto"
	gModel "bengkel/shared/model"
	"bengkel/shared/timezone"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RequestWithdrawal struct {
	Amount            decimal.Decimal `json:"amount"              validate:"money_positive"`
	BankName          string          `json:"bank_name"           validate:"required,max=100"`
	BankAccountNumber string          `json:"bank_account_number" validate:"required,numeric,max=50"`
	BankAccountName   string          `json:"bank_account_name"   validate:"required,max=100"`
}

func (r *RequestWithdrawal) ToModel(walletID, user string) model.Withdrawal {
	now := timezone.Now()

	return model.Withdrawal{
		ID:                uuid.NewString(),
		WalletID:          walletID,
		Amount:            r.Amount,
		BankName:          r.BankName,
		BankAccountNumber: r.BankAccountNumber,
		BankAccountName:   r.BankAccountName,
		Status:            model.StatusPending,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type ProcessRequest struct {
	Status          string `json:"status"           validate:"required,oneof=processing completed rejected"`
	RejectionReason string `json:"rejection_reason" validate:"omitempty,max=1000"`
}

type WithdrawalResponse struct {
	ID                string          `json:"id"`
	WalletID          string          `json:"wallet_id"`
	Amount            decimal.Decimal `json:"amount"`
	BankName          string          `json:"bank_name"`
	BankAccountNumber string          `json:"bank_account_number"`
	BankAccountName   string          `json:"bank_account_name"`
	Status            string          `json:"status"`
	RejectionReason   *string         `json:"rejection_reason"`
	ProcessedAt       *string         `json:"processed_at"`
	ProcessedBy       *string         `json:"processed_by"`
	gDto.Metadata
}

func (r *WithdrawalResponse) FromModel(model model.Withdrawal) {
	r.ID = model.ID
	r.WalletID = model.WalletID
	r.Amount = model.Amount
	r.BankName = model.BankName
	r.BankAccountNumber = model.BankAccountNumber
	r.BankAccountName = model.BankAccountName
	r.Status = model.Status
	r.RejectionReason = model.RejectionReason
	r.ProcessedBy = model.ProcessedBy
	r.Metadata.FromModel(model.Metadata)

	if model.ProcessedAt != nil {
		processed := timezone.Format(*model.ProcessedAt, time.RFC3339)
		r.ProcessedAt = &processed
	}
}

type GetWithdrawalsResponse struct {
	Withdrawals []WithdrawalResponse `json:"withdrawals"`
	TotalPage   int                  `json:"total_page"`
	TotalData   int                  `json:"total_data"`
}

func (r *GetWithdrawalsResponse) FromModels(models []model.Withdrawal, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Withdrawals = make([]WithdrawalResponse, len(models))
	for i, mod := range models {
		r.Withdrawals[i].FromModel(mod)
	}
}
