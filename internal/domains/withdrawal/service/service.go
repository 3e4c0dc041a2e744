package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"bengkel/infras/otel"
	walletDto "bengkel/internal/domains/wallet/model/dto"
	walletService "bengkel/internal/domains/wallet/service"
	"bengkel/internal/domains/withdrawal/model"
	"bengkel/internal/domains/withdrawal/model/dto"
	"bengkel/internal/domains/withdrawal/repository"
	"bengkel/shared"
	"bengkel/shared/constant"
	gDto "bengkel/shared/dto"
	"bengkel/shared/event"
	"bengkel/shared/failure"
	"bengkel/shared/timezone"
	"bengkel/shared/transaction"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type Payout interface {
	Request(ctx context.Context, req dto.RequestWithdrawal) (dto.WithdrawalResponse, error)
	Process(ctx context.Context, id string, req dto.ProcessRequest) (dto.WithdrawalResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetWithdrawalsResponse, error)
}

type serviceImpl struct {
	repo       repository.Withdrawal
	ledger     walletService.Ledger
	transactor transaction.Transactor
	publisher  event.Publisher
	otel       otel.Otel
}

func New(
	repo repository.Withdrawal,
	ledger walletService.Ledger,
	transactor transaction.Transactor,
	publisher event.Publisher,
	otel otel.Otel,
) Payout {
	return &serviceImpl{
		repo:       repo,
		ledger:     ledger,
		transactor: transactor,
		publisher:  publisher,
		otel:       otel,
	}
}

func (s *serviceImpl) Request(ctx context.Context, req dto.RequestWithdrawal) (res dto.WithdrawalResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".withdrawal.Request")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !req.Amount.IsPositive() {
		return res, failure.BadRequestFromString("amount must be greater than zero") //nolint:wrapcheck
	}

	wallet, err := s.ledger.GetWallet(ctx)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	// advisory only, the debit on completion re-checks under the wallet lock
	if wallet.Balance.LessThan(req.Amount) {
		return res, failure.InsufficientFunds("insufficient wallet balance") //nolint:wrapcheck
	}

	user, _ := shared.Actor(ctx)
	withdrawal := req.ToModel(wallet.ID, user)

	if err = s.repo.Insert(ctx, withdrawal); err != nil {
		log.Error().Err(err).Msg("failed to request withdrawal")

		return res, fmt.Errorf("failed to request withdrawal: %w", err)
	}

	res.FromModel(withdrawal)

	return res, nil
}

func (s *serviceImpl) Process(ctx context.Context, id string, req dto.ProcessRequest) (res dto.WithdrawalResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".withdrawal.Process")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, role := shared.Actor(ctx)
	if !shared.IsPrivileged(role) {
		return res, failure.Forbidden("only admins can process withdrawals") //nolint:wrapcheck
	}

	switch req.Status {
	case model.StatusProcessing, model.StatusCompleted, model.StatusRejected:
	default:
		return res, failure.BadRequestFromString("status must be processing, completed or rejected") //nolint:wrapcheck
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	var withdrawal model.Withdrawal

	err = s.transactor.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		withdrawal, err = s.repo.GetForUpdateTx(ctx, tx, filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to lock withdrawal")

			return fmt.Errorf("failed to lock withdrawal: %w", err)
		}

		if withdrawal.ID == constant.Empty {
			return failure.NotFound("withdrawal not found") //nolint:wrapcheck
		}

		if !withdrawal.CanMoveTo(req.Status) {
			return failure.InvalidState(fmt.Sprintf("withdrawal is %s and cannot become %s", withdrawal.Status, req.Status)) //nolint:wrapcheck
		}

		if req.Status == model.StatusCompleted {
			_, err := s.ledger.DebitTx(ctx, tx, walletDto.Posting{
				WalletID:      withdrawal.WalletID,
				Amount:        withdrawal.Amount,
				Description:   "Withdrawal #" + shortID(withdrawal.ID),
				ReferenceType: constant.ReferenceTypeWithdrawal,
				ReferenceID:   withdrawal.ID,
			})
			if err != nil {
				return err //nolint:wrapcheck
			}
		}

		now := timezone.Now()
		withdrawal.Status = req.Status
		withdrawal.ProcessedAt = &now
		withdrawal.ProcessedBy = shared.NullableString(user)
		withdrawal.ModifiedAt = now
		withdrawal.ModifiedBy = user

		fields := map[string]any{
			model.FieldStatus:        withdrawal.Status,
			model.FieldProcessedAt:   now,
			model.FieldProcessedBy:   withdrawal.ProcessedBy,
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: user,
		}

		if req.Status == model.StatusRejected {
			withdrawal.RejectionReason = shared.NullableString(req.RejectionReason)
			fields[model.FieldRejectionReason] = withdrawal.RejectionReason
		}

		if err := s.repo.UpdateTx(ctx, tx, fields, filter); err != nil {
			log.Error().Err(err).Msg("failed to process withdrawal")

			return fmt.Errorf("failed to process withdrawal: %w", err)
		}

		return nil
	})
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	res.FromModel(withdrawal)

	s.publisher.Publish(ctx, event.New(constant.Empty, event.WithdrawalProcessed, res))

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetWithdrawalsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".withdrawal.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req = model.Sortable.Apply(req)

	_, role := shared.Actor(ctx)

	if !shared.IsPrivileged(role) {
		wallet, err := s.ledger.GetWallet(ctx)
		if err != nil {
			return res, err //nolint:wrapcheck
		}

		own := shared.FilterByID(wallet.ID, model.FieldWalletID, model.TableName)
		if len(filter.Filters) > 0 {
			filter = gDto.FilterGroup{Filters: []any{filter, own}, Operator: gDto.FilterGroupOperatorAnd}
		} else {
			filter = own
		}
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count withdrawals")

		return res, fmt.Errorf("failed to count withdrawals: %w", err)
	}

	withdrawals, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get withdrawals")

		return res, fmt.Errorf("failed to get withdrawals: %w", err)
	}

	res.FromModels(withdrawals, total, req.Limit)

	return res, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}

	return id
}
