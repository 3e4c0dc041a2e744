package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"bengkel/infras/otel"
	mechanicModel "bengkel/internal/domains/mechanic/model"
	mechanicRepo "bengkel/internal/domains/mechanic/repository"
	"bengkel/internal/domains/wallet/model"
	"bengkel/internal/domains/wallet/model/dto"
	"bengkel/internal/domains/wallet/repository"
	"bengkel/shared"
	"bengkel/shared/constant"
	gDto "bengkel/shared/dto"
	"bengkel/shared/failure"
	gModel "bengkel/shared/model"
	"bengkel/shared/timezone"
	"bengkel/shared/transaction"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Ledger is the only writer of wallet balances.
type Ledger interface {
	Credit(ctx context.Context, posting dto.Posting) (dto.EntryResponse, error)
	Debit(ctx context.Context, posting dto.Posting) (dto.EntryResponse, error)
	CreditTx(ctx context.Context, sqltx *sqlx.Tx, posting dto.Posting) (model.Entry, error)
	DebitTx(ctx context.Context, sqltx *sqlx.Tx, posting dto.Posting) (model.Entry, error)
	// EnsureWalletTx returns the mechanic's wallet locked for sqltx, creating an empty one if needed.
	EnsureWalletTx(ctx context.Context, sqltx *sqlx.Tx, mechanicID string) (model.Wallet, error)
	GetWallet(ctx context.Context) (dto.WalletResponse, error)
	GetTransactions(ctx context.Context, req gDto.QueryParams) (dto.GetEntriesResponse, error)
}

type serviceImpl struct {
	repo         repository.Wallet
	entryRepo    repository.Entry
	mechanicRepo mechanicRepo.Mechanic
	transactor   transaction.Transactor
	otel         otel.Otel
}

func New(
	repo repository.Wallet,
	entryRepo repository.Entry,
	mechanicRepo mechanicRepo.Mechanic,
	transactor transaction.Transactor,
	otel otel.Otel,
) Ledger {
	return &serviceImpl{
		repo:         repo,
		entryRepo:    entryRepo,
		mechanicRepo: mechanicRepo,
		transactor:   transactor,
		otel:         otel,
	}
}

func (s *serviceImpl) Credit(ctx context.Context, posting dto.Posting) (res dto.EntryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".wallet.Credit")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	var entry model.Entry

	err = s.transactor.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		entry, err = s.CreditTx(ctx, tx, posting)

		return err
	})
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	res.FromModel(entry)

	return res, nil
}

func (s *serviceImpl) Debit(ctx context.Context, posting dto.Posting) (res dto.EntryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".wallet.Debit")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	var entry model.Entry

	err = s.transactor.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		entry, err = s.DebitTx(ctx, tx, posting)

		return err
	})
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	res.FromModel(entry)

	return res, nil
}

func (s *serviceImpl) CreditTx(ctx context.Context, sqltx *sqlx.Tx, posting dto.Posting) (model.Entry, error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".wallet.CreditTx")
	defer scope.End()

	return s.post(ctx, sqltx, model.EntryTypeCredit, posting)
}

func (s *serviceImpl) DebitTx(ctx context.Context, sqltx *sqlx.Tx, posting dto.Posting) (model.Entry, error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".wallet.DebitTx")
	defer scope.End()

	return s.post(ctx, sqltx, model.EntryTypeDebit, posting)
}

func (s *serviceImpl) EnsureWalletTx(ctx context.Context, sqltx *sqlx.Tx, mechanicID string) (model.Wallet, error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".wallet.EnsureWalletTx")
	defer scope.End()

	filter := shared.FilterByID(mechanicID, model.FieldMechanicID, model.TableName)

	wallet, err := s.repo.GetForUpdateTx(ctx, sqltx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to lock wallet")

		return wallet, fmt.Errorf("failed to lock wallet: %w", err)
	}

	if wallet.ID != constant.Empty {
		return wallet, nil
	}

	user, _ := shared.Actor(ctx)
	now := timezone.Now()

	err = s.repo.InsertIfAbsentTx(ctx, sqltx, model.Wallet{
		ID:             uuid.NewString(),
		MechanicID:     mechanicID,
		Balance:        decimal.Zero,
		TotalEarnings:  decimal.Zero,
		TotalWithdrawn: decimal.Zero,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to create wallet")

		return wallet, fmt.Errorf("failed to create wallet: %w", err)
	}

	wallet, err = s.repo.GetForUpdateTx(ctx, sqltx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to lock wallet")

		return wallet, fmt.Errorf("failed to lock wallet: %w", err)
	}

	if wallet.ID == constant.Empty {
		return wallet, failure.NotFound("wallet not found") //nolint:wrapcheck
	}

	return wallet, nil
}

func (s *serviceImpl) GetWallet(ctx context.Context) (res dto.WalletResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".wallet.GetWallet")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	wallet, err := s.mine(ctx)
	if err != nil {
		return res, err
	}

	res.FromModel(wallet)

	return res, nil
}

func (s *serviceImpl) GetTransactions(ctx context.Context, req gDto.QueryParams) (res dto.GetEntriesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".wallet.GetTransactions")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	wallet, err := s.mine(ctx)
	if err != nil {
		return res, err
	}

	filter := shared.FilterByID(wallet.ID, model.EntryFieldWalletID, model.EntryTableName)
	req.SortBy = model.EntryFieldCreatedAt
	req.SortDir = gDto.SortDirDesc

	total, err := s.entryRepo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count wallet transactions")

		return res, fmt.Errorf("failed to count wallet transactions: %w", err)
	}

	entries, err := s.entryRepo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get wallet transactions")

		return res, fmt.Errorf("failed to get wallet transactions: %w", err)
	}

	res.FromModels(entries, total, req.Limit)

	return res, nil
}

// post applies one credit or debit to a locked wallet and appends its ledger entry.
func (s *serviceImpl) post(ctx context.Context, sqltx *sqlx.Tx, entryType string, posting dto.Posting) (model.Entry, error) {
	if !posting.Amount.IsPositive() {
		return model.Entry{}, failure.BadRequestFromString("amount must be greater than zero") //nolint:wrapcheck
	}

	wallet, err := s.repo.GetForUpdateTx(ctx, sqltx, shared.FilterByID(posting.WalletID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to lock wallet")

		return model.Entry{}, fmt.Errorf("failed to lock wallet: %w", err)
	}

	if wallet.ID == constant.Empty {
		return model.Entry{}, failure.NotFound("wallet not found") //nolint:wrapcheck
	}

	after := wallet.Credit(posting.Amount)
	if entryType == model.EntryTypeDebit {
		var ok bool

		after, ok = wallet.Debit(posting.Amount)
		if !ok {
			return model.Entry{}, failure.InsufficientFunds(fmt.Sprintf("insufficient balance: %s available", wallet.Balance.StringFixed(2))) //nolint:wrapcheck
		}
	}

	user, _ := shared.Actor(ctx)
	now := timezone.Now()

	err = s.repo.UpdateTx(ctx, sqltx, map[string]any{
		model.FieldBalance:        after.Balance,
		model.FieldTotalEarnings:  after.TotalEarnings,
		model.FieldTotalWithdrawn: after.TotalWithdrawn,
		constant.FieldModifiedAt:  now,
		constant.FieldModifiedBy:  user,
	}, shared.FilterByID(wallet.ID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to update wallet balance")

		return model.Entry{}, fmt.Errorf("failed to update wallet balance: %w", err)
	}

	entry := model.Entry{
		ID:            uuid.NewString(),
		WalletID:      wallet.ID,
		Type:          entryType,
		Amount:        posting.Amount,
		BalanceAfter:  after.Balance,
		Description:   shared.NullableString(posting.Description),
		ReferenceType: shared.NullableString(posting.ReferenceType),
		ReferenceID:   shared.NullableString(posting.ReferenceID),
		CreatedAt:     now,
	}

	if err = s.entryRepo.InsertTx(ctx, sqltx, entry); err != nil {
		log.Error().Err(err).Msg("failed to append wallet transaction")

		return model.Entry{}, fmt.Errorf("failed to append wallet transaction: %w", err)
	}

	return entry, nil
}

func (s *serviceImpl) mine(ctx context.Context) (model.Wallet, error) {
	user, _ := shared.Actor(ctx)

	mechanic, err := s.mechanicRepo.Get(ctx, shared.FilterByID(user, mechanicModel.FieldUserID, mechanicModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get mechanic profile")

		return model.Wallet{}, fmt.Errorf("failed to get mechanic profile: %w", err)
	}

	if mechanic.ID == constant.Empty {
		return model.Wallet{}, failure.NotFound("mechanic profile not found") //nolint:wrapcheck
	}

	wallet, err := s.repo.Get(ctx, shared.FilterByID(mechanic.ID, model.FieldMechanicID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get wallet")

		return wallet, fmt.Errorf("failed to get wallet: %w", err)
	}

	if wallet.ID == constant.Empty {
		return wallet, failure.NotFound("wallet not found") //nolint:wrapcheck
	}

	return wallet, nil
}
