package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"bengkel/infras/otel"
	bookingService "bengkel/internal/domains/booking/service"
	"bengkel/internal/domains/transaction/model"
	"bengkel/internal/domains/transaction/model/dto"
	"bengkel/internal/domains/transaction/repository"
	walletDto "bengkel/internal/domains/wallet/model/dto"
	walletService "bengkel/internal/domains/wallet/service"
	"bengkel/shared"
	"bengkel/shared/constant"
	"bengkel/shared/event"
	"bengkel/shared/failure"
	"bengkel/shared/timezone"
	"bengkel/shared/transaction"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type Escrow interface {
	Hold(ctx context.Context, bookingID string, req dto.HoldRequest) (dto.TransactionResponse, error)
	Release(ctx context.Context, bookingID string) (dto.TransactionResponse, error)
	Refund(ctx context.Context, bookingID string) (dto.TransactionResponse, error)
	GetByBooking(ctx context.Context, bookingID string) (dto.TransactionResponse, error)
}

type serviceImpl struct {
	repo       repository.Transaction
	bookings   bookingService.Lifecycle
	ledger     walletService.Ledger
	transactor transaction.Transactor
	publisher  event.Publisher
	otel       otel.Otel
}

func New(
	repo repository.Transaction,
	bookings bookingService.Lifecycle,
	ledger walletService.Ledger,
	transactor transaction.Transactor,
	publisher event.Publisher,
	otel otel.Otel,
) Escrow {
	return &serviceImpl{
		repo:       repo,
		bookings:   bookings,
		ledger:     ledger,
		transactor: transactor,
		publisher:  publisher,
		otel:       otel,
	}
}

func (s *serviceImpl) Hold(ctx context.Context, bookingID string, req dto.HoldRequest) (res dto.TransactionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".transaction.Hold")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !req.Amount.IsPositive() {
		return res, failure.BadRequestFromString("amount must be greater than zero") //nolint:wrapcheck
	}

	user, _ := shared.Actor(ctx)
	escrow := req.ToModel(bookingID, user)

	err = s.transactor.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		booking, err := s.bookings.LockTx(ctx, tx, bookingID)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if err := s.bookings.AuthorizeWrite(ctx, booking); err != nil {
			return err //nolint:wrapcheck
		}

		exist, err := s.repo.ExistTx(ctx, tx, shared.FilterByID(bookingID, model.FieldBookingID, model.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to check existing transaction")

			return fmt.Errorf("failed to check existing transaction: %w", err)
		}

		if exist {
			return failure.Conflict("transaction already exists for this booking") //nolint:wrapcheck
		}

		if err := s.repo.InsertTx(ctx, tx, escrow); err != nil {
			log.Error().Err(err).Msg("failed to hold escrow")

			return fmt.Errorf("failed to hold escrow: %w", err)
		}

		return nil
	})
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	res.FromModel(escrow)

	s.publisher.Publish(ctx, event.New(bookingID, event.EscrowHeld, res))

	return res, nil
}

func (s *serviceImpl) Release(ctx context.Context, bookingID string) (res dto.TransactionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".transaction.Release")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	var escrow model.Transaction

	err = s.transactor.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		booking, err := s.bookings.LockTx(ctx, tx, bookingID)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if err := s.bookings.AuthorizeWrite(ctx, booking); err != nil {
			return err //nolint:wrapcheck
		}

		escrow, err = s.lockHeldTx(ctx, tx, bookingID)
		if err != nil {
			return err
		}

		mechanicID := booking.AssignedMechanic()
		if mechanicID == constant.Empty {
			return failure.InvalidState("booking has no assigned mechanic") //nolint:wrapcheck
		}

		wallet, err := s.ledger.EnsureWalletTx(ctx, tx, mechanicID)
		if err != nil {
			return err //nolint:wrapcheck
		}

		_, err = s.ledger.CreditTx(ctx, tx, walletDto.Posting{
			WalletID:      wallet.ID,
			Amount:        escrow.MechanicEarnings,
			Description:   "Earnings from booking #" + shortID(bookingID),
			ReferenceType: constant.ReferenceTypeBooking,
			ReferenceID:   bookingID,
		})
		if err != nil {
			return err //nolint:wrapcheck
		}

		now := timezone.Now()
		escrow.Status = model.StatusReleased
		escrow.EscrowReleasedAt = &now

		return s.settleTx(ctx, tx, escrow, model.FieldEscrowReleasedAt, now)
	})
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	res.FromModel(escrow)

	s.publisher.Publish(ctx, event.New(bookingID, event.EscrowReleased, res))

	return res, nil
}

func (s *serviceImpl) Refund(ctx context.Context, bookingID string) (res dto.TransactionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".transaction.Refund")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	var escrow model.Transaction

	err = s.transactor.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		booking, err := s.bookings.LockTx(ctx, tx, bookingID)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if err := s.bookings.AuthorizeWrite(ctx, booking); err != nil {
			return err //nolint:wrapcheck
		}

		escrow, err = s.lockHeldTx(ctx, tx, bookingID)
		if err != nil {
			return err
		}

		now := timezone.Now()
		escrow.Status = model.StatusRefunded
		escrow.RefundedAt = &now

		return s.settleTx(ctx, tx, escrow, model.FieldRefundedAt, now)
	})
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	res.FromModel(escrow)

	s.publisher.Publish(ctx, event.New(bookingID, event.EscrowRefunded, res))

	return res, nil
}

func (s *serviceImpl) GetByBooking(ctx context.Context, bookingID string) (res dto.TransactionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".transaction.GetByBooking")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if _, err = s.bookings.Get(ctx, bookingID); err != nil {
		return res, err //nolint:wrapcheck
	}

	escrow, err := s.repo.Get(ctx, shared.FilterByID(bookingID, model.FieldBookingID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get transaction")

		return res, fmt.Errorf("failed to get transaction: %w", err)
	}

	if escrow.ID == constant.Empty {
		return res, failure.NotFound("transaction not found") //nolint:wrapcheck
	}

	res.FromModel(escrow)

	return res, nil
}

// lockHeldTx locks the booking's escrow row and checks that funds are still held.
func (s *serviceImpl) lockHeldTx(ctx context.Context, sqltx *sqlx.Tx, bookingID string) (model.Transaction, error) {
	escrow, err := s.repo.GetForUpdateTx(ctx, sqltx, shared.FilterByID(bookingID, model.FieldBookingID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to lock transaction")

		return escrow, fmt.Errorf("failed to lock transaction: %w", err)
	}

	if escrow.ID == constant.Empty {
		return escrow, failure.NotFound("transaction not found") //nolint:wrapcheck
	}

	if escrow.Status != model.StatusHeld {
		return escrow, failure.InvalidState(fmt.Sprintf("transaction is %s, not held", escrow.Status)) //nolint:wrapcheck
	}

	return escrow, nil
}

func (s *serviceImpl) settleTx(ctx context.Context, sqltx *sqlx.Tx, escrow model.Transaction, stampField string, now time.Time) error {
	user, _ := shared.Actor(ctx)

	err := s.repo.UpdateTx(ctx, sqltx, map[string]any{
		model.FieldStatus:        escrow.Status,
		stampField:               now,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: user,
	}, shared.FilterByID(escrow.ID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to update transaction status")

		return fmt.Errorf("failed to update transaction status: %w", err)
	}

	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}

	return id
}
