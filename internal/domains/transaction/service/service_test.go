package service_test

import (
	"context"
	"net/http"
	"testing"

	otelMocks "bengkel/infras/otel/mocks"
	bookingMocks "bengkel/internal/domains/booking/mocks"
	bookingModel "bengkel/internal/domains/booking/model"
	bookingDto "bengkel/internal/domains/booking/model/dto"
	"bengkel/internal/domains/transaction/mocks"
	"bengkel/internal/domains/transaction/model"
	"bengkel/internal/domains/transaction/model/dto"
	"bengkel/internal/domains/transaction/service"
	walletMocks "bengkel/internal/domains/wallet/mocks"
	walletModel "bengkel/internal/domains/wallet/model"
	walletDto "bengkel/internal/domains/wallet/model/dto"
	"bengkel/shared"
	"bengkel/shared/constant"
	gDto "bengkel/shared/dto"
	"bengkel/shared/event"
	eventMocks "bengkel/shared/event/mocks"
	"bengkel/shared/failure"
	txMocks "bengkel/shared/transaction/mocks"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

const bookingID = "5f0c7d1e-8a43-4b8e-9f6a-1c2d3e4f5a6b"

type fixture struct {
	repo       *mocks.MockTransaction
	bookings   *bookingMocks.MockLifecycle
	ledger     *walletMocks.MockLedger
	transactor *txMocks.MockTransactor
	publisher  *eventMocks.MockPublisher
	svc        service.Escrow
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:       mocks.NewMockTransaction(ctrl),
		bookings:   bookingMocks.NewMockLifecycle(ctrl),
		ledger:     walletMocks.NewMockLedger(ctrl),
		transactor: txMocks.NewMockTransactor(ctrl),
		publisher:  eventMocks.NewMockPublisher(ctrl),
	}

	f.svc = service.New(f.repo, f.bookings, f.ledger, f.transactor, f.publisher, otelMocks.NewOtel())

	return f
}

func systemCtx() context.Context {
	return shared.WithActor(context.Background(), "", constant.RoleSystem)
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func TestEscrowService_Hold(t *testing.T) {
	booking := bookingModel.Booking{ID: bookingID, EstimatedPrice: decimal.NewNullDecimal(dec(100000))}

	tests := []struct {
		name      string
		amount    decimal.Decimal
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name:   "holds with fee split",
			amount: dec(100000),
			setupMock: func(f fixture) {
				txMocks.ExpectWithinTx(f.transactor)
				f.bookings.EXPECT().LockTx(gomock.Any(), gomock.Any(), bookingID).Return(booking, nil)
				f.bookings.EXPECT().AuthorizeWrite(gomock.Any(), booking).Return(nil)
				f.repo.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Do(func(_ context.Context, events ...event.Event) {
					assert.Equal(t, event.EscrowHeld, events[0].Type)
				})
			},
		},
		{
			name:   "second hold conflicts",
			amount: dec(100000),
			setupMock: func(f fixture) {
				txMocks.ExpectWithinTx(f.transactor)
				f.bookings.EXPECT().LockTx(gomock.Any(), gomock.Any(), bookingID).Return(booking, nil)
				f.bookings.EXPECT().AuthorizeWrite(gomock.Any(), booking).Return(nil)
				f.repo.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name:   "unique index race conflicts",
			amount: dec(100000),
			setupMock: func(f fixture) {
				txMocks.ExpectWithinTx(f.transactor)
				f.bookings.EXPECT().LockTx(gomock.Any(), gomock.Any(), bookingID).Return(booking, nil)
				f.bookings.EXPECT().AuthorizeWrite(gomock.Any(), booking).Return(nil)
				f.repo.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(failure.Conflict("transaction already exists"))
			},
			wantCode: http.StatusConflict,
		},
		{
			name:   "booking missing",
			amount: dec(100000),
			setupMock: func(f fixture) {
				txMocks.ExpectWithinTx(f.transactor)
				f.bookings.EXPECT().LockTx(gomock.Any(), gomock.Any(), bookingID).Return(bookingModel.Booking{}, failure.NotFound("booking not found"))
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:      "zero amount",
			amount:    decimal.Zero,
			setupMock: func(fixture) {},
			wantCode:  http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Hold(systemCtx(), bookingID, dto.HoldRequest{Amount: tt.amount, PaymentMethod: "transfer"})

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, model.StatusHeld, res.Status)
			assert.True(t, res.Amount.Equal(dec(100000)))
			assert.True(t, res.PlatformFee.Equal(dec(10000)))
			assert.True(t, res.MechanicEarnings.Equal(dec(90000)))
			assert.NotNil(t, res.EscrowHeldAt)
		})
	}
}

func TestEscrowService_Release(t *testing.T) {
	mechanicID := "mech-1"
	assigned := bookingModel.Booking{ID: bookingID, MechanicID: &mechanicID, Status: bookingModel.StatusCompleted}
	held := model.Transaction{
		ID:               "tx-1",
		BookingID:        bookingID,
		Amount:           dec(100000),
		PlatformFee:      dec(10000),
		MechanicEarnings: dec(90000),
		Status:           model.StatusHeld,
	}

	tests := []struct {
		name      string
		booking   bookingModel.Booking
		escrow    model.Transaction
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name:    "credits the mechanic and releases",
			booking: assigned,
			escrow:  held,
			setupMock: func(f fixture) {
				f.ledger.EXPECT().EnsureWalletTx(gomock.Any(), gomock.Any(), mechanicID).Return(walletModel.Wallet{ID: "w-1"}, nil)
				f.ledger.EXPECT().CreditTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, _ *sqlx.Tx, posting walletDto.Posting) (walletModel.Entry, error) {
						assert.Equal(t, "w-1", posting.WalletID)
						assert.True(t, posting.Amount.Equal(dec(90000)))
						assert.Equal(t, "Earnings from booking #5f0c7d1e", posting.Description)
						assert.Equal(t, constant.ReferenceTypeBooking, posting.ReferenceType)
						assert.Equal(t, bookingID, posting.ReferenceID)

						return walletModel.Entry{ID: "e-1"}, nil
					})
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, model.StatusReleased, fields[model.FieldStatus])
						assert.Contains(t, fields, model.FieldEscrowReleasedAt)

						return nil
					})
				f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any())
			},
		},
		{
			name:     "already released",
			booking:  assigned,
			escrow:   model.Transaction{ID: "tx-1", Status: model.StatusReleased},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "refunded",
			booking:  assigned,
			escrow:   model.Transaction{ID: "tx-1", Status: model.StatusRefunded},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "pending",
			booking:  assigned,
			escrow:   model.Transaction{ID: "tx-1", Status: model.StatusPending},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "no transaction",
			booking:  assigned,
			escrow:   model.Transaction{},
			wantCode: http.StatusNotFound,
		},
		{
			name:     "no mechanic",
			booking:  bookingModel.Booking{ID: bookingID, Status: bookingModel.StatusCompleted},
			escrow:   held,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:    "ledger failure rolls back",
			booking: assigned,
			escrow:  held,
			setupMock: func(f fixture) {
				f.ledger.EXPECT().EnsureWalletTx(gomock.Any(), gomock.Any(), mechanicID).Return(walletModel.Wallet{ID: "w-1"}, nil)
				f.ledger.EXPECT().CreditTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(walletModel.Entry{}, failure.NotFound("wallet not found"))
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			txMocks.ExpectWithinTx(f.transactor)
			f.bookings.EXPECT().LockTx(gomock.Any(), gomock.Any(), bookingID).Return(tt.booking, nil)
			f.bookings.EXPECT().AuthorizeWrite(gomock.Any(), gomock.Any()).Return(nil)
			f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.escrow, nil)

			if tt.setupMock != nil {
				tt.setupMock(f)
			}

			res, err := f.svc.Release(systemCtx(), bookingID)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, model.StatusReleased, res.Status)
			assert.NotNil(t, res.EscrowReleasedAt)
		})
	}
}

func TestEscrowService_Refund(t *testing.T) {
	booking := bookingModel.Booking{ID: bookingID, Status: bookingModel.StatusCancelled}

	t.Run("refunds held funds", func(t *testing.T) {
		f := newFixture(t)
		txMocks.ExpectWithinTx(f.transactor)
		f.bookings.EXPECT().LockTx(gomock.Any(), gomock.Any(), bookingID).Return(booking, nil)
		f.bookings.EXPECT().AuthorizeWrite(gomock.Any(), booking).Return(nil)
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Transaction{ID: "tx-1", Status: model.StatusHeld}, nil)
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, model.StatusRefunded, fields[model.FieldStatus])

				return nil
			})
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any())

		res, err := f.svc.Refund(systemCtx(), bookingID)

		assert.NoError(t, err)
		assert.Equal(t, model.StatusRefunded, res.Status)
		assert.NotNil(t, res.RefundedAt)
	})

	t.Run("released funds cannot be refunded", func(t *testing.T) {
		f := newFixture(t)
		txMocks.ExpectWithinTx(f.transactor)
		f.bookings.EXPECT().LockTx(gomock.Any(), gomock.Any(), bookingID).Return(booking, nil)
		f.bookings.EXPECT().AuthorizeWrite(gomock.Any(), booking).Return(nil)
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Transaction{ID: "tx-1", Status: model.StatusReleased}, nil)

		_, err := f.svc.Refund(systemCtx(), bookingID)

		assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
	})
}

func TestEscrowService_Release_RequiresWriteAccess(t *testing.T) {
	f := newFixture(t)
	booking := bookingModel.Booking{ID: bookingID, UserID: "customer-1", Status: bookingModel.StatusCompleted}
	stranger := shared.WithActor(context.Background(), "random-mechanic-user", constant.RoleMechanic)

	txMocks.ExpectWithinTx(f.transactor)
	f.bookings.EXPECT().LockTx(gomock.Any(), gomock.Any(), bookingID).Return(booking, nil)
	f.bookings.EXPECT().AuthorizeWrite(gomock.Any(), booking).Return(failure.Forbidden("you do not have access to this booking"))

	_, err := f.svc.Release(stranger, bookingID)

	assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
}

func TestEscrowService_GetByBooking(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		f := newFixture(t)
		f.bookings.EXPECT().Get(gomock.Any(), bookingID).Return(bookingDto.BookingResponse{ID: bookingID}, nil)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Transaction{ID: "tx-1", BookingID: bookingID, Status: model.StatusHeld}, nil)

		res, err := f.svc.GetByBooking(systemCtx(), bookingID)

		assert.NoError(t, err)
		assert.Equal(t, "tx-1", res.ID)
	})

	t.Run("forbidden booking", func(t *testing.T) {
		f := newFixture(t)
		f.bookings.EXPECT().Get(gomock.Any(), bookingID).Return(bookingDto.BookingResponse{}, failure.Forbidden("no"))

		_, err := f.svc.GetByBooking(systemCtx(), bookingID)

		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("no transaction", func(t *testing.T) {
		f := newFixture(t)
		f.bookings.EXPECT().Get(gomock.Any(), bookingID).Return(bookingDto.BookingResponse{ID: bookingID}, nil)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Transaction{}, nil)

		_, err := f.svc.GetByBooking(systemCtx(), bookingID)

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}
