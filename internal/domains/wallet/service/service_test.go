package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	otelMocks "bengkel/infras/otel/mocks"
	mechanicMocks "bengkel/internal/domains/mechanic/mocks"
	mechanicModel "bengkel/internal/domains/mechanic/model"
	"bengkel/internal/domains/wallet/mocks"
	"bengkel/internal/domains/wallet/model"
	"bengkel/internal/domains/wallet/model/dto"
	"bengkel/internal/domains/wallet/service"
	"bengkel/shared"
	"bengkel/shared/constant"
	gDto "bengkel/shared/dto"
	"bengkel/shared/failure"
	txMocks "bengkel/shared/transaction/mocks"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	repo         *mocks.MockWallet
	entryRepo    *mocks.MockEntry
	mechanicRepo *mechanicMocks.MockMechanic
	transactor   *txMocks.MockTransactor
	svc          service.Ledger
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:         mocks.NewMockWallet(ctrl),
		entryRepo:    mocks.NewMockEntry(ctrl),
		mechanicRepo: mechanicMocks.NewMockMechanic(ctrl),
		transactor:   txMocks.NewMockTransactor(ctrl),
	}

	f.svc = service.New(f.repo, f.entryRepo, f.mechanicRepo, f.transactor, otelMocks.NewOtel())

	return f
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func TestLedgerService_Credit(t *testing.T) {
	f := newFixture(t)

	wallet := model.Wallet{ID: "w-1", Balance: dec(10000), TotalEarnings: dec(10000)}

	txMocks.ExpectWithinTx(f.transactor)
	f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(wallet, nil)
	f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
			assert.True(t, fields[model.FieldBalance].(decimal.Decimal).Equal(dec(100000)))
			assert.True(t, fields[model.FieldTotalEarnings].(decimal.Decimal).Equal(dec(100000)))
			assert.True(t, fields[model.FieldTotalWithdrawn].(decimal.Decimal).IsZero())

			return nil
		})
	f.entryRepo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *sqlx.Tx, entry model.Entry) error {
			assert.Equal(t, model.EntryTypeCredit, entry.Type)
			assert.Equal(t, "w-1", entry.WalletID)
			assert.Equal(t, constant.ReferenceTypeBooking, *entry.ReferenceType)

			return nil
		})

	res, err := f.svc.Credit(context.Background(), dto.Posting{
		WalletID:      "w-1",
		Amount:        dec(90000),
		Description:   "Earnings from booking #abcd1234",
		ReferenceType: constant.ReferenceTypeBooking,
		ReferenceID:   "b-1",
	})

	assert.NoError(t, err)
	assert.True(t, res.BalanceAfter.Equal(dec(100000)))
	assert.True(t, res.Amount.Equal(dec(90000)))
}

func TestLedgerService_Debit(t *testing.T) {
	tests := []struct {
		name      string
		amount    decimal.Decimal
		wallet    model.Wallet
		expectTx  bool
		expectMut bool
		wantCode  int
		wantAfter decimal.Decimal
	}{
		{
			name:      "debits within balance",
			amount:    dec(20000),
			wallet:    model.Wallet{ID: "w-1", Balance: dec(50000), TotalEarnings: dec(50000)},
			expectTx:  true,
			expectMut: true,
			wantAfter: dec(30000),
		},
		{
			name:     "insufficient funds leaves the wallet untouched",
			amount:   dec(70000),
			wallet:   model.Wallet{ID: "w-1", Balance: dec(50000), TotalEarnings: dec(50000)},
			expectTx: true,
			wantCode: http.StatusPaymentRequired,
		},
		{
			name:     "missing wallet",
			amount:   dec(1000),
			wallet:   model.Wallet{},
			expectTx: true,
			wantCode: http.StatusNotFound,
		},
		{
			name:     "non positive amount",
			amount:   decimal.Zero,
			expectTx: true,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			if tt.expectTx {
				txMocks.ExpectWithinTx(f.transactor)
			}

			if tt.amount.IsPositive() {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.wallet, nil)
			}

			if tt.expectMut {
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
						assert.True(t, fields[model.FieldTotalWithdrawn].(decimal.Decimal).Equal(tt.amount))

						return nil
					})
				f.entryRepo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			}

			res, err := f.svc.Debit(context.Background(), dto.Posting{WalletID: "w-1", Amount: tt.amount})

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, model.EntryTypeDebit, res.Type)
			assert.True(t, res.BalanceAfter.Equal(tt.wantAfter))
		})
	}
}

func TestLedgerService_EnsureWalletTx(t *testing.T) {
	t.Run("existing wallet", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Wallet{ID: "w-1", MechanicID: "mech-1"}, nil)

		wallet, err := f.svc.EnsureWalletTx(context.Background(), nil, "mech-1")

		assert.NoError(t, err)
		assert.Equal(t, "w-1", wallet.ID)
	})

	t.Run("creates an empty wallet", func(t *testing.T) {
		f := newFixture(t)

		gomock.InOrder(
			f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Wallet{}, nil),
			f.repo.EXPECT().InsertIfAbsentTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, _ *sqlx.Tx, wallet model.Wallet) error {
					assert.Equal(t, "mech-1", wallet.MechanicID)
					assert.True(t, wallet.Balance.IsZero())

					return nil
				}),
			f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Wallet{ID: "w-new", MechanicID: "mech-1"}, nil),
		)

		wallet, err := f.svc.EnsureWalletTx(context.Background(), nil, "mech-1")

		assert.NoError(t, err)
		assert.Equal(t, "w-new", wallet.ID)
	})

	t.Run("lock fails", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Wallet{}, errors.New("db down"))

		_, err := f.svc.EnsureWalletTx(context.Background(), nil, "mech-1")

		assert.Error(t, err)
	})
}

func TestLedgerService_GetTransactions(t *testing.T) {
	f := newFixture(t)
	ctx := shared.WithActor(context.Background(), "mech-user", constant.RoleMechanic)

	f.mechanicRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(mechanicModel.Mechanic{ID: "mech-1"}, nil)
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Wallet{ID: "w-1", MechanicID: "mech-1"}, nil)
	f.entryRepo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil)
	f.entryRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Entry, error) {
			assert.Equal(t, model.EntryFieldCreatedAt, params.SortBy)
			assert.Equal(t, gDto.SortDirDesc, params.SortDir)

			return []model.Entry{{ID: "e-2"}, {ID: "e-1"}}, nil
		})

	res, err := f.svc.GetTransactions(ctx, gDto.QueryParams{Page: 1, Limit: 10})

	assert.NoError(t, err)
	assert.Len(t, res.Transactions, 2)
	assert.Equal(t, "e-2", res.Transactions[0].ID)
}
