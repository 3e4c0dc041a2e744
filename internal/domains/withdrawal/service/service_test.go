package service_test

import (
	"context"
	"net/http"
	"testing"

	otelMocks "bengkel/infras/otel/mocks"
	walletMocks "bengkel/internal/domains/wallet/mocks"
	walletModel "bengkel/internal/domains/wallet/model"
	walletDto "bengkel/internal/domains/wallet/model/dto"
	"bengkel/internal/domains/withdrawal/mocks"
	"bengkel/internal/domains/withdrawal/model"
	"bengkel/internal/domains/withdrawal/model/dto"
	"bengkel/internal/domains/withdrawal/service"
	"bengkel/shared"
	"bengkel/shared/constant"
	gDto "bengkel/shared/dto"
	eventMocks "bengkel/shared/event/mocks"
	"bengkel/shared/failure"
	txMocks "bengkel/shared/transaction/mocks"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

const withdrawalID = "9a8b7c6d-1111-2222-3333-444455556666"

type fixture struct {
	repo       *mocks.MockWithdrawal
	ledger     *walletMocks.MockLedger
	transactor *txMocks.MockTransactor
	publisher  *eventMocks.MockPublisher
	svc        service.Payout
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:       mocks.NewMockWithdrawal(ctrl),
		ledger:     walletMocks.NewMockLedger(ctrl),
		transactor: txMocks.NewMockTransactor(ctrl),
		publisher:  eventMocks.NewMockPublisher(ctrl),
	}

	f.svc = service.New(f.repo, f.ledger, f.transactor, f.publisher, otelMocks.NewOtel())

	return f
}

func mechanicCtx() context.Context {
	return shared.WithActor(context.Background(), "user-1", constant.RoleMechanic)
}

func adminCtx() context.Context {
	return shared.WithActor(context.Background(), "admin-1", constant.RoleAdmin)
}

func TestPayoutService_Request(t *testing.T) {
	req := dto.RequestWithdrawal{
		Amount:            decimal.NewFromInt(50000),
		BankName:          "BCA",
		BankAccountNumber: "1234567890",
		BankAccountName:   "Budi",
	}

	tests := []struct {
		name      string
		req       dto.RequestWithdrawal
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "pending request",
			req:  req,
			setupMock: func(f fixture) {
				f.ledger.EXPECT().GetWallet(gomock.Any()).Return(walletDto.WalletResponse{ID: "w-1", Balance: decimal.NewFromInt(90000)}, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, w model.Withdrawal) error {
					assert.Equal(t, "w-1", w.WalletID)
					assert.Equal(t, model.StatusPending, w.Status)

					return nil
				})
			},
		},
		{
			name: "more than the balance",
			req:  req,
			setupMock: func(f fixture) {
				f.ledger.EXPECT().GetWallet(gomock.Any()).Return(walletDto.WalletResponse{ID: "w-1", Balance: decimal.NewFromInt(10000)}, nil)
			},
			wantCode: http.StatusPaymentRequired,
		},
		{
			name: "no wallet yet",
			req:  req,
			setupMock: func(f fixture) {
				f.ledger.EXPECT().GetWallet(gomock.Any()).Return(walletDto.WalletResponse{}, failure.NotFound("wallet not found"))
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:      "negative amount",
			req:       dto.RequestWithdrawal{Amount: decimal.NewFromInt(-1)},
			setupMock: func(fixture) {},
			wantCode:  http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Request(mechanicCtx(), tt.req)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, model.StatusPending, res.Status)
		})
	}
}

func TestPayoutService_Process(t *testing.T) {
	withdrawal := func(status string) model.Withdrawal {
		return model.Withdrawal{ID: withdrawalID, WalletID: "w-1", Amount: decimal.NewFromInt(50000), Status: status}
	}

	tests := []struct {
		name      string
		current   model.Withdrawal
		req       dto.ProcessRequest
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name:    "pending to processing leaves the wallet alone",
			current: withdrawal(model.StatusPending),
			req:     dto.ProcessRequest{Status: model.StatusProcessing},
			setupMock: func(f fixture) {
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any())
			},
		},
		{
			name:    "processing to completed debits the wallet",
			current: withdrawal(model.StatusProcessing),
			req:     dto.ProcessRequest{Status: model.StatusCompleted},
			setupMock: func(f fixture) {
				f.ledger.EXPECT().DebitTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, _ *sqlx.Tx, posting walletDto.Posting) (walletModel.Entry, error) {
						assert.Equal(t, "w-1", posting.WalletID)
						assert.True(t, posting.Amount.Equal(decimal.NewFromInt(50000)))
						assert.Equal(t, "Withdrawal #9a8b7c6d", posting.Description)
						assert.Equal(t, constant.ReferenceTypeWithdrawal, posting.ReferenceType)
						assert.Equal(t, withdrawalID, posting.ReferenceID)

						return walletModel.Entry{}, nil
					})
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, model.StatusCompleted, fields[model.FieldStatus])
						assert.NotContains(t, fields, model.FieldRejectionReason)

						return nil
					})
				f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any())
			},
		},
		{
			name:    "pending straight to completed",
			current: withdrawal(model.StatusPending),
			req:     dto.ProcessRequest{Status: model.StatusCompleted},
			setupMock: func(f fixture) {
				f.ledger.EXPECT().DebitTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(walletModel.Entry{}, nil)
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any())
			},
		},
		{
			name:    "balance drained since the request",
			current: withdrawal(model.StatusPending),
			req:     dto.ProcessRequest{Status: model.StatusCompleted},
			setupMock: func(f fixture) {
				f.ledger.EXPECT().DebitTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(walletModel.Entry{}, failure.InsufficientFunds("insufficient wallet balance"))
			},
			wantCode: http.StatusPaymentRequired,
		},
		{
			name:    "rejected with a reason",
			current: withdrawal(model.StatusPending),
			req:     dto.ProcessRequest{Status: model.StatusRejected, RejectionReason: "account name mismatch"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
						reason, _ := fields[model.FieldRejectionReason].(*string)
						assert.Equal(t, "account name mismatch", *reason)

						return nil
					})
				f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any())
			},
		},
		{
			name:     "processing cannot be rejected",
			current:  withdrawal(model.StatusProcessing),
			req:      dto.ProcessRequest{Status: model.StatusRejected},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "completed is terminal",
			current:  withdrawal(model.StatusCompleted),
			req:      dto.ProcessRequest{Status: model.StatusCompleted},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "unknown withdrawal",
			current:  model.Withdrawal{},
			req:      dto.ProcessRequest{Status: model.StatusCompleted},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			txMocks.ExpectWithinTx(f.transactor)
			f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.current, nil)

			if tt.setupMock != nil {
				tt.setupMock(f)
			}

			res, err := f.svc.Process(adminCtx(), withdrawalID, tt.req)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.req.Status, res.Status)
			assert.NotNil(t, res.ProcessedAt)
			assert.Equal(t, "admin-1", *res.ProcessedBy)
		})
	}
}

func TestPayoutService_Process_Guards(t *testing.T) {
	t.Run("mechanic cannot process", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Process(mechanicCtx(), withdrawalID, dto.ProcessRequest{Status: model.StatusCompleted})

		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("pending is not a processing outcome", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Process(adminCtx(), withdrawalID, dto.ProcessRequest{Status: model.StatusPending})

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestPayoutService_Process_TracesReturnedError(t *testing.T) {
	span := constant.OtelServiceScopeName + ".withdrawal.Process"

	t.Run("guard failure", func(t *testing.T) {
		f := newFixture(t)
		recorder := otelMocks.NewRecorder()
		svc := service.New(f.repo, f.ledger, f.transactor, f.publisher, recorder)

		_, err := svc.Process(mechanicCtx(), withdrawalID, dto.ProcessRequest{Status: model.StatusCompleted})

		assert.Error(t, err)
		assert.Equal(t, []error{err}, recorder.Errors(span))
	})

	t.Run("failure inside the transaction", func(t *testing.T) {
		f := newFixture(t)
		recorder := otelMocks.NewRecorder()
		svc := service.New(f.repo, f.ledger, f.transactor, f.publisher, recorder)

		txMocks.ExpectWithinTx(f.transactor)
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Withdrawal{}, nil)

		_, err := svc.Process(adminCtx(), withdrawalID, dto.ProcessRequest{Status: model.StatusCompleted})

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
		assert.Equal(t, []error{err}, recorder.Errors(span))
	})
}

func TestPayoutService_GetAll(t *testing.T) {
	t.Run("mechanic sees own wallet only", func(t *testing.T) {
		f := newFixture(t)
		f.ledger.EXPECT().GetWallet(gomock.Any()).Return(walletDto.WalletResponse{ID: "w-1"}, nil)
		f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
			_, args := filter.GetWhereClause()
			assert.Equal(t, "w-1", args[model.FieldWalletID])

			return 1, nil
		})
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Withdrawal{{ID: withdrawalID}}, nil)

		res, err := f.svc.GetAll(mechanicCtx(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})

		assert.NoError(t, err)
		assert.Equal(t, 1, res.TotalData)
		assert.Len(t, res.Withdrawals, 1)
	})

	t.Run("admin sees everything", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Withdrawal, error) {
				assert.Equal(t, constant.FieldCreatedAt, params.SortBy)
				assert.Equal(t, gDto.SortDirDesc, params.SortDir)

				return nil, nil
			})

		res, err := f.svc.GetAll(adminCtx(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})

		assert.NoError(t, err)
		assert.Empty(t, res.Withdrawals)
	})

	t.Run("sort_by outside the whitelist never reaches the query", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Withdrawal, error) {
				assert.Equal(t, constant.FieldCreatedAt, params.SortBy)
				assert.Equal(t, gDto.SortDirAsc, params.SortDir)

				return nil, nil
			})

		req := gDto.QueryParams{Page: 1, Limit: 10, SortBy: "amount; DROP TABLE withdrawals--", SortDir: gDto.SortDirAsc}
		_, err := f.svc.GetAll(adminCtx(), req, gDto.FilterGroup{})

		assert.NoError(t, err)
	})
}
