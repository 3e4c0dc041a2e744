package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	otelMocks "bengkel/infras/otel/mocks"
	bookingMocks "bengkel/internal/domains/booking/mocks"
	bookingModel "bengkel/internal/domains/booking/model"
	mechanicMocks "bengkel/internal/domains/mechanic/mocks"
	mechanicModel "bengkel/internal/domains/mechanic/model"
	"bengkel/internal/domains/review/mocks"
	"bengkel/internal/domains/review/model"
	"bengkel/internal/domains/review/model/dto"
	"bengkel/internal/domains/review/service"
	workshopMocks "bengkel/internal/domains/workshop/mocks"
	workshopModel "bengkel/internal/domains/workshop/model"
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

const (
	bookingID  = "5f0c7d1e-aaaa-bbbb-cccc-000000000001"
	mechanicID = "m-1"
	workshopID = "ws-1"
	customerID = "user-1"
)

type fixture struct {
	repo         *mocks.MockReview
	bookings     *bookingMocks.MockLifecycle
	mechanicRepo *mechanicMocks.MockMechanic
	workshopRepo *workshopMocks.MockWorkshop
	transactor   *txMocks.MockTransactor
	svc          service.Reviewer
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:         mocks.NewMockReview(ctrl),
		bookings:     bookingMocks.NewMockLifecycle(ctrl),
		mechanicRepo: mechanicMocks.NewMockMechanic(ctrl),
		workshopRepo: workshopMocks.NewMockWorkshop(ctrl),
		transactor:   txMocks.NewMockTransactor(ctrl),
	}

	f.svc = service.New(f.repo, f.bookings, f.mechanicRepo, f.workshopRepo, f.transactor, otelMocks.NewOtel())

	return f
}

func customerCtx() context.Context {
	return shared.WithActor(context.Background(), customerID, constant.RoleUser)
}

func booking(status bookingModel.Status, mechanic, workshop *string) bookingModel.Booking {
	return bookingModel.Booking{ID: bookingID, UserID: customerID, MechanicID: mechanic, WorkshopID: workshop, Status: status}
}

func ptr(s string) *string { return &s }

func TestReviewerService_Create(t *testing.T) {
	req := dto.CreateReviewRequest{BookingID: bookingID, Rating: 4, Comment: "Fast and tidy"}

	tests := []struct {
		name      string
		req       dto.CreateReviewRequest
		setupMock func(f fixture)
		wantCode  int
		wantErr   bool
	}{
		{
			name: "mechanic rating recalculated",
			req:  req,
			setupMock: func(f fixture) {
				txMocks.ExpectWithinTx(f.transactor)
				f.bookings.EXPECT().LockTx(gomock.Any(), gomock.Any(), bookingID).Return(booking(bookingModel.StatusCompleted, ptr(mechanicID), nil), nil)
				f.repo.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _ *sqlx.Tx, r model.Review) error {
					assert.Equal(t, customerID, r.UserID)
					assert.Equal(t, mechanicID, *r.MechanicID)
					assert.Nil(t, r.WorkshopID)
					assert.Equal(t, 4, r.Rating)

					return nil
				})
				f.mechanicRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(mechanicModel.Mechanic{ID: mechanicID}, nil)
				f.repo.EXPECT().StatsTx(gomock.Any(), gomock.Any(), model.FieldMechanicID, mechanicID).
					Return(model.Stats{Average: decimal.RequireFromString("4.3333333333"), Total: 3}, nil)
				f.mechanicRepo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, "4.33", fields[mechanicModel.FieldRating].(decimal.Decimal).String())
						assert.Equal(t, 3, fields[mechanicModel.FieldTotalReviews])

						return nil
					})
			},
		},
		{
			name: "workshop rating recalculated",
			req:  req,
			setupMock: func(f fixture) {
				txMocks.ExpectWithinTx(f.transactor)
				f.bookings.EXPECT().LockTx(gomock.Any(), gomock.Any(), bookingID).Return(booking(bookingModel.StatusCompleted, nil, ptr(workshopID)), nil)
				f.repo.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.workshopRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(workshopModel.Workshop{ID: workshopID}, nil)
				f.repo.EXPECT().StatsTx(gomock.Any(), gomock.Any(), model.FieldWorkshopID, workshopID).
					Return(model.Stats{Average: decimal.NewFromInt(5), Total: 1}, nil)
				f.workshopRepo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, 1, fields[workshopModel.FieldTotalReviews])

						return nil
					})
			},
		},
		{
			name: "booking not completed",
			req:  req,
			setupMock: func(f fixture) {
				txMocks.ExpectWithinTx(f.transactor)
				f.bookings.EXPECT().LockTx(gomock.Any(), gomock.Any(), bookingID).Return(booking(bookingModel.StatusInProgress, ptr(mechanicID), nil), nil)
			},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name: "someone else's booking",
			req:  req,
			setupMock: func(f fixture) {
				txMocks.ExpectWithinTx(f.transactor)
				other := booking(bookingModel.StatusCompleted, ptr(mechanicID), nil)
				other.UserID = "user-2"
				f.bookings.EXPECT().LockTx(gomock.Any(), gomock.Any(), bookingID).Return(other, nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name: "already reviewed",
			req:  req,
			setupMock: func(f fixture) {
				txMocks.ExpectWithinTx(f.transactor)
				f.bookings.EXPECT().LockTx(gomock.Any(), gomock.Any(), bookingID).Return(booking(bookingModel.StatusCompleted, ptr(mechanicID), nil), nil)
				f.repo.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "booking not found",
			req:  req,
			setupMock: func(f fixture) {
				txMocks.ExpectWithinTx(f.transactor)
				f.bookings.EXPECT().LockTx(gomock.Any(), gomock.Any(), bookingID).Return(bookingModel.Booking{}, failure.NotFound("booking not found"))
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "stats failure rolls back",
			req:  req,
			setupMock: func(f fixture) {
				txMocks.ExpectWithinTx(f.transactor)
				f.bookings.EXPECT().LockTx(gomock.Any(), gomock.Any(), bookingID).Return(booking(bookingModel.StatusCompleted, ptr(mechanicID), nil), nil)
				f.repo.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.mechanicRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(mechanicModel.Mechanic{ID: mechanicID}, nil)
				f.repo.EXPECT().StatsTx(gomock.Any(), gomock.Any(), model.FieldMechanicID, mechanicID).Return(model.Stats{}, errors.New("db down"))
			},
			wantErr: true,
		},
		{
			name:      "rating out of range",
			req:       dto.CreateReviewRequest{BookingID: bookingID, Rating: 6},
			setupMock: func(fixture) {},
			wantCode:  http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Create(customerCtx(), tt.req)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, bookingID, res.BookingID)
			assert.Equal(t, tt.req.Rating, res.Rating)
		})
	}
}

func TestReviewerService_GetByMechanic(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(3, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Review, error) {
			assert.Equal(t, constant.FieldCreatedAt, params.SortBy)
			assert.Equal(t, gDto.SortDirDesc, params.SortDir)

			where, args := filter.GetWhereClause()
			assert.Contains(t, where, model.FieldMechanicID)
			assert.Equal(t, mechanicID, args[model.FieldMechanicID])

			return []model.Review{{ID: "r-1", Rating: 5}, {ID: "r-2", Rating: 4}}, nil
		})

	res, err := f.svc.GetByMechanic(context.Background(), mechanicID, gDto.QueryParams{Page: 1, Limit: 2})

	assert.NoError(t, err)
	assert.Len(t, res.Reviews, 2)
	assert.Equal(t, 3, res.TotalData)
	assert.Equal(t, 2, res.TotalPage)
}

func TestReviewerService_GetByWorkshop(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, errors.New("db down"))

	_, err := f.svc.GetByWorkshop(context.Background(), workshopID, gDto.QueryParams{Page: 1, Limit: 10})

	assert.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
}
