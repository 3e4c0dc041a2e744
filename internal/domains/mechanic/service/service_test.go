package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"bengkel/config"
	otelMocks "bengkel/infras/otel/mocks"
	bookingMocks "bengkel/internal/domains/booking/mocks"
	bookingModel "bengkel/internal/domains/booking/model"
	catalogMocks "bengkel/internal/domains/catalog/mocks"
	"bengkel/internal/domains/mechanic/mocks"
	"bengkel/internal/domains/mechanic/model"
	"bengkel/internal/domains/mechanic/model/dto"
	"bengkel/internal/domains/mechanic/service"
	"bengkel/shared"
	cacheMocks "bengkel/shared/cache/mocks"
	"bengkel/shared/constant"
	gDto "bengkel/shared/dto"
	"bengkel/shared/event"
	eventMocks "bengkel/shared/event/mocks"
	"bengkel/shared/failure"
	"bengkel/shared/transaction"
	txMocks "bengkel/shared/transaction/mocks"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	repo        *mocks.MockMechanic
	listingRepo *mocks.MockListing
	catalogRepo *catalogMocks.MockService
	bookingRepo *bookingMocks.MockBooking
	transactor  *txMocks.MockTransactor
	publisher   *eventMocks.MockPublisher
	cache       *cacheMocks.MockRedisCache
	svc         service.Profile
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:        mocks.NewMockMechanic(ctrl),
		listingRepo: mocks.NewMockListing(ctrl),
		catalogRepo: catalogMocks.NewMockService(ctrl),
		bookingRepo: bookingMocks.NewMockBooking(ctrl),
		transactor:  txMocks.NewMockTransactor(ctrl),
		publisher:   eventMocks.NewMockPublisher(ctrl),
		cache:       cacheMocks.NewMockRedisCache(ctrl),
	}

	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f.svc = service.New(f.repo, f.listingRepo, f.catalogRepo, f.bookingRepo, f.transactor, f.publisher, &config.Config{}, f.cache, otelMocks.NewOtel())

	return f
}

func mechanicCtx() context.Context {
	return shared.WithActor(context.Background(), "user-1", constant.RoleMechanic)
}

func ptr[T any](v T) *T {
	return &v
}

func TestProfileService_SetStatus(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.UpdateStatusRequest
		current   model.Mechanic
		expectUpd bool
		wantCode  int
	}{
		{
			name:      "go online",
			req:       dto.UpdateStatusRequest{Status: model.StatusOnline},
			current:   model.Mechanic{ID: "mech-1", Status: model.StatusOffline},
			expectUpd: true,
		},
		{
			name:     "busy mechanic cannot change status",
			req:      dto.UpdateStatusRequest{Status: model.StatusOffline},
			current:  model.Mechanic{ID: "mech-1", Status: model.StatusBusy},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "busy is not user settable",
			req:      dto.UpdateStatusRequest{Status: model.StatusBusy},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "no profile",
			req:      dto.UpdateStatusRequest{Status: model.StatusOnline},
			current:  model.Mechanic{},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			if tt.req.Status != model.StatusBusy {
				txMocks.ExpectWithinTx(f.transactor)
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.current, nil)
			}

			if tt.expectUpd {
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, tt.req.Status, fields[model.FieldStatus])

						return nil
					})
			}

			err := f.svc.SetStatus(mechanicCtx(), tt.req)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

// Offer acceptance can commit between a plain read and the write. The status is read under the
// row lock, so a mechanic who turned busy while waiting for the lock keeps that status.
func TestProfileService_SetStatus_BusyWhileWaitingForLock(t *testing.T) {
	f := newFixture(t)

	row := model.Mechanic{ID: "mech-1", UserID: "user-1", Status: model.StatusOnline}
	acceptOffer := func() { row.Status = model.StatusBusy }

	f.transactor.EXPECT().WithinTx(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn transaction.TxFunc) error {
			acceptOffer()

			return fn(ctx, nil)
		})
	f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *sqlx.Tx, filter gDto.FilterGroup) (model.Mechanic, error) {
			_, args := filter.GetWhereClause()
			assert.Equal(t, "user-1", args[model.FieldUserID])

			return row, nil
		})

	err := f.svc.SetStatus(mechanicCtx(), dto.UpdateStatusRequest{Status: model.StatusOffline})

	assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
	assert.Equal(t, model.StatusBusy, row.Status)
}

func TestProfileService_Verify(t *testing.T) {
	t.Run("already verified", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Mechanic{ID: "mech-1", IsVerified: true}, nil)

		err := f.svc.Verify(context.Background(), "mech-1")

		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("verifies", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Mechanic{ID: "mech-1"}, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, fields map[string]any, _ any) error {
				assert.Equal(t, true, fields[model.FieldIsVerified])

				return nil
			})

		assert.NoError(t, f.svc.Verify(context.Background(), "mech-1"))
	})

	t.Run("missing", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Mechanic{}, nil)

		err := f.svc.Verify(context.Background(), "mech-x")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestProfileService_AddListing(t *testing.T) {
	req := dto.AddListingRequest{ServiceID: "svc-1", Price: decimal.NewFromInt(120000)}

	tests := []struct {
		name      string
		req       dto.AddListingRequest
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "created",
			req:  req,
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Mechanic{ID: "mech-1"}, nil)
				f.catalogRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.listingRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.listingRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "unknown service",
			req:  req,
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Mechanic{ID: "mech-1"}, nil)
				f.catalogRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "duplicate listing",
			req:  req,
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Mechanic{ID: "mech-1"}, nil)
				f.catalogRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.listingRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name:      "non positive price",
			req:       dto.AddListingRequest{ServiceID: "svc-1"},
			setupMock: func(fixture) {},
			wantCode:  http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.AddListing(mechanicCtx(), tt.req)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "mech-1", res.MechanicID)
			assert.True(t, res.Price.Equal(req.Price))
			assert.True(t, res.IsActive)
		})
	}
}

func TestProfileService_Nearby(t *testing.T) {
	f := newFixture(t)

	// roughly 1.1 km, 3.3 km and 16.7 km north of the origin
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Mechanic{
		{ID: "a", Latitude: ptr(0.03), Longitude: ptr(0.0)},
		{ID: "b", Latitude: ptr(0.01), Longitude: ptr(0.0)},
		{ID: "c", Latitude: ptr(0.15), Longitude: ptr(0.0)},
		{ID: "d"},
	}, nil)

	res, err := f.svc.Nearby(context.Background(), dto.NearbyRequest{Latitude: ptr(0.0), Longitude: ptr(0.0), RadiusKm: 10})

	assert.NoError(t, err)
	assert.Len(t, res, 2)
	assert.Equal(t, "b", res[0].ID)
	assert.Equal(t, "a", res[1].ID)
	assert.InDelta(t, 1.11, res[0].Distance, 0.01)
}

func TestProfileService_UpdateLocation(t *testing.T) {
	req := dto.UpdateLocationRequest{Latitude: ptr(-6.2), Longitude: ptr(106.8)}

	t.Run("publishes for active booking", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Mechanic{ID: "mech-1"}, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingModel.Booking{ID: "booking-1"}, nil)
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Do(func(_ context.Context, events ...event.Event) {
			assert.Len(t, events, 1)
			assert.Equal(t, event.MechanicLocationUpdated, events[0].Type)
			assert.Equal(t, "booking-1", events[0].BookingID)
		})

		assert.NoError(t, f.svc.UpdateLocation(mechanicCtx(), req))
	})

	t.Run("no active booking", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Mechanic{ID: "mech-1"}, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingModel.Booking{}, nil)

		assert.NoError(t, f.svc.UpdateLocation(mechanicCtx(), req))
	})

	t.Run("update fails", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Mechanic{ID: "mech-1"}, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db down"))

		err := f.svc.UpdateLocation(mechanicCtx(), req)

		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})
}
