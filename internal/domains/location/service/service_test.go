package service_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	otelMocks "bengkel/infras/otel/mocks"
	bookingDto "bengkel/internal/domains/booking/model/dto"
	bookingMocks "bengkel/internal/domains/booking/mocks"
	"bengkel/internal/domains/location/mocks"
	"bengkel/internal/domains/location/model"
	"bengkel/internal/domains/location/model/dto"
	"bengkel/internal/domains/location/service"
	mechanicDto "bengkel/internal/domains/mechanic/model/dto"
	mechanicMocks "bengkel/internal/domains/mechanic/mocks"
	"bengkel/shared"
	"bengkel/shared/constant"
	gDto "bengkel/shared/dto"
	"bengkel/shared/failure"
	gModel "bengkel/shared/model"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

const (
	mechanicID = "m-1"
	bookingID  = "3f1c2b7e-8d4a-4e4b-9a61-2b0c9d8e7f10"
)

type fixture struct {
	repo      *mocks.MockLog
	mechanics *mechanicMocks.MockProfile
	bookings  *bookingMocks.MockLifecycle
	svc       service.Tracker
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:      mocks.NewMockLog(ctrl),
		mechanics: mechanicMocks.NewMockProfile(ctrl),
		bookings:  bookingMocks.NewMockLifecycle(ctrl),
	}

	f.svc = service.New(f.repo, f.mechanics, f.bookings, otelMocks.NewOtel())

	return f
}

func mechanicCtx() context.Context {
	return shared.WithActor(context.Background(), "u-m1", constant.RoleMechanic)
}

func ptr[T any](v T) *T {
	return &v
}

func TestTrackerService_Track(t *testing.T) {
	coords := dto.TrackRequest{Latitude: ptr(-6.2), Longitude: ptr(106.8), Accuracy: ptr(5.0)}
	onBooking := coords
	onBooking.BookingID = bookingID

	tests := []struct {
		name      string
		req       dto.TrackRequest
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "without a booking",
			req:  coords,
			setupMock: func(f fixture) {
				f.mechanics.EXPECT().GetMine(gomock.Any()).Return(mechanicDto.MechanicResponse{ID: mechanicID}, nil)
				f.mechanics.EXPECT().UpdateLocation(gomock.Any(), mechanicDto.UpdateLocationRequest{Latitude: coords.Latitude, Longitude: coords.Longitude}).Return(nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, entry model.Log) error {
					assert.Equal(t, mechanicID, entry.MechanicID)
					assert.Nil(t, entry.BookingID)
					assert.Equal(t, -6.2, entry.Latitude)

					return nil
				})
			},
		},
		{
			name: "on the assigned active booking",
			req:  onBooking,
			setupMock: func(f fixture) {
				f.mechanics.EXPECT().GetMine(gomock.Any()).Return(mechanicDto.MechanicResponse{ID: mechanicID}, nil)
				f.bookings.EXPECT().Get(gomock.Any(), bookingID).Return(bookingDto.BookingResponse{ID: bookingID, MechanicID: ptr(mechanicID), Status: "in_progress"}, nil)
				f.mechanics.EXPECT().UpdateLocation(gomock.Any(), gomock.Any()).Return(nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, entry model.Log) error {
					assert.Equal(t, bookingID, *entry.BookingID)

					return nil
				})
			},
		},
		{
			name: "booking assigned to someone else",
			req:  onBooking,
			setupMock: func(f fixture) {
				f.mechanics.EXPECT().GetMine(gomock.Any()).Return(mechanicDto.MechanicResponse{ID: mechanicID}, nil)
				f.bookings.EXPECT().Get(gomock.Any(), bookingID).Return(bookingDto.BookingResponse{ID: bookingID, MechanicID: ptr("m-2"), Status: "accepted"}, nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name: "open booking not yet assigned",
			req:  onBooking,
			setupMock: func(f fixture) {
				f.mechanics.EXPECT().GetMine(gomock.Any()).Return(mechanicDto.MechanicResponse{ID: mechanicID}, nil)
				f.bookings.EXPECT().Get(gomock.Any(), bookingID).Return(bookingDto.BookingResponse{ID: bookingID, Status: "searching"}, nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name: "completed booking",
			req:  onBooking,
			setupMock: func(f fixture) {
				f.mechanics.EXPECT().GetMine(gomock.Any()).Return(mechanicDto.MechanicResponse{ID: mechanicID}, nil)
				f.bookings.EXPECT().Get(gomock.Any(), bookingID).Return(bookingDto.BookingResponse{ID: bookingID, MechanicID: ptr(mechanicID), Status: "completed"}, nil)
			},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name: "caller has no mechanic profile",
			req:  coords,
			setupMock: func(f fixture) {
				f.mechanics.EXPECT().GetMine(gomock.Any()).Return(mechanicDto.MechanicResponse{}, failure.NotFound("mechanic profile not found"))
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:     "missing coordinates",
			req:      dto.TrackRequest{Latitude: ptr(1.0)},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			if tt.setupMock != nil {
				tt.setupMock(f)
			}

			res, err := f.svc.Track(mechanicCtx(), tt.req)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, mechanicID, res.MechanicID)
			assert.NotEmpty(t, res.ID)
		})
	}
}

func TestTrackerService_GetBookingLocations(t *testing.T) {
	t.Run("newest first with default page size", func(t *testing.T) {
		f := newFixture(t)

		f.bookings.EXPECT().Get(gomock.Any(), bookingID).Return(bookingDto.BookingResponse{ID: bookingID}, nil)
		f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil)
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Log, error) {
				assert.Equal(t, gDto.QueryParams{Page: 1, Limit: dto.DefaultHistoryLimit, SortBy: model.FieldCreatedAt, SortDir: gDto.SortDirDesc}, params)

				_, args := filter.GetWhereClause()
				assert.Equal(t, bookingID, args[model.FieldBookingID])

				return []model.Log{{ID: "l-2"}, {ID: "l-1"}}, nil
			})

		res, err := f.svc.GetBookingLocations(context.Background(), bookingID, gDto.QueryParams{SortBy: "latitude"})

		assert.NoError(t, err)
		assert.Equal(t, 2, res.TotalData)
		assert.Equal(t, "l-2", res.Locations[0].ID)
	})

	t.Run("caller cannot see the booking", func(t *testing.T) {
		f := newFixture(t)

		f.bookings.EXPECT().Get(gomock.Any(), bookingID).Return(bookingDto.BookingResponse{}, failure.Forbidden("not allowed"))

		_, err := f.svc.GetBookingLocations(context.Background(), bookingID, gDto.QueryParams{})

		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})
}

func TestTrackerService_GetMechanicLatest(t *testing.T) {
	t.Run("latest tracked position", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Log, error) {
				assert.Equal(t, 1, params.Limit)
				assert.Equal(t, gDto.SortDirDesc, params.SortDir)

				return []model.Log{{ID: "l-9", MechanicID: mechanicID, Latitude: -6.1, Longitude: 106.7, Metadata: gModel.Metadata{CreatedAt: time.Now()}}}, nil
			})

		res, err := f.svc.GetMechanicLatest(context.Background(), mechanicID)

		assert.NoError(t, err)
		assert.Equal(t, "l-9", res.ID)
		assert.Equal(t, -6.1, res.Latitude)
	})

	t.Run("falls back to profile coordinates", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
		f.mechanics.EXPECT().Get(gomock.Any(), mechanicID).Return(mechanicDto.MechanicResponse{ID: mechanicID, Latitude: ptr(-6.3), Longitude: ptr(106.9)}, nil)

		res, err := f.svc.GetMechanicLatest(context.Background(), mechanicID)

		assert.NoError(t, err)
		assert.Empty(t, res.ID)
		assert.Equal(t, 106.9, res.Longitude)
	})

	t.Run("never located", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
		f.mechanics.EXPECT().Get(gomock.Any(), mechanicID).Return(mechanicDto.MechanicResponse{ID: mechanicID}, nil)

		_, err := f.svc.GetMechanicLatest(context.Background(), mechanicID)

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}
