package service_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	otelMocks "bengkel/infras/otel/mocks"
	bookingMocks "bengkel/internal/domains/booking/mocks"
	bookingModel "bengkel/internal/domains/booking/model"
	mechanicMocks "bengkel/internal/domains/mechanic/mocks"
	mechanicModel "bengkel/internal/domains/mechanic/model"
	"bengkel/internal/domains/offer/mocks"
	"bengkel/internal/domains/offer/model"
	"bengkel/internal/domains/offer/model/dto"
	"bengkel/internal/domains/offer/service"
	"bengkel/shared"
	"bengkel/shared/constant"
	gDto "bengkel/shared/dto"
	"bengkel/shared/event"
	eventMocks "bengkel/shared/event/mocks"
	"bengkel/shared/failure"
	"bengkel/shared/timezone"
	txMocks "bengkel/shared/transaction/mocks"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

const (
	bookingID  = "b-1"
	mechanicID = "m-1"
	offerID    = "o-1"
	ownerID    = "u-owner"
	mechUserID = "u-mech"
)

type fixture struct {
	repo       *mocks.MockOffer
	bookings   *bookingMocks.MockLifecycle
	mechanics  *mechanicMocks.MockMechanic
	transactor *txMocks.MockTransactor
	publisher  *eventMocks.MockPublisher
	svc        service.Manager
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:       mocks.NewMockOffer(ctrl),
		bookings:   bookingMocks.NewMockLifecycle(ctrl),
		mechanics:  mechanicMocks.NewMockMechanic(ctrl),
		transactor: txMocks.NewMockTransactor(ctrl),
		publisher:  eventMocks.NewMockPublisher(ctrl),
	}

	f.svc = service.New(f.repo, f.bookings, f.mechanics, f.transactor, f.publisher, otelMocks.NewOtel())

	return f
}

func eligible() mechanicModel.Mechanic {
	return mechanicModel.Mechanic{ID: mechanicID, UserID: mechUserID, Status: mechanicModel.StatusOnline, IsVerified: true}
}

func ownerCtx() context.Context {
	return shared.WithActor(context.Background(), ownerID, constant.RoleUser)
}

func mechanicCtx() context.Context {
	return shared.WithActor(context.Background(), mechUserID, constant.RoleMechanic)
}

func TestOfferService_Create(t *testing.T) {
	req := dto.CreateOfferRequest{MechanicID: mechanicID, Price: decimal.NewFromInt(150000), Message: "on my way"}
	pending := bookingModel.Booking{ID: bookingID, UserID: ownerID, Status: bookingModel.StatusPending}

	tests := []struct {
		name      string
		ctx       context.Context
		req       dto.CreateOfferRequest
		setupMock func(f fixture)
		wantCode  int
		wantTypes []event.Type
	}{
		{
			name: "pending booking becomes offered",
			ctx:  ownerCtx(),
			req:  req,
			setupMock: func(f fixture) {
				txMocks.ExpectWithinTx(f.transactor)
				f.bookings.EXPECT().LockTx(gomock.Any(), gomock.Any(), bookingID).Return(pending, nil)
				f.bookings.EXPECT().Authorize(gomock.Any(), pending).Return(nil)
				f.mechanics.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(eligible(), nil)
				f.repo.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, _ *sqlx.Tx, offer model.Offer) error {
						assert.Equal(t, model.StatusPending, offer.Status)
						assert.WithinDuration(t, timezone.Now().Add(model.TTL), offer.ExpiresAt, time.Minute)

						return nil
					})
				f.bookings.EXPECT().TransitionTx(gomock.Any(), gomock.Any(), pending, bookingModel.StatusOffered, gomock.Nil(), "Offer sent to mechanic").
					Return(event.New(bookingID, event.BookingStatusChanged, nil), nil)
				f.bookings.EXPECT().Invalidate(gomock.Any(), bookingID)
			},
			wantTypes: []event.Type{event.OfferCreated, event.BookingStatusChanged},
		},
		{
			name: "searching booking keeps its status",
			ctx:  ownerCtx(),
			req:  req,
			setupMock: func(f fixture) {
				searching := pending
				searching.Status = bookingModel.StatusSearching

				txMocks.ExpectWithinTx(f.transactor)
				f.bookings.EXPECT().LockTx(gomock.Any(), gomock.Any(), bookingID).Return(searching, nil)
				f.bookings.EXPECT().Authorize(gomock.Any(), searching).Return(nil)
				f.mechanics.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(eligible(), nil)
				f.repo.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.bookings.EXPECT().Invalidate(gomock.Any(), bookingID)
			},
			wantTypes: []event.Type{event.OfferCreated},
		},
		{
			name: "mechanic offers themself",
			ctx:  mechanicCtx(),
			req:  dto.CreateOfferRequest{Price: decimal.NewFromInt(120000)},
			setupMock: func(f fixture) {
				f.mechanics.EXPECT().Get(gomock.Any(), gomock.Any()).Return(eligible(), nil)
				txMocks.ExpectWithinTx(f.transactor)
				f.bookings.EXPECT().LockTx(gomock.Any(), gomock.Any(), bookingID).Return(pending, nil)
				f.bookings.EXPECT().Authorize(gomock.Any(), pending).Return(nil)
				f.mechanics.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(eligible(), nil)
				f.repo.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, _ *sqlx.Tx, offer model.Offer) error {
						assert.Equal(t, mechanicID, offer.MechanicID)

						return nil
					})
				f.bookings.EXPECT().TransitionTx(gomock.Any(), gomock.Any(), gomock.Any(), bookingModel.StatusOffered, gomock.Any(), gomock.Any()).
					Return(event.New(bookingID, event.BookingStatusChanged, nil), nil)
				f.bookings.EXPECT().Invalidate(gomock.Any(), bookingID)
			},
			wantTypes: []event.Type{event.OfferCreated, event.BookingStatusChanged},
		},
		{
			name: "mechanic offering for someone else",
			ctx:  mechanicCtx(),
			req:  dto.CreateOfferRequest{MechanicID: "m-2", Price: decimal.NewFromInt(120000)},
			setupMock: func(f fixture) {
				f.mechanics.EXPECT().Get(gomock.Any(), gomock.Any()).Return(eligible(), nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name: "mechanic not found",
			ctx:  ownerCtx(),
			req:  req,
			setupMock: func(f fixture) {
				txMocks.ExpectWithinTx(f.transactor)
				f.bookings.EXPECT().LockTx(gomock.Any(), gomock.Any(), bookingID).Return(pending, nil)
				f.bookings.EXPECT().Authorize(gomock.Any(), pending).Return(nil)
				f.mechanics.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(mechanicModel.Mechanic{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "offline mechanic",
			ctx:  ownerCtx(),
			req:  req,
			setupMock: func(f fixture) {
				offline := eligible()
				offline.Status = mechanicModel.StatusOffline

				txMocks.ExpectWithinTx(f.transactor)
				f.bookings.EXPECT().LockTx(gomock.Any(), gomock.Any(), bookingID).Return(pending, nil)
				f.bookings.EXPECT().Authorize(gomock.Any(), pending).Return(nil)
				f.mechanics.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(offline, nil)
			},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name: "booking already accepted",
			ctx:  ownerCtx(),
			req:  req,
			setupMock: func(f fixture) {
				accepted := pending
				accepted.Status = bookingModel.StatusAccepted

				txMocks.ExpectWithinTx(f.transactor)
				f.bookings.EXPECT().LockTx(gomock.Any(), gomock.Any(), bookingID).Return(accepted, nil)
				f.bookings.EXPECT().Authorize(gomock.Any(), accepted).Return(nil)
				f.mechanics.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(eligible(), nil)
			},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name: "duplicate pending offer",
			ctx:  ownerCtx(),
			req:  req,
			setupMock: func(f fixture) {
				txMocks.ExpectWithinTx(f.transactor)
				f.bookings.EXPECT().LockTx(gomock.Any(), gomock.Any(), bookingID).Return(pending, nil)
				f.bookings.EXPECT().Authorize(gomock.Any(), pending).Return(nil)
				f.mechanics.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(eligible(), nil)
				f.repo.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "booking not found",
			ctx:  ownerCtx(),
			req:  req,
			setupMock: func(f fixture) {
				txMocks.ExpectWithinTx(f.transactor)
				f.bookings.EXPECT().LockTx(gomock.Any(), gomock.Any(), bookingID).Return(bookingModel.Booking{}, failure.NotFound("booking not found"))
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:      "zero price",
			ctx:       ownerCtx(),
			req:       dto.CreateOfferRequest{MechanicID: mechanicID},
			setupMock: func(fixture) {},
			wantCode:  http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			if tt.wantTypes != nil {
				f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Do(func(_ context.Context, events ...event.Event) {
					types := make([]event.Type, len(events))
					for i, ev := range events {
						types[i] = ev.Type
					}

					assert.Equal(t, tt.wantTypes, types)
				})
			}

			res, err := f.svc.Create(tt.ctx, bookingID, tt.req)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, model.StatusPending, res.Status)
			assert.Equal(t, mechanicID, res.MechanicID)
		})
	}
}

func TestOfferService_Respond(t *testing.T) {
	offered := bookingModel.Booking{ID: bookingID, UserID: ownerID, Status: bookingModel.StatusOffered}
	fresh := model.Offer{
		ID:         offerID,
		BookingID:  bookingID,
		MechanicID: mechanicID,
		Price:      decimal.NewFromInt(175000),
		Status:     model.StatusPending,
		ExpiresAt:  timezone.Now().Add(model.TTL),
	}

	tests := []struct {
		name      string
		ctx       context.Context
		status    string
		booking   bookingModel.Booking
		offer     model.Offer
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name:    "accept assigns the mechanic and rejects siblings",
			ctx:     mechanicCtx(),
			status:  model.StatusAccepted,
			booking: offered,
			offer:   fresh,
			setupMock: func(f fixture) {
				f.bookings.EXPECT().TransitionTx(gomock.Any(), gomock.Any(), offered, bookingModel.StatusAccepted, gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, _ *sqlx.Tx, _ bookingModel.Booking, _ bookingModel.Status, fields map[string]any, _ string) (event.Event, error) {
						assert.Equal(t, mechanicID, fields[bookingModel.FieldMechanicID])
						assert.True(t, decimal.NewFromInt(175000).Equal(fields[bookingModel.FieldEstimatedPrice].(decimal.Decimal)))

						return event.New(bookingID, event.BookingStatusChanged, nil), nil
					})

				gomock.InOrder(
					f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
						func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
							assert.Equal(t, model.StatusAccepted, fields[model.FieldStatus])

							return nil
						}),
					f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
						func(_ context.Context, _ *sqlx.Tx, fields map[string]any, filter gDto.FilterGroup) error {
							assert.Equal(t, model.StatusRejected, fields[model.FieldStatus])

							where, args := filter.GetWhereClause()
							assert.Contains(t, where, "booking_offers.id != :id")
							assert.Equal(t, offerID, args["id"])

							return nil
						}),
				)

				f.mechanics.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, mechanicModel.StatusBusy, fields[mechanicModel.FieldStatus])

						return nil
					})
				f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Do(func(_ context.Context, events ...event.Event) {
					assert.Len(t, events, 2)
					assert.Equal(t, event.OfferResponded, events[0].Type)
				})
				f.bookings.EXPECT().Invalidate(gomock.Any(), bookingID)
			},
		},
		{
			name:    "reject touches only the offer",
			ctx:     mechanicCtx(),
			status:  model.StatusRejected,
			booking: offered,
			offer:   fresh,
			setupMock: func(f fixture) {
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Do(func(_ context.Context, events ...event.Event) {
					assert.Len(t, events, 1)
				})
			},
		},
		{
			name:    "expired offer cannot be accepted",
			ctx:     mechanicCtx(),
			status:  model.StatusAccepted,
			booking: offered,
			offer: model.Offer{
				ID: offerID, BookingID: bookingID, MechanicID: mechanicID,
				Status: model.StatusPending, ExpiresAt: timezone.Now().Add(-time.Minute),
			},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "offer already answered",
			ctx:      mechanicCtx(),
			status:   model.StatusAccepted,
			booking:  offered,
			offer:    model.Offer{ID: offerID, BookingID: bookingID, MechanicID: mechanicID, Status: model.StatusRejected},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:   "losing concurrent acceptance",
			ctx:    mechanicCtx(),
			status: model.StatusAccepted,
			booking: func() bookingModel.Booking {
				assigned := offered
				other := "m-2"
				assigned.MechanicID = &other
				assigned.Status = bookingModel.StatusAccepted

				return assigned
			}(),
			offer:    fresh,
			wantCode: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.offer, nil)
			txMocks.ExpectWithinTx(f.transactor)
			f.bookings.EXPECT().LockTx(gomock.Any(), gomock.Any(), bookingID).Return(tt.booking, nil)
			f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.offer, nil)
			f.mechanics.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(eligible(), nil)

			if tt.setupMock != nil {
				tt.setupMock(f)
			}

			res, err := f.svc.Respond(tt.ctx, offerID, dto.RespondRequest{Status: tt.status})

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.status, res.Status)
			assert.NotNil(t, res.RespondedAt)
		})
	}
}

func argOf(filter gDto.FilterGroup, name string) string {
	_, args := filter.GetWhereClause()
	value, _ := args[name].(string)

	return value
}

func TestOfferService_Respond_ConcurrentAcceptance(t *testing.T) {
	f := newFixture(t)

	booking := bookingModel.Booking{ID: bookingID, UserID: ownerID, Status: bookingModel.StatusOffered}
	offers := map[string]model.Offer{}
	for _, id := range []string{"1", "2"} {
		offers["o-"+id] = model.Offer{
			ID:         "o-" + id,
			BookingID:  bookingID,
			MechanicID: "m-" + id,
			Price:      decimal.NewFromInt(150000),
			Status:     model.StatusPending,
			ExpiresAt:  timezone.Now().Add(model.TTL),
		}
	}

	byFilter := func(filter gDto.FilterGroup) model.Offer {
		return offers[argOf(filter, model.FieldID)]
	}

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, filter gDto.FilterGroup, _ ...string) (model.Offer, error) {
			return byFilter(filter), nil
		}).Times(2)
	txMocks.ExpectWithinTx(f.transactor).Times(2)
	f.bookings.EXPECT().LockTx(gomock.Any(), gomock.Any(), bookingID).DoAndReturn(
		func(context.Context, *sqlx.Tx, string) (bookingModel.Booking, error) {
			return booking, nil
		}).Times(2)
	f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *sqlx.Tx, filter gDto.FilterGroup) (model.Offer, error) {
			return byFilter(filter), nil
		}).Times(2)
	f.mechanics.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *sqlx.Tx, filter gDto.FilterGroup, _ ...string) (mechanicModel.Mechanic, error) {
			user := argOf(filter, mechanicModel.FieldUserID)

			return mechanicModel.Mechanic{ID: "m-" + user[len(user)-1:], UserID: user, IsVerified: true}, nil
		}).Times(2)

	// Only the winner writes. Any further update from the loser fails the mock controller.
	f.bookings.EXPECT().TransitionTx(gomock.Any(), gomock.Any(), gomock.Any(), bookingModel.StatusAccepted, gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *sqlx.Tx, _ bookingModel.Booking, next bookingModel.Status, fields map[string]any, _ string) (event.Event, error) {
			assigned := fields[bookingModel.FieldMechanicID].(string)
			booking.MechanicID = &assigned
			booking.Status = next

			return event.New(bookingID, event.BookingStatusChanged, nil), nil
		}).Times(1)
	gomock.InOrder(
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ *sqlx.Tx, fields map[string]any, filter gDto.FilterGroup) error {
				offer := byFilter(filter)
				offer.Status = fields[model.FieldStatus].(string)
				offers[offer.ID] = offer

				return nil
			}).Times(1),
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ *sqlx.Tx, fields map[string]any, filter gDto.FilterGroup) error {
				assert.Equal(t, model.StatusRejected, fields[model.FieldStatus])
				assert.Equal(t, "o-1", argOf(filter, model.FieldID))

				return nil
			}).Times(1),
	)
	f.mechanics.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *sqlx.Tx, fields map[string]any, filter gDto.FilterGroup) error {
			assert.Equal(t, mechanicModel.StatusBusy, fields[mechanicModel.FieldStatus])
			assert.Equal(t, "m-1", argOf(filter, mechanicModel.FieldID))

			return nil
		}).Times(1)
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(1)
	f.bookings.EXPECT().Invalidate(gomock.Any(), bookingID).Times(1)

	first := shared.WithActor(context.Background(), "u-m1", constant.RoleMechanic)
	second := shared.WithActor(context.Background(), "u-m2", constant.RoleMechanic)

	res, err := f.svc.Respond(first, "o-1", dto.RespondRequest{Status: model.StatusAccepted})
	assert.NoError(t, err)
	assert.Equal(t, model.StatusAccepted, res.Status)

	// o-2 is still pending in this read, the booking lock is what stops the second acceptance.
	_, err = f.svc.Respond(second, "o-2", dto.RespondRequest{Status: model.StatusAccepted})
	assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
	assert.Contains(t, err.Error(), "already has an assigned mechanic")
	assert.Equal(t, "m-1", booking.AssignedMechanic())
}

func TestOfferService_Respond_LocksBookingBeforeOffer(t *testing.T) {
	f := newFixture(t)
	offer := model.Offer{ID: offerID, BookingID: bookingID, MechanicID: mechanicID, Status: model.StatusRejected}

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(offer, nil)
	txMocks.ExpectWithinTx(f.transactor)
	gomock.InOrder(
		f.bookings.EXPECT().LockTx(gomock.Any(), gomock.Any(), bookingID).Return(bookingModel.Booking{ID: bookingID, Status: bookingModel.StatusOffered}, nil),
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(offer, nil),
		f.mechanics.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(eligible(), nil),
	)

	_, err := f.svc.Respond(mechanicCtx(), offerID, dto.RespondRequest{Status: model.StatusAccepted})

	assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
}

func TestOfferService_Respond_Rejections(t *testing.T) {
	t.Run("unknown status", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Respond(mechanicCtx(), offerID, dto.RespondRequest{Status: model.StatusExpired})

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("offer not found", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Offer{}, nil)

		_, err := f.svc.Respond(mechanicCtx(), offerID, dto.RespondRequest{Status: model.StatusAccepted})

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("another mechanic", func(t *testing.T) {
		f := newFixture(t)
		offer := model.Offer{ID: offerID, BookingID: bookingID, MechanicID: "m-2", Status: model.StatusPending}

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(offer, nil)
		txMocks.ExpectWithinTx(f.transactor)
		f.bookings.EXPECT().LockTx(gomock.Any(), gomock.Any(), bookingID).Return(bookingModel.Booking{ID: bookingID}, nil)
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(offer, nil)
		f.mechanics.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(eligible(), nil)

		_, err := f.svc.Respond(mechanicCtx(), offerID, dto.RespondRequest{Status: model.StatusAccepted})

		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("booking owner cannot answer", func(t *testing.T) {
		f := newFixture(t)
		offer := model.Offer{ID: offerID, BookingID: bookingID, MechanicID: mechanicID, Status: model.StatusPending}

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(offer, nil)
		txMocks.ExpectWithinTx(f.transactor)
		f.bookings.EXPECT().LockTx(gomock.Any(), gomock.Any(), bookingID).Return(bookingModel.Booking{ID: bookingID}, nil)
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(offer, nil)

		_, err := f.svc.Respond(ownerCtx(), offerID, dto.RespondRequest{Status: model.StatusAccepted})

		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})
}

func TestOfferService_Dispatch(t *testing.T) {
	booking := bookingModel.Booking{ID: bookingID, Status: bookingModel.StatusPending}
	candidates := []dto.Candidate{
		{MechanicID: "m-1", Price: decimal.NewFromInt(100000)},
		{MechanicID: "m-2", Price: decimal.NewFromInt(110000)},
		{MechanicID: "m-3", Price: decimal.NewFromInt(120000)},
	}

	t.Run("skips mechanics with a pending offer", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), model.FieldMechanicID).
			Return([]model.Offer{{MechanicID: "m-2"}}, nil)
		f.repo.EXPECT().InsertBulkTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ *sqlx.Tx, offers []model.Offer) error {
				assert.Len(t, offers, 2)
				assert.Equal(t, "m-1", offers[0].MechanicID)
				assert.Equal(t, "m-3", offers[1].MechanicID)
				assert.Equal(t, "Automated matchmaking offer", *offers[0].Message)

				return nil
			})

		offers, err := f.svc.Dispatch(context.Background(), nil, booking, candidates, "Automated matchmaking offer")

		assert.NoError(t, err)
		assert.Len(t, offers, 2)
	})

	t.Run("everyone already offered", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), model.FieldMechanicID).
			Return([]model.Offer{{MechanicID: "m-1"}, {MechanicID: "m-2"}, {MechanicID: "m-3"}}, nil)

		offers, err := f.svc.Dispatch(context.Background(), nil, booking, candidates, "hi")

		assert.NoError(t, err)
		assert.Empty(t, offers)
	})

	t.Run("no candidates", func(t *testing.T) {
		f := newFixture(t)

		offers, err := f.svc.Dispatch(context.Background(), nil, booking, nil, "hi")

		assert.NoError(t, err)
		assert.Empty(t, offers)
	})
}
