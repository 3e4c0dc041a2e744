package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"slices"

	"bengkel/infras/otel"
	bookingModel "bengkel/internal/domains/booking/model"
	bookingService "bengkel/internal/domains/booking/service"
	"bengkel/internal/domains/matchmaking/model/dto"
	mechanicModel "bengkel/internal/domains/mechanic/model"
	mechanicRepo "bengkel/internal/domains/mechanic/repository"
	offerDto "bengkel/internal/domains/offer/model/dto"
	offerService "bengkel/internal/domains/offer/service"
	"bengkel/shared/constant"
	gDto "bengkel/shared/dto"
	"bengkel/shared/event"
	"bengkel/shared/failure"
	"bengkel/shared/geo"
	"bengkel/shared/transaction"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type Matchmaker interface {
	FindMechanics(ctx context.Context, bookingID string, req dto.FindRequest) ([]dto.MatchResponse, error)
	NotifyMechanics(ctx context.Context, bookingID string, req dto.NotifyRequest) (dto.NotifyResponse, error)
}

type serviceImpl struct {
	bookings     bookingService.Lifecycle
	offers       offerService.Manager
	mechanicRepo mechanicRepo.Mechanic
	listingRepo  mechanicRepo.Listing
	transactor   transaction.Transactor
	publisher    event.Publisher
	otel         otel.Otel
}

func New(
	bookings bookingService.Lifecycle,
	offers offerService.Manager,
	mechanicRepo mechanicRepo.Mechanic,
	listingRepo mechanicRepo.Listing,
	transactor transaction.Transactor,
	publisher event.Publisher,
	otel otel.Otel,
) Matchmaker {
	return &serviceImpl{
		bookings:     bookings,
		offers:       offers,
		mechanicRepo: mechanicRepo,
		listingRepo:  listingRepo,
		transactor:   transactor,
		publisher:    publisher,
		otel:         otel,
	}
}

func (s *serviceImpl) FindMechanics(ctx context.Context, bookingID string, req dto.FindRequest) (res []dto.MatchResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".matchmaking.FindMechanics")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.ApplyDefaults()

	booking, err := s.bookings.Get(ctx, bookingID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	listings, err := s.listingRepo.GetAll(ctx, gDto.QueryParams{}, activeListings(booking.ServiceID))
	if err != nil {
		log.Error().Err(err).Msg("failed to get service listings")

		return nil, fmt.Errorf("failed to get service listings: %w", err)
	}

	res = []dto.MatchResponse{}

	if len(listings) == 0 {
		return res, nil
	}

	mechanics, err := s.mechanicRepo.GetAll(ctx, byID, mechanicModel.AvailableFilter(listedMechanics(listings)))
	if err != nil {
		log.Error().Err(err).Msg("failed to get available mechanics")

		return nil, fmt.Errorf("failed to get available mechanics: %w", err)
	}

	return rank(booking.Latitude, booking.Longitude, listings, mechanics, req.RadiusKm, req.Limit), nil
}

func (s *serviceImpl) NotifyMechanics(ctx context.Context, bookingID string, req dto.NotifyRequest) (res dto.NotifyResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".matchmaking.NotifyMechanics")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.ApplyDefaults()

	var changed event.Event

	err = s.transactor.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		booking, err := s.bookings.LockTx(ctx, tx, bookingID)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if err := s.bookings.AuthorizeWrite(ctx, booking); err != nil {
			return err //nolint:wrapcheck
		}

		if booking.Status != bookingModel.StatusPending && booking.Status != bookingModel.StatusSearching {
			return failure.InvalidState(fmt.Sprintf("booking is %s and cannot be matched", booking.Status)) //nolint:wrapcheck
		}

		listings, err := s.listingRepo.GetAllTx(ctx, tx, gDto.QueryParams{}, activeListings(booking.ServiceID))
		if err != nil {
			log.Error().Err(err).Msg("failed to get service listings")

			return fmt.Errorf("failed to get service listings: %w", err)
		}

		if len(listings) == 0 {
			return failure.NotFound("no mechanics offer this service") //nolint:wrapcheck
		}

		mechanics, err := s.mechanicRepo.GetAllTx(ctx, tx, byID, mechanicModel.AvailableFilter(listedMechanics(listings)))
		if err != nil {
			log.Error().Err(err).Msg("failed to get available mechanics")

			return fmt.Errorf("failed to get available mechanics: %w", err)
		}

		ranked := rank(booking.Latitude, booking.Longitude, listings, mechanics, req.RadiusKm, req.Limit)
		if len(ranked) == 0 {
			return failure.NotFound("no suitable mechanics found nearby") //nolint:wrapcheck
		}

		candidates := make([]offerDto.Candidate, len(ranked))
		for i, match := range ranked {
			price := booking.EstimatedPrice.Decimal
			if match.OfferedPrice.Valid {
				price = match.OfferedPrice.Decimal
			}

			candidates[i] = offerDto.Candidate{MechanicID: match.ID, Price: price}
		}

		offers, err := s.offers.Dispatch(ctx, tx, booking, candidates, req.Message)
		if err != nil {
			return err //nolint:wrapcheck
		}

		res.NotifiedCount = len(offers)
		res.Offers = offerDto.FromModels(offers)

		changed, err = s.bookings.TransitionTx(ctx, tx, booking, bookingModel.StatusSearching, nil,
			fmt.Sprintf("Notified %d nearby mechanics", len(offers)))

		return err //nolint:wrapcheck
	})
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	events := []event.Event{changed, event.New(bookingID, event.MatchmakingNotified, res)}
	for _, offer := range res.Offers {
		events = append(events, event.New(bookingID, event.OfferCreated, offer))
	}

	s.publisher.Publish(ctx, events...)
	s.bookings.Invalidate(ctx, bookingID)

	return res, nil
}

var byID = gDto.QueryParams{SortBy: mechanicModel.FieldID, SortDir: gDto.SortDirAsc}

func activeListings(serviceID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: mechanicModel.ListingFieldServiceID, Value: serviceID, Operator: gDto.FilterOperatorEq, Table: mechanicModel.ListingTableName},
			gDto.Filter{Field: mechanicModel.ListingFieldIsActive, Value: true, Operator: gDto.FilterOperatorEq, Table: mechanicModel.ListingTableName},
		},
		Operator: gDto.FilterGroupOperatorAnd,
	}
}

func listedMechanics(listings []mechanicModel.Listing) []string {
	ids := make([]string, len(listings))
	for i, listing := range listings {
		ids[i] = listing.MechanicID
	}

	return ids
}

// rank keeps the mechanics within radiusKm of the origin, nearest first, at most limit of them.
// Equal distances keep the order mechanics were given in.
func rank(
	lat, lng float64,
	listings []mechanicModel.Listing,
	mechanics []mechanicModel.Mechanic,
	radiusKm float64,
	limit int,
) []dto.MatchResponse {
	prices := make(map[string]decimal.Decimal, len(listings))
	for _, listing := range listings {
		prices[listing.MechanicID] = listing.Price
	}

	type scored struct {
		mechanic mechanicModel.Mechanic
		distance float64
	}

	within := []scored{}

	for _, mechanic := range mechanics {
		if !mechanic.Located() {
			continue
		}

		distance := geo.Haversine(lat, lng, *mechanic.Latitude, *mechanic.Longitude)
		if distance > radiusKm {
			continue
		}

		within = append(within, scored{mechanic: mechanic, distance: distance})
	}

	slices.SortStableFunc(within, func(a, b scored) int {
		switch {
		case a.distance < b.distance:
			return -1
		case a.distance > b.distance:
			return 1
		default:
			return 0
		}
	})

	if len(within) > limit {
		within = within[:limit]
	}

	res := make([]dto.MatchResponse, len(within))
	for i, item := range within {
		res[i].FromModel(item.mechanic)
		res[i].Distance = geo.Round2(item.distance)

		if price, ok := prices[item.mechanic.ID]; ok {
			res[i].OfferedPrice = decimal.NewNullDecimal(price)
		}
	}

	return res
}
