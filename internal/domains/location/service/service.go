package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"bengkel/infras/otel"
	bookingModel "bengkel/internal/domains/booking/model"
	bookingService "bengkel/internal/domains/booking/service"
	"bengkel/internal/domains/location/model"
	"bengkel/internal/domains/location/model/dto"
	"bengkel/internal/domains/location/repository"
	mechanicDto "bengkel/internal/domains/mechanic/model/dto"
	mechanicService "bengkel/internal/domains/mechanic/service"
	"bengkel/shared"
	"bengkel/shared/constant"
	gDto "bengkel/shared/dto"
	"bengkel/shared/failure"

	"github.com/rs/zerolog/log"
)

type Tracker interface {
	// Track records the calling mechanic's position and moves their profile coordinates with it.
	Track(ctx context.Context, req dto.TrackRequest) (dto.LocationResponse, error)
	GetBookingLocations(ctx context.Context, bookingID string, req gDto.QueryParams) (dto.GetLocationsResponse, error)
	// GetMechanicLatest falls back to the profile coordinates when no position was ever tracked.
	GetMechanicLatest(ctx context.Context, mechanicID string) (dto.LocationResponse, error)
}

type serviceImpl struct {
	repo      repository.Log
	mechanics mechanicService.Profile
	bookings  bookingService.Lifecycle
	otel      otel.Otel
}

func New(repo repository.Log, mechanics mechanicService.Profile, bookings bookingService.Lifecycle, otel otel.Otel) Tracker {
	return &serviceImpl{
		repo:      repo,
		mechanics: mechanics,
		bookings:  bookings,
		otel:      otel,
	}
}

func (s *serviceImpl) Track(ctx context.Context, req dto.TrackRequest) (res dto.LocationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".location.Track")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.Latitude == nil || req.Longitude == nil {
		return res, failure.BadRequestFromString("latitude and longitude are required") //nolint:wrapcheck
	}

	mechanic, err := s.mechanics.GetMine(ctx)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	if req.BookingID != constant.Empty {
		booking, err := s.bookings.Get(ctx, req.BookingID)
		if err != nil {
			return res, err //nolint:wrapcheck
		}

		if booking.MechanicID == nil || *booking.MechanicID != mechanic.ID {
			return res, failure.Forbidden("booking is not assigned to this mechanic") //nolint:wrapcheck
		}

		if !bookingModel.Status(booking.Status).Active() {
			return res, failure.InvalidState("location can only be tracked on an accepted or in-progress booking") //nolint:wrapcheck
		}
	}

	err = s.mechanics.UpdateLocation(ctx, mechanicDto.UpdateLocationRequest{Latitude: req.Latitude, Longitude: req.Longitude})
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	user, _ := shared.Actor(ctx)
	entry := req.ToModel(mechanic.ID, user)

	if err = s.repo.Insert(ctx, entry); err != nil {
		log.Error().Err(err).Msg("failed to insert location log")

		return res, fmt.Errorf("failed to insert location log: %w", err)
	}

	res.FromModel(entry)

	return res, nil
}

func (s *serviceImpl) GetBookingLocations(ctx context.Context, bookingID string, req gDto.QueryParams) (res dto.GetLocationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".location.GetBookingLocations")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if _, err = s.bookings.Get(ctx, bookingID); err != nil {
		return res, err //nolint:wrapcheck
	}

	if req.Page <= 0 {
		req.Page = 1
	}

	if req.Limit <= 0 {
		req.Limit = dto.DefaultHistoryLimit
	}

	req.SortBy, req.SortDir = model.FieldCreatedAt, gDto.SortDirDesc

	filter := shared.FilterByID(bookingID, model.FieldBookingID, model.TableName)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count booking locations")

		return res, fmt.Errorf("failed to count booking locations: %w", err)
	}

	logs, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking locations")

		return res, fmt.Errorf("failed to get booking locations: %w", err)
	}

	res.FromModels(logs, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) GetMechanicLatest(ctx context.Context, mechanicID string) (res dto.LocationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".location.GetMechanicLatest")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	logs, err := s.repo.GetAll(ctx,
		gDto.QueryParams{Page: 1, Limit: 1, SortBy: model.FieldCreatedAt, SortDir: gDto.SortDirDesc},
		shared.FilterByID(mechanicID, model.FieldMechanicID, model.TableName),
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to get latest mechanic location")

		return res, fmt.Errorf("failed to get latest mechanic location: %w", err)
	}

	if len(logs) > 0 {
		res.FromModel(logs[0])

		return res, nil
	}

	mechanic, err := s.mechanics.Get(ctx, mechanicID)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	if mechanic.Latitude == nil || mechanic.Longitude == nil {
		return res, failure.NotFound("no location recorded for mechanic") //nolint:wrapcheck
	}

	res.MechanicID = mechanic.ID
	res.Latitude = *mechanic.Latitude
	res.Longitude = *mechanic.Longitude
	res.RecordedAt = mechanic.ModifiedAt

	return res, nil
}
