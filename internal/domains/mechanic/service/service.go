package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"slices"

	"bengkel/config"
	"bengkel/infras/otel"
	bookingModel "bengkel/internal/domains/booking/model"
	bookingRepo "bengkel/internal/domains/booking/repository"
	catalogModel "bengkel/internal/domains/catalog/model"
	catalogRepo "bengkel/internal/domains/catalog/repository"
	"bengkel/internal/domains/mechanic/model"
	"bengkel/internal/domains/mechanic/model/dto"
	"bengkel/internal/domains/mechanic/repository"
	"bengkel/shared"
	"bengkel/shared/cache"
	"bengkel/shared/constant"
	gDto "bengkel/shared/dto"
	"bengkel/shared/event"
	"bengkel/shared/failure"
	"bengkel/shared/geo"
	"bengkel/shared/timezone"
	"bengkel/shared/transaction"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetMechanic    = "mechanic:get"
	cacheGetAllMechanic = "mechanic:gets"
)

type Profile interface {
	Get(ctx context.Context, id string) (dto.MechanicResponse, error)
	GetMine(ctx context.Context) (dto.MechanicResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetMechanicsResponse, error)
	UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest) error
	SetStatus(ctx context.Context, req dto.UpdateStatusRequest) error
	UpdateLocation(ctx context.Context, req dto.UpdateLocationRequest) error
	Nearby(ctx context.Context, req dto.NearbyRequest) ([]dto.NearbyMechanicResponse, error)
	AddListing(ctx context.Context, req dto.AddListingRequest) (dto.ListingResponse, error)
	RemoveListing(ctx context.Context, serviceID string) error
	GetListings(ctx context.Context, mechanicID string) ([]dto.ListingResponse, error)
	Verify(ctx context.Context, id string) error
	// Invalidate drops the cached profile and listings of a mechanic written outside this service.
	Invalidate(ctx context.Context, id string)
}

type serviceImpl struct {
	repo        repository.Mechanic
	listingRepo repository.Listing
	catalogRepo catalogRepo.Service
	bookingRepo bookingRepo.Booking
	transactor  transaction.Transactor
	publisher   event.Publisher
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(
	repo repository.Mechanic,
	listingRepo repository.Listing,
	catalogRepo catalogRepo.Service,
	bookingRepo bookingRepo.Booking,
	transactor transaction.Transactor,
	publisher event.Publisher,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Profile {
	return &serviceImpl{
		repo:        repo,
		listingRepo: listingRepo,
		catalogRepo: catalogRepo,
		bookingRepo: bookingRepo,
		transactor:  transactor,
		publisher:   publisher,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.MechanicResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".mechanic.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetMechanic, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for mechanic")

		return res, nil
	}

	mechanic, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get mechanic")

		return res, fmt.Errorf("failed to get mechanic: %w", err)
	}

	if mechanic.ID == constant.Empty {
		return res, failure.NotFound("mechanic not found") //nolint:wrapcheck
	}

	res.FromModel(mechanic)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save mechanic to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetMine(ctx context.Context) (res dto.MechanicResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".mechanic.GetMine")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	mechanic, err := s.mine(ctx)
	if err != nil {
		return res, err
	}

	res.FromModel(mechanic)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetMechanicsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".mechanic.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req = model.Sortable.Apply(req)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllMechanic, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for mechanics")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count mechanics")

		return res, fmt.Errorf("failed to count mechanics: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get mechanics")

		return res, fmt.Errorf("failed to get mechanics: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save mechanics to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".mechanic.UpdateProfile")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req == (dto.UpdateProfileRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") //nolint:wrapcheck
	}

	mechanic, err := s.mine(ctx)
	if err != nil {
		return err
	}

	user, _ := shared.Actor(ctx)

	return s.update(ctx, mechanic.ID, shared.TransformFields(req, user))
}

func (s *serviceImpl) SetStatus(ctx context.Context, req dto.UpdateStatusRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".mechanic.SetStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.Status != model.StatusOnline && req.Status != model.StatusOffline {
		return failure.BadRequestFromString("status must be online or offline") //nolint:wrapcheck
	}

	user, _ := shared.Actor(ctx)

	var id string

	// Offer acceptance marks the mechanic busy through an UPDATE on the same row, so the lock
	// orders the two writes and busy is never overwritten.
	err = s.transactor.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		mechanic, err := s.repo.GetForUpdateTx(ctx, tx, shared.FilterByID(user, model.FieldUserID, model.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to lock mechanic profile")

			return fmt.Errorf("failed to lock mechanic profile: %w", err)
		}

		if mechanic.ID == constant.Empty {
			return failure.NotFound("mechanic profile not found") //nolint:wrapcheck
		}

		if mechanic.Status == model.StatusBusy {
			return failure.InvalidState("mechanic is busy with an active booking") //nolint:wrapcheck
		}

		id = mechanic.ID

		err = s.repo.UpdateTx(ctx, tx, map[string]any{
			model.FieldStatus:        req.Status,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: user,
		}, shared.FilterByID(mechanic.ID, model.FieldID, model.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to update mechanic status")

			return fmt.Errorf("failed to update mechanic status: %w", err)
		}

		return nil
	})
	if err != nil {
		return err //nolint:wrapcheck
	}

	s.Invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) UpdateLocation(ctx context.Context, req dto.UpdateLocationRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".mechanic.UpdateLocation")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.Latitude == nil || req.Longitude == nil {
		return failure.BadRequestFromString("latitude and longitude are required") //nolint:wrapcheck
	}

	mechanic, err := s.mine(ctx)
	if err != nil {
		return err
	}

	user, _ := shared.Actor(ctx)

	err = s.update(ctx, mechanic.ID, map[string]any{
		model.FieldLatitude:      *req.Latitude,
		model.FieldLongitude:     *req.Longitude,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	})
	if err != nil {
		return err
	}

	active, err := s.bookingRepo.Get(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: bookingModel.FieldMechanicID, Value: mechanic.ID, Operator: gDto.FilterOperatorEq, Table: bookingModel.TableName},
			gDto.Filter{
				Field:    bookingModel.FieldStatus,
				Value:    []bookingModel.Status{bookingModel.StatusAccepted, bookingModel.StatusInProgress},
				Operator: gDto.FilterOperatorIn,
				Table:    bookingModel.TableName,
			},
		},
		Operator: gDto.FilterGroupOperatorAnd,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to find active booking for location update")

		return nil
	}

	if active.ID != constant.Empty {
		s.publisher.Publish(ctx, event.New(active.ID, event.MechanicLocationUpdated, map[string]any{
			"mechanic_id": mechanic.ID,
			"latitude":    *req.Latitude,
			"longitude":   *req.Longitude,
		}))
	}

	return nil
}

func (s *serviceImpl) Nearby(ctx context.Context, req dto.NearbyRequest) (res []dto.NearbyMechanicResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".mechanic.Nearby")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	mechanics, err := s.repo.GetAll(ctx, gDto.QueryParams{SortBy: model.FieldID, SortDir: gDto.SortDirAsc}, model.AvailableFilter(nil))
	if err != nil {
		log.Error().Err(err).Msg("failed to get available mechanics")

		return nil, fmt.Errorf("failed to get available mechanics: %w", err)
	}

	res = []dto.NearbyMechanicResponse{}

	for _, mechanic := range mechanics {
		if !mechanic.Located() {
			continue
		}

		distance := geo.Haversine(*req.Latitude, *req.Longitude, *mechanic.Latitude, *mechanic.Longitude)
		if distance > req.RadiusKm {
			continue
		}

		item := dto.NearbyMechanicResponse{Distance: geo.Round2(distance)}
		item.FromModel(mechanic)
		res = append(res, item)
	}

	slices.SortStableFunc(res, func(a, b dto.NearbyMechanicResponse) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		default:
			return 0
		}
	})

	return res, nil
}

func (s *serviceImpl) AddListing(ctx context.Context, req dto.AddListingRequest) (res dto.ListingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".mechanic.AddListing")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !req.Price.IsPositive() {
		return res, failure.BadRequestFromString("price must be greater than zero") //nolint:wrapcheck
	}

	mechanic, err := s.mine(ctx)
	if err != nil {
		return res, err
	}

	exist, err := s.catalogRepo.Exist(ctx, shared.FilterByID(req.ServiceID, catalogModel.FieldID, catalogModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if service exists")

		return res, fmt.Errorf("failed to check if service exists: %w", err)
	}

	if !exist {
		return res, failure.NotFound("service not found") //nolint:wrapcheck
	}

	filter := listingFilter(mechanic.ID, req.ServiceID)

	exist, err = s.listingRepo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if listing exists")

		return res, fmt.Errorf("failed to check if listing exists: %w", err)
	}

	if exist {
		return res, failure.Conflict("service already listed by mechanic") //nolint:wrapcheck
	}

	user, _ := shared.Actor(ctx)
	listing := req.ToModel(mechanic.ID, user)

	if err = s.listingRepo.Insert(ctx, listing); err != nil {
		log.Error().Err(err).Msg("failed to add listing")

		return res, fmt.Errorf("failed to add listing: %w", err)
	}

	res.FromModel(listing)

	return res, nil
}

func (s *serviceImpl) RemoveListing(ctx context.Context, serviceID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".mechanic.RemoveListing")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	mechanic, err := s.mine(ctx)
	if err != nil {
		return err
	}

	filter := listingFilter(mechanic.ID, serviceID)

	exist, err := s.listingRepo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if listing exists")

		return fmt.Errorf("failed to check if listing exists: %w", err)
	}

	if !exist {
		return failure.NotFound("listing not found") //nolint:wrapcheck
	}

	if err = s.listingRepo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to remove listing")

		return fmt.Errorf("failed to remove listing: %w", err)
	}

	return nil
}

func (s *serviceImpl) GetListings(ctx context.Context, mechanicID string) (res []dto.ListingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".mechanic.GetListings")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	listings, err := s.listingRepo.GetAll(ctx, gDto.QueryParams{}, shared.FilterByID(mechanicID, model.ListingFieldMechanicID, model.ListingTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get listings")

		return nil, fmt.Errorf("failed to get listings: %w", err)
	}

	res = make([]dto.ListingResponse, len(listings))
	for i, listing := range listings {
		res[i].FromModel(listing)
	}

	return res, nil
}

func (s *serviceImpl) Verify(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".mechanic.Verify")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	mechanic, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get mechanic")

		return fmt.Errorf("failed to get mechanic: %w", err)
	}

	if mechanic.ID == constant.Empty {
		return failure.NotFound("mechanic not found") //nolint:wrapcheck
	}

	if mechanic.IsVerified {
		return failure.Conflict("mechanic already verified") //nolint:wrapcheck
	}

	user, _ := shared.Actor(ctx)

	return s.update(ctx, mechanic.ID, map[string]any{
		model.FieldIsVerified:    true,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	})
}

// mine loads the mechanic profile of the calling user.
func (s *serviceImpl) mine(ctx context.Context) (model.Mechanic, error) {
	user, _ := shared.Actor(ctx)

	mechanic, err := s.repo.Get(ctx, shared.FilterByID(user, model.FieldUserID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get mechanic profile")

		return mechanic, fmt.Errorf("failed to get mechanic profile: %w", err)
	}

	if mechanic.ID == constant.Empty {
		return mechanic, failure.NotFound("mechanic profile not found") //nolint:wrapcheck
	}

	return mechanic, nil
}

func (s *serviceImpl) update(ctx context.Context, id string, fields map[string]any) error {
	if err := s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update mechanic")

		return fmt.Errorf("failed to update mechanic: %w", err)
	}

	s.Invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Invalidate(ctx context.Context, id string) {
	if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetMechanic, id)); err != nil {
		log.Error().Err(err).Msg("failed to delete mechanic from cache")
	}

	shared.InvalidateCaches(ctx, s.cache, cacheGetAllMechanic)
}

func listingFilter(mechanicID, serviceID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: model.ListingFieldMechanicID, Value: mechanicID, Operator: gDto.FilterOperatorEq, Table: model.ListingTableName},
			gDto.Filter{Field: model.ListingFieldServiceID, Value: serviceID, Operator: gDto.FilterOperatorEq, Table: model.ListingTableName},
		},
		Operator: gDto.FilterGroupOperatorAnd,
	}
}
