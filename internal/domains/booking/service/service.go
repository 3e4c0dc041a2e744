package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"maps"

	"bengkel/config"
	"bengkel/infras/otel"
	"bengkel/internal/domains/booking/model"
	"bengkel/internal/domains/booking/model/dto"
	"bengkel/internal/domains/booking/repository"
	catalogModel "bengkel/internal/domains/catalog/model"
	catalogRepo "bengkel/internal/domains/catalog/repository"
	mechanicModel "bengkel/internal/domains/mechanic/model"
	mechanicRepo "bengkel/internal/domains/mechanic/repository"
	workshopModel "bengkel/internal/domains/workshop/model"
	workshopRepo "bengkel/internal/domains/workshop/repository"
	"bengkel/shared"
	"bengkel/shared/cache"
	"bengkel/shared/constant"
	gDto "bengkel/shared/dto"
	"bengkel/shared/event"
	"bengkel/shared/failure"
	"bengkel/shared/timezone"
	"bengkel/shared/transaction"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
)

const noteCreated = "Booking created"

type Lifecycle interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	GetHistory(ctx context.Context, id string) ([]dto.HistoryResponse, error)
	UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest) error
	SetFinalPrice(ctx context.Context, id string, req dto.SetFinalPriceRequest) error

	// Authorize fails with Forbidden unless the actor in ctx may see booking. Any mechanic may
	// see a booking that is still open to offers.
	Authorize(ctx context.Context, booking model.Booking) error
	// AuthorizeWrite fails with Forbidden unless the actor in ctx is the booking's owner, its
	// assigned mechanic, its workshop owner or a privileged actor.
	AuthorizeWrite(ctx context.Context, booking model.Booking) error
	// LockTx reads the booking and holds its row lock for the rest of sqltx.
	LockTx(ctx context.Context, sqltx *sqlx.Tx, id string) (model.Booking, error)
	// TransitionTx moves a locked booking to next, writing fields alongside and appending history.
	TransitionTx(ctx context.Context, sqltx *sqlx.Tx, booking model.Booking, next model.Status, fields map[string]any, note string) (event.Event, error)
	Invalidate(ctx context.Context, id string)
}

type serviceImpl struct {
	repo         repository.Booking
	historyRepo  repository.History
	catalogRepo  catalogRepo.Service
	mechanicRepo mechanicRepo.Mechanic
	workshopRepo workshopRepo.Workshop
	transactor   transaction.Transactor
	publisher    event.Publisher
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(
	repo repository.Booking,
	historyRepo repository.History,
	catalogRepo catalogRepo.Service,
	mechanicRepo mechanicRepo.Mechanic,
	workshopRepo workshopRepo.Workshop,
	transactor transaction.Transactor,
	publisher event.Publisher,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Lifecycle {
	return &serviceImpl{
		repo:         repo,
		historyRepo:  historyRepo,
		catalogRepo:  catalogRepo,
		mechanicRepo: mechanicRepo,
		workshopRepo: workshopRepo,
		transactor:   transactor,
		publisher:    publisher,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.BookingType == model.TypeScheduled && req.ScheduledAt == constant.Empty {
		return res, failure.BadRequestFromString("scheduled_at is required for scheduled bookings") //nolint:wrapcheck
	}

	svc, err := s.catalogRepo.Get(ctx, shared.FilterByID(req.ServiceID, catalogModel.FieldID, catalogModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get service")

		return res, fmt.Errorf("failed to get service: %w", err)
	}

	if svc.ID == constant.Empty || !svc.IsActive {
		return res, failure.NotFound("service not found") //nolint:wrapcheck
	}

	if req.WorkshopID != constant.Empty {
		workshop, err := s.workshopRepo.Get(ctx, shared.FilterByID(req.WorkshopID, workshopModel.FieldID, workshopModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to get workshop")

			return res, fmt.Errorf("failed to get workshop: %w", err)
		}

		if workshop.ID == constant.Empty {
			return res, failure.NotFound("workshop not found") //nolint:wrapcheck
		}
	}

	user, _ := shared.Actor(ctx)

	booking, err := req.ToModel(user, svc.BasePrice)
	if err != nil {
		return res, failure.BadRequestFromString(fmt.Sprintf("invalid scheduled_at: %v", err)) //nolint:wrapcheck
	}

	err = s.transactor.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		if err := s.repo.InsertTx(ctx, tx, booking); err != nil {
			log.Error().Err(err).Msg("failed to create booking")

			return fmt.Errorf("failed to create booking: %w", err)
		}

		return s.appendHistoryTx(ctx, tx, booking.ID, model.StatusPending, noteCreated)
	})
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	res.FromModel(booking)

	s.publisher.Publish(ctx, event.New(booking.ID, event.BookingCreated, res))

	shared.InvalidateCaches(ctx, s.cache, cacheGetAllBooking)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if err = s.Authorize(ctx, booking); err != nil {
		return res, err
	}

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req = model.Sortable.Apply(req)

	scoped, ok, err := s.scope(ctx)
	if err != nil {
		return res, err
	}

	if !ok {
		res.FromModels(nil, 0, req.Limit)

		return res, nil
	}

	if scoped != nil {
		if len(filter.Filters) > 0 {
			filter = gDto.FilterGroup{Filters: []any{filter, *scoped}, Operator: gDto.FilterGroupOperatorAnd}
		} else {
			filter = *scoped
		}
	}

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	if err := s.cache.Save(ctx, cacheKey, res, s.cfg.Cache.TTL); err != nil {
		log.Error().Err(err).Msg("failed to save bookings to cache")
	}

	return res, nil
}

func (s *serviceImpl) GetHistory(ctx context.Context, id string) (res []dto.HistoryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetHistory")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if err = s.Authorize(ctx, booking); err != nil {
		return nil, err
	}

	histories, err := s.historyRepo.GetAll(
		ctx,
		gDto.QueryParams{SortBy: model.HistoryFieldCreatedAt, SortDir: gDto.SortDirAsc},
		shared.FilterByID(id, model.HistoryFieldBookingID, model.HistoryTableName),
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking history")

		return nil, fmt.Errorf("failed to get booking history: %w", err)
	}

	res = make([]dto.HistoryResponse, len(histories))
	for i, history := range histories {
		res[i].FromModel(history)
	}

	return res, nil
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.UpdateStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	next := model.Status(req.Status)
	if !next.DirectlySettable() {
		return failure.BadRequestFromString(fmt.Sprintf("status %q cannot be set directly", req.Status)) //nolint:wrapcheck
	}

	user, _ := shared.Actor(ctx)

	var changed event.Event

	err = s.transactor.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		booking, err := s.LockTx(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := s.AuthorizeWrite(ctx, booking); err != nil {
			return err
		}

		now := timezone.Now()
		fields := map[string]any{}

		switch next {
		case model.StatusCompleted:
			fields[model.FieldCompletedAt] = now
		case model.StatusCancelled:
			fields[model.FieldCancelledAt] = now
			fields[model.FieldCancellationReason] = shared.NullableString(req.CancellationReason)
		}

		changed, err = s.TransitionTx(ctx, tx, booking, next, fields, req.Note)
		if err != nil {
			return err
		}

		mechanicID := booking.AssignedMechanic()
		if mechanicID == constant.Empty {
			return nil
		}

		switch next {
		case model.StatusCompleted:
			err = s.mechanicRepo.CompleteJobTx(ctx, tx, mechanicID, user)
		case model.StatusCancelled:
			err = s.mechanicRepo.UpdateTx(ctx, tx, map[string]any{
				mechanicModel.FieldStatus: mechanicModel.StatusOnline,
				constant.FieldModifiedAt:  now,
				constant.FieldModifiedBy:  user,
			}, shared.FilterByID(mechanicID, mechanicModel.FieldID, mechanicModel.TableName))
		}

		if err != nil {
			log.Error().Err(err).Msg("failed to release mechanic")

			return fmt.Errorf("failed to release mechanic: %w", err)
		}

		return nil
	})
	if err != nil {
		return err //nolint:wrapcheck
	}

	s.publisher.Publish(ctx, changed)
	s.Invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) SetFinalPrice(ctx context.Context, id string, req dto.SetFinalPriceRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.SetFinalPrice")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !req.FinalPrice.IsPositive() {
		return failure.BadRequestFromString("final price must be greater than zero") //nolint:wrapcheck
	}

	user, _ := shared.Actor(ctx)

	err = s.transactor.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		booking, err := s.LockTx(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := s.AuthorizeWrite(ctx, booking); err != nil {
			return err
		}

		err = s.repo.UpdateTx(ctx, tx, map[string]any{
			model.FieldFinalPrice:    req.FinalPrice,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: user,
		}, shared.FilterByID(id, model.FieldID, model.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to set final price")

			return fmt.Errorf("failed to set final price: %w", err)
		}

		return nil
	})
	if err != nil {
		return err //nolint:wrapcheck
	}

	s.Invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Authorize(ctx context.Context, booking model.Booking) error {
	return s.authorize(ctx, booking, false)
}

func (s *serviceImpl) AuthorizeWrite(ctx context.Context, booking model.Booking) error {
	return s.authorize(ctx, booking, true)
}

func (s *serviceImpl) authorize(ctx context.Context, booking model.Booking, write bool) error {
	user, role := shared.Actor(ctx)

	switch {
	case shared.IsPrivileged(role):
		return nil
	case role == constant.RoleUser:
		if booking.UserID == user {
			return nil
		}
	case role == constant.RoleMechanic:
		mechanicID := booking.AssignedMechanic()
		if mechanicID == constant.Empty {
			if !write && booking.Status.Offerable() {
				return nil
			}

			break
		}

		mechanic, err := s.mechanicRepo.Get(ctx, shared.FilterByID(mechanicID, mechanicModel.FieldID, mechanicModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to get assigned mechanic")

			return fmt.Errorf("failed to get assigned mechanic: %w", err)
		}

		if mechanic.UserID == user {
			return nil
		}
	case role == constant.RoleWorkshopOwner:
		if booking.WorkshopID == nil {
			break
		}

		workshop, err := s.workshopRepo.Get(ctx, shared.FilterByID(*booking.WorkshopID, workshopModel.FieldID, workshopModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to get booking workshop")

			return fmt.Errorf("failed to get booking workshop: %w", err)
		}

		if workshop.UserID == user {
			return nil
		}
	}

	return failure.Forbidden("you do not have access to this booking") //nolint:wrapcheck
}

func (s *serviceImpl) LockTx(ctx context.Context, sqltx *sqlx.Tx, id string) (model.Booking, error) {
	booking, err := s.repo.GetForUpdateTx(ctx, sqltx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to lock booking")

		return booking, fmt.Errorf("failed to lock booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") //nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) TransitionTx(
	ctx context.Context,
	sqltx *sqlx.Tx,
	booking model.Booking,
	next model.Status,
	fields map[string]any,
	note string,
) (event.Event, error) {
	if !booking.Status.CanTransitionTo(next) {
		return event.Event{}, failure.InvalidState(fmt.Sprintf("booking cannot move from %s to %s", booking.Status, next)) //nolint:wrapcheck
	}

	user, _ := shared.Actor(ctx)

	mod := map[string]any{
		model.FieldStatus:        next,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}
	maps.Copy(mod, fields)

	if err := s.repo.UpdateTx(ctx, sqltx, mod, shared.FilterByID(booking.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update booking status")

		return event.Event{}, fmt.Errorf("failed to update booking status: %w", err)
	}

	if err := s.appendHistoryTx(ctx, sqltx, booking.ID, next, note); err != nil {
		return event.Event{}, err
	}

	return event.New(booking.ID, event.BookingStatusChanged, dto.StatusChanged{
		From:      booking.Status.String(),
		To:        next.String(),
		Note:      shared.NullableString(note),
		ChangedBy: shared.NullableString(user),
	}), nil
}

// Invalidate drops the cached booking and booking lists. Callers run it after their commit and
// before returning, so the next read sees the committed row.
func (s *serviceImpl) Invalidate(ctx context.Context, id string) {
	c := context.WithoutCancel(ctx)

	if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
		log.Error().Err(err).Msg("failed to delete booking from cache")
	}

	shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
}

// find reads a booking through the cache; the cached value is the row itself so Authorize can run on it.
// Writes never authorize through find, they lock the row with LockTx instead.
func (s *serviceImpl) find(ctx context.Context, id string) (booking model.Booking, err error) {
	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	if err = s.cache.Get(ctx, cacheKey, &booking); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return booking, nil
	}

	booking, err = s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") //nolint:wrapcheck
	}

	if err := s.cache.Save(ctx, cacheKey, booking, s.cfg.Cache.TTL); err != nil {
		log.Error().Err(err).Msg("failed to save booking to cache")
	}

	return booking, nil
}

// scope narrows list queries to what the actor may see. ok is false when the actor can see nothing.
func (s *serviceImpl) scope(ctx context.Context) (filter *gDto.FilterGroup, ok bool, err error) {
	user, role := shared.Actor(ctx)

	switch role {
	case constant.RoleAdmin, constant.RoleSystem:
		return nil, true, nil
	case constant.RoleUser:
		scoped := shared.FilterByID(user, model.FieldUserID, model.TableName)

		return &scoped, true, nil
	case constant.RoleMechanic:
		mechanic, err := s.mechanicRepo.Get(ctx, shared.FilterByID(user, mechanicModel.FieldUserID, mechanicModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to get mechanic profile")

			return nil, false, fmt.Errorf("failed to get mechanic profile: %w", err)
		}

		if mechanic.ID == constant.Empty {
			return nil, false, nil
		}

		scoped := shared.FilterByID(mechanic.ID, model.FieldMechanicID, model.TableName)

		return &scoped, true, nil
	case constant.RoleWorkshopOwner:
		workshop, err := s.workshopRepo.Get(ctx, shared.FilterByID(user, workshopModel.FieldUserID, workshopModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to get workshop")

			return nil, false, fmt.Errorf("failed to get workshop: %w", err)
		}

		if workshop.ID == constant.Empty {
			return nil, false, nil
		}

		scoped := shared.FilterByID(workshop.ID, model.FieldWorkshopID, model.TableName)

		return &scoped, true, nil
	default:
		return nil, false, failure.Forbidden("unknown role") //nolint:wrapcheck
	}
}

func (s *serviceImpl) appendHistoryTx(ctx context.Context, sqltx *sqlx.Tx, bookingID string, status model.Status, note string) error {
	user, _ := shared.Actor(ctx)

	history := model.History{
		ID:        uuid.NewString(),
		BookingID: bookingID,
		Status:    status,
		Note:      shared.NullableString(note),
		ChangedBy: shared.NullableString(user),
		CreatedAt: timezone.Now(),
	}

	if err := s.historyRepo.InsertTx(ctx, sqltx, history); err != nil {
		log.Error().Err(err).Msg("failed to append booking history")

		return fmt.Errorf("failed to append booking history: %w", err)
	}

	return nil
}
