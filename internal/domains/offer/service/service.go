package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"bengkel/infras/otel"
	bookingModel "bengkel/internal/domains/booking/model"
	bookingService "bengkel/internal/domains/booking/service"
	mechanicModel "bengkel/internal/domains/mechanic/model"
	mechanicRepo "bengkel/internal/domains/mechanic/repository"
	"bengkel/internal/domains/offer/model"
	"bengkel/internal/domains/offer/model/dto"
	"bengkel/internal/domains/offer/repository"
	"bengkel/shared"
	"bengkel/shared/constant"
	gDto "bengkel/shared/dto"
	"bengkel/shared/event"
	"bengkel/shared/failure"
	"bengkel/shared/timezone"
	"bengkel/shared/transaction"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	noteOffered  = "Offer sent to mechanic"
	noteAccepted = "Offer accepted, mechanic assigned"
)

type Manager interface {
	Create(ctx context.Context, bookingID string, req dto.CreateOfferRequest) (dto.OfferResponse, error)
	Respond(ctx context.Context, offerID string, req dto.RespondRequest) (dto.OfferResponse, error)
	GetByBooking(ctx context.Context, bookingID string) ([]dto.OfferResponse, error)

	// Dispatch sends pending offers to candidates inside sqltx, skipping mechanics that already
	// hold a pending offer for the booking. The caller must hold the booking lock.
	Dispatch(ctx context.Context, sqltx *sqlx.Tx, booking bookingModel.Booking, candidates []dto.Candidate, message string) ([]model.Offer, error)
}

type serviceImpl struct {
	repo         repository.Offer
	bookings     bookingService.Lifecycle
	mechanicRepo mechanicRepo.Mechanic
	transactor   transaction.Transactor
	publisher    event.Publisher
	otel         otel.Otel
}

func New(
	repo repository.Offer,
	bookings bookingService.Lifecycle,
	mechanicRepo mechanicRepo.Mechanic,
	transactor transaction.Transactor,
	publisher event.Publisher,
	otel otel.Otel,
) Manager {
	return &serviceImpl{
		repo:         repo,
		bookings:     bookings,
		mechanicRepo: mechanicRepo,
		transactor:   transactor,
		publisher:    publisher,
		otel:         otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, bookingID string, req dto.CreateOfferRequest) (res dto.OfferResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".offer.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !req.Price.IsPositive() {
		return res, failure.BadRequestFromString("price must be greater than zero") //nolint:wrapcheck
	}

	user, role := shared.Actor(ctx)

	mechanicID := req.MechanicID
	if role == constant.RoleMechanic {
		own, err := s.mechanicByUser(ctx, user)
		if err != nil {
			return res, err
		}

		if mechanicID == constant.Empty {
			mechanicID = own.ID
		} else if mechanicID != own.ID {
			return res, failure.Forbidden("mechanics can only make offers for themselves") //nolint:wrapcheck
		}
	}

	if mechanicID == constant.Empty {
		return res, failure.BadRequestFromString("mechanic_id is required") //nolint:wrapcheck
	}

	offer := req.ToModel(bookingID, mechanicID, user)
	events := []event.Event{}

	err = s.transactor.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		booking, err := s.bookings.LockTx(ctx, tx, bookingID)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if err := s.bookings.Authorize(ctx, booking); err != nil {
			return err //nolint:wrapcheck
		}

		mechanic, err := s.mechanicRepo.GetTx(ctx, tx, shared.FilterByID(mechanicID, mechanicModel.FieldID, mechanicModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to get mechanic")

			return fmt.Errorf("failed to get mechanic: %w", err)
		}

		if mechanic.ID == constant.Empty {
			return failure.NotFound("mechanic not found") //nolint:wrapcheck
		}

		if !mechanic.Eligible() {
			return failure.InvalidState("mechanic must be online and verified to receive offers") //nolint:wrapcheck
		}

		if !booking.Status.Offerable() {
			return failure.InvalidState(fmt.Sprintf("booking is %s and no longer takes offers", booking.Status)) //nolint:wrapcheck
		}

		exist, err := s.repo.ExistTx(ctx, tx, model.PendingFilter(bookingID, mechanicID))
		if err != nil {
			log.Error().Err(err).Msg("failed to check pending offer")

			return fmt.Errorf("failed to check pending offer: %w", err)
		}

		if exist {
			return failure.Conflict("mechanic already has a pending offer for this booking") //nolint:wrapcheck
		}

		if err := s.repo.InsertTx(ctx, tx, offer); err != nil {
			log.Error().Err(err).Msg("failed to create offer")

			return fmt.Errorf("failed to create offer: %w", err)
		}

		res.FromModel(offer)
		events = append(events, event.New(bookingID, event.OfferCreated, res))

		if booking.Status != bookingModel.StatusPending {
			return nil
		}

		changed, err := s.bookings.TransitionTx(ctx, tx, booking, bookingModel.StatusOffered, nil, noteOffered)
		if err != nil {
			return err //nolint:wrapcheck
		}

		events = append(events, changed)

		return nil
	})
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	s.publisher.Publish(ctx, events...)
	s.bookings.Invalidate(ctx, bookingID)

	return res, nil
}

func (s *serviceImpl) Respond(ctx context.Context, offerID string, req dto.RespondRequest) (res dto.OfferResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".offer.Respond")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.Status != model.StatusAccepted && req.Status != model.StatusRejected {
		return res, failure.BadRequestFromString("status must be accepted or rejected") //nolint:wrapcheck
	}

	filter := shared.FilterByID(offerID, model.FieldID, model.TableName)

	found, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get offer")

		return res, fmt.Errorf("failed to get offer: %w", err)
	}

	if found.ID == constant.Empty {
		return res, failure.NotFound("offer not found") //nolint:wrapcheck
	}

	user, _ := shared.Actor(ctx)
	events := []event.Event{}

	// Booking before offer, the same order Create and Dispatch take, so racing acceptances queue on the booking.
	err = s.transactor.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		booking, err := s.bookings.LockTx(ctx, tx, found.BookingID)
		if err != nil {
			return err //nolint:wrapcheck
		}

		offer, err := s.repo.GetForUpdateTx(ctx, tx, filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to lock offer")

			return fmt.Errorf("failed to lock offer: %w", err)
		}

		if offer.ID == constant.Empty {
			return failure.NotFound("offer not found") //nolint:wrapcheck
		}

		if err := s.authorize(ctx, tx, offer); err != nil {
			return err
		}

		if offer.Status != model.StatusPending {
			return failure.InvalidState(fmt.Sprintf("offer is already %s", offer.Status)) //nolint:wrapcheck
		}

		now := timezone.Now()

		if req.Status == model.StatusAccepted {
			if offer.Expired(now) {
				return failure.InvalidState("offer has expired") //nolint:wrapcheck
			}

			if booking.AssignedMechanic() != constant.Empty {
				return failure.InvalidState("booking already has an assigned mechanic") //nolint:wrapcheck
			}

			changed, err := s.bookings.TransitionTx(ctx, tx, booking, bookingModel.StatusAccepted, map[string]any{
				bookingModel.FieldMechanicID:     offer.MechanicID,
				bookingModel.FieldEstimatedPrice: offer.Price,
			}, noteAccepted)
			if err != nil {
				return err //nolint:wrapcheck
			}

			events = append(events, changed)
		}

		offer.Status = req.Status
		offer.RespondedAt = &now
		offer.ModifiedAt = now
		offer.ModifiedBy = user

		if err := s.repo.UpdateTx(ctx, tx, resolution(offer.Status, now, user), filter); err != nil {
			log.Error().Err(err).Msg("failed to respond to offer")

			return fmt.Errorf("failed to respond to offer: %w", err)
		}

		res.FromModel(offer)

		if offer.Status == model.StatusRejected {
			return nil
		}

		err = s.repo.UpdateTx(ctx, tx, resolution(model.StatusRejected, now, user), model.SiblingsFilter(offer.BookingID, offer.ID))
		if err != nil {
			log.Error().Err(err).Msg("failed to reject sibling offers")

			return fmt.Errorf("failed to reject sibling offers: %w", err)
		}

		err = s.mechanicRepo.UpdateTx(ctx, tx, map[string]any{
			mechanicModel.FieldStatus: mechanicModel.StatusBusy,
			constant.FieldModifiedAt:  now,
			constant.FieldModifiedBy:  user,
		}, shared.FilterByID(offer.MechanicID, mechanicModel.FieldID, mechanicModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to mark mechanic busy")

			return fmt.Errorf("failed to mark mechanic busy: %w", err)
		}

		return nil
	})
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	s.publisher.Publish(ctx, append([]event.Event{event.New(found.BookingID, event.OfferResponded, res)}, events...)...)

	if req.Status == model.StatusAccepted {
		s.bookings.Invalidate(ctx, found.BookingID)
	}

	return res, nil
}

func (s *serviceImpl) GetByBooking(ctx context.Context, bookingID string) (res []dto.OfferResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".offer.GetByBooking")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if _, err = s.bookings.Get(ctx, bookingID); err != nil {
		return nil, err //nolint:wrapcheck
	}

	offers, err := s.repo.GetAll(
		ctx,
		gDto.QueryParams{SortBy: constant.FieldCreatedAt, SortDir: gDto.SortDirAsc},
		shared.FilterByID(bookingID, model.FieldBookingID, model.TableName),
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to get offers")

		return nil, fmt.Errorf("failed to get offers: %w", err)
	}

	return dto.FromModels(offers), nil
}

func (s *serviceImpl) Dispatch(
	ctx context.Context,
	sqltx *sqlx.Tx,
	booking bookingModel.Booking,
	candidates []dto.Candidate,
	message string,
) (offers []model.Offer, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".offer.Dispatch")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if len(candidates) == 0 {
		return nil, nil
	}

	ids := make([]string, len(candidates))
	for i, candidate := range candidates {
		ids[i] = candidate.MechanicID
	}

	pending, err := s.repo.GetAllTx(ctx, sqltx, gDto.QueryParams{}, gDto.FilterGroup{
		Filters: []any{
			model.PendingFilter(booking.ID, constant.Empty),
			gDto.Filter{Field: model.FieldMechanicID, Value: ids, Operator: gDto.FilterOperatorIn, Table: model.TableName},
		},
		Operator: gDto.FilterGroupOperatorAnd,
	}, model.FieldMechanicID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get pending offers")

		return nil, fmt.Errorf("failed to get pending offers: %w", err)
	}

	skip := make(map[string]struct{}, len(pending))
	for _, offer := range pending {
		skip[offer.MechanicID] = struct{}{}
	}

	user, _ := shared.Actor(ctx)

	for _, candidate := range candidates {
		if _, ok := skip[candidate.MechanicID]; ok {
			continue
		}

		offers = append(offers, candidate.ToModel(booking.ID, message, user))
	}

	if len(offers) == 0 {
		return nil, nil
	}

	if err = s.repo.InsertBulkTx(ctx, sqltx, offers); err != nil {
		log.Error().Err(err).Msg("failed to dispatch offers")

		return nil, fmt.Errorf("failed to dispatch offers: %w", err)
	}

	return offers, nil
}

// authorize lets the offered mechanic and privileged actors answer an offer.
func (s *serviceImpl) authorize(ctx context.Context, sqltx *sqlx.Tx, offer model.Offer) error {
	user, role := shared.Actor(ctx)
	if shared.IsPrivileged(role) {
		return nil
	}

	if role == constant.RoleMechanic {
		mechanic, err := s.mechanicRepo.GetTx(ctx, sqltx, shared.FilterByID(user, mechanicModel.FieldUserID, mechanicModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to get mechanic profile")

			return fmt.Errorf("failed to get mechanic profile: %w", err)
		}

		if mechanic.ID == offer.MechanicID {
			return nil
		}
	}

	return failure.Forbidden("only the offered mechanic can respond to this offer") //nolint:wrapcheck
}

func (s *serviceImpl) mechanicByUser(ctx context.Context, user string) (mechanicModel.Mechanic, error) {
	mechanic, err := s.mechanicRepo.Get(ctx, shared.FilterByID(user, mechanicModel.FieldUserID, mechanicModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get mechanic profile")

		return mechanic, fmt.Errorf("failed to get mechanic profile: %w", err)
	}

	if mechanic.ID == constant.Empty {
		return mechanic, failure.NotFound("mechanic profile not found") //nolint:wrapcheck
	}

	return mechanic, nil
}

func resolution(status string, now time.Time, user string) map[string]any {
	return map[string]any{
		model.FieldStatus:        status,
		model.FieldRespondedAt:   now,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: user,
	}
}
