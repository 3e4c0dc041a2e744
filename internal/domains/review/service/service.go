package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"bengkel/infras/otel"
	bookingModel "bengkel/internal/domains/booking/model"
	bookingService "bengkel/internal/domains/booking/service"
	mechanicModel "bengkel/internal/domains/mechanic/model"
	mechanicRepo "bengkel/internal/domains/mechanic/repository"
	"bengkel/internal/domains/review/model"
	"bengkel/internal/domains/review/model/dto"
	"bengkel/internal/domains/review/repository"
	workshopModel "bengkel/internal/domains/workshop/model"
	workshopRepo "bengkel/internal/domains/workshop/repository"
	"bengkel/shared"
	"bengkel/shared/constant"
	gDto "bengkel/shared/dto"
	"bengkel/shared/failure"
	"bengkel/shared/timezone"
	"bengkel/shared/transaction"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type Reviewer interface {
	Create(ctx context.Context, req dto.CreateReviewRequest) (dto.ReviewResponse, error)
	GetByMechanic(ctx context.Context, mechanicID string, req gDto.QueryParams) (dto.GetReviewsResponse, error)
	GetByWorkshop(ctx context.Context, workshopID string, req gDto.QueryParams) (dto.GetReviewsResponse, error)
}

type serviceImpl struct {
	repo         repository.Review
	bookings     bookingService.Lifecycle
	mechanicRepo mechanicRepo.Mechanic
	workshopRepo workshopRepo.Workshop
	transactor   transaction.Transactor
	otel         otel.Otel
}

func New(
	repo repository.Review,
	bookings bookingService.Lifecycle,
	mechanicRepo mechanicRepo.Mechanic,
	workshopRepo workshopRepo.Workshop,
	transactor transaction.Transactor,
	otel otel.Otel,
) Reviewer {
	return &serviceImpl{
		repo:         repo,
		bookings:     bookings,
		mechanicRepo: mechanicRepo,
		workshopRepo: workshopRepo,
		transactor:   transactor,
		otel:         otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateReviewRequest) (res dto.ReviewResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".review.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.Rating < 1 || req.Rating > 5 {
		return res, failure.BadRequestFromString("rating must be between 1 and 5") //nolint:wrapcheck
	}

	user, _ := shared.Actor(ctx)

	err = s.transactor.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		booking, err := s.bookings.LockTx(ctx, tx, req.BookingID)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if booking.UserID != user {
			return failure.Forbidden("you can only review your own bookings") //nolint:wrapcheck
		}

		if booking.Status != bookingModel.StatusCompleted {
			return failure.InvalidState("can only review completed bookings") //nolint:wrapcheck
		}

		exist, err := s.repo.ExistTx(ctx, tx, shared.FilterByID(booking.ID, model.FieldBookingID, model.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to check existing review")

			return fmt.Errorf("failed to check existing review: %w", err)
		}

		if exist {
			return failure.Conflict("review already exists for this booking") //nolint:wrapcheck
		}

		review := req.ToModel(user, booking.MechanicID, booking.WorkshopID)
		if err := s.repo.InsertTx(ctx, tx, review); err != nil {
			log.Error().Err(err).Msg("failed to create review")

			return fmt.Errorf("failed to create review: %w", err)
		}

		if review.MechanicID != nil {
			if err := s.rateMechanicTx(ctx, tx, *review.MechanicID, user); err != nil {
				return err
			}
		}

		if review.WorkshopID != nil {
			if err := s.rateWorkshopTx(ctx, tx, *review.WorkshopID, user); err != nil {
				return err
			}
		}

		res.FromModel(review)

		return nil
	})
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	return res, nil
}

func (s *serviceImpl) rateMechanicTx(ctx context.Context, tx *sqlx.Tx, id, user string) error {
	filter := shared.FilterByID(id, mechanicModel.FieldID, mechanicModel.TableName)

	mechanic, err := s.mechanicRepo.GetForUpdateTx(ctx, tx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to lock mechanic")

		return fmt.Errorf("failed to lock mechanic: %w", err)
	}

	if mechanic.ID == constant.Empty {
		return nil
	}

	stats, err := s.repo.StatsTx(ctx, tx, model.FieldMechanicID, id)
	if err != nil {
		return fmt.Errorf("failed to recalculate mechanic rating: %w", err)
	}

	now := timezone.Now()

	err = s.mechanicRepo.UpdateTx(ctx, tx, map[string]any{
		mechanicModel.FieldRating:       stats.Rating(),
		mechanicModel.FieldTotalReviews: stats.Total,
		constant.FieldModifiedAt:        now,
		constant.FieldModifiedBy:        user,
	}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to update mechanic rating")

		return fmt.Errorf("failed to update mechanic rating: %w", err)
	}

	return nil
}

func (s *serviceImpl) rateWorkshopTx(ctx context.Context, tx *sqlx.Tx, id, user string) error {
	filter := shared.FilterByID(id, workshopModel.FieldID, workshopModel.TableName)

	workshop, err := s.workshopRepo.GetForUpdateTx(ctx, tx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to lock workshop")

		return fmt.Errorf("failed to lock workshop: %w", err)
	}

	if workshop.ID == constant.Empty {
		return nil
	}

	stats, err := s.repo.StatsTx(ctx, tx, model.FieldWorkshopID, id)
	if err != nil {
		return fmt.Errorf("failed to recalculate workshop rating: %w", err)
	}

	now := timezone.Now()

	err = s.workshopRepo.UpdateTx(ctx, tx, map[string]any{
		workshopModel.FieldRating:       stats.Rating(),
		workshopModel.FieldTotalReviews: stats.Total,
		constant.FieldModifiedAt:        now,
		constant.FieldModifiedBy:        user,
	}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to update workshop rating")

		return fmt.Errorf("failed to update workshop rating: %w", err)
	}

	return nil
}

func (s *serviceImpl) GetByMechanic(ctx context.Context, mechanicID string, req gDto.QueryParams) (res dto.GetReviewsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".review.GetByMechanic")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.list(ctx, req, shared.FilterByID(mechanicID, model.FieldMechanicID, model.TableName))
}

func (s *serviceImpl) GetByWorkshop(ctx context.Context, workshopID string, req gDto.QueryParams) (res dto.GetReviewsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".review.GetByWorkshop")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.list(ctx, req, shared.FilterByID(workshopID, model.FieldWorkshopID, model.TableName))
}

func (s *serviceImpl) list(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetReviewsResponse, err error) {
	req.SortBy = constant.FieldCreatedAt
	req.SortDir = gDto.SortDirDesc

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reviews")

		return res, fmt.Errorf("failed to count reviews: %w", err)
	}

	reviews, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reviews")

		return res, fmt.Errorf("failed to get reviews: %w", err)
	}

	res.FromModels(reviews, total, req.Limit)

	return res, nil
}
