package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"bengkel/infras/otel"
	mechanicModel "bengkel/internal/domains/mechanic/model"
	mechanicRepo "bengkel/internal/domains/mechanic/repository"
	mechanicService "bengkel/internal/domains/mechanic/service"
	"bengkel/internal/domains/verification/model"
	"bengkel/internal/domains/verification/model/dto"
	"bengkel/internal/domains/verification/repository"
	"bengkel/shared"
	"bengkel/shared/constant"
	"bengkel/shared/failure"
	"bengkel/shared/timezone"
	"bengkel/shared/transaction"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type Verifier interface {
	// Submit files the calling mechanic's documents for review. A rejected submission is replaced.
	Submit(ctx context.Context, req dto.SubmitRequest) (dto.VerificationResponse, error)
	GetByMechanic(ctx context.Context, mechanicID string) (dto.VerificationResponse, error)
	// Review approves or rejects a pending submission. Approval marks the mechanic verified.
	Review(ctx context.Context, id string, req dto.ReviewRequest) (dto.VerificationResponse, error)
}

type serviceImpl struct {
	repo         repository.Verification
	mechanicRepo mechanicRepo.Mechanic
	mechanics    mechanicService.Profile
	transactor   transaction.Transactor
	otel         otel.Otel
}

func New(
	repo repository.Verification,
	mechanicRepo mechanicRepo.Mechanic,
	mechanics mechanicService.Profile,
	transactor transaction.Transactor,
	otel otel.Otel,
) Verifier {
	return &serviceImpl{
		repo:         repo,
		mechanicRepo: mechanicRepo,
		mechanics:    mechanics,
		transactor:   transactor,
		otel:         otel,
	}
}

func (s *serviceImpl) Submit(ctx context.Context, req dto.SubmitRequest) (res dto.VerificationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".verification.Submit")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	mechanic, err := s.mechanics.GetMine(ctx)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	if mechanic.IsVerified {
		return res, failure.Conflict("mechanic already verified") //nolint:wrapcheck
	}

	user, _ := shared.Actor(ctx)
	verification := req.ToModel(mechanic.ID, user)
	filter := shared.FilterByID(mechanic.ID, model.FieldMechanicID, model.TableName)

	err = s.transactor.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		existing, err := s.repo.GetForUpdateTx(ctx, tx, filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to lock verification")

			return fmt.Errorf("failed to lock verification: %w", err)
		}

		switch existing.Status {
		case model.StatusPending:
			return failure.Conflict("verification already pending review") //nolint:wrapcheck
		case model.StatusApproved:
			return failure.Conflict("mechanic already verified") //nolint:wrapcheck
		case model.StatusRejected:
			if err = s.repo.DeleteTx(ctx, tx, shared.FilterByID(existing.ID, model.FieldID, model.TableName)); err != nil {
				log.Error().Err(err).Msg("failed to remove rejected verification")

				return fmt.Errorf("failed to remove rejected verification: %w", err)
			}
		}

		if err = s.repo.InsertTx(ctx, tx, verification); err != nil {
			log.Error().Err(err).Msg("failed to insert verification")

			return fmt.Errorf("failed to insert verification: %w", err)
		}

		return nil
	})
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	res.FromModel(verification)

	return res, nil
}

func (s *serviceImpl) GetByMechanic(ctx context.Context, mechanicID string) (res dto.VerificationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".verification.GetByMechanic")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if _, role := shared.Actor(ctx); !shared.IsPrivileged(role) {
		mechanic, err := s.mechanics.GetMine(ctx)
		if err != nil {
			return res, err //nolint:wrapcheck
		}

		if mechanic.ID != mechanicID {
			return res, failure.Forbidden("verification belongs to another mechanic") //nolint:wrapcheck
		}
	}

	verification, err := s.repo.Get(ctx, shared.FilterByID(mechanicID, model.FieldMechanicID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get verification")

		return res, fmt.Errorf("failed to get verification: %w", err)
	}

	if verification.ID == constant.Empty {
		return res, failure.NotFound("verification not found") //nolint:wrapcheck
	}

	res.FromModel(verification)

	return res, nil
}

func (s *serviceImpl) Review(ctx context.Context, id string, req dto.ReviewRequest) (res dto.VerificationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".verification.Review")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, role := shared.Actor(ctx)
	if !shared.IsPrivileged(role) {
		return res, failure.Forbidden("only admins can review verifications") //nolint:wrapcheck
	}

	switch req.Status {
	case model.StatusApproved:
	case model.StatusRejected:
		if req.RejectionReason == constant.Empty {
			return res, failure.BadRequestFromString("rejection reason is required") //nolint:wrapcheck
		}
	default:
		return res, failure.BadRequestFromString("status must be approved or rejected") //nolint:wrapcheck
	}

	var verification model.Verification

	err = s.transactor.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		filter := shared.FilterByID(id, model.FieldID, model.TableName)

		verification, err = s.repo.GetForUpdateTx(ctx, tx, filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to lock verification")

			return fmt.Errorf("failed to lock verification: %w", err)
		}

		if verification.ID == constant.Empty {
			return failure.NotFound("verification not found") //nolint:wrapcheck
		}

		if verification.Status != model.StatusPending {
			return failure.InvalidState("verification has already been reviewed") //nolint:wrapcheck
		}

		now := timezone.Now()
		fields := map[string]any{
			model.FieldStatus:        req.Status,
			model.FieldReviewedBy:    user,
			model.FieldReviewedAt:    now,
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: user,
		}

		if req.Status == model.StatusRejected {
			fields[model.FieldRejectionReason] = req.RejectionReason
			verification.RejectionReason = &req.RejectionReason
		}

		if err = s.repo.UpdateTx(ctx, tx, fields, filter); err != nil {
			log.Error().Err(err).Msg("failed to update verification")

			return fmt.Errorf("failed to update verification: %w", err)
		}

		verification.Status = req.Status
		verification.ReviewedBy = &user
		verification.ReviewedAt = &now
		verification.ModifiedAt = now
		verification.ModifiedBy = user

		if req.Status != model.StatusApproved {
			return nil
		}

		err = s.mechanicRepo.UpdateTx(ctx, tx, map[string]any{
			mechanicModel.FieldIsVerified: true,
			constant.FieldModifiedAt:      now,
			constant.FieldModifiedBy:      user,
		}, shared.FilterByID(verification.MechanicID, mechanicModel.FieldID, mechanicModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to mark mechanic verified")

			return fmt.Errorf("failed to mark mechanic verified: %w", err)
		}

		return nil
	})
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	s.mechanics.Invalidate(ctx, verification.MechanicID)

	res.FromModel(verification)

	return res, nil
}
