package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"bengkel/infras/otel"
	"bengkel/infras/postgres"
	"bengkel/internal/domains/review/model"
	"bengkel/shared/constant"
	gDto "bengkel/shared/dto"
	"bengkel/shared/logger"
	gRepo "bengkel/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Review interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Review) error
	ExistTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (bool, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Review, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	// StatsTx averages the ratings of every review whose column equals id; column is
	// model.FieldMechanicID or model.FieldWorkshopID.
	StatsTx(ctx context.Context, sqltx *sqlx.Tx, column, id string) (model.Stats, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Review]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Review {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Review](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

func (r *repositoryImpl) StatsTx(ctx context.Context, sqltx *sqlx.Tx, column, id string) (model.Stats, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".review.StatsTx")
	defer scope.End()

	var stats model.Stats

	if column != model.FieldMechanicID && column != model.FieldWorkshopID {
		return stats, fmt.Errorf("cannot aggregate reviews by %q", column)
	}

	query := fmt.Sprintf(
		"SELECT COALESCE(AVG(%s), 0) AS average, COUNT(%s) AS total FROM %s WHERE %s = :id",
		model.FieldRating, model.FieldID, model.TableName, column,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	prepare, err := sqltx.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return stats, fmt.Errorf("failed to prepare statement (review stats): %w", err)
	}
	defer prepare.Close()

	if err = prepare.GetContext(ctx, &stats, map[string]any{"id": id}); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return stats, fmt.Errorf("failed to aggregate reviews: %w", err)
	}

	return stats, nil
}
