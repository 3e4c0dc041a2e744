package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"bengkel/infras/otel"
	"bengkel/infras/postgres"
	"bengkel/internal/domains/mechanic/model"
	"bengkel/shared/constant"
	gDto "bengkel/shared/dto"
	"bengkel/shared/logger"
	gRepo "bengkel/shared/repository"
	"bengkel/shared/timezone"

	"github.com/jmoiron/sqlx"
)

type Mechanic interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Mechanic, error)
	GetTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Mechanic, error)
	GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (model.Mechanic, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Mechanic, error)
	GetAllTx(ctx context.Context, sqltx *sqlx.Tx, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Mechanic, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	// CompleteJobTx puts the mechanic back online and counts the finished job.
	CompleteJobTx(ctx context.Context, sqltx *sqlx.Tx, id, actor string) error
}

type Listing interface {
	Insert(ctx context.Context, model model.Listing) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Listing, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Listing, error)
	GetAllTx(ctx context.Context, sqltx *sqlx.Tx, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Listing, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Mechanic]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Mechanic {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Mechanic](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) CompleteJobTx(ctx context.Context, sqltx *sqlx.Tx, id, actor string) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".mechanic.CompleteJobTx")
	defer scope.End()

	query := fmt.Sprintf(
		"UPDATE %s SET %s = :status, %s = %s + 1, %s = :modified_at, %s = :modified_by WHERE %s = :id",
		model.TableName,
		model.FieldStatus,
		model.FieldTotalJobsCompleted, model.FieldTotalJobsCompleted,
		constant.FieldModifiedAt,
		constant.FieldModifiedBy,
		model.FieldID,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	_, err := sqltx.NamedExecContext(ctx, query, map[string]any{
		"status":      model.StatusOnline,
		"modified_at": timezone.Now(),
		"modified_by": actor,
		"id":          id,
	})
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to complete mechanic job: %w", err)
	}

	return nil
}

type listingRepositoryImpl struct {
	gRepo.Repository[model.Listing]
}

func NewListing(db *postgres.Connection, otel otel.Otel) Listing {
	return &listingRepositoryImpl{
		Repository: gRepo.NewRepository[model.Listing](model.ListingEntityName, model.ListingTableName, model.ListingFieldID, db, otel),
	}
}
