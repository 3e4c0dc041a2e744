package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"bengkel/infras/otel"
	"bengkel/infras/postgres"
	"bengkel/internal/domains/workshop/model"
	gDto "bengkel/shared/dto"
	gRepo "bengkel/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Workshop interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Workshop, error)
	GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (model.Workshop, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Workshop, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
}

type Listing interface {
	Insert(ctx context.Context, model model.Listing) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Listing, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Workshop]
}

func New(db *postgres.Connection, otel otel.Otel) Workshop {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Workshop](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

type listingRepositoryImpl struct {
	gRepo.Repository[model.Listing]
}

func NewListing(db *postgres.Connection, otel otel.Otel) Listing {
	return &listingRepositoryImpl{
		Repository: gRepo.NewRepository[model.Listing](model.ListingEntityName, model.ListingTableName, model.ListingFieldID, db, otel),
	}
}
