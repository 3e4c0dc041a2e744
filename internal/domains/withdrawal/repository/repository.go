package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"bengkel/infras/otel"
	"bengkel/infras/postgres"
	"bengkel/internal/domains/withdrawal/model"
	gDto "bengkel/shared/dto"
	gRepo "bengkel/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Withdrawal interface {
	Insert(ctx context.Context, model model.Withdrawal) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Withdrawal, error)
	GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (model.Withdrawal, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Withdrawal, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Withdrawal]
}

func New(db *postgres.Connection, otel otel.Otel) Withdrawal {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Withdrawal](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
