package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"bengkel/infras/otel"
	"bengkel/infras/postgres"
	"bengkel/internal/domains/verification/model"
	gDto "bengkel/shared/dto"
	gRepo "bengkel/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Verification interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Verification) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Verification, error)
	GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (model.Verification, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Verification]
}

func New(db *postgres.Connection, otel otel.Otel) Verification {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Verification](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
