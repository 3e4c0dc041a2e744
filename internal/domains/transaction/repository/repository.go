package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"bengkel/infras/otel"
	"bengkel/infras/postgres"
	"bengkel/internal/domains/transaction/model"
	gDto "bengkel/shared/dto"
	gRepo "bengkel/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Transaction interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Transaction) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Transaction, error)
	GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (model.Transaction, error)
	ExistTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (bool, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Transaction]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Transaction {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Transaction](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
