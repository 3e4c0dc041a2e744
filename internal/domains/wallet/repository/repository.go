package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"strings"

	"bengkel/infras/otel"
	"bengkel/infras/postgres"
	"bengkel/internal/domains/wallet/model"
	"bengkel/shared/constant"
	gDto "bengkel/shared/dto"
	"bengkel/shared/logger"
	gRepo "bengkel/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Wallet interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Wallet, error)
	GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (model.Wallet, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	// InsertIfAbsentTx inserts wallet unless the mechanic already has one.
	InsertIfAbsentTx(ctx context.Context, sqltx *sqlx.Tx, wallet model.Wallet) error
}

type Entry interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Entry) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Entry, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Wallet]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Wallet {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Wallet](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) InsertIfAbsentTx(ctx context.Context, sqltx *sqlx.Tx, wallet model.Wallet) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".wallet.InsertIfAbsentTx")
	defer scope.End()

	placeholders := make([]string, len(r.InsertColumns))
	for i, col := range r.InsertColumns {
		placeholders[i] = ":" + col
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO NOTHING",
		model.TableName,
		strings.Join(r.InsertColumns, ", "),
		strings.Join(placeholders, ", "),
		model.FieldMechanicID,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := sqltx.NamedExecContext(ctx, query, wallet); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to insert wallet: %w", err)
	}

	return nil
}

type entryRepositoryImpl struct {
	gRepo.Repository[model.Entry]
}

func NewEntry(db *postgres.Connection, otel otel.Otel) Entry {
	return &entryRepositoryImpl{
		Repository: gRepo.NewRepository[model.Entry](model.EntryEntityName, model.EntryTableName, model.EntryFieldID, db, otel),
	}
}
