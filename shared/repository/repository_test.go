package repository

import (
	"testing"

	otelMocks "bengkel/infras/otel/mocks"
	"bengkel/shared/dto"

	"github.com/stretchr/testify/assert"
)

type sortRow struct {
	ID        string `db:"id"`
	Amount    int    `db:"amount"`
	OwnerName string `db:"owner_name" table:"users" column:"users.name"`
}

func TestRepository_orderBy(t *testing.T) {
	repo := NewRepository[sortRow]("sortRow", "rows", "id", nil, otelMocks.NewOtel())

	tests := []struct {
		name   string
		params dto.QueryParams
		want   string
	}{
		{
			name:   "own column is qualified with the table",
			params: dto.QueryParams{SortBy: "amount", SortDir: dto.SortDirAsc},
			want:   "ORDER BY rows.amount ASC",
		},
		{
			name:   "joined column orders by its alias",
			params: dto.QueryParams{SortBy: "owner_name", SortDir: dto.SortDirDesc},
			want:   "ORDER BY owner_name DESC",
		},
		{
			name:   "statement injection is dropped",
			params: dto.QueryParams{SortBy: "id; DROP TABLE rows--", SortDir: dto.SortDirAsc},
		},
		{
			name:   "expression on a real column is dropped",
			params: dto.QueryParams{SortBy: "amount, (SELECT 1)", SortDir: dto.SortDirAsc},
		},
		{
			name:   "direction outside ASC and DESC is dropped",
			params: dto.QueryParams{SortBy: "amount", SortDir: "ASC; DELETE FROM rows"},
		},
		{
			name:   "no sort column",
			params: dto.QueryParams{SortDir: dto.SortDirAsc},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, repo.orderBy(tt.params))
		})
	}
}
