package mocks

import (
	"context"

	"bengkel/shared/transaction"

	"go.uber.org/mock/gomock"
)

// ExpectWithinTx makes the mock run the unit of work with a nil transaction and return its result.
func ExpectWithinTx(m *MockTransactor) *gomock.Call {
	return m.EXPECT().WithinTx(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, fn transaction.TxFunc) error {
		return fn(ctx, nil)
	})
}
