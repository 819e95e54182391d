//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=payment_test
package payment

import (
	"context"

	"shipping/internal/entities"
	"shipping/pkg/logger"
)

type Repository interface {
	Create(ctx context.Context, payment entities.DispatchPayment) (*entities.DispatchPayment, error)
	GetByID(ctx context.Context, dispatchID, paymentID int64) (*entities.DispatchPayment, error)
	Delete(ctx context.Context, paymentID int64) error
	SumByDispatchID(ctx context.Context, dispatchID int64) (int64, error)
}

type DispatchRepository interface {
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.Dispatch, error)
	Update(ctx context.Context, dispatchModify entities.DispatchModify) (*entities.Dispatch, error)
}

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type paymentLogger interface {
	Info(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}
