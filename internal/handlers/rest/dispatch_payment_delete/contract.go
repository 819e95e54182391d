//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=dispatch_payment_delete_test
package dispatch_payment_delete

import (
	"context"

	"shipping/internal/entities"
	"shipping/pkg/logger"
)

type handlerLogger interface {
	Debug(msg string, fields ...logger.Field)
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

type Service interface {
	DeletePayment(ctx context.Context, dispatchID, paymentID int64, actor entities.Actor) (*entities.Dispatch, error)
}
