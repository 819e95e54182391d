//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=dispatch_payments_post_test
package dispatch_payments_post

import (
	"context"

	"shipping/internal/entities"
	"shipping/internal/service/payment"
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
	AddPayment(ctx context.Context, input payment.Input, actor entities.Actor) (*payment.Receipt, error)
}
