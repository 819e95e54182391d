//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=debt_settle_post_test
package debt_settle_post

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
	SettleDebt(ctx context.Context, debtID int64, actor entities.Actor) (*entities.InterAgencyDebt, error)
}
