//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=dispatch_get_test
package dispatch_get

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
	GetDispatch(ctx context.Context, id int64) (*entities.Dispatch, error)
}
