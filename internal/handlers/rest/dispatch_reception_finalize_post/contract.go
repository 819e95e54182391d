//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=dispatch_reception_finalize_post_test
package dispatch_reception_finalize_post

import (
	"context"

	"shipping/internal/entities"
	"shipping/internal/service/reception"
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
	FinalizeReception(ctx context.Context, dispatchID int64, actor entities.Actor) (*reception.FinalizeResult, error)
}
