//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=dispatch_finalize_post_test
package dispatch_finalize_post

import (
	"context"

	"shipping/internal/entities"
	"shipping/internal/service/dispatch"
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
	FinalizeDispatch(ctx context.Context, id, receiverAgencyID int64, actor entities.Actor) (*dispatch.FinalizeResult, error)
}
