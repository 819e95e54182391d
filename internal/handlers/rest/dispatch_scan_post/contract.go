//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=dispatch_scan_post_test
package dispatch_scan_post

import (
	"context"

	"shipping/internal/entities"
	"shipping/internal/service/membership"
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
	CreateFromScan(ctx context.Context, trackingNumbers []string, senderAgencyID int64, actor entities.Actor) (*membership.ScanResult, error)
}
