//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=parcel_dispatch_delete_test
package parcel_dispatch_delete

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
	RemoveParcel(ctx context.Context, trackingNumber string, actor entities.Actor) (*entities.Parcel, error)
}
