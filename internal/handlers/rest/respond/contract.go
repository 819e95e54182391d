//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=respond_test
package respond

import "shipping/pkg/logger"

type handlerLogger interface {
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}
