//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=draft_cleanup_test
package draft_cleanup

import (
	"context"
	"time"
)

type Service interface {
	CleanupStaleDrafts(ctx context.Context, maxAge time.Duration) (int64, error)
}
