package cache

import (
	"context"
	"fmt"
	"time"
)

// Noop satisfies Cache when no Redis address is configured.
type Noop struct{}

func NewNoop() Cache { return Noop{} }

func (Noop) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (Noop) Get(ctx context.Context, key string) (string, error) { return "", nil }

func (Noop) Del(ctx context.Context, key string) error { return nil }

func (Noop) GenerateKey(operation, key string) string {
	return fmt.Sprintf("noop:%s:%s", operation, key)
}
