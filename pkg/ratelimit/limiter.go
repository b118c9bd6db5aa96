package ratelimit

import "context"

// Limiter решает, можно ли пропустить очередной запрос для ключа.
// Реализации: MemoryLimiter для одного инстанса и RedisLimiter для нескольких.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
