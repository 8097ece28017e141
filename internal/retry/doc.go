// Package retry retries connection establishment with exponential backoff.
//
// It is used only while opening a pool. Set queries themselves are never
// retried: their errors reach the caller unchanged.
//
// # Example Usage
//
//	executor := retry.NewExecutor(retry.NewConnectClassifier(), retry.NewExponentialBackoff(3))
//
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return pool.Ping(ctx)
//	})
package retry
