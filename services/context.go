package services

import "context"

// persistentContext detaches ctx from request cancellation so a multi-write
// transaction is not aborted halfway by a client hang-up. Values are kept;
// the deadline is dropped.
func persistentContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return context.WithoutCancel(ctx)
}
