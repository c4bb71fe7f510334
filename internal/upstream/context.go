package upstream

import "context"

type ctxKey string

const (
	ctxToken     ctxKey = "bearer_token"
	ctxRequestID ctxKey = "request_id"
)

// WithToken attaches the caller's bearer token for upstream calls
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ctxToken, token)
}

func TokenFrom(ctx context.Context) string {
	v, _ := ctx.Value(ctxToken).(string)
	return v
}

// WithRequestID attaches a request id forwarded as X-Request-ID
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxRequestID, id)
}

func RequestIDFrom(ctx context.Context) string {
	v, _ := ctx.Value(ctxRequestID).(string)
	return v
}
