package pkglog

import "context"

type correlationIDKey struct{}

// InvalidCorrelationID is returned by GetCorrelationID when the context carries none.
const InvalidCorrelationID = "[invalid_chain_id]"

// GetCorrelationID returns the correlation ID stored in the context.
//
// The router middleware sets this value early in the request lifecycle so
// every log line of one upload, clean, or export call can be tied together.
func GetCorrelationID(ctx context.Context) string {
	cid, ok := ctx.Value(correlationIDKey{}).(string)
	if !ok {
		return InvalidCorrelationID
	}
	return cid
}

// SetCorrelationID stores a correlation ID into the context.
func SetCorrelationID(ctx context.Context, cid string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, cid)
}
