package types

import (
	"context"
)

// ContextKey is a type for the keys of values stored in the context
type ContextKey string

const (
	CtxRequestID ContextKey = "ctx_request_id"
	CtxSellerID  ContextKey = "ctx_seller_id"
)

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(CtxRequestID).(string); ok {
		return requestID
	}
	return ""
}

func GetSellerID(ctx context.Context) string {
	if sellerID, ok := ctx.Value(CtxSellerID).(string); ok {
		return sellerID
	}
	return ""
}

// SetRequestID sets the request ID in the context
func SetRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, CtxRequestID, requestID)
}

// SetSellerID sets the seller ID in the context
func SetSellerID(ctx context.Context, sellerID string) context.Context {
	return context.WithValue(ctx, CtxSellerID, sellerID)
}
