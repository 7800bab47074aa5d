package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/vendora/taxengine/internal/types"
)

const (
	// HeaderRequestID is the response header echoing the request ID
	HeaderRequestID = "X-Request-ID"

	// HeaderSellerID carries the platform seller the sale belongs to
	HeaderSellerID = "X-Seller-ID"
)

func RequestIDMiddleware(c *gin.Context) {
	ctx := c.Request.Context()

	requestID := c.GetHeader(HeaderRequestID)
	if requestID == "" {
		requestID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REQUEST)
	}
	ctx = types.SetRequestID(ctx, requestID)

	if sellerID := c.GetHeader(HeaderSellerID); sellerID != "" {
		ctx = types.SetSellerID(ctx, sellerID)
	}

	c.Request = c.Request.WithContext(ctx)

	c.Header(HeaderRequestID, requestID)

	c.Next()
}
