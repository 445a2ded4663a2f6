package response

import (
	"net/http"

	appCtx "github.com/DHJariwala/is601-user-management/internal/pkg/context"
)

// RequestIDFromContext extracts the request_id set by the RequestID middleware.
func RequestIDFromContext(r *http.Request) string {
	return appCtx.GetRequestID(r.Context())
}
