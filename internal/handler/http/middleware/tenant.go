package middleware

import (
	"context"
	"net/http"

	"github.com/vetanhq/payroll-backend-go/internal/handler/http/response"
)

type tenantKey struct{}

// TenantRequired extracts the tenant from the X-Tenant-ID header and puts it
// on the request context. Every domain route requires one; there is no
// cross-tenant surface.
func TenantRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenantID := r.Header.Get("X-Tenant-ID")
		if tenantID == "" {
			response.BadRequest(w, "X-Tenant-ID header is required", nil)
			return
		}

		ctx := context.WithValue(r.Context(), tenantKey{}, tenantID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// TenantID returns the tenant carried on the context, empty when absent.
func TenantID(ctx context.Context) string {
	tenantID, _ := ctx.Value(tenantKey{}).(string)
	return tenantID
}
