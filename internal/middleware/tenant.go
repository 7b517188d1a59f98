package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

type contextKey string

const BusinessIDKey contextKey = "business_id"

// businessIDPrefix is what every generated business id starts with.
const businessIDPrefix = "business_id_"

// BusinessID middleware extracts the business id from the X-Business-ID header
func BusinessID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		businessID := r.Header.Get("X-Business-ID")
		if businessID == "" {
			log.Warn().Msg("Missing X-Business-ID header")
			http.Error(w, "X-Business-ID header is required", http.StatusBadRequest)
			return
		}

		if !strings.HasPrefix(businessID, businessIDPrefix) {
			log.Warn().Str("business_id", businessID).Msg("Invalid business ID")
			http.Error(w, "Invalid X-Business-ID format", http.StatusBadRequest)
			return
		}

		ctx := context.WithValue(r.Context(), BusinessIDKey, businessID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetBusinessID extracts the business id from context
func GetBusinessID(ctx context.Context) (string, bool) {
	businessID, ok := ctx.Value(BusinessIDKey).(string)
	return businessID, ok
}
