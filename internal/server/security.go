package server

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/osse101/CaseVault_Go/internal/logger"
)

// APIKeyMiddleware admits draw clients that present the shared API key
func APIKeyMiddleware(apiKey string, clients *ClientResolver, detector *ActivityDetector) func(http.Handler) http.Handler {
	want := []byte(apiKey)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(HeaderAPIKey)
			if subtle.ConstantTimeCompare([]byte(got), want) == 1 {
				next.ServeHTTP(w, r)
				return
			}
			ip := clients.IP(r)
			detector.RecordFailedAuth(ip)
			logger.FromContext(r.Context()).Warn(LogMsgAuthFailed, "path", r.URL.Path, "has_key", got != "", "ip", ip)
			http.Error(w, ErrMsgUnauthorized, http.StatusUnauthorized)
		})
	}
}

// AdminAuthMiddleware requires a bearer token signed with the admin secret and puts its subject
// on the context as the acting operator
func AdminAuthMiddleware(tokens *TokenVerifier, clients *ClientResolver, detector *ActivityDetector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, isBearer := strings.CutPrefix(r.Header.Get(HeaderAuthorization), BearerPrefix)
			claims, err := tokens.Verify(strings.TrimSpace(raw))
			if isBearer && err == nil {
				ctx := logger.WithActor(r.Context(), claims.Subject)
				logger.FromContext(ctx).Debug(LogMsgAdminAuthorized, "path", r.URL.Path)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			ip := clients.IP(r)
			detector.RecordFailedAuth(ip)
			logger.FromContext(r.Context()).Warn(LogMsgAdminAuthFailed,
				"path", r.URL.Path, "has_token", isBearer, "ip", ip, "error", err)
			http.Error(w, ErrMsgUnauthorized, http.StatusUnauthorized)
		})
	}
}

// RateLimitMiddleware answers 429 once a client has used up its window
func RateLimitMiddleware(clients *ClientResolver, detector *ActivityDetector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if detector.RecordRequest(clients.IP(r)) {
				next.ServeHTTP(w, r)
				return
			}
			http.Error(w, ErrMsgTooManyRequests, http.StatusTooManyRequests)
		})
	}
}

// RequestSizeLimitMiddleware caps request bodies at maxBytes
func RequestSizeLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

var securityHeaders = [][2]string{
	{HeaderContentType, HeaderValueNoSniff},
	{HeaderFrameOptions, HeaderValueDeny},
	{HeaderReferrerPolicy, HeaderValueNoReferrer},
	{HeaderCacheControl, HeaderValueNoStore},
}

// SecurityHeadersMiddleware sets the response headers every JSON endpoint carries
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for _, kv := range securityHeaders {
				h.Set(kv[0], kv[1])
			}
			next.ServeHTTP(w, r)
		})
	}
}
