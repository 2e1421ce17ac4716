package middleware

import (
	"errors"
	"net"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/bratiwka/llm-gateway/config"
	"github.com/bratiwka/llm-gateway/repositories"
	"github.com/bratiwka/llm-gateway/utils"
)

// AuthMiddleware resolves the caller to an account before requests reach the
// gateway handlers. Two modes exist: api_key requires a bearer credential
// matching an existing account, ip_address keys accounts by caller network
// address and creates them on first sight.
type AuthMiddleware struct {
	accounts     repositories.AccountRepository
	mode         config.AuthMode
	defaultLimit int
	logger       *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(accounts repositories.AccountRepository, cfg config.GatewayConfig, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		accounts:     accounts,
		mode:         cfg.AuthMode,
		defaultLimit: cfg.DefaultMessageLimit,
		logger:       logger,
	}
}

// RequireAccount resolves the caller identity and stores the account in the
// request context. A missing or malformed credential is 401, a well-formed
// credential that matches no account is 403. Nothing is read from or written
// to storage until the credential has passed the shape check.
func (m *AuthMiddleware) RequireAccount(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := chimiddleware.GetReqID(ctx)

		if m.mode == config.AuthModeIPAddress {
			callerIP := callerAddress(r)
			account, err := m.accounts.GetOrCreate(ctx, callerIP, callerIP, m.defaultLimit)
			if err != nil {
				m.logger.Error("failed to resolve account by address",
					zap.String("request_id", requestID),
					zap.Error(err))
				_ = utils.WriteInternalServerError(w, "failed to resolve account")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithAccount(ctx, account)))
			return
		}

		apiKey := extractBearerToken(r)
		if apiKey == "" {
			m.logger.Warn("missing credential",
				zap.String("request_id", requestID))
			_ = utils.WriteUnauthorized(w, "Missing or invalid authorization")
			return
		}

		account, err := m.accounts.GetByAPIKey(ctx, apiKey)
		if err != nil {
			if errors.Is(err, repositories.ErrAccountNotFound) {
				m.logger.Warn("unknown API key",
					zap.String("request_id", requestID))
				_ = utils.WriteForbidden(w, "Invalid API key")
				return
			}
			m.logger.Error("failed to look up account",
				zap.String("request_id", requestID),
				zap.Error(err))
			_ = utils.WriteInternalServerError(w, "failed to resolve account")
			return
		}

		m.logger.Debug("account resolved",
			zap.String("request_id", requestID),
			zap.String("username", account.Username))

		next.ServeHTTP(w, r.WithContext(WithAccount(ctx, account)))
	})
}

// callerAddress returns the caller's IP without the port. RemoteAddr is
// already rewritten by the RealIP middleware when the gateway sits behind a
// proxy.
func callerAddress(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// extractBearerToken extracts the bearer credential from the Authorization header
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
