package quota

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bratiwka/llm-gateway/config"
	"github.com/bratiwka/llm-gateway/repositories"
	"github.com/bratiwka/llm-gateway/services"
)

// Outcome describes the result of a quota check for one request.
type Outcome int

const (
	// OutcomeConsumed means one unit of quota was taken and the request
	// may proceed upstream.
	OutcomeConsumed Outcome = iota

	// OutcomeAdvise means the account is exhausted and the configured
	// policy wants a synthetic upgrade reply instead of an error. No
	// quota is consumed and no upstream call happens.
	OutcomeAdvise
)

// UpgradeAdvice is the assistant text returned under the advise policy.
const UpgradeAdvice = "You have used all messages on the free plan. Upgrade your plan to continue the conversation."

// Service enforces per-account message limits.
type Service struct {
	accounts repositories.AccountRepository
	policy   config.QuotaPolicy
	logger   *zap.Logger
}

// NewService creates a quota service with the given exhaustion policy.
func NewService(accounts repositories.AccountRepository, policy config.QuotaPolicy, logger *zap.Logger) *Service {
	return &Service{
		accounts: accounts,
		policy:   policy,
		logger:   logger,
	}
}

// Consume attempts to take one unit of quota for the account. The check and
// the increment happen in a single repository operation, so concurrent
// requests against the same account can never overshoot the limit.
//
// When the account is exhausted the configured policy decides the outcome:
// reject returns services.ErrQuotaExceeded, advise returns OutcomeAdvise and
// leaves the counter untouched.
func (s *Service) Consume(ctx context.Context, apiKey string) (Outcome, error) {
	allowed, err := s.accounts.TryConsume(ctx, apiKey)
	if err != nil {
		return 0, fmt.Errorf("quota check failed: %w", err)
	}

	if allowed {
		return OutcomeConsumed, nil
	}

	s.logger.Info("quota exhausted",
		zap.String("api_key", apiKey),
		zap.String("policy", string(s.policy)))

	if s.policy == config.QuotaPolicyAdvise {
		return OutcomeAdvise, nil
	}

	return 0, services.ErrQuotaExceeded
}
