package quota

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bratiwka/llm-gateway/config"
	"github.com/bratiwka/llm-gateway/models"
	"github.com/bratiwka/llm-gateway/repositories"
	"github.com/bratiwka/llm-gateway/services"
)

// fakeAccountRepository mirrors the database semantics in memory: the
// check-and-increment of TryConsume is atomic under the mutex, the same way
// the single conditional UPDATE is atomic in Postgres.
type fakeAccountRepository struct {
	mu       sync.Mutex
	accounts map[string]*models.Account
}

func newFakeAccountRepository() *fakeAccountRepository {
	return &fakeAccountRepository{accounts: make(map[string]*models.Account)}
}

func (f *fakeAccountRepository) add(apiKey string, count, limit int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	account := models.NewAccount(apiKey, apiKey, limit)
	account.MessageCount = count
	f.accounts[apiKey] = account
}

func (f *fakeAccountRepository) count(apiKey string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.accounts[apiKey].MessageCount
}

func (f *fakeAccountRepository) GetByAPIKey(_ context.Context, apiKey string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	account, ok := f.accounts[apiKey]
	if !ok {
		return nil, repositories.ErrAccountNotFound
	}
	copied := *account
	return &copied, nil
}

func (f *fakeAccountRepository) GetOrCreate(_ context.Context, apiKey, username string, messageLimit int) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if account, ok := f.accounts[apiKey]; ok {
		copied := *account
		return &copied, nil
	}
	account := models.NewAccount(apiKey, username, messageLimit)
	f.accounts[apiKey] = account
	copied := *account
	return &copied, nil
}

func (f *fakeAccountRepository) TryConsume(_ context.Context, apiKey string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	account, ok := f.accounts[apiKey]
	if !ok || account.MessageCount >= account.MessageLimit {
		return false, nil
	}
	account.MessageCount++
	return true, nil
}

func (f *fakeAccountRepository) WithTx(repositories.Transaction) repositories.AccountRepository {
	return f
}

func TestService_Consume_RejectPolicy(t *testing.T) {
	repo := newFakeAccountRepository()
	repo.add("user-abc", 0, 2)
	svc := NewService(repo, config.QuotaPolicyReject, zap.NewNop())

	ctx := context.Background()

	// limit 2: two requests pass, the third is rejected
	outcome, err := svc.Consume(ctx, "user-abc")
	require.NoError(t, err)
	assert.Equal(t, OutcomeConsumed, outcome)

	outcome, err = svc.Consume(ctx, "user-abc")
	require.NoError(t, err)
	assert.Equal(t, OutcomeConsumed, outcome)

	_, err = svc.Consume(ctx, "user-abc")
	assert.ErrorIs(t, err, services.ErrQuotaExceeded)
	assert.True(t, services.IsQuotaError(err))

	assert.Equal(t, 2, repo.count("user-abc"), "rejected request must not consume quota")
}

func TestService_Consume_AdvisePolicy(t *testing.T) {
	repo := newFakeAccountRepository()
	repo.add("user-abc", 2, 2)
	svc := NewService(repo, config.QuotaPolicyAdvise, zap.NewNop())

	outcome, err := svc.Consume(context.Background(), "user-abc")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAdvise, outcome)
	assert.Equal(t, 2, repo.count("user-abc"), "advise outcome must not consume quota")
}

func TestService_Consume_Concurrent(t *testing.T) {
	const limit = 10
	const attempts = 100

	repo := newFakeAccountRepository()
	repo.add("user-abc", 0, limit)
	svc := NewService(repo, config.QuotaPolicyReject, zap.NewNop())

	var wg sync.WaitGroup
	var mu sync.Mutex
	consumed := 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcome, err := svc.Consume(context.Background(), "user-abc")
			if err == nil && outcome == OutcomeConsumed {
				mu.Lock()
				consumed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, limit, consumed, "exactly limit requests may pass")
	assert.Equal(t, limit, repo.count("user-abc"), "counter never exceeds the limit")
}
