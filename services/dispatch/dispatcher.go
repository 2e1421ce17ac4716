package dispatch

import (
	"context"

	"go.uber.org/zap"

	"github.com/bratiwka/llm-gateway/models"
	"github.com/bratiwka/llm-gateway/repositories"
	"github.com/bratiwka/llm-gateway/services"
	"github.com/bratiwka/llm-gateway/services/providers"
	"github.com/bratiwka/llm-gateway/services/quota"
)

// Pipeline stages, logged as each request advances. A request that stops at
// any stage ends as rejected (caller fault) or failed (gateway or provider
// fault); nothing later in the pipeline runs.
const (
	stageRouted         = "routed"
	stageQuotaChecked   = "quota_checked"
	stageUpstreamCalled = "upstream_called"
	stageNormalized     = "normalized"
	stageLogged         = "logged"
	stageComplete       = "complete"
)

// Dispatcher runs the chat completion pipeline: resolve the model, consume
// quota, translate, call the provider once, normalize the reply, record the
// exchange.
type Dispatcher struct {
	registry      *providers.Registry
	quota         *quota.Service
	upstream      UpstreamClient
	conversations repositories.ConversationRepository
	txManager     repositories.TransactionManager
	logger        *zap.Logger
}

// NewDispatcher creates a dispatcher
func NewDispatcher(
	registry *providers.Registry,
	quotaService *quota.Service,
	upstream UpstreamClient,
	conversations repositories.ConversationRepository,
	txManager repositories.TransactionManager,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		registry:      registry,
		quota:         quotaService,
		upstream:      upstream,
		conversations: conversations,
		txManager:     txManager,
		logger:        logger,
	}
}

// ProcessChatCompletion handles one authenticated chat request end to end.
//
// The model is resolved before quota is touched, so an unknown model never
// costs the caller a message. Once quota is consumed it stays consumed even
// when the provider call fails afterwards.
func (d *Dispatcher) ProcessChatCompletion(ctx context.Context, account *models.Account, req *providers.ChatRequest) (*providers.ChatResponse, error) {
	log := d.logger.With(
		zap.String("username", account.Username),
		zap.String("model", req.Model),
	)

	descriptor, err := d.registry.Resolve(req.Model)
	if err != nil {
		log.Info("request rejected", zap.String("stage", stageRouted), zap.Error(err))
		return nil, err
	}

	translator, err := providers.TranslatorFor(descriptor.Dialect)
	if err != nil {
		return nil, err
	}
	log.Debug("model resolved",
		zap.String("stage", stageRouted),
		zap.String("dialect", string(descriptor.Dialect)),
		zap.String("upstream_model", descriptor.UpstreamModel))

	outcome, err := d.quota.Consume(ctx, account.APIKey)
	if err != nil {
		log.Info("request rejected", zap.String("stage", stageQuotaChecked), zap.Error(err))
		return nil, err
	}
	log.Debug("quota checked", zap.String("stage", stageQuotaChecked))

	if outcome == quota.OutcomeAdvise {
		// Synthetic reply: no provider call, no quota spent, nothing recorded.
		log.Info("quota exhausted, advising upgrade", zap.String("stage", stageComplete))
		return providers.NewChatResponse(req.Model, quota.UpgradeAdvice, providers.Usage{}), nil
	}

	payload, err := translator.TranslateRequest(req, descriptor)
	if err != nil {
		return nil, services.WrapInternal("failed to translate request", err)
	}

	raw, err := d.upstream.Call(ctx, descriptor.Endpoint, translator.Headers(descriptor), payload)
	if err != nil {
		log.Warn("provider call failed", zap.String("stage", stageUpstreamCalled), zap.Error(err))
		return nil, err
	}
	log.Debug("provider responded", zap.String("stage", stageUpstreamCalled))

	text, usage := translator.ParseResponse(raw)
	response := providers.NewChatResponse(req.Model, text, usage)
	log.Debug("response normalized", zap.String("stage", stageNormalized))

	if err := d.recordExchange(ctx, account, req, text); err != nil {
		// The reply is already in hand; it is returned even when the
		// conversation log cannot be written.
		log.Error("failed to record conversation", zap.String("stage", stageLogged), zap.Error(err))
	} else {
		log.Debug("conversation recorded", zap.String("stage", stageLogged))
	}

	log.Info("chat completion served", zap.String("stage", stageComplete))
	return response, nil
}

// recordExchange appends the caller's last inbound message and the assistant
// reply in one transaction, so the log never holds half an exchange. The
// inbound entry keeps the role the caller sent, not an assumed one.
func (d *Dispatcher) recordExchange(ctx context.Context, account *models.Account, req *providers.ChatRequest, assistantText string) error {
	inbound := req.LastUserMessage()
	if inbound == nil {
		return nil
	}

	return d.txManager.InTransaction(ctx, func(txCtx context.Context, tx repositories.Transaction) error {
		conversations := d.conversations.WithTx(tx)

		inboundEntry := models.NewConversationEntry(account.APIKey, models.MessageRole(inbound.Role), inbound.Content)
		if err := conversations.Append(txCtx, inboundEntry); err != nil {
			return err
		}

		assistantEntry := models.NewConversationEntry(account.APIKey, models.RoleAssistant, assistantText)
		return conversations.Append(txCtx, assistantEntry)
	})
}
