package cmd

import (
	"context"
	"fmt"

	"invoicegen-backend/config"
	"invoicegen-backend/logger"
	"invoicegen-backend/routes"
	"invoicegen-backend/services"
	"invoicegen-backend/services/ai"
	"invoicegen-backend/store"
	"invoicegen-backend/utils"
)

// app holds everything the serve command wires together from Config.
type app struct {
	store     store.Store
	deps      routes.Dependencies
	reminders *services.ReminderService
}

func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	log := logger.WithComponent("setup")

	s, err := config.ConnectStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect store: %w", err)
	}
	log.Info().Str("driver", cfg.DBDriver).Msg("Store connected")

	model, err := newAIModel(cfg)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	var assistant *ai.Assistant
	if model != nil {
		assistant = ai.NewAssistant(model, cfg.AITimeout, cfg.AIMaxRetries)
		log.Info().Str("provider", cfg.AIProvider).Str("model", model.Name()).Msg("AI assistant enabled")
	} else {
		log.Warn().Str("provider", cfg.AIProvider).Msg("No AI API key configured, AI endpoints will answer 503")
	}

	var sender services.SMSSender
	if cfg.SMSEnabled() {
		sender = services.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber)
	} else {
		log.Warn().Msg("Twilio is not configured, invoice messages are disabled")
	}

	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry)
	auth := services.NewAuthService(s, tokens, cfg.BcryptCost)
	messages := services.NewMessageService(s, sender)

	return &app{
		store: s,
		deps: routes.Dependencies{
			Store:       s,
			Tokens:      tokens,
			Auth:        auth,
			Invoices:    services.NewInvoiceService(s),
			Messages:    messages,
			AI:          services.NewAIService(s, assistant),
			CORSOrigins: cfg.CORSOrigins,
		},
		reminders: services.NewReminderService(s, messages),
	}, nil
}

// newAIModel returns nil when the selected provider has no API key.
func newAIModel(cfg *config.Config) (ai.Model, error) {
	switch cfg.AIProvider {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, nil
		}
		return ai.NewGeminiModel(cfg.GeminiAPIKey, cfg.GeminiModel, ""), nil
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, nil
		}
		return ai.NewOpenAIModel(cfg.OpenAIAPIKey, cfg.OpenAIModel), nil
	}
	return nil, fmt.Errorf("unsupported AI_PROVIDER %q", cfg.AIProvider)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}
	return cfg, nil
}
