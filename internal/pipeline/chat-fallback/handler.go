// internal/pipeline/chat-fallback/handler.go
package chatfallback

import (
	"context"
	"fmt"

	"chainx-bot/internal/common/logger"
	"chainx-bot/internal/inference"
)

const TaskType = "chat-fallback"

const (
	// serviceFailureReply is sent when the inference service itself failed.
	serviceFailureReply = "Oops, something went wrong. Want to try asking about some data?"

	// unexpectedFailureReply is sent for any other failure.
	unexpectedFailureReply = "Hmm, I got a bit tangled up. How about asking for some seller or product info?"

	// defaultReply covers an empty model response.
	defaultReply = "Hey! What's up?"
)

type Handler struct {
	config *Config
	gen    inference.Generator
	logger logger.Logger
}

func NewHandler(config *Config, gen inference.Generator, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		gen:    gen,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// Execute produces a short free-form reply for queries that resolve to no
// entity. It never fails: any error from the inference capability degrades
// to one of two canned friendly replies.
func (h *Handler) Execute(ctx context.Context, query string) string {
	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	response, err := h.gen.Generate(ctx, h.buildPrompt(query))
	if err != nil {
		h.logger.Warn("conversational reply failed", map[string]interface{}{
			"error": err.Error(),
		})
		if inference.IsServiceError(err) {
			return serviceFailureReply
		}
		return unexpectedFailureReply
	}

	if response == "" {
		return defaultReply
	}
	return response
}

func (h *Handler) buildPrompt(query string) string {
	return fmt.Sprintf(`You are a friendly Telegram bot assistant named ChainX Bot. A user has sent you the message: %q.
This message doesn't seem to request data about specific entities like sellers, products, or warehouses.
Respond in a casual, friendly tone as if continuing a conversation. Keep the response short (1-2 sentences), appropriate, and engaging.
If the query is a greeting like "hi" or "hello", greet them back and invite them to ask about data.
Avoid generating responses that assume specific entity data unless explicitly mentioned.`, query)
}
