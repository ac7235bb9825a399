// internal/pipeline/resolve-entity/handler.go
package resolveentity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chainx-bot/internal/common/logger"
	"chainx-bot/internal/inference"
	"chainx-bot/internal/schema"
)

const TaskType = "resolve-entity"

var (
	ErrResolutionFailed = errors.New("ENTITY_RESOLUTION_FAILED")
	ErrInferenceTimeout = errors.New("INFERENCE_API_TIMEOUT")
)

type Handler struct {
	config   *Config
	registry *schema.Registry
	gen      inference.Generator
	logger   logger.Logger
}

func NewHandler(config *Config, registry *schema.Registry, gen inference.Generator, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		registry: registry,
		gen:      gen,
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// Execute maps free text to one of the known entity names. A token outside
// the known set, including parse failures and hallucinated names, yields a
// nil entity. A hard failure of the inference service is not swallowed here:
// without resolution no further pipeline work is possible.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	prompt := h.buildPrompt(input.Query)

	response, err := h.gen.Generate(ctx, prompt)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrInferenceTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrResolutionFailed, err)
	}

	token := normalizeToken(response)
	entity, ok := h.registry.Lookup(token)
	if !ok || token == "none" {
		h.logger.Info("no entity resolved", map[string]interface{}{
			"token": token,
		})
		return &Output{Entity: nil}, nil
	}

	h.logger.Info("entity resolved", map[string]interface{}{
		"entity": entity.Name,
	})
	return &Output{Entity: entity}, nil
}

func (h *Handler) buildPrompt(query string) string {
	return fmt.Sprintf(`Analyze the following user query and identify which single entity type it is primarily about.
Query: %q
Available entity types: %s

Respond ONLY with the single most relevant entity name from the list in lowercase.
If no single entity seems clearly relevant, respond with "none".`,
		query, strings.Join(h.registry.Names(), ", "))
}

// normalizeToken strips whitespace and the quoting the model sometimes wraps
// its answer in.
func normalizeToken(response string) string {
	token := strings.ToLower(strings.TrimSpace(response))
	token = strings.Trim(token, "\"'`.")
	return token
}
