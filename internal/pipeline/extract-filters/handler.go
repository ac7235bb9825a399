// internal/pipeline/extract-filters/handler.go
package extractfilters

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	stderrors "chainx-bot/internal/common/errors"
	"chainx-bot/internal/common/logger"
	"chainx-bot/internal/inference"

	"github.com/xeipuuv/gojsonschema"
)

const TaskType = "extract-filters"

// filterSetSchema is the shape the inference response must decode to: a JSON
// object whose values are condition strings. Anything else is malformed.
var filterSetSchema = gojsonschema.NewStringLoader(`{
	"type": "object",
	"additionalProperties": {"type": "string"}
}`)

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

// Execute derives filter conditions from the query. Every failure mode here
// degrades to an empty filter set rather than an error: a missing filter
// means "show everything", which is a sensible fallback, whereas a missing
// entity has none.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	prompt := h.buildPrompt(input)

	response, err := h.gen.Generate(ctx, prompt)
	if err != nil {
		h.logger.Warn("inference call failed, continuing without filters", map[string]interface{}{
			"entity": input.Entity.Name,
			"error":  err.Error(),
		})
		return &Output{Filters: map[string]string{}}, nil
	}

	filters := h.parseFilters(input.Entity.Name, response)

	h.logger.Info("filters extracted", map[string]interface{}{
		"entity":      input.Entity.Name,
		"filterCount": len(filters),
	})
	return &Output{Filters: filters}, nil
}

// parseFilters validates and decodes the raw inference response. A response
// that is not a JSON object yields an empty set. Individual conditions are
// kept as raw strings; shapes that fail the condition grammar are rejected
// later, during evaluation, so a bad condition stays local to its field.
func (h *Handler) parseFilters(entity, response string) map[string]string {
	raw := stripCodeFence(response)
	if raw == "" {
		return map[string]string{}
	}

	var decoded interface{}
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		stdErr := stderrors.NewInferenceMalformedOutputError(TaskType, "response is not valid JSON")
		h.logger.WithError(stdErr).Warn("discarding filter response", map[string]interface{}{
			"entity":   entity,
			"response": response,
		})
		return map[string]string{}
	}

	result, err := gojsonschema.Validate(filterSetSchema, gojsonschema.NewGoLoader(decoded))
	if err != nil || !result.Valid() {
		obj, ok := decoded.(map[string]interface{})
		if !ok {
			stdErr := stderrors.NewInferenceMalformedOutputError(TaskType, "response is not a JSON object")
			h.logger.WithError(stdErr).Warn("discarding filter response", map[string]interface{}{
				"entity":   entity,
				"response": response,
			})
			return map[string]string{}
		}
		// Object with some non-string values: keep the string-valued
		// conditions, drop the rest field-by-field.
		return h.stringConditions(entity, obj)
	}

	obj, ok := decoded.(map[string]interface{})
	if !ok {
		return map[string]string{}
	}
	return h.stringConditions(entity, obj)
}

func (h *Handler) stringConditions(entity string, obj map[string]interface{}) map[string]string {
	filters := make(map[string]string, len(obj))
	for field, cond := range obj {
		s, ok := cond.(string)
		if !ok {
			stdErr := stderrors.NewInferenceMalformedOutputError(TaskType, "condition is not a string")
			h.logger.WithError(stdErr).Warn("dropping condition", map[string]interface{}{
				"entity": entity,
				"field":  field,
			})
			continue
		}
		filters[field] = s
	}
	return filters
}

func (h *Handler) buildPrompt(input *Input) string {
	fields := strings.Join(input.Entity.FieldNames(), ", ")
	return fmt.Sprintf(`Analyze the following user query and extract the search filters for the specified entity.
Entity: %s
Available fields: %s
Query: %q

For string fields, use "contains 'text'" for partial matches or "exact 'text'" for exact matches.
For numerical fields, use an operator and a number like "< 50", "> 100", "= 20", "<= 10", ">= 5".
If the query mentions a category (e.g., "electronics category"), interpret it as a filter on relevant fields like name or description if no explicit category field exists.
Respond with a JSON object where each key is a field name, and the value is the condition string.
If no specific filters are mentioned, respond with an empty object.
Example response: {"product_name": "contains 'apple'", "product_price": "< 50"}`,
		input.Entity.Name, fields, input.Query)
}

// stripCodeFence removes the Markdown fencing models often wrap JSON in.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
