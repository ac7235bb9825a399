// internal/pipeline/fetch-records/handler.go
package fetchrecords

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"chainx-bot/internal/common/httpclient"
	"chainx-bot/internal/common/logger"
	"chainx-bot/internal/schema"
)

const TaskType = "fetch-records"

var ErrUnexpectedShape = errors.New("unexpected response shape")

type Handler struct {
	config *Config
	client *httpclient.Client
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		client: httpclient.NewClient(config.Timeout),
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// Execute retrieves the entity's current records from its configured data
// source and normalizes the body: a JSON array of objects becomes the record
// slice, a single object becomes a one-element slice, anything else is a
// FetchError.
func (h *Handler) Execute(ctx context.Context, entity *schema.Entity) (*Output, error) {
	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, entity.SourceURL, nil)
	if err != nil {
		return nil, &FetchError{Entity: entity.Name, Err: err}
	}

	resp, err := h.client.Do(req)
	if err != nil {
		h.logger.Error("data source request failed", map[string]interface{}{
			"entity": entity.Name,
			"url":    entity.SourceURL,
			"error":  err.Error(),
		})
		return nil, &FetchError{Entity: entity.Name, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		h.logger.Error("data source returned bad status", map[string]interface{}{
			"entity": entity.Name,
			"url":    entity.SourceURL,
			"status": resp.StatusCode,
		})
		return nil, &FetchError{Entity: entity.Name, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Entity: entity.Name, Err: err}
	}

	records, err := h.normalize(entity.Name, body)
	if err != nil {
		return nil, &FetchError{Entity: entity.Name, Err: err}
	}

	h.logger.Info("records fetched", map[string]interface{}{
		"entity":      entity.Name,
		"recordCount": len(records),
	})
	return &Output{Records: records}, nil
}

func (h *Handler) normalize(entity string, body []byte) ([]Record, error) {
	var decoded interface{}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}

	switch v := decoded.(type) {
	case []interface{}:
		records := make([]Record, 0, len(v))
		for _, item := range v {
			obj, ok := item.(map[string]interface{})
			if !ok {
				h.logger.Warn("skipping non-object item in data source response", map[string]interface{}{
					"entity": entity,
				})
				continue
			}
			records = append(records, obj)
		}
		return records, nil
	case map[string]interface{}:
		return []Record{v}, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnexpectedShape, decoded)
	}
}
