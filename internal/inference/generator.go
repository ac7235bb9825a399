// Package inference wraps the Gemini API behind the single stateless
// operation the pipeline consumes. Each call is independent; no conversation
// memory is kept between calls.
package inference

import (
	"context"
	"errors"
	"net"

	"google.golang.org/api/googleapi"
)

// Generator is the inference capability: one prompt in, one text out.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// IsServiceError reports whether err is a failure of the inference service
// itself (API error, timeout, transport failure) as opposed to a local one.
// The two kinds surface differently: service errors get the AI-service
// apology, everything else the generic one.
func IsServiceError(err error) bool {
	if err == nil {
		return false
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return true
	}
	var nerr net.Error
	if errors.As(err, &nerr) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
