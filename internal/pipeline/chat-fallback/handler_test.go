// internal/pipeline/chat-fallback/handler_test.go
package chatfallback

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"chainx-bot/internal/common/logger"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeGenerator struct {
	response string
	err      error
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return f.response, f.err
}

func createTestHandler(t *testing.T, gen *fakeGenerator) *Handler {
	return NewHandler(LoadConfig(), gen, logger.NewTestLogger(t))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_ReturnsModelReply(t *testing.T) {
	handler := createTestHandler(t, &fakeGenerator{response: "Hey! Ask me about products."})

	reply := handler.Execute(context.Background(), "hello")

	assert.Equal(t, "Hey! Ask me about products.", reply)
}

func TestHandler_Execute_EmptyReplyGetsDefault(t *testing.T) {
	handler := createTestHandler(t, &fakeGenerator{response: ""})

	reply := handler.Execute(context.Background(), "hello")

	assert.Equal(t, defaultReply, reply)
}

func TestHandler_Execute_ServiceFailureGetsCannedReply(t *testing.T) {
	handler := createTestHandler(t, &fakeGenerator{err: context.DeadlineExceeded})

	reply := handler.Execute(context.Background(), "hello")

	assert.Equal(t, serviceFailureReply, reply)
}

func TestHandler_Execute_OtherFailureGetsCannedReply(t *testing.T) {
	handler := createTestHandler(t, &fakeGenerator{err: errors.New("empty candidates")})

	reply := handler.Execute(context.Background(), "hello")

	assert.Equal(t, unexpectedFailureReply, reply)
}
