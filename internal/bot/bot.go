// internal/bot/bot.go
package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"chainx-bot/internal/common/config"
	stderrors "chainx-bot/internal/common/errors"
	"chainx-bot/internal/common/logger"
	"chainx-bot/internal/common/metrics"
	"chainx-bot/internal/inference"
	applyfilters "chainx-bot/internal/pipeline/apply-filters"
	chatfallback "chainx-bot/internal/pipeline/chat-fallback"
	extractfilters "chainx-bot/internal/pipeline/extract-filters"
	fetchrecords "chainx-bot/internal/pipeline/fetch-records"
	formatresponse "chainx-bot/internal/pipeline/format-response"
	resolveentity "chainx-bot/internal/pipeline/resolve-entity"
	"chainx-bot/internal/schema"
)

// sender is the slice of the Telegram client the orchestrator needs. Tests
// substitute a recording fake.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot drives incoming Telegram updates through the query pipeline:
// resolve-entity, extract-filters, fetch-records, apply-filters,
// format-response, with chat-fallback for queries about no known entity.
type Bot struct {
	api            *tgbotapi.BotAPI
	sender         sender
	registry       *schema.Registry
	resolve        *resolveentity.Handler
	extract        *extractfilters.Handler
	fetch          *fetchrecords.Handler
	format         *formatresponse.Handler
	chat           *chatfallback.Handler
	logger         logger.Logger
	updateTimeout  int
	maxMessageSize int
}

func New(cfg *config.Config, api *tgbotapi.BotAPI, registry *schema.Registry, gen inference.Generator, log logger.Logger) *Bot {
	resolveCfg := &resolveentity.Config{Timeout: config.GetDuration(cfg.Pipeline.ResolveTimeout)}
	extractCfg := &extractfilters.Config{Timeout: config.GetDuration(cfg.Pipeline.ExtractTimeout)}
	chatCfg := &chatfallback.Config{Timeout: config.GetDuration(cfg.Pipeline.ChatTimeout)}
	fetchCfg := &fetchrecords.Config{Timeout: config.GetDuration(cfg.DataSource.Timeout)}

	maxSize := cfg.Telegram.MaxMessageSize
	if maxSize <= 0 {
		maxSize = formatresponse.MaxMessageLength
	}

	return &Bot{
		api:            api,
		sender:         api,
		registry:       registry,
		resolve:        resolveentity.NewHandler(resolveCfg, registry, gen, log),
		extract:        extractfilters.NewHandler(extractCfg, gen, log),
		fetch:          fetchrecords.NewHandler(fetchCfg, log),
		format:         formatresponse.NewHandler(log),
		chat:           chatfallback.NewHandler(chatCfg, gen, log),
		logger:         log.WithFields(map[string]interface{}{"component": "bot"}),
		updateTimeout:  cfg.Telegram.UpdateTimeout,
		maxMessageSize: maxSize,
	}
}

// Run long-polls for updates until ctx is cancelled. Each update is handled
// on its own goroutine so a slow pipeline run never blocks the poll loop.
func (b *Bot) Run(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = b.updateTimeout

	updates := b.api.GetUpdatesChan(updateConfig)

	b.logger.Info("bot started", map[string]interface{}{
		"username": b.api.Self.UserName,
	})

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.logger.Info("bot stopped", nil)
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	msg := update.Message
	log := b.logger.WithFields(map[string]interface{}{
		"requestId": uuid.New().String(),
		"chatId":    msg.Chat.ID,
	})

	if msg.IsCommand() {
		if msg.Command() == "start" {
			b.reply(log, msg.Chat.ID, welcomeMessage)
		}
		return
	}

	// Last-resort terminal: anything that escapes the pipeline still gets a
	// reply, never a crashed process.
	defer func() {
		if r := recover(); r != nil {
			stdErr := stderrors.NewUnexpectedError(fmt.Errorf("%v", r))
			metrics.MessagesHandled.WithLabelValues("error").Inc()
			log.WithError(stdErr).Error("message handling panicked", nil)
			b.reply(log, msg.Chat.ID, unexpectedReply)
		}
	}()

	log.Info("message received", map[string]interface{}{
		"length": len(msg.Text),
	})

	// Best effort; a failed typing indicator never blocks the reply.
	if _, err := b.sender.Request(tgbotapi.NewChatAction(msg.Chat.ID, tgbotapi.ChatTyping)); err != nil {
		log.Debug("typing action failed", map[string]interface{}{"error": err.Error()})
	}

	replies, outcome := b.Answer(ctx, log, msg.Text)
	metrics.MessagesHandled.WithLabelValues(outcome).Inc()

	for _, reply := range replies {
		b.reply(log, msg.Chat.ID, reply)
	}
}

// Answer runs one query through the pipeline and returns the ordered replies
// to send, plus an outcome tag for metrics. It never returns zero replies.
func (b *Bot) Answer(ctx context.Context, log logger.Logger, query string) ([]string, string) {
	resolved, err := b.executeResolve(ctx, query)
	if err != nil {
		stdErr := asStandardError(err, resolveentity.TaskType)
		metrics.StageFailures.WithLabelValues(resolveentity.TaskType, string(stdErr.Code)).Inc()
		log.WithError(stdErr).Error("entity resolution failed", nil)
		reply := resolveFailedReply
		if stdErr.Code == stderrors.ErrCodeUnexpectedError {
			reply = unexpectedReply
		}
		return []string{reply}, "error"
	}

	if resolved.Entity == nil {
		reply := b.executeChat(ctx, query)
		log.Info("handled as conversation", nil)
		return []string{reply}, "chat"
	}

	entity := resolved.Entity
	log = log.WithFields(map[string]interface{}{"entity": entity.Name})

	// Fetch before extracting: a dead data source must not cost an
	// inference call.
	fetched, err := b.executeFetch(ctx, entity)
	if err != nil {
		stdErr := stderrors.NewDataFetchFailedError(entity.Name, err)
		metrics.StageFailures.WithLabelValues(fetchrecords.TaskType, string(stdErr.Code)).Inc()
		log.WithError(stdErr).Error("data fetch failed", nil)
		return []string{fmt.Sprintf(fetchFailedReplyFmt, entity.Name)}, "error"
	}

	extracted := b.executeExtract(ctx, entity, query)

	matched := b.applyFilters(fetched.Records, extracted.Filters, entity)
	log.Info("records filtered", map[string]interface{}{
		"fetched": len(fetched.Records),
		"matched": len(matched),
	})

	text := b.format.Format(matched, entity, extracted.Filters)
	text, truncated := formatresponse.Truncate(text, b.maxMessageSize)

	replies := []string{text}
	if truncated {
		metrics.RepliesTruncated.Inc()
		log.Warn("reply truncated", map[string]interface{}{"entity": entity.Name})
		replies = append(replies, fmt.Sprintf(shortenedNoticeFmt, entity.Name))
	}
	return replies, "data"
}

func (b *Bot) executeResolve(ctx context.Context, query string) (*resolveentity.Output, error) {
	defer observe(resolveentity.TaskType, time.Now())
	return b.resolve.Execute(ctx, &resolveentity.Input{Query: query})
}

func (b *Bot) executeExtract(ctx context.Context, entity *schema.Entity, query string) *extractfilters.Output {
	defer observe(extractfilters.TaskType, time.Now())
	out, err := b.extract.Execute(ctx, &extractfilters.Input{Entity: entity, Query: query})
	if err != nil || out == nil {
		// Execute absorbs its own failures; this is a safety net only.
		return &extractfilters.Output{Filters: map[string]string{}}
	}
	return out
}

func (b *Bot) executeFetch(ctx context.Context, entity *schema.Entity) (*fetchrecords.Output, error) {
	defer observe(fetchrecords.TaskType, time.Now())
	return b.fetch.Execute(ctx, entity)
}

func (b *Bot) executeChat(ctx context.Context, query string) string {
	defer observe(chatfallback.TaskType, time.Now())
	return b.chat.Execute(ctx, query)
}

func (b *Bot) applyFilters(records []fetchrecords.Record, filters map[string]string, entity *schema.Entity) []formatresponse.Record {
	defer observe(applyfilters.TaskType, time.Now())
	matched := make([]formatresponse.Record, 0, len(records))
	for _, record := range records {
		if applyfilters.Matches(record, filters, entity) {
			matched = append(matched, record)
		}
	}
	return matched
}

// reply sends one message, retrying without Markdown when the formatted text
// is rejected by the transport.
func (b *Bot) reply(log logger.Logger, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := b.sender.Send(msg); err != nil {
		log.Warn("markdown send failed, retrying as plain text", map[string]interface{}{
			"error": err.Error(),
		})
		plain := tgbotapi.NewMessage(chatID, text)
		if _, err := b.sender.Send(plain); err != nil {
			log.WithError(err).Error("send failed", nil)
		}
	}
}

// asStandardError maps a resolution failure onto the shared error taxonomy.
func asStandardError(err error, stage string) *stderrors.StandardError {
	switch {
	case errors.Is(err, resolveentity.ErrInferenceTimeout):
		return stderrors.NewInferenceAPITimeoutError(stage)
	case errors.Is(err, resolveentity.ErrResolutionFailed):
		return stderrors.NewEntityResolutionFailedError(err)
	default:
		return stderrors.NewUnexpectedError(err)
	}
}

func observe(taskType string, start time.Time) {
	metrics.StageDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())
}
