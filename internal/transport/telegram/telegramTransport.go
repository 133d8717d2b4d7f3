package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/akolanti/FAQBot/internal/adapter/utils"
	"github.com/akolanti/FAQBot/internal/config"
	"github.com/akolanti/FAQBot/internal/domain/queryModel"
	"github.com/akolanti/FAQBot/internal/transport"
	"github.com/akolanti/FAQBot/pkg/logger_i"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var ErrUpdatesClosed = errors.New("telegram updates channel closed")

// botAPI is the part of *tgbotapi.BotAPI the transport uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Client is the Telegram long polling transport.
type Client struct {
	api         botAPI
	pollTimeout int
	now         func() time.Time
	logger      *logger_i.Logger
}

var _ transport.Transport = (*Client)(nil)
var _ transport.Listener = (*Client)(nil)

// NewClient authenticates the token with getMe.
func NewClient(token string, httpClient *http.Client) (*Client, error) {
	if token == "" {
		return nil, errors.New("telegram: token is required")
	}
	api, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, httpClient)
	if err != nil {
		return nil, fmt.Errorf("telegram: connect: %w", err)
	}
	c := newClient(api)
	c.logger.Info("Telegram bot authorized", "username", api.Self.UserName)
	return c, nil
}

func newClient(api botAPI) *Client {
	return &Client{
		api:         api,
		pollTimeout: config.TelegramPollTimeoutSeconds,
		now:         time.Now,
		logger:      logger_i.NewLogger("telegram"),
	}
}

func (c *Client) SendReply(ctx context.Context, chatId int64, text string, withFeedback bool) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	msg := tgbotapi.NewMessage(chatId, text)
	if withFeedback {
		msg.ReplyMarkup = feedbackKeyboard()
	}
	sent, err := c.api.Send(msg)
	if err != nil {
		c.logger.FromContext(ctx).Error("Send failed", "chatId", chatId, "error", err)
		return 0, fmt.Errorf("telegram: send: %w", err)
	}
	return int64(sent.MessageID), nil
}

func (c *Client) RemoveButtons(ctx context.Context, chatId int64, messageId int64) error {
	edit := tgbotapi.NewEditMessageReplyMarkup(chatId, int(messageId), tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
	})
	if _, err := c.api.Request(edit); err != nil {
		return fmt.Errorf("telegram: remove buttons: %w", err)
	}
	return nil
}

func (c *Client) AcknowledgeButton(ctx context.Context, callbackId string) error {
	if _, err := c.api.Request(tgbotapi.NewCallback(callbackId, "")); err != nil {
		return fmt.Errorf("telegram: answer callback: %w", err)
	}
	return nil
}

// Listen long polls for updates and submits every supported one. It returns
// nil once ctx is cancelled.
func (c *Client) Listen(ctx context.Context, submit transport.SubmitFunc) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = c.pollTimeout
	updates := c.api.GetUpdatesChan(u)
	c.logger.Info("Polling for updates", "timeout", c.pollTimeout)

	for {
		select {
		case <-ctx.Done():
			c.api.StopReceivingUpdates()
			c.logger.Info("Stopped polling")
			return nil
		case update, ok := <-updates:
			if !ok {
				return ErrUpdatesClosed
			}
			event, ok := toEvent(update, c.now())
			if !ok {
				continue
			}
			if err := submit(ctx, event); err != nil {
				if ctx.Err() != nil {
					c.api.StopReceivingUpdates()
					return nil
				}
				c.logger.Error("Could not queue update", "updateId", update.UpdateID, "error", err)
			}
		}
	}
}

func feedbackKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(config.SatisfiedButtonText, string(queryModel.ActionSatisfied)),
			tgbotapi.NewInlineKeyboardButtonData(config.ReportButtonText, string(queryModel.ActionReport)),
		),
	)
}

// toEvent maps a Telegram update onto an inbound event. Updates the bot does
// not act on report false.
func toEvent(update tgbotapi.Update, now time.Time) (queryModel.Event, bool) {
	event := queryModel.Event{TraceId: utils.GetNewUUID(), ReceivedAt: now}

	switch {
	case update.CallbackQuery != nil:
		cb := update.CallbackQuery
		if cb.From == nil {
			return event, false
		}
		event.Kind = queryModel.EventButton
		event.User = toUser(cb.From)
		event.Action = queryModel.FeedbackAction(cb.Data)
		event.CallbackId = cb.ID
		event.ChatId = cb.From.ID
		if cb.Message != nil {
			event.MessageId = int64(cb.Message.MessageID)
			if cb.Message.Chat != nil {
				event.ChatId = cb.Message.Chat.ID
			}
		}
		return event, true

	case update.Message != nil:
		msg := update.Message
		if msg.From == nil || msg.Chat == nil {
			return event, false
		}
		event.User = toUser(msg.From)
		event.ChatId = msg.Chat.ID
		event.MessageId = int64(msg.MessageID)
		if msg.IsCommand() {
			event.Kind = queryModel.EventCommand
			event.Command = msg.Command()
			return event, true
		}
		if strings.TrimSpace(msg.Text) == "" {
			return event, false
		}
		event.Kind = queryModel.EventMessage
		event.Text = msg.Text
		return event, true
	}
	return event, false
}

func toUser(u *tgbotapi.User) queryModel.User {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	return queryModel.User{Id: u.ID, DisplayName: name, Handle: u.UserName}
}
