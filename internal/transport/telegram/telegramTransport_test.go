package telegram

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/akolanti/FAQBot/internal/domain/queryModel"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	updates  chan tgbotapi.Update
	stopped  bool
	sendErr  error
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: 77}, f.sendErr
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeAPI) StopReceivingUpdates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

var from = &tgbotapi.User{ID: 42, FirstName: "Asha", LastName: "Rao", UserName: "asha"}

func TestToEvent(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name     string
		update   tgbotapi.Update
		ok       bool
		expected queryModel.Event
	}{
		{
			name: "Text_Message",
			update: tgbotapi.Update{Message: &tgbotapi.Message{
				MessageID: 5, From: from, Chat: &tgbotapi.Chat{ID: 900}, Text: "What is the leave policy?",
			}},
			ok: true,
			expected: queryModel.Event{Kind: queryModel.EventMessage, ChatId: 900, MessageId: 5,
				Text: "What is the leave policy?"},
		},
		{
			name: "Start_Command",
			update: tgbotapi.Update{Message: &tgbotapi.Message{
				MessageID: 6, From: from, Chat: &tgbotapi.Chat{ID: 900}, Text: "/start",
				Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 6}},
			}},
			ok:       true,
			expected: queryModel.Event{Kind: queryModel.EventCommand, ChatId: 900, MessageId: 6, Command: "start"},
		},
		{
			name: "Report_Button",
			update: tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
				ID: "cb-9", From: from, Data: "report",
				Message: &tgbotapi.Message{MessageID: 12, Chat: &tgbotapi.Chat{ID: 900}},
			}},
			ok: true,
			expected: queryModel.Event{Kind: queryModel.EventButton, ChatId: 900, MessageId: 12,
				Action: queryModel.ActionReport, CallbackId: "cb-9"},
		},
		{
			name:   "Blank_Message",
			update: tgbotapi.Update{Message: &tgbotapi.Message{From: from, Chat: &tgbotapi.Chat{ID: 1}, Text: "  "}},
		},
		{
			name:   "Unsupported_Update",
			update: tgbotapi.Update{UpdateID: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, ok := toEvent(tt.update, now)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.NotEmpty(t, event.TraceId)
			assert.Equal(t, queryModel.User{Id: 42, DisplayName: "Asha Rao", Handle: "asha"}, event.User)
			assert.Equal(t, tt.expected.Kind, event.Kind)
			assert.Equal(t, tt.expected.ChatId, event.ChatId)
			assert.Equal(t, tt.expected.MessageId, event.MessageId)
			assert.Equal(t, tt.expected.Text, event.Text)
			assert.Equal(t, tt.expected.Command, event.Command)
			assert.Equal(t, tt.expected.Action, event.Action)
			assert.Equal(t, tt.expected.CallbackId, event.CallbackId)
			assert.Equal(t, now, event.ReceivedAt)
		})
	}
}

func TestSendReply_FeedbackKeyboard(t *testing.T) {
	api := &fakeAPI{}
	c := newClient(api)

	id, err := c.SendReply(context.Background(), 900, "answer", true)
	require.NoError(t, err)
	assert.Equal(t, int64(77), id)

	_, err = c.SendReply(context.Background(), 900, "plain", false)
	require.NoError(t, err)

	require.Len(t, api.sent, 2)
	withButtons := api.sent[0].(tgbotapi.MessageConfig)
	markup, ok := withButtons.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, markup.InlineKeyboard, 1)
	require.Len(t, markup.InlineKeyboard[0], 2)
	assert.Equal(t, "satisfied", *markup.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "report", *markup.InlineKeyboard[0][1].CallbackData)

	plain := api.sent[1].(tgbotapi.MessageConfig)
	assert.Nil(t, plain.ReplyMarkup)
}

func TestSendReply_Error(t *testing.T) {
	c := newClient(&fakeAPI{sendErr: errors.New("forbidden")})
	_, err := c.SendReply(context.Background(), 1, "x", false)
	assert.Error(t, err)
}

func TestRemoveButtonsAndAcknowledge(t *testing.T) {
	api := &fakeAPI{}
	c := newClient(api)

	require.NoError(t, c.RemoveButtons(context.Background(), 900, 12))
	require.NoError(t, c.AcknowledgeButton(context.Background(), "cb-9"))

	require.Len(t, api.requests, 2)
	edit := api.requests[0].(tgbotapi.EditMessageReplyMarkupConfig)
	assert.Equal(t, int64(900), edit.ChatID)
	assert.Equal(t, 12, edit.MessageID)
	require.NotNil(t, edit.ReplyMarkup)
	assert.Empty(t, edit.ReplyMarkup.InlineKeyboard)

	cb := api.requests[1].(tgbotapi.CallbackConfig)
	assert.Equal(t, "cb-9", cb.CallbackQueryID)
}

func TestListen_SubmitsUntilCancelled(t *testing.T) {
	api := &fakeAPI{updates: make(chan tgbotapi.Update, 2)}
	c := newClient(api)
	api.updates <- tgbotapi.Update{Message: &tgbotapi.Message{From: from, Chat: &tgbotapi.Chat{ID: 1}, Text: "hi"}}
	api.updates <- tgbotapi.Update{UpdateID: 2}

	ctx, cancel := context.WithCancel(context.Background())
	received := make(chan queryModel.Event, 2)
	done := make(chan error, 1)
	go func() {
		done <- c.Listen(ctx, func(ctx context.Context, e queryModel.Event) error {
			received <- e
			return nil
		})
	}()

	select {
	case e := <-received:
		assert.Equal(t, "hi", e.Text)
	case <-time.After(2 * time.Second):
		t.Fatal("update was not submitted")
	}
	cancel()
	require.NoError(t, <-done)
	assert.True(t, api.stopped)
	assert.Len(t, received, 0)
}

func TestListen_ClosedUpdates(t *testing.T) {
	api := &fakeAPI{updates: make(chan tgbotapi.Update)}
	close(api.updates)
	err := newClient(api).Listen(context.Background(), func(ctx context.Context, e queryModel.Event) error { return nil })
	assert.ErrorIs(t, err, ErrUpdatesClosed)
}
