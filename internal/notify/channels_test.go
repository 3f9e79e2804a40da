package notify

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gopkg.in/gomail.v2"
)

type fakeTwilio struct {
	params *twilioApi.CreateMessageParams
	err    error
}

func (f *fakeTwilio) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	f.params = params
	return &twilioApi.ApiV2010Message{}, f.err
}

func TestSMSSend(t *testing.T) {
	api := &fakeTwilio{}
	sms := &SMS{api: api, from: "+15550001", to: "+15550002"}

	require.NoError(t, sms.Send(context.Background(), "ignored", "MORNING: 95.00 => 80.00"))
	require.NotNil(t, api.params)
	assert.Equal(t, "+15550001", *api.params.From)
	assert.Equal(t, "+15550002", *api.params.To)
	assert.Equal(t, "MORNING: 95.00 => 80.00", *api.params.Body)
	assert.Equal(t, "sms", sms.Name())
}

func TestSMSSendError(t *testing.T) {
	sms := &SMS{api: &fakeTwilio{err: errors.New("401")}}
	err := sms.Send(context.Background(), "", "body")
	assert.ErrorContains(t, err, "twilio create message")
}

type fakeDialer struct {
	messages []*gomail.Message
	err      error
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	f.messages = append(f.messages, m...)
	return f.err
}

func TestEmailSend(t *testing.T) {
	dialer := &fakeDialer{}
	email := &Email{dialer: dialer, from: "pricer@example.com", to: "me@example.com"}

	require.NoError(t, email.Send(context.Background(), "SWA Flight Alert!", "body"))
	require.Len(t, dialer.messages, 1)
	m := dialer.messages[0]
	assert.Equal(t, []string{"pricer@example.com"}, m.GetHeader("From"))
	assert.Equal(t, []string{"me@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"SWA Flight Alert!"}, m.GetHeader("Subject"))
}

func TestEmailSendCancelled(t *testing.T) {
	dialer := &fakeDialer{}
	email := &Email{dialer: dialer}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, email.Send(ctx, "s", "b"), context.Canceled)
	assert.Empty(t, dialer.messages)
}

type fakeBot struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: len(f.sent)}, f.err
}

func TestTelegramSend(t *testing.T) {
	bot := &fakeBot{}
	tg := &Telegram{api: bot, chatID: 42}

	require.NoError(t, tg.Send(context.Background(), "SWA Flight Alert!", "body"))
	require.Len(t, bot.sent, 1)
	msg, ok := bot.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Equal(t, "SWA Flight Alert!\nbody", msg.Text)
}
