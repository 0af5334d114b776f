package email_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/mrz1836/postmark"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"

	"github.com/dmitrymomot/formrelay/pkg/email"
)

type mockSMTPClient struct {
	mock.Mock
}

func (m *mockSMTPClient) DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error {
	args := m.Called(ctx, messages)
	return args.Error(0)
}

type mockPostmark struct {
	mock.Mock
}

func (m *mockPostmark) SendEmail(ctx context.Context, e postmark.Email) (postmark.EmailResponse, error) {
	args := m.Called(ctx, e)
	return args.Get(0).(postmark.EmailResponse), args.Error(1)
}

type mockSES struct {
	mock.Mock
}

func (m *mockSES) SendEmail(ctx context.Context, in *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*sesv2.SendEmailOutput)
	return out, args.Error(1)
}

func TestSMTPSender_Send(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("delivers one message", func(t *testing.T) {
		t.Parallel()

		client := &mockSMTPClient{}
		client.On("DialAndSendWithContext", ctx, mock.MatchedBy(func(msgs []*mail.Msg) bool {
			return len(msgs) == 1
		})).Return(nil).Once()

		s := email.NewSMTPSenderWithClient(client, "Form Relay")
		require.NoError(t, s.Send(ctx, validMessage()))
		client.AssertExpectations(t)
	})

	t.Run("wraps transport error", func(t *testing.T) {
		t.Parallel()

		client := &mockSMTPClient{}
		client.On("DialAndSendWithContext", ctx, mock.Anything).Return(errors.New("535 auth failed")).Once()

		s := email.NewSMTPSenderWithClient(client, "")
		err := s.Send(ctx, validMessage())
		assert.ErrorIs(t, err, email.ErrFailedToSendEmail)
		assert.Contains(t, err.Error(), "535 auth failed")
	})

	t.Run("rejects invalid message before dialing", func(t *testing.T) {
		t.Parallel()

		client := &mockSMTPClient{}
		s := email.NewSMTPSenderWithClient(client, "")

		msg := validMessage()
		msg.To = ""
		assert.ErrorIs(t, s.Send(ctx, msg), email.ErrInvalidMessage)
		client.AssertNotCalled(t, "DialAndSendWithContext", mock.Anything, mock.Anything)
	})
}

func TestPostmarkSender_Send(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("maps message fields", func(t *testing.T) {
		t.Parallel()

		client := &mockPostmark{}
		msg := validMessage()
		msg.ReplyTo = "visitor@example.org"
		msg.Attachment = &email.Attachment{Filename: "a.txt", ContentType: "text/plain", Content: []byte("hello")}

		client.On("SendEmail", ctx, mock.MatchedBy(func(e postmark.Email) bool {
			return e.From == "Form Relay <relay@example.com>" &&
				e.To == msg.To &&
				e.ReplyTo == msg.ReplyTo &&
				e.Subject == msg.Subject &&
				e.Tag == msg.Tag &&
				e.TextBody == msg.Text &&
				e.HTMLBody == msg.HTML &&
				len(e.Attachments) == 1 &&
				e.Attachments[0].Name == "a.txt" &&
				e.Attachments[0].Content == base64.StdEncoding.EncodeToString([]byte("hello"))
		})).Return(postmark.EmailResponse{MessageID: "abc"}, nil).Once()

		s := email.NewPostmarkSenderWithClient(client, "Form Relay")
		require.NoError(t, s.Send(ctx, msg))
		client.AssertExpectations(t)
	})

	t.Run("api error code", func(t *testing.T) {
		t.Parallel()

		client := &mockPostmark{}
		client.On("SendEmail", ctx, mock.Anything).
			Return(postmark.EmailResponse{ErrorCode: 406, Message: "Inactive recipient"}, nil).Once()

		s := email.NewPostmarkSenderWithClient(client, "")
		err := s.Send(ctx, validMessage())
		assert.ErrorIs(t, err, email.ErrFailedToSendEmail)
		assert.Contains(t, err.Error(), "Inactive recipient")
	})

	t.Run("transport error", func(t *testing.T) {
		t.Parallel()

		client := &mockPostmark{}
		client.On("SendEmail", ctx, mock.Anything).
			Return(postmark.EmailResponse{}, errors.New("connection reset")).Once()

		s := email.NewPostmarkSenderWithClient(client, "")
		assert.ErrorIs(t, s.Send(ctx, validMessage()), email.ErrFailedToSendEmail)
	})
}

func TestSESSender_Send(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("sends raw mime", func(t *testing.T) {
		t.Parallel()

		client := &mockSES{}
		client.On("SendEmail", ctx, mock.MatchedBy(func(in *sesv2.SendEmailInput) bool {
			return *in.FromEmailAddress == "relay@example.com" &&
				len(in.Destination.ToAddresses) == 1 &&
				in.Destination.ToAddresses[0] == "owner@example.com" &&
				in.Content.Raw != nil &&
				strings.Contains(string(in.Content.Raw.Data), "Subject: New Form Submission from contact") &&
				len(in.EmailTags) == 1 &&
				*in.EmailTags[0].Value == "form-submission"
		})).Return(&sesv2.SendEmailOutput{}, nil).Once()

		s := email.NewSESSenderWithClient(client, "Form Relay")
		require.NoError(t, s.Send(ctx, validMessage()))
		client.AssertExpectations(t)
	})

	t.Run("api error", func(t *testing.T) {
		t.Parallel()

		client := &mockSES{}
		client.On("SendEmail", ctx, mock.Anything).Return(nil, errors.New("MessageRejected")).Once()

		s := email.NewSESSenderWithClient(client, "")
		err := s.Send(ctx, validMessage())
		assert.ErrorIs(t, err, email.ErrFailedToSendEmail)
		assert.Contains(t, err.Error(), "MessageRejected")
	})
}

func TestDevSender_Send(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("writes message files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		s := email.NewDevSender(dir)

		msg := validMessage()
		msg.Attachment = &email.Attachment{Filename: "Notes 1.txt", ContentType: "text/plain", Content: []byte("notes")}
		require.NoError(t, s.Send(ctx, msg))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 4)

		var jsonFile string
		exts := map[string]bool{}
		for _, e := range entries {
			exts[filepath.Ext(e.Name())] = true
			if filepath.Ext(e.Name()) == ".json" {
				jsonFile = e.Name()
			}
			assert.Contains(t, e.Name(), "form-submission")
		}
		assert.True(t, exts[".html"])
		assert.True(t, exts[".json"])

		data, err := os.ReadFile(filepath.Join(dir, jsonFile))
		require.NoError(t, err)

		var meta map[string]string
		require.NoError(t, json.Unmarshal(data, &meta))
		assert.Equal(t, "owner@example.com", meta["to"])
		assert.Equal(t, msg.Subject, meta["subject"])
		assert.True(t, strings.HasSuffix(meta["attachment"], "notes_1.txt"))

		att, err := os.ReadFile(filepath.Join(dir, meta["attachment"]))
		require.NoError(t, err)
		assert.Equal(t, "notes", string(att))
	})

	t.Run("creates directory", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "nested", "mail")
		require.NoError(t, email.NewDevSender(dir).Send(ctx, validMessage()))

		_, err := os.Stat(dir)
		assert.NoError(t, err)
	})

	t.Run("invalid message", func(t *testing.T) {
		t.Parallel()

		msg := validMessage()
		msg.Subject = ""
		assert.ErrorIs(t, email.NewDevSender(t.TempDir()).Send(ctx, msg), email.ErrInvalidMessage)
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		assert.ErrorIs(t, email.NewDevSender(t.TempDir()).Send(cctx, validMessage()), context.Canceled)
	})
}
