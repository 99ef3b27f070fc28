package mail

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type funcSender func(ctx context.Context, msg Message) error

func (f funcSender) Send(ctx context.Context, msg Message) error { return f(ctx, msg) }

func TestWithTimeout_PassesThrough(t *testing.T) {
	var got Message
	s := WithTimeout(funcSender(func(ctx context.Context, msg Message) error {
		got = msg
		return nil
	}), time.Second)

	require.NoError(t, s.Send(context.Background(), Message{To: "a@example.com", Subject: "hi"}))
	assert.Equal(t, "a@example.com", got.To)
}

func TestWithTimeout_PropagatesSenderError(t *testing.T) {
	s := WithTimeout(funcSender(func(ctx context.Context, msg Message) error {
		return common.ErrMailDispatch
	}), time.Second)

	err := s.Send(context.Background(), Message{})
	assert.ErrorIs(t, err, common.ErrMailDispatch)
	assert.NotErrorIs(t, err, common.ErrMailTimeout)
}

func TestWithTimeout_Expires(t *testing.T) {
	s := WithTimeout(funcSender(func(ctx context.Context, msg Message) error {
		<-ctx.Done()
		return ctx.Err()
	}), 20*time.Millisecond)

	start := time.Now()
	err := s.Send(context.Background(), Message{})
	assert.ErrorIs(t, err, common.ErrMailTimeout)
	assert.ErrorIs(t, err, common.ErrMailDispatch)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestWithTimeout_ParentCancelled(t *testing.T) {
	s := WithTimeout(funcSender(func(ctx context.Context, msg Message) error {
		<-ctx.Done()
		return ctx.Err()
	}), time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Send(ctx, Message{})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMailDispatch)
	assert.NotErrorIs(t, err, common.ErrMailTimeout)
}

func TestWithTimeout_NonPositiveReturnsNext(t *testing.T) {
	next := funcSender(func(ctx context.Context, msg Message) error { return nil })
	s := WithTimeout(next, 0)
	_, wrapped := s.(*timeoutSender)
	assert.False(t, wrapped)
}

func TestLogSender(t *testing.T) {
	require.NoError(t, NewLogSender(logging.Nop{}).Send(context.Background(), Message{To: "a@example.com"}))
}

func TestNewSMTPSender_BadFromAddress(t *testing.T) {
	_, err := NewSMTPSender("smtp.example.com:465", "user", "pass", "not an address")
	require.Error(t, err)
}

func TestVerificationLink(t *testing.T) {
	assert.Equal(t,
		"http://localhost:4000/auth/verify/u-1/abc",
		VerificationLink("http://localhost:4000/", "u-1", "abc"))
	assert.Equal(t,
		"https://auth.example.com/auth/verify/u-1/abc",
		VerificationLink("https://auth.example.com", "u-1", "abc"))
}

func TestVerificationMessage(t *testing.T) {
	msg, err := VerificationMessage("a@example.com", "Alice", "http://x/auth/verify/u/s", 6*time.Hour)
	require.NoError(t, err)

	assert.Equal(t, "a@example.com", msg.To)
	assert.Equal(t, verificationSubject, msg.Subject)
	assert.Contains(t, msg.Body, "Hello Alice,")
	assert.Contains(t, msg.Body, "http://x/auth/verify/u/s")
	assert.Contains(t, msg.Body, "expires in 6 hours")
}

func TestVerificationMessage_NameIsNotEscaped(t *testing.T) {
	msg, err := VerificationMessage("a@example.com", "Tom & Jerry's <crew>", "http://x/auth/verify/u/s?a=1&b=2", time.Hour)
	require.NoError(t, err)

	assert.Contains(t, msg.Body, "Hello Tom & Jerry's <crew>,")
	assert.Contains(t, msg.Body, "http://x/auth/verify/u/s?a=1&b=2")
	assert.NotContains(t, msg.Body, "&amp;")
	assert.NotContains(t, msg.Body, "&#39;")
}

func TestVerificationMessage_NoName(t *testing.T) {
	msg, err := VerificationMessage("a@example.com", "", "l", time.Hour)
	require.NoError(t, err)
	assert.True(t, strings.Contains(msg.Body, "Hello,"))
	assert.Contains(t, msg.Body, "expires in 1 hour.")
}

func TestHumanDuration(t *testing.T) {
	cases := map[time.Duration]string{
		6 * time.Hour:           "6 hours",
		time.Hour:               "1 hour",
		90 * time.Minute:        "90 minutes",
		time.Minute:             "1 minute",
		1500 * time.Millisecond: "1.5s",
	}
	for d, want := range cases {
		assert.Equal(t, want, humanDuration(d), d.String())
	}
}
