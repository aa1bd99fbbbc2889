package core

import (
	"context"
	"testing"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeLinkGenerator struct {
	lastEmail    string
	lastSettings *fbauth.ActionCodeSettings
}

func (g *fakeLinkGenerator) EmailSignInLink(ctx context.Context, email string, settings *fbauth.ActionCodeSettings) (string, error) {
	g.lastEmail = email
	g.lastSettings = settings
	return "https://app.example.com/__/auth/action?mode=signIn&oobCode=abc", nil
}

type fakeMailer struct {
	recipient string
	subject   string
	body      string
}

func (m *fakeMailer) Send(recipient, subject, body string) error {
	m.recipient = recipient
	m.subject = subject
	m.body = body
	return nil
}

func TestSendSignInLinkDeliversLink(t *testing.T) {
	links := &fakeLinkGenerator{}
	mail := &fakeMailer{}
	svc := NewAuthService(links, mail, zap.NewNop(), "https://app.example.com")

	err := svc.SendSignInLink(context.Background(), "a@example.com", "")
	require.NoError(t, err)

	assert.Equal(t, "a@example.com", links.lastEmail)
	require.NotNil(t, links.lastSettings)
	assert.Equal(t, "https://app.example.com/auth/complete", links.lastSettings.URL)
	assert.True(t, links.lastSettings.HandleCodeInApp)

	assert.Equal(t, "a@example.com", mail.recipient)
	assert.Contains(t, mail.body, "oobCode=abc")
}

func TestSendSignInLinkKeepsSameOriginReturnURL(t *testing.T) {
	links := &fakeLinkGenerator{}
	svc := NewAuthService(links, &fakeMailer{}, zap.NewNop(), "https://app.example.com")

	require.NoError(t, svc.SendSignInLink(context.Background(), "a@example.com", "https://app.example.com/songs/42"))
	assert.Equal(t, "https://app.example.com/songs/42", links.lastSettings.URL)

	// A foreign return URL falls back to the default completion page.
	require.NoError(t, svc.SendSignInLink(context.Background(), "a@example.com", "https://evil.example.net/phish"))
	assert.Equal(t, "https://app.example.com/auth/complete", links.lastSettings.URL)
}

func TestSendSignInLinkWithoutMailer(t *testing.T) {
	svc := NewAuthService(&fakeLinkGenerator{}, nil, zap.NewNop(), "https://app.example.com")
	err := svc.SendSignInLink(context.Background(), "a@example.com", "")
	require.ErrorIs(t, err, ErrMailerNotConfigured)
}
