package core

import (
	"context"
	"fmt"
	"strings"

	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"

	"songbook-backend-go/internal/mailer"
)

// LinkGenerator generates an email sign-in link for the given address.
// *auth.Client satisfies it.
type LinkGenerator interface {
	EmailSignInLink(ctx context.Context, email string, settings *auth.ActionCodeSettings) (string, error)
}

type authService struct {
	links      LinkGenerator
	mail       mailer.Mailer // optional
	logger     *zap.Logger
	appBaseURL string
}

// NewAuthService creates an AuthService. mail may be nil, in which case
// SendSignInLink reports ErrMailerNotConfigured.
func NewAuthService(links LinkGenerator, mail mailer.Mailer, logger *zap.Logger, appBaseURL string) AuthService {
	return &authService{links: links, mail: mail, logger: logger, appBaseURL: appBaseURL}
}

// SendSignInLink generates a magic sign-in link and emails it to the
// address. The return URL must stay on the application origin; anything
// else falls back to the default completion page.
func (s *authService) SendSignInLink(ctx context.Context, email, returnURL string) error {
	if s.mail == nil {
		return ErrMailerNotConfigured
	}

	continueURL := s.appBaseURL + "/auth/complete"
	if returnURL != "" && strings.HasPrefix(returnURL, s.appBaseURL) {
		continueURL = returnURL
	}

	settings := &auth.ActionCodeSettings{
		URL:             continueURL,
		HandleCodeInApp: true,
	}
	link, err := s.links.EmailSignInLink(ctx, email, settings)
	if err != nil {
		return fmt.Errorf("failed to generate sign-in link: %w", err)
	}

	body := fmt.Sprintf(`<html><body>
<p>Hello,</p>
<p>Click the link below to sign in. The link expires after a short time and can only be used once.</p>
<p><a href="%s">Sign in</a></p>
<p>If you did not request this email, you can safely ignore it.</p>
</body></html>`, link)

	if err := s.mail.Send(email, "Your sign-in link", body); err != nil {
		return err
	}
	s.logger.Info("sign-in link sent", zap.String("email", email))
	return nil
}
