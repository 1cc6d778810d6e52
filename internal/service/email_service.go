package service

import (
	"bytes"
	"context"
	htmltemplate "html/template"
	"net/url"
	"strings"
	texttemplate "text/template"
	"time"
)

const (
	subjectVerificationCode = "TripMate: confirm your email"
	subjectPasswordReset    = "TripMate: reset your password"
	subjectWelcome          = "Welcome to TripMate"
)

var (
	verificationHTML = htmltemplate.Must(htmltemplate.New("verification").Parse(
		`<h2>Confirm your email</h2>` +
			`<p>Your verification code: <b>{{.Code}}</b></p>` +
			`<p>The code is valid for {{.Minutes}} minutes.</p>`))
	verificationText = texttemplate.Must(texttemplate.New("verification").Parse(
		"Your TripMate verification code: {{.Code}}\nThe code is valid for {{.Minutes}} minutes.\n"))

	resetHTML = htmltemplate.Must(htmltemplate.New("reset").Parse(
		`<h2>Password reset</h2>` +
			`<p>Follow the link to choose a new password:</p>` +
			`<p><a href="{{.Link}}">Reset password</a></p>` +
			`<p>If you did not request a reset, ignore this email.</p>`))
	resetText = texttemplate.Must(texttemplate.New("reset").Parse(
		"Reset your TripMate password: {{.Link}}\nIf you did not request a reset, ignore this email.\n"))

	welcomeHTML = htmltemplate.Must(htmltemplate.New("welcome").Parse(
		`<h2>Welcome to TripMate!</h2>` +
			`<p>Your email {{.Email}} is confirmed. Find travel companions and plan your next trip together.</p>`))
	welcomeText = texttemplate.Must(texttemplate.New("welcome").Parse(
		"Welcome to TripMate! Your email {{.Email}} is confirmed.\n"))
)

// EmailService renders notification emails and hands them to a Mailer.
type EmailService struct {
	mailer      Mailer
	frontendURL string
	codeTTL     time.Duration
}

func NewEmailService(mailer Mailer, frontendURL string, codeTTL time.Duration) *EmailService {
	if codeTTL <= 0 {
		codeTTL = DefaultCodeTTL
	}
	return &EmailService{
		mailer:      mailer,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		codeTTL:     codeTTL,
	}
}

func (s *EmailService) SendVerificationCode(ctx context.Context, email string, code string) error {
	data := struct {
		Code    string
		Minutes int
	}{Code: code, Minutes: int(s.codeTTL.Minutes())}
	return s.send(ctx, email, subjectVerificationCode, verificationHTML, verificationText, data)
}

func (s *EmailService) SendPasswordResetLink(ctx context.Context, email string, token string) error {
	data := struct{ Link string }{Link: s.ResetLink(token)}
	return s.send(ctx, email, subjectPasswordReset, resetHTML, resetText, data)
}

func (s *EmailService) SendWelcomeMessage(ctx context.Context, email string) error {
	data := struct{ Email string }{Email: email}
	return s.send(ctx, email, subjectWelcome, welcomeHTML, welcomeText, data)
}

func (s *EmailService) ResetLink(token string) string {
	return s.frontendURL + "/reset-password?token=" + url.QueryEscape(token)
}

func (s *EmailService) send(
	ctx context.Context,
	to string,
	subject string,
	html *htmltemplate.Template,
	text *texttemplate.Template,
	data any,
) error {
	var htmlBody, textBody bytes.Buffer
	if err := html.Execute(&htmlBody, data); err != nil {
		return err
	}
	if err := text.Execute(&textBody, data); err != nil {
		return err
	}
	return s.mailer.Send(ctx, EmailMessage{
		To:      to,
		Subject: subject,
		HTML:    htmlBody.String(),
		Text:    textBody.String(),
	})
}

var _ NotificationSender = (*EmailService)(nil)
