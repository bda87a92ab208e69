package mailer

import (
	"fmt"
	"html/template"
	"strings"
)

// Content is a rendered email body pair.
type Content struct {
	Subject string
	HTML    string
	Text    string
}

var verificationHTML = template.Must(template.New("verification").Parse(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<title>Confirm your subscription</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<h1 style="color: #111;">Confirm your subscription</h1>
		<p>Thanks for signing up for the {{.SiteName}} newsletter.</p>
		<p>Please confirm your email address by clicking the button below:</p>
		<div style="text-align: center; margin: 30px 0;">
			<a href="{{.URL}}" style="background-color: #111; color: #fff; padding: 12px 30px; text-decoration: none; border-radius: 5px; display: inline-block;">Confirm subscription</a>
		</div>
		<p>Or copy and paste this link into your browser:</p>
		<p style="word-break: break-all; color: #666;">{{.URL}}</p>
		<p>If you didn't sign up, you can ignore this email.</p>
		<hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
		<p style="color: #999; font-size: 12px;">This is an automated message, please do not reply.</p>
	</div>
</body>
</html>`))

// RenderVerification renders the subscription confirmation email.
func RenderVerification(siteName, verifyURL string) (*Content, error) {
	data := struct {
		SiteName string
		URL      string
	}{
		SiteName: siteName,
		URL:      verifyURL,
	}

	var buf strings.Builder
	if err := verificationHTML.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}

	return &Content{
		Subject: fmt.Sprintf("Confirm your %s subscription", siteName),
		HTML:    buf.String(),
		Text: fmt.Sprintf(
			"Thanks for signing up for the %s newsletter.\n\nConfirm your subscription by opening this link:\n\n%s\n\nIf you didn't sign up, you can ignore this email.\n",
			siteName, verifyURL,
		),
	}, nil
}
