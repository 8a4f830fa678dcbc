package messaging

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
)

const ResetPasswordSubject = "Password Reset Request"

var resetPasswordTemplate = template.Must(template.New("reset_password").Parse(
	`<p>Hello {{.Name}},</p>
<p>We received a request to reset your password. Use the link below within the next hour:</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
<p>If you did not request a reset, you can ignore this email.</p>`))

// ResetLink builds <base>/reset-password/<userID>/<token>.
func ResetLink(baseURL, userID, token string) string {
	return fmt.Sprintf("%s/reset-password/%s/%s", baseURL, url.PathEscape(userID), url.PathEscape(token))
}

// RenderResetPasswordEmail renders the reset email body.
func RenderResetPasswordEmail(name, link string) (string, error) {
	var buf bytes.Buffer
	err := resetPasswordTemplate.Execute(&buf, struct {
		Name string
		Link string
	}{Name: name, Link: link})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
