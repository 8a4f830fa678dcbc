package messaging

// PatternSendEmail is handled by the email service.
const PatternSendEmail = "send_email"

// EmailPayload is the data of a send_email message.
type EmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// Mailer hands emails to the email service.
type Mailer struct {
	dispatcher *Dispatcher
}

func NewMailer(dispatcher *Dispatcher) *Mailer {
	return &Mailer{dispatcher: dispatcher}
}

// SendEmail returns immediately; delivery happens in the background.
func (m *Mailer) SendEmail(to, subject, text string) {
	m.dispatcher.Emit(PatternSendEmail, EmailPayload{
		To:      to,
		Subject: subject,
		Text:    text,
	})
}
