package messaging

import "fmt"

// PatternSendNotification is handled by the notification service.
const PatternSendNotification = "send_notification"

// NotificationPayload is the data of a send_notification message.
type NotificationPayload struct {
	CustomerID string `json:"customerId"`
	Message    string `json:"message"`
}

// Notifier hands customer notifications to the notification service.
type Notifier struct {
	dispatcher *Dispatcher
}

func NewNotifier(dispatcher *Dispatcher) *Notifier {
	return &Notifier{dispatcher: dispatcher}
}

func (n *Notifier) SendNotification(customerID, message string) {
	n.dispatcher.Emit(PatternSendNotification, NotificationPayload{
		CustomerID: customerID,
		Message:    message,
	})
}

// LoginMessage is the notification text sent after a successful login.
func LoginMessage(email string) string {
	return fmt.Sprintf("User with email %s has logged in.", email)
}
