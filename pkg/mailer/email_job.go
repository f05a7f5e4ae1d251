package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue. Today the only
// producer is registration, which enqueues a welcome message.
type EmailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html,omitempty"`
}

// WelcomeJob builds the registration welcome email for a new account.
func WelcomeJob(username, email string) EmailJob {
	return EmailJob{
		To:      email,
		Subject: "Welcome to Healthcare API",
		Text: "Hi " + username + ",\n\n" +
			"Your account has been created. You can now sign in and start managing patient records.\n",
	}
}
