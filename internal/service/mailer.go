package service

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// LogMailer writes outgoing emails to the log instead of sending them.
type LogMailer struct{}

func (LogMailer) SendPasswordReset(_ context.Context, to, name, link string) error {
	log.WithFields(log.Fields{
		"to":   to,
		"name": name,
		"link": link,
	}).Info("password reset requested")
	return nil
}
