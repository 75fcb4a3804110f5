package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Mail event kinds understood by the notification pipeline.
const (
	MailKindVerification  = "account.verification"
	MailKindAlreadyExists = "account.already_registered"
	MailKindPasswordReset = "account.password_reset"
)

// MailEvent asks the notification pipeline to deliver one email. Delivery is
// best effort; the auth flow that produced the event has already committed.
type MailEvent struct {
	Kind       string    `json:"kind"`
	To         string    `json:"to"`
	From       string    `json:"from,omitempty"`
	ReplyTo    string    `json:"replyTo,omitempty"`
	UserName   string    `json:"userName,omitempty"`
	ActionURL  string    `json:"actionUrl,omitempty"`
	QRCodePNG  []byte    `json:"qrCodePng,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// SecurityEvent records an auth-relevant occurrence for the audit pipeline,
// such as a denied role check or a bulk session revocation.
type SecurityEvent struct {
	Kind       string    `json:"kind"`
	UserID     uuid.UUID `json:"userId,omitempty"`
	IP         string    `json:"ip,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// EventPublisher fans auth side effects out to the messaging layer.
// Implementations must not block the request path beyond their own timeout
// and must never fail the calling operation.
type EventPublisher interface {
	PublishMail(ctx context.Context, event MailEvent) error
	PublishSecurity(ctx context.Context, event SecurityEvent) error
	Close() error
}
