package relay

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"log/slog"

	"incidenthook/internal/incidents"
	"incidenthook/internal/webhook"
)

// Caller-facing bodies for non-validation failures.
const (
	MsgOK             = "OK"
	MsgNotConfigured  = "Webhook destination is not configured"
	MsgDeliveryFailed = "Failed to deliver incident"
)

// ErrDestinationMissing is returned when no webhook URL is configured.
var ErrDestinationMissing = errors.New("webhook destination URL is not set")

// Request is the only view of the inbound call the relay needs.
type Request interface {
	Body() ([]byte, error)
}

// Response is what the caller gets back.
type Response struct {
	Status int
	Body   string
}

// Deliverer sends formatted content to a destination URL.
type Deliverer interface {
	Deliver(ctx context.Context, url, content string) error
}

// Service turns incident notifications into chat messages.
type Service struct {
	WebhookURL string
	Forwarder  Deliverer
	Logger     *slog.Logger
}

func NewService(webhookURL string, fwd Deliverer, logger *slog.Logger) *Service {
	return &Service{
		WebhookURL: webhookURL,
		Forwarder:  fwd,
		Logger:     logger,
	}
}

// Handle runs one invocation: parse, check config, format, deliver.
func (s *Service) Handle(ctx context.Context, req Request) Response {
	if rerr := s.process(ctx, req); rerr != nil {
		return s.respond(rerr)
	}
	return Response{Status: http.StatusOK, Body: MsgOK}
}

func (s *Service) process(ctx context.Context, req Request) *Error {
	body, err := req.Body()
	if err != nil {
		return &Error{Kind: KindInvalidPayload, Msg: incidents.MsgInvalidJSON, Err: err}
	}

	inc, err := incidents.Parse(body)
	if err != nil {
		msg := incidents.MsgInvalidJSON
		var perr *incidents.InvalidPayloadError
		if errors.As(err, &perr) {
			msg = perr.Msg
		}
		return &Error{Kind: KindInvalidPayload, Msg: msg, Err: err}
	}

	url := strings.TrimSpace(s.WebhookURL)
	if url == "" {
		return &Error{Kind: KindConfiguration, Msg: MsgNotConfigured, Err: ErrDestinationMissing}
	}

	content := incidents.Format(inc)

	if err := s.Forwarder.Deliver(ctx, url, content); err != nil {
		return &Error{Kind: KindDelivery, Msg: MsgDeliveryFailed, Err: err}
	}
	s.Logger.Info("incident delivered",
		"summary", inc.First("", "summary"),
		"state", inc.First("", "state"),
		"length", len([]rune(content)))
	return nil
}

func (s *Service) respond(rerr *Error) Response {
	switch rerr.Kind {
	case KindInvalidPayload:
		s.Logger.Warn("invalid request", "err", rerr.Err)
	case KindConfiguration:
		s.Logger.Error("webhook destination not configured", "err", rerr.Err)
	case KindDelivery:
		var derr *webhook.DeliveryError
		if errors.As(rerr.Err, &derr) && derr.StatusCode != 0 {
			s.Logger.Error("failed to deliver webhook", "err", rerr.Err,
				"status", derr.StatusCode,
				"response", derr.Body)
		} else {
			s.Logger.Error("failed to deliver webhook", "err", rerr.Err)
		}
	}
	return Response{Status: rerr.Kind.Status(), Body: rerr.Msg}
}
