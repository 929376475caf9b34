package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/ioshacker22/2FA-authentication/internal/pkg/instrument"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/messaging"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/uid"
	"github.com/ioshacker22/2FA-authentication/internal/shared/event"
	"github.com/ioshacker22/2FA-authentication/internal/speech/usecase"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, headers []messaging.Header) context.Context {
	for i := range headers {
		if headers[i].Key == keyOfCorrelationID {
			return instrument.SetCorrelationID(ctx, string(headers[i].Value))
		}
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

func (h *MQHandler) CodeVerifiedSpeech(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("speech.inbound.mq").Start(ctx, "CodeVerifiedSpeech")
	defer span.End()

	// The body carries a live one-time code, so it is not logged.
	body := msg.Body()
	slog.InfoContext(ctx, "consume: code verified speech")

	var payload event.CodeVerifiedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of code verified speech", "error", err)
		return nil
	}

	if err := h.uc.ConsumeCodeVerified(ctx, usecase.ConsumeCodeVerifiedInput{
		AccountID: payload.AccountID,
		Username:  payload.Username,
		Code:      payload.Code,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume code verified", "error", err)
		return err
	}

	return nil
}
