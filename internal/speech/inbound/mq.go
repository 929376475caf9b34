package inbound

import (
	"context"
	"log/slog"
	"slices"

	"github.com/ioshacker22/2FA-authentication/internal/pkg/config"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/goroutine"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/instrument"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/messaging"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/uid"
	"github.com/ioshacker22/2FA-authentication/internal/shared/event"
)

func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Messaging,
	uuid uid.StringID,
	uc uc,
	ins instrument.Instrumentation,
) {
	mqHandler := &MQHandler{uc: uc, uuid: uuid, ins: ins}

	enableConsumerNames := cfg.GetArray("modules.speech.consumer_names")

	var consumers = []struct {
		name    string
		topic   string
		group   string
		handler messaging.Handler
	}{
		{
			name:    event.CodeVerifiedConsumerSpeech,
			topic:   event.CodeVerifiedDestination,
			group:   event.CodeVerifiedConsumerSpeech,
			handler: mqHandler.CodeVerifiedSpeech,
		},
	}

	for _, consumer := range consumers {
		if len(enableConsumerNames) > 0 && slices.Contains(enableConsumerNames, consumer.name) {
			routine.Go(ctx, func(pCtx context.Context) error {
				slog.InfoContext(ctx, "Running job for handling consumer", "consumer", consumer.name)
				return messenger.Consume(pCtx,
					consumer.topic,
					consumer.handler,
					messaging.WithQueueGroup(consumer.group),
					messaging.WithAutoAck(true),
					messaging.WithConcurrency(4),
				)
			})
		}
	}
}
