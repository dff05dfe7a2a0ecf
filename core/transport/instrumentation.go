package transport

import (
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const scopeName = "github.com/koscakluka/realtime-core/core/transport"

var (
	tracer = otel.Tracer(scopeName)
	meter  = otel.Meter(scopeName)
	logger = otelslog.NewLogger(scopeName)
)

var (
	sentMessages, _ = meter.Int64Counter("realtime.transport.sent_messages",
		metric.WithDescription("Messages written to the websocket"))
	receivedMessages, _ = meter.Int64Counter("realtime.transport.received_messages",
		metric.WithDescription("Messages read from the websocket"))
)
