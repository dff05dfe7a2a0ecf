package realtime

import (
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const scopeName = "github.com/koscakluka/realtime-core/core"

var (
	tracer = otel.Tracer(scopeName)
	meter  = otel.Meter(scopeName)
	logger = otelslog.NewLogger(scopeName)
)

var (
	dispatchedEvents, _ = meter.Int64Counter("realtime.bus.dispatched_events",
		metric.WithDescription("Events dispatched on the event bus"))
	processedEvents, _ = meter.Int64Counter("realtime.conversation.processed_events",
		metric.WithDescription("Server events applied to the conversation transcript"))
)
