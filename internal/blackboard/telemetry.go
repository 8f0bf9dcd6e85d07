package blackboard

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/anthropics/blackboard/internal/telemetry"
)

const instrumentationName = "github.com/anthropics/blackboard/internal/blackboard"

// storeMetrics holds lazily-initialized OTel instruments for blackboard
// write paths.
var storeMetrics struct {
	posts    metric.Int64Counter
	epochs   metric.Int64Counter
	compacts metric.Int64Counter
}

var storeMetricsOnce sync.Once

func initStoreMetrics() {
	m := telemetry.Meter(instrumentationName)
	storeMetrics.posts, _ = m.Int64Counter("blackboard.store.posts",
		metric.WithDescription("Entries accepted by Store.Post"),
		metric.WithUnit("{entry}"),
	)
	storeMetrics.epochs, _ = m.Int64Counter("blackboard.store.epoch_advances",
		metric.WithDescription("Calls to Store.AdvanceEpoch"),
		metric.WithUnit("{call}"),
	)
	storeMetrics.compacts, _ = m.Int64Counter("blackboard.store.compactions",
		metric.WithDescription("Calls to Store.Compact"),
		metric.WithUnit("{call}"),
	)
}

func storeTracer() trace.Tracer {
	return telemetry.Tracer(instrumentationName)
}

// startWriteSpan opens a span for one of the three blackboard write
// paths named in the store's contract (post, advance_epoch, compact),
// incrementing the matching counter. The span runs off a background
// context: none of the Store methods this instruments take a caller
// context today, so there is nothing upstream to link to.
func startWriteSpan(flavor, op string) trace.Span {
	storeMetricsOnce.Do(initStoreMetrics)

	_, span := storeTracer().Start(context.Background(), "blackboard."+op)
	span.SetAttributes(
		attribute.String("blackboard.flavor", flavor),
		attribute.String("blackboard.op", op),
	)

	switch op {
	case "post":
		if storeMetrics.posts != nil {
			storeMetrics.posts.Add(context.Background(), 1, metric.WithAttributes(attribute.String("blackboard.flavor", flavor)))
		}
	case "advance_epoch":
		if storeMetrics.epochs != nil {
			storeMetrics.epochs.Add(context.Background(), 1, metric.WithAttributes(attribute.String("blackboard.flavor", flavor)))
		}
	case "compact":
		if storeMetrics.compacts != nil {
			storeMetrics.compacts.Add(context.Background(), 1, metric.WithAttributes(attribute.String("blackboard.flavor", flavor)))
		}
	}

	return span
}

// endWriteSpan records err's outcome (if any) and ends the span.
func endWriteSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
