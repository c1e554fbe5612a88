package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// InstrumentationName is the meter name used by NewOTel.
const InstrumentationName = "github.com/krisalay/store-cache"

/*
OTel reports cache events as one OpenTelemetry counter, "cache.events",
with an "event" attribute (hit, miss, eviction, expire, corruption).
*/
type OTel struct {
	events metric.Int64Counter
	attrs  map[string]metric.AddOption
}

// NewOTel registers the counter on a meter from provider.
func NewOTel(provider metric.MeterProvider) (*OTel, error) {
	meter := provider.Meter(InstrumentationName)
	events, err := meter.Int64Counter(
		"cache.events",
		metric.WithDescription("Cache lookups and removals by outcome"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create cache.events counter: %w", err)
	}

	attrs := make(map[string]metric.AddOption)
	for _, name := range []string{"hit", "miss", "eviction", "expire", "corruption"} {
		attrs[name] = metric.WithAttributeSet(attribute.NewSet(attribute.String("event", name)))
	}
	return &OTel{events: events, attrs: attrs}, nil
}

func (o *OTel) add(event string) {
	o.events.Add(context.Background(), 1, o.attrs[event])
}

func (o *OTel) Hit()        { o.add("hit") }
func (o *OTel) Miss()       { o.add("miss") }
func (o *OTel) Eviction()   { o.add("eviction") }
func (o *OTel) Expire()     { o.add("expire") }
func (o *OTel) Corruption() { o.add("corruption") }
