package metrics

import (
	"context"

	"github.com/kiln-games/depthforge/internal/event"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	eventTypes := []event.Type{
		event.ItemGenerated,
		event.ItemCrafted,
		event.ItemPurchased,
		event.ItemSold,
		event.ItemUpgraded,
		event.ItemUsed,
		event.ResourceHarvested,
		event.ShopRestocked,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}

	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	// Always increment event counter
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.ItemGenerated:
		if p, ok := evt.Payload.(event.ItemPayloadV1); ok {
			ItemsGenerated.WithLabelValues(p.Rarity).Inc()
		}

	case event.ItemCrafted:
		if p, ok := evt.Payload.(event.ItemPayloadV1); ok {
			ItemsCrafted.WithLabelValues(p.Quality).Inc()
		}

	case event.ItemPurchased:
		if p, ok := evt.Payload.(event.ItemPayloadV1); ok {
			ItemsBought.WithLabelValues(p.TemplateKey).Inc()
			CreditsSpent.Add(float64(p.Credits))
		}

	case event.ItemSold:
		if p, ok := evt.Payload.(event.ItemPayloadV1); ok {
			ItemsSold.WithLabelValues(p.TemplateKey).Inc()
			CreditsEarned.Add(float64(p.Credits))
		}

	case event.ItemUpgraded:
		if p, ok := evt.Payload.(event.ItemPayloadV1); ok {
			ItemsUpgraded.WithLabelValues(p.TemplateKey).Inc()
		}

	case event.ItemUsed:
		if p, ok := evt.Payload.(event.ItemPayloadV1); ok {
			ItemsUsed.WithLabelValues(p.TemplateKey).Inc()
		}

	case event.ResourceHarvested:
		if p, ok := evt.Payload.(event.HarvestPayloadV1); ok {
			HarvestsPerformed.WithLabelValues(p.Resource, p.Rarity).Inc()
		}

	case event.ShopRestocked:
		if p, ok := evt.Payload.(event.ShopRestockedPayloadV1); ok {
			ShopRestocks.WithLabelValues(p.ShopType).Inc()
		}
	}

	return nil
}
