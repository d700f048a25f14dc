package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Business Metrics
var (
	ItemsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameItemsGenerated,
			Help: HelpTextItemsGenerated,
		},
		[]string{LabelRarity},
	)

	ItemsCrafted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameItemsCrafted,
			Help: HelpTextItemsCrafted,
		},
		[]string{LabelQuality},
	)

	ItemsSold = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameItemsSold,
			Help: HelpTextItemsSold,
		},
		[]string{LabelItem},
	)

	ItemsBought = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameItemsBought,
			Help: HelpTextItemsBought,
		},
		[]string{LabelItem},
	)

	ItemsUpgraded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameItemsUpgraded,
			Help: HelpTextItemsUpgraded,
		},
		[]string{LabelItem},
	)

	ItemsUsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameItemsUsed,
			Help: HelpTextItemsUsed,
		},
		[]string{LabelItem},
	)

	HarvestsPerformed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHarvestsPerformed,
			Help: HelpTextHarvestsPerformed,
		},
		[]string{LabelResource, LabelRarity},
	)

	ShopRestocks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameShopRestocks,
			Help: HelpTextShopRestocks,
		},
		[]string{LabelShopType},
	)

	CreditsEarned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCreditsEarned,
			Help: HelpTextCreditsEarned,
		},
	)

	CreditsSpent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCreditsSpent,
			Help: HelpTextCreditsSpent,
		},
	)

	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameSessionsActive,
			Help: HelpTextSessionsActive,
		},
	)

	SessionSaves = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSessionSaves,
			Help: HelpTextSessionSaves,
		},
	)
)
