package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Business metric names
const (
	MetricNameItemsGenerated     = "items_generated_total"
	MetricNameItemsCrafted       = "items_crafted_total"
	MetricNameItemsSold          = "items_sold_total"
	MetricNameItemsBought        = "items_bought_total"
	MetricNameItemsUpgraded      = "items_upgraded_total"
	MetricNameItemsUsed          = "items_used_total"
	MetricNameHarvestsPerformed  = "harvests_performed_total"
	MetricNameShopRestocks       = "shop_restocks_total"
	MetricNameCreditsEarned      = "credits_earned_total"
	MetricNameCreditsSpent       = "credits_spent_total"
	MetricNameSessionsActive     = "sessions_active"
	MetricNameSessionSaves       = "session_saves_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Business metric help text
const (
	HelpTextItemsGenerated    = "Total number of items generated"
	HelpTextItemsCrafted      = "Total number of items crafted"
	HelpTextItemsSold         = "Total number of items sold"
	HelpTextItemsBought       = "Total number of items bought"
	HelpTextItemsUpgraded     = "Total number of items upgraded"
	HelpTextItemsUsed         = "Total number of items used"
	HelpTextHarvestsPerformed = "Total number of resource harvests"
	HelpTextShopRestocks      = "Total number of shop restocks"
	HelpTextCreditsEarned     = "Total credits earned from selling items"
	HelpTextCreditsSpent      = "Total credits spent buying items"
	HelpTextSessionsActive    = "Current number of live sessions"
	HelpTextSessionSaves      = "Total number of session snapshot writes"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod   = "method"
	LabelPath     = "path"
	LabelStatus   = "status"
	LabelType     = "type"
	LabelItem     = "item"
	LabelRarity   = "rarity"
	LabelQuality  = "quality"
	LabelResource = "resource"
	LabelShopType = "shop_type"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds. These buckets range from 1ms to 10s to capture various latency
// patterns: fast (1-10ms), normal (10-100ms), slow (100ms-1s), very slow (1-10s)
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
