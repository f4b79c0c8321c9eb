package metrics

// Metric names
const (
	MetricNameRoundsTotal           = "coinpurse_rounds_total"
	MetricNameCoinsWonTotal         = "coinpurse_coins_won_total"
	MetricNameCoinsLostTotal        = "coinpurse_coins_lost_total"
	MetricNameGuardFailuresTotal    = "coinpurse_guard_failures_total"
	MetricNameActiveSessions        = "coinpurse_active_sessions"
	MetricNameInteractionsTotal     = "coinpurse_interactions_total"
	MetricNameDuplicateInteractions = "coinpurse_duplicate_interactions_total"
	MetricNameStaleComponentsTotal  = "coinpurse_stale_components_total"
	MetricNameSpamEventsTotal       = "coinpurse_spam_events_total"
	MetricNameSpamEventCoinsTotal   = "coinpurse_spam_event_coins_total"
	MetricNameStoreErrorsTotal      = "coinpurse_store_errors_total"
)

// Help text
const (
	HelpTextRoundsTotal           = "Resolved game rounds by game and outcome"
	HelpTextCoinsWonTotal         = "Coins paid out to players by game"
	HelpTextCoinsLostTotal        = "Coins taken from players by game"
	HelpTextGuardFailuresTotal    = "Sessions stopped by a continuation guard, by reason"
	HelpTextActiveSessions        = "Game sessions currently running"
	HelpTextInteractionsTotal     = "Discord interactions received by type"
	HelpTextDuplicateInteractions = "Discord interactions dropped as duplicates"
	HelpTextStaleComponentsTotal  = "Component clicks no session was waiting for"
	HelpTextSpamEventsTotal       = "Spam events paid out"
	HelpTextSpamEventCoinsTotal   = "Coins scattered by spam events"
	HelpTextStoreErrorsTotal      = "Persistence failures by operation"
)

// Labels
const (
	LabelGame      = "game"
	LabelOutcome   = "outcome"
	LabelReason    = "reason"
	LabelType      = "type"
	LabelOperation = "operation"
)
