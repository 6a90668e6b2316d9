package mq

const (
	TopicEvents       = "medgamma_events"
	TagAlert          = "alert"
	TagRefreshSummary = "refresh_summary"
)
