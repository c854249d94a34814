package models

// Severity of a fired notification.
type Severity string

const (
	SeverityNone   Severity = "none"
	SeverityGentle Severity = "gentle"
	SeverityUrgent Severity = "urgent"
)

// Channel hints how intrusively the dispatcher should present a notification.
type Channel string

const (
	ChannelSystem Channel = "system" // low-intrusion alert center
	ChannelBanner Channel = "banner" // full-width overlay
)

// Notification is the request handed to the external dispatcher.
type Notification struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Channel  Channel  `json:"channel_hint"`
}
