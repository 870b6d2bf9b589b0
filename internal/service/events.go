package service

import "github.com/google/logger"

// Routing keys of the domain events published after a mutation commits.
const (
	EventCheckinCreated      = "checkin.created"
	EventDrawRecorded        = "draw.recorded"
	EventExhibitionCreated   = "exhibition.created"
	EventExhibitionActivated = "exhibition.activated"
	EventExhibitionDeleted   = "exhibition.deleted"
	EventSettingsUpdated     = "settings.updated"
)

type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

// publish is best-effort: the mutation has already committed, so a broker
// failure is logged and never reported to the caller.
func publish(p EventPublisher, routingKey string, payload any) {
	if p == nil {
		return
	}
	if err := p.Publish(routingKey, payload); err != nil {
		logger.Warningf("[Events] publish %s failed: %v", routingKey, err)
	}
}
