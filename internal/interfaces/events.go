package interfaces

import "go-aside-cache/internal/models"

//go:generate mockgen -package=mock -source=events.go -destination=mock/events.go

// EventSink receives cache observability events. Implementations must not block.
type EventSink interface {
	Record(event models.Event)
}
