package canvas

import "time"

const (
	EventScreenAdded   = "screen_added"
	EventScreenUpdated = "screen_updated"
	EventScreenDeleted = "screen_deleted"
	EventAssetAdded    = "asset_added"
	EventAssetUpdated  = "asset_updated"
	EventAssetDeleted  = "asset_deleted"
)

// Event is the envelope published to the canvas event stream.
type Event struct {
	Name       string    `json:"event"`
	Data       any       `json:"data"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Deleted is the payload of the *_deleted events.
type Deleted struct {
	ID string `json:"id"`
}
