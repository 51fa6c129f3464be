package canvas

import (
	"github.com/pjackim/webbuddy/internal/domain/asset"
	"github.com/pjackim/webbuddy/internal/domain/screen"
)

// Store owns every Screen and Asset. Absence is reported with ok=false,
// never with an error.
type Store interface {
	ListScreens() []screen.Screen
	GetScreen(id string) (screen.Screen, bool)
	CreateScreen(d screen.Draft) screen.Screen
	UpdateScreen(id string, p screen.Patch) (screen.Screen, bool)
	// DeleteScreen also removes the screen's assets and returns them.
	DeleteScreen(id string) ([]asset.Asset, bool)

	// ListAssets filters by screen when screenID is non-empty.
	ListAssets(screenID string) []asset.Asset
	GetAsset(id string) (asset.Asset, bool)
	CreateAsset(d asset.Draft) asset.Asset
	UpdateAsset(id string, p asset.Patch) (asset.Asset, bool)
	DeleteAsset(id string) (asset.Asset, bool)
}
