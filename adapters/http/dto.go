package http

import (
	"github.com/pjackim/webbuddy/internal/domain/asset"
	"github.com/pjackim/webbuddy/internal/domain/media"
	"github.com/pjackim/webbuddy/internal/domain/screen"
)

// Screen DTOs
type CreateScreenRequest struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

func (r CreateScreenRequest) ToDraft() screen.Draft {
	return screen.Draft{Name: r.Name, Width: r.Width, Height: r.Height, X: r.X, Y: r.Y}
}

type UpdateScreenRequest struct {
	Name   *string `json:"name"`
	Width  *int    `json:"width"`
	Height *int    `json:"height"`
	X      *int    `json:"x"`
	Y      *int    `json:"y"`
}

func (r UpdateScreenRequest) ToPatch() screen.Patch {
	return screen.Patch{Name: r.Name, Width: r.Width, Height: r.Height, X: r.X, Y: r.Y}
}

// Asset DTOs
type CreateAssetRequest struct {
	ScreenID      string   `json:"screen_id"`
	Type          string   `json:"type"`
	X             float64  `json:"x"`
	Y             float64  `json:"y"`
	ZIndex        int      `json:"z_index"`
	Rotation      float64  `json:"rotation"`
	ScaleX        *float64 `json:"scale_x"`
	ScaleY        *float64 `json:"scale_y"`
	Src           *string  `json:"src"`
	NaturalWidth  *int     `json:"natural_width"`
	NaturalHeight *int     `json:"natural_height"`
	Width         *float64 `json:"width"`
	Height        *float64 `json:"height"`
	Text          *string  `json:"text"`
	FontSize      *float64 `json:"font_size"`
	Color         *string  `json:"color"`
	Duration      *float64 `json:"duration"`
	Autoplay      *bool    `json:"autoplay"`
	Loop          *bool    `json:"loop"`
	Muted         *bool    `json:"muted"`
}

func (r CreateAssetRequest) ToDraft() asset.Draft {
	return asset.Draft{
		ScreenID:      r.ScreenID,
		Type:          asset.Kind(r.Type),
		X:             r.X,
		Y:             r.Y,
		ZIndex:        r.ZIndex,
		Rotation:      r.Rotation,
		ScaleX:        r.ScaleX,
		ScaleY:        r.ScaleY,
		Src:           r.Src,
		NaturalWidth:  r.NaturalWidth,
		NaturalHeight: r.NaturalHeight,
		Width:         r.Width,
		Height:        r.Height,
		Text:          r.Text,
		FontSize:      r.FontSize,
		Color:         r.Color,
		Duration:      r.Duration,
		Autoplay:      r.Autoplay,
		Loop:          r.Loop,
		Muted:         r.Muted,
	}
}

// UpdateAssetRequest carries a partial update. Unknown keys, including
// "type" and "screen_id", are ignored: an asset never changes either.
type UpdateAssetRequest struct {
	X             *float64 `json:"x"`
	Y             *float64 `json:"y"`
	ZIndex        *int     `json:"z_index"`
	Rotation      *float64 `json:"rotation"`
	ScaleX        *float64 `json:"scale_x"`
	ScaleY        *float64 `json:"scale_y"`
	Src           *string  `json:"src"`
	NaturalWidth  *int     `json:"natural_width"`
	NaturalHeight *int     `json:"natural_height"`
	Width         *float64 `json:"width"`
	Height        *float64 `json:"height"`
	Text          *string  `json:"text"`
	FontSize      *float64 `json:"font_size"`
	Color         *string  `json:"color"`
	Duration      *float64 `json:"duration"`
	Autoplay      *bool    `json:"autoplay"`
	Loop          *bool    `json:"loop"`
	Muted         *bool    `json:"muted"`
}

func (r UpdateAssetRequest) ToPatch() asset.Patch {
	return asset.Patch{
		X:             r.X,
		Y:             r.Y,
		ZIndex:        r.ZIndex,
		Rotation:      r.Rotation,
		ScaleX:        r.ScaleX,
		ScaleY:        r.ScaleY,
		Src:           r.Src,
		NaturalWidth:  r.NaturalWidth,
		NaturalHeight: r.NaturalHeight,
		Width:         r.Width,
		Height:        r.Height,
		Text:          r.Text,
		FontSize:      r.FontSize,
		Color:         r.Color,
		Duration:      r.Duration,
		Autoplay:      r.Autoplay,
		Loop:          r.Loop,
		Muted:         r.Muted,
	}
}

// Media DTOs
type UploadResponse struct {
	URL            string `json:"url"`
	StoredFilename string `json:"stored_filename"`
	*media.Metadata
}

type OKResponse struct {
	OK bool `json:"ok"`
}
