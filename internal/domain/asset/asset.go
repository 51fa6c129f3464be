package asset

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

type Kind string

const (
	KindImage Kind = "image"
	KindText  Kind = "text"
	KindVideo Kind = "video"
)

const (
	DefaultText     = "New Text"
	DefaultFontSize = 24.0
	DefaultColor    = "#ffffff"
)

// Base holds the placement fields shared by every asset variant.
type Base struct {
	ID       string  `json:"id"`
	ScreenID string  `json:"screen_id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	ZIndex   int     `json:"z_index"`
	Rotation float64 `json:"rotation"`
	ScaleX   float64 `json:"scale_x"`
	ScaleY   float64 `json:"scale_y"`
}

// Asset is implemented only by ImageAsset, TextAsset and VideoAsset.
// Values are snapshots: Apply returns a new value and never touches the receiver.
type Asset interface {
	Kind() Kind
	Common() Base
	apply(p Patch) Asset
}

type ImageAsset struct {
	Base
	Src           string   `json:"src"`
	NaturalWidth  *int     `json:"natural_width"`
	NaturalHeight *int     `json:"natural_height"`
	Width         *float64 `json:"width"`
	Height        *float64 `json:"height"`
}

type TextAsset struct {
	Base
	Text     string  `json:"text"`
	FontSize float64 `json:"font_size"`
	Color    string  `json:"color"`
}

type VideoAsset struct {
	Base
	Src           string   `json:"src"`
	NaturalWidth  *int     `json:"natural_width"`
	NaturalHeight *int     `json:"natural_height"`
	Width         *float64 `json:"width"`
	Height        *float64 `json:"height"`
	Duration      *float64 `json:"duration"`
	Autoplay      bool     `json:"autoplay"`
	Loop          bool     `json:"loop"`
	Muted         bool     `json:"muted"`
}

func (a ImageAsset) Kind() Kind   { return KindImage }
func (a ImageAsset) Common() Base { return a.Base }
func (a TextAsset) Kind() Kind    { return KindText }
func (a TextAsset) Common() Base  { return a.Base }
func (a VideoAsset) Kind() Kind   { return KindVideo }
func (a VideoAsset) Common() Base { return a.Base }

func (a ImageAsset) MarshalJSON() ([]byte, error) {
	type alias ImageAsset
	return json.Marshal(struct {
		Type Kind `json:"type"`
		alias
	}{KindImage, alias(a)})
}

func (a TextAsset) MarshalJSON() ([]byte, error) {
	type alias TextAsset
	return json.Marshal(struct {
		Type Kind `json:"type"`
		alias
	}{KindText, alias(a)})
}

func (a VideoAsset) MarshalJSON() ([]byte, error) {
	type alias VideoAsset
	return json.Marshal(struct {
		Type Kind `json:"type"`
		alias
	}{KindVideo, alias(a)})
}

// Draft is the creation request; Type selects the variant.
type Draft struct {
	ScreenID      string
	Type          Kind
	X             float64
	Y             float64
	ZIndex        int
	Rotation      float64
	ScaleX        *float64
	ScaleY        *float64
	Src           *string
	NaturalWidth  *int
	NaturalHeight *int
	Width         *float64
	Height        *float64
	Text          *string
	FontSize      *float64
	Color         *string
	Duration      *float64
	Autoplay      *bool
	Loop          *bool
	Muted         *bool
}

// Patch lists the fields a partial update may touch. Fields that do not
// exist on the target variant are ignored.
type Patch struct {
	X             *float64
	Y             *float64
	ZIndex        *int
	Rotation      *float64
	ScaleX        *float64
	ScaleY        *float64
	Src           *string
	NaturalWidth  *int
	NaturalHeight *int
	Width         *float64
	Height        *float64
	Text          *string
	FontSize      *float64
	Color         *string
	Duration      *float64
	Autoplay      *bool
	Loop          *bool
	Muted         *bool
}

var (
	ErrScreenRequired = errors.New("screen_id is required")
	ErrUnknownType    = errors.New("type must be one of image, text, video")
	ErrSrcRequired    = errors.New("src is required for image and video assets")
	ErrInvalidSrc     = errors.New("src must be an http(s) URL or an absolute path")
)

func (d Draft) Validate() error {
	if strings.TrimSpace(d.ScreenID) == "" {
		return ErrScreenRequired
	}
	switch d.Type {
	case KindImage, KindVideo:
		if d.Src == nil || strings.TrimSpace(*d.Src) == "" {
			return ErrSrcRequired
		}
		return validateSrc(*d.Src)
	case KindText:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownType, d.Type)
	}
}

func (p Patch) Validate() error {
	if p.Src != nil {
		return validateSrc(*p.Src)
	}
	return nil
}

func validateSrc(src string) error {
	u, err := url.Parse(strings.TrimSpace(src))
	if err != nil {
		return ErrInvalidSrc
	}
	if u.Scheme == "http" || u.Scheme == "https" {
		if u.Host == "" {
			return ErrInvalidSrc
		}
		return nil
	}
	if u.Scheme == "" && strings.HasPrefix(u.Path, "/") {
		return nil
	}
	return ErrInvalidSrc
}

// Build constructs the variant named by d.Type. Call Validate first.
func (d Draft) Build(id string) Asset {
	base := Base{
		ID:       id,
		ScreenID: d.ScreenID,
		X:        d.X,
		Y:        d.Y,
		ZIndex:   d.ZIndex,
		Rotation: d.Rotation,
		ScaleX:   valueOr(d.ScaleX, 1),
		ScaleY:   valueOr(d.ScaleY, 1),
	}
	switch d.Type {
	case KindImage:
		return ImageAsset{
			Base:          base,
			Src:           valueOr(d.Src, ""),
			NaturalWidth:  clone(d.NaturalWidth),
			NaturalHeight: clone(d.NaturalHeight),
			Width:         clone(d.Width),
			Height:        clone(d.Height),
		}
	case KindVideo:
		return VideoAsset{
			Base:          base,
			Src:           valueOr(d.Src, ""),
			NaturalWidth:  clone(d.NaturalWidth),
			NaturalHeight: clone(d.NaturalHeight),
			Width:         clone(d.Width),
			Height:        clone(d.Height),
			Duration:      clone(d.Duration),
			Autoplay:      valueOr(d.Autoplay, false),
			Loop:          valueOr(d.Loop, false),
			Muted:         valueOr(d.Muted, false),
		}
	default:
		return TextAsset{
			Base:     base,
			Text:     valueOr(d.Text, DefaultText),
			FontSize: valueOr(d.FontSize, DefaultFontSize),
			Color:    valueOr(d.Color, DefaultColor),
		}
	}
}

// Apply returns a new snapshot of a with p merged in.
func Apply(a Asset, p Patch) Asset {
	return a.apply(p)
}

func (b Base) apply(p Patch) Base {
	set(&b.X, p.X)
	set(&b.Y, p.Y)
	set(&b.ZIndex, p.ZIndex)
	set(&b.Rotation, p.Rotation)
	set(&b.ScaleX, p.ScaleX)
	set(&b.ScaleY, p.ScaleY)
	return b
}

func (a ImageAsset) apply(p Patch) Asset {
	a.Base = a.Base.apply(p)
	set(&a.Src, p.Src)
	setPtr(&a.NaturalWidth, p.NaturalWidth)
	setPtr(&a.NaturalHeight, p.NaturalHeight)
	setPtr(&a.Width, p.Width)
	setPtr(&a.Height, p.Height)
	return a
}

func (a TextAsset) apply(p Patch) Asset {
	a.Base = a.Base.apply(p)
	set(&a.Text, p.Text)
	set(&a.FontSize, p.FontSize)
	set(&a.Color, p.Color)
	return a
}

func (a VideoAsset) apply(p Patch) Asset {
	a.Base = a.Base.apply(p)
	set(&a.Src, p.Src)
	setPtr(&a.NaturalWidth, p.NaturalWidth)
	setPtr(&a.NaturalHeight, p.NaturalHeight)
	setPtr(&a.Width, p.Width)
	setPtr(&a.Height, p.Height)
	setPtr(&a.Duration, p.Duration)
	set(&a.Autoplay, p.Autoplay)
	set(&a.Loop, p.Loop)
	set(&a.Muted, p.Muted)
	return a
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// setPtr copies the value so the snapshot never aliases caller memory.
func setPtr[T any](dst **T, v *T) {
	if v != nil {
		cp := *v
		*dst = &cp
	}
}

func clone[T any](v *T) *T {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}

func valueOr[T any](v *T, def T) T {
	if v == nil {
		return def
	}
	return *v
}
