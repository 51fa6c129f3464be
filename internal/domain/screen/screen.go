package screen

import (
	"errors"
	"strings"
)

// Screen is a display canvas placed on the global layout.
type Screen struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

type Draft struct {
	Name   string
	Width  int
	Height int
	X      int
	Y      int
}

// Patch holds the fields of a partial update; nil means untouched.
type Patch struct {
	Name   *string
	Width  *int
	Height *int
	X      *int
	Y      *int
}

var (
	ErrNameRequired     = errors.New("name is required")
	ErrInvalidDimension = errors.New("width and height must be greater than 0")
)

func (d Draft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrNameRequired
	}
	if d.Width <= 0 || d.Height <= 0 {
		return ErrInvalidDimension
	}
	return nil
}

func (p Patch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return ErrNameRequired
	}
	if (p.Width != nil && *p.Width <= 0) || (p.Height != nil && *p.Height <= 0) {
		return ErrInvalidDimension
	}
	return nil
}

// Apply returns a copy of s with the patch merged in.
func (s Screen) Apply(p Patch) Screen {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Width != nil {
		s.Width = *p.Width
	}
	if p.Height != nil {
		s.Height = *p.Height
	}
	if p.X != nil {
		s.X = *p.X
	}
	if p.Y != nil {
		s.Y = *p.Y
	}
	return s
}
