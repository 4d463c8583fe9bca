package models

import "fmt"

const (
	LocationIndoor  = "indoor"
	LocationOutdoor = "outdoor"
)

// Location is a tagged union: indoor locations carry building+room, outdoor
// locations carry a name.
type Location struct {
	Type     string `json:"type"`
	Building string `json:"building,omitempty"`
	Room     string `json:"room,omitempty"`
	Name     string `json:"name,omitempty"`
}

func (l Location) Validate() error {
	switch l.Type {
	case LocationIndoor:
		if l.Building == "" || l.Room == "" {
			return fmt.Errorf("indoor location requires building and room")
		}
	case LocationOutdoor:
		if l.Name == "" {
			return fmt.Errorf("outdoor location requires a name")
		}
	default:
		return fmt.Errorf("unknown location type %q", l.Type)
	}
	return nil
}

// Coordinates are optional geocoordinates attached to a plan.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
