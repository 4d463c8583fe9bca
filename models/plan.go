package models

import "fmt"

// Plan is the stored form of a catalog record. The type tag plus the
// Categories/IsLabTour payload fields form a closed union; Validate keeps
// the shape a valid instance of exactly one variant.
type Plan struct {
	ID               string       `json:"id"`
	Type             string       `json:"type"`
	Categories       []string     `json:"categories,omitempty"`
	IsLabTour        *bool        `json:"is_lab_tour,omitempty"`
	OrganizationName string       `json:"organization_name"`
	PlanName         string       `json:"plan_name"`
	Description      string       `json:"description"`
	IsChildFriendly  bool         `json:"is_child_friendly"`
	IsRecommended    bool         `json:"is_recommended"`
	Schedule         Schedule     `json:"schedule"`
	Location         []Location   `json:"location"`
	Coordinates      *Coordinates `json:"coordinates,omitempty"`
}

func (p Plan) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("plan id is required")
	}
	if err := ValidatePlanType(p.Type, p.Categories, p.IsLabTour); err != nil {
		return err
	}
	for _, l := range p.Location {
		if err := l.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// PlanCreate is the client-supplied create payload; the id comes from the
// request path.
type PlanCreate struct {
	Type             string       `json:"type"`
	Categories       []string     `json:"categories,omitempty"`
	IsLabTour        *bool        `json:"is_lab_tour,omitempty"`
	OrganizationName string       `json:"organization_name"`
	PlanName         string       `json:"plan_name"`
	Description      string       `json:"description"`
	IsChildFriendly  bool         `json:"is_child_friendly"`
	IsRecommended    bool         `json:"is_recommended"`
	Schedule         Schedule     `json:"schedule"`
	Location         []Location   `json:"location"`
	Coordinates      *Coordinates `json:"coordinates,omitempty"`
}

// Plan builds the stored record, normalizing the schedule to canonical form
// and nil slices to empty ones.
func (pc PlanCreate) Plan(id string) Plan {
	schedule := pc.Schedule
	if schedule.Day1 == nil {
		schedule.Day1 = []TimeRange{}
	}
	if schedule.Day2 == nil {
		schedule.Day2 = []TimeRange{}
	}
	location := pc.Location
	if location == nil {
		location = []Location{}
	}
	return Plan{
		ID:               id,
		Type:             pc.Type,
		Categories:       pc.Categories,
		IsLabTour:        pc.IsLabTour,
		OrganizationName: pc.OrganizationName,
		PlanName:         pc.PlanName,
		Description:      pc.Description,
		IsChildFriendly:  pc.IsChildFriendly,
		IsRecommended:    pc.IsRecommended,
		Schedule:         schedule,
		Location:         location,
		Coordinates:      pc.Coordinates,
	}
}

// PlanView is the display form returned on reads: same record with the
// schedule collapsed to one range per day.
type PlanView struct {
	ID               string           `json:"id"`
	Type             string           `json:"type"`
	Categories       []string         `json:"categories,omitempty"`
	IsLabTour        *bool            `json:"is_lab_tour,omitempty"`
	OrganizationName string           `json:"organization_name"`
	PlanName         string           `json:"plan_name"`
	Description      string           `json:"description"`
	IsChildFriendly  bool             `json:"is_child_friendly"`
	IsRecommended    bool             `json:"is_recommended"`
	Schedule         CombinedSchedule `json:"schedule"`
	Location         []Location       `json:"location"`
	Coordinates      *Coordinates     `json:"coordinates,omitempty"`
}

// View applies the combined-schedule transform for display. It never touches
// the stored form.
func (p Plan) View() PlanView {
	return PlanView{
		ID:               p.ID,
		Type:             p.Type,
		Categories:       p.Categories,
		IsLabTour:        p.IsLabTour,
		OrganizationName: p.OrganizationName,
		PlanName:         p.PlanName,
		Description:      p.Description,
		IsChildFriendly:  p.IsChildFriendly,
		IsRecommended:    p.IsRecommended,
		Schedule:         p.Schedule.Combine(),
		Location:         p.Location,
		Coordinates:      p.Coordinates,
	}
}
