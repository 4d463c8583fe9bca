package models

import "fmt"

// Plan type tags. A plan is exactly one of these variants; the tag travels
// as the "type" field and selects which payload fields are meaningful.
const (
	PlanTypeBooth   = "booth"
	PlanTypeGeneral = "general"
	PlanTypeStage   = "stage"
	PlanTypeLabo    = "labo"
)

var boothCategories = map[string]bool{
	"main_rice":         true,
	"main_noodle_flour": true,
	"main_skewer_grill": true,
	"main_hot_snack":    true,
	"main_soup":         true,
	"main_world_street": true,
	"sweet_japanese":    true,
	"sweet_western":     true,
	"sweet_cold":        true,
	"sweet_snack":       true,
	"sweet_drink":       true,
	"sweet_world":       true,
	"drink":             true,
}

var generalCategories = map[string]bool{
	"play":         true,
	"display":      true,
	"performance":  true,
	"cafe":         true,
	"rest":         true,
	"presentation": true,
}

// ValidatePlanType checks that the tag names a known variant and the
// per-variant payload fields form a valid instance of it.
func ValidatePlanType(typeTag string, categories []string, isLabTour *bool) error {
	switch typeTag {
	case PlanTypeBooth:
		if isLabTour != nil {
			return fmt.Errorf("is_lab_tour is only valid on labo plans")
		}
		for _, c := range categories {
			if !boothCategories[c] {
				return fmt.Errorf("unknown booth category %q", c)
			}
		}
	case PlanTypeGeneral:
		if isLabTour != nil {
			return fmt.Errorf("is_lab_tour is only valid on labo plans")
		}
		for _, c := range categories {
			if !generalCategories[c] {
				return fmt.Errorf("unknown general category %q", c)
			}
		}
	case PlanTypeStage:
		if len(categories) > 0 || isLabTour != nil {
			return fmt.Errorf("stage plans carry no type payload")
		}
	case PlanTypeLabo:
		if len(categories) > 0 {
			return fmt.Errorf("labo plans carry no categories")
		}
		if isLabTour == nil {
			return fmt.Errorf("labo plans require is_lab_tour")
		}
	default:
		return fmt.Errorf("unknown plan type %q", typeTag)
	}
	return nil
}
