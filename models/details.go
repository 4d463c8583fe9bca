package models

// ProductOption is a sub-option of a catalog item. Price is nullable: some
// options only modify the parent item.
type ProductOption struct {
	Name  string   `json:"name"`
	Price *float64 `json:"price"`
}

// ProductItem is one sellable item in a plan's product catalog.
type ProductItem struct {
	Name    string          `json:"name"`
	Price   *float64        `json:"price"`
	Options []ProductOption `json:"options"`
}

// Products is a plan's product catalog.
type Products struct {
	Items       []ProductItem `json:"items"`
	Description string        `json:"description"`
}

// PlanDetails shares the plan id space 1:1 but lives in its own store.
type PlanDetails struct {
	Products       Products `json:"products"`
	AdditionalInfo *string  `json:"additional_info"`
}

// Normalize replaces nil slices with empty ones so the stored JSON carries
// lists, not nulls.
func (d PlanDetails) Normalize() PlanDetails {
	if d.Products.Items == nil {
		d.Products.Items = []ProductItem{}
	}
	for i := range d.Products.Items {
		if d.Products.Items[i].Options == nil {
			d.Products.Items[i].Options = []ProductOption{}
		}
	}
	return d
}
