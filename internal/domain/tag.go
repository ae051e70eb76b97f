package domain

// Tag labels recipes ("breakfast", "dinner"). Tags are reference data managed outside the API.
type Tag struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"` // #RRGGBB
	Slug  string `json:"slug"`
}

// Ingredient is a named product with its unit of measure. (Name, MeasurementUnit) is unique.
type Ingredient struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}
