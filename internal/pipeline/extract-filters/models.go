// internal/pipeline/extract-filters/models.go
package extractfilters

import "chainx-bot/internal/schema"

type Input struct {
	Entity *schema.Entity `json:"-"`
	Query  string         `json:"query"`
}

// Output maps field names to raw condition strings. At most one condition
// per field; a later condition for the same field overwrites the earlier one.
type Output struct {
	Filters map[string]string `json:"filters"`
}
