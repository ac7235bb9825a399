// internal/pipeline/resolve-entity/models.go
package resolveentity

import "chainx-bot/internal/schema"

type Input struct {
	Query string `json:"query"`
}

// Output carries the resolved entity. Entity is nil when the query is not
// about any known entity; that is a normal outcome, not an error.
type Output struct {
	Entity *schema.Entity `json:"-"`
}
