// internal/pipeline/fetch-records/models.go
package fetchrecords

import "fmt"

// Record is one raw item returned by an upstream data source. Fields may be
// absent or of unexpected shape; nothing downstream assumes otherwise.
type Record = map[string]interface{}

type Output struct {
	Records []Record `json:"records"`
}

// FetchError carries the entity name so the user-visible message can name it.
type FetchError struct {
	Entity string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Entity, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
