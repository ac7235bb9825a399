// Package schema holds the fixed entity catalog: entity names, their upstream
// data-source locations, and per-field value types. The same table drives the
// extractor prompts, the predicate evaluator's type dispatch, and the response
// formatter's layout selection, so it lives in exactly one place.
package schema

import (
	"fmt"
	"sort"
	"strings"
)

// FieldType is the declared value type of an entity field.
type FieldType string

const (
	FieldString FieldType = "string"
	FieldNumber FieldType = "number"
)

// Entity describes one of the known business record types.
type Entity struct {
	Name      string
	SourceURL string
	Fields    map[string]FieldType
}

// FieldNames returns the entity's field names in a stable order, for prompt
// construction and deterministic output.
func (e *Entity) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Registry is the process-wide, read-only entity catalog. Initialized once at
// startup; safe for concurrent use without locking.
type Registry struct {
	entities map[string]*Entity
	order    []string
}

// entityPaths maps entity names to their upstream API path segments. The
// factories endpoint is plural upstream, the rest are singular.
var entityPaths = map[string]string{
	"sellers":    "seller",
	"warehouses": "warehouse",
	"products":   "product",
	"logistics":  "logistic",
	"inspectors": "inspector",
	"factories":  "factories",
}

var entityOrder = []string{"sellers", "warehouses", "products", "logistics", "inspectors", "factories"}

var fieldTables = map[string]map[string]FieldType{
	"products": {
		"product_name":        FieldString,
		"product_description": FieldString,
		"batch_number":        FieldString,
		"factory_id":          FieldString,
		"product_price":       FieldNumber,
		"product_stock":       FieldNumber,
		"mrp":                 FieldNumber,
	},
	"warehouses": {
		"name":            FieldString,
		"description":     FieldString,
		"latitude":        FieldNumber,
		"longitude":       FieldNumber,
		"contact_details": FieldString,
		"warehouse_size":  FieldNumber,
		"balance":         FieldNumber,
		"factory_id":      FieldString,
		"product_id":      FieldString,
		"product_count":   FieldNumber,
		"logistic_count":  FieldNumber,
	},
	"sellers": {
		"name":           FieldString,
		"seller_id":      FieldString,
		"description":    FieldString,
		"latitude":       FieldNumber,
		"longitude":      FieldNumber,
		"contact_info":   FieldString,
		"balance":        FieldNumber,
		"products_count": FieldNumber,
		"order_count":    FieldNumber,
	},
	"logistics": {
		"name":                FieldString,
		"logistic_id":         FieldString,
		"transportation_mode": FieldString,
		"status":              FieldString,
		"contact_info":        FieldString,
		"shipment_cost":       FieldNumber,
		"product_id":          FieldString,
		"product_stock":       FieldNumber,
		"warehouse_id":        FieldString,
		"latitude":            FieldNumber,
		"longitude":           FieldNumber,
		"balance":             FieldNumber,
	},
	"inspectors": {
		"name":                   FieldString,
		"inspector_id":           FieldString,
		"latitude":               FieldNumber,
		"longitude":              FieldNumber,
		"balance":                FieldNumber,
		"fee_charge_per_product": FieldNumber,
	},
	"factories": {
		"name":          FieldString,
		"factory_id":    FieldString,
		"description":   FieldString,
		"latitude":      FieldNumber,
		"longitude":     FieldNumber,
		"contact_info":  FieldString,
		"product_count": FieldNumber,
		"balance":       FieldNumber,
	},
}

// NewRegistry builds the catalog against the given upstream base URL.
func NewRegistry(baseURL string) *Registry {
	base := strings.TrimRight(baseURL, "/")
	entities := make(map[string]*Entity, len(entityOrder))
	for _, name := range entityOrder {
		entities[name] = &Entity{
			Name:      name,
			SourceURL: fmt.Sprintf("%s/%s", base, entityPaths[name]),
			Fields:    fieldTables[name],
		}
	}
	return &Registry{entities: entities, order: entityOrder}
}

// Lookup resolves a token to a known entity, case-insensitively. The second
// return is false for any token outside the known set.
func (r *Registry) Lookup(name string) (*Entity, bool) {
	e, ok := r.entities[strings.ToLower(strings.TrimSpace(name))]
	return e, ok
}

// Names returns the known entity names in their canonical order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
