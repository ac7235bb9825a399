// internal/pipeline/apply-filters/matcher_test.go
package applyfilters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chainx-bot/internal/schema"
)

// ==========================
// Test Helper Functions
// ==========================

func productsEntity(t *testing.T) *schema.Entity {
	registry := schema.NewRegistry("http://data.test/api")
	entity, ok := registry.Lookup("products")
	require.True(t, ok)
	return entity
}

func productRecord(name string, price float64) map[string]interface{} {
	return map[string]interface{}{
		"product_name":  name,
		"product_price": price,
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestMatches_EmptyFilterSetMatchesEverything(t *testing.T) {
	entity := productsEntity(t)

	assert.True(t, Matches(productRecord("Widget", 10), map[string]string{}, entity))
	assert.True(t, Matches(map[string]interface{}{}, map[string]string{}, entity))
	assert.True(t, Matches(map[string]interface{}{}, nil, entity))
}

func TestMatches_AbsentFieldSatisfiesVacuously(t *testing.T) {
	entity := productsEntity(t)
	record := map[string]interface{}{"product_name": "Widget"}

	assert.True(t, Matches(record, map[string]string{"product_price": "< 50"}, entity))
}

func TestMatches_UnknownFieldIgnored(t *testing.T) {
	entity := productsEntity(t)
	record := map[string]interface{}{"color": "red"}

	filters := map[string]string{"color": "contains 'blue'"}
	assert.True(t, Matches(record, filters, entity))
}

func TestMatches_StringConditions(t *testing.T) {
	entity := productsEntity(t)

	tests := []struct {
		name      string
		value     string
		condition string
		expected  bool
	}{
		{name: "contains substring", value: "XABCX", condition: "contains 'abc'", expected: true},
		{name: "contains case-insensitive", value: "Green Apple", condition: "contains 'APPLE'", expected: true},
		{name: "contains miss", value: "xyz", condition: "contains 'abc'", expected: false},
		{name: "exact match", value: "ABC", condition: "exact 'abc'", expected: true},
		{name: "exact rejects superstring", value: "XABCX", condition: "exact 'abc'", expected: false},
		{name: "unrecognized shape rejects", value: "abc", condition: "startswith 'a'", expected: false},
		{name: "bare text rejects", value: "abc", condition: "abc", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := map[string]interface{}{"product_name": tt.value}
			filters := map[string]string{"product_name": tt.condition}
			assert.Equal(t, tt.expected, Matches(record, filters, entity))
		})
	}
}

func TestMatches_NumericConditions(t *testing.T) {
	entity := productsEntity(t)

	tests := []struct {
		name      string
		value     interface{}
		condition string
		expected  bool
	}{
		{name: "less-than below", value: 49.0, condition: "< 50", expected: true},
		{name: "less-than equal", value: 50.0, condition: "< 50", expected: false},
		{name: "less-than above", value: 51.0, condition: "< 50", expected: false},
		{name: "no-space operator", value: 49.0, condition: "<50", expected: true},
		{name: "greater-equal at bound", value: 50.0, condition: ">= 50", expected: true},
		{name: "greater-equal above", value: 51.0, condition: ">= 50", expected: true},
		{name: "greater-equal below", value: 49.0, condition: ">= 50", expected: false},
		{name: "equality", value: 20.0, condition: "= 20", expected: true},
		{name: "greater-than", value: 100.5, condition: "> 100", expected: true},
		{name: "less-equal", value: 10.0, condition: "<= 10", expected: true},
		{name: "stringy record value parses", value: "49", condition: "< 50", expected: true},
		{name: "non-numeric record value rejects", value: "cheap", condition: "< 50", expected: false},
		{name: "non-numeric operand rejects", value: 49.0, condition: "< fifty", expected: false},
		{name: "extra operand token rejects", value: 49.0, condition: "< 50 usd", expected: false},
		{name: "missing operator rejects", value: 49.0, condition: "50", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := map[string]interface{}{"product_price": tt.value}
			filters := map[string]string{"product_price": tt.condition}
			assert.Equal(t, tt.expected, Matches(record, filters, entity))
		})
	}
}

func TestMatches_ConjunctionAndOrderIndependence(t *testing.T) {
	entity := productsEntity(t)
	record := productRecord("Green Apple", 30)

	both := map[string]string{
		"product_name":  "contains 'apple'",
		"product_price": "< 50",
	}
	assert.True(t, Matches(record, both, entity))

	oneFails := map[string]string{
		"product_name":  "contains 'apple'",
		"product_price": "> 50",
	}
	assert.False(t, Matches(record, oneFails, entity))
}
