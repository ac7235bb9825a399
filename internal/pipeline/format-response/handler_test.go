// internal/pipeline/format-response/handler_test.go
package formatresponse

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chainx-bot/internal/common/logger"
	"chainx-bot/internal/schema"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestHandler(t *testing.T) *Handler {
	return NewHandler(logger.NewTestLogger(t))
}

func lookupEntity(t *testing.T, name string) *schema.Entity {
	registry := schema.NewRegistry("http://data.test/api")
	entity, ok := registry.Lookup(name)
	require.True(t, ok)
	return entity
}

// ==========================
// Core Functionality Tests
// ==========================

func TestFormat_EmptyResults(t *testing.T) {
	handler := createTestHandler(t)
	entity := lookupEntity(t, "products")

	t.Run("without filters", func(t *testing.T) {
		out := handler.Format(nil, entity, nil)
		assert.Equal(t, "ℹ️ No products found.", out)
	})

	t.Run("with filters", func(t *testing.T) {
		out := handler.Format(nil, entity, map[string]string{"product_price": "<50"})
		assert.Equal(t, "ℹ️ No products found matching where product_price <50.", out)
	})
}

func TestFormat_TitleCarriesCountAndFilters(t *testing.T) {
	handler := createTestHandler(t)
	entity := lookupEntity(t, "products")

	records := []Record{
		{"product_id": "p1", "product_name": "Apple", "product_price": 30.0},
		{"product_id": "p2", "product_name": "Pear", "product_price": 40.0},
		{"product_id": "p3", "product_name": "Plum", "product_price": 45.0},
	}
	out := handler.Format(records, entity, map[string]string{"product_price": "<50"})

	assert.True(t, strings.HasPrefix(out, "🔍 *Found 3 Products where product_price <50*:"), out)
	assert.Equal(t, 2, strings.Count(out, ItemSeparator))
	assert.Contains(t, out, "Apple")
	assert.Contains(t, out, "Pear")
	assert.Contains(t, out, "Plum")
}

func TestFormat_FilterDescriptionIsSortedByField(t *testing.T) {
	handler := createTestHandler(t)
	entity := lookupEntity(t, "products")

	records := []Record{{"product_id": "p1", "product_name": "Apple"}}
	filters := map[string]string{
		"product_price": "< 50",
		"product_name":  "contains 'apple'",
	}
	out := handler.Format(records, entity, filters)

	assert.Contains(t, out, "where product_name contains 'apple' and product_price < 50")
}

func TestFormat_MissingFieldsRenderAsNA(t *testing.T) {
	handler := createTestHandler(t)
	entity := lookupEntity(t, "products")

	out := handler.Format([]Record{{"product_id": "p1"}}, entity, nil)

	assert.Contains(t, out, "N/A")
	assert.Contains(t, out, "p1")
}

func TestFormat_AlternateFieldNames(t *testing.T) {
	handler := createTestHandler(t)
	entity := lookupEntity(t, "products")

	record := Record{
		"product_id": "p1",
		"name":       "Apple",
		"price":      30.0,
		"stock":      12.0,
	}
	out := handler.Format([]Record{record}, entity, nil)

	assert.Contains(t, out, "Apple")
	assert.Contains(t, out, "Price: 30")
	assert.Contains(t, out, "Stock: 12")
}

func TestFormat_LogisticsNameFallsBackToShipmentID(t *testing.T) {
	handler := createTestHandler(t)
	entity := lookupEntity(t, "logistics")

	out := handler.Format([]Record{{"logistic_id": "L7"}}, entity, nil)

	assert.Contains(t, out, "Shipment L7")
}

func TestFormat_UnknownEntityUsesGenericLayout(t *testing.T) {
	handler := createTestHandler(t)
	entity := &schema.Entity{Name: "gadgets"}

	out := handler.Format([]Record{{"gadget_id": "g1"}}, entity, nil)

	assert.Contains(t, out, "```json")
	assert.Contains(t, out, `"gadget_id": "g1"`)
}

func TestRenderRecord_PanicYieldsPlaceholder(t *testing.T) {
	handler := createTestHandler(t)
	entity := lookupEntity(t, "products")

	exploding := func(d Record) string { panic("bad record") }
	out := handler.renderRecord(exploding, entity, Record{"product_id": "p9"})

	assert.Equal(t, "⚠️ Error formatting item: ID p9", out)
}

func TestRenderRecord_PanicWithoutIdentifier(t *testing.T) {
	handler := createTestHandler(t)
	entity := lookupEntity(t, "sellers")

	exploding := func(d Record) string { panic("bad record") }
	out := handler.renderRecord(exploding, entity, Record{})

	assert.Equal(t, "⚠️ Error formatting item: ID Unknown ID", out)
}

// ==========================
// Truncation Tests
// ==========================

func TestTruncate_ShortTextUnchanged(t *testing.T) {
	text := "short reply"
	out, truncated := Truncate(text, MaxMessageLength)

	assert.Equal(t, text, out)
	assert.False(t, truncated)
}

func TestTruncate_CutsAtRecordBoundary(t *testing.T) {
	item := strings.Repeat("x", 1000)
	text := strings.Join([]string{item, item, item, item, item}, ItemSeparator)

	out, truncated := Truncate(text, MaxMessageLength)

	assert.True(t, truncated)
	assert.LessOrEqual(t, len(out), MaxMessageLength)
	assert.True(t, strings.HasSuffix(out, EllipsisMarker))
	// The cut lands between items, so no partial item survives.
	body := strings.TrimSuffix(out, EllipsisMarker)
	for _, part := range strings.Split(body, ItemSeparator) {
		assert.Equal(t, item, part)
	}
}

func TestTruncate_FallsBackToRawCut(t *testing.T) {
	text := strings.Repeat("y", MaxMessageLength+500)

	out, truncated := Truncate(text, MaxMessageLength)

	assert.True(t, truncated)
	assert.LessOrEqual(t, len(out), MaxMessageLength)
	assert.True(t, strings.HasSuffix(out, EllipsisMarker))
}

func TestTruncate_RawCutNeverSplitsARune(t *testing.T) {
	// No separators in range, so the fallback cut applies; the one-byte
	// prefix misaligns the rune grid so a byte-index cut lands mid-rune.
	text := "x" + strings.Repeat("📦", MaxMessageLength)

	out, truncated := Truncate(text, MaxMessageLength)

	assert.True(t, truncated)
	assert.LessOrEqual(t, len(out), MaxMessageLength)
	assert.True(t, utf8.ValidString(out))
	assert.True(t, strings.HasSuffix(out, EllipsisMarker))
}

func TestTruncate_ExactLimitUnchanged(t *testing.T) {
	text := strings.Repeat("z", MaxMessageLength)

	out, truncated := Truncate(text, MaxMessageLength)

	assert.Equal(t, text, out)
	assert.False(t, truncated)
}
