// internal/pipeline/format-response/handler.go
package formatresponse

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"chainx-bot/internal/common/logger"
	"chainx-bot/internal/schema"
)

const TaskType = "format-response"

type Handler struct {
	logger logger.Logger
}

func NewHandler(log logger.Logger) *Handler {
	return &Handler{
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// Format renders a post-filter record collection into a display string. The
// result may exceed the transport limit; callers apply Truncate before
// sending.
func (h *Handler) Format(records []Record, entity *schema.Entity, filters map[string]string) string {
	if len(records) == 0 {
		if len(filters) > 0 {
			return fmt.Sprintf("ℹ️ No %s found matching%s.", entity.Name, DescribeFilters(filters))
		}
		return fmt.Sprintf("ℹ️ No %s found.", entity.Name)
	}

	layout, ok := layouts[entity.Name]
	if !ok {
		layout = genericLayout
	}

	items := make([]string, 0, len(records))
	for _, record := range records {
		items = append(items, h.renderRecord(layout, entity, record))
	}

	title := fmt.Sprintf("🔍 *Found %d %s%s*:\n\n", len(items), capitalize(entity.Name), DescribeFilters(filters))
	return title + strings.Join(items, ItemSeparator)
}

// renderRecord runs one record through its layout. A record that makes the
// layout panic does not abort the batch: it is replaced by a one-line
// placeholder carrying whatever identifier can be found.
func (h *Handler) renderRecord(layout layoutFunc, entity *schema.Entity, record Record) (out string) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("record layout failed", map[string]interface{}{
				"entity": entity.Name,
				"panic":  fmt.Sprintf("%v", r),
			})
			out = fmt.Sprintf("⚠️ Error formatting item: ID %s", bestID(entity.Name, record))
		}
	}()
	return layout(record)
}

// DescribeFilters renders the active filters as ` where f1 c1 and f2 c2`,
// or an empty string when no filters are set. Fields are ordered for
// deterministic output.
func DescribeFilters(filters map[string]string) string {
	if len(filters) == 0 {
		return ""
	}

	fields := make([]string, 0, len(filters))
	for field := range filters {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	conditions := make([]string, 0, len(fields))
	for _, field := range fields {
		conditions = append(conditions, fmt.Sprintf("%s %s", field, filters[field]))
	}
	return " where " + strings.Join(conditions, " and ")
}

// genericLayout is the fallback for entities without a bespoke layout: a
// pretty-printed key/value rendering in a code block.
func genericLayout(d Record) string {
	pretty, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		panic(err)
	}
	return fmt.Sprintf("```json\n%s\n```", pretty)
}

// bestID looks for the most plausible identifier field on a malformed record.
func bestID(entityName string, d Record) string {
	singular := strings.TrimSuffix(entityName, "s")
	for _, key := range []string{singular + "_id", "id", "product_id", "factory_id"} {
		if v, ok := d[key]; ok && v != nil {
			return displayValue(v)
		}
	}
	return "Unknown ID"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
