// internal/pipeline/apply-filters/matcher.go
package applyfilters

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"chainx-bot/internal/schema"
)

const TaskType = "apply-filters"

// Matches reports whether a record satisfies every condition in the filter
// set (logical AND). It is a pure predicate: no I/O, no mutation, and the
// result is independent of condition ordering.
//
// Fail-open rules: a field absent from the record satisfies its condition
// vacuously, and a condition on a field missing from the entity's schema is
// ignored. The declared schema type, not the runtime shape of the value,
// selects which grammar branch runs.
func Matches(record map[string]interface{}, filters map[string]string, entity *schema.Entity) bool {
	for field, condition := range filters {
		value, present := record[field]
		if !present {
			continue
		}

		switch entity.Fields[field] {
		case schema.FieldString:
			if !matchString(value, condition) {
				return false
			}
		case schema.FieldNumber:
			if !matchNumber(value, condition) {
				return false
			}
		}
	}
	return true
}

// matchString evaluates "contains '<text>'" and "exact '<text>'" conditions,
// case-insensitively. Any other condition shape rejects the record.
func matchString(value interface{}, condition string) bool {
	item := strings.ToLower(fmt.Sprintf("%v", value))

	switch {
	case strings.HasPrefix(condition, "contains '") && strings.HasSuffix(condition, "'"):
		text := strings.ToLower(condition[len("contains '") : len(condition)-1])
		return strings.Contains(item, text)
	case strings.HasPrefix(condition, "exact '") && strings.HasSuffix(condition, "'"):
		text := strings.ToLower(condition[len("exact '") : len(condition)-1])
		return item == text
	default:
		return false
	}
}

// matchNumber evaluates "<op> <number>" conditions. Both the operand and the
// record value must parse as floats; anything else rejects the record.
func matchNumber(value interface{}, condition string) bool {
	op, operand, ok := parseNumericCondition(condition)
	if !ok {
		return false
	}

	item, ok := toFloat(value)
	if !ok {
		return false
	}

	switch op {
	case "<":
		return item < operand
	case ">":
		return item > operand
	case "=":
		return item == operand
	case "<=":
		return item <= operand
	case ">=":
		return item >= operand
	default:
		return false
	}
}

// parseNumericCondition splits a condition into operator and operand. The
// extractor prompt asks for "< 50", but models also emit "<50"; both forms
// parse.
func parseNumericCondition(condition string) (string, float64, bool) {
	cond := strings.TrimSpace(condition)

	var op string
	for _, candidate := range []string{"<=", ">=", "<", ">", "="} {
		if strings.HasPrefix(cond, candidate) {
			op = candidate
			break
		}
	}
	if op == "" {
		return "", 0, false
	}

	operandStr := strings.TrimSpace(cond[len(op):])
	if operandStr == "" || strings.ContainsAny(operandStr, " \t") {
		return "", 0, false
	}

	operand, err := strconv.ParseFloat(operandStr, 64)
	if err != nil {
		return "", 0, false
	}
	return op, operand, true
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
