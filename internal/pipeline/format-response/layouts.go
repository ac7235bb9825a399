// internal/pipeline/format-response/layouts.go
package formatresponse

import (
	"fmt"
	"strconv"
	"strings"
)

// Record mirrors the fetch gateway's record shape.
type Record = map[string]interface{}

type layoutFunc func(d Record) string

// layouts maps entity names to their display renderings. Entities without an
// entry fall back to the generic pretty-printed rendering. Each layout picks
// human-friendly labels and tolerates upstream records whose field names
// diverge slightly from the canonical schema (e.g. name vs product_name).
var layouts = map[string]layoutFunc{
	"factories": func(d Record) string {
		return fmt.Sprintf("🏭 *%s* (ID: %s)\n"+
			"   Desc: _%s_\n"+
			"   📍 Location: Lat %s, Lon %s\n"+
			"   📞 Contact: %s\n"+
			"   📦 Products Count: %s\n"+
			"   💰 Balance: %s\n",
			pick(d, "name"), pick(d, "factory_id"),
			pick(d, "description"),
			pick(d, "latitude"), pick(d, "longitude"),
			pick(d, "contact_info"),
			pick(d, "product_count"),
			pick(d, "balance"))
	},
	"products": func(d Record) string {
		return fmt.Sprintf("📦 *%s* (ID: %s)\n"+
			"   Desc: _%s_\n"+
			"   Batch: `%s`\n"+
			"   🏭 Factory ID: %s\n"+
			"   💲 Price: %s\n"+
			"   Stock: %s\n"+
			"   🏷️ MRP: %s\n"+
			"   ✅ Quality Checked: %s\n"+
			"   🕵️ Inspection ID: %s (Fee Paid: %s)\n",
			pick(d, "product_name", "name"), pick(d, "product_id"),
			pick(d, "product_description"),
			pick(d, "batch_number"),
			pick(d, "factory_id"),
			pick(d, "product_price", "price"),
			pick(d, "product_stock", "stock"),
			pick(d, "mrp"),
			yesNo(d["quality_checked"]),
			pick(d, "inspection_id"), yesNo(d["inspection_fee_paid"]))
	},
	"sellers": func(d Record) string {
		return fmt.Sprintf("🏪 *%s* (ID: %s)\n"+
			"   Desc: _%s_\n"+
			"   📍 Location: Lat %s, Lon %s\n"+
			"   📞 Contact: %s\n"+
			"   💰 Balance: %s\n"+
			"   📦 Products Count: %s\n"+
			"   Orders: %s\n",
			pick(d, "name"), pick(d, "seller_id", "id"),
			pick(d, "description"),
			pick(d, "latitude"), pick(d, "longitude"),
			pick(d, "contact_info"),
			pick(d, "balance"),
			pick(d, "products_count"),
			pick(d, "order_count"))
	},
	"warehouses": func(d Record) string {
		return fmt.Sprintf("🏢 *%s* (ID: %s)\n"+
			"   Desc: _%s_\n"+
			"   📍 Location: Lat %s, Lon %s\n"+
			"   📞 Contact: %s\n"+
			"   📐 Size: %s units\n"+
			"   💰 Balance: %s\n"+
			"   🏭 Factory ID: %s\n"+
			"   📦 Product ID: %s (Count: %s)\n"+
			"   🚚 Logistics Count: %s\n",
			pick(d, "name"), pick(d, "warehouse_id"),
			pick(d, "description"),
			pick(d, "latitude"), pick(d, "longitude"),
			pick(d, "contact_details"),
			pick(d, "warehouse_size", "capacity"),
			pick(d, "balance"),
			pick(d, "factory_id"),
			pick(d, "product_id"), pick(d, "product_count"),
			pick(d, "logistic_count"))
	},
	"logistics": func(d Record) string {
		name := pick(d, "name")
		if name == "N/A" {
			name = fmt.Sprintf("Shipment %s", pick(d, "logistic_id"))
		}
		return fmt.Sprintf("🚚 *%s* (ID: %s)\n"+
			"   Mode: %s\n"+
			"   Status: %s\n"+
			"   📞 Contact: %s\n"+
			"   💲 Cost: %s\n"+
			"   📦 Product ID: %s (Stock: %s)\n"+
			"   🏢 Warehouse ID: %s\n"+
			"   📍 Current Loc: Lat %s, Lon %s\n"+
			"   Delivered: %s (Confirmed: %s)\n"+
			"   💰 Balance: %s\n",
			name, pick(d, "logistic_id"),
			pick(d, "transportation_mode", "type"),
			pick(d, "status"),
			pick(d, "contact_info"),
			pick(d, "shipment_cost"),
			pick(d, "product_id"), pick(d, "product_stock", "capacity"),
			pick(d, "warehouse_id"),
			pick(d, "latitude"), pick(d, "longitude"),
			yesNo(d["delivered"]), yesNo(d["delivery_confirmed"]),
			pick(d, "balance"))
	},
	"inspectors": func(d Record) string {
		return fmt.Sprintf("🕵️ *%s* (ID: %s)\n"+
			"   📍 Location: Lat %s, Lon %s\n"+
			"   💰 Balance: %s\n"+
			"   💲 Fee/Product: %s\n",
			pick(d, "name"), pick(d, "inspector_id"),
			pick(d, "latitude"), pick(d, "longitude"),
			pick(d, "balance"),
			pick(d, "fee_charge_per_product"))
	},
}

// pick returns the first present, non-nil field value rendered for display,
// or "N/A" when none of the candidate names are set.
func pick(d Record, keys ...string) string {
	for _, k := range keys {
		if v, ok := d[k]; ok && v != nil {
			return displayValue(v)
		}
	}
	return "N/A"
}

func displayValue(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// yesNo renders a loosely-typed upstream flag as Yes/No.
func yesNo(v interface{}) string {
	switch t := v.(type) {
	case bool:
		if t {
			return "Yes"
		}
	case float64:
		if t != 0 {
			return "Yes"
		}
	case string:
		if t != "" && !strings.EqualFold(t, "false") && t != "0" {
			return "Yes"
		}
	}
	return "No"
}
