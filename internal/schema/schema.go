package schema

import "strings"

// Fields is the canonical column set, in declared order. Every standardized
// table carries all of these, whatever the source looked like.
var Fields = []string{
	"SupplierID",
	"Deliverdate",
	"CustomerID",
	"LicenseNo",
	"Category",
	"UDID",
	"DeviceNAME",
	"LotNO",
	"SerNo",
	"Model",
	"Number",
}

// MinimumFields are required before a staged dataset may be imported.
// On non-empty data Number is never reported missing, since zero is a
// valid coerced quantity; an empty dataset misses all five.
var MinimumFields = []string{
	"SupplierID",
	"Deliverdate",
	"CustomerID",
	"Model",
	"Number",
}

// IsCanonical reports whether name is one of the canonical fields
// (case-sensitive).
func IsCanonical(name string) bool {
	for _, f := range Fields {
		if f == name {
			return true
		}
	}
	return false
}

// aliases maps lowercase source header names to canonical fields. When
// multiple raw headers mean the same thing, they all map here.
var aliases = map[string]string{
	// SupplierID
	"supplier":    "SupplierID",
	"supplier_id": "SupplierID",
	"supplierid":  "SupplierID",
	"vendor":      "SupplierID",
	"vendor_id":   "SupplierID",
	"distributor": "SupplierID",

	// Deliverdate
	"deliverdate":   "Deliverdate",
	"delivery_date": "Deliverdate",
	"deliverydate":  "Deliverdate",
	"ship_date":     "Deliverdate",
	"shipdate":      "Deliverdate",
	"date":          "Deliverdate",

	// CustomerID
	"customer":    "CustomerID",
	"customer_id": "CustomerID",
	"customerid":  "CustomerID",
	"client":      "CustomerID",
	"client_id":   "CustomerID",
	"hospital":    "CustomerID",

	// LicenseNo
	"license":     "LicenseNo",
	"license_no":  "LicenseNo",
	"licenseno":   "LicenseNo",
	"licence":     "LicenseNo",
	"permit":      "LicenseNo",
	"permit_no":   "LicenseNo",
	"license_num": "LicenseNo",

	// Category
	"category":   "Category",
	"cat":        "Category",
	"type":       "Category",
	"class":      "Category",
	"risk_class": "Category",

	// UDID
	"udid":      "UDID",
	"udi":       "UDID",
	"device_id": "UDID",
	"deviceid":  "UDID",

	// DeviceNAME
	"devicename":  "DeviceNAME",
	"device_name": "DeviceNAME",
	"device":      "DeviceNAME",
	"product":     "DeviceNAME",
	"item_name":   "DeviceNAME",

	// LotNO
	"lotno":     "LotNO",
	"lot_no":    "LotNO",
	"lot":       "LotNO",
	"batch":     "LotNO",
	"batch_no":  "LotNO",
	"lotnumber": "LotNO",

	// SerNo
	"serno":         "SerNo",
	"ser_no":        "SerNo",
	"serial":        "SerNo",
	"serial_no":     "SerNo",
	"serialnumber":  "SerNo",
	"serial_number": "SerNo",

	// Model
	"model":      "Model",
	"model_no":   "Model",
	"modelno":    "Model",
	"item_model": "Model",

	// Number
	"number":   "Number",
	"qty":      "Number",
	"quantity": "Number",
	"units":    "Number",
	"count":    "Number",
	"amount":   "Number",
	"volume":   "Number",
}

// Alias returns the canonical field a source header maps to, if any.
func Alias(sourceName string) (string, bool) {
	c, ok := aliases[strings.ToLower(strings.TrimSpace(sourceName))]
	return c, ok
}

// ResolveMapping builds a canonical-field → source-column mapping for the
// given source columns. Resolution order per canonical field: exact
// case-sensitive match, alias-table lookup, case-insensitive exact match.
// Entries in overrides (canonical → source) always win, but only when the
// named source column actually exists; invalid overrides are ignored.
// The returned mapping is partial: unresolved fields are absent.
func ResolveMapping(columns []string, overrides map[string]string) map[string]string {
	exists := make(map[string]bool, len(columns))
	lower := make(map[string]string, len(columns)) // lowercase -> first original
	for _, c := range columns {
		exists[c] = true
		lc := strings.ToLower(strings.TrimSpace(c))
		if _, seen := lower[lc]; !seen {
			lower[lc] = c
		}
	}

	mapping := make(map[string]string, len(Fields))
	for _, field := range Fields {
		if exists[field] {
			mapping[field] = field
			continue
		}
		if src, ok := aliasFor(field, columns); ok {
			mapping[field] = src
			continue
		}
		if src, ok := lower[strings.ToLower(field)]; ok {
			mapping[field] = src
		}
	}

	for field, src := range overrides {
		if !IsCanonical(field) {
			continue
		}
		if !exists[src] {
			continue
		}
		mapping[field] = src
	}
	return mapping
}

func aliasFor(field string, columns []string) (string, bool) {
	for _, c := range columns {
		if canon, ok := Alias(c); ok && canon == field {
			return c, true
		}
	}
	return "", false
}
