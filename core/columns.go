package core

// Columns lists the tabular record columns in canonical order.
var Columns = []string{
	"manufacturer", "mpn", "part_label", "category", "kind",
	"observed_property", "actuatable_property", "feature_of_interest",
	"vcc_min", "vcc_max", "logic_level", "i_active_mA", "i_idle_uA",
	"package_case", "pin_count", "temp_min_c", "temp_max_c",
	"iface", "i2c_addr_default", "i2c_addr_range", "spi_max_mhz", "uart_baud",
	"sample_rate_max_hz", "latency_ms", "accuracy_pct",
	"range_min", "range_max", "units",
	"datasheet_url", "product_url", "offer_price", "currency", "lifecycle", "notes",
}

// field returns a pointer to the record field behind a column name.
func (r *RawRecord) field(column string) *string {
	switch column {
	case "manufacturer":
		return &r.Manufacturer
	case "mpn":
		return &r.MPN
	case "part_label":
		return &r.Label
	case "category":
		return &r.Category
	case "kind":
		return &r.Kind
	case "observed_property":
		return &r.ObservedProperty
	case "actuatable_property":
		return &r.ActuatableProperty
	case "feature_of_interest":
		return &r.FeatureOfInterest
	case "vcc_min":
		return &r.VccMin
	case "vcc_max":
		return &r.VccMax
	case "logic_level":
		return &r.LogicLevel
	case "i_active_mA":
		return &r.IActiveMA
	case "i_idle_uA":
		return &r.IIdleUA
	case "package_case":
		return &r.PackageCase
	case "pin_count":
		return &r.PinCount
	case "temp_min_c":
		return &r.TempMinC
	case "temp_max_c":
		return &r.TempMaxC
	case "iface":
		return &r.Iface
	case "i2c_addr_default":
		return &r.I2CAddrDefault
	case "i2c_addr_range":
		return &r.I2CAddrRange
	case "spi_max_mhz":
		return &r.SPIMaxMHz
	case "uart_baud":
		return &r.UARTBaud
	case "sample_rate_max_hz":
		return &r.SampleRateMaxHz
	case "latency_ms":
		return &r.LatencyMs
	case "accuracy_pct":
		return &r.AccuracyPct
	case "range_min":
		return &r.RangeMin
	case "range_max":
		return &r.RangeMax
	case "units":
		return &r.Units
	case "datasheet_url":
		return &r.DatasheetURL
	case "product_url":
		return &r.ProductURL
	case "offer_price":
		return &r.OfferPrice
	case "currency":
		return &r.Currency
	case "lifecycle":
		return &r.Lifecycle
	case "notes":
		return &r.Notes
	}
	return nil
}

// Field returns the value of a column, or "" for unknown columns.
func (r *RawRecord) Field(column string) string {
	if f := r.field(column); f != nil {
		return *f
	}
	return ""
}

// SetField sets a column value. It reports false for unknown columns.
func (r *RawRecord) SetField(column, value string) bool {
	f := r.field(column)
	if f == nil {
		return false
	}
	*f = value
	return true
}

// IsKnownColumn reports whether column is one of Columns.
func IsKnownColumn(column string) bool {
	var r RawRecord
	return r.field(column) != nil
}
