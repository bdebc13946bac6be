package csvcodec

import "time"

// ExportFileName returns the default name of an export taken at now.
func ExportFileName(now time.Time) string {
	return "uni_budget_export_" + now.Format("2006-01-02") + ".csv"
}
