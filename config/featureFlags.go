package config

import (
	"os"
	"strings"
)

func envBool(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "y" || v == "on"
}

// AdminOverrideEnabled permits regenerating an already-signed official monthly
// report. The regeneration still produces a new content hash and a distinct
// audit action.
//
// Set via env:
// - ADMIN_OVERRIDE=true
func AdminOverrideEnabled() bool {
	return envBool("ADMIN_OVERRIDE")
}

// ReportCacheEnabled toggles redis caching of dashboard/report queries.
//
// Set via env:
// - ENABLE_REPORT_CACHE=true
func ReportCacheEnabled() bool {
	return envBool("ENABLE_REPORT_CACHE")
}
