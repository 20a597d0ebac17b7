package config

import (
	"sort"
	"strings"
	"sync"
)

// Feature names.
const (
	FeatureCSVExport        = "csv_export"
	FeaturePDFExport        = "pdf_export"
	FeaturePerformanceChart = "performance_chart"
	FeatureSheetSync        = "sheet_sync"
)

// Features is a set of named on/off switches. Each defaults to on and can
// be disabled with FEATURE_<NAME>=false.
type Features struct {
	mu      sync.RWMutex
	enabled map[string]bool
}

// LoadFeatures reads the switches from the environment.
func LoadFeatures() *Features {
	f := NewFeatures()
	for name := range f.enabled {
		f.enabled[name] = getEnvBool(envKey(name), true)
	}
	return f
}

// NewFeatures returns every feature enabled.
func NewFeatures() *Features {
	return &Features{enabled: map[string]bool{
		FeatureCSVExport:        true,
		FeaturePDFExport:        true,
		FeaturePerformanceChart: true,
		FeatureSheetSync:        true,
	}}
}

func envKey(name string) string {
	return "FEATURE_" + strings.ToUpper(name)
}

// IsEnabled reports whether a feature is on. Unknown names are off.
func (f *Features) IsEnabled(name string) bool {
	if f == nil {
		return true
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.enabled[name]
}

// Set switches a feature at runtime.
func (f *Features) Set(name string, on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enabled[name] = on
}

// ExportFormatEnabled maps an export format name to its switch.
func (f *Features) ExportFormatEnabled(format string) bool {
	switch strings.ToLower(format) {
	case "csv":
		return f.IsEnabled(FeatureCSVExport)
	case "pdf":
		return f.IsEnabled(FeaturePDFExport)
	}
	return true
}

// Names lists the known features in order.
func (f *Features) Names() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]string, 0, len(f.enabled))
	for n := range f.enabled {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
