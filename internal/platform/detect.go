package platform

import (
	"os"
)

// InstallStatus indicates what was found on disk for a tool.
type InstallStatus string

const (
	// StatusDetected indicates the config file exists and has a server list.
	StatusDetected InstallStatus = "detected"

	// StatusNoServers indicates the config file exists but has no
	// server-list key.
	StatusNoServers InstallStatus = "no_servers"

	// StatusNotInstalled indicates the config file does not exist.
	StatusNotInstalled InstallStatus = "not_installed"
)

// DetectionResult describes one tool for `mcptoggle detect`.
type DetectionResult struct {
	// Name is the tool identifier.
	Name string `json:"name"`

	// DisplayName is the human-readable tool name.
	DisplayName string `json:"display_name"`

	// ConfigPath is the main configuration file, whether or not it exists.
	ConfigPath string `json:"config_path"`

	// Status indicates what was found.
	Status InstallStatus `json:"status"`

	// ProjectScope reports whether the tool supports project scope.
	ProjectScope bool `json:"project_scope"`
}

// Detect returns the detection result for a single adapter.
func Detect(a Adapter) DetectionResult {
	status := StatusNotInstalled
	switch {
	case a.Detect():
		status = StatusDetected
	case fileExists(a.ConfigPath()):
		status = StatusNoServers
	}

	return DetectionResult{
		Name:         a.Name(),
		DisplayName:  a.DisplayName(),
		ConfigPath:   a.ConfigPath(),
		Status:       status,
		ProjectScope: a.SupportsProjectScope(),
	}
}

// DetectAll returns detection results for every registered adapter in
// deterministic order.
func DetectAll(r *Registry) []DetectionResult {
	adapters := r.All()
	results := make([]DetectionResult, 0, len(adapters))
	for _, a := range adapters {
		results = append(results, Detect(a))
	}
	return results
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	if path == "" {
		return false
	}

	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return info.Mode().IsRegular()
}
