// Package version carries the application version baked into builds.
package version

// Version is the application version reported by /api/system/version.
var Version = "1.0.0"
