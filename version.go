// Package kestrel holds shared project metadata.
package kestrel

// Version is the current kestrel release.
const Version = "0.2.0"
