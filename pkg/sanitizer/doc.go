// Package sanitizer normalizes user-supplied identifiers before they are
// validated or stored.
package sanitizer
