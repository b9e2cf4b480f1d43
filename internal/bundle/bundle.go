// Package bundle carries the default emoji dataset compiled into the binary.
package bundle

import _ "embed"

//go:embed emojis.csv
var defaultCSV string

// DefaultCSV returns the bundled catalog text
func DefaultCSV() string {
	return defaultCSV
}
