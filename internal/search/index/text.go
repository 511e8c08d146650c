package index

import (
	"strings"

	"github.com/JanikMartens/WiG/internal/search"
)

// SearchableText returns the text a package is matched against: its folded
// identifier and name joined by one space. Descriptions are not indexed.
func SearchableText(identifier, name string) string {
	return strings.TrimSpace(search.Fold(identifier) + " " + search.Fold(name))
}
