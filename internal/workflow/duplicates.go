package workflow

import (
	"net/url"
	"regexp"
	"slices"
	"strings"
)

var mapsLink = regexp.MustCompile(`https://www\.google\.com/maps/search/\?api=1&query=([^\s)\]>"']+)`)

// DuplicateLocations returns the places linked more than once in text,
// compared case-insensitively. Detection is best-effort: only maps search
// links are considered.
func DuplicateLocations(text string) []string {
	seen := make(map[string]int)
	var order []string

	for _, m := range mapsLink.FindAllStringSubmatch(text, -1) {
		place, err := url.QueryUnescape(m[1])
		if err != nil {
			place = m[1]
		}
		place = strings.Join(strings.Fields(strings.ToLower(place)), " ")
		if seen[place] == 0 {
			order = append(order, place)
		}
		seen[place]++
	}

	var dups []string
	for _, place := range order {
		if seen[place] > 1 {
			dups = append(dups, place)
		}
	}
	slices.Sort(dups)
	return dups
}
