package extraction

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// SplitUnits breaks text into paragraph units: runs of non-blank lines
// separated by one or more blank lines. Text is NFC-normalized first so
// visually identical units compare equal. Empty units are dropped.
func SplitUnits(text string) []string {
	normalized := norm.NFC.String(strings.ReplaceAll(text, "\r\n", "\n"))

	var units []string
	var current []string
	flush := func() {
		if len(current) == 0 {
			return
		}
		unit := strings.TrimSpace(strings.Join(current, " "))
		if unit != "" {
			units = append(units, unit)
		}
		current = current[:0]
	}

	for _, line := range strings.Split(normalized, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, strings.TrimSpace(line))
	}
	flush()
	return units
}

// SplitPages breaks form-feed separated text into pages, returning the units
// of every page plus a unit-index to 1-based page-number map.
func SplitPages(text string) ([]string, map[int]int) {
	pages := strings.Split(text, "\f")
	if len(pages) == 1 {
		return SplitUnits(text), nil
	}

	var units []string
	pageMap := make(map[int]int)
	for pageIdx, pageText := range pages {
		for _, unit := range SplitUnits(pageText) {
			pageMap[len(units)] = pageIdx + 1
			units = append(units, unit)
		}
	}
	if len(pageMap) == 0 {
		return units, nil
	}
	return units, pageMap
}
