// Package extraction turns source files into ordered text units.
//
// A unit is the granularity the structuring pipeline works on: a paragraph,
// a CSV row, or a log line. Extraction also records a unit-index to page
// map for paginated sources (form-feed separated text) so exported rows can
// carry page numbers.
package extraction
