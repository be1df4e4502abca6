// Package analyzer implements the analyze pipeline stage: it derives
// entities and facts from the extracted units and persists them alongside
// the queue item.
package analyzer
