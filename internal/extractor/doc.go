// Package extractor implements the first pipeline stage: it reads the queued
// source file, splits it into text units, and persists the extracted
// document on the queue item for the later stages.
package extractor
