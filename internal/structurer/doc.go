// Package structurer implements the structure pipeline stage: it embeds the
// extracted units and runs the constellation relaxation over them, persisting
// the run result on the queue item. The scatter projection is rendered here
// while the embedding matrix is still in memory; the export stage writes the
// remaining artifacts from the persisted result.
package structurer
