// Package history keeps the linear undo/redo history of an edited image.
//
// A History is an ordered list of snapshots plus a cursor naming the current
// one. Committing stores a deep copy of the image after the cursor, discarding
// any snapshots a redo could have reached, and moves the cursor to it. Undo
// and Redo only move the cursor; they never copy or recompute pixels.
//
// Every snapshot is a full copy of the image, so memory grows with each
// commit. SizeBytes reports the total so callers can surface it.
//
// A History is not safe for concurrent use.
package history
