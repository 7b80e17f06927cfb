// Package batch solves the parts of a partitioned instance concurrently and
// stitches their tours back into one tour over the original matrix.
//
// Coordinator.Run fans partition solves out to a bounded worker pool
// (errgroup with SetLimit) and waits for all of them. Every part gets its own
// seed derived from Config.Seed and the part index, and all parts share one
// deadline. A Store, when configured, persists finished parts so an
// interrupted run can resume under the same run id.
//
// Merge keeps only the core nodes of every part, in the part's tour order,
// rotated to start next to where the previous part ended.
package batch
