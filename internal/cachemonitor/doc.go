// Package cachemonitor keeps per-namespace cache hit, miss and error counters
// in memory and derives health summaries from them.
//
// A Monitor is an ordinary value: construct one with New and pass it to the
// cache loaders and handlers that need it. Default returns the single
// process-wide Monitor for code that cannot have one injected.
//
// Counters live only for the lifetime of the process and are reset only by
// Clear.
package cachemonitor
