// Package engine turns a classified VCD event stream into output rows.
//
// The engine is a single-pass, single-threaded state machine: per-column
// clean values, the current time marker, and the emission bookkeeping are
// named fields advanced by discrete handlers (OnTime, OnScalar, OnVector,
// Finish). All mutable state is owned by one Engine value for the
// duration of one conversion and is never shared across invocations.
//
// Two emission modes exist. Event mode writes one row per time marker at
// which any tracked column changed. Uniform-grid mode resamples the
// current state at fixed intervals anchored to the first observed
// interval, independent of when changes occurred. Both respect optional
// inclusive lower/upper time bounds; the upper bound terminates the pass
// early in event mode.
package engine
