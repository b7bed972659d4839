// Package engine builds per-image pixel caches and runs quantization passes
// against a palette.
//
// # Pipeline
//
// Loading an image advances the Coordinator's epoch. A build then converts
// every pixel once into all four colour-space representations (the
// PixelCache). Quantization passes are pure lookups against that cache, so
// changing the palette selection, colour space or weights only repeats the
// matching step.
//
// # Epochs and single flight
//
// Every build is tagged with the epoch that was current when it started.
// Builds work in chunks; between chunks they report progress, yield, and
// compare their epoch with the current one. A build whose image has been
// replaced stops and discards its grids (ErrBuildAborted) instead of
// publishing them. At most one build runs at a time and concurrent requests
// for the same epoch share one *Build.
//
// # Visibility
//
// Caches and results are filled into fresh storage and handed out only when
// complete. Nothing is mutated after it has been returned.
package engine
