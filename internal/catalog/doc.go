// Package catalog persists sources, detection runs, and clips to SQLite and
// writes the per-source metadata sidecar that the gallery consumes.
package catalog
