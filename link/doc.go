// Package link combines assembled objects into a single addressable
// program. Each object is placed at the next free bank boundary, its
// symbols are translated into the combined space, and every recorded
// reference is re-patched against the merged symbol tables.
package link
