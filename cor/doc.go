// Package cor models the COR20 (CLI) header fields the module facade owns:
// the flags word as a lock-free atomic bitset, and the pointer-size decision
// procedure that mirrors how the platform loader picks a process bitness
// from machine, flags and runtime version.
package cor
