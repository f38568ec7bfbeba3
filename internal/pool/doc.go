// Package pool provides sync.Pool backed reuse of page buffers and engine
// workers.
package pool
