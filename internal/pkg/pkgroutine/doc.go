// Package pkgroutine contains helpers for running goroutines safely.
//
// The Manager type limits concurrency, collects returned errors, and logs
// panics so that background work (such as evicting idle datasets) does not
// crash the process silently.
package pkgroutine
