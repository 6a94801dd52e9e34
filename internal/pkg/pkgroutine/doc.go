// Package pkgroutine runs bounded groups of goroutines.
//
// Every error a task returns, including a recovered panic, is collected and
// handed back by Wait, so callers see failures instead of losing them in
// the background.
package pkgroutine
