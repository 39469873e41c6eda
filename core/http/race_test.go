//go:build race

package http

// sync.Pool drops items at random under the race detector.
const raceEnabled = true
