package services

import (
	"math"
	"time"
)

// rankedBefore orders ranked documents: score descending, then upload time
// ascending, then ID ascending. Equal scores are common with hash
// embeddings, so the order never depends on input order.
func rankedBefore(aScore float64, aUploaded time.Time, aID string,
	bScore float64, bUploaded time.Time, bID string) bool {
	if aScore != bScore {
		return aScore > bScore
	}
	if !aUploaded.Equal(bUploaded) {
		return aUploaded.Before(bUploaded)
	}
	return aID < bID
}

// roundScore rounds to four decimal places for output.
func roundScore(score float64) float64 {
	return math.Round(score*1e4) / 1e4
}
