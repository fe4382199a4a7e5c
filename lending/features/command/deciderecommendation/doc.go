// Package deciderecommendation implements an admin's approval or rejection of a book recommendation.
//
// A decision can be revised later, setting the status it already has is a no-op.
package deciderecommendation
