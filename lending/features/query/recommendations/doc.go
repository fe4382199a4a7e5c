// Package recommendations implements the query for book recommendations, of one user or of everybody.
package recommendations
