// Package loanfine implements the fine query of one loan at a reference instant.
//
// The fine of an active loan is recomputed for the reference instant,
// a returned loan reports the fine frozen at its return.
package loanfine
