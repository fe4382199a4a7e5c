// Package outstandingfines implements the "my fines" query of one user.
//
// The total sums the live fines of overdue active loans and the frozen fines of returned loans.
// Loans without a fine are not listed.
package outstandingfines
