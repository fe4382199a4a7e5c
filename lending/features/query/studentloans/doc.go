// Package studentloans implements the report teachers use to follow the loans of students.
//
// The report covers active and returned loans, fines of active loans are computed up to the report instant.
package studentloans
