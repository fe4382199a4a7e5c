// Package librarystats implements the dashboard figures of the whole library at a reference instant.
package librarystats
