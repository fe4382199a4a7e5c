// Package catalogsearch implements the catalog search query.
//
// Text matches case-insensitively as a substring of title, author or category.
// Category, if given, must match exactly (ignoring case). Removed books are excluded
// and results are sorted by title. OnlyAvailable also excludes books whose copies are all lent.
package catalogsearch
