// Package recommendbook implements the submission of a book recommendation by a teacher.
// A recommendation starts pending, admins decide on it with the deciderecommendation feature.
package recommendbook
