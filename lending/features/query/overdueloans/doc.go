// Package overdueloans implements the overdue report: every active loan past its due instant,
// with days overdue and the fine as of the reference instant, most overdue first.
package overdueloans
