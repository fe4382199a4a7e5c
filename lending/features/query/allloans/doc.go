// Package allloans implements the loan history query of one user: active and returned loans, newest borrow first.
package allloans
