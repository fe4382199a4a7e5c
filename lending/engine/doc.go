// Package engine is the Lending & Inventory Engine: the single entry point for catalog management,
// Borrow, Return, fines and the read models of the library.
//
// Every command runs Query → Decide → Append on its consistency boundary through an instrumented
// command handler. The engine adds what the handlers don't know about: the clock, the loan policy,
// a bounded operation timeout and the translation of transient failures into core.ErrContention
// and core.ErrTimeout.
package engine
