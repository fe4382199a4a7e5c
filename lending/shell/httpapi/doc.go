// Package httpapi exposes the lending engine as a JSON HTTP API.
//
// Callers are identified by the trusted gateway headers X-User-ID (UUID) and X-User-Role
// (admin, teacher or student). Role checks live here: catalog management, recommendation decisions
// and the admin reports need the admin role, recommendations are submitted by teachers and the
// student loan report is for teachers and admins. Loan ownership is enforced by the engine,
// fine lookups are limited to the owner and admins.
package httpapi
