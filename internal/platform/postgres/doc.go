// Package postgres implements the store interfaces against a
// PostgreSQL database, using the pgx stdlib driver through
// database/sql. Review state and session rows are locked with
// SELECT ... FOR UPDATE inside transactions to serialize concurrent
// grading writes.
package postgres
