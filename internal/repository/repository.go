// Package repository contains the data access layer.
//
// Repositories speak SQL through the shared pgx pool and return plain
// structs. They never interpret errors into HTTP semantics; callers in the
// service layer do that mapping.
package repository
