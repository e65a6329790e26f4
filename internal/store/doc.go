// Package store defines the persistence interfaces the engine depends
// on, the sentinel errors their implementations return, and the shared
// transaction helper.
package store
