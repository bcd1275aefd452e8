// Package sqlite provides the content cache store backed by SQLite.
//
// The store only contains derived state that can be rebuilt from the CMS.
package sqlite
