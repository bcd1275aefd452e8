// Package storage declares persistence interfaces for cached CMS reads.
//
// The cache is a derived read optimization and never becomes the source of
// truth for content, which the CMS owns.
package storage
