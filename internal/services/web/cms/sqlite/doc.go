// Package sqlite stores CMS documents in a local SQLite file and answers
// structured content queries against them.
//
// Documents are kept as JSON and filtered with json_extract, so the store
// accepts exactly what the hosted CMS would return. Draft revisions use
// ids prefixed with "drafts.".
package sqlite
