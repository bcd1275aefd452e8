// Package web runs the institution's public bilingual site.
//
// It wires the configured CMS content source and cache to the site and api
// modules and owns the HTTP server lifecycle.
package web
