// Package search is the search engine of quarry. It executes one query
// against every dataset in the store in a single synchronous pass, with no
// index and no implicit result cap.
//
// # Overview
//
// A search visits all datasets (SQL scripts and JSON documents), applies an
// optional type filter, matches content literally or by regex with optional
// case folding, scores each match, sorts the aggregate by relevance
// descending and truncates only when the caller supplied an explicit limit.
// Omitting the limit returns every match across the whole corpus; that is
// the defining guarantee of the engine.
//
// # Matching
//
// SQL datasets yield at most one aggregate match per dataset, scored by the
// number of occurrences, with a truncated content preview. JSON datasets
// are traversed recursively; every matched object key, string value or
// string array item yields its own match with a path describing the
// traversal route (parent.child, parent[3]), each scored 1.
//
// Both paths share a single text-matching primitive, so case folding and
// the regex-versus-literal decision behave identically everywhere. Invalid
// regex patterns silently fall back to literal substring matching; empty
// queries short-circuit to a well-formed empty result. Neither is an error.
//
// # Cost model
//
// A search always scans and scores the full corpus before truncating, so an
// explicit limit bounds the response size but not the scan time.
package search
