// Package graph provides serialization types for commit histories and
// railway layouts.
//
// This package defines the JSON formats railtrack reads and writes: commit
// record files used as an alternative to a live repository, cached
// histories, and layout exports for other tools.
//
// # Architecture
//
// The package sits at the serialization boundary between internal
// representations and external formats:
//
//   - [History], [Layout]: Serialization types (this package)
//   - pkg/dag.Record: Internal commit record
//   - pkg/railway.Layout: Internal row stream
//
// Use [FromRecords]/[History.Records] and [FromLayout] to convert between
// them.
//
// # History Serialization
//
// Histories are a flat list of commits. Timestamps are Unix seconds; the
// first parent is the primary one.
//
//	{
//	  "commits": [
//	    {"id": "9fceb02", "parents": ["1a410ef", "3c4e9cd"], "author": "Ada",
//	     "time": 1700000000, "message": "Merge branch 'topic'"}
//	  ]
//	}
//
// Common operations:
//
//	records, _ := graph.ReadRecordsFile("commits.json")  // File → records
//	graph.WriteRecordsFile(records, "commits.json")      // records → File
//	data, _ := graph.MarshalRecords(records)             // records → []byte
//
// Records are written in input order; readers must not rely on any order.
//
// # Layout Serialization
//
// Layouts list rows in display order. Each row carries a "kind" of "node" or
// "edge":
//
//	{
//	  "width": 2,
//	  "rows": [
//	    {"kind": "node", "id": "d", "lane": 0},
//	    {"kind": "edge", "segments": [{"kind": "straight", "from": 0, "to": 0},
//	                                   {"kind": "diagonal-out", "from": 0, "to": 1}]}
//	  ]
//	}
//
// # Concurrency
//
// All functions are safe for concurrent use; no state is shared.
package graph
