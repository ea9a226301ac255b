// Package io reads drainage networks and writes stack orders.
//
// # Network Formats
//
// Three input formats are recognised, chosen by file extension:
//
// JSON (.json), with optional roots:
//
//	{"receivers": [1, 4, 1, 6, 4, 4, 5, 4, 6, 7], "roots": [4]}
//
// TOML (.toml):
//
//	receivers = [1, 4, 1, 6, 4, 4, 5, 4, 6, 7]
//	roots = [4]
//
// Plain text (any other extension): whitespace-separated receiver ids, one
// node after another, with '#' starting a comment that runs to the end of the
// line. Text networks carry no roots; the self-loops are used.
//
// When roots are omitted, [drainage.Network.ResolvedRoots] falls back to every
// node that is its own receiver, in ascending order.
//
// # Results
//
// [Result] is the JSON form of a [drainage.Result]:
//
//	{
//	  "id": "7c0e...",
//	  "builder": "iterative",
//	  "nodes": 10,
//	  "roots": [4],
//	  "offsets": [0, 10],
//	  "stack": [4, 1, 0, 2, 5, 6, 3, 8, 7, 9],
//	  "basins": [4, 4, 4, 4, 4, 4, 4, 4, 4, 4],
//	  "duration_ms": 0.012
//	}
//
// The same encoding is used for CLI output files, HTTP responses and cache
// entries.
package io
