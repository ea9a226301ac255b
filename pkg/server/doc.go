// Package server exposes the order pipeline over HTTP.
//
// # Endpoints
//
//	POST /v1/order    network JSON plus options → stack order JSON
//	POST /v1/verify   network JSON plus "stack" → {"valid": true|false}
//	POST /v1/render   network JSON, ?format=svg|dot → diagram
//	GET  /healthz     build information
//
// An order request is the network document accepted by the CLI with the
// order options alongside:
//
//	{"receivers": [1, 4, 1, 6, 4, 4, 5, 4, 6, 7], "roots": [4], "builder": "recursive", "workers": 2}
//
// The response is the result document written by `drainstack order`. The
// X-Cache header reports HIT or MISS.
//
// # Errors
//
// Failures are returned as
//
//	{"error": {"code": "INVALID_INDEX", "message": "receiver of node 3: 12 out of range [0,10)"}}
//
// with status 400 for input errors, 413 for oversized bodies, 422 for
// malformed topology, depth overflow or unsupported requests, 503 when the
// request was canceled and 500 otherwise. Internal error details are logged,
// not returned.
package server
