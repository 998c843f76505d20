// Package handler provides the HTTP request handlers for nskv.
//
// The JSON API mirrors the line protocol: a caller is identified by its
// peer IP address, writes land in its own namespace and reads of another
// namespace require the manager token returned by /api/auth.
package handler
