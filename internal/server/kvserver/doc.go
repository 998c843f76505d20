// Package kvserver implements the nskv line protocol server.
//
// Each accepted TCP connection is served by its own goroutine. A peer is
// identified by its source IP address (port excluded) and reads and writes
// only its own namespace. A successful AUTH elevates the session to the
// Manager role, which may read other namespaces with qualified keys of the
// form "identity:key".
//
// Wire protocol (one request line, one response line):
//
//	put <key> <value>     -> OK | ERROR: Invalid PUT format
//	get <key>             -> <value> | <blank> | ERROR: Invalid GET format
//	get <identity>:<key>  -> foreign lookup, Manager only
//	auth <token>          -> ROLE_UPDATED: You are now a Manager | AUTH_FAILED
//	anything else         -> UNKNOWN_COMMAND
//
// Blank lines are ignored and produce no response. Command names are
// case-insensitive; keys, values and tokens are not.
package kvserver
