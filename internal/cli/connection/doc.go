// Package connection provides the nskv-cli transport: a persistent TCP
// connection exchanging one request line for one response line.
package connection
