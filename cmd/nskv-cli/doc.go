// Package main provides the entry point for nskv-cli.
//
// Usage:
//
//	nskv-cli [--no-color] [--timeout D] [-o text|json] [-c cli.yaml] [-i] <host> <port> <command> <args...>...
//	nskv-cli localhost 4000 put city Kolkata get city
//	nskv-cli -i localhost 4000
package main
