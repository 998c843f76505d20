// Package command provides the nskv-cli application.
//
// The tool connects once to <host> <port> and replays the remaining
// arguments as protocol commands:
//
//	nskv-cli localhost 4000 put city Kolkata get city
//	nskv-cli 127.0.0.2 4000 auth admin123 get 127.0.0.1:city
//
// PUT replies are consumed silently, GET and AUTH replies are printed and
// unrecognised words are skipped. With -i, or with no commands on a
// terminal, an interactive prompt follows on the same connection.
package command
