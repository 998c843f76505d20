// Package output renders nskv-cli replies.
//
// Replies are printed one per line, either as the raw server line
// (optionally coloured) or as one JSON object per line.
package output
