// Package token provides random token generation for nskv.
//
// Manager tokens handed out by the HTTP surface have the form
// "nsmt_" followed by 43 characters of Base64 RawURL encoded random
// bytes. Tokens are drawn from crypto/rand.
package token
