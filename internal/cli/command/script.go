package command

import (
	"errors"
	"strings"
)

// Errors for a trailing command without enough arguments.
var (
	ErrIncompletePut  = errors.New("Invalid PUT arguments")
	ErrIncompleteGet  = errors.New("Invalid GET arguments")
	ErrIncompleteAuth = errors.New("Invalid AUTH arguments")
)

// Step is one protocol command taken from the argument list.
type Step struct {
	Name string
	Args []string
}

// Line renders the step as a protocol request line.
func (s Step) Line() string {
	return s.Name + " " + strings.Join(s.Args, " ")
}

// Printed reports whether the step's reply is shown to the user.
func (s Step) Printed() bool {
	return s.Name != "put"
}

// ParseScript turns command-line words into steps. Command names are
// case-insensitive and unknown words are skipped. When a command lacks
// its arguments, the steps before it are returned together with the
// matching error.
func ParseScript(words []string) ([]Step, error) {
	var steps []Step
	for i := 0; i < len(words); {
		name := strings.ToLower(words[i])

		var arity int
		var incomplete error
		switch name {
		case "put":
			arity, incomplete = 2, ErrIncompletePut
		case "get":
			arity, incomplete = 1, ErrIncompleteGet
		case "auth":
			arity, incomplete = 1, ErrIncompleteAuth
		default:
			i++
			continue
		}

		if i+arity >= len(words) {
			return steps, incomplete
		}
		steps = append(steps, Step{
			Name: name,
			Args: append([]string(nil), words[i+1:i+1+arity]...),
		})
		i += 1 + arity
	}
	return steps, nil
}
