package id

import "github.com/google/uuid"

// Generator creates opaque identifiers.
type Generator interface {
	New() string
}

// UUID issues random v4 identifiers, used as request ids on outgoing calls.
type UUID struct{}

func (UUID) New() string {
	return uuid.NewString()
}

type Static string

func (s Static) New() string {
	return string(s)
}
