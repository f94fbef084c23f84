package auth

import (
	"encoding/base64"
	"errors"
	"strings"

	apperrors "expensetracker/internal/errors"
)

const basicScheme = "Basic "

// Reason tells why a credential was rejected. Callers outside the process
// only ever see ErrUnauthorized.
type Reason int

const (
	ReasonMalformedHeader Reason = iota + 1
	ReasonUnknownIdentity
	ReasonWrongSecret
)

func (r Reason) String() string {
	switch r {
	case ReasonMalformedHeader:
		return "malformed_header"
	case ReasonUnknownIdentity:
		return "unknown_identity"
	case ReasonWrongSecret:
		return "wrong_secret"
	default:
		return "unknown"
	}
}

// Rejection is an authentication failure. It matches ErrUnauthorized.
type Rejection struct {
	Reason Reason
}

func (r *Rejection) Error() string {
	return "authentication rejected: " + r.Reason.String()
}

// Is makes errors.Is(err, errors.ErrUnauthorized) hold for every rejection.
func (r *Rejection) Is(target error) bool {
	return target == apperrors.ErrUnauthorized
}

// ReasonOf extracts the rejection reason from err.
func ReasonOf(err error) (Reason, bool) {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej.Reason, true
	}
	return 0, false
}

// Credentials is a decoded username/password pair.
type Credentials struct {
	Username string
	Password string
}

// ParseBasic decodes an Authorization header using the Basic scheme. The
// scheme marker is case-sensitive and the pair is split on the first colon,
// so passwords may contain colons.
func ParseBasic(header string) (Credentials, error) {
	malformed := &Rejection{Reason: ReasonMalformedHeader}

	if !strings.HasPrefix(header, basicScheme) {
		return Credentials{}, malformed
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(header[len(basicScheme):]))
	if err != nil {
		return Credentials{}, malformed
	}
	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok || username == "" || password == "" {
		return Credentials{}, malformed
	}
	return Credentials{Username: username, Password: password}, nil
}
