package auth

import "strings"

const (
	// UnauthorizedMessage is the only rejection text clients ever see from the gate.
	UnauthorizedMessage = "Unauthorized request"
	// MissingTokenReason is recorded when no usable bearer token was sent.
	MissingTokenReason = "Missing bearer token"
)

// TokenVerifier turns a raw token into an Identity.
type TokenVerifier interface {
	Verify(token string) (Identity, error)
}

// GateError is a rejection from the gate. Reason is for server logs only.
type GateError struct {
	Reason string
	Err    error
}

func (e *GateError) Error() string {
	if e.Err != nil {
		return e.Reason + ": " + e.Err.Error()
	}
	return e.Reason
}

func (e *GateError) Unwrap() error { return e.Err }

// Gate authorizes requests from their Authorization header.
type Gate struct {
	verifier TokenVerifier
}

func NewGate(verifier TokenVerifier) *Gate {
	return &Gate{verifier: verifier}
}

// Authorize returns the identity carried by a "Bearer <token>" header, or a *GateError.
func (g *Gate) Authorize(header string) (Identity, error) {
	token, ok := bearerToken(header)
	if !ok {
		return Identity{}, &GateError{Reason: MissingTokenReason}
	}

	id, err := g.verifier.Verify(token)
	if err != nil {
		return Identity{}, &GateError{Reason: UnauthorizedMessage, Err: err}
	}
	return id, nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}
