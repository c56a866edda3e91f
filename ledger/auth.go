package ledger

import "strings"

// Authorizer decides whether an administrative token is accepted.
// Authorization is an explicit capability passed into each administrative
// call rather than ambient state, so tests can exercise both paths
// deterministically.
type Authorizer interface {
	Authorize(token string) bool
}

// TokenAuthorizer authorizes calls presenting one of a static set of API
// tokens. An empty set rejects everything, matching the convention that an
// unconfigured admin surface denies by default.
type TokenAuthorizer struct {
	tokens map[string]struct{}
}

// NewTokenAuthorizer constructs an authorizer from the supplied token list.
// Blank entries are discarded.
func NewTokenAuthorizer(tokens []string) *TokenAuthorizer {
	set := make(map[string]struct{})
	for _, token := range tokens {
		trimmed := strings.TrimSpace(token)
		if trimmed == "" {
			continue
		}
		set[trimmed] = struct{}{}
	}
	return &TokenAuthorizer{tokens: set}
}

// Authorize reports whether the token matches a configured credential.
func (a *TokenAuthorizer) Authorize(token string) bool {
	if a == nil || len(a.tokens) == 0 {
		return false
	}
	_, ok := a.tokens[strings.TrimSpace(token)]
	return ok
}
