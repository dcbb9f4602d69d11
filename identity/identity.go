package identity

// AnonymousKey is the sentinel owner key used for unauthenticated
// sessions. It is a distinct owner from any real identity.
const AnonymousKey = "anonymous"

type kind int

const (
	kindUnresolved kind = iota
	kindAnonymous
	kindAuthenticated
)

// Identity is the resolved actor on whose behalf a repository
// operation executes: an authenticated user, the anonymous sentinel,
// or the zero value when no identity could be resolved at all.
type Identity struct {
	kind kind
	id   string
}

// Authenticated returns the identity of a signed-in user.
func Authenticated(id string) Identity {
	return Identity{kind: kindAuthenticated, id: id}
}

// Anonymous returns the anonymous sentinel identity.
func Anonymous() Identity {
	return Identity{kind: kindAnonymous}
}

// IsZero reports whether the identity is unresolved. Save operations
// reject unresolved identities; read operations degrade to empty
// results.
func (i Identity) IsZero() bool {
	return i.kind == kindUnresolved
}

// IsAnonymous reports whether this is the anonymous sentinel.
func (i Identity) IsAnonymous() bool {
	return i.kind == kindAnonymous
}

// Key returns the owner key used in storage: the user id for
// authenticated identities, AnonymousKey for the sentinel, and the
// empty string for an unresolved identity.
func (i Identity) Key() string {
	switch i.kind {
	case kindAuthenticated:
		return i.id
	case kindAnonymous:
		return AnonymousKey
	}
	return ""
}

// Owns reports whether this identity owns a record with the given
// stored owner key. An unresolved identity owns nothing.
func (i Identity) Owns(ownerKey string) bool {
	if i.IsZero() {
		return false
	}
	return i.Key() == ownerKey
}
