// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package identity

import "context"

// Resolver produces the identity of the current caller. Production
// hosts back this with their session machinery (the identity provider
// is an external collaborator); tests and development use Static.
//
// Resolve returns the zero Identity (not an error) when there is no
// session at all. Errors are reserved for resolver-side failures and
// are treated as "unresolved" by read paths.
type Resolver interface {
	Resolve(ctx context.Context) (Identity, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context) (Identity, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context) (Identity, error) {
	return f(ctx)
}

// Static is a Resolver that always returns the same identity.
// Used in development and tests, mirroring the mock-user path of the
// hosting application.
type Static struct {
	identity Identity
}

var _ Resolver = (*Static)(nil)

// NewStatic creates a resolver fixed to the authenticated user id.
func NewStatic(userID string) *Static {
	return &Static{identity: Authenticated(userID)}
}

// NewStaticAnonymous creates a resolver fixed to the anonymous
// sentinel.
func NewStaticAnonymous() *Static {
	return &Static{identity: Anonymous()}
}

// NewStaticUnresolved creates a resolver that never finds a session.
func NewStaticUnresolved() *Static {
	return &Static{}
}

// Resolve returns the fixed identity.
func (s *Static) Resolve(ctx context.Context) (Identity, error) {
	return s.identity, nil
}

type contextKey struct{}

// WithIdentity returns a context carrying the given identity, for use
// with the FromContext resolver.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext is a Resolver that reads the identity a host middleware
// placed on the context with WithIdentity. A context without an
// identity resolves to the zero Identity.
type FromContext struct{}

var _ Resolver = FromContext{}

// Resolve returns the context identity, or the zero Identity.
func (FromContext) Resolve(ctx context.Context) (Identity, error) {
	if id, ok := ctx.Value(contextKey{}).(Identity); ok {
		return id, nil
	}
	return Identity{}, nil
}
