// Package auth implements the login gate: credential checks behind a
// pluggable policy and the in-memory session registry used by the pages.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Demo credentials accepted when no password hash is configured.
const (
	DemoUsername = "admin"
	DemoPassword = "1234"
)

// ErrInvalidHash is returned for a configured hash that is not bcrypt.
var ErrInvalidHash = errors.New("invalid bcrypt password hash")

// CredentialPolicy decides whether a username and password may log in.
type CredentialPolicy interface {
	Verify(username, password string) bool
}

// StaticPolicy accepts exactly one username with a bcrypt-hashed password.
type StaticPolicy struct {
	username string
	hash     []byte
}

// NewStaticPolicy returns a policy for username and a bcrypt hash such as
// the output of HashPassword.
func NewStaticPolicy(username, hash string) (*StaticPolicy, error) {
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
	return &StaticPolicy{username: username, hash: []byte(hash)}, nil
}

// DemoPolicy returns a policy accepting DemoUsername and DemoPassword.
func DemoPolicy() (*StaticPolicy, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("hashing demo password: %w", err)
	}
	return &StaticPolicy{username: DemoUsername, hash: hash}, nil
}

// Verify reports whether the credentials match.
func (p *StaticPolicy) Verify(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(p.username)) == 1
	passOK := bcrypt.CompareHashAndPassword(p.hash, []byte(password)) == nil
	return userOK && passOK
}

// HashPassword returns a bcrypt hash of password suitable for the
// auth.password_hash setting.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// Gate performs logins against a CredentialPolicy.
type Gate struct {
	policy CredentialPolicy
}

// NewGate returns a Gate using policy.
func NewGate(policy CredentialPolicy) *Gate {
	return &Gate{policy: policy}
}

// Login reports whether the credentials are accepted.
func (g *Gate) Login(username, password string) bool {
	return g.policy.Verify(username, password)
}
