// Shared helpers for stockroom commands.
package main

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/stockroom/internal/auth"
	"github.com/mesh-intelligence/stockroom/internal/sqlite"
	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// attachBackend creates a SQLite backend on dataDir and attaches it. The
// caller must defer backend.Detach().
func attachBackend(dataDir string) (*sqlite.Backend, error) {
	cfg := types.Config{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
	}

	backend := sqlite.NewBackend()
	if err := backend.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach backend: %w", err)
	}
	return backend, nil
}

// credentialPolicy builds the login policy from settings. Without a
// configured hash it falls back to the demo credentials.
func credentialPolicy(s settings, log logrus.FieldLogger) (auth.CredentialPolicy, error) {
	if s.PasswordHash == "" {
		log.WithField("username", auth.DemoUsername).
			Warn("auth.password_hash is not set; accepting the demo login")
		return auth.DemoPolicy()
	}
	return auth.NewStaticPolicy(s.Username, s.PasswordHash)
}
