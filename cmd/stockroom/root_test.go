package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mesh-intelligence/stockroom/internal/auth"
	"github.com/mesh-intelligence/stockroom/internal/inventory"
	"github.com/mesh-intelligence/stockroom/internal/sqlite"
	"github.com/mesh-intelligence/stockroom/pkg/stockroom"
)

// run executes the root command with args and returns its stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.Execute()
	return out.String(), err
}

// dirs returns fresh config and data dirs as flags.
func dirs(t *testing.T) (configDir, dataDir string, flags []string) {
	t.Helper()
	root := t.TempDir()
	configDir = filepath.Join(root, "config")
	dataDir = filepath.Join(root, "data")
	return configDir, dataDir, []string{"--config-dir", configDir, "--data-dir", dataDir}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "stockroom "+stockroom.Version+"\n", out)
}

func TestInit(t *testing.T) {
	configDir, dataDir, flags := dirs(t)

	out, err := run(t, "", append([]string{"init"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Stockroom initialized successfully")
	assert.Contains(t, out, filepath.Join(dataDir, sqlite.DatabaseFile))

	assert.FileExists(t, filepath.Join(configDir, configFileExt))
	assert.FileExists(t, filepath.Join(dataDir, sqlite.DatabaseFile))

	// Idempotent.
	_, err = run(t, "", append([]string{"init"}, flags...)...)
	require.NoError(t, err)
}

func TestLoadConfig_DefaultsAndEnv(t *testing.T) {
	configDir := t.TempDir()

	v, err := loadConfig(configDir)
	require.NoError(t, err)
	s := settingsFrom(v)
	assert.Equal(t, defaultListenAddr, s.ListenAddr)
	assert.Equal(t, defaultUsername, s.Username)
	assert.Empty(t, s.PasswordHash)

	data, err := os.ReadFile(filepath.Join(configDir, configFileExt))
	require.NoError(t, err)
	assert.Contains(t, string(data), "listen_addr:")
	assert.Contains(t, string(data), "8501")

	t.Setenv("STOCKROOM_LISTEN_ADDR", "127.0.0.1:9000")
	t.Setenv("STOCKROOM_AUTH_PASSWORD_HASH", "$2a$10$abc")
	t.Setenv("STOCKROOM_SESSION_SECURE_COOKIE", "true")
	v, err = loadConfig(configDir)
	require.NoError(t, err)
	s = settingsFrom(v)
	assert.Equal(t, "127.0.0.1:9000", s.ListenAddr)
	assert.True(t, s.SecureCookie)
	assert.Equal(t, "$2a$10$abc", s.PasswordHash)
}

func TestLoadConfig_FileValues(t *testing.T) {
	configDir := t.TempDir()
	yaml := "data_dir: /srv/stock\nlisten_addr: :7000\nauth:\n  username: clerk\n"
	require.NoError(t, os.WriteFile(filepath.Join(configDir, configFileExt), []byte(yaml), 0o644))

	v, err := loadConfig(configDir)
	require.NoError(t, err)
	assert.Equal(t, "/srv/stock", v.GetString(cfgKeyDataDir))
	s := settingsFrom(v)
	assert.Equal(t, ":7000", s.ListenAddr)
	assert.Equal(t, "clerk", s.Username)
	assert.Equal(t, defaultLogLevel, s.LogLevel)
}

func TestExport(t *testing.T) {
	_, dataDir, flags := dirs(t)

	b, err := attachBackend(dataDir)
	require.NoError(t, err)
	_, err = inventory.NewService(b).AddProduct(context.Background(), "Widget", 9.99, 10)
	require.NoError(t, err)
	require.NoError(t, b.Detach())

	outDir := filepath.Join(t.TempDir(), "out")
	xlsxPath := filepath.Join(t.TempDir(), "inventory.xlsx")
	args := append([]string{"export", "--out", outDir, "--xlsx", xlsxPath}, flags...)
	out, err := run(t, "", args...)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported to")

	data, err := os.ReadFile(filepath.Join(outDir, sqlite.ProductsJSONL))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name":"Widget"`)

	data, err = os.ReadFile(filepath.Join(outDir, sqlite.ActivityJSONL))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Added product Widget, Qty=10, Price=9.99")

	f, err := excelize.OpenFile(xlsxPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestPasswd(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{name: "argument", args: []string{"passwd", "s3cret"}},
		{name: "stdin", stdin: "s3cret\n", args: []string{"passwd"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.stdin, tt.args...)
			require.NoError(t, err)

			p, err := auth.NewStaticPolicy("admin", strings.TrimSpace(out))
			require.NoError(t, err)
			assert.True(t, p.Verify("admin", "s3cret"))
		})
	}

	_, err := run(t, "", "passwd")
	assert.ErrorIs(t, err, errEmptyPassword)
}

func TestCredentialPolicy(t *testing.T) {
	log, hook := logtest.NewNullLogger()

	p, err := credentialPolicy(settings{}, log)
	require.NoError(t, err)
	assert.True(t, p.Verify(auth.DemoUsername, auth.DemoPassword))
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)

	hash, err := auth.HashPassword("pw")
	require.NoError(t, err)
	p, err = credentialPolicy(settings{Username: "clerk", PasswordHash: hash}, log)
	require.NoError(t, err)
	assert.True(t, p.Verify("clerk", "pw"))
	assert.False(t, p.Verify(auth.DemoUsername, auth.DemoPassword))

	_, err = credentialPolicy(settings{Username: "clerk", PasswordHash: "plain"}, log)
	assert.ErrorIs(t, err, auth.ErrInvalidHash)
}

func TestImport(t *testing.T) {
	_, dataDir, flags := dirs(t)
	_, otherDir, otherFlags := dirs(t)

	b, err := attachBackend(dataDir)
	require.NoError(t, err)
	_, err = inventory.NewService(b).AddProduct(context.Background(), "Widget", 9.99, 10)
	require.NoError(t, err)
	require.NoError(t, b.Detach())

	outDir := t.TempDir()
	_, err = run(t, "", append([]string{"export", "--out", outDir}, flags...)...)
	require.NoError(t, err)

	out, err := run(t, "", append([]string{"import", "--in", outDir}, otherFlags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 products and 1 activity entries (0 skipped)")

	b, err = attachBackend(otherDir)
	require.NoError(t, err)
	defer b.Detach()
	products, err := inventory.NewService(b).Inventory(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Widget", products[0].Name)

	// A second import into the now populated store is refused.
	_, err = run(t, "", append([]string{"import", "--in", outDir}, otherFlags...)...)
	assert.ErrorIs(t, err, sqlite.ErrStoreNotEmpty)
}
