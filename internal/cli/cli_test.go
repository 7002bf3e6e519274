package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/aidir/internal/directory"
	"github.com/Makepad-fr/aidir/internal/ui"
)

type result struct {
	code           int
	stdout, stderr string
}

// withEnv isolates HOME and points the fixture driver at the shared snapshot.
func withEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })

	fixture, err := filepath.Abs(filepath.Join("..", "store", "fixture", "testdata", "companies.yaml"))
	require.NoError(t, err)
	t.Setenv("AIDIR_STORE_DRIVER", "fixture")
	t.Setenv("AIDIR_STORE_PATH", fixture)
	t.Setenv("AIDIR_API_KEY", "")
	t.Cleanup(func() { ui.SetTheme("classic") })
	return home
}

func execute(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var out, errb bytes.Buffer
	code := Execute(context.Background(), "test", append([]string{"--no-color"}, args...),
		strings.NewReader(stdin), &out, &errb)
	return result{code: code, stdout: out.String(), stderr: errb.String()}
}

func TestLs_Text(t *testing.T) {
	withEnv(t)
	r := execute(t, "", "ls")
	require.Equal(t, 0, r.code, r.stderr)

	assert.Contains(t, r.stdout, "Showing 3 of 3 companies")
	assert.Contains(t, r.stdout, "Acme Compute")
	assert.Contains(t, r.stdout, "Beta Labs")
	assert.Less(t, strings.Index(r.stdout, "Acme Compute"), strings.Index(r.stdout, "Beta Labs"))
}

func TestLs_Filter(t *testing.T) {
	withEnv(t)
	r := execute(t, "", "ls", "--filter", "GPU")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Showing 1 of 3 companies")
	assert.Contains(t, r.stdout, "Acme Compute")
	assert.NotContains(t, r.stdout, "Beta Labs")
}

func TestLs_NoMatches(t *testing.T) {
	home := withEnv(t)
	path := filepath.Join(home, "one.yaml")
	require.NoError(t, os.WriteFile(path, []byte("companies:\n  - id: a\n    name: Acme\n"), 0o600))
	t.Setenv("AIDIR_STORE_PATH", path)

	r := execute(t, "", "ls", "-f", "web3")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Showing 0 of 1 companies")
	assert.Contains(t, r.stdout, ui.MsgNoMatches)
}

func TestLs_JSON(t *testing.T) {
	withEnv(t)
	r := execute(t, "", "ls", "--filter", "inference", "--output", "json")
	require.Equal(t, 0, r.code, r.stderr)

	var got listOutput
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &got))
	assert.Equal(t, "inference", got.Filter)
	assert.Equal(t, 1, got.Shown)
	assert.Equal(t, 3, got.Total)
	require.Len(t, got.Companies, 1)
	assert.Equal(t, "Beta Labs", got.Companies[0].Name)
}

func TestLs_BadFlags(t *testing.T) {
	withEnv(t)

	r := execute(t, "", "ls", "--filter", "quantum")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, `unknown filter "quantum"`)

	r = execute(t, "", "ls", "--output", "xml")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "unknown output")
}

func TestLs_LoadFailure(t *testing.T) {
	withEnv(t)
	t.Setenv("AIDIR_STORE_DRIVER", "sqlite")
	t.Setenv("AIDIR_STORE_PATH", filepath.Join(t.TempDir(), "missing-dir", "x.db"))

	r := execute(t, "", "ls")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "open sqlite store")
}

func TestShow_Text(t *testing.T) {
	withEnv(t)
	r := execute(t, "", "show", "a")
	require.Equal(t, 0, r.code, r.stderr)

	for _, want := range []string{
		"Acme Compute", "https://acme.example", "Products (from main table)",
		"Pricing Models", "Spot", "Preemptible", "Notable Customers", "Initech",
	} {
		assert.Contains(t, r.stdout, want)
	}
}

func TestShow_ZedOmitsEmptySections(t *testing.T) {
	withEnv(t)
	r := execute(t, "", "show", "x")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Pricing Models")
	assert.Contains(t, r.stdout, "$10")
	assert.NotContains(t, r.stdout, "Notable Customers")
}

func TestShow_JSON(t *testing.T) {
	withEnv(t)
	r := execute(t, "", "show", "a", "-o", "json")
	require.Equal(t, 0, r.code, r.stderr)

	var d directory.Detail
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &d))
	assert.Equal(t, "Acme Compute", d.Company.Name)
	assert.Len(t, d.Customers, 2)
	require.Len(t, d.Products, 1)
	assert.Equal(t, "Acme Cloud", d.Products[0].Name)
}

func TestShow_NotFound(t *testing.T) {
	withEnv(t)
	r := execute(t, "", "show", "ghost")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, directory.MsgNotFound)
}

func TestShow_BlankID(t *testing.T) {
	withEnv(t)
	r := execute(t, "", "show", "  ")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "must not be blank")
}

func TestBrowse_NeedsTerminal(t *testing.T) {
	withEnv(t)
	r := execute(t, "")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "interactive terminal")
}

func TestValidationError(t *testing.T) {
	withEnv(t)
	r := execute(t, "", "--driver", "postgrest", "ls")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "store.url")
}

func TestUnknownTheme(t *testing.T) {
	withEnv(t)
	r := execute(t, "", "--theme", "solarized", "ls")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "unknown theme")
}

func TestAuthFlow(t *testing.T) {
	home := withEnv(t)

	r := execute(t, "", "auth", "status")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "not logged in")

	key, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "anon", "ref": "proj123", "exp": 4102444800,
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	r = execute(t, key+"\n", "auth", "login")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "logged in")
	assert.FileExists(t, filepath.Join(home, ".aidir", "credentials.json"))

	r = execute(t, "", "auth", "status")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "source:  file")
	assert.Contains(t, r.stdout, "role:    anon")
	assert.Contains(t, r.stdout, "project: proj123")
	assert.Contains(t, r.stdout, "expires: ")
	assert.NotContains(t, r.stdout, "(unknown)")
	assert.NotContains(t, r.stdout, key)

	r = execute(t, "", "auth", "logout")
	require.Equal(t, 0, r.code, r.stderr)
	assert.NoFileExists(t, filepath.Join(home, ".aidir", "credentials.json"))
}

func TestAuthLogin_Arg(t *testing.T) {
	withEnv(t)
	r := execute(t, "", "auth", "login", "opaque-key-value")
	require.Equal(t, 0, r.code, r.stderr)

	r = execute(t, "", "auth", "status")
	assert.Contains(t, r.stdout, "opaque key")
}

func TestAuthLogout_EnvKey(t *testing.T) {
	withEnv(t)
	t.Setenv("AIDIR_API_KEY", "from-env")
	r := execute(t, "", "auth", "logout")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "nothing to delete")
}

func TestConfigInitAndPath(t *testing.T) {
	home := withEnv(t)

	r := execute(t, "", "config", "path")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "none (defaults in use")

	r = execute(t, "", "config", "init")
	require.Equal(t, 0, r.code, r.stderr)
	assert.FileExists(t, filepath.Join(home, ".aidir.yaml"))

	r = execute(t, "", "config", "path")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, filepath.Join(home, ".aidir.yaml"), strings.TrimSpace(r.stdout))

	r = execute(t, "", "config", "init")
	assert.Equal(t, 1, r.code, "existing file is not overwritten")
}

func TestConfigInit_ExplicitMissingFile(t *testing.T) {
	home := withEnv(t)
	path := filepath.Join(home, "custom.yaml")
	r := execute(t, "", "--config", path, "config", "init")
	require.Equal(t, 0, r.code, r.stderr)
	assert.FileExists(t, path)
}
