package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/shroud/config"
	"go.uber.org/zap"
)

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configPath = ""
	maskKind, maskFirst, maskLast, maskChar = "generic", 0, 0, ""

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// useConfig installs cfg and a no-op logger for direct run* calls.
func useConfig(t *testing.T, c *config.Config) {
	t.Helper()
	cfg, logger = c, zap.NewNop()
	authzAllowed, authzRoles, authzUser, authzAnon = nil, nil, "cli", false
}

func TestMask(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"generic", []string{"mask", "secret"}, "******\n"},
		{"email", []string{"mask", "--kind", "email", "alice@example.com"}, "a***e@example.com\n"},
		{"reveal ends", []string{"mask", "--first", "2", "--last", "1", "--char", "#", "abcdef"}, "ab###f\n"},
		{"several", []string{"mask", "--kind", "credit_card", "4111111111111234", "1234"}, "************1234\n****\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := execute(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMask_Errors(t *testing.T) {
	_, err := execute(t, "mask", "--kind", "ssn", "123")
	assert.Error(t, err)

	_, err = execute(t, "mask", "--char", "##", "123")
	assert.Error(t, err)

	_, err = execute(t, "mask", "--first", "-1", "123")
	assert.Error(t, err)
}

func TestMask_ConfigDefaultChar(t *testing.T) {
	t.Setenv("SHROUD_MASK_DEFAULT_CHAR", "x")
	got, err := execute(t, "mask", "abc")
	require.NoError(t, err)
	assert.Equal(t, "xxx\n", got)
}

func TestTag(t *testing.T) {
	got, err := execute(t, "tag", "email,roles=B|A")
	require.NoError(t, err)
	assert.Equal(t, "\"email,roles=B|A\": email,roles=A|B\n", got)

	_, err = execute(t, "tag", "email", "bogus")
	assert.Error(t, err)
}

func TestKinds(t *testing.T) {
	got, err := execute(t, "kinds")
	require.NoError(t, err)
	assert.Contains(t, got, "generic\n")
	assert.Contains(t, got, "credit_card\n")
}

func TestAuthorize(t *testing.T) {
	c, err := config.Load("")
	require.NoError(t, err)

	tests := []struct {
		name    string
		allowed []string
		roles   []string
		anon    bool
		want    string
	}{
		{"matching role", []string{"ROLE_ADMIN"}, []string{"ROLE_ADMIN"}, false, "reveal\n"},
		{"no matching role", []string{"ROLE_ADMIN"}, []string{"ROLE_VIEWER"}, false, "mask\n"},
		{"empty allow-list", nil, []string{"ROLE_ADMIN"}, false, "mask\n"},
		{"anonymous", []string{"ROLE_ADMIN"}, []string{"ROLE_ADMIN"}, true, "mask\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useConfig(t, c)
			authzAllowed, authzRoles, authzAnon = tt.allowed, tt.roles, tt.anon

			var out bytes.Buffer
			authorizeCmd.SetOut(&out)
			require.NoError(t, runAuthorize(authorizeCmd, nil))
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestAuthorize_RoleGraph(t *testing.T) {
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "model.conf")
	policyPath := filepath.Join(dir, "policy.csv")
	require.NoError(t, os.WriteFile(modelPath, []byte(`[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`), 0o600))
	require.NoError(t, os.WriteFile(policyPath, []byte("g, ROLE_ADMIN, ROLE_SUPPORT\ng, alice, ROLE_ADMIN\n"), 0o600))

	c, err := config.Load("")
	require.NoError(t, err)
	c.Authz = config.AuthzConfig{ModelPath: modelPath, PolicyPath: policyPath}

	useConfig(t, c)
	authzAllowed, authzUser = []string{"ROLE_SUPPORT"}, "alice"

	var out bytes.Buffer
	authorizeCmd.SetOut(&out)
	require.NoError(t, runAuthorize(authorizeCmd, nil))
	assert.Equal(t, "reveal\n", out.String())
}
