package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/researchmatch/internal/config"
	"github.com/kingrea/researchmatch/internal/session"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, key := range []string{config.EnvHome, config.EnvEnvironment, config.EnvAPIOrigin, config.EnvDevURL} {
		t.Setenv(key, "")
	}
	root := newRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func storeToken(t *testing.T, home, subject string) {
	t.Helper()
	cfg, err := config.LoadFrom(home)
	require.NoError(t, err)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("cli-test"))
	require.NoError(t, err)
	require.NoError(t, session.New(cfg.SessionPath()).Login(token, "bearer"))
}

func TestSessionWithoutLogin(t *testing.T) {
	out, err := execute(t, "--home", t.TempDir(), "session")
	require.NoError(t, err)
	assert.Contains(t, out, "Environment: development")
	assert.Contains(t, out, "Not logged in")
}

func TestSessionShowsSubject(t *testing.T) {
	home := t.TempDir()
	storeToken(t, home, "ada@vt.edu")

	out, err := execute(t, "--home", home, "session")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as ada@vt.edu")
	assert.Contains(t, out, "Token expires")
}

func TestLogoutRemovesSession(t *testing.T) {
	home := t.TempDir()
	storeToken(t, home, "ada@vt.edu")

	out, err := execute(t, "--home", home, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")

	out, err = execute(t, "--home", home, "session")
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in")
}

func TestEnvSwitch(t *testing.T) {
	home := t.TempDir()
	out, err := execute(t, "--home", home, "env")
	require.NoError(t, err)
	assert.Equal(t, "development\n", out)

	_, err = execute(t, "--home", home, "env", "production")
	require.Error(t, err, "production needs an api origin")

	out, err = execute(t, "--home", home, "env")
	require.NoError(t, err)
	assert.Equal(t, "development\n", out)
}
