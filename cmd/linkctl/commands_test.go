package main

import (
	"bytes"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/alexraskin/linkflow/internal/database"
	"github.com/alexraskin/linkflow/internal/tracking"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()
	err := rootCmd.Execute()
	return out.String(), err
}

func TestThemesCommand(t *testing.T) {
	out, err := execute(t, "themes")
	require.NoError(t, err)

	ids := strings.Fields(out)
	assert.Contains(t, ids, "light")
	assert.Contains(t, ids, "dark")
	assert.Equal(t, "custom", ids[len(ids)-1])
}

func TestHashPasswordCommand(t *testing.T) {
	out, err := execute(t, "hash-password", "correct-horse")
	require.NoError(t, err)

	hash := strings.TrimSpace(out)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("correct-horse")))
}

func TestHashPasswordCommand_MissingArg(t *testing.T) {
	_, err := execute(t, "hash-password")
	assert.Error(t, err)
}

func TestCreateProfileCommand_Validation(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "linkflow.db")

	_, err := execute(t, "create-profile", "--database", dbPath, "--username", "", "--password", "")
	assert.ErrorContains(t, err, "required")

	_, err = execute(t, "create-profile", "--database", dbPath, "--username", "jane", "--password", "short")
	assert.ErrorContains(t, err, "at least 8")

	_, err = execute(t, "create-profile", "--database", dbPath, "--username", "jane", "--password", "long-enough", "--theme", "neon")
	assert.ErrorContains(t, err, "unknown theme")

	_, err = execute(t, "create-profile", "--database", dbPath, "--username", "admin", "--password", "long-enough", "--theme", "light")
	assert.ErrorIs(t, err, database.ErrInvalidUsername)
}

func TestCreateProfileThenRender(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "linkflow.db")

	out, err := execute(t, "create-profile",
		"--database", dbPath,
		"--username", "jane",
		"--password", "long-enough",
		"--display-name", "Jane Doe",
		"--theme", "dark",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Created profile jane")

	t.Setenv("TRACK_SECRET", "render-test-secret")
	t.Setenv("BASE_URL", "https://links.example/")
	out, err = execute(t, "render", "jane", "--database", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, "Jane Doe")
	assert.Contains(t, out, "theme-dark")
	assert.Contains(t, out, `"url":"https://links.example/api/track"`)
	assert.Contains(t, out, `"targetOrigin":"https://links.example"`)
	assert.NotContains(t, out, "warning:")

	token := regexp.MustCompile(`"token":"([^"]+)"`).FindStringSubmatch(out)
	require.Len(t, token, 2, "frame config should carry a visit token")

	userID, err := tracking.NewSigner("render-test-secret", 0).Verify(token[1])
	require.NoError(t, err)
	assert.NotEmpty(t, userID)
}

func TestRenderCommand_WithoutTrackSecret(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "linkflow.db")
	_, err := execute(t, "create-profile", "--database", dbPath, "--username", "sam", "--password", "long-enough", "--theme", "light")
	require.NoError(t, err)

	t.Setenv("TRACK_SECRET", "")
	out, err := execute(t, "render", "sam", "--database", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "warning: TRACK_SECRET is not set")
	assert.NotContains(t, out, `"token":`)
}

func TestRenderCommand_UnknownProfile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "linkflow.db")

	_, err := execute(t, "render", "nobody", "--database", dbPath)
	assert.ErrorContains(t, err, "nobody")
}
