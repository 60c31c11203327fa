package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/zinc-sig/fluttertools/cmd/helpers"
	"github.com/zinc-sig/fluttertools/internal/changelog"
	"github.com/zinc-sig/fluttertools/internal/runner"
	"github.com/zinc-sig/fluttertools/internal/testutil"
)

// executeWith runs the command tree against a mocked process port.
func executeWith(t *testing.T, commander runner.Commander, args ...string) (string, error) {
	t.Helper()
	old := newCommander
	newCommander = func() runner.Commander { return commander }
	t.Cleanup(func() { newCommander = old })

	rootCmd := NewRootCmd()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSelectDeviceCmd(t *testing.T) {
	commander := new(testutil.MockCommander)
	commander.On("Output", "", "flutter", []string{"devices", "--machine"}).
		Return([]byte(`[{"id":"emulator-5554","name":"Pixel"},{"id":"macos","name":"macOS"}]`), nil)

	out, err := executeWith(t, commander, "select-device", "1")
	require.NoError(t, err)
	assert.Equal(t, "macos", out)

	out, err = executeWith(t, commander, "select-device")
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = executeWith(t, commander, "select-device", "chrome")
	require.NoError(t, err)
	assert.Equal(t, "chrome", out)

	_, err = executeWith(t, commander, "select-device", "5")
	assert.ErrorContains(t, err, "out of range")
	assert.Equal(t, 1, helpers.ExitCode(err))

	_, err = executeWith(t, commander, "select-device", "1", "2")
	assert.Equal(t, 2, helpers.ExitCode(err))
}

func writePubspec(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pubspec.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestBumpVersionCmd_OutsideGit(t *testing.T) {
	path := writePubspec(t, "name: wallet\nversion: 1.2.3+7\n\ndependencies:\n  flutter:\n    sdk: flutter\n")
	commander := new(testutil.MockCommander)
	commander.On("Output", mock.Anything, "git", []string{"rev-parse", "--is-inside-work-tree"}).
		Return(nil, errors.New("fatal: not a git repository"))

	out, err := executeWith(t, commander, "bump-version", "patch", "--pubspec", path)

	require.NoError(t, err)
	assert.Equal(t, "1.2.4+1\n", out)
	data, _ := os.ReadFile(path)
	assert.Equal(t, "name: wallet\nversion: 1.2.4+1\n\ndependencies:\n  flutter:\n    sdk: flutter\n", string(data))
}

func TestBumpVersionCmd_TagsCurrentVersion(t *testing.T) {
	path := writePubspec(t, "version: 2.0.0+3\n")
	dir := filepath.Dir(path)
	commander := new(testutil.MockCommander)
	commander.On("Output", dir, "git", []string{"rev-parse", "--is-inside-work-tree"}).Return([]byte("true\n"), nil)
	commander.On("Output", dir, "git", []string{"tag", "--list", "2.0.0"}).Return([]byte(""), nil)
	commander.On("Output", dir, "git", []string{"tag", "--list", "v2.0.0"}).Return([]byte(""), nil)
	commander.On("Output", dir, "git", []string{"rev-parse", "--verify", "--quiet", "HEAD^{commit}"}).Return([]byte("abc123\n"), nil)
	commander.On("Output", dir, "git", []string{"tag", "2.0.0", "abc123"}).Return([]byte(""), nil)

	out, err := executeWith(t, commander, "bump-version", "build", "--pubspec", path, "--tag-prefix", "none")

	require.NoError(t, err)
	assert.Equal(t, "2.0.0+4\n", out)
	commander.AssertExpectations(t)
}

func TestBumpVersionCmd_Errors(t *testing.T) {
	commander := new(testutil.MockCommander)
	commander.On("Output", mock.Anything, "git", mock.Anything).Return(nil, errors.New("no git"))

	_, err := executeWith(t, commander, "bump-version", "huge", "--pubspec", writePubspec(t, "version: 1.0.0\n"))
	assert.Equal(t, 2, helpers.ExitCode(err))

	_, err = executeWith(t, commander, "bump-version", "patch", "--tag-prefix", "x", "--pubspec", writePubspec(t, "version: 1.0.0\n"))
	assert.Equal(t, 2, helpers.ExitCode(err))

	_, err = executeWith(t, commander, "bump-version", "patch", "--pubspec", writePubspec(t, "version: one\n"))
	assert.ErrorContains(t, err, "invalid semver format")
	assert.Equal(t, 1, helpers.ExitCode(err))

	path := writePubspec(t, "name: wallet\n")
	out, err := executeWith(t, commander, "bump-version", "minor", "--pubspec", path)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestGenKeystoreCmd_SkipsExisting(t *testing.T) {
	dir := t.TempDir()
	props := filepath.Join(dir, "key.properties")
	output := filepath.Join(dir, "keystore.jks")
	require.NoError(t, os.WriteFile(props, []byte("storePassword=s\nkeyPassword=k\n"), 0644))
	require.NoError(t, os.WriteFile(output, []byte("existing"), 0644))

	commander := new(testutil.MockCommander)
	commander.On("LookPath", "keytool").Return("/usr/bin/keytool", nil)

	_, err := executeWith(t, commander, "gen-keystore", "--props", props, "--output", output, "--alias", "upload")

	require.NoError(t, err)
	commander.AssertNumberOfCalls(t, "Run", 0)
	data, _ := os.ReadFile(output)
	assert.Equal(t, "existing", string(data))
}

func TestGenChangelogCmd_SaveKey(t *testing.T) {
	keyring.MockInit()

	_, err := executeWith(t, new(testutil.MockCommander), "gen-changelog", "--save-key", "--api-key", "sk-test")
	require.NoError(t, err)

	stored, err := keyring.Get(changelog.KeyringService, changelog.KeyringUser)
	require.NoError(t, err)
	assert.Equal(t, "sk-test", stored)

	_, err = executeWith(t, new(testutil.MockCommander), "gen-changelog", "--save-key")
	assert.ErrorContains(t, err, "no API key to save")
}

func TestGenChangelogCmd_UnknownLanguage(t *testing.T) {
	_, err := executeWith(t, new(testutil.MockCommander), "gen-changelog", "--lang", "klingonese", "--api-key", "k")

	assert.ErrorContains(t, err, "unknown language")
}

func TestWebBuildCmd_RequiredFlags(t *testing.T) {
	for _, args := range [][]string{
		{"web-build", "build"},
		{"web-build", "copy", "--src", "web"},
		{"web-build", "refresh", "--dst", "assets/web"},
	} {
		_, err := executeWith(t, new(testutil.MockCommander), args...)
		assert.Equal(t, 2, helpers.ExitCode(err), "args %v", args)
	}
}

func TestWebBuildCmd_Copy(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "assets", "web")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "dist", "js"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "dist", "index.html"), []byte("<html/>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "dist", "js", "app.js"), []byte("go()"), 0644))

	_, err := executeWith(t, new(testutil.MockCommander), "web-build", "copy", "-s", src, "-d", dst, "-o", "dist")

	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dst, "index.html"))
	assert.FileExists(t, filepath.Join(dst, "js", "app.js"))
}

func TestGenPlatformsCmd(t *testing.T) {
	project := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(project, "app.yaml"),
		[]byte("project_name: wallet\nandroid:\n  template_vars:\n    application_id: io.wallet\n"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(project, "platforms", "android", "app"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(project, "platforms", "android", "app", "build.gradle.kts"),
		[]byte(`applicationId = "{{application_id}}"`), 0644))

	commander := new(testutil.MockCommander)
	commander.On("LookPath", "flutter").Return("/sdk/flutter", nil)
	commander.On("Run", "", "/sdk/flutter", []string{"create", "--project-name", "wallet", project}).Return(nil)

	_, err := executeWith(t, commander, "gen-platforms", "--project", project, "--config", "app.yaml")

	require.NoError(t, err)
	commander.AssertExpectations(t)
	data, err := os.ReadFile(filepath.Join(project, "android", "app", "build.gradle.kts"))
	require.NoError(t, err)
	assert.Equal(t, `applicationId = "io.wallet"`, string(data))
}
