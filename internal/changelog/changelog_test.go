package changelog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/zinc-sig/fluttertools/internal/gitutil"
	"github.com/zinc-sig/fluttertools/internal/testutil"
)

func TestResolveLanguage(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "English", want: "English"},
		{input: "chinese", want: "Chinese"},
		{input: "zh", want: "Chinese"},
		{input: "ZH", want: "Chinese"},
		{input: "zho", want: "Chinese"},
		{input: "deu", want: "German"},
		{input: "ja", want: "Japanese"},
		{input: "Elvish-ish", wantErr: true},
		{input: "qqq", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ResolveLanguage(tt.input)
			if tt.wantErr {
				assert.ErrorContains(t, err, "unknown language")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveAPIKey(t *testing.T) {
	keyring.MockInit()
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("ANTHROPIC_AUTH_TOKEN", "")

	_, err := ResolveAPIKey("")
	assert.ErrorIs(t, err, ErrNoAPIKey)

	require.NoError(t, SaveAPIKey("from-keyring"))
	key, err := ResolveAPIKey("")
	require.NoError(t, err)
	assert.Equal(t, "from-keyring", key)

	t.Setenv("ANTHROPIC_AUTH_TOKEN", "from-token")
	key, _ = ResolveAPIKey("")
	assert.Equal(t, "from-token", key)

	t.Setenv("ANTHROPIC_API_KEY", "from-env")
	key, _ = ResolveAPIKey("")
	assert.Equal(t, "from-env", key)

	key, _ = ResolveAPIKey("from-flag")
	assert.Equal(t, "from-flag", key)

	assert.Error(t, SaveAPIKey(""))
}

func TestResolveBaseURL(t *testing.T) {
	t.Setenv("ANTHROPIC_BASE_URL", "")
	assert.Equal(t, DefaultBaseURL, ResolveBaseURL(""))

	t.Setenv("ANTHROPIC_BASE_URL", "https://proxy.example")
	assert.Equal(t, "https://proxy.example", ResolveBaseURL(""))
	assert.Equal(t, "https://flag.example", ResolveBaseURL("https://flag.example"))
}

func TestClientComplete(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    string
		wantErr string
	}{
		{name: "text block", status: 200, body: `{"content": [{"type": "text", "text": "## 1.1.0\n- Dark mode"}]}`, want: "## 1.1.0\n- Dark mode"},
		{name: "api error", status: 400, body: `{"type": "error", "error": {"message": "invalid model"}}`, wantErr: "API error: invalid model"},
		{name: "empty text", status: 200, body: `{"content": [{"type": "text", "text": ""}]}`, wantErr: "empty response"},
		{name: "no content", status: 200, body: `{"content": []}`, wantErr: "empty response"},
		{name: "not json", status: 502, body: `bad gateway`, wantErr: "failed to parse API response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v1/messages", r.URL.Path)
				assert.Equal(t, "secret", r.Header.Get("x-api-key"))
				assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

				var req apiRequest
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "test-model", req.Model)
				assert.Equal(t, 1024, req.MaxTokens)
				assert.Equal(t, "user", req.Messages[0].Role)

				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL+"/", "secret", "test-model")
			got, err := client.Complete(context.Background(), "prompt")
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type fakeCompleter struct {
	text   string
	err    error
	prompt string
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.text, f.err
}

const repoDir = "."

func newRepo(t *testing.T, tags, history string) *gitutil.Repo {
	t.Helper()
	commander := new(testutil.MockCommander)
	commander.On("Output", repoDir, "git", []string{"rev-parse", "--is-inside-work-tree"}).Return([]byte("true\n"), nil)
	commander.On("Output", repoDir, "git", []string{"tag", "--points-at", "HEAD"}).Return([]byte("v1.1.0\n"), nil)
	commander.On("Output", repoDir, "git", []string{"tag", "--list"}).Return([]byte(tags), nil)
	commander.On("Output", repoDir, "git", []string{"rev-parse", "--verify", "--quiet", "refs/tags/v1.0.0^{commit}"}).Return([]byte("1111111111\n"), nil)
	commander.On("Output", repoDir, "git", []string{"log", "--first-parent", "--format=%H%x09%s", "HEAD"}).Return([]byte(history), nil)

	repo, err := gitutil.Open(context.Background(), commander, repoDir)
	require.NoError(t, err)
	return repo
}

const history = "2222222222\tAdd dark mode\n1111111111\tRelease 1.0.0\n0000000000\tInitial commit\n"

func TestGenerate_UsesModel(t *testing.T) {
	ai := &fakeCompleter{text: "## Features\n- Dark mode"}
	logger, _ := test.NewNullLogger()
	sut := NewGenerator(newRepo(t, "v1.0.0\nv1.1.0\n", history), ai, logger)

	text, err := sut.Generate(context.Background(), Options{Language: "German", AppName: "WebFly"})

	require.NoError(t, err)
	assert.Equal(t, "## Features\n- Dark mode", text)
	assert.Contains(t, ai.prompt, "release v1.1.0 (since v1.0.0) of WebFly")
	assert.Contains(t, ai.prompt, "2222222 Add dark mode")
	assert.NotContains(t, ai.prompt, "Release 1.0.0")
	assert.Contains(t, ai.prompt, "Write in German")
}

func TestGenerate_FallbackOnModelError(t *testing.T) {
	ai := &fakeCompleter{err: errors.New("API error: overloaded")}
	logger, hook := test.NewNullLogger()
	sut := NewGenerator(newRepo(t, "v1.0.0\nv1.1.0\n", history), ai, logger)

	text, err := sut.Generate(context.Background(), Options{Language: "English"})

	require.NoError(t, err)
	assert.Equal(t, "## Changes since v1.0.0\n\n- 2222222 Add dark mode", text)
	require.NotNil(t, hook.LastEntry())
	assert.Contains(t, hook.LastEntry().Message, "Falling back to git log")
}

func TestCollectRelease_InitialRelease(t *testing.T) {
	logger, _ := test.NewNullLogger()
	sut := NewGenerator(newRepo(t, "v1.1.0\n", history), &fakeCompleter{}, logger)

	rel, err := sut.CollectRelease(context.Background(), Options{MaxCommits: 2})

	require.NoError(t, err)
	assert.Equal(t, "initial", rel.PrevTagLabel())
	assert.Equal(t, "2222222 Add dark mode\n1111111 Release 1.0.0", rel.Log)
}

func TestCollectRelease_NoCommits(t *testing.T) {
	logger, _ := test.NewNullLogger()
	sut := NewGenerator(newRepo(t, "v1.0.0\nv1.1.0\n", "1111111111\tRelease 1.0.0\n"), &fakeCompleter{}, logger)

	_, err := sut.CollectRelease(context.Background(), Options{})

	assert.EqualError(t, err, "no commits found for changelog")
}

func TestBuildPrompt_Custom(t *testing.T) {
	rel := &Release{Tag: "v2.0.0", Log: "abc1234 Fix"}

	got := BuildPrompt("{tag} vs {prev_tag} in {lang}:\n{git_log}", rel, "French", "")

	assert.Equal(t, "v2.0.0 vs initial in French:\nabc1234 Fix", got)
}
