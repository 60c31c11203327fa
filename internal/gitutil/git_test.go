package gitutil

import (
	"context"
	"errors"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zinc-sig/fluttertools/internal/testutil"
)

const repoDir = "/work/app"

func openRepo(t *testing.T) (*Repo, *testutil.MockCommander) {
	t.Helper()
	commander := new(testutil.MockCommander)
	commander.On("Output", repoDir, "git", []string{"rev-parse", "--is-inside-work-tree"}).Return([]byte("true\n"), nil)
	repo, err := Open(context.Background(), commander, repoDir)
	require.NoError(t, err)
	return repo, commander
}

func TestOpen_NotARepository(t *testing.T) {
	commander := new(testutil.MockCommander)
	commander.On("Output", repoDir, "git", mock.Anything).Return(nil, errors.New("fatal: not a git repository"))

	_, err := Open(context.Background(), commander, repoDir)

	assert.ErrorContains(t, err, "not a git repository")
}

func TestHead(t *testing.T) {
	repo, commander := openRepo(t)
	commander.On("Output", repoDir, "git", []string{"rev-parse", "--verify", "--quiet", "HEAD^{commit}"}).
		Return([]byte("0123456789abcdef\n"), nil).Once()

	head, err := repo.Head(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0123456789abcdef", head)

	commander.On("Output", repoDir, "git", []string{"rev-parse", "--verify", "--quiet", "HEAD^{commit}"}).
		Return(nil, errors.New("exit status 1")).Once()

	_, err = repo.Head(context.Background())
	assert.ErrorIs(t, err, ErrNoCommits)
}

func TestTagAtHead(t *testing.T) {
	repo, commander := openRepo(t)
	commander.On("Output", repoDir, "git", []string{"tag", "--points-at", "HEAD"}).Return([]byte("v1.2.0\nrelease-x\n"), nil).Once()

	tag, err := repo.TagAtHead(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "release-x", tag)

	commander.On("Output", repoDir, "git", []string{"tag", "--points-at", "HEAD"}).Return([]byte(""), nil).Once()
	_, err = repo.TagAtHead(context.Background())
	assert.ErrorContains(t, err, "no tag found on HEAD")
}

func TestVersionTagsAndPrevious(t *testing.T) {
	repo, commander := openRepo(t)
	commander.On("Output", repoDir, "git", []string{"tag", "--list"}).
		Return([]byte("v1.2.0\n1.10.0\nnightly\nv1.3.0-beta.1\nv1.2\n"), nil)

	tags, err := repo.VersionTags(context.Background())
	require.NoError(t, err)

	var names []string
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	assert.Equal(t, []string{"1.10.0", "v1.3.0-beta.1", "v1.2.0"}, names)

	prev, err := repo.PreviousTag(context.Background(), "1.10.0")
	require.NoError(t, err)
	assert.Equal(t, "v1.3.0-beta.1", prev)
}

func TestPreviousTag_None(t *testing.T) {
	repo, commander := openRepo(t)
	commander.On("Output", repoDir, "git", []string{"tag", "--list"}).Return([]byte("v1.0.0\n"), nil)

	prev, err := repo.PreviousTag(context.Background(), "v1.0.0")

	require.NoError(t, err)
	assert.Empty(t, prev)
}

const history = "cccccccccccccccccccc\tAdd dark mode\n" +
	"bbbbbbbbbbbbbbbbbbbb\tMerge branch 'feature'\n" +
	"aaaaaaaaaaaaaaaaaaaa\tFix crash on start\n" +
	"9999999999999999999999\tRelease 1.0.0\n" +
	"8888888888888888888888\tInitial commit\n"

var logArgs = []string{"log", "--first-parent", "--format=%H%x09%s", "HEAD"}

func TestFirstParentLog(t *testing.T) {
	tests := []struct {
		name    string
		stopTag string
		max     int
		want    []string
	}{
		{name: "stops at previous tag", stopTag: "v1.0.0", max: 50, want: []string{"ccccccc Add dark mode", "aaaaaaa Fix crash on start"}},
		{name: "no previous tag walks to root", max: 50, want: []string{"ccccccc Add dark mode", "aaaaaaa Fix crash on start", "9999999 Release 1.0.0", "8888888 Initial commit"}},
		{name: "merges do not count towards max", max: 2, want: []string{"ccccccc Add dark mode", "aaaaaaa Fix crash on start"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, commander := openRepo(t)
			if tt.stopTag != "" {
				commander.On("Output", repoDir, "git", []string{"rev-parse", "--verify", "--quiet", "refs/tags/" + tt.stopTag + "^{commit}"}).
					Return([]byte("9999999999999999999999\n"), nil)
			}
			commander.On("Output", repoDir, "git", logArgs).Return([]byte(history), nil)

			commits, err := repo.FirstParentLog(context.Background(), tt.stopTag, tt.max)
			require.NoError(t, err)

			var got []string
			for _, c := range commits {
				got = append(got, c.Short()+" "+c.Subject)
			}
			assert.Equal(t, tt.want, got)
			commander.AssertExpectations(t)
		})
	}
}

func TestFirstParentLog_MissingTag(t *testing.T) {
	repo, commander := openRepo(t)
	commander.On("Output", repoDir, "git", mock.MatchedBy(func(args []string) bool {
		return len(args) > 0 && args[0] == "rev-parse"
	})).Return(nil, errors.New("exit status 1"))

	_, err := repo.FirstParentLog(context.Background(), "v9.9.9", 10)

	assert.EqualError(t, err, "tag 'v9.9.9' not found")
}

func TestVersionTagNames(t *testing.T) {
	plain, prefixed := VersionTagNames(semver.MustParse("1.2.3-rc.1+42"))
	assert.Equal(t, "1.2.3-rc.1", plain)
	assert.Equal(t, "v1.2.3-rc.1", prefixed)
}

func TestEnsureVersionTag(t *testing.T) {
	v := semver.MustParse("1.4.0+7")
	ctx := context.Background()

	t.Run("existing v tag", func(t *testing.T) {
		repo, commander := openRepo(t)
		commander.On("Output", repoDir, "git", []string{"tag", "--list", "1.4.0"}).Return([]byte(""), nil)
		commander.On("Output", repoDir, "git", []string{"tag", "--list", "v1.4.0"}).Return([]byte("v1.4.0\n"), nil)

		outcome, err := repo.EnsureVersionTag(ctx, v, false)

		require.NoError(t, err)
		assert.True(t, outcome.Existed)
		assert.Empty(t, outcome.Created)
	})

	t.Run("creates preferred form at HEAD", func(t *testing.T) {
		repo, commander := openRepo(t)
		commander.On("Output", repoDir, "git", []string{"tag", "--list", "1.4.0"}).Return([]byte(""), nil)
		commander.On("Output", repoDir, "git", []string{"tag", "--list", "v1.4.0"}).Return([]byte(""), nil)
		commander.On("Output", repoDir, "git", []string{"rev-parse", "--verify", "--quiet", "HEAD^{commit}"}).Return([]byte("abc123\n"), nil)
		commander.On("Output", repoDir, "git", []string{"tag", "v1.4.0", "abc123"}).Return([]byte(""), nil)

		outcome, err := repo.EnsureVersionTag(ctx, v, true)

		require.NoError(t, err)
		assert.Equal(t, "v1.4.0", outcome.Created)
		commander.AssertExpectations(t)
	})

	t.Run("unborn HEAD", func(t *testing.T) {
		repo, commander := openRepo(t)
		commander.On("Output", repoDir, "git", []string{"tag", "--list", "1.4.0"}).Return([]byte(""), nil)
		commander.On("Output", repoDir, "git", []string{"tag", "--list", "v1.4.0"}).Return([]byte(""), nil)
		commander.On("Output", repoDir, "git", []string{"rev-parse", "--verify", "--quiet", "HEAD^{commit}"}).Return(nil, errors.New("exit status 1"))

		outcome, err := repo.EnsureVersionTag(ctx, v, true)

		require.NoError(t, err)
		assert.True(t, outcome.NoCommits)
		assert.Empty(t, outcome.Created)
	})
}
