// Package changelog drafts release notes from git history with a language
// model, falling back to a plain commit list.
package changelog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/zinc-sig/fluttertools/internal/gitutil"
)

// Completer turns a prompt into text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Options struct {
	Tag        string // current release, the tag at HEAD when empty
	MaxCommits int
	Prompt     string // custom template with {tag}, {prev_tag}, {git_log}, {lang}
	Language   string // English language name
	AppName    string
}

// Release is the history a changelog is written from.
type Release struct {
	Tag     string
	PrevTag string // empty for the first release
	Log     string // one "<short> <subject>" line per commit
}

// PrevTagLabel is PrevTag, or "initial" for a first release.
func (r *Release) PrevTagLabel() string {
	if r.PrevTag == "" {
		return "initial"
	}
	return r.PrevTag
}

type Generator struct {
	repo *gitutil.Repo
	ai   Completer
	log  logrus.FieldLogger
}

func NewGenerator(repo *gitutil.Repo, ai Completer, log logrus.FieldLogger) *Generator {
	return &Generator{repo: repo, ai: ai, log: log}
}

// CollectRelease finds the current and previous tags and the commits between them.
func (g *Generator) CollectRelease(ctx context.Context, opts Options) (*Release, error) {
	tag := opts.Tag
	if tag == "" {
		var err error
		if tag, err = g.repo.TagAtHead(ctx); err != nil {
			return nil, err
		}
	}

	prev, err := g.repo.PreviousTag(ctx, tag)
	if err != nil {
		return nil, err
	}

	max := opts.MaxCommits
	if max <= 0 {
		max = 50
	}
	commits, err := g.repo.FirstParentLog(ctx, prev, max)
	if err != nil {
		return nil, err
	}
	if len(commits) == 0 {
		return nil, errors.New("no commits found for changelog")
	}

	lines := make([]string, len(commits))
	for i, c := range commits {
		lines[i] = c.Short() + " " + c.Subject
	}
	return &Release{Tag: tag, PrevTag: prev, Log: strings.Join(lines, "\n")}, nil
}

// Generate returns the changelog text. Model failures fall back to a plain
// list of commits and are only logged.
func (g *Generator) Generate(ctx context.Context, opts Options) (string, error) {
	rel, err := g.CollectRelease(ctx, opts)
	if err != nil {
		return "", err
	}

	g.log.Infof("Generating changelog for %s (since %s)...", rel.Tag, rel.PrevTagLabel())

	prompt := BuildPrompt(opts.Prompt, rel, opts.Language, opts.AppName)
	text, err := g.ai.Complete(ctx, prompt)
	if err != nil {
		g.log.Warnf("AI changelog failed: %v. Falling back to git log.", err)
		return Fallback(rel), nil
	}
	return text, nil
}

// BuildPrompt fills a custom template, or the built-in one when custom is empty.
func BuildPrompt(custom string, rel *Release, lang, appName string) string {
	if custom != "" {
		return strings.NewReplacer(
			"{tag}", rel.Tag,
			"{prev_tag}", rel.PrevTagLabel(),
			"{git_log}", rel.Log,
			"{lang}", lang,
		).Replace(custom)
	}

	subject := "this app"
	if appName != "" {
		subject = appName
	}
	return fmt.Sprintf("Write a concise changelog for release %s (since %s) of %s.\n\n"+
		"Git log:\n%s\n\n"+
		"Rules:\n"+
		"- Group by: Features, Fixes, Improvements, Other\n"+
		"- Skip empty groups\n"+
		"- Use markdown with bullet points\n"+
		"- Keep it short and user-facing\n"+
		"- Write in %s\n"+
		"- Do NOT wrap in code blocks",
		rel.Tag, rel.PrevTagLabel(), subject, rel.Log, lang)
}

// Fallback renders the commit list as a markdown changelog.
func Fallback(rel *Release) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Changes since %s\n\n", rel.PrevTagLabel())
	for i, line := range strings.Split(rel.Log, "\n") {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- " + line)
	}
	return b.String()
}
