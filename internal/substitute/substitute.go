package substitute

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/pluginkit/plugclone/internal/attribute"
	"github.com/pluginkit/plugclone/internal/logging"
	"github.com/pluginkit/plugclone/internal/platform"
	"github.com/pluginkit/plugclone/internal/project"
	"go.uber.org/zap"
)

// Job is one attribute assignment.
type Job struct {
	Attribute attribute.Attribute
	Value     string
}

// FileChange records a rewritten file and how many tokens it held.
type FileChange struct {
	Path         string // relative to the project root
	Replacements int
}

// Result holds the outcome of applying one Job to a project.
type Result struct {
	Job       Job
	Replaced  []FileChange
	Unchanged []string
	Missing   []string
}

// Total returns the number of replacements made across all files.
func (r *Result) Total() int {
	n := 0
	for _, c := range r.Replaced {
		n += c.Replacements
	}
	return n
}

// Apply replaces the placeholders of attr with value in every target file of
// p. For attributes with a lowercase token, that token receives the lowercased
// value. Files that do not exist are listed in Result.Missing; files without
// any token are left untouched.
func Apply(p project.Project, attr attribute.Attribute, value string) (*Result, error) {
	ph, err := attribute.Resolve(attr)
	if err != nil {
		return nil, err
	}

	job := Job{Attribute: attr, Value: value}
	rep := newReplacer(ph, value)
	result := &Result{Job: job}
	log := logging.L().With(zap.String("attribute", string(attr)), zap.String("root", p.Root))

	for _, rel := range p.TargetFiles {
		path := p.Path(rel)

		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				log.Debug("target file missing", zap.String("file", rel))
				result.Missing = append(result.Missing, rel)
				continue
			}
			return result, fmt.Errorf("reading %s: %w", path, err)
		}

		content := string(data)
		out := rep.replace(content)
		if out == content {
			log.Debug("no placeholder", zap.String("file", rel), zap.Int("bytes", len(data)))
			result.Unchanged = append(result.Unchanged, rel)
			continue
		}
		count := rep.count(content)

		if err := platform.ReplaceFile(path, []byte(out)); err != nil {
			return result, err
		}
		log.Debug("replaced", zap.String("file", rel), zap.Int("count", count))
		result.Replaced = append(result.Replaced, FileChange{Path: rel, Replacements: count})
	}

	return result, nil
}

// ApplyAll applies jobs in order and stops at the first error. The results of
// the jobs completed so far are returned along with the error.
func ApplyAll(p project.Project, jobs []Job) ([]*Result, error) {
	results := make([]*Result, 0, len(jobs))
	for _, job := range jobs {
		r, err := Apply(p, job.Attribute, job.Value)
		if err != nil {
			return results, fmt.Errorf("applying %s: %w", job.Attribute, err)
		}
		results = append(results, r)
	}
	return results, nil
}

// replacer swaps both tokens of a placeholder in a single pass.
type replacer struct {
	tokens []string
	r      *strings.Replacer
}

func newReplacer(ph attribute.Placeholder, value string) replacer {
	pairs := []string{ph.Token, value}
	tokens := []string{ph.Token}
	if ph.Lower != "" {
		pairs = append(pairs, ph.Lower, attribute.Lower(value))
		tokens = append(tokens, ph.Lower)
	}
	return replacer{tokens: tokens, r: strings.NewReplacer(pairs...)}
}

// count reports how many token occurrences s holds.
func (rp replacer) count(s string) int {
	n := 0
	for _, t := range rp.tokens {
		n += strings.Count(s, t)
	}
	return n
}

func (rp replacer) replace(s string) string {
	return rp.r.Replace(s)
}
