// Package extract discovers GROQ query strings in a JavaScript or
// TypeScript source tree. It recognizes the two conventional binding
// forms, groq tagged templates and defineQuery calls, bound to a named
// variable.
package extract

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"github.com/gobwas/glob"
	"golang.org/x/sync/errgroup"

	"github.com/sanity-io/codegen/internal/generator"
)

var (
	taggedTemplateRe = regexp.MustCompile("(?s)(?:export\\s+)?(?:const|let|var)\\s+([A-Za-z_$][A-Za-z0-9_$]*)\\s*=\\s*groq\\s*`([^`]*)`")
	defineQueryRe    = regexp.MustCompile("(?s)(?:export\\s+)?(?:const|let|var)\\s+([A-Za-z_$][A-Za-z0-9_$]*)\\s*=\\s*defineQuery\\(\\s*(?:`([^`]*)`|\"((?:[^\"\\\\]|\\\\.)*)\"|'((?:[^'\\\\]|\\\\.)*)')\\s*\\)")
)

// Scanner walks a source tree and extracts query modules from files
// matching its patterns.
type Scanner struct {
	root    string
	include []glob.Glob
	exclude []glob.Glob
	logger  *slog.Logger
}

// NewScanner compiles the glob patterns and returns a scanner rooted at
// root. Patterns match the slash-separated path relative to root.
func NewScanner(root string, include, exclude []string, logger *slog.Logger) (*Scanner, error) {
	if logger == nil {
		logger = slog.Default()
	}
	inc, err := compileGlobs(include)
	if err != nil {
		return nil, fmt.Errorf("invalid include pattern: %w", err)
	}
	exc, err := compileGlobs(exclude)
	if err != nil {
		return nil, fmt.Errorf("invalid exclude pattern: %w", err)
	}
	return &Scanner{root: root, include: inc, exclude: exc, logger: logger}, nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", p, err)
		}
		out = append(out, g)
	}
	return out, nil
}

// Files lists the matching files under root in lexical walk order.
func (s *Scanner) Files() ([]string, error) {
	var files []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(s.root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if s.excluded(rel + "/") {
				return filepath.SkipDir
			}
			return nil
		}
		if s.matches(rel) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (s *Scanner) matches(rel string) bool {
	if s.excluded(rel) {
		return false
	}
	return matchAny(s.include, rel)
}

func (s *Scanner) excluded(rel string) bool {
	return matchAny(s.exclude, rel)
}

// matchAny also tries the path with a leading slash so rooted patterns
// like **/node_modules/** cover top-level entries.
func matchAny(globs []glob.Glob, rel string) bool {
	for _, g := range globs {
		if g.Match(rel) || g.Match("/"+rel) {
			return true
		}
	}
	return false
}

// Source walks the tree in the background and streams one module per
// matching file, in lexical order. The returned source fails with the
// walk error, after delivering every module produced before the failure.
func (s *Scanner) Source(ctx context.Context) generator.QuerySource {
	ch := make(chan generator.Module)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(ch)
		files, err := s.Files()
		if err != nil {
			return err
		}
		for _, file := range files {
			module := s.scanFile(file)
			if len(module.Queries) == 0 && len(module.Errors) == 0 {
				continue
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case ch <- module:
			}
		}
		return nil
	})
	return &walkSource{ch: ch, group: g}
}

func (s *Scanner) scanFile(path string) generator.Module {
	module := generator.Module{Filename: path}
	data, err := os.ReadFile(path)
	if err != nil {
		module.Errors = append(module.Errors, err)
		return module
	}
	module.Queries = ExtractQueries(string(data))
	if len(module.Queries) > 0 {
		s.logger.Debug("queries extracted",
			slog.String("file", path),
			slog.Int("count", len(module.Queries)))
	}
	return module
}

type match struct {
	pos   int
	query generator.Query
}

// ExtractQueries returns the query bindings found in src, in source
// order.
func ExtractQueries(src string) []generator.Query {
	var found []match
	for _, m := range taggedTemplateRe.FindAllStringSubmatchIndex(src, -1) {
		found = append(found, match{
			pos: m[0],
			query: generator.Query{
				Name: src[m[2]:m[3]],
				Text: src[m[4]:m[5]],
			},
		})
	}
	for _, m := range defineQueryRe.FindAllStringSubmatchIndex(src, -1) {
		text := ""
		switch {
		case m[4] >= 0:
			text = src[m[4]:m[5]]
		case m[6] >= 0:
			text = unescape(src[m[6]:m[7]])
		case m[8] >= 0:
			text = unescape(src[m[8]:m[9]])
		}
		found = append(found, match{
			pos: m[0],
			query: generator.Query{
				Name: src[m[2]:m[3]],
				Text: text,
			},
		})
	}

	// Both forms can appear in one file; restore source order.
	for i := 1; i < len(found); i++ {
		for j := i; j > 0 && found[j].pos < found[j-1].pos; j-- {
			found[j], found[j-1] = found[j-1], found[j]
		}
	}
	queries := make([]generator.Query, len(found))
	for i, f := range found {
		queries[i] = f.query
	}
	return queries
}

// unescape handles the escape sequences meaningful inside quoted query
// strings.
func unescape(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			default:
				out = append(out, s[i])
			}
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}

// walkSource adapts the producer goroutine to the generator's pull
// interface.
type walkSource struct {
	ch    chan generator.Module
	group *errgroup.Group

	drained bool
	err     error
}

// Next implements generator.QuerySource.
func (w *walkSource) Next(ctx context.Context) (generator.Module, error) {
	select {
	case <-ctx.Done():
		return generator.Module{}, ctx.Err()
	case m, ok := <-w.ch:
		if ok {
			return m, nil
		}
	}
	if !w.drained {
		w.drained = true
		w.err = w.group.Wait()
	}
	if w.err != nil {
		return generator.Module{}, w.err
	}
	return generator.Module{}, generator.ErrEndOfSource
}
