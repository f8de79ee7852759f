package probe

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/gobwas/glob"
	"github.com/sirupsen/logrus"

	"github.com/apiprobe-dev/apiprobe/internal/client"
)

// ModelEnv provides the context for select expression evaluation
type ModelEnv struct {
	ID      string `expr:"ID"`
	OwnedBy string `expr:"OwnedBy"`
	Created int64  `expr:"Created"`
}

// CompileSelector compiles a boolean expression over model metadata, e.g.
// `ID startsWith "gpt-4" && OwnedBy == "openai"`.
func CompileSelector(expression string) (*vm.Program, error) {
	program, err := expr.Compile(expression, expr.Env(ModelEnv{}))
	if err != nil {
		return nil, fmt.Errorf("failed to compile select expression: %w", err)
	}
	return program, nil
}

// FilterByExpr keeps the models for which the compiled expression returns true.
func FilterByExpr(models []client.ModelInfo, program *vm.Program) ([]client.ModelInfo, error) {
	var matched []client.ModelInfo
	for _, m := range models {
		env := ModelEnv{ID: m.ID, OwnedBy: m.OwnedBy, Created: m.Created}
		out, err := expr.Run(program, env)
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate select expression for %s: %w", m.ID, err)
		}
		if keep, ok := out.(bool); ok && keep {
			matched = append(matched, m)
		}
	}
	return matched, nil
}

// MatchPattern filters models by pattern on the model ID. Patterns with glob
// metacharacters are matched as globs; plain text matches as a
// case-insensitive substring. A pattern that fails to compile also falls
// back to substring matching.
func MatchPattern(models []client.ModelInfo, pattern string) []client.ModelInfo {
	if !IsPattern(pattern) {
		return matchSubstring(models, pattern)
	}

	g, err := glob.Compile(pattern)
	if err != nil {
		logrus.Warnf("invalid glob pattern %q, falling back to substring match: %v", pattern, err)
		return matchSubstring(models, pattern)
	}

	var matched []client.ModelInfo
	for _, m := range models {
		if g.Match(m.ID) {
			matched = append(matched, m)
		}
	}
	return matched
}

func matchSubstring(models []client.ModelInfo, pattern string) []client.ModelInfo {
	needle := strings.ToLower(pattern)
	var matched []client.ModelInfo
	for _, m := range models {
		if strings.Contains(strings.ToLower(m.ID), needle) {
			matched = append(matched, m)
		}
	}
	return matched
}

// IsPattern reports whether the argument looks like a glob pattern rather
// than a literal model ID.
func IsPattern(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

// IDs extracts the model IDs in listing order.
func IDs(models []client.ModelInfo) []string {
	ids := make([]string, 0, len(models))
	for _, m := range models {
		ids = append(ids, m.ID)
	}
	return ids
}
