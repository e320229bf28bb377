package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jethrolarson/noolang-sub005/internal/ast"
	"github.com/jethrolarson/noolang-sub005/internal/astjson"
)

// FileResolver implements types.ImportResolver by reading the JSON-encoded
// AST for path off disk: path as given (relative to the working directory)
// first, then path under each RunConfig.PreludePaths entry in order (spec
// §6: "Import... resolved by an injectable ImportResolver").
type FileResolver struct {
	SearchPaths []string
}

// NewFileResolver builds a resolver over the given configuration's search
// path.
func NewFileResolver(cfg RunConfig) *FileResolver {
	return &FileResolver{SearchPaths: cfg.PreludePaths}
}

// Load implements types.ImportResolver.
func (r *FileResolver) Load(path string) (*ast.Program, error) {
	for _, dir := range append([]string{""}, r.SearchPaths...) {
		candidate := path
		if dir != "" {
			candidate = filepath.Join(dir, path)
		}
		data, err := os.ReadFile(candidate)
		if err != nil {
			continue
		}
		prog, err := astjson.DecodeProgram(data)
		if err != nil {
			return nil, fmt.Errorf("config: decode import %s: %w", candidate, err)
		}
		return prog, nil
	}
	return nil, fmt.Errorf("config: import %q not found in search path", path)
}
