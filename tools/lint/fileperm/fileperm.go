// Package fileperm provides a linter that flags hardcoded file-permission
// literals in WriteFile-style calls, pointing callers at the shared
// constants in pkg/fileutil instead.
package fileperm

import (
	"go/ast"
	"go/token"
	"strings"

	"golang.org/x/tools/go/analysis"
)

// Analyzer reports hardcoded permission literals passed to WriteFile calls.
var Analyzer = &analysis.Analyzer{
	Name: "fileperm",
	Doc:  "checks for hardcoded file permission literals instead of the fileutil constants",
	Run:  run,
}

// writeFilePermArgIndex is the position of the permission argument in
// WriteFile-shaped signatures (path, data, perm).
const writeFilePermArgIndex = 2

// flagged maps a permission literal to the constant to suggest for it.
var flagged = map[string]string{
	"0o600": "fileutil.ReadWriteUserPermission",
	"0600":  "fileutil.ReadWriteUserPermission",
	"0o644": "fileutil.ReadWriteUserReadOthers",
	"0644":  "fileutil.ReadWriteUserReadOthers",
	"0o755": "fileutil.ReadWriteExecuteUserReadExecuteOthers",
	"0755":  "fileutil.ReadWriteExecuteUserReadExecuteOthers",
}

func run(pass *analysis.Pass) (interface{}, error) {
	for _, file := range pass.Files {
		// Test files keep literal permissions for fixture readability.
		filename := pass.Fset.Position(file.Pos()).Filename
		if strings.HasSuffix(filename, "_test.go") {
			continue
		}

		ast.Inspect(file, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			fun, ok := call.Fun.(*ast.SelectorExpr)
			if !ok || !strings.HasSuffix(fun.Sel.Name, "WriteFile") {
				return true
			}
			if len(call.Args) <= writeFilePermArgIndex {
				return true
			}
			lit, ok := call.Args[writeFilePermArgIndex].(*ast.BasicLit)
			if !ok || lit.Kind != token.INT {
				return true
			}
			if constant, known := flagged[lit.Value]; known {
				pass.Reportf(lit.Pos(), "use %s instead of hardcoded %s", constant, lit.Value)
			}
			return true
		})
	}
	return (*struct{})(nil), nil
}
