// Package wallclock содержит анализатор, запрещающий прямые обращения к системным часам
// в пакетах, которые должны получать время через clockwork.Clock.
package wallclock

import (
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
	"golang.org/x/tools/go/types/typeutil"
)

// DefaultPackages пакеты, в которых проверяются вызовы
const DefaultPackages = "internal/service,internal/repository"

// Analyzer запрещает time.Now, таймеры и тикеры пакета time вне тестов
var Analyzer = &analysis.Analyzer{
	Name:     "wallclock",
	Doc:      "запрещает прямые вызовы time.Now и таймеров пакета time; время берётся из clockwork.Clock",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

var packages string

var forbidden = map[string]bool{
	"Now":       true,
	"Since":     true,
	"Until":     true,
	"After":     true,
	"AfterFunc": true,
	"NewTimer":  true,
	"NewTicker": true,
	"Tick":      true,
	"Sleep":     true,
}

func init() {
	Analyzer.Flags.StringVar(&packages, "packages", DefaultPackages,
		"список суффиксов путей пакетов через запятую")
}

func guarded(pkgPath string) bool {
	for _, p := range strings.Split(packages, ",") {
		p = strings.Trim(strings.TrimSpace(p), "/")
		if p == "" {
			continue
		}
		if pkgPath == p || strings.HasSuffix(pkgPath, "/"+p) {
			return true
		}
	}
	return false
}

func run(pass *analysis.Pass) (interface{}, error) {
	if !guarded(strings.TrimSuffix(pass.Pkg.Path(), "_test")) {
		return nil, nil
	}

	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	insp.Preorder([]ast.Node{(*ast.CallExpr)(nil)}, func(n ast.Node) {
		call := n.(*ast.CallExpr)
		if strings.HasSuffix(pass.Fset.Position(call.Pos()).Filename, "_test.go") {
			return
		}

		fn, ok := typeutil.Callee(pass.TypesInfo, call).(*types.Func)
		if !ok || fn.Pkg() == nil || fn.Pkg().Path() != "time" {
			return
		}
		// методы time.Time и time.Timer разрешены
		if sig, ok := fn.Type().(*types.Signature); ok && sig.Recv() != nil {
			return
		}
		if forbidden[fn.Name()] {
			pass.Reportf(call.Pos(), "прямой вызов time.%s запрещён, используйте clockwork.Clock", fn.Name())
		}
	})

	return nil, nil
}
