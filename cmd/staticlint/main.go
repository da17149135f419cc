// Command staticlint запускает набор статических анализаторов проекта.
//
// В набор входят:
//
//   - анализаторы golang.org/x/tools/go/analysis/passes: nilness, shadow, unreachable,
//     printf, assign, atomic, bools, buildtag, copylocks, lostcancel;
//   - все анализаторы класса SA из staticcheck.io;
//   - ST1000 (комментарий пакета) и S1000 (select с одним case) из staticcheck.io;
//   - errcheck: необработанные ошибки;
//   - noexit: прямой вызов os.Exit в функции main пакета main;
//   - wallclock: прямые вызовы time.Now, таймеров и тикеров в internal/service и
//     internal/repository, где время берётся из clockwork.Clock. Список пакетов
//     задаётся флагом -wallclock.packages.
//
// Использование:
//
//	go run ./cmd/staticlint ./...
package main

import (
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"
	"golang.org/x/tools/go/analysis/passes/assign"
	"golang.org/x/tools/go/analysis/passes/atomic"
	"golang.org/x/tools/go/analysis/passes/bools"
	"golang.org/x/tools/go/analysis/passes/buildtag"
	"golang.org/x/tools/go/analysis/passes/copylock"
	"golang.org/x/tools/go/analysis/passes/lostcancel"
	"golang.org/x/tools/go/analysis/passes/nilness"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/shadow"
	"golang.org/x/tools/go/analysis/passes/unreachable"
	"honnef.co/go/tools/analysis/lint"
	"honnef.co/go/tools/simple"
	"honnef.co/go/tools/staticcheck"
	"honnef.co/go/tools/stylecheck"

	"github.com/kisielk/errcheck/errcheck"

	"github.com/tempizhere/shortlinks/cmd/staticlint/noexit"
	"github.com/tempizhere/shortlinks/cmd/staticlint/wallclock"
)

// extraChecks проверки staticcheck вне класса SA
var extraChecks = map[string]bool{
	"ST1000": true,
	"S1000":  true,
}

func main() {
	multichecker.Main(analyzers()...)
}

// analyzers собирает полный список анализаторов
func analyzers() []*analysis.Analyzer {
	list := []*analysis.Analyzer{
		nilness.Analyzer,
		shadow.Analyzer,
		unreachable.Analyzer,
		printf.Analyzer,
		assign.Analyzer,
		atomic.Analyzer,
		bools.Analyzer,
		buildtag.Analyzer,
		copylock.Analyzer,
		lostcancel.Analyzer,
	}

	list = append(list, fromStaticcheck(staticcheck.Analyzers, func(string) bool { return true })...)
	selected := func(name string) bool { return extraChecks[name] }
	list = append(list, fromStaticcheck(stylecheck.Analyzers, selected)...)
	list = append(list, fromStaticcheck(simple.Analyzers, selected)...)

	return append(list,
		errcheck.Analyzer,
		noexit.NoExitAnalyzer,
		wallclock.Analyzer,
	)
}

func fromStaticcheck(all []*lint.Analyzer, keep func(name string) bool) []*analysis.Analyzer {
	var out []*analysis.Analyzer
	for _, a := range all {
		if keep(a.Analyzer.Name) {
			out = append(out, a.Analyzer)
		}
	}
	return out
}
