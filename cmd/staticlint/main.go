// Package main запускает multichecker для проекта.
//
// Набор анализаторов:
//   - стандартные проходы golang.org/x/tools/go/analysis/passes;
//   - все SA-анализаторы staticcheck;
//   - S1000 (упрощение select с одним case) и U1000 (неиспользуемый код);
//   - bodyclose: тело HTTP-ответа должно закрываться;
//   - noexit: os.Exit и log.Fatal* запрещены в main.main.
//
// Запуск:
//
//	go run ./cmd/staticlint ./...
package main

import (
	"strings"

	"github.com/timakin/bodyclose/passes/bodyclose"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"
	"golang.org/x/tools/go/analysis/passes/errorsas"
	"golang.org/x/tools/go/analysis/passes/httpresponse"
	"golang.org/x/tools/go/analysis/passes/lostcancel"
	"golang.org/x/tools/go/analysis/passes/nilness"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/shadow"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"golang.org/x/tools/go/analysis/passes/unmarshal"
	"golang.org/x/tools/go/analysis/passes/unusedresult"
	"honnef.co/go/tools/simple"
	"honnef.co/go/tools/staticcheck"
	"honnef.co/go/tools/unused"

	"github.com/Totarae/shortlinks/cmd/staticlint/noexit"
)

// simpleChecks анализаторы класса S, включённые в проверку
var simpleChecks = map[string]bool{
	"S1000": true,
}

func analyzers() []*analysis.Analyzer {
	list := []*analysis.Analyzer{
		errorsas.Analyzer,
		httpresponse.Analyzer,
		lostcancel.Analyzer,
		nilness.Analyzer,
		printf.Analyzer,
		shadow.Analyzer,
		structtag.Analyzer,
		unmarshal.Analyzer,
		unusedresult.Analyzer,
	}

	for _, a := range staticcheck.Analyzers {
		if strings.HasPrefix(a.Analyzer.Name, "SA") {
			list = append(list, a.Analyzer)
		}
	}
	for _, a := range simple.Analyzers {
		if simpleChecks[a.Analyzer.Name] {
			list = append(list, a.Analyzer)
		}
	}
	list = append(list, unused.Analyzer.Analyzer)

	list = append(list, bodyclose.Analyzer, noexit.NewAnalyzer())
	return list
}

func main() {
	multichecker.Main(analyzers()...)
}
