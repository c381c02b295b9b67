// Package noexit проверяет, что функция main пакета main не завершает процесс
// напрямую через os.Exit, log.Fatal* или zap.Logger.Fatal. Такие вызовы
// обходят отложенные функции и корректное завершение серверов.
package noexit

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Analyzer запрещает os.Exit, log.Fatal* и zap.Logger.Fatal в функции main.
var Analyzer = &analysis.Analyzer{
	Name:     "noexit",
	Doc:      "запрещает os.Exit, log.Fatal* и zap.Logger.Fatal в функции main пакета main",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

// запрещённые функции, полное имя -> сообщение
var forbidden = map[string]string{
	"os.Exit":     "вызов os.Exit в функции main запрещён",
	"log.Fatal":   "вызов log.Fatal в функции main запрещён",
	"log.Fatalf":  "вызов log.Fatalf в функции main запрещён",
	"log.Fatalln": "вызов log.Fatalln в функции main запрещён",

	"(*go.uber.org/zap.Logger).Fatal": "вызов zap.Logger.Fatal в функции main запрещён",
}

// NewAnalyzer возвращает анализатор noexit.
func NewAnalyzer() *analysis.Analyzer {
	return Analyzer
}

func run(pass *analysis.Pass) (any, error) {
	if pass.Pkg.Name() != "main" {
		return nil, nil
	}

	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	insp.Nodes([]ast.Node{(*ast.FuncDecl)(nil)}, func(n ast.Node, push bool) bool {
		if !push {
			return false
		}
		fn := n.(*ast.FuncDecl)
		if fn.Name.Name != "main" || fn.Recv != nil || fn.Body == nil {
			return false
		}

		ast.Inspect(fn.Body, func(n ast.Node) bool {
			// вложенные функции выполняются не в main
			if _, ok := n.(*ast.FuncLit); ok {
				return false
			}
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			sel, ok := call.Fun.(*ast.SelectorExpr)
			if !ok {
				return true
			}
			obj, ok := pass.TypesInfo.Uses[sel.Sel].(*types.Func)
			if !ok {
				return true
			}
			if msg, found := forbidden[obj.FullName()]; found {
				pass.Reportf(call.Pos(), "%s", msg)
			}
			return true
		})
		return false
	})
	return nil, nil
}
