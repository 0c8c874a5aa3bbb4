// Package compiler provides the front end pipeline for minilang sources.
// It turns source text into an *ast.Program through two phases:
// 1. Lexer: Tokenization
// 2. Parser: AST generation
//
// Several scripts can be parsed together; their functions share one
// global namespace.
package compiler

import (
	"errors"

	"github.com/zurustar/minilang/pkg/compiler/ast"
	"github.com/zurustar/minilang/pkg/compiler/lexer"
	"github.com/zurustar/minilang/pkg/compiler/parser"
	"github.com/zurustar/minilang/pkg/script"
)

// Parse parses UTF-8 source code into a program.
// Every syntax error is returned as a *CompileError with source context.
func Parse(source string) (*ast.Program, []error) {
	return parseNamed("", source)
}

// ParseScripts parses scripts loaded by script.Loader and merges them into
// one program. Errors from every script are collected.
func ParseScripts(scripts []script.Script) (*ast.Program, []error) {
	var (
		programs []*ast.Program
		errs     []error
	)

	for _, s := range scripts {
		program, parseErrs := parseNamed(s.FileName, s.Content)
		if len(parseErrs) > 0 {
			errs = append(errs, parseErrs...)
			continue
		}
		programs = append(programs, program)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return ast.Merge(programs...), nil
}

// ParsePath loads a file or directory with the given encoding and parses it.
func ParsePath(path string, encoding script.Encoding) (*ast.Program, []error) {
	scripts, err := script.Load(path, encoding)
	if err != nil {
		return nil, []error{err}
	}
	return ParseScripts(scripts)
}

func parseNamed(fileName, source string) (*ast.Program, []error) {
	p := parser.New(lexer.New(source))
	program, parseErrs := p.ParseProgram()

	if len(parseErrs) == 0 {
		return program, nil
	}

	compileErrors := make([]error, 0, len(parseErrs))
	for _, err := range parseErrs {
		var pe *parser.ParserError
		if !errors.As(err, &pe) {
			compileErrors = append(compileErrors, err)
			continue
		}

		var ce *CompileError
		if pe.Lexical {
			ce = NewLexerErrorWithContext(pe.Message, pe.Line, pe.Column, source)
		} else {
			ce = NewParserErrorWithContext(pe.Message, pe.Line, pe.Column, source)
		}
		ce.File = fileName
		compileErrors = append(compileErrors, ce)
	}
	return nil, compileErrors
}
