package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/pkg/errors"

	"plc/internal/cache"
	"plc/internal/diagnostics"
	"plc/internal/generator"
	"plc/internal/lexer"
	"plc/internal/lint"
	"plc/internal/token"
	"plc/internal/toolchain"
	"plc/internal/types"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "run":
		err = cmdRun(os.Args[2:])
	case "check":
		err = cmdCheck(os.Args[2:])
	case "repl":
		err = cmdRepl(os.Args[2:])
	case "cache":
		err = cmdCache(os.Args[2:])
	case "help", "-h", "--help":
		usage()
	case "version", "-v", "--version":
		fmt.Println("plc", version)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println(`plc — compiles this language to Java source

Usage:
  plc run [-cache=<path|postgres-dsn>] <file.plc>
  plc check [-lint] <file.plc>
  plc repl
  plc cache -clear [-cache=<path>]

Commands:
  run      Compile and print the generated Java source
  check    Analyze without generating code
  repl     Check-and-generate source one statement at a time
  cache    Inspect or clear the compile cache`)
}

// defaultRootScope pre-binds the builtin every program can call without
// declaring it first: log, taking one Any argument and returning Any.
func defaultRootScope() *types.Scope {
	root := types.NewScope(nil)
	root.Define("log", &types.Function{Params: []types.Type{types.Any}, Return: types.Any})
	return root
}

// -------------- RUN --------------

func cmdRun(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	cachePath := fs.String("cache", "", "cache store path or postgres DSN (disabled if empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("run: missing input file")
	}

	source, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return errors.Wrap(err, "run: reading input")
	}

	run := diagnostics.NewRun(os.Stderr)
	var store cache.Store
	if *cachePath != "" {
		store, err = openStore(*cachePath)
		if err != nil {
			return errors.Wrap(err, "run: opening cache")
		}
		defer store.Close()
	}

	generated, err := compileWithCache(run, string(source), store)
	if err != nil {
		return errors.Wrap(err, "run")
	}
	fmt.Println(generated)
	return nil
}

func compileWithCache(run *diagnostics.Run, source string, store cache.Store) (string, error) {
	key := cache.HashSource(source)
	if store != nil {
		run.Stage("cache lookup")
		if entry, ok, err := store.Get(key); err == nil && ok {
			run.Done(entry.Generated)
			return entry.Generated, nil
		}
	}

	run.Stage("compile")
	result, err := toolchain.Compile(source, defaultRootScope())
	if err != nil {
		run.Fail("compile", err)
		return "", err
	}
	run.Done(result.Generated)

	if store != nil {
		store.Put(&cache.Entry{SourceHash: key, Generated: result.Generated})
	}
	return result.Generated, nil
}

func openStore(path string) (cache.Store, error) {
	if len(path) > 11 && path[:11] == "postgres://" {
		return cache.OpenPostgresStore(path)
	}
	return cache.OpenSQLiteStore(path)
}

// -------------- CHECK --------------

func cmdCheck(args []string) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	runLint := fs.Bool("lint", false, "also run the identifier-casing lint")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("check: missing input file")
	}

	source, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return errors.Wrap(err, "check: reading input")
	}

	run := diagnostics.NewRun(os.Stderr)
	run.Stage("check")
	ast, _, err := toolchain.Check(string(source), defaultRootScope())
	if err != nil {
		run.Fail("check", err)
		return err
	}
	run.Done("")

	if *runLint {
		for _, f := range lint.Check(ast) {
			fmt.Fprintf(os.Stderr, "lint: %s: %q uses %s, file majority is %s\n",
				f.Pos, f.Name, f.Style, f.Majority)
		}
	}
	return nil
}

// -------------- REPL --------------

// cmdRepl runs a statement-at-a-time check-and-generate loop. There is
// no evaluator here: it accumulates input lines until they form one or
// more complete statements (balancing DO/END the way the grammar
// requires), runs them through toolchain.Check, and echoes the bare
// generated fragment for each statement — never a whole compilation
// unit. Ctrl-C discards the whole statement in progress, including lines
// already entered for it; Ctrl-D exits.
func cmdRepl(args []string) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	root := defaultRootScope()
	var buf strings.Builder
	prompt := "plc> "

	for {
		input, err := line.Prompt(prompt)
		if err == liner.ErrPromptAborted {
			buf.Reset()
			prompt = "plc> "
			continue
		}
		if err != nil {
			return err
		}
		if input == "" && buf.Len() == 0 {
			continue
		}
		line.AppendHistory(input)
		buf.WriteString(input)
		buf.WriteByte('\n')

		complete, balanceErr := statementBalanced(buf.String())
		if balanceErr != nil {
			fmt.Fprintln(os.Stderr, "error:", balanceErr)
			buf.Reset()
			prompt = "plc> "
			continue
		}
		if !complete {
			prompt = "...> "
			continue
		}

		source := buf.String()
		buf.Reset()
		prompt = "plc> "

		_, irSrc, err := toolchain.Check(source, root)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			continue
		}
		for _, stmt := range irSrc.Statements {
			fmt.Println(generator.GenerateStatement(stmt))
		}
	}
}

// statementBalanced reports whether buf's accumulated input lexes
// cleanly and ends on a statement boundary: every DO opened by an
// IF/FOR/DEF/OBJECT block is closed by a matching END, and the final
// token is the ";" or "END" the grammar requires to end a statement.
// A lex error (e.g. an unterminated string) is reported immediately
// rather than treated as "keep reading" — this pipeline has no
// carriage-return-continued string literals to wait out.
func statementBalanced(buf string) (bool, error) {
	tokens, err := lexer.Lex(buf)
	if err != nil {
		return false, err
	}

	depth := 0
	var last token.Token
	for _, t := range tokens {
		if t.Kind == token.EOF {
			continue
		}
		if t.Kind == token.Identifier && t.Literal == "DO" {
			depth++
		}
		if t.Kind == token.Identifier && t.Literal == "END" {
			depth--
		}
		last = t
	}
	if depth > 0 {
		return false, nil
	}
	if depth < 0 {
		return false, fmt.Errorf("unbalanced END")
	}
	if last.Literal == "" {
		return false, nil
	}
	return last.Literal == ";" || last.Literal == "END", nil
}

// -------------- CACHE --------------

func cmdCache(args []string) error {
	fs := flag.NewFlagSet("cache", flag.ContinueOnError)
	cachePath := fs.String("cache", "plc-cache.db", "cache store path or postgres DSN")
	clear := fs.Bool("clear", false, "drop every cached entry")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := openStore(*cachePath)
	if err != nil {
		return errors.Wrap(err, "cache: opening store")
	}
	defer store.Close()

	if *clear {
		sqliteStore, ok := store.(*cache.SQLiteStore)
		if !ok {
			return errors.New("cache: -clear is only implemented for the SQLite backend")
		}
		return sqliteStore.Clear()
	}

	fmt.Fprintln(os.Stdout, "cache store:", *cachePath)
	return nil
}
