// Command noolang is a thin harness over the typer: it decodes
// JSON-encoded ASTs (lexing/parsing a real Noolang source file is a
// separate, out-of-scope collaborator — spec §6) and reports the inferred
// type, effects, and any structured error for each top-level statement.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"

	"github.com/jethrolarson/noolang-sub005/internal/astjson"
	"github.com/jethrolarson/noolang-sub005/internal/config"
	"github.com/jethrolarson/noolang-sub005/internal/types"
)

var (
	stdout = colorable.NewColorableStdout()

	typeColor  = color.New(color.FgCyan)
	givenColor = color.New(color.FgYellow)
	errColor   = color.New(color.FgRed)
	boldColor  = color.New(color.Bold)
)

func main() {
	var (
		typeFile      = flag.String("type", "", "decode a JSON AST file and print inferred types")
		benchmarkFile = flag.String("benchmark", "", "decode a JSON AST file and report --type timing over N runs")
		benchmarkN    = flag.Int("benchmark-n", 20, "number of runs for --benchmark")
		replFlag      = flag.Bool("repl", false, "start a line-edited REPL over JSON-encoded statements")
		configFile    = flag.String("config", "noolang.yaml", "path to the optional run configuration")
	)
	flag.Parse()

	// Color gates on whether stdout is actually a terminal (spec's ambient
	// stack: AILANG's CLI follows the same isatty-gated color policy).
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", errColor.Sprint("Error"), err)
		os.Exit(1)
	}

	switch {
	case *typeFile != "":
		if err := runType(*typeFile, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", errColor.Sprint("Error"), err)
			os.Exit(1)
		}
	case *benchmarkFile != "":
		if err := runBenchmark(*benchmarkFile, cfg, *benchmarkN); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", errColor.Sprint("Error"), err)
			os.Exit(1)
		}
	case *replFlag:
		runREPL(cfg)
	default:
		printUsage()
	}
}

func printUsage() {
	fmt.Fprintln(stdout, boldColor.Sprint("noolang"), "- the Noolang type checker")
	fmt.Fprintln(stdout, "Usage:")
	fmt.Fprintln(stdout, "  noolang --type <file.json>")
	fmt.Fprintln(stdout, "  noolang --benchmark <file.json> [--benchmark-n N]")
	fmt.Fprintln(stdout, "  noolang --repl")
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// runType decodes path as a JSON AST program, infers it, and prints each
// top-level statement's rendered type and given-clause.
func runType(path string, cfg config.RunConfig) error {
	data, err := readFile(path)
	if err != nil {
		return err
	}
	prog, err := astjson.DecodeProgram(data)
	if err != nil {
		return err
	}
	st := types.NewInferenceState()
	resolver := config.NewFileResolver(cfg)
	typed, err := st.InferProgram(prog, resolver)
	if err != nil {
		return reportError(err)
	}
	for _, stmt := range typed.Statements {
		rendered := types.Render(stmt.GetType(), st.Sub)
		eff := stmt.GetEffects()
		fmt.Fprintf(stdout, "%s : %s", stmt.String(), typeColor.Sprint(rendered))
		if !eff.IsEmpty() {
			fmt.Fprintf(stdout, " %s", givenColor.Sprint(eff.String()))
		}
		fmt.Fprintln(stdout)
	}
	return nil
}

// runBenchmark runs --type's pipeline n times over the same input and
// reports min/median/max wall-clock — the one piece of a benchmark harness
// worth keeping inline (spec's CLI surface).
func runBenchmark(path string, cfg config.RunConfig, n int) error {
	data, err := readFile(path)
	if err != nil {
		return err
	}
	if n < 1 {
		n = 1
	}
	durations := make([]time.Duration, 0, n)
	for i := 0; i < n; i++ {
		prog, err := astjson.DecodeProgram(data)
		if err != nil {
			return err
		}
		st := types.NewInferenceState()
		resolver := config.NewFileResolver(cfg)
		start := time.Now()
		if _, err := st.InferProgram(prog, resolver); err != nil {
			return reportError(err)
		}
		durations = append(durations, time.Since(start))
	}
	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
	min, max := durations[0], durations[len(durations)-1]
	median := durations[len(durations)/2]
	fmt.Fprintf(stdout, "%s runs=%d min=%s median=%s max=%s\n",
		boldColor.Sprint("benchmark"), n, min, median, max)
	return nil
}

// runREPL reads one JSON-encoded statement per line via a line-edited
// prompt, types it against an accumulating InferenceState, and continues
// after an error (spec §7's "REPL/LSP mode continues to the next top-level
// statement after an error").
func runREPL(cfg config.RunConfig) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	fmt.Fprintln(stdout, boldColor.Sprint("noolang"), "repl - one JSON-encoded statement per line, Ctrl-D to exit")
	st := types.NewInferenceState()
	resolver := config.NewFileResolver(cfg)

	for {
		input, err := line.Prompt("noolang> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Fprintln(stdout, "\nGoodbye!")
				return
			}
			fmt.Fprintf(os.Stderr, "%s: %v\n", errColor.Sprint("Error"), err)
			continue
		}
		line.AppendHistory(input)
		if input == "" {
			continue
		}

		var raw json.RawMessage
		if err := json.Unmarshal([]byte(input), &raw); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", errColor.Sprint("Error"), err)
			continue
		}
		prog, err := astjson.DecodeProgram(wrapStatement(raw))
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", errColor.Sprint("Error"), err)
			continue
		}
		typed, err := st.InferProgram(prog, resolver)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", errColor.Sprint("Error"), reportError(err))
			continue
		}
		for _, stmt := range typed.Statements {
			rendered := types.Render(stmt.GetType(), st.Sub)
			fmt.Fprintf(stdout, "%s : %s\n", stmt.String(), typeColor.Sprint(rendered))
		}
	}
}

func wrapStatement(stmt json.RawMessage) []byte {
	out, _ := json.Marshal(struct {
		Statements []json.RawMessage `json:"statements"`
	}{Statements: []json.RawMessage{stmt}})
	return out
}

// reportError renders a *types.ReportError as its JSON form, falling back
// to the plain Go error for anything else.
func reportError(err error) error {
	if re, ok := err.(*types.ReportError); ok {
		data, jerr := re.ToJSON()
		if jerr == nil {
			return fmt.Errorf("%s", data)
		}
	}
	return err
}
