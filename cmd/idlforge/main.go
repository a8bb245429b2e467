package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	"gopkg.in/yaml.v3"

	"github.com/idlforge/idlforge/pkg/cpp"
	"github.com/idlforge/idlforge/pkg/diag"
	"github.com/idlforge/idlforge/pkg/gen"
	"github.com/idlforge/idlforge/pkg/parser"

	_ "github.com/tliron/commonlog/simple"
)

var version = "0.1.0"

// Preprocessor options
var (
	includePaths   []string
	defineFlags    []string
	undefineFlags  []string
	preprocessOnly bool // -E flag
)

// Output options
var (
	dumpModel  bool
	genOutput  bool
	configPath string
	verbosity  int
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	rootCmd.SetArgs(os.Args[1:])
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "idlforge [file]",
		Short: "idlforge parses an IDL subset into type and variable tables",
		Long: `idlforge preprocesses and parses files written in a subset of
OMG IDL (modules, structs with @key fields, typedefs and sequences)
and exposes the result as a model for code generation.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			commonlog.Configure(verbosity, nil)

			if len(args) == 0 {
				cmd.Help()
				return nil
			}
			filename := args[0]

			if preprocessOnly {
				return doPreprocessOnly(filename, out, errOut)
			}
			return doParse(filename, out, errOut)
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.Flags().StringArrayVarP(&includePaths, "include", "I", nil, "Add directory to include search path")
	rootCmd.Flags().StringArrayVarP(&defineFlags, "define", "D", nil, "Define macro (NAME or NAME=VALUE)")
	rootCmd.Flags().StringArrayVarP(&undefineFlags, "undefine", "U", nil, "Undefine macro")
	rootCmd.Flags().BoolVarP(&preprocessOnly, "preprocess", "E", false, "Preprocess only, output to stdout")
	rootCmd.Flags().BoolVar(&dumpModel, "dump-model", false, "Dump the parsed model as YAML")
	rootCmd.Flags().BoolVar(&genOutput, "gen", false, "Re-emit the parsed declarations")
	rootCmd.Flags().StringVar(&configPath, "config", "", "Generator configuration file (TOML)")
	rootCmd.Flags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity")

	return rootCmd
}

// buildOptions creates cpp.Options from CLI flags
func buildOptions() cpp.Options {
	opts := cpp.Options{
		IncludePaths: includePaths,
		Defines:      make(map[string]string),
		Undefines:    undefineFlags,
	}

	// Parse -D flags (NAME or NAME=VALUE)
	for _, d := range defineFlags {
		if idx := strings.Index(d, "="); idx >= 0 {
			opts.Defines[d[:idx]] = d[idx+1:]
		} else {
			opts.Defines[d] = ""
		}
	}

	return opts
}

// doPreprocessOnly preprocesses and outputs to stdout (-E flag)
func doPreprocessOnly(filename string, out, errOut io.Writer) error {
	rep := diag.NewReporter(filename)
	pp := cpp.NewPreprocessor(buildOptions(), rep)

	content, err := pp.PreprocessFile(filename)
	printDiagnostics(rep, errOut)
	if err != nil {
		fmt.Fprintf(errOut, "idlforge: preprocessing error: %v\n", err)
		return err
	}

	fmt.Fprint(out, content)
	return nil
}

// doParse runs the full pipeline and writes the requested outputs
func doParse(filename string, out, errOut io.Writer) error {
	rep := diag.NewReporter(filename)
	m, err := parser.ParseFile(filename, buildOptions(), rep)
	printDiagnostics(rep, errOut)
	if err != nil {
		fmt.Fprintf(errOut, "idlforge: %v\n", err)
		return err
	}
	if n := rep.ErrorCount(); n > 0 {
		return fmt.Errorf("parsing failed with %d errors", n)
	}

	if dumpModel {
		data, err := yaml.Marshal(m)
		if err != nil {
			return err
		}
		fmt.Fprint(out, string(data))
	}

	if genOutput {
		cfg := gen.DefaultConfig()
		if configPath != "" {
			cfg, err = gen.LoadConfig(configPath)
			if err != nil {
				fmt.Fprintf(errOut, "idlforge: %v\n", err)
				return err
			}
		}
		text, err := gen.NewDeclEmitter(cfg).Generate(m, filename)
		if err != nil {
			return err
		}
		fmt.Fprint(out, text)
	}

	if !dumpModel && !genOutput {
		fmt.Fprintf(errOut, "idlforge: parsed %s: %d typedefs, %d structs, %d modules\n",
			filename, len(m.Typedefs), len(m.Structs), len(m.Modules))
	}

	return nil
}

func printDiagnostics(rep *diag.Reporter, errOut io.Writer) {
	for _, d := range rep.Diagnostics() {
		fmt.Fprintln(errOut, d.String())
	}
}
