// Command adftool inspects and edits annotated data files.
//
// Usage:
//
//	adftool [global flags] <command> [arguments]
//
// Commands:
//
//	info     summarize a file
//	insert   add a statement
//	lookup   list statements matching a pattern
//	delete   mark matching statements as deleted
//	import   replace the sample matrix from CSV
//	data     print samples of one channel
//	filter   bandpass-filter the channel of a given type
//	design   print the length and response of a bandpass design
//
// Terms are written in N3 (<iri>, _:label, [], "text"@en, 42), where [] is a
// fresh blank node. Anything else is resolved as a predicate name, through
// the vocabulary given with --vocab.
//
// Examples:
//
//	adftool insert rec.adf '<#fp1>' lyto:column-number 0
//	adftool lookup rec.adf --predicate rdf:type
//	adftool import rec.adf samples.csv --sfreq 256 --start 2024-01-01T10:00:00Z
//	adftool filter rec.adf --type lyto:Fp1 --low 0.5 --high 35
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/cwbudde/algo-adf/adf/vocab"
)

// env carries what every command needs.
type env struct {
	stdout   io.Writer
	stderr   io.Writer
	logger   *slog.Logger
	resolver vocab.Resolver
}

type command struct {
	name    string
	summary string
	run     func(e *env, args []string) error
}

var commands = []command{
	{"info", "summarize a file", runInfo},
	{"insert", "add a statement", runInsert},
	{"lookup", "list statements matching a pattern", runLookup},
	{"delete", "mark matching statements as deleted", runDelete},
	{"import", "replace the sample matrix from CSV", runImport},
	{"data", "print samples of one channel", runData},
	{"filter", "bandpass-filter the channel of a given type", runFilter},
	{"design", "print the length and response of a bandpass design", runDesign},
}

// errUsage reports a usage error that the command already explained.
var errUsage = errors.New("usage error")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("adftool", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SetInterspersed(false)
	verbose := fs.BoolP("verbose", "v", false, "log debug events to stderr")
	vocabPath := fs.String("vocab", "", "YAML vocabulary of prefixes and aliases")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: adftool [global flags] <command> [arguments]\n\n")
		fmt.Fprintf(stderr, "Commands:\n")
		for _, c := range commands {
			fmt.Fprintf(stderr, "  %-8s %s\n", c.name, c.summary)
		}
		fmt.Fprintf(stderr, "\nGlobal flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nRun 'adftool <command> --help' for the arguments of a command.\n")
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	e := &env{
		stdout:   stdout,
		stderr:   stderr,
		logger:   slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})),
		resolver: vocab.New(),
	}
	if *vocabPath != "" {
		v, err := vocab.Load(*vocabPath)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		e.resolver = v
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return 2
	}
	for _, c := range commands {
		if c.name != rest[0] {
			continue
		}
		err := c.run(e, rest[1:])
		switch {
		case err == nil:
			return 0
		case errors.Is(err, flag.ErrHelp):
			return 0
		case errors.Is(err, errUsage):
			return 2
		default:
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}
	fmt.Fprintf(stderr, "Error: unknown command %q\n", rest[0])
	fs.Usage()
	return 2
}
