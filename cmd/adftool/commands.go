package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/cwbudde/algo-adf/adf/file"
	"github.com/cwbudde/algo-adf/adf/process"
	"github.com/cwbudde/algo-adf/adf/statement"
	"github.com/cwbudde/algo-adf/adf/term"
	"github.com/cwbudde/algo-adf/dsp/filter/fir"
	"github.com/cwbudde/algo-adf/dsp/window"
)

func (e *env) flags(name, usage string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	fs.Usage = func() {
		fmt.Fprint(e.stderr, usage)
		if fs.HasFlags() {
			fmt.Fprintf(e.stderr, "\nOptions:\n")
			fs.PrintDefaults()
		}
	}
	return fs
}

// parse parses args and checks the number of positional arguments.
func parse(fs *flag.FlagSet, args []string, minArgs, maxArgs int) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return errUsage
	}
	if n := fs.NArg(); n < minArgs || n > maxArgs {
		fs.Usage()
		return errUsage
	}
	return nil
}

func (e *env) open(path string, create bool) (*file.File, error) {
	f, err := file.Open(path, file.WithLogger(e.logger), file.WithResolver(e.resolver))
	if create && errors.Is(err, os.ErrNotExist) {
		e.logger.Debug("creating file", "path", path)
		return file.New(file.WithLogger(e.logger), file.WithResolver(e.resolver)), nil
	}
	return f, err
}

// term reads an N3 term, or resolves a predicate name. [] is a fresh blank
// node.
func (e *env) term(s string) (term.Term, error) {
	switch s {
	case "":
		return term.Term{}, nil
	case "[]":
		return term.NewBlankNode(), nil
	}
	t, err := term.Parse(s)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, term.ErrNoTerm) {
		return term.Term{}, err
	}
	return e.resolver.Resolve(s)
}

type patternFlags struct {
	subject, predicate, object, graph *string
}

func addPatternFlags(fs *flag.FlagSet) patternFlags {
	return patternFlags{
		subject:   fs.StringP("subject", "s", "", "subject term"),
		predicate: fs.StringP("predicate", "p", "", "predicate term or name"),
		object:    fs.StringP("object", "o", "", "object term"),
		graph:     fs.StringP("graph", "g", "", "graph term"),
	}
}

func (e *env) pattern(p patternFlags) (*statement.Statement, error) {
	var slots [4]term.Term
	for i, s := range []string{*p.subject, *p.predicate, *p.object, *p.graph} {
		t, err := e.term(s)
		if err != nil {
			return nil, err
		}
		slots[i] = t
	}
	return statement.New(slots[0], slots[1], slots[2], slots[3]), nil
}

func runInfo(e *env, args []string) error {
	fs := e.flags("info", `Usage: adftool info <file>

Description:
  Print the size of the term table, the log and the active set, the sample
  matrix dimensions, the recording time and one line per channel.
`)
	if err := parse(fs, args, 1, 1); err != nil {
		return err
	}
	f, err := e.open(fs.Arg(0), false)
	if err != nil {
		return err
	}

	stats := f.Stats()
	tw := tabwriter.NewWriter(e.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "terms\t%d\n", stats.Terms)
	fmt.Fprintf(tw, "records\t%d\n", stats.Records)
	fmt.Fprintf(tw, "active\t%d\n", stats.Active)
	fmt.Fprintf(tw, "points\t%d\n", stats.Points)
	fmt.Fprintf(tw, "channels\t%d\n", stats.Channels)
	if start, sfreq, err := f.Time(0); err == nil {
		fmt.Fprintf(tw, "start\t%s\n", start.Format(time.RFC3339Nano))
		fmt.Fprintf(tw, "sampling frequency\t%g Hz\n", sfreq)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if stats.Channels == 0 {
		return nil
	}
	fmt.Fprintln(e.stdout)
	tw = tabwriter.NewWriter(e.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Column\tIdentifier\tTypes\n")
	fmt.Fprintf(tw, "------\t----------\t-----\n")
	for column := range stats.Channels {
		id, err := f.ChannelIdentifier(column)
		if err != nil {
			fmt.Fprintf(tw, "%d\t-\t-\n", column)
			continue
		}
		types, err := f.ChannelTypes(id)
		if err != nil {
			return err
		}
		names := make([]string, len(types))
		for i, t := range types {
			names[i] = t.N3()
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", column, id.N3(), strings.Join(names, " "))
	}
	return tw.Flush()
}

func runInsert(e *env, args []string) error {
	fs := e.flags("insert", `Usage: adftool insert <file> <subject> <predicate> <object> [graph]

Description:
  Append a statement, creating the file if needed. With --deleted the
  statement is a tombstone for its quad.
`)
	deleted := fs.String("deleted", "", "deletion date (RFC 3339)")
	if err := parse(fs, args, 4, 5); err != nil {
		return err
	}

	var slots [4]term.Term
	for i, s := range fs.Args()[1:] {
		t, err := e.term(s)
		if err != nil {
			return fmt.Errorf("argument %d: %w", i+2, err)
		}
		slots[i] = t
	}
	st := statement.New(slots[0], slots[1], slots[2], slots[3])
	if *deleted != "" {
		at, err := time.Parse(time.RFC3339Nano, *deleted)
		if err != nil {
			return fmt.Errorf("--deleted: %w", err)
		}
		if err := st.Set(statement.Keep[term.Term](), statement.Keep[term.Term](), statement.Keep[term.Term](),
			statement.Keep[term.Term](), statement.Set(at)); err != nil {
			return err
		}
	}

	f, err := e.open(fs.Arg(0), true)
	if err != nil {
		return err
	}
	if err := f.Insert(st); err != nil {
		return err
	}
	return f.Save(fs.Arg(0))
}

func runLookup(e *env, args []string) error {
	fs := e.flags("lookup", `Usage: adftool lookup <file> [options]

Description:
  List the active statements matching the pattern. Unset slots match
  anything.

Examples:
  adftool lookup rec.adf --predicate rdf:type
  adftool lookup rec.adf -s '<>' --history
`)
	pf := addPatternFlags(fs)
	history := fs.Bool("history", false, "include superseded and deleted records")
	if err := parse(fs, args, 1, 1); err != nil {
		return err
	}
	pattern, err := e.pattern(pf)
	if err != nil {
		return err
	}
	f, err := e.open(fs.Arg(0), false)
	if err != nil {
		return err
	}

	var opts []file.LookupOption
	if *history {
		opts = append(opts, file.IncludeDeleted())
	}
	tw := tabwriter.NewWriter(e.stdout, 0, 0, 2, ' ', 0)
	for _, st := range f.LookupStatements(pattern, opts...) {
		var cells []string
		for _, k := range statement.SPOG {
			t, _ := st.Get(k)
			cells = append(cells, t.N3())
		}
		when := ""
		if d, ok := st.DeletionDate(); ok {
			when = "deleted " + d.Format(time.RFC3339Nano)
		}
		fmt.Fprintf(tw, "%s\t%s\n", strings.Join(cells, "\t"), when)
	}
	return tw.Flush()
}

func runDelete(e *env, args []string) error {
	fs := e.flags("delete", `Usage: adftool delete <file> [options]

Description:
  Mark every active statement matching the pattern as deleted. An empty
  pattern requires --all.
`)
	pf := addPatternFlags(fs)
	atFlag := fs.String("at", "", "deletion date (RFC 3339, default now)")
	all := fs.Bool("all", false, "allow an empty pattern")
	if err := parse(fs, args, 1, 1); err != nil {
		return err
	}
	pattern, err := e.pattern(pf)
	if err != nil {
		return err
	}
	empty := true
	for _, k := range statement.SPOG {
		if _, ok := pattern.Get(k); ok {
			empty = false
		}
	}
	if empty && !*all {
		return errors.New("refusing to delete every statement without --all")
	}

	at := time.Now()
	if *atFlag != "" {
		if at, err = time.Parse(time.RFC3339Nano, *atFlag); err != nil {
			return fmt.Errorf("--at: %w", err)
		}
	}

	f, err := e.open(fs.Arg(0), false)
	if err != nil {
		return err
	}
	n, err := f.Delete(pattern, at)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "deleted %d statements\n", n)
	return f.Save(fs.Arg(0))
}

func runImport(e *env, args []string) error {
	fs := e.flags("import", `Usage: adftool import <file> <csv> [options]

Description:
  Replace the sample matrix with the rows of a CSV file, one row per point
  and one column per channel. Use - to read standard input.
`)
	sfreq := fs.Float64("sfreq", 0, "sampling frequency in Hz to record")
	startFlag := fs.String("start", "", "recording start (RFC 3339, default now)")
	if err := parse(fs, args, 2, 2); err != nil {
		return err
	}

	var in io.Reader = os.Stdin
	if name := fs.Arg(1); name != "-" {
		src, err := os.Open(name)
		if err != nil {
			return err
		}
		defer src.Close()
		in = src
	}
	points, channels, values, err := readMatrix(in)
	if err != nil {
		return err
	}

	f, err := e.open(fs.Arg(0), true)
	if err != nil {
		return err
	}
	if err := f.SetSamples(points, channels, values); err != nil {
		return err
	}
	if *sfreq > 0 {
		start := time.Now()
		if *startFlag != "" {
			if start, err = time.Parse(time.RFC3339Nano, *startFlag); err != nil {
				return fmt.Errorf("--start: %w", err)
			}
		}
		if err := f.SetTime(start, *sfreq); err != nil {
			return err
		}
	}
	fmt.Fprintf(e.stdout, "imported %d points, %d channels\n", points, channels)
	return f.Save(fs.Arg(0))
}

func readMatrix(in io.Reader) (points, channels int, values []float64, err error) {
	r := csv.NewReader(in)
	r.TrimLeadingSpace = true
	r.Comment = '#'
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, 0, nil, err
		}
		for _, cell := range row {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				line, _ := r.FieldPos(0)
				return 0, 0, nil, fmt.Errorf("line %d: %w", line, err)
			}
			values = append(values, v)
		}
		channels = len(row)
		points++
	}
	return points, channels, values, nil
}

func runData(e *env, args []string) error {
	fs := e.flags("data", `Usage: adftool data <file> [options]

Description:
  Print the samples of one channel, one value per line. The range is
  clamped to the recording.
`)
	channel := fs.IntP("channel", "c", 0, "channel column")
	start := fs.Int("start", 0, "first point")
	count := fs.Int("count", -1, "number of points (-1 for all)")
	if err := parse(fs, args, 1, 1); err != nil {
		return err
	}
	f, err := e.open(fs.Arg(0), false)
	if err != nil {
		return err
	}
	n := *count
	if n < 0 {
		n, _ = f.Dimensions()
	}
	_, _, values, err := f.Samples(*channel, *start, n)
	if err != nil {
		return err
	}
	return printValues(e.stdout, values)
}

func printValues(w io.Writer, values []float64) error {
	var sb strings.Builder
	for _, v := range values {
		sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func windowOption(fs *flag.FlagSet) *string {
	return fs.String("window", "hamming", "taper: rectangular, hann, hamming, blackman or kaiser")
}

func runFilter(e *env, args []string) error {
	fs := e.flags("filter", `Usage: adftool filter <file> --type <term> --low <Hz> --high <Hz>

Description:
  Filter the single channel of the given type to a pass band and print it,
  one value per line. The transition bandwidth is chosen from the band; a
  low edge of 0 gives a lowpass and a high edge at Nyquist a highpass. With
  --causal the filter runs forward in time and the output lags the input by
  half the filter length.
`)
	typ := fs.StringP("type", "t", "", "channel type")
	low := fs.Float64("low", 0, "lower edge of the pass band in Hz")
	high := fs.Float64("high", 0, "upper edge of the pass band in Hz")
	win := windowOption(fs)
	causal := fs.Bool("causal", false, "stream the filter instead of centring it")
	if err := parse(fs, args, 1, 1); err != nil {
		return err
	}
	if *typ == "" {
		return errors.New("--type is required")
	}
	channelType, err := e.term(*typ)
	if err != nil {
		return err
	}
	w, err := window.Parse(*win)
	if err != nil {
		return err
	}
	f, err := e.open(fs.Arg(0), false)
	if err != nil {
		return err
	}
	opts := []fir.Option{fir.WithWindow(w)}
	if *causal {
		opts = append(opts, fir.WithCausal())
	}
	out, err := process.FilterChannel(f, channelType, *low, *high, opts...)
	if err != nil {
		return err
	}
	return printValues(e.stdout, out)
}

func runDesign(e *env, args []string) error {
	fs := e.flags("design", `Usage: adftool design --sfreq <Hz> --low <Hz> --high <Hz> [options]

Description:
  Design a bandpass filter and print its length and its magnitude response
  at a few frequencies.
`)
	sfreq := fs.Float64("sfreq", 0, "sampling frequency in Hz")
	tbw := fs.Float64("tbw", 0, "transition bandwidth in Hz (0 chooses it from the band)")
	low := fs.Float64("low", 0, "lower edge of the pass band in Hz")
	high := fs.Float64("high", 0, "upper edge of the pass band in Hz")
	win := windowOption(fs)
	if err := parse(fs, args, 0, 0); err != nil {
		return err
	}
	w, err := window.Parse(*win)
	if err != nil {
		return err
	}
	if *tbw == 0 {
		*tbw = fir.AutoBandwidth(*sfreq, *low, *high)
	}
	bp, err := fir.NewBandpass(*sfreq, *tbw, fir.WithWindow(w))
	if err != nil {
		return err
	}
	if err := bp.DesignBandpass(*low, *high); err != nil {
		return err
	}
	rt, err := bp.Filter()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(e.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "window\t%s\n", w)
	fmt.Fprintf(tw, "transition\t%g Hz\n", *tbw)
	fmt.Fprintf(tw, "taps\t%d\n", bp.Order())
	fmt.Fprintf(tw, "delay\t%d samples\n", rt.Delay())
	fmt.Fprintf(tw, "\nFrequency\tGain (dB)\n")
	nyquist := *sfreq / 2
	for _, freq := range []float64{0, *low / 2, *low, (*low + *high) / 2, *high, min(2**high, nyquist), nyquist} {
		fmt.Fprintf(tw, "%g\t%.2f\n", freq, rt.MagnitudeDB(freq, *sfreq))
	}
	return tw.Flush()
}
