// Command interp runs an RPAL program through the standardizer, control
// structure builder, and CSE machine (package rpal). Flag parsing follows
// the teacher's tools/jitgen style: a manual prefix scan over os.Args rather
// than the flag package, since none of the pack's own command-line tools
// reach for one either.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/docker/go-units"

	"github.com/rpal-lang/rpal/rpal"
)

type cliOptions struct {
	echoSource bool
	dumpAST    bool
	dumpStd    bool
	tracePath  string
	serveAddr  string
	memStats   bool
	watch      bool
	input      string
}

func parseArgs(args []string) (cliOptions, error) {
	var o cliOptions
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "-l":
			o.echoSource = true
		case a == "-ast":
			o.dumpAST = true
		case a == "-st":
			o.dumpStd = true
		case a == "-mem-stats":
			o.memStats = true
		case a == "-watch":
			o.watch = true
		case a == "-trace":
			if i+1 >= len(args) {
				return o, fmt.Errorf("-trace requires a file path")
			}
			i++
			o.tracePath = args[i]
		case a == "-serve":
			if i+1 >= len(args) {
				return o, fmt.Errorf("-serve requires an address")
			}
			i++
			o.serveAddr = args[i]
		case strings.HasPrefix(a, "-"):
			return o, fmt.Errorf("unrecognized flag %q", a)
		default:
			if o.input != "" {
				return o, fmt.Errorf("unexpected extra argument %q", a)
			}
			o.input = a
		}
	}
	if o.input == "" {
		return o, fmt.Errorf("usage: interp [-l] [-ast] [-st] [-trace FILE] [-serve ADDR] [-mem-stats] [-watch] <input-file>")
	}
	return o, nil
}

func main() {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	exitCode := 0
	// The interpreter's own errors surface as *rpal.RpalError panics
	// (package rpal's internal fail()); this is the one place that recovers
	// them into a process exit code, mirroring the "anti-panic func" the
	// teacher installs around its own REPL loop in scm/prompt.go.
	func() {
		defer func() {
			if r := recover(); r != nil {
				if re, ok := r.(*rpal.RpalError); ok {
					fmt.Fprintln(os.Stderr, "error:", re.Error())
					exitCode = exitCodeFor(re.Kind)
					return
				}
				panic(r)
			}
		}()

		run := func() {
			if err := runOnce(opts); err != nil {
				fmt.Fprintln(os.Stderr, "error:", err)
				exitCode = 1
				if re, ok := err.(*rpal.RpalError); ok {
					exitCode = exitCodeFor(re.Kind)
				}
			}
		}

		if opts.watch {
			stop := make(chan struct{})
			rerun := func() {
				if err := rpal.Try(run); err != nil {
					fmt.Fprintln(os.Stderr, "error:", err)
				}
			}
			if err := rpal.Watch(opts.input, stop, rerun); err != nil {
				fmt.Fprintln(os.Stderr, "watch error:", err)
				exitCode = 1
			}
			return
		}
		run()
	}()

	os.Exit(exitCode)
}

func exitCodeFor(kind rpal.ErrorKind) int {
	switch kind {
	case rpal.LexError, rpal.ParseError:
		return 3
	case rpal.MalformedTree:
		return 4
	case rpal.InputError:
		return 5
	default:
		return 1
	}
}

func runOnce(opts cliOptions) error {
	ctx := context.Background()
	src, err := rpal.LoadSource(ctx, opts.input)
	if err != nil {
		return err
	}

	if opts.echoSource {
		fmt.Println(src)
	}

	ast := rpal.Parse(src)
	if opts.dumpAST {
		fmt.Println(rpal.DumpAST(ast))
		return nil
	}

	var server *rpal.TraceServer
	if opts.serveAddr != "" {
		server = rpal.NewTraceServer()
		go func() {
			if err := server.Serve(opts.serveAddr); err != nil {
				fmt.Fprintln(os.Stderr, "trace server stopped:", err)
			}
		}()
	}

	var tracer *rpal.Tracer
	if opts.tracePath != "" {
		tracer, err = rpal.NewTracer(opts.tracePath)
		if err != nil {
			return err
		}
		tracer.Server = server
		defer tracer.Close()
	}

	std := rpal.Standardize(ast)
	if opts.dumpStd {
		fmt.Println(rpal.DumpAST(std))
		return nil
	}

	deltas := rpal.BuildControlFromStandardized(std)
	machine := rpal.NewMachineTraced(deltas, tracer)
	result := machine.Run()

	if result.Kind != rpal.VDummy {
		fmt.Println(rpal.Stringify(result))
	}

	if opts.memStats {
		fmt.Fprintf(os.Stderr, "memory: %s (%d steps)\n",
			units.HumanSize(float64(machine.Env.ComputeSize())), machine.Steps)
	}
	return nil
}
