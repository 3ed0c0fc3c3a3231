// Command thermaldoc is the host binary wrapping thermaldoc.Core: a
// CLI for ad-hoc pattern printing and NV-logo maintenance, plus a
// `serve` subcommand exposing the same control surface over HTTP.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/inkwell-labs/thermaldoc/xerr"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		usage()
		return 2
	}
	verb, rest := args[0], args[1:]
	var err error
	switch verb {
	case "print":
		err = runPrint(rest)
	case "weave":
		err = runWeave(rest)
	case "logo":
		err = runLogo(rest)
	case "serve":
		err = runServe(rest)
	case "-h", "--help", "help":
		usage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "thermaldoc: unknown command %q\n", verb)
		usage()
		return 2
	}
	if err == nil {
		return 0
	}
	fmt.Fprintln(os.Stderr, "thermaldoc:", err)
	return exitCode(err)
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: thermaldoc <command> [args]

commands:
  print <pattern-name> [--height N] [--width N] [--png FILE] [--device PATH]
  weave <name>... --length Nmm [--crossfade Nmm] [--curve linear|smooth|ease-in|ease-out] [--png FILE] [--device PATH]
  logo store <file> [--key XX] [--width N] [--device PATH]
  logo delete --key XX [--device PATH]
  logo delete-all [--force] [--device PATH]
  serve [--listen host:port] [--device PATH]`)
}

// exitCode maps an error to spec.md §6's CLI exit codes: 2 invalid
// args, 3 device unreachable, 4 protocol error, 5 cancelled, 1
// otherwise.
func exitCode(err error) int {
	var xe *xerr.Error
	if errors.As(err, &xe) {
		switch xe.Kind {
		case xerr.KindInvalidDocument, xerr.KindInvalidParam:
			return 2
		case xerr.KindDeviceUnavailable, xerr.KindWriteTimedOut:
			return 3
		case xerr.KindProtocolInvariantViolated, xerr.KindImageFetchFailed:
			return 4
		case xerr.KindCancelled:
			return 5
		}
	}
	return 1
}
