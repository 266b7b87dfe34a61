// SPDX-License-Identifier: EPL-2.0

// Command audpeaks imports audio files into a library, generates their
// waveforms in the background and draws them in the terminal.
//
// Usage:
//
//	audpeaks [-config file] [-width cols] [-rows n] import [-warm] <dir>
//	audpeaks [-config file] [-width cols] [-rows n] show <track-id|file>
//	audpeaks [-config file] list
//	audpeaks [-config file] clear-cache
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
)

const usage = `usage: audpeaks [flags] <command> [args]

commands:
  import [-warm] <dir>    add every supported audio file under dir
  show <track-id|file>    generate (or load) a waveform and draw it
  list                    list library tracks
  clear-cache             remove every cached waveform

flags:
`

var errUsage = errors.New("invalid usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	if errors.Is(err, errUsage) {
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "audpeaks:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("audpeaks", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	configPath := fs.String("config", os.Getenv("AUDPEAKS_CONFIG"), "YAML configuration file")
	width := fs.Int("width", 80, "waveform width in terminal columns")
	rows := fs.Int("rows", 8, "waveform height in terminal rows")

	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errUsage
	}

	a, err := newApp(*configPath, stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "import":
		return a.importCmd(ctx, rest, stdout)
	case "show":
		if len(rest) != 1 {
			fs.Usage()
			return errUsage
		}
		return a.show(ctx, rest[0], *width, *rows, stdout, stderr)
	case "list":
		return a.list(ctx, stdout)
	case "clear-cache":
		return a.clearCache(ctx, stdout)
	}

	fmt.Fprintf(stderr, "unknown command %q\n", cmd)
	fs.Usage()
	return errUsage
}
