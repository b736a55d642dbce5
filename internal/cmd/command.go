// Package cmd implements the zipt command surface as thin callers of the core pipelines.
package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/jessevdk/go-flags"
)

// Zipt is the top-level command group.
type Zipt struct {
	LogFile flags.Filename `long:"log" value-name:"FILE" description:"append logs to this file instead of stderr"`

	Compress Compress `command:"compress" alias:"c" description:"compress a file or directory into a zip archive"`
	Extract  Extract  `command:"extract" alias:"x" description:"extract a zip archive"`
	List     List     `command:"list" alias:"l" description:"list the contents of a zip archive"`
}

// NewParser builds the CLI parser. The command handler wires the logging sink into the selected
// command before dispatching, so the sink's lifetime is exactly one invocation.
func NewParser() (*flags.Parser, error) {
	opts := &Zipt{}

	p := flags.NewNamedParser("zipt", flags.Default)
	if _, err := p.AddGroup("Global Options", "", opts); err != nil {
		return nil, err
	}

	p.CommandHandler = func(command flags.Commander, args []string) error {
		logger, closeFn, err := newLogger(string(opts.LogFile))
		if err != nil {
			return err
		}
		defer closeFn()

		switch c := command.(type) {
		case *Compress:
			c.logger = logger
		case *Extract:
			c.logger = logger
		case *List:
			c.logger = logger
		}

		return command.Execute(args)
	}

	return p, nil
}

// newLogger returns the explicitly owned logging sink for this invocation along with its
// cleanup function.
func newLogger(name string) (*log.Logger, func(), error) {
	if name == "" {
		return log.New(os.Stderr, "", log.LstdFlags), func() {}, nil
	}

	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf(`open log file "%s" error: %w`, name, err)
	}

	return log.New(f, "", log.LstdFlags), func() { _ = f.Close() }, nil
}
