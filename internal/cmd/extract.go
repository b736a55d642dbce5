package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jessevdk/go-flags"
	"github.com/nguyengg/zipt"
)

type Extract struct {
	OutputDir flags.Filename `short:"d" long:"output-dir" description:"the directory to extract into; defaults to the archive's name without extension"`
	Overwrite bool           `short:"f" long:"overwrite" description:"overwrite existing files instead of skipping them"`
	Args      struct {
		Archive flags.Filename `positional-arg-name:"archive" description:"the zip archive to extract" required:"yes"`
	} `positional-args:"yes"`

	logger *log.Logger
}

func (c *Extract) Execute(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("unknown positional arguments: %s", strings.Join(args, " "))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()

	archive := string(c.Args.Archive)

	relay := zipt.NewRelay()
	done := make(chan struct{})
	go renderRelay(relay, fmt.Sprintf(`extracting "%s"`, filepath.Base(archive)), done)

	result, err := zipt.Run(ctx, zipt.Job{
		Kind: zipt.KindExtract,
		Extract: &zipt.ExtractionJob{
			ArchivePath: archive,
			OutputDir:   string(c.OutputDir),
			Overwrite:   c.Overwrite,
		},
	}, func(o *zipt.RunOptions) {
		o.Relay = relay
		o.Logger = c.logger
	})
	<-done
	if err != nil {
		c.logger.Printf(`extract "%s" error: %v`, archive, err)
		return err
	}

	s := result.Summary
	c.logger.Printf(`extracted %d entries (%s, %d skipped) into "%s" in %.2fs`,
		s.Entries, humanize.IBytes(uint64(s.Bytes)), s.Skipped, s.Output, s.Duration.Seconds())
	return nil
}
