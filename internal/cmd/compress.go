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

type Compress struct {
	Output         flags.Filename `short:"o" long:"output" description:"the output archive; defaults to the source's name with a .zip extension"`
	Level          int            `short:"l" long:"level" default:"6" description:"compression level from 0 (store) to 9 (best); out-of-range values are clamped"`
	FollowSymlinks bool           `short:"L" long:"follow-symlinks" description:"archive the targets of symlinks to regular files instead of skipping them; linked directories are not descended"`
	Args           struct {
		Source flags.Filename `positional-arg-name:"source" description:"the file or directory to compress" required:"yes"`
	} `positional-args:"yes"`

	logger *log.Logger
}

func (c *Compress) Execute(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("unknown positional arguments: %s", strings.Join(args, " "))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()

	source := string(c.Args.Source)

	relay := zipt.NewRelay()
	done := make(chan struct{})
	go renderRelay(relay, fmt.Sprintf(`compressing "%s"`, filepath.Base(source)), done)

	result, err := zipt.Run(ctx, zipt.Job{
		Kind: zipt.KindCompress,
		Compress: &zipt.CompressionJob{
			SourcePath:      source,
			DestinationPath: string(c.Output),
			Level:           c.Level,
			FollowSymlinks:  c.FollowSymlinks,
		},
	}, func(o *zipt.RunOptions) {
		o.Relay = relay
		o.Logger = c.logger
	})
	<-done
	if err != nil {
		c.logger.Printf(`compress "%s" error: %v`, source, err)
		return err
	}

	s := result.Summary
	c.logger.Printf(`compressed %d files (%s) into "%s" in %.2fs`,
		s.Entries, humanize.IBytes(uint64(s.Bytes)), s.Output, s.Duration.Seconds())
	return nil
}
