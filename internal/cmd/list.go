package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jessevdk/go-flags"
	"github.com/nguyengg/zipt"
)

type List struct {
	Args struct {
		Archive flags.Filename `positional-arg-name:"archive" description:"the zip archive to list" required:"yes"`
	} `positional-args:"yes"`

	logger *log.Logger
}

const nameWidth = 40

func (c *List) Execute(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("unknown positional arguments: %s", strings.Join(args, " "))
	}

	result, err := zipt.Run(context.Background(), zipt.Job{
		Kind: zipt.KindList,
		List: &zipt.ListJob{ArchivePath: string(c.Args.Archive)},
	}, func(o *zipt.RunOptions) {
		o.Logger = c.logger
	})
	if err != nil {
		c.logger.Printf(`list "%s" error: %v`, c.Args.Archive, err)
		return err
	}

	r := result.Report
	fmt.Printf("Archive: %s\n", r.Path)
	fmt.Printf("Files: %d, directories: %d\n", r.Files, r.Dirs)
	fmt.Printf("Total: %s (compressed: %s, ratio: %d%%)\n\n",
		humanize.IBytes(r.UncompressedSize), humanize.IBytes(r.CompressedSize), r.Ratio)

	fmt.Printf("%-*s %12s %12s %6s %-19s\n", nameWidth, "Name", "Size", "Compressed", "Ratio", "Modified")
	fmt.Println(strings.Repeat("-", nameWidth+54))
	for _, e := range r.Entries {
		fmt.Printf("%-*s %12s %12s %5d%% %-19s\n",
			nameWidth, truncateLeft(e.Name, nameWidth),
			humanize.IBytes(e.UncompressedSize),
			humanize.IBytes(e.CompressedSize),
			e.Ratio,
			e.Modified.Format("2006-01-02 15:04:05"))
	}

	c.logger.Printf(`listed %d entries in "%s"`, len(r.Entries), r.Path)
	return nil
}

// truncateLeft keeps the rightmost part of text so that the result is at most n runes,
// prefixing "..." only if truncation happens.
func truncateLeft(text string, n int) string {
	rs := []rune(text)
	if len(rs) <= n {
		return text
	}

	return "..." + string(rs[len(rs)-n+3:])
}
