package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := newCommand(os.Stdin, os.Stdout, os.Stderr)
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "mdfmt: %v\n", err)
		os.Exit(1)
	}
}

func newCommand(stdin io.Reader, stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "mdfmt",
		Usage:     "rewrite CommonMark documents in canonical form",
		ArgsUsage: "[path to Markdown file...]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "width",
				Aliases: []string{"w"},
				Usage:   "the maximum line width for wrappable content (0 disables wrapping)",
			},
			&cli.BoolFlag{
				Name:  "hardbreaks",
				Usage: "render soft breaks as spaces and hard breaks as bare newlines",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "read settings from `FILE` instead of searching for .mdfmt.{toml,yaml,yml}",
			},
			&cli.BoolFlag{
				Name:    "write",
				Aliases: []string{"i"},
				Usage:   "rewrite files in place instead of printing them",
			},
			&cli.BoolFlag{
				Name:    "list",
				Aliases: []string{"l"},
				Usage:   "list files whose formatting differs from mdfmt's",
			},
			&cli.StringFlag{
				Name:  "section",
				Usage: "format only the section with the given heading `ANCHOR`",
			},
			&cli.StringFlag{
				Name:  "color",
				Value: "auto",
				Usage: "colorize output: auto, always or never",
			},
			&cli.StringFlag{
				Name:  "style",
				Usage: "the chroma style used to colorize output",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log debug information to stderr",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logrus.New()
			log.SetOutput(stderr)
			log.SetLevel(logrus.WarnLevel)
			if cmd.Bool("verbose") {
				log.SetLevel(logrus.DebugLevel)
			}

			s, err := newSettings(cmd, stdout)
			if err != nil {
				return err
			}
			f := &formatter{settings: s, log: log, stdout: stdout}

			paths := cmd.Args().Slice()
			if len(paths) == 0 {
				if s.write || s.list {
					return fmt.Errorf("--write and --list require file arguments")
				}
				return f.formatStdin(stdin)
			}
			for _, path := range paths {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := f.formatFile(path); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
