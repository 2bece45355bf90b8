package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/chroma"
	"github.com/pgavlin/cmfmt/indexer"
	"github.com/pgavlin/cmfmt/internal/config"
	"github.com/pgavlin/cmfmt/internal/highlight"
	"github.com/pgavlin/cmfmt/parser"
	"github.com/pgavlin/cmfmt/renderer"
	"github.com/pgavlin/cmfmt/styles"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

type settings struct {
	options renderer.Options
	section string
	write   bool
	list    bool

	// style is nil if output is not colorized.
	style *chroma.Style
}

// newSettings merges the configuration file with the command line. Flags that are set override the file.
func newSettings(cmd *cli.Command, stdout io.Writer) (*settings, error) {
	path := cmd.String("config")
	if path == "" {
		found, err := config.Find(".")
		if err != nil {
			return nil, fmt.Errorf("searching for configuration: %w", err)
		}
		path = found
	}

	var conf config.Config
	if path != "" {
		c, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("loading configuration: %w", err)
		}
		conf = c
	}

	if cmd.IsSet("width") {
		conf.Width = cmd.Int("width")
		if conf.Width < 0 {
			return nil, fmt.Errorf("width must not be negative (got %d)", conf.Width)
		}
	}
	if cmd.IsSet("hardbreaks") {
		conf.HardBreaks = cmd.Bool("hardbreaks")
	}
	if cmd.IsSet("style") {
		conf.Style = cmd.String("style")
	}

	s := &settings{
		options: conf.Options(),
		section: cmd.String("section"),
		write:   cmd.Bool("write"),
		list:    cmd.Bool("list"),
	}
	if s.write && s.section != "" {
		return nil, fmt.Errorf("--write cannot be combined with --section")
	}

	var colorize bool
	switch mode := cmd.String("color"); mode {
	case "always":
		colorize = true
	case "never":
		colorize = false
	case "auto":
		if f, ok := stdout.(*os.File); ok {
			colorize = term.IsTerminal(int(f.Fd()))
		}
	default:
		return nil, fmt.Errorf("unknown color mode %q", mode)
	}
	if colorize && !s.write && !s.list {
		style, err := styles.Get(conf.Style)
		if err != nil {
			return nil, err
		}
		s.style = style
	}

	return s, nil
}

type formatter struct {
	*settings

	log    *logrus.Logger
	stdout io.Writer
}

// format parses source and renders it in canonical form.
func (f *formatter) format(name string, source []byte) ([]byte, error) {
	tree := parser.Parse(source)

	if f.section != "" {
		section, ok := indexer.Index(tree).Extract(f.section)
		if !ok {
			return nil, fmt.Errorf("%v: no section with anchor %q", name, f.section)
		}
		tree = section
	}

	var buf bytes.Buffer
	if err := renderer.New(renderer.WithOptions(f.options)).Render(&buf, tree); err != nil {
		return nil, fmt.Errorf("rendering %v: %w", name, err)
	}

	f.log.WithFields(logrus.Fields{
		"path":  name,
		"width": f.options.Width,
		"bytes": buf.Len(),
	}).Debug("formatted")

	return buf.Bytes(), nil
}

func (f *formatter) print(formatted []byte) error {
	if f.style != nil {
		return highlight.Write(f.stdout, string(formatted), f.style, "terminal16m")
	}
	_, err := f.stdout.Write(formatted)
	return err
}

func (f *formatter) formatStdin(stdin io.Reader) error {
	source, err := io.ReadAll(stdin)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}
	formatted, err := f.format("<stdin>", source)
	if err != nil {
		return err
	}
	return f.print(formatted)
}

func (f *formatter) formatFile(path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %v: %w", path, err)
	}
	formatted, err := f.format(path, source)
	if err != nil {
		return err
	}

	if !f.write && !f.list {
		return f.print(formatted)
	}

	if bytes.Equal(source, formatted) {
		f.log.WithField("path", path).Debug("already formatted")
		return nil
	}
	if f.list {
		if _, err := fmt.Fprintln(f.stdout, path); err != nil {
			return err
		}
	}
	if f.write {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, formatted, info.Mode().Perm()); err != nil {
			return fmt.Errorf("writing %v: %w", path, err)
		}
		f.log.WithField("path", path).Debug("rewrote")
	}
	return nil
}
