package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli/v3"
	"tlog.app/go/errors"

	"github.com/hugr-lab/odata-go"
	"github.com/hugr-lab/odata-go/internal/logging"
	"github.com/hugr-lab/odata-go/internal/recovery"
)

type app struct {
	out    io.Writer
	logErr io.Writer

	parser *odata.Parser
	logger *slog.Logger
	closer io.Closer
}

func newApp(out, logErr io.Writer) *cli.Command {
	a := &app{out: out, logErr: logErr}

	return &cli.Command{
		Name:      "odataq",
		Usage:     "parse OData-style query options",
		Writer:    out,
		ErrWriter: logErr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config `FILE`", TakesFile: true},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
			&cli.StringFlag{Name: "log-file", Usage: "also write logs to `FILE`, rotated by size", TakesFile: true},
		},
		Before: a.before,
		After:  a.after,
		Commands: []*cli.Command{
			{
				Name:      "parse",
				Usage:     "parse each query and print the options",
				ArgsUsage: "QUERY...",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:      "format",
						Aliases:   []string{"f"},
						Value:     "json",
						Usage:     strings.Join(formats, "|"),
						Validator: validateFormat,
					},
				},
				Action: a.parseCmd,
			},
			{
				Name:      "token",
				Usage:     "print the opaque page token for a query",
				ArgsUsage: "QUERY",
				Action:    a.tokenCmd,
			},
			{
				Name:      "decode",
				Usage:     "print the options carried by a page token as JSON",
				ArgsUsage: "TOKEN",
				Action:    a.decodeCmd,
			},
			{
				Name:      "watch",
				Usage:     "re-parse every line of a file whenever it changes",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "text", Validator: validateFormat},
				},
				Action: a.watchCmd,
			},
		},
	}
}

func (a *app) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := loadConfig(cmd.String("config"))
	if err != nil {
		return ctx, err
	}

	if cmd.IsSet("log-level") {
		cfg.Log.Level = cmd.String("log-level")
	}
	if cmd.IsSet("log-file") {
		cfg.Log.File = cmd.String("log-file")
	}

	a.logger, a.closer = logging.NewWithWriter(cfg.Log, a.logErr)

	pcfg := cfg.odataConfig()
	pcfg.Logger = a.logger
	a.parser = odata.NewParser(pcfg)

	return ctx, nil
}

func (a *app) after(ctx context.Context, cmd *cli.Command) error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

func (a *app) parseCmd(ctx context.Context, cmd *cli.Command) error {
	queries := cmd.Args().Slice()
	if len(queries) == 0 {
		return errors.New("at least one query expected")
	}

	for _, q := range queries {
		opts, err := a.parser.Parse(q)
		if err != nil {
			return errors.Wrap(err, "query %q", q)
		}
		if err := writeOptions(a.out, opts, cmd.String("format")); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) tokenCmd(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return errors.New("exactly one query expected")
	}

	opts, err := a.parser.Parse(cmd.Args().First())
	if err != nil {
		return err
	}
	return writeOptions(a.out, opts, "token")
}

func (a *app) decodeCmd(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return errors.New("exactly one token expected")
	}

	opts, err := odata.DecodeToken(cmd.Args().First())
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(opts, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal json")
	}
	_, err = fmt.Fprintf(a.out, "%s\n", data)
	return err
}

func (a *app) watchCmd(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return errors.New("exactly one file expected")
	}
	path := cmd.Args().First()
	format := cmd.String("format")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "new watcher")
	}
	defer watcher.Close()

	// Editors often replace the file, so watch its directory.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return errors.Wrap(err, "watch %v", path)
	}

	a.reparse(path, format)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				a.reparse(path, format)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn("Watcher error", "error", err)
		}
	}
}

// reparse prints the options of every non-empty line of path. Bad lines
// are reported and skipped.
func (a *app) reparse(path, format string) {
	recovery.Guard(a.logger, "Reparse", func() {
		data, err := os.ReadFile(path)
		if err != nil {
			a.logger.Error("Failed to read queries", "file", path, "error", err)
			return
		}

		var buf bytes.Buffer
		s := bufio.NewScanner(bytes.NewReader(data))
		for line := 1; s.Scan(); line++ {
			q := strings.TrimSpace(s.Text())
			if q == "" {
				continue
			}

			opts, err := a.parser.Parse(q)
			if err != nil {
				fmt.Fprintf(&buf, "%s:%d: %v\n", path, line, err)
				continue
			}
			if err := writeOptions(&buf, opts, format); err != nil {
				fmt.Fprintf(&buf, "%s:%d: %v\n", path, line, err)
			}
		}

		a.out.Write(buf.Bytes())
	})
}
