package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/arbiterfs/arbiter/arbiter"
)

var flagConfig = &cli.StringFlag{
	Name:  "config",
	Usage: "Inline JSON configuration; merged over the config file, inline wins",
}

var flagLogJSON = &cli.BoolFlag{
	Name:  "log-json",
	Usage: "Log in JSON format",
}

var flagLogDebug = &cli.BoolFlag{
	Name:  "log-debug",
	Usage: "Enable debug logging",
}

var flagVerbose = &cli.BoolFlag{
	Name:    "verbose",
	Aliases: []string{"v"},
	Usage:   "Print per-file progress",
}

func main() {
	app := &cli.App{
		Name:  "arbiter",
		Usage: "uniform access to file, http(s), s3, dropbox and gs storage",
		Flags: []cli.Flag{
			flagConfig,
			flagLogJSON,
			flagLogDebug,
		},
		Commands: []*cli.Command{
			{
				Name:      "cp",
				Usage:     "Copy a file or directory between backends",
				ArgsUsage: "<src> <dst>",
				Flags:     []cli.Flag{flagVerbose},
				Action:    runCopy,
			},
			{
				Name:      "cat",
				Usage:     "Print the contents of an object",
				ArgsUsage: "<path>",
				Action:    runCat,
			},
			{
				Name:      "put",
				Usage:     "Upload a local file to a destination path",
				ArgsUsage: "<local-file> <dst>",
				Action:    runPut,
			},
			{
				Name:      "ls",
				Usage:     "Resolve a glob path and print the matches",
				ArgsUsage: "<glob>",
				Flags:     []cli.Flag{flagVerbose},
				Action:    runList,
			},
			{
				Name:      "exists",
				Usage:     "Exit 0 if the object exists, 1 otherwise",
				ArgsUsage: "<path>",
				Action:    runExists,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newClient(cCtx *cli.Context) (*arbiter.Arbiter, error) {
	logger := setupLogger(cCtx)
	return arbiter.NewWithConfig(cCtx.String(flagConfig.Name), logger)
}

func setupLogger(cCtx *cli.Context) *slog.Logger {
	level := slog.LevelInfo
	if cCtx.Bool(flagLogDebug.Name) {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cCtx.Bool(flagLogJSON.Name) {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

func runCopy(cCtx *cli.Context) error {
	if cCtx.NArg() != 2 {
		return cli.Exit("usage: arbiter cp <src> <dst>", 2)
	}
	a, err := newClient(cCtx)
	if err != nil {
		return err
	}
	return a.Copy(context.Background(), cCtx.Args().Get(0), cCtx.Args().Get(1), cCtx.Bool(flagVerbose.Name))
}

func runCat(cCtx *cli.Context) error {
	if cCtx.NArg() != 1 {
		return cli.Exit("usage: arbiter cat <path>", 2)
	}
	a, err := newClient(cCtx)
	if err != nil {
		return err
	}
	data, err := a.Get(context.Background(), cCtx.Args().First())
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func runPut(cCtx *cli.Context) error {
	if cCtx.NArg() != 2 {
		return cli.Exit("usage: arbiter put <local-file> <dst>", 2)
	}
	a, err := newClient(cCtx)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(cCtx.Args().Get(0))
	if err != nil {
		return err
	}
	return a.Put(context.Background(), cCtx.Args().Get(1), data)
}

func runList(cCtx *cli.Context) error {
	if cCtx.NArg() != 1 {
		return cli.Exit("usage: arbiter ls <glob>", 2)
	}
	a, err := newClient(cCtx)
	if err != nil {
		return err
	}
	paths, err := a.Resolve(context.Background(), cCtx.Args().First(), cCtx.Bool(flagVerbose.Name))
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Println(p)
	}
	return nil
}

func runExists(cCtx *cli.Context) error {
	if cCtx.NArg() != 1 {
		return cli.Exit("usage: arbiter exists <path>", 2)
	}
	a, err := newClient(cCtx)
	if err != nil {
		return err
	}
	if !a.Exists(context.Background(), cCtx.Args().First()) {
		return cli.Exit("", 1)
	}
	return nil
}
