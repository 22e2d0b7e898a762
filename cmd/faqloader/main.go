// Copyright 2026 JDeepLearn
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	faqloader "github.com/JDeepLearn/faq-data-loader"
	"github.com/JDeepLearn/faq-data-loader/config"
	"github.com/JDeepLearn/faq-data-loader/core"
	"github.com/JDeepLearn/faq-data-loader/logging"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "faqloader",
		Usage: "Embed FAQ records and load them into a vector-searchable document store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"FAQ_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "Set log output format (text, json)",
				Value:   "text",
				EnvVars: []string{"FAQ_LOG_FORMAT"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "load",
				Usage:  "Embed and store the records of a JSON file",
				Action: loadCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to the JSON array of FAQ records",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "ensure-index",
						Usage: "Provision the vector search index before writing",
						Value: true,
					},
					&cli.BoolFlag{
						Name:  "progress",
						Usage: "Report progress to stderr",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of records processed concurrently",
					},
					&cli.StringFlag{
						Name:  "durability",
						Usage: "Write durability (none, majority, majority_and_persist_to_active, persist_to_majority)",
					},
					&cli.StringFlag{
						Name:  "write-mode",
						Usage: "Write mode (upsert, insert)",
					},
					&cli.StringFlag{
						Name:  "id-strategy",
						Usage: "Document id strategy (content, run)",
					},
				}, connectionFlags()...),
			},
			{
				Name:   "ensure-index",
				Usage:  "Provision the vector search index and exit",
				Action: ensureIndexCommand,
				Flags:  connectionFlags(),
			},
			{
				Name:      "get",
				Usage:     "Print a stored document as JSON",
				ArgsUsage: "<id>",
				Action:    getCommand,
				Flags:     connectionFlags(),
			},
			{
				Name:      "id",
				Usage:     "Print the content-addressed id of a question",
				ArgsUsage: "<question>",
				Action:    idCommand,
			},
		},
	}
}

// connectionFlags override the environment for the backing services.
func connectionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "store",
			Usage: "Document store (couchbase, badger)",
		},
		&cli.StringFlag{
			Name:  "badger-dir",
			Usage: "Path to BadgerDB directory when --store=badger",
		},
		&cli.StringFlag{
			Name:  "embedding-backend",
			Usage: "Embedding backend (http, openai, mock)",
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
		},
		&cli.StringFlag{
			Name:  "couchbase",
			Usage: "Couchbase connection string",
		},
		&cli.StringFlag{
			Name:  "bucket",
			Usage: "Couchbase bucket",
		},
		&cli.StringFlag{
			Name:  "search-url",
			Usage: "Search service admin URL",
		},
	}
}

// loadConfig reads the environment and applies flags set on the command line.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	overrides := map[string]*string{
		"store":             &cfg.Pipeline.Store,
		"badger-dir":        &cfg.Pipeline.BadgerDir,
		"embedding-backend": &cfg.Embedding.Backend,
		"embedding-host":    &cfg.Embedding.Host,
		"couchbase":         &cfg.Couchbase.ConnectionString,
		"bucket":            &cfg.Couchbase.Bucket,
		"search-url":        &cfg.Search.URL,
		"durability":        &cfg.Pipeline.Durability,
		"write-mode":        &cfg.Pipeline.WriteMode,
		"id-strategy":       &cfg.Pipeline.IDStrategy,
	}
	for name, dst := range overrides {
		if c.IsSet(name) {
			*dst = c.String(name)
		}
	}
	if c.IsSet("workers") {
		cfg.Pipeline.Workers = c.Int("workers")
	}
	if c.IsSet("ensure-index") {
		cfg.Search.EnsureIndex = c.Bool("ensure-index")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openLoader(c *cli.Context, opts ...faqloader.LoaderOption) (*faqloader.Loader, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	opts = append(opts, faqloader.WithLogger(slog.Default()))
	return faqloader.Open(cfg, opts...)
}

func loadCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []faqloader.LoaderOption
	if c.Bool("progress") {
		opts = append(opts, faqloader.WithProgress(os.Stderr))
	}
	loader, err := openLoader(c, opts...)
	if err != nil {
		return err
	}
	defer loader.Close()

	outcome, err := loader.LoadFile(ctx, c.String("file"))
	fmt.Fprintln(c.App.Writer, outcome.String())
	for _, w := range outcome.Warnings {
		fmt.Fprintf(c.App.Writer, "warning: %s\n", w)
	}
	if err != nil {
		return err
	}
	if outcome.Failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d records failed", outcome.Failed, outcome.Total()), 1)
	}
	return nil
}

func ensureIndexCommand(c *cli.Context) error {
	loader, err := openLoader(c)
	if err != nil {
		return err
	}
	defer loader.Close()

	state, err := loader.EnsureIndex(c.Context)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "index %s\n", state)
	return nil
}

func getCommand(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("document id is required")
	}

	loader, err := openLoader(c)
	if err != nil {
		return err
	}
	defer loader.Close()

	doc, err := loader.Get(c.Context, id)
	if err != nil {
		return err
	}
	// The id is the storage key, not a body field.
	out := struct {
		ID string `json:"id"`
		*core.Document
	}{ID: doc.ID, Document: doc}
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func idCommand(c *cli.Context) error {
	question := c.Args().First()
	if core.IsBlank(question) {
		return fmt.Errorf("question is required")
	}
	fmt.Fprintln(c.App.Writer, core.ContentID(question))
	return nil
}

func setupLogger(c *cli.Context) error {
	level, err := logging.ParseLevel(c.String("log-level"))
	if err != nil {
		return err
	}
	logger, err := logging.New(os.Stderr, level, c.String("log-format"))
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	return nil
}
