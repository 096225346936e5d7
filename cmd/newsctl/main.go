package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"news-reader/config"
	"news-reader/internal/app"
	"news-reader/internal/cache"
	"news-reader/internal/database"
	"news-reader/internal/domain"
	"news-reader/internal/logging"
	"news-reader/internal/news"
	"news-reader/internal/service"
)

const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitUsageError   = 2
	ExitDataError    = 3
)

type providerFactory func(cfg *config.Config, logger *slog.Logger) news.Provider

func main() {
	if err := newApp(os.Stdout, app.NewProvider).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitGeneralError)
	}
}

func newApp(out io.Writer, providerFor providerFactory) *cli.App {
	providerFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    "provider",
			Aliases: []string{"p"},
			Usage:   "News provider (newsdata, worldnews, apitube, rss)",
		},
		&cli.StringFlag{
			Name:    "query",
			Aliases: []string{"q"},
			Usage:   "Extra query string merged into the provider endpoint",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Print JSON instead of a table",
		},
	}

	return &cli.App{
		Name:      "newsctl",
		Usage:     "Inspect the news feed and manage the news-reader database",
		Writer:    out,
		ErrWriter: out,
		Commands: []*cli.Command{
			{
				Name:   "fetch",
				Usage:  "Fetch and print the normalized article list",
				Flags:  providerFlags,
				Action: func(c *cli.Context) error { return fetchArticles(c, providerFor) },
			},
			{
				Name:      "find",
				Usage:     "Fetch the list and print one article",
				ArgsUsage: "<id>",
				Flags:     providerFlags,
				Action:    func(c *cli.Context) error { return findArticle(c, providerFor) },
			},
			{
				Name:   "migrate",
				Usage:  "Apply the database schema",
				Action: migrate,
			},
		},
	}
}

func loadConfig(c *cli.Context) (*config.Config, *slog.Logger) {
	cfg := config.Load()
	if p := c.String("provider"); p != "" {
		cfg.NewsProvider = p
	}
	if q := c.String("query"); q != "" {
		cfg.NewsQuery = q
	}
	return cfg, logging.NewWithWriter(os.Stderr, cfg.LogLevel, false)
}

func fetchArticles(c *cli.Context, providerFor providerFactory) error {
	cfg, logger := loadConfig(c)
	provider := providerFor(cfg, logger)

	articles, err := provider.FetchArticles(c.Context)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}

	if c.Bool("json") {
		return outputJSON(c.App.Writer, articles)
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPUBLISHED\tTITLE")
	for _, a := range articles {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", a.ID, a.PublishedAt, a.Title)
	}
	return tw.Flush()
}

func findArticle(c *cli.Context, providerFor providerFactory) error {
	if c.NArg() < 1 {
		return cli.Exit("Usage: newsctl find <id>", ExitUsageError)
	}
	id := c.Args().Get(0)

	cfg, logger := loadConfig(c)
	articles := service.NewArticleService(providerFor(cfg, logger), cache.NewArticles(0))

	ctx := logging.WithLogger(c.Context, logger)
	article, err := articles.Find(ctx, id)
	if errors.Is(err, domain.ErrArticleNotFound) {
		return cli.Exit(fmt.Sprintf("article %q not found", id), ExitDataError)
	}
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}

	if c.Bool("json") {
		return outputJSON(c.App.Writer, article)
	}

	w := c.App.Writer
	fmt.Fprintf(w, "ID:        %s\n", article.ID)
	fmt.Fprintf(w, "Title:     %s\n", article.Title)
	fmt.Fprintf(w, "Author:    %s\n", article.Author)
	fmt.Fprintf(w, "Published: %s\n", article.PublishedAt)
	if article.Link != "" {
		fmt.Fprintf(w, "Link:      %s\n", article.Link)
	}
	fmt.Fprintf(w, "\n%s\n", article.Body)
	return nil
}

func migrate(c *cli.Context) error {
	cfg := config.Load()

	manager, err := database.NewManager(c.Context, app.DatabaseConfig(cfg))
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer manager.Close()

	fmt.Fprintln(c.App.Writer, "migrations applied")
	return nil
}

func outputJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
