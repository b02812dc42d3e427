package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/commlog/internal/api"
	"github.com/MikeSquared-Agency/commlog/internal/config"
	"github.com/MikeSquared-Agency/commlog/internal/corpus"
	"github.com/MikeSquared-Agency/commlog/internal/record"
	"github.com/MikeSquared-Agency/commlog/internal/render"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	var (
		collate bool
		style   string
		inputs  []string
		output  string
		addr    string
		watch   bool
	)

	root := &cobra.Command{
		Use:   "commlog",
		Short: "Render exported conversations as a browsable history",
		Long: `Commlog reads chat export files and saved mail messages and writes a
single self-contained HTML page: one deduplicated, chronologically
ordered conversation history.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(inputs, output, style, collate)
		},
	}

	root.PersistentFlags().BoolVarP(&collate, "collate", "c", false, "combine subsequent messages of the same sender")
	root.PersistentFlags().StringVarP(&style, "style", "s", cfg.Style, "stylesheet file instead of the built-in default")
	root.PersistentFlags().StringArrayVarP(&inputs, "input", "i", nil, "input file, repeatable")
	root.MarkPersistentFlagRequired("input")

	root.Flags().StringVarP(&output, "output", "o", "", "output HTML file")
	root.MarkFlagRequired("output")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve the rendered history over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := api.NewServer(api.Options{
				Inputs:  inputs,
				Style:   style,
				Collate: collate,
				Addr:    addr,
				Watch:   watch,
			}, slog.Default())
			if err != nil {
				return err
			}
			return srv.Start()
		},
	}
	serve.Flags().StringVar(&addr, "addr", cfg.Addr, "listen address")
	serve.Flags().BoolVar(&watch, "watch", false, "re-render when an input or the stylesheet changes")
	root.AddCommand(serve)

	if err := root.Execute(); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

// run is the one-shot path: parse, merge, group, render, write.
func run(inputs []string, output, style string, collate bool) error {
	users := record.NewUsers()
	msgs, err := corpus.ProcessFiles(inputs, users)
	if err != nil {
		return err
	}
	view := corpus.BuildView(msgs, inputs, collate)

	css, err := render.LoadStyle(style)
	if err != nil {
		return err
	}
	page, err := render.HTML(view, css)
	if err != nil {
		return err
	}
	if err := render.WriteFile(output, page); err != nil {
		return err
	}

	slog.Info("history written",
		"output", output,
		"inputs", len(inputs),
		"messages", len(msgs),
		"groups", len(view.Groups),
		"senders", users.Len(),
	)
	return nil
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
