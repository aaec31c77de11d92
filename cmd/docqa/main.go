// Command docqa answers questions about a single document.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"docqa/internal/config"
	"docqa/internal/logging"
	"docqa/internal/service"
	"docqa/internal/summarizer"
	"docqa/internal/tui"
)

const (
	Version = "0.1.0"
	appName = "docqa"
)

func main() {
	_ = godotenv.Load()
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type globalFlags struct {
	configPath string
	logLevel   string
}

func rootCmd() *cobra.Command {
	g := &globalFlags{}
	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Ask questions about a document",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "Path to YAML config file (defaults to ./config.yaml or ~/.config/docqa/config.yaml)")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides config")

	cmd.AddCommand(askCmd(g), tuiCmd(g), summarizeCmd(), configCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})
	return cmd
}

// setup loads configuration and wires the service. Logs go to stderr.
func (g *globalFlags) setup(stderr io.Writer) (*service.RAGService, *slog.Logger, error) {
	cfg, err := loadConfig(g.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	level := cfg.Log.Level
	if g.logLevel != "" {
		level = g.logLevel
	}
	logger := logging.Setup(level, stderr)
	svc, err := buildService(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return svc, logger, nil
}

// ingestSource accepts a file path, "-" for stdin, or a URL.
func ingestSource(ctx context.Context, svc *service.RAGService, source string, stdin io.Reader) (string, error) {
	switch {
	case source == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return svc.IngestUpload(ctx, string(data))
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		dir, err := os.MkdirTemp("", "docqa-*")
		if err != nil {
			return "", err
		}
		defer os.RemoveAll(dir)
		return svc.IngestURL(ctx, source, dir)
	default:
		return svc.IngestFile(ctx, source)
	}
}

func askCmd(g *globalFlags) *cobra.Command {
	var (
		questions    []string
		topK         int
		showPassages bool
	)
	cmd := &cobra.Command{
		Use:   "ask <file|url|->",
		Short: "Ingest a document and answer one or more questions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(questions) == 0 {
				return fmt.Errorf("at least one --question is required")
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			svc, _, err := g.setup(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			id, err := ingestSource(ctx, svc, args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			clauses := summarizer.NewClauseSummarizer()
			out := cmd.OutOrStdout()
			for _, q := range questions {
				ans, err := svc.Ask(ctx, id, q)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Q: %s\nA: %s\n", q, ans.Text)
				if showPassages {
					res := ans.Result
					if topK > 0 {
						if res, err = svc.Search(ctx, id, q, topK); err != nil {
							return err
						}
					}
					fmt.Fprintf(out, "   route=%s candidates=%d fallback=%t\n", res.Route, res.Candidates, res.Fallback)
					for i, p := range res.Passages {
						fmt.Fprintf(out, "   [%d] %s (distance=%.4f)\n       %s\n", i+1, p.Text, p.Distance, clauses.Summarize(p.Text))
					}
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&questions, "question", "q", nil, "Question to answer (repeatable)")
	cmd.Flags().IntVar(&topK, "top-k", 0, "Vector hits to consider when showing passages (0 uses config)")
	cmd.Flags().BoolVar(&showPassages, "passages", false, "Print retrieved passages")
	return cmd
}

func tuiCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui <file|url>",
		Short: "Ingest a document and open the interactive question UI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			// keep logs out of the terminal UI
			svc, _, err := g.setup(io.Discard)
			if err != nil {
				return err
			}
			id, err := ingestSource(ctx, svc, args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			summary, err := svc.Summary(id)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(tui.New(svc, id, summary)).Run()
			return err
		},
	}
}

func summarizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summarize <clause>...",
		Short: "Classify policy clauses with rule-based verdicts",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			s := summarizer.NewClauseSummarizer()
			for _, clause := range args {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n  -> %s\n", clause, s.Summarize(clause))
			}
		},
	}
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Manage configuration"}
	cmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				p, err := config.DefaultUserConfigPath()
				if err != nil {
					return err
				}
				path = p
			}
			if err := config.Save(path, config.Default()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	})
	return cmd
}
