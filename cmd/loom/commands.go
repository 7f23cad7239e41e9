package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/eringen/loomreport"
	"github.com/eringen/loomreport/digest"
	"github.com/eringen/loomreport/imaging"
	"github.com/eringen/loomreport/ledger"
	"github.com/eringen/loomreport/mailer"
	"github.com/eringen/loomreport/posts"
	"github.com/eringen/loomreport/prompts"
	"github.com/eringen/loomreport/site"
	"github.com/eringen/loomreport/workflow"
)

func generatePostCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate-post",
		Short: "Draft a new post with a hero image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv("generate-post")
			if err != nil {
				return err
			}
			return e.run(cmd.OutOrStdout(), func() (any, error) {
				client, err := e.gemini()
				if err != nil {
					return nil, err
				}
				gate, c := e.gate(cmd.Context(), client)
				defer c.Close()

				gen := &workflow.PostGenerator{
					Prompts:      prompts.New(e.cfg.PromptsDir),
					Chat:         client,
					Images:       client,
					Gate:         gate,
					Posts:        posts.New(e.cfg.PostsDir),
					Variants:     imaging.NewSaver(e.cfg.AssetsDir),
					GeneratedDir: e.cfg.GeneratedDir,
					Logger:       e.logger,
				}
				return gen.Run(cmd.Context())
			})
		},
	}
}

func (e *env) digestBuilder() *digest.Builder {
	return digest.NewBuilder(posts.New(e.cfg.PostsDir), digest.Options{
		SiteName:       e.cfg.SiteName,
		SiteURL:        e.cfg.SiteURL,
		UnsubscribeURL: e.cfg.UnsubscribeURL,
	})
}

func generateDigestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate-digest",
		Short: "Write last week's digest as HTML and text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv("generate-digest")
			if err != nil {
				return err
			}
			return e.run(cmd.OutOrStdout(), func() (any, error) {
				client, err := e.gemini()
				if err != nil {
					return nil, err
				}
				gate, c := e.gate(cmd.Context(), client)
				defer c.Close()

				w := &workflow.DigestWriter{
					Digests: e.digestBuilder(),
					Gate:    gate,
					DistDir: e.cfg.DistDir,
					Logger:  e.logger,
				}
				return w.Run(cmd.Context(), time.Now().UTC())
			})
		},
	}
}

func sendNewsletterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send-newsletter",
		Short: "Mail last week's digest to the configured recipients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv("send-newsletter")
			if err != nil {
				return err
			}
			return e.run(cmd.OutOrStdout(), func() (any, error) {
				if err := e.cfg.RequireSendGrid(); err != nil {
					return nil, err
				}
				recipients, err := e.cfg.Recipients()
				if err != nil {
					return nil, err
				}
				sender, err := mailer.NewSendGrid(e.cfg.SendGridAPIKey, mailer.WithLogger(e.logger))
				if err != nil {
					return nil, err
				}
				client, err := e.gemini()
				if err != nil {
					return nil, err
				}
				gate, c := e.gate(cmd.Context(), client)
				defer c.Close()

				n := &workflow.Newsletter{
					Digests:        e.digestBuilder(),
					Gate:           gate,
					Mail:           sender,
					From:           e.cfg.NewsletterFrom,
					Recipients:     recipients,
					UnsubscribeURL: e.cfg.UnsubscribeURL,
					Logger:         e.logger,
				}
				return n.Send(cmd.Context(), time.Now().UTC())
			})
		},
	}
}

func moderateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "moderate [file|-]",
		Short: "Check text against the content safety gate",
		Long: `Reads the file argument, or standard input when it is omitted or "-".
Exits 0 when the content is clean, 1 when there is no input and 2 when the
content is blocked or cannot be moderated.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			label := "stdin"
			var input []byte
			var err error
			if len(args) == 1 && args[0] != "-" {
				label = args[0]
				input, err = os.ReadFile(args[0])
			} else {
				input, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return &exitError{code: 1, err: loomreport.NewError(loomreport.KindFilesystem, "read input", err)}
			}

			e, err := newEnv("moderate")
			if err != nil {
				return err
			}
			return e.run(cmd.OutOrStdout(), func() (any, error) {
				if strings.TrimSpace(string(input)) == "" {
					fmt.Fprintln(cmd.ErrOrStderr(), workflow.ErrNoContent)
					return nil, &exitError{code: 1, err: workflow.ErrNoContent, quiet: true}
				}

				status, err := moderate(cmd, e, string(input), label)
				if err != nil {
					_ = printJSON(cmd.ErrOrStderr(), map[string]string{"status": "blocked", "message": err.Error()})
					return nil, &exitError{code: 2, err: err, quiet: true}
				}
				return status, nil
			})
		},
	}
}

func moderate(cmd *cobra.Command, e *env, input, label string) (*workflow.ModerationStatus, error) {
	client, err := e.gemini()
	if err != nil {
		return nil, err
	}
	gate, c := e.gate(cmd.Context(), client)
	defer c.Close()
	return workflow.Moderate(cmd.Context(), gate, input, label)
}

func optimizeImageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "optimize-image <path>",
		Short: "Write responsive variants of an existing image",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return &exitError{code: 1, err: loomreport.Errorf(loomreport.KindMisuse, "", "usage: loom optimize-image <imagePath>")}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv("optimize-image")
			if err != nil {
				return err
			}
			return e.run(cmd.OutOrStdout(), func() (any, error) {
				saver := imaging.NewSaver(e.cfg.AssetsDir)
				return workflow.OptimizeImage(cmd.Context(), saver, args[0], e.cfg.GeneratedDir)
			})
		},
	}
}

func buildIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build-index",
		Short: "Write the RSS feed, sitemap and archive listing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv("build-index")
			if err != nil {
				return err
			}
			return e.run(cmd.OutOrStdout(), func() (any, error) {
				all, err := posts.New(e.cfg.PostsDir).Load()
				if err != nil {
					return nil, err
				}
				info := site.Info{Name: e.cfg.SiteName, URL: e.cfg.SiteURL}
				paths, err := site.WriteIndex(e.cfg.DistDir, info, all, time.Now().UTC())
				if err != nil {
					return nil, err
				}
				return struct {
					Status string `json:"status"`
					Posts  int    `json:"posts"`
					site.IndexPaths
				}{"index-ready", len(all), paths}, nil
			})
		},
	}
}

func historyCmd() *cobra.Command {
	var limit int
	var kind string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent workflow runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv("history")
			if err != nil {
				return err
			}
			if !e.cfg.LedgerEnabled() {
				return errors.New("run ledger is disabled (LEDGER_PATH=off)")
			}
			store, err := ledger.Open(e.cfg.LedgerPath)
			if err != nil {
				return fmt.Errorf("open run ledger: %w", err)
			}
			defer store.Close()

			runs, err := store.Recent(kind, limit)
			if err != nil {
				return err
			}
			if runs == nil {
				runs = []ledger.Run{}
			}
			return printJSON(cmd.OutOrStdout(), runs)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to show")
	cmd.Flags().StringVar(&kind, "kind", "", "only show runs of this command")
	return cmd
}
