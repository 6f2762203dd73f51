package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/urbanroots/internal/seasonal"
	"github.com/sandeepkv93/urbanroots/internal/views"
)

func tipsCmd() *cobra.Command {
	var limit int
	var plain bool

	cmd := &cobra.Command{
		Use:   "tips",
		Short: "Show gardening tips for the current season",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := initApp(cmd.Context(), printToasts(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer a.close()

			tips, err := seasonal.NewRefresher(a.store, a.clock, seed(a.clock)).Tips(cmd.Context())
			if err != nil {
				a.logger.Warn("seasonal refresh", "error", err)
			}
			if limit > 0 && len(tips) > limit {
				tips = tips[:limit]
			}

			md := tipsMarkdown(seasonal.SeasonFor(a.clock.Now().Month()), tips)
			if plain {
				fmt.Fprint(cmd.OutOrStdout(), md)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), views.RenderMarkdown(md))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 5, "number of tips to show; 0 shows all")
	cmd.Flags().BoolVar(&plain, "plain", false, "print raw markdown")
	return cmd
}

func tipsMarkdown(season seasonal.Season, tips []seasonal.Tip) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Tips for %s\n\n", season)
	if len(tips) == 0 {
		b.WriteString("_No tips available._\n")
		return b.String()
	}
	for _, t := range tips {
		fmt.Fprintf(&b, "## %s\n\n", t.Title)
		if t.Season != "" {
			fmt.Fprintf(&b, "*%s, %s*\n\n", t.Season, t.Category)
		} else {
			fmt.Fprintf(&b, "*%s*\n\n", t.Category)
		}
		b.WriteString(t.Description + "\n\n")
	}
	return b.String()
}
