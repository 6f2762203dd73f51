package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/urbanroots/internal/curation"
	"github.com/sandeepkv93/urbanroots/internal/views"
)

func gardenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "garden",
		Short: "Get a personalised garden plan",
		Long: `Answer the garden curation questionnaire and get plant, layout and
kit recommendations. Your answers are saved so 'garden plan' can show
the result again later.`,
	}

	cmd.AddCommand(gardenQuestionsCmd())
	cmd.AddCommand(gardenCurateCmd())
	cmd.AddCommand(gardenPlanCmd())

	return cmd
}

func gardenQuestionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "questions",
		Short: "List the questionnaire choices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			writeQuestions(cmd.OutOrStdout(), curation.DefaultGuide().Questions)
			return nil
		},
	}
}

func writeQuestions(out io.Writer, q curation.Questions) {
	for _, sec := range []struct {
		flag    string
		choices []curation.Choice
	}{
		{"--garden", q.GardenType},
		{"--goal", q.Goals},
		{"--vibe", q.Vibe},
		{"--plant-type", q.PlantTypes},
		{"--size", q.Size},
		{"--sunlight", q.Sunlight},
		{"--water", q.WaterSource},
		{"--climate", q.Climate},
		{"--experience", q.Experience},
		{"--option", q.PreferredOption},
	} {
		fmt.Fprintln(out, headerStyle.Render(sec.flag))
		for _, c := range sec.choices {
			fmt.Fprintf(out, "  %-14s %s\n", c.ID, c.Label)
		}
	}
}

func gardenCurateCmd() *cobra.Command {
	var in curation.Answers
	var plain bool

	cmd := &cobra.Command{
		Use:   "curate",
		Short: "Answer the questionnaire and print recommendations",
		Long:  "Every answer is optional. Run 'urbanroots garden questions' for the allowed values.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := initApp(cmd.Context(), printToasts(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer a.close()

			fmt.Fprintln(cmd.OutOrStdout(), infoStyle.Render("Generating recommendations..."))
			plan, err := a.curation.Submit(cmd.Context(), in)
			if err != nil && len(plan.Plants) == 0 {
				return err
			}
			printPlan(cmd.OutOrStdout(), plan, a.curation.Questions(), plain)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&in.GardenType, "garden", "", "ideal balcony garden")
	f.StringSliceVar(&in.Goals, "goal", nil, "main goals (repeatable)")
	f.StringVar(&in.Vibe, "vibe", "", "the vibe you are going for")
	f.StringSliceVar(&in.PlantTypes, "plant-type", nil, "kinds of plants you love (repeatable)")
	f.StringVar(&in.Size, "size", "", "size of the balcony or garden area")
	f.StringVar(&in.Sunlight, "sunlight", "", "daily sunlight")
	f.StringVar(&in.Location, "location", "", "city and locality")
	f.StringVar(&in.WaterSource, "water", "", "water source nearby (yes, no)")
	f.StringVar(&in.Climate, "climate", "", "general climate")
	f.StringVar(&in.Issues, "issues", "", "known issues such as pests or heavy rain")
	f.StringVar(&in.Experience, "experience", "", "gardening experience")
	f.StringVar(&in.PreferredOption, "option", "", "ready-made kits, DIY guidance or both")
	f.StringVar(&in.AdditionalInfo, "notes", "", "anything else about your dream garden")
	f.BoolVar(&plain, "plain", false, "print raw markdown")
	return cmd
}

func gardenPlanCmd() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the recommendations for your saved answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := initApp(cmd.Context(), printToasts(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer a.close()

			plan, ok, err := a.curation.Last(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to read garden preferences: %w", err)
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), infoStyle.Render("No saved answers. Use 'urbanroots garden curate' first."))
				return nil
			}
			printPlan(cmd.OutOrStdout(), plan, a.curation.Questions(), plain)
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print raw markdown")
	return cmd
}

func printPlan(out io.Writer, plan curation.Plan, q curation.Questions, plain bool) {
	md := planMarkdown(plan, q)
	if plain {
		fmt.Fprint(out, md)
		return
	}
	fmt.Fprintln(out, views.RenderMarkdown(md))
}

func planMarkdown(plan curation.Plan, q curation.Questions) string {
	var b strings.Builder
	b.WriteString("# Your garden plan\n\n")
	if plan.Answers.GardenType != "" {
		fmt.Fprintf(&b, "_%s_\n\n", curation.Label(q.GardenType, plan.Answers.GardenType))
	}

	b.WriteString("## Plants\n\n")
	for _, p := range plan.Plants {
		fmt.Fprintf(&b, "- **%s** (%s): %s\n", p.Name, p.Difficulty, p.Description)
	}
	b.WriteString("\n" + plan.Note + "\n\n")

	b.WriteString("## Layouts\n\n")
	for _, p := range plan.Layouts {
		fmt.Fprintf(&b, "- **%s**: %s\n", p.Name, p.Description)
	}

	b.WriteString("\n## Kits\n\n")
	for _, p := range plan.Kits {
		fmt.Fprintf(&b, "- **%s** ₹%s: %s\n", p.Name, p.Price.StringFixed(0), p.Description)
	}
	return b.String()
}
