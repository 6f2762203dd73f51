package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/urbanroots/internal/catalog"
	"github.com/sandeepkv93/urbanroots/internal/model"
	"github.com/sandeepkv93/urbanroots/internal/plants"
)

func plantsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plants",
		Short: "Manage your plant collection",
		Long:  `List, add and delete the plants you are caring for. Deleting a plant also removes its reminders.`,
	}

	cmd.AddCommand(listPlantsCmd())
	cmd.AddCommand(addPlantCmd())
	cmd.AddCommand(deletePlantCmd())

	return cmd
}

func listPlantsCmd() *cobra.Command {
	var tab string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List plants, optionally filtered by tab",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := initApp(cmd.Context(), printToasts(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer a.close()

			rows, err := a.plants.ByTab(plants.Tab(tab))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, infoStyle.Render("No plants here. Use 'urbanroots plants add' to add one."))
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			defer w.Flush()
			writeHeader(w, "ID", "NAME", "TYPE", "WATER", "SUNLIGHT", "ADDED")
			for _, p := range rows {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					shortID(p.ID), p.Name, p.Type, p.WaterFrequency, p.Sunlight, p.DateAdded)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&tab, "tab", string(plants.TabAll), "filter: all, herbs, indoors, vegetables, medicinal")
	return cmd
}

func addPlantCmd() *cobra.Command {
	var in plants.Input

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a plant to your collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Name = args[0]
			a, err := initApp(cmd.Context(), printToasts(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer a.close()

			p, err := a.plants.Add(cmd.Context(), in)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s (%s)\n", successStyle.Render("Added"), p.Name, shortID(p.ID))
			if care := suggestedCare(a.reminders.Suggestions(p.Type)); care != "" {
				fmt.Fprintf(out, "Suggested care: %s. Use 'urbanroots reminders create %s <kind>'.\n", care, shortID(p.ID))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Type, "type", "", "plant type, e.g. Herb, Succulent, Vegetable (required)")
	cmd.Flags().StringVar(&in.WaterFrequency, "water", "", "watering schedule, e.g. \"Every 2 days\" (required)")
	cmd.Flags().StringVar(&in.Sunlight, "sunlight", "", "light needs, e.g. \"Full sun\" (required)")
	cmd.Flags().StringVar(&in.Image, "image", "", "image URL; a stock image is used when empty")
	return cmd
}

func deletePlantCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id-or-name>",
		Short: "Delete a plant and its reminders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initApp(cmd.Context(), printToasts(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer a.close()

			p, ok := findPlant(a.plants, args[0])
			if !ok {
				return fmt.Errorf("no plant matches %q", args[0])
			}
			return a.plants.Delete(cmd.Context(), p.ID)
		},
	}
}

// findPlant accepts a full id, a unique id prefix or a name.
func findPlant(m *plants.Manager, ref string) (model.Plant, bool) {
	if p, ok := m.Get(ref); ok {
		return p, true
	}
	if p, ok := m.Find(ref); ok {
		return p, true
	}
	var match model.Plant
	n := 0
	for _, p := range m.List() {
		if len(ref) >= 4 && strings.HasPrefix(p.ID, ref) {
			match = p
			n++
		}
	}
	return match, n == 1
}

// suggestedCare renders care defaults as "water every 2d, fertilize every 30d".
func suggestedCare(defaults []catalog.CareDefault) string {
	parts := make([]string, 0, len(defaults))
	for _, d := range defaults {
		parts = append(parts, fmt.Sprintf("%s every %dd", d.Kind, d.FrequencyDays))
	}
	return strings.Join(parts, ", ")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
