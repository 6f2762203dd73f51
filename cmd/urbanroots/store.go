package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/urbanroots/internal/storage"
)

func storeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "store",
		Short: "Show what is saved in the store",
		Long:  `List the stored collections with their size and last write. Only the sqlite driver records write times.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := initApp(cmd.Context(), printToasts(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer a.close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", headerStyle.Render("Driver:"), a.cfg.Store.Driver)
			if a.cfg.Store.Path != "" && a.cfg.Store.Driver != storage.DriverMemory {
				fmt.Fprintf(out, "%s %s\n", headerStyle.Render("Path:"), a.cfg.Store.Path)
			}
			insp, ok := a.store.(storage.Inspector)
			if !ok {
				fmt.Fprintln(out, infoStyle.Render(fmt.Sprintf("The %s driver does not track keys.", a.cfg.Store.Driver)))
				return nil
			}
			return printStoreKeys(cmd.Context(), out, a.store, insp)
		},
	}
}

func printStoreKeys(ctx context.Context, out io.Writer, s storage.Store, insp storage.Inspector) error {
	keys, err := insp.Keys(ctx)
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}
	if len(keys) == 0 {
		fmt.Fprintln(out, infoStyle.Render("Nothing saved yet."))
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()
	writeHeader(w, "KEY", "BYTES", "UPDATED")
	for _, key := range keys {
		raw, err := s.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", key, err)
		}
		updated, err := insp.UpdatedAt(ctx, key)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", key, err)
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n", key, len(raw), updated.Local().Format("2006-01-02 15:04:05"))
	}
	return nil
}
