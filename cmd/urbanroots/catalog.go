package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/urbanroots/internal/catalog"
)

func catalogCmd() *cobra.Command {
	var category string
	var inStock bool

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the products for sale",
		Long:  `Show the shop catalog with prices, ratings and stock. Use the id column with 'urbanroots cart add'.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat := catalog.Default()
			items := cat.All()
			switch {
			case category != "":
				items = cat.ByCategory(category)
			case inStock:
				items = cat.InStock()
			}

			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, infoStyle.Render("No products match."))
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			defer w.Flush()
			writeHeader(w, "ID", "NAME", "CATEGORY", "PRICE", "RATING", "STOCK")
			for _, item := range items {
				if inStock && !item.InStock {
					continue
				}
				stock := "yes"
				if !item.InStock {
					stock = "out"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t₹%s\t%.1f\t%s\n",
					item.ID, item.Name, item.Category, item.Price.StringFixed(2), item.Rating, stock)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only show this category")
	cmd.Flags().BoolVar(&inStock, "in-stock", false, "hide products that are out of stock")
	return cmd
}
