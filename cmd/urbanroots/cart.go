package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/urbanroots/internal/cart"
)

func cartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the shopping cart",
		Long:  `Add, change and remove cart items, then place the order.`,
	}

	cmd.AddCommand(showCartCmd())
	cmd.AddCommand(addCartCmd())
	cmd.AddCommand(setCartCmd())
	cmd.AddCommand(removeCartCmd())
	cmd.AddCommand(clearCartCmd())
	cmd.AddCommand(checkoutCmd())
	cmd.AddCommand(ordersCmd())

	return cmd
}

func showCartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show cart contents and totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := initApp(cmd.Context(), printToasts(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer a.close()
			printCart(cmd.OutOrStdout(), a.cart)
			return nil
		},
	}
}

func addCartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <item-id> [quantity]",
		Short: "Add a product to the cart",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty := 1
			if len(args) == 2 {
				n, err := parseQuantity(args[1])
				if err != nil {
					return err
				}
				qty = n
			}
			a, err := initApp(cmd.Context(), printToasts(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.cart.Add(cmd.Context(), args[0], qty); err != nil {
				return err
			}
			printCart(cmd.OutOrStdout(), a.cart)
			return nil
		},
	}
}

func setCartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <item-id> <quantity>",
		Short: "Change the quantity of a cart line; 0 removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q: %w", args[1], err)
			}
			a, err := initApp(cmd.Context(), printToasts(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.cart.UpdateQuantity(cmd.Context(), args[0], qty); err != nil {
				return err
			}
			printCart(cmd.OutOrStdout(), a.cart)
			return nil
		},
	}
}

func removeCartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <item-id>",
		Short: "Remove a line from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initApp(cmd.Context(), printToasts(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer a.close()
			return a.cart.Remove(cmd.Context(), args[0])
		},
	}
}

func clearCartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := initApp(cmd.Context(), printToasts(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer a.close()
			return a.cart.Clear(cmd.Context())
		},
	}
}

func checkoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for everything in the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := initApp(cmd.Context(), printToasts(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer a.close()
			fmt.Fprintln(cmd.OutOrStdout(), infoStyle.Render("Placing order..."))
			order, err := a.cart.Checkout(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s, total ₹%s\n",
				successStyle.Render("Order placed:"), order.ID, order.Summary.Total.StringFixed(2))
			return nil
		},
	}
}

func ordersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "List placed orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := initApp(cmd.Context(), printToasts(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer a.close()
			orders, err := a.cart.Orders(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to read orders: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(orders) == 0 {
				fmt.Fprintln(out, infoStyle.Render("No orders yet. Use 'urbanroots cart checkout' to place one."))
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			defer w.Flush()
			writeHeader(w, "ORDER", "PLACED", "LINES", "TOTAL")
			for _, o := range orders {
				fmt.Fprintf(w, "%s\t%s\t%d\t₹%s\n",
					o.ID, o.PlacedAt.Local().Format("2006-01-02 15:04"), len(o.Lines), o.Summary.Total.StringFixed(2))
			}
			return nil
		},
	}
}

func printCart(out io.Writer, c *cart.Manager) {
	lines := c.Lines()
	if len(lines) == 0 {
		fmt.Fprintln(out, infoStyle.Render("Your cart is empty."))
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	writeHeader(w, "ID", "ITEM", "QTY", "PRICE", "SUBTOTAL")
	for _, line := range lines {
		fmt.Fprintf(w, "%s\t%s\t%d\t₹%s\t₹%s\n",
			line.ItemID, line.Name, line.Quantity, line.Price.StringFixed(2), line.Subtotal().StringFixed(2))
	}
	_ = w.Flush()

	s := c.Summary()
	fmt.Fprintf(out, "\nSubtotal: ₹%s\n", s.Subtotal.StringFixed(2))
	if s.FreeDelivery() {
		fmt.Fprintln(out, "Delivery: "+successStyle.Render("FREE"))
	} else {
		fmt.Fprintf(out, "Delivery: ₹%s\n", s.DeliveryFee.StringFixed(2))
		fmt.Fprintln(out, infoStyle.Render(fmt.Sprintf("Add ₹%s more for free delivery", s.FreeDeliveryGap.StringFixed(2))))
	}
	fmt.Fprintf(out, "Total: ₹%s\n", s.Total.StringFixed(2))
}

func parseQuantity(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("quantity must be a positive number, got %q", raw)
	}
	return n, nil
}
