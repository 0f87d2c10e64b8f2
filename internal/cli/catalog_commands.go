package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/jrsteele09/go-storefront-session/internal/app"
	"github.com/jrsteele09/go-storefront-session/storefront"
	"github.com/spf13/cobra"
)

func newProductsCommand(open Opener) *cobra.Command {
	var mine bool
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List products",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, open, func(ctx context.Context, a *app.App, out io.Writer) error {
				products, err := a.API.ListProducts(ctx, mine)
				if err != nil {
					return err
				}
				printProducts(out, products)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&mine, "mine", false, "only products you sell")
	cmd.AddCommand(
		newProductShowCommand(open),
		newProductAddCommand(open),
		newProductUpdateCommand(open),
		newProductDeleteCommand(open),
	)
	return cmd
}

func newProductShowCommand(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "show [product-id]",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProductID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, open, func(ctx context.Context, a *app.App, out io.Writer) error {
				product, err := a.API.GetProduct(ctx, id)
				if err != nil {
					return err
				}
				printProduct(out, product)
				return nil
			})
		},
	}
}

func newProductAddCommand(open Opener) *cobra.Command {
	var input storefront.ProductInput
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product to sell",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, open, func(ctx context.Context, a *app.App, out io.Writer) error {
				product, err := a.API.CreateProduct(ctx, input)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Created product %d\n", product.ID)
				return nil
			})
		},
	}
	productFlags(cmd, &input)
	return cmd
}

func newProductUpdateCommand(open Opener) *cobra.Command {
	var input storefront.ProductInput
	cmd := &cobra.Command{
		Use:   "update [product-id]",
		Short: "Replace one of your products",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProductID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, open, func(ctx context.Context, a *app.App, out io.Writer) error {
				product, err := a.API.UpdateProduct(ctx, id, input)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Updated product %d\n", product.ID)
				return nil
			})
		},
	}
	productFlags(cmd, &input)
	return cmd
}

func newProductDeleteCommand(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [product-id]",
		Short: "Delete one of your products",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProductID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, open, func(ctx context.Context, a *app.App, out io.Writer) error {
				if err := a.API.DeleteProduct(ctx, id); err != nil {
					return err
				}
				fmt.Fprintf(out, "Deleted product %d\n", id)
				return nil
			})
		},
	}
}

func productFlags(cmd *cobra.Command, input *storefront.ProductInput) {
	cmd.Flags().StringVarP(&input.Name, "name", "n", "", "product name")
	cmd.Flags().StringVarP(&input.Description, "description", "d", "", "product description")
	cmd.Flags().Float64Var(&input.Price, "price", 0, "price")
	cmd.Flags().StringVar(&input.ImageURL, "image-url", "", "image URL")
}

func parseProductID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid product id %q", raw)
	}
	return id, nil
}

func newCartCommand(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show your cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, open, func(ctx context.Context, a *app.App, out io.Writer) error {
				cart, err := a.API.GetCart(ctx)
				if err != nil {
					return err
				}
				printCart(out, cart)
				return nil
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set [product-id] [quantity]",
		Short: "Set the quantity of a product in your cart (0 removes it)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			productID, err := parseProductID(args[0])
			if err != nil {
				return err
			}
			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			return withApp(cmd, open, func(ctx context.Context, a *app.App, out io.Writer) error {
				cart, err := a.API.UpdateCartItem(ctx, productID, quantity)
				if err != nil {
					return err
				}
				printCart(out, cart)
				return nil
			})
		},
	})
	return cmd
}

func printProducts(out io.Writer, products []storefront.Product) {
	if len(products) == 0 {
		fmt.Fprintln(out, "No products")
		return
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tSELLER")
	for _, p := range products {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", p.ID, p.Name, p.Price, p.Seller)
	}
	_ = w.Flush()
}

func printProduct(out io.Writer, p storefront.Product) {
	fmt.Fprintf(out, "ID: %d\nName: %s\nPrice: %s\nSeller: %s\n", p.ID, p.Name, p.Price, p.Seller)
	if p.Description != nil && *p.Description != "" {
		fmt.Fprintf(out, "Description: %s\n", *p.Description)
	}
}

func printCart(out io.Writer, cart storefront.Cart) {
	if cart.Empty() {
		fmt.Fprintln(out, "Your cart is empty")
		return
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRODUCT\tQTY\tSUBTOTAL")
	for _, item := range cart.Items {
		fmt.Fprintf(w, "%d\t%s\t%d\t%.2f\n", item.Product.ID, item.Product.Name, item.Quantity, item.Subtotal())
	}
	_ = w.Flush()
	fmt.Fprintf(out, "Total: %.2f\n", cart.Total())
}
