package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/okian/befa-admin/internal/adapters/http/transport"
	"github.com/okian/befa-admin/internal/app/forms"
	"github.com/okian/befa-admin/internal/app/hooks"
	"github.com/okian/befa-admin/internal/domain/model"
)

func runStore(ctx context.Context, s *Shell, args []string) error {
	return subcommand(ctx, s, "store", args, map[string]Handler{
		"products": func(ctx context.Context, s *Shell, args []string) error {
			return subcommand(ctx, s, "store products", args, map[string]Handler{
				"list":   productsList,
				"add":    productsAdd,
				"edit":   productsEdit,
				"delete": productsDelete,
				"image":  productsImage,
			})
		},
		"orders": func(ctx context.Context, s *Shell, args []string) error {
			return subcommand(ctx, s, "store orders", args, map[string]Handler{
				"list":   ordersList,
				"show":   ordersShow,
				"status": ordersStatus,
			})
		},
	})
}

func productsList(ctx context.Context, s *Shell, _ []string) error {
	products, err := settled(s.app.Hooks.Products(ctx).Snapshot())
	if err != nil {
		return err
	}
	if len(products) == 0 {
		fmt.Fprintln(s.out, "No products yet")
		return nil
	}
	w := s.table()
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tSIZE\tIN STOCK")
	for _, p := range products {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", p.ID, p.Name, Money(p.Price), orDash(p.Size), yesNo(p.InStock))
	}
	return w.Flush()
}

type productFields struct {
	name, price, size, desc *string
	inStock                 *bool
	image                   *string
}

func productFlagSet(s *Shell, name string, from model.ProductInput) (*flag.FlagSet, productFields) {
	fs := s.flags(name)
	price := ""
	if from.Price != 0 {
		price = from.Price.String()
	}
	return fs, productFields{
		name:    fs.String("name", from.Name, "product name"),
		price:   fs.String("price", price, "price in naira"),
		size:    fs.String("size", from.Size, "size"),
		desc:    fs.String("desc", from.Description, "description"),
		inStock: fs.Bool("in-stock", from.InStock, "available for sale"),
		image:   fs.String("image", "", "path to a product image"),
	}
}

func (pf productFields) input() (model.ProductInput, error) {
	return forms.ProductFromText(*pf.name, *pf.price, *pf.size, *pf.desc, *pf.inStock)
}

func (s *Shell) attachProductImage(ctx context.Context, id int64, path string) error {
	if path == "" {
		return nil
	}
	img, err := transport.ReadFile(path)
	if err != nil {
		return err
	}
	asset, err := s.app.Hooks.UploadProductImage().Execute(ctx, hooks.Attachment{ID: id, File: img})
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Image uploaded: %s\n", asset.Location())
	return nil
}

func productsAdd(ctx context.Context, s *Shell, args []string) error {
	fs, pf := productFlagSet(s, "store products add", model.NewProductInput())
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	in, err := pf.input()
	if err != nil {
		return err
	}
	saved, err := s.app.Hooks.CreateProduct().Execute(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Added product #%d %s\n", saved.ID, saved.Name)
	return s.attachProductImage(ctx, saved.ID, *pf.image)
}

func productsEdit(ctx context.Context, s *Shell, args []string) error {
	id, err := parseID(args, "product")
	if err != nil {
		return err
	}
	current, err := s.app.Services.Store.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	fs, pf := productFlagSet(s, "store products edit", current.Input())
	if err := parseFlags(fs, args[1:]); err != nil {
		return err
	}
	in, err := pf.input()
	if err != nil {
		return err
	}
	saved, err := s.app.Hooks.UpdateProduct().Execute(ctx, hooks.Edit[model.ProductInput]{ID: id, Value: in})
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Updated product #%d %s\n", saved.ID, saved.Name)
	return s.attachProductImage(ctx, id, *pf.image)
}

func productsDelete(ctx context.Context, s *Shell, args []string) error {
	id, err := parseID(args, "product")
	if err != nil {
		return err
	}
	if _, err := s.app.Hooks.DeleteProduct().Execute(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Deleted product #%d\n", id)
	return nil
}

func productsImage(ctx context.Context, s *Shell, args []string) error {
	id, err := parseID(args, "product")
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return fmt.Errorf("%w: store products image ID PATH", ErrUsage)
	}
	return s.attachProductImage(ctx, id, args[1])
}

func ordersList(ctx context.Context, s *Shell, _ []string) error {
	orders, err := settled(s.app.Hooks.Orders(ctx).Snapshot())
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		fmt.Fprintln(s.out, "No orders yet")
		return nil
	}
	w := s.table()
	fmt.Fprintln(w, "ID\tDATE\tCUSTOMER\tITEMS\tTOTAL\tSTATUS")
	for _, o := range orders {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\n", o.ID, FormatDate(o.CreatedAt), orDash(o.Customer()), len(o.Products), Money(o.Total()), o.Status)
	}
	return w.Flush()
}

func ordersShow(ctx context.Context, s *Shell, args []string) error {
	id, err := parseID(args, "order")
	if err != nil {
		return err
	}
	o, err := s.app.Services.Store.GetOrder(ctx, id)
	if err != nil {
		return err
	}
	w := s.table()
	fmt.Fprintf(w, "Order\t#%d\n", o.ID)
	fmt.Fprintf(w, "Customer\t%s\n", orDash(o.Customer()))
	fmt.Fprintf(w, "Status\t%s\n", o.Status)
	fmt.Fprintf(w, "Placed\t%s\n", FormatDate(o.CreatedAt))
	for _, p := range o.Products {
		fmt.Fprintf(w, "  %s\t%s\n", p.Name, Money(p.Price))
	}
	fmt.Fprintf(w, "Total\t%s\n", Money(o.Total()))
	return w.Flush()
}

func ordersStatus(ctx context.Context, s *Shell, args []string) error {
	id, err := parseID(args, "order")
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return fmt.Errorf("%w: store orders status ID STATUS", ErrUsage)
	}
	st, err := model.ParseOrderStatus(args[1])
	if err != nil {
		return err
	}
	o, err := s.app.Hooks.UpdateOrderStatus().Execute(ctx, hooks.Edit[model.OrderStatus]{ID: id, Value: st})
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Order #%d is now %s\n", o.ID, o.Status)
	return nil
}
