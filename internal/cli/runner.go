package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/idilsaglam/cart/internal/cart"
	"github.com/idilsaglam/cart/internal/model"
	"github.com/idilsaglam/cart/internal/store"
	"github.com/idilsaglam/cart/internal/ui"
)

// writeTimeout bounds how long a command waits for its persist.
const writeTimeout = 5 * time.Second

// Env carries what subcommands need from main.
type Env struct {
	Storage     store.Storage
	CartOptions []cart.Option
	Out, Err    io.Writer

	// Interactive runs the TUI over an asynchronously loading cart.
	Interactive func(ctx context.Context, c *cart.Store) error
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, env Env) int {
	if len(args) == 0 {
		PrintHelp(env.Err)
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(env.Out)
		return 0

	case "ls":
		return doList(ctx, env)

	case "add":
		return doAdd(ctx, env, a)

	case "inc", "dec":
		if len(a) != 1 {
			ui.Fail(env.Err, "usage: cart "+cmd+" <id>")
			return 2
		}
		return doStep(ctx, env, cmd, a[0])

	case "clear":
		return mutate(ctx, env, "cleared", func(c *cart.Store) *cart.Write { return c.Clear() })

	case "tui":
		if env.Interactive == nil {
			ui.Fail(env.Err, "tui: not available")
			return 1
		}
		c := cart.New(ctx, env.Storage, env.CartOptions...)
		if err := env.Interactive(ctx, c); err != nil {
			ui.Fail(env.Err, "tui: "+err.Error())
			return 1
		}
		return flush(ctx, env, c)
	}

	ui.Fail(env.Err, "unknown subcommand: "+cmd)
	fmt.Fprintln(env.Err)
	PrintHelp(env.Err)
	return 2
}

func PrintHelp(w io.Writer) {
	fmt.Fprintf(w, `cart - a tiny shopping cart

Usage:
  cart [flags] <subcommand> [args]

Subcommands:
  ls                                  Show the cart
  add [-image url] <id> <price> <title...>
                                      Add a product, or one more of it
  inc <id>                            One more of a product
  dec <id>                            One less of a product (removed at zero)
  clear                               Empty the cart
  tui                                 Interactive cart

Examples:
  cart add 1 10 "Running shoe"
  cart add -image https://img/hat.png 2 5 Hat
  cart inc 1
  cart dec 2
  cart ls
`)
}

// -------------- subcommand impls ----------------

func open(ctx context.Context, env Env) (*cart.Store, bool) {
	c, err := cart.Open(ctx, env.Storage, env.CartOptions...)
	if err != nil {
		ui.Fail(env.Err, "load: "+err.Error())
		return nil, false
	}
	if err := c.LoadErr(); err != nil {
		ui.Fail(env.Err, "ignoring saved cart: "+err.Error())
	}
	return c, true
}

func doList(ctx context.Context, env Env) int {
	c, ok := open(ctx, env)
	if !ok {
		return 1
	}
	ui.Panel(env.Out, listLines(c.Products()))
	return 0
}

func doAdd(ctx context.Context, env Env, args []string) int {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(env.Err)
	image := fs.String("image", "", "product image URL")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	in, err := model.ParseProductInput(fs.Args())
	if err != nil {
		ui.Fail(env.Err, "add: "+err.Error())
		ui.Fail(env.Err, "usage: cart add [-image url] <id> <price> <title...>")
		return 2
	}
	in.ImageURL = *image
	return mutate(ctx, env, "added "+in.ID, func(c *cart.Store) *cart.Write { return c.AddToCart(in) })
}

func doStep(ctx context.Context, env Env, cmd, id string) int {
	id = strings.TrimSpace(id)
	if id == "" {
		ui.Fail(env.Err, cmd+": empty id")
		return 2
	}
	return mutate(ctx, env, cmd+" "+id, func(c *cart.Store) *cart.Write {
		if cmd == "inc" {
			return c.Increment(id)
		}
		return c.Decrement(id)
	})
}

func mutate(ctx context.Context, env Env, done string, op func(*cart.Store) *cart.Write) int {
	c, ok := open(ctx, env)
	if !ok {
		return 1
	}
	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if err := op(c).Wait(wctx); err != nil {
		ui.Fail(env.Err, "save: "+err.Error())
		return 1
	}
	ui.OK(env.Out, done)
	return 0
}

func flush(ctx context.Context, env Env, c *cart.Store) int {
	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if err := c.Flush(wctx); err != nil {
		ui.Fail(env.Err, "save: "+err.Error())
		return 1
	}
	return 0
}

// -------------- rendering helpers --------------

func listLines(products []model.Product) []string {
	t := ui.Current()
	total := model.Total(products)
	header := fmt.Sprintf("%s  %s %d  %s %s",
		ui.C(t.Title, "Cart"),
		ui.C(t.Accent, "Items"), model.Count(products),
		ui.C(t.Accent, "Total"), ui.C(t.Price, money(total)),
	)

	lines := []string{header, ""}
	if len(products) == 0 {
		lines = append(lines, ui.C(t.Muted, "cart is empty"))
	}
	for i, p := range products {
		lines = append(lines, fmt.Sprintf("%s %s %s %s %3d × %9s = %10s  %s",
			ui.Dim(fmt.Sprintf("%2d.", i+1)),
			ui.C(t.Muted, t.Bullet),
			ui.Fit(p.Title, 40),
			ui.Dim("#"+p.ID),
			p.Quantity, money(p.Price),
			ui.C(t.Price, money(p.LineTotal())),
			ui.C(t.Muted, ui.ShareBar(p.LineTotal(), total, 12)),
		))
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(t.Muted, "Tip: add with `cart add 1 10 \"Running shoe\"`"))
	return lines
}

func money(v float64) string { return fmt.Sprintf("$%.2f", v) }
