package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"solar-dealer-hub/internal/client"
	"solar-dealer-hub/internal/dashboard"
	"solar-dealer-hub/internal/views"
)

type app struct {
	client      *client.Client
	sessionPath string
	print       printer
	notify      dashboard.Notifier
	confirm     dashboard.Confirmer
	in          *bufio.Reader
	stderr      io.Writer
}

func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

func runLogin(ctx context.Context, a *app, args []string) error {
	fs := a.flags("login")
	username := fs.String("u", "", "username")
	password := fs.String("p", "", "password (prompted when empty)")
	if err := fs.Parse(args); err != nil {
		return errSilent
	}
	if *username == "" {
		return errors.New("-u is required")
	}
	if *password == "" {
		fmt.Fprint(a.stderr, "Password: ")
		line, err := readLine(a.in)
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		*password = line
	}

	session, err := a.client.Login(ctx, *username, *password)
	if err != nil {
		return err
	}
	if err := session.Save(a.sessionPath); err != nil {
		return err
	}
	fmt.Fprintf(a.stderr, "logged in as %s (%s)\n", session.Username, session.Role)
	return nil
}

func runLogout(_ context.Context, a *app, _ []string) error {
	return (&client.Session{}).Save(a.sessionPath)
}

func runWhoami(ctx context.Context, a *app, _ []string) error {
	me, err := a.client.Me(ctx)
	if err != nil {
		return err
	}
	return a.print.Print(table{
		header: []string{"ID", "USERNAME", "ROLE"},
		rows:   [][]string{{uintText(me.UserID), me.Username, me.Role}},
		raw:    me,
	})
}

func runInventory(ctx context.Context, a *app, args []string) error {
	fs := a.flags("inventory")
	var f views.InventoryFilter
	fs.StringVar(&f.Brand, "brand", "", "brand name")
	fs.StringVar(&f.Technology, "technology", "", "panel technology")
	fs.IntVar(&f.Wattage, "wattage", 0, "exact wattage")
	fs.UintVar(&f.StateID, "state", 0, "state id")
	fs.UintVar(&f.ClusterID, "cluster", 0, "cluster id")
	fs.StringVar(&f.Search, "search", "", "match SKU, brand or technology")
	if err := fs.Parse(args); err != nil {
		return errSilent
	}

	page := dashboard.NewInventoryPage(a.client, a.notify)
	if err := page.Load(ctx); err != nil {
		return errSilent
	}
	page.SetFilter(f)
	items := page.View()

	t := table{header: []string{"ID", "SKU", "BRAND", "TECHNOLOGY", "WATTAGE", "QTY", "MAX", "PRICE", "LOCATION"}, raw: items}
	for _, it := range items {
		loc := ""
		if it.State != nil {
			loc = it.State.Name
		}
		if it.Cluster != nil {
			loc += " / " + it.Cluster.Name
		}
		t.rows = append(t.rows, []string{
			uintText(it.ID), it.SKU, it.Brand.Name, it.Technology, strconv.Itoa(it.Wattage),
			strconv.Itoa(it.Quantity), strconv.Itoa(it.MaxLevel), money(it.Price), loc,
		})
	}
	if low := len(views.LowStock(items)); low > 0 {
		fmt.Fprintf(a.stderr, "%d of %d items below max level\n", low, len(items))
	}
	return a.print.Print(t)
}

func runOrders(ctx context.Context, a *app, args []string) error {
	fs := a.flags("orders")
	var f views.OrderFilter
	fs.StringVar(&f.Status, "status", "", "Pending, Approved, Completed or Cancelled")
	fs.UintVar(&f.SupplierID, "supplier", 0, "supplier vendor id")
	fs.UintVar(&f.StateID, "state", 0, "state id")
	fs.StringVar(&f.Search, "search", "", "match order number or supplier")
	if err := fs.Parse(args); err != nil {
		return errSilent
	}

	page := dashboard.NewOrdersPage(a.client, a.notify, a.confirm)
	if err := page.Load(ctx); err != nil {
		return errSilent
	}
	page.SetFilter(f)
	orders := page.View()

	t := table{header: []string{"ID", "ORDER", "SUPPLIER", "STATUS", "ITEMS", "TOTAL", "CREATED"}, raw: orders}
	for _, o := range orders {
		supplier := ""
		if o.Supplier != nil {
			supplier = o.Supplier.Name
		}
		t.rows = append(t.rows, []string{
			uintText(o.ID), o.OrderNumber, supplier, o.Status, strconv.Itoa(len(o.Items)),
			money(o.TotalAmount), o.CreatedAt.Format("2006-01-02"),
		})
	}
	return a.print.Print(t)
}

func runOrderDelete(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: order-delete <id>")
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil || id == 0 {
		return fmt.Errorf("invalid order id %q", args[0])
	}

	page := dashboard.NewOrdersPage(a.client, a.notify, a.confirm)
	deleted, err := page.Delete(ctx, uint(id))
	if err != nil {
		return errSilent
	}
	if !deleted {
		fmt.Fprintln(a.stderr, "cancelled")
		return nil
	}
	fmt.Fprintf(a.stderr, "deleted order %d, %d orders remain\n", id, len(page.Items()))
	return nil
}

type itemArg struct {
	productID uint
	quantity  int
	price     float64 // 0 means the catalogue price
}

func parseItem(v string) (itemArg, error) {
	parts := strings.Split(v, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return itemArg{}, fmt.Errorf("item %q: want productId:quantity[:price]", v)
	}
	id, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil || id == 0 {
		return itemArg{}, fmt.Errorf("item %q: invalid product id", v)
	}
	qty, err := strconv.Atoi(parts[1])
	if err != nil || qty <= 0 {
		return itemArg{}, fmt.Errorf("item %q: quantity must be a positive integer", v)
	}
	it := itemArg{productID: uint(id), quantity: qty}
	if len(parts) == 3 {
		if it.price, err = strconv.ParseFloat(parts[2], 64); err != nil || it.price < 0 {
			return itemArg{}, fmt.Errorf("item %q: invalid price", v)
		}
	}
	return it, nil
}

func runOrderCreate(ctx context.Context, a *app, args []string) error {
	fs := a.flags("order-create")
	supplierID := fs.Uint("supplier", 0, "supplier vendor id")
	stateID := fs.Uint("state", 0, "delivery state id")
	notes := fs.String("notes", "", "free-form notes")
	var items []itemArg
	fs.Func("item", "productId:quantity[:price], repeatable", func(v string) error {
		it, err := parseItem(v)
		if err != nil {
			return err
		}
		items = append(items, it)
		return nil
	})
	if err := fs.Parse(args); err != nil {
		return errSilent
	}
	if *supplierID == 0 || len(items) == 0 {
		return errors.New("usage: order-create -supplier ID -item productId:qty[:price]...")
	}

	form := dashboard.NewOrderForm(dashboard.NewLocationForm(a.client, a.notify))
	if err := form.Load(ctx, a.client, a.notify); err != nil {
		return errSilent
	}
	if _, ok := form.Supplier(*supplierID); !ok {
		return fmt.Errorf("unknown supplier %d", *supplierID)
	}
	form.SupplierID = *supplierID
	form.Notes = *notes
	for _, it := range items {
		product, ok := form.Product(it.productID)
		if !ok {
			return fmt.Errorf("unknown product %d", it.productID)
		}
		if it.price == 0 {
			it.price = product.Price
		}
		form.AddItem(it.productID, it.quantity, it.price)
	}
	if *stateID != 0 {
		if err := form.Location.SetState(ctx, *stateID); err != nil {
			return errSilent
		}
	}

	order, err := form.Submit(ctx, a.client)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stderr, "created order %s\n", order.OrderNumber)
	return a.print.Print(table{
		header: []string{"ID", "ORDER", "STATUS", "ITEMS", "TOTAL"},
		rows:   [][]string{{uintText(order.ID), order.OrderNumber, order.Status, strconv.Itoa(len(order.Items)), money(order.TotalAmount)}},
		raw:    order,
	})
}

func runProfessions(ctx context.Context, a *app, args []string) error {
	fs := a.flags("professions")
	var f dashboard.ProfessionFilter
	fs.UintVar(&f.StateID, "state", 0, "state id")
	if err := fs.Parse(args); err != nil {
		return errSilent
	}

	page := dashboard.NewProfessionsPage(a.client, a.notify, a.confirm)
	if err := page.Load(ctx); err != nil {
		return errSilent
	}
	page.SetFilter(f)
	groups := dashboard.ProfessionCounts(page)

	t := table{header: []string{"STATE", "COUNT", "PROFESSIONS"}, raw: groups}
	for _, g := range groups {
		name := g.StateName
		if name == "" {
			name = "#" + uintText(g.StateID)
		}
		t.rows = append(t.rows, []string{name, strconv.Itoa(g.Count), strings.Join(g.Names, ", ")})
	}
	return a.print.Print(t)
}

func runPipeline(ctx context.Context, a *app, args []string) error {
	fs := a.flags("pipeline")
	var f views.ProjectFilter
	fs.StringVar(&f.Category, "category", "", "Residential, Commercial or Industrial")
	fs.StringVar(&f.ProjectType, "type", "", "On-Grid, Off-Grid or Hybrid")
	fs.StringVar(&f.CP, "cp", "", "channel partner")
	fs.StringVar(&f.Search, "search", "", "match project id, name or customer")
	if err := fs.Parse(args); err != nil {
		return errSilent
	}

	pipeline, err := a.client.Pipeline(ctx, f)
	if err != nil {
		return err
	}

	t := table{header: []string{"COLUMN", "PROJECTS", "TOTAL KW"}, raw: pipeline}
	for _, b := range pipeline.Columns {
		t.rows = append(t.rows, []string{string(b.Column), strconv.Itoa(b.Count), strconv.FormatFloat(b.TotalKW, 'f', 2, 64)})
	}
	if n := len(pipeline.Unclassified); n > 0 {
		fmt.Fprintf(a.stderr, "warning: %d projects have an unrecognised stage\n", n)
		for _, p := range pipeline.Unclassified {
			fmt.Fprintf(a.stderr, "  %s: %q\n", p.ProjectID, p.StatusStage)
		}
	}
	return a.print.Print(t)
}

func runExportInventory(ctx context.Context, a *app, args []string) (err error) {
	fs := a.flags("export-inventory")
	var f views.InventoryFilter
	fs.StringVar(&f.Brand, "brand", "", "brand name")
	fs.StringVar(&f.Technology, "technology", "", "panel technology")
	fs.UintVar(&f.StateID, "state", 0, "state id")
	if err := fs.Parse(args); err != nil {
		return errSilent
	}
	if fs.NArg() != 1 {
		return errors.New("usage: export-inventory [flags] <file.xlsx|file.csv>")
	}
	path := fs.Arg(0)
	format := "xlsx"
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		format = "csv"
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if err := a.client.ExportInventory(ctx, f, format, out); err != nil {
		return err
	}
	fmt.Fprintf(a.stderr, "wrote %s\n", path)
	return nil
}

func runAsk(ctx context.Context, a *app, args []string) error {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return errors.New("usage: ask <question>")
	}
	reply, err := a.client.Ask(ctx, question)
	if err != nil {
		return err
	}
	return a.print.Print(table{
		rows: [][]string{{reply}},
		raw:  map[string]string{"question": question, "reply": reply},
	})
}

func uintText(n uint) string {
	return strconv.FormatUint(uint64(n), 10)
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
