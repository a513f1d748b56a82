package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"stockify/internal/app"
	"stockify/internal/domain"
	apperror "stockify/internal/errors"
	"stockify/internal/listing"
	"stockify/internal/pkg/format"
	"stockify/internal/screen"
)

var out io.Writer = os.Stdout

func run(ctx context.Context, a *app.App, cmd string, args []string) error {
	switch cmd {
	case "login":
		return login(ctx, a, args)
	case "logout":
		if err := a.Auth.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "Sessão encerrada.")
		return nil
	case "register":
		return register(ctx, a, args)
	}

	if _, ok := a.Auth.Session(ctx); !ok {
		return apperror.NewValidationError("Faça login primeiro: stockify login --user U --password P.")
	}

	switch cmd {
	case "suppliers":
		return suppliers(ctx, a, args)
	case "products":
		return products(ctx, a, args)
	case "stock":
		return stock(ctx, a, args)
	case "sell":
		return sell(ctx, a, args)
	case "report":
		return report(ctx, a, args)
	case "sold":
		return sold(ctx, a, args)
	case "sales":
		return sales(ctx, a, args)
	case "logs":
		return logs(ctx, a, args)
	case "dashboard":
		return dashboard(ctx, a, args)
	default:
		return fmt.Errorf("comando desconhecido: %s", cmd)
	}
}

func login(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	user := fs.String("user", "", "usuário")
	pass := fs.String("password", "", "senha")
	if err := fs.Parse(args); err != nil {
		return err
	}
	sess, err := a.Auth.Login(ctx, domain.Credentials{Username: *user, Password: *pass})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Bem-vindo, %s! Sessão válida até %s.\n", sess.Username, format.DateTime(sess.ExpiresAt))
	return nil
}

func register(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	user := fs.String("user", "", "usuário")
	email := fs.String("email", "", "e-mail")
	pass := fs.String("password", "", "senha")
	admin := fs.Bool("admin", false, "cadastra como administrador")
	if err := fs.Parse(args); err != nil {
		return err
	}
	reg := domain.UserRegistration{Username: *user, Email: *email, Password: *pass}
	if *admin {
		reg.Role = []string{"admin"}
	}
	msg, err := a.Auth.Register(ctx, reg)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, msg.Message)
	return nil
}

func suppliers(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("suppliers", flag.ContinueOnError)
	search := fs.String("search", "", "nome")
	productType := fs.String("type", "", "tipo de produto")
	page := fs.Int("page", 1, "página")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s := screen.NewSuppliers(a.Suppliers, a.Products, a.Deps())
	defer s.Close()
	if err := s.LoadProductTypes(ctx); err != nil {
		return err
	}
	st, err := load(ctx, s.List, domain.SupplierFilter{Name: *search, ProductType: *productType}, *page)
	if err != nil {
		return err
	}

	w := table("ID", "NOME", "CNPJ", "TELEFONE", "E-MAIL", "TIPO")
	for _, sp := range st.Items {
		row(w, sp.ID, sp.Name, format.CNPJ(sp.CNPJ), sp.Phone, sp.Email, sp.ProductType)
	}
	w.Flush()
	footer(st.Query.Page, st.TotalPages, st.TotalItems)
	fmt.Fprintf(out, "Tipos de produto: %s\n", strings.Join(s.ProductTypes(), ", "))
	return nil
}

func products(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("products", flag.ContinueOnError)
	supplierID := fs.Int64("supplier", 0, "id do fornecedor")
	search := fs.String("search", "", "nome do produto")
	page := fs.Int("page", 1, "página")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *supplierID <= 0 {
		return apperror.NewValidationError("Informe --supplier.")
	}

	s := screen.NewSuppliers(a.Suppliers, a.Products, a.Deps())
	defer s.Close()
	child := s.Products.Expand(*supplierID)
	child.Wait()
	if *search != "" {
		child.SetFilter(domain.ProductFilter{SearchTerm: *search})
		child.Wait()
	}
	st, err := goTo(child, *page)
	if err != nil {
		return err
	}

	w := table("ID", "PRODUTO", "VALOR", "QTD")
	for _, p := range st.Items {
		row(w, p.ID, p.Name, format.Currency(p.Value), p.Quantity)
	}
	w.Flush()
	footer(st.Query.Page, st.TotalPages, st.TotalItems)
	return nil
}

func stock(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("stock", flag.ContinueOnError)
	query := fs.String("query", "", "produto ou fornecedor")
	supplierID := fs.Int64("supplier", 0, "id do fornecedor")
	page := fs.Int("page", 1, "página")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s := screen.NewStock(a.Stock, a.Suppliers.Search, a.Deps())
	defer s.Close()
	if err := s.Load(ctx); err != nil {
		return err
	}
	f := s.List.Snapshot().Query.Filter
	f.Query, f.SupplierID = *query, *supplierID
	st, err := load(ctx, s.List, f, *page)
	if err != nil {
		return err
	}
	printStock(st.Items)
	footer(st.Query.Page, st.TotalPages, st.TotalItems)
	limits := s.Limits()
	fmt.Fprintf(out, "Maior quantidade: %d | Maior valor: %s\n", limits.MaxQuantity, format.Currency(limits.MaxValue))
	return nil
}

func sell(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("sell", flag.ContinueOnError)
	stockID := fs.Int64("stock", 0, "id do estoque")
	qty := fs.Int("qty", 0, "quantidade")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s := screen.NewStock(a.Stock, a.Suppliers.Search, a.Deps())
	defer s.Close()
	target, err := a.Stock.GetStockByID(ctx, *stockID)
	if err != nil {
		return err
	}
	if err := s.Sell(ctx, target, *qty); err != nil {
		return err
	}
	printNotice(a)
	return nil
}

func report(ctx context.Context, a *app.App, args []string) error {
	if len(args) == 0 {
		return apperror.NewValidationError("Informe o relatório: critical, low, adequate ou out.")
	}
	level := domain.ReportLevel(args[0])
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	query := fs.String("query", "", "produto")
	supplierID := fs.Int64("supplier", 0, "id do fornecedor")
	sortBy := fs.String("sort", screen.SortByQuantity, "quantity ou supplier")
	dir := fs.String("dir", "asc", "asc ou desc")
	page := fs.Int("page", 1, "página")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	r := screen.NewReport(a.Stock, level, a.Deps())
	defer r.Close()
	r.List.SetSort(domain.Sort{Field: *sortBy, Direction: domain.Direction(strings.ToLower(*dir))})
	r.List.Wait()
	st, err := load(ctx, r.List, domain.ReportFilter{Query: *query, SupplierID: *supplierID}, *page)
	if err != nil {
		return err
	}
	if len(st.Items) == 0 {
		fmt.Fprintln(out, "Nenhum produto encontrado.")
		return nil
	}
	printStock(st.Items)
	footer(st.Query.Page, st.TotalPages, st.TotalItems)
	return nil
}

func sold(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("sold", flag.ContinueOnError)
	query := fs.String("query", "", "produto ou fornecedor")
	supplierID := fs.Int64("supplier", 0, "id do fornecedor")
	from := fs.String("from", "", "data inicial (AAAA-MM-DD)")
	to := fs.String("to", "", "data final (AAAA-MM-DD)")
	page := fs.Int("page", 1, "página")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s := screen.NewSoldItems(a.Sales, a.Deps())
	defer s.Close()
	st, err := load(ctx, s.List, domain.SoldItemsFilter{Query: *query, SupplierID: *supplierID, StartDate: *from, EndDate: *to}, *page)
	if err != nil {
		return err
	}

	w := table("DATA", "PRODUTO", "FORNECEDOR", "QTD", "VALOR")
	for _, it := range st.Items {
		row(w, format.Date(it.SaleDate.Time), it.ProductName, it.SupplierName, it.TotalQuantitySold, format.Currency(it.StockValueAtSale))
	}
	w.Flush()
	footer(st.Query.Page, st.TotalPages, st.TotalItems)
	return nil
}

func sales(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("sales", flag.ContinueOnError)
	days := fs.Int("days", 7, "período em dias")
	if err := fs.Parse(args); err != nil {
		return err
	}

	from, to := screen.LastDays(time.Now(), *days)
	sum, err := screen.LoadSalesSummary(ctx, a.Sales, from, to)
	if err != nil {
		return err
	}

	w := table("DIA", "VENDIDOS")
	for _, d := range sum.Days {
		row(w, format.Date(d.SaleDate.Time), format.Number(d.TotalQuantitySold))
	}
	w.Flush()
	fmt.Fprintf(out, "Total no período: %s\n\nMais vendidos:\n", format.Number(sum.Total))
	printBestSellers(sum.BestSellers)
	return nil
}

func logs(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("logs", flag.ContinueOnError)
	entity := fs.String("entity", "", "Product, Stock, Sale ou Supplier")
	op := fs.String("op", "", "CREATE, UPDATE ou DELETE")
	page := fs.Int("page", 1, "página")
	if err := fs.Parse(args); err != nil {
		return err
	}

	l := screen.NewLogs(a.Logs, a.Deps())
	defer l.Close()
	filter := domain.LogFilter{Entity: domain.LogEntity(*entity), OperationType: domain.OperationType(strings.ToUpper(*op))}
	st, err := load(ctx, l.List, filter, *page)
	if err != nil {
		return err
	}
	printLogs(st.Items)
	footer(st.Query.Page, st.TotalPages, st.TotalItems)
	return nil
}

func dashboard(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	reload := fs.Bool("reload", false, "ignora o cache")
	if err := fs.Parse(args); err != nil {
		return err
	}

	d := screen.NewDashboard(a.Dashboard)
	fetch := d.Load
	if *reload {
		fetch = d.Reload
	}
	ov, err := fetch(ctx)
	if err != nil {
		return err
	}

	sum := ov.Summary
	fmt.Fprintf(out, "Produtos: %s | Zerados: %s | Abaixo do limite: %s | Acima do limite: %s\n\n",
		format.Number(sum.TotalProducts), format.Number(sum.ZeroQuantity),
		format.Number(sum.BetweenThreshold), format.Number(sum.AboveThreshold))
	fmt.Fprintf(out, "Estoque crítico (%d):\n", ov.CriticalTotal)
	printStock(ov.Critical)
	fmt.Fprintln(out, "\nMais vendidos:")
	printBestSellers(ov.BestSellers)
	fmt.Fprintln(out, "\nAtividade recente:")
	printLogs(ov.RecentLogs)
	fmt.Fprintf(out, "\nAtualizado em %s\n", format.DateTime(ov.LoadedAt))
	return nil
}

// load aplica o filtro, vai para a página (1-based) e espera a busca.
func load[T any, F comparable](ctx context.Context, c *listing.Controller[T, F], f F, page int) (listing.State[T, F], error) {
	if !c.SetFilter(f) {
		if _, err := c.Load(ctx); err != nil {
			return c.Snapshot(), err
		}
	}
	c.Wait()
	return goTo(c, page)
}

// goTo vai para a página (1-based) e espera a busca.
func goTo[T any, F comparable](c *listing.Controller[T, F], page int) (listing.State[T, F], error) {
	if page > 1 {
		c.SetPage(page - 1)
		c.Wait()
	}
	st := c.Snapshot()
	return st, st.Err
}

func printStock(items []domain.Stock) {
	w := table("ID", "PRODUTO", "FORNECEDOR", "QTD", "VALOR")
	for _, st := range items {
		row(w, st.ID, st.ProductName, st.SupplierName, st.Quantity, format.Currency(st.Value))
	}
	w.Flush()
}

func printBestSellers(items []domain.BestSellingItem) {
	w := table("PRODUTO", "VENDIDOS")
	for _, it := range items {
		row(w, it.ProductName, format.Number(it.TotalQuantitySold))
	}
	w.Flush()
}

func printLogs(items []domain.Log) {
	w := table("QUANDO", "ENTIDADE", "OPERAÇÃO", "ASSUNTO")
	for _, l := range items {
		row(w, format.DateTime(l.Timestamp.Time), l.Entity.Label(), l.OperationType.Label(), l.Subject())
	}
	w.Flush()
}

func printNotice(a *app.App) {
	if n, ok := a.Notices.Current(); ok {
		fmt.Fprintln(out, n.Message)
	}
}

func table(headers ...string) *tabwriter.Writer {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(headers, "\t"))
	return w
}

func row(w io.Writer, cols ...interface{}) {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = fmt.Sprint(c)
	}
	fmt.Fprintln(w, strings.Join(parts, "\t"))
}

func footer(page, totalPages int, total int64) {
	if totalPages == 0 {
		totalPages = 1
	}
	fmt.Fprintf(out, "Página %d de %d (%s registros)\n", page+1, totalPages, format.Number(total))
}

func userMessage(err error) string {
	return apperror.UserMessage(err, err.Error())
}
