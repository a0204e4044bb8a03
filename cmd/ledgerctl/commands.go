package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"max.ks1230/personal-ledger/internal/entity/transaction"
	"max.ks1230/personal-ledger/internal/model/auth"
	"max.ks1230/personal-ledger/internal/model/balance"
	"max.ks1230/personal-ledger/internal/model/reports"
)

const passwordEnv = "LEDGER_PASSWORD"

// credentials are the -user and -password flags shared by every command.
type credentials struct {
	user     string
	password string
}

func (c *credentials) setFlags(f *flag.FlagSet) {
	f.StringVar(&c.user, "user", "", "username")
	f.StringVar(&c.password, "password", "", "password, defaults to $"+passwordEnv)
}

func (c *credentials) secret() string {
	if c.password != "" {
		return c.password
	}
	return os.Getenv(passwordEnv)
}

func (c *credentials) login(ctx context.Context, e *engine) (auth.Session, error) {
	return e.gate.Login(ctx, c.user, c.secret())
}

func engineOf(args []interface{}) *engine {
	return args[0].(*engine)
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "error:", err)
	return subcommands.ExitFailure
}

func printTotals(e *engine, totals balance.Totals) {
	fmt.Printf("Income:  %s\n", e.renderer.FormatAmount(totals.Income))
	fmt.Printf("Expense: %s\n", e.renderer.FormatAmount(totals.Expense))
	fmt.Printf("Balance: %s\n", e.renderer.FormatAmount(totals.Balance))
}

// withBalance prints the recomputed totals after a mutation.
func withBalance(ctx context.Context, e *engine, session auth.Session) subcommands.ExitStatus {
	totals, err := e.balance.Recompute(ctx, session)
	if err != nil {
		return fail(err)
	}
	printTotals(e, totals)
	return subcommands.ExitSuccess
}

type registerCmd struct {
	credentials
}

func (*registerCmd) Name() string     { return "register" }
func (*registerCmd) Synopsis() string { return "create a new user" }
func (*registerCmd) Usage() string {
	return `ledgerctl register -user <name> -password <password>
`
}

func (c *registerCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f) }

func (c *registerCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	id, err := engineOf(args).gate.Register(ctx, c.user, c.secret())
	if err != nil {
		return fail(err)
	}
	fmt.Printf("registered %s (#%d)\n", strings.TrimSpace(c.user), id)
	return subcommands.ExitSuccess
}

type addCmd struct {
	credentials
	kind   string
	amount string
	date   string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record an income or an expense" }
func (*addCmd) Usage() string {
	return `ledgerctl add -user <name> -kind income|expense -amount <amount> [-date <date>] <description>

  Amounts accept a decimal point or a decimal comma. Dates are yyyy-mm-dd or
  dd.mm.yyyy and default to today.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	c.setFlags(f)
	f.StringVar(&c.kind, "kind", "expense", "income or expense")
	f.StringVar(&c.amount, "amount", "", "positive amount")
	f.StringVar(&c.date, "date", "", "date of the transaction")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	e := engineOf(args)
	session, err := c.login(ctx, e)
	if err != nil {
		return fail(err)
	}
	kind, err := transaction.ParseKind(c.kind)
	if err != nil {
		return fail(err)
	}
	var date time.Time
	if c.date != "" {
		if date, err = transaction.ParseDate(c.date); err != nil {
			return fail(err)
		}
	}

	id, err := e.ledger.Insert(ctx, session, strings.Join(f.Args(), " "), c.amount, kind, date)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("saved #%d\n", id)
	return withBalance(ctx, e, session)
}

type listCmd struct {
	credentials
	kind string
	from string
	to   string
	text string
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list transactions matching all given filters" }
func (*listCmd) Usage() string {
	return `ledgerctl list -user <name> [-kind income|expense] [-from <date>] [-to <date>] [-text <fragment>]
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	c.setFlags(f)
	f.StringVar(&c.kind, "kind", "", "only income or only expense")
	f.StringVar(&c.from, "from", "", "first date, inclusive")
	f.StringVar(&c.to, "to", "", "last date, inclusive")
	f.StringVar(&c.text, "text", "", "case-insensitive description fragment")
}

func (c *listCmd) filter() (transaction.Filter, error) {
	var filter transaction.Filter
	if c.kind != "" {
		k, err := transaction.ParseKind(c.kind)
		if err != nil {
			return filter, err
		}
		filter = filter.WithKind(k)
	}
	if c.from != "" {
		d, err := transaction.ParseDate(c.from)
		if err != nil {
			return filter, err
		}
		filter = filter.WithDateFrom(d)
	}
	if c.to != "" {
		d, err := transaction.ParseDate(c.to)
		if err != nil {
			return filter, err
		}
		filter = filter.WithDateTo(d)
	}
	if c.text != "" {
		filter = filter.WithDescription(c.text)
	}
	return filter, nil
}

func (c *listCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	e := engineOf(args)
	session, err := c.login(ctx, e)
	if err != nil {
		return fail(err)
	}
	filter, err := c.filter()
	if err != nil {
		return fail(err)
	}
	txs, err := e.ledger.Query(ctx, session, filter)
	if err != nil {
		return fail(err)
	}

	for _, tx := range txs {
		fmt.Printf("%6d  %s  %-7s  %14s  %s\n",
			tx.ID,
			tx.OccurredOn.Format(transaction.DateLayout),
			tx.Kind,
			e.renderer.FormatAmount(tx.Amount),
			tx.Description,
		)
	}
	fmt.Println()
	printTotals(e, balance.Sum(txs))
	return subcommands.ExitSuccess
}

type deleteCmd struct {
	credentials
}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete transactions by id, all or none" }
func (*deleteCmd) Usage() string {
	return `ledgerctl delete -user <name> <id>...

  Nothing is deleted when any id is unknown or belongs to another user.
`
}

func (c *deleteCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f) }

func (c *deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	e := engineOf(args)
	session, err := c.login(ctx, e)
	if err != nil {
		return fail(err)
	}
	ids := make([]int64, 0, f.NArg())
	for _, arg := range f.Args() {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%q is not an id\n", arg)
			return subcommands.ExitUsageError
		}
		ids = append(ids, id)
	}

	n, err := e.ledger.DeleteSelected(ctx, session, ids)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("deleted %d\n", n)
	return withBalance(ctx, e, session)
}

type wipeCmd struct {
	credentials
	confirm bool
}

func (*wipeCmd) Name() string     { return "wipe" }
func (*wipeCmd) Synopsis() string { return "delete every transaction of the user" }
func (*wipeCmd) Usage() string {
	return `ledgerctl wipe -user <name> -confirm
`
}

func (c *wipeCmd) SetFlags(f *flag.FlagSet) {
	c.setFlags(f)
	f.BoolVar(&c.confirm, "confirm", false, "required, the wipe cannot be undone")
}

func (c *wipeCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if !c.confirm {
		fmt.Fprintln(os.Stderr, "refusing to wipe without -confirm")
		return subcommands.ExitUsageError
	}
	e := engineOf(args)
	session, err := c.login(ctx, e)
	if err != nil {
		return fail(err)
	}
	n, err := e.ledger.Wipe(ctx, session)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("deleted %d\n", n)
	return withBalance(ctx, e, session)
}

type balanceCmd struct {
	credentials
}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "show income, expense and balance" }
func (*balanceCmd) Usage() string {
	return `ledgerctl balance -user <name>
`
}

func (c *balanceCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f) }

func (c *balanceCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	e := engineOf(args)
	session, err := c.login(ctx, e)
	if err != nil {
		return fail(err)
	}
	return withBalance(ctx, e, session)
}

type reportCmd struct {
	credentials
	period string
	kind   string
	plain  bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "render a statement for a period" }
func (*reportCmd) Usage() string {
	return `ledgerctl report -user <name> [-period week|month|year] [-kind income|expense] [-plain]
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	c.setFlags(f)
	f.StringVar(&c.period, "period", "", "week, month or year; empty for all time")
	f.StringVar(&c.kind, "kind", "", "only income or only expense")
	f.BoolVar(&c.plain, "plain", false, "print raw markdown")
}

func (c *reportCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	e := engineOf(args)
	session, err := c.login(ctx, e)
	if err != nil {
		return fail(err)
	}
	req, err := reports.NewRequest(session.UserID(), 0, c.period+" "+c.kind)
	if err != nil {
		return fail(err)
	}
	text, err := e.reports.Build(ctx, req)
	if err != nil {
		return fail(err)
	}

	if !c.plain {
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
		if err != nil {
			return fail(err)
		}
		if text, err = r.Render(text); err != nil {
			return fail(err)
		}
	}
	fmt.Print(text)
	return subcommands.ExitSuccess
}
