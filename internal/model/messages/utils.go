package messages

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"max.ks1230/personal-ledger/internal/entity/transaction"
	"max.ks1230/personal-ledger/internal/model/auth"
	"max.ks1230/personal-ledger/internal/model/balance"
	"max.ks1230/personal-ledger/internal/model/customerr"
)

const (
	commandParts = 2
	fromPrefix   = "from="
	toPrefix     = "to="
)

func parseCommand(text string) (cmd, arg string) {
	text = strings.TrimSpace(text)
	split := strings.SplitN(text, " ", commandParts)

	if len(split) == commandParts && strings.HasPrefix(text, "/") {
		return stripMention(split[0]), strings.TrimSpace(split[1])
	}
	if strings.HasPrefix(text, "/") {
		return stripMention(text), ""
	}
	return "", text
}

// stripMention turns "/list@ledger_bot" into "/list".
func stripMention(cmd string) string {
	if i := strings.IndexByte(cmd, '@'); i > 0 {
		return cmd[:i]
	}
	return cmd
}

func parseCredentials(arg string) (username, credential string, err error) {
	split := strings.SplitN(strings.TrimSpace(arg), " ", commandParts)
	if len(split) < commandParts {
		return "", "", customerr.Validation("arguments", "expected username and password")
	}
	return split[0], split[1], nil
}

// parseEntry reads "amount [date] description". The date is zero when absent.
func parseEntry(arg string) (amount string, date time.Time, description string, err error) {
	args := strings.Fields(arg)
	if len(args) == 0 {
		return "", time.Time{}, "", customerr.Validation("amount", "is required")
	}
	amount, rest := args[0], args[1:]
	if len(rest) > 0 {
		if d, err := transaction.ParseDate(rest[0]); err == nil {
			date, rest = d, rest[1:]
		}
	}
	return amount, date, strings.Join(rest, " "), nil
}

// parseFilter reads "[income|expense] [from=date] [to=date] [text]". Words
// that are not options form the description fragment.
func parseFilter(arg string) (transaction.Filter, error) {
	var (
		filter transaction.Filter
		words  []string
	)
	for _, word := range strings.Fields(arg) {
		lower := strings.ToLower(word)
		switch {
		case strings.HasPrefix(lower, fromPrefix):
			d, err := transaction.ParseDate(word[len(fromPrefix):])
			if err != nil {
				return transaction.Filter{}, err
			}
			filter = filter.WithDateFrom(d)
		case strings.HasPrefix(lower, toPrefix):
			d, err := transaction.ParseDate(word[len(toPrefix):])
			if err != nil {
				return transaction.Filter{}, err
			}
			filter = filter.WithDateTo(d)
		case filter.Kind == nil && isKind(lower):
			k, _ := transaction.ParseKind(lower)
			filter = filter.WithKind(k)
		default:
			words = append(words, word)
		}
	}
	if len(words) > 0 {
		filter = filter.WithDescription(strings.Join(words, " "))
	}
	return filter, nil
}

func isKind(word string) bool {
	_, err := transaction.ParseKind(word)
	return err == nil
}

func parseIDs(arg string) ([]int64, error) {
	fields := strings.Fields(strings.ReplaceAll(arg, ",", " "))
	if len(fields) == 0 {
		return nil, customerr.Validation("id", "at least one is required")
	}
	ids := make([]int64, 0, len(fields))
	for _, f := range fields {
		id, err := strconv.ParseInt(strings.TrimPrefix(f, "#"), 10, 64)
		if err != nil {
			return nil, customerr.Validation("id", f+" is not a number")
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func formatTotals(totals balance.Totals, f amountFormatter) string {
	return fmt.Sprintf("Income: %s\nExpense: %s\nBalance: %s",
		f.FormatAmount(totals.Income),
		f.FormatAmount(totals.Expense),
		f.FormatAmount(totals.Balance),
	)
}

func formatTransactions(txs []transaction.Transaction, f amountFormatter) string {
	lines := make([]string, 0, len(txs)+2)
	for _, tx := range txs {
		lines = append(lines, fmt.Sprintf("#%d %s %s %s %s",
			tx.ID,
			tx.OccurredOn.Format(transaction.LocalDateLayout),
			tx.Kind,
			f.FormatAmount(tx.Amount),
			tx.Description,
		))
	}
	lines = append(lines, "", formatTotals(balance.Sum(txs), f))
	return strings.Join(lines, "\n")
}

// failure maps an engine error to a reply naming the failed operation. Only
// store and unexpected failures are returned as errors.
func failure(op string, err error) (string, error) {
	var (
		validation *customerr.ValidationError
		authErr    *customerr.AuthError
		conflict   *customerr.ConflictError
		notFound   *customerr.NotFoundError
	)
	switch {
	case errors.As(err, &validation):
		return fmt.Sprintf("Cannot %s: %s %s", op, validation.Field, validation.Reason), nil
	case errors.As(err, &authErr):
		if authErr.Reason == auth.ReasonNotLoggedIn {
			return fmt.Sprintf("Cannot %s: please /login first", op), nil
		}
		return fmt.Sprintf("Cannot %s: %s", op, authErr.Reason), nil
	case errors.As(err, &conflict):
		return fmt.Sprintf("Cannot %s: username %s is taken", op, conflict.Username), nil
	case errors.As(err, &notFound):
		return fmt.Sprintf("Cannot %s: %s %s not found, nothing was changed", op, notFound.Entity, notFound.ID), nil
	case customerr.IsStoreUnavailable(err):
		return fmt.Sprintf("Cannot %s: storage is unavailable, try again later", op), errors.Wrap(err, op)
	}
	return fmt.Sprintf("Cannot %s: something went wrong", op), errors.Wrap(err, op)
}
