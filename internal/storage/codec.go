// Package storage persists the full profile registry: a line-oriented text
// codec with an atomic file repository, and a SQLite repository holding the
// same wholesale snapshot.
package storage

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

// Line grammar, repeated per profile:
//
//	USER|<username>|<password>
//	NEXT_ID|<integer>
//	BUDGETS|<cat>:<amount>,...,
//	TRANS|<id>|<date>|<category>|<description>|<amount>|<I or E>
//	ENDUSER
//
// The format is append-only extensible: unknown prefixes are ignored on
// load, and reordering fields would break old readers.
const (
	prefixUser    = "USER|"
	prefixNextID  = "NEXT_ID|"
	prefixBudgets = "BUDGETS|"
	prefixTrans   = "TRANS|"
	lineEndUser   = "ENDUSER"
)

// SchemaSkip records one malformed line dropped during decoding. Skips are
// reported to the caller for logging; they never fail the load.
type SchemaSkip struct {
	Line   int
	Text   string
	Reason string
}

func (s SchemaSkip) String() string {
	return fmt.Sprintf("line %d skipped (%s): %s", s.Line, s.Reason, s.Text)
}

// Encode writes the registry in the persisted text format. Budget entries
// are emitted sorted by category so output is deterministic; amounts are
// rendered with two decimals, which may differ from the loaded text without
// changing the value.
func Encode(w io.Writer, reg *ledger.Registry) error {
	bw := bufio.NewWriter(w)
	for _, p := range reg.All() {
		fmt.Fprintf(bw, "USER|%s|%s\n", p.Username, p.Password)
		fmt.Fprintf(bw, "NEXT_ID|%d\n", p.Transactions.NextID())

		bw.WriteString("BUDGETS|")
		for _, cat := range p.Budgets.Categories() {
			fmt.Fprintf(bw, "%s:%s,", cat, p.Budgets.Get(cat))
		}
		bw.WriteString("\n")

		for _, t := range p.Transactions.All() {
			fmt.Fprintf(bw, "TRANS|%d|%s|%s|%s|%s|%s\n",
				t.ID, t.Date, t.Category, t.Description, t.Amount, t.Kind)
		}
		bw.WriteString(lineEndUser + "\n")
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write registry: %w", err)
	}
	return nil
}

// decodeState carries one profile's lines until its ENDUSER.
type decodeState struct {
	username     string
	password     string
	nextID       int64
	budgets      *ledger.BudgetMap
	transactions []core.Transaction
}

// Decode parses the persisted text format into a registry. Malformed
// records come back as SchemaSkip values instead of errors: a bad line
// never aborts the rest of the file or the profiles after it.
func Decode(r io.Reader) (*ledger.Registry, []SchemaSkip, error) {
	reg := ledger.NewRegistry()
	var skips []SchemaSkip
	var cur *decodeState

	flush := func() {
		if cur == nil {
			return
		}
		p := &ledger.Profile{
			Username:     cur.username,
			Password:     cur.password,
			Transactions: ledger.RestoreStore(cur.transactions, cur.nextID),
			Budgets:      cur.budgets,
		}
		reg.Append(p)
		cur = nil
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()

		switch {
		case strings.HasPrefix(line, prefixUser):
			flush() // a USER line without a preceding ENDUSER still starts a new profile
			fields := strings.Split(line, "|")
			if len(fields) < 3 {
				skips = append(skips, SchemaSkip{lineNo, line, "USER record needs username and password"})
				continue
			}
			cur = &decodeState{
				username: fields[1],
				password: fields[2],
				nextID:   1,
				budgets:  ledger.NewBudgetMap(),
			}

		case strings.HasPrefix(line, prefixNextID) && cur != nil:
			n, err := strconv.ParseInt(line[len(prefixNextID):], 10, 64)
			if err != nil {
				skips = append(skips, SchemaSkip{lineNo, line, "NEXT_ID not an integer"})
				continue
			}
			cur.nextID = n

		case strings.HasPrefix(line, prefixBudgets) && cur != nil:
			decodeBudgets(line[len(prefixBudgets):], cur.budgets, lineNo, line, &skips)

		case strings.HasPrefix(line, prefixTrans) && cur != nil:
			t, reason := decodeTransaction(line)
			if reason != "" {
				skips = append(skips, SchemaSkip{lineNo, line, reason})
				continue
			}
			cur.transactions = append(cur.transactions, t)

		case line == lineEndUser:
			flush()

		default:
			// Unknown prefixes (and records outside a USER block) are
			// ignored so old readers survive appended schema extensions.
		}
	}
	if err := sc.Err(); err != nil {
		return nil, skips, fmt.Errorf("read registry: %w", err)
	}
	flush()
	return reg, skips, nil
}

// decodeBudgets parses "cat:amount,cat:amount,". A trailing separator is
// tolerated; individual bad entries are skipped.
func decodeBudgets(s string, budgets *ledger.BudgetMap, lineNo int, line string, skips *[]SchemaSkip) {
	for _, part := range strings.Split(s, ",") {
		if part == "" {
			continue
		}
		cat, amountText, ok := strings.Cut(part, ":")
		if !ok {
			*skips = append(*skips, SchemaSkip{lineNo, line, fmt.Sprintf("budget entry %q has no separator", part)})
			continue
		}
		amount, err := core.ParseAmount(amountText)
		if err != nil {
			*skips = append(*skips, SchemaSkip{lineNo, line, fmt.Sprintf("budget entry %q has a bad amount", part)})
			continue
		}
		budgets.Set(cat, amount)
	}
}

func decodeTransaction(line string) (core.Transaction, string) {
	fields := strings.Split(line, "|")
	// "TRANS" plus exactly six fields; anything else is a schema skip.
	if len(fields) != 7 {
		return core.Transaction{}, fmt.Sprintf("TRANS record has %d fields, want 7", len(fields))
	}
	id, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return core.Transaction{}, "TRANS id not an integer"
	}
	amount, err := core.ParseAmount(fields[5])
	if err != nil {
		return core.Transaction{}, "TRANS amount not a number"
	}
	kind, err := core.ParseKind(fields[6])
	if err != nil {
		return core.Transaction{}, "TRANS kind not I or E"
	}
	return core.Transaction{
		ID:          id,
		Date:        fields[2],
		Category:    fields[3],
		Description: fields[4],
		Amount:      amount,
		Kind:        kind,
	}, ""
}
