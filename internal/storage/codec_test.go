package storage

import (
	"bytes"
	"strings"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

func sampleRegistry() *ledger.Registry {
	reg := ledger.NewRegistry()

	alice := ledger.NewProfile("alice", "hunter2")
	alice.Transactions.Add("2024-01-15", "Salary", "January pay", core.Money{Cents: 250000}, core.Income)
	alice.Transactions.Add("2024-01-20", "Food", "groceries", core.Money{Cents: 4599}, core.Expense)
	alice.Budgets.Set("Food", core.Money{Cents: 30000})
	alice.Budgets.Set("Transport", core.Money{Cents: 10000})
	reg.Append(alice)

	bob := ledger.NewProfile("bob", "pw")
	bob.Transactions.Add("2023-11-02", "Rent", "november rent", core.Money{Cents: 90000}, core.Expense)
	reg.Append(bob)

	return reg
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	reg := sampleRegistry()

	var buf bytes.Buffer
	if err := Encode(&buf, reg); err != nil {
		t.Fatalf("encode: %v", err)
	}

	got, skips, err := Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(skips) != 0 {
		t.Fatalf("unexpected skips: %v", skips)
	}
	if got.Len() != reg.Len() {
		t.Fatalf("profiles = %d, want %d", got.Len(), reg.Len())
	}

	for i, want := range reg.All() {
		p := got.All()[i]
		if p.Username != want.Username || p.Password != want.Password {
			t.Fatalf("profile %d credentials = %s/%s, want %s/%s",
				i, p.Username, p.Password, want.Username, want.Password)
		}
		if p.Transactions.NextID() != want.Transactions.NextID() {
			t.Fatalf("profile %s nextID = %d, want %d",
				p.Username, p.Transactions.NextID(), want.Transactions.NextID())
		}
		wantTxs := want.Transactions.All()
		gotTxs := p.Transactions.All()
		if len(gotTxs) != len(wantTxs) {
			t.Fatalf("profile %s transactions = %d, want %d", p.Username, len(gotTxs), len(wantTxs))
		}
		for j := range wantTxs {
			if gotTxs[j] != wantTxs[j] {
				t.Fatalf("profile %s tx %d = %+v, want %+v", p.Username, j, gotTxs[j], wantTxs[j])
			}
		}
		for _, cat := range want.Budgets.Categories() {
			if p.Budgets.Get(cat) != want.Budgets.Get(cat) {
				t.Fatalf("profile %s budget %s = %v, want %v",
					p.Username, cat, p.Budgets.Get(cat), want.Budgets.Get(cat))
			}
		}
	}
}

func TestDecodeSkipsShortTransRecord(t *testing.T) {
	// The TRANS line is missing the kind field; the records around it must
	// still load, including the following profile.
	input := strings.Join([]string{
		"USER|alice|pw",
		"NEXT_ID|3",
		"BUDGETS|Food:20.00,",
		"TRANS|1|2024-01-15|Food|lunch|12.50|E",
		"TRANS|2|2024-01-16|Food|dinner|30.00",
		"ENDUSER",
		"USER|bob|pw2",
		"NEXT_ID|1",
		"BUDGETS|",
		"ENDUSER",
	}, "\n")

	reg, skips, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(skips) != 1 {
		t.Fatalf("skips = %v, want exactly one", skips)
	}
	if skips[0].Line != 5 {
		t.Fatalf("skip line = %d, want 5", skips[0].Line)
	}
	if reg.Len() != 2 {
		t.Fatalf("profiles = %d, want 2 (skip must not abort later profiles)", reg.Len())
	}

	alice, err := reg.FindByUsername("alice")
	if err != nil {
		t.Fatalf("find alice: %v", err)
	}
	if alice.Transactions.Len() != 1 {
		t.Fatalf("alice transactions = %d, want 1", alice.Transactions.Len())
	}
	if alice.Transactions.NextID() != 3 {
		t.Fatalf("alice nextID = %d, want 3", alice.Transactions.NextID())
	}
}

func TestDecodeIgnoresUnknownPrefixes(t *testing.T) {
	input := strings.Join([]string{
		"# a comment-ish line",
		"USER|alice|pw",
		"NEXT_ID|2",
		"FUTURE_FIELD|whatever",
		"BUDGETS|Food:20.00,",
		"TRANS|1|2024-01-15|Food|lunch|12.50|E",
		"ENDUSER",
	}, "\n")

	reg, skips, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(skips) != 0 {
		t.Fatalf("unknown prefixes must be ignored, not skipped: %v", skips)
	}
	if reg.Len() != 1 {
		t.Fatalf("profiles = %d, want 1", reg.Len())
	}
}

func TestDecodeBudgetsTrailingSeparatorAndBadEntries(t *testing.T) {
	input := strings.Join([]string{
		"USER|alice|pw",
		"NEXT_ID|1",
		"BUDGETS|Food:20.00,Transport:abc,Rent:900,",
		"ENDUSER",
	}, "\n")

	reg, skips, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(skips) != 1 {
		t.Fatalf("skips = %v, want one for the bad Transport entry", skips)
	}
	alice := reg.All()[0]
	if got := alice.Budgets.Get("Food"); got.Cents != 2000 {
		t.Fatalf("Food budget = %v", got)
	}
	if got := alice.Budgets.Get("Rent"); got.Cents != 90000 {
		t.Fatalf("Rent budget = %v", got)
	}
	if got := alice.Budgets.Get("Transport"); !got.IsZero() {
		t.Fatalf("bad budget entry was stored: %v", got)
	}
}

func TestDecodeEmptyInput(t *testing.T) {
	reg, skips, err := Decode(strings.NewReader(""))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if reg.Len() != 0 || len(skips) != 0 {
		t.Fatalf("empty input: profiles=%d skips=%d", reg.Len(), len(skips))
	}
}
