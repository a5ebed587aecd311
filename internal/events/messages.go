package events

import (
	"encoding/json"
	"time"
)

// Ledger mutation actions carried on the event stream.
const (
	ActionRegister  = "register"
	ActionAddTx     = "transaction_added"
	ActionUpdateTx  = "transaction_updated"
	ActionDeleteTx  = "transaction_deleted"
	ActionSetBudget = "budget_set"
)

// LedgerEvent announces one successful mutation. It names the profile and
// the transaction (zero for budget/register events); consumers fetch the
// state they need from the repository.
type LedgerEvent struct {
	Username      string    `json:"username"`
	Action        string    `json:"action"`
	TransactionID int64     `json:"transaction_id,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewLedgerEvent(username, action string, transactionID int64) *LedgerEvent {
	return &LedgerEvent{
		Username:      username,
		Action:        action,
		TransactionID: transactionID,
		Timestamp:     time.Now(),
	}
}

func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
