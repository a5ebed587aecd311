package ledger

import (
	"fintrack/internal/core"
)

// Profile is one user's credentials plus their private ledger and budgets.
// The password is stored and compared as plaintext: the persisted text
// format round-trips it verbatim, which is a known weakness of that format.
type Profile struct {
	Username     string
	Password     string
	Transactions *Store
	Budgets      *BudgetMap
}

// NewProfile returns a profile with an empty store and budget map.
func NewProfile(username, password string) *Profile {
	return &Profile{
		Username:     username,
		Password:     password,
		Transactions: NewStore(),
		Budgets:      NewBudgetMap(),
	}
}

// CheckPassword reports whether the supplied credential matches.
func (p *Profile) CheckPassword(password string) bool {
	return p.Password == password
}

// Registry is the ordered in-memory collection of all profiles, in load
// order. It does not enforce username uniqueness itself; the registration
// flow checks before calling Append.
type Registry struct {
	profiles []*Profile
}

func NewRegistry() *Registry {
	return &Registry{}
}

// FindByUsername does a linear search and returns core.ErrNotFound on a
// miss. Safe on an empty registry.
func (r *Registry) FindByUsername(name string) (*Profile, error) {
	for _, p := range r.profiles {
		if p.Username == name {
			return p, nil
		}
	}
	return nil, core.ErrNotFound
}

// Append adds a profile at the end, preserving load order.
func (r *Registry) Append(p *Profile) {
	r.profiles = append(r.profiles, p)
}

// All returns the profiles in load order.
func (r *Registry) All() []*Profile {
	return r.profiles
}

func (r *Registry) Len() int {
	return len(r.profiles)
}
