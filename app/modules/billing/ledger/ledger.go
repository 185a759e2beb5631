// Package ledger is the billing module's in-memory invoice store.
package ledger

import (
	"strconv"
	"sync"
)

type Invoice struct {
	ID          string `json:"id"`
	Customer    string `json:"customer"`
	AmountCents int64  `json:"amountCents"`
	Currency    string `json:"currency,omitempty"`
}

type Book struct {
	mu    sync.RWMutex
	next  int
	items map[string]Invoice
}

func NewBook() *Book {
	return &Book{items: map[string]Invoice{}}
}

// Add stores in under a fresh numeric id and returns the stored copy.
func (b *Book) Add(in Invoice) Invoice {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	in.ID = strconv.Itoa(b.next)
	b.items[in.ID] = in
	return in
}

func (b *Book) Get(id string) (Invoice, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	inv, ok := b.items[id]
	return inv, ok
}

// Default backs the billing routes.
var Default = NewBook()
