package network

import (
	"fmt"
	"strings"

	"github.com/matzehuels/factoryflow/pkg/factory"
)

// Flow is a per-item accumulation of realized throughput, in items per
// second. Items keep the order in which they were first added.
// The zero value is an empty flow.
type Flow struct {
	names   []string
	amounts map[string]float64
}

// Add accumulates amount for item. Non-positive amounts are ignored.
func (f *Flow) Add(item string, amount float64) {
	if amount <= 0 {
		return
	}
	if f.amounts == nil {
		f.amounts = make(map[string]float64)
	}
	if _, ok := f.amounts[item]; !ok {
		f.names = append(f.names, item)
	}
	f.amounts[item] += amount
}

// Reduce removes up to amount of item and returns what was removed. An item
// whose amount drops to zero is forgotten.
func (f *Flow) Reduce(item string, amount float64) float64 {
	cur, ok := f.amounts[item]
	if !ok || amount <= 0 {
		return 0
	}
	if amount >= cur-epsilon {
		delete(f.amounts, item)
		for i, n := range f.names {
			if n == item {
				f.names = append(f.names[:i], f.names[i+1:]...)
				break
			}
		}
		return cur
	}
	f.amounts[item] = cur - amount
	return amount
}

// Get returns the accumulated amount of item.
func (f *Flow) Get(item string) float64 { return f.amounts[item] }

// Total returns the sum over all items.
func (f *Flow) Total() float64 {
	var t float64
	for _, n := range f.names {
		t += f.amounts[n]
	}
	return t
}

// Items returns the accumulated flow in insertion order.
func (f *Flow) Items() []factory.Item {
	items := make([]factory.Item, len(f.names))
	for i, n := range f.names {
		items[i] = factory.Item{Name: n, Amount: f.amounts[n]}
	}
	return items
}

// Len returns the number of items with a positive flow.
func (f *Flow) Len() int { return len(f.names) }

func (f *Flow) String() string {
	parts := make([]string, len(f.names))
	for i, n := range f.names {
		parts[i] = fmt.Sprintf("%s: %g", n, f.amounts[n])
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
