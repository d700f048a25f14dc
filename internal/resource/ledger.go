package resource

import (
	"fmt"

	"github.com/kiln-games/depthforge/internal/domain"
)

// Ledger is the bounded per-player store of raw resources, keyed by type
// and rarity. The capacity bounds the total unit count across all buckets.
type Ledger struct {
	counts   map[domain.ResourceType]map[domain.Rarity]int
	capacity int
}

// NewLedger creates an empty ledger with the default capacity.
func NewLedger() *Ledger {
	return NewLedgerWithCapacity(DefaultStorageCapacity)
}

// NewLedgerWithCapacity creates an empty ledger bounded at capacity units.
func NewLedgerWithCapacity(capacity int) *Ledger {
	if capacity <= 0 {
		capacity = DefaultStorageCapacity
	}
	l := &Ledger{
		counts:   make(map[domain.ResourceType]map[domain.Rarity]int, len(domain.ResourceTypes)),
		capacity: capacity,
	}
	for _, t := range domain.ResourceTypes {
		l.counts[t] = make(map[domain.Rarity]int, len(domain.ResourceRarities))
	}
	return l
}

func validBucket(t domain.ResourceType, r domain.Rarity) error {
	if !t.Valid() {
		return fmt.Errorf("%w: resource type %q", domain.ErrInvalidInput, t)
	}
	for _, known := range domain.ResourceRarities {
		if r == known {
			return nil
		}
	}
	return fmt.Errorf("%w: resource rarity %q", domain.ErrInvalidInput, r)
}

// Add deposits amount units into a bucket. Fails with ErrStorageFull when
// the deposit would push the total past capacity, leaving the ledger
// unchanged.
func (l *Ledger) Add(t domain.ResourceType, r domain.Rarity, amount int) error {
	if err := validBucket(t, r); err != nil {
		return err
	}
	if amount <= 0 {
		return fmt.Errorf("%w: amount %d", domain.ErrInvalidInput, amount)
	}
	if l.Total()+amount > l.capacity {
		return fmt.Errorf("%w: %d/%d used", domain.ErrStorageFull, l.Total(), l.capacity)
	}
	l.counts[t][r] += amount
	return nil
}

// Remove withdraws amount units from a bucket. Fails when the bucket holds
// fewer units, leaving the ledger unchanged.
func (l *Ledger) Remove(t domain.ResourceType, r domain.Rarity, amount int) error {
	if err := validBucket(t, r); err != nil {
		return err
	}
	if amount <= 0 {
		return fmt.Errorf("%w: amount %d", domain.ErrInvalidInput, amount)
	}
	if l.counts[t][r] < amount {
		return fmt.Errorf("%w: %s/%s has %d, need %d", domain.ErrInsufficientResources, t, r, l.counts[t][r], amount)
	}
	l.counts[t][r] -= amount
	return nil
}

// Has reports whether the bucket holds at least amount units.
func (l *Ledger) Has(t domain.ResourceType, r domain.Rarity, amount int) bool {
	return l.counts[t][r] >= amount
}

// Count returns the units in one bucket.
func (l *Ledger) Count(t domain.ResourceType, r domain.Rarity) int {
	return l.counts[t][r]
}

// Total returns the unit count across all buckets.
func (l *Ledger) Total() int {
	total := 0
	for _, byRarity := range l.counts {
		for _, n := range byRarity {
			total += n
		}
	}
	return total
}

// Capacity returns the total unit bound.
func (l *Ledger) Capacity() int { return l.capacity }

// Free returns the remaining unit headroom.
func (l *Ledger) Free() int { return l.capacity - l.Total() }

// All returns a copy of every non-empty bucket.
func (l *Ledger) All() map[domain.ResourceType]map[domain.Rarity]int {
	out := make(map[domain.ResourceType]map[domain.Rarity]int, len(l.counts))
	for t, byRarity := range l.counts {
		for r, n := range byRarity {
			if n == 0 {
				continue
			}
			if out[t] == nil {
				out[t] = make(map[domain.Rarity]int)
			}
			out[t][r] = n
		}
	}
	return out
}

// Snapshot is the serializable state of a ledger.
type Snapshot struct {
	Resources map[domain.ResourceType]map[domain.Rarity]int `json:"resources"`
	Capacity  int                                           `json:"capacity"`
}

// Export captures the ledger state for persistence.
func (l *Ledger) Export() *Snapshot {
	return &Snapshot{Resources: l.All(), Capacity: l.capacity}
}

// Import replaces the ledger state with a snapshot.
func (l *Ledger) Import(snapshot *Snapshot) error {
	if snapshot == nil || snapshot.Resources == nil {
		return fmt.Errorf("%w: snapshot has no resources", domain.ErrInvalidInput)
	}

	restored := NewLedgerWithCapacity(snapshot.Capacity)
	for t, byRarity := range snapshot.Resources {
		for r, n := range byRarity {
			if n == 0 {
				continue
			}
			if err := restored.Add(t, r, n); err != nil {
				return err
			}
		}
	}

	l.counts = restored.counts
	l.capacity = restored.capacity
	return nil
}
