package inventory

import (
	"fmt"
	"time"

	"github.com/kiln-games/depthforge/internal/domain"
)

// Snapshot is the serializable state of an inventory.
type Snapshot struct {
	Items      []*domain.Item `json:"items"`
	SortMode   SortMode       `json:"sort_mode"`
	FilterType FilterType     `json:"filter_type"`
	MaxSlots   int            `json:"max_slots"`
	Timestamp  time.Time      `json:"timestamp"`
}

// Export captures the inventory state for persistence. Selection and paging
// are transient and not exported.
func (s *Store) Export() *Snapshot {
	return &Snapshot{
		Items:      s.Items(),
		SortMode:   s.sortMode,
		FilterType: s.filterType,
		MaxSlots:   s.maxSlots,
		Timestamp:  time.Now(),
	}
}

// Import replaces the inventory state with a snapshot, clearing selection
// and paging.
func (s *Store) Import(snapshot *Snapshot) error {
	if snapshot == nil || snapshot.Items == nil {
		return fmt.Errorf("%w: snapshot has no items", domain.ErrInvalidInput)
	}

	s.items = append([]*domain.Item(nil), snapshot.Items...)

	s.sortMode = snapshot.SortMode
	if s.sortMode == "" {
		s.sortMode = SortByType
	}
	s.filterType = snapshot.FilterType
	if s.filterType == "" {
		s.filterType = FilterAll
	}
	if snapshot.MaxSlots > 0 {
		s.maxSlots = snapshot.MaxSlots
	}

	s.selected = make(map[string]struct{})
	s.page = 0

	return nil
}
