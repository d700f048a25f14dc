package inventory

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kiln-games/depthforge/internal/domain"
)

// SortMode orders inventory views.
type SortMode string

const (
	SortByType   SortMode = "type"
	SortByRarity SortMode = "rarity" // descending
	SortByName   SortMode = "name"
	SortByPrice  SortMode = "price" // descending
)

// FilterType narrows inventory views to one item type.
type FilterType string

// FilterAll disables type filtering.
const FilterAll FilterType = "all"

// SetSortMode changes the view ordering and resets paging.
func (s *Store) SetSortMode(mode SortMode) error {
	switch mode {
	case SortByType, SortByRarity, SortByName, SortByPrice:
		s.sortMode = mode
		s.page = 0
		return nil
	default:
		return fmt.Errorf("%w: sort mode %q", domain.ErrInvalidInput, mode)
	}
}

// SetFilter narrows views to one item type and resets paging.
func (s *Store) SetFilter(filter FilterType) error {
	if filter != FilterAll && !domain.ItemType(filter).Valid() {
		return fmt.Errorf("%w: filter type %q", domain.ErrInvalidInput, filter)
	}
	s.filterType = filter
	s.page = 0
	return nil
}

// Filtered returns the records passing the active type filter, in
// inventory order.
func (s *Store) Filtered() []*domain.Item {
	if s.filterType == FilterAll {
		return s.Items()
	}
	var out []*domain.Item
	for _, it := range s.items {
		if it.Type == domain.ItemType(s.filterType) {
			out = append(out, it)
		}
	}
	return out
}

// Sorted returns the filtered records in the active sort order. The stored
// list is never reordered by a view.
func (s *Store) Sorted() []*domain.Item {
	out := s.Filtered()
	sort.SliceStable(out, func(i, j int) bool {
		return lessBy(s.sortMode, out[i], out[j])
	})
	return out
}

func lessBy(mode SortMode, a, b *domain.Item) bool {
	switch mode {
	case SortByRarity:
		if a.Rarity.Order() != b.Rarity.Order() {
			return a.Rarity.Order() > b.Rarity.Order()
		}
		return a.DisplayName < b.DisplayName
	case SortByName:
		return a.DisplayName < b.DisplayName
	case SortByPrice:
		return a.Price > b.Price
	default: // SortByType
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return a.DisplayName < b.DisplayName
	}
}

// PageView is one fixed-size window over the filtered and sorted records.
type PageView struct {
	Items       []*domain.Item `json:"items"`
	CurrentPage int            `json:"current_page"`
	TotalPages  int            `json:"total_pages"`
	TotalItems  int            `json:"total_items"`
}

// Page returns the current page of the active view.
func (s *Store) Page() *PageView {
	sorted := s.Sorted()

	totalPages := (len(sorted) + ItemsPerPage - 1) / ItemsPerPage

	start := s.page * ItemsPerPage
	if start > len(sorted) {
		start = len(sorted)
	}
	end := start + ItemsPerPage
	if end > len(sorted) {
		end = len(sorted)
	}

	return &PageView{
		Items:       sorted[start:end],
		CurrentPage: s.page,
		TotalPages:  totalPages,
		TotalItems:  len(sorted),
	}
}

// NextPage advances the page window. Returns false at the last page.
func (s *Store) NextPage() bool {
	totalPages := (len(s.Sorted()) + ItemsPerPage - 1) / ItemsPerPage
	if s.page < totalPages-1 {
		s.page++
		return true
	}
	return false
}

// PreviousPage steps the page window back. Returns false at the first page.
func (s *Store) PreviousPage() bool {
	if s.page > 0 {
		s.page--
		return true
	}
	return false
}

// ItemsByType returns the records of one type, in inventory order.
func (s *Store) ItemsByType(t domain.ItemType) []*domain.Item {
	var out []*domain.Item
	for _, it := range s.items {
		if it.Type == t {
			out = append(out, it)
		}
	}
	return out
}

// ItemsByRarity returns the records of one rarity, in inventory order.
func (s *Store) ItemsByRarity(r domain.Rarity) []*domain.Item {
	var out []*domain.Item
	for _, it := range s.items {
		if it.Rarity == r {
			out = append(out, it)
		}
	}
	return out
}

// Search returns records whose name, description or type contains query,
// case-insensitively. An empty query matches everything.
func (s *Store) Search(query string) []*domain.Item {
	if query == "" {
		return s.Items()
	}
	q := strings.ToLower(query)
	var out []*domain.Item
	for _, it := range s.items {
		if strings.Contains(strings.ToLower(it.DisplayName), q) ||
			strings.Contains(strings.ToLower(it.Description), q) ||
			strings.Contains(strings.ToLower(string(it.Type)), q) {
			out = append(out, it)
		}
	}
	return out
}

// Summary is an aggregate view of the inventory.
type Summary struct {
	TotalItems    int                     `json:"total_items"`
	MaxSlots      int                     `json:"max_slots"`
	FreeSlots     int                     `json:"free_slots"`
	TotalValue    int                     `json:"total_value"`
	ItemsByType   map[domain.ItemType]int `json:"items_by_type"`
	ItemsByRarity map[domain.Rarity]int   `json:"items_by_rarity"`
	SelectedCount int                     `json:"selected_count"`
}

// Summary returns aggregate counts over the stored records.
func (s *Store) Summary() *Summary {
	summary := &Summary{
		TotalItems:    len(s.items),
		MaxSlots:      s.maxSlots,
		FreeSlots:     s.maxSlots - len(s.items),
		TotalValue:    s.Value(),
		ItemsByType:   make(map[domain.ItemType]int),
		ItemsByRarity: make(map[domain.Rarity]int),
		SelectedCount: len(s.selected),
	}
	for _, it := range s.items {
		summary.ItemsByType[it.Type]++
		summary.ItemsByRarity[it.Rarity]++
	}
	return summary
}

// Organize merges every mergeable stack pair and reorders the stored list:
// stacks first, then non-stackables, each group by rarity descending, type,
// then name. Unlike the sort views, this mutates storage order.
func (s *Store) Organize() int {
	var stacked []*domain.Item
	var single []*domain.Item

	for _, it := range s.items {
		if !it.Stackable {
			single = append(single, it)
			continue
		}
		merged := false
		for _, existing := range stacked {
			if existing.CanStackWith(it) {
				existing.Quantity += it.Quantity
				delete(s.selected, it.ID)
				merged = true
				break
			}
		}
		if !merged {
			stacked = append(stacked, it)
		}
	}

	organizeSort(stacked)
	organizeSort(single)

	s.items = append(stacked, single...)
	return len(s.items)
}

func organizeSort(items []*domain.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Rarity.Order() != b.Rarity.Order() {
			return a.Rarity.Order() > b.Rarity.Order()
		}
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return a.DisplayName < b.DisplayName
	})
}
