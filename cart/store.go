package cart

import (
	"encoding/json"
	"sync"

	"github.com/yeremiapane/foodiehub/storage"
	"github.com/yeremiapane/foodiehub/utils"
)

// Store is the cart of one session. Every mutation is written through to kv;
// write failures are logged and memory stays authoritative.
type Store struct {
	mu     sync.Mutex
	kv     storage.Store
	items  []LineItem
	exists bool
}

func NewStore(kv storage.Store) *Store {
	return &Store{kv: kv}
}

// Load replaces the in-memory cart with the persisted one. Missing or
// unreadable data gives an empty cart.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.exists = false

	raw, ok, err := s.kv.Get(storage.KeyCart)
	if err != nil {
		utils.ErrorLogger.Printf("cart: load failed: %v", err)
		return
	}
	if !ok {
		return
	}

	var items []LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		utils.ErrorLogger.Printf("cart: discarding corrupt cart: %v", err)
		return
	}
	if !consistent(items) {
		utils.ErrorLogger.Printf("cart: discarding inconsistent cart (%d items)", len(items))
		return
	}

	s.items = items
	s.exists = true
}

func consistent(items []LineItem) bool {
	seen := make(map[uint]bool, len(items))
	for i, it := range items {
		if it.Quantity < 1 || it.Price < 0 || seen[it.ID] {
			return false
		}
		if i > 0 && it.RestaurantID != items[0].RestaurantID {
			return false
		}
		seen[it.ID] = true
	}
	return true
}

// AddItem inserts item with quantity 1, or bumps the quantity of an item
// with the same id. The incoming Quantity is ignored.
func (s *Store) AddItem(item LineItem) (LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) > 0 && s.items[0].RestaurantID != item.RestaurantID {
		return LineItem{}, &ConflictError{
			CartRestaurantID: s.items[0].RestaurantID,
			ItemRestaurantID: item.RestaurantID,
		}
	}
	out := s.add(item)
	s.persist()
	return out, nil
}

// ClearAndAdd drops the current cart and starts a new one with item.
func (s *Store) ClearAndAdd(item LineItem) LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	out := s.add(item)
	s.persist()
	return out
}

func (s *Store) add(item LineItem) LineItem {
	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i].Quantity++
			return s.items[i]
		}
	}
	item.Quantity = 1
	s.items = append(s.items, item)
	return item
}

func (s *Store) Increment(id uint) (LineItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return LineItem{}, false
	}
	s.items[i].Quantity++
	s.persist()
	return s.items[i], true
}

// Decrement lowers the quantity by one. At quantity 1 it does nothing; use
// RemoveItem to drop the line.
func (s *Store) Decrement(id uint) (LineItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return LineItem{}, false
	}
	if s.items[i].Quantity > 1 {
		s.items[i].Quantity--
		s.persist()
	}
	return s.items[i], true
}

func (s *Store) RemoveItem(id uint) (Removal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return Removal{}, false
	}
	removed := s.items[i]
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.persist()
	return Removal{Item: removed}, true
}

// Clear empties the cart and deletes the persisted key, so a later Load
// sees "no cart" rather than an empty one.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.exists = false
	if err := s.kv.Delete(storage.KeyCart); err != nil {
		utils.ErrorLogger.Printf("cart: delete failed: %v", err)
	}
}

// Items returns a copy of the lines in insertion order.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// RestaurantID is 0 for an empty cart.
func (s *Store) RestaurantID() uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.items) == 0 {
		return 0
	}
	return s.items[0].RestaurantID
}

// Len is the number of distinct lines.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// ItemCount is the sum of quantities.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

// Exists reports whether a cart is persisted, even an empty one.
func (s *Store) Exists() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exists
}

func (s *Store) index(id uint) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// persist must be called with mu held.
func (s *Store) persist() {
	items := s.items
	if items == nil {
		items = []LineItem{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		utils.ErrorLogger.Printf("cart: encode failed: %v", err)
		return
	}
	if err := s.kv.Set(storage.KeyCart, string(b)); err != nil {
		utils.ErrorLogger.Printf("cart: persist failed: %v", err)
		return
	}
	s.exists = true
}
