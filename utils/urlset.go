package utils

// OrderedSet tracks URLs in first-seen order with exact-string deduplication.
// The crawl is single-threaded, so no locking is needed.
type OrderedSet struct {
	seen  map[string]struct{}
	order []string
}

// NewOrderedSet creates an empty OrderedSet.
func NewOrderedSet() *OrderedSet {
	return &OrderedSet{seen: make(map[string]struct{})}
}

// Add returns true if the URL was newly added, false if already present.
func (s *OrderedSet) Add(url string) bool {
	if _, exists := s.seen[url]; exists {
		return false
	}
	s.seen[url] = struct{}{}
	s.order = append(s.order, url)
	return true
}

// Contains returns true if the URL has already been recorded.
func (s *OrderedSet) Contains(url string) bool {
	_, exists := s.seen[url]
	return exists
}

// Values returns the URLs in first-seen order.
func (s *OrderedSet) Values() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Size returns the number of unique URLs tracked.
func (s *OrderedSet) Size() int {
	return len(s.seen)
}
