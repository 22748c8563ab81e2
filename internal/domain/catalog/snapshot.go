package catalog

// Snapshot is an immutable, indexed view of the catalog.
// Safe for concurrent readers.
type Snapshot struct {
	products []Product
	byID     map[int64]int
}

// NewSnapshot indexes products by id. When ids repeat, the last entry wins
// for lookups while listing keeps the input order.
func NewSnapshot(products []Product) *Snapshot {
	s := &Snapshot{
		products: make([]Product, len(products)),
		byID:     make(map[int64]int, len(products)),
	}
	copy(s.products, products)
	for i, p := range s.products {
		s.byID[p.ID] = i
	}
	return s
}

// Empty returns a snapshot without products.
func Empty() *Snapshot {
	return NewSnapshot(nil)
}

// Lookup finds a product by id.
func (s *Snapshot) Lookup(id int64) (Product, bool) {
	if s == nil {
		return Product{}, false
	}
	i, ok := s.byID[id]
	if !ok {
		return Product{}, false
	}
	return s.products[i], true
}

// Products returns a copy of the catalog in load order.
func (s *Snapshot) Products() []Product {
	if s == nil {
		return []Product{}
	}
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out
}

// Len returns the number of products.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.products)
}
