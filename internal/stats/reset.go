package stats

// This file contains helpers around the in-memory store. It complements stats.go.

// Reset clears every record.
// Intended for tests and dev convenience.
func (s *MemoryStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.records {
		delete(s.records, k)
	}
}

// Len reports the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
