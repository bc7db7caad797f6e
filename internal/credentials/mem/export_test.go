package mem

// SetRaw overwrites one entry as is, to simulate a damaged profile.
func (s *Store) SetRaw(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
}
