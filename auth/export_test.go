package auth

// LoginAttempts returns how many login/logout attempts have been ordered so far
func LoginAttempts(m *Manager) uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.attempt
}
