package service

import (
	"sync"
	"time"
)

// WorkspaceStore хранит менеджер контактов на каждую сессию
type WorkspaceStore struct {
	mu         sync.RWMutex
	workspaces map[string]*workspace // ключ - id сессии
	newManager func() *ContactManager
	ttl        time.Duration

	done      chan struct{}
	closeOnce sync.Once
}

type workspace struct {
	manager   *ContactManager
	expiresAt time.Time
}

// NewWorkspaceStore создает хранилище и запускает фоновую очистку истекших сессий
func NewWorkspaceStore(newManager func() *ContactManager, ttl, sweepEvery time.Duration) *WorkspaceStore {
	store := &WorkspaceStore{
		workspaces: make(map[string]*workspace),
		newManager: newManager,
		ttl:        ttl,
		done:       make(chan struct{}),
	}

	go store.cleanupExpired(sweepEvery)

	return store
}

// Get возвращает менеджер сессии. fresh=true если он только что создан
// и список контактов еще не загружался.
func (s *WorkspaceStore) Get(sessionID string) (*ContactManager, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	ws, exists := s.workspaces[sessionID]
	fresh := !exists || now.After(ws.expiresAt)
	if fresh {
		ws = &workspace{manager: s.newManager()}
		s.workspaces[sessionID] = ws
	}
	ws.expiresAt = now.Add(s.ttl)

	return ws.manager, fresh
}

// Drop удаляет менеджер сессии (выход)
func (s *WorkspaceStore) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.workspaces, sessionID)
}

// Len - количество живых сессий
func (s *WorkspaceStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.workspaces)
}

// Close останавливает фоновую очистку
func (s *WorkspaceStore) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// cleanupExpired периодически удаляет истекшие сессии
func (s *WorkspaceStore) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.mu.Lock()
			now := time.Now()
			for id, ws := range s.workspaces {
				if now.After(ws.expiresAt) {
					delete(s.workspaces, id)
				}
			}
			s.mu.Unlock()
		}
	}
}
