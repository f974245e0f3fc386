package repository

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"
)

// memoryTableSettings — in-memory реализация TableSettingsRepository.
// Используется без PostgreSQL: умолчания живут до рестарта процесса.
type memoryTableSettings struct {
	mu    sync.RWMutex
	items map[string]TableSetting
}

// NewMemoryTableSettingsRepository создаёт in-memory репозиторий умолчаний.
func NewMemoryTableSettingsRepository() TableSettingsRepository {
	return &memoryTableSettings{items: make(map[string]TableSetting)}
}

func (m *memoryTableSettings) Get(_ context.Context, screen string) (*TableSetting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.items[screen]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *memoryTableSettings) Upsert(_ context.Context, s *TableSetting) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s.UpdatedAt = time.Now().UTC()
	m.items[s.Screen] = *s
	return nil
}

func (m *memoryTableSettings) List(_ context.Context) ([]TableSetting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]TableSetting, 0, len(m.items))
	for _, s := range m.items {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b TableSetting) int { return strings.Compare(a.Screen, b.Screen) })
	return out, nil
}

func (m *memoryTableSettings) Delete(_ context.Context, screen string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[screen]; !ok {
		return ErrNotFound
	}
	delete(m.items, screen)
	return nil
}
