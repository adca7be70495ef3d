package catalog

import (
	"sync"

	"vibestyle/internal/domain"
)

// Holder は、差し替え可能な現在のカタログを保持します
type Holder struct {
	mu      sync.RWMutex
	current domain.Catalog
}

// NewHolder は新しいHolderインスタンスを作成します
func NewHolder(initial domain.Catalog) *Holder {
	return &Holder{current: initial}
}

// Catalog は、現在のカタログを返します
func (h *Holder) Catalog() domain.Catalog {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Replace は、カタログを差し替えます
func (h *Holder) Replace(c domain.Catalog) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = c
}
