// Package memory implementa los repositorios en memoria del proceso.
package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/invoice-editor/internal/application/editor"
)

var _ editor.SessionRepository = (*SessionRepo)(nil)

// SessionRepo guarda las sesiones de edición en un mapa protegido por RWMutex.
type SessionRepo struct {
	mu       sync.RWMutex
	sessions map[string]*editor.Session
}

// NewSessionRepository construye el repositorio vacío.
func NewSessionRepository() *SessionRepo {
	return &SessionRepo{sessions: make(map[string]*editor.Session)}
}

// Create registra la sesión; falla si el ID ya existe.
func (r *SessionRepo) Create(s *editor.Session) error {
	if s == nil || s.ID == "" {
		return fmt.Errorf("sesión sin id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[s.ID]; ok {
		return fmt.Errorf("la sesión %s ya existe", s.ID)
	}
	r.sessions[s.ID] = s
	return nil
}

// GetByID devuelve la sesión o (nil, nil) si no existe.
func (r *SessionRepo) GetByID(id string) (*editor.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[id], nil
}

// Delete elimina la sesión; no falla si no existía.
func (r *SessionRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

// DeleteExpired elimina las sesiones cuya última actividad es anterior a before.
func (r *SessionRepo) DeleteExpired(before time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.sessions {
		if s.LastAccess().Before(before) {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

// Count devuelve el número de sesiones activas.
func (r *SessionRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
