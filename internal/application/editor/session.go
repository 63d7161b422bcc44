package editor

import (
	"sync/atomic"
	"time"
)

// Session une un Editor con su identidad y su actividad.
type Session struct {
	ID        string
	Editor    *Editor
	CreatedAt time.Time

	version    atomic.Int64
	lastAccess atomic.Int64 // UnixNano
}

// NewSession construye la sesión; el editor se asigna después (su listener necesita la sesión).
func NewSession(id string, now time.Time) *Session {
	s := &Session{ID: id, CreatedAt: now}
	s.lastAccess.Store(now.UnixNano())
	return s
}

// Version cuenta las ediciones aceptadas.
func (s *Session) Version() int64 { return s.version.Load() }

// Bump incrementa la versión y devuelve el nuevo valor.
func (s *Session) Bump() int64 { return s.version.Add(1) }

// Touch registra actividad.
func (s *Session) Touch(now time.Time) { s.lastAccess.Store(now.UnixNano()) }

// LastAccess devuelve el instante de la última actividad.
func (s *Session) LastAccess() time.Time { return time.Unix(0, s.lastAccess.Load()) }
