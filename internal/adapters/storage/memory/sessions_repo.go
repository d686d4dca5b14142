package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"iv-drip-calculator/internal/domain/sessions"
)

// sessionRepo es el único almacén de sesiones: las selecciones viven
// lo que dura la sesión UI y no se persisten (política explícita).
type sessionRepo struct {
	mu   sync.RWMutex
	byID map[string]sessions.Session
}

func NewSessionRepo() sessions.Repository {
	return &sessionRepo{
		byID: make(map[string]sessions.Session),
	}
}

func (r *sessionRepo) Create(ctx context.Context, s sessions.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(s.ID) == "" {
		return errors.New("session id required")
	}
	if _, exists := r.byID[s.ID]; exists {
		return errors.New("session already exists")
	}
	r.byID[s.ID] = cloneSession(s)
	return nil
}

func (r *sessionRepo) GetByID(ctx context.Context, id string) (sessions.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok {
		return sessions.Session{}, sessions.ErrNotFound
	}
	return cloneSession(s), nil
}

func (r *sessionRepo) Update(ctx context.Context, s sessions.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(s.ID) == "" {
		return errors.New("session id required")
	}
	if _, exists := r.byID[s.ID]; !exists {
		return sessions.ErrNotFound
	}
	r.byID[s.ID] = cloneSession(s)
	return nil
}

// cloneSession copia el slice de selecciones para que el caller
// no mute el estado guardado por referencia.
func cloneSession(s sessions.Session) sessions.Session {
	out := s
	out.Selections = make([]sessions.Selection, len(s.Selections))
	copy(out.Selections, s.Selections)
	if s.WeightKg != nil {
		w := *s.WeightKg
		out.WeightKg = &w
	}
	return out
}
