package room

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/huehuehyu/leastcount/internal/models"
)

// Store is the in-memory room registry.
type Store struct {
	mu     sync.RWMutex
	rooms  map[string]*Room
	logger *logrus.Logger
}

// NewStore creates an empty registry.
func NewStore(logger *logrus.Logger) *Store {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Store{
		rooms:  make(map[string]*Room),
		logger: logger,
	}
}

// NewRoomID generates a short join code: the first 8 characters of a UUID,
// uppercased.
func NewRoomID() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

// Create registers a new room with the given player as host. Rooms delete
// themselves from the registry once their last player leaves.
func (s *Store) Create(id string, host *models.Player, scoreLimit int) (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[id]; ok {
		return nil, ErrRoomAlreadyExists
	}
	r := NewRoom(id, host, scoreLimit, s.logger)
	r.OnEmpty = s.Delete
	s.rooms[id] = r
	s.logger.WithFields(logrus.Fields{
		"room": id,
		"host": host.ID,
	}).Info("room created")
	return r, nil
}

// Get looks up a room by ID.
func (s *Store) Get(id string) (*Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return r, nil
}

// Delete removes a room from the registry.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[id]; ok {
		delete(s.rooms, id)
		s.logger.WithField("room", id).Info("room deleted")
	}
}

// List returns lobby views for every registered room.
func (s *Store) List() []Info {
	s.mu.RLock()
	rooms := make([]*Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		rooms = append(rooms, r)
	}
	s.mu.RUnlock()

	infos := make([]Info, 0, len(rooms))
	for _, r := range rooms {
		infos = append(infos, r.Snapshot())
	}
	return infos
}
