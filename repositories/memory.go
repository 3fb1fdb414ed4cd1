package repositories

import (
	"sync"
	"time"

	"gorm.io/gorm"

	"geo-server/entities"
)

// MemoryStore is an in-memory implementation of both repositories. It mirrors
// the Postgres semantics (gorm sentinel errors, idempotent deletes, upsert
// no-op on duplicate favorites) and backs the handler and use-case tests.
type MemoryStore struct {
	mu         sync.RWMutex
	users      map[uint]entities.User
	structures map[uint]entities.Structure
	favorites  map[uint][]uint // userID -> structure IDs in insert order
	nextUserID uint
	nextStrID  uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      make(map[uint]entities.User),
		structures: make(map[uint]entities.Structure),
		favorites:  make(map[uint][]uint),
		nextUserID: 1,
		nextStrID:  1,
	}
}

func (m *MemoryStore) Create(user *entities.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = m.nextUserID
	m.nextUserID++
	if user.CreatedOn.IsZero() {
		user.CreatedOn = time.Now()
	}
	m.users[user.ID] = *user
	return nil
}

func (m *MemoryStore) GetByID(id uint) (*entities.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &user, nil
}

func (m *MemoryStore) GetByUsername(username string) (*entities.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, user := range m.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MemoryStore) GetAll() ([]entities.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	users := make([]entities.User, 0, len(m.users))
	for id := uint(1); id < m.nextUserID; id++ {
		if user, ok := m.users[id]; ok {
			users = append(users, user)
		}
	}
	return users, nil
}

func (m *MemoryStore) Update(user *entities.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = *user
	return nil
}

func (m *MemoryStore) Delete(id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
	delete(m.favorites, id)
	for sid, structure := range m.structures {
		if structure.UserID != nil && *structure.UserID == id {
			structure.UserID = nil
			m.structures[sid] = structure
		}
	}
	return nil
}

func (m *MemoryStore) GetStructuresByOwner(userID uint) ([]entities.Structure, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	structures := make([]entities.Structure, 0)
	for id := uint(1); id < m.nextStrID; id++ {
		structure, ok := m.structures[id]
		if ok && structure.UserID != nil && *structure.UserID == userID {
			structures = append(structures, structure)
		}
	}
	return structures, nil
}

func (m *MemoryStore) GetFavoritesByUser(userID uint) ([]entities.Structure, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	structures := make([]entities.Structure, 0)
	for _, sid := range m.favorites[userID] {
		if structure, ok := m.structures[sid]; ok {
			structures = append(structures, structure)
		}
	}
	return structures, nil
}

func (m *MemoryStore) AddFavorite(userID, structureID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	// the join table's foreign keys reject rows for absent users/structures
	if _, ok := m.users[userID]; !ok {
		return gorm.ErrForeignKeyViolated
	}
	if _, ok := m.structures[structureID]; !ok {
		return gorm.ErrForeignKeyViolated
	}
	for _, sid := range m.favorites[userID] {
		if sid == structureID {
			return nil
		}
	}
	m.favorites[userID] = append(m.favorites[userID], structureID)
	return nil
}

func (m *MemoryStore) RemoveFavorite(userID, structureID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	favorites := m.favorites[userID]
	for i, sid := range favorites {
		if sid == structureID {
			m.favorites[userID] = append(favorites[:i], favorites[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *MemoryStore) CreateStructure(structure *entities.Structure) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	structure.ID = m.nextStrID
	m.nextStrID++
	if structure.CreatedOn.IsZero() {
		structure.CreatedOn = time.Now()
	}
	m.structures[structure.ID] = *structure
	return nil
}

func (m *MemoryStore) GetStructureByID(id uint) (*entities.Structure, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	structure, ok := m.structures[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &structure, nil
}

func (m *MemoryStore) GetAllStructures() ([]entities.Structure, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	structures := make([]entities.Structure, 0, len(m.structures))
	for id := uint(1); id < m.nextStrID; id++ {
		if structure, ok := m.structures[id]; ok {
			structures = append(structures, structure)
		}
	}
	return structures, nil
}

// Structures returns a StructureRepository view of the store.
func (m *MemoryStore) Structures() StructureRepository {
	return &memoryStructureView{store: m}
}

type memoryStructureView struct {
	store *MemoryStore
}

func (v *memoryStructureView) Create(structure *entities.Structure) error {
	return v.store.CreateStructure(structure)
}

func (v *memoryStructureView) GetByID(id uint) (*entities.Structure, error) {
	return v.store.GetStructureByID(id)
}

func (v *memoryStructureView) GetAll() ([]entities.Structure, error) {
	return v.store.GetAllStructures()
}
