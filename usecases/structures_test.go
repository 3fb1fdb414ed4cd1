package usecases

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"geo-server/entities"
	"geo-server/repositories"
)

func TestCreateStructureValidation(t *testing.T) {
	store := repositories.NewMemoryStore()
	uc := NewStructureUseCase(store.Structures())

	err := uc.CreateStructure(&entities.Structure{Name: "No type"})
	assert.Error(t, err)

	err = uc.CreateStructure(&entities.Structure{Type: entities.TypeTower})
	assert.Error(t, err)

	structure := &entities.Structure{Type: entities.TypeTower, Name: "Lookout"}
	require.NoError(t, uc.CreateStructure(structure))
	assert.NotZero(t, structure.ID)
}

func TestGetStructure(t *testing.T) {
	store := repositories.NewMemoryStore()
	uc := NewStructureUseCase(store.Structures())

	_, err := uc.GetStructure(1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	structure := &entities.Structure{Type: entities.TypeShelter, Name: "Refuge"}
	require.NoError(t, uc.CreateStructure(structure))

	got, err := uc.GetStructure(structure.ID)
	require.NoError(t, err)
	assert.Equal(t, "Refuge", got.Name)

	all, err := uc.GetAllStructures()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
