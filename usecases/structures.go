package usecases

import (
	"errors"

	"geo-server/entities"
	"geo-server/repositories"
)

type StructureUseCase struct {
	StructureRepo repositories.StructureRepository
}

func NewStructureUseCase(structureRepo repositories.StructureRepository) *StructureUseCase {
	return &StructureUseCase{StructureRepo: structureRepo}
}

// CreateStructure creates a new structure
func (uc *StructureUseCase) CreateStructure(structure *entities.Structure) error {
	if structure.Type == "" {
		return errors.New("structure type is required")
	}
	if structure.Name == "" {
		return errors.New("structure name is required")
	}
	return uc.StructureRepo.Create(structure)
}

// GetStructure retrieves a structure by ID
func (uc *StructureUseCase) GetStructure(id uint) (*entities.Structure, error) {
	return uc.StructureRepo.GetByID(id)
}

// GetAllStructures retrieves all structures
func (uc *StructureUseCase) GetAllStructures() ([]entities.Structure, error) {
	return uc.StructureRepo.GetAll()
}
