package repositories

import (
	"geo-server/db"
	"geo-server/entities"
)

type structurePgRepository struct {
	db db.Database
}

func NewStructurePgRepository(database db.Database) StructureRepository {
	return &structurePgRepository{db: database}
}

func (r *structurePgRepository) Create(structure *entities.Structure) error {
	return r.db.GetDB().Create(structure).Error
}

func (r *structurePgRepository) GetByID(id uint) (*entities.Structure, error) {
	var structure entities.Structure
	err := r.db.GetDB().Where("id = ?", id).First(&structure).Error
	if err != nil {
		return nil, err
	}
	return &structure, nil
}

func (r *structurePgRepository) GetAll() ([]entities.Structure, error) {
	var structures []entities.Structure
	err := r.db.GetDB().Find(&structures).Error
	return structures, err
}
