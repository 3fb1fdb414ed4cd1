package repositories

import "geo-server/entities"

type UserRepository interface {
	Create(user *entities.User) error
	GetByID(id uint) (*entities.User, error)
	GetByUsername(username string) (*entities.User, error)
	GetAll() ([]entities.User, error)
	Update(user *entities.User) error
	Delete(id uint) error
	GetStructuresByOwner(userID uint) ([]entities.Structure, error)
	GetFavoritesByUser(userID uint) ([]entities.Structure, error)
	AddFavorite(userID, structureID uint) error
	RemoveFavorite(userID, structureID uint) error
}

type StructureRepository interface {
	Create(structure *entities.Structure) error
	GetByID(id uint) (*entities.Structure, error)
	GetAll() ([]entities.Structure, error)
}
