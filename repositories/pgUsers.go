package repositories

import (
	"gorm.io/gorm"

	"geo-server/db"
	"geo-server/entities"
)

type userPgRepository struct {
	db db.Database
}

func NewUserPgRepository(database db.Database) UserRepository {
	return &userPgRepository{db: database}
}

func (r *userPgRepository) Create(user *entities.User) error {
	return r.db.GetDB().Create(user).Error
}

func (r *userPgRepository) GetByID(id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.GetDB().Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userPgRepository) GetByUsername(username string) (*entities.User, error) {
	var user entities.User
	err := r.db.GetDB().Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userPgRepository) GetAll() ([]entities.User, error) {
	var users []entities.User
	err := r.db.GetDB().Find(&users).Error
	return users, err
}

// Update merges by primary key; callers load the existing record first so
// fields they leave untouched (hash, created_on) survive the save.
func (r *userPgRepository) Update(user *entities.User) error {
	return r.db.GetDB().Save(user).Error
}

// Delete removes the user, its favorite associations and its claim on owned
// structures. Deleting an id that does not exist is not an error.
func (r *userPgRepository) Delete(id uint) error {
	return r.db.GetDB().Transaction(func(tx *gorm.DB) error {
		user := entities.User{ID: id}
		if err := tx.Model(&user).Association("Favorites").Clear(); err != nil {
			return err
		}
		if err := tx.Model(&entities.Structure{}).Where("user_id = ?", id).Update("user_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
}

func (r *userPgRepository) GetStructuresByOwner(userID uint) ([]entities.Structure, error) {
	var structures []entities.Structure
	err := r.db.GetDB().Where("user_id = ?", userID).Order("created_on DESC").Find(&structures).Error
	return structures, err
}

func (r *userPgRepository) GetFavoritesByUser(userID uint) ([]entities.Structure, error) {
	var structures []entities.Structure
	err := r.db.GetDB().Model(&entities.User{ID: userID}).Association("Favorites").Find(&structures)
	return structures, err
}

// AddFavorite inserts into the user_favorites join table. The composite
// primary key makes a repeated add an upsert no-op rather than a duplicate.
func (r *userPgRepository) AddFavorite(userID, structureID uint) error {
	user := entities.User{ID: userID}
	structure := entities.Structure{ID: structureID}
	return r.db.GetDB().Model(&user).Association("Favorites").Append(&structure)
}

func (r *userPgRepository) RemoveFavorite(userID, structureID uint) error {
	user := entities.User{ID: userID}
	structure := entities.Structure{ID: structureID}
	return r.db.GetDB().Model(&user).Association("Favorites").Delete(&structure)
}
