package usecases

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"geo-server/entities"
	"geo-server/repositories"
)

type UserUseCase struct {
	UserRepo      repositories.UserRepository
	StructureRepo repositories.StructureRepository
}

func NewUserUseCase(userRepo repositories.UserRepository, structureRepo repositories.StructureRepository) *UserUseCase {
	return &UserUseCase{
		UserRepo:      userRepo,
		StructureRepo: structureRepo,
	}
}

// GetAllUsers retrieves all users
func (uc *UserUseCase) GetAllUsers() ([]entities.User, error) {
	return uc.UserRepo.GetAll()
}

// CreateUser registers a new account. The plaintext password is hashed here
// and discarded; only the hash reaches the repository.
func (uc *UserUseCase) CreateUser(username, password string) (*entities.User, error) {
	if username == "" {
		return nil, errors.New("username is required")
	}
	if password == "" {
		return nil, errors.New("password is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := uc.UserRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser retrieves a user by ID
func (uc *UserUseCase) GetUser(id uint) (*entities.User, error) {
	return uc.UserRepo.GetByID(id)
}

// UpdateUser replaces the username and optionally the password of an existing
// user. Identifier, creation date, structures and the current hash are kept
// when the caller does not supply a new value.
func (uc *UserUseCase) UpdateUser(id uint, username, password string) (*entities.User, error) {
	if username == "" {
		return nil, errors.New("username is required")
	}

	existing, err := uc.UserRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	existing.Username = username
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		existing.PasswordHash = string(hash)
	}

	if err := uc.UserRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteUser removes a user. Deleting an id that does not exist succeeds.
func (uc *UserUseCase) DeleteUser(id uint) error {
	return uc.UserRepo.Delete(id)
}

// Authenticate checks a username/password pair and returns the matching user.
func (uc *UserUseCase) Authenticate(username, password string) (*entities.User, error) {
	user, err := uc.UserRepo.GetByUsername(username)
	if err != nil {
		return nil, errors.New("invalid username or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.New("invalid username or password")
	}
	return user, nil
}

// GetStructuresByOwner retrieves all structures owned by a user
func (uc *UserUseCase) GetStructuresByOwner(userID uint) ([]entities.Structure, error) {
	return uc.UserRepo.GetStructuresByOwner(userID)
}

// GetFavoritesByUser retrieves all structures a user has favorited
func (uc *UserUseCase) GetFavoritesByUser(userID uint) ([]entities.Structure, error) {
	return uc.UserRepo.GetFavoritesByUser(userID)
}

// AddFavorite records a favorite and returns the favorited structure.
// Favoriting a structure that is already a favorite leaves a single
// association row in place.
func (uc *UserUseCase) AddFavorite(userID, structureID uint) (*entities.Structure, error) {
	structure, err := uc.StructureRepo.GetByID(structureID)
	if err != nil {
		return nil, err
	}
	if err := uc.UserRepo.AddFavorite(userID, structureID); err != nil {
		return nil, err
	}
	return structure, nil
}

// RemoveFavorite drops the association; removing an absent pair is a no-op.
func (uc *UserUseCase) RemoveFavorite(userID, structureID uint) error {
	return uc.UserRepo.RemoveFavorite(userID, structureID)
}
