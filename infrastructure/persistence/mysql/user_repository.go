package mysql

import (
	"context"
	"errors"

	"checkout/domain/shared"
	"checkout/domain/user"
	"checkout/infrastructure/persistence"
	"checkout/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

// UserRepository read-only access to customers; accounts are written by the
// login service.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*user.User, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var userPO po.UserPO
	result := r.getDB(ctx).First(&userPO, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, user.NewUserNotFoundError(id)
		}
		return nil, result.Error
	}

	return userPO.ToDomain(), nil
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []int64) (map[int64]*user.User, error) {
	users := make(map[int64]*user.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	var userPOs []po.UserPO
	if err := r.getDB(ctx).Where("id IN ?", ids).Find(&userPOs).Error; err != nil {
		return nil, err
	}
	for i := range userPOs {
		users[userPOs[i].ID] = userPOs[i].ToDomain()
	}
	return users, nil
}

func (r *UserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.getDB(ctx).Model(&po.UserPO{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *UserRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*user.User]) ([]*user.User, error) {
	var userPOs []po.UserPO
	if err := userScope(r.getDB(ctx).Model(&po.UserPO{}), spec).Find(&userPOs).Error; err != nil {
		return nil, err
	}

	users := make([]*user.User, len(userPOs))
	for i := range userPOs {
		users[i] = userPOs[i].ToDomain()
	}
	return users, nil
}

var _ user.Repository = (*UserRepository)(nil)

type AddressRepository struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) *AddressRepository {
	return &AddressRepository{db: db}
}

func (r *AddressRepository) ListByUser(ctx context.Context, userID int64) ([]user.Address, error) {
	var rows []po.AddressPO
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	addresses := make([]user.Address, len(rows))
	for i := range rows {
		addresses[i] = rows[i].ToDomain()
	}
	return addresses, nil
}

var _ user.AddressRepository = (*AddressRepository)(nil)
