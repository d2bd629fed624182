package application

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/wyfcoding/zenstore/internal/user/domain"
)

// UserService 用户应用服务
type UserService struct {
	repo domain.UserRepository
}

func NewUserService(repo domain.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Register 创建账号，邮箱唯一
func (s *UserService) Register(ctx context.Context, email, password, firstName, lastName string) (*domain.User, error) {
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    firstName,
		LastName:     lastName,
	}
	if err := s.repo.Save(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// Authenticate 校验邮箱密码
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// Get 获取用户
func (s *UserService) Get(ctx context.Context, id uint) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile 更新个人资料，结算页保存收货地址复用此方法
func (s *UserService) UpdateProfile(ctx context.Context, id uint, update domain.ProfileUpdate) (*domain.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	user.FirstName = update.FirstName
	user.LastName = update.LastName
	user.Phone = update.Phone
	user.Address = update.Address
	user.City = update.City
	user.Zipcode = update.Zipcode

	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
