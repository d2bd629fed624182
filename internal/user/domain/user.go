// Package domain 包含用户目录的领域模型
package domain

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrUserNotFound 用户不存在
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken 邮箱已被注册
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials 邮箱或密码错误
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User 用户实体，以邮箱作为身份标识
type User struct {
	gorm.Model
	Email        string `gorm:"column:email;type:varchar(255);uniqueIndex;not null"`
	PasswordHash string `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	FirstName    string `gorm:"column:first_name;type:varchar(100)"`
	LastName     string `gorm:"column:last_name;type:varchar(100)"`
	Phone        string `gorm:"column:phone;type:varchar(15)"`
	Address      string `gorm:"column:address;type:text"`
	City         string `gorm:"column:city;type:varchar(100)"`
	Zipcode      string `gorm:"column:zipcode;type:varchar(10)"`
}

func (User) TableName() string { return "users" }

// HasShippingAddress 是否已填写收货地址
func (u *User) HasShippingAddress() bool {
	return u.Address != ""
}

// ProfileUpdate 个人资料可修改字段
type ProfileUpdate struct {
	FirstName string
	LastName  string
	Phone     string
	Address   string
	City      string
	Zipcode   string
}

// UserRepository 用户仓储接口
type UserRepository interface {
	Save(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}
