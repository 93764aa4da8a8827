package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const DefaultAvatar = "https://cdn-icons-png.flaticon.com/512/2202/2202112.png"

type User struct {
	ID        snowflake.ID `gorm:"primaryKey;autoIncrement:false" json:"_id"`
	Name      string       `gorm:"not null" json:"name"`
	Email     string       `gorm:"not null;uniqueIndex:ux_users_email" json:"email"`
	PhoneNo   string       `gorm:"column:phone_no;not null;uniqueIndex:ux_users_phone_no" json:"phoneNo"`
	Avatar    string       `gorm:"not null" json:"avatar"`
	CreatedAt time.Time    `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time    `gorm:"not null" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
