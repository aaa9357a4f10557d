package users

import "time"

const (
	LoginLocal  = "LOCAL"
	LoginWechat = "WECHAT"
)

type User struct {
	ID         int64     `json:"id"`
	LoginType  string    `json:"login_type"`
	Username   *string   `json:"username"`
	Password   *string   `json:"-"` // bcrypt hash, never serialized
	Phone      *string   `json:"phone"`
	Email      *string   `json:"email"`
	Nickname   *string   `json:"nickname"`
	AvatarURL  *string   `json:"avatar_url"`
	WxOpenID   *string   `json:"-"`
	CreateTime time.Time `json:"create_time"`
}

type RegisterInput struct {
	Username string
	Password string
	Phone    *string
	Email    *string
	Nickname *string
}
