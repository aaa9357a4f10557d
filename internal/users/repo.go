package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/justyn/travelmap-api/internal/postgres"
)

var (
	ErrUsernameTaken  = errors.New("username already taken")
	ErrBadCredentials = errors.New("wrong username or password")
)

type Repo struct{ DB *pgxpool.Pool }

const cols = `id, login_type, username, password, phone, email, nickname, avatar_url, wx_openid, create_time`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.LoginType, &u.Username, &u.Password, &u.Phone,
		&u.Email, &u.Nickname, &u.AvatarURL, &u.WxOpenID, &u.CreateTime)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repo) Register(ctx context.Context, in RegisterInput) (int64, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	var id int64
	err = r.DB.QueryRow(ctx, `
		INSERT INTO users (login_type, username, password, phone, email, nickname)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		LoginLocal, in.Username, string(hash), in.Phone, in.Email, in.Nickname,
	).Scan(&id)
	if postgres.IsUniqueViolation(err, "username") {
		return 0, ErrUsernameTaken
	}
	return id, err
}

func (r *Repo) Authenticate(ctx context.Context, username, password string) (*User, error) {
	u, err := scanUser(r.DB.QueryRow(ctx, `SELECT `+cols+` FROM users WHERE username=$1`, username))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if u.Password == nil ||
		bcrypt.CompareHashAndPassword([]byte(*u.Password), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	return u, nil
}

// WechatLogin is a placeholder OAuth flow: the openid is mocked from the code.
// A real integration would exchange the code for an access token first.
func (r *Repo) WechatLogin(ctx context.Context, code string) (*User, error) {
	openid := "mock_openid_" + code

	u, err := scanUser(r.DB.QueryRow(ctx, `SELECT `+cols+` FROM users WHERE wx_openid=$1`, openid))
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	tail := code
	if len(tail) > 4 {
		tail = tail[len(tail)-4:]
	}
	nickname := "wx_user_" + tail
	return scanUser(r.DB.QueryRow(ctx, `
		INSERT INTO users (login_type, nickname, wx_openid)
		VALUES ($1, $2, $3)
		RETURNING `+cols, LoginWechat, nickname, openid))
}
