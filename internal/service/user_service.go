package service

import (
	"errors"
	"strings"

	"Mu_Blog/internal/model"
	"Mu_Blog/internal/pkg"
	"Mu_Blog/internal/repository/redis"

	"golang.org/x/crypto/bcrypt"
)

type SessionStore interface {
	AddToken(usrID uint64, token string) error
	GetToken(usrID uint64) (string, error)
	ExtendToken(usrID uint64) error
	DeleteToken(usrID uint64) error
}

type ResetStore interface {
	SetCode(email, code string) error
	GetCode(email string) (string, error)
	DeleteCode(email string) error
}

type UserService struct {
	repo     UserStore
	sessions SessionStore
	resets   ResetStore
	smtp     pkg.SMTPConfig
}

func NewUserService(repo UserStore, sessions SessionStore, resets ResetStore, smtp pkg.SMTPConfig) *UserService {
	return &UserService{
		repo:     repo,
		sessions: sessions,
		resets:   resets,
		smtp:     smtp,
	}
}

func (s *UserService) Signup(username, email, password string) error {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return errors.New("username and password required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &model.User{
		Username: username,
		Password: string(hash),
		Email:    email,
	}

	return s.repo.Create(user)
}

// Login 校验口令后签发会话 token，写入 redis（单点登录）并返回给 cookie
func (s *UserService) Login(login, password string) (string, *model.User, error) {
	user, err := s.repo.FindByLogin(login)
	if err != nil {
		return "", nil, errors.New("user not found")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", nil, errors.New("invalid password")
	}

	token, err := pkg.SignSession(user.ID, user.Username)
	if err != nil {
		return "", nil, err
	}
	if err = s.sessions.AddToken(user.ID, token); err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *UserService) Logout(usrID uint64) error {
	return s.sessions.DeleteToken(usrID)
}

// ChangePassword 登录态修改密码，改完强制重新登录
func (s *UserService) ChangePassword(usrID uint64, oldPassword, newPassword string) error {
	user, err := s.repo.FindByID(usrID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)) != nil {
		return errors.New("old password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err = s.repo.UpdatePassword(user, string(hash)); err != nil {
		return err
	}

	return s.Logout(usrID)
}

// SendResetCode 发找回密码验证码。邮箱没注册也装作发成功，避免探测账号。
func (s *UserService) SendResetCode(email string) error {
	if _, err := s.repo.FindByEmail(email); err != nil {
		return nil
	}
	code, err := pkg.RandDigits(6)
	if err != nil {
		return err
	}
	if err = s.resets.SetCode(email, code); err != nil {
		return err
	}
	return pkg.SendEmail(s.smtp, email, "找回密码", pkg.ResetCodeHTML(code, redis.ResetCodeTTL))
}

// ResetPassword 校验验证码并重置密码，验证码用过即废
func (s *UserService) ResetPassword(email, code, newPassword string) error {
	stored, err := s.resets.GetCode(email)
	if err != nil || stored != code {
		return errors.New("verification failed")
	}

	user, err := s.repo.FindByEmail(email)
	if err != nil {
		return asNotFound(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err = s.repo.UpdatePassword(user, string(hash)); err != nil {
		return err
	}

	return s.resets.DeleteCode(email)
}
