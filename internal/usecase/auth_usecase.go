package usecase

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"freshmart/internal/domain/model"
	repo "freshmart/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// accesstokenの有効期限（24時間）
const accessTokenTTL = 24 * time.Hour

// ワンタイムコードの有効期限
const otpTTL = 5 * time.Minute

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern = regexp.MustCompile(`^\d{10}$`)
)

// AuthUsecase は登録・ログイン・OTPログインを担当する。
// 以降のリクエストはミドルウェアがトークンを検証するだけで、ここには戻らない。
type AuthUsecase struct {
	tx         repo.TransactionManager
	users      repo.UserRepository
	otpCodes   repo.OTPRepository
	jwtSecret  []byte
	debug      bool
	bcryptCost int
}

func NewAuthUsecase(tx repo.TransactionManager, users repo.UserRepository, otpCodes repo.OTPRepository, jwtSecret string, debug bool) *AuthUsecase {
	return &AuthUsecase{
		tx:         tx,
		users:      users,
		otpCodes:   otpCodes,
		jwtSecret:  []byte(jwtSecret),
		debug:      debug,
		bcryptCost: bcrypt.DefaultCost,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

type LoginInput struct {
	Email    string
	Phone    string
	Password string
}

type TokenOutput struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	User        model.User `json:"user"`
}

type SendOTPOutput struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	DebugOTP string `json:"debug_otp,omitempty"`
}

// Register は新規ユーザーを作り、カートとウィッシュリストも同じTxで先に用意する。
// 読み取り時の遅延作成に頼らないための ensure-exists。
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (TokenOutput, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	phone := strings.TrimSpace(in.Phone)

	if len(name) < 2 || len(name) > 100 {
		return TokenOutput{}, NewHTTPError(http.StatusBadRequest, "invalid name")
	}
	if email == "" && phone == "" {
		return TokenOutput{}, NewHTTPError(http.StatusBadRequest, "email or phone required")
	}
	if email != "" && !emailPattern.MatchString(email) {
		return TokenOutput{}, NewHTTPError(http.StatusBadRequest, "invalid email")
	}
	if phone != "" && !phonePattern.MatchString(phone) {
		return TokenOutput{}, NewHTTPError(http.StatusBadRequest, "phone number must be 10 digits")
	}
	if in.Password != "" && len(in.Password) < 6 {
		return TokenOutput{}, NewHTTPError(http.StatusBadRequest, "password too short")
	}

	user := model.User{
		UID:      uuid.NewString(),
		Name:     name,
		Role:     model.RoleUser,
		Provider: model.ProviderEmail,
		IsActive: true,
	}
	if email != "" {
		user.Email = &email
	}
	if phone != "" {
		user.Phone = &phone
	}
	if email == "" {
		user.Provider = model.ProviderPhone
	}
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), u.bcryptCost)
		if err != nil {
			return TokenOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
		}
		h := string(hash)
		user.PasswordHash = &h
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Users().Create(ctx, &user); err != nil {
			if err == repo.ErrDuplicate {
				return NewHTTPError(http.StatusConflict, "email or phone already registered")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if _, err := r.Carts().GetOrCreateByUserID(ctx, user.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if _, err := r.Wishlists().GetOrCreateByUserID(ctx, user.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
	if err != nil {
		return TokenOutput{}, err
	}

	return u.issueToken(user)
}

// Login はemailまたはphone＋パスワードで認証する。
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (TokenOutput, error) {
	email := strings.TrimSpace(in.Email)
	phone := strings.TrimSpace(in.Phone)

	var (
		user model.User
		err  error
	)
	switch {
	case email != "":
		user, err = u.users.FindByEmail(ctx, email)
	case phone != "":
		user, err = u.users.FindByPhone(ctx, phone)
	default:
		return TokenOutput{}, NewHTTPError(http.StatusBadRequest, "email or phone required")
	}

	if err == repo.ErrNotFound {
		return TokenOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return TokenOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !user.IsActive {
		return TokenOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	if user.PasswordHash == nil {
		return TokenOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(in.Password)); err != nil {
		return TokenOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := u.users.Update(ctx, &user); err != nil {
		return TokenOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.issueToken(user)
}

// SendOTP はコードを発行してDBに保存する（再送信は上書き）。
// SMS送信は外部コラボレーターで、ここではdebug時にだけコードを返す。
func (u *AuthUsecase) SendOTP(ctx context.Context, phone string) (SendOTPOutput, error) {
	phone = strings.TrimSpace(phone)
	if !phonePattern.MatchString(phone) {
		return SendOTPOutput{}, NewHTTPError(http.StatusBadRequest, "phone number must be 10 digits")
	}

	code := randomDigits(6)
	now := time.Now()

	if err := u.otpCodes.Upsert(ctx, model.OTPCode{
		Phone:     phone,
		Code:      code,
		ExpiresAt: now.Add(otpTTL),
		CreatedAt: now,
	}); err != nil {
		return SendOTPOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//ついでに期限切れ行を掃除
	_ = u.otpCodes.DeleteExpired(ctx, now)

	out := SendOTPOutput{
		Success: true,
		Message: "OTP sent to +91 " + phone,
	}
	if u.debug {
		out.DebugOTP = code
	}
	return out, nil
}

// VerifyOTP はコードを検証し、初回ならユーザーを作ってログインさせる。
// コードは検証成功でも期限切れでも削除する。
func (u *AuthUsecase) VerifyOTP(ctx context.Context, phone string, code string) (TokenOutput, error) {
	phone = strings.TrimSpace(phone)
	if !phonePattern.MatchString(phone) {
		return TokenOutput{}, NewHTTPError(http.StatusBadRequest, "phone number must be 10 digits")
	}
	if len(code) != 6 {
		return TokenOutput{}, NewHTTPError(http.StatusBadRequest, "invalid otp")
	}

	var user model.User

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		stored, err := r.OTPCodes().FindByPhone(ctx, phone)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusBadRequest, "otp expired or not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if stored.Expired(time.Now()) {
			_ = r.OTPCodes().DeleteByPhone(ctx, phone)
			return NewHTTPError(http.StatusBadRequest, "otp expired")
		}
		if stored.Code != code {
			return NewHTTPError(http.StatusBadRequest, "invalid otp")
		}

		if err := r.OTPCodes().DeleteByPhone(ctx, phone); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		user, err = r.Users().FindByPhone(ctx, phone)
		if err == repo.ErrNotFound {
			//初回は検証済みユーザーとして作成
			user = model.User{
				UID:        uuid.NewString(),
				Name:       "User",
				Phone:      &phone,
				Role:       model.RoleUser,
				Provider:   model.ProviderPhone,
				IsActive:   true,
				IsVerified: true,
			}
			if err := r.Users().Create(ctx, &user); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		} else if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		} else {
			now := time.Now()
			user.IsVerified = true
			user.LastLoginAt = &now
			if err := r.Users().Update(ctx, &user); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		if _, err := r.Carts().GetOrCreateByUserID(ctx, user.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if _, err := r.Wishlists().GetOrCreateByUserID(ctx, user.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
	if err != nil {
		return TokenOutput{}, err
	}

	return u.issueToken(user)
}

func (u *AuthUsecase) issueToken(user model.User) (TokenOutput, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(accessTokenTTL).Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(u.jwtSecret)
	if err != nil {
		return TokenOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return TokenOutput{
		AccessToken: signed,
		TokenType:   "bearer",
		User:        user,
	}, nil
}
