package usecase_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"freshmart/internal/domain/model"
	repo "freshmart/internal/repository"
	"freshmart/internal/usecase"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "unit-test-secret"

func newAuthUC(tx repo.TransactionManager, users repo.UserRepository, otps repo.OTPRepository, debug bool) *usecase.AuthUsecase {
	return usecase.NewAuthUsecase(tx, users, otps, testJWTSecret, debug)
}

func parseTestToken(t *testing.T, raw string) jwt.MapClaims {
	t.Helper()

	token, err := jwt.Parse(raw, func(tok *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	assert.NoError(t, err)
	assert.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	return claims
}

func TestAuthUsecase_Register_Validation(t *testing.T) {
	uc := newAuthUC(new(TxManagerMock), new(UserRepoMock), new(OTPRepoMock), false)
	ctx := context.Background()

	_, err := uc.Register(ctx, usecase.RegisterInput{Name: "A", Email: "a@example.com"})
	assertErrContains(t, err, "invalid name")

	_, err = uc.Register(ctx, usecase.RegisterInput{Name: "Asha Kumar"})
	assertErrContains(t, err, "email or phone required")

	_, err = uc.Register(ctx, usecase.RegisterInput{Name: "Asha Kumar", Email: "not-an-email"})
	assertErrContains(t, err, "invalid email")

	_, err = uc.Register(ctx, usecase.RegisterInput{Name: "Asha Kumar", Phone: "12345"})
	assertErrContains(t, err, "10 digits")

	_, err = uc.Register(ctx, usecase.RegisterInput{Name: "Asha Kumar", Email: "a@example.com", Password: "12345"})
	assertErrContains(t, err, "password too short")
}

func TestAuthUsecase_Register_CreatesUserCartAndWishlist(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	usersRepo := new(UserRepoMock)
	cartsRepo := new(CartRepoMock)
	wlRepo := new(WishlistRepoMock)

	tx.Repos = &TxReposMock{users: usersRepo, carts: cartsRepo, wishlists: wlRepo}
	tx.On("WithinTx", mock.Anything).Return(nil)

	usersRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Run(func(args mock.Arguments) {
		u := args.Get(1).(*model.User)
		u.ID = 42

		assert.NotEmpty(t, u.UID)
		assert.Equal(t, model.RoleUser, u.Role)
		assert.Equal(t, model.ProviderEmail, u.Provider)
		//平文パスワードは保存しない
		if assert.NotNil(t, u.PasswordHash) {
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte("secret123")))
		}
	}).Return(nil)
	cartsRepo.On("GetOrCreateByUserID", mock.Anything, int64(42)).Return(model.Cart{ID: 7, UserID: 42}, nil)
	wlRepo.On("GetOrCreateByUserID", mock.Anything, int64(42)).Return(model.Wishlist{ID: 9, UserID: 42}, nil)

	uc := newAuthUC(tx, new(UserRepoMock), new(OTPRepoMock), false)

	out, err := uc.Register(ctx, usecase.RegisterInput{
		Name:     "Asha Kumar",
		Email:    "asha@example.com",
		Password: "secret123",
	})
	assert.NoError(t, err)
	assert.Equal(t, "bearer", out.TokenType)
	assert.Equal(t, int64(42), out.User.ID)

	claims := parseTestToken(t, out.AccessToken)
	assert.Equal(t, float64(42), claims["sub"])
	assert.Equal(t, "USER", claims["role"])

	usersRepo.AssertExpectations(t)
	cartsRepo.AssertExpectations(t)
	wlRepo.AssertExpectations(t)
}

func TestAuthUsecase_Register_Duplicate(t *testing.T) {
	tx := new(TxManagerMock)
	usersRepo := new(UserRepoMock)

	tx.Repos = &TxReposMock{users: usersRepo}
	tx.On("WithinTx", mock.Anything).Return(nil)

	usersRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(repo.ErrDuplicate)

	uc := newAuthUC(tx, new(UserRepoMock), new(OTPRepoMock), false)

	_, err := uc.Register(context.Background(), usecase.RegisterInput{
		Name:  "Asha Kumar",
		Email: "asha@example.com",
	})
	assertErrContains(t, err, "already registered")
}

func TestAuthUsecase_Login_UnknownUser(t *testing.T) {
	usersRepo := new(UserRepoMock)
	usersRepo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(model.User{}, repo.ErrNotFound)

	uc := newAuthUC(new(TxManagerMock), usersRepo, new(OTPRepoMock), false)

	_, err := uc.Login(context.Background(), usecase.LoginInput{Email: "nobody@example.com", Password: "x"})
	assertErrContains(t, err, "invalid credentials")
}

func TestAuthUsecase_Login_WrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	assert.NoError(t, err)
	h := string(hash)

	usersRepo := new(UserRepoMock)
	usersRepo.On("FindByEmail", mock.Anything, "asha@example.com").Return(model.User{
		ID: 42, PasswordHash: &h, IsActive: true,
	}, nil)

	uc := newAuthUC(new(TxManagerMock), usersRepo, new(OTPRepoMock), false)

	_, err = uc.Login(context.Background(), usecase.LoginInput{Email: "asha@example.com", Password: "wrong"})
	assertErrContains(t, err, "invalid credentials")
}

func TestAuthUsecase_Login_Success(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	assert.NoError(t, err)
	h := string(hash)

	usersRepo := new(UserRepoMock)
	usersRepo.On("FindByPhone", mock.Anything, "9876543210").Return(model.User{
		ID: 42, Role: model.RoleUser, PasswordHash: &h, IsActive: true,
	}, nil)
	usersRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Run(func(args mock.Arguments) {
		u := args.Get(1).(*model.User)
		assert.NotNil(t, u.LastLoginAt)
	}).Return(nil)

	uc := newAuthUC(new(TxManagerMock), usersRepo, new(OTPRepoMock), false)

	out, err := uc.Login(context.Background(), usecase.LoginInput{Phone: "9876543210", Password: "secret123"})
	assert.NoError(t, err)
	assert.NotEmpty(t, out.AccessToken)

	usersRepo.AssertExpectations(t)
}

func TestAuthUsecase_SendOTP_InvalidPhone(t *testing.T) {
	uc := newAuthUC(new(TxManagerMock), new(UserRepoMock), new(OTPRepoMock), true)

	_, err := uc.SendOTP(context.Background(), "123")
	assertErrContains(t, err, "10 digits")
}

func TestAuthUsecase_SendOTP_DebugReturnsCode(t *testing.T) {
	otps := new(OTPRepoMock)

	var savedCode string
	otps.On("Upsert", mock.Anything, mock.AnythingOfType("model.OTPCode")).Run(func(args mock.Arguments) {
		c := args.Get(1).(model.OTPCode)
		savedCode = c.Code
		assert.Equal(t, "9876543210", c.Phone)
		//有効期限は5分後
		assert.WithinDuration(t, time.Now().Add(5*time.Minute), c.ExpiresAt, 5*time.Second)
	}).Return(nil)
	otps.On("DeleteExpired", mock.Anything, mock.Anything).Return(nil)

	uc := newAuthUC(new(TxManagerMock), new(UserRepoMock), otps, true)

	out, err := uc.SendOTP(context.Background(), "9876543210")
	assert.NoError(t, err)
	assert.True(t, out.Success)
	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), out.DebugOTP)
	assert.Equal(t, savedCode, out.DebugOTP)
}

func TestAuthUsecase_SendOTP_ProdHidesCode(t *testing.T) {
	otps := new(OTPRepoMock)
	otps.On("Upsert", mock.Anything, mock.AnythingOfType("model.OTPCode")).Return(nil)
	otps.On("DeleteExpired", mock.Anything, mock.Anything).Return(nil)

	uc := newAuthUC(new(TxManagerMock), new(UserRepoMock), otps, false)

	out, err := uc.SendOTP(context.Background(), "9876543210")
	assert.NoError(t, err)
	assert.Empty(t, out.DebugOTP)
}

func TestAuthUsecase_VerifyOTP_NotFound(t *testing.T) {
	tx := new(TxManagerMock)
	otps := new(OTPRepoMock)

	tx.Repos = &TxReposMock{otpCodes: otps}
	tx.On("WithinTx", mock.Anything).Return(nil)

	otps.On("FindByPhone", mock.Anything, "9876543210").Return(model.OTPCode{}, repo.ErrNotFound)

	uc := newAuthUC(tx, new(UserRepoMock), new(OTPRepoMock), false)

	_, err := uc.VerifyOTP(context.Background(), "9876543210", "123456")
	assertErrContains(t, err, "otp expired or not found")
}

func TestAuthUsecase_VerifyOTP_Expired(t *testing.T) {
	tx := new(TxManagerMock)
	otps := new(OTPRepoMock)

	tx.Repos = &TxReposMock{otpCodes: otps}
	tx.On("WithinTx", mock.Anything).Return(nil)

	otps.On("FindByPhone", mock.Anything, "9876543210").Return(model.OTPCode{
		Phone:     "9876543210",
		Code:      "123456",
		ExpiresAt: time.Now().Add(-time.Minute),
	}, nil)
	//期限切れコードはその場で消す
	otps.On("DeleteByPhone", mock.Anything, "9876543210").Return(nil)

	uc := newAuthUC(tx, new(UserRepoMock), new(OTPRepoMock), false)

	_, err := uc.VerifyOTP(context.Background(), "9876543210", "123456")
	assertErrContains(t, err, "otp expired")

	otps.AssertExpectations(t)
}

func TestAuthUsecase_VerifyOTP_WrongCode(t *testing.T) {
	tx := new(TxManagerMock)
	otps := new(OTPRepoMock)

	tx.Repos = &TxReposMock{otpCodes: otps}
	tx.On("WithinTx", mock.Anything).Return(nil)

	otps.On("FindByPhone", mock.Anything, "9876543210").Return(model.OTPCode{
		Phone:     "9876543210",
		Code:      "123456",
		ExpiresAt: time.Now().Add(time.Minute),
	}, nil)

	uc := newAuthUC(tx, new(UserRepoMock), new(OTPRepoMock), false)

	_, err := uc.VerifyOTP(context.Background(), "9876543210", "000000")
	assertErrContains(t, err, "invalid otp")

	otps.AssertNotCalled(t, "DeleteByPhone", mock.Anything, mock.Anything)
}

func TestAuthUsecase_VerifyOTP_CreatesNewUser(t *testing.T) {
	tx := new(TxManagerMock)
	otps := new(OTPRepoMock)
	usersRepo := new(UserRepoMock)
	cartsRepo := new(CartRepoMock)
	wlRepo := new(WishlistRepoMock)

	tx.Repos = &TxReposMock{otpCodes: otps, users: usersRepo, carts: cartsRepo, wishlists: wlRepo}
	tx.On("WithinTx", mock.Anything).Return(nil)

	otps.On("FindByPhone", mock.Anything, "9876543210").Return(model.OTPCode{
		Phone:     "9876543210",
		Code:      "123456",
		ExpiresAt: time.Now().Add(time.Minute),
	}, nil)
	otps.On("DeleteByPhone", mock.Anything, "9876543210").Return(nil)

	usersRepo.On("FindByPhone", mock.Anything, "9876543210").Return(model.User{}, repo.ErrNotFound)
	usersRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Run(func(args mock.Arguments) {
		u := args.Get(1).(*model.User)
		u.ID = 43
		assert.Equal(t, model.ProviderPhone, u.Provider)
		assert.True(t, u.IsVerified)
	}).Return(nil)
	cartsRepo.On("GetOrCreateByUserID", mock.Anything, int64(43)).Return(model.Cart{ID: 8}, nil)
	wlRepo.On("GetOrCreateByUserID", mock.Anything, int64(43)).Return(model.Wishlist{ID: 10}, nil)

	uc := newAuthUC(tx, new(UserRepoMock), new(OTPRepoMock), false)

	out, err := uc.VerifyOTP(context.Background(), "9876543210", "123456")
	assert.NoError(t, err)
	assert.Equal(t, int64(43), out.User.ID)
	assert.NotEmpty(t, out.AccessToken)

	usersRepo.AssertExpectations(t)
	otps.AssertExpectations(t)
}

func TestAuthUsecase_VerifyOTP_ExistingUserMarkedVerified(t *testing.T) {
	tx := new(TxManagerMock)
	otps := new(OTPRepoMock)
	usersRepo := new(UserRepoMock)
	cartsRepo := new(CartRepoMock)
	wlRepo := new(WishlistRepoMock)

	tx.Repos = &TxReposMock{otpCodes: otps, users: usersRepo, carts: cartsRepo, wishlists: wlRepo}
	tx.On("WithinTx", mock.Anything).Return(nil)

	otps.On("FindByPhone", mock.Anything, "9876543210").Return(model.OTPCode{
		Phone:     "9876543210",
		Code:      "123456",
		ExpiresAt: time.Now().Add(time.Minute),
	}, nil)
	otps.On("DeleteByPhone", mock.Anything, "9876543210").Return(nil)

	phone := "9876543210"
	usersRepo.On("FindByPhone", mock.Anything, phone).Return(model.User{
		ID: 42, Phone: &phone, Role: model.RoleUser, IsActive: true,
	}, nil)
	usersRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Run(func(args mock.Arguments) {
		u := args.Get(1).(*model.User)
		assert.True(t, u.IsVerified)
		assert.NotNil(t, u.LastLoginAt)
	}).Return(nil)
	cartsRepo.On("GetOrCreateByUserID", mock.Anything, int64(42)).Return(model.Cart{ID: 7}, nil)
	wlRepo.On("GetOrCreateByUserID", mock.Anything, int64(42)).Return(model.Wishlist{ID: 9}, nil)

	uc := newAuthUC(tx, new(UserRepoMock), new(OTPRepoMock), false)

	out, err := uc.VerifyOTP(context.Background(), "9876543210", "123456")
	assert.NoError(t, err)
	assert.Equal(t, int64(42), out.User.ID)

	usersRepo.AssertExpectations(t)
}
