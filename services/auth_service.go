package services

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"realestate-listing/dto"
	"realestate-listing/models"
	"realestate-listing/repositories"
)

var (
	ErrInvalidCredentials = errors.New("no user found with the given credentials")
	ErrTokenBlacklisted   = errors.New("token is blacklisted")
	ErrInvalidTokenType   = errors.New("invalid token type")
)

const (
	accessTokenTTL  = time.Hour
	refreshTokenTTL = 72 * time.Hour
)

// PostLoginHook は認証成功のたびに認証サービスから明示的に呼ばれるフック。
// プロセス全体のシグナル登録ではなく、対象ユーザーを引数で受け取る
type PostLoginHook func(user *models.User) error

// LoginCountHook はログインカウンタを1回のUPDATEで加算するフックを返す
func LoginCountHook(repository repositories.IAuthRepository) PostLoginHook {
	return func(user *models.User) error {
		return repository.IncrementLoginCount(user.ID)
	}
}

type IAuthService interface {
	Register(input dto.RegisterUserInput, isStaff bool) (*models.User, error)
	Login(email string, password string) (*dto.TokenPair, *models.User, error)
	RefreshToken(refreshToken string) (*dto.TokenPair, error)
	VerifyToken(tokenString string) error
	GetUserFromToken(tokenString string) (*models.User, error)
	Logout(tokenString string) error
	HasUsers() (bool, error)
}

type AuthService struct {
	repository      repositories.IAuthRepository
	tokenRepository repositories.ITokenRepository
	postLogin       PostLoginHook
}

func NewAuthService(repository repositories.IAuthRepository, tokenRepository repositories.ITokenRepository, postLogin PostLoginHook) IAuthService {
	return &AuthService{
		repository:      repository,
		tokenRepository: tokenRepository,
		postLogin:       postLogin,
	}
}

func (s *AuthService) Register(input dto.RegisterUserInput, isStaff bool) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:       input.Email,
		Password:    string(hashedPassword),
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Address:     input.Address,
		PhoneNumber: input.PhoneNumber,
		IsStaff:     isStaff,
	}
	return s.repository.CreateUser(user)
}

func (s *AuthService) Login(email string, password string) (*dto.TokenPair, *models.User, error) {
	foundUser, err := s.repository.FindUserByEmail(email)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(foundUser.Password), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	tokenPair, err := CreateTokenPair(foundUser.ID, foundUser.Email)
	if err != nil {
		return nil, nil, err
	}

	if s.postLogin != nil {
		if err := s.postLogin(foundUser); err != nil {
			log.Printf("Post-login hook failed for user %d: %v", foundUser.ID, err)
		} else {
			// レスポンスに加算後のカウンタを載せるため取り直す
			if refreshed, err := s.repository.FindUserByID(foundUser.ID); err == nil {
				foundUser = refreshed
			}
		}
	}

	return tokenPair, foundUser, nil
}

func CreateTokenPair(userID uint, email string) (*dto.TokenPair, error) {
	access, err := signToken(userID, email, "access", accessTokenTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := signToken(userID, email, "refresh", refreshTokenTTL)
	if err != nil {
		return nil, err
	}
	return &dto.TokenPair{Access: access, Refresh: refresh}, nil
}

func signToken(userID uint, email string, tokenType string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"type":  tokenType,
		"exp":   time.Now().Add(ttl).Unix(),
	})
	return token.SignedString([]byte(os.Getenv("SECRET_KEY")))
}

func parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected method: %v", token.Header["alg"])
		}
		return []byte(os.Getenv("SECRET_KEY")), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if exp, ok := claims["exp"].(float64); ok && float64(time.Now().Unix()) > exp {
		return nil, jwt.ErrTokenExpired
	}
	return claims, nil
}

func (s *AuthService) GetUserFromToken(tokenString string) (*models.User, error) {
	claims, err := parseToken(tokenString)
	if err != nil {
		return nil, err
	}
	if tokenType, _ := claims["type"].(string); tokenType != "access" {
		return nil, ErrInvalidTokenType
	}

	isBlacklisted, err := s.tokenRepository.IsTokenBlacklisted(tokenString)
	if err != nil {
		return nil, err
	}
	if isBlacklisted {
		return nil, ErrTokenBlacklisted
	}

	email, _ := claims["email"].(string)
	return s.repository.FindUserByEmail(email)
}

func (s *AuthService) RefreshToken(refreshToken string) (*dto.TokenPair, error) {
	claims, err := parseToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if tokenType, _ := claims["type"].(string); tokenType != "refresh" {
		return nil, ErrInvalidTokenType
	}

	isBlacklisted, err := s.tokenRepository.IsTokenBlacklisted(refreshToken)
	if err != nil {
		return nil, err
	}
	if isBlacklisted {
		return nil, ErrTokenBlacklisted
	}

	email, _ := claims["email"].(string)
	foundUser, err := s.repository.FindUserByEmail(email)
	if err != nil {
		return nil, err
	}

	return CreateTokenPair(foundUser.ID, foundUser.Email)
}

func (s *AuthService) VerifyToken(tokenString string) error {
	if _, err := parseToken(tokenString); err != nil {
		return err
	}

	isBlacklisted, err := s.tokenRepository.IsTokenBlacklisted(tokenString)
	if err != nil {
		return err
	}
	if isBlacklisted {
		return ErrTokenBlacklisted
	}
	return nil
}

func (s *AuthService) Logout(tokenString string) error {
	claims, err := parseToken(tokenString)
	if err != nil {
		return err
	}

	var expiresAt int64
	if exp, ok := claims["exp"].(float64); ok {
		expiresAt = int64(exp)
	} else {
		expiresAt = time.Now().Add(accessTokenTTL).Unix()
	}

	return s.tokenRepository.AddBlacklistedToken(tokenString, expiresAt)
}

func (s *AuthService) HasUsers() (bool, error) {
	count, err := s.repository.CountUsers()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
