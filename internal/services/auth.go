package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/crashph/crash-server/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is deliberately generic: it never reveals whether
// the email or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService authenticates admin and police accounts and issues tokens.
type AuthService struct {
	db        *pgxpool.Pool
	jwtSecret string
	logger    *zap.SugaredLogger
}

// NewAuthService creates a new auth service
func NewAuthService(db *pgxpool.Pool, jwtSecret string, logger *zap.SugaredLogger) *AuthService {
	return &AuthService{db: db, jwtSecret: jwtSecret, logger: logger}
}

// Login checks the email against admin accounts first, then police
// offices, verifies the password hash and returns the role, a safe user
// projection (no credential) and a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	var admin models.Admin
	err := s.db.QueryRow(ctx,
		`SELECT admin_id, username, email, password, contact_no FROM tbl_admin WHERE email = $1`, email).
		Scan(&admin.ID, &admin.Username, &admin.Email, &admin.Password, &admin.ContactNo)
	if err == nil {
		if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)) != nil {
			return nil, ErrInvalidCredentials
		}
		token, err := s.issueToken("admin", admin.ID.String())
		if err != nil {
			return nil, err
		}
		return &models.LoginResponse{
			Message: "Admin login successful",
			Role:    "admin",
			User: map[string]any{
				"admin_id":   admin.ID,
				"username":   admin.Username,
				"email":      admin.Email,
				"contact_no": admin.ContactNo,
			},
			Token: token,
		}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("lookup admin: %w", err)
	}

	var office models.PoliceOffice
	err = s.db.QueryRow(ctx,
		`SELECT office_id, office_name, email, password_hash, head_officer, contact_number
		 FROM tbl_police_offices WHERE email = $1`, email).
		Scan(&office.ID, &office.OfficeName, &office.Email, &office.PasswordHash,
			&office.HeadOfficer, &office.ContactNumber)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup police office: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(office.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issueToken("police", office.ID.String())
	if err != nil {
		return nil, err
	}
	return &models.LoginResponse{
		Message: "Police login successful",
		Role:    "police",
		User: map[string]any{
			"office_id":      office.ID,
			"office_name":    office.OfficeName,
			"email":          office.Email,
			"head_officer":   office.HeadOfficer,
			"contact_number": office.ContactNumber,
		},
		Token: token,
	}, nil
}

func (s *AuthService) issueToken(role, subject string) (string, error) {
	claims := jwt.MapClaims{
		"role": role,
		"sub":  subject,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return token, nil
}
