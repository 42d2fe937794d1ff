package services

import (
	"github.com/hyvacanteen/canteen-coupon-backend/internal/database"
	"github.com/hyvacanteen/canteen-coupon-backend/internal/models"
	"github.com/hyvacanteen/canteen-coupon-backend/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// Login failure messages. Wrong id and wrong password read the same so the
// response does not leak which one was off.
const (
	msgBadCredentials = "Invalid Login ID or Password."
	msgDeactivated    = "This account has been deactivated."
)

// LoginResponse carries the authenticated actor and their tokens
type LoginResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresIn    int64         `json:"expires_in_seconds"`
	ActorID      int64         `json:"actor_id"`
	ActorType    jwt.ActorType `json:"actor_type"`
	Name         string        `json:"name"`
	Role         string        `json:"role"`
}

// AuthService authenticates employees and contractors against salted bcrypt
// hashes and issues JWT token pairs
type AuthService struct {
	employeeRepo   *database.EmployeeRepository
	contractorRepo *database.ContractorRepository
	jwtService     *jwt.Service
	bcryptCost     int
}

// NewAuthService creates a new AuthService
func NewAuthService(
	employeeRepo *database.EmployeeRepository,
	contractorRepo *database.ContractorRepository,
	jwtService *jwt.Service,
	bcryptCost int,
) *AuthService {
	return &AuthService{
		employeeRepo:   employeeRepo,
		contractorRepo: contractorRepo,
		jwtService:     jwtService,
		bcryptCost:     bcryptCost,
	}
}

// Login authenticates a login id that may belong to an employee (employee
// code) or a contractor (contractor code). Employee codes are tried first.
func (s *AuthService) Login(loginID, password string) (*LoginResponse, error) {
	if loginID == "" || password == "" {
		return nil, ValidationError(msgBadCredentials)
	}

	employee, err := s.employeeRepo.GetByCode(loginID)
	if err == nil {
		return s.loginEmployee(employee, password)
	}
	if err != database.ErrEmployeeNotFound {
		return nil, TransientError("Failed to look up login id.", err)
	}

	contractor, err := s.contractorRepo.GetByCode(loginID)
	if err == database.ErrContractorNotFound {
		return nil, NotFoundError(msgBadCredentials)
	}
	if err != nil {
		return nil, TransientError("Failed to look up login id.", err)
	}

	return s.loginContractor(contractor, password)
}

func (s *AuthService) loginEmployee(employee *models.Employee, password string) (*LoginResponse, error) {
	if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(password)); err != nil {
		return nil, ValidationError(msgBadCredentials)
	}

	if employee.Status == models.EmployeeStatusDeactivated {
		return nil, InvalidStateError(msgDeactivated)
	}

	return s.issueTokens(employee.ID, jwt.ActorEmployee, employee.EmployeeCode, employee.Name, employee.Role)
}

func (s *AuthService) loginContractor(contractor *models.Contractor, password string) (*LoginResponse, error) {
	if err := bcrypt.CompareHashAndPassword([]byte(contractor.PasswordHash), []byte(password)); err != nil {
		return nil, ValidationError(msgBadCredentials)
	}

	return s.issueTokens(contractor.ID, jwt.ActorContractor, contractor.ContractorCode, contractor.Name, models.RoleContractor)
}

// Refresh exchanges a valid refresh token for a fresh token pair
func (s *AuthService) Refresh(refreshToken string) (*LoginResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ValidationError("Invalid refresh token.")
	}

	// Re-read the actor: role changes and deactivations take effect on refresh
	switch claims.ActorType {
	case jwt.ActorEmployee:
		employee, err := s.employeeRepo.GetByID(claims.ActorID)
		if err == database.ErrEmployeeNotFound {
			return nil, NotFoundError(msgBadCredentials)
		}
		if err != nil {
			return nil, TransientError("Failed to look up employee.", err)
		}
		if employee.Status == models.EmployeeStatusDeactivated {
			return nil, InvalidStateError(msgDeactivated)
		}
		return s.issueTokens(employee.ID, jwt.ActorEmployee, employee.EmployeeCode, employee.Name, employee.Role)

	case jwt.ActorContractor:
		contractor, err := s.contractorRepo.GetByID(claims.ActorID)
		if err == database.ErrContractorNotFound {
			return nil, NotFoundError(msgBadCredentials)
		}
		if err != nil {
			return nil, TransientError("Failed to look up contractor.", err)
		}
		return s.issueTokens(contractor.ID, jwt.ActorContractor, contractor.ContractorCode, contractor.Name, models.RoleContractor)
	}

	return nil, ValidationError("Invalid refresh token.")
}

// ChangePassword verifies the current password and stores a new bcrypt hash
func (s *AuthService) ChangePassword(actorID int64, actorType jwt.ActorType, currentPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return ValidationError("New password must be at least 8 characters.")
	}

	var currentHash string
	switch actorType {
	case jwt.ActorEmployee:
		employee, err := s.employeeRepo.GetByID(actorID)
		if err == database.ErrEmployeeNotFound {
			return NotFoundError("No user is logged in.")
		}
		if err != nil {
			return TransientError("Failed to look up employee.", err)
		}
		currentHash = employee.PasswordHash

	case jwt.ActorContractor:
		contractor, err := s.contractorRepo.GetByID(actorID)
		if err == database.ErrContractorNotFound {
			return NotFoundError("No user is logged in.")
		}
		if err != nil {
			return TransientError("Failed to look up contractor.", err)
		}
		currentHash = contractor.PasswordHash

	default:
		return ValidationError("Unknown actor type.")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(currentHash), []byte(currentPassword)); err != nil {
		return ValidationError("The current password you entered is incorrect.")
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return TransientError("Failed to hash new password.", err)
	}

	switch actorType {
	case jwt.ActorEmployee:
		err = s.employeeRepo.UpdatePasswordHash(actorID, string(newHash))
	case jwt.ActorContractor:
		err = s.contractorRepo.UpdatePasswordHash(actorID, string(newHash))
	}
	if err != nil {
		return TransientError("Failed to update password.", err)
	}

	return nil
}

// HashPassword produces a salted bcrypt hash for a new account
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", TransientError("Failed to hash password.", err)
	}
	return string(hash), nil
}

func (s *AuthService) issueTokens(actorID int64, actorType jwt.ActorType, loginID, name, role string) (*LoginResponse, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(actorID, actorType, loginID, name, role)
	if err != nil {
		return nil, TransientError("Failed to generate access token.", err)
	}

	refreshToken, err := s.jwtService.GenerateRefreshToken(actorID, actorType, loginID)
	if err != nil {
		return nil, TransientError("Failed to generate refresh token.", err)
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtService.AccessTokenExpiry().Seconds()),
		ActorID:      actorID,
		ActorType:    actorType,
		Name:         name,
		Role:         role,
	}, nil
}
