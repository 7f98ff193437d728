package authenticating

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/credivive/pipeline-manager-api/infrastructure/repository"
	"github.com/credivive/pipeline-manager-api/internal/config"
	"github.com/credivive/pipeline-manager-api/internal/domain"
	"github.com/credivive/pipeline-manager-api/pkg/apiErrors"
	"github.com/credivive/pipeline-manager-api/pkg/log"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type Authenticator interface {
	CreateUser(user *domain.UserProfile) (*domain.UserProfile, error)
	UpdateUser(req *domain.UpdateUserRequest) error
	ListUsers() ([]*domain.UserProfile, error)
	LoginUser(email, password string) (string, error)
	RequestPasswordReset(email string) error
	GetUserProfile(userID int64) (*domain.UserProfile, error)
	ValidateToken(tokenString string) (*domain.Claims, error)
	GenerateStrongPassword(requestUserID, targetUserID int64) (string, error)
	ChangePassword(userID int64, currentPassword, newPassword string) error
	ValidatePasswordStrength(password string) error
}

type Service struct {
	userRepo repository.UserRepository
	cfg      *config.Config
}

func NewService(userRepo repository.UserRepository, cfg *config.Config) Authenticator {
	return &Service{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

// CreateUser registra una nueva cuenta. El campo PasswordHash llega con la
// contraseña en claro y se sustituye por su hash bcrypt antes de persistir.
func (s *Service) CreateUser(user *domain.UserProfile) (*domain.UserProfile, error) {
	if user.Email == "" || user.NombreDisplay == "" || user.PasswordHash == "" {
		return nil, NewAuthError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "Email, nombre y contraseña son obligatorios")
	}

	user.Email = handleEmail(user.Email)

	if user.Rol == "" {
		user.Rol = domain.RolEjecutivo
	}

	if user.Rol != domain.RolAdmin && user.Rol != domain.RolEjecutivo {
		return nil, NewAuthError(ErrInvalidRole, apiErrors.ErrInvalidFormat, fmt.Sprintf("Rol desconocido: %s", user.Rol))
	}

	// Un admin no se liga a un ejecutivo del pipeline
	if user.Rol == domain.RolAdmin {
		user.EjecutivoID = nil
	}

	userDatabase, err := s.userRepo.GetUserByEmail(user.Email)
	if err != nil {
		return nil, NewAuthError(err, apiErrors.ErrDatabaseOperation, "Error al consultar usuario en la base de datos")
	}
	if userDatabase != nil {
		return nil, NewAuthError(ErrUserAlreadyExists, apiErrors.ErrUserAlreadyExists, "Email ya registrado")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.PasswordHash), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = string(hashedPassword)
	user.Activo = true

	user, err = s.userRepo.CreateUser(user)
	if err != nil {
		return nil, NewAuthError(err, apiErrors.ErrDatabaseOperation, "Error al crear usuario")
	}

	return user, nil
}

// UpdateUser aplica una edición parcial sobre un perfil. Promover a admin
// limpia la liga con el ejecutivo; desactivar la cuenta impide el login.
func (s *Service) UpdateUser(req *domain.UpdateUserRequest) error {
	if req.ID == 0 {
		return NewAuthError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "ID es obligatorio")
	}

	userDatabase, err := s.userRepo.GetUserByID(req.ID)
	if userDatabase == nil || err != nil {
		if err == nil {
			return NewAuthError(ErrUserNotFound, apiErrors.ErrUserNotFound, fmt.Sprintf("No existe usuario con ID: %d", req.ID))
		}
		return err
	}

	if req.NombreDisplay != nil {
		userDatabase.NombreDisplay = *req.NombreDisplay
	}

	if req.Email != nil {
		userDatabase.Email = handleEmail(*req.Email)
	}

	if req.Activo != nil {
		userDatabase.Activo = *req.Activo
	}

	if req.EjecutivoID != nil {
		userDatabase.EjecutivoID = req.EjecutivoID
	}

	if req.Rol != nil {
		if *req.Rol != domain.RolAdmin && *req.Rol != domain.RolEjecutivo {
			return NewAuthError(ErrInvalidRole, apiErrors.ErrInvalidFormat, fmt.Sprintf("Rol desconocido: %s", *req.Rol))
		}
		userDatabase.Rol = *req.Rol
	}

	if userDatabase.Rol == domain.RolAdmin {
		userDatabase.EjecutivoID = nil
	}

	err = s.userRepo.UpdateUser(userDatabase)
	if err != nil {
		return NewUserAuthError(err, apiErrors.ErrDatabaseOperation, req.ID, "Error al actualizar usuario")
	}

	return nil
}

func handleEmail(s string) string {
	email := strings.ToLower(s)
	email = strings.TrimSpace(email)
	email = strings.ReplaceAll(email, " ", "")
	return email
}

func (s *Service) ListUsers() ([]*domain.UserProfile, error) {
	users, err := s.userRepo.ListUsers()
	if err != nil {
		return nil, err
	}

	for _, user := range users {
		user.PasswordHash = ""
	}

	return users, nil
}

func (s *Service) LoginUser(email, password string) (string, error) {
	if email == "" || password == "" {
		return "", NewAuthError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "Email y contraseña son obligatorios")
	}

	email = handleEmail(email)

	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return "", NewAuthError(err, apiErrors.ErrDatabaseOperation, "Error al consultar usuario en la base de datos")
	}

	if user == nil {
		return "", NewAuthError(ErrUserNotFound, apiErrors.ErrUserNotFound, "Usuario no encontrado")
	}

	// Una cuenta inactiva no puede iniciar sesión
	if !user.Activo {
		return "", NewUserAuthError(ErrUserDisabled, apiErrors.ErrUserDisabled, user.ID, "Cuenta desactivada")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", NewUserAuthError(ErrInvalidCredentials, apiErrors.ErrInvalidCredentials, user.ID, "Contraseña incorrecta")
	}

	token, err := generateJWT(user, s.cfg.SecretKey, s.cfg.Auth.TokenTTLHours)
	if err != nil {
		return "", NewAuthError(err, apiErrors.ErrInternalServer, "Error al generar el token de autenticación")
	}

	return token, nil
}

// RequestPasswordReset registra la solicitud de restablecimiento de
// contraseña. La respuesta es siempre la misma exista o no la cuenta, para
// no revelar qué correos están registrados; un administrador atiende la
// solicitud generando una contraseña nueva desde la pantalla de usuarios.
func (s *Service) RequestPasswordReset(email string) error {
	if email == "" {
		return NewAuthError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "Email es obligatorio")
	}

	email = handleEmail(email)

	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		log.L.WithFields(log.Fields{"email": email}).WithError(err).Error("Error al consultar usuario para restablecimiento de contraseña")
		return nil
	}

	if user == nil || !user.Activo {
		log.L.WithFields(log.Fields{"email": email}).Info("Solicitud de restablecimiento para cuenta inexistente o inactiva")
		return nil
	}

	log.L.WithFields(log.Fields{
		"user_id": user.ID,
		"email":   email,
	}).Info("Solicitud de restablecimiento de contraseña registrada")

	return nil
}

func (s *Service) GetUserProfile(userID int64) (*domain.UserProfile, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		log.L.WithFields(log.Fields{"user_id": userID}).WithError(err).Error("Error al consultar el perfil del usuario")
		return nil, err
	}

	if user == nil {
		return nil, NewUserAuthError(ErrUserNotFound, apiErrors.ErrUserNotFound, userID, "Usuario no encontrado")
	}

	user.PasswordHash = ""
	return user, nil
}

func generateJWT(user *domain.UserProfile, secretKey string, ttlHours int) (string, error) {
	if ttlHours <= 0 {
		ttlHours = 24
	}

	claims := domain.Claims{
		UserID:        user.ID,
		UserEmail:     user.Email,
		NombreDisplay: user.NombreDisplay,
		Rol:           user.Rol,
		EjecutivoID:   user.EjecutivoID,
		Activo:        user.Activo,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(ttlHours) * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secretKey))
}

func (s *Service) ValidateToken(tokenString string) (*domain.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", token.Header["alg"])
		}
		return []byte(s.cfg.SecretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, err
	}

	claims, ok := token.Claims.(*domain.Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// GenerateStrongPassword genera una contraseña fuerte para el usuario destino.
// Solo un administrador puede restablecer la contraseña de otra cuenta.
func (s *Service) GenerateStrongPassword(requestUserID, targetUserID int64) (string, error) {
	requestUser, err := s.userRepo.GetUserByID(requestUserID)
	if err != nil {
		return "", err
	}
	if requestUser == nil {
		return "", NewUserAuthError(ErrUserNotFound, apiErrors.ErrUserNotFound, requestUserID, "Usuario solicitante no encontrado")
	}
	if !requestUser.IsAdmin() {
		return "", NewUserAuthError(ErrNoAdminPrivileges, apiErrors.ErrInsufficientPrivilege, requestUserID, "Solo administradores pueden generar nuevas contraseñas")
	}

	targetUser, err := s.userRepo.GetUserByID(targetUserID)
	if err != nil {
		return "", err
	}
	if targetUser == nil {
		return "", NewUserAuthError(ErrUserNotFound, apiErrors.ErrUserNotFound, targetUserID, "Usuario destino no encontrado")
	}

	newPassword, err := generateStrongPassword(12)
	if err != nil {
		return "", err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	targetUser.PasswordHash = string(hashedPassword)
	err = s.userRepo.UpdateUser(targetUser)
	if err != nil {
		return "", err
	}

	return newPassword, nil
}

// generateStrongPassword genera una contraseña con el largo indicado,
// incluyendo mayúsculas, minúsculas, números y caracteres especiales
func generateStrongPassword(length int) (string, error) {
	if length < 8 {
		length = 8
	}

	const (
		lowerChars   = "abcdefghijklmnopqrstuvwxyz"
		upperChars   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
		numberChars  = "0123456789"
		specialChars = "!@#$%^&*()-_=+[]{}|;:,.<>?"
		allChars     = lowerChars + upperChars + numberChars + specialChars
	)

	// Garantizar al menos un caracter de cada tipo
	password := make([]byte, length)

	randomChar, err := getRandomChar(lowerChars)
	if err != nil {
		return "", err
	}
	password[0] = randomChar

	randomChar, err = getRandomChar(upperChars)
	if err != nil {
		return "", err
	}
	password[1] = randomChar

	randomChar, err = getRandomChar(numberChars)
	if err != nil {
		return "", err
	}
	password[2] = randomChar

	randomChar, err = getRandomChar(specialChars)
	if err != nil {
		return "", err
	}
	password[3] = randomChar

	for i := 4; i < length; i++ {
		randomChar, err = getRandomChar(allChars)
		if err != nil {
			return "", err
		}
		password[i] = randomChar
	}

	// Barajar para que los caracteres no queden en orden predecible
	for i := range password {
		j, err := randomInt(int64(len(password)))
		if err != nil {
			return "", err
		}
		password[i], password[j] = password[j], password[i]
	}

	return string(password), nil
}

// getRandomChar devuelve un caracter aleatorio del conjunto dado
func getRandomChar(charset string) (byte, error) {
	n, err := randomInt(int64(len(charset)))
	if err != nil {
		return 0, err
	}
	return charset[n], nil
}

// randomInt genera un número aleatorio seguro entre 0 y max-1
func randomInt(max int64) (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(max))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}

// ValidatePasswordStrength verifica que la contraseña cumpla los requisitos:
// al menos 8 caracteres con mayúsculas, minúsculas, números y especiales
func (s *Service) ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return errors.New("la contraseña debe contener al menos 8 caracteres")
	}

	var (
		hasUpper   bool
		hasLower   bool
		hasNumber  bool
		hasSpecial bool
	)

	const (
		lowerChars   = "abcdefghijklmnopqrstuvwxyz"
		upperChars   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
		numberChars  = "0123456789"
		specialChars = "!@#$%^&*()-_=+[]{}|;:,.<>?"
	)

	for _, char := range password {
		switch {
		case strings.ContainsRune(lowerChars, char):
			hasLower = true
		case strings.ContainsRune(upperChars, char):
			hasUpper = true
		case strings.ContainsRune(numberChars, char):
			hasNumber = true
		case strings.ContainsRune(specialChars, char):
			hasSpecial = true
		}
	}

	if !hasUpper {
		return errors.New("la contraseña debe contener al menos una letra mayúscula")
	}
	if !hasLower {
		return errors.New("la contraseña debe contener al menos una letra minúscula")
	}
	if !hasNumber {
		return errors.New("la contraseña debe contener al menos un número")
	}
	if !hasSpecial {
		return errors.New("la contraseña debe contener al menos un caracter especial")
	}

	return nil
}

// ChangePassword permite que un usuario cambie su propia contraseña.
// Verifica la contraseña actual y los requisitos de la nueva.
func (s *Service) ChangePassword(userID int64, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return err
	}

	if user == nil {
		return NewUserAuthError(ErrUserNotFound, apiErrors.ErrUserNotFound, userID, "Usuario no encontrado")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return NewUserAuthError(ErrInvalidCredentials, apiErrors.ErrInvalidCredentials, userID, "Contraseña actual incorrecta")
	}

	if currentPassword == newPassword {
		return NewUserAuthError(ErrSamePassword, apiErrors.ErrInvalidRequest, userID, "La nueva contraseña debe ser distinta a la actual")
	}

	if err := s.ValidatePasswordStrength(newPassword); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hashedPassword)
	err = s.userRepo.UpdateUser(user)
	if err != nil {
		return err
	}

	return nil
}
