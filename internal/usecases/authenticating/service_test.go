package authenticating

import (
	"errors"
	"testing"

	"github.com/credivive/pipeline-manager-api/infrastructure/repository/mocks"
	"github.com/credivive/pipeline-manager-api/internal/config"
	"github.com/credivive/pipeline-manager-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

func newTestConfig() *config.Config {
	return &config.Config{
		SecretKey: "clave_de_prueba",
		Auth:      config.Auth{TokenTTLHours: 24},
	}
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestService_LoginUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := mocks.NewMockUserRepository(ctrl)
	service := NewService(mockUserRepo, newTestConfig())

	hash := hashPassword(t, "Secreta#2025")

	tests := []struct {
		name      string
		email     string
		password  string
		setup     func()
		wantErr   error
		wantToken bool
	}{
		{
			name:     "login exitoso devuelve token",
			email:    "ana@credivive.mx",
			password: "Secreta#2025",
			setup: func() {
				mockUserRepo.EXPECT().GetUserByEmail("ana@credivive.mx").Return(&domain.UserProfile{
					ID:            1,
					Email:         "ana@credivive.mx",
					NombreDisplay: "Ana",
					Rol:           domain.RolEjecutivo,
					PasswordHash:  hash,
					Activo:        true,
				}, nil)
			},
			wantToken: true,
		},
		{
			name:     "normaliza el email antes de buscar",
			email:    "  Ana@Credivive.MX ",
			password: "Secreta#2025",
			setup: func() {
				mockUserRepo.EXPECT().GetUserByEmail("ana@credivive.mx").Return(&domain.UserProfile{
					ID:           1,
					Email:        "ana@credivive.mx",
					PasswordHash: hash,
					Activo:       true,
				}, nil)
			},
			wantToken: true,
		},
		{
			name:     "cuenta desactivada no puede iniciar sesión",
			email:    "baja@credivive.mx",
			password: "Secreta#2025",
			setup: func() {
				mockUserRepo.EXPECT().GetUserByEmail("baja@credivive.mx").Return(&domain.UserProfile{
					ID:           2,
					PasswordHash: hash,
					Activo:       false,
				}, nil)
			},
			wantErr: ErrUserDisabled,
		},
		{
			name:     "contraseña incorrecta",
			email:    "ana@credivive.mx",
			password: "otra",
			setup: func() {
				mockUserRepo.EXPECT().GetUserByEmail("ana@credivive.mx").Return(&domain.UserProfile{
					ID:           1,
					PasswordHash: hash,
					Activo:       true,
				}, nil)
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "usuario inexistente",
			email:    "nadie@credivive.mx",
			password: "Secreta#2025",
			setup: func() {
				mockUserRepo.EXPECT().GetUserByEmail("nadie@credivive.mx").Return(nil, nil)
			},
			wantErr: ErrUserNotFound,
		},
		{
			name:     "email vacío",
			email:    "",
			password: "Secreta#2025",
			setup:    func() {},
			wantErr:  ErrMissingRequiredData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()

			token, err := service.LoginUser(tt.email, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, token)
		})
	}
}

func TestService_LoginThenValidateToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := mocks.NewMockUserRepository(ctrl)
	service := NewService(mockUserRepo, newTestConfig())

	ejecutivoID := int64(7)
	mockUserRepo.EXPECT().GetUserByEmail("ana@credivive.mx").Return(&domain.UserProfile{
		ID:            1,
		Email:         "ana@credivive.mx",
		NombreDisplay: "Ana",
		Rol:           domain.RolEjecutivo,
		EjecutivoID:   &ejecutivoID,
		PasswordHash:  hashPassword(t, "Secreta#2025"),
		Activo:        true,
	}, nil)

	token, err := service.LoginUser("ana@credivive.mx", "Secreta#2025")
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.UserID)
	assert.Equal(t, "ana@credivive.mx", claims.UserEmail)
	assert.Equal(t, domain.RolEjecutivo, claims.Rol)
	require.NotNil(t, claims.EjecutivoID)
	assert.Equal(t, ejecutivoID, *claims.EjecutivoID)
	assert.False(t, claims.IsAdmin())
}

func TestService_ValidateToken_Invalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := NewService(mocks.NewMockUserRepository(ctrl), newTestConfig())

	_, err := service.ValidateToken("no-es-un-jwt")
	assert.Error(t, err)
}

func TestService_CreateUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := mocks.NewMockUserRepository(ctrl)
	service := NewService(mockUserRepo, newTestConfig())

	t.Run("crea ejecutivo con contraseña hasheada", func(t *testing.T) {
		mockUserRepo.EXPECT().GetUserByEmail("nuevo@credivive.mx").Return(nil, nil)
		mockUserRepo.EXPECT().
			CreateUser(gomock.Any()).
			DoAndReturn(func(user *domain.UserProfile) (*domain.UserProfile, error) {
				assert.NotEqual(t, "Secreta#2025", user.PasswordHash)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("Secreta#2025")))
				assert.True(t, user.Activo)
				user.ID = 10
				return user, nil
			})

		user, err := service.CreateUser(&domain.UserProfile{
			Email:         "Nuevo@Credivive.MX",
			NombreDisplay: "Nuevo",
			PasswordHash:  "Secreta#2025",
		})

		require.NoError(t, err)
		assert.Equal(t, int64(10), user.ID)
		assert.Equal(t, "nuevo@credivive.mx", user.Email)
		assert.Equal(t, domain.RolEjecutivo, user.Rol)
	})

	t.Run("email duplicado", func(t *testing.T) {
		mockUserRepo.EXPECT().GetUserByEmail("repetido@credivive.mx").Return(&domain.UserProfile{ID: 3}, nil)

		_, err := service.CreateUser(&domain.UserProfile{
			Email:         "repetido@credivive.mx",
			NombreDisplay: "Repetido",
			PasswordHash:  "Secreta#2025",
		})

		assert.ErrorIs(t, err, ErrUserAlreadyExists)
	})

	t.Run("admin no conserva liga con ejecutivo", func(t *testing.T) {
		ejecutivoID := int64(5)

		mockUserRepo.EXPECT().GetUserByEmail("jefa@credivive.mx").Return(nil, nil)
		mockUserRepo.EXPECT().
			CreateUser(gomock.Any()).
			DoAndReturn(func(user *domain.UserProfile) (*domain.UserProfile, error) {
				assert.Nil(t, user.EjecutivoID)
				return user, nil
			})

		_, err := service.CreateUser(&domain.UserProfile{
			Email:         "jefa@credivive.mx",
			NombreDisplay: "Jefa",
			Rol:           domain.RolAdmin,
			EjecutivoID:   &ejecutivoID,
			PasswordHash:  "Secreta#2025",
		})

		require.NoError(t, err)
	})

	t.Run("datos obligatorios ausentes", func(t *testing.T) {
		_, err := service.CreateUser(&domain.UserProfile{Email: "x@credivive.mx"})
		assert.ErrorIs(t, err, ErrMissingRequiredData)
	})
}

func TestService_UpdateUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := mocks.NewMockUserRepository(ctrl)
	service := NewService(mockUserRepo, newTestConfig())

	t.Run("promover a admin limpia ejecutivo_id", func(t *testing.T) {
		ejecutivoID := int64(5)
		rolAdmin := domain.RolAdmin

		mockUserRepo.EXPECT().GetUserByID(int64(2)).Return(&domain.UserProfile{
			ID:          2,
			Rol:         domain.RolEjecutivo,
			EjecutivoID: &ejecutivoID,
			Activo:      true,
		}, nil)
		mockUserRepo.EXPECT().
			UpdateUser(gomock.Any()).
			DoAndReturn(func(user *domain.UserProfile) error {
				assert.Equal(t, domain.RolAdmin, user.Rol)
				assert.Nil(t, user.EjecutivoID)
				return nil
			})

		err := service.UpdateUser(&domain.UpdateUserRequest{ID: 2, Rol: &rolAdmin})
		assert.NoError(t, err)
	})

	t.Run("desactivar cuenta", func(t *testing.T) {
		inactivo := false

		mockUserRepo.EXPECT().GetUserByID(int64(3)).Return(&domain.UserProfile{
			ID:     3,
			Rol:    domain.RolEjecutivo,
			Activo: true,
		}, nil)
		mockUserRepo.EXPECT().
			UpdateUser(gomock.Any()).
			DoAndReturn(func(user *domain.UserProfile) error {
				assert.False(t, user.Activo)
				return nil
			})

		err := service.UpdateUser(&domain.UpdateUserRequest{ID: 3, Activo: &inactivo})
		assert.NoError(t, err)
	})

	t.Run("usuario inexistente", func(t *testing.T) {
		mockUserRepo.EXPECT().GetUserByID(int64(99)).Return(nil, nil)

		err := service.UpdateUser(&domain.UpdateUserRequest{ID: 99})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("rol desconocido", func(t *testing.T) {
		rolInvalido := "supervisor"

		mockUserRepo.EXPECT().GetUserByID(int64(2)).Return(&domain.UserProfile{
			ID:  2,
			Rol: domain.RolEjecutivo,
		}, nil)

		err := service.UpdateUser(&domain.UpdateUserRequest{ID: 2, Rol: &rolInvalido})
		assert.ErrorIs(t, err, ErrInvalidRole)
	})
}

func TestService_ChangePassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := mocks.NewMockUserRepository(ctrl)
	service := NewService(mockUserRepo, newTestConfig())

	hash := hashPassword(t, "Actual#2025")

	t.Run("cambio exitoso", func(t *testing.T) {
		mockUserRepo.EXPECT().GetUserByID(int64(1)).Return(&domain.UserProfile{
			ID:           1,
			PasswordHash: hash,
		}, nil)
		mockUserRepo.EXPECT().UpdateUser(gomock.Any()).Return(nil)

		err := service.ChangePassword(1, "Actual#2025", "Nueva#2026!")
		assert.NoError(t, err)
	})

	t.Run("contraseña actual incorrecta", func(t *testing.T) {
		mockUserRepo.EXPECT().GetUserByID(int64(1)).Return(&domain.UserProfile{
			ID:           1,
			PasswordHash: hash,
		}, nil)

		err := service.ChangePassword(1, "equivocada", "Nueva#2026!")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("nueva contraseña débil", func(t *testing.T) {
		mockUserRepo.EXPECT().GetUserByID(int64(1)).Return(&domain.UserProfile{
			ID:           1,
			PasswordHash: hash,
		}, nil)

		err := service.ChangePassword(1, "Actual#2025", "corta")
		assert.Error(t, err)
	})
}

func TestService_GenerateStrongPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := mocks.NewMockUserRepository(ctrl)
	service := NewService(mockUserRepo, newTestConfig())

	t.Run("solo un admin puede restablecer contraseñas", func(t *testing.T) {
		mockUserRepo.EXPECT().GetUserByID(int64(2)).Return(&domain.UserProfile{
			ID:  2,
			Rol: domain.RolEjecutivo,
		}, nil)

		_, err := service.GenerateStrongPassword(2, 3)
		assert.ErrorIs(t, err, ErrNoAdminPrivileges)
	})

	t.Run("admin restablece y la nueva contraseña es fuerte", func(t *testing.T) {
		mockUserRepo.EXPECT().GetUserByID(int64(1)).Return(&domain.UserProfile{
			ID:  1,
			Rol: domain.RolAdmin,
		}, nil)
		mockUserRepo.EXPECT().GetUserByID(int64(3)).Return(&domain.UserProfile{
			ID:  3,
			Rol: domain.RolEjecutivo,
		}, nil)
		mockUserRepo.EXPECT().UpdateUser(gomock.Any()).Return(nil)

		password, err := service.GenerateStrongPassword(1, 3)
		require.NoError(t, err)
		assert.Len(t, password, 12)
		assert.NoError(t, service.ValidatePasswordStrength(password))
	})

	t.Run("error de base de datos se propaga", func(t *testing.T) {
		dbErr := errors.New("conexión rechazada")
		mockUserRepo.EXPECT().GetUserByID(int64(1)).Return(nil, dbErr)

		_, err := service.GenerateStrongPassword(1, 3)
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestService_ValidatePasswordStrength(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := NewService(mocks.NewMockUserRepository(ctrl), newTestConfig())

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"contraseña válida", "Fuerte#2025", false},
		{"muy corta", "Ab1#", true},
		{"sin mayúsculas", "fuerte#2025", true},
		{"sin minúsculas", "FUERTE#2025", true},
		{"sin números", "Fuerte#abcd", true},
		{"sin especiales", "Fuerte2025x", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.ValidatePasswordStrength(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestService_RequestPasswordReset(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := mocks.NewMockUserRepository(ctrl)
	service := NewService(mockUserRepo, newTestConfig())

	t.Run("cuenta existente y activa", func(t *testing.T) {
		mockUserRepo.EXPECT().
			GetUserByEmail("ana@credivive.mx").
			Return(&domain.UserProfile{ID: 7, Email: "ana@credivive.mx", Activo: true}, nil)

		err := service.RequestPasswordReset("  Ana@Credivive.mx ")
		assert.NoError(t, err)
	})

	t.Run("cuenta inexistente responde igual", func(t *testing.T) {
		mockUserRepo.EXPECT().
			GetUserByEmail("nadie@credivive.mx").
			Return(nil, nil)

		err := service.RequestPasswordReset("nadie@credivive.mx")
		assert.NoError(t, err)
	})

	t.Run("error de base de datos no se propaga", func(t *testing.T) {
		mockUserRepo.EXPECT().
			GetUserByEmail("ana@credivive.mx").
			Return(nil, errors.New("conexión perdida"))

		err := service.RequestPasswordReset("ana@credivive.mx")
		assert.NoError(t, err)
	})

	t.Run("email vacío", func(t *testing.T) {
		err := service.RequestPasswordReset("")
		assert.Error(t, err)
	})
}
