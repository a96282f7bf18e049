package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskboard/internal/auth"
	apperrors "taskboard/internal/errors"
	"taskboard/internal/model"
)

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		username      string
		email         string
		password      string
		setupMock     func(m *MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful registration",
			username: "alice",
			email:    "alice@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsernameOrEmail", mock.Anything, "alice", "alice@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:     "duplicate email",
			username: "alice2",
			email:    "alice@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsernameOrEmail", mock.Anything, "alice2", "alice@example.com").Return(&model.User{Email: "alice@example.com"}, nil)
			},
			expectedError: apperrors.ErrEmailTaken,
		},
		{
			name:     "duplicate username",
			username: "alice",
			email:    "other@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsernameOrEmail", mock.Anything, "alice", "other@example.com").Return(&model.User{Username: "alice"}, nil)
			},
			expectedError: apperrors.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			jwtService := auth.NewJWTService("test-secret")
			mockTokenStore := new(MockTokenStore)

			svc := NewAuthService(mockRepo, jwtService, mockTokenStore)
			user, err := svc.Register(context.Background(), tt.username, tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.Equal(t, tt.email, user.Email)
				assert.Equal(t, tt.username, user.Username)
				assert.NotEmpty(t, user.PasswordHash)
				// Registration never produces a ready-to-act account.
				assert.Equal(t, model.RoleUser, user.Role)
				assert.False(t, user.IsApproved)
				assert.False(t, CanAct(user))
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hash := func(pw string) string {
		h, _ := bcrypt.GenerateFromPassword([]byte(pw), 10)
		return string(h)
	}

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(mRepo *MockUserRepository, mToken *MockTokenStore)
		expectedError error
	}{
		{
			name:     "successful login for approved user",
			email:    "alice@example.com",
			password: "password123",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "alice@example.com").Return(&model.User{
					ID: 2, Email: "alice@example.com", PasswordHash: hash("password123"),
					Role: model.RoleUser, IsApproved: true,
				}, nil)
				mToken.On("StoreRefreshToken", mock.Anything, mock.Anything, uint(2), "alice@example.com", mock.Anything).Return(nil)
			},
		},
		{
			name:     "user not found",
			email:    "notfound@example.com",
			password: "password123",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "notfound@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			email:    "alice@example.com",
			password: "wrong",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "alice@example.com").Return(&model.User{
					ID: 2, Email: "alice@example.com", PasswordHash: hash("password123"),
					Role: model.RoleUser, IsApproved: true,
				}, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "unapproved user cannot log in",
			email:    "carol@example.com",
			password: "password123",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "carol@example.com").Return(&model.User{
					ID: 4, Email: "carol@example.com", PasswordHash: hash("password123"),
					Role: model.RoleUser, IsApproved: false,
				}, nil)
			},
			expectedError: apperrors.ErrPendingApproval,
		},
		{
			name:     "unapproved admin can log in",
			email:    "admin@example.com",
			password: "admin123",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "admin@example.com").Return(&model.User{
					ID: 1, Email: "admin@example.com", PasswordHash: hash("admin123"),
					Role: model.RoleAdmin, IsApproved: false,
				}, nil)
				mToken.On("StoreRefreshToken", mock.Anything, mock.Anything, uint(1), "admin@example.com", mock.Anything).Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockTokenStore := new(MockTokenStore)
			tt.setupMock(mockRepo, mockTokenStore)

			jwtService := auth.NewJWTService("test-secret")
			svc := NewAuthService(mockRepo, jwtService, mockTokenStore)

			accessToken, refreshToken, user, err := svc.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, accessToken)
				assert.Empty(t, refreshToken)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, accessToken)
				assert.NotEmpty(t, refreshToken)
				assert.NotNil(t, user)
				assert.Equal(t, tt.email, user.Email)

				claims, err := jwtService.ValidateToken(accessToken)
				assert.NoError(t, err)
				assert.Equal(t, user.ID, claims.UserID)
				assert.Equal(t, user.Role, claims.Role)
			}

			mockRepo.AssertExpectations(t)
			mockTokenStore.AssertExpectations(t)
		})
	}
}
