package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"chronicle/internal/config"
	"chronicle/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newAuthTestServer(userRepo *MockUserRepository) *Server {
	return &Server{
		config:   &config.Config{JWTSecret: "test-secret-test-secret-test-1234"},
		userRepo: userRepo,
	}
}

func TestSignup(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]string
		mockSetup      func(repo *MockUserRepository)
		expectedStatus int
	}{
		{
			name: "Success",
			body: map[string]string{
				"username": "newuser",
				"email":    "new@example.com",
				"password": "Str0ngPassword!",
			},
			mockSetup: func(repo *MockUserRepository) {
				repo.On("GetByEmail", mock.Anything, "new@example.com").Return(nil, nil)
				repo.On("Create", mock.Anything, mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "Weak password",
			body: map[string]string{
				"username": "newuser",
				"email":    "new@example.com",
				"password": "short",
			},
			mockSetup:      func(repo *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Invalid username",
			body: map[string]string{
				"username": "x",
				"email":    "new@example.com",
				"password": "Str0ngPassword!",
			},
			mockSetup:      func(repo *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Duplicate email",
			body: map[string]string{
				"username": "newuser",
				"email":    "taken@example.com",
				"password": "Str0ngPassword!",
			},
			mockSetup: func(repo *MockUserRepository) {
				repo.On("GetByEmail", mock.Anything, "taken@example.com").
					Return(&models.User{ID: 1, Email: "taken@example.com"}, nil)
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			tt.mockSetup(repo)
			s := newAuthTestServer(repo)

			app := fiber.New()
			app.Post("/auth/signup", s.Signup)

			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, _ := app.Test(req)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestLogin(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("Str0ngPassword!"), bcrypt.DefaultCost)
	user := &models.User{ID: 1, Username: "ivan", Email: "ivan@example.com", Password: string(hashed)}

	t.Run("valid credentials return a token", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetByEmail", mock.Anything, "ivan@example.com").Return(user, nil)
		s := newAuthTestServer(repo)

		app := fiber.New()
		app.Post("/auth/login", s.Login)

		body, _ := json.Marshal(map[string]string{
			"email":    "ivan@example.com",
			"password": "Str0ngPassword!",
		})
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var payload struct {
			Token string `json:"token"`
		}
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
		assert.NotEmpty(t, payload.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetByEmail", mock.Anything, "ivan@example.com").Return(user, nil)
		s := newAuthTestServer(repo)

		app := fiber.New()
		app.Post("/auth/login", s.Login)

		body, _ := json.Marshal(map[string]string{
			"email":    "ivan@example.com",
			"password": "WrongPassword1!",
		})
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unknown email", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, nil)
		s := newAuthTestServer(repo)

		app := fiber.New()
		app.Post("/auth/login", s.Login)

		body, _ := json.Marshal(map[string]string{
			"email":    "ghost@example.com",
			"password": "Str0ngPassword!",
		})
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestAuthRequired_TokenRoundTrip(t *testing.T) {
	repo := new(MockUserRepository)
	s := newAuthTestServer(repo)

	token, err := s.generateToken(42, "ivan")
	assert.NoError(t, err)

	app := fiber.New()
	app.Get("/protected", s.AuthRequired(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": c.Locals("userID")})
	})

	t.Run("valid token accepted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var payload struct {
			UserID uint `json:"user_id"`
		}
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
		assert.Equal(t, uint(42), payload.UserID)
	})

	t.Run("missing token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestValidatePasswordRejectsWeak(t *testing.T) {
	repo := new(MockUserRepository)
	s := newAuthTestServer(repo)

	app := fiber.New()
	app.Post("/auth/signup", s.Signup)

	for _, password := range []string{"alllowercase1234", "ALLUPPERCASE1234", "NoDigitsHereAtAll"} {
		body, _ := json.Marshal(map[string]string{
			"username": "newuser",
			"email":    "new@example.com",
			"password": password,
		})
		req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "password %q should be rejected", password)
	}
}

func TestRevokedToken_LosesIdentityEverywhere(t *testing.T) {
	repo := new(MockUserRepository)
	s := newAuthTestServer(repo)

	mr := miniredis.RunT(t)
	s.redis = redis.NewClient(&redis.Options{Addr: mr.Addr()})

	token, err := s.generateToken(7, "ivan")
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/protected", s.AuthRequired(), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	app.Get("/identity", func(c *fiber.Ctx) error {
		id, ok := s.optionalUserID(c)
		return c.JSON(fiber.Map{"id": id, "authenticated": ok})
	})

	withToken := func(path string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		return req
	}

	identity := func() (uint, bool) {
		resp, _ := app.Test(withToken("/identity"))
		defer func() { _ = resp.Body.Close() }()
		var payload struct {
			ID            uint `json:"id"`
			Authenticated bool `json:"authenticated"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
		return payload.ID, payload.Authenticated
	}

	id, authenticated := identity()
	assert.True(t, authenticated)
	assert.Equal(t, uint(7), id)

	// Blacklist the token's JTI the way Logout does.
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	require.NoError(t, err)
	jti := parsed.Claims.(jwt.MapClaims)["jti"].(string)
	require.NoError(t, mr.Set("blacklist:"+jti, "1"))

	resp, _ := app.Test(withToken("/protected"))
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Public listings must treat the revoked token as anonymous too.
	_, authenticated = identity()
	assert.False(t, authenticated)
}
