package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/motoparts-backend/config"
	"github.com/ikkim/motoparts-backend/internal/app/controller"
	"github.com/ikkim/motoparts-backend/internal/app/repository"
	"github.com/ikkim/motoparts-backend/internal/app/service"
	"github.com/ikkim/motoparts-backend/internal/db"
	"github.com/ikkim/motoparts-backend/internal/messaging"
	"github.com/ikkim/motoparts-backend/internal/middleware"
	"github.com/ikkim/motoparts-backend/internal/router"
	"github.com/ikkim/motoparts-backend/internal/storage"
	"github.com/ikkim/motoparts-backend/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedMessage struct {
	Channel string
	Pattern string
	Data    map[string]string
}

type capturingBackend struct {
	mu       sync.Mutex
	messages []capturedMessage
}

func (b *capturingBackend) Publish(_ context.Context, channel string, data []byte, _ map[string]string) (string, error) {
	var env struct {
		Pattern string            `json:"pattern"`
		Data    map[string]string `json:"data"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return "", err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, capturedMessage{Channel: channel, Pattern: env.Pattern, Data: env.Data})
	return "id", nil
}

func (b *capturingBackend) Close() error { return nil }

type TestServer struct {
	Router     *gin.Engine
	UserRepo   repository.UserRepository
	Backend    *capturingBackend
	Dispatcher *messaging.Dispatcher
	Clock      *time.Time
}

func setupIntegrationTest(t *testing.T) *TestServer {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	cfg := &config.Config{
		Server:  config.ServerConfig{GinMode: gin.TestMode},
		Metrics: config.MetricsConfig{Enabled: true},
	}

	now := time.Now()
	server := &TestServer{Backend: &capturingBackend{}, Clock: &now}
	clock := func() time.Time { return *server.Clock }

	server.Dispatcher = messaging.NewDispatcher(server.Backend, "events", time.Second)
	jwt := util.NewJWTManager("integration-secret", 60*time.Minute).WithClock(clock)

	userRepo := repository.NewUserRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	server.UserRepo = userRepo

	authService := service.NewAuthService(userRepo, jwt, messaging.NewNotifier(server.Dispatcher))
	resetService := service.NewPasswordResetService(userRepo, messaging.NewMailer(server.Dispatcher), "http://shop.test")
	userService := service.NewUserService(userRepo)
	productService := service.NewProductService(productRepo)

	s3 := storage.NewS3Storage(context.Background(), config.S3Config{
		Region: "eu-west-1", Bucket: "test-bucket", AccessKeyID: "AKID", SecretAccessKey: "secret",
	})

	server.Router = router.NewRouter(
		controller.NewAuthController(authService, resetService),
		controller.NewUserController(userService),
		controller.NewProductController(productService),
		controller.NewUploadController(s3),
		middleware.NewAuthMiddleware(jwt, authService),
		prometheus.NewRegistry(),
		nil,
		cfg,
	).Setup()

	return server
}

func (s *TestServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

func (s *TestServer) login(t *testing.T, email, password string) string {
	w := s.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["access_token"].(string)
}

func (s *TestServer) captured() []capturedMessage {
	s.Dispatcher.Wait()
	s.Backend.mu.Lock()
	defer s.Backend.mu.Unlock()
	return append([]capturedMessage(nil), s.Backend.messages...)
}

func TestIntegration_RegisterLoginResetFlow(t *testing.T) {
	server := setupIntegrationTest(t)

	w := server.do(t, http.MethodPost, "/users", "", map[string]string{
		"name": "A", "email": "a@x.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	token := server.login(t, "a@x.com", "password123")

	w = server.do(t, http.MethodGet, "/users/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), created.ID)

	msgs := server.captured()
	require.Len(t, msgs, 1)
	assert.Equal(t, "send_notification", msgs[0].Pattern)
	assert.Equal(t, created.ID, msgs[0].Data["customerId"])
	assert.Equal(t, "User with email a@x.com has logged in.", msgs[0].Data["message"])

	w = server.do(t, http.MethodPost, "/auth/password-reset", "", map[string]string{"email": "a@x.com"})
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := server.UserRepo.FindByID(created.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ResetToken)
	resetToken := *stored.ResetToken
	assert.WithinDuration(t, server.Clock.Add(time.Hour), *stored.ResetTokenExpiry, time.Second)

	msgs = server.captured()
	require.Len(t, msgs, 2)
	assert.Equal(t, "send_email", msgs[1].Pattern)
	assert.Equal(t, "a@x.com", msgs[1].Data["to"])
	assert.Contains(t, msgs[1].Data["text"], "http://shop.test/reset-password/"+created.ID+"/"+resetToken)

	resetPath := "/auth/reset-password/" + created.ID + "/" + resetToken
	w = server.do(t, http.MethodPut, resetPath, "", map[string]string{"newPassword": "newpass1"})
	require.Equal(t, http.StatusOK, w.Code)

	stored, err = server.UserRepo.FindByID(created.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.ResetToken)
	assert.True(t, util.VerifyPassword(stored.PasswordHash, "newpass1"))

	w = server.do(t, http.MethodPut, resetPath, "", map[string]string{"newPassword": "newpass1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	server.login(t, "a@x.com", "newpass1")
}

func TestIntegration_SessionExpiry(t *testing.T) {
	server := setupIntegrationTest(t)

	w := server.do(t, http.MethodPost, "/users", "", map[string]string{
		"name": "A", "email": "a@x.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	token := server.login(t, "a@x.com", "password123")

	*server.Clock = server.Clock.Add(59 * time.Minute)
	w = server.do(t, http.MethodGet, "/users", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	*server.Clock = server.Clock.Add(2 * time.Minute)
	w = server.do(t, http.MethodGet, "/users", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_TOKEN_EXPIRED")
}

func TestIntegration_DeletedSubjectIsRejected(t *testing.T) {
	server := setupIntegrationTest(t)

	w := server.do(t, http.MethodPost, "/users", "", map[string]string{
		"name": "A", "email": "a@x.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	token := server.login(t, "a@x.com", "password123")

	w = server.do(t, http.MethodDelete, "/users/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = server.do(t, http.MethodGet, "/users/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_UNAUTHORIZED")
}

func TestIntegration_ProtectedRoutesRequireToken(t *testing.T) {
	server := setupIntegrationTest(t)

	for _, rt := range []struct{ method, path string }{
		{http.MethodGet, "/users"},
		{http.MethodGet, "/users/profile"},
		{http.MethodGet, "/users/some-id"},
		{http.MethodPut, "/users/some-id"},
		{http.MethodDelete, "/users/some-id"},
		{http.MethodPost, "/uploads/product-image"},
	} {
		w := server.do(t, rt.method, rt.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, rt.method+" "+rt.path)
	}

	w := server.do(t, http.MethodGet, "/products", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestIntegration_ProductImageUpload(t *testing.T) {
	server := setupIntegrationTest(t)

	w := server.do(t, http.MethodPost, "/users", "", map[string]string{
		"name": "A", "email": "a@x.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	token := server.login(t, "a@x.com", "password123")

	w = server.do(t, http.MethodPost, "/uploads/product-image", token, map[string]string{
		"filename": "disc.jpg", "content_type": "image/jpeg",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp storage.PresignedURLResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.UploadURL, "test-bucket")
	assert.Contains(t, resp.Key, controller.ProductImageFolder+"/")
}

func TestIntegration_UserRoutesAreGuardOnly(t *testing.T) {
	server := setupIntegrationTest(t)

	register := func(email string) string {
		w := server.do(t, http.MethodPost, "/users", "", map[string]string{
			"name": "Rider", "email": email, "password": "password123",
		})
		require.Equal(t, http.StatusCreated, w.Code)
		var created struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		return created.ID
	}
	victimID := register("victim@x.com")
	register("other@x.com")

	token := server.login(t, "other@x.com", "password123")

	// a valid session is the only requirement; ownership is not checked
	w := server.do(t, http.MethodPut, "/users/"+victimID, token, map[string]string{"password": "taken-over"})
	require.Equal(t, http.StatusOK, w.Code)
	server.login(t, "victim@x.com", "taken-over")

	w = server.do(t, http.MethodDelete, "/users/"+victimID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	_, err := server.UserRepo.FindByID(victimID)
	assert.Error(t, err)
}
