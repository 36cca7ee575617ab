package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/KenTheWhale/unisew-partner/internal/middleware"
	"github.com/KenTheWhale/unisew-partner/internal/partner/entity"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	TestSchema = "test_unisew"
	JWTSecret  = "unisew-partner-test-secret"
)

// TestEnv holds test environment resources
type TestEnv struct {
	DB     *gorm.DB
	Router *gin.Engine
	T      *testing.T
}

// projectRoot returns the project root directory by looking for go.mod
func projectRoot() string {
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Dir(filename)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// loadEnv loads .env from the project root
func loadEnv() {
	root := projectRoot()
	if root != "" {
		godotenv.Load(filepath.Join(root, ".env"))
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// SetupTestDB creates a test database connection using a dedicated test schema.
// Each test gets an isolated schema that is cleaned up after the test.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	loadEnv()

	host := getEnv("UNISEW_DB_HOST", "127.0.0.1")
	port := getEnv("UNISEW_DB_PORT", "5432")
	user := getEnv("UNISEW_DB_USER", "unisew")
	password := getEnv("UNISEW_DB_PASSWORD", "unisew123")
	dbname := getEnv("UNISEW_DB_NAME", "unisew_partner")

	baseDSN := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	schemaName := fmt.Sprintf("%s_%d", TestSchema, time.Now().UnixNano()%1000000)

	setupDB, err := gorm.Open(postgres.Open(baseDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Skipf("Test database not available: %v", err)
	}
	setupDB.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schemaName))
	sqlSetup, _ := setupDB.DB()
	sqlSetup.Close()

	// Open connection with search_path in DSN so ALL pooled connections use the test schema
	testDSN := fmt.Sprintf("%s search_path=%s", baseDSN, schemaName)
	db, err := gorm.Open(postgres.Open(testDSN), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	err = db.AutoMigrate(
		&entity.Partner{},
		&entity.Wallet{},
		&entity.WalletTransaction{},
		&entity.Phase{},
		&entity.Order{},
		&entity.OrderItem{},
		&entity.MilestoneStage{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		cleanDB, cleanErr := gorm.Open(postgres.Open(baseDSN), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if cleanErr == nil {
			cleanDB.Exec(fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", schemaName))
			sqlClean, _ := cleanDB.DB()
			if sqlClean != nil {
				sqlClean.Close()
			}
		}
	})

	return db
}

// SetupRouter creates a gin test router
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// AuthGroup creates an API group with JWT auth middleware for testing
func AuthGroup(r *gin.Engine, path string) *gin.RouterGroup {
	return r.Group(path, middleware.JWTAuth(JWTSecret))
}

// GenerateTestToken creates a valid JWT token for testing
func GenerateTestToken(partnerID, name, email, shippingUID string) string {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":          partnerID,
		"pid":          partnerID,
		"name":         name,
		"email":        email,
		"shipping_uid": shippingUID,
		"role":         "partner",
		"iss":          "unisew-partner",
		"iat":          now.Unix(),
		"exp":          now.Add(24 * time.Hour).Unix(),
		"jti":          fmt.Sprintf("test-jti-%d", now.UnixNano()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(JWTSecret))
	return tokenString
}

// DoRequest executes an HTTP request against the test router
func DoRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse parses the JSON response body into a map
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// SeedPartner creates an active test partner with a wallet
func SeedPartner(t *testing.T, db *gorm.DB, id, name string) *entity.Partner {
	t.Helper()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	now := time.Now()
	partner := &entity.Partner{
		ID:           id,
		Email:        fmt.Sprintf("%s@test.com", id),
		PasswordHash: string(hash),
		Name:         name,
		Phone:        "0900000000",
		Status:       entity.PartnerStatusActive,
		Role:         "partner",
		TaxCode:      fmt.Sprintf("01%08d", time.Now().UnixNano()%100000000),
		ProvinceID:   202,
		DistrictID:   1442,
		WardCode:     "20101",
		Address:      "123 Test Street",
		ConfirmedAt:  &now,
	}
	if err := db.Create(partner).Error; err != nil {
		t.Fatalf("Failed to seed test partner: %v", err)
	}
	wallet := &entity.Wallet{
		ID:        "wallet-" + id,
		PartnerID: id,
	}
	if err := db.Create(wallet).Error; err != nil {
		t.Fatalf("Failed to seed test wallet: %v", err)
	}
	return partner
}

// SeedPhase creates a test phase in the partner's catalog
func SeedPhase(t *testing.T, db *gorm.DB, id, partnerID, name string, sequence int) *entity.Phase {
	t.Helper()
	phase := &entity.Phase{
		ID:        id,
		PartnerID: partnerID,
		Name:      name,
		Sequence:  sequence,
	}
	if err := db.Create(phase).Error; err != nil {
		t.Fatalf("Failed to seed test phase: %v", err)
	}
	return phase
}

// SeedOrder creates a pending test order with the given deadline
func SeedOrder(t *testing.T, db *gorm.DB, id, partnerID string, deadline time.Time) *entity.Order {
	t.Helper()
	order := &entity.Order{
		ID:             id,
		Code:           "ORD-" + id,
		PartnerID:      partnerID,
		Status:         entity.OrderStatusPending,
		SchoolName:     "Test School",
		SchoolDistrict: 1454,
		SchoolWardCode: "21012",
		Deadline:       deadline,
		Price:          5000000,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("Failed to seed test order: %v", err)
	}
	return order
}
