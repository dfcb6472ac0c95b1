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

	catentity "github.com/bitfantasy/nimo-wms/internal/catalog/entity"
	inventity "github.com/bitfantasy/nimo-wms/internal/inventory/entity"
	"github.com/bitfantasy/nimo-wms/internal/middleware"
	srmentity "github.com/bitfantasy/nimo-wms/internal/srm/entity"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	TestSchema = "test_wms"
	JWTSecret  = "nimo-wms-jwt-secret-key-2024"
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

// SetupTestDB creates a test database connection using a dedicated test schema.
// Each test gets an isolated schema that is cleaned up after the test.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	loadEnv()

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "nimo")
	password := getEnv("DB_PASSWORD", "nimo123")
	dbname := getEnv("DB_NAME", "nimo_wms")

	baseDSN := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	// Create a unique test schema for isolation
	schemaName := fmt.Sprintf("%s_%d", TestSchema, time.Now().UnixNano()%1000000)

	// First: create schema using a temporary connection
	setupDB, err := gorm.Open(postgres.Open(baseDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to database for schema setup: %v", err)
	}
	setupDB.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schemaName))
	sqlSetup, _ := setupDB.DB()
	sqlSetup.Close()

	// Second: open connection with search_path in DSN so ALL pooled connections use test schema
	testDSN := fmt.Sprintf("%s search_path=%s", baseDSN, schemaName)
	db, err := gorm.Open(postgres.Open(testDSN), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	// Migrate test tables
	err = db.AutoMigrate(
		&catentity.Product{},
		&catentity.Brand{},
		&catentity.ProductVariant{},
		&inventity.InventoryUnit{},
		&inventity.StatusChangeLog{},
		&srmentity.Supplier{},
		&srmentity.SupplyOffer{},
		&srmentity.SupplyOfferScore{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	// Cleanup on test completion
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		// Reconnect to drop the schema
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

// SetupRouter creates a gin test router with JWT middleware
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
func GenerateTestToken(userID, name, email string, roles, permissions []string) string {
	if roles == nil {
		roles = []string{}
	}
	if permissions == nil {
		permissions = []string{}
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"uid":   userID,
		"name":  name,
		"email": email,
		"roles": roles,
		"perms": permissions,
		"iss":   "nimo-wms",
		"iat":   now.Unix(),
		"exp":   now.Add(24 * time.Hour).Unix(),
		"jti":   fmt.Sprintf("test-jti-%d", now.UnixNano()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(JWTSecret))
	return tokenString
}

// DefaultTestToken returns a token for a default admin test user
func DefaultTestToken() string {
	return GenerateTestToken(
		"test-user-001",
		"Test Admin",
		"admin@test.com",
		[]string{"wms_admin"},
		[]string{"*"},
	)
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

// ParseResponse parses the JSON response body into a handler.Response-like map
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// SeedProduct creates a test product in the database
func SeedProduct(t *testing.T, db *gorm.DB, name string) *catentity.Product {
	t.Helper()
	product := &catentity.Product{
		ID:       uuid.New().String()[:32],
		Name:     name,
		Unit:     "units",
		Price:    decimal.NewFromInt(100),
		IsActive: true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("Failed to seed test product: %v", err)
	}
	return product
}

// SeedVariant creates a test product variant in the database
func SeedVariant(t *testing.T, db *gorm.DB, productID, barcode string) *catentity.ProductVariant {
	t.Helper()
	variant := &catentity.ProductVariant{
		ID:        uuid.New().String()[:32],
		ProductID: productID,
		Barcode:   barcode,
		IsActive:  true,
	}
	if err := db.Create(variant).Error; err != nil {
		t.Fatalf("Failed to seed test variant: %v", err)
	}
	return variant
}

// SeedSupplier creates a test supplier in the database
func SeedSupplier(t *testing.T, db *gorm.DB, code, name string, creditDays int, deliveryCost float64) *srmentity.Supplier {
	t.Helper()
	supplier := &srmentity.Supplier{
		ID:                uuid.New().String()[:32],
		Code:              code,
		Name:              name,
		CreditDays:        creditDays,
		DeliveryCost:      deliveryCost,
		ReliabilityScore:  1,
		CreditScore:       1,
		CostDeliveryScore: 1,
	}
	if err := db.Create(supplier).Error; err != nil {
		t.Fatalf("Failed to seed test supplier: %v", err)
	}
	return supplier
}

// SeedOffer creates a test supply offer in the database
func SeedOffer(t *testing.T, db *gorm.DB, variantID, supplierID string, cost float64, minQty int, active bool) *srmentity.SupplyOffer {
	t.Helper()
	offer := &srmentity.SupplyOffer{
		ID:          uuid.New().String()[:32],
		VariantID:   variantID,
		SupplierID:  supplierID,
		Cost:        decimal.NewFromFloat(cost),
		MinOrderQty: minQty,
		IsActive:    active,
	}
	if err := db.Create(offer).Error; err != nil {
		t.Fatalf("Failed to seed test offer: %v", err)
	}
	return offer
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
