// Package testutil starts the development backend for the dashboard and CLI tests.
package testutil

import (
	"net/http/httptest"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/Mogeshaue/Happy-Fox-sub000/apps/devapi/echo"
	"github.com/Mogeshaue/Happy-Fox-sub000/core"
	"github.com/Mogeshaue/Happy-Fox-sub000/core/entity"
	"github.com/Mogeshaue/Happy-Fox-sub000/core/role"
	"github.com/Mogeshaue/Happy-Fox-sub000/storage/database/dummy"
)

// SecretKey signs the tokens accepted by the backend started with StartBackend.
const SecretKey = "s3cr3t"

func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	return validate, translator
}

// StartBackend serves an empty development backend until the test ends.
func StartBackend(t *testing.T) (*httptest.Server, *dummydb.DB) {
	db, err := dummydb.Open(entity.AllTypes, devapi.Unique)
	if err != nil {
		t.Fatalf("StartBackend() failed: %v", err)
	}
	validate, translator := NewValidator()
	backend := httptest.NewServer(devapi.NewServer(devapi.Options{
		SecretKey:      SecretKey,
		DisableReqLogs: true,
		DB:             db,
		Validate:       validate,
		Translator:     translator,
	}))
	t.Cleanup(backend.Close)
	return backend, db
}

// Token returns a session token of the given role, valid for an hour.
func Token(t *testing.T, k role.Kind) string {
	token, err := role.GenerateToken(role.NewClaims("test", "1", "fox", k, time.Hour), []byte(SecretKey))
	if err != nil {
		t.Fatalf("Token() failed: %v", err)
	}
	return token
}

// CreateEntity stores row in the backend database, bypassing the API checks.
func CreateEntity(t *testing.T, db *dummydb.DB, typ entity.Type, row entity.Entity) entity.Entity {
	repo, err := db.Repository(typ)
	if err != nil {
		t.Fatalf("CreateEntity() failed: %v", err)
	}
	ent, err := repo.Create(row)
	if err != nil {
		t.Fatalf("CreateEntity() failed: %v", err)
	}
	return ent
}
