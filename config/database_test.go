package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestGetDB(t *testing.T) {
	original := DB
	defer func() { DB = original }()

	DB = nil
	assert.Nil(t, GetDB(), "GetDB should return nil when DB is not initialized")
}

func TestSetDB(t *testing.T) {
	original := DB
	defer func() { DB = original }()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)

	SetDB(db)
	assert.Same(t, db, GetDB())
}
