package database

import (
	"testing"

	"github.com/filevault/backend/internal/config"
	"github.com/filevault/backend/internal/models"
	"github.com/filevault/backend/pkg/utils"
)

func TestConnectSQLiteSeedsDemoUserOnce(t *testing.T) {
	db, err := Connect(config.DBConfig{Driver: config.DBDriverSQLite, Path: ":memory:"})
	if err != nil {
		t.Fatalf("failed connecting: %v", err)
	}

	if err := SeedDemoUser(db); err != nil {
		t.Fatalf("first seed failed: %v", err)
	}
	if err := SeedDemoUser(db); err != nil {
		t.Fatalf("second seed failed: %v", err)
	}

	var users []models.User
	if err := db.Find(&users).Error; err != nil {
		t.Fatalf("failed listing users: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected exactly one seeded user, got %d", len(users))
	}
	if users[0].Email != demoUserEmail || users[0].Name != demoUserName {
		t.Fatalf("unexpected seeded user: %+v", users[0])
	}
	if !utils.CheckPassword(demoUserPassword, users[0].PasswordHash) {
		t.Fatalf("expected seeded password to verify")
	}
}

func TestConnectRejectsUnknownDriver(t *testing.T) {
	if _, err := Connect(config.DBConfig{Driver: "oracle"}); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}
