package specification

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type row struct {
	Id uuid.UUID
}

// dryRun builds SQL without a live connection.
func dryRun(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost", PreferSimpleProtocol: true}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	if err != nil {
		t.Fatalf("open dry run db: %v", err)
	}
	return db
}

func TestSpecificationsSQL(t *testing.T) {
	db := dryRun(t)
	id := uuid.New()

	tests := []struct {
		name string
		spec Specification
		want string
	}{
		{name: "by id", spec: ByID{ID: id}, want: "id = $1"},
		{name: "by email", spec: ByEmail{Email: "a@b.c"}, want: "email = $1"},
		{name: "by subject", spec: BySubject{Subject: "physics"}, want: "subject = $1"},
		{name: "by module", spec: ByModuleID{ModuleID: id}, want: "module_id = $1"},
		{name: "active sessions", spec: ActiveSessions{Now: time.Now()}, want: "revoked = $1 AND expires_at > $2"},
		{name: "oldest first", spec: OldestFirst, want: "ORDER BY created_at ASC"},
		{name: "newest first", spec: OrderBy{Field: "created_at", Desc: true}, want: "ORDER BY created_at DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rows []row
			stmt := tt.spec.Apply(db.Table("t")).Find(&rows).Statement
			assert.Contains(t, stmt.SQL.String(), tt.want)
		})
	}
}
