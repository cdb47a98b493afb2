package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/fieldops-app/fieldops/internal/basestation/domain"
	basestationrepo "github.com/fieldops-app/fieldops/internal/basestation/repository"
	membershipdomain "github.com/fieldops-app/fieldops/internal/membership/domain"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, snowflake.ID) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&domain.BaseStation{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(4)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}

	svc := NewService(db, basestationrepo.NewRepository(db), node, zap.NewNop())
	return svc, node.Generate()
}

func kmlDoc(placemarks string) []byte {
	return []byte(`<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2"><Document>` + placemarks + `</Document></kml>`)
}

func placemark(name, coords string) string {
	return fmt.Sprintf(
		"<Placemark><name>%s</name><Point><coordinates>%s</coordinates></Point></Placemark>",
		name, coords,
	)
}

func doImport(t *testing.T, svc domain.Service, orgID snowflake.ID, doc []byte) *domain.ImportResult {
	t.Helper()
	result, err := svc.Import(context.Background(), membershipdomain.RoleManager, orgID, "stations.kml", bytes.NewReader(doc), int64(len(doc)))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	return result
}

func TestImportDeduplicatesWithinUpload(t *testing.T) {
	svc, orgID := newTestService(t)

	// The two coordinates collapse onto one station after 6-decimal rounding.
	doc := kmlDoc(
		placemark("BASE-01", "37.6176351,55.7558141") +
			placemark("BASE-01-copy", "37.6176349,55.7558139") +
			placemark("BASE-02", "30.314130,59.938955"),
	)
	result := doImport(t, svc, orgID, doc)

	if result.Imported != 2 || result.Updated != 0 || result.Skipped != 1 {
		t.Fatalf("expected 2/0/1, got %d/%d/%d", result.Imported, result.Updated, result.Skipped)
	}

	stations, err := svc.List(context.Background(), orgID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(stations) != 2 {
		t.Fatalf("expected 2 stations, got %d", len(stations))
	}
}

func TestReimportRefreshesInsteadOfDuplicating(t *testing.T) {
	svc, orgID := newTestService(t)

	doImport(t, svc, orgID, kmlDoc(placemark("BASE-01", "37.617635,55.755814")))

	result := doImport(t, svc, orgID, kmlDoc(placemark("BASE-01 renamed", "37.617635,55.755814")))
	if result.Imported != 0 || result.Updated != 1 {
		t.Fatalf("expected 0 imported / 1 updated, got %d/%d", result.Imported, result.Updated)
	}

	stations, err := svc.List(context.Background(), orgID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(stations) != 1 {
		t.Fatalf("expected a single station, got %d", len(stations))
	}
	if stations[0].Name != "BASE-01 renamed" {
		t.Fatalf("expected refreshed name, got %s", stations[0].Name)
	}
}

func TestImportRequiresManagerRole(t *testing.T) {
	svc, orgID := newTestService(t)

	doc := kmlDoc(placemark("BASE-01", "37.617635,55.755814"))
	_, err := svc.Import(context.Background(), membershipdomain.RoleExecutor, orgID, "stations.kml", bytes.NewReader(doc), int64(len(doc)))
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for executor, got %v", err)
	}
}

func TestImportRejectsEmptyDocument(t *testing.T) {
	svc, orgID := newTestService(t)

	doc := kmlDoc("")
	_, err := svc.Import(context.Background(), membershipdomain.RoleOwner, orgID, "empty.kml", bytes.NewReader(doc), int64(len(doc)))
	if !errors.Is(err, domain.ErrNoPlacemarks) {
		t.Fatalf("expected ErrNoPlacemarks, got %v", err)
	}
}
