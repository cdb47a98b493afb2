package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	notificationdomain "github.com/fieldops-app/fieldops/internal/notification/domain"
	projectdomain "github.com/fieldops-app/fieldops/internal/project/domain"
	projectrepo "github.com/fieldops-app/fieldops/internal/project/repository"
	"github.com/fieldops-app/fieldops/internal/providers/storage"
	"github.com/fieldops-app/fieldops/internal/report/domain"
	reportrepo "github.com/fieldops-app/fieldops/internal/report/repository"
	taskdomain "github.com/fieldops-app/fieldops/internal/task/domain"
	taskrepo "github.com/fieldops-app/fieldops/internal/task/repository"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: make(map[string][]byte)}
}

func (s *memoryStorage) Save(ctx context.Context, key string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.objects[key] = data
	s.mu.Unlock()
	return nil
}

func (s *memoryStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memoryStorage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

func (s *memoryStorage) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

type notifyRecorder struct {
	sent []notificationdomain.CreateRequest
}

func (n *notifyRecorder) Notify(ctx context.Context, req notificationdomain.CreateRequest) error {
	n.sent = append(n.sent, req)
	return nil
}

func (n *notifyRecorder) List(ctx context.Context, orgID snowflake.ID, recipientEmail string, unreadOnly bool) ([]notificationdomain.Response, error) {
	return nil, nil
}

func (n *notifyRecorder) MarkRead(ctx context.Context, orgID, id snowflake.ID, recipientEmail string) error {
	return nil
}

type fixture struct {
	svc      domain.Service
	store    *memoryStorage
	notified *notifyRecorder
	node     *snowflake.Node
	db       *gorm.DB
	orgID    snowflake.ID
}

func setup(t *testing.T) *fixture {
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
	err = db.AutoMigrate(&domain.Report{}, &projectdomain.Project{}, &taskdomain.Task{})
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(5)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}

	store := newMemoryStorage()
	notified := &notifyRecorder{}
	svc := NewService(
		reportrepo.NewRepository(db),
		projectrepo.NewRepository(db),
		taskrepo.NewRepository(db),
		store,
		notified,
		node,
		zap.NewNop(),
	)
	return &fixture{
		svc:      svc,
		store:    store,
		notified: notified,
		node:     node,
		db:       db,
		orgID:    node.Generate(),
	}
}

func photoJPEG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 64, 48)), nil); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestCreateWithoutEXIFStoresNilCoordinates(t *testing.T) {
	f := setup(t)

	rep, err := f.svc.Create(context.Background(), "worker@example.com", f.orgID, "Demo Org",
		domain.CreateRequest{Caption: "trench 4"}, bytes.NewReader(photoJPEG(t)))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if rep.Lat != nil || rep.Lon != nil || rep.TakenAt != nil {
		t.Fatalf("expected nil EXIF fields, got %+v", rep)
	}
	if rep.Caption != "trench 4" {
		t.Fatalf("expected caption kept, got %q", rep.Caption)
	}
	if f.store.len() != 2 {
		t.Fatalf("expected original and stamped objects, got %d", f.store.len())
	}

	rc, err := f.svc.OpenStamped(context.Background(), f.orgID, rep.ID)
	if err != nil {
		t.Fatalf("open stamped: %v", err)
	}
	defer rc.Close()
	if _, err := jpeg.Decode(rc); err != nil {
		t.Fatalf("stamped object is not a jpeg: %v", err)
	}
}

func TestCreateRejectsNonImage(t *testing.T) {
	f := setup(t)

	_, err := f.svc.Create(context.Background(), "worker@example.com", f.orgID, "Demo Org",
		domain.CreateRequest{}, bytes.NewReader([]byte("definitely not a jpeg")))
	if !errors.Is(err, domain.ErrInvalidImage) {
		t.Fatalf("expected ErrInvalidImage, got %v", err)
	}
	if f.store.len() != 0 {
		t.Fatalf("nothing may be stored on failure, got %d objects", f.store.len())
	}
}

func TestCreateUnknownProject(t *testing.T) {
	f := setup(t)

	_, err := f.svc.Create(context.Background(), "worker@example.com", f.orgID, "Demo Org",
		domain.CreateRequest{ProjectID: f.node.Generate().String()}, bytes.NewReader(photoJPEG(t)))
	if !errors.Is(err, domain.ErrInvalidProject) {
		t.Fatalf("expected ErrInvalidProject, got %v", err)
	}
}

func TestCreateNotifiesTaskAuthor(t *testing.T) {
	f := setup(t)

	project := projectdomain.Project{
		ID:             f.node.Generate(),
		OrgID:          f.orgID,
		Name:           "Pipeline North",
		Status:         projectdomain.StatusActive,
		CreatedByEmail: "manager@example.com",
		CreatedAt:      time.Now().UTC(),
	}
	if err := f.db.Create(&project).Error; err != nil {
		t.Fatalf("seed project: %v", err)
	}
	task := taskdomain.Task{
		ID:             f.node.Generate(),
		OrgID:          f.orgID,
		ProjectID:      project.ID,
		Title:          "Photograph trench",
		Status:         taskdomain.StatusOpen,
		CreatedByEmail: "manager@example.com",
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
	if err := f.db.Create(&task).Error; err != nil {
		t.Fatalf("seed task: %v", err)
	}

	rep, err := f.svc.Create(context.Background(), "worker@example.com", f.orgID, "Demo Org",
		domain.CreateRequest{
			ProjectID: project.ID.String(),
			TaskID:    task.ID.String(),
		}, bytes.NewReader(photoJPEG(t)))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rep.ProjectID == nil || *rep.ProjectID != project.ID {
		t.Fatalf("expected project linked, got %+v", rep.ProjectID)
	}

	if len(f.notified.sent) != 1 {
		t.Fatalf("expected one notification, got %d", len(f.notified.sent))
	}
	sent := f.notified.sent[0]
	if sent.Kind != notificationdomain.KindReportCreated || sent.RecipientEmail != "manager@example.com" {
		t.Fatalf("expected report.created for the task author, got %+v", sent)
	}
}
