//go:build integration

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/saturnino-fabrica-de-software/lookout/internal/detector/mock"
	"github.com/saturnino-fabrica-de-software/lookout/internal/domain"
	"github.com/saturnino-fabrica-de-software/lookout/internal/repository"
	"github.com/saturnino-fabrica-de-software/lookout/internal/store"
)

var testDB *pgxpool.Pool

func TestMain(m *testing.M) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "lookout_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		fmt.Printf("Failed to start container: %v\n", err)
		os.Exit(1)
	}

	defer func() {
		if err := container.Terminate(ctx); err != nil {
			fmt.Printf("Failed to terminate container: %v\n", err)
		}
	}()

	host, _ := container.Host(ctx)
	port, _ := container.MappedPort(ctx, "5432")

	connStr := fmt.Sprintf("postgres://test:test@%s:%s/lookout_test?sslmode=disable", host, port.Port())

	testDB, err = pgxpool.New(ctx, connStr)
	if err != nil {
		fmt.Printf("Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer testDB.Close()

	_, err = testDB.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS events (
			id UUID PRIMARY KEY,
			type TEXT NOT NULL,
			image_path TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	if err != nil {
		fmt.Printf("Failed to run migrations: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	os.Exit(code)
}

func newIntegrationRouter(t *testing.T) *Router {
	t.Helper()

	frames, err := store.NewDiskStore(t.TempDir(), 10<<20)
	if err != nil {
		t.Fatalf("Failed to create frame store: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := NewRouter(logger, &Dependencies{
		EventRepo: repository.NewEventRepository(testDB),
		Frames:    frames,
		Detector:  mock.New(),
		DB:        testDB,
	})
	router.Setup()
	t.Cleanup(func() { _ = router.Shutdown() })

	return router
}

func frameUpload(t *testing.T, eventType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if eventType != "" {
		_ = writer.WriteField("type", eventType)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="frame.jpg"`)
	h.Set("Content-Type", "image/jpeg")
	part, err := writer.CreatePart(h)
	if err != nil {
		t.Fatalf("Failed to build multipart body: %v", err)
	}
	_, _ = part.Write(content)
	_ = writer.Close()

	return body, writer.FormDataContentType()
}

func TestIntegration_HealthEndpoint(t *testing.T) {
	router := newIntegrationRouter(t)

	req := httptest.NewRequest("GET", "/health", nil)
	resp, err := router.App().Test(req, -1)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	if resp.StatusCode != 200 {
		t.Errorf("Status = %d, want 200", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var result map[string]interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if result["status"] != "ok" {
		t.Errorf("status = %v, want ok", result["status"])
	}
}

func TestIntegration_ReadyEndpoint(t *testing.T) {
	router := newIntegrationRouter(t)

	req := httptest.NewRequest("GET", "/ready", nil)
	resp, err := router.App().Test(req, -1)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	if resp.StatusCode != 200 {
		t.Errorf("Status = %d, want 200", resp.StatusCode)
	}
}

func TestIntegration_NotFoundReturns404(t *testing.T) {
	router := newIntegrationRouter(t)

	req := httptest.NewRequest("GET", "/nonexistent", nil)
	resp, err := router.App().Test(req, -1)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	if resp.StatusCode != 404 {
		t.Errorf("Status = %d, want 404", resp.StatusCode)
	}
}

func TestIntegration_EventRoundTrip(t *testing.T) {
	router := newIntegrationRouter(t)

	body, contentType := frameUpload(t, "stranger", []byte("jpeg bytes"))
	req := httptest.NewRequest("POST", "/events", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := router.App().Test(req, -1)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("Status = %d, want 200 (body: %s)", resp.StatusCode, raw)
	}

	var created struct {
		Success bool         `json:"success"`
		Event   domain.Event `json:"event"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if !created.Success {
		t.Error("success = false, want true")
	}
	if created.Event.Type != domain.EventStranger {
		t.Errorf("type = %s, want stranger", created.Event.Type)
	}

	// The frame should be retrievable at its image path.
	frameReq := httptest.NewRequest("GET", created.Event.ImagePath, nil)
	frameResp, err := router.App().Test(frameReq, -1)
	if err != nil {
		t.Fatalf("Frame request failed: %v", err)
	}
	if frameResp.StatusCode != 200 {
		t.Errorf("Frame status = %d, want 200", frameResp.StatusCode)
	}
	frameBody, _ := io.ReadAll(frameResp.Body)
	if !bytes.Equal(frameBody, []byte("jpeg bytes")) {
		t.Error("served frame differs from upload")
	}

	// The event should turn up in the listings.
	listReq := httptest.NewRequest("GET", "/events/strangers", nil)
	listResp, err := router.App().Test(listReq, -1)
	if err != nil {
		t.Fatalf("List request failed: %v", err)
	}
	var events []domain.Event
	if err := json.NewDecoder(listResp.Body).Decode(&events); err != nil {
		t.Fatalf("Failed to parse list: %v", err)
	}
	found := false
	for _, e := range events {
		if e.ID == created.Event.ID {
			found = true
		}
	}
	if !found {
		t.Error("created event missing from strangers listing")
	}
}

func TestIntegration_ProcessImagePipeline(t *testing.T) {
	router := newIntegrationRouter(t)

	body, contentType := frameUpload(t, "", []byte("frame with a stranger at the door"))
	req := httptest.NewRequest("POST", "/process-image", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := router.App().Test(req, -1)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("Status = %d, want 200 (body: %s)", resp.StatusCode, raw)
	}

	var result domain.DetectionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if !result.StrangerDetected {
		t.Error("stranger_detected = false, want true")
	}
}
