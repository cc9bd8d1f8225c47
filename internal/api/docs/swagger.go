package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// EventData represents a recorded event
type EventData struct {
	ID        string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Type      string `json:"type" example:"stranger"`
	ImagePath string `json:"image_path" example:"/uploads/1700000000000-1a2b3c4d-frame.jpg"`
	Timestamp string `json:"timestamp" example:"2024-01-01T00:00:00Z"`
}

// CreateEventResponse represents the response for a recorded event
type CreateEventResponse struct {
	Success bool      `json:"success" example:"true"`
	Event   EventData `json:"event"`
}

// FaceData represents a detected face
type FaceData struct {
	Location   []int  `json:"location" example:"[10,20,110,120]"`
	IsStranger bool   `json:"is_stranger" example:"true"`
	Name       string `json:"name,omitempty" example:"alice"`
}

// PackageData represents a detected package
type PackageData struct {
	Location   []int   `json:"location" example:"[5,5,60,60]"`
	Label      string  `json:"label" example:"package"`
	Confidence float64 `json:"confidence" example:"0.91"`
}

// DetectionResultData represents the detection engine output
type DetectionResultData struct {
	Faces            []FaceData    `json:"faces"`
	Packages         []PackageData `json:"packages"`
	StrangerDetected bool          `json:"stranger_detected" example:"false"`
	PackageStolen    bool          `json:"package_stolen" example:"false"`
}

// AckResponse represents a bare acknowledgement
type AckResponse struct {
	Success bool `json:"success" example:"true"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"NO_IMAGE"`
	Message string `json:"message" example:"No image file provided"`
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Version string `json:"version,omitempty" example:"0.1.0"`
}

// NewSwagger creates and configures the Swagger documentation
func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "Lookout Camera API",
		Version:     "v0.1.0",
		Description: "Home security camera backend: frame ingestion, detection pipeline and realtime event broadcasting",
		Host:        "localhost:3001",
		Path:        "/",
	})

	endpoints := []*endpoint.EndPoint{
		// POST /events - record an event manually
		endpoint.New(
			endpoint.POST,
			"/events",
			endpoint.WithTags("Events"),
			endpoint.WithSummary("Record an event with its frame"),
			endpoint.WithDescription("Stores the uploaded frame and persists a single event of the given type. An empty type is recorded as unknown."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(CreateEventResponse{}, "200", "Event recorded successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "NO_IMAGE", Message: "No image file provided"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "INVALID_IMAGE", Message: "Only image files are allowed"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "IMAGE_TOO_LARGE", Message: "Image exceeds the maximum allowed size"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "EVENT_PERSIST_FAILED", Message: "Failed to persist event"}, "500", "Internal Server Error"),
			}),
		),

		// GET /events - list all events
		endpoint.New(
			endpoint.GET,
			"/events",
			endpoint.WithTags("Events"),
			endpoint.WithSummary("List all events"),
			endpoint.WithDescription("Returns every recorded event, newest first."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New([]EventData{}, "200", "Events retrieved successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// GET /events/latest - newest events
		endpoint.New(
			endpoint.GET,
			"/events/latest",
			endpoint.WithTags("Events"),
			endpoint.WithSummary("List the latest events"),
			endpoint.WithDescription("Returns the six most recent events, newest first."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New([]EventData{}, "200", "Events retrieved successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// GET /events/strangers - stranger events
		endpoint.New(
			endpoint.GET,
			"/events/strangers",
			endpoint.WithTags("Events"),
			endpoint.WithSummary("List stranger events"),
			endpoint.WithDescription("Returns events of type stranger, newest first."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New([]EventData{}, "200", "Events retrieved successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// POST /process-image - run the detection pipeline
		endpoint.New(
			endpoint.POST,
			"/process-image",
			endpoint.WithTags("Detection"),
			endpoint.WithSummary("Process a camera frame"),
			endpoint.WithDescription("Stores the frame, runs the detection engine and persists any derived events. Responds with the raw detection result."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(DetectionResultData{}, "200", "Frame processed successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "NO_IMAGE", Message: "No image file provided"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "INVALID_IMAGE", Message: "Only image files are allowed"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "DETECTOR_UNAVAILABLE", Message: "Detection engine is not reachable"}, "500", "Internal Server Error"),
				response.New(ErrorResponse{Code: "DETECTOR_ERROR", Message: "Detection engine returned an invalid response"}, "500", "Internal Server Error"),
			}),
		),

		// POST /detect-faces - engine face scan
		endpoint.New(
			endpoint.POST,
			"/detect-faces",
			endpoint.WithTags("Detection"),
			endpoint.WithSummary("Run a face scan on the engine's live feed"),
			endpoint.WithDescription("Forwards the request to the detection engine's face-scan mode and relays its reply. Only available when the configured backend runs its own camera feed."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(AckResponse{}, "200", "Engine reply"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "DETECTOR_UNAVAILABLE", Message: "Detection engine is not reachable"}, "500", "Internal Server Error"),
			}),
		),

		// POST /monitor-parcel - engine parcel watch
		endpoint.New(
			endpoint.POST,
			"/monitor-parcel",
			endpoint.WithTags("Detection"),
			endpoint.WithSummary("Switch the engine into parcel-watch mode"),
			endpoint.WithDescription("Forwards the request to the detection engine's parcel-watch mode and relays its reply. Only available when the configured backend runs its own camera feed."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(AckResponse{}, "200", "Engine reply"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "DETECTOR_UNAVAILABLE", Message: "Detection engine is not reachable"}, "500", "Internal Server Error"),
			}),
		),

		// POST /camera/trigger - open camera request
		endpoint.New(
			endpoint.POST,
			"/camera/trigger",
			endpoint.WithTags("Detection"),
			endpoint.WithSummary("Request connected cameras to open a stream"),
			endpoint.WithDescription("Broadcasts a camera open request to all websocket subscribers."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(AckResponse{}, "200", "Request broadcast"),
			}),
		),

		// POST /live-detections - republish live detection data
		endpoint.New(
			endpoint.POST,
			"/live-detections",
			endpoint.WithTags("Detection"),
			endpoint.WithSummary("Publish live detection data"),
			endpoint.WithDescription("Republishes the JSON body verbatim to websocket subscribers. Nothing is persisted."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(AckResponse{}, "200", "Data broadcast"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "BAD_REQUEST", Message: "Invalid request"}, "400", "Bad Request"),
			}),
		),

		// GET /uploads/:handle - stored frame
		endpoint.New(
			endpoint.GET,
			"/uploads/{handle}",
			endpoint.WithTags("Frames"),
			endpoint.WithSummary("Fetch a stored frame"),
			endpoint.WithDescription("Streams the stored frame bytes; the content type is derived from the handle's extension."),
			endpoint.WithParams(
				parameter.StrParam("handle", parameter.Path, parameter.WithDescription("Frame handle as returned in image_path")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(struct{}{}, "200", "Frame bytes"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "FRAME_NOT_FOUND", Message: "Stored frame not found"}, "404", "Not Found"),
			}),
		),

		// GET /health - liveness
		endpoint.New(
			endpoint.GET,
			"/health",
			endpoint.WithTags("Health"),
			endpoint.WithSummary("Liveness check"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(HealthResponse{}, "200", "Service is up"),
			}),
		),

		// GET /ready - readiness
		endpoint.New(
			endpoint.GET,
			"/ready",
			endpoint.WithTags("Health"),
			endpoint.WithSummary("Readiness check"),
			endpoint.WithDescription("Verifies database connectivity."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(HealthResponse{}, "200", "Service is ready"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(HealthResponse{Status: "unavailable"}, "503", "Database unreachable"),
			}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
