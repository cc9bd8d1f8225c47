package domain

// DetectionResult is the structured output of the external detection engine.
// Field names follow the engine's wire format. The classifier treats absent
// lists as empty and performs no further validation.
type DetectionResult struct {
	Faces            []DetectedFace    `json:"faces"`
	Packages         []DetectedPackage `json:"packages"`
	StrangerDetected bool              `json:"stranger_detected"`
	PackageStolen    bool              `json:"package_stolen"`
}

// DetectedFace is one face found in a frame. Location is [left, top, right,
// bottom] in pixel coordinates. Name is set only for recognized faces.
type DetectedFace struct {
	Location   [4]int `json:"location"`
	IsStranger bool   `json:"is_stranger"`
	Name       string `json:"name,omitempty"`
}

// DetectedPackage is one package found in a frame. Location is [x1, y1, x2, y2].
type DetectedPackage struct {
	Location   [4]int  `json:"location"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}
