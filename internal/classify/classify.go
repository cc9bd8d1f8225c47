// Package classify maps detection results onto domain event drafts.
package classify

import (
	"github.com/saturnino-fabrica-de-software/lookout/internal/domain"
)

// Classify derives event drafts from one detection result. The three rules
// are independent and evaluated in a fixed order, so one frame yields between
// zero and three drafts with a deterministic emission order:
//
//  1. stranger_detected          -> stranger draft
//  2. package_stolen             -> package_stolen draft
//  3. any non-stranger face      -> exactly one family draft
//
// An empty result yields no drafts and is not an error.
func Classify(result *domain.DetectionResult, imagePath string) []domain.EventDraft {
	if result == nil {
		return nil
	}

	var drafts []domain.EventDraft

	if result.StrangerDetected {
		drafts = append(drafts, domain.EventDraft{Type: domain.EventStranger, ImagePath: imagePath})
	}

	if result.PackageStolen {
		drafts = append(drafts, domain.EventDraft{Type: domain.EventPackageStolen, ImagePath: imagePath})
	}

	for _, face := range result.Faces {
		if !face.IsStranger {
			// One family draft per frame, no matter how many known faces.
			drafts = append(drafts, domain.EventDraft{Type: domain.EventFamily, ImagePath: imagePath})
			break
		}
	}

	return drafts
}
