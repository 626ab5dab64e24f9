package localstore

import (
	"fmt"
	"time"

	"github.com/ololeeye/ololeeye/internal/apperr"
	"github.com/ololeeye/ololeeye/internal/models"
)

// ExportVersion is the snapshot format version. Imports of any other
// version are rejected.
const ExportVersion = 1

// ExportPayload is the full-store snapshot format. Payments and audit logs
// are intentionally absent: exports carry the data a user would move to a
// new device, not the approval history.
type ExportPayload struct {
	Version      int                  `json:"version"`
	ExportedAt   time.Time            `json:"exportedAt"`
	Campaigns    []models.Campaign    `json:"campaigns"`
	Contributors []models.Contributor `json:"contributors"`
	Templates    []models.Template    `json:"templates"`
	Settings     models.Settings      `json:"settings"`
}

// ExportAll produces a snapshot of the store.
func (s *Store) ExportAll() (*ExportPayload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.settingsLocked()
	if err != nil {
		return nil, err
	}

	return &ExportPayload{
		Version:      ExportVersion,
		ExportedAt:   s.now(),
		Campaigns:    readCollection[models.Campaign](s.path(campaignsFile)),
		Contributors: readCollection[models.Contributor](s.path(contributorsFile)),
		Templates:    readCollection[models.Template](s.path(templatesFile)),
		Settings:     settings,
	}, nil
}

// ImportAll replaces the exported collections with the snapshot's content.
// A payload with the wrong version is rejected and the store is left
// untouched.
func (s *Store) ImportAll(payload *ExportPayload) error {
	if payload == nil {
		return apperr.New(apperr.KindValidation, "import payload is empty")
	}
	if payload.Version != ExportVersion {
		return apperr.New(apperr.KindValidation,
			fmt.Sprintf("unsupported export version %d, expected %d", payload.Version, ExportVersion))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeFile(s.path(campaignsFile), payload.Campaigns); err != nil {
		return err
	}
	if err := writeFile(s.path(contributorsFile), payload.Contributors); err != nil {
		return err
	}
	if err := writeFile(s.path(templatesFile), payload.Templates); err != nil {
		return err
	}
	return writeFile(s.path(settingsFile), payload.Settings)
}
