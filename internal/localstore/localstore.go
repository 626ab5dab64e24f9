// Package localstore implements the device-local persistence backend:
// every collection is one JSON file in the data directory, read and written
// whole, mirroring the key-per-collection layout the web client keeps in
// browser storage. All operations are synchronous; a mutex makes each call
// a single atomic read-modify-write.
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/ololeeye/ololeeye/internal/apperr"
	"github.com/ololeeye/ololeeye/internal/logger"
	"github.com/ololeeye/ololeeye/internal/models"
)

// Collection file names, one per collection.
const (
	campaignsFile    = "campaigns.json"
	contributorsFile = "contributors.json"
	paymentsFile     = "payments.json"
	templatesFile    = "templates.json"
	settingsFile     = "settings.json"
	logsFile         = "logs.json"
)

// Store is the local JSON-file-backed store.
type Store struct {
	mu  sync.Mutex
	dir string
	now func() time.Time
}

// Open prepares a local store rooted at dir, creating the directory and
// seeding default templates and settings on first use.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Store{dir: dir, now: time.Now}

	if _, err := os.Stat(s.path(templatesFile)); errors.Is(err, os.ErrNotExist) {
		if err := s.seedTemplates(); err != nil {
			return nil, err
		}
	}
	if _, err := os.Stat(s.path(settingsFile)); errors.Is(err, os.ErrNotExist) {
		if err := writeFile(s.path(settingsFile), models.DefaultSettings()); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *Store) path(file string) string {
	return filepath.Join(s.dir, file)
}

// readCollection reads a whole collection file. A missing or corrupt file
// reads as an empty collection; corruption is logged, never surfaced.
func readCollection[T any](path string) []T {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		logger.For("localstore").Warn().Str("file", filepath.Base(path)).Err(err).
			Msg("Corrupt collection file, treating as empty")
		return nil
	}
	return records
}

// writeFile writes v as indented JSON via a temp file and rename, so a
// crash mid-write never leaves a half-written collection behind.
func writeFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

// GenerateID produces a store-unique identifier: a base36 millisecond
// timestamp followed by base36 random bits. Collisions are not checked;
// the random suffix makes them overwhelmingly unlikely within one store.
func GenerateID(now time.Time) string {
	ts := strconv.FormatInt(now.UnixMilli(), 36)
	suffix := strconv.FormatUint(rand.Uint64()%(36*36*36*36*36*36), 36)
	for len(suffix) < 6 {
		suffix = "0" + suffix
	}
	return ts + suffix
}

// generateCampaignCode draws a 4-digit code unused by existing campaigns.
func generateCampaignCode(existing []models.Campaign) (string, error) {
	used := make([]string, 0, len(existing))
	for _, c := range existing {
		used = append(used, c.Code)
	}
	code, err := models.GenerateCampaignCode(used)
	if err != nil {
		return "", apperr.Wrap(apperr.KindValidation, "campaign code", err)
	}
	return code, nil
}

// Campaigns returns all campaigns.
func (s *Store) Campaigns() ([]models.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return readCollection[models.Campaign](s.path(campaignsFile)), nil
}

// Campaign returns a single campaign by ID.
func (s *Store) Campaign(id string) (*models.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range readCollection[models.Campaign](s.path(campaignsFile)) {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, apperr.New(apperr.KindNotFound, "campaign not found")
}

// SaveCampaign inserts or replaces a campaign by ID. Inserts are assigned
// an identifier, a unique 4-digit code and timestamps; replacements keep
// the stored code and creation time and refresh the update time.
func (s *Store) SaveCampaign(campaign models.Campaign) (*models.Campaign, error) {
	if campaign.Name == "" {
		return nil, apperr.New(apperr.KindValidation, "campaign name is required")
	}
	if campaign.Goal.IsNegative() {
		return nil, apperr.New(apperr.KindValidation, "campaign goal must be non-negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	campaigns := readCollection[models.Campaign](s.path(campaignsFile))
	now := s.now()

	if campaign.ID == "" {
		code, err := generateCampaignCode(campaigns)
		if err != nil {
			return nil, err
		}
		campaign.ID = GenerateID(now)
		campaign.Code = code
		campaign.CreatedAt = now
		campaign.UpdatedAt = now
		campaigns = append(campaigns, campaign)
	} else {
		idx := -1
		for i, c := range campaigns {
			if c.ID == campaign.ID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, apperr.New(apperr.KindNotFound, "campaign not found")
		}
		campaign.Code = campaigns[idx].Code
		campaign.CreatedAt = campaigns[idx].CreatedAt
		campaign.UpdatedAt = now
		campaigns[idx] = campaign
	}

	if err := writeFile(s.path(campaignsFile), campaigns); err != nil {
		return nil, err
	}
	return &campaign, nil
}

// DeleteCampaign removes a campaign and cascades to its contributors.
// Payments of the deleted campaign are kept: the approval audit trail
// outlives the campaign.
func (s *Store) DeleteCampaign(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	campaigns := readCollection[models.Campaign](s.path(campaignsFile))
	kept := campaigns[:0]
	found := false
	for _, c := range campaigns {
		if c.ID == id {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return apperr.New(apperr.KindNotFound, "campaign not found")
	}
	if err := writeFile(s.path(campaignsFile), kept); err != nil {
		return err
	}

	contributors := readCollection[models.Contributor](s.path(contributorsFile))
	keptContributors := contributors[:0]
	for _, c := range contributors {
		if c.CampaignID != id {
			keptContributors = append(keptContributors, c)
		}
	}
	return writeFile(s.path(contributorsFile), keptContributors)
}

// Contributors returns contributors, filtered to one campaign when
// campaignID is non-empty.
func (s *Store) Contributors(campaignID string) ([]models.Contributor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contributors := readCollection[models.Contributor](s.path(contributorsFile))
	if campaignID == "" {
		return contributors, nil
	}
	var filtered []models.Contributor
	for _, c := range contributors {
		if c.CampaignID == campaignID {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}

// SaveContributor inserts or replaces a contributor by ID. The phone
// number is normalized on every save.
func (s *Store) SaveContributor(contributor models.Contributor) (*models.Contributor, error) {
	if contributor.CampaignID == "" {
		return nil, apperr.New(apperr.KindValidation, "contributor campaign is required")
	}
	if contributor.Name == "" {
		return nil, apperr.New(apperr.KindValidation, "contributor name is required")
	}
	if contributor.Amount.IsNegative() {
		return nil, apperr.New(apperr.KindValidation, "contributor amount must be non-negative")
	}

	contributor.Phone = models.NormalizePhone(contributor.Phone)
	if contributor.Status == "" {
		contributor.Status = models.ContributorStatusPending
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	contributors := readCollection[models.Contributor](s.path(contributorsFile))
	now := s.now()

	if contributor.ID == "" {
		contributor.ID = GenerateID(now)
		contributor.CreatedAt = now
		contributor.UpdatedAt = now
		contributors = append(contributors, contributor)
	} else {
		idx := -1
		for i, c := range contributors {
			if c.ID == contributor.ID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, apperr.New(apperr.KindNotFound, "contributor not found")
		}
		contributor.CreatedAt = contributors[idx].CreatedAt
		contributor.UpdatedAt = now
		contributors[idx] = contributor
	}

	if err := writeFile(s.path(contributorsFile), contributors); err != nil {
		return nil, err
	}
	return &contributor, nil
}

// DeleteContributor removes a contributor by ID.
func (s *Store) DeleteContributor(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	contributors := readCollection[models.Contributor](s.path(contributorsFile))
	kept := contributors[:0]
	found := false
	for _, c := range contributors {
		if c.ID == id {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return apperr.New(apperr.KindNotFound, "contributor not found")
	}
	return writeFile(s.path(contributorsFile), kept)
}

// Templates returns all message templates.
func (s *Store) Templates() ([]models.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return readCollection[models.Template](s.path(templatesFile)), nil
}

// SaveTemplate inserts or replaces a template by ID.
func (s *Store) SaveTemplate(template models.Template) (*models.Template, error) {
	if template.Name == "" {
		return nil, apperr.New(apperr.KindValidation, "template name is required")
	}
	if template.Body == "" {
		return nil, apperr.New(apperr.KindValidation, "template body is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	templates := readCollection[models.Template](s.path(templatesFile))
	now := s.now()

	if template.ID == "" {
		template.ID = GenerateID(now)
		template.CreatedAt = now
		template.UpdatedAt = now
		templates = append(templates, template)
	} else {
		idx := -1
		for i, tmpl := range templates {
			if tmpl.ID == template.ID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, apperr.New(apperr.KindNotFound, "template not found")
		}
		template.CreatedAt = templates[idx].CreatedAt
		template.UpdatedAt = now
		templates[idx] = template
	}

	if err := writeFile(s.path(templatesFile), templates); err != nil {
		return nil, err
	}
	return &template, nil
}

// DeleteTemplate removes a template by ID.
func (s *Store) DeleteTemplate(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	templates := readCollection[models.Template](s.path(templatesFile))
	kept := templates[:0]
	found := false
	for _, tmpl := range templates {
		if tmpl.ID == id {
			found = true
			continue
		}
		kept = append(kept, tmpl)
	}
	if !found {
		return apperr.New(apperr.KindNotFound, "template not found")
	}
	return writeFile(s.path(templatesFile), kept)
}

// Settings returns the store-wide settings, falling back to defaults when
// the settings file is missing or corrupt.
func (s *Store) Settings() (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settingsLocked()
}

func (s *Store) settingsLocked() (models.Settings, error) {
	data, err := os.ReadFile(s.path(settingsFile))
	if err != nil {
		return models.DefaultSettings(), nil
	}
	var settings models.Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		logger.For("localstore").Warn().Err(err).Msg("Corrupt settings file, using defaults")
		return models.DefaultSettings(), nil
	}
	return settings, nil
}

// SaveSettings replaces the store-wide settings.
func (s *Store) SaveSettings(settings models.Settings) error {
	if settings.Currency != "" {
		if symbol, ok := models.SupportedCurrencies[settings.Currency]; ok && settings.CurrencySymbol == "" {
			settings.CurrencySymbol = symbol
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return writeFile(s.path(settingsFile), settings)
}

// Logs returns audit log entries, filtered to one campaign when campaignID
// is non-empty, newest first.
func (s *Store) Logs(campaignID string) ([]models.LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := readCollection[models.LogEntry](s.path(logsFile))
	var out []models.LogEntry
	for i := len(entries) - 1; i >= 0; i-- {
		if campaignID == "" || entries[i].CampaignID == campaignID {
			out = append(out, entries[i])
		}
	}
	return out, nil
}

// appendLog appends one audit entry. Callers must hold s.mu.
func (s *Store) appendLog(campaignID, action, detail string) error {
	entries := readCollection[models.LogEntry](s.path(logsFile))
	entries = append(entries, models.LogEntry{
		ID:         GenerateID(s.now()),
		CampaignID: campaignID,
		Action:     action,
		Detail:     detail,
		CreatedAt:  s.now(),
	})
	return writeFile(s.path(logsFile), entries)
}

// seedTemplates writes the default message templates on first open.
func (s *Store) seedTemplates() error {
	now := s.now()
	templates := []models.Template{
		{
			ID:          GenerateID(now),
			MessageType: "reminder",
			Name:        "Payment reminder",
			Body:        "Asc {name}, waxaad ka qayb qaadatay {campaign}. Fadlan soo dir lacagta {amount} {currency}. Mahadsanid!",
			Variables:   []string{"name", "campaign", "amount", "currency"},
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          GenerateID(now),
			MessageType: "thanks",
			Name:        "Thank you",
			Body:        "Mahadsanid {name}! Waxaan helnay {amount} {currency} ee {campaign}.",
			Variables:   []string{"name", "amount", "currency", "campaign"},
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          GenerateID(now),
			MessageType: "invite",
			Name:        "Campaign invitation",
			Body:        "Asc {name}, waxaan ku casuumaynaa inaad ka qayb qaadato {campaign}. Hadafku waa {goal} {currency}.",
			Variables:   []string{"name", "campaign", "goal", "currency"},
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
	return writeFile(s.path(templatesFile), templates)
}
