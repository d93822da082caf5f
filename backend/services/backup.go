package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"coursepanel/backend/models"
	"coursepanel/backend/store"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BackupVersion is the semantic version of the backup file schema.
const BackupVersion = "1.0.0"

// Backup is the versioned envelope holding a full point-in-time snapshot
// of every store. The JSON layout is an interchange format; do not rename
// fields.
type Backup struct {
	Version   string         `json:"version"`
	Timestamp string         `json:"timestamp"`
	Data      BackupData     `json:"data"`
	Metadata  BackupMetadata `json:"metadata"`
}

type BackupData struct {
	Courses   []models.Course  `json:"courses"`
	Users     []models.User    `json:"users"`
	Modules   []models.Module  `json:"modules"`
	Lectures  []models.Lecture `json:"lectures"`
	Quizzes   []models.Quiz    `json:"quizzes"`
	Analytics models.Analytics `json:"analytics"`
}

type BackupMetadata struct {
	TotalRecords int    `json:"totalRecords"`
	DataSize     int    `json:"dataSize"` // bytes of the serialized data object
	Description  string `json:"description,omitempty"`
}

// SavedBackup is one named backup in the local ring buffer.
type SavedBackup struct {
	ID        string `gorm:"primaryKey"`
	Name      string
	Payload   string
	CreatedAt time.Time
}

// BackupService snapshots and restores the full store state.
type BackupService struct {
	stores *store.Registry
	db     *gorm.DB
	limit  int // max saved backups kept locally
}

func NewBackupService(stores *store.Registry, db *gorm.DB, limit int) (*BackupService, error) {
	if err := db.AutoMigrate(&SavedBackup{}); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 5
	}
	return &BackupService{stores: stores, db: db, limit: limit}, nil
}

// CreateBackup takes one consistent snapshot of every store.
func (s *BackupService) CreateBackup(description string) (Backup, error) {
	state := s.stores.SnapshotAll()
	data := BackupData{
		Courses:   state.Courses,
		Users:     state.Users,
		Modules:   state.Modules,
		Lectures:  state.Lectures,
		Quizzes:   state.Quizzes,
		Analytics: state.Analytics,
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return Backup{}, fmt.Errorf("could not serialize backup data: %w", err)
	}

	total := len(data.Courses) + len(data.Users) + len(data.Modules) +
		len(data.Lectures) + len(data.Quizzes)

	return Backup{
		Version:   BackupVersion,
		Timestamp: time.Now().Format(time.RFC3339),
		Data:      data,
		Metadata: BackupMetadata{
			TotalRecords: total,
			DataSize:     len(raw),
			Description:  description,
		},
	}, nil
}

// SaveLocally appends the backup to the capped local ring buffer, evicting
// the oldest entries beyond the limit. Returns the saved backup's ID.
func (s *BackupService) SaveLocally(backup Backup, name string) (string, error) {
	payload, err := json.Marshal(backup)
	if err != nil {
		return "", fmt.Errorf("could not serialize backup: %w", err)
	}

	saved := SavedBackup{
		ID:        uuid.NewString(),
		Name:      name,
		Payload:   string(payload),
		CreatedAt: time.Now(),
	}
	if err := s.db.Create(&saved).Error; err != nil {
		return "", err
	}

	var stale []SavedBackup
	if err := s.db.Order("created_at desc").Offset(s.limit).Find(&stale).Error; err != nil {
		return saved.ID, err
	}
	for _, old := range stale {
		s.db.Delete(&SavedBackup{}, "id = ?", old.ID)
	}

	return saved.ID, nil
}

// ListSaved returns the saved backups, newest first, without payloads.
func (s *BackupService) ListSaved() ([]SavedBackup, error) {
	var saved []SavedBackup
	err := s.db.Select("id", "name", "created_at").Order("created_at desc").Find(&saved).Error
	return saved, err
}

// GetSaved loads one saved backup by ID.
func (s *BackupService) GetSaved(id string) (*Backup, error) {
	var saved SavedBackup
	if err := s.db.Where("id = ?", id).First(&saved).Error; err != nil {
		return nil, fmt.Errorf("saved backup %s not found", id)
	}
	return s.ImportBackup([]byte(saved.Payload))
}

// Marshal renders the backup as the interchange JSON blob.
func (s *BackupService) Marshal(backup Backup) ([]byte, error) {
	return json.MarshalIndent(backup, "", "  ")
}

// ExportFilename is the download name for an exported backup.
func ExportFilename() string {
	return "backup_" + time.Now().Format("2006-01-02") + ".json"
}

// ImportBackup parses and validates an uploaded backup file. The returned
// error is descriptive and safe to show to the operator.
func (s *BackupService) ImportBackup(data []byte) (*Backup, error) {
	if err := ValidateBackupStructure(data); err != nil {
		return nil, err
	}

	var backup Backup
	if err := json.Unmarshal(data, &backup); err != nil {
		return nil, fmt.Errorf("backup file is not valid JSON: %w", err)
	}
	return &backup, nil
}

// ValidateBackupStructure checks the envelope without trusting it: version
// and timestamp must be present, and every entity collection under data
// must be a JSON array.
func ValidateBackupStructure(data []byte) error {
	var raw struct {
		Version   string                     `json:"version"`
		Timestamp string                     `json:"timestamp"`
		Data      map[string]json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("backup file is not valid JSON: %w", err)
	}

	if raw.Version == "" {
		return fmt.Errorf("backup is missing its version field")
	}
	if raw.Timestamp == "" {
		return fmt.Errorf("backup is missing its timestamp field")
	}
	if raw.Data == nil {
		return fmt.Errorf("backup is missing its data object")
	}

	for _, key := range []string{"courses", "users", "modules", "lectures", "quizzes"} {
		field, ok := raw.Data[key]
		if !ok {
			return fmt.Errorf("backup data is missing the %s collection", key)
		}
		trimmed := bytes.TrimSpace(field)
		if len(trimmed) == 0 || trimmed[0] != '[' {
			return fmt.Errorf("backup data field %s is not an array", key)
		}
	}

	return nil
}

// RestoreSummary reports what a restore replaced.
type RestoreSummary struct {
	Courses  int `json:"courses"`
	Users    int `json:"users"`
	Modules  int `json:"modules"`
	Lectures int `json:"lectures"`
	Quizzes  int `json:"quizzes"`
}

// RestoreFromBackup replaces the full state of every store with the
// backup's contents. Any failure comes back as an error value; nothing
// panics across this boundary.
func (s *BackupService) RestoreFromBackup(backup *Backup) (RestoreSummary, error) {
	if backup == nil {
		return RestoreSummary{}, fmt.Errorf("no backup provided")
	}
	if backup.Version == "" || backup.Timestamp == "" {
		return RestoreSummary{}, fmt.Errorf("backup envelope is incomplete")
	}

	s.stores.RestoreAll(store.State{
		Courses:   backup.Data.Courses,
		Modules:   backup.Data.Modules,
		Lectures:  backup.Data.Lectures,
		Quizzes:   backup.Data.Quizzes,
		Users:     backup.Data.Users,
		Analytics: backup.Data.Analytics,
	})

	return RestoreSummary{
		Courses:  len(backup.Data.Courses),
		Users:    len(backup.Data.Users),
		Modules:  len(backup.Data.Modules),
		Lectures: len(backup.Data.Lectures),
		Quizzes:  len(backup.Data.Quizzes),
	}, nil
}
