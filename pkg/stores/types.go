package stores

import (
	"context"
	"errors"
	"time"

	"github.com/openfroyo/slicecfg/pkg/config"
)

// ErrPresetNotFound is returned when no preset has the requested name.
var ErrPresetNotFound = errors.New("preset not found")

// Audit actions
const (
	AuditPresetSaved   = "preset.saved"
	AuditPresetDeleted = "preset.deleted"
)

// Preset is a named snapshot of option values in their serialized form.
type Preset struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Values      map[string]string `json:"values"` // canonical key -> Serialize()
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// PresetInfo is a preset without its values, as returned by ListPresets.
type PresetInfo struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Options     int       `json:"options"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AuditEntry records one change to the preset library.
type AuditEntry struct {
	ID        int64     `json:"id"`
	Action    string    `json:"action"`
	Preset    string    `json:"preset"`
	Actor     string    `json:"actor"`
	Details   *string   `json:"details,omitempty"` // JSON blob
	Timestamp time.Time `json:"timestamp"`
}

// Store defines the interface for the preset library.
type Store interface {
	// Lifecycle
	Init(ctx context.Context) error
	Close() error
	Migrate(ctx context.Context) error

	// Preset operations
	SavePreset(ctx context.Context, name, description string, cfg config.Store) (*Preset, error)
	GetPreset(ctx context.Context, name string) (*Preset, error)
	LoadPreset(ctx context.Context, name string, dst config.Store, ignoreUnknown bool) (*Preset, error)
	ListPresets(ctx context.Context, limit, offset int) ([]*PresetInfo, error)
	DeletePreset(ctx context.Context, name string) error

	// Audit operations
	ListAuditEntries(ctx context.Context, preset *string, limit, offset int) ([]*AuditEntry, error)

	// Utility
	HealthCheck(ctx context.Context) error
}
