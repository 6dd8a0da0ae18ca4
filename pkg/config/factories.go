package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/marmos91/nfs2d/internal/export"
)

// AnonymousID is the uid/gid attributed to anonymous clients when an
// export does not override it (the traditional "nobody" identity).
const AnonymousID = 65534

// exportEntry is one decoded exports-file record.
type exportEntry struct {
	Path     string   `mapstructure:"path" validate:"required,startswith=/"`
	ReadOnly bool     `mapstructure:"read_only"`
	AnonUID  uint32   `mapstructure:"anon_uid"`
	AnonGID  uint32   `mapstructure:"anon_gid"`
	Clients  []string `mapstructure:"clients"`
}

// ExportTable decodes the raw export entries into the immutable table the
// protocol handlers share.
//
// Each entry is decoded into a struct pre-seeded with defaults, so an
// absent anon_uid keeps the anonymous identity while an explicit 0 means
// root. This is why Config carries the entries as raw maps.
func (c *Config) ExportTable() (*export.Table, error) {
	exports := make([]export.Export, 0, len(c.Exports))

	for i, raw := range c.Exports {
		entry := exportEntry{
			AnonUID: AnonymousID,
			AnonGID: AnonymousID,
		}
		if err := mapstructure.Decode(raw, &entry); err != nil {
			return nil, fmt.Errorf("exports[%d]: %w", i, err)
		}
		if err := validate.Struct(&entry); err != nil {
			return nil, fmt.Errorf("exports[%d]: %w", i, formatValidationError(err))
		}

		exports = append(exports, export.Export{
			Path:     entry.Path,
			ReadOnly: entry.ReadOnly,
			AnonUID:  entry.AnonUID,
			AnonGID:  entry.AnonGID,
			Clients:  entry.Clients,
		})
	}

	return export.NewTable(exports), nil
}
