package download

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"catacrawl/internal/model"
)

// Metadata filenames written alongside downloaded assets.
const (
	// MetadataFile lists the assets saved in a folder.
	MetadataFile = "metadata.json"

	// DiagramMappingFile records which product image each block diagram
	// belongs to. The filename is kept for compatibility with existing
	// archives.
	DiagramMappingFile = "bloack_diagram_mappings.json"
)

// SaveMetadata writes the asset records of one folder to its
// metadata.json. An empty asset list still writes the file, so a
// folder without metadata means the folder was never crawled.
func SaveMetadata(dir string, assets []model.Asset) error {
	if assets == nil {
		assets = []model.Asset{}
	}
	return writeJSON(filepath.Join(dir, MetadataFile), assets)
}

// SaveDiagramMappings writes the block-diagram to source-image mapping
// for a diagram folder.
func SaveDiagramMappings(dir string, mappings map[string]string) error {
	if mappings == nil {
		mappings = map[string]string{}
	}
	return writeJSON(filepath.Join(dir, DiagramMappingFile), mappings)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
