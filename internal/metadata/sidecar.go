package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SidecarSuffix is appended to the full video path, extension included, so
// "flight.mp4" gets "flight.mp4.meta.json" next to it.
const SidecarSuffix = ".meta.json"

// SidecarPath returns the sidecar path for a video file.
func SidecarPath(videoPath string) string {
	return videoPath + SidecarSuffix
}

// SidecarExists reports whether a sidecar is already present for the video.
func SidecarExists(videoPath string) bool {
	_, err := os.Stat(SidecarPath(videoPath))
	return err == nil
}

// WriteSidecar serializes the metadata next to the video. The write goes
// through a temp file in the same directory so a crash never leaves a
// truncated sidecar behind.
func WriteSidecar(videoPath string, meta *VideoMetadata) error {
	sidecarPath := SidecarPath(videoPath)

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(sidecarPath), ".meta-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp sidecar: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp sidecar: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp sidecar: %w", err)
	}

	if err := os.Rename(tmpPath, sidecarPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move sidecar into place: %w", err)
	}
	return nil
}

// ReadSidecar loads an existing sidecar for a video.
func ReadSidecar(videoPath string) (*VideoMetadata, error) {
	data, err := os.ReadFile(SidecarPath(videoPath))
	if err != nil {
		return nil, fmt.Errorf("failed to read sidecar: %w", err)
	}

	var meta VideoMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse sidecar: %w", err)
	}
	return &meta, nil
}
