package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// StepFileNotFoundError reports that a project's STEP file could not be
// located by any resolution strategy.
type StepFileNotFoundError struct {
	Path string
}

func (e StepFileNotFoundError) Error() string {
	return fmt.Sprintf("step file %q not found", e.Path)
}

// Save writes the document as indented JSON. The write is atomic: the
// document goes to a temporary file in the target directory and is renamed
// into place, so a crash never leaves a truncated project on disk.
func Save(doc *Document, path string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal project: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".project-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write project: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename project into place: %w", err)
	}

	log.Debug().
		Str("path", path).
		Int("frames", len(doc.Frames)).
		Int("joints", len(doc.Joints)).
		Msg("project saved")
	return nil
}

// Load reads a project document. A version mismatch is logged but not
// fatal; newer readers stay compatible with older documents.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse project: %w", err)
	}
	if doc.Version != Version {
		log.Warn().
			Str("path", path).
			Str("version", doc.Version).
			Str("expected", Version).
			Msg("project version mismatch")
	}
	if doc.UnitScale == 0 {
		doc.UnitScale = 1.0
	}
	log.Debug().
		Str("path", path).
		Int("frames", len(doc.Frames)).
		Int("joints", len(doc.Joints)).
		Msg("project loaded")
	return &doc, nil
}

// ResolveStepFile finds the document's STEP file on disk. It tries the
// stored path first, then the file's basename next to the project file,
// and finally the locate callback, which lets an interactive caller ask
// the user. locate may be nil.
func ResolveStepFile(doc *Document, projectPath string, locate func(missing string) (string, bool)) (string, error) {
	if doc.StepFile != "" {
		if _, err := os.Stat(doc.StepFile); err == nil {
			return doc.StepFile, nil
		}
		sibling := filepath.Join(filepath.Dir(projectPath), filepath.Base(doc.StepFile))
		if _, err := os.Stat(sibling); err == nil {
			log.Debug().Str("path", sibling).Msg("step file resolved next to project")
			return sibling, nil
		}
	}
	if locate != nil {
		if found, ok := locate(doc.StepFile); ok {
			if _, err := os.Stat(found); err == nil {
				return found, nil
			}
		}
	}
	return "", StepFileNotFoundError{Path: doc.StepFile}
}
