// Package tickets implements the file-backed ticket tracker: a single
// tickets.json holding metadata, the ticket list, and creation templates.
package tickets

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type Metadata struct {
	Version     string `json:"version"`
	LastUpdated string `json:"last_updated"`
	NextID      int    `json:"next_id"`
	Project     string `json:"project"`
}

type Ticket struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Status             string   `json:"status"`
	Priority           string   `json:"priority"`
	CreatedAt          string   `json:"created_at"`
	UpdatedAt          string   `json:"updated_at"`
	Description        string   `json:"description"`
	Requirements       []string `json:"requirements"`
	AcceptanceCriteria []string `json:"acceptance_criteria"`
	FilesAffected      []string `json:"files_affected"`
	Dependencies       []string `json:"dependencies"`
	Outcome            *string  `json:"outcome"`
	Notes              *string  `json:"notes"`
}

type Template struct {
	Priority           string   `json:"priority"`
	Requirements       []string `json:"requirements"`
	AcceptanceCriteria []string `json:"acceptance_criteria"`
}

type Data struct {
	Metadata  Metadata            `json:"metadata"`
	Tickets   []Ticket            `json:"tickets"`
	Templates map[string]Template `json:"templates"`
}

// Store reads and writes one tickets.json. Writes go through a temp file and
// rename so a crash never leaves a half-written store.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// saveMu guards read-modify-write cycles on the tickets file.
var saveMu sync.Mutex

func defaultData() Data {
	return Data{
		Metadata: Metadata{
			Version:     "1.0.0",
			LastUpdated: nowStamp(),
			NextID:      1,
			Project:     "napkinwire",
		},
		Tickets: []Ticket{},
		Templates: map[string]Template{
			"bug_fix": {
				Priority:           "high",
				Requirements:       []string{"Root cause identified", "Fix implemented", "Test added"},
				AcceptanceCriteria: []string{"Bug no longer reproduces", "No regressions"},
			},
			"feature": {
				Priority:           "medium",
				Requirements:       []string{"User story clear", "Implementation complete"},
				AcceptanceCriteria: []string{"Feature works as described", "Code reviewed"},
			},
		},
	}
}

// Load reads the store, creating the default structure when the file does not
// exist. A corrupted file degrades to the default structure so the tracker
// can recover instead of blocking every operation.
func (s *Store) Load() Data {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("tickets level=warn event=load_failed path=%s error=%v", s.path, err)
		}
		return defaultData()
	}

	var parsed Data
	if err := json.Unmarshal(data, &parsed); err != nil {
		log.Printf("tickets level=warn event=parse_failed path=%s error=%v", s.path, err)
		d := defaultData()
		d.Templates = map[string]Template{}
		return d
	}
	if parsed.Metadata.NextID < 1 {
		parsed.Metadata.NextID = 1
	}
	if parsed.Templates == nil {
		parsed.Templates = map[string]Template{}
	}
	return parsed
}

// Save writes the store atomically, refreshing the last-updated stamp.
func (s *Store) Save(data Data) error {
	data.Metadata.LastUpdated = nowStamp()

	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling tickets: %w", err)
	}
	payload = append(payload, '\n')

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating tickets dir: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("writing tickets temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing tickets file: %w", err)
	}
	return nil
}

func nowStamp() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05Z")
}
