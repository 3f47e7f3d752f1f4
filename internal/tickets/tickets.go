package tickets

import (
	"fmt"
	"log"
	"sort"
)

var validPriorities = []string{"high", "medium", "low"}

var validStatuses = []string{"todo", "in_progress", "done", "blocked"}

var priorityOrder = map[string]int{"high": 0, "medium": 1, "low": 2}

// Summary is the condensed ticket view returned by List.
type Summary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	Priority  string `json:"priority"`
	CreatedAt string `json:"created_at"`
}

// CreateRequest carries the fields for a new ticket.
type CreateRequest struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Priority           string   `json:"priority"`
	Requirements       []string `json:"requirements"`
	AcceptanceCriteria []string `json:"acceptance_criteria"`
	FilesAffected      []string `json:"files_affected"`
}

// Create adds a ticket with an auto-generated TICKET-%03d id.
func (s *Store) Create(req CreateRequest) (string, error) {
	if !contains(validPriorities, req.Priority) {
		return "", fmt.Errorf("priority must be one of: %v", validPriorities)
	}

	saveMu.Lock()
	defer saveMu.Unlock()

	data := s.Load()
	id := fmt.Sprintf("TICKET-%03d", data.Metadata.NextID)
	now := nowStamp()

	data.Tickets = append(data.Tickets, Ticket{
		ID:                 id,
		Title:              req.Title,
		Status:             "todo",
		Priority:           req.Priority,
		CreatedAt:          now,
		UpdatedAt:          now,
		Description:        req.Description,
		Requirements:       req.Requirements,
		AcceptanceCriteria: req.AcceptanceCriteria,
		FilesAffected:      req.FilesAffected,
		Dependencies:       []string{},
	})
	data.Metadata.NextID++

	if err := s.Save(data); err != nil {
		return "", err
	}
	log.Printf("tickets level=info event=created id=%s priority=%s", id, req.Priority)
	return id, nil
}

// List returns ticket summaries filtered by status ("all" disables the
// filter), sorted by priority then creation time.
func (s *Store) List(status string) ([]Summary, error) {
	if status != "all" && !contains(validStatuses, status) {
		return nil, fmt.Errorf("status must be one of: %v or %q", validStatuses, "all")
	}

	data := s.Load()
	var filtered []Ticket
	for _, t := range data.Tickets {
		if status == "all" || t.Status == status {
			filtered = append(filtered, t)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		pi, pj := priorityRank(filtered[i].Priority), priorityRank(filtered[j].Priority)
		if pi != pj {
			return pi < pj
		}
		return filtered[i].CreatedAt < filtered[j].CreatedAt
	})

	summaries := make([]Summary, 0, len(filtered))
	for _, t := range filtered {
		summaries = append(summaries, Summary{
			ID:        t.ID,
			Title:     t.Title,
			Status:    t.Status,
			Priority:  t.Priority,
			CreatedAt: t.CreatedAt,
		})
	}
	return summaries, nil
}

// UpdateStatus moves a ticket to a new status and refreshes its timestamp.
func (s *Store) UpdateStatus(id, newStatus string) error {
	if !contains(validStatuses, newStatus) {
		return fmt.Errorf("status must be one of: %v", validStatuses)
	}

	saveMu.Lock()
	defer saveMu.Unlock()

	data := s.Load()
	for i := range data.Tickets {
		if data.Tickets[i].ID != id {
			continue
		}
		old := data.Tickets[i].Status
		data.Tickets[i].Status = newStatus
		data.Tickets[i].UpdatedAt = nowStamp()
		if err := s.Save(data); err != nil {
			return err
		}
		log.Printf("tickets level=info event=status_updated id=%s from=%s to=%s", id, old, newStatus)
		return nil
	}
	return fmt.Errorf("ticket %s not found", id)
}

// Get returns the full ticket for implementation work.
func (s *Store) Get(id string) (Ticket, error) {
	data := s.Load()
	for _, t := range data.Tickets {
		if t.ID == id {
			return t, nil
		}
	}
	return Ticket{}, fmt.Errorf("ticket %s not found", id)
}

// Stats counts tickets per status, including statuses outside the write
// vocabulary that older files may carry.
func (s *Store) Stats() map[string]int {
	stats := map[string]int{
		"todo": 0, "done": 0, "in_progress": 0, "blocked": 0, "cancelled": 0, "obsolete": 0,
	}
	for _, t := range s.Load().Tickets {
		if _, ok := stats[t.Status]; ok {
			stats[t.Status]++
		}
	}
	return stats
}

func priorityRank(priority string) int {
	if rank, ok := priorityOrder[priority]; ok {
		return rank
	}
	return priorityOrder["medium"]
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
