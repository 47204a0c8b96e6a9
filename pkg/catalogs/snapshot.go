package catalogs

import "time"

// Metadata describes one refresh cycle's output for lightweight polling:
// when it was generated and how many records each registry contributed.
type Metadata struct {
	// GeneratedAt is the UTC timestamp of the refresh cycle.
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`

	// Total is the number of canonical participants in the snapshot.
	Total int `json:"total" yaml:"total"`

	// PerSource counts accepted normalized records per registry.
	PerSource map[string]int `json:"per_source" yaml:"per_source"`

	// Rejected counts records dropped per registry for malformed identifiers.
	Rejected map[string]int `json:"rejected" yaml:"rejected"`

	// Duplicates counts records superseded per registry by a later record
	// with the same identifier in the same file.
	Duplicates map[string]int `json:"duplicates" yaml:"duplicates"`
}

// Snapshot is the full, ordered collection of canonical participants produced
// by one refresh cycle, plus its metadata. A snapshot is immutable: readers
// may hold and iterate it without synchronization.
type Snapshot struct {
	participants []Participant
	index        map[string]int
	meta         Metadata
}

// NewSnapshot builds a snapshot from an ordered participant list. The caller
// hands over ownership of the slice; participants must already be sorted by
// ISPB ascending.
func NewSnapshot(participants []Participant, meta Metadata) *Snapshot {
	index := make(map[string]int, len(participants))
	for i, p := range participants {
		index[p.ISPB] = i
	}
	meta.Total = len(participants)
	return &Snapshot{
		participants: participants,
		index:        index,
		meta:         meta,
	}
}

// List returns all participants in ISPB-ascending order. The returned slice
// is a copy; the snapshot itself stays immutable.
func (s *Snapshot) List() []Participant {
	out := make([]Participant, len(s.participants))
	copy(out, s.participants)
	return out
}

// ByISPB returns the participant with the exact 8-digit identifier. The
// second return value is false when no such participant exists; a miss is an
// ordinary result, not an error.
func (s *Snapshot) ByISPB(ispb string) (Participant, bool) {
	i, ok := s.index[ispb]
	if !ok {
		return Participant{}, false
	}
	return s.participants[i], true
}

// Len returns the number of participants in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.participants)
}

// Metadata returns the refresh metadata attached to the snapshot.
func (s *Snapshot) Metadata() Metadata {
	return s.meta
}
