package domain

import "github.com/google/uuid"

// ActionItem is one task extracted from a meeting, with the responsible
// person and an optional free-form due date (not parsed as a date).
type ActionItem struct {
	Person  string  `json:"person"`
	Task    string  `json:"task"`
	DueDate *string `json:"due_date"`
}

// Summary is the structured output of summarization for exactly one
// transcription. It is created once and never mutated; replacing a
// summary means attaching a new one.
//
// Field names follow the product's Swahili summary sections:
// muhtasari (narrative), maamuzi (decisions), kazi (action items),
// masuala yaliyoahirishwa (deferred topics).
type Summary struct {
	ID                     uuid.UUID    `json:"id"`
	TranscriptionID        uuid.UUID    `json:"transcription_id"`
	Muhtasari              string       `json:"muhtasari"`
	Maamuzi                []string     `json:"maamuzi"`
	Kazi                   []ActionItem `json:"kazi"`
	MasualaYaliyoahirishwa []string     `json:"masuala_yaliyoahirishwa"`
}

// NewSummary creates a summary for the given transcription. Nil list
// arguments become empty lists so the persisted shape is stable.
func NewSummary(transcriptionID uuid.UUID, muhtasari string, maamuzi []string, kazi []ActionItem, masuala []string) *Summary {
	if maamuzi == nil {
		maamuzi = []string{}
	}
	if kazi == nil {
		kazi = []ActionItem{}
	}
	if masuala == nil {
		masuala = []string{}
	}
	return &Summary{
		ID:                     uuid.New(),
		TranscriptionID:        transcriptionID,
		Muhtasari:              muhtasari,
		Maamuzi:                maamuzi,
		Kazi:                   kazi,
		MasualaYaliyoahirishwa: masuala,
	}
}
