package dto

import (
	"time"

	"github.com/sautihq/sauti-notes/internal/transcription/domain"
)

type ListTranscriptionsRequest struct {
	Offset int `form:"offset"`
	Limit  int `form:"limit"`
}

type ListTranscriptionsResponse struct {
	Transcriptions []TranscriptionDTO `json:"transcriptions"`
	Offset         int                `json:"offset"`
	Limit          int                `json:"limit"`
}

type TranscriptionDTO struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// TranscriptionDetailDTO is the single-resource view. The transcript and
// summary are included once processing has produced them.
type TranscriptionDetailDTO struct {
	TranscriptionDTO
	TranscriptText string      `json:"transcript_text,omitempty"`
	Summary        *SummaryDTO `json:"summary,omitempty"`
}

type TranscriptDTO struct {
	ID             string `json:"id"`
	TranscriptText string `json:"transcript_text"`
}

type SummaryDTO struct {
	ID                     string          `json:"id"`
	TranscriptionID        string          `json:"transcription_id"`
	Muhtasari              string          `json:"muhtasari"`
	Maamuzi                []string        `json:"maamuzi"`
	Kazi                   []ActionItemDTO `json:"kazi"`
	MasualaYaliyoahirishwa []string        `json:"masuala_yaliyoahirishwa"`
}

type ActionItemDTO struct {
	Nani   string  `json:"nani"`
	Kazi   string  `json:"kazi"`
	Tarehe *string `json:"tarehe"`
}

// NewTranscriptionDTO maps a transcription to its list view.
func NewTranscriptionDTO(tr *domain.Transcription) TranscriptionDTO {
	return TranscriptionDTO{
		ID:           tr.ID.String(),
		Filename:     tr.Filename,
		Status:       string(tr.Status),
		ErrorMessage: tr.ErrorMessage,
		CreatedAt:    tr.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    tr.UpdatedAt.Format(time.RFC3339),
	}
}

// NewTranscriptionDetailDTO maps a transcription to its detail view.
func NewTranscriptionDetailDTO(tr *domain.Transcription) TranscriptionDetailDTO {
	detail := TranscriptionDetailDTO{
		TranscriptionDTO: NewTranscriptionDTO(tr),
		TranscriptText:   tr.TranscriptText,
	}
	if tr.Summary != nil {
		summary := NewSummaryDTO(tr.Summary)
		detail.Summary = &summary
	}
	return detail
}

// NewSummaryDTO maps a summary to its response shape. List fields are
// never null in responses, only empty.
func NewSummaryDTO(s *domain.Summary) SummaryDTO {
	kazi := make([]ActionItemDTO, len(s.Kazi))
	for i, item := range s.Kazi {
		kazi[i] = ActionItemDTO{
			Nani:   item.Person,
			Kazi:   item.Task,
			Tarehe: item.DueDate,
		}
	}

	maamuzi := s.Maamuzi
	if maamuzi == nil {
		maamuzi = []string{}
	}
	masuala := s.MasualaYaliyoahirishwa
	if masuala == nil {
		masuala = []string{}
	}

	return SummaryDTO{
		ID:                     s.ID.String(),
		TranscriptionID:        s.TranscriptionID.String(),
		Muhtasari:              s.Muhtasari,
		Maamuzi:                maamuzi,
		Kazi:                   kazi,
		MasualaYaliyoahirishwa: masuala,
	}
}
