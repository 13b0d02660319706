package models

import "strings"

// TemporaryAudioFile is the local copy of an inbound payload
type TemporaryAudioFile struct {
	Path      string
	Extension string
	MessageID int
}

// TranscriptionResult is the raw speech-to-text output
type TranscriptionResult struct {
	Text         string
	LanguageHint string
}

// IsEmpty reports whether no speech was recognized
func (r TranscriptionResult) IsEmpty() bool {
	return strings.TrimSpace(r.Text) == ""
}

// CorrectedTranscript is the transcript after the grammar and spelling pass
type CorrectedTranscript struct {
	Text string
}

// SummaryReport is the condensed synopsis delivered to the user
type SummaryReport struct {
	Text string
}
