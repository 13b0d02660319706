package reply

import (
	"errors"
	"fmt"

	"github.com/nguyentantai21042004/voice-digest/internal/models"
)

const (
	greetingText    = "Hi! Send me an audio file (.m4a, .mp3, .wav, .ogg) or a voice message and I will reply with a short summary of it."
	rejectionText   = "Please send an audio file with the extension .m4a, .mp3, .wav or .ogg"
	startedText     = "Audio received, starting processing..."
	estimateFormat  = " Estimated wait: %d min. %d sec."
	summarizingText = "Text recognized, building the summary..."
	summaryFormat   = "Summary report:\n\n%s"
	emptySpeechText = "Could not recognize speech in the audio file."
	genericText     = "An error occurred while processing the audio."
	unexpectedText  = "An unexpected error occurred: %v"
)

// StartedText is the processing-started status. A positive duration adds a
// wait estimate of twice the audio length.
func StartedText(durationSeconds int) string {
	if durationSeconds <= 0 {
		return startedText
	}
	estimate := durationSeconds * 2
	return startedText + fmt.Sprintf(estimateFormat, estimate/60, estimate%60)
}

// FailureText maps a stage error to the one reply the user receives
func FailureText(err error) string {
	var se *models.StageError
	if !errors.As(err, &se) {
		return fmt.Sprintf(unexpectedText, err)
	}

	switch se.Kind {
	case models.KindValidation:
		return rejectionText
	case models.KindEmptyTranscript:
		return emptySpeechText
	case models.KindGenerative:
		return fmt.Sprintf(unexpectedText, se.Err)
	default:
		return genericText
	}
}
