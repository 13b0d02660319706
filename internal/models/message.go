// Package models holds the values that flow between pipeline stages.
// Every stage produces a new value; none of them is mutated after creation.
package models

// ContentType is the kind of attachment carried by an inbound message
type ContentType string

const (
	ContentDocument ContentType = "document"
	ContentAudio    ContentType = "audio"
	ContentVoice    ContentType = "voice"
)

// Attachment is one of DocumentAttachment, AudioAttachment or VoiceAttachment
type Attachment interface {
	ContentType() ContentType
	isAttachment()
}

// DocumentAttachment is a generic file upload; only the filename tells us it is audio
type DocumentAttachment struct {
	FileID   string
	FileName string
}

// AudioAttachment is a music-style audio upload
type AudioAttachment struct {
	FileID   string
	FileName string
	Duration int
}

// VoiceAttachment is a recorded voice note
type VoiceAttachment struct {
	FileID   string
	Duration int
}

func (DocumentAttachment) ContentType() ContentType { return ContentDocument }
func (AudioAttachment) ContentType() ContentType    { return ContentAudio }
func (VoiceAttachment) ContentType() ContentType    { return ContentVoice }

func (DocumentAttachment) isAttachment() {}
func (AudioAttachment) isAttachment()    {}
func (VoiceAttachment) isAttachment()    {}

// IncomingAudioMessage is an inbound message carrying an audio payload
type IncomingAudioMessage struct {
	MessageID  int
	ChatID     int64
	SenderID   int64
	Attachment Attachment
}

// AudioRef is the uniform view over any attachment.
// Duration is zero and FileName empty when the endpoint did not report them.
type AudioRef struct {
	FileID   string
	Duration int
	FileName string
}

// HasDuration reports whether a positive duration was supplied
func (r AudioRef) HasDuration() bool {
	return r.Duration > 0
}

// Normalize flattens an attachment into an AudioRef.
// Documents never carry a duration.
func Normalize(a Attachment) AudioRef {
	switch v := a.(type) {
	case DocumentAttachment:
		return AudioRef{FileID: v.FileID, FileName: v.FileName}
	case AudioAttachment:
		return AudioRef{FileID: v.FileID, FileName: v.FileName, Duration: v.Duration}
	case VoiceAttachment:
		return AudioRef{FileID: v.FileID, Duration: v.Duration}
	default:
		return AudioRef{}
	}
}
