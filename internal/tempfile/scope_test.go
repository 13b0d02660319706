package tempfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/nguyentantai21042004/voice-digest/internal/logger"
)

func TestReleaseRemovesTrackedFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	s := NewScope(dir, logger.New("error"))

	audio, err := s.Path("audio_1_10.ogg")
	if err != nil {
		t.Fatalf("Path() error = %v", err)
	}
	if err := os.WriteFile(audio, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	wav := audio + ".wav"
	if err := os.WriteFile(wav, []byte("y"), 0644); err != nil {
		t.Fatal(err)
	}
	s.Track(wav)

	s.Release(context.Background())

	for _, p := range []string{audio, wav} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("%s still exists after Release", p)
		}
	}
	if len(s.Paths()) != 0 {
		t.Errorf("Paths() = %v after Release, want empty", s.Paths())
	}
}

func TestReleaseToleratesMissingFiles(t *testing.T) {
	tests := []struct {
		name  string
		setup func(s *Scope)
	}{
		{"nothing tracked", func(s *Scope) {}},
		{"tracked but never created", func(s *Scope) { _, _ = s.Path("audio_2_20.mp3") }},
		{"empty path ignored", func(s *Scope) { s.Track("") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScope(t.TempDir(), logger.New("error"))
			tt.setup(s)
			s.Release(context.Background())
			s.Release(context.Background())
		})
	}
}
