package format

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kweiss/deskpilot/pkg/models"
)

type fakeSerializer struct {
	kind     models.ArtifactKind
	ext      string
	probeErr error
}

func (f *fakeSerializer) Kind() models.ArtifactKind    { return f.kind }
func (f *fakeSerializer) Extension() string            { return f.ext }
func (f *fakeSerializer) Probe() error                 { return f.probeErr }
func (f *fakeSerializer) Write(any) (string, error)    { return "", nil }

func TestResolveWithoutSerializers(t *testing.T) {
	r := NewResolver(zerolog.Nop())

	d := r.Resolve(models.KindDocument)
	if d.Tier != models.TierPlain {
		t.Errorf("tier = %s, want plain", d.Tier)
	}
	if d.Extension != ".txt" {
		t.Errorf("extension = %s, want .txt", d.Extension)
	}
}

func TestResolveRichTier(t *testing.T) {
	r := NewResolver(zerolog.Nop(), &fakeSerializer{kind: models.KindPresentation, ext: ".pptx"})

	d := r.Resolve(models.KindPresentation)
	if d.Tier != models.TierRich {
		t.Errorf("tier = %s, want rich", d.Tier)
	}
	if d.Extension != ".pptx" {
		t.Errorf("extension = %s, want .pptx", d.Extension)
	}

	// Other kinds stay plain.
	if d := r.Resolve(models.KindDocument); d.Tier != models.TierPlain {
		t.Errorf("document tier = %s, want plain", d.Tier)
	}
}

func TestProbeFailureFallsBack(t *testing.T) {
	probe := Unavailable(models.KindSpreadsheet, errors.New("library missing"))
	if !errors.Is(probe, ErrSerializerUnavailable) {
		t.Fatal("Unavailable should wrap ErrSerializerUnavailable")
	}

	r := NewResolver(zerolog.Nop(), &fakeSerializer{kind: models.KindSpreadsheet, ext: ".xlsx", probeErr: probe})

	d := r.Resolve(models.KindSpreadsheet)
	if d.Tier != models.TierPlain {
		t.Errorf("tier after failed probe = %s, want plain", d.Tier)
	}
	if _, ok := r.Serializer(models.KindSpreadsheet); ok {
		t.Error("failed serializer should not be registered")
	}
}

func TestResolveDeterministic(t *testing.T) {
	r := NewResolver(zerolog.Nop(), &fakeSerializer{kind: models.KindDocument, ext: ".docx"})

	first := r.Resolve(models.KindDocument)
	for i := 0; i < 10; i++ {
		if got := r.Resolve(models.KindDocument); got != first {
			t.Fatalf("resolution changed between calls: %v vs %v", got, first)
		}
	}
}
