// Package format decides the concrete output tier for each artifact kind.
// Rich serializers are external collaborators; availability is probed once
// at construction and the decision never changes within a process run.
package format

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kweiss/deskpilot/pkg/models"
)

// ErrSerializerUnavailable is reported by a serializer probe when its
// backing writer cannot be used. It triggers the plain-tier fallback and is
// logged once at startup, never surfaced per task.
var ErrSerializerUnavailable = errors.New("serializer unavailable")

// Serializer writes one artifact kind in its rich native format.
type Serializer interface {
	// Kind is the artifact kind this serializer covers.
	Kind() models.ArtifactKind
	// Extension is the file extension written, including the dot.
	Extension() string
	// Probe reports whether the serializer can be used. Called once at
	// startup; a failure wraps ErrSerializerUnavailable.
	Probe() error
	// Write serializes content and returns the written path. Content is
	// workspace-level (workspace.Document, workspace.Deck, ...) depending
	// on Kind.
	Write(content any) (string, error)
}

// Decision is the resolved output format for an artifact kind.
type Decision struct {
	// Tier is rich when a serializer is available, plain otherwise.
	Tier models.FormatTier `json:"tier"`
	// Extension is the file extension for the tier.
	Extension string `json:"extension"`
}

// Resolver caches per-kind serializer availability.
type Resolver struct {
	serializers map[models.ArtifactKind]Serializer
	log         zerolog.Logger
}

// NewResolver probes each serializer once and records the survivors.
// Probe failures are logged and demote that kind to the plain tier; they are
// never an error for the caller.
func NewResolver(log zerolog.Logger, serializers ...Serializer) *Resolver {
	r := &Resolver{
		serializers: make(map[models.ArtifactKind]Serializer),
		log:         log,
	}
	for _, s := range serializers {
		if err := s.Probe(); err != nil {
			log.Warn().
				Str("kind", string(s.Kind())).
				Err(err).
				Msg("rich serializer unavailable, falling back to plain tier")
			continue
		}
		r.serializers[s.Kind()] = s
	}
	return r
}

// Resolve returns the format decision for an artifact kind. The same inputs
// always yield the same decision within a process run.
func (r *Resolver) Resolve(kind models.ArtifactKind) Decision {
	if s, ok := r.serializers[kind]; ok {
		return Decision{Tier: models.TierRich, Extension: s.Extension()}
	}
	return Decision{Tier: models.TierPlain, Extension: ".txt"}
}

// Serializer returns the available rich serializer for kind, if any.
func (r *Resolver) Serializer(kind models.ArtifactKind) (Serializer, bool) {
	s, ok := r.serializers[kind]
	return s, ok
}

// Unavailable constructs a probe failure for a serializer.
func Unavailable(kind models.ArtifactKind, cause error) error {
	return fmt.Errorf("%w for %s: %v", ErrSerializerUnavailable, kind, cause)
}
