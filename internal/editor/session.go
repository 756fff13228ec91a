// Package editor owns the working copy of one optimization result during an
// edit session. Scalar edits delegate to the pure document operations;
// regenerations are scoped to a single fragment so concurrent edits to
// sibling fields are never lost.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mohanadbarakat001/ATS/internal/document"
	"github.com/mohanadbarakat001/ATS/internal/generation"
	"github.com/mohanadbarakat001/ATS/internal/types"
)

// ErrFragmentBusy is returned when a regeneration is already in flight for
// the targeted fragment.
var ErrFragmentBusy = errors.New("a regeneration is already in flight for this fragment")

// maxParallelRegenerations caps the fan-out of bulk bullet regeneration
const maxParallelRegenerations = 4

// Content is a detached snapshot of everything editable in a session
type Content struct {
	Resume          types.ResumeDocument
	CoverLetter     string
	LinkedInSummary string
}

// Session holds the mutable working copy of one result. A session is safe for
// concurrent use; regeneration results landing after Load or Discard are
// dropped rather than written into a document that no longer has a live view.
type Session struct {
	mu    sync.Mutex
	doc   types.ResumeDocument
	cover string
	linkd string
	epoch int
	busy  map[string]bool
	gen   generation.Generator
}

// NewSession creates a session seeded from a generated or historical result
func NewSession(gen generation.Generator, result types.OptimizationResult) *Session {
	s := &Session{
		gen:  gen,
		busy: make(map[string]bool),
	}
	s.load(result)
	return s
}

// load replaces the working copy. Callers must not hold the lock.
func (s *Session) load(result types.OptimizationResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = document.Clone(result.OptimizedResume)
	s.cover = result.CoverLetter
	s.linkd = result.LinkedInSummary
	s.epoch++
	s.busy = make(map[string]bool)
}

// Load replaces the working copy with another result. Any regeneration still
// in flight against the previous copy is discarded when it lands.
func (s *Session) Load(result types.OptimizationResult) {
	s.load(result)
}

// Discard abandons the working copy. In-flight regenerations complete
// silently without touching session state.
func (s *Session) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = types.ResumeDocument{}
	s.cover = ""
	s.linkd = ""
	s.epoch++
	s.busy = make(map[string]bool)
}

// Snapshot returns a detached copy of the current content
func (s *Session) Snapshot() Content {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Content{
		Resume:          document.Clone(s.doc),
		CoverLetter:     s.cover,
		LinkedInSummary: s.linkd,
	}
}

// SetContactField replaces one contact scalar
func (s *Session) SetContactField(field document.ContactField, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := document.SetContactField(s.doc, field, value)
	if err != nil {
		return err
	}
	s.doc = doc
	return nil
}

// SetSummary replaces the professional summary
func (s *Session) SetSummary(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = document.SetSummary(s.doc, text)
}

// SetExperienceField replaces one scalar of an experience entry
func (s *Session) SetExperienceField(ref document.EntryRef, field document.ExperienceField, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := document.SetExperienceField(s.doc, ref, field, value)
	if err != nil {
		return err
	}
	s.doc = doc
	return nil
}

// SetBullet replaces one bullet's text
func (s *Session) SetBullet(ref document.EntryRef, bulletIndex int, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := document.SetBullet(s.doc, ref, bulletIndex, text)
	if err != nil {
		return err
	}
	s.doc = doc
	return nil
}

// SetSkills re-splits the comma-joined skill line
func (s *Session) SetSkills(commaJoined string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = document.SetSkills(s.doc, commaJoined)
}

// SetCoverLetter replaces the cover letter body
func (s *Session) SetCoverLetter(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cover = text
}

// SetLinkedInSummary replaces the LinkedIn summary text
func (s *Session) SetLinkedInSummary(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.linkd = text
}

// BulletBusy reports whether a regeneration is in flight for one bullet
func (s *Session) BulletBusy(ref document.EntryRef, bulletIndex int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, err := document.LocateExperience(s.doc, ref)
	if err != nil {
		return false
	}
	return s.busy[bulletKey(s.doc.Experience[idx].ID, bulletIndex)]
}

func bulletKey(entryID string, bulletIndex int) string {
	return fmt.Sprintf("bullet/%s/%d", entryID, bulletIndex)
}

const (
	summaryKey     = "summary"
	coverLetterKey = "coverLetter"
)

// RegenerateBullet rewrites one bullet through the generative engine using
// the fixed results-oriented instruction. At most one regeneration per bullet
// may be in flight; edits to other fields made while the call is outstanding
// are preserved. An empty engine response leaves the bullet unchanged.
func (s *Session) RegenerateBullet(ctx context.Context, ref document.EntryRef, bulletIndex int) error {
	s.mu.Lock()
	idx, err := document.LocateExperience(s.doc, ref)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	entryID := s.doc.Experience[idx].ID
	current, err := document.Bullet(s.doc, document.ByID(entryID), bulletIndex)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	key := bulletKey(entryID, bulletIndex)
	if s.busy[key] {
		s.mu.Unlock()
		return ErrFragmentBusy
	}
	s.busy[key] = true
	epoch := s.epoch
	s.mu.Unlock()

	rewritten, genErr := s.gen.RegenerateFragment(ctx, current, generation.BulletInstruction(), generation.FragmentBullet)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.busy, key)

	// The session was reset or reloaded while the call was outstanding;
	// the late result must not write into a discarded document.
	if s.epoch != epoch {
		return nil
	}
	if genErr != nil {
		return genErr
	}
	if rewritten == current {
		return nil
	}

	doc, err := document.SetBullet(s.doc, document.ByID(entryID), bulletIndex, rewritten)
	if err != nil {
		return err
	}
	s.doc = doc
	return nil
}

// RegenerateSummary rewrites the professional summary in place
func (s *Session) RegenerateSummary(ctx context.Context, instruction string) error {
	return s.regenerateText(ctx, summaryKey, instruction, generation.FragmentSummary,
		func() string { return s.doc.Summary },
		func(text string) { s.doc = document.SetSummary(s.doc, text) },
	)
}

// RegenerateCoverLetter rewrites the cover letter in place
func (s *Session) RegenerateCoverLetter(ctx context.Context, instruction string) error {
	return s.regenerateText(ctx, coverLetterKey, instruction, generation.FragmentCoverLetter,
		func() string { return s.cover },
		func(text string) { s.cover = text },
	)
}

// regenerateText runs a keyed single-fragment regeneration with the same busy
// and epoch discipline as bullet regeneration. The getters/setters are invoked
// with the session lock held.
func (s *Session) regenerateText(ctx context.Context, key, instruction string, kind generation.FragmentKind, get func() string, set func(string)) error {
	s.mu.Lock()
	if s.busy[key] {
		s.mu.Unlock()
		return ErrFragmentBusy
	}
	s.busy[key] = true
	current := get()
	epoch := s.epoch
	s.mu.Unlock()

	rewritten, genErr := s.gen.RegenerateFragment(ctx, current, instruction, kind)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.busy, key)

	if s.epoch != epoch {
		return nil
	}
	if genErr != nil {
		return genErr
	}
	if rewritten != current {
		set(rewritten)
	}
	return nil
}

// RegenerateAllBullets rewrites every bullet in the document. Regenerations
// on distinct bullets overlap; bullets already busy are skipped.
func (s *Session) RegenerateAllBullets(ctx context.Context) error {
	s.mu.Lock()
	type target struct {
		entryID string
		bullet  int
	}
	var targets []target
	for _, exp := range s.doc.Experience {
		for b := range exp.Bullets {
			targets = append(targets, target{entryID: exp.ID, bullet: b})
		}
	}
	s.mu.Unlock()

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelRegenerations)

	for _, t := range targets {
		g.Go(func() error {
			err := s.RegenerateBullet(gCtx, document.ByID(t.entryID), t.bullet)
			if errors.Is(err, ErrFragmentBusy) {
				return nil
			}
			return err
		})
	}

	return g.Wait()
}
