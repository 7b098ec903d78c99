package ingest

import (
	"context"
	stderrors "errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gcbaptista/coursexp/config"
	"github.com/gcbaptista/coursexp/internal/errors"
	"github.com/gcbaptista/coursexp/internal/persistence"
	"github.com/gcbaptista/coursexp/model"
	"github.com/gcbaptista/coursexp/store"
)

// LastUpdateLayout is the layout of the last-update marker.
const LastUpdateLayout = "2006/01/02 - 15:04"

// Poller is the part of the Bot API the ingester needs.
type Poller interface {
	GetUpdates(ctx context.Context, offset int64) ([]Update, error)
	Acknowledge(ctx context.Context, offset int64) error
}

// Cursor is the persisted polling position.
type Cursor struct {
	Offset  int64
	LastRun time.Time
}

// Result summarizes one ingest run.
type Result struct {
	Updates      int
	Posts        int
	Parsed       int
	Added        int
	Duplicates   int
	LastUpdateID int64
	LastUpdate   string // empty unless the dataset changed
}

// Metadata renders the result for a job record.
func (r Result) Metadata() map[string]string {
	metadata := map[string]string{
		"updates":    fmt.Sprint(r.Updates),
		"posts":      fmt.Sprint(r.Posts),
		"parsed":     fmt.Sprint(r.Parsed),
		"added":      fmt.Sprint(r.Added),
		"duplicates": fmt.Sprint(r.Duplicates),
	}
	if r.LastUpdate != "" {
		metadata["last_update"] = r.LastUpdate
	}
	return metadata
}

// Service appends new channel reviews to the dataset document.
type Service struct {
	settings config.Settings
	poller   Poller
	now      func() time.Time
}

// NewService creates an ingester. It fails when no bot token is configured.
func NewService(settings config.Settings, poller Poller) (*Service, error) {
	if !settings.Ingest.Enabled() {
		return nil, errors.ErrIngestDisabled
	}
	if poller == nil {
		poller = NewClient(settings.Ingest)
	}
	return &Service{settings: settings, poller: poller, now: time.Now}, nil
}

// Run polls the channel once. New reviews get IDs after the current maximum
// and are appended in update order. Posts whose link is already in the
// dataset are skipped. The dataset is only rewritten when something was added.
func (s *Service) Run(ctx context.Context) (Result, error) {
	var result Result

	reviews, err := store.LoadReviews(s.settings.DataFile)
	if err != nil {
		return result, fmt.Errorf("refusing to ingest over unreadable dataset: %w", err)
	}
	existing := store.NewReviewStore(reviews)

	cursor := s.loadCursor()
	updates, err := s.poller.GetUpdates(ctx, cursor.Offset)
	if err != nil {
		return result, err
	}
	result.Updates = len(updates)

	seen := make(map[string]struct{})
	nextID := existing.MaxID()
	channel := s.settings.Ingest.ChannelSlug()
	var added []model.Review

	for _, update := range updates {
		result.LastUpdateID = update.UpdateID
		post := update.ChannelPost
		if post == nil || !fromChannel(post, channel) {
			continue
		}
		result.Posts++

		link := PostLink(channel, post.MessageID)
		if _, dup := seen[link]; dup || existing.HasLink(link) {
			result.Duplicates++
			continue
		}

		review, ok := ParsePost(post.Text, post.MessageID, channel)
		if !ok {
			continue
		}
		result.Parsed++
		nextID++
		review.ID = nextID
		added = append(added, review)
		seen[link] = struct{}{}
	}

	if len(added) == 0 {
		s.advance(ctx, cursor, result.LastUpdateID)
		log.Printf("Ingest: no new reviews in %d updates", result.Updates)
		return result, nil
	}

	// The cursor only moves once the reviews are on disk.
	if err := store.SaveReviews(s.settings.DataFile, append(reviews, added...)); err != nil {
		return result, fmt.Errorf("failed to save dataset: %w", err)
	}
	result.Added = len(added)

	stamp := s.now().UTC().Add(s.settings.Ingest.ClockOffset()).Format(LastUpdateLayout)
	if err := store.SaveLastUpdate(s.settings.LastUpdateFile, stamp); err != nil {
		return result, fmt.Errorf("failed to save last-update marker: %w", err)
	}
	result.LastUpdate = stamp
	s.advance(ctx, cursor, result.LastUpdateID)

	log.Printf("Ingest: added %d new reviews (ids %d-%d)", result.Added, added[0].ID, nextID)
	return result, nil
}

// advance acknowledges everything up to lastUpdateID and persists the cursor.
func (s *Service) advance(ctx context.Context, cursor Cursor, lastUpdateID int64) {
	if lastUpdateID > 0 {
		offset := lastUpdateID + 1
		if err := s.poller.Acknowledge(ctx, offset); err != nil {
			log.Printf("Warning: Failed to acknowledge updates up to %d: %v", lastUpdateID, err)
		}
		cursor.Offset = offset
	}
	cursor.LastRun = s.now()
	if err := persistence.SaveGob(s.settings.Ingest.StateFile, cursor); err != nil {
		log.Printf("Warning: Failed to save ingest cursor to %s: %v", s.settings.Ingest.StateFile, err)
	}
}

func (s *Service) loadCursor() Cursor {
	var cursor Cursor
	err := persistence.LoadGob(s.settings.Ingest.StateFile, &cursor)
	switch {
	case err == nil:
	case stderrors.Is(err, os.ErrNotExist):
	default:
		log.Printf("Warning: Failed to load ingest cursor from %s: %v. Polling from the start.", s.settings.Ingest.StateFile, err)
		cursor = Cursor{}
	}
	return cursor
}

// fromChannel accepts posts of the configured channel. Posts without a
// username come from private chats the bot was added to and are accepted.
func fromChannel(post *Message, channel string) bool {
	return post.Chat.Username == "" || post.Chat.Username == channel
}
