package ingest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"runtime"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/coursexp/config"
	"github.com/gcbaptista/coursexp/internal/errors"
	"github.com/gcbaptista/coursexp/internal/persistence"
	testutil "github.com/gcbaptista/coursexp/internal/testing"
	"github.com/gcbaptista/coursexp/store"
)

const testToken = "123:TEST"

// fakeTelegram serves getUpdates from a fixed update list and records the
// offsets it was asked for.
type fakeTelegram struct {
	mu          sync.Mutex
	updates     []Update
	fail        string
	polls       []int64
	acknowledge []int64
}

func (f *fakeTelegram) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if r.URL.Path != "/bot"+testToken+"/getUpdates" {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(apiResponse{OK: false, ErrorCode: 404, Description: "Not Found"})
		return
	}
	if f.fail != "" {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(apiResponse{OK: false, ErrorCode: 401, Description: f.fail})
		return
	}

	offset, _ := strconv.ParseInt(r.URL.Query().Get("offset"), 10, 64)
	if r.URL.Query().Get("limit") == "1" {
		f.acknowledge = append(f.acknowledge, offset)
		_, _ = w.Write([]byte(`{"ok":true,"result":[]}`))
		return
	}
	f.polls = append(f.polls, offset)

	pending := []Update{}
	for _, update := range f.updates {
		if update.UpdateID >= offset {
			pending = append(pending, update)
		}
	}
	result, _ := json.Marshal(pending)
	_ = json.NewEncoder(w).Encode(apiResponse{OK: true, Result: result})
}

func (f *fakeTelegram) polled() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.polls...)
}

func (f *fakeTelegram) acknowledged() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.acknowledge...)
}

func channelPost(updateID, messageID int64, text string) Update {
	return Update{
		UpdateID: updateID,
		ChannelPost: &Message{
			MessageID: messageID,
			Text:      text,
			Chat:      Chat{ID: -100, Username: "IAUCourseExp"},
		},
	}
}

func newTestIngester(t *testing.T, telegram *fakeTelegram) (*Service, config.Settings) {
	t.Helper()
	server := httptest.NewServer(telegram)
	t.Cleanup(server.Close)

	dataPath, lastUpdatePath := testutil.WriteDataset(t, testutil.SampleReviews(), "1402/01/01 - 10:00")
	settings := testutil.NewTestSettings(t, dataPath, lastUpdatePath)
	settings.Ingest.BotToken = testToken
	settings.Ingest.BaseURL = server.URL
	settings.Ingest.RequestInterval = time.Millisecond

	service, err := NewService(settings, nil)
	require.NoError(t, err)
	service.now = func() time.Time { return time.Date(2024, 1, 2, 20, 45, 0, 0, time.UTC) }
	return service, settings
}

func TestService_Run(t *testing.T) {
	telegram := &fakeTelegram{updates: []Update{
		channelPost(100, 1003, formPost), // link of sample review 3
		channelPost(101, 2000, formPost),
		{UpdateID: 102},
		channelPost(103, 2001, "سلام به همه"),
		channelPost(104, 2002, shortPost),
		channelPost(105, 2000, formPost),
	}}
	service, settings := newTestIngester(t, telegram)

	result, err := service.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 6, result.Updates)
	assert.Equal(t, 5, result.Posts)
	assert.Equal(t, 2, result.Parsed)
	assert.Equal(t, 2, result.Added)
	assert.Equal(t, 2, result.Duplicates)
	assert.Equal(t, int64(105), result.LastUpdateID)
	assert.Equal(t, "2024/01/03 - 00:15", result.LastUpdate)
	assert.Equal(t, "2", result.Metadata()["added"])

	reviews, err := store.LoadReviews(settings.DataFile)
	require.NoError(t, err)
	require.Len(t, reviews, 10)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, testutil.IDs(reviews))
	assert.Equal(t, "https://t.me/IAUCourseExp/2000", reviews[8].Link)
	assert.Equal(t, "ساختمان داده", reviews[8].Course)
	assert.Equal(t, "https://t.me/IAUCourseExp/2002", reviews[9].Link)
	assert.Equal(t, "ریاضی ۱", reviews[9].Course)

	assert.Equal(t, "2024/01/03 - 00:15", store.LoadLastUpdate(settings.LastUpdateFile))
	assert.Equal(t, []int64{106}, telegram.acknowledged())

	var cursor Cursor
	require.NoError(t, persistence.LoadGob(settings.Ingest.StateFile, &cursor))
	assert.Equal(t, int64(106), cursor.Offset)

	// The next run resumes after the acknowledged updates and adds nothing.
	result, err = service.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Added)
	assert.Equal(t, []int64{0, 106}, telegram.polled())
}

func TestService_RunWithoutNewReviewsLeavesDatasetAlone(t *testing.T) {
	telegram := &fakeTelegram{updates: []Update{channelPost(7, 3000, "سلام")}}
	service, settings := newTestIngester(t, telegram)

	before, err := os.ReadFile(settings.DataFile)
	require.NoError(t, err)

	result, err := service.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Added)
	assert.Empty(t, result.LastUpdate)

	after, err := os.ReadFile(settings.DataFile)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, "1402/01/01 - 10:00", store.LoadLastUpdate(settings.LastUpdateFile))
	assert.Equal(t, []int64{8}, telegram.acknowledged())
}

func TestService_RunKeepsUpdatesPendingWhenSaveFails(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("needs a path that reads as missing but cannot be created")
	}
	telegram := &fakeTelegram{updates: []Update{channelPost(7, 3000, formPost)}}
	service, settings := newTestIngester(t, telegram)
	service.settings.DataFile = "/proc/coursexp-missing/data.json"

	_, err := service.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save dataset")

	assert.Empty(t, telegram.acknowledged())
	_, err = os.Stat(settings.Ingest.StateFile)
	assert.True(t, os.IsNotExist(err), "cursor must not move past unsaved reviews")

	// Once the dataset is writable again the same updates are picked up.
	service.settings.DataFile = settings.DataFile
	result, err := service.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Added)
	assert.Equal(t, []int64{0, 0}, telegram.polled())
	assert.Equal(t, []int64{8}, telegram.acknowledged())
}

func TestService_RunSkipsOtherChats(t *testing.T) {
	post := channelPost(1, 4000, formPost)
	post.ChannelPost.Chat.Username = "SomeOtherChannel"
	telegram := &fakeTelegram{updates: []Update{post}}
	service, _ := newTestIngester(t, telegram)

	result, err := service.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Posts)
	assert.Equal(t, 0, result.Added)
}

func TestService_RunTelegramError(t *testing.T) {
	telegram := &fakeTelegram{fail: "Unauthorized"}
	service, settings := newTestIngester(t, telegram)

	_, err := service.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrTelegram)
	assert.Contains(t, err.Error(), "Unauthorized")
	assert.NotContains(t, err.Error(), testToken)

	reviews, err := store.LoadReviews(settings.DataFile)
	require.NoError(t, err)
	assert.Len(t, reviews, 8)
}

func TestService_RunRefusesCorruptDataset(t *testing.T) {
	telegram := &fakeTelegram{updates: []Update{channelPost(1, 5000, formPost)}}
	service, settings := newTestIngester(t, telegram)
	require.NoError(t, os.WriteFile(settings.DataFile, []byte("{not json"), 0600))

	_, err := service.Run(context.Background())
	require.Error(t, err)
	assert.Empty(t, telegram.polled(), "Telegram is not polled when the dataset cannot be read")

	raw, err := os.ReadFile(settings.DataFile)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(raw))
}

func TestNewService_RequiresToken(t *testing.T) {
	_, err := NewService(config.Default(), nil)
	assert.ErrorIs(t, err, errors.ErrIngestDisabled)
}
