package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	settings := Settings{}
	settings.ApplyDefaults()

	assert.Equal(t, DefaultDataFile, settings.DataFile)
	assert.Equal(t, DefaultLastUpdateFile, settings.LastUpdateFile)
	assert.Equal(t, 12, settings.PageSize)
	assert.Equal(t, 300*time.Millisecond, settings.GrowDebounce)
	assert.Equal(t, DefaultResultCacheSize, settings.ResultCacheSize)
	assert.Equal(t, "8080", settings.Server.Port)
	assert.Equal(t, "@IAUCourseExp", settings.Ingest.Channel)
	assert.Equal(t, 3*time.Hour+30*time.Minute, settings.Ingest.ClockOffset())
	assert.Empty(t, settings.Validate())
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	settings := Settings{PageSize: 20, GrowDebounce: time.Second, DataFile: "reviews.json"}
	settings.ApplyDefaults()

	assert.Equal(t, 20, settings.PageSize)
	assert.Equal(t, time.Second, settings.GrowDebounce)
	assert.Equal(t, "reviews.json", settings.DataFile)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name           string
		mutate         func(*Settings)
		expectedErrors int
	}{
		{
			name:           "defaults are valid",
			mutate:         func(*Settings) {},
			expectedErrors: 0,
		},
		{
			name:           "negative page size",
			mutate:         func(s *Settings) { s.PageSize = -1 },
			expectedErrors: 1,
		},
		{
			name:           "whitespace data file",
			mutate:         func(s *Settings) { s.DataFile = "   " },
			expectedErrors: 1,
		},
		{
			name: "same file for both documents",
			mutate: func(s *Settings) {
				s.DataFile = "same.json"
				s.LastUpdateFile = "same.json"
			},
			expectedErrors: 1,
		},
		{
			name:           "channel without at sign",
			mutate:         func(s *Settings) { s.Ingest.Channel = "IAUCourseExp" },
			expectedErrors: 1,
		},
		{
			name: "several problems at once",
			mutate: func(s *Settings) {
				s.ResultCacheSize = -5
				s.GrowDebounce = -time.Second
			},
			expectedErrors: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := Default()
			tt.mutate(&settings)
			problems := settings.Validate()
			assert.Len(t, problems, tt.expectedErrors, "problems: %v", problems)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvDataFile: "/srv/data.json",
		EnvPort:     "9000",
		EnvBotToken: "secret",
		EnvChannel:  "@OtherChannel",
	}
	settings := Default()
	settings.ApplyEnv(func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})

	assert.Equal(t, "/srv/data.json", settings.DataFile)
	assert.Equal(t, DefaultLastUpdateFile, settings.LastUpdateFile)
	assert.Equal(t, "9000", settings.Server.Port)
	assert.True(t, settings.Ingest.Enabled())
	assert.Equal(t, "OtherChannel", settings.Ingest.ChannelSlug())
}

func TestIngestSettings_Enabled(t *testing.T) {
	assert.False(t, IngestSettings{}.Enabled())
	assert.False(t, IngestSettings{BotToken: "  "}.Enabled())
	assert.True(t, IngestSettings{BotToken: "123:abc"}.Enabled())
}

func TestLoad_FromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "coursexp.yaml")
	content := `
data_file: data/reviews.json
page_size: 6
grow_debounce: 150ms
server:
  port: "7070"
ingest:
  channel: "@SomeChannel"
  request_timeout: 3s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	t.Setenv(EnvPort, "")
	t.Setenv(EnvDataFile, "")

	settings, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "data/reviews.json", settings.DataFile)
	assert.Equal(t, 6, settings.PageSize)
	assert.Equal(t, 150*time.Millisecond, settings.GrowDebounce)
	assert.Equal(t, "7070", settings.Server.Port)
	assert.Equal(t, "@SomeChannel", settings.Ingest.Channel)
	assert.Equal(t, 3*time.Second, settings.Ingest.RequestTimeout)
	assert.Equal(t, DefaultLastUpdateFile, settings.LastUpdateFile)
}

func TestLoad_UTCLastUpdateClock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coursexp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ingest:\n  utc_offset: 0s\n"), 0600))

	settings, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, settings.Ingest.UTCOffset)
	assert.Equal(t, time.Duration(0), settings.Ingest.ClockOffset())

	assert.Equal(t, DefaultUTCOffset, IngestSettings{}.ClockOffset())
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("page_size: [not a number"), 0600))
	_, err = Load(bad)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("page_size: -3\n"), 0600))
	_, err = Load(invalid)
	assert.ErrorContains(t, err, "page_size")
}

func TestLoad_NoFile(t *testing.T) {
	t.Setenv(EnvPort, "")
	settings, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPageSize, settings.PageSize)
}
