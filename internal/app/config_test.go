package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/9304065865a/podolog/internal/models"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const minimalConfig = `
telegram:
  token: "123:abc"
  admin_id: 99
database:
  host: localhost
`

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, int64(99), cfg.Core.Telegram.AdminID)
	assert.Equal(t, "photos", cfg.Photos.Dir)

	opts := cfg.ScheduleOptions()
	assert.Equal(t, models.MustTimeOfDay("09:00"), opts.WorkStart)
	assert.Equal(t, models.MustTimeOfDay("19:00"), opts.WorkEnd)
	assert.Equal(t, models.MustTimeOfDay("13:00"), opts.LunchStart)
	assert.Equal(t, models.MustTimeOfDay("14:00"), opts.LunchEnd)
	assert.Equal(t, 30, opts.SlotLen)
	assert.Equal(t, 10, opts.DaysAhead)
}

func TestLoadConfigOverrides(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, minimalConfig+`
schedule:
  work_start: "10:00"
  work_end: "16:00"
  lunch_start: "12:00"
  lunch_end: "12:30"
  appointment_duration_minutes: 60
  days_ahead: 5
photos:
  dir: /var/lib/podolog/photos
`))
	require.NoError(t, err)

	opts := cfg.ScheduleOptions()
	assert.Equal(t, models.MustTimeOfDay("10:00"), opts.WorkStart)
	assert.Equal(t, 60, opts.SlotLen)
	assert.Equal(t, 5, opts.DaysAhead)
	assert.Equal(t, "/var/lib/podolog/photos", cfg.Photos.Dir)
}

func TestLoadConfigRejectsBadSchedule(t *testing.T) {
	cases := map[string]string{
		"inverted work window": `
schedule:
  work_start: "19:00"
  work_end: "09:00"
`,
		"lunch outside work": `
schedule:
  lunch_start: "08:00"
`,
		"zero slot length": `
schedule:
  appointment_duration_minutes: 0
`,
		"unparseable time": `
schedule:
  work_start: "morning"
`,
		"zero horizon": `
schedule:
  days_ahead: 0
`,
	}
	for name, extra := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, minimalConfig+extra))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigRequiresToken(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `
telegram:
  admin_id: 99
`))
	assert.Error(t, err)
}
