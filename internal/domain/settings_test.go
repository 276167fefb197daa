package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsMapRoundTrip(t *testing.T) {
	core := win("09:00", "12:00")
	s := Settings{
		Name:                "Ada",
		NorthStar:           "Ship the engine",
		DayDuration:         win("06:00", "22:00"),
		CoreTime:            &core,
		WorkingDuration:     50,
		Hobbies:             "climbing",
		IntermittentFasting: true,
	}

	m := SettingsToMap(s)
	assert.JSONEq(t, `{"start":"06:00","end":"22:00"}`, m[SettingDayDuration])
	assert.Equal(t, "true", m[SettingIntermittentFasting])
	assert.NotContains(t, m, SettingProfile, "empty optional values are omitted")

	back, err := MapToSettings(m)
	require.NoError(t, err)
	assert.Equal(t, s, back)
}

func TestMapToSettings_Defaults(t *testing.T) {
	s, err := MapToSettings(map[string]string{"unrelated": "x"})
	require.NoError(t, err)
	assert.Equal(t, DefaultDayWindow(), s.DayDuration)
	assert.Nil(t, s.CoreTime)
	assert.False(t, s.IntermittentFasting)
}

func TestMapToSettings_InvalidJSON(t *testing.T) {
	_, err := MapToSettings(map[string]string{SettingDayDuration: `{"start":`})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSettingsApply(t *testing.T) {
	var s Settings
	require.NoError(t, s.Apply(SettingDayDuration, "07:00-19:30"))
	assert.Equal(t, win("07:00", "19:30"), s.DayDuration)

	require.NoError(t, s.Apply(SettingCoreTime, `{"start":"08:00","end":"11:00"}`))
	require.NotNil(t, s.CoreTime)
	assert.Equal(t, win("08:00", "11:00"), *s.CoreTime)

	assert.ErrorIs(t, s.Apply(SettingWorkingDuration, "10"), ErrValidation)
	assert.ErrorIs(t, s.Apply(SettingWorkingDuration, "abc"), ErrValidation)
	require.NoError(t, s.Apply(SettingWorkingDuration, "90"))
	assert.Equal(t, 90, s.WorkingDuration)

	assert.ErrorIs(t, s.Apply(SettingIntermittentFasting, "maybe"), ErrValidation)
	assert.ErrorIs(t, s.Apply("colour", "red"), ErrValidation)

	require.NoError(t, s.Clear(SettingCoreTime))
	assert.Nil(t, s.CoreTime)
	require.NoError(t, s.Clear(SettingDayDuration))
	assert.Equal(t, DefaultDayWindow(), s.DayDuration)
}

func TestSettingsNormalize(t *testing.T) {
	core := win("04:00", "06:00")
	s := Settings{DayDuration: win("10:00", "09:00"), CoreTime: &core}
	s.Normalize()
	assert.Equal(t, win("10:00", "11:00"), s.DayDuration)
	assert.Equal(t, win("10:00", "11:00"), *s.CoreTime)
}

func TestCleanGoals(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, CleanGoals([]string{" a ", "", "  ", "b"}))
}
