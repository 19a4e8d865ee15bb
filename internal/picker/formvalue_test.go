package picker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keenthemes/ktui-picker/internal/datetime"
	"github.com/keenthemes/ktui-picker/internal/store"
)

func TestParseFormValueSingle(t *testing.T) {
	p, err := ParseFormValue("2024-03-15", ModeSingle, time.UTC)
	require.NoError(t, err)

	st := store.New(store.WithoutBatching())
	require.True(t, st.Update(p, store.SourceProgram, true))

	snap := st.GetState()
	require.NotNil(t, snap.SelectedDate)
	assert.Equal(t, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), *snap.SelectedDate)
	assert.Equal(t, time.March, snap.CursorMonth.Month())
}

func TestParseFormValueSingleWithTime(t *testing.T) {
	p, err := ParseFormValue("2024-03-15 14:05:09", ModeSingle, time.UTC)
	require.NoError(t, err)

	st := store.New(store.WithoutBatching())
	require.True(t, st.Update(p, store.SourceProgram, true))

	snap := st.GetState()
	require.NotNil(t, snap.SelectedTime)
	assert.Equal(t, datetime.TimeOfDay{Hour: 14, Minute: 5, Second: 9}, *snap.SelectedTime)

	// Round trip through the serializer.
	assert.Equal(t, "2024-03-15 14:05:09", FormValue(snap, ModeSingle))
}

func TestParseFormValueRange(t *testing.T) {
	p, err := ParseFormValue("2024-03-10 – 2024-03-20", ModeRange, time.UTC)
	require.NoError(t, err)

	st := store.New(store.WithoutBatching())
	require.True(t, st.Update(p, store.SourceProgram, true))

	snap := st.GetState()
	require.NotNil(t, snap.SelectedRange)
	require.NotNil(t, snap.SelectedRange.Start)
	require.NotNil(t, snap.SelectedRange.End)
	assert.Equal(t, 10, snap.SelectedRange.Start.Day())
	assert.Equal(t, 20, snap.SelectedRange.End.Day())
}

func TestParseFormValueIncompleteRange(t *testing.T) {
	p, err := ParseFormValue("2024-03-10 – ", ModeRange, time.UTC)
	require.NoError(t, err)

	st := store.New(store.WithoutBatching())
	require.True(t, st.Update(p, store.SourceProgram, true))

	snap := st.GetState()
	require.NotNil(t, snap.SelectedRange)
	assert.Nil(t, snap.SelectedRange.End)
}

func TestParseFormValueMulti(t *testing.T) {
	p, err := ParseFormValue("2024-03-10, 2024-03-12, 2024-03-15", ModeMulti, time.UTC)
	require.NoError(t, err)

	st := store.New(store.WithoutBatching())
	require.True(t, st.Update(p, store.SourceProgram, true))

	snap := st.GetState()
	require.Len(t, snap.SelectedDates, 3)
	assert.Equal(t, 10, snap.SelectedDates[0].Day())
	assert.Equal(t, 15, snap.SelectedDates[2].Day())
}

func TestParseFormValueRejectsGarbage(t *testing.T) {
	_, err := ParseFormValue("not a date", ModeSingle, time.UTC)
	assert.Error(t, err)

	_, err = ParseFormValue("nope – 2024-03-20", ModeRange, time.UTC)
	assert.Error(t, err)
}

func TestParseFormValueEmpty(t *testing.T) {
	p, err := ParseFormValue("", ModeSingle, time.UTC)
	require.NoError(t, err)
	assert.True(t, p.Empty())
}
