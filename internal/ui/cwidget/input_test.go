package cwidget

import (
	"errors"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntInputValidator(t *testing.T) {
	test.NewTempApp(t)

	in := NewIntInput("Offset", "seconds", 5, 0, func(int) {})

	tests := []struct {
		text    string
		want    int
		wantErr bool
	}{
		{"", 5, false},
		{" 12 ", 12, false},
		{"0", 0, false},
		{"-1", 5, true},
		{"abc", 5, true},
	}

	for _, tt := range tests {
		got, err := in.Validator(tt.text)
		if tt.wantErr {
			assert.Error(t, err, tt.text)
		} else {
			assert.NoError(t, err, tt.text)
		}
		assert.Equal(t, tt.want, got, tt.text)
	}

	_, err := in.Validator("-3")
	assert.True(t, errors.Is(err, ErrBelowMin))
}

func TestIntInputReportsValidValues(t *testing.T) {
	test.NewTempApp(t)

	var got []int
	in := NewIntInput("Max side", "pixels", 0, 0, func(v int) { got = append(got, v) })

	in.handleChange("640")
	in.handleChange("-5")
	in.handleChange("1024")

	require.Equal(t, []int{640, 1024}, got)
	assert.Equal(t, "Max side: 1024", in.labelWidget.Text)
	assert.True(t, in.errorWidget.Hidden)

	in.handleChange("x")
	assert.False(t, in.errorWidget.Hidden)
}

func TestIntInputShowsDefaultInEntry(t *testing.T) {
	test.NewTempApp(t)

	called := false
	in := NewIntInput("Frame at second", "Enter integer", 12, 0, func(int) { called = true })

	assert.Equal(t, "12", in.entryWidget.Text)
	assert.Equal(t, "Frame at second: 12", in.labelWidget.Text)
	assert.False(t, called)
}
