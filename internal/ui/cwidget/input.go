package cwidget

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

var ErrBelowMin = errors.New("value is below the minimum")

// Input is a labelled entry that only reports values its Validator accepts.
type Input[T any] struct {
	widget.BaseWidget

	labelWidget *widget.Label
	entryWidget *widget.Entry
	errorWidget *widget.Label

	LabelText   string
	Placeholder string

	DefaultValue T

	OnChanged func(T)

	Validator func(string) (T, error)
	Format    func(T) string
}

// NewIntInput accepts integers >= min. An empty entry means defaultValue.
func NewIntInput(label, placeholder string, defaultValue, minValue int, onChanged func(int)) *Input[int] {
	input := &Input[int]{
		LabelText:    label,
		Placeholder:  placeholder,
		OnChanged:    onChanged,
		DefaultValue: defaultValue,
		Format:       strconv.Itoa,
	}

	input.Validator = func(s string) (int, error) {
		s = strings.TrimSpace(s)
		if s == "" {
			return input.DefaultValue, nil
		}

		res, err := strconv.Atoi(s)
		if err != nil {
			return input.DefaultValue, fmt.Errorf("%q is not a whole number", s)
		}
		if res < minValue {
			return input.DefaultValue, fmt.Errorf("%w (%d)", ErrBelowMin, minValue)
		}
		return res, nil
	}

	input.build()
	return input
}

func (item *Input[T]) build() {
	item.labelWidget = widget.NewLabel(item.caption(item.DefaultValue))
	item.labelWidget.TextStyle = fyne.TextStyle{Bold: true}

	item.entryWidget = widget.NewEntry()
	item.entryWidget.SetPlaceHolder(item.Placeholder)
	// Filled before OnChanged is attached so the saved value is not reported back.
	if item.Format != nil {
		item.entryWidget.SetText(item.Format(item.DefaultValue))
	}

	item.errorWidget = widget.NewLabel("")
	item.errorWidget.Hidden = true
	item.errorWidget.TextStyle = fyne.TextStyle{Italic: true}
	item.errorWidget.Importance = widget.DangerImportance

	item.entryWidget.OnChanged = item.handleChange

	item.ExtendBaseWidget(item)
}

func (item *Input[T]) handleChange(s string) {
	res, err := item.Validator(s)
	item.SetError(err)

	if err == nil {
		if item.OnChanged != nil {
			item.OnChanged(res)
		}
		item.labelWidget.SetText(item.caption(res))
	}
}

func (item *Input[T]) caption(v T) string {
	if item.Format == nil {
		return fmt.Sprintf("%s: %v", item.LabelText, v)
	}
	return fmt.Sprintf("%s: %s", item.LabelText, item.Format(v))
}

func (item *Input[T]) CreateRenderer() fyne.WidgetRenderer {
	c := container.NewVBox(
		item.labelWidget,
		item.entryWidget,
		item.errorWidget,
	)

	return widget.NewSimpleRenderer(c)
}

func (item *Input[T]) SetError(err error) {
	item.errorWidget.Hidden = err == nil
	if err != nil {
		item.errorWidget.SetText(err.Error())
	}
	item.errorWidget.Refresh()
}

func (item *Input[T]) SetText(text string) {
	item.entryWidget.SetText(text)
}
