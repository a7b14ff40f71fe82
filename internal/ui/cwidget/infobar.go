package cwidget

import (
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// InfoBar shows status lines on a translucent dark panel.
type InfoBar struct {
	widget.BaseWidget

	background  *canvas.Rectangle
	linesWidget *widget.Label
}

func NewInfoBar(lines ...string) *InfoBar {
	bar := &InfoBar{}

	bar.background = canvas.NewRectangle(color.NRGBA{0, 0, 0, 0xB3})
	bar.background.CornerRadius = 8

	bar.linesWidget = widget.NewLabel(strings.Join(lines, "\n"))
	bar.linesWidget.TextStyle = fyne.TextStyle{Monospace: true}
	bar.linesWidget.Importance = widget.HighImportance

	bar.ExtendBaseWidget(bar)

	return bar
}

func (bar *InfoBar) CreateRenderer() fyne.WidgetRenderer {
	c := container.NewStack(
		bar.background,
		container.NewPadded(bar.linesWidget),
	)

	return widget.NewSimpleRenderer(c)
}

func (bar *InfoBar) SetLines(lines []string) {
	bar.linesWidget.SetText(strings.Join(lines, "\n"))
}

func (bar *InfoBar) Lines() []string {
	return strings.Split(bar.linesWidget.Text, "\n")
}
