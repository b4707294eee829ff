package main

import (
	"fmt"
	"io"
	"slices"
	"sync"

	"video-annotate/pkg/annotate"

	"github.com/fatih/color"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	timeColor   = color.New(color.FgYellow)
	warnColor   = color.New(color.FgYellow)
	errorColor  = color.New(color.FgRed)
	okColor     = color.New(color.FgGreen)
)

// terminalView prints the annotations of the current video. Identical
// consecutive renders are printed once.
type terminalView struct {
	mu   sync.Mutex
	out  io.Writer
	url  string
	last []annotate.Annotation
}

func newTerminalView(out io.Writer) *terminalView {
	return &terminalView{out: out}
}

func (v *terminalView) Render(url string, annotations []annotate.Annotation) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.last != nil && url == v.url && slices.Equal(annotations, v.last) {
		return
	}
	v.url = url
	v.last = slices.Clone(annotations)
	if v.last == nil {
		v.last = []annotate.Annotation{}
	}
	printAnnotations(v.out, url, annotations)
}

func printAnnotations(out io.Writer, url string, annotations []annotate.Annotation) {
	headerColor.Fprintf(out, "%s (%d)\n", url, len(annotations))
	for _, a := range annotations {
		timeColor.Fprintf(out, "  [%s]", formatTime(a.Time))
		fmt.Fprintf(out, " %s\n", a.Content)
	}
}

// formatTime renders seconds as m:ss.s, or h:mm:ss.s past an hour.
func formatTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := int(seconds) / 3600
	m := int(seconds) / 60 % 60
	s := seconds - float64(h*3600+m*60)
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%04.1f", h, m, s)
	}
	return fmt.Sprintf("%d:%04.1f", m, s)
}
