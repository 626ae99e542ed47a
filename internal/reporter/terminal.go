package reporter

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/five82/avmeta/internal/metadata"
	"github.com/five82/avmeta/internal/util"
)

// TerminalReporter outputs human-friendly text to the terminal. Outside a
// batch every snapshot is rendered in full; inside a batch each file gets
// one summary line and a progress bar tracks completion.
type TerminalReporter struct {
	mu       sync.Mutex
	out      io.Writer
	errOut   io.Writer
	width    int
	progress *progressbar.ProgressBar
	inBatch  bool
	verbose  bool
	title    cases.Caser
	cyan     *color.Color
	green    *color.Color
	yellow   *color.Color
	red      *color.Color
	faint    *color.Color
	bold     *color.Color
}

// NewTerminalReporterWithWriters creates a terminal reporter with custom
// writers. Whether color codes are emitted follows color.NoColor.
func NewTerminalReporterWithWriters(out, errOut io.Writer, verbose bool) *TerminalReporter {
	return &TerminalReporter{
		out:     out,
		errOut:  errOut,
		width:   util.DefaultTerminalWidth,
		verbose: verbose,
		title:   cases.Title(language.Und),
		cyan:    color.New(color.FgCyan, color.Bold),
		green:   color.New(color.FgGreen),
		yellow:  color.New(color.FgYellow, color.Bold),
		red:     color.New(color.FgRed, color.Bold),
		faint:   color.New(color.Faint),
		bold:    color.New(color.Bold),
	}
}

// SetWidth sets the column budget for the stream table.
func (r *TerminalReporter) SetWidth(columns int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if columns > 0 {
		r.width = columns
	}
}

// printLabel prints a bold label with fixed width padding followed by a value.
// Width is applied to the plain text before styling to ensure proper alignment.
func (r *TerminalReporter) printLabel(width int, label, value string) {
	paddedLabel := fmt.Sprintf("%-*s", width, label)
	_, _ = fmt.Fprintf(r.out, "  %s %s\n", r.bold.Sprint(paddedLabel), value)
}

func (r *TerminalReporter) header(title string) {
	_, _ = fmt.Fprintln(r.out)
	_, _ = r.cyan.Fprintln(r.out, title)
}

// clearProgress removes the bar before a line is printed. Caller holds mu.
func (r *TerminalReporter) clearProgress() {
	if r.progress != nil {
		_ = r.progress.Clear()
	}
}

func (r *TerminalReporter) advance() {
	if r.progress != nil {
		_ = r.progress.Add(1)
	}
}

func (r *TerminalReporter) BatchStarted(info BatchStartInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.inBatch = true
	r.header("SCAN")
	r.printLabel(10, "Directory:", info.Directory)
	r.printLabel(10, "Files:", fmt.Sprintf("%d", info.TotalFiles))
	r.printLabel(10, "Workers:", fmt.Sprintf("%d", info.Workers))
	if info.Hostname != "" {
		r.printLabel(10, "Host:", fmt.Sprintf("%s (%d CPUs)", info.Hostname, info.CPUs))
	}
	if r.verbose {
		r.printLabel(10, "Run:", r.faint.Sprint(info.RunID))
	}
	_, _ = fmt.Fprintln(r.out)

	r.progress = progressbar.NewOptions(
		info.TotalFiles,
		progressbar.OptionSetDescription(""),
		progressbar.OptionSetWidth(40),
		progressbar.OptionEnableColorCodes(!color.NoColor),
		progressbar.OptionSetWriter(r.errOut),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionShowCount(),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "Probing [",
			BarEnd:        "]",
		}),
	)
}

func (r *TerminalReporter) FileStarted(file FileContext) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.progress != nil {
		r.progress.Describe(util.GetFilename(file.Path))
	}
}

func (r *TerminalReporter) SnapshotReady(result SnapshotResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.inBatch {
		r.renderSnapshot(result)
		return
	}

	r.clearProgress()
	source := ""
	if result.Cached {
		source = r.faint.Sprint(" (cached)")
	}
	_, _ = fmt.Fprintf(r.out, "  %s %s  %s%s\n",
		r.green.Sprint("✓"),
		util.GetFilename(result.Path),
		summarize(result.Snapshot),
		source)
	r.advance()
}

func (r *TerminalReporter) Warning(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clearProgress()
	_, _ = r.yellow.Fprintf(r.errOut, "WARN: %s\n", message)
}

func (r *TerminalReporter) Error(err ReporterError) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clearProgress()
	if r.inBatch && err.Path != "" {
		_, _ = fmt.Fprintf(r.out, "  %s %s  %s\n",
			r.red.Sprint("✗"), util.GetFilename(err.Path), err.Title)
		r.advance()
		if !r.verbose {
			return
		}
	}

	_, _ = fmt.Fprintln(r.errOut)
	_, _ = r.red.Fprintf(r.errOut, "ERROR %s\n", err.Title)
	_, _ = fmt.Fprintf(r.errOut, "  %s\n", err.Message)
	if err.Context != "" {
		_, _ = fmt.Fprintf(r.errOut, "  Context: %s\n", err.Context)
	}
	if err.Suggestion != "" {
		_, _ = fmt.Fprintf(r.errOut, "  Suggestion: %s\n", err.Suggestion)
	}
}

func (r *TerminalReporter) BatchComplete(summary BatchSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.progress != nil {
		_ = r.progress.Finish()
		r.progress = nil
	}
	r.inBatch = false

	r.header("SCAN SUMMARY")
	status := r.green
	if summary.FailedCount > 0 {
		status = r.yellow
	}
	_, _ = fmt.Fprintf(r.out, "  %s\n",
		status.Sprintf("%d of %d projected", summary.SuccessfulCount, summary.TotalFiles))
	if summary.CachedCount > 0 {
		_, _ = fmt.Fprintf(r.out, "  %d from cache\n", summary.CachedCount)
	}
	_, _ = fmt.Fprintf(r.out, "  Time: %s\n", util.FormatDuration(summary.TotalDuration.Seconds()))

	for _, f := range summary.Failures {
		_, _ = fmt.Fprintf(r.out, "  - %s: %s\n", util.GetFilename(f.Path), r.red.Sprint(f.Message))
	}
}

func (r *TerminalReporter) Verbose(message string) {
	if !r.verbose {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clearProgress()
	_, _ = fmt.Fprintf(r.errOut, "%s %s\n", r.faint.Sprint("›"), message)
}

func (r *TerminalReporter) renderSnapshot(result SnapshotResult) {
	snap := result.Snapshot
	if snap == nil {
		return
	}

	r.header("FILE")
	r.printLabel(10, "Path:", result.Path)
	format := snap.Format.Name
	if snap.Format.Description != "" {
		format = fmt.Sprintf("%s (%s)", snap.Format.Name, snap.Format.Description)
	}
	r.printLabel(10, "Format:", format)
	if len(snap.Format.Aliases) > 0 {
		r.printLabel(10, "Aliases:", strings.Join(snap.Format.Aliases, ", "))
	}
	if result.Size > 0 {
		r.printLabel(10, "Size:", util.FormatBytes(uint64(result.Size)))
	}
	if secs, ok := longestDuration(snap); ok {
		r.printLabel(10, "Duration:", util.FormatDuration(secs))
	}
	if result.Cached {
		r.printLabel(10, "Source:", r.faint.Sprint("cache"))
	}

	r.header("STREAMS")
	_, _ = fmt.Fprintln(r.out, r.streamTable(snap))

	if len(snap.Details) > 0 {
		r.header("DETAILS")
		keys := make([]string, 0, len(snap.Details))
		width := 0
		for k := range snap.Details {
			keys = append(keys, k)
			if len(k)+1 > width {
				width = len(k) + 1
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			r.printLabel(width, k+":", snap.Details[k])
		}
	}
}

func (r *TerminalReporter) streamTable(snap *metadata.Snapshot) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Kind", "Codec", "Details", "Flags"})

	for _, s := range snap.Streams {
		kind := r.title.String(s.Kind().String())
		if best, ok := snap.Best.Get(s.Kind()); ok && best == s.Index {
			kind += " *"
		}
		codec := "-"
		if c, ok := metadata.CodecOf(s.Content); ok {
			codec = c.Name
		}
		flags := strings.Join(s.Disposition.Names(), ",")
		tw.AppendRow(table.Row{s.Index, kind, codec, describe(s), flags})
	}

	detailsMax := r.width - 40
	if detailsMax < 20 {
		detailsMax = 20
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 4, WidthMax: detailsMax},
	})
	return tw.Render()
}

// describe renders the kind-specific parameters of a stream on one line.
func describe(s metadata.Stream) string {
	var parts []string
	switch c := s.Content.(type) {
	case metadata.VideoContent:
		parts = append(parts, fmt.Sprintf("%dx%d", c.Width, c.Height))
		if c.PixelFormat != "" {
			parts = append(parts, string(c.PixelFormat))
		}
		if rate := s.AvgFrameRate; !rate.IsZero() {
			parts = append(parts, util.FormatFrameRate(rate.Num, rate.Den))
		}
		if c.TransferCharacteristic.IsHDR() {
			parts = append(parts, "HDR")
		}
		if c.BitRate > 0 {
			parts = append(parts, util.FormatBitRate(c.BitRate))
		}
	case metadata.AudioContent:
		parts = append(parts, util.FormatSampleRate(c.SampleRate))
		layout := string(c.ChannelLayout)
		if layout == "" {
			layout = fmt.Sprintf("%d ch", c.ChannelCount)
		}
		parts = append(parts, layout)
		if c.SampleFormat != "" {
			parts = append(parts, string(c.SampleFormat))
		}
		if c.BitRate > 0 {
			parts = append(parts, util.FormatBitRate(c.BitRate))
		}
	case metadata.SubtitleContent:
		if c.Codec.Description != "" {
			parts = append(parts, c.Codec.Description)
		}
	}
	if secs, ok := s.DurationSeconds(); ok {
		parts = append(parts, util.FormatDuration(secs))
	}
	if secs, ok := s.StartSeconds(); ok && secs > 0 {
		parts = append(parts, fmt.Sprintf("starts at %.3fs", secs))
	}
	return strings.Join(parts, ", ")
}

// summarize renders a one-line description of a snapshot for batch output.
func summarize(snap *metadata.Snapshot) string {
	if snap == nil {
		return ""
	}
	parts := []string{snap.Format.Name}
	if s, ok := snap.BestStream(metadata.KindVideo); ok {
		if v, ok := s.Content.(metadata.VideoContent); ok {
			parts = append(parts, fmt.Sprintf("%s %dx%d", v.Codec.Name, v.Width, v.Height))
		}
	}
	if s, ok := snap.BestStream(metadata.KindAudio); ok {
		if a, ok := s.Content.(metadata.AudioContent); ok {
			parts = append(parts, fmt.Sprintf("%s %dch", a.Codec.Name, a.ChannelCount))
		}
	}
	if n := len(snap.StreamsOf(metadata.KindSubtitle)); n > 0 {
		parts = append(parts, fmt.Sprintf("%d subtitle", n))
	}
	return strings.Join(parts, " · ")
}

func longestDuration(snap *metadata.Snapshot) (float64, bool) {
	var longest float64
	found := false
	for _, s := range snap.Streams {
		if secs, ok := s.DurationSeconds(); ok && secs > longest {
			longest = secs
			found = true
		}
	}
	return longest, found
}
