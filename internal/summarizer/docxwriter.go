package summarizer

import (
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	fontName = "Times New Roman"
	fontSize = 13
)

var (
	reHeading = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	reBold    = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBullet  = regexp.MustCompile(`^[\-\*]\s+(.+)$`)
)

// MarkdownToDocx converts markdown text to a styled docx file.
func MarkdownToDocx(title, markdown, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	addRun(doc.AddParagraph(""), title, true, 16)

	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == "---" {
			continue
		}

		p := doc.AddParagraph("")
		switch m := reHeading.FindStringSubmatch(trimmed); {
		case m != nil:
			addRun(p, m[2], true, headingSize(len(m[1])))
		case reBullet.MatchString(trimmed):
			addRichText(p, "• "+reBullet.FindStringSubmatch(trimmed)[1])
		default:
			// numbered items keep their "1." prefix
			addRichText(p, trimmed)
		}
	}

	return doc.SaveTo(outputPath)
}

// TranscriptToDocx writes a plain transcript as a docx, one paragraph per line.
// Consecutive repeated lines, a common whisper artifact, are collapsed.
func TranscriptToDocx(title, transcript, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	addRun(doc.AddParagraph(""), title, true, 16)
	doc.AddParagraph("")

	var previous string
	for _, line := range strings.Split(transcript, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == previous {
			continue
		}
		previous = trimmed
		p := doc.AddParagraph("")
		addRun(p, trimmed, false, fontSize)
	}

	return doc.SaveTo(outputPath)
}

func headingSize(level int) uint64 {
	if level >= 1 && level <= 3 {
		return uint64(17 - level)
	}
	return fontSize
}

func addRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(stripInlineMarkers(text)).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}

// addRichText renders **bold** spans as bold runs between plain runs.
func addRichText(p *docx.Paragraph, text string) {
	last := 0
	for _, loc := range reBold.FindAllStringSubmatchIndex(text, -1) {
		if loc[0] > last {
			addRun(p, text[last:loc[0]], false, fontSize)
		}
		addRun(p, text[loc[2]:loc[3]], true, fontSize)
		last = loc[1]
	}
	if last < len(text) {
		addRun(p, text[last:], false, fontSize)
	}
}

var inlineMarkers = strings.NewReplacer("**", "", "__", "", "`", "")

func stripInlineMarkers(s string) string {
	return inlineMarkers.Replace(s)
}
