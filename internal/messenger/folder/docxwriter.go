package folder

import (
	"regexp"
	"strings"
	"time"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	fontName  = "Times New Roman"
	bodySize  = 13
	titleSize = 16
	noteSize  = 10
)

type blockKind int

const (
	blockText blockKind = iota
	blockHeading
	blockBullet
	blockNumbered
)

// block is one rendered paragraph of a summary
type block struct {
	kind  blockKind
	level int
	text  string
}

var (
	reHeading  = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	reBold     = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBullet   = regexp.MustCompile(`^[\-\*•]\s+(.+)$`)
	reNumbered = regexp.MustCompile(`^\d+[\.\)]\s+.+$`)
)

// parseBlocks classifies the lines of a model-written summary.
// Blank lines and horizontal rules are dropped.
func parseBlocks(markdown string) []block {
	var blocks []block
	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "" || line == "---":
		case reHeading.MatchString(line):
			m := reHeading.FindStringSubmatch(line)
			blocks = append(blocks, block{kind: blockHeading, level: len(m[1]), text: m[2]})
		case reBullet.MatchString(line):
			blocks = append(blocks, block{kind: blockBullet, text: reBullet.FindStringSubmatch(line)[1]})
		case reNumbered.MatchString(line):
			blocks = append(blocks, block{kind: blockNumbered, text: line})
		default:
			blocks = append(blocks, block{kind: blockText, text: line})
		}
	}
	return blocks
}

// writeSummaryDocx renders a summary report under a title and a generation note
func writeSummaryDocx(title, markdown, outputPath string, generated time.Time) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	styled(doc.AddParagraph(""), title, titleSize).Bold(true)
	styled(doc.AddParagraph(""), "Generated "+generated.Format("2006-01-02 15:04"), noteSize)

	for _, b := range parseBlocks(markdown) {
		p := doc.AddParagraph("")
		switch b.kind {
		case blockHeading:
			styled(p, stripInline(b.text), headingSize(b.level)).Bold(true)
		case blockBullet:
			addInline(p, "• "+b.text)
		default:
			addInline(p, b.text)
		}
	}

	return doc.SaveTo(outputPath)
}

func headingSize(level int) uint64 {
	if level >= 4 {
		return bodySize
	}
	return uint64(titleSize + 1 - level)
}

func styled(p *docx.Paragraph, text string, size uint64) *docx.Run {
	return p.AddText(text).Font(fontName).Size(size).Color("000000")
}

// addInline writes text as runs, keeping **bold** spans bold
func addInline(p *docx.Paragraph, text string) {
	last := 0
	for _, loc := range reBold.FindAllStringSubmatchIndex(text, -1) {
		if plain := stripInline(text[last:loc[0]]); plain != "" {
			styled(p, plain, bodySize)
		}
		styled(p, stripInline(text[loc[2]:loc[3]]), bodySize).Bold(true)
		last = loc[1]
	}
	if rest := stripInline(text[last:]); rest != "" {
		styled(p, rest, bodySize)
	}
}

func stripInline(s string) string {
	return strings.NewReplacer("**", "", "__", "", "`", "").Replace(s)
}
