package pragma

import (
	"bytes"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
)

// readMoreMarker splits a post into the excerpt shown on the index and the
// rest. The parser passes it through untouched so the renderers can find it
// in the converted HTML.
const readMoreMarker = "#MORE"

// Markdown converts pragma's markdown dialect to HTML. The dialect covers
// headings, paragraphs, bold/italic/code/underline spans (which may span
// lines), links, images with optional captions, unordered and ordered
// lists, blockquotes, horizontal rules and image galleries. Raw HTML passes
// through untouched. The zero value is ready to use; galleries need
// GalleryFS.
type Markdown struct {
	// GalleryFS is the file system that !!(dir) galleries list their
	// images from, rooted at the site output directory. If nil, gallery
	// syntax is emitted literally.
	GalleryFS fs.FS
}

// markdownState tracks the spans and blocks that are open across lines
// while a document is converted. Each call to Convert gets a fresh state,
// so one Markdown value can convert documents in parallel.
type markdownState struct {
	md        *Markdown
	bold      bool
	italic    bool
	code      bool
	underline bool
	ul        bool
	ol        bool
	quote     bool
}

// Convert converts one document from the markdown dialect to HTML. It
// always succeeds; text it cannot make sense of is emitted literally.
func (md *Markdown) Convert(input string) string {
	input = strings.ReplaceAll(input, "\r\n", "\n")
	state := &markdownState{md: md}
	buf := bufPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer func() {
		if buf.Cap() <= maxPoolableBufferCapacity {
			bufPool.Put(buf)
		}
	}()
	for _, line := range strings.Split(input, "\n") {
		state.line(buf, line)
	}
	state.close(buf)
	return buf.String()
}

// line classifies one line (without its trailing newline) and emits the
// corresponding block.
func (state *markdownState) line(buf *bytes.Buffer, line string) {
	level := headingLevel(line)
	switch {
	case line == "":
		// Blank lines separate paragraphs but emit nothing and leave
		// open lists alone.
	case line == readMoreMarker:
		state.closeBlocks(buf)
		buf.WriteString(readMoreMarker)
		buf.WriteString("\n")
	case isHorizontalRule(line):
		state.closeBlocks(buf)
		buf.WriteString("<hr>\n")
	case level > 0:
		state.closeBlocks(buf)
		buf.WriteString("<h" + strconv.Itoa(level) + ">")
		state.inline(buf, line[level+1:])
		buf.WriteString("</h" + strconv.Itoa(level) + ">\n")
	case strings.HasPrefix(line, "- "):
		state.closeOrderedList(buf)
		state.closeQuote(buf)
		if !state.ul {
			state.ul = true
			buf.WriteString("<ul>\n")
		}
		buf.WriteString("<li>")
		state.inline(buf, line[2:])
		buf.WriteString("</li>\n")
	case len(line) >= 2 && line[0] >= '0' && line[0] <= '9' && line[1] == '.':
		state.closeUnorderedList(buf)
		state.closeQuote(buf)
		if !state.ol {
			state.ol = true
			buf.WriteString("<ol>\n")
		}
		buf.WriteString("<li>")
		state.inline(buf, strings.TrimPrefix(line[2:], " "))
		buf.WriteString("</li>\n")
	case line[0] == '>':
		state.closeUnorderedList(buf)
		state.closeOrderedList(buf)
		if !state.quote {
			state.quote = true
			buf.WriteString("<blockquote>")
		}
		buf.WriteString("<p>")
		state.inline(buf, strings.TrimPrefix(line[1:], " "))
		buf.WriteString("</p>")
	default:
		state.closeBlocks(buf)
		buf.WriteString("<p>")
		state.inline(buf, line)
		buf.WriteString("</p>\n")
	}
}

// inline emits one line's text with span toggles, links, images and
// galleries resolved. Backslash-escaped characters are emitted literally.
func (state *markdownState) inline(buf *bytes.Buffer, line string) {
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch c {
		case '\\':
			if i+1 < len(line) {
				i++
				buf.WriteByte(line[i])
			} else {
				buf.WriteByte(c)
			}
		case '*':
			if i+1 < len(line) && line[i+1] == '*' {
				if state.bold {
					buf.WriteString("</strong>")
				} else {
					buf.WriteString("<strong>")
				}
				state.bold = !state.bold
				i++
			} else {
				if state.italic {
					buf.WriteString("</i>")
				} else {
					buf.WriteString("<i>")
				}
				state.italic = !state.italic
			}
		case '`':
			if state.code {
				buf.WriteString("</code>")
			} else {
				buf.WriteString("<code>")
			}
			state.code = !state.code
		case '_':
			if state.underline {
				buf.WriteString("</u>")
			} else {
				buf.WriteString("<u>")
			}
			state.underline = !state.underline
		case '[':
			text, url, title, n, ok := parseBracketed(line[i:])
			if !ok {
				buf.WriteByte('[')
				break
			}
			buf.WriteString(`<a href="`)
			buf.WriteString(url)
			if title != "" {
				buf.WriteString(`" title="`)
				buf.WriteString(title)
			}
			buf.WriteString(`">`)
			buf.WriteString(text)
			buf.WriteString("</a>")
			i += n - 1
		case '!':
			if strings.HasPrefix(line[i:], "![") {
				alt, url, caption, n, ok := parseBracketed(line[i+1:])
				if !ok {
					buf.WriteByte('!')
					break
				}
				if caption != "" {
					buf.WriteString("<figure>")
				}
				buf.WriteString(`<img class="post" src="`)
				buf.WriteString(url)
				buf.WriteString(`" alt="`)
				buf.WriteString(alt)
				buf.WriteString(`">`)
				if caption != "" {
					buf.WriteString("<figcaption>")
					buf.WriteString(caption)
					buf.WriteString("</figcaption></figure>")
				}
				i += n
				break
			}
			if strings.HasPrefix(line[i:], "!!(") {
				end := strings.IndexByte(line[i+3:], ')')
				if end < 0 {
					// No closing paren on this line, emit the rest
					// verbatim.
					buf.WriteString(line[i:])
					return
				}
				dir := line[i+3 : i+3+end]
				if !state.md.gallery(buf, dir) {
					buf.WriteString(line[i : i+3+end+1])
				}
				i += 3 + end
				break
			}
			buf.WriteByte('!')
		default:
			buf.WriteByte(c)
		}
	}
}

// parseBracketed parses a [text](url) or [text](url "title") construct at
// the start of s. It reports the number of bytes consumed and whether the
// construct was well formed.
func parseBracketed(s string) (text, url, title string, n int, ok bool) {
	if len(s) == 0 || s[0] != '[' {
		return "", "", "", 0, false
	}
	bracket := strings.Index(s, "](")
	if bracket < 0 {
		return "", "", "", 0, false
	}
	text = s[1:bracket]
	rest := s[bracket+2:]
	end := strings.IndexByte(rest, ')')
	if end < 0 {
		return "", "", "", 0, false
	}
	url = rest[:end]
	if i := strings.Index(url, ` "`); i >= 0 && strings.HasSuffix(url, `"`) {
		title = url[i+2 : len(url)-1]
		url = url[:i]
	}
	return text, url, title, bracket + 2 + end + 1, true
}

// gallery emits GLightbox markup for every image in dir, skipping
// thumbnails. It reports false if the directory cannot be listed, in which
// case nothing is emitted.
func (md *Markdown) gallery(buf *bytes.Buffer, dir string) bool {
	if md.GalleryFS == nil {
		return false
	}
	fsysPath := strings.Trim(dir, "/")
	if fsysPath == "" || !fs.ValidPath(fsysPath) {
		return false
	}
	entries, err := fs.ReadDir(md.GalleryFS, fsysPath)
	if err != nil {
		return false
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, "thumb") {
			continue
		}
		switch strings.ToLower(path.Ext(name)) {
		case ".jpg", ".jpeg", ".png":
			names = append(names, name)
		}
	}
	sort.Strings(names)
	dir = strings.TrimSuffix(dir, "/")
	buf.WriteString(`<div class="gallery">` + "\n")
	for _, name := range names {
		ext := path.Ext(name)
		stem := strings.TrimSuffix(name, ext)
		buf.WriteString(`<a href="`)
		buf.WriteString(dir + "/" + name)
		buf.WriteString(`" class="glightbox" data-glightbox="descPosition: right;" data-gallery="`)
		buf.WriteString(path.Base(dir))
		buf.WriteString(`" data-title="" data-description=""><img src="`)
		buf.WriteString(dir + "/thumb" + stem + ext)
		buf.WriteString(`" alt="`)
		buf.WriteString(stem)
		buf.WriteString(`"></a>` + "\n")
	}
	buf.WriteString("</div>")
	return true
}

// close force-closes everything still open at the end of the document:
// lists first, then spans, then any open blockquote.
func (state *markdownState) close(buf *bytes.Buffer) {
	state.closeUnorderedList(buf)
	state.closeOrderedList(buf)
	if state.bold {
		state.bold = false
		buf.WriteString("</strong>")
	}
	if state.italic {
		state.italic = false
		buf.WriteString("</i>")
	}
	if state.code {
		state.code = false
		buf.WriteString("</code>")
	}
	if state.underline {
		state.underline = false
		buf.WriteString("</u>")
	}
	state.closeQuote(buf)
}

// closeBlocks closes any open list or blockquote ahead of a block that
// doesn't continue them.
func (state *markdownState) closeBlocks(buf *bytes.Buffer) {
	state.closeUnorderedList(buf)
	state.closeOrderedList(buf)
	state.closeQuote(buf)
}

func (state *markdownState) closeUnorderedList(buf *bytes.Buffer) {
	if state.ul {
		state.ul = false
		buf.WriteString("</ul>\n")
	}
}

func (state *markdownState) closeOrderedList(buf *bytes.Buffer) {
	if state.ol {
		state.ol = false
		buf.WriteString("</ol>\n")
	}
}

func (state *markdownState) closeQuote(buf *bytes.Buffer) {
	if state.quote {
		state.quote = false
		buf.WriteString("</blockquote>\n")
	}
}

// headingLevel returns the heading level of line, or 0 if the line is not
// a heading. A heading is a run of one to six #s followed by a space, so a
// bare #MORE marker is not a heading.
func headingLevel(line string) int {
	level := 0
	for level < len(line) && line[level] == '#' && level < 6 {
		level++
	}
	if level == 0 || level >= len(line) || line[level] != ' ' {
		return 0
	}
	return level
}

// isHorizontalRule reports whether line is three or more of the same
// character from - * _ with nothing but whitespace between them.
func isHorizontalRule(line string) bool {
	var marker byte
	n := 0
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == ' ' || c == '\t' {
			continue
		}
		if c != '-' && c != '*' && c != '_' {
			return false
		}
		if marker == 0 {
			marker = c
		} else if c != marker {
			return false
		}
		n++
	}
	return n >= 3
}
