package gedcom

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"timemachine/internal/services"
)

const maxLineLength = 1 << 20

// Open reads and parses the file at path.
func Open(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "gedcom", "open", path, err)
	}
	defer f.Close()
	doc, err := Parse(f)
	if err != nil {
		return nil, err
	}
	doc.Path = path
	return doc, nil
}

// Parse reads a GEDCOM stream.
func Parse(r io.Reader) (*Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, services.Wrap(services.ErrExternal, "gedcom", "read", "", err)
	}
	text, charset, err := decode(raw)
	if err != nil {
		return nil, err
	}

	doc := newDocument()
	doc.Header.Charset = charset

	var stack []*Node
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		line = strings.TrimLeft(line, " \t")
		if strings.TrimSpace(line) == "" {
			continue
		}
		node, err := parseLine(line, lineNo)
		if err != nil {
			return nil, err
		}

		if node.Level == 0 {
			stack = append(stack[:0], node)
			doc.addRecord(node)
			continue
		}
		if len(stack) == 0 {
			return nil, lineError(lineNo, "record must start at level 0")
		}
		for len(stack) > node.Level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) != node.Level {
			return nil, lineError(lineNo, fmt.Sprintf("level %d skips a level", node.Level))
		}
		parent := stack[len(stack)-1]
		switch node.Tag {
		case "CONT":
			parent.Value += "\n" + node.Value
			continue
		case "CONC":
			parent.Value += node.Value
			continue
		}
		parent.Children = append(parent.Children, node)
		stack = append(stack, node)
	}
	if err := scanner.Err(); err != nil {
		return nil, services.Wrap(services.ErrValidation, "gedcom", "scan", fmt.Sprintf("line %d", lineNo+1), err)
	}

	doc.finish()
	return doc, nil
}

func parseLine(line string, lineNo int) (*Node, error) {
	levelText, rest, _ := strings.Cut(line, " ")
	level, err := strconv.Atoi(levelText)
	if err != nil || level < 0 || level > 99 {
		return nil, lineError(lineNo, fmt.Sprintf("invalid level %q", levelText))
	}
	rest = strings.TrimLeft(rest, " ")
	node := &Node{Level: level, Line: lineNo}
	if strings.HasPrefix(rest, "@") {
		xref, after, ok := strings.Cut(rest, " ")
		if !ok || !IsPointer(xref) {
			return nil, lineError(lineNo, fmt.Sprintf("malformed cross-reference %q", xref))
		}
		node.XRef = xref
		rest = strings.TrimLeft(after, " ")
	}
	tag, value, _ := strings.Cut(rest, " ")
	if tag == "" {
		return nil, lineError(lineNo, "missing tag")
	}
	node.Tag = strings.ToUpper(tag)
	node.Value = norm.NFC.String(value)
	return node, nil
}

func lineError(lineNo int, msg string) error {
	return services.Wrap(services.ErrValidation, "gedcom", "parse", fmt.Sprintf("line %d: %s", lineNo, msg), nil)
}

// decode converts raw file bytes to a UTF-8 string and reports the charset
// that was applied.
func decode(raw []byte) (string, string, error) {
	switch {
	case bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}):
		return string(raw[3:]), "UTF-8", nil
	case bytes.HasPrefix(raw, []byte{0xFF, 0xFE}), bytes.HasPrefix(raw, []byte{0xFE, 0xFF}):
		dec := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
		return transformString(raw, dec, "UNICODE")
	}

	charset := strings.ToUpper(declaredCharset(raw))
	switch charset {
	case "ANSI", "WINDOWS-1252", "CP1252":
		return transformString(raw, charmap.Windows1252.NewDecoder(), charset)
	case "":
		return string(raw), "UTF-8", nil
	default:
		return string(raw), charset, nil
	}
}

func transformString(raw []byte, dec *encoding.Decoder, charset string) (string, string, error) {
	out, _, err := transform.Bytes(dec, raw)
	if err != nil {
		return "", "", services.Wrap(services.ErrValidation, "gedcom", "decode", charset, err)
	}
	return string(out), charset, nil
}

// declaredCharset scans the header for a "1 CHAR" line.
func declaredCharset(raw []byte) string {
	inHead := false
	for _, line := range bytes.Split(raw, []byte("\n")) {
		fields := strings.Fields(string(line))
		if len(fields) < 2 {
			continue
		}
		if fields[0] == "0" {
			if inHead {
				return ""
			}
			inHead = strings.EqualFold(fields[1], "HEAD")
			continue
		}
		if inHead && fields[0] == "1" && strings.EqualFold(fields[1], "CHAR") && len(fields) > 2 {
			return fields[2]
		}
	}
	return ""
}
