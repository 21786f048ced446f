package qmap

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/4lt/qmpp/internal/errx"
)

// Parse reads a .map text file and returns the entities it describes, in
// file order. Comment lines (leading //) and blank lines are ignored.
//
// Grammar, approximately:
//
//	map     := entity*
//	entity  := "{" (keyvalue | brush)* "}"
//	keyvalue:= STRING STRING
//	brush   := "{" plane* "}"
//	plane   := "(" vec3 ")" "(" vec3 ")" "(" vec3 ")" WORD alignment
//	alignment := standard | valve220
//	standard  := NUM NUM NUM NUM NUM
//	valve220  := "[" NUM NUM NUM NUM "]" "[" NUM NUM NUM NUM "]" NUM NUM NUM
func Parse(r io.Reader) (*Map, error) {
	toks, err := tokenize(r)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}

	var m Map
	for !p.atEnd() {
		ent, err := p.parseEntity()
		if err != nil {
			return nil, err
		}
		m.Entities = append(m.Entities, ent)
	}
	return &m, nil
}

type token struct {
	text  string
	quote bool
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) atEnd() bool { return p.pos >= len(p.toks) }

func (p *parser) peek() (token, bool) {
	if p.atEnd() {
		return token{}, false
	}
	return p.toks[p.pos], true
}

func (p *parser) next() (token, error) {
	t, ok := p.peek()
	if !ok {
		return token{}, errx.With(ErrUnexpectedEOF, "")
	}
	p.pos++
	return t, nil
}

func (p *parser) expect(text string) error {
	t, err := p.next()
	if err != nil {
		return err
	}
	if t.text != text {
		return errx.With(ErrUnexpectedToken, ": expected %q, got %q", text, t.text)
	}
	return nil
}

func (p *parser) parseEntity() (Entity, error) {
	var ent Entity
	if err := p.expect("{"); err != nil {
		return ent, err
	}

	for {
		t, ok := p.peek()
		if !ok {
			return ent, errx.With(ErrUnexpectedEOF, ": entity missing closing brace")
		}
		if t.text == "}" {
			p.pos++
			return ent, nil
		}
		if t.text == "{" {
			brush, err := p.parseBrush()
			if err != nil {
				return ent, err
			}
			ent.HasBrushes = true
			ent.Brushes = append(ent.Brushes, brush)
			continue
		}

		key, err := p.next()
		if err != nil {
			return ent, err
		}
		value, err := p.next()
		if err != nil {
			return ent, err
		}
		ent.Edict.Set(key.text, value.text)
	}
}

func (p *parser) parseBrush() (Brush, error) {
	var brush Brush
	if err := p.expect("{"); err != nil {
		return brush, err
	}

	for {
		t, ok := p.peek()
		if !ok {
			return brush, errx.With(ErrUnexpectedEOF, ": brush missing closing brace")
		}
		if t.text == "}" {
			p.pos++
			return brush, nil
		}

		surf, err := p.parseSurface()
		if err != nil {
			return brush, err
		}
		brush.Surfaces = append(brush.Surfaces, surf)
	}
}

func (p *parser) parseVec3() (Vec3, error) {
	var v Vec3
	if err := p.expect("("); err != nil {
		return v, err
	}
	for i := range v {
		f, err := p.parseFloat()
		if err != nil {
			return v, err
		}
		v[i] = f
	}
	if err := p.expect(")"); err != nil {
		return v, err
	}
	return v, nil
}

func (p *parser) parseFloat() (float64, error) {
	t, err := p.next()
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(t.text, 64)
	if err != nil {
		return 0, errx.With(ErrMalformedNumber, ": %q", t.text)
	}
	return f, nil
}

func (p *parser) parseSurface() (Surface, error) {
	var surf Surface

	p0, err := p.parseVec3()
	if err != nil {
		return surf, err
	}
	p1, err := p.parseVec3()
	if err != nil {
		return surf, err
	}
	p2, err := p.parseVec3()
	if err != nil {
		return surf, err
	}
	surf.HalfSpace = HalfSpace{p0, p1, p2}

	tex, err := p.next()
	if err != nil {
		return surf, err
	}
	surf.Texture = tex.text

	next, ok := p.peek()
	if !ok {
		return surf, errx.With(ErrUnexpectedEOF, ": surface missing alignment")
	}

	if next.text == "[" {
		alignment, err := p.parseValve220()
		if err != nil {
			return surf, err
		}
		surf.Alignment = alignment
	} else {
		alignment, err := p.parseStandard()
		if err != nil {
			return surf, err
		}
		surf.Alignment = alignment
	}
	return surf, nil
}

func (p *parser) parseStandard() (Alignment, error) {
	var a Alignment
	a.Kind = Standard

	offsetX, err := p.parseFloat()
	if err != nil {
		return a, err
	}
	offsetY, err := p.parseFloat()
	if err != nil {
		return a, err
	}
	rotation, err := p.parseFloat()
	if err != nil {
		return a, err
	}
	scaleX, err := p.parseFloat()
	if err != nil {
		return a, err
	}
	scaleY, err := p.parseFloat()
	if err != nil {
		return a, err
	}

	a.Base = BaseAlignment{
		Offset:   [2]float64{offsetX, offsetY},
		Rotation: rotation,
		Scale:    [2]float64{scaleX, scaleY},
	}
	return a, nil
}

func (p *parser) parseValve220() (Alignment, error) {
	var a Alignment
	a.Kind = Valve220

	uAxis, uOffset, err := p.parseAxis()
	if err != nil {
		return a, err
	}
	vAxis, vOffset, err := p.parseAxis()
	if err != nil {
		return a, err
	}

	rotation, err := p.parseFloat()
	if err != nil {
		return a, err
	}
	scaleX, err := p.parseFloat()
	if err != nil {
		return a, err
	}
	scaleY, err := p.parseFloat()
	if err != nil {
		return a, err
	}

	a.Base = BaseAlignment{
		Offset:   [2]float64{uOffset, vOffset},
		Rotation: rotation,
		Scale:    [2]float64{scaleX, scaleY},
	}
	a.Axes = [2]Vec3{uAxis, vAxis}
	return a, nil
}

func (p *parser) parseAxis() (Vec3, float64, error) {
	var axis Vec3
	if err := p.expect("["); err != nil {
		return axis, 0, err
	}
	for i := range axis {
		f, err := p.parseFloat()
		if err != nil {
			return axis, 0, err
		}
		axis[i] = f
	}
	offset, err := p.parseFloat()
	if err != nil {
		return axis, 0, err
	}
	if err := p.expect("]"); err != nil {
		return axis, 0, err
	}
	return axis, offset, nil
}

// tokenize splits the input into brace/bracket/paren punctuation and
// whitespace-delimited words, honoring double-quoted strings (which may
// contain spaces) and "//" line comments.
func tokenize(r io.Reader) ([]token, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var toks []token
	for scanner.Scan() {
		line := scanner.Text()
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		lineToks, err := tokenizeLine(line)
		if err != nil {
			return nil, err
		}
		toks = append(toks, lineToks...)
	}
	if err := scanner.Err(); err != nil {
		return nil, errx.Wrap(ErrUnexpectedEOF, err)
	}
	return toks, nil
}

func tokenizeLine(line string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(line) {
		c := line[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case c == '{' || c == '}' || c == '(' || c == ')' || c == '[' || c == ']':
			toks = append(toks, token{text: string(c)})
			i++
		case c == '"':
			j := i + 1
			for j < len(line) && line[j] != '"' {
				j++
			}
			if j >= len(line) {
				return nil, errx.With(ErrUnexpectedEOF, ": unterminated quoted string")
			}
			toks = append(toks, token{text: line[i+1 : j], quote: true})
			i = j + 1
		default:
			j := i
			for j < len(line) && !isTokenBoundary(line[j]) {
				j++
			}
			toks = append(toks, token{text: line[i:j]})
			i = j
		}
	}
	return toks, nil
}

func isTokenBoundary(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '{', '}', '(', ')', '[', ']', '"':
		return true
	default:
		return false
	}
}
