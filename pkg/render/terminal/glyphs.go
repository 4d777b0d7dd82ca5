package terminal

// Each cell of the graph column carries the directions a line leaves it in.
// The glyph for a cell is looked up from that mask.
type mask uint8

const (
	up mask = 1 << iota
	down
	left
	right
)

// Glyphs is a character set for painting rows.
type Glyphs struct {
	Node      string // commit
	Reference string // the ancestry reference commit
	Dimmed    string // commit outside the ancestry
	cells     [16]rune
}

// Unicode draws box-drawing lines with rounded corners.
var Unicode = Glyphs{
	Node:      "●",
	Reference: "◉",
	Dimmed:    "○",
	cells: [16]rune{
		0:                        ' ',
		up:                       '│',
		down:                     '│',
		up | down:                '│',
		left:                     '─',
		up | left:                '╯',
		down | left:              '╮',
		up | down | left:         '┤',
		right:                    '─',
		up | right:               '╰',
		down | right:             '╭',
		up | down | right:        '├',
		left | right:             '─',
		up | left | right:        '┴',
		down | left | right:      '┬',
		up | down | left | right: '┼',
	},
}

// ASCII is a fallback for terminals without box-drawing characters.
var ASCII = Glyphs{
	Node:      "*",
	Reference: "@",
	Dimmed:    "o",
	cells: [16]rune{
		0:                        ' ',
		up:                       '|',
		down:                     '|',
		up | down:                '|',
		left:                     '-',
		up | left:                '\'',
		down | left:              '.',
		up | down | left:         '|',
		right:                    '-',
		up | right:               '\'',
		down | right:             '.',
		up | down | right:        '|',
		left | right:             '-',
		up | left | right:        '-',
		down | left | right:      '-',
		up | down | left | right: '+',
	},
}

func (g Glyphs) cell(m mask) rune { return g.cells[m&0xf] }
