// Package terminal paints railway layouts as text.
//
// Every lane takes two character cells: the lane itself and a gap that
// horizontal connectors cross. Node lines show the commit glyph in its lane
// and a vertical rail for every lane passing by. Edge lines are drawn from
// the segments of a [railway.EdgeRow]: each segment marks the directions it
// leaves a cell in, and the combined mask selects a box-drawing character,
// so a branch reads as ├─╮ and a merge as ├─╯.
//
//	●    d41c2a9 (HEAD, main) Merge topic
//	├─╮
//	│ ●  c2e8f01 (topic) Add parser
//	● │  b7a3d55 Fix typo
//	├─╯
//	●    a0f1e2c Initial commit
//
// [Paint] produces unstyled [Line] values that interactive views can style
// themselves; [Render] writes a whole layout with [Styles] applied. The zero
// [Styles] value writes plain text, [DefaultStyles] colors rails by lane and
// greys out commits outside the ancestry of the reference.
package terminal
