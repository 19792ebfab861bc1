package contig

import "github.com/aria-lang/contigflow/internal/readpool"

// TemplateGuess describes where the mate of a newly placed read sits.
type TemplateGuess struct {
	MateID     int
	MateDir    int
	InsertSize int
}

type templateCheck struct {
	code     Code
	mate     *Placed
	affected []int
	guess    *TemplateGuess
}

// checkTemplate tests a prospective placement against an already placed
// mate. slack widens the insert size bounds by that many percent.
func (c *Contig) checkTemplate(r *readpool.Read, dir, start, end, slack int) templateCheck {
	tpl := r.Template
	if tpl.ID == 0 {
		return templateCheck{}
	}

	var mate *Placed
	var mateRead *readpool.Read
	for _, id := range c.templates[tpl.ID] {
		if id == r.ID {
			continue
		}
		if p, ok := c.reads.LookupByID(id); ok {
			if mr, ok := c.read(id); ok {
				mate, mateRead = p, mr
				break
			}
		}
	}
	if mate == nil {
		return templateCheck{}
	}

	fail := func(code Code) templateCheck {
		return templateCheck{code: code, mate: mate, affected: []int{mate.ReadID}}
	}
	if (dir == mate.Dir) != tpl.SameDirection {
		return fail(TemplateWrongDirection)
	}
	if !segmentsInOrder(tpl, mateRead.Template.Segment, dir, start, end, mate) {
		return fail(SegmentPlacementMismatch)
	}

	size := maxInt(end, mate.End()) - minInt(start, mate.Offset)
	if lo := tpl.MinInsert * (100 - slack) / 100; size < lo {
		return fail(TemplateSizeTooSmall)
	}
	if tpl.MaxInsert > 0 && size > tpl.MaxInsert*(100+slack)/100 {
		return fail(TemplateSizeTooLarge)
	}
	return templateCheck{
		mate:  mate,
		guess: &TemplateGuess{MateID: mate.ReadID, MateDir: mate.Dir, InsertSize: size},
	}
}

// segmentsInOrder checks the relative position of two mates. Facing mates
// need the forward read to start before the reverse read ends; mates in the
// same direction need the first segment to lead.
func segmentsInOrder(tpl readpool.Template, mateSeg, dir, start, end int, mate *Placed) bool {
	if !tpl.SameDirection {
		if dir > 0 {
			return start < mate.End()
		}
		return mate.Offset < end
	}

	if tpl.Segment == 0 || mateSeg == 0 || tpl.Segment == mateSeg {
		return true
	}
	first, second := start, mate.Offset
	if tpl.Segment > mateSeg {
		first, second = second, first
	}
	if dir > 0 {
		return first <= second
	}
	return first >= second
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
