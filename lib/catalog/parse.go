package catalog

import (
	"context"
	"io"
	"kaimporter/lib/htmlutil"
	"kaimporter/lib/telemetry"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("kaimporter.lib.catalog")

type ParseOptions struct {
	// if nil, nothing is reported
	Telemetry telemetry.API
}

// parser holds the running state of a single pass over the tables.
type parser struct {
	catalogName string
	tel         telemetry.API

	// false until a title was read, an empty name still opens a group
	started    bool
	sculptName string
	sculptDate string
	// index of the current group, -1 until the first title is read
	groupIdx int
	groups   map[int]*Sculpt

	skippedTitles int64
	skippedCells  int64
}

// Parse walks tables expecting them to alternate between a title table
// (even positions) holding a sculpt name and a body table (odd positions)
// holding one cell per colorway. The returned catalog is c with its sculpts
// replaced by the ones found in tables.
//
// Malformed titles and cells without an image are skipped, they never fail
// the parse.
func Parse(ctx context.Context, c Catalog, tables *goquery.Selection, opts ParseOptions) Catalog {
	_, span := tracer.Start(ctx, "Parse")
	defer span.End()

	p := &parser{
		catalogName: c.Name,
		tel:         telemetry.NewScopedAPI("catalog", telemetry.Or(opts.Telemetry)),
		groupIdx:    -1,
		groups:      map[int]*Sculpt{},
	}

	tables.Each(func(idx int, table *goquery.Selection) {
		if idx%2 == 0 {
			p.readTitle(idx, table)
			return
		}
		p.readBody(table)
	})

	c.Sculpts = p.sculpts()

	names := make([]string, len(c.Sculpts))
	for i, s := range c.Sculpts {
		names[i] = s.Name
	}
	p.tel.ReportDebug("parsed sculpts", names)
	p.tel.ReportCount("skipped_titles", p.skippedTitles)
	p.tel.ReportCount("skipped_cells", p.skippedCells)

	span.SetAttributes(
		attribute.String("catalog", c.Name),
		attribute.Int("tables", tables.Length()),
		attribute.Int("sculpts", len(c.Sculpts)),
	)
	return c
}

// ParseDocument reads an exported html document and parses every table
// in it, in document order.
func ParseDocument(ctx context.Context, c Catalog, r io.Reader, opts ParseOptions) (Catalog, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return c, err
	}
	return Parse(ctx, c, doc.Find("table"), opts), nil
}

func (p *parser) readTitle(idx int, table *goquery.Selection) {
	first := table.Find("span").First()
	if first.Length() == 0 {
		p.skipTitle(idx, "no span")
		return
	}
	name, ok := htmlutil.FirstChildText(first.Nodes[0])
	if !ok {
		p.skipTitle(idx, "empty span")
		return
	}

	// the date can live in any span of the title, not only the first one
	table.Find("span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		raw := htmlutil.GetText(s.Nodes[0])
		if !TitleDate.Matches(raw) {
			return true
		}
		text := htmlutil.NormalizeQuotes(strings.TrimSpace(raw))
		date, _, ok := TitleDate.Match(text)
		if ok {
			p.sculptDate = date
			name = TitleDate.Strip(name)
		}
		return false
	})

	// the html parser already decoded entities once
	name = strings.TrimSpace(name)
	if !p.started || name != p.sculptName {
		p.started = true
		p.sculptName = name
		p.groupIdx++
	}
}

func (p *parser) skipTitle(idx int, reason string) {
	p.skippedTitles++
	p.tel.ReportWarning("skip-title", idx, reason)
}

func (p *parser) readBody(table *goquery.Selection) {
	table.Find("td").Each(func(_ int, cell *goquery.Selection) {
		img := cell.Find("img").First().AttrOr("src", "")
		if img == "" {
			p.skippedCells++
			return
		}
		if p.groupIdx < 0 {
			p.tel.ReportWarning("image-before-title", img)
			return
		}

		sculpt := p.groups[p.groupIdx]
		if sculpt == nil {
			sculpt = &Sculpt{
				Id:          sculptId(p.catalogName, p.sculptName),
				Name:        p.sculptName,
				ReleaseDate: p.sculptDate,
				Colorways:   []Colorway{},
			}
			p.groups[p.groupIdx] = sculpt
		}
		sculpt.Colorways = append(sculpt.Colorways, parseColorway(cell.Text(), img))
	})
}

// parseColorway strips the cover marker before the date so that neither
// pattern sees the leftovers of the other. Ids hash the locator as it is
// written in the document, with its entities escaped.
func parseColorway(text, img string) Colorway {
	text = htmlutil.NormalizeQuotes(text)

	_, text, isCover := CoverMarker.Match(text)
	releaseDate, text, _ := ColorwayDate.Match(text)

	return Colorway{
		Name:        htmlutil.Decode(text),
		Img:         img,
		Id:          GenId(htmlutil.EscapeAttr(img)),
		IsCover:     isCover,
		ReleaseDate: releaseDate,
		Note:        "",
	}
}

// sculpts materializes the groups that received at least one colorway, in
// group order.
func (p *parser) sculpts() []Sculpt {
	indexes := make([]int, 0, len(p.groups))
	for idx := range p.groups {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	out := make([]Sculpt, 0, len(indexes))
	for _, idx := range indexes {
		out = append(out, *p.groups[idx])
	}
	return out
}
