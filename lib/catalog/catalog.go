// Package catalog turns the tables of an exported Google Docs catalog into
// sculpts and their colorways.
package catalog

import (
	"hash/crc32"
	"slices"
	"strconv"
	"strings"
)

type Colorway struct {
	Name        string `json:"name"`
	Img         string `json:"img"`
	Id          string `json:"id"`
	IsCover     bool   `json:"isCover"`
	ReleaseDate string `json:"releaseDate,omitempty"`
	Note        string `json:"note"`
}

type Sculpt struct {
	Id          string     `json:"id"`
	Name        string     `json:"name"`
	ReleaseDate string     `json:"releaseDate,omitempty"`
	Colorways   []Colorway `json:"colorways"`
}

type Catalog struct {
	Id        string   `json:"id"`
	Name      string   `json:"name"`
	Instagram string   `json:"instagram,omitempty"`
	Website   string   `json:"website,omitempty"`
	Sculpts   []Sculpt `json:"sculpts"`
}

// Seed is the per-source information known before anything is scraped.
type Seed struct {
	Name      string
	Instagram string
	Website   string
}

func NewCatalog(seed Seed) Catalog {
	return Catalog{
		Id:        GenId(seed.Name),
		Name:      seed.Name,
		Instagram: seed.Instagram,
		Website:   seed.Website,
		Sculpts:   []Sculpt{},
	}
}

// GenId is the crc32 of input rendered as lowercase hex without padding.
func GenId(input string) string {
	return strconv.FormatUint(uint64(crc32.ChecksumIEEE([]byte(input))), 16)
}

func sculptId(catalogName, sculptName string) string {
	return GenId(catalogName + "-" + sculptName)
}

// SortSculpts orders sculpts by name, keeping the document order of
// sculpts that share a name.
func SortSculpts(sculpts []Sculpt) {
	slices.SortStableFunc(sculpts, func(a, b Sculpt) int {
		return strings.Compare(a.Name, b.Name)
	})
}

func SortColorways(colorways []Colorway) {
	slices.SortStableFunc(colorways, func(a, b Colorway) int {
		return strings.Compare(a.Name, b.Name)
	})
}

// ColorwayCount is the total amount of colorways across all sculpts.
func (c Catalog) ColorwayCount() int {
	count := 0
	for _, s := range c.Sculpts {
		count += len(s.Colorways)
	}
	return count
}
